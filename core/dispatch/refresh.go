package dispatch

import (
	"fmt"
	"net/url"
	"strings"
)

// refreshStub builds the minimal meta-refresh HTML used for redirect and
// no-content flows. The browser lands on target; msg, sev and page ride
// along as query parameters when present.
func refreshStub(target, msg, sev, page string) string {
	q := url.Values{}
	if msg != "" {
		q.Set(ParamMsg, msg)
		q.Set(ParamSev, sev)
	}
	if page != "" {
		q.Set(ParamPage, page)
	}
	if enc := q.Encode(); enc != "" {
		if strings.Contains(target, "?") {
			target += "&" + enc
		} else {
			target += "?" + enc
		}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta http-equiv="Refresh" content="0; url=%s">
</head>
<body></body>
</html>
`, target)
}
