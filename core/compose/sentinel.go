package compose

import "strings"

// Failure sentinels. Composition returns text unconditionally; these
// prefixes let the dispatcher distinguish failures from page bodies and
// convert them into proper error responses instead of serving them.
const (
	notFoundPrefix   = "NOTFOUND:"
	parseErrorPrefix = "PARERROR:"
)

// notFound builds the sentinel for an unresolvable resource.
func notFound(path string) string {
	return notFoundPrefix + path
}

// parseError builds the sentinel for a composition failure.
func parseError(path, msg string) string {
	return parseErrorPrefix + path + ":" + msg
}

// IsNotFound reports whether composed output is a resource-missing sentinel.
func IsNotFound(out string) bool {
	return strings.HasPrefix(out, notFoundPrefix)
}

// IsParseError reports whether composed output is a composition-failure
// sentinel.
func IsParseError(out string) bool {
	return strings.HasPrefix(out, parseErrorPrefix)
}

// NotFoundPath extracts the resource path from a NOTFOUND sentinel.
func NotFoundPath(out string) string {
	return strings.TrimPrefix(out, notFoundPrefix)
}

// ParseErrorParts extracts the resource path and message from a PARERROR
// sentinel.
func ParseErrorParts(out string) (path, msg string) {
	rest := strings.TrimPrefix(out, parseErrorPrefix)
	path, msg, _ = strings.Cut(rest, ":")
	return path, msg
}
