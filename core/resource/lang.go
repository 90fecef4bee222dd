package resource

import (
	"slices"
	"strings"
)

// ParseLang extracts a leading language segment from a request URI, given
// the configured languages. Returns the language and the URI with the
// segment removed. URIs without a recognized language come back unchanged
// with an empty language.
//
//	ParseLang("/de/orders/index", []string{"en", "de"}) // "de", "/orders/index"
//	ParseLang("/orders/index", []string{"en", "de"})    // "", "/orders/index"
func ParseLang(uri string, configured []string) (string, string) {
	trimmed := strings.TrimPrefix(uri, "/")
	seg, rest, found := strings.Cut(trimmed, "/")
	if !slices.Contains(configured, seg) {
		return "", uri
	}
	if !found {
		return seg, "/"
	}
	return seg, "/" + rest
}

// StripLang removes a leading language segment from a request URI, if any.
func StripLang(uri string, configured []string) string {
	_, rest := ParseLang(uri, configured)
	return rest
}
