package compose

import "strings"

// attrOpenings are the attribute openings whose values get the deployment
// path prefix. The last byte of each opening is the quote that also
// terminates the value.
var attrOpenings = []string{`href="`, `src="`, `action="`, `location='`}

// rewritePaths inserts the deployment path prefix into root-relative
// attribute values. Fragments (#...), template references ({...}), absolute
// http(s) links and already-prefixed values are left alone. Absolute links
// that somehow carry the prefix in front of their scheme lose it again.
func rewritePaths(text, prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return text
	}
	for _, attr := range attrOpenings {
		text = rewriteAttr(text, attr, prefix)
	}
	return text
}

func rewriteAttr(text, attr, prefix string) string {
	if !strings.Contains(text, attr) {
		return text
	}
	quote := attr[len(attr)-1]

	var b strings.Builder
	for {
		i := strings.Index(text, attr)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i+len(attr)])
		rest := text[i+len(attr):]

		j := strings.IndexByte(rest, quote)
		if j < 0 {
			b.WriteString(rest)
			return b.String()
		}

		b.WriteString(rewriteValue(rest[:j], prefix))
		b.WriteByte(quote)
		text = rest[j+1:]
	}
}

func rewriteValue(val, prefix string) string {
	switch {
	case strings.HasPrefix(val, prefix+"/http://"), strings.HasPrefix(val, prefix+"/https://"):
		// Reverse accidental prefixing of an absolute link.
		return strings.TrimPrefix(val, prefix+"/")
	case strings.HasPrefix(val, "http://"), strings.HasPrefix(val, "https://"):
		return val
	case strings.HasPrefix(val, prefix+"/"), val == prefix:
		return val
	case strings.HasPrefix(val, "//"):
		// Protocol-relative external link.
		return val
	case strings.HasPrefix(val, "/"):
		return prefix + val
	default:
		// Fragments, {$...} references and relative paths stay untouched.
		return val
	}
}
