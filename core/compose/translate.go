package compose

import "strings"

// translateTags resolves {$l.key} and {$l.key,arg1,arg2} tags against the
// translation catalog for the given language.
func (c *Composer) translateTags(text, lang string) string {
	if !strings.Contains(text, "{$l.") {
		return text
	}

	var b strings.Builder
	for {
		i := strings.Index(text, "{$l.")
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := strings.Index(text[i:], "}")
		if end < 0 {
			// Unterminated tag, emit as-is so the breakage is visible.
			b.WriteString(text)
			return b.String()
		}

		b.WriteString(text[:i])

		tag := text[i+len("{$l.") : i+end]
		parts := strings.Split(tag, ",")
		key := strings.TrimSpace(parts[0])
		args := make([]string, 0, len(parts)-1)
		for _, arg := range parts[1:] {
			args = append(args, strings.TrimSpace(arg))
		}
		b.WriteString(c.catalog.T(lang, key, args...))

		text = text[i+end+1:]
	}
}
