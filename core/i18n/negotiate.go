package i18n

import (
	"golang.org/x/text/language"
)

// Negotiate picks the best configured language for an Accept-Language
// header. Falls back to the default language for empty or malformed
// headers and for languages outside the configured set.
func (i *I18n) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return i.defaultLang
	}

	supported := make([]language.Tag, 0, len(i.languages))
	for _, lang := range i.languages {
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
	}
	if len(supported) == 0 {
		return i.defaultLang
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return i.defaultLang
	}

	_, index, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return i.defaultLang
	}
	return i.languages[index]
}
