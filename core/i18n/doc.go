// Package i18n provides translation catalogs for page rendering.
//
// An I18n instance is immutable after construction and safe for concurrent
// use. Lookup walks a fixed chain: the requested language, then the default
// language, then the global fallback catalog. A key missing everywhere comes
// back wrapped in question marks ("?orders.title?") so untranslated keys are
// visible in rendered pages instead of silently blank.
//
//	i, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithLanguages("en", "de"),
//		i18n.WithTranslations("en", map[string]string{
//			"orders.saved": "Order {0} saved.",
//		}),
//		i18n.WithFallback(map[string]string{
//			"app.name": "pagekit",
//		}),
//	)
//
//	i.T("en", "orders.saved", "A-1042") // "Order A-1042 saved."
//
// Arguments fill positional {0}, {1}, ... placeholders and are HTML-escaped,
// since translated text lands directly in composed markup.
//
// Negotiate picks the best configured language for an Accept-Language
// header using golang.org/x/text matching.
package i18n
