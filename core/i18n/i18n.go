package i18n

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// I18n holds translation catalogs. It is immutable after creation, making
// it safe for concurrent use.
type I18n struct {
	// Flattened translations, key format "lang:key".
	translations map[string]string

	// Global fallback catalog consulted after the default language.
	fallback map[string]string

	defaultLang string
	languages   []string

	// Optional handler called when a key misses every catalog.
	missingKeyHandler func(lang, key string)
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance. All configuration happens during
// construction; the instance is immutable afterwards.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		fallback:     make(map[string]string),
		defaultLang:  DefaultLang,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if len(i.languages) == 0 {
		i.languages = []string{i.defaultLang}
	}
	return i, nil
}

// WithDefaultLanguage sets the default/fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages sets the configured languages. The default language is
// always included and listed first; the rest are sorted alphabetically.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		set := make(map[string]bool, len(langs))
		for _, lang := range langs {
			if lang != "" && lang != i.defaultLang {
				set[lang] = true
			}
		}
		rest := make([]string, 0, len(set))
		for lang := range set {
			rest = append(rest, lang)
		}
		sort.Strings(rest)
		i.languages = append([]string{i.defaultLang}, rest...)
		return nil
	}
}

// WithTranslations loads a flat translation map for one language.
func WithTranslations(lang string, translations map[string]string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		for key, value := range translations {
			i.translations[lang+":"+key] = value
		}
		return nil
	}
}

// WithFallback loads the global fallback catalog, consulted when neither
// the requested nor the default language has the key.
func WithFallback(translations map[string]string) Option {
	return func(i *I18n) error {
		for key, value := range translations {
			i.fallback[key] = value
		}
		return nil
	}
}

// WithMissingKeyHandler sets a handler called when a key misses every
// catalog. Useful for logging untranslated keys.
func WithMissingKeyHandler(handler func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T translates a key. Lookup order: requested language, default language,
// fallback catalog. A key missing everywhere is returned wrapped in
// question marks. Arguments fill {0}, {1}, ... placeholders, HTML-escaped.
func (i *I18n) T(lang, key string, args ...string) string {
	if tr, ok := i.lookup(lang, key); ok {
		return substituteArgs(tr, args)
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}
	return "?" + key + "?"
}

// Has reports whether the key resolves in any catalog for the language.
func (i *I18n) Has(lang, key string) bool {
	_, ok := i.lookup(lang, key)
	return ok
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	if lang != "" {
		if tr, ok := i.translations[lang+":"+key]; ok {
			return tr, true
		}
	}
	if lang != i.defaultLang {
		if tr, ok := i.translations[i.defaultLang+":"+key]; ok {
			return tr, true
		}
	}
	tr, ok := i.fallback[key]
	return tr, ok
}

// Languages returns the configured languages, default first.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the configured default language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// IsConfigured reports whether the language is in the configured set.
func (i *I18n) IsConfigured(lang string) bool {
	for _, l := range i.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// substituteArgs replaces positional {n} placeholders. Arguments are
// HTML-escaped because translations land directly in composed markup.
func substituteArgs(tr string, args []string) string {
	if len(args) == 0 || !strings.Contains(tr, "{") {
		return tr
	}
	for n, arg := range args {
		tr = strings.ReplaceAll(tr, "{"+strconv.Itoa(n)+"}", html.EscapeString(arg))
	}
	return tr
}
