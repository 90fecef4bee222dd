package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/i18n"
)

func newCatalog(t *testing.T, opts ...i18n.Option) *i18n.I18n {
	t.Helper()
	base := []i18n.Option{
		i18n.WithDefaultLanguage("en"),
		i18n.WithLanguages("en", "de", "fr"),
		i18n.WithTranslations("en", map[string]string{
			"orders.title": "Orders",
			"orders.saved": "Order {0} saved.",
			"greeting":     "Hello {0}, you have {1} messages.",
		}),
		i18n.WithTranslations("de", map[string]string{
			"orders.title": "Bestellungen",
		}),
		i18n.WithFallback(map[string]string{
			"app.name": "pagekit",
		}),
	}
	i, err := i18n.New(append(base, opts...)...)
	require.NoError(t, err)
	return i
}

func TestT(t *testing.T) {
	t.Parallel()

	t.Run("exact language", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		assert.Equal(t, "Bestellungen", i.T("de", "orders.title"))
	})

	t.Run("falls back to default language", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		assert.Equal(t, "Order A-1 saved.", i.T("de", "orders.saved", "A-1"))
	})

	t.Run("falls back to global catalog", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		assert.Equal(t, "pagekit", i.T("de", "app.name"))
	})

	t.Run("missing key returns marker", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		assert.Equal(t, "?no.such.key?", i.T("de", "no.such.key"))
	})

	t.Run("missing key handler is invoked", func(t *testing.T) {
		t.Parallel()

		var gotLang, gotKey string
		i := newCatalog(t, i18n.WithMissingKeyHandler(func(lang, key string) {
			gotLang, gotKey = lang, key
		}))
		i.T("fr", "absent")
		assert.Equal(t, "fr", gotLang)
		assert.Equal(t, "absent", gotKey)
	})

	t.Run("positional arguments", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		assert.Equal(t, "Hello Jane, you have 3 messages.", i.T("en", "greeting", "Jane", "3"))
	})

	t.Run("arguments are html escaped", func(t *testing.T) {
		t.Parallel()

		i := newCatalog(t)
		got := i.T("en", "orders.saved", `<script>`)
		assert.Equal(t, "Order &lt;script&gt; saved.", got)
	})
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	i := newCatalog(t)
	assert.Equal(t, []string{"en", "de", "fr"}, i.Languages())
	assert.Equal(t, "en", i.DefaultLanguage())
	assert.True(t, i.IsConfigured("de"))
	assert.False(t, i.IsConfigured("it"))
}

func TestHas(t *testing.T) {
	t.Parallel()

	i := newCatalog(t)
	assert.True(t, i.Has("de", "orders.title"))
	assert.True(t, i.Has("de", "orders.saved")) // via default language
	assert.True(t, i.Has("de", "app.name"))     // via fallback catalog
	assert.False(t, i.Has("de", "absent"))
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	i := newCatalog(t)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"exact match", "de", "de"},
		{"quality ordering", "fr;q=0.8, de;q=0.9", "de"},
		{"region narrows to base", "de-CH", "de"},
		{"unsupported falls back to default", "it", "en"},
		{"empty header", "", "en"},
		{"garbage header", ";;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, i.Negotiate(tt.header))
		})
	}
}
