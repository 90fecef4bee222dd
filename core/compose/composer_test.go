package compose_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/compose"
	"github.com/dmitrymomot/pagekit/core/i18n"
	"github.com/dmitrymomot/pagekit/core/resource"
	"github.com/dmitrymomot/pagekit/core/session"
)

func writeRes(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newCatalog(t *testing.T, langs ...string) *i18n.I18n {
	t.Helper()
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	cat, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithLanguages(langs...),
		i18n.WithTranslations("en", map[string]string{
			"orders.title": "Orders",
			"orders.saved": "Order {0} saved.",
		}),
	)
	require.NoError(t, err)
	return cat
}

func newAuthedSession(t *testing.T, roles ...string) *session.Session {
	t.Helper()
	store := session.NewStore()
	sess, _, err := store.FindOrCreate("")
	require.NoError(t, err)
	sess.Authenticate(session.User{
		ID: 7, Username: "jdoe", Firstname: "Jane", Lastname: "Doe", Roles: roles,
	})
	return sess
}

func TestComposeFullPage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", strings.Join([]string{
		"<html><head>{#head}</head><body>",
		"{#menu}",
		"{#message}",
		"<h1>{$title}</h1>",
		"{#template}",
		"{#footer}",
		"</body></html>",
	}, "\n"))
	writeRes(t, root, "web/html/en/blocks/head.html", `<link href="/css/app.css">`)
	writeRes(t, root, "web/html/en/blocks/menu.html", strings.Join([]string{
		`<nav><a href="/orders/index">{$l.orders.title}</a>`,
		"{$if-role=admin}",
		`<a href="/admin">Admin</a>`,
		"{$endif-role}",
		"</nav>",
	}, "\n"))
	writeRes(t, root, "web/html/en/blocks/message.html", `<div class="{$severity}">{$message}</div>`)
	writeRes(t, root, "web/html/en/blocks/footer.html", `<footer>{$userfull}</footer>`)
	writeRes(t, root, "web/html/en/orders/index.html", strings.Join([]string{
		"<table>{$head}{$data}</table>",
		"{$paginator}",
	}, "\n"))

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	sess := newAuthedSession(t, "admin")
	sess.SetFlash("Order A-1 saved.", session.SeverityInfo)

	page := &compose.Page{
		Layout:    "web/html/:lang/layout.html",
		Template:  "web/html/:lang/orders/index.html",
		Lang:      "en",
		Entity:    "orders",
		Action:    "index",
		Session:   sess,
		Title:     "Orders",
		Head:      "<tr><th>Name</th></tr>",
		Data:      "<tr><td>Widget</td></tr>",
		Paginator: `<div class="pages">1 2 3</div>`,
		ShowMenu:  true,
	}
	out := c.Compose(page)

	assert.False(t, compose.IsNotFound(out))
	assert.False(t, compose.IsParseError(out))
	assert.Contains(t, out, `<link href="/css/app.css">`)
	assert.Contains(t, out, `<a href="/orders/index">Orders</a>`)
	assert.Contains(t, out, `<a href="/admin">Admin</a>`)
	assert.Contains(t, out, `<div class="info">Order A-1 saved.</div>`)
	assert.Contains(t, out, "<h1>Orders</h1>")
	assert.Contains(t, out, "<table><tr><th>Name</th></tr><tr><td>Widget</td></tr></table>")
	assert.Contains(t, out, `<div class="pages">1 2 3</div>`)
	assert.Contains(t, out, "<footer>Jane Doe</footer>")
}

func TestComposeMenuVisibility(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "a\n{#menu}\nb")
	writeRes(t, root, "web/html/en/blocks/menu.html", "<nav>menu</nav>")

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	t.Run("hidden menu composes to nothing", func(t *testing.T) {
		t.Parallel()

		out := c.Compose(&compose.Page{
			Layout: "web/html/:lang/layout.html", Lang: "en", ShowMenu: false,
		})
		assert.NotContains(t, out, "<nav>")
	})

	t.Run("admin section hidden without role", func(t *testing.T) {
		t.Parallel()

		adminRoot := t.TempDir()
		writeRes(t, adminRoot, "web/html/en/layout.html", "{#menu}")
		writeRes(t, adminRoot, "web/html/en/blocks/menu.html",
			"common\n{$if-role=admin}\nadmin-only\n{$endif-role}")
		res := resource.NewResolver(resource.WithRoot(adminRoot), resource.WithDefaultLanguage("en"))
		c := compose.New(res, newCatalog(t))

		out := c.Compose(&compose.Page{
			Layout: "web/html/:lang/layout.html", Lang: "en",
			Session: newAuthedSession(t, "viewer"), ShowMenu: true,
		})
		assert.Contains(t, out, "common")
		assert.NotContains(t, out, "admin-only")
	})
}

func TestComposeMessageConsumedOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "{#message}")
	writeRes(t, root, "web/html/en/blocks/message.html", `<div>{$message}</div>`)

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	sess := newAuthedSession(t)
	sess.SetFlash("saved", session.SeverityInfo)

	out := c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en", Session: sess})
	assert.Contains(t, out, "<div>saved</div>")

	// The next render of the same session has no message left.
	out = c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en", Session: sess})
	assert.NotContains(t, out, "saved")
}

func TestComposeMessageKeptWhenBlockMissing(t *testing.T) {
	t.Parallel()

	bare := t.TempDir()
	writeRes(t, bare, "web/html/en/layout.html", "{#message}\nrest")

	sess := newAuthedSession(t)
	sess.SetFlash("saved", session.SeverityInfo)

	c := compose.New(resource.NewResolver(resource.WithRoot(bare), resource.WithDefaultLanguage("en")), newCatalog(t))
	out := c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en", Session: sess})
	assert.NotContains(t, out, "saved")
	assert.True(t, sess.HasFlash())

	// A layout that can show the message still gets it.
	full := t.TempDir()
	writeRes(t, full, "web/html/en/layout.html", "{#message}")
	writeRes(t, full, "web/html/en/blocks/message.html", `<div>{$message}</div>`)
	c = compose.New(resource.NewResolver(resource.WithRoot(full), resource.WithDefaultLanguage("en")), newCatalog(t))
	out = c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en", Session: sess})
	assert.Contains(t, out, "<div>saved</div>")
	assert.False(t, sess.HasFlash())
}

func TestComposeLangMenu(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "{#langmenu}")
	writeRes(t, root, "web/html/en/blocks/langmenu.html", "<div class=\"langs\">\n{$entries}\n</div>")

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))

	t.Run("rendered for two or more languages", func(t *testing.T) {
		t.Parallel()

		c := compose.New(res, newCatalog(t, "en", "de"))
		out := c.Compose(&compose.Page{
			Layout: "web/html/:lang/layout.html", Lang: "en",
			ShowLangMenu: true, CurrentRoute: "/orders/index",
		})
		assert.Contains(t, out, `href="/en/orders/index"`)
		assert.Contains(t, out, `href="/de/orders/index"`)
	})

	t.Run("suppressed with a single language", func(t *testing.T) {
		t.Parallel()

		c := compose.New(res, newCatalog(t))
		out := c.Compose(&compose.Page{
			Layout: "web/html/:lang/layout.html", Lang: "en",
			ShowLangMenu: true, CurrentRoute: "/orders/index",
		})
		assert.NotContains(t, out, "langs")
	})
}

func TestComposeTemplateSubstitutions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "{#template}")
	writeRes(t, root, "web/html/en/orders/edit.html", strings.Join([]string{
		`<form action="/orders/edit?id={$id}">`,
		`<input name="name" value="{$name}">`,
		`<input type="hidden" name="_csrfToken" value="{$csrfToken}">`,
		"<span>{$displayName} ({$dbid})</span>",
		"</form>",
	}, "\n"))

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	sess := newAuthedSession(t)
	sess.SetCSRFToken("csrf-xyz")

	out := c.Compose(&compose.Page{
		Layout:       "web/html/:lang/layout.html",
		Template:     "web/html/:lang/orders/edit.html",
		Lang:         "en",
		Session:      sess,
		TemplateVars: map[string]string{"name": "Widget X"},
		ID:           "abc123",
		DBID:         42,
		DisplayName:  "Widget X",
	})

	// Submitted values reappear verbatim; only the opaque token is in links.
	assert.Contains(t, out, `value="Widget X"`)
	assert.Contains(t, out, `action="/orders/edit?id=abc123"`)
	assert.Contains(t, out, `value="csrf-xyz"`)
	assert.Contains(t, out, "<span>Widget X (42)</span>")
}

func TestComposeBuffersConsumedOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "{#template}\n{#template}")
	writeRes(t, root, "web/html/en/orders/index.html", "[{$data}]")

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	out := c.Compose(&compose.Page{
		Layout:   "web/html/:lang/layout.html",
		Template: "web/html/:lang/orders/index.html",
		Lang:     "en",
		Data:     "rows",
	})
	assert.Equal(t, 1, strings.Count(out, "[rows]"))
	assert.Contains(t, out, "[]")
}

func TestComposeSentinels(t *testing.T) {
	t.Parallel()

	res := resource.NewResolver(resource.WithRoot(t.TempDir()), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t))

	t.Run("missing layout", func(t *testing.T) {
		t.Parallel()

		out := c.Compose(&compose.Page{Layout: "web/html/:lang/absent.html", Lang: "en"})
		require.True(t, compose.IsNotFound(out))
		assert.Equal(t, "web/html/:lang/absent.html", compose.NotFoundPath(out))
	})

	t.Run("missing handler template", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeRes(t, root, "web/html/en/layout.html", "{#template}")
		res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
		c := compose.New(res, newCatalog(t))

		out := c.Compose(&compose.Page{
			Layout:   "web/html/:lang/layout.html",
			Template: "web/html/:lang/orders/absent.html",
			Lang:     "en",
		})
		require.True(t, compose.IsNotFound(out))
		assert.Equal(t, "web/html/:lang/orders/absent.html", compose.NotFoundPath(out))
	})

	t.Run("parse error parts", func(t *testing.T) {
		t.Parallel()

		path, msg := compose.ParseErrorParts("PARERROR:web/x.html:boom")
		assert.Equal(t, "web/x.html", path)
		assert.Equal(t, "boom", msg)
	})
}

func TestComposeJSONMode(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/orders/index.json", `{"rows":[{$data}],"page":"{$page}","href":"/x"}`)

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t), compose.WithPathPrefix("shop"))

	out := c.Compose(&compose.Page{
		Template: "web/html/orders/index.json",
		Lang:     "en",
		Vars:     map[string]string{"page": "2"},
		Data:     `{"id":"abc123"}`,
	})

	assert.JSONEq(t, `{"rows":[{"id":"abc123"}],"page":"2","href":"/x"}`, out)
	// No layout blocks and no link rewriting in JSON mode.
	assert.NotContains(t, out, "/shop/")
}

func TestComposePathPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html",
		`<a href="/orders/index">x</a><a href="https://example.com">y</a>`)

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))
	c := compose.New(res, newCatalog(t), compose.WithPathPrefix("shop"))

	out := c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en"})
	assert.Contains(t, out, `href="/shop/orders/index"`)
	assert.Contains(t, out, `href="https://example.com"`)
}

func TestComposeTranslationTags(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRes(t, root, "web/html/en/layout.html", "<p>{$l.orders.saved,A-1}</p><p>{$l.absent.key}</p>")

	res := resource.NewResolver(resource.WithRoot(root), resource.WithDefaultLanguage("en"))

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()

		c := compose.New(res, newCatalog(t))
		out := c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en"})
		assert.Contains(t, out, "<p>Order A-1 saved.</p>")
		assert.Contains(t, out, "<p>?absent.key?</p>")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		c := compose.New(res, newCatalog(t), compose.WithoutTemplateTranslation())
		out := c.Compose(&compose.Page{Layout: "web/html/:lang/layout.html", Lang: "en"})
		assert.Contains(t, out, "{$l.orders.saved,A-1}")
	})
}
