package compose

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pagekit/core/i18n"
	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/core/resource"
	"github.com/dmitrymomot/pagekit/core/session"
)

// Composer renders page responses from line-oriented template resources.
// It is stateless across requests; all per-request state lives in the Page.
type Composer struct {
	res     *resource.Resolver
	catalog *i18n.I18n
	cfg     Config
	log     *slog.Logger
}

// New creates a composer over a resource resolver and translation catalog.
func New(res *resource.Resolver, catalog *i18n.I18n, opts ...Option) *Composer {
	c := &Composer{
		res:     res,
		catalog: catalog,
		cfg:     DefaultConfig(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page carries the per-request state for one composition: which resources to
// render, the evaluation context for conditional sections, handler-supplied
// variables and the accumulated content buffers.
type Page struct {
	// Layout is the logical path of the outer page skeleton. Empty for
	// JSON responses.
	Layout string
	// Template is the logical path of the handler-specific resource
	// injected at the {#template} marker.
	Template string

	Lang    string
	Entity  string
	Action  string
	Session *session.Session

	Title    string
	UserLink string

	// Vars are whole-page variables substituted as {$name} after blocks
	// are expanded. TemplateVars are substituted inside the handler
	// template only, before the whole-page pass.
	Vars         map[string]string
	TemplateVars map[string]string

	// Accumulated content buffers injected into the handler template as
	// {$head}, {$data} and {$paginator}. Consumed exactly once.
	Head      string
	Data      string
	Paginator string

	// Single-record context, substituted as {$id}, {$dbid}, {$displayName}.
	ID          string
	DBID        int64
	DisplayName string

	ShowMenu     bool
	ShowLangMenu bool
	// CurrentRoute is the language-less route of the current page, used to
	// build language menu links.
	CurrentRoute string

	buffersConsumed bool
}

// errResourceMissing aborts a composition with a NOTFOUND sentinel.
type errResourceMissing struct{ path string }

func (e errResourceMissing) Error() string { return "missing resource " + e.path }

// Compose renders the page. It never returns an error: failures come back
// as sentinel strings (see IsNotFound and IsParseError) so the dispatcher
// can turn them into proper error responses.
func (c *Composer) Compose(p *Page) (out string) {
	path := p.Layout
	if path == "" {
		path = p.Template
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("composition panic", logger.Resource(path), slog.Any("panic", r))
			out = parseError(path, fmt.Sprint(r))
		}
	}()

	text, err := c.compose(p)
	if err != nil {
		var missing errResourceMissing
		if errors.As(err, &missing) {
			return notFound(missing.path)
		}
		return parseError(path, err.Error())
	}
	return text
}

func (c *Composer) compose(p *Page) (string, error) {
	if strings.HasSuffix(p.Template, ".json") {
		return c.composeJSON(p)
	}

	layout, err := c.res.Resolve(p.Layout, p.Lang)
	if err != nil {
		return "", errResourceMissing{path: p.Layout}
	}

	cond := p.condition()
	engine := newIfSections()

	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(layout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if engine.drop(line, cond, layerPage) {
			continue
		}
		expanded, err := c.expandBlocks(line, p, cond)
		if err != nil {
			return "", err
		}
		b.WriteString(expanded)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan layout: %w", err)
	}

	return c.finalPasses(b.String(), p), nil
}

// composeJSON is the flat pass for JSON resources: handler variables plus
// the data and paginator buffers, no layout, no blocks, no link rewriting.
func (c *Composer) composeJSON(p *Page) (string, error) {
	text, err := c.res.Resolve(p.Template, p.Lang)
	if err != nil {
		return "", errResourceMissing{path: p.Template}
	}

	for k, v := range p.TemplateVars {
		text = strings.ReplaceAll(text, "{$"+k+"}", v)
	}
	for k, v := range p.Vars {
		text = strings.ReplaceAll(text, "{$"+k+"}", v)
	}
	text = strings.ReplaceAll(text, "{$data}", p.Data)
	text = strings.ReplaceAll(text, "{$paginator}", p.Paginator)
	return text, nil
}

// expandBlocks replaces every {#name} marker in the line with the composed
// block content. Replacement text is not rescanned, so blocks cannot
// include blocks.
func (c *Composer) expandBlocks(line string, p *Page, cond condition) (string, error) {
	if !strings.Contains(line, "{#") {
		return line, nil
	}

	var b strings.Builder
	for {
		i := strings.Index(line, "{#")
		if i < 0 {
			b.WriteString(line)
			return b.String(), nil
		}
		end := strings.Index(line[i:], "}")
		if end < 0 {
			b.WriteString(line)
			return b.String(), nil
		}

		b.WriteString(line[:i])
		name := line[i+2 : i+end]
		content, err := c.block(name, p, cond)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		line = line[i+end+1:]
	}
}

// block composes one named block. Unknown names are looked up as block
// resources directly, so layouts can define their own blocks beyond the
// standard set.
func (c *Composer) block(name string, p *Page, cond condition) (string, error) {
	switch name {
	case "template":
		return c.composeTemplate(p, cond)
	case "message":
		return c.composeMessage(p, cond)
	case "langmenu":
		return c.composeLangMenu(p, cond)
	case "menu":
		if !p.ShowMenu {
			return "", nil
		}
		return c.subResource(name, p, cond), nil
	default:
		// {#script:dialogs} resolves as blocks/script-dialogs.html.
		return c.subResource(strings.ReplaceAll(name, ":", "-"), p, cond), nil
	}
}

// subResource loads and scans one block resource with a fresh sub-resource
// conditional layer. A missing block composes to nothing; pages must not
// break because a deployment trimmed a block file.
func (c *Composer) subResource(name string, p *Page, cond condition) string {
	path := fmt.Sprintf(c.cfg.BlocksPath, name)
	text, err := c.res.Resolve(path, p.Lang)
	if err != nil {
		c.log.Debug("block resource missing", logger.Resource(path), logger.Lang(p.Lang))
		return ""
	}
	return c.scanLines(text, cond, layerSubResource)
}

// scanLines applies the conditional engine to a block of text with a fresh
// engine for the given layer.
func (c *Composer) scanLines(text string, cond condition, l layer) string {
	engine := newIfSections()
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if engine.drop(line, cond, l) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// composeTemplate renders the handler-specific resource at the {#template}
// marker: template-layer conditional scan, template variables, buffer
// injection and single-record substitutions.
func (c *Composer) composeTemplate(p *Page, cond condition) (string, error) {
	if p.Template == "" {
		return "", nil
	}
	raw, err := c.res.Resolve(p.Template, p.Lang)
	if err != nil {
		return "", errResourceMissing{path: p.Template}
	}

	text := c.scanLines(raw, cond, layerTemplate)

	for k, v := range p.TemplateVars {
		text = strings.ReplaceAll(text, "{$"+k+"}", v)
	}

	// Buffers feed exactly one template marker; a second marker in the
	// same layout gets empty content.
	head, data, paginator := "", "", ""
	if !p.buffersConsumed {
		head, data, paginator = p.Head, p.Data, p.Paginator
		p.buffersConsumed = true
	}
	text = strings.ReplaceAll(text, "{$head}", head)
	text = strings.ReplaceAll(text, "{$data}", data)
	text = strings.ReplaceAll(text, "{$paginator}", paginator)

	text = strings.ReplaceAll(text, "{$id}", p.ID)
	text = strings.ReplaceAll(text, "{$dbid}", strconv.FormatInt(p.DBID, 10))
	text = strings.ReplaceAll(text, "{$displayName}", p.DisplayName)
	if p.Session != nil {
		text = strings.ReplaceAll(text, "{$csrfToken}", p.Session.CSRFToken())
	}
	text = strings.ReplaceAll(text, "{$userlink}", p.UserLink)
	return text, nil
}

// composeMessage renders the flash block, or nothing when no flash is
// pending. Consuming here means a reload after the redirect shows the
// message once.
func (c *Composer) composeMessage(p *Page, cond condition) (string, error) {
	if p.Session == nil || !p.Session.HasFlash() {
		return "", nil
	}

	// The block resolves before the flash is consumed; a missing block
	// keeps the message pending for the next page that can show it.
	text := c.subResource("message", p, cond)
	if text == "" {
		return "", nil
	}
	msg, sev, ok := p.Session.ConsumeFlash()
	if !ok {
		return "", nil
	}
	text = strings.ReplaceAll(text, "{$severity}", string(sev))
	text = strings.ReplaceAll(text, "{$message}", msg)
	return text, nil
}

// composeLangMenu renders the language menu. Hidden when disabled for the
// page or when fewer than two languages are configured.
func (c *Composer) composeLangMenu(p *Page, cond condition) (string, error) {
	langs := c.catalog.Languages()
	if !p.ShowLangMenu || len(langs) < 2 {
		return "", nil
	}

	text := c.subResource("langmenu", p, cond)
	if text == "" {
		return "", nil
	}

	var entries strings.Builder
	for _, lang := range langs {
		fmt.Fprintf(&entries, `<a class="lang-entry" href="/%s%s">%s</a>`,
			lang, p.CurrentRoute, strings.ToUpper(lang))
		entries.WriteByte('\n')
	}
	return strings.ReplaceAll(text, "{$entries}", entries.String()), nil
}

// finalPasses applies the remaining substitutions in fixed order: global
// tags, whole-page handler variables, translation tags, link prefixing.
// The order is load-bearing; handler variables may introduce translation
// tags but never the other way around.
func (c *Composer) finalPasses(text string, p *Page) string {
	theme := c.cfg.DefaultTheme
	user, userfull := "", ""
	if p.Session != nil {
		if t, ok := p.Session.Attr("theme"); ok && t != "" {
			theme = t
		}
		if u, ok := p.Session.User(); ok {
			user = u.Username
			userfull = u.FullNameOrUsername()
		}
	}
	antitheme := "dark"
	if theme == "dark" {
		antitheme = "default"
	}

	text = strings.ReplaceAll(text, "{$title}", p.Title)
	text = strings.ReplaceAll(text, "{$user}", user)
	text = strings.ReplaceAll(text, "{$userfull}", userfull)
	text = strings.ReplaceAll(text, "{$lang}", p.Lang)
	text = strings.ReplaceAll(text, "{$theme}", theme)
	text = strings.ReplaceAll(text, "{$antitheme}", antitheme)

	for k, v := range p.Vars {
		text = strings.ReplaceAll(text, "{$"+k+"}", v)
	}

	if c.cfg.TranslateTemplates {
		text = c.translateTags(text, p.Lang)
	}

	if c.cfg.PathPrefix != "" {
		text = rewritePaths(text, c.cfg.PathPrefix)
	}
	return text
}

// condition builds the section evaluation context for the page.
func (p *Page) condition() condition {
	cond := condition{entity: p.Entity, action: p.Action}
	if p.Session != nil {
		cond.hasRole = p.Session.HasRole
	}
	return cond
}
