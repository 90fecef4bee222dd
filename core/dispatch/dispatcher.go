package dispatch

import (
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/pagekit/core/compose"
	"github.com/dmitrymomot/pagekit/core/i18n"
	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/core/resource"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/pkg/token"
)

// Transport resolves the session for a request and manages the token's
// journey to the client (cookie or hosting container).
type Transport interface {
	// Resolve returns the request's session, creating a fresh anonymous
	// one when no valid token is presented.
	Resolve(w http.ResponseWriter, r *http.Request) (*session.Session, error)
	// Drop tells the client to forget the session token.
	Drop(w http.ResponseWriter, sess *session.Session)
}

// Dispatcher is the single entry point of the page framework. It decodes
// the lifecycle state from the HTTP method and hidden form fields, resolves
// opaque record tokens, runs the handler operation and serves the composed
// page, a refresh stub, a download or an error page.
type Dispatcher struct {
	store     *session.Store
	transport Transport
	composer  *compose.Composer
	catalog   *i18n.I18n
	registry  *Registry
	cfg       Config
	log       *slog.Logger
}

// Option is a functional option for configuring the dispatcher.
type Option func(*Dispatcher)

// WithConfig replaces the dispatcher configuration.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) {
		d.cfg = cfg
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// New creates a dispatcher.
func New(store *session.Store, transport Transport, composer *compose.Composer, catalog *i18n.I18n, registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		transport: transport,
		composer:  composer,
		catalog:   catalog,
		registry:  registry,
		cfg:       DefaultConfig(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServeHTTP implements http.Handler. Everything below runs inside a
// top-level recover so a failing handler still produces a coherent page.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var sess *session.Session
	var lang string
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("request panic",
				logger.Method(r.Method), logger.Path(r.URL.Path), slog.Any("panic", rec))
			detail := ""
			if d.cfg.Debug {
				detail = fmt.Sprint(rec)
			}
			d.errorPage(w, sess, lang, http.StatusInternalServerError,
				d.t(lang, "error.internal.title"), d.t(lang, "error.internal.msg"), detail)
		}
	}()

	sess, err := d.transport.Resolve(w, r)
	if err != nil {
		d.log.Error("session resolution failed", logger.Error(err))
		d.errorPage(w, nil, "", http.StatusInternalServerError,
			d.t("", "error.internal.title"), d.t("", "error.internal.msg"), "")
		return
	}

	lang, route := d.language(sess, r)

	// Lazy expiry check: an expired session is handled like a logout,
	// with a best-effort persistence write.
	if d.store.Expired(sess) {
		d.expire(w, r, sess, lang)
		return
	}
	d.store.Touch(sess)

	entity, action := d.splitRoute(route)
	factory, ok := d.registry.Lookup(entity, action)
	if !ok {
		d.log.Warn("no route", logger.Path(r.URL.Path), logger.Entity(entity))
		d.errorPage(w, sess, lang, http.StatusNotFound,
			d.t(lang, "error.notfound.title"), d.t(lang, "error.notfound.msg", r.URL.Path), "")
		return
	}
	h := factory()

	if sess.CSRFToken() == "" {
		csrf, err := token.URLSafe(32)
		if err == nil {
			sess.SetCSRFToken(csrf)
		}
	}

	req := &Request{
		HTTP:    r,
		Session: sess,
		Entity:  entity,
		Action:  action,
		Lang:    lang,
		Params:  url.Values{},
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			d.errorPage(w, sess, lang, http.StatusBadRequest,
				d.t(lang, "error.parse.title"), d.t(lang, "error.parse.msg", err.Error()), "")
			return
		}
		req.Params = r.PostForm
	} else {
		req.Params = r.URL.Query()
	}

	if ac, ok := h.(AccessChecker); ok && !ac.HasAccess(req) {
		d.redirect(w, lang, d.cfg.DefaultRoute, d.t(lang, "access.denied"), "e", "")
		return
	}

	// Opaque token resolution happens before any operation that would
	// trust the id. An unknown token is a security event, never a
	// fall-through to "new record".
	if opaque := req.Param(FieldID); opaque != "" {
		id, err := sess.IDs().Resolve(h.Entity(), opaque)
		if err != nil {
			d.log.Warn("unresolvable opaque token",
				logger.Entity(entity), logger.SessionID(sess.ID().String()))
			d.redirect(w, lang, d.cfg.DefaultRoute, d.t(lang, "session.invalid"), "w", "")
			return
		}
		req.ID = id
		req.OpaqueID = opaque
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		req.State = StateRead
		d.serveRead(w, req, h)
	case http.MethodPost:
		switch req.Param(FieldMethod) {
		case MethodUpdate:
			req.State = StateUpdate
		case MethodDelete:
			req.State = StateDelete
		case MethodRetry:
			req.State = StateRetry
		case MethodRequest:
			req.State = StateRequest
		default:
			req.State = StateSave
		}
		if req.State == StateRequest {
			d.serveRead(w, req, h)
			return
		}
		if req.State == StateRetry {
			// A redisplay never reaches a write hook; the form comes back
			// with the submitted values and a fresh token.
			d.retry(w, req, h, "")
			return
		}
		if d.cfg.CSRFProtect && !csrfOK(req) {
			d.log.Warn("csrf mismatch", logger.Entity(entity), logger.SessionID(sess.ID().String()))
			d.redirect(w, lang, d.cfg.DefaultRoute, d.t(lang, "session.invalid"), "w", "")
			return
		}
		d.serveWrite(w, req, h)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// language decides the request language: URL segment first (and remembered),
// then the session preference, then Accept-Language negotiation.
func (d *Dispatcher) language(sess *session.Session, r *http.Request) (string, string) {
	lang, route := resource.ParseLang(r.URL.Path, d.catalog.Languages())
	switch {
	case lang != "":
		sess.SetLang(lang)
	case sess.Lang() != "":
		lang = sess.Lang()
	default:
		lang = d.catalog.Negotiate(r.Header.Get("Accept-Language"))
		sess.SetLang(lang)
	}
	return lang, route
}

// splitRoute decodes "/entity/action" from the language-less route. The
// action defaults to "index"; the empty route maps to the default route.
func (d *Dispatcher) splitRoute(route string) (string, string) {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		trimmed = strings.Trim(d.cfg.DefaultRoute, "/")
	}
	entity, action, found := strings.Cut(trimmed, "/")
	if !found || action == "" {
		action = "index"
	}
	if i := strings.IndexByte(action, '/'); i >= 0 {
		action = action[:i]
	}
	return entity, action
}

// expire handles a session that outlived its idle timeout: forced logout,
// best-effort archive write, fresh anonymous session, safe redirect.
func (d *Dispatcher) expire(w http.ResponseWriter, r *http.Request, sess *session.Session, lang string) {
	tok := sess.Token()
	sess.Logout()
	if err := d.store.DestroyAndPersist(r.Context(), tok); err != nil {
		d.log.Warn("session archive write failed on expiry", logger.Error(err))
	}
	d.transport.Drop(w, sess)

	if fresh, err := d.transport.Resolve(w, r); err == nil {
		fresh.SetLang(lang)
	}
	d.redirect(w, lang, d.cfg.DefaultRoute, d.t(lang, "session.expired"), "w", "")
}

// serveRead handles StateRead, StateRequest and the render half of
// StateRetry.
func (d *Dispatcher) serveRead(w http.ResponseWriter, req *Request, h Handler) {
	q := req.HTTP.URL.Query()
	if msg := q.Get(ParamMsg); msg != "" {
		req.Session.SetFlash(msg, session.ParseSeverity(q.Get(ParamSev)))
	}
	if page := q.Get(ParamPage); page != "" {
		req.Session.SetPageFor(req.Entity, page)
	}

	// A fresh index render redefines which records are visible, so every
	// stale token dies before the handler mints new ones.
	if req.Action == "index" {
		req.Session.IDs().InvalidateAll()
	}

	res := OK()
	if reader, ok := h.(DataReader); ok {
		var err error
		res, err = reader.ReadData(req.HTTP.Context(), req)
		if err != nil {
			d.log.Error("read failed", logger.Entity(req.Entity), logger.Error(err))
			detail := ""
			if d.cfg.Debug {
				detail = err.Error()
			}
			d.errorPage(w, req.Session, req.Lang, http.StatusInternalServerError,
				d.t(req.Lang, "error.internal.title"), d.t(req.Lang, "error.internal.msg"), detail)
			return
		}
		if res == nil {
			res = OK()
		}
	}

	switch res.Kind {
	case KindDownload:
		d.serveDownload(w, req, res)
	case KindCustom:
		ct := res.ContentType
		if ct == "" {
			ct = "application/json"
		}
		code := res.StatusCode
		if code == 0 {
			code = http.StatusOK
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(code)
		w.Write(res.Body)
	case KindNoContent:
		page, _ := req.Session.ConsumePageFor(req.Entity)
		d.redirect(w, req.Lang, "/"+req.Entity+"/"+req.Action, "", "", page)
	default:
		d.render(w, req, h, res)
	}
}

// serveWrite handles StateSave, StateUpdate and StateDelete, including the
// retry loop for failed saves and updates.
func (d *Dispatcher) serveWrite(w http.ResponseWriter, req *Request, h Handler) {
	ctx := req.HTTP.Context()

	var (
		res *Result
		err error
	)
	switch req.State {
	case StateSave:
		saver, ok := h.(DataSaver)
		if !ok {
			d.unsupported(w, req)
			return
		}
		res, err = saver.SaveData(ctx, req)
	case StateUpdate:
		updater, ok := h.(DataUpdater)
		if !ok {
			d.unsupported(w, req)
			return
		}
		res, err = updater.UpdateData(ctx, req)
	case StateDelete:
		deleter, ok := h.(DataDeleter)
		if !ok {
			d.unsupported(w, req)
			return
		}
		res, err = deleter.DeleteData(ctx, req)
	}
	if res == nil {
		res = OK()
	}

	failed := err != nil || res.Status == StatusNotOK
	if failed {
		msg := res.Message
		if err != nil {
			msg = err.Error()
		}
		if req.State == StateDelete {
			// Deletes have no form to redisplay; the failure lands as an
			// error flash on the index.
			d.redirect(w, req.Lang, d.writeTarget(h), msg, "e", "")
			return
		}
		d.retry(w, req, h, msg)
		return
	}

	// Success invalidates every live opaque token for the session; the
	// next page render mints what it needs.
	req.Session.IDs().InvalidateAll()

	msg := res.Message
	sev := "i"
	if res.Status == StatusWarning {
		sev = "w"
	}
	if msg == "" {
		msg = d.t(req.Lang, "op."+req.State.String()+".success")
	}

	page, _ := req.Session.ConsumePageFor(req.Entity)
	if nc, ok := h.(NoContenter); ok && nc.NoContent() {
		// Client-side refresh of the current route instead of an index
		// redirect; pagination memory rides along.
		d.redirect(w, req.Lang, "/"+req.Entity+"/"+req.Action, "", "", page)
		return
	}
	d.redirect(w, req.Lang, d.writeTarget(h), msg, sev, page)
}

// retry re-enters the same handler in StateRetry so the form is redisplayed
// with the submitted values and an inline error, never a full error page.
func (d *Dispatcher) retry(w http.ResponseWriter, req *Request, h Handler, msg string) {
	req.State = StateRetry
	req.Message = msg

	// The redisplayed form still needs a valid token for its record.
	if req.ID != 0 {
		if tok, err := req.Session.IDs().CreatePair(h.Entity(), req.ID); err == nil {
			req.OpaqueID = tok
		}
	}

	d.render(w, req, h, OK())
}

// writeTarget returns the redirect route after a successful write.
func (d *Dispatcher) writeTarget(h Handler) string {
	entity := h.Entity()
	if rt, ok := h.(RedirectTargeter); ok && rt.RedirectEntity() != "" {
		entity = rt.RedirectEntity()
	}
	return "/" + entity + "/index"
}

// render composes the page for a read or retry and writes it, converting
// composition sentinels into proper error pages.
func (d *Dispatcher) render(w http.ResponseWriter, req *Request, h Handler, res *Result) {
	page := &compose.Page{
		Layout:       d.cfg.Layout,
		Template:     h.Resource(),
		Lang:         req.Lang,
		Entity:       req.Entity,
		Action:       req.Action,
		Session:      req.Session,
		Title:        req.Entity,
		Head:         res.Head,
		Data:         res.Data,
		Paginator:    res.Paginator,
		DisplayName:  res.DisplayName,
		ShowMenu:     true,
		ShowLangMenu: true,
		CurrentRoute: "/" + req.Entity + "/" + req.Action,
		Vars:         map[string]string{},
		TemplateVars: map[string]string{},
	}

	if lp, ok := h.(LayoutProvider); ok {
		if layout := lp.Layout(req); layout != "" {
			page.Layout = layout
		}
	}
	if tp, ok := h.(TitleProvider); ok {
		if title := tp.Title(req); title != "" {
			page.Title = title
		}
	}
	if mh, ok := h.(MenuHider); ok && mh.HideMenu(req) {
		page.ShowMenu = false
		page.ShowLangMenu = false
	}
	if pv, ok := h.(PageVarProvider); ok {
		for k, v := range pv.PageVars(req) {
			page.Vars[k] = v
		}
	}
	if tv, ok := h.(TemplateVarProvider); ok {
		for k, v := range tv.TemplateVars(req) {
			page.TemplateVars[k] = v
		}
	}

	// Single-record pages carry the opaque token, never the raw id in
	// links; {$dbid} stays available for display-only spots.
	switch {
	case res.ID != 0:
		if tok, err := req.Session.IDs().CreatePair(req.Entity, res.ID); err == nil {
			page.ID = tok
			page.DBID = res.ID
			page.DisplayName = res.DisplayName
		}
	case req.OpaqueID != "":
		page.ID = req.OpaqueID
		page.DBID = req.ID
	}

	if u, ok := req.Session.User(); ok {
		page.UserLink = d.userLink(req.Session, u)
	}

	if req.State == StateRetry {
		// Submitted values override whatever the handler supplied, so the
		// user's input survives the round trip. Dispatcher fields stay out.
		for name, vals := range req.Params {
			if strings.HasPrefix(name, "_") || len(vals) == 0 {
				continue
			}
			page.TemplateVars[name] = vals[0]
		}
		if req.Message != "" {
			req.Session.SetFlash(req.Message, session.SeverityError)
		}
	}

	out := d.composer.Compose(page)
	switch {
	case compose.IsNotFound(out):
		path := compose.NotFoundPath(out)
		d.log.Warn("template missing", logger.Resource(path), logger.Entity(req.Entity))
		d.errorPage(w, req.Session, req.Lang, http.StatusNotFound,
			d.t(req.Lang, "error.notfound.title"), d.t(req.Lang, "error.notfound.msg", path), "")
	case compose.IsParseError(out):
		path, msg := compose.ParseErrorParts(out)
		d.log.Error("composition failed", logger.Resource(path), slog.String("detail", msg))
		detail := ""
		if d.cfg.Debug {
			detail = msg
		}
		d.errorPage(w, req.Session, req.Lang, http.StatusBadRequest,
			d.t(req.Lang, "error.parse.title"), d.t(req.Lang, "error.parse.msg", path), detail)
	default:
		contentType := "text/html; charset=utf-8"
		if strings.HasSuffix(h.Resource(), ".json") {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, out)
	}
}

// userLink builds the footer/header link to the current user's record,
// reusing the live token when one exists.
func (d *Dispatcher) userLink(sess *session.Session, u session.User) string {
	tok, ok := sess.IDs().Token("users", u.ID)
	if !ok {
		var err error
		tok, err = sess.IDs().CreatePair("users", u.ID)
		if err != nil {
			return ""
		}
	}
	return "/users/view?" + FieldID + "=" + url.QueryEscape(tok)
}

// serveDownload streams a file with a content-disposition header.
func (d *Dispatcher) serveDownload(w http.ResponseWriter, req *Request, res *Result) {
	f, err := os.Open(res.DownloadPath)
	if err != nil {
		d.log.Error("download missing", slog.String("path", res.DownloadPath), logger.Error(err))
		d.errorPage(w, req.Session, req.Lang, http.StatusNotFound,
			d.t(req.Lang, "error.notfound.title"), d.t(req.Lang, "error.notfound.msg", res.DownloadName), "")
		return
	}
	defer f.Close()

	name := res.DownloadName
	if name == "" {
		name = filepath.Base(res.DownloadPath)
	}
	mime := res.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	io.Copy(w, f)
}

// redirect serves the meta-refresh stub. The flash travels as msg/sev query
// parameters and becomes a session flash on the next GET.
func (d *Dispatcher) redirect(w http.ResponseWriter, lang, route, msg, sev, page string) {
	target := route
	if lang != "" && d.catalog.IsConfigured(lang) && len(d.catalog.Languages()) > 1 {
		target = "/" + lang + route
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, refreshStub(target, msg, sev, page))
}

// unsupported rejects a write on a route whose handler lacks the capability.
func (d *Dispatcher) unsupported(w http.ResponseWriter, req *Request) {
	d.log.Warn("unsupported operation",
		logger.Entity(req.Entity), slog.String("state", req.State.String()))
	d.errorPage(w, req.Session, req.Lang, http.StatusBadRequest,
		d.t(req.Lang, "error.parse.title"), d.t(req.Lang, "error.unsupported"), "")
}

// errorPage renders the generic error page through the normal composition
// pipeline so failures keep the site's styling; if even that fails, a last
// resort plain page goes out.
func (d *Dispatcher) errorPage(w http.ResponseWriter, sess *session.Session, lang string, status int, title, msg, detail string) {
	page := &compose.Page{
		Layout:   d.cfg.Layout,
		Template: d.cfg.ErrorTemplate,
		Lang:     lang,
		Session:  sess,
		Title:    title,
		ShowMenu: false,
		Vars: map[string]string{
			"errorTitle":   title,
			"errorMessage": msg,
			"errorDetail":  detail,
		},
	}

	out := d.composer.Compose(page)
	if compose.IsNotFound(out) || compose.IsParseError(out) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>\n",
			title, title, msg)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, out)
}

// csrfOK verifies the hidden CSRF field against the session token in
// constant time.
func csrfOK(req *Request) bool {
	want := req.Session.CSRFToken()
	got := req.Param(FieldCSRF)
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// t translates a key against the dispatcher's catalog.
func (d *Dispatcher) t(lang, key string, args ...string) string {
	return d.catalog.T(lang, key, args...)
}
