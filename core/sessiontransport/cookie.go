package sessiontransport

import (
	"net/http"

	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/session"
)

// Cookie carries the session token in a signed HTTP cookie. A request with
// no cookie, a tampered cookie, or a token the store no longer knows gets a
// fresh anonymous session; Resolve never fails on bad client input.
type Cookie struct {
	store   *session.Store
	cookies *cookie.Manager
	cfg     Config
}

// NewCookie creates a cookie-based session transport.
func NewCookie(store *session.Store, cookies *cookie.Manager, opts ...Option) *Cookie {
	c := &Cookie{
		store:   store,
		cookies: cookies,
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the session for the request, creating an anonymous one
// when no usable token arrives. The cookie is only written on creation;
// the token never changes for the life of a session.
func (c *Cookie) Resolve(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	token, err := c.cookies.GetSigned(r, c.cfg.CookieName)
	if err != nil && c.cfg.AllowParam {
		token = r.URL.Query().Get(c.cfg.ParamName)
	}

	sess, created, err := c.store.FindOrCreate(token)
	if err != nil {
		return nil, err
	}
	if created {
		if err := c.cookies.SetSigned(w, c.cfg.CookieName, sess.Token(),
			cookie.WithMaxAge(c.cfg.CookieDays*24*60*60),
		); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// Drop expires the session cookie. The session itself is the store's
// business; the dispatcher destroys it separately.
func (c *Cookie) Drop(w http.ResponseWriter, _ *session.Session) {
	c.cookies.Delete(w, c.cfg.CookieName)
}
