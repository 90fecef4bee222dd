// Package sessiontransport connects the session store to HTTP.
//
// The Cookie transport stores the session token in a signed cookie. It
// implements the Transport contract the dispatcher consumes: Resolve maps
// an incoming request to a live session, creating an anonymous one when
// nothing usable arrives, and Drop expires the cookie on forced logout.
//
// Usage:
//
//	store := session.NewStore()
//	cookies, err := cookie.New([]string{secret})
//	if err != nil {
//		log.Fatal(err)
//	}
//	transport := sessiontransport.NewCookie(store, cookies)
//
//	d := dispatch.New(store, transport, composer, catalog, registry)
//
// Clients that refuse cookies can opt into a query parameter fallback with
// WithParamFallback; the parameter carries the raw token, so the option
// belongs behind TLS only.
package sessiontransport
