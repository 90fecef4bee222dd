// Package dispatch is the request lifecycle entry point of the page
// framework: one http.Handler that multiplexes CRUD semantics for every
// registered entity/action route.
//
// # Lifecycle
//
// The transport only exposes GET and POST reliably, so the write verb is
// encoded in the hidden "_method" form field: an absent or unknown override
// means save (create), "PUT" means update, "POST" means delete and
// "REQUEST" marks a POST that is semantically a read. A failed save or
// update re-enters the same handler in retry state, redisplaying the form
// with the submitted values and an inline error instead of losing input.
//
// Successful writes invalidate every opaque record token for the session
// and answer with a minimal meta-refresh stub redirecting to the entity's
// index, carrying a localized flash as msg/sev query parameters and the
// remembered list page as page. The next GET turns the query pair back into
// a session flash consumed by the message block.
//
// # Identity
//
// Requests addressing a single record carry an opaque token in the "id"
// field. The dispatcher resolves it through the session's identifier map
// before anything trusts the id; an unresolvable token is a consistency
// event answered with a safe redirect and a localized warning, never with
// "new record" semantics.
//
// # Handlers
//
// A handler implements Handler plus whichever capability interfaces its
// route supports (DataReader, DataSaver, DataUpdater, DataDeleter) and any
// of the optional render hooks. Handlers are registered as factories:
//
//	reg := dispatch.NewRegistry()
//	reg.Register("orders", "index", func() dispatch.Handler { return &ordersIndex{db: db} })
//
//	d := dispatch.New(store, transport, composer, catalog, reg)
//	http.ListenAndServe(":8080", d)
//
// Every request runs inside a top-level recover; failures render a
// templated error page through the normal composition pipeline, with a
// plain HTML last resort if the error template itself is broken.
package dispatch
