// Package session provides per-user server-side sessions for the page
// framework: a typed session object, an in-memory concurrent store keyed by
// session token, and pluggable archives for persisting authenticated
// sessions across restarts.
//
// # Sessions
//
// A Session is identified by an immutable random hex token that travels in
// the session cookie (or is supplied by the hosting container). The token is
// the only session state that ever leaves the server. Well-known user fields
// are typed; free-form string attributes live in a serialized bag, and
// per-request scratch settings in a non-serialized one.
//
// Every session carries an opaqueid.Map that hides numeric record ids behind
// rotating tokens. The map is never persisted: a restart invalidates all
// opaque tokens, which is the safe direction.
//
// # Store
//
//	store := session.NewStore(
//		session.WithTimeout(30*time.Minute),
//		session.WithArchive(session.NewFileArchive(".sessions")),
//	)
//
//	sess, created := store.FindOrCreate(cookieToken)
//	if store.Expired(sess) {
//		store.Destroy(sess.Token())
//		// force logout, issue a fresh session
//	}
//
// Expiry is checked lazily on access. A session whose idle time equals the
// timeout exactly is still valid; only strictly exceeding it expires.
//
// # Persistence
//
// Store.SaveAll snapshots authenticated sessions only. Anonymous sessions
// are deliberately dropped: they hold nothing worth keeping and would grow
// the archive without bound. Load tolerates a missing or unreadable archive
// and starts empty. SaveAll and Load are mutually exclusive.
package session
