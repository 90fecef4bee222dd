// Package cookie provides secure HTTP cookie management with HMAC signing
// and key rotation.
//
// The session transport stores the session token in a signed cookie so a
// forged or tampered token is rejected before it ever reaches the session
// store.
//
// # Signing
//
// Values are signed with HMAC-SHA256. The wire form is
// "base64(value)|base64(signature)". The first configured secret signs new
// cookies; verification tries every secret, so rotating a key in keeps
// cookies signed with the old key valid until they expire:
//
//	manager, err := cookie.New([]string{newSecret, oldSecret})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = manager.SetSigned(w, "__SESSION_ID__", token)
//	value, err := manager.GetSigned(r, "__SESSION_ID__")
//
// # Configuration
//
// Config carries the usual attribute defaults (path, domain, Secure,
// HttpOnly, SameSite) from the environment; COOKIE_SECRETS is a
// comma-separated list ordered newest first:
//
//	manager, err := cookie.NewFromConfig(cfg)
//
// # Errors
//
// GetSigned returns ErrCookieNotFound when the cookie is absent,
// ErrInvalidFormat when the wire form is malformed, and
// ErrInvalidSignature when no secret verifies the value. Callers treat all
// three as "no usable session".
package cookie
