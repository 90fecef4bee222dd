// Package token generates cryptographically secure random tokens.
//
// Tokens come in two encodings: lowercase hex (used for session identifiers
// and opaque record tokens, where the value travels in cookies and query
// strings) and base64url without padding (denser, used for CSRF tokens).
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/pagekit/pkg/token"
//
//	// 24-character hex token (12 random bytes)
//	id, err := token.Hex(24)
//	if err != nil {
//		// Handle error
//	}
//
//	// 32-byte base64url token
//	csrf, err := token.URLSafe(32)
//
// All functions read from crypto/rand and return an error only when the
// system entropy source fails.
package token
