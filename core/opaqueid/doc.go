// Package opaqueid maps internal numeric record identifiers to short-lived
// opaque tokens so database ids never appear in URLs or rendered markup.
//
// Each Map belongs to one user session. Pairs are keyed by entity type, so
// the same numeric id can be mapped independently for "users" and "orders".
// Creating a pair for a record that already has one supersedes the old
// token: the previous token stops resolving immediately.
//
// # Basic Usage
//
//	m := opaqueid.NewMap()
//
//	tok, err := m.CreatePair("orders", 42)
//	if err != nil {
//		// Handle error
//	}
//
//	id, err := m.Resolve("orders", tok) // 42, nil
//	if errors.Is(err, opaqueid.ErrUnknownToken) {
//		// Token expired, superseded, or never issued for this entity.
//	}
//
// Resolve never guesses: an unmapped token is always ErrUnknownToken, never
// a default id. After a write operation or a privilege change the whole map
// is dropped with InvalidateAll, forcing fresh tokens on the next render.
//
// All methods are safe for concurrent use.
package opaqueid
