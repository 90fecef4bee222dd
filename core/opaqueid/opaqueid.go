package opaqueid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrymomot/pagekit/pkg/token"
)

// tokenLength is the length of generated opaque tokens in hex characters.
const tokenLength = 20

type pairKey struct {
	entity string
	id     int64
}

// Map is a bidirectional, per-session registry of opaque token pairs.
// The zero value is not usable; construct with NewMap.
type Map struct {
	mu      sync.Mutex
	byToken map[string]pairKey // token -> (entity, id), tokens are globally unique within the map
	byID    map[pairKey]string // (entity, id) -> current token
}

// NewMap returns an empty token map.
func NewMap() *Map {
	return &Map{
		byToken: make(map[string]pairKey),
		byID:    make(map[pairKey]string),
	}
}

// CreatePair issues a fresh token for the given entity record and returns it.
// Any previously issued token for the same (entity, id) pair is invalidated.
func (m *Map) CreatePair(entity string, id int64) (string, error) {
	if entity == "" {
		return "", ErrEmptyEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tok, err := m.uniqueToken()
	if err != nil {
		return "", err
	}

	key := pairKey{entity: entity, id: id}
	if old, ok := m.byID[key]; ok {
		delete(m.byToken, old)
	}
	m.byToken[tok] = key
	m.byID[key] = tok
	return tok, nil
}

// Resolve returns the record id behind a token for the given entity type.
// Returns ErrUnknownToken when the token was never issued for the entity,
// has been superseded, or the map was invalidated.
func (m *Map) Resolve(entity, tok string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byToken[tok]
	if !ok || key.entity != entity {
		return 0, fmt.Errorf("%w: entity %q", ErrUnknownToken, entity)
	}
	return key.id, nil
}

// Token returns the currently issued token for a record, if any.
func (m *Map) Token(entity string, id int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, ok := m.byID[pairKey{entity: entity, id: id}]
	return tok, ok
}

// Remove drops a single token pair. Unknown tokens are ignored.
func (m *Map) Remove(entity, tok string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byToken[tok]
	if !ok || key.entity != entity {
		return
	}
	delete(m.byToken, tok)
	delete(m.byID, key)
}

// InvalidateAll drops every pair in the map. Called after successful write
// operations and after privilege changes so stale tokens cannot be replayed.
func (m *Map) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.byToken)
	clear(m.byID)
}

// Len returns the number of live pairs.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.byToken)
}

// uniqueToken generates a token that does not collide with any live token.
// Caller must hold m.mu.
func (m *Map) uniqueToken() (string, error) {
	for range 10 {
		tok, err := token.Hex(tokenLength)
		if err != nil {
			return "", errors.Join(ErrTokenGeneration, err)
		}
		if _, exists := m.byToken[tok]; !exists {
			return tok, nil
		}
	}
	// 10 collisions in a row from crypto/rand means the entropy source is
	// broken, not that the map is full.
	return "", ErrTokenGeneration
}
