package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/pkg/token"
)

// Store is the in-memory session registry keyed by session token.
// All methods are safe for concurrent use.
type Store struct {
	cfg     Config
	log     *slog.Logger
	archive Archive
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	// archiveMu serializes SaveAll and Load against each other.
	archiveMu sync.Mutex
}

// NewStore creates a session store. Without options it uses DefaultConfig,
// a file archive at the configured path and a discarding logger.
func NewStore(opts ...Option) *Store {
	s := &Store{
		cfg:      DefaultConfig(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Timeout < minTimeout {
		s.cfg.Timeout = minTimeout
	}
	if s.archive == nil {
		s.archive = NewFileArchive(s.cfg.File)
	}
	return s
}

// Config returns the effective store configuration, floors applied.
func (s *Store) Config() Config { return s.cfg }

// FindOrCreate returns the session behind the given token, creating a fresh
// anonymous session when the token is empty or unknown. The second return
// value reports whether a new session was created.
func (s *Store) FindOrCreate(tok string) (*Session, bool, error) {
	if tok != "" {
		s.mu.RLock()
		sess, ok := s.sessions[tok]
		s.mu.RUnlock()
		if ok {
			return sess, false, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fresh, err := s.uniqueToken()
	if err != nil {
		return nil, false, err
	}
	sess := newSession(fresh, s.now())
	s.sessions[fresh] = sess
	return sess, true, nil
}

// Get returns the session behind a token without creating one.
func (s *Store) Get(tok string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[tok]
	return sess, ok
}

// Expired reports whether a session has exceeded the idle timeout.
// A session idle for exactly the timeout is still valid.
func (s *Store) Expired(sess *Session) bool {
	return s.now().Sub(sess.RefreshedAt()) > s.cfg.Timeout
}

// Touch resets a session's idle timeout to now.
func (s *Store) Touch(sess *Session) {
	sess.Touch(s.now())
}

// Destroy removes a session from the store. Unknown tokens are ignored.
func (s *Store) Destroy(tok string) {
	s.mu.Lock()
	delete(s.sessions, tok)
	s.mu.Unlock()
}

// DestroyAndPersist removes a session and immediately rewrites the archive
// so the removal survives a crash.
func (s *Store) DestroyAndPersist(ctx context.Context, tok string) error {
	s.Destroy(tok)
	return s.SaveAll(ctx)
}

// Range calls fn for every live session until fn returns false.
func (s *Store) Range(fn func(*Session) bool) {
	s.mu.RLock()
	snapshot := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		snapshot = append(snapshot, sess)
	}
	s.mu.RUnlock()

	for _, sess := range snapshot {
		if !fn(sess) {
			return
		}
	}
}

// Count returns the number of live sessions, anonymous ones included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SaveAll snapshots all authenticated sessions to the archive. Anonymous
// sessions are dropped.
func (s *Store) SaveAll(ctx context.Context) error {
	s.archiveMu.Lock()
	defer s.archiveMu.Unlock()

	var records []Record
	s.Range(func(sess *Session) bool {
		if rec, ok := snapshot(sess); ok {
			records = append(records, rec)
		}
		return true
	})

	if err := s.archive.Save(ctx, records); err != nil {
		return errors.Join(ErrArchive, err)
	}
	s.log.DebugContext(ctx, "session archive written", slog.Int("sessions", len(records)))
	return nil
}

// Load replaces the store contents with the archived sessions. A missing or
// unreadable archive is logged and the store starts empty; that is not an
// error for the caller.
func (s *Store) Load(ctx context.Context) error {
	s.archiveMu.Lock()
	defer s.archiveMu.Unlock()

	records, err := s.archive.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "session archive unreadable, starting empty", logger.Error(err))
		return nil
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*Session, len(records))
	for _, rec := range records {
		s.sessions[rec.Token] = restore(rec, now)
	}
	s.log.InfoContext(ctx, "session archive loaded", slog.Int("sessions", len(records)))
	return nil
}

// uniqueToken generates a session token that collides with no live session.
// Caller must hold s.mu.
func (s *Store) uniqueToken() (string, error) {
	for range 10 {
		tok, err := token.Hex(tokenLength)
		if err != nil {
			return "", errors.Join(ErrTokenGeneration, err)
		}
		if _, exists := s.sessions[tok]; !exists {
			return tok, nil
		}
	}
	return "", ErrTokenGeneration
}
