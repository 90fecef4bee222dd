package session

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
)

// Record is the serialized form of an authenticated session. Opaque id
// pairs, scratch settings, flash messages and the CSRF token are deliberately
// absent: they must not survive a restart.
type Record struct {
	Token       string
	ID          uuid.UUID
	CreatedAt   time.Time
	RefreshedAt time.Time
	User        User
	Lang        string
	Attrs       map[string]string
}

// Archive persists session records across restarts. Implementations must
// write the full set atomically; partial archives are worse than none.
type Archive interface {
	Save(ctx context.Context, records []Record) error
	Load(ctx context.Context) ([]Record, error)
}

// snapshot converts a session into its serialized form. Anonymous sessions
// are not archived; ok is false for them.
func snapshot(s *Session) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.authed {
		return Record{}, false
	}

	attrs := make(map[string]string, len(s.attrs))
	for k, v := range s.attrs {
		attrs[k] = v
	}
	return Record{
		Token:       s.token,
		ID:          s.id,
		CreatedAt:   s.createdAt,
		RefreshedAt: s.refreshedAt,
		User:        s.user,
		Lang:        s.lang,
		Attrs:       attrs,
	}, true
}

// restore rebuilds a live session from its archived form. The idle clock
// restarts at load time so archived sessions do not expire in bulk at boot.
func restore(rec Record, now time.Time) *Session {
	s := newSession(rec.Token, now)
	s.id = rec.ID
	s.createdAt = rec.CreatedAt
	s.user = rec.User
	s.authed = true
	s.lang = rec.Lang
	if rec.Attrs != nil {
		s.attrs = rec.Attrs
	}
	return s
}

// FileArchive stores session records gob-encoded in a single flat file.
type FileArchive struct {
	path string
}

// NewFileArchive creates a file archive at the given path.
func NewFileArchive(path string) *FileArchive {
	return &FileArchive{path: path}
}

// Save writes all records to a temp file and renames it into place.
func (a *FileArchive) Save(_ context.Context, records []Record) error {
	tmp := a.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create session archive: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode session archive: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close session archive: %w", err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session archive: %w", err)
	}
	return nil
}

// Load reads all records from the archive file. A missing file yields an
// empty set without error.
func (a *FileArchive) Load(_ context.Context) ([]Record, error) {
	f, err := os.Open(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open session archive: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode session archive: %w", err)
	}
	return records, nil
}
