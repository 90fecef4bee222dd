package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pagekit/core/session"
)

// archiveKey is the suffix of the single key holding the archived set.
const archiveKey = "archive"

// Archive implements session.Archive on Redis. The whole record set lives
// under one key and is replaced in a single SET, which satisfies the
// contract's atomicity requirement without scripting. A durable Redis is a
// drop-in alternative to the flat session file when several instances need
// a shared archive.
type Archive struct {
	client *redis.Client
	key    string
	cfg    Config
}

// NewArchive creates a session archive on the given client.
func NewArchive(client *redis.Client, cfg Config) *Archive {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "pagekit:session:"
	}
	return &Archive{
		client: client,
		key:    prefix + archiveKey,
		cfg:    cfg,
	}
}

// Save replaces the archived set with the given records. An empty set
// removes the key so a fresh boot starts clean.
func (a *Archive) Save(ctx context.Context, records []session.Record) error {
	if len(records) == 0 {
		if err := a.client.Del(ctx, a.key).Err(); err != nil {
			return fmt.Errorf("clear session archive: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode session archive: %w", err)
	}

	if err := a.client.Set(ctx, a.key, payload, a.cfg.ArchiveTTL).Err(); err != nil {
		return fmt.Errorf("write session archive: %w", err)
	}
	return nil
}

// Load returns the archived records. A missing key means no archive and
// returns an empty set.
func (a *Archive) Load(ctx context.Context) ([]session.Record, error) {
	payload, err := a.client.Get(ctx, a.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session archive: %w", err)
	}

	var records []session.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode session archive: %w", err)
	}
	return records, nil
}
