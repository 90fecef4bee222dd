package storage

import "context"

// Record is one entity row as column name to value.
type Record map[string]any

// Store is the narrow contract handlers use to reach their records. The
// dispatcher never touches it; only handler implementations do, so a
// handler backed by anything else (API, file, fixture) needs no Store at
// all.
type Store interface {
	// Get returns one record by id, or ErrRecordNotFound.
	Get(ctx context.Context, entity string, id int64) (Record, error)

	// List returns one page of records plus the total count. Page numbers
	// start at one; a page beyond the end returns an empty slice, not an
	// error.
	List(ctx context.Context, entity string, page, perPage int) ([]Record, int, error)

	// Insert stores a new record and returns its generated id.
	Insert(ctx context.Context, entity string, fields Record) (int64, error)

	// Update rewrites the given fields of an existing record, or returns
	// ErrRecordNotFound.
	Update(ctx context.Context, entity string, id int64, fields Record) error

	// Delete removes a record, or returns ErrRecordNotFound.
	Delete(ctx context.Context, entity string, id int64) error
}
