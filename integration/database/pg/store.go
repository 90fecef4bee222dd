package pg

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/pagekit/core/storage"
)

// identRe restricts entity and column names to plain SQL identifiers.
// Names come from route segments and form fields, never from trusted code
// alone, so anything else is rejected before reaching the SQL text.
var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RecordStore implements the storage.Store contract over PostgreSQL with a
// table per entity and a bigint "id" primary key.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates a record store on the given pool.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// db returns the transaction from ctx when one is present, else the pool,
// so a handler can group several record operations atomically with WithTx.
func (s *RecordStore) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Get returns one record by id.
func (s *RecordStore) Get(ctx context.Context, entity string, id int64) (storage.Record, error) {
	table, err := ident(entity)
	if err != nil {
		return nil, err
	}

	rows, err := s.db(ctx).Query(ctx, fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return nil, translate(err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, translate(err)
	}
	return storage.Record(rec), nil
}

// List returns one page of records ordered by id, plus the total count.
func (s *RecordStore) List(ctx context.Context, entity string, page, perPage int) ([]storage.Record, int, error) {
	table, err := ident(entity)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	db := s.db(ctx)

	var total int
	if err := db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	rows, err := db.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %s ORDER BY id LIMIT $1 OFFSET $2`, table),
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, translate(err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, translate(err)
	}

	records := make([]storage.Record, len(maps))
	for i, m := range maps {
		records[i] = storage.Record(m)
	}
	return records, total, nil
}

// Insert stores a new record and returns the generated id.
func (s *RecordStore) Insert(ctx context.Context, entity string, fields storage.Record) (int64, error) {
	table, err := ident(entity)
	if err != nil {
		return 0, err
	}
	columns, args, err := sortedColumns(fields)
	if err != nil {
		return 0, err
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var id int64
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if err := s.db(ctx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// Update rewrites the given fields of an existing record.
func (s *RecordStore) Update(ctx context.Context, entity string, id int64, fields storage.Record) error {
	table, err := ident(entity)
	if err != nil {
		return err
	}
	columns, args, err := sortedColumns(fields)
	if err != nil {
		return err
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		table, strings.Join(assignments, ", "), len(args))
	tag, err := s.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}

// Delete removes a record.
func (s *RecordStore) Delete(ctx context.Context, entity string, id int64) error {
	table, err := ident(entity)
	if err != nil {
		return err
	}

	tag, err := s.db(ctx).Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}

// ident validates a name for direct use as a SQL identifier.
func ident(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidEntity, name)
	}
	return name, nil
}

// sortedColumns validates field names and returns them with their values
// in a deterministic order.
func sortedColumns(fields storage.Record) ([]string, []any, error) {
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("%w: no fields", storage.ErrInvalidEntity)
	}

	columns := make([]string, 0, len(fields))
	for col := range fields {
		if _, err := ident(col); err != nil {
			return nil, nil, err
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = fields[col]
	}
	return columns, args, nil
}

// translate maps driver errors to the storage sentinels.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
