// Package pg provides PostgreSQL connection management and the pgx-backed
// record store.
//
// Connect creates a pgxpool with linear-backoff retry and a verification
// ping, which absorbs the transient failures of services restarting
// together. Configuration maps from the environment:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
// # Record Store
//
// RecordStore implements the storage.Store contract with a table per
// entity and a bigint "id" primary key:
//
//	store := pg.NewRecordStore(pool)
//	rec, err := store.Get(ctx, "orders", 42)
//
// Entity and column names are validated as plain identifiers before they
// reach the SQL text; anything else returns storage.ErrInvalidEntity.
// Driver errors translate to the storage sentinels (ErrRecordNotFound,
// ErrDuplicate) so handlers never import pgx.
//
// # Transactions
//
// WithTx stores a pgx.Tx in the context; every RecordStore method checks
// for one and runs inside it when present.
//
// # Health
//
// Healthcheck returns a ping function for readiness probes.
package pg
