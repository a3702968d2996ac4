/*
Package pg owns the Postgres connection pool and schema for the core
banking ledger. The per-package Store implementations under
internal/ledger/pg, internal/account/pg and internal/txn/pg are stateless
SQL strategies that operate on whatever ledger.UnitOfWork they are handed
(a PoolUOW over the pool for standalone reads, a TxUOW over a pgx.Tx for
the composed writes the adapter drives); this package owns opening the
pool, creating the schema once at startup (Open calls Migrate), and those
two UnitOfWork adapters.
*/
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates a connection pool against databaseURL and ensures the
// schema exists.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: migrate: %w", err)
	}
	return pool, nil
}
