package api

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warp/core-ledger/internal/storage/pg"
)

// withTx opens a SERIALIZABLE transaction, hands it to fn as a
// ledger.UnitOfWork, and commits on success or rolls back on error. The
// core never calls Commit or Rollback itself; this is the one place in
// the whole module that does.
func withTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(uow pg.TxUOW) (T, error)) (T, error) {
	var zero T
	tx, uow, err := pg.Begin(ctx, pool)
	if err != nil {
		return zero, err
	}

	result, err := fn(uow)
	if err != nil {
		_ = tx.Rollback(ctx)
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}
	return result, nil
}
