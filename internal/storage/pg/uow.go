package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warp/core-ledger/internal/ledger"
)

// PoolUOW adapts *pgxpool.Pool to ledger.UnitOfWork for read-only calls
// that do not need to share a transaction with anything else (e.g. the
// reconcile scheduler's periodic integrity check).
type PoolUOW struct{ Pool *pgxpool.Pool }

func (p PoolUOW) Exec(ctx context.Context, sql string, args ...any) (ledger.CommandTag, error) {
	return p.Pool.Exec(ctx, sql, args...)
}

func (p PoolUOW) Query(ctx context.Context, sql string, args ...any) (ledger.Rows, error) {
	return p.Pool.Query(ctx, sql, args...)
}

func (p PoolUOW) QueryRow(ctx context.Context, sql string, args ...any) ledger.Row {
	return p.Pool.QueryRow(ctx, sql, args...)
}

// TxUOW adapts pgx.Tx to ledger.UnitOfWork. The adapter layer
// (internal/api) opens one of these per request at SERIALIZABLE
// isolation, hands it to the orchestrator/manager/engine, and commits or
// rolls it back depending on the outcome; the core itself never calls
// Commit or Rollback.
type TxUOW struct{ Tx pgx.Tx }

func (t TxUOW) Exec(ctx context.Context, sql string, args ...any) (ledger.CommandTag, error) {
	return t.Tx.Exec(ctx, sql, args...)
}

func (t TxUOW) Query(ctx context.Context, sql string, args ...any) (ledger.Rows, error) {
	return t.Tx.Query(ctx, sql, args...)
}

func (t TxUOW) QueryRow(ctx context.Context, sql string, args ...any) ledger.Row {
	return t.Tx.QueryRow(ctx, sql, args...)
}

// Begin opens a new SERIALIZABLE transaction against pool, wrapped as a
// ledger.UnitOfWork.
func Begin(ctx context.Context, pool *pgxpool.Pool) (pgx.Tx, TxUOW, error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, TxUOW{}, err
	}
	return tx, TxUOW{Tx: tx}, nil
}
