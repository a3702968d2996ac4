package txn

import (
	"context"

	"github.com/warp/core-ledger/internal/ledger"
)

// Store is the persistence interface backing the orchestrator.
type Store interface {
	// GetByIdempotencyKey returns the existing transaction for key, or
	// bankerr Kind=NotFound if none exists yet.
	GetByIdempotencyKey(ctx context.Context, uow ledger.UnitOfWork, key string) (Transaction, error)

	// Create inserts a new transaction row, normally in PROCESSING.
	Create(ctx context.Context, uow ledger.UnitOfWork, t Transaction) (Transaction, error)

	// Update persists status, error message, ledger-transaction id and
	// completed_at after the posting attempt resolves.
	Update(ctx context.Context, uow ledger.UnitOfWork, t Transaction) error

	// Get fetches a transaction by internal id.
	Get(ctx context.Context, uow ledger.UnitOfWork, id int64) (Transaction, error)
}
