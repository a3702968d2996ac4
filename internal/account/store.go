package account

import (
	"context"

	"github.com/warp/core-ledger/internal/ledger"
)

// Store is the persistence interface backing the account manager. Every
// method takes the caller's ledger.UnitOfWork so that a customer or
// account write shares the same transaction as the paired ledger-account
// write the manager issues through ledger.Engine.
type Store interface {
	// CreateCustomer inserts a new customer row. Returns bankerr
	// Kind=Conflict if email already exists.
	CreateCustomer(ctx context.Context, uow ledger.UnitOfWork, c Customer) (Customer, error)

	// GetCustomer fetches a customer by internal id.
	GetCustomer(ctx context.Context, uow ledger.UnitOfWork, id int64) (Customer, error)

	// CreateAccount inserts a new customer-facing account row in PENDING.
	CreateAccount(ctx context.Context, uow ledger.UnitOfWork, a Account) (Account, error)

	// GetAccount fetches an account by internal id.
	GetAccount(ctx context.Context, uow ledger.UnitOfWork, id int64) (Account, error)

	// UpdateAccount persists status, opened_at and closed_at after a status
	// transition.
	UpdateAccount(ctx context.Context, uow ledger.UnitOfWork, a Account) error

	// AccountsByCustomer lists every account belonging to a customer.
	AccountsByCustomer(ctx context.Context, uow ledger.UnitOfWork, customerID int64) ([]Account, error)
}
