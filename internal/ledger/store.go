package ledger

import (
	"context"

	"github.com/google/uuid"
)

// UnitOfWork is the handle to the current unit of work. A single request's
// worth of work shares one UnitOfWork across the ledger, account, and txn
// packages so that a posting, an account transition, and a business
// transaction row commit or roll back together.
//
// internal/storage/pg wraps a *pgxpool.Pool (PoolUOW) or a pgx.Tx (TxUOW)
// to satisfy this interface, so Engine methods run unmodified whether they
// are given a pool (for standalone reads) or a transaction (for the
// composed writes the txn orchestrator drives).
//
// The core NEVER calls Commit or Rollback on a UnitOfWork: the ledger
// engine never commits on its own, callers control transaction
// boundaries. Only the adapter layer (internal/api) opens and closes one.
type UnitOfWork interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// CommandTag, Rows and Row narrow pgx's result types down to what this
// package actually uses, so ledger/account/txn do not need to import pgx
// directly; only the pg adapter packages do.
type CommandTag interface {
	RowsAffected() int64
}

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Row
	Next() bool
	Close()
	Err() error
}

// Store is the persistence interface backing the ledger engine. Every
// method takes an explicit UnitOfWork handle, see the package doc on
// UnitOfWork.
type Store interface {
	// CreateLedgerAccount inserts a new chart-of-accounts row. Returns
	// bankerr Kind=Conflict if code already exists.
	CreateLedgerAccount(ctx context.Context, uow UnitOfWork, acc LedgerAccount) (LedgerAccount, error)

	// GetLedgerAccount fetches a ledger account by id.
	GetLedgerAccount(ctx context.Context, uow UnitOfWork, id int64) (LedgerAccount, error)

	// GetLedgerAccountByCode fetches a ledger account by its unique code.
	// Returns bankerr Kind=NotFound if absent.
	GetLedgerAccountByCode(ctx context.Context, uow UnitOfWork, code string) (LedgerAccount, error)

	// DeactivateLedgerAccount flips the active flag to false.
	DeactivateLedgerAccount(ctx context.Context, uow UnitOfWork, id int64) error

	// EntriesForTransaction returns any entries already posted under
	// txnID, in any order. Empty slice (not an error) if none exist yet.
	EntriesForTransaction(ctx context.Context, uow UnitOfWork, txnID uuid.UUID) ([]Entry, error)

	// InsertEntries appends a balanced set of entries sharing txnID.
	InsertEntries(ctx context.Context, uow UnitOfWork, txnID uuid.UUID, currency string, entries []PostingEntry) ([]Entry, error)

	// SumByDirection returns the sum of DEBIT and CREDIT entries for an
	// account, each as a decimal string (exact, never an approximation).
	SumByDirection(ctx context.Context, uow UnitOfWork, accountID int64) (debits, credits string, err error)

	// EntriesByAccount returns all entries for an account, newest first by
	// created_at then by id.
	EntriesByAccount(ctx context.Context, uow UnitOfWork, accountID int64) ([]Entry, error)

	// GlobalSums returns the ledger-wide debit and credit totals, as
	// decimal strings, for CheckIntegrity.
	GlobalSums(ctx context.Context, uow UnitOfWork) (debits, credits string, err error)
}
