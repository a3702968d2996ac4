/*
Package txn implements the transaction orchestrator: the business-level
operations (deposit, withdrawal, transfer, reversal) that compose the
account manager and the ledger engine behind a single idempotency key.

Each operation follows the same "load, validate, mutate, persist" shape:
idempotency probe, participant validation, balance check where relevant,
PROCESSING row, ledger posting, terminal status. No audit_log row is
written for business transactions.
*/
package txn

import (
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/money"
)

// Type is the kind of business transaction.
type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
	TypeTransfer   Type = "TRANSFER"
	TypeReversal   Type = "REVERSAL"
)

// Status is a business transaction's lifecycle state. Once created, status
// is the only mutable field.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusReversed   Status = "REVERSED"
)

// Transaction is a business-level operation record.
type Transaction struct {
	ID                     int64
	ExternalID             uuid.UUID
	IdempotencyKey         string
	Type                   Type
	Status                 Status
	SourceAccountID        *int64
	DestinationAccountID   *int64
	Amount                 money.Money
	Description            string
	ReferenceTransactionID *int64
	LedgerTransactionID    *uuid.UUID
	ErrorMessage           *string
	CreatedAt              time.Time
	CompletedAt            *time.Time
}
