/*
Package ledger implements the append-only double-entry ledger: the chart
of accounts and the immutable entry log, with per-posting atomic
validation and idempotency on a client-supplied transaction id.
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/money"
)

// Category is one of the five fundamental accounting categories.
// Immutable once a LedgerAccount is created.
type Category string

const (
	CategoryAsset     Category = "ASSET"
	CategoryLiability Category = "LIABILITY"
	CategoryEquity    Category = "EQUITY"
	CategoryRevenue   Category = "REVENUE"
	CategoryExpense   Category = "EXPENSE"
)

// Direction is the side of a ledger entry.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// LedgerAccount is a chart-of-accounts entry. Never deleted, only
// deactivated; code, category and currency are immutable after creation.
type LedgerAccount struct {
	ID       int64
	Code     string
	Name     string
	Category Category
	Currency string
	Active   bool
}

// Entry is a single immutable ledger entry. Every entry belongs to a
// posting (TransactionID) whose DEBIT sum equals its CREDIT sum.
type Entry struct {
	ID            int64
	TransactionID uuid.UUID
	AccountID     int64
	Direction     Direction
	Amount        money.Money
	Description   string
	CreatedAt     time.Time
}

// PostingEntry is one line of a caller-supplied posting request: an
// account, a direction, a positive amount, and a description. Currency is
// never supplied here; it is derived from the posting as a whole.
type PostingEntry struct {
	AccountID   int64
	Direction   Direction
	Amount      money.Money
	Description string
}

// IntegrityReport is the result of CheckIntegrity: the global invariant
// that the ledger's total debits equal its total credits.
type IntegrityReport struct {
	TotalDebits  money.Money
	TotalCredits money.Money
	Difference   money.Money
	IsBalanced   bool
}
