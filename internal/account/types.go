/*
Package account implements customer records and customer-facing accounts:
the state machine governing an account's lifecycle, and the pairing of
every customer account to one ledger account.
*/
package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/ledger"
)

// KYCStatus is a customer's know-your-customer verification state.
type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCVerified KYCStatus = "VERIFIED"
	KYCRejected KYCStatus = "REJECTED"
)

// Customer is a bank customer. Email is globally unique.
type Customer struct {
	ID         int64
	ExternalID uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	KYCStatus  KYCStatus
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductType is the kind of customer-facing account.
type ProductType string

const (
	ProductChecking ProductType = "CHECKING"
	ProductSavings  ProductType = "SAVINGS"
	ProductCredit   ProductType = "CREDIT"
	ProductPrepaid  ProductType = "PREPAID"
)

// Status is a customer-facing account's lifecycle state.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusFrozen  Status = "FROZEN"
	StatusBlocked Status = "BLOCKED"
	StatusClosed  Status = "CLOSED"
)

// Account is a customer-facing account, one-to-one with a LedgerAccount.
type Account struct {
	ID              int64
	ExternalID      uuid.UUID
	CustomerID      int64
	LedgerAccountID int64
	ProductType     ProductType
	Status          Status
	Currency        string
	OpenedAt        *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// productCategory maps a product type to its accounting category. From
// the bank's viewpoint a customer deposit is always a liability, whatever
// the product.
func productCategory(ProductType) ledger.Category {
	return ledger.CategoryLiability
}
