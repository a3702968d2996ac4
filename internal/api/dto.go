/*
Package api is the thin HTTP adapter: it owns the unit of work (open,
commit, rollback), translates JSON to and from domain calls, and maps
bankerr.Kind to HTTP status. It holds no business logic of its own;
every decision lives in internal/ledger, internal/account or
internal/txn.

Each handler follows the same dispatch shape: parse request, call
domain, writeJSON or writeError.
*/
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/account"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/txn"
)

// ErrorResponse is the error body shape for every 4xx/5xx response:
// `{ "detail": "<human message>" }`.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// --- customers ---

type createCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type customerResponse struct {
	ID         int64     `json:"id"`
	ExternalID uuid.UUID `json:"external_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	KYCStatus  string    `json:"kyc_status"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCustomerResponse(c account.Customer) customerResponse {
	return customerResponse{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		KYCStatus:  string(c.KYCStatus),
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
	}
}

// --- accounts ---

type openAccountRequest struct {
	CustomerID  int64  `json:"customer_id"`
	ProductType string `json:"product_type"`
	Currency    string `json:"currency"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type accountResponse struct {
	ID              int64      `json:"id"`
	ExternalID      uuid.UUID  `json:"external_id"`
	CustomerID      int64      `json:"customer_id"`
	LedgerAccountID int64      `json:"ledger_account_id"`
	ProductType     string     `json:"product_type"`
	Status          string     `json:"status"`
	Currency        string     `json:"currency"`
	OpenedAt        *time.Time `json:"opened_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toAccountResponse(a account.Account) accountResponse {
	return accountResponse{
		ID:              a.ID,
		ExternalID:      a.ExternalID,
		CustomerID:      a.CustomerID,
		LedgerAccountID: a.LedgerAccountID,
		ProductType:     string(a.ProductType),
		Status:          string(a.Status),
		Currency:        a.Currency,
		OpenedAt:        a.OpenedAt,
		ClosedAt:        a.ClosedAt,
		CreatedAt:       a.CreatedAt,
	}
}

type balanceResponse struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

// --- ledger ---

type createLedgerAccountRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Currency string `json:"currency"`
}

type ledgerAccountResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Currency string `json:"currency"`
	Active   bool   `json:"active"`
}

func toLedgerAccountResponse(a ledger.LedgerAccount) ledgerAccountResponse {
	return ledgerAccountResponse{
		ID:       a.ID,
		Code:     a.Code,
		Name:     a.Name,
		Category: string(a.Category),
		Currency: a.Currency,
		Active:   a.Active,
	}
}

type postEntryRequest struct {
	AccountID   int64  `json:"account_id"`
	Direction   string `json:"direction"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type postEntriesRequest struct {
	TransactionID uuid.UUID          `json:"transaction_id"`
	Currency      string             `json:"currency"`
	Entries       []postEntryRequest `json:"entries"`
}

type ledgerEntryResponse struct {
	ID            int64     `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     int64     `json:"account_id"`
	Direction     string    `json:"direction"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func toLedgerEntryResponse(e ledger.Entry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Direction:     string(e.Direction),
		Amount:        e.Amount.String(),
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

// --- transactions ---

type depositRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	AccountID      int64  `json:"account_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
}

type withdrawRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	AccountID      int64  `json:"account_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
}

type transferRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	SourceID       int64  `json:"source_account_id"`
	DestinationID  int64  `json:"destination_account_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
}

type reverseRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type transactionResponse struct {
	ID                      int64      `json:"id"`
	ExternalID              uuid.UUID  `json:"external_id"`
	IdempotencyKey          string     `json:"idempotency_key"`
	Type                    string     `json:"type"`
	Status                  string     `json:"status"`
	SourceAccountID         *int64     `json:"source_account_id,omitempty"`
	DestinationAccountID    *int64     `json:"destination_account_id,omitempty"`
	Amount                  string     `json:"amount"`
	Currency                string     `json:"currency"`
	Description             string     `json:"description"`
	ReferenceTransactionID  *int64     `json:"reference_transaction_id,omitempty"`
	LedgerTransactionID     *uuid.UUID `json:"ledger_transaction_id,omitempty"`
	ErrorMessage            *string    `json:"error_message,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	CompletedAt             *time.Time `json:"completed_at,omitempty"`
}

func toTransactionResponse(t txn.Transaction) transactionResponse {
	return transactionResponse{
		ID:                     t.ID,
		ExternalID:             t.ExternalID,
		IdempotencyKey:         t.IdempotencyKey,
		Type:                   string(t.Type),
		Status:                 string(t.Status),
		SourceAccountID:        t.SourceAccountID,
		DestinationAccountID:   t.DestinationAccountID,
		Amount:                 t.Amount.String(),
		Currency:               t.Amount.Currency,
		Description:            t.Description,
		ReferenceTransactionID: t.ReferenceTransactionID,
		LedgerTransactionID:    t.LedgerTransactionID,
		ErrorMessage:           t.ErrorMessage,
		CreatedAt:              t.CreatedAt,
		CompletedAt:            t.CompletedAt,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
