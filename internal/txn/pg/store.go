/*
Package pg is the Postgres-backed implementation of txn.Store, following
the same query shape as internal/ledger/pg and internal/account/pg.

A unique-violation on idempotency_key is surfaced as bankerr.KindConflict,
matching the "once per key, result observed once" idempotency contract. In
practice the orchestrator's idempotency probe means this path is only hit
on a genuine concurrent race, not the normal retry flow.
*/
package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/money"
	"github.com/warp/core-ledger/internal/txn"
)

const uniqueViolation = "23505"

// Store implements txn.Store against Postgres.
type Store struct{}

// New builds a Postgres txn.Store.
func New() *Store { return &Store{} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) GetByIdempotencyKey(ctx context.Context, uow ledger.UnitOfWork, key string) (txn.Transaction, error) {
	row := uow.QueryRow(ctx, selectColumns+` WHERE idempotency_key = $1`, key)
	t, err := scanTransaction(row)
	if err != nil && bankerr.Is(err, bankerr.KindNotFound) {
		return txn.Transaction{}, bankerr.New(bankerr.KindNotFound, "no transaction with idempotency key %q", key)
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, uow ledger.UnitOfWork, t txn.Transaction) (txn.Transaction, error) {
	row := uow.QueryRow(ctx,
		`INSERT INTO transactions (external_id, idempotency_key, type, status, source_account_id,
		                            destination_account_id, amount, currency, description,
		                            reference_transaction_id, ledger_transaction_id, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		t.ExternalID, t.IdempotencyKey, string(t.Type), string(t.Status), t.SourceAccountID,
		t.DestinationAccountID, t.Amount.Amount, t.Amount.Currency, t.Description,
		t.ReferenceTransactionID, t.LedgerTransactionID, t.ErrorMessage,
	)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return txn.Transaction{}, bankerr.New(bankerr.KindConflict, "a transaction with idempotency key %q already exists", t.IdempotencyKey)
		}
		return txn.Transaction{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, uow ledger.UnitOfWork, t txn.Transaction) error {
	_, err := uow.Exec(ctx,
		`UPDATE transactions
		 SET status = $1, ledger_transaction_id = $2, error_message = $3, completed_at = $4
		 WHERE id = $5`,
		string(t.Status), t.LedgerTransactionID, t.ErrorMessage, t.CompletedAt, t.ID,
	)
	return err
}

func (s *Store) Get(ctx context.Context, uow ledger.UnitOfWork, id int64) (txn.Transaction, error) {
	row := uow.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	return scanTransaction(row)
}

const selectColumns = `
	SELECT id, external_id, idempotency_key, type, status, source_account_id, destination_account_id,
	       amount::text, currency, description, reference_transaction_id, ledger_transaction_id,
	       error_message, created_at, completed_at
	FROM transactions`

func scanTransaction(row ledger.Row) (txn.Transaction, error) {
	var t txn.Transaction
	var typ, status, amountStr, currency string
	if err := row.Scan(&t.ID, &t.ExternalID, &t.IdempotencyKey, &typ, &status, &t.SourceAccountID,
		&t.DestinationAccountID, &amountStr, &currency, &t.Description, &t.ReferenceTransactionID,
		&t.LedgerTransactionID, &t.ErrorMessage, &t.CreatedAt, &t.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return txn.Transaction{}, bankerr.New(bankerr.KindNotFound, "transaction not found")
		}
		return txn.Transaction{}, err
	}
	t.Type = txn.Type(typ)
	t.Status = txn.Status(status)
	m, err := money.New(amountStr, currency)
	if err != nil {
		return txn.Transaction{}, err
	}
	t.Amount = m
	return t, nil
}
