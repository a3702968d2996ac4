/*
Package pg is the Postgres-backed implementation of ledger.Store, one
file with a single Store struct implementing the domain Store interface.
Methods take an explicit ledger.UnitOfWork parameter instead of owning a
*pgxpool.Pool field; see the package doc on ledger.UnitOfWork for why.
*/
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/money"
)

const uniqueViolation = "23505"

// Store implements ledger.Store against Postgres.
type Store struct{}

// New builds a Postgres ledger.Store.
func New() *Store { return &Store{} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateLedgerAccount(ctx context.Context, uow ledger.UnitOfWork, acc ledger.LedgerAccount) (ledger.LedgerAccount, error) {
	row := uow.QueryRow(ctx,
		`INSERT INTO ledger_accounts (code, name, category, currency, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id`,
		acc.Code, acc.Name, string(acc.Category), acc.Currency,
	)
	if err := row.Scan(&acc.ID); err != nil {
		if isUniqueViolation(err) {
			return ledger.LedgerAccount{}, bankerr.New(bankerr.KindConflict, "ledger account with code %q already exists", acc.Code)
		}
		return ledger.LedgerAccount{}, err
	}
	acc.Active = true
	return acc, nil
}

func (s *Store) GetLedgerAccount(ctx context.Context, uow ledger.UnitOfWork, id int64) (ledger.LedgerAccount, error) {
	row := uow.QueryRow(ctx,
		`SELECT id, code, name, category, currency, is_active FROM ledger_accounts WHERE id = $1`, id)
	return scanLedgerAccount(row, id)
}

func (s *Store) GetLedgerAccountByCode(ctx context.Context, uow ledger.UnitOfWork, code string) (ledger.LedgerAccount, error) {
	row := uow.QueryRow(ctx,
		`SELECT id, code, name, category, currency, is_active FROM ledger_accounts WHERE code = $1`, code)
	acc, err := scanLedgerAccount(row, 0)
	if bankerr.Is(err, bankerr.KindNotFound) {
		return ledger.LedgerAccount{}, bankerr.New(bankerr.KindNotFound, "ledger account with code %q not found", code)
	}
	return acc, err
}

func scanLedgerAccount(row ledger.Row, fallbackID int64) (ledger.LedgerAccount, error) {
	var acc ledger.LedgerAccount
	var category string
	if err := row.Scan(&acc.ID, &acc.Code, &acc.Name, &category, &acc.Currency, &acc.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.LedgerAccount{}, bankerr.New(bankerr.KindNotFound, "ledger account %d not found", fallbackID)
		}
		return ledger.LedgerAccount{}, err
	}
	acc.Category = ledger.Category(category)
	return acc, nil
}

func (s *Store) DeactivateLedgerAccount(ctx context.Context, uow ledger.UnitOfWork, id int64) error {
	_, err := uow.Exec(ctx, `UPDATE ledger_accounts SET is_active = FALSE WHERE id = $1`, id)
	return err
}

func (s *Store) EntriesForTransaction(ctx context.Context, uow ledger.UnitOfWork, txnID uuid.UUID) ([]ledger.Entry, error) {
	rows, err := uow.Query(ctx,
		`SELECT id, transaction_id, account_id, direction, amount::text, currency, description, created_at
		 FROM ledger_entries WHERE transaction_id = $1`, txnID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (s *Store) InsertEntries(ctx context.Context, uow ledger.UnitOfWork, txnID uuid.UUID, currency string, entries []ledger.PostingEntry) ([]ledger.Entry, error) {
	out := make([]ledger.Entry, 0, len(entries))
	for _, pe := range entries {
		row := uow.QueryRow(ctx,
			`INSERT INTO ledger_entries (transaction_id, account_id, direction, amount, currency, description)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			txnID, pe.AccountID, string(pe.Direction), pe.Amount.Amount, currency, pe.Description,
		)
		e := ledger.Entry{
			TransactionID: txnID,
			AccountID:     pe.AccountID,
			Direction:     pe.Direction,
			Amount:        money.FromDecimal(pe.Amount.Amount, currency),
			Description:   pe.Description,
		}
		if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) SumByDirection(ctx context.Context, uow ledger.UnitOfWork, accountID int64) (string, string, error) {
	row := uow.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0)::text
		 FROM ledger_entries WHERE account_id = $1`, accountID)
	var debits, credits string
	if err := row.Scan(&debits, &credits); err != nil {
		return "", "", err
	}
	return debits, credits, nil
}

func (s *Store) EntriesByAccount(ctx context.Context, uow ledger.UnitOfWork, accountID int64) ([]ledger.Entry, error) {
	rows, err := uow.Query(ctx,
		`SELECT id, transaction_id, account_id, direction, amount::text, currency, description, created_at
		 FROM ledger_entries WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (s *Store) GlobalSums(ctx context.Context, uow ledger.UnitOfWork) (string, string, error) {
	row := uow.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0)::text
		 FROM ledger_entries`)
	var debits, credits string
	if err := row.Scan(&debits, &credits); err != nil {
		return "", "", err
	}
	return debits, credits, nil
}

func scanEntries(rows ledger.Rows) ([]ledger.Entry, error) {
	defer rows.Close()
	var out []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var direction, amountStr, currency string
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &direction, &amountStr, &currency, &e.Description, &createdAt); err != nil {
			return nil, err
		}
		e.Direction = ledger.Direction(direction)
		m, err := money.New(amountStr, currency)
		if err != nil {
			return nil, err
		}
		e.Amount = m
		e.CreatedAt = createdAt
		out = append(out, e)
	}
	return out, rows.Err()
}
