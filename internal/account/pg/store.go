/*
Package pg is the Postgres-backed implementation of account.Store, using
the same query shapes as internal/ledger/pg: INSERT ... RETURNING, with
a unique-violation mapped to bankerr.KindConflict.
*/
package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/warp/core-ledger/internal/account"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
)

const uniqueViolation = "23505"

// Store implements account.Store against Postgres.
type Store struct{}

// New builds a Postgres account.Store.
func New() *Store { return &Store{} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateCustomer(ctx context.Context, uow ledger.UnitOfWork, c account.Customer) (account.Customer, error) {
	row := uow.QueryRow(ctx,
		`INSERT INTO customers (external_id, first_name, last_name, email, kyc_status, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.ExternalID, c.FirstName, c.LastName, c.Email, string(c.KYCStatus), c.Active,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return account.Customer{}, bankerr.New(bankerr.KindConflict, "a customer with email %q already exists", c.Email)
		}
		return account.Customer{}, err
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, uow ledger.UnitOfWork, id int64) (account.Customer, error) {
	row := uow.QueryRow(ctx,
		`SELECT id, external_id, first_name, last_name, email, kyc_status, is_active, created_at, updated_at
		 FROM customers WHERE id = $1`, id)
	var c account.Customer
	var kyc string
	if err := row.Scan(&c.ID, &c.ExternalID, &c.FirstName, &c.LastName, &c.Email, &kyc, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Customer{}, bankerr.New(bankerr.KindNotFound, "customer %d not found", id)
		}
		return account.Customer{}, err
	}
	c.KYCStatus = account.KYCStatus(kyc)
	return c, nil
}

func (s *Store) CreateAccount(ctx context.Context, uow ledger.UnitOfWork, a account.Account) (account.Account, error) {
	row := uow.QueryRow(ctx,
		`INSERT INTO accounts (external_id, customer_id, ledger_account_id, product_type, status, currency)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		a.ExternalID, a.CustomerID, a.LedgerAccountID, string(a.ProductType), string(a.Status), a.Currency,
	)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return account.Account{}, err
	}
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, uow ledger.UnitOfWork, id int64) (account.Account, error) {
	row := uow.QueryRow(ctx,
		`SELECT id, external_id, customer_id, ledger_account_id, product_type, status, currency,
		        opened_at, closed_at, created_at, updated_at
		 FROM accounts WHERE id = $1`, id)
	return scanAccount(row, id)
}

func scanAccount(row ledger.Row, fallbackID int64) (account.Account, error) {
	var a account.Account
	var productType, status string
	if err := row.Scan(&a.ID, &a.ExternalID, &a.CustomerID, &a.LedgerAccountID, &productType, &status, &a.Currency,
		&a.OpenedAt, &a.ClosedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, bankerr.New(bankerr.KindNotFound, "account %d not found", fallbackID)
		}
		return account.Account{}, err
	}
	a.ProductType = account.ProductType(productType)
	a.Status = account.Status(status)
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, uow ledger.UnitOfWork, a account.Account) error {
	_, err := uow.Exec(ctx,
		`UPDATE accounts SET status = $1, opened_at = $2, closed_at = $3, updated_at = now() WHERE id = $4`,
		string(a.Status), a.OpenedAt, a.ClosedAt, a.ID,
	)
	return err
}

func (s *Store) AccountsByCustomer(ctx context.Context, uow ledger.UnitOfWork, customerID int64) ([]account.Account, error) {
	rows, err := uow.Query(ctx,
		`SELECT id, external_id, customer_id, ledger_account_id, product_type, status, currency,
		        opened_at, closed_at, created_at, updated_at
		 FROM accounts WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []account.Account
	for rows.Next() {
		var a account.Account
		var productType, status string
		if err := rows.Scan(&a.ID, &a.ExternalID, &a.CustomerID, &a.LedgerAccountID, &productType, &status, &a.Currency,
			&a.OpenedAt, &a.ClosedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.ProductType = account.ProductType(productType)
		a.Status = account.Status(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
