package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/audit"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/money"
)

func nowUTC() *time.Time {
	t := time.Now().UTC()
	return &t
}

// Manager is the account operation surface: customer records, account
// opening, and status transitions. It composes a Store with the ledger
// Engine so every account carries a paired ledger account.
type Manager struct {
	store  Store
	ledger *ledger.Engine
}

// NewManager builds an account Manager over the given Store and ledger Engine.
func NewManager(store Store, ledgerEngine *ledger.Engine) *Manager {
	return &Manager{store: store, ledger: ledgerEngine}
}

// CreateCustomer inserts a new customer. Fails with Kind=Conflict if the
// email is already in use (enforced at the store by a unique constraint;
// the manager surfaces it as a bankerr).
func (m *Manager) CreateCustomer(ctx context.Context, uow ledger.UnitOfWork, firstName, lastName, email string) (Customer, error) {
	c, err := m.store.CreateCustomer(ctx, uow, Customer{
		ExternalID: uuid.New(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		KYCStatus:  KYCPending,
		Active:     true,
	})
	if err != nil {
		return Customer{}, err
	}
	_ = audit.Record(ctx, uow, "customer", fmt.Sprint(c.ID), "CREATED", "")
	return c, nil
}

// OpenAccount verifies the customer exists and is active, creates the
// paired ledger account with a derived code and category, and persists a
// new customer-facing account in PENDING.
func (m *Manager) OpenAccount(ctx context.Context, uow ledger.UnitOfWork, customerID int64, productType ProductType, currency string) (Account, error) {
	customer, err := m.store.GetCustomer(ctx, uow, customerID)
	if err != nil {
		return Account{}, err
	}
	if !customer.Active {
		return Account{}, bankerr.New(bankerr.KindAccountInactive, "customer %d is not active", customerID)
	}
	if currency == "" {
		currency = "USD"
	}

	code := fmt.Sprintf("CUST-%s-%06d", productType, customerID)
	name := fmt.Sprintf("%s %s %s", customer.FirstName, customer.LastName, productType)

	ledgerAcc, err := m.ledger.CreateLedgerAccount(ctx, uow, code, name, productCategory(productType), currency)
	if err != nil {
		return Account{}, err
	}

	acc, err := m.store.CreateAccount(ctx, uow, Account{
		ExternalID:      uuid.New(),
		CustomerID:      customerID,
		LedgerAccountID: ledgerAcc.ID,
		ProductType:     productType,
		Status:          StatusPending,
		Currency:        currency,
	})
	if err != nil {
		return Account{}, err
	}
	_ = audit.Record(ctx, uow, "account", fmt.Sprint(acc.ID), "OPENED", code)
	return acc, nil
}

// ChangeStatus applies the state machine transition and its side effects:
// setting opened_at on the first entry into ACTIVE, setting closed_at and
// deactivating the paired ledger account on entry into CLOSED.
func (m *Manager) ChangeStatus(ctx context.Context, uow ledger.UnitOfWork, accountID int64, newStatus Status, reason string) (Account, error) {
	if strings.TrimSpace(reason) == "" {
		return Account{}, bankerr.New(bankerr.KindValidation, "a reason is required for every status transition")
	}

	acc, err := m.store.GetAccount(ctx, uow, accountID)
	if err != nil {
		return Account{}, err
	}
	if !canTransition(acc.Status, newStatus) {
		return Account{}, bankerr.New(bankerr.KindIllegalTransition, "cannot transition account from %s to %s", acc.Status, newStatus)
	}

	prev := acc.Status
	nowPtr := nowUTC()

	acc.Status = newStatus
	switch newStatus {
	case StatusActive:
		if acc.OpenedAt == nil {
			acc.OpenedAt = nowPtr
		}
	case StatusClosed:
		acc.ClosedAt = nowPtr
		if err := m.ledger.DeactivateLedgerAccount(ctx, uow, acc.LedgerAccountID); err != nil {
			return Account{}, err
		}
	}

	if err := m.store.UpdateAccount(ctx, uow, acc); err != nil {
		return Account{}, err
	}
	_ = audit.Record(ctx, uow, "account", fmt.Sprint(acc.ID), "STATUS_CHANGED", fmt.Sprintf("%s -> %s: %s", prev, newStatus, reason))
	return acc, nil
}

// GetAccount fetches a customer-facing account by id.
func (m *Manager) GetAccount(ctx context.Context, uow ledger.UnitOfWork, id int64) (Account, error) {
	return m.store.GetAccount(ctx, uow, id)
}

// GetBalance returns the live balance of the ledger account paired with
// the given customer-facing account.
func (m *Manager) GetBalance(ctx context.Context, uow ledger.UnitOfWork, accountID int64) (money.Money, error) {
	acc, err := m.store.GetAccount(ctx, uow, accountID)
	if err != nil {
		return money.Money{}, err
	}
	return m.ledger.GetBalance(ctx, uow, acc.LedgerAccountID)
}

// GetCustomerAccounts lists every account belonging to a customer.
func (m *Manager) GetCustomerAccounts(ctx context.Context, uow ledger.UnitOfWork, customerID int64) ([]Account, error) {
	return m.store.AccountsByCustomer(ctx, uow, customerID)
}
