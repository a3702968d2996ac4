package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/core-ledger/internal/account"
	accountmem "github.com/warp/core-ledger/internal/account/memstore"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	ledgermem "github.com/warp/core-ledger/internal/ledger/memstore"
)

func newTestManager() (*account.Manager, ledger.UnitOfWork) {
	ledgerEngine := ledger.NewEngine(ledgermem.New())
	return account.NewManager(accountmem.New(), ledgerEngine), ledgermem.UOW{}
}

func TestCreateCustomer_DuplicateEmailConflicts(t *testing.T) {
	m, uow := newTestManager()
	ctx := context.Background()

	_, err := m.CreateCustomer(ctx, uow, "Alice", "Anders", "alice@x.test")
	require.NoError(t, err)

	_, err = m.CreateCustomer(ctx, uow, "Alice", "Clone", "alice@x.test")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindConflict))
}

func TestOpenAccount_CreatesPairedLedgerAccountInPending(t *testing.T) {
	m, uow := newTestManager()
	ctx := context.Background()

	c, err := m.CreateCustomer(ctx, uow, "Alice", "Anders", "alice@x.test")
	require.NoError(t, err)

	acc, err := m.OpenAccount(ctx, uow, c.ID, account.ProductChecking, "USD")
	require.NoError(t, err)
	assert.Equal(t, account.StatusPending, acc.Status)
	assert.NotZero(t, acc.LedgerAccountID)
}

func TestOpenAccount_UnknownCustomerNotFound(t *testing.T) {
	m, uow := newTestManager()
	ctx := context.Background()

	_, err := m.OpenAccount(ctx, uow, 9999, account.ProductChecking, "USD")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindNotFound))
}

func TestChangeStatus_FollowsTransitionTable(t *testing.T) {
	m, uow := newTestManager()
	ctx := context.Background()

	c, _ := m.CreateCustomer(ctx, uow, "Alice", "Anders", "alice@x.test")
	acc, _ := m.OpenAccount(ctx, uow, c.ID, account.ProductChecking, "USD")

	acc, err := m.ChangeStatus(ctx, uow, acc.ID, account.StatusActive, "KYC passed")
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, acc.Status)
	require.NotNil(t, acc.OpenedAt)

	_, err = m.ChangeStatus(ctx, uow, acc.ID, account.StatusPending, "nonsense")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindIllegalTransition))
}

func TestChangeStatus_RequiresReason(t *testing.T) {
	m, uow := newTestManager()
	ctx := context.Background()

	c, _ := m.CreateCustomer(ctx, uow, "Alice", "Anders", "alice@x.test")
	acc, _ := m.OpenAccount(ctx, uow, c.ID, account.ProductChecking, "USD")

	_, err := m.ChangeStatus(ctx, uow, acc.ID, account.StatusActive, "")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindValidation))
}

func TestChangeStatus_ClosingDeactivatesLedgerAccount(t *testing.T) {
	ledgerEngine := ledger.NewEngine(ledgermem.New())
	m, uow := account.NewManager(accountmem.New(), ledgerEngine), ledgermem.UOW{}
	ctx := context.Background()

	c, _ := m.CreateCustomer(ctx, uow, "Alice", "Anders", "alice@x.test")
	acc, _ := m.OpenAccount(ctx, uow, c.ID, account.ProductChecking, "USD")
	acc, _ = m.ChangeStatus(ctx, uow, acc.ID, account.StatusActive, "KYC passed")

	acc, err := m.ChangeStatus(ctx, uow, acc.ID, account.StatusClosed, "customer requested closure")
	require.NoError(t, err)
	require.NotNil(t, acc.ClosedAt)

	ledgerAcc, err := ledgerEngine.GetLedgerAccountByCode(ctx, uow, "CUST-CHECKING-000001")
	require.NoError(t, err)
	assert.Equal(t, acc.LedgerAccountID, ledgerAcc.ID)
	assert.False(t, ledgerAcc.Active)

	_, err = m.GetBalance(ctx, uow, acc.ID)
	require.NoError(t, err)
}
