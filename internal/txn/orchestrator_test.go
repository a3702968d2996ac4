package txn_test

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
	"github.com/warp/core-ledger/internal/money"
	"github.com/warp/core-ledger/internal/txn"
	txnmem "github.com/warp/core-ledger/internal/txn/memstore"
)

type harness struct {
	ledger       *ledger.Engine
	manager      *account.Manager
	orchestrator *txn.Orchestrator
	uow          ledger.UnitOfWork
}

func newHarness() *harness {
	ledgerEngine := ledger.NewEngine(ledgermem.New())
	manager := account.NewManager(accountmem.New(), ledgerEngine)
	orchestrator := txn.NewOrchestrator(txnmem.New(), manager, ledgerEngine)
	return &harness{ledger: ledgerEngine, manager: manager, orchestrator: orchestrator, uow: ledgermem.UOW{}}
}

func (h *harness) openActiveAccount(t *testing.T, email string) account.Account {
	t.Helper()
	ctx := context.Background()
	c, err := h.manager.CreateCustomer(ctx, h.uow, "Test", "User", email)
	require.NoError(t, err)
	acc, err := h.manager.OpenAccount(ctx, h.uow, c.ID, account.ProductChecking, "USD")
	require.NoError(t, err)
	acc, err = h.manager.ChangeStatus(ctx, h.uow, acc.ID, account.StatusActive, "onboarding complete")
	require.NoError(t, err)
	return acc
}

func usd(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.New(s, "USD")
	require.NoError(t, err)
	return m
}

// Scenario 1: create customer -> open CHECKING -> ACTIVE -> deposit 1000.00.
func TestScenario_DepositCreditsAccountAndCash(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	tx, err := h.orchestrator.Deposit(ctx, h.uow, "dep-1", acc.ID, usd(t, "1000.00"), "initial deposit")
	require.NoError(t, err)
	assert.Equal(t, txn.StatusCompleted, tx.Status)

	balance, err := h.manager.GetBalance(ctx, h.uow, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.0000", balance.String())

	cash, err := h.ledger.GetLedgerAccountByCode(ctx, h.uow, "BANK-CASH-USD")
	require.NoError(t, err)
	cashBalance, err := h.ledger.GetBalance(ctx, h.uow, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.0000", cashBalance.String())
}

// Scenario 2: deposit 1000, withdraw 300 -> balance 700, cash 700.
func TestScenario_WithdrawDebitsAccountAndCash(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	_, err := h.orchestrator.Deposit(ctx, h.uow, "dep-1", acc.ID, usd(t, "1000.00"), "initial deposit")
	require.NoError(t, err)

	tx, err := h.orchestrator.Withdraw(ctx, h.uow, "wd-1", acc.ID, usd(t, "300.00"), "atm withdrawal")
	require.NoError(t, err)
	assert.Equal(t, txn.StatusCompleted, tx.Status)

	balance, err := h.manager.GetBalance(ctx, h.uow, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "700.0000", balance.String())

	cash, err := h.ledger.GetLedgerAccountByCode(ctx, h.uow, "BANK-CASH-USD")
	require.NoError(t, err)
	cashBalance, err := h.ledger.GetBalance(ctx, h.uow, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "700.0000", cashBalance.String())
}

// Scenario 3: two customers, deposit 500 into A, transfer 200 A->B.
func TestScenario_TransferMovesBetweenCustomerAccounts(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.openActiveAccount(t, "a@x.test")
	b := h.openActiveAccount(t, "b@x.test")

	_, err := h.orchestrator.Deposit(ctx, h.uow, "dep-a", a.ID, usd(t, "500.00"), "fund A")
	require.NoError(t, err)

	tx, err := h.orchestrator.Transfer(ctx, h.uow, "xfer-1", a.ID, b.ID, usd(t, "200.00"), "A to B")
	require.NoError(t, err)
	assert.Equal(t, txn.StatusCompleted, tx.Status)

	balanceA, err := h.manager.GetBalance(ctx, h.uow, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.0000", balanceA.String())

	balanceB, err := h.manager.GetBalance(ctx, h.uow, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.0000", balanceB.String())

	cash, err := h.ledger.GetLedgerAccountByCode(ctx, h.uow, "BANK-CASH-USD")
	require.NoError(t, err)
	cashBalance, err := h.ledger.GetBalance(ctx, h.uow, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.0000", cashBalance.String())
}

// Scenario 4: same idempotency key submitted twice yields one row.
func TestScenario_RepeatedIdempotencyKeyIsANoOp(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	first, err := h.orchestrator.Deposit(ctx, h.uow, "k1", acc.ID, usd(t, "500.00"), "deposit")
	require.NoError(t, err)

	second, err := h.orchestrator.Deposit(ctx, h.uow, "k1", acc.ID, usd(t, "500.00"), "deposit")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	balance, err := h.manager.GetBalance(ctx, h.uow, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.0000", balance.String())
}

// Scenario 5: reverse a completed deposit zeroes the account and keeps
// the ledger balanced.
func TestScenario_ReverseZeroesBalanceAndStaysBalanced(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	original, err := h.orchestrator.Deposit(ctx, h.uow, "dep-1", acc.ID, usd(t, "1000.00"), "initial deposit")
	require.NoError(t, err)

	reversal, err := h.orchestrator.Reverse(ctx, h.uow, "rev-1", original.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.TypeReversal, reversal.Type)
	assert.Equal(t, txn.StatusCompleted, reversal.Status)

	reloaded, err := h.orchestrator.GetTransaction(ctx, h.uow, original.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.StatusReversed, reloaded.Status)

	balance, err := h.manager.GetBalance(ctx, h.uow, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.0000", balance.String())

	report, err := h.ledger.CheckIntegrity(ctx, h.uow)
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)
}

// Scenario 6: a transfer exceeding the source balance fails with
// InsufficientFunds and writes no ledger entries.
func TestScenario_InsufficientFundsRejectsTransferAndWritesNothing(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.openActiveAccount(t, "a@x.test")
	b := h.openActiveAccount(t, "b@x.test")

	_, err := h.orchestrator.Deposit(ctx, h.uow, "dep-a", a.ID, usd(t, "100.00"), "fund A")
	require.NoError(t, err)

	_, err = h.orchestrator.Transfer(ctx, h.uow, "xfer-1", a.ID, b.ID, usd(t, "1000.00"), "overdraw attempt")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindInsufficientFunds))

	report, err := h.ledger.CheckIntegrity(ctx, h.uow)
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	_, err := h.orchestrator.Transfer(ctx, h.uow, "xfer-self", acc.ID, acc.ID, usd(t, "10.00"), "self transfer")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindSameAccount))
}

func TestDeposit_ToFrozenAccountRejected(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")
	_, err := h.manager.ChangeStatus(ctx, h.uow, acc.ID, account.StatusFrozen, "suspicious activity")
	require.NoError(t, err)

	_, err = h.orchestrator.Deposit(ctx, h.uow, "dep-frozen", acc.ID, usd(t, "10.00"), "deposit")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindAccountInactive))
}

func TestReverse_NonCompletedTransactionNotReversible(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	acc := h.openActiveAccount(t, "alice@x.test")

	dep, err := h.orchestrator.Deposit(ctx, h.uow, "dep-1", acc.ID, usd(t, "100.00"), "deposit")
	require.NoError(t, err)
	_, err = h.orchestrator.Reverse(ctx, h.uow, "rev-1", dep.ID)
	require.NoError(t, err)

	// The original is now REVERSED, so a second reversal must be refused.
	_, err = h.orchestrator.Reverse(ctx, h.uow, "rev-2", dep.ID)
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindNotReversible))
}
