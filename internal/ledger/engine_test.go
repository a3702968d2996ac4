package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/ledger/memstore"
	"github.com/warp/core-ledger/internal/money"
)

func newTestEngine() (*ledger.Engine, ledger.UnitOfWork) {
	return ledger.NewEngine(memstore.New()), memstore.UOW{}
}

func mustAmount(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.New(s, "USD")
	require.NoError(t, err)
	return m
}

func TestCreateLedgerAccount_DuplicateCodeConflicts(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	_, err := eng.CreateLedgerAccount(ctx, uow, "CASH-001", "Cash", ledger.CategoryAsset, "USD")
	require.NoError(t, err)

	_, err = eng.CreateLedgerAccount(ctx, uow, "CASH-001", "Cash Again", ledger.CategoryAsset, "USD")
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindConflict))
}

func TestPostEntries_BalancedTwoLegPosting(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, err := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "USD")
	require.NoError(t, err)
	deposits, err := eng.CreateLedgerAccount(ctx, uow, "DEP", "Deposits", ledger.CategoryLiability, "USD")
	require.NoError(t, err)

	txnID := uuid.New()
	entries, err := eng.PostEntries(ctx, uow, txnID, "USD", []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "100.00")},
		{AccountID: deposits.ID, Direction: ledger.Credit, Amount: mustAmount(t, "100.00")},
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	balance, err := eng.GetBalance(ctx, uow, deposits.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.0000", balance.String())
}

func TestPostEntries_UnbalancedRejected(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, _ := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "USD")
	deposits, _ := eng.CreateLedgerAccount(ctx, uow, "DEP", "Deposits", ledger.CategoryLiability, "USD")

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "100.00")},
		{AccountID: deposits.ID, Direction: ledger.Credit, Amount: mustAmount(t, "99.00")},
	})
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindUnbalanced))
}

func TestPostEntries_SingleSidedRejected(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, _ := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "USD")

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "100.00")},
	})
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindUnbalanced))
}

func TestPostEntries_IdempotentOnRepeatTxnID(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, _ := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "USD")
	deposits, _ := eng.CreateLedgerAccount(ctx, uow, "DEP", "Deposits", ledger.CategoryLiability, "USD")

	txnID := uuid.New()
	posting := []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "50.00")},
		{AccountID: deposits.ID, Direction: ledger.Credit, Amount: mustAmount(t, "50.00")},
	}

	first, err := eng.PostEntries(ctx, uow, txnID, "USD", posting)
	require.NoError(t, err)

	second, err := eng.PostEntries(ctx, uow, txnID, "USD", posting)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestPostEntries_InactiveAccountRejected(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, _ := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "USD")
	deposits, _ := eng.CreateLedgerAccount(ctx, uow, "DEP", "Deposits", ledger.CategoryLiability, "USD")

	require.NoError(t, eng.DeactivateLedgerAccount(ctx, uow, deposits.ID))

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "10.00")},
		{AccountID: deposits.ID, Direction: ledger.Credit, Amount: mustAmount(t, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindAccountInactive))
}

func TestPostEntries_CurrencyMismatchRejected(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	cash, _ := eng.CreateLedgerAccount(ctx, uow, "CASH", "Cash", ledger.CategoryAsset, "EUR")
	deposits, _ := eng.CreateLedgerAccount(ctx, uow, "DEP", "Deposits", ledger.CategoryLiability, "EUR")

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: cash.ID, Direction: ledger.Debit, Amount: mustAmount(t, "10.00")},
		{AccountID: deposits.ID, Direction: ledger.Credit, Amount: mustAmount(t, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, bankerr.Is(err, bankerr.KindCurrencyMismatch))
}

func TestGetBalance_AssetVsLiabilitySignConvention(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	asset, _ := eng.CreateLedgerAccount(ctx, uow, "ASSET", "Asset", ledger.CategoryAsset, "USD")
	liability, _ := eng.CreateLedgerAccount(ctx, uow, "LIAB", "Liability", ledger.CategoryLiability, "USD")

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: asset.ID, Direction: ledger.Debit, Amount: mustAmount(t, "200.00")},
		{AccountID: liability.ID, Direction: ledger.Credit, Amount: mustAmount(t, "200.00")},
	})
	require.NoError(t, err)

	assetBalance, err := eng.GetBalance(ctx, uow, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.0000", assetBalance.String())

	liabilityBalance, err := eng.GetBalance(ctx, uow, liability.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.0000", liabilityBalance.String())
}

func TestCheckIntegrity_BalancedAfterPostings(t *testing.T) {
	eng, uow := newTestEngine()
	ctx := context.Background()

	asset, _ := eng.CreateLedgerAccount(ctx, uow, "ASSET", "Asset", ledger.CategoryAsset, "USD")
	liability, _ := eng.CreateLedgerAccount(ctx, uow, "LIAB", "Liability", ledger.CategoryLiability, "USD")

	_, err := eng.PostEntries(ctx, uow, uuid.New(), "USD", []ledger.PostingEntry{
		{AccountID: asset.ID, Direction: ledger.Debit, Amount: mustAmount(t, "75.00")},
		{AccountID: liability.ID, Direction: ledger.Credit, Amount: mustAmount(t, "75.00")},
	})
	require.NoError(t, err)

	report, err := eng.CheckIntegrity(ctx, uow)
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)
}
