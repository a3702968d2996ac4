package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/money"
)

// Engine is the ledger's operation surface: posting and balance
// derivation over the append-only entry log. It holds no database handle
// of its own; every method takes the caller's UnitOfWork.
type Engine struct {
	store Store
}

// NewEngine builds a ledger Engine over the given Store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// CreateLedgerAccount inserts a new chart-of-accounts entry. Currency
// defaults to USD if unspecified. Fails with Kind=Conflict if code exists.
func (e *Engine) CreateLedgerAccount(ctx context.Context, uow UnitOfWork, code, name string, category Category, currency string) (LedgerAccount, error) {
	if currency == "" {
		currency = "USD"
	}
	existing, err := e.store.GetLedgerAccountByCode(ctx, uow, code)
	if err == nil {
		return LedgerAccount{}, bankerr.New(bankerr.KindConflict, "ledger account with code %q already exists", code)
	}
	if !bankerr.Is(err, bankerr.KindNotFound) {
		return LedgerAccount{}, err
	}
	_ = existing
	return e.store.CreateLedgerAccount(ctx, uow, LedgerAccount{
		Code:     code,
		Name:     name,
		Category: category,
		Currency: currency,
		Active:   true,
	})
}

// PostEntries validates and atomically posts a balanced group of entries
// sharing txnID. Preconditions are checked in a fixed order, each failing
// fast with a distinct error kind:
//
//  1. Idempotency: txnID already posted, return the existing set unchanged.
//  2. Existence: every account referenced must exist.
//  3. Activity: every referenced account must be active.
//  4. Currency: every referenced account's currency must match.
//  5. Balance: debit sum must equal credit sum, exactly.
func (e *Engine) PostEntries(ctx context.Context, uow UnitOfWork, txnID uuid.UUID, currency string, entries []PostingEntry) ([]Entry, error) {
	// 1. Idempotency: a prior identical post is a no-op success.
	existing, err := e.store.EntriesForTransaction(ctx, uow, txnID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	if len(entries) < 2 {
		return nil, bankerr.New(bankerr.KindUnbalanced, "a posting requires at least two entries, got %d", len(entries))
	}

	accountIDs := make(map[int64]struct{}, len(entries))
	for _, en := range entries {
		if !en.Amount.Amount.IsPositive() {
			return nil, bankerr.New(bankerr.KindValidation, "entry amount must be strictly positive, got %s", en.Amount.Amount.String())
		}
		accountIDs[en.AccountID] = struct{}{}
	}

	// 2. Existence: every referenced account must exist.
	accounts := make(map[int64]LedgerAccount, len(accountIDs))
	for id := range accountIDs {
		acc, err := e.store.GetLedgerAccount(ctx, uow, id)
		if err != nil {
			if bankerr.Is(err, bankerr.KindNotFound) {
				return nil, bankerr.New(bankerr.KindNotFound, "ledger account %d not found", id)
			}
			return nil, err
		}
		accounts[id] = acc
	}
	// 3. Activity: every referenced account must be active.
	for _, acc := range accounts {
		if !acc.Active {
			return nil, bankerr.New(bankerr.KindAccountInactive, "ledger account %s is not active", acc.Code)
		}
	}
	// 4. Currency: every referenced account's currency must match.
	for _, acc := range accounts {
		if acc.Currency != currency {
			return nil, bankerr.New(bankerr.KindCurrencyMismatch, "ledger account %s currency is %s, posting currency is %s", acc.Code, acc.Currency, currency)
		}
	}

	// 5. Balance rule: sum(DEBIT) == sum(CREDIT), exact decimal equality.
	debits := decimal.Zero
	credits := decimal.Zero
	for _, en := range entries {
		switch en.Direction {
		case Debit:
			debits = debits.Add(en.Amount.Amount)
		case Credit:
			credits = credits.Add(en.Amount.Amount)
		default:
			return nil, bankerr.New(bankerr.KindValidation, "invalid entry direction %q", en.Direction)
		}
	}
	if !debits.Equal(credits) {
		return nil, bankerr.New(bankerr.KindUnbalanced, "posting does not balance: debits=%s credits=%s", debits.String(), credits.String())
	}

	return e.store.InsertEntries(ctx, uow, txnID, currency, entries)
}

// GetLedgerAccountByCode fetches a ledger account by its unique code.
func (e *Engine) GetLedgerAccountByCode(ctx context.Context, uow UnitOfWork, code string) (LedgerAccount, error) {
	return e.store.GetLedgerAccountByCode(ctx, uow, code)
}

// DeactivateLedgerAccount flips a ledger account's active flag to false.
// Once inactive, PostEntries rejects any posting referencing it.
func (e *Engine) DeactivateLedgerAccount(ctx context.Context, uow UnitOfWork, id int64) error {
	return e.store.DeactivateLedgerAccount(ctx, uow, id)
}

// GetBalance computes an account's balance by SQL-side aggregation. The
// sign convention depends on accounting category:
//
//	ASSET, EXPENSE:                      debits - credits
//	LIABILITY, EQUITY, REVENUE:          credits - debits
//
// An account with no entries returns exact zero.
func (e *Engine) GetBalance(ctx context.Context, uow UnitOfWork, accountID int64) (money.Money, error) {
	acc, err := e.store.GetLedgerAccount(ctx, uow, accountID)
	if err != nil {
		return money.Money{}, err
	}

	debitsStr, creditsStr, err := e.store.SumByDirection(ctx, uow, accountID)
	if err != nil {
		return money.Money{}, err
	}
	debits, err := decimal.NewFromString(debitsStr)
	if err != nil {
		return money.Money{}, fmt.Errorf("ledger: malformed debit sum %q: %w", debitsStr, err)
	}
	credits, err := decimal.NewFromString(creditsStr)
	if err != nil {
		return money.Money{}, fmt.Errorf("ledger: malformed credit sum %q: %w", creditsStr, err)
	}

	switch acc.Category {
	case CategoryAsset, CategoryExpense:
		return money.FromDecimal(debits.Sub(credits), acc.Currency), nil
	default:
		return money.FromDecimal(credits.Sub(debits), acc.Currency), nil
	}
}

// GetEntriesByAccount returns all entries for an account, newest first.
func (e *Engine) GetEntriesByAccount(ctx context.Context, uow UnitOfWork, accountID int64) ([]Entry, error) {
	if _, err := e.store.GetLedgerAccount(ctx, uow, accountID); err != nil {
		return nil, err
	}
	return e.store.EntriesByAccount(ctx, uow, accountID)
}

// GetEntriesByTransaction returns all entries posted under txnID, in any
// stable order; callers must not rely on ordering.
func (e *Engine) GetEntriesByTransaction(ctx context.Context, uow UnitOfWork, txnID uuid.UUID) ([]Entry, error) {
	return e.store.EntriesForTransaction(ctx, uow, txnID)
}

// CheckIntegrity verifies the global invariant: across the entire ledger,
// the sum of all debits equals the sum of all credits.
func (e *Engine) CheckIntegrity(ctx context.Context, uow UnitOfWork) (IntegrityReport, error) {
	debitsStr, creditsStr, err := e.store.GlobalSums(ctx, uow)
	if err != nil {
		return IntegrityReport{}, err
	}
	debits, err := decimal.NewFromString(debitsStr)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("ledger: malformed global debit sum %q: %w", debitsStr, err)
	}
	credits, err := decimal.NewFromString(creditsStr)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("ledger: malformed global credit sum %q: %w", creditsStr, err)
	}
	diff := debits.Sub(credits)
	return IntegrityReport{
		TotalDebits:  money.FromDecimal(debits, ""),
		TotalCredits: money.FromDecimal(credits, ""),
		Difference:   money.FromDecimal(diff, ""),
		IsBalanced:   diff.IsZero(),
	}, nil
}
