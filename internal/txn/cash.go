package txn

import (
	"context"
	"fmt"

	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
)

// cashAccountCode derives the per-currency cash account code, parameterized
// on currency so a EUR deposit and a USD deposit never contend for the same
// chart-of-accounts entry.
func cashAccountCode(currency string) string {
	return fmt.Sprintf("BANK-CASH-%s", currency)
}

// ensureCashAccount returns the cash ledger account for currency, lazily
// creating it as an ASSET account on first use.
func ensureCashAccount(ctx context.Context, uow ledger.UnitOfWork, eng *ledger.Engine, currency string) (ledger.LedgerAccount, error) {
	code := cashAccountCode(currency)
	acc, err := eng.CreateLedgerAccount(ctx, uow, code, fmt.Sprintf("Bank Cash (%s)", currency), ledger.CategoryAsset, currency)
	if err == nil {
		return acc, nil
	}
	if bankerr.Is(err, bankerr.KindConflict) {
		return eng.GetLedgerAccountByCode(ctx, uow, code)
	}
	return ledger.LedgerAccount{}, err
}
