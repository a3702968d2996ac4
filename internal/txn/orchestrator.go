package txn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/account"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/money"
)

// Orchestrator composes the account manager and ledger engine into the
// four business operations (deposit, withdrawal, transfer, reversal), each
// following the same six-step skeleton: idempotency probe, participant
// validation, balance check where relevant, PROCESSING row, ledger
// posting, terminal status.
type Orchestrator struct {
	store   Store
	manager *account.Manager
	ledger  *ledger.Engine
}

// NewOrchestrator builds an Orchestrator over the given Store, account
// Manager and ledger Engine.
func NewOrchestrator(store Store, manager *account.Manager, ledgerEngine *ledger.Engine) *Orchestrator {
	return &Orchestrator{store: store, manager: manager, ledger: ledgerEngine}
}

// idempotent returns the prior transaction for key if one exists, reporting
// whether a retry should short-circuit.
func (o *Orchestrator) idempotent(ctx context.Context, uow ledger.UnitOfWork, key string) (Transaction, bool, error) {
	existing, err := o.store.GetByIdempotencyKey(ctx, uow, key)
	if err == nil {
		return existing, true, nil
	}
	if bankerr.Is(err, bankerr.KindNotFound) {
		return Transaction{}, false, nil
	}
	return Transaction{}, false, err
}

// validateParticipant checks an account exists, is ACTIVE, and matches
// currency.
func (o *Orchestrator) validateParticipant(ctx context.Context, uow ledger.UnitOfWork, accountID int64, currency string) (account.Account, error) {
	acc, err := o.manager.GetAccount(ctx, uow, accountID)
	if err != nil {
		return account.Account{}, err
	}
	if acc.Status != account.StatusActive {
		return account.Account{}, bankerr.New(bankerr.KindAccountInactive, "account %d is not active (status=%s)", accountID, acc.Status)
	}
	if acc.Currency != currency {
		return account.Account{}, bankerr.New(bankerr.KindCurrencyMismatch, "account %d currency is %s, transaction currency is %s", accountID, acc.Currency, currency)
	}
	return acc, nil
}

func ptr[T any](v T) *T { return &v }

// Deposit posts `amount` from the per-currency cash account into `C`.
func (o *Orchestrator) Deposit(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, accountID int64, amount money.Money, description string) (Transaction, error) {
	start := time.Now()
	t, err := o.run(ctx, uow, idempotencyKey, TypeDeposit, nil, &accountID, amount, description, func(cashAcc, destAcc account.Account) ([]ledger.PostingEntry, error) {
		return []ledger.PostingEntry{
			{AccountID: cashAcc.LedgerAccountID, Direction: ledger.Debit, Amount: amount, Description: description},
			{AccountID: destAcc.LedgerAccountID, Direction: ledger.Credit, Amount: amount, Description: description},
		}, nil
	})
	observeOutcome(TypeDeposit, err, time.Since(start).Seconds())
	return t, err
}

// Withdraw posts `amount` out of `C` into the per-currency cash account,
// after checking C carries sufficient balance.
func (o *Orchestrator) Withdraw(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, accountID int64, amount money.Money, description string) (Transaction, error) {
	start := time.Now()
	t, err := o.runWithBalanceCheck(ctx, uow, idempotencyKey, TypeWithdrawal, &accountID, nil, amount, description, accountID, func(cashAcc, srcAcc account.Account) ([]ledger.PostingEntry, error) {
		return []ledger.PostingEntry{
			{AccountID: srcAcc.LedgerAccountID, Direction: ledger.Debit, Amount: amount, Description: description},
			{AccountID: cashAcc.LedgerAccountID, Direction: ledger.Credit, Amount: amount, Description: description},
		}, nil
	})
	observeOutcome(TypeWithdrawal, err, time.Since(start).Seconds())
	return t, err
}

// Transfer moves `amount` from `S` to `D`. Source and destination must differ.
func (o *Orchestrator) Transfer(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, sourceID, destID int64, amount money.Money, description string) (Transaction, error) {
	start := time.Now()
	if sourceID == destID {
		err := bankerr.New(bankerr.KindSameAccount, "source and destination accounts must differ")
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	existing, hit, err := o.idempotent(ctx, uow, idempotencyKey)
	if err != nil {
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	if hit {
		return existing, nil
	}

	srcAcc, err := o.validateParticipant(ctx, uow, sourceID, amount.Currency)
	if err != nil {
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	destAcc, err := o.validateParticipant(ctx, uow, destID, amount.Currency)
	if err != nil {
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	balance, err := o.ledger.GetBalance(ctx, uow, srcAcc.LedgerAccountID)
	if err != nil {
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	if balance.LessThan(amount) {
		err := bankerr.New(bankerr.KindInsufficientFunds, "account %d has insufficient balance for transfer of %s", sourceID, amount.String())
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	t, err := o.createProcessing(ctx, uow, idempotencyKey, TypeTransfer, &sourceID, &destID, amount, description)
	if err != nil {
		observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	entries := []ledger.PostingEntry{
		{AccountID: srcAcc.LedgerAccountID, Direction: ledger.Debit, Amount: amount, Description: description},
		{AccountID: destAcc.LedgerAccountID, Direction: ledger.Credit, Amount: amount, Description: description},
	}
	t, err = o.postAndFinalize(ctx, uow, t, entries, amount.Currency)
	observeOutcome(TypeTransfer, err, time.Since(start).Seconds())
	return t, err
}

// run is the shared skeleton for Deposit: it always needs the per-currency
// cash account alongside the single customer-facing participant.
func (o *Orchestrator) run(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, txnType Type, sourceID, destID *int64, amount money.Money, description string, buildEntries func(cashAcc, participant account.Account) ([]ledger.PostingEntry, error)) (Transaction, error) {
	existing, hit, err := o.idempotent(ctx, uow, idempotencyKey)
	if err != nil {
		return Transaction{}, err
	}
	if hit {
		return existing, nil
	}

	participantID := destID
	if participantID == nil {
		participantID = sourceID
	}
	participant, err := o.validateParticipant(ctx, uow, *participantID, amount.Currency)
	if err != nil {
		return Transaction{}, err
	}

	cashLedgerAcc, err := ensureCashAccount(ctx, uow, o.ledger, amount.Currency)
	if err != nil {
		return Transaction{}, err
	}
	cashAcc := account.Account{LedgerAccountID: cashLedgerAcc.ID}

	t, err := o.createProcessing(ctx, uow, idempotencyKey, txnType, sourceID, destID, amount, description)
	if err != nil {
		return Transaction{}, err
	}

	entries, err := buildEntries(cashAcc, participant)
	if err != nil {
		return Transaction{}, err
	}
	return o.postAndFinalize(ctx, uow, t, entries, amount.Currency)
}

// runWithBalanceCheck is the shared skeleton for Withdraw: like run, but
// additionally checks sufficient balance on balanceAccountID before posting.
func (o *Orchestrator) runWithBalanceCheck(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, txnType Type, sourceID, destID *int64, amount money.Money, description string, balanceAccountID int64, buildEntries func(cashAcc, participant account.Account) ([]ledger.PostingEntry, error)) (Transaction, error) {
	existing, hit, err := o.idempotent(ctx, uow, idempotencyKey)
	if err != nil {
		return Transaction{}, err
	}
	if hit {
		return existing, nil
	}

	participantID := destID
	if participantID == nil {
		participantID = sourceID
	}
	participant, err := o.validateParticipant(ctx, uow, *participantID, amount.Currency)
	if err != nil {
		return Transaction{}, err
	}

	balance, err := o.ledger.GetBalance(ctx, uow, participant.LedgerAccountID)
	if err != nil {
		return Transaction{}, err
	}
	if balance.LessThan(amount) {
		return Transaction{}, bankerr.New(bankerr.KindInsufficientFunds, "account %d has insufficient balance for withdrawal of %s", balanceAccountID, amount.String())
	}

	cashLedgerAcc, err := ensureCashAccount(ctx, uow, o.ledger, amount.Currency)
	if err != nil {
		return Transaction{}, err
	}
	cashAcc := account.Account{LedgerAccountID: cashLedgerAcc.ID}

	t, err := o.createProcessing(ctx, uow, idempotencyKey, txnType, sourceID, destID, amount, description)
	if err != nil {
		return Transaction{}, err
	}

	entries, err := buildEntries(cashAcc, participant)
	if err != nil {
		return Transaction{}, err
	}
	return o.postAndFinalize(ctx, uow, t, entries, amount.Currency)
}

func (o *Orchestrator) createProcessing(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, txnType Type, sourceID, destID *int64, amount money.Money, description string) (Transaction, error) {
	return o.store.Create(ctx, uow, Transaction{
		ExternalID:           uuid.New(),
		IdempotencyKey:       idempotencyKey,
		Type:                 txnType,
		Status:               StatusProcessing,
		SourceAccountID:      sourceID,
		DestinationAccountID: destID,
		Amount:               amount,
		Description:          description,
	})
}

// postAndFinalize posts entries under a freshly minted ledger-transaction
// id and flips the business transaction to its terminal status.
func (o *Orchestrator) postAndFinalize(ctx context.Context, uow ledger.UnitOfWork, t Transaction, entries []ledger.PostingEntry, currency string) (Transaction, error) {
	ledgerTxnID := uuid.New()
	if _, err := o.ledger.PostEntries(ctx, uow, ledgerTxnID, currency, entries); err != nil {
		t.Status = StatusFailed
		t.ErrorMessage = ptr(err.Error())
		_ = o.store.Update(ctx, uow, t)
		return Transaction{}, err
	}

	t.Status = StatusCompleted
	t.LedgerTransactionID = &ledgerTxnID
	t.CompletedAt = ptr(time.Now().UTC())
	if err := o.store.Update(ctx, uow, t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Reverse posts a mirror-image set of entries for a completed transaction,
// flips the original to REVERSED, and records a new COMPLETED REVERSAL
// referencing it.
func (o *Orchestrator) Reverse(ctx context.Context, uow ledger.UnitOfWork, idempotencyKey string, originalID int64) (Transaction, error) {
	start := time.Now()
	existing, hit, err := o.idempotent(ctx, uow, idempotencyKey)
	if err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	if hit {
		return existing, nil
	}

	original, err := o.store.Get(ctx, uow, originalID)
	if err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	if original.Status != StatusCompleted {
		err := bankerr.New(bankerr.KindNotReversible, "transaction %d is in status %s, only COMPLETED transactions can be reversed", originalID, original.Status)
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}
	if original.LedgerTransactionID == nil {
		err := bankerr.New(bankerr.KindNotReversible, "transaction %d has no posted ledger entries", originalID)
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	originalEntries, err := o.ledger.GetEntriesByTransaction(ctx, uow, *original.LedgerTransactionID)
	if err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	mirrored := make([]ledger.PostingEntry, 0, len(originalEntries))
	for _, e := range originalEntries {
		dir := ledger.Credit
		if e.Direction == ledger.Credit {
			dir = ledger.Debit
		}
		mirrored = append(mirrored, ledger.PostingEntry{
			AccountID:   e.AccountID,
			Direction:   dir,
			Amount:      e.Amount,
			Description: "Reversal: " + e.Description,
		})
	}

	reversal, err := o.store.Create(ctx, uow, Transaction{
		ExternalID:             uuid.New(),
		IdempotencyKey:         idempotencyKey,
		Type:                   TypeReversal,
		Status:                 StatusProcessing,
		SourceAccountID:        original.SourceAccountID,
		DestinationAccountID:   original.DestinationAccountID,
		Amount:                 original.Amount,
		Description:            "Reversal: " + original.Description,
		ReferenceTransactionID: &original.ID,
	})
	if err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	reversal, err = o.postAndFinalize(ctx, uow, reversal, mirrored, original.Amount.Currency)
	if err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	original.Status = StatusReversed
	original.CompletedAt = ptr(time.Now().UTC())
	if err := o.store.Update(ctx, uow, original); err != nil {
		observeOutcome(TypeReversal, err, time.Since(start).Seconds())
		return Transaction{}, err
	}

	observeOutcome(TypeReversal, nil, time.Since(start).Seconds())
	return reversal, nil
}

// GetTransaction fetches a business transaction by internal id.
func (o *Orchestrator) GetTransaction(ctx context.Context, uow ledger.UnitOfWork, id int64) (Transaction, error) {
	return o.store.Get(ctx, uow, id)
}
