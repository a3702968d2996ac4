/*
Package memstore is an in-memory ledger.Store used by unit tests that do
not need a real Postgres instance. It uses mutex-guarded maps and
sequential integer ids, the same shape as the Postgres store without the
database round trip.
*/
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/money"
)

// UOW is a no-op ledger.UnitOfWork: memstore has no underlying SQL handle,
// it serializes access with an internal mutex instead. Tests pass this in
// wherever a real UnitOfWork would be required against Postgres.
type UOW struct{}

func (UOW) Exec(ctx context.Context, sql string, args ...any) (ledger.CommandTag, error) {
	return nil, nil
}
func (UOW) Query(ctx context.Context, sql string, args ...any) (ledger.Rows, error) { return nil, nil }
func (UOW) QueryRow(ctx context.Context, sql string, args ...any) ledger.Row        { return nil }

// Store is an in-memory ledger.Store.
type Store struct {
	mu       sync.Mutex
	accounts map[int64]ledger.LedgerAccount
	byCode   map[string]int64
	entries  []ledger.Entry
	nextAcc  int64
	nextEnt  int64
}

// New builds an empty in-memory Store.
func New() *Store {
	return &Store{
		accounts: make(map[int64]ledger.LedgerAccount),
		byCode:   make(map[string]int64),
	}
}

func (s *Store) CreateLedgerAccount(ctx context.Context, _ ledger.UnitOfWork, acc ledger.LedgerAccount) (ledger.LedgerAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[acc.Code]; exists {
		return ledger.LedgerAccount{}, bankerr.New(bankerr.KindConflict, "ledger account with code %q already exists", acc.Code)
	}
	s.nextAcc++
	acc.ID = s.nextAcc
	acc.Active = true
	s.accounts[acc.ID] = acc
	s.byCode[acc.Code] = acc.ID
	return acc, nil
}

func (s *Store) GetLedgerAccount(ctx context.Context, _ ledger.UnitOfWork, id int64) (ledger.LedgerAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ledger.LedgerAccount{}, bankerr.New(bankerr.KindNotFound, "ledger account %d not found", id)
	}
	return acc, nil
}

func (s *Store) GetLedgerAccountByCode(ctx context.Context, _ ledger.UnitOfWork, code string) (ledger.LedgerAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCode[code]
	if !ok {
		return ledger.LedgerAccount{}, bankerr.New(bankerr.KindNotFound, "ledger account with code %q not found", code)
	}
	return s.accounts[id], nil
}

func (s *Store) DeactivateLedgerAccount(ctx context.Context, _ ledger.UnitOfWork, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return bankerr.New(bankerr.KindNotFound, "ledger account %d not found", id)
	}
	acc.Active = false
	s.accounts[id] = acc
	return nil
}

func (s *Store) EntriesForTransaction(ctx context.Context, _ ledger.UnitOfWork, txnID uuid.UUID) ([]ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Entry
	for _, e := range s.entries {
		if e.TransactionID == txnID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) InsertEntries(ctx context.Context, _ ledger.UnitOfWork, txnID uuid.UUID, currency string, entries []ledger.PostingEntry) ([]ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Entry, 0, len(entries))
	for _, pe := range entries {
		s.nextEnt++
		e := ledger.Entry{
			ID:            s.nextEnt,
			TransactionID: txnID,
			AccountID:     pe.AccountID,
			Direction:     pe.Direction,
			Amount:        money.FromDecimal(pe.Amount.Amount, currency),
			Description:   pe.Description,
		}
		s.entries = append(s.entries, e)
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) SumByDirection(ctx context.Context, _ ledger.UnitOfWork, accountID int64) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debits := money.Zero("")
	credits := money.Zero("")
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if e.Direction == ledger.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits.Amount.String(), credits.Amount.String(), nil
}

func (s *Store) EntriesByAccount(ctx context.Context, _ ledger.UnitOfWork, accountID int64) ([]ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].AccountID == accountID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *Store) GlobalSums(ctx context.Context, _ ledger.UnitOfWork) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debits := money.Zero("")
	credits := money.Zero("")
	for _, e := range s.entries {
		if e.Direction == ledger.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits.Amount.String(), credits.Amount.String(), nil
}
