/*
Package memstore is an in-memory txn.Store used by unit tests, mirroring
ledger/memstore and account/memstore's shape.
*/
package memstore

import (
	"context"
	"sync"

	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/txn"
)

// Store is an in-memory txn.Store.
type Store struct {
	mu       sync.Mutex
	byID     map[int64]txn.Transaction
	byKey    map[string]int64
	next     int64
}

// New builds an empty in-memory Store.
func New() *Store {
	return &Store{
		byID:  make(map[int64]txn.Transaction),
		byKey: make(map[string]int64),
	}
}

func (s *Store) GetByIdempotencyKey(ctx context.Context, _ ledger.UnitOfWork, key string) (txn.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return txn.Transaction{}, bankerr.New(bankerr.KindNotFound, "no transaction with idempotency key %q", key)
	}
	return s.byID[id], nil
}

func (s *Store) Create(ctx context.Context, _ ledger.UnitOfWork, t txn.Transaction) (txn.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[t.IdempotencyKey]; exists {
		return txn.Transaction{}, bankerr.New(bankerr.KindConflict, "a transaction with idempotency key %q already exists", t.IdempotencyKey)
	}
	s.next++
	t.ID = s.next
	s.byID[t.ID] = t
	s.byKey[t.IdempotencyKey] = t.ID
	return t, nil
}

func (s *Store) Update(ctx context.Context, _ ledger.UnitOfWork, t txn.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[t.ID]; !ok {
		return bankerr.New(bankerr.KindNotFound, "transaction %d not found", t.ID)
	}
	s.byID[t.ID] = t
	return nil
}

func (s *Store) Get(ctx context.Context, _ ledger.UnitOfWork, id int64) (txn.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return txn.Transaction{}, bankerr.New(bankerr.KindNotFound, "transaction %d not found", id)
	}
	return t, nil
}
