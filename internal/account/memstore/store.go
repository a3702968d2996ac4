/*
Package memstore is an in-memory account.Store used by unit tests, mirroring
ledger/memstore's shape.
*/
package memstore

import (
	"context"
	"sync"

	"github.com/warp/core-ledger/internal/account"
	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/ledger"
)

// Store is an in-memory account.Store.
type Store struct {
	mu         sync.Mutex
	customers  map[int64]account.Customer
	byEmail    map[string]int64
	accounts   map[int64]account.Account
	nextCust   int64
	nextAcct   int64
}

// New builds an empty in-memory Store.
func New() *Store {
	return &Store{
		customers: make(map[int64]account.Customer),
		byEmail:   make(map[string]int64),
		accounts:  make(map[int64]account.Account),
	}
}

func (s *Store) CreateCustomer(ctx context.Context, _ ledger.UnitOfWork, c account.Customer) (account.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[c.Email]; exists {
		return account.Customer{}, bankerr.New(bankerr.KindConflict, "a customer with email %q already exists", c.Email)
	}
	s.nextCust++
	c.ID = s.nextCust
	s.customers[c.ID] = c
	s.byEmail[c.Email] = c.ID
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, _ ledger.UnitOfWork, id int64) (account.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return account.Customer{}, bankerr.New(bankerr.KindNotFound, "customer %d not found", id)
	}
	return c, nil
}

func (s *Store) CreateAccount(ctx context.Context, _ ledger.UnitOfWork, a account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAcct++
	a.ID = s.nextAcct
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, _ ledger.UnitOfWork, id int64) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return account.Account{}, bankerr.New(bankerr.KindNotFound, "account %d not found", id)
	}
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, _ ledger.UnitOfWork, a account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[a.ID]; !ok {
		return bankerr.New(bankerr.KindNotFound, "account %d not found", a.ID)
	}
	s.accounts[a.ID] = a
	return nil
}

func (s *Store) AccountsByCustomer(ctx context.Context, _ ledger.UnitOfWork, customerID int64) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []account.Account
	for _, a := range s.accounts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}
