/*
Package reconcile runs the ledger's global integrity check on a fixed
interval, independent of any single request: a ticker-driven background
goroutine with Start/Stop and an immediate first run, verifying the
invariant that total debits equal total credits across the whole
ledger_entries table.
*/
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/logging"
	"github.com/warp/core-ledger/internal/storage/pg"
)

// Scheduler periodically recomputes the ledger's global debit/credit sums
// and logs the result, surfacing a drift before a client notices one.
type Scheduler struct {
	Pool          *pgxpool.Pool
	Ledger        *ledger.Engine
	Log           *logging.Logger
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler builds a Scheduler with a one-hour default interval.
func NewScheduler(pool *pgxpool.Pool, ledgerEngine *ledger.Engine, log *logging.Logger) *Scheduler {
	return &Scheduler{
		Pool:          pool,
		Ledger:        ledgerEngine,
		Log:           log,
		CheckInterval: time.Hour,
		stop:          make(chan struct{}),
	}
}

// Start begins the background check loop, running once immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)
	go s.run()
}

// Stop halts the background loop and waits for the in-flight check, if
// any, to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.check()
	for {
		select {
		case <-s.ticker.C:
			s.check()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uow := pg.PoolUOW{Pool: s.Pool}
	result, err := s.Ledger.CheckIntegrity(ctx, uow)
	if err != nil {
		s.Log.Error("integrity check failed", "error", err)
		return
	}
	if !result.IsBalanced {
		s.Log.Error("ledger is not balanced",
			"total_debits", result.TotalDebits.String(),
			"total_credits", result.TotalCredits.String(),
			"difference", result.Difference.String())
		return
	}
	s.Log.Debug("ledger integrity check passed", "total_debits", result.TotalDebits.String())
}
