/*
main.go - Application entry point

Initializes the ledger, account, and transaction services over a Postgres
pool, wires them into the HTTP adapter, and runs the server with graceful
shutdown on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/core-ledger/internal/account"
	accountpg "github.com/warp/core-ledger/internal/account/pg"
	"github.com/warp/core-ledger/internal/api"
	"github.com/warp/core-ledger/internal/config"
	"github.com/warp/core-ledger/internal/ledger"
	ledgerpg "github.com/warp/core-ledger/internal/ledger/pg"
	"github.com/warp/core-ledger/internal/logging"
	"github.com/warp/core-ledger/internal/reconcile"
	"github.com/warp/core-ledger/internal/storage/pg"
	"github.com/warp/core-ledger/internal/txn"
	txnpg "github.com/warp/core-ledger/internal/txn/pg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal("config", "error", err)
	}

	log := logging.New(cfg.LogLevel)

	ctx := context.Background()
	pool, err := pg.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer pool.Close()

	ledgerEngine := ledger.NewEngine(ledgerpg.New())
	manager := account.NewManager(accountpg.New(), ledgerEngine)
	orchestrator := txn.NewOrchestrator(txnpg.New(), manager, ledgerEngine)

	handler := api.NewHandler(pool, manager, orchestrator, ledgerEngine, log)
	router := api.NewRouter(handler)

	scheduler := reconcile.NewScheduler(pool, ledgerEngine, log)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr(), "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}
