package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warp/core-ledger/internal/account"
	"github.com/warp/core-ledger/internal/ledger"
	"github.com/warp/core-ledger/internal/logging"
	"github.com/warp/core-ledger/internal/money"
	"github.com/warp/core-ledger/internal/storage/pg"
	"github.com/warp/core-ledger/internal/txn"
)

const healthProbeTimeout = 2 * time.Second

// Handler is the banking ledger's HTTP surface. It holds no business
// logic: every endpoint except Health opens a unit of work, calls one of
// the three core packages, and serializes the result.
type Handler struct {
	Pool         *pgxpool.Pool
	Manager      *account.Manager
	Orchestrator *txn.Orchestrator
	Ledger       *ledger.Engine
	Log          *logging.Logger
}

// NewHandler builds a Handler wired to the given pool and core services.
func NewHandler(pool *pgxpool.Pool, manager *account.Manager, orchestrator *txn.Orchestrator, ledgerEngine *ledger.Engine, log *logging.Logger) *Handler {
	return &Handler{Pool: pool, Manager: manager, Orchestrator: orchestrator, Ledger: ledgerEngine, Log: log}
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// --- customers ---

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	req, err := decode[createCustomerRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	c, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (account.Customer, error) {
		return h.Manager.CreateCustomer(r.Context(), uow, req.FirstName, req.LastName, req.Email)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

// --- accounts ---

func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	req, err := decode[openAccountRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	a, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (account.Account, error) {
		return h.Manager.OpenAccount(r.Context(), uow, req.CustomerID, account.ProductType(req.ProductType), req.Currency)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(a))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed account id"})
		return
	}
	a, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (account.Account, error) {
		return h.Manager.GetAccount(r.Context(), uow, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

func (h *Handler) ChangeAccountStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed account id"})
		return
	}
	req, err := decode[changeStatusRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	a, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (account.Account, error) {
		return h.Manager.ChangeStatus(r.Context(), uow, id, account.Status(req.Status), req.Reason)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

func (h *Handler) GetAccountBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed account id"})
		return
	}
	bal, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (money.Money, error) {
		return h.Manager.GetBalance(r.Context(), uow, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{AccountID: id, Balance: bal.String(), Currency: bal.Currency})
}

// --- transactions ---

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	req, err := decode[depositRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	t, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (txn.Transaction, error) {
		return h.Orchestrator.Deposit(r.Context(), uow, req.IdempotencyKey, req.AccountID, amount, req.Description)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	req, err := decode[withdrawRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	t, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (txn.Transaction, error) {
		return h.Orchestrator.Withdraw(r.Context(), uow, req.IdempotencyKey, req.AccountID, amount, req.Description)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	req, err := decode[transferRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	t, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (txn.Transaction, error) {
		return h.Orchestrator.Transfer(r.Context(), uow, req.IdempotencyKey, req.SourceID, req.DestinationID, amount, req.Description)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (h *Handler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed transaction id"})
		return
	}
	req, err := decode[reverseRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	t, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (txn.Transaction, error) {
		return h.Orchestrator.Reverse(r.Context(), uow, req.IdempotencyKey, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed transaction id"})
		return
	}
	t, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (txn.Transaction, error) {
		return h.Orchestrator.GetTransaction(r.Context(), uow, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

// --- raw ledger access ---

func (h *Handler) CreateLedgerAccount(w http.ResponseWriter, r *http.Request) {
	req, err := decode[createLedgerAccountRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	a, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (ledger.LedgerAccount, error) {
		return h.Ledger.CreateLedgerAccount(r.Context(), uow, req.Code, req.Name, ledger.Category(req.Category), req.Currency)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLedgerAccountResponse(a))
}

func (h *Handler) PostLedgerEntries(w http.ResponseWriter, r *http.Request) {
	req, err := decode[postEntriesRequest](r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return
	}
	entries := make([]ledger.PostingEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		amount, err := money.New(e.Amount, req.Currency)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
			return
		}
		entries = append(entries, ledger.PostingEntry{
			AccountID:   e.AccountID,
			Direction:   ledger.Direction(e.Direction),
			Amount:      amount,
			Description: e.Description,
		})
	}

	posted, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) ([]ledger.Entry, error) {
		return h.Ledger.PostEntries(r.Context(), uow, req.TransactionID, req.Currency, entries)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	resp := make([]ledgerEntryResponse, 0, len(posted))
	for _, e := range posted {
		resp = append(resp, toLedgerEntryResponse(e))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetLedgerAccountBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed ledger account id"})
		return
	}
	bal, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) (money.Money, error) {
		return h.Ledger.GetBalance(r.Context(), uow, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{AccountID: id, Balance: bal.String(), Currency: bal.Currency})
}

func (h *Handler) GetLedgerAccountEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed ledger account id"})
		return
	}
	entries, err := withTx(r.Context(), h.Pool, func(uow pg.TxUOW) ([]ledger.Entry, error) {
		return h.Ledger.GetEntriesByAccount(r.Context(), uow, id)
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toLedgerEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

// Health probes the database and always returns 200: the body's database
// field distinguishes "healthy" from "unhealthy" so a caller can still
// detect an outage without a non-2xx status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	database := "healthy"
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()
	if err := h.Pool.Ping(ctx); err != nil {
		database = "unhealthy"
		if h.Log != nil {
			h.Log.Warn("health probe: database ping failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: database})
}
