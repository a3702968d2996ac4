package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the chi router for the banking ledger's HTTP surface.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
	}))

	r.Post("/customers", h.CreateCustomer)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.OpenAccount)
		r.Get("/{id}", h.GetAccount)
		r.Patch("/{id}/status", h.ChangeAccountStatus)
		r.Get("/{id}/balance", h.GetAccountBalance)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
		r.Post("/transfer", h.Transfer)
		r.Post("/{id}/reverse", h.ReverseTransaction)
		r.Get("/{id}", h.GetTransaction)
	})

	r.Route("/ledger", func(r chi.Router) {
		r.Post("/accounts", h.CreateLedgerAccount)
		r.Post("/entries", h.PostLedgerEntries)
		r.Get("/accounts/{id}/balance", h.GetLedgerAccountBalance)
		r.Get("/accounts/{id}/entries", h.GetLedgerAccountEntries)
	})

	r.Get("/health", h.Health)

	return r
}
