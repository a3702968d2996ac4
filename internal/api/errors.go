package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warp/core-ledger/internal/bankerr"
	"github.com/warp/core-ledger/internal/logging"
)

// writeJSON encodes data as the response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError logs err once at the adapter boundary, with its bankerr.Kind
// as a field when it carries one, then renders it as {"detail": "..."}
// at the status statusFor derives from that kind.
func writeError(w http.ResponseWriter, log *logging.Logger, err error) {
	kind := "INTERNAL"
	var berr *bankerr.Error
	if errors.As(err, &berr) {
		kind = string(berr.Kind)
	}
	if log != nil {
		log.Error("request failed", "kind", kind, "error", err)
	}
	writeJSON(w, statusFor(err), ErrorResponse{Detail: err.Error()})
}

// statusFor maps a bankerr.Kind to an HTTP status. NotFound is the only
// 404; every other business-rule rejection is a client-fixable 400;
// anything not a *bankerr.Error is an unexpected internal fault and gets
// 500.
func statusFor(err error) int {
	var berr *bankerr.Error
	if !errors.As(err, &berr) {
		return http.StatusInternalServerError
	}
	switch berr.Kind {
	case bankerr.KindNotFound:
		return http.StatusNotFound
	case bankerr.KindConflict,
		bankerr.KindIllegalTransition,
		bankerr.KindAccountInactive,
		bankerr.KindCurrencyMismatch,
		bankerr.KindUnbalanced,
		bankerr.KindInsufficientFunds,
		bankerr.KindSameAccount,
		bankerr.KindNotReversible,
		bankerr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
