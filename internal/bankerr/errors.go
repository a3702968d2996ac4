/*
Package bankerr centralizes the error taxonomy shared by the ledger,
account, and transaction packages.

All error kinds the core can return live in one place, as a single closed
Kind enum rather than a bag of package-level sentinel errors, so the HTTP
adapter can switch on Kind to choose a status code without depending on
three separate packages' error values.
*/
package bankerr

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories the adapter maps to HTTP status.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindIllegalTransition Kind = "ILLEGAL_TRANSITION"
	KindAccountInactive   Kind = "ACCOUNT_INACTIVE"
	KindCurrencyMismatch  Kind = "CURRENCY_MISMATCH"
	KindUnbalanced        Kind = "UNBALANCED"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindSameAccount       Kind = "SAME_ACCOUNT"
	KindNotReversible     Kind = "NOT_REVERSIBLE"
	KindValidation        Kind = "VALIDATION"
)

// Error is the concrete error type returned by every core operation that
// fails a business rule. It carries a Kind the adapter switches on and a
// human-readable message that is stable enough for clients to match on
// substrings.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a *Error of the given kind. The
// match uses errors.As under the hood.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
