// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyProcessed   = errors.New("record already processed")
	ErrInsufficientShares = errors.New("not enough available shares")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNoShareholders     = errors.New("property has no shareholders")
	// ErrFundsMismatch means a pending record implies more earmarked funds than
	// the user document tracks. That is a ledger inconsistency, not user error,
	// and is logged at error level so an operator sees it.
	ErrFundsMismatch = errors.New("earmarked funds mismatch")
	// ErrTransactionAborted wraps commit failures and write conflicts; the
	// request had no effect and is safe to retry.
	ErrTransactionAborted = errors.New("transaction aborted")
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
