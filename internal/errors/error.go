package errors

import "github.com/pkg/errors"

var (
	// common errors
	ErrTimeout = errors.New("operation timed out")

	// employer errors
	ErrEmployerNotFound = errors.New("employer not found")

	// escrow errors
	ErrInvalidAmount           = errors.New("deposit amount must be positive")
	ErrTransactionNotFound     = errors.New("escrow transaction not found")
	ErrTransactionNotHeld      = errors.New("escrow transaction is not held")
	ErrInvalidTransactionState = errors.New("escrow transaction is not in the expected state")
	ErrConsistencyViolation    = errors.New("escrow balance invariant violated")
	ErrAccountFrozen           = errors.New("escrow account is frozen")
)
