package service

import "errors"

// Error kinds surfaced to callers. Services wrap these with context via
// fmt.Errorf("%w: ...") so the API layer can match them with errors.Is.
var (
	// ErrNotFound means an entity id did not resolve
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation targeted a pool or transaction
	// that is not in the required state, such as betting on a closed pool
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateBet means the user already has a bet on the pool
	ErrDuplicateBet = errors.New("duplicate bet")

	// ErrInsufficientFunds means a balance is below the required amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrValidation means the input was malformed or violated a business rule
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized means the credentials or role did not permit the operation
	ErrUnauthorized = errors.New("unauthorized")
)
