package shared

import (
	"errors"
)

// Rejections decided by the engine itself. Balance failures come from the
// account package and state machine failures from the transaction package.
var (
	ErrAccountLocked        = errors.New("account is locked")
	ErrDuplicateTransaction = errors.New("transaction id already exists")
	ErrMissingAmount        = errors.New("amount is required")
	ErrUnknownTransaction   = errors.New("referenced transaction does not exist")
	ErrClientMismatch       = errors.New("referenced transaction belongs to another client")
)
