package shared

import (
	"errors"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// FailureReason defines record rejection categories
type FailureReason string

const (
	FailureReasonAccountLocked          FailureReason = "ACCOUNT_LOCKED"
	FailureReasonDuplicateTransaction   FailureReason = "DUPLICATE_TRANSACTION"
	FailureReasonMissingAmount          FailureReason = "MISSING_AMOUNT"
	FailureReasonInvalidAmount          FailureReason = "INVALID_AMOUNT"
	FailureReasonInsufficientFunds      FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonUnknownTransaction     FailureReason = "UNKNOWN_TRANSACTION"
	FailureReasonInvalidStateTransition FailureReason = "INVALID_STATE_TRANSITION"
	FailureReasonClientMismatch         FailureReason = "CLIENT_MISMATCH"
	FailureReasonMalformedRecord        FailureReason = "MALFORMED_RECORD"
	FailureReasonUnknownError           FailureReason = "UNKNOWN_ERROR"
)

var reasonsByError = []struct {
	err    error
	reason FailureReason
}{
	{ErrAccountLocked, FailureReasonAccountLocked},
	{ErrDuplicateTransaction, FailureReasonDuplicateTransaction},
	{ErrMissingAmount, FailureReasonMissingAmount},
	{account.ErrInvalidAmount, FailureReasonInvalidAmount},
	{account.ErrInsufficientFunds, FailureReasonInsufficientFunds},
	{ErrUnknownTransaction, FailureReasonUnknownTransaction},
	{transaction.ErrInvalidStateTransition, FailureReasonInvalidStateTransition},
	{ErrClientMismatch, FailureReasonClientMismatch},
	{transaction.ErrUnknownType, FailureReasonMalformedRecord},
}

// ReasonFor maps a rejection to its stable reason code
func ReasonFor(err error) FailureReason {
	for _, r := range reasonsByError {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return FailureReasonUnknownError
}
