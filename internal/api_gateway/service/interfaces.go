package service

import (
	"context"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// Ledger is the shared engine. *engine.Synchronized satisfies it.
type Ledger interface {
	ProcessAndGet(rec transaction.Record) (account.Account, error)
	Accounts() []account.Account
	Account(clientID uint16) (account.Account, error)
	Transaction(txID uint32) (transaction.Recorded, error)
}

// RecordApplier counts, logs and journals a record around an engine call.
// The transaction processor's ProcessingServiceImpl satisfies it.
type RecordApplier interface {
	ApplyRecord(ctx context.Context, rec transaction.Record, apply func(transaction.Record) error) error
}

// AccountService defines the interface for account operations
type AccountService interface {
	// ListAccounts returns one page of accounts ordered by client id, and the
	// total number of accounts
	ListAccounts(ctx context.Context, page, perPage int) ([]account.Account, int, error)

	// GetAccount retrieves the client's account
	// Returns ErrAccountNotFound if no record has touched the client yet
	GetAccount(ctx context.Context, clientID uint16) (account.Account, error)
}

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	// SubmitRecord applies a record to the engine and returns the client's
	// account exactly as that record left it. A rejected record yields a
	// *engine.RejectionError.
	SubmitRecord(ctx context.Context, rec transaction.Record) (account.Account, error)

	// GetTransaction retrieves a recorded deposit or withdrawal
	// Returns ErrRecordNotFound if the id was never recorded
	GetTransaction(ctx context.Context, txID uint32) (transaction.Recorded, error)
}
