package service

import (
	"context"
	"log/slog"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	ledger  Ledger
	applier RecordApplier
	logger  *slog.Logger
}

// NewTransactionService creates a new transaction service. Records go through
// applier so rejections are counted and journaled like those from other inputs.
func NewTransactionService(logger *slog.Logger, ledger Ledger, applier RecordApplier) TransactionService {
	return &TransactionServiceImpl{
		ledger:  ledger,
		applier: applier,
		logger:  logger,
	}
}

// SubmitRecord applies rec inline and returns the resulting account
func (s *TransactionServiceImpl) SubmitRecord(ctx context.Context, rec transaction.Record) (account.Account, error) {
	var acc account.Account
	err := s.applier.ApplyRecord(ctx, rec, func(rec transaction.Record) error {
		var applyErr error
		acc, applyErr = s.ledger.ProcessAndGet(rec)
		return applyErr
	})
	if err != nil {
		return account.Account{}, err
	}
	return acc, nil
}

// GetTransaction retrieves a recorded deposit or withdrawal by id
func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, txID uint32) (transaction.Recorded, error) {
	if err := ctx.Err(); err != nil {
		return transaction.Recorded{}, err
	}
	return s.ledger.Transaction(txID)
}
