package components

import (
	"context"
	"log/slog"

	"github.com/payments-engine/internal/domain/rejection"
	"github.com/payments-engine/internal/transaction_processor/service"
)

type FailureRecorderImpl struct {
	rejectionRepo rejection.Repository
	logger        *slog.Logger
}

func NewFailureRecorder(rejectionRepo rejection.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		rejectionRepo: rejectionRepo,
		logger:        logger,
	}
}

// RecordFailure appends a rejected record to the rejection journal
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, entry *rejection.Entry) error {
	if err := r.rejectionRepo.Create(ctx, entry); err != nil {
		r.logger.Error("Failed to journal rejected record",
			"run_id", entry.RunID.String(),
			"sequence", entry.Sequence,
			"tx_id", entry.TxID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("Journaled rejected record",
		"run_id", entry.RunID.String(),
		"sequence", entry.Sequence,
		"tx_id", entry.TxID,
		"reason", entry.Reason,
	)
	return nil
}
