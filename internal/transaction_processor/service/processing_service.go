package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/rejection"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/engine"
	"github.com/payments-engine/internal/platform/csvio"
)

type ProcessingServiceImpl struct {
	processor       RecordProcessor
	failureRecorder FailureRecorder
	logger          *slog.Logger
	runID           uuid.UUID
	counter         *summaryCounter
}

// NewProcessingService wires a record processor for one run. failureRecorder
// may be nil when no rejection journal is configured.
func NewProcessingService(
	processor RecordProcessor,
	failureRecorder FailureRecorder,
	runID uuid.UUID,
	logger *slog.Logger,
) *ProcessingServiceImpl {
	return &ProcessingServiceImpl{
		processor:       processor,
		failureRecorder: failureRecorder,
		logger:          logger.With("run_id", runID.String()),
		runID:           runID,
		counter:         newSummaryCounter(runID),
	}
}

// ProcessRecord applies rec. A rejection is returned as *engine.RejectionError
// after it has been counted, logged and journaled; the run continues.
func (s *ProcessingServiceImpl) ProcessRecord(ctx context.Context, rec transaction.Record) error {
	return s.ApplyRecord(ctx, rec, s.processor.Process)
}

// ApplyRecord is ProcessRecord with the engine call supplied by the caller,
// for callers that must read state under the same lock as the write.
func (s *ProcessingServiceImpl) ApplyRecord(ctx context.Context, rec transaction.Record, apply func(transaction.Record) error) error {
	sequence := s.counter.next()

	err := apply(rec)
	if err == nil {
		s.counter.accepted()
		return nil
	}

	var rejectionErr *engine.RejectionError
	if !errors.As(err, &rejectionErr) {
		s.logger.Error("Record processing failed", "sequence", sequence, "tx_id", rec.TxID, "error", err)
		return err
	}

	reason := shared.ReasonFor(err)
	s.counter.rejected(reason)
	s.logger.Debug("Record rejected",
		"sequence", sequence,
		"type", rec.Type.String(),
		"client_id", rec.ClientID,
		"tx_id", rec.TxID,
		"reason", reason,
	)

	if s.failureRecorder != nil {
		entry := rejection.NewEntry(s.runID, sequence, rec, err)
		if recordErr := s.failureRecorder.RecordFailure(ctx, entry); recordErr != nil {
			s.logger.Error("Failed to record rejection", "tx_id", rec.TxID, "error", recordErr)
		}
	}
	return err
}

// Consume drains src into the engine in order. Malformed rows and rejected
// records are skipped; only a source failure or cancellation stops the run.
func (s *ProcessingServiceImpl) Consume(ctx context.Context, src RecordSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var rowErr *csvio.RowError
			if errors.As(err, &rowErr) {
				s.counter.malformed()
				s.logger.Warn("Skipping malformed input row", "line", rowErr.Line, "error", rowErr.Err)
				continue
			}
			return fmt.Errorf("failed to read records: %w", err)
		}

		if err := s.ProcessRecord(ctx, rec); err != nil {
			var rejectionErr *engine.RejectionError
			if !errors.As(err, &rejectionErr) {
				return err
			}
		}
	}
}

// RunID identifies the run in logs, the journal and exported snapshots
func (s *ProcessingServiceImpl) RunID() uuid.UUID {
	return s.runID
}

// Summary returns the counts so far
func (s *ProcessingServiceImpl) Summary() Summary {
	return s.counter.snapshot()
}
