package service

import (
	"context"

	"github.com/payments-engine/internal/domain/rejection"
	"github.com/payments-engine/internal/domain/transaction"
)

// ProcessingService applies one record at a time
type ProcessingService interface {
	ProcessRecord(ctx context.Context, rec transaction.Record) error
}

// RecordProcessor is the engine seen from the service: *engine.Engine for a
// single-owner run and *engine.Synchronized when the engine is shared.
type RecordProcessor interface {
	Process(rec transaction.Record) error
}

// RecordSource yields records until io.EOF. Malformed rows surface as
// *csvio.RowError and are skipped.
type RecordSource interface {
	Next() (transaction.Record, error)
}

// FailureRecorder handles recording rejected records
type FailureRecorder interface {
	RecordFailure(ctx context.Context, entry *rejection.Entry) error
}
