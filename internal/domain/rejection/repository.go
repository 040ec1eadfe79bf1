package rejection

import (
	"context"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
)

// Repository persists the rejection journal
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	CountByRunID(ctx context.Context, runID uuid.UUID) (int64, error)
	CountByReason(ctx context.Context, runID uuid.UUID, reason shared.FailureReason) (int64, error)
}
