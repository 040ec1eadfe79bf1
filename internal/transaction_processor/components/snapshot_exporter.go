package components

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
)

// SnapshotExporter copies a final account snapshot to the snapshot store.
// Nothing exported is ever read back by the engine.
type SnapshotExporter struct {
	snapshotRepo account.SnapshotRepository
	logger       *slog.Logger
}

func NewSnapshotExporter(snapshotRepo account.SnapshotRepository, logger *slog.Logger) *SnapshotExporter {
	return &SnapshotExporter{
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// Export saves accounts under runID
func (e *SnapshotExporter) Export(ctx context.Context, runID uuid.UUID, accounts []account.Account) error {
	if err := e.snapshotRepo.SaveSnapshot(ctx, runID, accounts); err != nil {
		e.logger.Error("Failed to export account snapshot", "run_id", runID.String(), "error", err)
		return err
	}
	e.logger.Info("Exported account snapshot", "run_id", runID.String(), "accounts", len(accounts))
	return nil
}
