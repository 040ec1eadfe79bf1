// Package postgres provides PostgreSQL implementations of the domain repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/platform/persistence"
)

// AccountSnapshotRepository implements account.SnapshotRepository for PostgreSQL
type AccountSnapshotRepository struct {
	db     persistence.TxBeginner // *pgxpool.Pool in production
	logger *slog.Logger
}

// NewAccountSnapshotRepository creates a new PostgreSQL snapshot repository
func NewAccountSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) account.SnapshotRepository {
	return &AccountSnapshotRepository{
		db:     db.Pool(),
		logger: logger,
	}
}

const upsertSnapshotQuery = `
		INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, exported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, client_id) DO UPDATE
		SET available = EXCLUDED.available,
			held = EXCLUDED.held,
			total = EXCLUDED.total,
			locked = EXCLUDED.locked,
			exported_at = EXCLUDED.exported_at
	`

// SaveSnapshot writes every account of a run in one transaction. Exporting
// the same run twice overwrites the earlier rows.
func (r *AccountSnapshotRepository) SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []account.Account) error {
	exportedAt := time.Now().UTC()

	err := persistence.ExecuteTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, acc := range accounts {
			_, err := tx.Exec(ctx, upsertSnapshotQuery,
				runID,
				int32(acc.ClientID),
				acc.Available,
				acc.Held,
				acc.Total,
				acc.Locked,
				exportedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save snapshot row for client %d: %w", acc.ClientID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save account snapshot", "run_id", runID.String(), "error", err)
		return fmt.Errorf("failed to save account snapshot: %w", err)
	}

	r.logger.Info("Saved account snapshot", "run_id", runID.String(), "accounts", len(accounts))
	return nil
}

// CountByRunID returns the number of exported accounts for a run
func (r *AccountSnapshotRepository) CountByRunID(ctx context.Context, runID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM account_snapshots WHERE run_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, runID).Scan(&count); err != nil {
		r.logger.Error("Failed to count account snapshot rows", "run_id", runID.String(), "error", err)
		return 0, fmt.Errorf("failed to count account snapshot rows: %w", err)
	}
	return count, nil
}
