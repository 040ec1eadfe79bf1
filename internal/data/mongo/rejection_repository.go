// Package mongo provides MongoDB implementations of the domain repositories.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/payments-engine/internal/domain/rejection"
	"github.com/payments-engine/internal/domain/shared"
)

const (
	// RejectionCollectionName is the name of the rejection journal collection in MongoDB
	RejectionCollectionName = "rejections"
)

// Collection is the subset of *mongo.Collection the repository uses
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

var _ Collection = (*mongo.Collection)(nil)

// RejectionRepository implements the rejection.Repository interface for MongoDB
type RejectionRepository struct {
	collection Collection
	logger     *slog.Logger
}

// NewRejectionRepository creates a new MongoDB rejection journal
func NewRejectionRepository(logger *slog.Logger, db *mongo.Database) rejection.Repository {
	return &RejectionRepository{
		collection: db.Collection(RejectionCollectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the journal's lookup indexes if they are missing
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(RejectionCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "sequence", Value: 1}}},
		{Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "reason", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create rejection indexes: %w", err)
	}
	return nil
}

// Create appends a rejection to the journal
func (r *RejectionRepository) Create(ctx context.Context, entry *rejection.Entry) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		r.logger.Error("Failed to create rejection entry",
			"run_id", entry.RunID.String(),
			"tx_id", entry.TxID,
			"error", err)
		return fmt.Errorf("failed to create rejection entry: %w", err)
	}
	return nil
}

// CountByRunID counts the rejections journaled for a run
func (r *RejectionRepository) CountByRunID(ctx context.Context, runID uuid.UUID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"run_id": runID})
	if err != nil {
		r.logger.Error("Failed to count rejections", "run_id", runID.String(), "error", err)
		return 0, fmt.Errorf("failed to count rejections: %w", err)
	}
	return count, nil
}

// CountByReason counts the rejections of one kind journaled for a run
func (r *RejectionRepository) CountByReason(ctx context.Context, runID uuid.UUID, reason shared.FailureReason) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"run_id": runID, "reason": reason})
	if err != nil {
		r.logger.Error("Failed to count rejections by reason", "run_id", runID.String(), "reason", reason, "error", err)
		return 0, fmt.Errorf("failed to count rejections by reason: %w", err)
	}
	return count, nil
}
