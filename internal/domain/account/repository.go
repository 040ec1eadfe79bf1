package account

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// SnapshotRepository exports the final balances of a processing run
type SnapshotRepository interface {
	// SaveSnapshot stores every account of the run atomically
	SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []Account) error
	CountByRunID(ctx context.Context, runID uuid.UUID) (int64, error)
}

// ErrAccountNotFound indicates no transaction ever referenced the client
type ErrAccountNotFound struct {
	ClientID uint16
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + strconv.FormatUint(uint64(e.ClientID), 10)
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	_, ok := target.(ErrAccountNotFound)
	return ok
}
