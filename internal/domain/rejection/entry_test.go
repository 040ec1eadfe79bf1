package rejection

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	runID := uuid.New()
	rec := transaction.NewRecord(transaction.TypeDeposit, 4, 12).WithAmount(3.5)
	err := fmt.Errorf("deposit for client 4 tx 12: %w", shared.ErrDuplicateTransaction)

	before := time.Now().UTC()
	entry := NewEntry(runID, 17, rec, err)

	require.NotNil(t, entry)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, runID, entry.RunID)
	assert.Equal(t, int64(17), entry.Sequence)
	assert.Equal(t, "deposit", entry.Type)
	assert.Equal(t, uint16(4), entry.ClientID)
	assert.Equal(t, uint32(12), entry.TxID)
	require.NotNil(t, entry.Amount)
	assert.Equal(t, 3.5, *entry.Amount)
	assert.Equal(t, shared.FailureReasonDuplicateTransaction, entry.Reason)
	assert.Equal(t, err.Error(), entry.Message)
	assert.WithinDuration(t, before, entry.CreatedAt, time.Second)
}
