package rejection

import (
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
)

// Entry is one rejected record in the rejection journal
type Entry struct {
	ID        uuid.UUID            `json:"id" bson:"_id"`
	RunID     uuid.UUID            `json:"run_id" bson:"run_id"`
	Sequence  int64                `json:"sequence" bson:"sequence"` // Position of the record in its stream, 1-based
	Type      string               `json:"type" bson:"type"`
	ClientID  uint16               `json:"client" bson:"client"`
	TxID      uint32               `json:"tx" bson:"tx"`
	Amount    *float64             `json:"amount,omitempty" bson:"amount,omitempty"`
	Reason    shared.FailureReason `json:"reason" bson:"reason"`
	Message   string               `json:"message" bson:"message"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// NewEntry builds a journal entry for a record rejected with err
func NewEntry(runID uuid.UUID, sequence int64, rec transaction.Record, err error) *Entry {
	return &Entry{
		ID:        uuid.New(),
		RunID:     runID,
		Sequence:  sequence,
		Type:      rec.Type.String(),
		ClientID:  rec.ClientID,
		TxID:      rec.TxID,
		Amount:    rec.Amount,
		Reason:    shared.ReasonFor(err),
		Message:   err.Error(),
		CreatedAt: time.Now().UTC(),
	}
}
