package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/engine"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/transaction_processor/service"
)

var errMissingType = errors.New("record has no type")

// RecordEventHandler applies records consumed from Kafka. Rejected and
// undecodable records are forwarded to the DLQ and acknowledged.
type RecordEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewRecordEventHandler creates a new handler. producer may be nil when no
// DLQ is configured.
func NewRecordEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *RecordEventHandler {
	return &RecordEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *RecordEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	rec, err := decodeRecord(value)
	if err != nil {
		h.logger.Warn("Failed to decode record from Kafka message",
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, key, value, shared.FailureReasonMalformedRecord, err)
	}

	err = h.processingService.ProcessRecord(ctx, rec)
	if err == nil {
		return nil
	}

	var rejection *engine.RejectionError
	if !errors.As(err, &rejection) {
		return fmt.Errorf("processing record tx %d failed: %w", rec.TxID, err)
	}
	return h.deadLetter(ctx, key, value, shared.ReasonFor(err), err)
}

func (h *RecordEventHandler) deadLetter(ctx context.Context, key, value []byte, reason shared.FailureReason, cause error) error {
	if h.producer == nil {
		// Nothing more can be done with it; acknowledge so the stream moves on.
		return nil
	}

	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason, cause.Error()); err != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to dead-letter message %q: %w", key, err)
	}
	return nil
}

func decodeRecord(value []byte) (transaction.Record, error) {
	var rec transaction.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return transaction.Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if rec.Type == 0 {
		return transaction.Record{}, errMissingType
	}
	return rec, nil
}
