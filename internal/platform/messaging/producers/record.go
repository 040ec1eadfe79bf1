package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/segmentio/kafka-go"
)

// RecordProducer writes records to the record topic keyed by client id.
// Writes are synchronous so that a failed publish stops the caller before
// later records overtake it.
type RecordProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewRecordProducer ensures the record topic exists and returns a producer for it
func NewRecordProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*RecordProducer, error) {
	if cfg.RecordTopic == "" {
		return nil, fmt.Errorf("kafka record topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for record producer: %w", err)
	}
	defer conn.Close()

	partitions, err := ensureTopic(ctx, conn, cfg.RecordTopic, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure record topic %s exists: %w", cfg.RecordTopic, err)
	}
	warnIfPartitioned(logger, cfg.RecordTopic, partitions)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.RecordTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &RecordProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.RecordTopic,
	}, nil
}

// warnIfPartitioned flags a record topic whose records of different clients
// can be consumed out of publish order
func warnIfPartitioned(logger *slog.Logger, topic string, partitions int) {
	if partitions > 1 {
		logger.Warn("Record topic has more than one partition, records of different clients may be applied out of publish order",
			"topic", topic,
			"partitions", partitions,
		)
	}
}

// Publish writes rec as JSON
func (p *RecordProducer) Publish(ctx context.Context, rec transaction.Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record tx %d: %w", rec.TxID, err)
	}

	key := strconv.FormatUint(uint64(rec.ClientID), 10)
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish record",
			"topic", p.topic,
			"client_id", rec.ClientID,
			"tx_id", rec.TxID,
			"error", err,
		)
		return fmt.Errorf("failed to publish record tx %d to %s: %w", rec.TxID, p.topic, err)
	}

	p.logger.Debug("Published record", "topic", p.topic, "client_id", rec.ClientID, "tx_id", rec.TxID)
	return nil
}

func (p *RecordProducer) Close() error {
	p.logger.Info("Closing record producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
