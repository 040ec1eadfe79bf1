package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payments-engine/internal/config"
	"github.com/segmentio/kafka-go"
)

// TopicAdmin is the part of *kafka.Conn used to look up and create topics
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ TopicAdmin = (*kafka.Conn)(nil)

const topicLookupAttempts = 5

var topicLookupDelay = 2 * time.Second

// ensureTopic returns the partition count of topic, creating it from cfg
// when the broker does not list it. A topic created here gets at least one
// partition and a replication factor of at least one.
func ensureTopic(ctx context.Context, admin TopicAdmin, topic string, cfg *config.KafkaConfig, logger *slog.Logger) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= topicLookupAttempts; attempt++ {
		partitions, err := admin.ReadPartitions(topic)
		if err == nil {
			if n := countPartitions(partitions, topic); n > 0 {
				logger.Info("Kafka topic exists", "topic", topic, "partitions", n)
				return n, nil
			}
			break
		}
		lastErr = err
		logger.Warn("Failed to read topic partitions", "topic", topic, "attempt", attempt, "error", err)
		if attempt == topicLookupAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(topicLookupDelay):
		}
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     max(cfg.NumPartitions, 1),
		ReplicationFactor: max(cfg.ReplicationFactor, 1),
	}
	logger.Info("Creating Kafka topic",
		"topic", topic,
		"partitions", topicConfig.NumPartitions,
		"replication_factor", topicConfig.ReplicationFactor,
		"last_lookup_error", lastErr,
	)
	if err := admin.CreateTopics(topicConfig); err != nil {
		return 0, fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}
	return topicConfig.NumPartitions, nil
}

func countPartitions(partitions []kafka.Partition, topic string) int {
	n := 0
	for _, p := range partitions {
		if p.Topic == topic {
			n++
		}
	}
	return n
}
