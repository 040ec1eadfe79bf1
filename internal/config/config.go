// Package config provides configuration structures and validation for the
// payments engine binaries. Settings come from an optional .env file and the
// environment; the storage and messaging sections only matter to the daemon.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Postgres and MongoDB
// are optional sinks and are validated only when enabled.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Engine      EngineConfig
	Output      OutputConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Output string // "stderr" or "stdout"
}

// EngineConfig tunes how records are applied
type EngineConfig struct {
	StrictClientMatch bool
}

// OutputConfig controls where and how account snapshots are written
type OutputConfig struct {
	Dir       string // Required when more than one input file is given
	Precision int    // Decimal places for amounts
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// DefaultPostgresMigrationsPath holds the account_snapshots schema migrations
const DefaultPostgresMigrationsPath = "migrations/postgres"

// Consumer start offsets, matching kafka-go's FirstOffset and LastOffset
const (
	StartOffsetFirst int64 = -2
	StartOffsetLast  int64 = -1
)

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	RecordTopic       string
	NumPartitions     int // Keep at 1: records must be applied in publish order
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64 // StartOffsetFirst or StartOffsetLast, used when the group has no committed offset
	DLQTopic          string // Topic for rejected and undecodable records
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	Enabled         bool
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	Enabled         bool
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of input files processed at once
}

// validate checks every configuration value and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string

	switch strings.ToLower(c.Logging.Output) {
	case "stderr", "stdout":
	default:
		validationErrors = append(validationErrors, "LOG_OUTPUT must be stderr or stdout")
	}

	if c.Output.Precision < 0 {
		validationErrors = append(validationErrors, "OUTPUT_PRECISION must not be negative")
	}

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.RecordTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_RECORD_TOPIC is required")
	}
	if c.Kafka.NumPartitions <= 0 {
		validationErrors = append(validationErrors, "KAFKA_NUM_PARTITIONS must be greater than 0")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.StartOffset != StartOffsetFirst && c.Kafka.StartOffset != StartOffsetLast {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_START_OFFSET must be -2 (first) or -1 (last)")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}

	if c.Postgres.Enabled {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	if c.MongoDB.Enabled {
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MinPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MaxConnIdleTime <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
