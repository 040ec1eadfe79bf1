package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestApp"
	testPort := 9090
	testLogLevel := "debug"
	testKafkaBrokers := "kafka1:9092,kafka2:9092"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\nOUTPUT_PRECISION=2\n",
		testAppName, testPort, testLogLevel, testKafkaBrokers,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testKafkaBrokers, cfg.Kafka.Brokers)
	assert.Equal(t, 2, cfg.Output.Precision)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.False(t, cfg.Engine.StrictClientMatch)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "transaction_records", cfg.Kafka.RecordTopic)
	assert.Equal(t, 1, cfg.Kafka.NumPartitions)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.MongoDB.Enabled)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 4, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfgWithName)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	require.NotNil(t, cfgWithNameAndType)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENGINE_STRICT_CLIENT_MATCH", "true")
	t.Setenv("OUTPUT_DIR", "/tmp/snapshots")
	t.Setenv("LOG_OUTPUT", "stdout")

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)

	assert.True(t, cfg.Engine.StrictClientMatch)
	assert.Equal(t, "/tmp/snapshots", cfg.Output.Dir)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OUTPUT_PRECISION", "-1")
	t.Setenv("LOG_OUTPUT", "syslog")

	cfg, err := LoadConfig("missing")
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_PRECISION must not be negative")
	assert.Contains(t, err.Error(), "LOG_OUTPUT must be stderr or stdout")
}

func TestConfig_Validate(t *testing.T) {
	defaults := func() *Config {
		v := viper.New()
		setDefaults(v)
		return fromViper(v)
	}

	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, defaults().validate())
	})

	t.Run("DisabledStoresAreNotValidated", func(t *testing.T) {
		cfg := defaults()
		cfg.Postgres.URL = ""
		cfg.MongoDB.URI = ""
		assert.NoError(t, cfg.validate())
	})

	t.Run("EnabledStoresAreValidated", func(t *testing.T) {
		cfg := defaults()
		cfg.Postgres.Enabled = true
		cfg.Postgres.URL = ""
		cfg.MongoDB.Enabled = true
		cfg.MongoDB.Database = ""

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_URL is required")
		assert.Contains(t, err.Error(), "MONGO_DATABASE is required")
	})

	t.Run("KafkaStartOffset", func(t *testing.T) {
		cfg := defaults()
		assert.Equal(t, StartOffsetFirst, cfg.Kafka.StartOffset)

		cfg.Kafka.StartOffset = StartOffsetLast
		assert.NoError(t, cfg.validate())

		cfg.Kafka.StartOffset = 0
		assert.EqualError(t, cfg.validate(), "KAFKA_CONSUMER_START_OFFSET must be -2 (first) or -1 (last)")
	})

	t.Run("WorkerPoolSize", func(t *testing.T) {
		cfg := defaults()
		cfg.WorkerPool.Size = 0
		assert.EqualError(t, cfg.validate(), "WORKER_POOL_SIZE must be greater than 0")
	})
}
