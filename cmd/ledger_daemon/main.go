package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/api_gateway"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/mongo"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/messaging/consumers"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/transaction_processor/components"
	"github.com/payments-engine/internal/transaction_processor/consumer"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_daemon")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	runID := uuid.New()
	log.Info("Starting Ledger Daemon",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"run_id", runID.String(),
	)

	// Optional stores
	var sinks components.Sinks
	var mongoDB *persistence.MongoDB
	if cfg.MongoDB.Enabled {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		if err = mongo.EnsureIndexes(appCtx, mongoDB.Database()); err != nil {
			log.Error("Failed to create rejection indexes", "error", err)
			os.Exit(1)
		}
		sinks.Rejections = mongo.NewRejectionRepository(log, mongoDB.Database())
	}

	var postgresDB *persistence.PostgresDB
	if cfg.Postgres.Enabled {
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		sinks.Snapshots = postgres.NewAccountSnapshotRepository(log, postgresDB)
	}

	// One engine shared by the consumer and the HTTP API
	live := components.CreateLiveEngine(cfg, runID, sinks, log)

	// Initialize Kafka DLQ producer; nil when DLQ_TOPIC is empty
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}

	recordEventHandler := consumer.NewRecordEventHandler(
		log.With("component", "record_event_handler"),
		live.Service,
		deadLetters,
	)

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)
	if err = kafkaConsumer.Subscribe(appCtx, recordEventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to record topic", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	accountService := service.NewAccountService(live.Engine)
	transactionService := service.NewTransactionService(log, live.Engine, live.Service)
	server := api_gateway.NewServer(log, cfg, accountService, transactionService)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	case <-kafkaConsumer.Done():
		log.Error("Kafka consumer stopped unexpectedly")
		serviceErr = fmt.Errorf("kafka consumer stopped")
	}

	// Stop consuming first so the snapshot below is final
	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	select {
	case <-kafkaConsumer.Done():
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Warn("Shutdown timeout reached waiting for Kafka consumer")
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	summary := live.Service.Summary()
	log.Info("Final run summary", summary.LogArgs()...)

	if live.Exporter != nil {
		if err = live.Exporter.Export(shutdownCtx, runID, live.Engine.Accounts()); err != nil {
			log.Error("Failed to export final account snapshot", "error", err)
		}
	}

	if postgresDB != nil {
		postgresDB.Close()
	}

	if mongoDB != nil {
		if err = mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	if serviceErr != nil {
		log.Error("Ledger Daemon shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger Daemon shutdown completed")
}
