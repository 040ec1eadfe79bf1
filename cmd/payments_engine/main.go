package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/mongo"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/transaction_processor/components"
)

const usage = "usage: payments_engine <transactions.csv> [more.csv ...]"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	inputs := os.Args[1:]

	// Cancelled on SIGINT/SIGTERM so in-flight files stop between records
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("payments_engine")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.NewLogger(cfg)

	if len(inputs) > 1 && cfg.Output.Dir == "" {
		log.Error("OUTPUT_DIR must be set when more than one input file is given", "inputs", len(inputs))
		return 2
	}
	if len(inputs) > 1 {
		if err := components.CheckOutputPaths(cfg.Output.Dir, inputs); err != nil {
			log.Error("Input files would overwrite each other's output", "error", err)
			return 2
		}
	}

	var sinks components.Sinks

	if cfg.MongoDB.Enabled {
		mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			return 1
		}
		defer func() {
			if err := mongoDB.Close(context.Background()); err != nil {
				log.Error("Error closing MongoDB connection", "error", err)
			}
		}()
		if err := mongo.EnsureIndexes(appCtx, mongoDB.Database()); err != nil {
			log.Error("Failed to create rejection indexes", "error", err)
			return 1
		}
		sinks.Rejections = mongo.NewRejectionRepository(log, mongoDB.Database())
	}

	if cfg.Postgres.Enabled {
		postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			return 1
		}
		defer postgresDB.Close()
		sinks.Snapshots = postgres.NewAccountSnapshotRepository(log, postgresDB)
	}

	batchService, err := components.CreateBatchService(cfg, inputs, os.Stdout, sinks, log)
	if err != nil {
		log.Error("Failed to create batch service", "error", err)
		if errors.Is(err, components.ErrOutputCollision) {
			return 2
		}
		return 1
	}
	defer batchService.Shutdown()

	failed := 0
	for _, result := range batchService.ProcessAll(appCtx, inputs) {
		if result.Err != nil {
			failed++
			log.Error("Failed to process input", "input", result.Input, "error", result.Err)
		}
	}

	if errors.Is(appCtx.Err(), context.Canceled) {
		log.Warn("Interrupted before all inputs were processed")
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}
