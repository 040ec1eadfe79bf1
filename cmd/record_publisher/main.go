package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/csvio"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/transaction_processor/service"
)

const usage = "usage: record_publisher <transactions.csv>"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	input := os.Args[1]

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("record_publisher")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.NewLogger(cfg)

	f, err := os.Open(input)
	if err != nil {
		log.Error("Failed to open input", "input", input, "error", err)
		return 1
	}
	defer f.Close()

	producer, err := producers.NewRecordProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize record producer", "error", err)
		return 1
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("Error closing record producer", "error", err)
		}
	}()

	published, skipped, err := publishAll(appCtx, csvio.NewReader(f), producer, log)
	log.Info("Publishing finished",
		"input", input,
		"topic", cfg.Kafka.RecordTopic,
		"published", published,
		"skipped", skipped,
	)
	if err != nil {
		log.Error("Publishing stopped early", "error", err)
		return 1
	}
	return 0
}

// publishAll publishes every record from src in order. Malformed rows are
// skipped; a failed publish stops the run so later records cannot overtake it.
func publishAll(ctx context.Context, src service.RecordSource, publisher producers.RecordPublisher, log *slog.Logger) (published, skipped int, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return published, skipped, err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return published, skipped, nil
		}
		var rowErr *csvio.RowError
		if errors.As(err, &rowErr) {
			skipped++
			log.Warn("Skipping malformed row", "line", rowErr.Line, "error", rowErr.Err)
			continue
		}
		if err != nil {
			return published, skipped, err
		}

		if err := publisher.Publish(ctx, rec); err != nil {
			return published, skipped, err
		}
		published++
	}
}
