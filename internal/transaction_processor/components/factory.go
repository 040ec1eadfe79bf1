package components

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/rejection"
	"github.com/payments-engine/internal/engine"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// Sinks are the optional stores a run reports to. A nil field disables it.
type Sinks struct {
	Rejections rejection.Repository
	Snapshots  account.SnapshotRepository
}

func (s Sinks) failureRecorder(logger *slog.Logger) service.FailureRecorder {
	if s.Rejections == nil {
		return nil
	}
	return NewFailureRecorder(s.Rejections, logger.With("component", "failure_recorder"))
}

func (s Sinks) exporter(logger *slog.Logger) *SnapshotExporter {
	if s.Snapshots == nil {
		return nil
	}
	return NewSnapshotExporter(s.Snapshots, logger.With("component", "snapshot_exporter"))
}

// CreateBatchService wires the file processor for the given inputs into a
// worker pool. A single input writes to stdout, several inputs write one
// file each into cfg.Output.Dir and must not share an output name.
func CreateBatchService(
	cfg *config.Config,
	inputs []string,
	stdout io.Writer,
	sinks Sinks,
	logger *slog.Logger,
) (*service.WorkerPoolBatchService, error) {
	output := StdoutOutput(stdout)
	if len(inputs) > 1 {
		if err := CheckOutputPaths(cfg.Output.Dir, inputs); err != nil {
			return nil, err
		}
		output = DirOutput(cfg.Output.Dir)
	}

	processor := NewFileProcessor(
		engine.Config{StrictClientMatch: cfg.Engine.StrictClientMatch},
		cfg.Output.Precision,
		output,
		sinks.failureRecorder(logger),
		sinks.exporter(logger),
		logger,
	)

	batchService, err := service.NewWorkerPoolBatchService(
		processor.Process,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("Created worker pool batch service", "pool_size", cfg.WorkerPool.Size, "inputs", len(inputs))
	return batchService, nil
}

// LiveEngine is one engine shared by the daemon's consumer and HTTP API
type LiveEngine struct {
	Engine   *engine.Synchronized
	Service  *service.ProcessingServiceImpl
	Exporter *SnapshotExporter
}

// CreateLiveEngine wires a synchronized engine and the processing service
// that feeds it
func CreateLiveEngine(cfg *config.Config, runID uuid.UUID, sinks Sinks, logger *slog.Logger) *LiveEngine {
	eng := engine.NewSynchronized(engine.Config{StrictClientMatch: cfg.Engine.StrictClientMatch})
	return &LiveEngine{
		Engine:   eng,
		Service:  service.NewProcessingService(eng, sinks.failureRecorder(logger), runID, logger),
		Exporter: sinks.exporter(logger),
	}
}
