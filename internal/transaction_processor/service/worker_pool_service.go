package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// InputProcessor folds one named input into its own engine and writes its
// snapshot. Each call must be independent of every other.
type InputProcessor func(ctx context.Context, input string) (Summary, error)

// BatchResult is the outcome for one input
type BatchResult struct {
	Input   string
	Summary Summary
	Err     error
}

// WorkerPoolBatchService runs independent inputs concurrently. A single
// input is never split: its records stay in order inside one worker.
type WorkerPoolBatchService struct {
	process InputProcessor
	pool    *ants.Pool
	logger  *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolBatchService(
	process InputProcessor,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolBatchService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolBatchService{
		process: process,
		pool:    pool,
		logger:  logger,
	}, nil
}

// ProcessAll processes every input and returns results in input order
func (s *WorkerPoolBatchService) ProcessAll(ctx context.Context, inputs []string) []BatchResult {
	results := make([]BatchResult, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		results[i].Input = input

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			s.logger.Info("Processing input", "input", input)
			results[i].Summary, results[i].Err = s.process(ctx, input)
		})
		if err != nil {
			wg.Done()
			s.logger.Error("Failed to submit input to worker pool", "input", input, "error", err)
			results[i].Err = err
		}
	}
	wg.Wait()

	return results
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolBatchService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolBatchService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolBatchService) Capacity() int {
	return s.pool.Cap()
}
