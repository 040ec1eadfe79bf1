package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolBatchService_ProcessAll(t *testing.T) {
	logger := slog.Default()

	process := func(ctx context.Context, input string) (Summary, error) {
		if input == "broken.csv" {
			return Summary{}, errors.New("cannot open")
		}
		return Summary{Processed: int64(len(input))}, nil
	}

	svc, err := NewWorkerPoolBatchService(process, WorkerPoolConfig{Size: 2}, logger)
	require.NoError(t, err)
	defer svc.Shutdown()

	assert.Equal(t, 2, svc.Capacity())

	inputs := []string{"a.csv", "broken.csv", "longer.csv"}
	results := svc.ProcessAll(context.Background(), inputs)

	require.Len(t, results, 3)
	assert.Equal(t, "a.csv", results[0].Input)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, int64(5), results[0].Summary.Processed)

	assert.Equal(t, "broken.csv", results[1].Input)
	assert.EqualError(t, results[1].Err, "cannot open")

	assert.Equal(t, "longer.csv", results[2].Input)
	assert.Equal(t, int64(10), results[2].Summary.Processed)
}

func TestWorkerPoolBatchService_BoundedConcurrency(t *testing.T) {
	var running, peak int32

	process := func(ctx context.Context, input string) (Summary, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return Summary{}, nil
	}

	svc, err := NewWorkerPoolBatchService(process, WorkerPoolConfig{Size: 2}, slog.Default())
	require.NoError(t, err)
	defer svc.Shutdown()

	results := svc.ProcessAll(context.Background(), []string{"1", "2", "3", "4", "5", "6"})
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 0, svc.Running())
}
