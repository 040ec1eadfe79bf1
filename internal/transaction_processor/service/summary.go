package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
)

// Summary counts what happened to the records of one run
type Summary struct {
	RunID     uuid.UUID
	Processed int64
	Accepted  int64
	Rejected  map[shared.FailureReason]int64
	Malformed int64
}

// TotalRejected sums rejections over every reason
func (s Summary) TotalRejected() int64 {
	var total int64
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// LogArgs flattens the summary into slog key/value pairs
func (s Summary) LogArgs() []any {
	args := []any{
		"run_id", s.RunID.String(),
		"processed", s.Processed,
		"accepted", s.Accepted,
		"rejected", s.TotalRejected(),
		"malformed", s.Malformed,
	}
	for reason, n := range s.Rejected {
		args = append(args, "rejected_"+string(reason), n)
	}
	return args
}

type summaryCounter struct {
	mu      sync.Mutex
	summary Summary
}

func newSummaryCounter(runID uuid.UUID) *summaryCounter {
	return &summaryCounter{summary: Summary{
		RunID:    runID,
		Rejected: make(map[shared.FailureReason]int64),
	}}
}

// next counts a processed record and returns its 1-based sequence number
func (c *summaryCounter) next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary.Processed++
	return c.summary.Processed
}

func (c *summaryCounter) accepted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary.Accepted++
}

func (c *summaryCounter) rejected(reason shared.FailureReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary.Rejected[reason]++
}

func (c *summaryCounter) malformed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary.Malformed++
}

func (c *summaryCounter) snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.summary
	out.Rejected = make(map[shared.FailureReason]int64, len(c.summary.Rejected))
	for reason, n := range c.summary.Rejected {
		out.Rejected[reason] = n
	}
	return out
}
