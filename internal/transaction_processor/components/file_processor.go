package components

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/engine"
	"github.com/payments-engine/internal/platform/csvio"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// OutputFunc opens the snapshot destination for an input
type OutputFunc func(input string) (io.WriteCloser, error)

// StdoutOutput writes every snapshot to w and never closes it
func StdoutOutput(w io.Writer) OutputFunc {
	return func(string) (io.WriteCloser, error) {
		return nopCloser{w}, nil
	}
}

// DirOutput writes the snapshot of "path/to/name.csv" to "dir/name.accounts.csv"
func DirOutput(dir string) OutputFunc {
	return func(input string) (io.WriteCloser, error) {
		return os.Create(OutputPath(dir, input))
	}
}

// OutputPath names the snapshot file for input inside dir
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".accounts.csv")
}

// ErrOutputCollision means two inputs would write the same snapshot file
var ErrOutputCollision = errors.New("inputs map to the same output file")

// CheckOutputPaths fails when two inputs share an OutputPath in dir, which
// happens for equal base names in different directories or a repeated input.
func CheckOutputPaths(dir string, inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := OutputPath(dir, input)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, prev, input, out)
		}
		seen[out] = input
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// FileProcessor runs one CSV input through its own engine and writes the
// resulting snapshot
type FileProcessor struct {
	engineCfg       engine.Config
	precision       int
	output          OutputFunc
	failureRecorder service.FailureRecorder
	exporter        *SnapshotExporter
	logger          *slog.Logger
}

func NewFileProcessor(
	engineCfg engine.Config,
	precision int,
	output OutputFunc,
	failureRecorder service.FailureRecorder,
	exporter *SnapshotExporter,
	logger *slog.Logger,
) *FileProcessor {
	return &FileProcessor{
		engineCfg:       engineCfg,
		precision:       precision,
		output:          output,
		failureRecorder: failureRecorder,
		exporter:        exporter,
		logger:          logger,
	}
}

// Process satisfies service.InputProcessor
func (p *FileProcessor) Process(ctx context.Context, input string) (service.Summary, error) {
	f, err := os.Open(input)
	if err != nil {
		return service.Summary{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return p.ProcessReader(ctx, input, f)
}

// ProcessReader folds r, writes the snapshot and exports it when an exporter
// is configured
func (p *FileProcessor) ProcessReader(ctx context.Context, input string, r io.Reader) (service.Summary, error) {
	logger := p.logger.With("input", input)
	eng := engine.New(p.engineCfg)
	svc := service.NewProcessingService(eng, p.failureRecorder, uuid.New(), logger)

	if err := svc.Consume(ctx, csvio.NewReader(r)); err != nil {
		return svc.Summary(), fmt.Errorf("failed to process %s: %w", input, err)
	}

	accounts := eng.Accounts()
	if err := p.writeSnapshot(input, accounts); err != nil {
		return svc.Summary(), err
	}

	if p.exporter != nil {
		if err := p.exporter.Export(ctx, svc.RunID(), accounts); err != nil {
			return svc.Summary(), fmt.Errorf("failed to export snapshot for %s: %w", input, err)
		}
	}

	summary := svc.Summary()
	logger.Info("Run complete", summary.LogArgs()...)
	return summary, nil
}

func (p *FileProcessor) writeSnapshot(input string, accounts []account.Account) (err error) {
	w, err := p.output(input)
	if err != nil {
		return fmt.Errorf("failed to open output for %s: %w", input, err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output for %s: %w", input, closeErr)
		}
	}()

	if err := csvio.NewWriter(w, p.precision).WriteAccounts(accounts); err != nil {
		return fmt.Errorf("failed to write snapshot for %s: %w", input, err)
	}
	return nil
}
