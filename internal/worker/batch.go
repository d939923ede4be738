package worker

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FileProcessor turns one filing package into output rows
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*FileResult, error)
}

// FileResult summarizes one processed package
type FileResult struct {
	Path        string
	RunID       string
	EntityCode  string
	Rows        int
	Diagnostics int
	Output      string
	Elapsed     time.Duration
	Error       error
}

// GetError returns the processing error, if any
func (r *FileResult) GetError() error {
	return r.Error
}

// FileJob processes one package path
type FileJob struct {
	Path      string
	Processor FileProcessor
}

// Execute runs the processor; a failure is carried in the result
func (j *FileJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res, err := j.Processor.ProcessFile(ctx, j.Path)
	if res == nil {
		res = &FileResult{}
	}
	res.Path = j.Path
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Error = err
	}
	return res
}

// BatchProcessor processes many packages with a worker pool.
// Files are independent: one failure never aborts the batch.
type BatchProcessor struct {
	processor   FileProcessor
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor FileProcessor, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{processor: processor, concurrency: concurrency, logger: logger}
}

// ProcessPaths processes every path and returns one result per path,
// in input order. Paths not reached before ctx is done carry its error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, p := range paths {
		if !pool.Submit(&FileJob{Path: p, Processor: b.processor}) {
			break
		}
	}
	results := pool.Wait()

	out := make([]*FileResult, 0, len(paths))
	for i, path := range paths {
		var fr *FileResult
		if i < len(results) && results[i] != nil {
			fr = results[i].(*FileResult)
		} else {
			fr = &FileResult{Path: path, Error: skippedError(ctx)}
		}
		if fr.Error != nil {
			b.logger.Warn("package failed", zap.String("path", fr.Path), zap.Error(fr.Error))
		} else {
			b.logger.Info("package processed",
				zap.String("path", fr.Path),
				zap.String("run_id", fr.RunID),
				zap.Int("rows", fr.Rows),
				zap.Duration("elapsed", fr.Elapsed))
		}
		out = append(out, fr)
	}
	return out
}

func skippedError(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	return eris.Wrap(err, "not processed")
}

// ProcessList reads package paths from a list file and processes them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathList(listPath)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathList reads one path per line, skipping blanks, comments and duplicates
func ReadPathList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, eris.Wrapf(err, "open path list %s", listPath)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read path list %s", listPath)
	}
	return paths, nil
}

// Summary counts successes and failures
func Summary(results []*FileResult) (ok, failed, rows int) {
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		ok++
		rows += r.Rows
	}
	return ok, failed, rows
}
