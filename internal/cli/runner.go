package cli

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/directory"
	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/pipeline"
	"github.com/ppiankov/dartxbrl/internal/sink"
	"github.com/ppiankov/dartxbrl/internal/worker"
)

// runner processes one filing end to end and writes it to the sink.
// It is the worker.FileProcessor behind process, batch and schedule.
type runner struct {
	pipeline *pipeline.Pipeline
	fetcher  *pipeline.Fetcher
	sink     sink.Sink
	logger   *zap.Logger

	// per-invocation overrides, only meaningful for a single filing
	reportDate  time.Time
	reportName  string
	corpCode    string
	receiptDate time.Time
}

// newRunner wires directory, pipeline, fetcher and sinks from the config
func newRunner(cfg *model.Config, logger *zap.Logger) (*runner, error) {
	logger = logging.OrNop(logger)
	resolver, err := directory.FromConfig(cfg.Directory, logger)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(cfg, resolver, logger)
	if err != nil {
		return nil, err
	}
	fetcher, err := pipeline.NewFetcher(cfg.Fetch, cfg.Directory, logger)
	if err != nil {
		return nil, err
	}

	var out sink.Sink = &sink.ParquetSink{Dir: cfg.Output.Dir}
	if cfg.Output.JSON {
		out = sink.Multi{out, &sink.JSONSink{Dir: cfg.Output.Dir}}
	}

	return &runner{pipeline: p, fetcher: fetcher, sink: out, logger: logger}, nil
}

func (r *runner) open(ctx context.Context, path string) (pipeline.Document, error) {
	if pipeline.IsRemote(path) {
		return r.fetcher.FetchDocument(ctx, path)
	}
	return pipeline.OpenDocument(path)
}

// run processes one filing and returns the result and the written path
func (r *runner) run(ctx context.Context, path string) (*pipeline.Result, string, error) {
	doc, err := r.open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	doc.ReportDate = r.reportDate
	doc.ReportName = r.reportName
	doc.EntityCode = r.corpCode
	if !r.receiptDate.IsZero() {
		doc.ReceiptDate = r.receiptDate
	}
	if doc.ReportName == "" {
		doc.ReportName = filepath.Base(path)
	}

	res, err := r.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, "", err
	}

	for _, d := range res.Diagnostics {
		r.logger.Debug("diagnostic",
			zap.String("run_id", res.RunID),
			zap.String("stage", d.Stage),
			zap.String("kind", string(d.Kind)),
			zap.String("concept", d.Concept),
			zap.String("detail", d.Detail))
	}

	output, err := r.sink.Write(ctx, res.Partition, res.EntityCode, res.Rows)
	if err != nil {
		return nil, "", err
	}
	if output == "" {
		r.logger.Warn("no rows to write",
			zap.String("run_id", res.RunID),
			zap.String("corp_code", res.EntityCode),
			zap.String("path", path))
	}
	return res, output, nil
}

// ProcessFile implements worker.FileProcessor
func (r *runner) ProcessFile(ctx context.Context, path string) (*worker.FileResult, error) {
	res, output, err := r.run(ctx, path)
	if err != nil {
		return nil, err
	}
	return &worker.FileResult{
		RunID:       res.RunID,
		EntityCode:  res.EntityCode,
		Rows:        len(res.Rows),
		Diagnostics: len(res.Diagnostics),
		Output:      output,
	}, nil
}

// runBatchOnce discovers filings under dir (or reads them from list) and
// processes them with the worker pool
func runBatchOnce(ctx context.Context, r *runner, dir, list string, workers int, logger *zap.Logger) ([]*worker.FileResult, error) {
	batch := worker.NewBatchProcessor(r, workers, logger)
	if list != "" {
		return batch.ProcessList(ctx, list)
	}
	paths, err := pipeline.Discover(dir)
	if err != nil {
		return nil, err
	}
	return batch.ProcessPaths(ctx, paths), nil
}
