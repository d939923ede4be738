// Package pipeline runs the extraction stages over one filing.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/assemble"
	"github.com/ppiankov/dartxbrl/internal/directory"
	"github.com/ppiankov/dartxbrl/internal/hierarchy"
	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/period"
	"github.com/ppiankov/dartxbrl/internal/pivot"
	"github.com/ppiankov/dartxbrl/internal/sink"
	"github.com/ppiankov/dartxbrl/internal/statement"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Pipeline orchestrates the extraction of both statements from one filing
type Pipeline struct {
	config    *model.Config
	assembler *assemble.Assembler
	repair    hierarchy.Options
	period    period.Options
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a pipeline. The config is read once; later edits are ignored.
func New(cfg *model.Config, resolver directory.Resolver, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	logger = logging.OrNop(logger)

	repair := hierarchy.DefaultOptions()
	if cfg.Pipeline.TotalTolerance != "" {
		tol, err := hierarchy.ParseTolerance(cfg.Pipeline.TotalTolerance)
		if err != nil {
			return nil, err
		}
		repair.Tolerance = tol
	}

	month := time.Month(cfg.Pipeline.FiscalYearEndMonth)
	if month < time.January || month > time.December {
		return nil, eris.Errorf("fiscal_year_end_month must be 1-12, got %d", cfg.Pipeline.FiscalYearEndMonth)
	}

	return &Pipeline{
		config:    cfg,
		assembler: assemble.New(resolver, cfg.Pipeline.StrictEmpty, logger),
		repair:    repair,
		period:    period.Options{Enabled: cfg.Pipeline.PeriodFilter, FiscalYearEndMonth: month},
		logger:    logger,
		now:       time.Now,
	}, nil
}

// WithClock replaces the processing-time source
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	p.assembler.WithClock(now)
	return p
}

// Result is the output of one processed filing
type Result struct {
	RunID       string
	EntityCode  string
	EntityName  string
	ReportDate  time.Time
	ReceiptDate time.Time
	Rows        []model.PivotRow // Balance sheet rows, then income statement rows
	Diagnostics []model.Diagnostic
	Partition   sink.PartitionKey
	Elapsed     time.Duration
}

// Count returns the number of rows of one statement
func (r *Result) Count(typ model.StatementType) int {
	n := 0
	for _, row := range r.Rows {
		if row.Statement == typ {
			n++
		}
	}
	return n
}

// Process loads the package and runs select, pivot, repair, period filter
// and assembly for the balance sheet and then the income statement
func (p *Pipeline) Process(ctx context.Context, doc Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := p.now()

	g, err := xbrl.Load(doc.Package)
	if err != nil {
		return nil, err
	}

	reportDate, err := doc.resolveReportDate(g)
	if err != nil {
		return nil, err
	}

	run, diags, err := p.assembler.Begin(ctx, g, doc.FileName, doc.EntityCode, reportDate)
	if err != nil {
		return nil, err
	}

	receiptDate := doc.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = start
	}
	receiptYMD := receiptDate.Format(model.DateLayout)

	result := &Result{
		RunID:       uuid.NewString(),
		EntityCode:  run.EntityCode,
		EntityName:  run.EntityName,
		ReportDate:  reportDate,
		ReceiptDate: receiptDate,
		Partition:   sink.KeyFor(reportDate),
	}
	result.Diagnostics = append(result.Diagnostics, diags...)

	sums := hierarchy.NewSums(g.Calculation)
	for i, typ := range model.StatementTypes {
		sel := statement.Select(g, typ)
		if i == 0 {
			result.Diagnostics = append(result.Diagnostics, sel.UnreachedDiagnostics()...)
		}

		rows, d := pivot.Transform(sel, g, p.config.Pipeline.Locales)
		result.Diagnostics = append(result.Diagnostics, d...)
		pivoted := len(rows)

		rows, d = hierarchy.Repair(rows, sums, p.repair)
		result.Diagnostics = append(result.Diagnostics, d...)
		repaired := len(rows)

		rows, d = period.Filter(rows, reportDate, typ, p.period)
		result.Diagnostics = append(result.Diagnostics, d...)

		rows, d, err = p.assembler.Assemble(run, typ, rows)
		if err != nil {
			return nil, err
		}
		result.Diagnostics = append(result.Diagnostics, d...)
		for j := range rows {
			rows[j].ReceiptDate = receiptYMD
		}
		result.Rows = append(result.Rows, rows...)

		p.logger.Debug("statement extracted",
			zap.String("run_id", result.RunID),
			zap.String("statement", string(typ)),
			zap.Int("facts", len(sel.Facts)),
			zap.Int("pivoted", pivoted),
			zap.Int("repaired", repaired),
			zap.Int("rows", len(rows)))
	}

	result.Elapsed = p.now().Sub(start)
	p.logger.Info("filing processed",
		zap.String("run_id", result.RunID),
		zap.String("corp_code", result.EntityCode),
		zap.String("report_date", reportDate.Format(model.DateLayout)),
		zap.String("receipt_date", receiptYMD),
		zap.Int("rows", len(result.Rows)),
		zap.Int("diagnostics", len(result.Diagnostics)))
	return result, nil
}
