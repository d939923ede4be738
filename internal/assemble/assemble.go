// Package assemble attaches run metadata (entity, timestamp, partition
// fields, statement tag) to finalized rows.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/directory"
	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Stage is the diagnostic stage name
const Stage = "assemble"

var fileEntityPattern = regexp.MustCompile(`entity(\d{8})`)

// Run is the metadata shared by every row of one processed file
type Run struct {
	EntityCode  string
	EntityName  string
	ReportDate  time.Time
	ProcessedAt time.Time
	Year        string
	Month       string
}

// Assembler finalizes rows. The clock is read once per run.
type Assembler struct {
	resolver directory.Resolver
	strict   bool
	now      func() time.Time
	logger   *zap.Logger
}

// New creates an assembler; strict turns empty statements into errors
func New(resolver directory.Resolver, strict bool, logger *zap.Logger) *Assembler {
	if resolver == nil {
		resolver = directory.Static{}
	}
	return &Assembler{resolver: resolver, strict: strict, now: time.Now, logger: logging.OrNop(logger)}
}

// WithClock replaces the processing-time source
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Begin identifies the entity and captures the processing timestamp.
// supplied overrides the graph; fileName is the last resort.
func (a *Assembler) Begin(ctx context.Context, g *xbrl.Graph, fileName, supplied string, reportDate time.Time) (Run, []model.Diagnostic, error) {
	code, err := EntityCode(g, fileName, supplied)
	if err != nil {
		return Run{}, nil, err
	}

	run := Run{
		EntityCode:  code,
		ReportDate:  reportDate,
		ProcessedAt: a.now(),
		Year:        fmt.Sprintf("%04d", reportDate.Year()),
		Month:       fmt.Sprintf("%02d", int(reportDate.Month())),
	}

	var diags []model.Diagnostic
	name, err := a.resolver.Resolve(ctx, code)
	switch {
	case err == nil && name != "":
		run.EntityName = name
	default:
		run.EntityName = code
		detail := "corp code not in directory, using code as name"
		if err != nil && !errors.Is(err, directory.ErrNotFound) {
			detail = "directory lookup failed, using code as name: " + err.Error()
			a.logger.Warn("directory lookup failed", zap.String("corp_code", code), zap.Error(err))
		}
		diags = append(diags, model.Diagnostic{Stage: Stage, Kind: model.DiagEntityFallback, Concept: code, Detail: detail})
	}
	return run, diags, nil
}

// Assemble stamps run metadata on the rows of one statement
func (a *Assembler) Assemble(run Run, typ model.StatementType, rows []model.PivotRow) ([]model.PivotRow, []model.Diagnostic, error) {
	if len(rows) == 0 {
		if a.strict {
			return nil, nil, &model.SchemaMismatchError{Reason: fmt.Sprintf("statement %s (%s) has no rows", typ, typ.ReportName())}
		}
		return []model.PivotRow{}, []model.Diagnostic{{
			Stage:     Stage,
			Kind:      model.DiagEmptyStatement,
			Statement: typ,
			Detail:    fmt.Sprintf("no %s rows in filing", typ.ReportName()),
		}}, nil
	}

	out := make([]model.PivotRow, len(rows))
	for i, r := range rows {
		r.EntityCode = run.EntityCode
		r.EntityName = run.EntityName
		r.Statement = typ
		r.Year = run.Year
		r.Month = run.Month
		r.ProcessedAt = run.ProcessedAt
		out[i] = r
	}
	return out, nil, nil
}

// EntityCode picks the reporting entity: supplied code, then the single
// context identifier, then the entity######## pattern of the file name
func EntityCode(g *xbrl.Graph, fileName, supplied string) (string, error) {
	if code := strings.TrimSpace(supplied); code != "" {
		if !isDigits(code) {
			return "", &model.RunMetadataError{Field: "corp_code", Reason: fmt.Sprintf("supplied code %q is not numeric", code)}
		}
		return directory.PadCode(code), nil
	}

	if g != nil {
		var numeric []string
		for _, id := range g.EntityCodes() {
			if isDigits(id) {
				numeric = append(numeric, id)
			}
		}
		if len(numeric) == 1 {
			return directory.PadCode(numeric[0]), nil
		}
	}

	names := []string{fileName}
	if g != nil {
		names = append(names, g.InstanceName)
	}
	for _, name := range names {
		if m := fileEntityPattern.FindStringSubmatch(filepath.Base(name)); m != nil {
			return m[1], nil
		}
	}

	return "", &model.RunMetadataError{Field: "corp_code", Reason: "no supplied code, no unique context entity and no entity######## file name"}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
