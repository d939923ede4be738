// Package sink writes finalized rows to partitioned files.
package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// Sink persists the rows of one processed filing and returns the written
// path. An empty row set writes nothing and returns "".
type Sink interface {
	Write(ctx context.Context, key PartitionKey, corpCode string, rows []model.PivotRow) (string, error)
}

// PartitionKey is the (year, month) partition of the reporting date
type PartitionKey struct {
	Year  string
	Month string
}

// KeyFor derives the partition key from a reporting date
func KeyFor(reportDate time.Time) PartitionKey {
	return PartitionKey{
		Year:  fmt.Sprintf("%04d", reportDate.Year()),
		Month: fmt.Sprintf("%02d", int(reportDate.Month())),
	}
}

// Path returns the hive-style partition directory "year=2025/mm=06"
func (k PartitionKey) Path() string {
	return filepath.Join("year="+k.Year, "mm="+k.Month)
}

// FileName returns "FS_<corp>_<YYYYMM>" plus ext
func (k PartitionKey) FileName(corp, ext string) string {
	return fmt.Sprintf("FS_%s_%s%s%s", corp, k.Year, k.Month, ext)
}

// PeriodLabel classifies a row's period: 당기 for balance sheet instants,
// 3개월 for quarter-length durations and 누적 for longer ones
func PeriodLabel(r model.PivotRow) string {
	if r.Period.Instant || r.Statement == model.BalanceSheet {
		return "당기"
	}
	if r.Period.Months() <= 3 {
		return "3개월"
	}
	return "누적"
}

// checkWrite reports whether a write should proceed
func checkWrite(ctx context.Context, corpCode string, rows []model.PivotRow) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if corpCode == "" {
		return false, eris.New("corp code is required to name the output file")
	}
	return true, nil
}
