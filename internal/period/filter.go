// Package period drops comparative periods that are not relevant to the
// report being processed.
package period

import (
	"fmt"
	"time"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// Stage is the diagnostic stage name
const Stage = "period"

// Options configure the filter
type Options struct {
	Enabled            bool
	FiscalYearEndMonth time.Month
}

// DefaultOptions filters with a December fiscal year end
func DefaultOptions() Options {
	return Options{Enabled: true, FiscalYearEndMonth: time.December}
}

// PriorYearEnd returns the last fiscal year end strictly before date
func PriorYearEnd(date time.Time, endMonth time.Month) time.Time {
	if endMonth < time.January || endMonth > time.December {
		endMonth = time.December
	}
	end := monthEnd(date.Year(), endMonth, date.Location())
	if !end.Before(date) {
		end = monthEnd(date.Year()-1, endMonth, date.Location())
	}
	return end
}

// FiscalYearStart returns the first day of the fiscal year containing date
func FiscalYearStart(date time.Time, endMonth time.Month) time.Time {
	return PriorYearEnd(date, endMonth).AddDate(0, 0, 1)
}

func monthEnd(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// Filter keeps, for the balance sheet, the reporting instant and the prior
// fiscal year end; for the income statement, periods ending in the current
// fiscal year. When disabled the rows are returned unchanged.
func Filter(rows []model.PivotRow, reportDate time.Time, typ model.StatementType, opts Options) ([]model.PivotRow, []model.Diagnostic) {
	if !opts.Enabled {
		return rows, nil
	}

	reportDate = day(reportDate)
	priorEnd := PriorYearEnd(reportDate, opts.FiscalYearEndMonth)
	fyStart := priorEnd.AddDate(0, 0, 1)

	keep := func(p model.Period) bool {
		end := day(p.End)
		if typ == model.BalanceSheet {
			return end.Equal(reportDate) || end.Equal(priorEnd)
		}
		return !end.Before(fyStart)
	}

	out := make([]model.PivotRow, 0, len(rows))
	dropped := make(map[string]int)
	var order []string
	for _, r := range rows {
		if keep(r.Period) {
			out = append(out, r)
			continue
		}
		p := r.Period.String()
		if dropped[p] == 0 {
			order = append(order, p)
		}
		dropped[p]++
	}

	if len(out) == len(rows) {
		return out, nil
	}
	model.Renumber(out)

	diags := make([]model.Diagnostic, 0, len(order))
	for _, p := range order {
		diags = append(diags, model.Diagnostic{
			Stage:     Stage,
			Kind:      model.DiagPeriodFiltered,
			Statement: typ,
			Detail:    fmt.Sprintf("dropped %d row(s) for period %s (report date %s)", dropped[p], p, reportDate.Format(model.DateLayout)),
		})
	}
	return out, diags
}

// day truncates to a UTC calendar date
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
