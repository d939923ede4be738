// Package hierarchy removes roll-up total rows that duplicate their
// children, normalizes classification paths and re-densifies order.
package hierarchy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// Stage is the diagnostic stage name
const Stage = "repair"

// Options control total reconciliation
type Options struct {
	// Maximum absolute difference between a total and its children
	Tolerance decimal.Decimal
}

// DefaultOptions uses a tolerance of one currency unit
func DefaultOptions() Options {
	return Options{Tolerance: decimal.NewFromInt(1)}
}

// ParseTolerance reads a tolerance setting, falling back to the default
func ParseTolerance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultOptions().Tolerance, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid total tolerance %q: %w", s, err)
	}
	return d.Abs(), nil
}

// IsTotal reports whether a row's label denotes an aggregate.
// A Korean label decides on its own; the English "Total" prefix only
// counts when the concept has no Korean label.
func IsTotal(r model.PivotRow) bool {
	ko := strings.TrimSpace(r.LabelKo)
	if hasHangul(ko) {
		return strings.HasSuffix(ko, "총계") || strings.HasSuffix(ko, "합계")
	}
	return strings.HasPrefix(strings.TrimSpace(r.LabelEn), "Total")
}

func hasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// Repair returns a new row slice without reconciled totals.
// Every total is evaluated against the rows as they were before repair,
// so removing one total never affects another's reconciliation.
// Amounts are never modified.
func Repair(rows []model.PivotRow, sums Sums, opts Options) ([]model.PivotRow, []model.Diagnostic) {
	idx := newIndex(rows)
	var diags []model.Diagnostic

	out := make([]model.PivotRow, 0, len(rows))
	for _, r := range rows {
		if IsTotal(r) {
			if sum, basis, ok := idx.childSum(r, sums); ok {
				diff := r.Amount.Sub(sum).Abs()
				d := model.Diagnostic{Stage: Stage, Statement: r.Statement, Concept: r.ConceptID}
				if diff.LessThanOrEqual(opts.Tolerance) {
					d.Kind = model.DiagTotalRemoved
					d.Detail = fmt.Sprintf("%s %s: %s equals %s sum", r.Scope, r.Period, r.Amount, basis)
					diags = append(diags, d)
					continue
				}
				d.Kind = model.DiagTotalMismatch
				d.Detail = fmt.Sprintf("%s %s: %s differs from %s sum %s by %s", r.Scope, r.Period, r.Amount, basis, sum, diff)
				diags = append(diags, d)
			}
		}
		r.Class, r.ClassID = normalizeClass(r.Class, r.ClassID)
		out = append(out, r)
	}

	model.Renumber(out)
	return out, diags
}

type index struct {
	byKey   map[model.RowKey]model.PivotRow
	bySlice map[model.SliceKey][]model.PivotRow
}

func newIndex(rows []model.PivotRow) *index {
	idx := &index{
		byKey:   make(map[model.RowKey]model.PivotRow, len(rows)),
		bySlice: make(map[model.SliceKey][]model.PivotRow),
	}
	for _, r := range rows {
		idx.byKey[r.Key()] = r
		idx.bySlice[r.Slice()] = append(idx.bySlice[r.Slice()], r)
	}
	return idx
}

// childSum picks the children of a total within its (period, scope) slice:
// calculation components first, then presentation children, then non-total
// siblings on the balance sheet. ok is false when the total has no children.
func (idx *index) childSum(total model.PivotRow, sums Sums) (decimal.Decimal, string, bool) {
	if comps := sums[total.ConceptID]; len(comps) > 0 {
		sum := decimal.Zero
		present := 0
		for _, c := range comps {
			key := model.RowKey{ConceptID: c.Concept, Period: total.Period, Scope: total.Scope}
			child, ok := idx.byKey[key]
			if !ok {
				continue
			}
			present++
			sum = sum.Add(child.Amount.Mul(c.Weight))
		}
		if present > 0 {
			return sum, "calculation", true
		}
	}

	slice := idx.bySlice[total.Slice()]

	sum, n := decimal.Zero, 0
	for _, r := range slice {
		if r.ParentID == total.ConceptID {
			sum = sum.Add(r.Amount)
			n++
		}
	}
	if n > 0 {
		return sum, "children", true
	}

	// income statement siblings are successive subtotals, not components
	if total.ParentID == "" || total.Statement != model.BalanceSheet {
		return decimal.Zero, "", false
	}
	for _, r := range slice {
		if r.ParentID == total.ParentID && r.ConceptID != total.ConceptID && !IsTotal(r) {
			sum = sum.Add(r.Amount)
			n++
		}
	}
	if n > 0 {
		return sum, "sibling", true
	}
	return decimal.Zero, "", false
}
