package model

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLocalNameAndPrefix(t *testing.T) {
	tests := []struct {
		concept, local, prefix string
	}{
		{"ifrs-full:Assets", "Assets", "ifrs-full"},
		{"dart:OperatingIncomeLoss", "OperatingIncomeLoss", "dart"},
		{"Assets", "Assets", ""},
		{"trailing:", "trailing:", "trailing"},
	}
	for _, tt := range tests {
		if got := LocalName(tt.concept); got != tt.local {
			t.Errorf("LocalName(%q) = %q, want %q", tt.concept, got, tt.local)
		}
		if got := Prefix(tt.concept); got != tt.prefix {
			t.Errorf("Prefix(%q) = %q, want %q", tt.concept, got, tt.prefix)
		}
	}
}

func TestContextScope(t *testing.T) {
	c := Context{}
	if c.Scope() != ScopeConsolidated {
		t.Errorf("expected consolidated without axis, got %s", c.Scope())
	}

	c.Dimensions = []Member{{Dimension: ConsolidationAxis, Value: SeparateMember}}
	if c.Scope() != ScopeSeparate {
		t.Errorf("expected separate, got %s", c.Scope())
	}
	if len(c.ExtraDimensions()) != 0 {
		t.Error("expected consolidation axis to be excluded from extra dimensions")
	}

	c.Dimensions = append(c.Dimensions, Member{Dimension: "ifrs-full:SegmentsAxis", Value: "x:Member"})
	if len(c.ExtraDimensions()) != 1 {
		t.Errorf("expected 1 extra dimension, got %d", len(c.ExtraDimensions()))
	}
	if ScopeConsolidated.Rank() >= ScopeSeparate.Rank() {
		t.Error("expected consolidated to rank before separate")
	}
}

func TestPeriod(t *testing.T) {
	inst := InstantPeriod(day("2025-06-30"))
	if inst.String() != "2025-06-30" || inst.Months() != 0 {
		t.Errorf("unexpected instant %s %d", inst, inst.Months())
	}

	tests := []struct {
		start, end string
		months     int
	}{
		{"2025-04-01", "2025-06-30", 3},
		{"2025-01-01", "2025-06-30", 6},
		{"2024-07-01", "2025-06-30", 12},
	}
	for _, tt := range tests {
		p := DurationPeriod(day(tt.start), day(tt.end))
		if p.Months() != tt.months {
			t.Errorf("%s: expected %d months, got %d", p, tt.months, p.Months())
		}
		if p.String() != tt.start+"~"+tt.end {
			t.Errorf("unexpected string %s", p)
		}
	}
}

func TestLabels(t *testing.T) {
	l := make(Labels)
	l.Add("ifrs-full:Assets", "ko", RoleTotalLabel, "자산 합계")
	if got, _ := l.Get("ifrs-full:Assets", "ko"); got != "자산 합계" {
		t.Errorf("expected non-standard role fallback, got %s", got)
	}

	l.Add("ifrs-full:Assets", "ko", "", "자산총계")
	if got, _ := l.Get("ifrs-full:Assets", "ko"); got != "자산총계" {
		t.Errorf("expected standard role to win, got %s", got)
	}

	if _, ok := l.Get("ifrs-full:Assets", "en"); ok {
		t.Error("expected no en label")
	}
	if got := l.Resolve("ifrs-full:Assets", "en"); got != "Assets" {
		t.Errorf("expected local name fallback, got %s", got)
	}
}

func TestRowKeysAndRenumber(t *testing.T) {
	p := InstantPeriod(day("2025-06-30"))
	a := PivotRow{ConceptID: "ifrs-full:Assets", Period: p, Scope: ScopeConsolidated}
	b := a
	b.LabelKo = "different label"
	if a.Key() != b.Key() {
		t.Error("expected labels not to affect the key")
	}
	b.Scope = ScopeSeparate
	if a.Key() == b.Key() || a.Slice() == b.Slice() {
		t.Error("expected scope to distinguish keys and slices")
	}

	rows := []PivotRow{{Order: 7}, {Order: 3}, {Order: 9}}
	Renumber(rows)
	for i, r := range rows {
		if r.Order != i+1 {
			t.Errorf("expected order %d, got %d", i+1, r.Order)
		}
	}
}

func TestStatementReportName(t *testing.T) {
	if BalanceSheet.ReportName() != "재무상태표" || IncomeStatement.ReportName() != "포괄손익계산서" {
		t.Error("unexpected report names")
	}
}

func TestErrors(t *testing.T) {
	cause := fmt.Errorf("XML syntax error on line 1")
	var err error = &MalformedInputError{Document: "a.xbrl", Reason: "document is not well-formed", Err: cause}
	if got := err.Error(); got != "malformed input a.xbrl: document is not well-formed: XML syntax error on line 1" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}

	wrapped := fmt.Errorf("process: %w", &RunMetadataError{Field: "corp_code", Reason: "missing"})
	var rm *RunMetadataError
	if !errors.As(wrapped, &rm) || rm.Field != "corp_code" {
		t.Error("expected RunMetadataError through wrapping")
	}
	if (&SchemaMismatchError{Reason: "x"}).Error() != "schema mismatch: x" {
		t.Error("unexpected schema mismatch message")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Pipeline.PeriodFilter || cfg.Pipeline.TotalTolerance != "1" || cfg.Pipeline.FiscalYearEndMonth != 12 {
		t.Errorf("unexpected pipeline defaults %+v", cfg.Pipeline)
	}
	if len(cfg.Pipeline.Locales) != 2 || cfg.Pipeline.Locales[0] != "ko" || cfg.Pipeline.Locales[1] != "en" {
		t.Errorf("unexpected default locales %v", cfg.Pipeline.Locales)
	}
	if cfg.Directory.UserAgent != "dartxbrl/"+Version {
		t.Errorf("unexpected user agent %s", cfg.Directory.UserAgent)
	}
}
