package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementType identifies one of the two extracted statements
type StatementType string

const (
	BalanceSheet    StatementType = "BS"
	IncomeStatement StatementType = "CIS"
)

// StatementTypes lists the extracted statements in output order
var StatementTypes = []StatementType{BalanceSheet, IncomeStatement}

// ReportName returns the Korean statement name used in the output column
func (t StatementType) ReportName() string {
	switch t {
	case BalanceSheet:
		return "재무상태표"
	case IncomeStatement:
		return "포괄손익계산서"
	default:
		return string(t)
	}
}

// ClassLevels is the maximum depth of a classification path
const ClassLevels = 3

// PivotRow is one line item for one period and consolidation scope
type PivotRow struct {
	Order     int                 `json:"order_no"`
	ConceptID string              `json:"concept_id"`
	LabelKo   string              `json:"label_ko"`
	LabelEn   string              `json:"label_en"`
	Class     [ClassLevels]string `json:"class"`
	ClassID   [ClassLevels]string `json:"class_id"` // Concept ids behind Class
	Scope     Scope               `json:"fs_type"`
	Period    Period              `json:"period"`
	Amount    decimal.Decimal     `json:"amount"`

	// Presentation position, used by hierarchy repair
	ParentID string `json:"parent_id,omitempty"`
	Depth    int    `json:"depth"`

	// Run metadata attached by the assembler
	EntityCode  string        `json:"corp_code,omitempty"`
	EntityName  string        `json:"corp_name,omitempty"`
	Statement   StatementType `json:"report_type,omitempty"`
	Year        string        `json:"yyyy,omitempty"`
	Month       string        `json:"month,omitempty"`
	ReceiptDate string        `json:"receipt_ymd,omitempty"` // Filing receipt date, YYYY-MM-DD
	ProcessedAt time.Time     `json:"crawl_time,omitempty"`
}

// RowKey is the uniqueness key of a row within one statement
type RowKey struct {
	ConceptID string
	Period    Period
	Scope     Scope
}

// Key returns the uniqueness key of the row
func (r PivotRow) Key() RowKey {
	return RowKey{ConceptID: r.ConceptID, Period: r.Period, Scope: r.Scope}
}

// SliceKey identifies the (period, scope) slice a row belongs to
type SliceKey struct {
	Period Period
	Scope  Scope
}

// Slice returns the (period, scope) slice of the row
func (r PivotRow) Slice() SliceKey {
	return SliceKey{Period: r.Period, Scope: r.Scope}
}

// Renumber assigns dense order indices 1..N in slice order
func Renumber(rows []PivotRow) {
	for i := range rows {
		rows[i].Order = i + 1
	}
}

// DiagnosticKind classifies a non-fatal anomaly
type DiagnosticKind string

const (
	DiagNonNumeric     DiagnosticKind = "non_numeric"
	DiagUnreachable    DiagnosticKind = "unreachable"
	DiagDimensional    DiagnosticKind = "dimensional"
	DiagDuplicate      DiagnosticKind = "duplicate"
	DiagTotalMismatch  DiagnosticKind = "total_mismatch"
	DiagTotalRemoved   DiagnosticKind = "total_removed"
	DiagPeriodFiltered DiagnosticKind = "period_filtered"
	DiagEntityFallback DiagnosticKind = "entity_fallback"
	DiagEmptyStatement DiagnosticKind = "empty_statement"
)

// Diagnostic is a non-fatal warning surfaced alongside successful output
type Diagnostic struct {
	Stage     string         `json:"stage"`
	Kind      DiagnosticKind `json:"kind"`
	Statement StatementType  `json:"statement,omitempty"`
	Concept   string         `json:"concept,omitempty"`
	Detail    string         `json:"detail"`
}
