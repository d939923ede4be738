package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar date layout used by XBRL periods and output columns
const DateLayout = "2006-01-02"

// Consolidation axis and members (ifrs-full taxonomy)
const (
	ConsolidationAxis  = "ifrs-full:ConsolidatedAndSeparateFinancialStatementsAxis"
	ConsolidatedMember = "ifrs-full:ConsolidatedMember"
	SeparateMember     = "ifrs-full:SeparateMember"
)

// Fact is one reported value tagged with a concept and a context
type Fact struct {
	Concept    string // Namespaced concept id (e.g., "ifrs-full:Assets")
	ContextRef string // Reference to Context.ID
	Value      string // Raw value as reported (trimmed)
	UnitRef    string // Reference to a unit (numeric facts only)
	Decimals   string // Precision hint ("-6", "0", "INF")
	Nil        bool   // xsi:nil="true"
}

// LocalName returns the concept name without its namespace prefix
func (f Fact) LocalName() string {
	return LocalName(f.Concept)
}

// LocalName returns the last segment of a namespaced concept id
func LocalName(concept string) string {
	if i := strings.LastIndex(concept, ":"); i >= 0 && i < len(concept)-1 {
		return concept[i+1:]
	}
	return concept
}

// Prefix returns the namespace prefix of a concept id ("" if none)
func Prefix(concept string) string {
	if i := strings.Index(concept, ":"); i > 0 {
		return concept[:i]
	}
	return ""
}

// Member is one dimension-member pair of a context
type Member struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
	Typed     bool   `json:"typed,omitempty"`
}

// Context defines the reporting scope of one or more facts
type Context struct {
	ID           string
	EntityScheme string
	EntityID     string
	Period       Period
	Dimensions   []Member
}

// Scope derives the consolidation scope from the context dimensions.
// Contexts without the consolidation axis are consolidated.
func (c Context) Scope() Scope {
	for _, m := range c.Dimensions {
		if m.Dimension == ConsolidationAxis && m.Value == SeparateMember {
			return ScopeSeparate
		}
	}
	return ScopeConsolidated
}

// ExtraDimensions returns the dimensions other than the consolidation axis
func (c Context) ExtraDimensions() []Member {
	var extra []Member
	for _, m := range c.Dimensions {
		if m.Dimension == ConsolidationAxis {
			continue
		}
		extra = append(extra, m)
	}
	return extra
}

// Period is either an instant (End only) or a start/end duration
type Period struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Instant bool      `json:"instant"`
}

// InstantPeriod builds an instant period
func InstantPeriod(t time.Time) Period {
	return Period{End: t, Instant: true}
}

// DurationPeriod builds a start/end period
func DurationPeriod(start, end time.Time) Period {
	return Period{Start: start, End: end}
}

// String renders "2025-06-30" or "2025-01-01~2025-06-30"
func (p Period) String() string {
	if p.Instant || p.Start.IsZero() {
		return p.End.Format(DateLayout)
	}
	return p.Start.Format(DateLayout) + "~" + p.End.Format(DateLayout)
}

// Months returns the number of calendar months a duration spans (inclusive).
// Instants span zero months.
func (p Period) Months() int {
	if p.Instant || p.Start.IsZero() {
		return 0
	}
	return (p.End.Year()-p.Start.Year())*12 + int(p.End.Month()-p.Start.Month()) + 1
}

// Scope is the consolidation scope of a reported figure
type Scope string

const (
	ScopeConsolidated Scope = "연결"
	ScopeSeparate     Scope = "별도"
)

// Rank orders consolidated figures before separate ones
func (s Scope) Rank() int {
	if s == ScopeSeparate {
		return 1
	}
	return 0
}
