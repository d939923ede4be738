// Package statement picks the balance sheet and income statement subsets
// out of a fact graph by walking its presentation networks.
package statement

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Stage is the diagnostic stage name
const Stage = "select"

var roleCodePattern = regexp.MustCompile(`role-D(\d)\d{5}`)

// Selection is the statement-relevant subset of a graph
type Selection struct {
	Type    model.StatementType
	Facts   []model.Fact
	Outline *Outline

	// Statement-namespace facts reached by neither statement type
	Unreached []model.Fact
}

// Classify decides which statement a presentation network belongs to.
// The root concept wins over the DART role code.
func Classify(net xbrl.Network) (model.StatementType, bool) {
	for _, root := range Roots(net) {
		switch model.LocalName(root) {
		case "StatementOfFinancialPositionAbstract":
			return model.BalanceSheet, true
		case "IncomeStatementAbstract", "StatementOfComprehensiveIncomeAbstract":
			return model.IncomeStatement, true
		}
	}

	m := roleCodePattern.FindStringSubmatch(net.Role)
	if m == nil {
		return "", false
	}
	switch m[1] {
	case "2":
		return model.BalanceSheet, true
	case "3", "4":
		return model.IncomeStatement, true
	}
	return "", false
}

// BuildOutline walks every network of the given type in role order
func BuildOutline(g *xbrl.Graph, typ model.StatementType) *Outline {
	o := newOutline()
	for _, net := range g.Presentation {
		if t, ok := Classify(net); ok && t == typ {
			o.walk(net)
		}
	}
	return o
}

// Select returns the facts of one statement type.
// A concept reached by both statement types appears in both selections.
// A missing statement yields an empty selection, not an error.
func Select(g *xbrl.Graph, typ model.StatementType) Selection {
	outlines := make(map[model.StatementType]*Outline, len(model.StatementTypes))
	for _, t := range model.StatementTypes {
		outlines[t] = BuildOutline(g, t)
	}

	sel := Selection{Type: typ, Outline: outlines[typ]}
	for _, f := range g.Facts {
		if sel.Outline.Contains(f.Concept) {
			sel.Facts = append(sel.Facts, f)
			continue
		}
		if !xbrl.IsStatementNamespace(f.Concept) {
			continue
		}
		reached := false
		for _, o := range outlines {
			if o.Contains(f.Concept) {
				reached = true
				break
			}
		}
		if !reached {
			sel.Unreached = append(sel.Unreached, f)
		}
	}
	return sel
}

// UnreachedDiagnostics reports each unreached concept once
func (s Selection) UnreachedDiagnostics() []model.Diagnostic {
	counts := make(map[string]int)
	for _, f := range s.Unreached {
		counts[f.Concept]++
	}
	concepts := make([]string, 0, len(counts))
	for c := range counts {
		concepts = append(concepts, c)
	}
	sort.Strings(concepts)

	diags := make([]model.Diagnostic, 0, len(concepts))
	for _, c := range concepts {
		diags = append(diags, model.Diagnostic{
			Stage:   Stage,
			Kind:    model.DiagUnreachable,
			Concept: c,
			Detail:  fmt.Sprintf("%d fact(s) not reached by any statement network", counts[c]),
		})
	}
	return diags
}
