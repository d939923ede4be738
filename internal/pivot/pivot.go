// Package pivot reshapes a statement's facts into one row per
// (concept, period, consolidation scope).
package pivot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/statement"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Stage is the diagnostic stage name
const Stage = "pivot"

type candidate struct {
	fact   model.Fact
	amount decimal.Decimal
}

// Transform pivots the selected facts into ordered rows.
// locales[0] selects the class path language. LabelKo and LabelEn are
// matched to the configured locales by language code, so their order
// never swaps the label columns.
func Transform(sel statement.Selection, g *xbrl.Graph, locales []string) ([]model.PivotRow, []model.Diagnostic) {
	primary, ko, en := labelLocales(locales)
	var diags []model.Diagnostic
	diag := func(kind model.DiagnosticKind, concept, detail string) {
		diags = append(diags, model.Diagnostic{Stage: Stage, Kind: kind, Statement: sel.Type, Concept: concept, Detail: detail})
	}

	best := make(map[model.RowKey]*candidate)
	var keys []model.RowKey
	firstSeen := make(map[string]int)

	for i, f := range sel.Facts {
		ctx := g.Context(f)
		if extra := ctx.ExtraDimensions(); len(extra) > 0 {
			diag(model.DiagDimensional, f.Concept, fmt.Sprintf("context %s has dimension %s", ctx.ID, extra[0].Dimension))
			continue
		}

		amount, ok := parseAmount(f)
		if !ok {
			diag(model.DiagNonNumeric, f.Concept, fmt.Sprintf("context %s value %q is not numeric", ctx.ID, truncate(f.Value, 40)))
			continue
		}

		if _, seen := firstSeen[f.Concept]; !seen {
			firstSeen[f.Concept] = i
		}

		key := model.RowKey{ConceptID: f.Concept, Period: ctx.Period, Scope: ctx.Scope()}
		cur, exists := best[key]
		if !exists {
			best[key] = &candidate{fact: f, amount: amount}
			keys = append(keys, key)
			continue
		}
		if cur.amount.Equal(amount) {
			continue
		}

		winner := cur.fact
		if prefer(f, cur.fact) {
			winner = f
			cur.fact, cur.amount = f, amount
		}
		diag(model.DiagDuplicate, f.Concept, fmt.Sprintf("%s %s: conflicting values in contexts, kept %s", key.Scope, key.Period, winner.ContextRef))
	}

	position := func(concept string) int {
		if node, ok := sel.Outline.Lookup(concept); ok {
			return node.Position
		}
		return sel.Outline.Len() + firstSeen[concept]
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if pa, pb := position(a.ConceptID), position(b.ConceptID); pa != pb {
			return pa < pb
		}
		if ra, rb := a.Scope.Rank(), b.Scope.Rank(); ra != rb {
			return ra < rb
		}
		if !a.Period.End.Equal(b.Period.End) {
			return a.Period.End.After(b.Period.End)
		}
		return a.Period.Start.After(b.Period.Start)
	})

	rows := make([]model.PivotRow, 0, len(keys))
	for _, key := range keys {
		c := best[key]
		node, _ := sel.Outline.Lookup(key.ConceptID)
		class, classID := classPath(sel.Outline, g.Labels, key.ConceptID, primary)
		rows = append(rows, model.PivotRow{
			ConceptID: key.ConceptID,
			LabelKo:   g.Labels.Resolve(key.ConceptID, ko),
			LabelEn:   g.Labels.Resolve(key.ConceptID, en),
			Class:     class,
			ClassID:   classID,
			Scope:     key.Scope,
			Period:    key.Period,
			Amount:    c.amount,
			ParentID:  node.Parent,
			Depth:     node.Depth,
			Statement: sel.Type,
		})
	}
	model.Renumber(rows)

	return rows, diags
}

// classPath flattens the ancestors below the statement root to three
// levels, returning their labels and concept ids side by side
func classPath(o *statement.Outline, labels model.Labels, concept, locale string) (path, ids [model.ClassLevels]string) {
	for i, anc := range o.Ancestors(concept) {
		if i >= model.ClassLevels {
			break
		}
		path[i] = labels.Resolve(anc, locale)
		ids[i] = anc
	}
	return path, ids
}

func parseAmount(f model.Fact) (decimal.Decimal, bool) {
	if f.Nil || f.Value == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(f.Value)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// prefer reports whether a should replace b: higher precision first,
// then the lexicographically smaller context id
func prefer(a, b model.Fact) bool {
	pa, pb := precision(a.Decimals), precision(b.Decimals)
	if pa != pb {
		return pa > pb
	}
	return a.ContextRef < b.ContextRef
}

func precision(decimals string) int {
	decimals = strings.TrimSpace(decimals)
	if strings.EqualFold(decimals, "INF") {
		return math.MaxInt
	}
	n, err := strconv.Atoi(decimals)
	if err != nil {
		return math.MinInt
	}
	return n
}

// labelLocales picks the class path locale and the first configured
// locale of each label language ("ko-KR" counts as ko)
func labelLocales(locales []string) (primary, ko, en string) {
	ko, en = "ko", "en"
	var haveKo, haveEn bool
	for _, l := range locales {
		switch language(l) {
		case "ko":
			if !haveKo {
				ko, haveKo = l, true
			}
		case "en":
			if !haveEn {
				en, haveEn = l, true
			}
		}
	}
	primary = ko
	if len(locales) > 0 && locales[0] != "" {
		primary = locales[0]
	}
	return primary, ko, en
}

func language(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(l, "-_"); i >= 0 {
		l = l[:i]
	}
	return l
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
