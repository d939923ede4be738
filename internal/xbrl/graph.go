package xbrl

import (
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// Arc is one parent-child (presentation) or summation (calculation) relation
type Arc struct {
	From           string
	To             string
	Order          float64
	Weight         float64
	PreferredLabel string
}

// Network is the set of arcs of one extended link role
type Network struct {
	Role string
	Arcs []Arc
}

// Graph is the in-memory fact graph of one filing.
// Collections are keyed by stable ids; nothing points back to its owner.
type Graph struct {
	InstanceName string
	Facts        []model.Fact
	Contexts     map[string]model.Context
	Units        map[string]string
	Labels       model.Labels
	Presentation []Network
	Calculation  []Network

	// prefix -> namespace URI as declared in the instance
	Namespaces map[string]string
}

func newGraph() *Graph {
	return &Graph{
		Contexts:   make(map[string]model.Context),
		Units:      make(map[string]string),
		Labels:     make(model.Labels),
		Namespaces: make(map[string]string),
	}
}

// Context returns the context of a fact (always present after Load)
func (g *Graph) Context(f model.Fact) model.Context {
	return g.Contexts[f.ContextRef]
}

// EntityCodes returns the distinct entity identifiers of all contexts, sorted
func (g *Graph) EntityCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, c := range g.Contexts {
		id := strings.TrimSpace(c.EntityID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		codes = append(codes, id)
	}
	sort.Strings(codes)
	return codes
}

// DocumentPeriodEnd returns the nominal period end of the filing.
// It prefers a DocumentPeriodEndDate fact and falls back to the latest
// instant referenced by a statement fact.
func (g *Graph) DocumentPeriodEnd() (time.Time, bool) {
	for _, f := range g.Facts {
		if f.LocalName() != "DocumentPeriodEndDate" {
			continue
		}
		if t, err := parseDate(f.Value); err == nil {
			return t, true
		}
	}

	var latest time.Time
	for _, f := range g.Facts {
		if !IsStatementNamespace(f.Concept) {
			continue
		}
		p := g.Contexts[f.ContextRef].Period
		if p.Instant && p.End.After(latest) {
			latest = p.End
		}
	}
	return latest, !latest.IsZero()
}

// IsStatementNamespace reports whether a concept belongs to a namespace
// that carries financial statement line items
func IsStatementNamespace(concept string) bool {
	prefix := model.Prefix(concept)
	switch prefix {
	case "ifrs-full", "ifrs", "dart":
		return true
	}
	if rest, ok := strings.CutPrefix(prefix, "entity"); ok && rest != "" {
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// conceptFromHref converts a locator href ("...xsd#ifrs-full_Assets")
// to a concept id ("ifrs-full:Assets")
func conceptFromHref(href string) string {
	frag := href
	if i := strings.LastIndex(href, "#"); i >= 0 {
		frag = href[i+1:]
	}
	if i := strings.Index(frag, "_"); i > 0 && i < len(frag)-1 {
		return frag[:i] + ":" + frag[i+1:]
	}
	return frag
}

// canonicalPrefix maps well-known taxonomy URIs to their conventional prefix
func canonicalPrefix(uri, declared string) string {
	trimmed := strings.TrimRight(uri, "/")
	switch {
	case strings.Contains(trimmed, "xbrl.ifrs.org") && strings.HasSuffix(trimmed, "/ifrs-full"):
		return "ifrs-full"
	case strings.HasSuffix(trimmed, "/dei") || strings.Contains(trimmed, "/dei/"):
		if declared != "" {
			return declared
		}
		return "dei"
	}
	if declared != "" {
		return declared
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse(model.DateLayout, s)
}
