package xbrl

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/dartxbrl/internal/model"
)

type locXML struct {
	Href  string `xml:"href,attr"`
	Label string `xml:"label,attr"`
}

type labelXML struct {
	Label string `xml:"label,attr"`
	Role  string `xml:"role,attr"`
	Lang  string `xml:"lang,attr"`
	Text  string `xml:",chardata"`
}

type arcXML struct {
	From           string `xml:"from,attr"`
	To             string `xml:"to,attr"`
	Order          string `xml:"order,attr"`
	Weight         string `xml:"weight,attr"`
	Use            string `xml:"use,attr"`
	PreferredLabel string `xml:"preferredLabel,attr"`
}

type extendedLinkXML struct {
	Role             string     `xml:"role,attr"`
	Locs             []locXML   `xml:"loc"`
	Labels           []labelXML `xml:"label"`
	LabelArcs        []arcXML   `xml:"labelArc"`
	PresentationArcs []arcXML   `xml:"presentationArc"`
	CalculationArcs  []arcXML   `xml:"calculationArc"`
}

type linkbaseXML struct {
	LabelLinks        []extendedLinkXML `xml:"labelLink"`
	PresentationLinks []extendedLinkXML `xml:"presentationLink"`
	CalculationLinks  []extendedLinkXML `xml:"calculationLink"`
}

// linkbaseSet accumulates networks across several linkbase files, merged by role
type linkbaseSet struct {
	presentation map[string][]Arc
	calculation  map[string][]Arc
}

func newLinkbaseSet() *linkbaseSet {
	return &linkbaseSet{
		presentation: make(map[string][]Arc),
		calculation:  make(map[string][]Arc),
	}
}

func parseLinkbase(name string, data []byte, g *Graph, set *linkbaseSet) error {
	var lb linkbaseXML
	if err := newDecoder(data).Decode(&lb); err != nil {
		return &model.MalformedInputError{Document: name, Reason: "linkbase is not well-formed", Err: err}
	}

	for _, link := range lb.LabelLinks {
		addLabels(link, g.Labels)
	}
	for _, link := range lb.PresentationLinks {
		set.presentation[link.Role] = append(set.presentation[link.Role], arcs(link, link.PresentationArcs)...)
	}
	for _, link := range lb.CalculationLinks {
		set.calculation[link.Role] = append(set.calculation[link.Role], arcs(link, link.CalculationArcs)...)
	}
	return nil
}

// networks returns the merged networks sorted by role URI
func (s *linkbaseSet) networks(byRole map[string][]Arc) []Network {
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	nets := make([]Network, 0, len(roles))
	for _, role := range roles {
		nets = append(nets, Network{Role: role, Arcs: dedupeArcs(byRole[role])})
	}
	return nets
}

func addLabels(link extendedLinkXML, labels model.Labels) {
	concepts := locators(link)

	resources := make(map[string][]labelXML)
	for _, l := range link.Labels {
		resources[l.Label] = append(resources[l.Label], l)
	}

	for _, arc := range link.LabelArcs {
		if arc.Use == "prohibited" {
			continue
		}
		concept, ok := concepts[arc.From]
		if !ok {
			continue
		}
		for _, res := range resources[arc.To] {
			text := strings.TrimSpace(res.Text)
			if text == "" {
				continue
			}
			labels.Add(concept, normalizeLang(res.Lang), res.Role, text)
		}
	}
}

func arcs(link extendedLinkXML, raw []arcXML) []Arc {
	concepts := locators(link)
	out := make([]Arc, 0, len(raw))
	for _, a := range raw {
		if a.Use == "prohibited" {
			continue
		}
		from, okFrom := concepts[a.From]
		to, okTo := concepts[a.To]
		if !okFrom || !okTo {
			continue
		}
		out = append(out, Arc{
			From:           from,
			To:             to,
			Order:          parseFloat(a.Order, 1),
			Weight:         parseFloat(a.Weight, 1),
			PreferredLabel: a.PreferredLabel,
		})
	}
	return out
}

// dedupeArcs drops repeated (from, to) pairs, keeping the first
func dedupeArcs(in []Arc) []Arc {
	type pair struct{ from, to string }
	seen := make(map[pair]bool, len(in))
	out := make([]Arc, 0, len(in))
	for _, a := range in {
		k := pair{a.From, a.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

func locators(link extendedLinkXML) map[string]string {
	m := make(map[string]string, len(link.Locs))
	for _, l := range link.Locs {
		m[l.Label] = conceptFromHref(l.Href)
	}
	return m
}

// normalizeLang reduces "ko-KR" to "ko"
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
