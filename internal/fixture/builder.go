// Package fixture builds small DART-style XBRL packages for tests.
package fixture

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// DART extended link roles
const (
	RoleBalanceSheet   = "http://dart.fss.or.kr/role/ifrs/dart_2020-06-30_role-D210000"
	RoleIncome         = "http://dart.fss.or.kr/role/ifrs/dart_2020-06-30_role-D310000"
	RoleComprehensive  = "http://dart.fss.or.kr/role/ifrs/dart_2020-06-30_role-D431410"
	RoleUnrelatedNotes = "http://dart.fss.or.kr/role/ifrs/dart_2020-06-30_role-D822100"
)

const ifrsXSD = "http://xbrl.ifrs.org/taxonomy/2020-03-16/full_ifrs/full_ifrs-cor_2020-03-16.xsd"

// Dim is an explicit dimension member of a context
type Dim struct {
	Axis   string
	Member string
}

// Separate is the separate-statements member of the consolidation axis
var Separate = Dim{Axis: "ifrs-full:ConsolidatedAndSeparateFinancialStatementsAxis", Member: "ifrs-full:SeparateMember"}

// Instance builds an instance document
type Instance struct {
	entity   string
	contexts []string
	facts    []string
}

// NewInstance starts an instance for the given DART corp code
func NewInstance(entity string) *Instance {
	return &Instance{entity: entity}
}

// Instant adds an instant context
func (b *Instance) Instant(id, date string, dims ...Dim) *Instance {
	period := "<xbrli:instant>" + date + "</xbrli:instant>"
	b.contexts = append(b.contexts, b.context(id, period, dims))
	return b
}

// Duration adds a start/end context
func (b *Instance) Duration(id, start, end string, dims ...Dim) *Instance {
	period := "<xbrli:startDate>" + start + "</xbrli:startDate><xbrli:endDate>" + end + "</xbrli:endDate>"
	b.contexts = append(b.contexts, b.context(id, period, dims))
	return b
}

// InstantEntity adds an instant context reported for another entity
func (b *Instance) InstantEntity(id, date, entity string) *Instance {
	saved := b.entity
	b.entity = entity
	b.Instant(id, date)
	b.entity = saved
	return b
}

func (b *Instance) context(id, period string, dims []Dim) string {
	segment := ""
	if len(dims) > 0 {
		var sb strings.Builder
		sb.WriteString("<xbrli:segment>")
		for _, d := range dims {
			fmt.Fprintf(&sb, `<xbrldi:explicitMember dimension="%s">%s</xbrldi:explicitMember>`, d.Axis, d.Member)
		}
		sb.WriteString("</xbrli:segment>")
		segment = sb.String()
	}
	return fmt.Sprintf(`<xbrli:context id="%s"><xbrli:entity><xbrli:identifier scheme="http://dart.fss.or.kr">%s</xbrli:identifier>%s</xbrli:entity><xbrli:period>%s</xbrli:period></xbrli:context>`,
		id, b.entity, segment, period)
}

// Fact adds a monetary fact in KRW reported in millions
func (b *Instance) Fact(concept, contextRef, value string) *Instance {
	return b.FactDecimals(concept, contextRef, value, "-6")
}

// FactDecimals adds a monetary fact with an explicit precision hint
func (b *Instance) FactDecimals(concept, contextRef, value, decimals string) *Instance {
	b.facts = append(b.facts, fmt.Sprintf(`<%s contextRef="%s" unitRef="KRW" decimals="%s">%s</%s>`,
		concept, contextRef, decimals, value, concept))
	return b
}

// Nil adds a nil monetary fact
func (b *Instance) Nil(concept, contextRef string) *Instance {
	b.facts = append(b.facts, fmt.Sprintf(`<%s contextRef="%s" unitRef="KRW" xsi:nil="true"/>`, concept, contextRef))
	return b
}

// Text adds a non-numeric fact
func (b *Instance) Text(concept, contextRef, value string) *Instance {
	b.facts = append(b.facts, fmt.Sprintf(`<%s contextRef="%s">%s</%s>`,
		concept, contextRef, html.EscapeString(value), concept))
	return b
}

// Bytes renders the instance document
func (b *Instance) Bytes() []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"` +
		` xmlns:link="http://www.xbrl.org/2003/linkbase"` +
		` xmlns:xlink="http://www.w3.org/1999/xlink"` +
		` xmlns:iso4217="http://www.xbrl.org/2003/iso4217"` +
		` xmlns:xbrldi="http://xbrl.org/2006/xbrldi"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:ifrs-full="http://xbrl.ifrs.org/taxonomy/2020-03-16/ifrs-full"` +
		` xmlns:dei="http://xbrl.sec.gov/dei/2021"` +
		` xmlns:dart="http://dart.fss.or.kr/xbrl/dart/2020-06-30">` + "\n")
	fmt.Fprintf(&sb, `<link:schemaRef xlink:type="simple" xlink:href="entity%s_2025-06-30.xsd"/>`+"\n", b.entity)
	for _, c := range b.contexts {
		sb.WriteString(c + "\n")
	}
	sb.WriteString(`<xbrli:unit id="KRW"><xbrli:measure>iso4217:KRW</xbrli:measure></xbrli:unit>` + "\n")
	for _, f := range b.facts {
		sb.WriteString(f + "\n")
	}
	sb.WriteString("</xbrli:xbrl>\n")
	return []byte(sb.String())
}

// Edge is one parent-child (or total-component) relation
type Edge struct {
	Parent string
	Child  string
	Order  float64
	Weight float64
}

// Network is the set of edges of one extended link role
type Network struct {
	Role  string
	Edges []Edge
}

// Presentation renders a presentation linkbase
func Presentation(networks ...Network) []byte {
	return linkbase("presentationLink", "presentationArc", "http://www.xbrl.org/2003/arcrole/parent-child", networks)
}

// Calculation renders a calculation linkbase
func Calculation(networks ...Network) []byte {
	return linkbase("calculationLink", "calculationArc", "http://www.xbrl.org/2003/arcrole/summation-item", networks)
}

func linkbase(linkName, arcName, arcrole string, networks []Network) []byte {
	var sb strings.Builder
	sb.WriteString(linkbaseOpen)
	for _, n := range networks {
		fmt.Fprintf(&sb, `<link:%s xlink:type="extended" xlink:role="%s">`+"\n", linkName, n.Role)
		seen := make(map[string]bool)
		for _, e := range n.Edges {
			for _, c := range []string{e.Parent, e.Child} {
				if seen[c] {
					continue
				}
				seen[c] = true
				fmt.Fprintf(&sb, `<link:loc xlink:type="locator" xlink:href="%s#%s" xlink:label="%s"/>`+"\n", ifrsXSD, href(c), href(c))
			}
		}
		for _, e := range n.Edges {
			order := e.Order
			if order == 0 {
				order = 1
			}
			weight := ""
			if linkName == "calculationLink" {
				w := e.Weight
				if w == 0 {
					w = 1
				}
				weight = fmt.Sprintf(` weight="%g"`, w)
			}
			fmt.Fprintf(&sb, `<link:%s xlink:type="arc" xlink:arcrole="%s" xlink:from="%s" xlink:to="%s" order="%g"%s/>`+"\n",
				arcName, arcrole, href(e.Parent), href(e.Child), order, weight)
		}
		fmt.Fprintf(&sb, "</link:%s>\n", linkName)
	}
	sb.WriteString("</link:linkbase>\n")
	return []byte(sb.String())
}

// Labels renders a label linkbase for one language
func Labels(lang string, labels map[string]string) []byte {
	concepts := make([]string, 0, len(labels))
	for c := range labels {
		concepts = append(concepts, c)
	}
	sort.Strings(concepts)

	var sb strings.Builder
	sb.WriteString(linkbaseOpen)
	sb.WriteString(`<link:labelLink xlink:type="extended" xlink:role="http://www.xbrl.org/2003/role/link">` + "\n")
	for _, c := range concepts {
		id := href(c)
		fmt.Fprintf(&sb, `<link:loc xlink:type="locator" xlink:href="%s#%s" xlink:label="%s"/>`+"\n", ifrsXSD, id, id)
		fmt.Fprintf(&sb, `<link:label xlink:type="resource" xlink:label="label_%s" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="%s">%s</link:label>`+"\n",
			id, lang, html.EscapeString(labels[c]))
		fmt.Fprintf(&sb, `<link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="%s" xlink:to="label_%s"/>`+"\n", id, id)
	}
	sb.WriteString("</link:labelLink>\n</link:linkbase>\n")
	return []byte(sb.String())
}

const linkbaseOpen = `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase" xmlns:xlink="http://www.w3.org/1999/xlink">
`

// href converts "ifrs-full:Assets" to the schema element id "ifrs-full_Assets"
func href(concept string) string {
	return strings.Replace(concept, ":", "_", 1)
}

// Package assembles named documents into an xbrl.Package
func Package(instanceName string, instance []byte, linkbases map[string][]byte) xbrl.Package {
	var pkg xbrl.Package
	pkg.Add(instanceName, instance)
	names := make([]string, 0, len(linkbases))
	for name := range linkbases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pkg.Add(name, linkbases[name])
	}
	return pkg
}
