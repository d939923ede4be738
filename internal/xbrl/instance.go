package xbrl

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ppiankov/dartxbrl/internal/model"
)

type identifierXML struct {
	Scheme string `xml:"scheme,attr"`
	Value  string `xml:",chardata"`
}

type explicitMemberXML struct {
	Dimension string `xml:"dimension,attr"`
	Value     string `xml:",chardata"`
}

type typedMemberXML struct {
	Dimension string `xml:"dimension,attr"`
	Inner     string `xml:",innerxml"`
}

type memberSetXML struct {
	Explicit []explicitMemberXML `xml:"explicitMember"`
	Typed    []typedMemberXML    `xml:"typedMember"`
}

type contextXML struct {
	ID     string `xml:"id,attr"`
	Entity struct {
		Identifier identifierXML `xml:"identifier"`
		Segment    memberSetXML  `xml:"segment"`
	} `xml:"entity"`
	Period struct {
		Instant   string    `xml:"instant"`
		StartDate string    `xml:"startDate"`
		EndDate   string    `xml:"endDate"`
		Forever   *struct{} `xml:"forever"`
	} `xml:"period"`
	Scenario memberSetXML `xml:"scenario"`
}

type unitXML struct {
	ID      string   `xml:"id,attr"`
	Measure []string `xml:"measure"`
	Divide  struct {
		Numerator   string `xml:"unitNumerator>measure"`
		Denominator string `xml:"unitDenominator>measure"`
	} `xml:"divide"`
}

type factXML struct {
	Value string `xml:",chardata"`
}

// instanceParser walks an instance document token by token.
// Facts are dynamic elements, so they are recognized by their contextRef
// attribute rather than by a fixed schema.
type instanceParser struct {
	name  string
	graph *Graph
	byURI map[string]string
}

func parseInstance(name string, data []byte, g *Graph) error {
	p := &instanceParser{name: name, graph: g, byURI: make(map[string]string)}
	g.InstanceName = name

	dec := newDecoder(data)
	rootSeen := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.malformed("document is not well-formed", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !rootSeen {
			if start.Name.Local != "xbrl" {
				return p.malformed("root element is <"+start.Name.Local+">, expected <xbrl>", nil)
			}
			rootSeen = true
			p.declare(start.Attr)
			continue
		}
		p.declare(start.Attr)

		switch start.Name.Local {
		case "context":
			var cx contextXML
			if err := dec.DecodeElement(&cx, &start); err != nil {
				return p.malformed("context", err)
			}
			ctx, err := p.context(cx)
			if err != nil {
				return err
			}
			g.Contexts[ctx.ID] = ctx

		case "unit":
			var ux unitXML
			if err := dec.DecodeElement(&ux, &start); err != nil {
				return p.malformed("unit", err)
			}
			g.Units[ux.ID] = unitMeasure(ux)

		default:
			contextRef := attr(start.Attr, "contextRef")
			if contextRef == "" {
				if err := dec.Skip(); err != nil {
					return p.malformed("element <"+start.Name.Local+">", err)
				}
				continue
			}

			var fx factXML
			if err := dec.DecodeElement(&fx, &start); err != nil {
				return p.malformed("fact "+start.Name.Local, err)
			}
			g.Facts = append(g.Facts, model.Fact{
				Concept:    p.conceptName(start.Name),
				ContextRef: strings.TrimSpace(contextRef),
				Value:      strings.TrimSpace(fx.Value),
				UnitRef:    attr(start.Attr, "unitRef"),
				Decimals:   attr(start.Attr, "decimals"),
				Nil:        attr(start.Attr, "nil") == "true",
			})
		}
	}

	if !rootSeen {
		return p.malformed("empty document", nil)
	}

	for _, f := range g.Facts {
		if _, ok := g.Contexts[f.ContextRef]; !ok {
			return p.malformed("fact "+f.Concept+" references unknown context "+f.ContextRef, nil)
		}
	}

	return nil
}

// declare records xmlns:prefix declarations
func (p *instanceParser) declare(attrs []xml.Attr) {
	for _, a := range attrs {
		if a.Name.Space != "xmlns" {
			continue
		}
		p.graph.Namespaces[a.Name.Local] = a.Value
		if _, exists := p.byURI[a.Value]; !exists {
			p.byURI[a.Value] = a.Name.Local
		}
	}
}

// conceptName rebuilds "prefix:Local" from a resolved element name
func (p *instanceParser) conceptName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	declared, known := p.byURI[name.Space]
	if !known && !strings.Contains(name.Space, "/") {
		// Undeclared prefix: the decoder leaves the prefix itself in Space
		return name.Space + ":" + name.Local
	}
	return canonicalPrefix(name.Space, declared) + ":" + name.Local
}

// qname normalizes a prefixed value ("ifrs-full:SeparateMember") against
// the instance's declarations
func (p *instanceParser) qname(s string) string {
	s = strings.TrimSpace(s)
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	uri, declared := p.graph.Namespaces[prefix]
	if !declared {
		return s
	}
	return canonicalPrefix(uri, prefix) + ":" + local
}

func (p *instanceParser) context(cx contextXML) (model.Context, error) {
	ctx := model.Context{
		ID:           strings.TrimSpace(cx.ID),
		EntityScheme: strings.TrimSpace(cx.Entity.Identifier.Scheme),
		EntityID:     strings.TrimSpace(cx.Entity.Identifier.Value),
	}
	if ctx.ID == "" {
		return ctx, p.malformed("context without id", nil)
	}

	switch {
	case cx.Period.Instant != "":
		t, err := parseDate(cx.Period.Instant)
		if err != nil {
			return ctx, p.malformed("context "+ctx.ID+" instant", err)
		}
		ctx.Period = model.InstantPeriod(t)
	case cx.Period.StartDate != "" || cx.Period.EndDate != "":
		start, err := parseDate(cx.Period.StartDate)
		if err != nil {
			return ctx, p.malformed("context "+ctx.ID+" startDate", err)
		}
		end, err := parseDate(cx.Period.EndDate)
		if err != nil {
			return ctx, p.malformed("context "+ctx.ID+" endDate", err)
		}
		ctx.Period = model.DurationPeriod(start, end)
	}

	for _, set := range []memberSetXML{cx.Entity.Segment, cx.Scenario} {
		for _, m := range set.Explicit {
			ctx.Dimensions = append(ctx.Dimensions, model.Member{
				Dimension: p.qname(m.Dimension),
				Value:     p.qname(m.Value),
			})
		}
		for _, m := range set.Typed {
			ctx.Dimensions = append(ctx.Dimensions, model.Member{
				Dimension: p.qname(m.Dimension),
				Value:     strings.TrimSpace(m.Inner),
				Typed:     true,
			})
		}
	}

	return ctx, nil
}

func (p *instanceParser) malformed(reason string, err error) error {
	return &model.MalformedInputError{Document: p.name, Reason: reason, Err: err}
}

func unitMeasure(u unitXML) string {
	if len(u.Measure) > 0 {
		return strings.TrimSpace(u.Measure[0])
	}
	if u.Divide.Numerator != "" {
		return strings.TrimSpace(u.Divide.Numerator) + "/" + strings.TrimSpace(u.Divide.Denominator)
	}
	return ""
}

func attr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
