package xbrl

import (
	"github.com/ppiankov/dartxbrl/internal/model"
)

// Load parses a statement package into a fact graph.
//
// It fails with *model.MalformedInputError when a document is not
// well-formed, when there is no instance, or when a fact references an
// unknown context; and with *model.SchemaMismatchError when no fact belongs to
// a statement namespace. Numeric ranges are not validated.
func Load(pkg Package) (*Graph, error) {
	g := newGraph()
	set := newLinkbaseSet()
	instances := 0

	for _, doc := range pkg.sorted() {
		kind, err := sniff(doc.Data)
		if err != nil {
			reason := "document is not well-formed"
			if isLinkbaseName(doc.Name) {
				reason = "linkbase is not well-formed"
			}
			return nil, &model.MalformedInputError{Document: doc.Name, Reason: reason, Err: err}
		}

		switch kind {
		case kindInstance:
			instances++
			if instances > 1 {
				return nil, &model.MalformedInputError{Document: doc.Name, Reason: "package contains more than one instance"}
			}
			if err := parseInstance(doc.Name, doc.Data, g); err != nil {
				return nil, err
			}
		case kindLinkbase:
			if err := parseLinkbase(doc.Name, doc.Data, g, set); err != nil {
				return nil, err
			}
		}
	}

	if instances == 0 {
		return nil, &model.MalformedInputError{Reason: "package has no xbrl instance"}
	}

	g.Presentation = set.networks(set.presentation)
	g.Calculation = set.networks(set.calculation)

	relevant := false
	for _, f := range g.Facts {
		if IsStatementNamespace(f.Concept) {
			relevant = true
			break
		}
	}
	if !relevant {
		return nil, &model.SchemaMismatchError{Reason: "no facts reference a financial statement namespace"}
	}

	return g, nil
}
