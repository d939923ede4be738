package xbrl

import (
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// Document is one named file of a statement package
type Document struct {
	Name string
	Data []byte
}

// Package is the set of extracted documents for one filing:
// an instance plus optional label, presentation and calculation linkbases.
type Package struct {
	Documents []Document
}

// Add appends a document to the package
func (p *Package) Add(name string, data []byte) {
	p.Documents = append(p.Documents, Document{Name: name, Data: data})
}

// InstanceName returns the base name of the instance document, if known
func (p *Package) InstanceName() string {
	for _, doc := range p.sorted() {
		if kind, _ := sniff(doc.Data); kind == kindInstance {
			return path.Base(doc.Name)
		}
	}
	return ""
}

// sorted returns the documents ordered by name so loading is deterministic
func (p *Package) sorted() []Document {
	docs := make([]Document, len(p.Documents))
	copy(docs, p.Documents)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

type docKind int

const (
	kindUnknown docKind = iota
	kindInstance
	kindLinkbase
	kindSchema
)

// newDecoder creates a decoder that understands legacy charsets (EUC-KR etc.)
func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// sniff classifies a document by its root element
func sniff(data []byte) (docKind, error) {
	dec := newDecoder(data)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return kindUnknown, nil
		}
		if err != nil {
			return kindUnknown, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "xbrl":
			return kindInstance, nil
		case "linkbase":
			return kindLinkbase, nil
		case "schema":
			return kindSchema, nil
		default:
			return kindUnknown, nil
		}
	}
}

// isLinkbaseName reports whether a file name looks like a linkbase
func isLinkbaseName(name string) bool {
	base := strings.ToLower(path.Base(name))
	for _, marker := range []string{"_lab", "_pre", "_cal", "_def"} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}
