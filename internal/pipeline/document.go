package pipeline

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

const maxMemberBytes = 128 << 20

// ReceiptMappingFile maps instance file names to DART receipt dates
// ("20250814"). It is written next to downloaded filings.
const ReceiptMappingFile = "rcept_dt_mapping.json"

// Document is one filing handed to the pipeline
type Document struct {
	Package     xbrl.Package
	FileName    string    // Base name used for the entity fallback
	ReportDate  time.Time // Zero means derive it
	ReportName  string    // e.g. "반기보고서 (2025.06)"
	EntityCode  string    // Optional caller-supplied corp code
	ReceiptDate time.Time // Zero means the processing date
}

var (
	reportNameDate = regexp.MustCompile(`\((\d{4})\.(\d{1,2})\)`)
	fileNameDate   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// ReportDateFromName derives a reporting date from a report name such as
// "반기보고서 (2025.06)" (last day of that month) or a file name that
// carries a "2025-06-30" date
func ReportDateFromName(name string) (time.Time, bool) {
	if m := reportNameDate.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := fileNameDate.FindStringSubmatch(filepath.Base(name)); m != nil {
		if t, err := time.Parse(model.DateLayout, m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseReceiptDate reads a receipt date as "20250814" or "2025-08-14"
func ParseReceiptDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := model.DateLayout
	if len(s) == 8 {
		layout = "20060102"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "invalid receipt date %q", s)
	}
	return t, nil
}

// receiptDateFromMapping looks a filing up in the receipt mapping stored
// beside it, or inside it when the filing is an extracted directory
func receiptDateFromMapping(path string, isDir bool, names ...string) (time.Time, bool) {
	dir := filepath.Dir(path)
	if isDir {
		dir = path
	}
	data, err := os.ReadFile(filepath.Join(dir, ReceiptMappingFile))
	if err != nil {
		return time.Time{}, false
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return time.Time{}, false
	}
	for _, name := range names {
		raw, ok := mapping[name]
		if !ok {
			continue
		}
		if t, err := ParseReceiptDate(raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveReportDate prefers the explicit date, then the report name, then the
// file names, then the instance itself
func (d Document) resolveReportDate(g *xbrl.Graph) (time.Time, error) {
	if !d.ReportDate.IsZero() {
		return d.ReportDate, nil
	}
	for _, name := range []string{d.ReportName, d.FileName, g.InstanceName} {
		if name == "" {
			continue
		}
		if t, ok := ReportDateFromName(name); ok {
			return t, nil
		}
	}
	if t, ok := g.DocumentPeriodEnd(); ok {
		return t, nil
	}
	return time.Time{}, &model.RunMetadataError{Field: "report_date", Reason: "no report date supplied and none found in names or instance"}
}

// OpenDocument reads a filing from a .zip archive, a directory of extracted
// files or a lone instance document
func OpenDocument(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, eris.Wrapf(err, "open %s", path)
	}

	var doc Document
	switch {
	case info.IsDir():
		doc, err = readDir(path)
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			doc, err = ReadArchive(filepath.Base(path), data)
		}
	default:
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			doc.Package.Add(filepath.Base(path), data)
		}
	}
	if err != nil {
		return Document{}, eris.Wrapf(err, "read %s", path)
	}

	doc.FileName = doc.Package.InstanceName()
	if doc.FileName == "" {
		doc.FileName = filepath.Base(path)
	}
	if t, ok := receiptDateFromMapping(path, info.IsDir(), doc.FileName, filepath.Base(path)); ok {
		doc.ReceiptDate = t
	}
	return doc, nil
}

// ReadArchive builds a document from the bytes of a zip archive
func ReadArchive(name string, data []byte) (Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, &model.MalformedInputError{Document: name, Reason: "not a zip archive", Err: err}
	}

	var doc Document
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isPackageFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Document{}, eris.Wrapf(err, "open member %s", f.Name)
		}
		body, err := io.ReadAll(io.LimitReader(rc, maxMemberBytes+1))
		_ = rc.Close()
		if err != nil {
			return Document{}, eris.Wrapf(err, "read member %s", f.Name)
		}
		if len(body) > maxMemberBytes {
			return Document{}, &model.MalformedInputError{Document: f.Name, Reason: "archive member too large"}
		}
		doc.Package.Add(f.Name, body)
	}
	if len(doc.Package.Documents) == 0 {
		return Document{}, &model.MalformedInputError{Document: name, Reason: "archive contains no xbrl documents"}
	}
	doc.FileName = doc.Package.InstanceName()
	if doc.FileName == "" {
		doc.FileName = name
	}
	return doc, nil
}

func readDir(dir string) (Document, error) {
	var doc Document
	entries, err := os.ReadDir(dir)
	if err != nil {
		return doc, err
	}
	for _, e := range entries {
		if e.IsDir() || !isPackageFile(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return doc, err
		}
		doc.Package.Add(e.Name(), data)
	}
	if len(doc.Package.Documents) == 0 {
		return doc, &model.MalformedInputError{Document: dir, Reason: "directory contains no xbrl documents"}
	}
	return doc, nil
}

func isPackageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xbrl", ".xml", ".xsd":
		return true
	}
	return false
}

// Discover lists the filings directly under dir: zip archives, lone
// instance files and directories that hold an instance. Sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "list %s", dir)
	}

	var paths []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if hasInstance(path) {
				paths = append(paths, path)
			}
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".zip", ".xbrl":
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func hasInstance(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.xbrl"))
	return len(matches) > 0
}
