package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/dartxbrl/internal/fixture"
	"github.com/ppiankov/dartxbrl/internal/model"
)

func zipStandard(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, doc := range fixture.Standard().Documents {
		w, err := zw.Create(doc.Name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write(doc.Data); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if _, err := zw.Create("docs/"); err != nil {
		t.Fatalf("zip dir: %v", err)
	}
	w, _ := zw.Create("readme.txt")
	_, _ = w.Write([]byte("ignored"))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func writeStandardDir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, doc := range fixture.Standard().Documents {
		if err := os.WriteFile(filepath.Join(dir, doc.Name), doc.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReportDateFromName(t *testing.T) {
	tests := []struct {
		name   string
		expect string
		ok     bool
	}{
		{"반기보고서 (2025.06)", "2025-06-30", true},
		{"분기보고서 (2025.3)", "2025-03-31", true},
		{"사업보고서 (2024.12)", "2024-12-31", true},
		{"entity00171636_2025-06-30.xbrl", "2025-06-30", true},
		{"/tmp/x/entity00171636_2024-09-30.zip", "2024-09-30", true},
		{"report.xbrl", "", false},
		{"반기보고서 (2025.13)", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReportDateFromName(tt.name)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got.Format(model.DateLayout) != tt.expect {
				t.Errorf("expected %s, got %s", tt.expect, got.Format(model.DateLayout))
			}
		})
	}
}

func TestReportDatePrecedence(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	doc := standardDocument()
	doc.ReportName = "분기보고서 (2025.03)"
	res, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := res.ReportDate.Format(model.DateLayout); got != "2025-03-31" {
		t.Errorf("expected report name to win over file name, got %s", got)
	}

	doc.ReportDate = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	res, err = p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := res.ReportDate.Format(model.DateLayout); got != "2025-06-30" {
		t.Errorf("expected explicit date to win, got %s", got)
	}
}

func TestReportDateFromInstance(t *testing.T) {
	pkg := fixture.Package("instance.xbrl", fixture.StandardInstanceDoc().Bytes(), fixture.StandardLinkbases())
	p := newTestPipeline(t, nil, nil)

	res, err := p.Process(context.Background(), Document{Package: pkg, FileName: "instance.xbrl"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := res.ReportDate.Format(model.DateLayout); got != "2025-06-30" {
		t.Errorf("expected DocumentPeriodEndDate, got %s", got)
	}
}

func TestOpenDocumentZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filing.zip")
	if err := os.WriteFile(path, zipStandard(t), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := OpenDocument(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(doc.Package.Documents) != 5 {
		t.Errorf("expected 5 package documents, got %d", len(doc.Package.Documents))
	}
	if doc.FileName != fixture.StandardInstance {
		t.Errorf("expected instance file name, got %s", doc.FileName)
	}

	p := newTestPipeline(t, nil, nil)
	res, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Rows) != 18 {
		t.Errorf("expected 18 rows, got %d", len(res.Rows))
	}
}

func TestOpenDocumentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "filing")
	writeStandardDir(t, dir)

	doc, err := OpenDocument(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if doc.FileName != fixture.StandardInstance {
		t.Errorf("expected instance file name, got %s", doc.FileName)
	}
	if len(doc.Package.Documents) != 5 {
		t.Errorf("expected 5 documents, got %d", len(doc.Package.Documents))
	}
}

func TestOpenDocumentSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, fixture.StandardInstance)
	if err := os.WriteFile(path, fixture.StandardInstanceDoc().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := OpenDocument(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(doc.Package.Documents) != 1 {
		t.Errorf("expected 1 document, got %d", len(doc.Package.Documents))
	}
}

func TestOpenDocumentErrors(t *testing.T) {
	if _, err := OpenDocument(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Error("expected error for missing path")
	}

	bad := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(bad, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenDocument(bad)
	var me *model.MalformedInputError
	if !errors.As(err, &me) {
		t.Errorf("expected MalformedInputError, got %v", err)
	}

	if _, err := OpenDocument(t.TempDir()); !errors.As(err, &me) {
		t.Errorf("expected MalformedInputError for empty dir, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeStandardDir(t, filepath.Join(root, "b-extracted"))
	if err := os.MkdirAll(filepath.Join(root, "c-empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.zip", "d.xbrl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := Discover(root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	expected := []string{"a.zip", "b-extracted", "d.xbrl"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %v", len(expected), paths)
	}
	for i, name := range expected {
		if filepath.Base(paths[i]) != name {
			t.Errorf("expected %s at %d, got %s", name, i, paths[i])
		}
	}
}

func TestParseReceiptDate(t *testing.T) {
	for _, in := range []string{"20250814", "2025-08-14", " 20250814 "} {
		d, err := ParseReceiptDate(in)
		if err != nil {
			t.Errorf("ParseReceiptDate(%q): %v", in, err)
			continue
		}
		if got := d.Format(model.DateLayout); got != "2025-08-14" {
			t.Errorf("ParseReceiptDate(%q) = %s", in, got)
		}
	}
	for _, in := range []string{"", "2025081", "2025/08/14", "None"} {
		if _, err := ParseReceiptDate(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestOpenDocumentReceiptMapping(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "filing")
	writeStandardDir(t, dir)
	mapping := `{"` + fixture.StandardInstance + `": "20250814", "other.xbrl": "20240101"}`
	if err := os.WriteFile(filepath.Join(dir, ReceiptMappingFile), []byte(mapping), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := OpenDocument(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := doc.ReceiptDate.Format(model.DateLayout); got != "2025-08-14" {
		t.Errorf("expected receipt date from mapping, got %s", got)
	}

	plain := filepath.Join(t.TempDir(), "plain")
	writeStandardDir(t, plain)
	doc, err = OpenDocument(plain)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !doc.ReceiptDate.IsZero() {
		t.Errorf("expected no receipt date without a mapping, got %v", doc.ReceiptDate)
	}
}
