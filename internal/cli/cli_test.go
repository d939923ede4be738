package cli

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/dartxbrl/internal/fixture"
	"github.com/ppiankov/dartxbrl/internal/model"
)

func writeStandardZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, doc := range fixture.Standard().Documents {
		w, err := zw.Create(doc.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(doc.Data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Directory.Source = "none"
	cfg.Output.Dir = t.TempDir()
	cfg.Output.JSON = true
	cfg.Concurrency.Workers = 2
	return cfg
}

func TestRunnerProcessFile(t *testing.T) {
	cfg := testConfig(t)
	r, err := newRunner(cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	in := filepath.Join(t.TempDir(), "filing.zip")
	writeStandardZip(t, in)

	res, err := r.ProcessFile(context.Background(), in)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Rows != 18 {
		t.Errorf("expected 18 rows, got %d", res.Rows)
	}
	if res.EntityCode != fixture.StandardEntity {
		t.Errorf("expected %s, got %s", fixture.StandardEntity, res.EntityCode)
	}

	parquetPath := filepath.Join(cfg.Output.Dir, "year=2025", "mm=06", "FS_00171636_202506.parquet")
	if res.Output != parquetPath {
		t.Errorf("expected output %s, got %s", parquetPath, res.Output)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "year=2025", "mm=06", "FS_00171636_202506.json")); err != nil {
		t.Errorf("expected JSON output: %v", err)
	}
}

func TestRunnerOverrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.JSON = false
	r, err := newRunner(cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	r.corpCode = "5930"
	r.reportDate = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	in := filepath.Join(t.TempDir(), "filing.zip")
	writeStandardZip(t, in)

	res, out, err := r.run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.EntityCode != "00005930" {
		t.Errorf("expected supplied code, got %s", res.EntityCode)
	}
	if filepath.Base(out) != "FS_00005930_202506.parquet" {
		t.Errorf("unexpected output %s", out)
	}
}

func TestRunBatchOnce(t *testing.T) {
	cfg := testConfig(t)
	r, err := newRunner(cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	dir := t.TempDir()
	writeStandardZip(t, filepath.Join(dir, "a.zip"))
	if err := os.WriteFile(filepath.Join(dir, "b.xbrl"), []byte("<broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := runBatchOnce(context.Background(), r, dir, "", cfg.Concurrency.Workers, nil)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("expected first filing to succeed, got %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("expected broken filing to fail")
	}
}

func TestRunBatchOnceFromList(t *testing.T) {
	cfg := testConfig(t)
	r, err := newRunner(cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "a.zip")
	writeStandardZip(t, good)
	list := filepath.Join(dir, "paths.txt")
	content := "# filings\n" + good + "\n" + filepath.Join(dir, "missing.zip") + "\n" + good + "\n"
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := runBatchOnce(context.Background(), r, "", list, cfg.Concurrency.Workers, nil)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after dedup, got %d", len(results))
	}
	if results[0].Error != nil || results[0].Rows != 18 {
		t.Errorf("expected listed filing to succeed with 18 rows, got %+v", results[0])
	}
	if results[1].Error == nil {
		t.Error("expected missing filing to fail")
	}

	if _, err := runBatchOnce(context.Background(), r, "", filepath.Join(dir, "nope.txt"), 1, nil); err == nil {
		t.Error("expected error for a missing list file")
	}
}

func TestRunnerReceiptDate(t *testing.T) {
	cfg := testConfig(t)
	r, err := newRunner(cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	dir := t.TempDir()
	in := filepath.Join(dir, "filing.zip")
	writeStandardZip(t, in)
	mapping := `{"filing.zip": "20250714"}`
	if err := os.WriteFile(filepath.Join(dir, "rcept_dt_mapping.json"), []byte(mapping), 0o644); err != nil {
		t.Fatal(err)
	}

	res, _, err := r.run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := res.Rows[0].ReceiptDate; got != "2025-07-14" {
		t.Errorf("expected mapped receipt date 2025-07-14, got %s", got)
	}

	r.receiptDate = time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	res, _, err = r.run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := res.Rows[0].ReceiptDate; got != "2025-08-14" {
		t.Errorf("expected explicit receipt date 2025-08-14, got %s", got)
	}
}

func TestLoadConfigMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "pipeline:\n  total_tolerance: \"5\"\n  locales: [en, ko]\ndirectory:\n  ttl: 2h\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DARTXBRL_PIPELINE_PERIOD_FILTER", "false")

	cfgFile = path
	defer func() { cfgFile = "" }()
	initConfig()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pipeline.TotalTolerance != "5" {
		t.Errorf("expected tolerance 5, got %s", cfg.Pipeline.TotalTolerance)
	}
	if len(cfg.Pipeline.Locales) != 2 || cfg.Pipeline.Locales[0] != "en" {
		t.Errorf("expected locales [en ko], got %v", cfg.Pipeline.Locales)
	}
	if cfg.Directory.TTL != 2*time.Hour {
		t.Errorf("expected 2h ttl, got %v", cfg.Directory.TTL)
	}
	if cfg.Pipeline.PeriodFilter {
		t.Error("expected env to disable the period filter")
	}
	if cfg.Pipeline.FiscalYearEndMonth != 12 {
		t.Errorf("expected default fiscal year end month, got %d", cfg.Pipeline.FiscalYearEndMonth)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config exists")
	}
}
