package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type mockProcessor struct {
	failOn string
}

func (m *mockProcessor) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	if strings.Contains(path, m.failOn) && m.failOn != "" {
		return nil, errors.New("malformed input")
	}
	return &FileResult{RunID: "run-" + filepath.Base(path), Rows: 10}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	b := NewBatchProcessor(&mockProcessor{failOn: "broken"}, 2, nil)
	paths := []string{"a.zip", "broken.zip", "c.zip"}

	results := b.ProcessPaths(context.Background(), paths)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("expected path %s at %d, got %s", paths[i], i, r.Path)
		}
	}
	if results[1].Error == nil {
		t.Error("expected failure for broken.zip")
	}
	if results[2].RunID != "run-c.zip" {
		t.Errorf("unexpected run id %s", results[2].RunID)
	}

	ok, failed, rows := Summary(results)
	if ok != 2 || failed != 1 || rows != 20 {
		t.Errorf("expected 2 ok, 1 failed, 20 rows; got %d, %d, %d", ok, failed, rows)
	}
}

type ctxProcessor struct{}

func (ctxProcessor) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &FileResult{Rows: 1}, nil
}

func TestBatchProcessor_CanceledReportsEveryPath(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{"a.zip", "b.zip", "c.zip", "d.zip", "e.zip"}
	results := NewBatchProcessor(ctxProcessor{}, 2, nil).ProcessPaths(ctx, paths)
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("expected path %s at %d, got %s", paths[i], i, r.Path)
		}
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", r.Path, r.Error)
		}
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&mockProcessor{}, 2, nil)
	if results := b.ProcessPaths(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadPathList(t *testing.T) {
	content := "filings/a.zip\n# comment\n\n  filings/b.zip  \nfilings/a.zip\n"
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathList(path)
	if err != nil {
		t.Fatalf("ReadPathList failed: %v", err)
	}
	expected := []string{"filings/a.zip", "filings/b.zip"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestBatchProcessor_ProcessList_NonExistent(t *testing.T) {
	b := NewBatchProcessor(&mockProcessor{}, 2, nil)
	if _, err := b.ProcessList(context.Background(), "no_such_list.txt"); err == nil {
		t.Error("expected error for missing list file")
	}
}
