package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// JSONSink writes the same layout as an indented JSON array next to the
// parquet partition files
type JSONSink struct {
	Dir string
}

func (s *JSONSink) Write(ctx context.Context, key PartitionKey, corpCode string, rows []model.PivotRow) (string, error) {
	if ok, err := checkWrite(ctx, corpCode, rows); !ok {
		return "", err
	}
	dir := filepath.Join(s.Dir, key.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create partition %s", dir)
	}

	data, err := json.MarshalIndent(NewRecords(rows), "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshal rows")
	}
	path := filepath.Join(dir, key.FileName(corpCode, ".json"))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", eris.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// Multi writes to several sinks in order and returns the first path
type Multi []Sink

func (m Multi) Write(ctx context.Context, key PartitionKey, corpCode string, rows []model.PivotRow) (string, error) {
	first := ""
	for _, s := range m {
		path, err := s.Write(ctx, key, corpCode, rows)
		if err != nil {
			return first, err
		}
		if first == "" {
			first = path
		}
	}
	return first, nil
}
