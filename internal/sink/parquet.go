package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/ppiankov/dartxbrl/internal/model"
)

// ParquetSink writes one SNAPPY-compressed parquet file per filing under
// Dir/year=YYYY/mm=MM/FS_<corp>_<YYYYMM>.parquet
type ParquetSink struct {
	Dir string
}

func (s *ParquetSink) Write(ctx context.Context, key PartitionKey, corpCode string, rows []model.PivotRow) (string, error) {
	if ok, err := checkWrite(ctx, corpCode, rows); !ok {
		return "", err
	}

	dir := filepath.Join(s.Dir, key.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create partition %s", dir)
	}
	path := filepath.Join(dir, key.FileName(corpCode, ".parquet"))
	tmp := path + ".tmp"

	if err := writeParquet(tmp, NewRecords(rows)); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", eris.Wrapf(err, "commit %s", path)
	}
	return path, nil
}

func writeParquet(path string, records []Record) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create parquet file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "close parquet file")
		}
	}()

	pw, err := writer.NewParquetWriterFromWriter(file, new(Record), 1)
	if err != nil {
		return eris.Wrap(err, "parquet schema")
	}
	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range records {
		if err := pw.Write(records[i]); err != nil {
			_ = pw.WriteStop()
			return eris.Wrapf(err, "parquet write row %d", i+1)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return eris.Wrap(err, "parquet flush")
	}
	return nil
}
