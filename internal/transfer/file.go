package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"warscout/internal/fileutil"
	"warscout/internal/records"
)

// Exporter is the read side of the record store used by ExportFile.
type Exporter interface {
	Export(ctx context.Context) ([]records.TransferRow, error)
}

// Importer is the write side of the record store used by ImportFile.
type Importer interface {
	Import(ctx context.Context, rows []records.TransferRow) (records.ImportResult, error)
}

// ExportFile writes every record to path. The file is replaced atomically so
// a failed export never leaves a truncated file behind. It returns the
// number of rows written.
func ExportFile(ctx context.Context, store Exporter, path, encodingName string) (int, error) {
	rows, err := store.Export(ctx)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := Write(&buf, encodingName, rows); err != nil {
		return 0, err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(rows), nil
}

// ImportFile merges the rows in path into the store. Rows rejected while
// parsing and rows rejected by the store are both counted as skipped.
func ImportFile(ctx context.Context, store Importer, path, encodingName string) (records.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.ImportResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := Read(f, encodingName)
	if err != nil {
		return records.ImportResult{}, err
	}
	result, err := store.Import(ctx, parsed.Rows)
	if err != nil {
		return result, err
	}
	result.Skipped += parsed.Skipped
	result.Errors = append(parsed.Errors, result.Errors...)
	return result, nil
}
