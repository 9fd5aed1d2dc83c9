// Package parquet exports scan results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/sprawl-dev/sprawl/schema"
)

// FileDebtRow is one file of a completed scan.
type FileDebtRow struct {
	// ScanID references the scan the file was measured in
	ScanID int64 `parquet:"scan_id,snappy"`

	// CompletedAt is when the scan completed (stored as TIMESTAMP with nanosecond precision)
	CompletedAt time.Time `parquet:"completed_at,snappy"`

	// FilePath is the slash-delimited path of the file in the repository
	FilePath string `parquet:"file_path,snappy,dict"`

	// LinesOfCode is the file's line count
	LinesOfCode int32 `parquet:"loc,snappy"`

	// NormalizedLOC is the N dimension
	NormalizedLOC float64 `parquet:"normalized_loc,snappy"`

	// ComplexityScore is the C dimension
	ComplexityScore float64 `parquet:"complexity_score,snappy"`

	// DuplicationRatio is the D dimension
	DuplicationRatio float64 `parquet:"duplication_ratio,snappy"`

	// ResponsibilityScore is the R dimension
	ResponsibilityScore float64 `parquet:"responsibility_score,snappy"`

	// CouplingScore is the K dimension
	CouplingScore float64 `parquet:"coupling_score,snappy"`

	// SprawlScore is the combined unscaled score
	SprawlScore float64 `parquet:"sprawl_score,snappy"`

	// SprawlLevel is the level reported by the scanner
	SprawlLevel string `parquet:"sprawl_level,snappy,dict"`
}

// RowsFromResults converts scan results into Parquet rows, keeping input order.
func RowsFromResults(results schema.ScanResults) []FileDebtRow {
	rows := make([]FileDebtRow, len(results.Metrics))
	for i, r := range results.Metrics {
		rows[i] = FileDebtRow{
			ScanID:              results.ScanID,
			CompletedAt:         results.CompletedAt,
			FilePath:            r.Path,
			LinesOfCode:         int32(r.LinesOfCode),
			NormalizedLOC:       r.NormalizedLOC,
			ComplexityScore:     r.ComplexityScore,
			DuplicationRatio:    r.DuplicationRatio,
			ResponsibilityScore: r.ResponsibilityScore,
			CouplingScore:       r.CouplingScore,
			SprawlScore:         r.SprawlScore,
			SprawlLevel:         string(r.SprawlLevel),
		}
	}
	return rows
}

// WriteFileDebtRows writes rows to w in Parquet format.
func WriteFileDebtRows(w io.Writer, rows []FileDebtRow) error {
	// The schema is derived from the FileDebtRow struct tags
	writer := parquet.NewGenericWriter[FileDebtRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFileDebtParquet writes the records of a scan to a Parquet file.
func WriteFileDebtParquet(results schema.ScanResults, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteFileDebtRows(file, RowsFromResults(results))
}

// ReadFileDebtParquet reads rows back from a Parquet file.
func ReadFileDebtParquet(path string) ([]FileDebtRow, error) {
	rows, err := parquet.ReadFile[FileDebtRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}
