package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// writeJSONReport marshals the report to JSON with rank and label added to each file.
func writeJSONReport(w io.Writer, report schema.ScanReport) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONFile struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.FileDebtRecord
	}
	type JSONReport struct {
		schema.ScanReport
		Files []JSONFile `json:"files"`
	}

	files := make([]JSONFile, len(report.Files))
	for i, r := range report.Files {
		files[i] = JSONFile{
			Rank:           i + 1,
			Label:          contract.GetPlainLabel(r.SprawlLevel),
			FileDebtRecord: r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, JSONReport{ScanReport: report, Files: files})
}

// writeCSVReport writes the ranked files of a report as CSV rows.
func writeCSVReport(w io.Writer, report schema.ScanReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "file", "loc"}
	for _, d := range schema.AllDimensions {
		header = append(header, strings.ToLower(d.Name()))
	}
	header = append(header, "sprawl_score", "label")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range report.Files {
			row := []string{
				strconv.Itoa(i + 1),
				r.Path,
				fmt.Sprintf(intFmt, r.LinesOfCode),
			}
			for _, d := range schema.AllDimensions {
				row = append(row, fmtFloat(r.Value(d)))
			}
			row = append(row, fmtFloat(r.SprawlScore), contract.GetPlainLabel(r.SprawlLevel))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
