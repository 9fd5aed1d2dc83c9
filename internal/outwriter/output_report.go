package outwriter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sprawl-dev/sprawl/core/algo"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/internal/parquet"
	"github.com/sprawl-dev/sprawl/schema"
)

// WriteReport outputs a scan report, dispatching based on the output format configured.
func WriteReport(w io.Writer, report schema.ScanReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReport(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		results := schema.ScanResults{ScanID: report.ScanID, CompletedAt: report.CompletedAt, Metrics: report.Files}
		if err := parquet.WriteFileDebtParquet(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		if err := writeReportTable(w, report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeReportTable prints the summary, the ranked files and the pruned tree.
func writeReportTable(w io.Writer, report schema.ScanReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	s := report.Summary

	// 1. Headline
	_, _ = fmt.Fprintf(w, "Scan #%d", report.ScanID)
	if !report.CompletedAt.IsZero() {
		_, _ = fmt.Fprintf(w, " completed %s", report.CompletedAt.Format(contract.DateTimeFormat))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Overall: %s %s (gauge %d%%)\n",
		fmtFloat(s.AverageScore), levelLabel(s.OverallLevel, cfg), int(math.Round(s.GaugeProgress*100)))
	_, _ = fmt.Fprintf(w, "Files: %d | Clean: %d | Problematic: %d | Mild: %d\n",
		s.FileCount, s.CleanCount, s.ProblematicCount, s.LevelCounts[schema.MildLevel])

	if s.FileCount == 0 {
		_, _ = fmt.Fprintln(w, "No files were analyzed.")
		return nil
	}

	// 2. Formula breakdown
	if err := writeBreakdownTable(w, s.Breakdown, fmtFloat); err != nil {
		return err
	}

	// 3. Ranked files
	if err := writeFilesTable(w, report.Files, cfg, fmtFloat, intFmt); err != nil {
		return err
	}

	// 4. Pruned top level of the hierarchy
	if err := writeTreeTable(w, report.Tree, cfg, fmtFloat, intFmt); err != nil {
		return err
	}

	shown := 0
	if report.Tree != nil {
		shown = len(report.Tree.Children)
	}
	_, _ = fmt.Fprintf(w, "Showing %d of %d top-level entries (%d hidden)\n", shown, report.TotalTopLevel, report.HiddenCount)
	if n := len(report.Skipped); n > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d records with malformed paths\n", n)
	}
	return nil
}

func writeBreakdownTable(w io.Writer, breakdown []schema.FormulaBreakdown, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dim", "Name", "Average"})

	var data [][]string
	for _, b := range breakdown {
		data = append(data, []string{string(b.Dimension), b.Name, fmtFloat(b.AverageValue)})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeFilesTable(w io.Writer, files []schema.FileDebtRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Path", "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, "LOC")
		for _, d := range schema.AllDimensions {
			headers = append(headers, string(d))
		}
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, r := range files {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			fmtFloat(r.SprawlScore),
			levelLabel(r.SprawlLevel, cfg),
		}
		if cfg.Detail {
			row = append(row, fmt.Sprintf(intFmt, r.LinesOfCode))
			for _, d := range schema.AllDimensions {
				row = append(row, fmtFloat(r.Value(d)))
			}
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeTreeTable(w io.Writer, root *schema.TreeNode, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if root == nil {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Entry", "Files", "Size", "Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, n := range root.Children {
		name := n.Name
		if !n.IsLeaf() {
			name += "/"
		}
		score := algo.WeightedScore(n)
		data = append(data, []string{
			contract.TruncatePath(name, pathWidth),
			fmt.Sprintf(intFmt, n.LeafCount()),
			fmt.Sprintf(intFmt, algo.TotalSize(n)),
			fmtFloat(score),
			levelLabel(schema.ClassifyScore(score/schema.LeafScoreScale), cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
