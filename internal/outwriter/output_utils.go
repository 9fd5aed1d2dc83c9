package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// writeWithFile writes to outputFile when one is configured, and to w otherwise.
func writeWithFile(w io.Writer, outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(w)
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writer(file); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// levelLabel returns the label of a level, colored when the config allows it.
func levelLabel(level schema.SprawlLevel, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(level)
	}
	return contract.GetPlainLabel(level)
}

// formatTime formats an optional timestamp, using "-" when absent.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(contract.DateTimeFormat)
}

// formatOptionalInt formats an optional count, using "-" when absent.
func formatOptionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// formatOptionalString returns the value of an optional string, or "".
func formatOptionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
