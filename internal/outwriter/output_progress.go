package outwriter

import (
	"fmt"
	"io"
	"math"

	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// FormatSnapshot renders a one-line progress summary of a scan job.
func FormatSnapshot(job schema.ScanJob, cfg *contract.Config) string {
	line := fmt.Sprintf("%s scan #%d", contract.GetStatusLabel(job.Status), job.ID)
	if p, ok := job.Progress(); ok {
		line += fmt.Sprintf(" %d/%d files (%d%%)", *job.AnalyzedFiles, *job.TotalFiles, int(math.Round(p*100)))
	}
	if job.AvgSprawlScore != nil {
		fmtFloat, _ := createFormatters(cfg.Precision)
		line += fmt.Sprintf(" avg %s", fmtFloat(*job.AvgSprawlScore))
	}
	return line
}

// WriteSnapshot writes one progress line.
func WriteSnapshot(w io.Writer, job schema.ScanJob, cfg *contract.Config) {
	_, _ = fmt.Fprintln(w, FormatSnapshot(job, cfg))
}
