// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"

	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// Results go to out; progress goes to progress.
type OutWriter struct {
	out      io.Writer
	progress io.Writer
}

// NewOutWriter creates an output writer bound to stdout and stderr.
func NewOutWriter() *OutWriter {
	return &OutWriter{out: os.Stdout, progress: os.Stderr}
}

// NewOutWriterTo creates an output writer bound to the given writers.
func NewOutWriterTo(out, progress io.Writer) *OutWriter {
	return &OutWriter{out: out, progress: progress}
}

// WriteReport prints a scan report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.ScanReport, cfg *contract.Config) error {
	return WriteReport(ow.out, report, cfg)
}

// WriteSnapshot prints one progress line for a scan job.
func (ow *OutWriter) WriteSnapshot(job schema.ScanJob, cfg *contract.Config) {
	WriteSnapshot(ow.progress, job, cfg)
}

// WriteRepositories prints the registered repositories.
func (ow *OutWriter) WriteRepositories(repos []schema.Repository, cfg *contract.Config) error {
	return WriteRepositories(ow.out, repos, cfg)
}

// WriteRepositoryDetail prints one repository with its scan history.
func (ow *OutWriter) WriteRepositoryDetail(detail schema.RepositoryDetail, cfg *contract.Config) error {
	return WriteRepositoryDetail(ow.out, detail, cfg)
}

// WriteGithubRepos prints repositories available on GitHub.
func (ow *OutWriter) WriteGithubRepos(repos []schema.GithubRepo, cfg *contract.Config) error {
	return WriteGithubRepos(ow.out, repos, cfg)
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Label with borders/padding
	baseWidth := 25

	// N/C/D/R/K and LOC columns
	if cfg.Detail {
		baseWidth += 50
	}

	// Table borders, separators and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
