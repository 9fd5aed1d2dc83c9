// Package core has core logic for running scans and rendering their reports.
package core

import (
	"context"
	"fmt"
	"os"

	"github.com/sprawl-dev/sprawl/core/report"
	"github.com/sprawl-dev/sprawl/core/scan"
	"github.com/sprawl-dev/sprawl/internal/apiclient"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/internal/outwriter"
	"github.com/sprawl-dev/sprawl/schema"
)

// Clients bundles the remote services a command talks to.
type Clients struct {
	Scanner contract.ScannerClient
	Repos   contract.RepositoryClient
}

// NewClients creates API-backed clients from the configuration.
func NewClients(cfg *contract.Config) (Clients, error) {
	c, err := apiclient.NewFromConfig(cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("failed to create API client: %w", err)
	}
	return Clients{Scanner: c, Repos: c}, nil
}

// ReportOptions derives the report shape from the configuration.
func ReportOptions(cfg *contract.Config) report.Options {
	return report.Options{TreeLimit: cfg.TreeLimit, TopFiles: cfg.TopFiles}
}

// NewSession creates a scan session wired to the configured poll interval and authorizer.
func NewSession(cfg *contract.Config, cl Clients) *scan.Session {
	ctrl := scan.NewController(cl.Scanner, scan.WithPollInterval(cfg.PollInterval))
	return scan.NewSession(ctrl, cl.Repos, cfg.Authorizer(), ReportOptions(cfg))
}

// RunScan starts a scan of the repository and waits for its report.
// Progress lines go to stderr unless the context suppresses headers.
func RunScan(ctx context.Context, cfg *contract.Config, cl Clients, repositoryID int64) (schema.ScanReport, error) {
	s := NewSession(cfg, cl)
	defer s.Close()
	if !shouldSuppressHeader(ctx) {
		logScanHeader(cfg, "Scanning", repositoryID)
		s.OnSnapshot = progressPrinter(cfg)
	}
	return s.Run(ctx, repositoryID)
}

// WatchScan follows the latest scan of the repository without starting a new one.
func WatchScan(ctx context.Context, cfg *contract.Config, cl Clients, repositoryID int64) (schema.ScanReport, error) {
	s := NewSession(cfg, cl)
	defer s.Close()
	if !shouldSuppressHeader(ctx) {
		logScanHeader(cfg, "Watching", repositoryID)
		s.OnSnapshot = progressPrinter(cfg)
	}
	return s.Resume(ctx, repositoryID)
}

// GetScanReport derives the report of a completed scan. The status is checked
// first; a scan that is not COMPLETED yields an error and no results fetch.
func GetScanReport(ctx context.Context, cfg *contract.Config, cl Clients, scanID int64) (schema.ScanReport, error) {
	if !cfg.Authorizer().Authorized() {
		return schema.ScanReport{}, scan.ErrUnauthorized
	}
	job, results, err := scan.NewController(cl.Scanner).FetchCompleted(ctx, scanID)
	if err != nil {
		return schema.ScanReport{}, err
	}
	r := report.Build(results, ReportOptions(cfg))
	r.Job = &job
	return r, nil
}

// AwaitReport follows an already submitted scan to its report, passing every
// snapshot to onSnapshot. Results are fetched only when the scan completes.
func AwaitReport(ctx context.Context, cfg *contract.Config, cl Clients, scanID int64, onSnapshot func(schema.ScanJob)) (schema.ScanReport, error) {
	if !cfg.Authorizer().Authorized() {
		return schema.ScanReport{}, scan.ErrUnauthorized
	}
	ctrl := scan.NewController(cl.Scanner, scan.WithPollInterval(cfg.PollInterval))
	last, results, err := ctrl.Await(ctx, scanID, onSnapshot)
	if err != nil {
		return schema.ScanReport{}, err
	}
	r := report.Build(results, ReportOptions(cfg))
	r.Job = &last
	return r, nil
}

// ExecuteScan runs a scan of the repository and prints its report.
// It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, repositoryID int64) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	r, err := RunScan(ctx, cfg, cl, repositoryID)
	if err != nil {
		return err
	}
	warnSkipped(ctx, r)
	return outwriter.NewOutWriter().WriteReport(r, cfg)
}

// ExecuteWatch follows the latest scan of the repository and prints its report.
// It serves as the main entry point for the 'watch' command.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, repositoryID int64) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	r, err := WatchScan(ctx, cfg, cl, repositoryID)
	if err != nil {
		return err
	}
	warnSkipped(ctx, r)
	return outwriter.NewOutWriter().WriteReport(r, cfg)
}

// ExecuteResults prints the report of an already completed scan.
// It serves as the main entry point for the 'results' command.
func ExecuteResults(ctx context.Context, cfg *contract.Config, scanID int64) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	r, err := GetScanReport(ctx, cfg, cl, scanID)
	if err != nil {
		return err
	}
	warnSkipped(ctx, r)
	return outwriter.NewOutWriter().WriteReport(r, cfg)
}

// logScanHeader prints a one-line header for a scan command.
func logScanHeader(cfg *contract.Config, verb string, repositoryID int64) {
	_, _ = fmt.Fprintf(os.Stderr, "🔎 %s repository #%d via %s (every %v)\n", verb, repositoryID, cfg.APIURL, cfg.PollInterval)
}

// progressPrinter returns a snapshot callback that prints a progress line to stderr.
func progressPrinter(cfg *contract.Config) func(schema.ScanJob) {
	ow := outwriter.NewOutWriter()
	return func(job schema.ScanJob) {
		ow.WriteSnapshot(job, cfg)
	}
}

// warnSkipped reports records left out of the hierarchy.
func warnSkipped(ctx context.Context, r schema.ScanReport) {
	if len(r.Skipped) == 0 || shouldSuppressHeader(ctx) {
		return
	}
	contract.LogWarn("skipped records", fmt.Errorf("%d records have malformed paths", len(r.Skipped)))
}
