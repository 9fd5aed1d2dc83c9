package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sprawl-dev/sprawl/core/report"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/internal/outwriter"
	"github.com/sprawl-dev/sprawl/schema"
)

// ErrEmptyResults is returned for a results file with no content.
var ErrEmptyResults = errors.New("results file is empty")

// DecodeResults parses saved scan results. Both the full results object and a
// bare array of file records are accepted.
func DecodeResults(data []byte) (schema.ScanResults, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return schema.ScanResults{}, ErrEmptyResults
	}

	if data[0] == '[' {
		var records []schema.FileDebtRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return schema.ScanResults{}, fmt.Errorf("failed to decode file records: %w", err)
		}
		return schema.ScanResults{Metrics: records}, nil
	}

	var results schema.ScanResults
	if err := json.Unmarshal(data, &results); err != nil {
		return schema.ScanResults{}, fmt.Errorf("failed to decode scan results: %w", err)
	}
	return results, nil
}

// LoadResults reads saved scan results from a file.
func LoadResults(path string) (schema.ScanResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.ScanResults{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	results, err := DecodeResults(data)
	if err != nil {
		return schema.ScanResults{}, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// ExecuteSummarize builds and prints a report from a saved results file
// without contacting the scanner service.
func ExecuteSummarize(ctx context.Context, cfg *contract.Config, path string) error {
	results, err := LoadResults(path)
	if err != nil {
		return err
	}
	r := report.Build(results, ReportOptions(cfg))
	warnSkipped(ctx, r)
	return outwriter.NewOutWriter().WriteReport(r, cfg)
}
