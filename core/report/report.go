// Package report derives the presentation model of a completed scan.
package report

import (
	"github.com/sprawl-dev/sprawl/core/agg"
	"github.com/sprawl-dev/sprawl/core/algo"
	"github.com/sprawl-dev/sprawl/core/tree"
	"github.com/sprawl-dev/sprawl/schema"
)

// Options controls the shape of a report.
type Options struct {
	TreeLimit int // breadth of the pruned tree's top level, <= 0 disables pruning
	TopFiles  int // rows in the ranked file list, <= 0 keeps all
}

// Build runs the aggregation, hierarchy and pruning stages in order over the
// results of one scan. Records with malformed paths are left out of the tree
// and listed in Skipped; they still count toward the summary.
func Build(results schema.ScanResults, opts Options) schema.ScanReport {
	// 1. Aggregate
	summary := agg.Aggregate(results.Metrics)

	// 2. Build the hierarchy
	full, skipped := tree.BuildFromRecords(results.Metrics)

	// 3. Prune for rendering
	pruned := algo.Prune(full, opts.TreeLimit)

	return schema.ScanReport{
		ScanID:        results.ScanID,
		CompletedAt:   results.CompletedAt,
		Summary:       summary,
		Files:         algo.RankFiles(results.Metrics, opts.TopFiles),
		Tree:          pruned,
		TotalTopLevel: len(full.Children),
		HiddenCount:   algo.HiddenCount(full, pruned),
		Skipped:       skipped,
	}
}
