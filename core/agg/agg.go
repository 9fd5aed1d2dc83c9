// Package agg has aggregation logic for per-file debt records.
package agg

import "github.com/sprawl-dev/sprawl/schema"

// Aggregate computes the scan summary of a set of records in a single pass.
// Empty input yields zero counts, a zero average and the clean level.
// Clean and problematic counts use each record's own level rather than
// reclassifying its score.
func Aggregate(records []schema.FileDebtRecord) schema.ScanSummary {
	summary := schema.ScanSummary{
		FileCount:   len(records),
		LevelCounts: make(map[schema.SprawlLevel]int, len(schema.AllLevels)),
	}
	for _, l := range schema.AllLevels {
		summary.LevelCounts[l] = 0
	}

	// 1. Accumulate totals
	var scoreTotal float64
	dimTotals := make(map[schema.Dimension]float64, len(schema.AllDimensions))
	for _, r := range records {
		scoreTotal += r.SprawlScore
		for _, d := range schema.AllDimensions {
			dimTotals[d] += r.Value(d)
		}
		if _, ok := schema.ValidSprawlLevels[r.SprawlLevel]; ok {
			summary.LevelCounts[r.SprawlLevel]++
		}
		if r.SprawlLevel == schema.CleanLevel {
			summary.CleanCount++
		}
		if r.SprawlLevel.IsProblematic() {
			summary.ProblematicCount++
		}
	}

	// 2. Derive means
	summary.AverageScore = mean(scoreTotal, len(records))
	summary.OverallLevel = schema.ClassifyScore(summary.AverageScore)
	summary.GaugeProgress = schema.GaugeProgress(summary.AverageScore)

	// 3. Build the formula breakdown in display order
	summary.Breakdown = make([]schema.FormulaBreakdown, 0, len(schema.AllDimensions))
	for _, d := range schema.AllDimensions {
		summary.Breakdown = append(summary.Breakdown, schema.FormulaBreakdown{
			Dimension:    d,
			Name:         d.Name(),
			AverageValue: mean(dimTotals[d], len(records)),
		})
	}
	return summary
}

// mean returns total/n, or 0 when n is 0.
func mean(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
