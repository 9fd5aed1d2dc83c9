// Package algo has ranking and pruning logic for scan results.
package algo

import (
	"cmp"
	"slices"

	"github.com/sprawl-dev/sprawl/schema"
)

// RankFiles returns the records sorted by sprawl score in descending order,
// truncated to 'limit' entries when limit is positive. Ties keep their input
// order and the input slice is left untouched.
func RankFiles(records []schema.FileDebtRecord, limit int) []schema.FileDebtRecord {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b schema.FileDebtRecord) int {
		return cmp.Compare(b.SprawlScore, a.SprawlScore)
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// FilterByLevel returns the records whose own level is one of the given levels.
func FilterByLevel(records []schema.FileDebtRecord, levels ...schema.SprawlLevel) []schema.FileDebtRecord {
	var out []schema.FileDebtRecord
	for _, r := range records {
		if slices.Contains(levels, r.SprawlLevel) {
			out = append(out, r)
		}
	}
	return out
}
