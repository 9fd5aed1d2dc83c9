package schema

import "math"

// ClassifyScore maps an unscaled sprawl score to its level.
// Non-finite scores fall through to severe.
func ClassifyScore(score float64) SprawlLevel {
	switch {
	case score < MildThreshold:
		return CleanLevel
	case score < HighThreshold:
		return MildLevel
	case score < SevereThreshold:
		return HighLevel
	default:
		return SevereLevel
	}
}

// IsProblematic reports whether the level counts toward the problematic total.
func (l SprawlLevel) IsProblematic() bool {
	return l == HighLevel || l == SevereLevel
}

// IsTerminal reports whether no further transitions can happen from this status.
func (s ScanStatus) IsTerminal() bool {
	return s == CompletedStatus || s == FailedStatus
}

// IsValid reports whether the status is one of the four known statuses.
func (s ScanStatus) IsValid() bool {
	_, ok := ValidScanStatuses[s]
	return ok
}

// Name returns the human-readable name of the dimension.
func (d Dimension) Name() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return string(d)
}

// Value returns the record's value for the given dimension.
func (r FileDebtRecord) Value(d Dimension) float64 {
	switch d {
	case SizeDimension:
		return r.NormalizedLOC
	case ComplexityDimension:
		return r.ComplexityScore
	case DuplicationDimension:
		return r.DuplicationRatio
	case ResponsibilityDimension:
		return r.ResponsibilityScore
	case CouplingDimension:
		return r.CouplingScore
	default:
		return 0
	}
}

// LeafSize returns the leaf size for a line count, never less than 1.
func LeafSize(loc int) int {
	return max(loc, 1)
}

// LeafScore scales a sprawl score into the hierarchy's score range.
func LeafScore(sprawlScore float64) float64 {
	return sprawlScore * LeafScoreScale
}

// GaugeProgress maps an average score onto [0, 1] for gauge rendering.
func GaugeProgress(averageScore float64) float64 {
	if math.IsNaN(averageScore) || averageScore <= 0 {
		return 0
	}
	return math.Min(averageScore/2, 1)
}

// Progress returns analyzed/total as a fraction when both counts are known.
func (j ScanJob) Progress() (float64, bool) {
	if j.TotalFiles == nil || j.AnalyzedFiles == nil || *j.TotalFiles <= 0 {
		return 0, false
	}
	return float64(*j.AnalyzedFiles) / float64(*j.TotalFiles), true
}
