package schema

import "time"

// Custom string types for type safety.
type (
	// SprawlLevel represents the categorical sprawl band of a file or a scan.
	SprawlLevel string

	// ScanStatus represents the lifecycle state of a scan job.
	ScanStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// Dimension represents one of the five sprawl formula dimensions.
	Dimension string
)

// All sprawl levels, ordered from best to worst.
const (
	CleanLevel  SprawlLevel = "clean"
	MildLevel   SprawlLevel = "mild"
	HighLevel   SprawlLevel = "high"
	SevereLevel SprawlLevel = "severe"
)

// All scan statuses reported by the scanner service.
const (
	PendingStatus   ScanStatus = "PENDING"
	RunningStatus   ScanStatus = "RUNNING"
	CompletedStatus ScanStatus = "COMPLETED"
	FailedStatus    ScanStatus = "FAILED"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// Sprawl formula dimensions.
const (
	SizeDimension           Dimension = "N" // normalized LOC
	ComplexityDimension     Dimension = "C" // logical sprawl
	DuplicationDimension    Dimension = "D" // copy-paste sprawl
	ResponsibilityDimension Dimension = "R" // SRP violation
	CouplingDimension       Dimension = "K" // dependency sprawl
)

// Level boundaries on the unscaled sprawl score. Lower bounds are inclusive.
const (
	MildThreshold   = 0.8
	HighThreshold   = 1.2
	SevereThreshold = 1.6
)

// Hierarchy and pruning constants.
const (
	RootName             = "root"
	LeafScoreScale       = 50.0 // leaf score = sprawlScore * 50
	SevereScoreThreshold = 80.0 // scaled score above which a node survives pruning
	SevereSurvivorCap    = 50   // max extra children kept beyond the limit
)

// DefaultPollInterval is the cadence of scan status polling.
const DefaultPollInterval = 2 * time.Second

// AllDimensions lists the formula dimensions in display order.
var AllDimensions = []Dimension{
	SizeDimension,
	ComplexityDimension,
	DuplicationDimension,
	ResponsibilityDimension,
	CouplingDimension,
}

// AllLevels lists the sprawl levels from best to worst.
var AllLevels = []SprawlLevel{CleanLevel, MildLevel, HighLevel, SevereLevel}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSprawlLevels lists all valid sprawl levels.
var ValidSprawlLevels = map[SprawlLevel]struct{}{
	CleanLevel:  {},
	MildLevel:   {},
	HighLevel:   {},
	SevereLevel: {},
}

// ValidScanStatuses lists all valid scan statuses.
var ValidScanStatuses = map[ScanStatus]struct{}{
	PendingStatus:   {},
	RunningStatus:   {},
	CompletedStatus: {},
	FailedStatus:    {},
}

// dimensionNames maps each dimension to its human-readable name.
var dimensionNames = map[Dimension]string{
	SizeDimension:           "Size",
	ComplexityDimension:     "Complexity",
	DuplicationDimension:    "Duplication",
	ResponsibilityDimension: "Responsibility",
	CouplingDimension:       "Coupling",
}
