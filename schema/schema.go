// Package schema has the data models shared by the scan client, the
// aggregation pipeline and the output writers.
package schema

import "time"

// FileDebtRecord is the per-file measurement produced by the scanner service.
// Records are never modified once received.
type FileDebtRecord struct {
	ID                  int64       `json:"id"`
	Path                string      `json:"filePath"`
	LinesOfCode         int         `json:"loc"`
	NormalizedLOC       float64     `json:"normalizedLOC"`       // N
	ComplexityScore     float64     `json:"complexityScore"`     // C
	DuplicationRatio    float64     `json:"duplicationRatio"`    // D
	ResponsibilityScore float64     `json:"responsibilityScore"` // R
	CouplingScore       float64     `json:"couplingScore"`       // K
	SprawlScore         float64     `json:"sprawlScore"`
	SprawlLevel         SprawlLevel `json:"sprawlLevel"`
	TotalDebtScore      float64     `json:"totalDebtScore,omitempty"`
	Details             *DebtFlags  `json:"details,omitempty"`
}

// DebtFlags holds optional qualitative findings for a file.
type DebtFlags struct {
	HasLongFunctions           bool `json:"hasLongFunctions,omitempty"`
	HasDeepNesting             bool `json:"hasDeepNesting,omitempty"`
	HasRepetitivePatterns      bool `json:"hasRepetitivePatterns,omitempty"`
	HasHighCoupling            bool `json:"hasHighCoupling,omitempty"`
	HasTooManyResponsibilities bool `json:"hasTooManyResponsibilities,omitempty"`
}

// ScanJob is a snapshot of a scan as reported by the scanner service.
type ScanJob struct {
	ID             int64      `json:"id"`
	RepositoryID   int64      `json:"repositoryId"`
	Status         ScanStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	StartedAt      *time.Time `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	TotalFiles     *int       `json:"totalFiles,omitempty"`
	AnalyzedFiles  *int       `json:"analyzedFiles,omitempty"`
	AvgSprawlScore *float64   `json:"avgSprawlScore,omitempty"`
	AvgComplexity  *float64   `json:"avgComplexity,omitempty"`
}

// ScanResults is the payload of a completed scan.
type ScanResults struct {
	ScanID      int64            `json:"scanId"`
	CompletedAt time.Time        `json:"completedAt"`
	Metrics     []FileDebtRecord `json:"metrics"`
}

// StartScanResponse is returned by the scanner service when a scan is submitted.
type StartScanResponse struct {
	ScanID int64      `json:"scanId"`
	Status ScanStatus `json:"status"`
}

// Repository is a repository registered with the repository store.
type Repository struct {
	ID           int64     `json:"id"`
	GithubRepoID string    `json:"githubRepoId"`
	Name         string    `json:"name"`
	FullName     string    `json:"fullName"`
	Owner        string    `json:"owner"`
	Private      bool      `json:"private"`
	HTMLURL      string    `json:"htmlUrl"`
	CloneURL     string    `json:"cloneUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RepositoryDetail is a repository together with its scans.
type RepositoryDetail struct {
	Repository
	Scans []ScanJob `json:"scans"`
}

// GithubRepo is a repository visible on the user's GitHub account.
type GithubRepo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        string  `json:"fullName"`
	Owner           string  `json:"owner"`
	Description     *string `json:"description"`
	IsPrivate       bool    `json:"isPrivate"`
	HTMLURL         string  `json:"htmlUrl"`
	CloneURL        string  `json:"cloneUrl"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazersCount"`
	ForksCount      int     `json:"forksCount"`
	UpdatedAt       string  `json:"updatedAt"`
}

// AddRepositoryRequest is the body used to import a GitHub repository.
type AddRepositoryRequest struct {
	GithubRepoID string `json:"githubRepoId"`
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Owner        string `json:"owner"`
	IsPrivate    bool   `json:"isPrivate"`
	HTMLURL      string `json:"htmlUrl"`
	CloneURL     string `json:"cloneUrl"`
}

// FormulaBreakdown is the mean value of one sprawl dimension across a scan.
type FormulaBreakdown struct {
	Dimension    Dimension `json:"dimension"`
	Name         string    `json:"name"`
	AverageValue float64   `json:"averageValue"`
}

// ScanSummary holds the aggregate statistics of a scan.
type ScanSummary struct {
	FileCount        int                 `json:"fileCount"`
	AverageScore     float64             `json:"averageScore"`
	OverallLevel     SprawlLevel         `json:"overallLevel"`
	CleanCount       int                 `json:"cleanCount"`
	ProblematicCount int                 `json:"problematicCount"`
	LevelCounts      map[SprawlLevel]int `json:"levelCounts"`
	GaugeProgress    float64             `json:"gaugeProgress"`
	Breakdown        []FormulaBreakdown  `json:"breakdown"`
}

// ScanReport is the full derived view of a completed scan.
type ScanReport struct {
	ScanID        int64            `json:"scanId"`
	CompletedAt   time.Time        `json:"completedAt"`
	Job           *ScanJob         `json:"job,omitempty"`
	Summary       ScanSummary      `json:"summary"`
	Files         []FileDebtRecord `json:"files"`
	Tree          *TreeNode        `json:"tree"`
	TotalTopLevel int              `json:"totalTopLevel"`
	HiddenCount   int              `json:"hiddenCount"`
	Skipped       []string         `json:"skipped,omitempty"`
}
