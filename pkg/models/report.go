package models

// IssueKind classifies a linter finding.
type IssueKind string

const (
	// IssueError marks a finding that likely breaks the build.
	IssueError IssueKind = "error"

	// IssueWarning marks a convention violation.
	IssueWarning IssueKind = "warning"
)

// IsValid checks whether the IssueKind is a recognized value.
func (k IssueKind) IsValid() bool {
	switch k {
	case IssueError, IssueWarning:
		return true
	}
	return false
}

// Issue is a single linter finding. Line is nil for file-level findings.
type Issue struct {
	File    string    `json:"file" yaml:"file"`
	Line    *int      `json:"line" yaml:"line"`
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Check   string    `json:"check" yaml:"check"`
	Message string    `json:"message" yaml:"message"`
}

// LineNumber returns the 1-based line, or 0 for file-level issues.
func (i Issue) LineNumber() int {
	if i.Line == nil {
		return 0
	}
	return *i.Line
}

// LinePtr returns a pointer to n, for building line-level issues.
func LinePtr(n int) *int {
	return &n
}

// CategoryResult is the outcome of one scoring category.
type CategoryResult struct {
	Category  string   `json:"category" yaml:"category"`
	Title     string   `json:"title" yaml:"title"`
	Satisfied int      `json:"satisfied" yaml:"satisfied"`
	Total     int      `json:"total" yaml:"total"`
	Points    float64  `json:"points" yaml:"points"`
	MaxPoints float64  `json:"max_points" yaml:"max_points"`
	Failed    []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Percentage returns the category score as a percentage of its weight.
func (r CategoryResult) Percentage() float64 {
	if r.MaxPoints <= 0 {
		return 0
	}
	return r.Points / r.MaxPoints * 100
}

// Report is the aggregated result of one analysis run.
type Report struct {
	Catalog         string           `json:"catalog" yaml:"catalog"`
	CategoryResults []CategoryResult `json:"categories" yaml:"categories"`
	OverallScore    float64          `json:"overall_score" yaml:"overall_score"`
	MaxScore        float64          `json:"max_score" yaml:"max_score"`
	Percentage      float64          `json:"percentage" yaml:"percentage"`
	Grade           string           `json:"grade" yaml:"grade"`
	Status          string           `json:"status" yaml:"status"`
	Issues          []Issue          `json:"issues" yaml:"issues"`
	Recommendations []string         `json:"recommendations" yaml:"recommendations"`
	Warnings        []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Incomplete      bool             `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
	FilesScanned    int              `json:"files_scanned" yaml:"files_scanned"`
	UnreadableFiles int              `json:"unreadable_files,omitempty" yaml:"unreadable_files,omitempty"`
	Inventory       *Inventory       `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}

// ErrorCount returns the number of error-kind issues.
func (r *Report) ErrorCount() int {
	return r.countKind(IssueError)
}

// WarningCount returns the number of warning-kind issues.
func (r *Report) WarningCount() int {
	return r.countKind(IssueWarning)
}

// HasErrors reports whether the linter found any error-kind issue.
func (r *Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// MeetsThreshold reports whether the overall percentage reaches minPercentage.
func (r *Report) MeetsThreshold(minPercentage float64) bool {
	return r.Percentage >= minPercentage
}

func (r *Report) countKind(kind IssueKind) int {
	return CountIssues(r.Issues, kind)
}

// CountIssues returns the number of issues of the given kind.
func CountIssues(issues []Issue, kind IssueKind) int {
	n := 0
	for _, is := range issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// LintResult is the outcome of a linter-only run.
type LintResult struct {
	Status       string   `json:"status" yaml:"status"`
	FilesChecked int      `json:"files_checked" yaml:"files_checked"`
	Issues       []Issue  `json:"issues" yaml:"issues"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HasErrors reports whether any error-kind issue was found.
func (r *LintResult) HasErrors() bool {
	return CountIssues(r.Issues, IssueError) > 0
}
