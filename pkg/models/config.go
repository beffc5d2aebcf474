package models

import "time"

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
)

// ValidOutputFormats lists all supported output formats.
var ValidOutputFormats = []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// IsValid checks whether the OutputFormat is a recognized value.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return true
	}
	return false
}

// GradeBand maps a minimum percentage to a grade label and status.
type GradeBand struct {
	MinPercentage float64 `yaml:"min_percentage" toml:"min_percentage" json:"min_percentage"`
	Grade         string  `yaml:"grade" toml:"grade" json:"grade"`
	Status        string  `yaml:"status" toml:"status" json:"status"`
}

// ScanConfig controls which files enter the corpus.
type ScanConfig struct {
	Extensions   []string `yaml:"extensions" toml:"extensions" json:"extensions"`
	ExcludeDirs  []string `yaml:"exclude_dirs" toml:"exclude_dirs" json:"exclude_dirs"`
	Workers      int      `yaml:"workers" toml:"workers" json:"workers"`
	MaxFileBytes int64    `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
}

// EngineConfig controls catalog selection and grading.
type EngineConfig struct {
	Catalog            string      `yaml:"catalog" toml:"catalog" json:"catalog"`
	CatalogFile        string      `yaml:"catalog_file,omitempty" toml:"catalog_file,omitempty" json:"catalog_file,omitempty"`
	MaxRecommendations int         `yaml:"max_recommendations" toml:"max_recommendations" json:"max_recommendations"`
	Timeout            string      `yaml:"timeout" toml:"timeout" json:"timeout"`
	Inventory          bool        `yaml:"inventory" toml:"inventory" json:"inventory"`
	Grades             []GradeBand `yaml:"grades,omitempty" toml:"grades,omitempty" json:"grades,omitempty"`
}

// TimeoutDuration parses Timeout. Empty or invalid values yield 0 (no limit);
// validation rejects invalid values before this is called.
func (e EngineConfig) TimeoutDuration() time.Duration {
	if e.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// OutputConfig controls rendering and exit signaling.
type OutputConfig struct {
	Format      OutputFormat `yaml:"format" toml:"format" json:"format"`
	NoColor     bool         `yaml:"no_color" toml:"no_color" json:"no_color"`
	MinScore    float64      `yaml:"min_score" toml:"min_score" json:"min_score"`
	FailOnError bool         `yaml:"fail_on_error" toml:"fail_on_error" json:"fail_on_error"`
}

// SystemConfig controls logging.
type SystemConfig struct {
	LogLevel  string `yaml:"log_level" toml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format" json:"log_format"`
}
