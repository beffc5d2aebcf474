package config

import (
	"slices"

	"github.com/modu-ai/codegrade/internal/defs"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Default value constants to avoid magic numbers and strings.
const (
	DefaultCatalog            = "flutter-ux"
	DefaultMaxRecommendations = 5
	DefaultTimeout            = "2m"
	DefaultMaxFileBytes       = 2 << 20

	DefaultFormat   = models.FormatText
	DefaultMinScore = 0.0

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// NewDefaultConfig returns a Config with all fields set to compiled defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Scan:   NewDefaultScanConfig(),
		Engine: NewDefaultEngineConfig(),
		Output: NewDefaultOutputConfig(),
		System: NewDefaultSystemConfig(),
	}
}

// NewDefaultScanConfig returns a ScanConfig with default values.
func NewDefaultScanConfig() models.ScanConfig {
	return models.ScanConfig{
		Extensions:   slices.Clone(defs.DefaultExtensions),
		ExcludeDirs:  slices.Clone(defs.DefaultExcludeDirs),
		MaxFileBytes: DefaultMaxFileBytes,
	}
}

// NewDefaultEngineConfig returns an EngineConfig with default values.
// Grades stay empty so that the catalog's own grade table applies.
func NewDefaultEngineConfig() models.EngineConfig {
	return models.EngineConfig{
		Catalog:            DefaultCatalog,
		MaxRecommendations: DefaultMaxRecommendations,
		Timeout:            DefaultTimeout,
		Inventory:          true,
	}
}

// NewDefaultOutputConfig returns an OutputConfig with default values.
func NewDefaultOutputConfig() models.OutputConfig {
	return models.OutputConfig{
		Format:   DefaultFormat,
		MinScore: DefaultMinScore,
	}
}

// NewDefaultSystemConfig returns a SystemConfig with default values.
func NewDefaultSystemConfig() models.SystemConfig {
	return models.SystemConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}
