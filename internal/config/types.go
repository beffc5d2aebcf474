package config

import (
	"github.com/modu-ai/codegrade/pkg/models"
)

// Config is the root configuration aggregate. Section types live in
// pkg/models so that reports and other tools can share them.
type Config struct {
	Scan   models.ScanConfig   `yaml:"scan" toml:"scan"`
	Engine models.EngineConfig `yaml:"engine" toml:"engine"`
	Output models.OutputConfig `yaml:"output" toml:"output"`
	System models.SystemConfig `yaml:"system" toml:"system"`
}

// Section names accepted by SetSection and reported by LoadedSections.
const (
	SectionScan   = "scan"
	SectionEngine = "engine"
	SectionOutput = "output"
	SectionSystem = "system"
)

// SectionNames lists every section in file order.
var SectionNames = []string{SectionScan, SectionEngine, SectionOutput, SectionSystem}

// Log levels and formats accepted in the system section.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)
