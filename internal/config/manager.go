package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/internal/defs"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Environment variables that override file values.
const (
	EnvCatalog   = "CODEGRADE_CATALOG"
	EnvFormat    = "CODEGRADE_FORMAT"
	EnvLogLevel  = "CODEGRADE_LOG_LEVEL"
	EnvLogFormat = "CODEGRADE_LOG_FORMAT"
	EnvNoColor   = "CODEGRADE_NO_COLOR"
	EnvMinScore  = "CODEGRADE_MIN_SCORE"

	// EnvNoColorStandard is the cross-tool convention: any non-empty value
	// disables color.
	EnvNoColorStandard = "NO_COLOR"
)

// managerState represents the lifecycle state of the Manager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// @MX:ANCHOR: Manager is the single entry point for configuration access; call Load() before use.
// Manager provides thread-safe configuration management.
type Manager struct {
	mu             sync.RWMutex
	config         *Config
	root           string
	state          managerState
	loader         *Loader
	loadedSections map[string]bool
}

// NewManager creates a new Manager in uninitialized state.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		loader: NewLoader(logger),
		state:  stateUninitialized,
	}
}

// SetPath names an explicit configuration file for the next Load. Save
// writes back to it.
func (m *Manager) SetPath(path string) {
	m.loader.SetPath(path)
}

// @MX:NOTE: precedence is compiled defaults, then the project file, then CODEGRADE_* variables.
// Load reads configuration for projectRoot, applies environment overrides
// and validates the result.
func (m *Manager) Load(projectRoot string) (*Config, error) {
	return m.load(projectRoot, true)
}

// LoadFile reads compiled defaults and the configuration file only. The
// environment is ignored, so a later Save writes back what the project
// declares rather than what the current shell sets.
func (m *Manager) LoadFile(projectRoot string) (*Config, error) {
	return m.load(projectRoot, false)
}

func (m *Manager) load(projectRoot string, withEnv bool) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.loader.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	m.loadedSections = m.loader.LoadedSections()

	var errs []ValidationError
	if withEnv {
		errs = applyEnvOverrides(cfg)
	}
	if err := Validate(cfg); err != nil {
		var ve *ValidationErrors
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	m.config = cfg
	m.root = projectRoot
	m.state = stateInitialized
	return cfg, nil
}

// Get returns a copy of the in-memory configuration for editing; commit
// changes with SetSection. Returns nil before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil
	}
	cfg := *m.config
	cfg.Scan.Extensions = slices.Clone(cfg.Scan.Extensions)
	cfg.Scan.ExcludeDirs = slices.Clone(cfg.Scan.ExcludeDirs)
	cfg.Engine.Grades = slices.Clone(cfg.Engine.Grades)
	return &cfg
}

// LoadedSections reports which sections came from the configuration file.
func (m *Manager) LoadedSections() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.loadedSections))
	maps.Copy(out, m.loadedSections)
	return out
}

// Path returns the file Save writes to: the file that was loaded, or
// .codegrade.yaml at the project root.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathLocked()
}

func (m *Manager) pathLocked() string {
	if src := m.loader.Source(); src != "" {
		return src
	}
	return filepath.Join(filepath.Clean(m.root), defs.ConfigYAML)
}

// SetSection replaces a named configuration section in memory. Save
// persists it.
func (m *Manager) SetSection(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}

	switch name {
	case SectionScan:
		v, ok := value.(models.ScanConfig)
		if !ok {
			return fmt.Errorf("%w: expected ScanConfig for section %q", ErrSectionTypeMismatch, name)
		}
		m.config.Scan = v
	case SectionEngine:
		v, ok := value.(models.EngineConfig)
		if !ok {
			return fmt.Errorf("%w: expected EngineConfig for section %q", ErrSectionTypeMismatch, name)
		}
		m.config.Engine = v
	case SectionOutput:
		v, ok := value.(models.OutputConfig)
		if !ok {
			return fmt.Errorf("%w: expected OutputConfig for section %q", ErrSectionTypeMismatch, name)
		}
		m.config.Output = v
	case SectionSystem:
		v, ok := value.(models.SystemConfig)
		if !ok {
			return fmt.Errorf("%w: expected SystemConfig for section %q", ErrSectionTypeMismatch, name)
		}
		m.config.System = v
	default:
		return ErrSectionNotFound
	}
	return nil
}

// Save validates the in-memory configuration and writes it atomically to
// Path(), as TOML when that path ends in .toml and as YAML otherwise.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}
	if err := Validate(m.config); err != nil {
		return err
	}

	path := m.pathLocked()
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(m.config)
	} else {
		data, err = yaml.Marshal(m.config)
	}
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return atomicWrite(path, data)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have higher priority than file-based values.
func applyEnvOverrides(cfg *Config) []ValidationError {
	var errs []ValidationError

	if catalog := os.Getenv(EnvCatalog); catalog != "" {
		cfg.Engine.Catalog = catalog
	}
	if format := os.Getenv(EnvFormat); format != "" {
		cfg.Output.Format = models.OutputFormat(strings.ToLower(format))
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.System.LogLevel = strings.ToLower(level)
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.System.LogFormat = strings.ToLower(format)
	}
	if noColor := os.Getenv(EnvNoColor); noColor == "true" || noColor == "1" {
		cfg.Output.NoColor = true
	}
	if os.Getenv(EnvNoColorStandard) != "" {
		cfg.Output.NoColor = true
	}
	if raw := os.Getenv(EnvMinScore); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   EnvMinScore,
				Message: "must be a number",
				Value:   raw,
				Wrapped: ErrInvalidConfig,
			})
		} else {
			cfg.Output.MinScore = v
		}
	}
	return errs
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".codegrade-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
