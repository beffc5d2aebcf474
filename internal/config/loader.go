package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/internal/defs"
)

// Loader reads the project configuration file.
// It is thread-safe via sync.RWMutex.
type Loader struct {
	mu             sync.RWMutex
	loadedSections map[string]bool
	source         string
	explicit       string
	logger         *slog.Logger
}

// NewLoader creates a new Loader instance. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// SetPath names an explicit configuration file, which takes precedence
// over CODEGRADE_CONFIG. An empty path restores lookup.
func (l *Loader) SetPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.explicit = path
}

// Load reads the configuration for projectRoot and returns it merged over
// compiled defaults. SetPath or CODEGRADE_CONFIG name an explicit file,
// which must exist. Otherwise .codegrade.yaml and then .codegrade.toml are tried; when
// neither exists the defaults are returned.
func (l *Loader) Load(projectRoot string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loadedSections = make(map[string]bool)
	l.source = ""
	cfg := NewDefaultConfig()

	path, err := resolvePath(projectRoot, l.explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		l.logger.Debug("no configuration file found, using defaults", "root", projectRoot)
		return cfg, nil
	}

	sections, err := decodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	l.source = path
	for _, name := range sections {
		l.loadedSections[name] = true
	}
	l.logger.Debug("configuration loaded", "path", path, "sections", sections)
	return cfg, nil
}

// LoadedSections returns a copy of the map indicating which sections
// were present in the configuration file.
func (l *Loader) LoadedSections() map[string]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]bool, len(l.loadedSections))
	maps.Copy(result, l.loadedSections)
	return result
}

// Source returns the path of the file read by the last Load, or "" when
// only defaults were used.
func (l *Loader) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// resolvePath picks the configuration file for projectRoot.
func resolvePath(projectRoot, explicit string) (string, error) {
	source := "--config"
	if explicit == "" {
		explicit, source = os.Getenv(defs.ConfigEnvVar), defs.ConfigEnvVar
	}
	if explicit != "" {
		explicit = filepath.Clean(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %s=%s: %w", source, explicit, err)
		}
		return explicit, nil
	}

	root := filepath.Clean(projectRoot)
	for _, name := range []string{defs.ConfigYAML, defs.ConfigTOML} {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// decodeFile reads path into cfg and returns the top-level sections present.
func decodeFile(path string, cfg *Config) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var sections []string
	for _, name := range SectionNames {
		if _, ok := raw[name]; ok {
			sections = append(sections, name)
		}
	}
	return sections, nil
}
