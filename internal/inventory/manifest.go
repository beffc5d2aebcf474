package inventory

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

// TestingPackages are dependency names that indicate a test setup.
var TestingPackages = []string{"flutter_test", "integration_test", "mockito", "mocktail", "patrol"}

// pubspec is the subset of pubspec.yaml the inventory reads. Dependency
// values vary in shape (version string, path or git mapping, null), so only
// the keys are used.
type pubspec struct {
	Name            string         `yaml:"name"`
	Version         string         `yaml:"version"`
	Environment     map[string]any `yaml:"environment"`
	Dependencies    map[string]any `yaml:"dependencies"`
	DevDependencies map[string]any `yaml:"dev_dependencies"`
}

func manifestFromRecord(rec corpus.FileRecord) *models.Manifest {
	if !rec.Readable {
		return &models.Manifest{Path: rec.Path, Error: "unreadable: " + rec.Reason}
	}
	m, err := ParseManifest([]byte(rec.Content))
	if err != nil {
		return &models.Manifest{Path: rec.Path, Error: err.Error()}
	}
	m.Path = rec.Path
	return m
}

// ParseManifest summarizes pubspec.yaml content.
func ParseManifest(data []byte) (*models.Manifest, error) {
	var ps pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m := &models.Manifest{
		Name:            ps.Name,
		Version:         ps.Version,
		Dependencies:    sortedKeys(ps.Dependencies),
		DevDependencies: sortedKeys(ps.DevDependencies),
	}
	if len(ps.Environment) > 0 {
		m.Environment = make(map[string]string, len(ps.Environment))
		for k, v := range ps.Environment {
			m.Environment[k] = fmt.Sprint(v)
		}
	}
	for _, name := range TestingPackages {
		if slices.Contains(m.Dependencies, name) || slices.Contains(m.DevDependencies, name) {
			m.TestingDeps = append(m.TestingDeps, name)
		}
	}
	return m, nil
}
