package quality

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/pkg/models"
)

// CatalogDefinition is the declarative form of a catalog as stored in YAML
// or TOML files. Rules are nested under their category.
type CatalogDefinition struct {
	Name        string               `yaml:"name" toml:"name"`
	Description string               `yaml:"description,omitempty" toml:"description,omitempty"`
	OverallMax  float64              `yaml:"overall_max" toml:"overall_max"`
	Grades      []models.GradeBand   `yaml:"grades" toml:"grades"`
	Categories  []CategoryDefinition `yaml:"categories" toml:"categories"`
}

// CategoryDefinition declares a category and its rules.
type CategoryDefinition struct {
	Name      string           `yaml:"name" toml:"name"`
	Title     string           `yaml:"title,omitempty" toml:"title,omitempty"`
	MaxPoints float64          `yaml:"max_points" toml:"max_points"`
	Rules     []RuleDefinition `yaml:"rules" toml:"rules"`
}

// RuleDefinition declares a rule. Its condition keys sit next to the id.
type RuleDefinition struct {
	ID          string `yaml:"id" toml:"id"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	Remediation string `yaml:"remediation,omitempty" toml:"remediation,omitempty"`
	Condition   `yaml:",inline"`
}

// Condition is one predicate of a rule. Exactly one field must be set;
// all_of, any_of and not nest further conditions.
type Condition struct {
	Files   *FilesCondition   `yaml:"files,omitempty" toml:"files,omitempty"`
	Content *ContentCondition `yaml:"content,omitempty" toml:"content,omitempty"`
	Ratio   *RatioCondition   `yaml:"ratio,omitempty" toml:"ratio,omitempty"`
	YAML    *YAMLCondition    `yaml:"yaml,omitempty" toml:"yaml,omitempty"`
	AllOf   []Condition       `yaml:"all_of,omitempty" toml:"all_of,omitempty"`
	AnyOf   []Condition       `yaml:"any_of,omitempty" toml:"any_of,omitempty"`
	Not     *Condition        `yaml:"not,omitempty" toml:"not,omitempty"`
}

// Definition formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ParseDefinition decodes a catalog definition. Unknown keys are rejected so
// that typos in rule conditions surface instead of silently matching nothing.
func ParseDefinition(data []byte, format string) (*CatalogDefinition, error) {
	def := &CatalogDefinition{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(def); err != nil {
			return nil, fmt.Errorf("%w: yaml: %v", ErrInvalidDefinition, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(def); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				keys := make([]string, 0, len(strict.Errors))
				for _, de := range strict.Errors {
					keys = append(keys, strings.Join(de.Key(), "."))
				}
				return nil, fmt.Errorf("%w: toml: unknown field(s): %s", ErrInvalidDefinition, strings.Join(keys, ", "))
			}
			return nil, fmt.Errorf("%w: toml: %v", ErrInvalidDefinition, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidDefinition, format)
	}
	return def, nil
}

// FormatForPath picks the definition format from a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s: extension must be .yaml, .yml or .toml", ErrInvalidDefinition, path)
}

// LoadDefinition reads and decodes a catalog definition file.
func LoadDefinition(path string) (*CatalogDefinition, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("quality: read catalog %s: %w", path, err)
	}
	def, err := ParseDefinition(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadCatalog reads, decodes and compiles a catalog definition file.
func LoadCatalog(path string) (*Catalog, error) {
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	return def.Compile()
}

// Compile builds the rule predicates and validates the resulting catalog.
// Condition problems are reported together as a *CatalogError wrapping
// ErrInvalidDefinition; structural problems wrap ErrInvalidCatalog.
func (d *CatalogDefinition) Compile() (*Catalog, error) {
	params := CatalogParams{
		Name:        d.Name,
		Description: d.Description,
		OverallMax:  d.OverallMax,
		Grades:      d.Grades,
	}

	var problems []string
	for _, cd := range d.Categories {
		cat := Category{Name: cd.Name, Title: cd.Title, MaxPoints: cd.MaxPoints}
		for _, rd := range cd.Rules {
			pred, err := rd.predicate()
			if err != nil {
				problems = append(problems, fmt.Sprintf("rule %q: %v", rd.ID, err))
			}
			cat.RuleIDs = append(cat.RuleIDs, rd.ID)
			params.Rules = append(params.Rules, Rule{
				ID:          rd.ID,
				Category:    cd.Name,
				Description: rd.Description,
				Remediation: rd.Remediation,
				Predicate:   pred,
			})
		}
		params.Categories = append(params.Categories, cat)
	}
	if len(problems) > 0 {
		return nil, &CatalogError{Catalog: d.Name, Problems: problems, Wrapped: ErrInvalidDefinition}
	}

	return NewCatalog(params)
}

// predicate compiles the condition, recursing into nested ones.
func (c Condition) predicate() (Predicate, error) {
	set := 0
	for _, present := range []bool{
		c.Files != nil, c.Content != nil, c.Ratio != nil, c.YAML != nil,
		c.AllOf != nil, c.AnyOf != nil, c.Not != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of files, content, ratio, yaml, all_of, any_of or not is required (got %d)", set)
	}

	switch {
	case c.Files != nil:
		return FileCount(*c.Files)
	case c.Content != nil:
		return ContentMatch(*c.Content)
	case c.Ratio != nil:
		return FileRatio(*c.Ratio)
	case c.YAML != nil:
		return YAMLDocument(*c.YAML)
	case c.AllOf != nil:
		preds, err := compileConditions("all_of", c.AllOf)
		if err != nil {
			return nil, err
		}
		return AllOf(preds...), nil
	case c.AnyOf != nil:
		preds, err := compileConditions("any_of", c.AnyOf)
		if err != nil {
			return nil, err
		}
		return AnyOf(preds...), nil
	default:
		p, err := c.Not.predicate()
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return Not(p), nil
	}
}

func compileConditions(key string, conds []Condition) ([]Predicate, error) {
	if len(conds) == 0 {
		return nil, fmt.Errorf("%s: at least one condition is required", key)
	}
	preds := make([]Predicate, 0, len(conds))
	for i, cond := range conds {
		p, err := cond.predicate()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}
