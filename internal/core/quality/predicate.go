package quality

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/internal/corpus"
)

// FilesCondition requires every glob to match at least Min files. Unreadable
// files count: the condition is about existence, not content.
type FilesCondition struct {
	Glob  string   `yaml:"glob,omitempty" toml:"glob,omitempty"`
	Globs []string `yaml:"globs,omitempty" toml:"globs,omitempty"`
	Min   int      `yaml:"min,omitempty" toml:"min,omitempty"`
}

// patterns returns Glob and Globs combined.
func (f FilesCondition) patterns() []string {
	var out []string
	if f.Glob != "" {
		out = append(out, f.Glob)
	}
	return append(out, f.Globs...)
}

// ContentCondition holds when some readable file matching Glob contains every
// All substring, at least one Any substring (when given) and at least
// MinMatches matches of Regex (when given). An empty Glob selects every file.
type ContentCondition struct {
	Glob       string   `yaml:"glob,omitempty" toml:"glob,omitempty"`
	All        []string `yaml:"all,omitempty" toml:"all,omitempty"`
	Any        []string `yaml:"any,omitempty" toml:"any,omitempty"`
	Regex      string   `yaml:"regex,omitempty" toml:"regex,omitempty"`
	MinMatches int      `yaml:"min_matches,omitempty" toml:"min_matches,omitempty"`
	IgnoreCase bool     `yaml:"ignore_case,omitempty" toml:"ignore_case,omitempty"`
}

// RatioCondition compares the counts of two file sets. A zero denominator
// fails the condition.
type RatioCondition struct {
	Numerator   string  `yaml:"numerator" toml:"numerator"`
	Denominator string  `yaml:"denominator" toml:"denominator"`
	Min         float64 `yaml:"min" toml:"min"`
}

// YAMLCondition holds when some readable file matching Glob parses as a YAML
// mapping that has every Require key path and, when given, at least one
// AnyKey path. Key paths are dot separated ("dev_dependencies.mocktail").
type YAMLCondition struct {
	Glob    string   `yaml:"glob" toml:"glob"`
	Require []string `yaml:"require,omitempty" toml:"require,omitempty"`
	AnyKey  []string `yaml:"any_key,omitempty" toml:"any_key,omitempty"`
}

// FileCount builds a predicate from a FilesCondition.
func FileCount(cond FilesCondition) (Predicate, error) {
	patterns := cond.patterns()
	if len(patterns) == 0 {
		return nil, fmt.Errorf("files: at least one glob is required")
	}
	for _, p := range patterns {
		if err := corpus.ValidatePattern(p); err != nil {
			return nil, err
		}
	}
	minFiles := max(cond.Min, 1)

	return func(c *corpus.Corpus) bool {
		for _, p := range patterns {
			if c.Count(p) < minFiles {
				return false
			}
		}
		return true
	}, nil
}

// ContentMatch builds a predicate from a ContentCondition.
func ContentMatch(cond ContentCondition) (Predicate, error) {
	if len(cond.All) == 0 && len(cond.Any) == 0 && cond.Regex == "" {
		return nil, fmt.Errorf("content: one of all, any or regex is required")
	}
	if cond.Glob != "" {
		if err := corpus.ValidatePattern(cond.Glob); err != nil {
			return nil, err
		}
	}

	var re *regexp.Regexp
	if cond.Regex != "" {
		expr := cond.Regex
		if cond.IgnoreCase {
			expr = "(?i)" + expr
		}
		var err error
		if re, err = regexp.Compile(expr); err != nil {
			return nil, fmt.Errorf("content: regex %q: %w", cond.Regex, err)
		}
	}

	all := foldAll(cond.All, cond.IgnoreCase)
	anyOf := foldAll(cond.Any, cond.IgnoreCase)
	minMatches := max(cond.MinMatches, 1)

	return func(c *corpus.Corpus) bool {
		for _, f := range c.Readable() {
			if cond.Glob != "" && !corpus.Match(cond.Glob, f.Path) {
				continue
			}
			content := f.Content
			if cond.IgnoreCase {
				content = strings.ToLower(content)
			}
			if !containsAll(content, all) {
				continue
			}
			if len(anyOf) > 0 && !containsAny(content, anyOf) {
				continue
			}
			if re != nil && len(re.FindAllStringIndex(f.Content, minMatches)) < minMatches {
				continue
			}
			return true
		}
		return false
	}, nil
}

// FileRatio builds a predicate from a RatioCondition.
func FileRatio(cond RatioCondition) (Predicate, error) {
	for _, p := range []string{cond.Numerator, cond.Denominator} {
		if err := corpus.ValidatePattern(p); err != nil {
			return nil, fmt.Errorf("ratio: %w", err)
		}
	}
	if cond.Min < 0 {
		return nil, fmt.Errorf("ratio: min must not be negative (got %v)", cond.Min)
	}

	return func(c *corpus.Corpus) bool {
		den := c.Count(cond.Denominator)
		if den == 0 {
			return false
		}
		return float64(c.Count(cond.Numerator))/float64(den) >= cond.Min
	}, nil
}

// YAMLDocument builds a predicate from a YAMLCondition.
func YAMLDocument(cond YAMLCondition) (Predicate, error) {
	if err := corpus.ValidatePattern(cond.Glob); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return func(c *corpus.Corpus) bool {
		for _, f := range c.Glob(cond.Glob) {
			if !f.Readable {
				continue
			}
			var doc map[string]any
			if err := yaml.Unmarshal([]byte(f.Content), &doc); err != nil || doc == nil {
				continue
			}
			if !hasAllKeys(doc, cond.Require) {
				continue
			}
			if len(cond.AnyKey) > 0 && !hasAnyKey(doc, cond.AnyKey) {
				continue
			}
			return true
		}
		return false
	}, nil
}

// AllOf holds when every predicate holds.
func AllOf(preds ...Predicate) Predicate {
	return func(c *corpus.Corpus) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// AnyOf holds when at least one predicate holds.
func AnyOf(preds ...Predicate) Predicate {
	return func(c *corpus.Corpus) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(c *corpus.Corpus) bool {
		return !p(c)
	}
}

func foldAll(values []string, lower bool) []string {
	if !lower {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAllKeys(doc map[string]any, paths []string) bool {
	for _, p := range paths {
		if !hasKeyPath(doc, p) {
			return false
		}
	}
	return true
}

func hasAnyKey(doc map[string]any, paths []string) bool {
	for _, p := range paths {
		if hasKeyPath(doc, p) {
			return true
		}
	}
	return false
}

// hasKeyPath walks a dot separated key path through nested mappings.
func hasKeyPath(doc map[string]any, keyPath string) bool {
	var cur any = doc
	for key := range strings.SplitSeq(keyPath, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if cur, ok = m[key]; !ok {
			return false
		}
	}
	return true
}
