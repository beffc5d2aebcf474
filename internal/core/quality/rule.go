package quality

import (
	"github.com/modu-ai/codegrade/internal/corpus"
)

// Predicate decides whether a rule holds for the whole corpus. Predicates
// must be pure: the same corpus always yields the same answer.
type Predicate func(c *corpus.Corpus) bool

// Rule is a named, pattern-based check that belongs to exactly one category.
type Rule struct {
	ID          string
	Category    string
	Description string
	Remediation string
	Predicate   Predicate
}

// Category groups rules under a point weight.
type Category struct {
	Name      string
	Title     string
	MaxPoints float64
	RuleIDs   []string
}

// DisplayName returns the title, falling back to the name.
func (c Category) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}
