package quality

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/modu-ai/codegrade/pkg/models"
)

// weightTolerance absorbs float noise when comparing summed weights.
const weightTolerance = 1e-9

// CatalogParams describes a catalog before validation.
type CatalogParams struct {
	Name        string
	Description string
	OverallMax  float64
	Categories  []Category
	Rules       []Rule
	Grades      []models.GradeBand
}

// Catalog is a validated, immutable set of categories, rules and grade bands.
type Catalog struct {
	name        string
	description string
	overallMax  float64
	categories  []Category
	rules       map[string]Rule
	grades      []models.GradeBand
}

// NewCatalog validates params and builds a Catalog.
//
// Validation runs once, before any corpus is scanned, and reports every
// problem at once through a *CatalogError wrapping ErrInvalidCatalog.
func NewCatalog(p CatalogParams) (*Catalog, error) {
	problems := validateStructure(p)
	problems = append(problems, validateGrades(p.Grades)...)
	if len(problems) > 0 {
		return nil, &CatalogError{Catalog: p.Name, Problems: problems, Wrapped: ErrInvalidCatalog}
	}

	c := &Catalog{
		name:        p.Name,
		description: p.Description,
		overallMax:  p.OverallMax,
		categories:  make([]Category, len(p.Categories)),
		rules:       make(map[string]Rule, len(p.Rules)),
		grades:      sortedGrades(p.Grades),
	}
	for i, cat := range p.Categories {
		cat.RuleIDs = slices.Clone(cat.RuleIDs)
		c.categories[i] = cat
	}
	for _, r := range p.Rules {
		c.rules[r.ID] = r
	}
	return c, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Description returns the catalog description.
func (c *Catalog) Description() string { return c.description }

// OverallMax returns the declared maximum score.
func (c *Catalog) OverallMax() float64 { return c.overallMax }

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.RuleIDs = slices.Clone(cat.RuleIDs)
		out[i] = cat
	}
	return out
}

// Rules returns every rule in catalog order: categories in declaration order,
// rules in the order their category lists them.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, cat := range c.categories {
		for _, id := range cat.RuleIDs {
			out = append(out, c.rules[id])
		}
	}
	return out
}

// Rule returns the rule with the given id.
func (c *Catalog) Rule(id string) (Rule, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// LookupRule returns the rule with the given id or an ErrUnknownRule error
// that suggests the closest id.
func (c *Catalog) LookupRule(id string) (Rule, error) {
	if r, ok := c.rules[id]; ok {
		return r, nil
	}
	ids := make([]string, 0, len(c.rules))
	for _, r := range c.Rules() {
		ids = append(ids, r.ID)
	}
	return Rule{}, notFoundError(ErrUnknownRule, id, ids)
}

// Grades returns the grade bands ordered by minimum percentage, highest first.
func (c *Catalog) Grades() []models.GradeBand {
	return slices.Clone(c.grades)
}

// WithGrades returns a copy of the catalog using the given grade bands.
func (c *Catalog) WithGrades(bands []models.GradeBand) (*Catalog, error) {
	if problems := validateGrades(bands); len(problems) > 0 {
		return nil, &CatalogError{Catalog: c.name, Problems: problems, Wrapped: ErrInvalidCatalog}
	}
	cp := *c
	cp.grades = sortedGrades(bands)
	return &cp, nil
}

func validateStructure(p CatalogParams) []string {
	var problems []string

	if p.Name == "" {
		problems = append(problems, "catalog name is empty")
	}
	if p.OverallMax <= 0 {
		problems = append(problems, fmt.Sprintf("overall maximum must be positive (got %s)", formatPoints(p.OverallMax)))
	}
	if len(p.Categories) == 0 {
		problems = append(problems, "catalog has no categories")
	}

	defined := make(map[string]Rule, len(p.Rules))
	for _, r := range p.Rules {
		switch {
		case r.ID == "":
			problems = append(problems, "rule with empty id")
			continue
		case r.Predicate == nil:
			problems = append(problems, fmt.Sprintf("rule %q has no predicate", r.ID))
		}
		if _, dup := defined[r.ID]; dup {
			problems = append(problems, fmt.Sprintf("rule %q defined more than once", r.ID))
			continue
		}
		defined[r.ID] = r
	}

	owner := make(map[string]string, len(p.Rules))
	seenCategory := make(map[string]bool, len(p.Categories))
	var sum float64
	for _, cat := range p.Categories {
		if cat.Name == "" {
			problems = append(problems, "category with empty name")
		} else if seenCategory[cat.Name] {
			problems = append(problems, fmt.Sprintf("category %q declared more than once", cat.Name))
		}
		seenCategory[cat.Name] = true

		if cat.MaxPoints <= 0 {
			problems = append(problems, fmt.Sprintf("category %q: max points must be positive (got %s)", cat.Name, formatPoints(cat.MaxPoints)))
		}
		if len(cat.RuleIDs) == 0 {
			problems = append(problems, fmt.Sprintf("category %q has no rules", cat.Name))
		}
		sum += cat.MaxPoints

		for _, id := range cat.RuleIDs {
			if prev, dup := owner[id]; dup {
				problems = append(problems, fmt.Sprintf("rule %q listed in categories %q and %q", id, prev, cat.Name))
				continue
			}
			owner[id] = cat.Name

			r, ok := defined[id]
			if !ok {
				problems = append(problems, fmt.Sprintf("category %q lists undefined rule %q", cat.Name, id))
				continue
			}
			if r.Category != cat.Name {
				problems = append(problems, fmt.Sprintf("rule %q declares category %q but is listed in %q", id, r.Category, cat.Name))
			}
		}
	}

	for _, r := range p.Rules {
		if _, ok := owner[r.ID]; r.ID != "" && !ok {
			problems = append(problems, fmt.Sprintf("rule %q is not listed in any category", r.ID))
		}
	}

	if len(p.Categories) > 0 && p.OverallMax > 0 && math.Abs(sum-p.OverallMax) > weightTolerance {
		problems = append(problems, fmt.Sprintf("category weights sum to %s, declared maximum is %s",
			formatPoints(sum), formatPoints(p.OverallMax)))
	}

	return problems
}

func validateGrades(bands []models.GradeBand) []string {
	if len(bands) == 0 {
		return []string{"grade table is empty"}
	}

	var problems []string
	seen := make(map[float64]bool, len(bands))
	hasFloor := false
	for _, b := range bands {
		if b.MinPercentage < 0 || b.MinPercentage > 100 {
			problems = append(problems, fmt.Sprintf("grade %q: min percentage %s outside [0, 100]", b.Grade, formatPoints(b.MinPercentage)))
		}
		if b.Grade == "" {
			problems = append(problems, fmt.Sprintf("grade band at %s%% has an empty label", formatPoints(b.MinPercentage)))
		}
		if seen[b.MinPercentage] {
			problems = append(problems, fmt.Sprintf("grade threshold %s%% declared more than once", formatPoints(b.MinPercentage)))
		}
		seen[b.MinPercentage] = true
		if b.MinPercentage == 0 {
			hasFloor = true
		}
	}
	if !hasFloor {
		problems = append(problems, "grade table needs a band at 0% so every score maps to a grade")
	}
	return problems
}

func sortedGrades(bands []models.GradeBand) []models.GradeBand {
	out := slices.Clone(bands)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinPercentage > out[j].MinPercentage
	})
	return out
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
