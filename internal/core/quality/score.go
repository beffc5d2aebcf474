package quality

import (
	"math"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Outcomes maps rule ids to their predicate result for one corpus.
type Outcomes map[string]bool

// Evaluate runs every rule of the catalog exactly once against c.
func Evaluate(cat *Catalog, c *corpus.Corpus) Outcomes {
	out := make(Outcomes, len(cat.rules))
	for _, r := range cat.Rules() {
		out[r.ID] = r.Predicate(c)
	}
	return out
}

// Satisfied returns the number of rules that held.
func (o Outcomes) Satisfied() int {
	n := 0
	for _, ok := range o {
		if ok {
			n++
		}
	}
	return n
}

// ScoreCategories converts outcomes into one result per category, in catalog
// order. Points are maxPoints * satisfied / total rounded half up to one
// decimal; total always comes from the catalog, never from the corpus.
func ScoreCategories(cat *Catalog, out Outcomes) []models.CategoryResult {
	results := make([]models.CategoryResult, 0, len(cat.categories))
	for _, c := range cat.categories {
		res := models.CategoryResult{
			Category:  c.Name,
			Title:     c.DisplayName(),
			Total:     len(c.RuleIDs),
			MaxPoints: c.MaxPoints,
		}
		for _, id := range c.RuleIDs {
			if out[id] {
				res.Satisfied++
			} else {
				res.Failed = append(res.Failed, id)
			}
		}
		res.Points = categoryPoints(c.MaxPoints, res.Satisfied, res.Total)
		results = append(results, res)
	}
	return results
}

func categoryPoints(maxPoints float64, satisfied, total int) float64 {
	if total == 0 {
		return 0
	}
	if satisfied == total {
		return maxPoints
	}
	return roundHalfUp(maxPoints * float64(satisfied) / float64(total))
}

// roundHalfUp rounds a non-negative value to one decimal, halves upward.
// The epsilon keeps values such as 1.15 (stored as 1.1499...) from rounding
// down.
func roundHalfUp(v float64) float64 {
	return math.Floor(v*10+0.5+1e-9) / 10
}
