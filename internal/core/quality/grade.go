package quality

import (
	"github.com/modu-ai/codegrade/pkg/models"
)

// Overall is the result folded from category results.
type Overall struct {
	Sum        float64
	Score      float64
	Percentage float64
	Band       models.GradeBand
	Clamped    bool
}

// Aggregate folds category results into an overall score and selects the
// grade band. The overall score never exceeds the catalog maximum; Clamped
// reports that the raw sum had to be capped.
func Aggregate(cat *Catalog, results []models.CategoryResult) Overall {
	var sum float64
	for _, r := range results {
		sum += r.Points
	}
	sum = roundHalfUp(sum)

	agg := Overall{Sum: sum, Score: sum}
	if sum > cat.overallMax {
		agg.Score = cat.overallMax
		agg.Clamped = true
	}
	agg.Percentage = roundHalfUp(agg.Score / cat.overallMax * 100)
	agg.Band = SelectBand(cat.grades, agg.Percentage)
	return agg
}

// SelectBand returns the first band, ordered highest threshold first, whose
// minimum the percentage meets. Bands need not be pre-sorted.
func SelectBand(bands []models.GradeBand, percentage float64) models.GradeBand {
	var (
		best  models.GradeBand
		found bool
	)
	for _, b := range bands {
		if percentage >= b.MinPercentage && (!found || b.MinPercentage > best.MinPercentage) {
			best, found = b, true
		}
	}
	return best
}
