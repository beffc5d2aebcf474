package quality

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

func mustCatalog(t *testing.T, p CatalogParams) *Catalog {
	t.Helper()
	cat, err := NewCatalog(p)
	if err != nil {
		t.Fatalf("NewCatalog() returned unexpected error: %v", err)
	}
	return cat
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{20.0 * 2 / 3, 13.3},
		{20.0 / 3, 6.7},
		{7.5, 7.5},
		{3.75, 3.8},
		{2.25, 2.3},
		{1.15, 1.2},
		{14.94, 14.9},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScoreCategories(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t, twoCategoryParams(35))
	out := Evaluate(cat, corpus.New(nil))
	results := ScoreCategories(cat, out)

	want := []models.CategoryResult{
		{Category: "alpha", Title: "alpha", Satisfied: 1, Total: 3, Points: 6.7, MaxPoints: 20, Failed: []string{"a2", "a3"}},
		{Category: "beta", Title: "beta", Satisfied: 1, Total: 2, Points: 7.5, MaxPoints: 15, Failed: []string{"b2"}},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("ScoreCategories() =\n%+v\nwant\n%+v", results, want)
	}
}

// Partial credit is exact, not integer division: 1 of 3 rules in a
// 20-point category earns 6.7 points rather than 0 or 6.
func TestCategoryPointsBounds(t *testing.T) {
	t.Parallel()

	for _, maxPoints := range []float64{10, 15, 20, 7.5} {
		for total := 1; total <= 7; total++ {
			prev := -1.0
			for satisfied := 0; satisfied <= total; satisfied++ {
				got := categoryPoints(maxPoints, satisfied, total)
				if got < 0 || got > maxPoints {
					t.Errorf("categoryPoints(%v, %d, %d) = %v, outside [0, %v]", maxPoints, satisfied, total, got, maxPoints)
				}
				if got < prev {
					t.Errorf("categoryPoints(%v, %d, %d) = %v, decreased from %v", maxPoints, satisfied, total, got, prev)
				}
				prev = got
			}
			if got := categoryPoints(maxPoints, total, total); got != maxPoints {
				t.Errorf("categoryPoints(%v, all, %d) = %v, want %v", maxPoints, total, got, maxPoints)
			}
		}
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t, twoCategoryParams(35))
	agg := Aggregate(cat, ScoreCategories(cat, Evaluate(cat, corpus.New(nil))))

	if agg.Score != 14.2 {
		t.Errorf("Score = %v, want 14.2", agg.Score)
	}
	if agg.Percentage != 40.6 {
		t.Errorf("Percentage = %v, want 40.6", agg.Percentage)
	}
	if agg.Band.Grade != "C" {
		t.Errorf("Band.Grade = %q, want C", agg.Band.Grade)
	}
	if agg.Clamped {
		t.Error("Clamped = true, want false")
	}
}

func TestAggregate_AllSatisfied(t *testing.T) {
	t.Parallel()

	p := twoCategoryParams(35)
	for i := range p.Rules {
		p.Rules[i].Predicate = always(true)
	}
	cat := mustCatalog(t, p)
	out := Evaluate(cat, corpus.New(nil))
	agg := Aggregate(cat, ScoreCategories(cat, out))

	if agg.Score != cat.OverallMax() {
		t.Errorf("Score = %v, want %v", agg.Score, cat.OverallMax())
	}
	if agg.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100", agg.Percentage)
	}
	if agg.Band.Grade != "A" || agg.Band.Status != "EXCELLENT" {
		t.Errorf("Band = %+v, want top band", agg.Band)
	}
	if recs := Recommend(cat, out, 5); len(recs) != 0 {
		t.Errorf("Recommend() = %q, want none", recs)
	}
}

func TestAggregate_ClampsOverflow(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t, twoCategoryParams(35))
	results := []models.CategoryResult{
		{Category: "alpha", Points: 30, MaxPoints: 20},
		{Category: "beta", Points: 15, MaxPoints: 15},
	}
	agg := Aggregate(cat, results)
	if !agg.Clamped {
		t.Error("Clamped = false, want true")
	}
	if agg.Score != 35 || agg.Sum != 45 {
		t.Errorf("Score = %v, Sum = %v; want 35 and 45", agg.Score, agg.Sum)
	}
}

func TestSelectBand(t *testing.T) {
	t.Parallel()

	// Deliberately unsorted.
	bands := []models.GradeBand{
		{MinPercentage: 0, Grade: "C"},
		{MinPercentage: 90, Grade: "A"},
		{MinPercentage: 60, Grade: "B"},
	}
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{60, "B"},
		{59.9, "C"},
		{0, "C"},
	}
	for _, tt := range tests {
		if got := SelectBand(bands, tt.pct).Grade; got != tt.want {
			t.Errorf("SelectBand(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

// Turning an unsatisfied rule into a satisfied one never lowers the score.
func TestMonotonicity(t *testing.T) {
	t.Parallel()

	ids := []string{"a1", "a2", "a3", "b1", "b2"}
	for mask := 0; mask < 1<<len(ids); mask++ {
		for bit := range ids {
			if mask&(1<<bit) != 0 {
				continue
			}
			before := scoreForMask(t, ids, mask)
			after := scoreForMask(t, ids, mask|1<<bit)
			if after < before {
				t.Errorf("satisfying %s lowered score from %v to %v (mask %05b)", ids[bit], before, after, mask)
			}
		}
	}
}

func scoreForMask(t *testing.T, ids []string, mask int) float64 {
	t.Helper()
	p := twoCategoryParams(35)
	for i, id := range ids {
		for j := range p.Rules {
			if p.Rules[j].ID == id {
				p.Rules[j].Predicate = always(mask&(1<<i) != 0)
			}
		}
	}
	cat := mustCatalog(t, p)
	return Aggregate(cat, ScoreCategories(cat, Evaluate(cat, corpus.New(nil)))).Score
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t, twoCategoryParams(35))
	out := Evaluate(cat, corpus.New(nil))

	got := Recommend(cat, out, 5)
	want := []string{"fix a2", "fix a3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend() = %q, want %q", got, want)
	}
}

func TestRecommend_Cap(t *testing.T) {
	t.Parallel()

	p := CatalogParams{
		Name:       "many",
		OverallMax: 10,
		Categories: []Category{{Name: "only", MaxPoints: 10}},
		Grades:     defaultBands(),
	}
	for i := range 8 {
		id := fmt.Sprintf("r%d", i)
		p.Categories[0].RuleIDs = append(p.Categories[0].RuleIDs, id)
		p.Rules = append(p.Rules, Rule{ID: id, Category: "only", Remediation: "do " + id, Predicate: always(false)})
	}
	cat := mustCatalog(t, p)
	out := Evaluate(cat, corpus.New(nil))

	got := Recommend(cat, out, 0)
	want := []string{"do r0", "do r1", "do r2", "do r3", "do r4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend(limit 0) = %q, want %q", got, want)
	}
	if got := Recommend(cat, out, 2); len(got) != 2 {
		t.Errorf("Recommend(limit 2) len = %d, want 2", len(got))
	}
}
