package quality

import (
	"errors"
	"strings"
	"testing"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

func always(result bool) Predicate {
	return func(*corpus.Corpus) bool { return result }
}

func defaultBands() []models.GradeBand {
	return []models.GradeBand{
		{MinPercentage: 90, Grade: "A", Status: "EXCELLENT"},
		{MinPercentage: 60, Grade: "B", Status: "OK"},
		{MinPercentage: 0, Grade: "C", Status: "POOR"},
	}
}

// twoCategoryParams builds a 20/15 catalog with the given declared maximum.
func twoCategoryParams(overallMax float64) CatalogParams {
	return CatalogParams{
		Name:       "sample",
		OverallMax: overallMax,
		Categories: []Category{
			{Name: "alpha", MaxPoints: 20, RuleIDs: []string{"a1", "a2", "a3"}},
			{Name: "beta", MaxPoints: 15, RuleIDs: []string{"b1", "b2"}},
		},
		Rules: []Rule{
			{ID: "a1", Category: "alpha", Remediation: "fix a1", Predicate: always(true)},
			{ID: "a2", Category: "alpha", Remediation: "fix a2", Predicate: always(false)},
			{ID: "a3", Category: "alpha", Remediation: "fix a3", Predicate: always(false)},
			{ID: "b1", Category: "beta", Remediation: "fix b1", Predicate: always(true)},
			{ID: "b2", Category: "beta", Predicate: always(false)},
		},
		Grades: defaultBands(),
	}
}

func TestNewCatalog_Valid(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog(twoCategoryParams(35))
	if err != nil {
		t.Fatalf("NewCatalog() returned unexpected error: %v", err)
	}
	if cat.Name() != "sample" {
		t.Errorf("Name() = %q, want %q", cat.Name(), "sample")
	}
	if cat.OverallMax() != 35 {
		t.Errorf("OverallMax() = %v, want 35", cat.OverallMax())
	}

	var ids []string
	for _, r := range cat.Rules() {
		ids = append(ids, r.ID)
	}
	if got := strings.Join(ids, ","); got != "a1,a2,a3,b1,b2" {
		t.Errorf("Rules() order = %s, want a1,a2,a3,b1,b2", got)
	}

	grades := cat.Grades()
	if grades[0].MinPercentage != 90 || grades[len(grades)-1].MinPercentage != 0 {
		t.Errorf("Grades() not sorted highest first: %+v", grades)
	}
}

// Weights 20 + 15 against a declared 40 must fail before any scan.
func TestNewCatalog_WeightSumMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(twoCategoryParams(40))
	if err == nil {
		t.Fatal("NewCatalog() expected error for 20+15 vs 40, got nil")
	}
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("errors.Is(err, ErrInvalidCatalog) = false; err = %v", err)
	}
	var ce *CatalogError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *CatalogError", err)
	}
	if len(ce.Problems) != 1 || !strings.Contains(ce.Problems[0], "sum to 35, declared maximum is 40") {
		t.Errorf("Problems = %q, want a single weight-sum problem", ce.Problems)
	}
}

func TestNewCatalog_StructuralProblems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*CatalogParams)
		want   string
	}{
		{
			name:   "zero weight",
			mutate: func(p *CatalogParams) { p.Categories[1].MaxPoints = 0; p.OverallMax = 20 },
			want:   `category "beta": max points must be positive`,
		},
		{
			name: "empty category",
			mutate: func(p *CatalogParams) {
				p.Categories = append(p.Categories, Category{Name: "gamma", MaxPoints: 5})
				p.OverallMax = 40
			},
			want: `category "gamma" has no rules`,
		},
		{
			name:   "rule in two categories",
			mutate: func(p *CatalogParams) { p.Categories[1].RuleIDs = append(p.Categories[1].RuleIDs, "a1") },
			want:   `rule "a1" listed in categories "alpha" and "beta"`,
		},
		{
			name:   "undefined rule",
			mutate: func(p *CatalogParams) { p.Categories[0].RuleIDs[0] = "zz" },
			want:   `category "alpha" lists undefined rule "zz"`,
		},
		{
			name:   "orphan rule",
			mutate: func(p *CatalogParams) { p.Rules = append(p.Rules, Rule{ID: "c1", Category: "beta", Predicate: always(true)}) },
			want:   `rule "c1" is not listed in any category`,
		},
		{
			name:   "category mismatch",
			mutate: func(p *CatalogParams) { p.Rules[0].Category = "beta" },
			want:   `rule "a1" declares category "beta" but is listed in "alpha"`,
		},
		{
			name:   "duplicate rule",
			mutate: func(p *CatalogParams) { p.Rules = append(p.Rules, p.Rules[0]) },
			want:   `rule "a1" defined more than once`,
		},
		{
			name:   "nil predicate",
			mutate: func(p *CatalogParams) { p.Rules[0].Predicate = nil },
			want:   `rule "a1" has no predicate`,
		},
		{
			name:   "negative maximum",
			mutate: func(p *CatalogParams) { p.OverallMax = -1 },
			want:   "overall maximum must be positive",
		},
		{
			name:   "no floor band",
			mutate: func(p *CatalogParams) { p.Grades = p.Grades[:2] },
			want:   "needs a band at 0%",
		},
		{
			name:   "empty grade table",
			mutate: func(p *CatalogParams) { p.Grades = nil },
			want:   "grade table is empty",
		},
		{
			name:   "band out of range",
			mutate: func(p *CatalogParams) { p.Grades[0].MinPercentage = 120 },
			want:   "outside [0, 100]",
		},
		{
			name:   "duplicate threshold",
			mutate: func(p *CatalogParams) { p.Grades[1].MinPercentage = 90 },
			want:   "threshold 90% declared more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := twoCategoryParams(35)
			tt.mutate(&p)
			_, err := NewCatalog(p)
			if err == nil {
				t.Fatal("NewCatalog() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("errors.Is(err, ErrInvalidCatalog) = false")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestCatalog_WithGrades(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog(twoCategoryParams(35))
	if err != nil {
		t.Fatalf("NewCatalog() returned unexpected error: %v", err)
	}

	custom := []models.GradeBand{
		{MinPercentage: 0, Grade: "fail", Status: "RED"},
		{MinPercentage: 50, Grade: "pass", Status: "GREEN"},
	}
	updated, err := cat.WithGrades(custom)
	if err != nil {
		t.Fatalf("WithGrades() returned unexpected error: %v", err)
	}
	if got := updated.Grades()[0].Grade; got != "pass" {
		t.Errorf("updated Grades()[0] = %q, want pass", got)
	}
	if got := cat.Grades()[0].Grade; got != "A" {
		t.Errorf("original catalog modified: Grades()[0] = %q, want A", got)
	}

	if _, err := cat.WithGrades([]models.GradeBand{{MinPercentage: 50, Grade: "x"}}); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("WithGrades(no floor) error = %v, want ErrInvalidCatalog", err)
	}
}

func TestCatalog_LookupRule(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog(twoCategoryParams(35))
	if err != nil {
		t.Fatalf("NewCatalog() returned unexpected error: %v", err)
	}
	if _, err := cat.LookupRule("b1"); err != nil {
		t.Errorf("LookupRule(b1) returned unexpected error: %v", err)
	}
	_, err = cat.LookupRule("b")
	if !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("LookupRule(b) error = %v, want ErrUnknownRule", err)
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, want a suggestion", err.Error())
	}
	_, err = cat.LookupRule("zz")
	if !strings.Contains(err.Error(), "available: a1, a2, a3, b1, b2") {
		t.Errorf("error = %q, want the list of rule ids", err.Error())
	}
}

func TestCatalog_CategoriesAreCopies(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog(twoCategoryParams(35))
	if err != nil {
		t.Fatalf("NewCatalog() returned unexpected error: %v", err)
	}
	cats := cat.Categories()
	cats[0].RuleIDs[0] = "mutated"
	if cat.Categories()[0].RuleIDs[0] != "a1" {
		t.Error("Categories() exposed internal rule id slice")
	}
}
