package quality

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/modu-ai/codegrade/internal/corpus"
)

func TestBuiltinNames(t *testing.T) {
	t.Parallel()

	want := []string{"flutter-structure", "flutter-ux"}
	if got := BuiltinNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("BuiltinNames() = %v, want %v", got, want)
	}
}

func TestBuiltin_FlutterUX(t *testing.T) {
	t.Parallel()

	cat, err := Builtin(DefaultCatalog)
	if err != nil {
		t.Fatalf("Builtin(%q) returned unexpected error: %v", DefaultCatalog, err)
	}
	if cat.OverallMax() != 100 {
		t.Errorf("OverallMax() = %v, want 100", cat.OverallMax())
	}

	wantWeights := map[string]float64{
		"material_design":   20,
		"accessibility":     15,
		"performance":       15,
		"animations":        10,
		"theming":           15,
		"responsive_design": 10,
		"user_flows":        15,
	}
	cats := cat.Categories()
	if len(cats) != len(wantWeights) {
		t.Fatalf("Categories() len = %d, want %d", len(cats), len(wantWeights))
	}
	for _, c := range cats {
		if c.MaxPoints != wantWeights[c.Name] {
			t.Errorf("category %s weight = %v, want %v", c.Name, c.MaxPoints, wantWeights[c.Name])
		}
		if len(c.RuleIDs) != 5 {
			t.Errorf("category %s has %d rules, want 5", c.Name, len(c.RuleIDs))
		}
	}

	for _, r := range cat.Rules() {
		if r.Remediation == "" {
			t.Errorf("rule %s has no remediation", r.ID)
		}
	}

	grades := cat.Grades()
	if grades[0].Grade != "A+ (Industrial Grade)" || grades[0].MinPercentage != 90 {
		t.Errorf("top grade = %+v, want A+ (Industrial Grade) at 90", grades[0])
	}
}

func TestBuiltin_FlutterStructure(t *testing.T) {
	t.Parallel()

	cat, err := Builtin("flutter-structure")
	if err != nil {
		t.Fatalf("Builtin(flutter-structure) returned unexpected error: %v", err)
	}
	if got := len(cat.Rules()); got != 8 {
		t.Errorf("Rules() len = %d, want 8", got)
	}

	// Integration tests alone satisfy the test layout rules.
	c := corpus.New([]corpus.FileRecord{
		{Path: "lib/main.dart", Content: "void main() {}", Readable: true},
		{Path: "integration_test/app_test.dart", Content: "void main() {}", Readable: true},
	})
	out := Evaluate(cat, c)
	if !out["test_directory"] || !out["lib_and_test_layout"] {
		t.Errorf("outcomes = %v, want test_directory and lib_and_test_layout satisfied", out)
	}

	libOnly := Evaluate(cat, corpus.New([]corpus.FileRecord{
		{Path: "lib/main.dart", Content: "void main() {}", Readable: true},
	}))
	if libOnly["test_directory"] || libOnly["lib_and_test_layout"] {
		t.Errorf("outcomes without tests = %v", libOnly)
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Builtin("fluter-ux")
	if !errors.Is(err, ErrUnknownCatalog) {
		t.Fatalf("Builtin(fluter-ux) error = %v, want ErrUnknownCatalog", err)
	}
	if !strings.Contains(err.Error(), `did you mean "flutter-ux"`) {
		t.Errorf("error = %q, want suggestion flutter-ux", err.Error())
	}
}

func TestBuiltin_FreshInstances(t *testing.T) {
	t.Parallel()

	a, err := Builtin(DefaultCatalog)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Builtin(DefaultCatalog)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("Builtin() returned a shared instance")
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	candidates := []string{"flutter-structure", "flutter-ux"}
	if got := Suggest("structure", candidates); got != "flutter-structure" {
		t.Errorf("Suggest(structure) = %q, want flutter-structure", got)
	}
	if got := Suggest("zzz", candidates); got != "" {
		t.Errorf("Suggest(zzz) = %q, want empty", got)
	}
	if got := Suggest("", candidates); got != "" {
		t.Errorf("Suggest(\"\") = %q, want empty", got)
	}
}
