package models

// Inventory holds deterministic facts about the scanned project tree.
type Inventory struct {
	Manifest    *Manifest      `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	SourceFiles int            `json:"source_files" yaml:"source_files"`
	Directories map[string]int `json:"directories,omitempty" yaml:"directories,omitempty"`
	KeyFiles    []KeyFile      `json:"key_files" yaml:"key_files"`
	Tests       []TestSuite    `json:"tests" yaml:"tests"`
}

// TotalTests sums test cases across all suites.
func (inv *Inventory) TotalTests() int {
	n := 0
	for _, s := range inv.Tests {
		n += s.Tests
	}
	return n
}

// Manifest summarizes the package manifest (pubspec.yaml).
type Manifest struct {
	Path            string            `json:"path" yaml:"path"`
	Name            string            `json:"name" yaml:"name"`
	Version         string            `json:"version,omitempty" yaml:"version,omitempty"`
	Environment     map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Dependencies    []string          `json:"dependencies" yaml:"dependencies"`
	DevDependencies []string          `json:"dev_dependencies" yaml:"dev_dependencies"`
	TestingDeps     []string          `json:"testing_deps,omitempty" yaml:"testing_deps,omitempty"`
	Error           string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasTestingDeps reports whether any known testing package is declared.
func (m *Manifest) HasTestingDeps() bool {
	return len(m.TestingDeps) > 0
}

// ImportBreakdown counts import directives by origin.
type ImportBreakdown struct {
	Framework int `json:"framework" yaml:"framework"`
	Packages  int `json:"packages" yaml:"packages"`
	Local     int `json:"local" yaml:"local"`
	SDK       int `json:"sdk" yaml:"sdk"`
}

// Total returns the number of imports counted.
func (b ImportBreakdown) Total() int {
	return b.Framework + b.Packages + b.Local + b.SDK
}

// KeyFile describes an entry point or manifest file.
type KeyFile struct {
	Path    string          `json:"path" yaml:"path"`
	Exists  bool            `json:"exists" yaml:"exists"`
	Lines   int             `json:"lines,omitempty" yaml:"lines,omitempty"`
	Imports ImportBreakdown `json:"imports" yaml:"imports"`
}

// TestSuite counts test files, cases and expectations in one suite.
type TestSuite struct {
	Name         string `json:"name" yaml:"name"`
	Files        int    `json:"files" yaml:"files"`
	Tests        int    `json:"tests" yaml:"tests"`
	Expectations int    `json:"expectations" yaml:"expectations"`
}
