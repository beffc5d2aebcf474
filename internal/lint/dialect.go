package lint

import (
	"regexp"
	"strings"
)

// Dialect describes the surface syntax the heuristics look for. The
// defaults target Dart; other brace-and-semicolon languages can be
// described by swapping the patterns.
type Dialect struct {
	Name string

	// Extensions limits linting to these file extensions.
	Extensions []string

	// CommentPrefixes mark lines skipped by the per-line checks.
	CommentPrefixes []string

	// Terminator ends a statement (";").
	Terminator string

	// ContinuationSuffixes mark a statement that continues on the next line.
	ContinuationSuffixes []string

	// ControlKeywords exempt a line from the termination check.
	ControlKeywords []string

	// ImportPrefix identifies an import directive; ImportPattern is the
	// grammar it must match.
	ImportPrefix  string
	ImportPattern *regexp.Regexp

	// ClassPattern captures class-like declaration names in group 1.
	ClassPattern *regexp.Regexp

	// ComponentMarkers identify a UI component; such files must contain
	// EntryPoint.
	ComponentMarkers []string
	EntryPoint       string

	// TestSuffix exempts test files from the naming check.
	TestSuffix string
}

// DefaultDialect returns the Dart dialect.
func DefaultDialect() Dialect {
	return Dialect{
		Name:            "dart",
		Extensions:      []string{".dart"},
		CommentPrefixes: []string{"//", "/*", "*"},
		Terminator:      ";",
		ContinuationSuffixes: []string{
			",", "(", "[", "+", "-", "*", "/", "%",
			"&&", "||", "?", ":", ".", "=", "=>",
		},
		ControlKeywords: []string{"if", "for", "while", "switch", "try"},
		ImportPrefix:    "import ",
		ImportPattern:   regexp.MustCompile(`^import\s+['"][\w/:.]+['"]`),
		ClassPattern:    regexp.MustCompile(`\bclass\s+([A-Za-z_]\w*)`),
		ComponentMarkers: []string{
			"extends StatelessWidget",
			"extends StatefulWidget",
		},
		EntryPoint: "Widget build(BuildContext context)",
		TestSuffix: "_test",
	}
}

// handles reports whether files with path p are linted under this dialect.
func (d Dialect) handles(p string) bool {
	if len(d.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(p)
	for _, ext := range d.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isComment reports whether a trimmed line is a comment line.
func (d Dialect) isComment(line string) bool {
	for _, p := range d.CommentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// controlPattern matches any control keyword as a whole word.
func (d Dialect) controlPattern() *regexp.Regexp {
	if len(d.ControlKeywords) == 0 {
		return nil
	}
	quoted := make([]string, len(d.ControlKeywords))
	for i, kw := range d.ControlKeywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
