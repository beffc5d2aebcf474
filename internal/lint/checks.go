package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Check names reported in Issue.Check.
const (
	CheckBraceBalance         = "brace-balance"
	CheckStatementTermination = "statement-termination"
	CheckImportShape          = "import-shape"
	CheckImportTerminator     = "import-terminator"
	CheckFileNaming           = "file-naming"
	CheckEntryPoint           = "component-entry-point"
)

// excerptWidth bounds the source excerpt quoted in messages, in terminal cells.
const excerptWidth = 50

// assignmentPattern matches an assignment-shaped line: a word character,
// "=", then a value that is not "=" and contains no ";" or "{".
var assignmentPattern = regexp.MustCompile(`\w\s*=\s*[^=;{][^;{]*$`)

// Checker inspects one readable file and reports issues. Implementations
// must be stateless across files so that a parser-backed checker can replace
// a heuristic one without changing the report shape.
type Checker interface {
	Name() string
	Check(rec corpus.FileRecord) []models.Issue
}

// DefaultCheckers returns the five heuristics for a dialect in report order.
func DefaultCheckers(d Dialect) []Checker {
	return []Checker{
		&BraceBalance{dialect: d},
		NewStatementTermination(d),
		&ImportShape{dialect: d},
		&FileNaming{dialect: d},
		&EntryPoint{dialect: d},
	}
}

// --- per-line checks ---

// BraceBalance flags lines whose opening and closing braces differ by more
// than one.
type BraceBalance struct {
	dialect Dialect
}

// Name implements Checker.
func (c *BraceBalance) Name() string { return CheckBraceBalance }

// Check implements Checker.
func (c *BraceBalance) Check(rec corpus.FileRecord) []models.Issue {
	var issues []models.Issue
	forEachCodeLine(rec, c.dialect, func(n int, line string) {
		diff := strings.Count(line, "{") - strings.Count(line, "}")
		if diff > 1 || diff < -1 {
			issues = append(issues, lineIssue(rec, n, models.IssueError, CheckBraceBalance,
				"Potential brace mismatch: "+excerpt(line)))
		}
	})
	return issues
}

// StatementTermination flags assignment-shaped lines that neither end with
// the terminator nor continue on the next line.
type StatementTermination struct {
	dialect Dialect
	control *regexp.Regexp
}

// NewStatementTermination creates the termination check for a dialect.
func NewStatementTermination(d Dialect) *StatementTermination {
	return &StatementTermination{dialect: d, control: d.controlPattern()}
}

// Name implements Checker.
func (c *StatementTermination) Name() string { return CheckStatementTermination }

// Check implements Checker.
func (c *StatementTermination) Check(rec corpus.FileRecord) []models.Issue {
	var issues []models.Issue
	forEachCodeLine(rec, c.dialect, func(n int, line string) {
		if strings.HasSuffix(line, c.dialect.Terminator) || strings.HasSuffix(line, "}") {
			return
		}
		if strings.HasPrefix(line, c.dialect.ImportPrefix) {
			return
		}
		if !assignmentPattern.MatchString(line) {
			return
		}
		for _, suffix := range c.dialect.ContinuationSuffixes {
			if strings.HasSuffix(line, suffix) {
				return
			}
		}
		if strings.Contains(line, "=>") || (c.control != nil && c.control.MatchString(line)) {
			return
		}
		issues = append(issues, lineIssue(rec, n, models.IssueError, CheckStatementTermination,
			fmt.Sprintf("Missing %q: %s", c.dialect.Terminator, excerpt(line))))
	})
	return issues
}

// ImportShape flags import directives that do not match the import grammar
// and, separately, those that lack the terminator.
type ImportShape struct {
	dialect Dialect
}

// Name implements Checker.
func (c *ImportShape) Name() string { return CheckImportShape }

// Check implements Checker.
func (c *ImportShape) Check(rec corpus.FileRecord) []models.Issue {
	if c.dialect.ImportPrefix == "" {
		return nil
	}
	var issues []models.Issue
	for i, raw := range rec.Lines() {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, c.dialect.ImportPrefix) {
			continue
		}
		if c.dialect.ImportPattern != nil && !c.dialect.ImportPattern.MatchString(line) {
			issues = append(issues, lineIssue(rec, i+1, models.IssueError, CheckImportShape,
				"Invalid import format: "+excerpt(line)))
		}
		if !strings.HasSuffix(line, c.dialect.Terminator) {
			issues = append(issues, lineIssue(rec, i+1, models.IssueError, CheckImportTerminator,
				fmt.Sprintf("Missing %q in import: %s", c.dialect.Terminator, excerpt(line))))
		}
	}
	return issues
}

// --- file-level checks ---

// FileNaming warns when a file declaring exactly one class is not named
// after that class in snake_case.
type FileNaming struct {
	dialect Dialect
}

// Name implements Checker.
func (c *FileNaming) Name() string { return CheckFileNaming }

// Check implements Checker.
func (c *FileNaming) Check(rec corpus.FileRecord) []models.Issue {
	if c.dialect.ClassPattern == nil {
		return nil
	}
	matches := c.dialect.ClassPattern.FindAllStringSubmatch(rec.Content, -1)
	if len(matches) != 1 {
		return nil
	}

	stem := rec.Stem()
	if c.dialect.TestSuffix != "" && strings.HasSuffix(stem, c.dialect.TestSuffix) {
		return nil
	}
	class := matches[0][1]
	expected := SnakeCase(class)
	if stem == expected {
		return nil
	}
	return []models.Issue{{
		File:    rec.Path,
		Kind:    models.IssueWarning,
		Check:   CheckFileNaming,
		Message: fmt.Sprintf("File name %q does not match class %s; expected %q", rec.Base(), class, expected+extOf(rec.Base())),
	}}
}

// EntryPoint flags UI components that lack the required entry point.
type EntryPoint struct {
	dialect Dialect
}

// Name implements Checker.
func (c *EntryPoint) Name() string { return CheckEntryPoint }

// Check implements Checker.
func (c *EntryPoint) Check(rec corpus.FileRecord) []models.Issue {
	if c.dialect.EntryPoint == "" {
		return nil
	}
	for _, marker := range c.dialect.ComponentMarkers {
		if !strings.Contains(rec.Content, marker) {
			continue
		}
		if strings.Contains(rec.Content, c.dialect.EntryPoint) {
			return nil
		}
		return []models.Issue{{
			File:    rec.Path,
			Kind:    models.IssueError,
			Check:   CheckEntryPoint,
			Message: fmt.Sprintf("Component missing entry point %q", c.dialect.EntryPoint),
		}}
	}
	return nil
}

// forEachCodeLine calls fn with the 1-based number and trimmed text of every
// non-blank, non-comment line.
func forEachCodeLine(rec corpus.FileRecord, d Dialect, fn func(n int, line string)) {
	for i, raw := range rec.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" || d.isComment(line) {
			continue
		}
		fn(i+1, line)
	}
}

func lineIssue(rec corpus.FileRecord, n int, kind models.IssueKind, check, msg string) models.Issue {
	return models.Issue{
		File:    rec.Path,
		Line:    models.LinePtr(n),
		Kind:    kind,
		Check:   check,
		Message: msg,
	}
}

func excerpt(line string) string {
	return runewidth.Truncate(line, excerptWidth, "...")
}

func extOf(base string) string {
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[i:]
	}
	return ""
}
