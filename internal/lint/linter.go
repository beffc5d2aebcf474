// Package lint implements line-oriented heuristic checks over a corpus.
//
// The heuristics are deliberately textual: they never parse or type-check
// the source. Each check sits behind the Checker interface so that a
// parser-backed implementation can replace it.
package lint

import (
	"context"
	"log/slog"
	"sort"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Lint statuses.
const (
	StatusPass        = "PASS"
	StatusIssuesFound = "ISSUES_FOUND"
)

// Linter runs an ordered list of checkers over every readable file.
type Linter struct {
	dialect  Dialect
	checkers []Checker
	logger   *slog.Logger
}

// Option configures a Linter.
type Option func(*Linter)

// WithDialect selects the dialect used by the default checkers.
func WithDialect(d Dialect) Option {
	return func(l *Linter) {
		l.dialect = d
	}
}

// WithCheckers replaces the default checkers.
func WithCheckers(checkers ...Checker) Option {
	return func(l *Linter) {
		l.checkers = checkers
	}
}

// WithLogger sets the logger for the linter.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Linter. Without options it runs the five default
// heuristics for Dart.
func New(opts ...Option) *Linter {
	l := &Linter{
		dialect: DefaultDialect(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.checkers == nil {
		l.checkers = DefaultCheckers(l.dialect)
	}
	return l
}

// Lint checks every readable file the dialect handles. Unreadable files are
// skipped; the scanner has already reported them. When ctx ends the issues
// found so far are returned with ctx.Err().
func (l *Linter) Lint(ctx context.Context, c *corpus.Corpus) ([]models.Issue, error) {
	issues, _, err := l.lint(ctx, c)
	return issues, err
}

// Run lints c and wraps the outcome in a LintResult carrying the scan
// warnings. On cancellation the partial result is returned with ctx.Err().
func (l *Linter) Run(ctx context.Context, c *corpus.Corpus) (*models.LintResult, error) {
	issues, checked, err := l.lint(ctx, c)
	if issues == nil {
		issues = []models.Issue{}
	}
	return &models.LintResult{
		Status:       Status(issues),
		FilesChecked: checked,
		Issues:       issues,
		Warnings:     c.Warnings(),
	}, err
}

func (l *Linter) lint(ctx context.Context, c *corpus.Corpus) ([]models.Issue, int, error) {
	var issues []models.Issue
	checked := 0
	for _, rec := range c.Readable() {
		if err := ctx.Err(); err != nil {
			sortIssues(issues)
			return issues, checked, err
		}
		if !l.dialect.handles(rec.Path) {
			continue
		}
		issues = append(issues, l.CheckFile(rec)...)
		checked++
	}
	sortIssues(issues)
	l.logger.Debug("lint finished", "files", checked, "issues", len(issues))
	return issues, checked, nil
}

// CheckFile runs every checker against one record.
func (l *Linter) CheckFile(rec corpus.FileRecord) []models.Issue {
	if !rec.Readable {
		return nil
	}
	var issues []models.Issue
	for _, ch := range l.checkers {
		issues = append(issues, ch.Check(rec)...)
	}
	return issues
}

// Status returns StatusIssuesFound when issues holds at least one error.
// Warnings alone still pass.
func Status(issues []models.Issue) string {
	if models.CountIssues(issues, models.IssueError) > 0 {
		return StatusIssuesFound
	}
	return StatusPass
}

// sortIssues orders issues by file, then line (file-level first), then check.
func sortIssues(issues []models.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.LineNumber() != b.LineNumber() {
			return a.LineNumber() < b.LineNumber()
		}
		return a.Check < b.Check
	})
}
