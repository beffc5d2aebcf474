// Package quality implements the heuristic quality-scoring engine.
//
// A Catalog groups pattern-based rules into weighted categories. The Engine
// scans a file tree into an immutable corpus, evaluates every rule once,
// folds rule satisfaction into category points and an overall grade, runs
// the line linter over the same corpus and assembles a deterministic Report.
package quality

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/internal/lint"
	"github.com/modu-ai/codegrade/pkg/models"
)

// IssueFinder produces line-level issues for a corpus. lint.Linter is the
// default implementation.
type IssueFinder interface {
	Lint(ctx context.Context, c *corpus.Corpus) ([]models.Issue, error)
}

// InventoryFunc derives project facts from a corpus.
type InventoryFunc func(c *corpus.Corpus) *models.Inventory

// Engine runs the full analysis pipeline for one catalog.
type Engine struct {
	catalog   *Catalog
	scanner   *corpus.Scanner
	linter    IssueFinder
	inventory InventoryFunc
	logger    *slog.Logger
	maxRecs   int
	timeout   time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScanner replaces the default corpus scanner.
func WithScanner(s *corpus.Scanner) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.scanner = s
		}
	}
}

// WithLinter replaces the default line linter.
func WithLinter(l IssueFinder) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.linter = l
		}
	}
}

// WithInventory attaches project inventory to every report.
func WithInventory(fn InventoryFunc) EngineOption {
	return func(e *Engine) {
		e.inventory = fn
	}
}

// WithMaxRecommendations caps the recommendation list.
func WithMaxRecommendations(n int) EngineOption {
	return func(e *Engine) {
		e.maxRecs = n
	}
}

// WithTimeout bounds a whole Analyze call. Zero disables the limit.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates an Engine for a validated catalog.
func NewEngine(catalog *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  slog.New(slog.DiscardHandler),
		maxRecs: DefaultMaxRecommendations,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.scanner == nil {
		e.scanner = corpus.NewScanner(corpus.Options{}, e.logger)
	}
	if e.linter == nil {
		e.linter = lint.New(lint.WithLogger(e.logger))
	}
	return e
}

// Catalog returns the catalog the engine grades against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Analyze scans fsys and grades it.
//
// When the engine timeout expires the returned report is partial (Incomplete
// is set) and the error is nil. When ctx itself is cancelled the partial
// report is returned together with ctx.Err(). Scan errors for the root
// itself are returned without a report.
func (e *Engine) Analyze(ctx context.Context, fsys fs.FS) (*models.Report, error) {
	runCtx, cancel := e.runContext(ctx)
	defer cancel()

	start := time.Now()
	c, err := e.scanner.Scan(runCtx, fsys)
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}
	e.logger.Debug("corpus scanned",
		"files", c.Len(),
		"unreadable", c.UnreadableCount(),
		"elapsed", time.Since(start),
	)

	timedOut := func() bool {
		return errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	}
	report := e.grade(runCtx, c, timedOut)

	e.logger.Info("analysis complete",
		"catalog", report.Catalog,
		"score", report.OverallScore,
		"max", report.MaxScore,
		"grade", report.Grade,
		"issues", len(report.Issues),
		"incomplete", report.Incomplete,
		"elapsed", time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// Grade builds the report for an already scanned corpus.
func (e *Engine) Grade(ctx context.Context, c *corpus.Corpus) *models.Report {
	return e.grade(ctx, c, nil)
}

// grade computes every report field before the report is constructed.
// timedOut reports whether the engine's own deadline cut the run short.
func (e *Engine) grade(ctx context.Context, c *corpus.Corpus, timedOut func() bool) *models.Report {
	outcomes := Evaluate(e.catalog, c)
	results := ScoreCategories(e.catalog, outcomes)
	agg := Aggregate(e.catalog, results)

	warnings := c.Warnings()
	if agg.Clamped {
		msg := fmt.Sprintf("category points sum to %s, above the maximum %s; overall score capped",
			formatPoints(agg.Sum), formatPoints(e.catalog.overallMax))
		e.logger.Warn(msg)
		warnings = append(warnings, msg)
	}

	issues, err := e.linter.Lint(ctx, c)
	incomplete := c.Incomplete()
	if err != nil {
		e.logger.Warn("lint interrupted", "error", err, "issues", len(issues))
		warnings = append(warnings, fmt.Sprintf("lint interrupted after %d issue(s): %v", len(issues), err))
		incomplete = true
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	if timedOut != nil && timedOut() {
		warnings = append(warnings, fmt.Sprintf("analysis timed out after %s; results are partial", e.timeout))
		incomplete = true
	}

	var inv *models.Inventory
	if e.inventory != nil {
		inv = e.inventory(c)
	}

	return &models.Report{
		Catalog:         e.catalog.name,
		CategoryResults: results,
		OverallScore:    agg.Score,
		MaxScore:        e.catalog.overallMax,
		Percentage:      agg.Percentage,
		Grade:           agg.Band.Grade,
		Status:          agg.Band.Status,
		Issues:          issues,
		Recommendations: Recommend(e.catalog, outcomes, e.maxRecs),
		Warnings:        warnings,
		Incomplete:      incomplete,
		FilesScanned:    c.Len(),
		UnreadableFiles: c.UnreadableCount(),
		Inventory:       inv,
	}
}

func (e *Engine) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}
