// Package cli provides the Cobra command tree and dependency wiring for
// the codegrade CLI. This file defines the Dependencies struct
// (Composition Root) that wires configuration, logging, scanning,
// grading and rendering together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/core/project"
	"github.com/modu-ai/codegrade/internal/core/quality"
	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/internal/inventory"
	"github.com/modu-ai/codegrade/internal/lint"
	"github.com/modu-ai/codegrade/internal/render"
	"github.com/modu-ai/codegrade/internal/ui"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Dependencies holds the services one command invocation uses.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Root     string
	Config   *config.Manager
	Settings *config.Config
	Logger   *slog.Logger
	Headless *ui.HeadlessManager
}

// @MX:ANCHOR: loadDependencies is the single place a command turns its path argument and --config into services.
// loadDependencies resolves the project root from args, loads its
// configuration and builds the logger.
func loadDependencies(cmd *cobra.Command, args []string) (*Dependencies, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	root, err := project.Resolve(path)
	if err != nil {
		return nil, err
	}

	mgr := config.NewManager(nil)
	if explicit := getStringFlag(cmd, "config"); explicit != "" {
		mgr.SetPath(explicit)
	}
	cfg, err := mgr.Load(root)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.System, cmd.ErrOrStderr())
	logger.Debug("configuration resolved", "root", root, "source", mgr.Path(), "sections", mgr.LoadedSections())

	return &Dependencies{
		Root:     root,
		Config:   mgr,
		Settings: cfg,
		Logger:   logger,
		Headless: ui.NewHeadlessManager(),
	}, nil
}

// newLogger builds the slog logger selected by the system section. Logs
// go to w (stderr) so reports on stdout stay machine readable.
func newLogger(sys models.SystemConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(sys.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(sys.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Catalog compiles the configured catalog: the definition file when one is
// set (relative paths resolve against the project root), otherwise the
// named built-in. Configured grade bands replace the catalog's own.
func (d *Dependencies) Catalog() (*quality.Catalog, error) {
	eng := d.Settings.Engine

	var (
		cat *quality.Catalog
		err error
	)
	if eng.CatalogFile != "" {
		path := eng.CatalogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.Root, path)
		}
		cat, err = quality.LoadCatalog(path)
	} else {
		cat, err = quality.Builtin(eng.Catalog)
	}
	if err != nil {
		return nil, err
	}

	if len(eng.Grades) > 0 {
		if cat, err = cat.WithGrades(eng.Grades); err != nil {
			return nil, err
		}
	}
	d.Logger.Debug("catalog compiled", "name", cat.Name(), "rules", len(cat.Rules()), "max", cat.OverallMax())
	return cat, nil
}

// Scanner builds a corpus scanner from the scan section.
func (d *Dependencies) Scanner(obs corpus.Observer) *corpus.Scanner {
	s := d.Settings.Scan
	return corpus.NewScanner(corpus.Options{
		Extensions:   s.Extensions,
		ExcludeDirs:  s.ExcludeDirs,
		Workers:      s.Workers,
		MaxFileBytes: s.MaxFileBytes,
		Observer:     obs,
	}, d.Logger)
}

// Linter builds the line linter.
func (d *Dependencies) Linter() *lint.Linter {
	return lint.New(lint.WithLogger(d.Logger))
}

// Engine builds the grading engine for cat.
func (d *Dependencies) Engine(cat *quality.Catalog, scanner *corpus.Scanner) *quality.Engine {
	eng := d.Settings.Engine
	opts := []quality.EngineOption{
		quality.WithLogger(d.Logger),
		quality.WithScanner(scanner),
		quality.WithLinter(d.Linter()),
		quality.WithMaxRecommendations(eng.MaxRecommendations),
		quality.WithTimeout(eng.TimeoutDuration()),
	}
	if eng.Inventory {
		opts = append(opts, quality.WithInventory(inventory.Build))
	}
	return quality.NewEngine(cat, opts...)
}

// Progress returns the scan observer drawing on w, or nil when progress is
// disabled.
func (d *Dependencies) Progress(w io.Writer, disabled bool) *ui.ScanObserver {
	if disabled {
		return nil
	}
	theme := ui.NewTheme(d.Settings.Output.NoColor)
	return ui.NewScanObserver(ui.NewProgress(theme, d.Headless, w))
}

// Renderer builds the output renderer for w.
func (d *Dependencies) Renderer(w io.Writer) *render.Renderer {
	return render.New(render.Options{
		Format:   d.Settings.Output.Format,
		NoColor:  d.Settings.Output.NoColor,
		Terminal: ui.IsTerminal(w),
	})
}

// getStringFlag retrieves a string flag value, including persistent flags
// inherited from the root command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// validateSettings re-checks the configuration after flag overrides.
func (d *Dependencies) validateSettings() error {
	if err := config.Validate(d.Settings); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
