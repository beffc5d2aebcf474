package cli

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/pkg/models"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Score a project against a rule catalog",
		Long: `Scan the project, evaluate every catalog rule once, score each category,
grade the total and run the line linter.

Without a path the project root is found by walking upward from the
working directory to a pubspec.yaml or .codegrade.yaml.

Examples:
  codegrade analyze
  codegrade analyze ./app --format json
  codegrade analyze --catalog flutter-structure --min-score 70`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	f := cmd.Flags()
	f.String("catalog", "", "Built-in catalog name (default from config: flutter-ux)")
	f.String("catalog-file", "", "Catalog definition file (.yaml, .yml or .toml)")
	addOutputFlags(cmd)
	addScanFlags(cmd)
	f.Float64("min-score", 0, "Exit with status 2 when the percentage is below this value")
	f.Bool("fail-on-error", false, "Exit with status 2 when the linter reports errors")
	f.Duration("timeout", 0, "Abort the analysis after this duration and report partial results")
	f.Int("max-recommendations", 0, "Maximum number of recommendations")
	f.Bool("no-inventory", false, "Omit the project inventory")
	f.Bool("no-progress", false, "Do not show scan progress on stderr")
	return cmd
}

// addOutputFlags registers the flags shared by every reporting command.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Output format: text, json, yaml or markdown")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}

// addScanFlags registers the corpus filter flags.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("ext", nil, "File extension to scan, repeatable (replaces the configured list)")
	cmd.Flags().StringSlice("exclude", nil, "Directory name to skip, repeatable (added to the configured list)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := loadDependencies(cmd, args)
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, d.Settings)
	applyScanFlags(cmd, d.Settings)
	applyAnalyzeFlags(cmd, d.Settings)
	if err := d.validateSettings(); err != nil {
		return err
	}

	cat, err := d.Catalog()
	if err != nil {
		return err
	}

	var obs corpus.Observer
	progress := d.Progress(cmd.ErrOrStderr(), getBoolFlag(cmd, "no-progress"))
	if progress != nil {
		obs = progress
		defer progress.Close()
	}

	engine := d.Engine(cat, d.Scanner(obs))
	rep, err := engine.Analyze(cmd.Context(), os.DirFS(d.Root))
	if progress != nil {
		progress.Close()
	}
	if rep == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderErr := d.Renderer(out).Report(out, rep); renderErr != nil {
		return errors.Join(renderErr, err)
	}
	if err != nil {
		return err
	}
	return checkGates(rep, d.Settings.Output)
}

// checkGates turns a finished report into an exit status.
func checkGates(rep *models.Report, out models.OutputConfig) error {
	if out.FailOnError && rep.HasErrors() {
		return gateError(ErrLintErrors, "%d error issue(s)", rep.ErrorCount())
	}
	if out.MinScore > 0 && !rep.MeetsThreshold(out.MinScore) {
		return gateError(ErrBelowMinScore, "%s%% is below the minimum %s%%",
			formatFloat(rep.Percentage), formatFloat(out.MinScore))
	}
	return nil
}

func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Output.Format = models.OutputFormat(getStringFlag(cmd, "format"))
	}
	if getBoolFlag(cmd, "no-color") {
		cfg.Output.NoColor = true
	}
}

func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("ext") {
		exts, _ := f.GetStringSlice("ext")
		cfg.Scan.Extensions = exts
	}
	if f.Changed("exclude") {
		dirs, _ := f.GetStringSlice("exclude")
		cfg.Scan.ExcludeDirs = append(cfg.Scan.ExcludeDirs, dirs...)
	}
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("catalog") {
		cfg.Engine.Catalog = getStringFlag(cmd, "catalog")
		cfg.Engine.CatalogFile = ""
	}
	if f.Changed("catalog-file") {
		cfg.Engine.CatalogFile = getStringFlag(cmd, "catalog-file")
	}
	if f.Changed("min-score") {
		cfg.Output.MinScore, _ = f.GetFloat64("min-score")
	}
	if f.Changed("fail-on-error") {
		cfg.Output.FailOnError = getBoolFlag(cmd, "fail-on-error")
	}
	if f.Changed("timeout") {
		d, _ := f.GetDuration("timeout")
		cfg.Engine.Timeout = d.String()
	}
	if f.Changed("max-recommendations") {
		cfg.Engine.MaxRecommendations, _ = f.GetInt("max-recommendations")
	}
	if getBoolFlag(cmd, "no-inventory") {
		cfg.Engine.Inventory = false
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
