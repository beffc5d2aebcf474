package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/internal/cli/wizard"
	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/defs"
	"github.com/modu-ai/codegrade/pkg/models"
)

// ErrConfigExists is returned by init when a configuration file is present
// and --force is not set.
var ErrConfigExists = errors.New("configuration already exists")

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a .codegrade.yaml for a project",
		Long: `Write a project configuration file. When stdin is a terminal a short
wizard asks for the catalog, scanned extensions, output format and gates;
with --non-interactive the flags and defaults are written as is.

Nothing else in the project is modified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	f := cmd.Flags()
	f.Bool("non-interactive", false, "Skip the wizard; use flags and defaults")
	f.Bool("force", false, "Overwrite an existing configuration file")
	f.String("catalog", "", "Built-in catalog name")
	f.String("format", "", "Default output format: text, json, yaml or markdown")
	f.Float64("min-score", 0, "Minimum passing percentage")
	f.Bool("fail-on-error", false, "Fail analyze when the linter reports errors")
	f.StringSlice("ext", nil, "File extension to scan, repeatable")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	d, err := loadDependencies(cmd, args)
	if err != nil {
		return err
	}

	if !getBoolFlag(cmd, "force") {
		for _, name := range []string{defs.ConfigYAML, defs.ConfigTOML} {
			if _, err := os.Stat(filepath.Join(d.Root, name)); err == nil {
				return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, filepath.Join(d.Root, name))
			}
		}
	}

	// Start from what the project declares, not the shell's CODEGRADE_* values.
	edit := config.NewManager(d.Logger)
	if explicit := getStringFlag(cmd, "config"); explicit != "" {
		edit.SetPath(explicit)
	}
	if _, err := edit.LoadFile(d.Root); err != nil {
		return err
	}
	cfg := edit.Get()

	f := cmd.Flags()
	if f.Changed("catalog") {
		cfg.Engine.Catalog = getStringFlag(cmd, "catalog")
		cfg.Engine.CatalogFile = ""
	}
	if f.Changed("format") {
		cfg.Output.Format = models.OutputFormat(getStringFlag(cmd, "format"))
	}
	if f.Changed("min-score") {
		cfg.Output.MinScore, _ = f.GetFloat64("min-score")
	}
	if f.Changed("fail-on-error") {
		cfg.Output.FailOnError = getBoolFlag(cmd, "fail-on-error")
	}
	applyScanFlags(cmd, cfg)

	if !getBoolFlag(cmd, "non-interactive") && !d.Headless.IsHeadless() {
		result, err := wizard.RunWithDefaults(cfg)
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Initialization cancelled.")
				return nil
			}
			return fmt.Errorf("wizard failed: %w", err)
		}
		if err := result.Apply(cfg); err != nil {
			return err
		}
	}

	if err := commitSections(edit, cfg); err != nil {
		return err
	}
	if err := edit.Save(); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	d.Logger.Info("configuration written", "path", edit.Path())

	out := cmd.OutOrStdout()
	t := outputTheme(out)
	catalog := cfg.Engine.Catalog
	if cfg.Engine.CatalogFile != "" {
		catalog = cfg.Engine.CatalogFile
	}
	body := fmt.Sprintf("%s Wrote %s\n\n  Catalog    %s\n  Format     %s\n  Min score  %s%%",
		t.Success().Render("✓"), edit.Path(), catalog, cfg.Output.Format, formatFloat(cfg.Output.MinScore))
	_, _ = fmt.Fprintln(out, t.Box().Render(body))
	return nil
}

// commitSections hands every edited section of cfg back to m.
func commitSections(m *config.Manager, cfg *config.Config) error {
	sections := map[string]any{
		config.SectionScan:   cfg.Scan,
		config.SectionEngine: cfg.Engine,
		config.SectionOutput: cfg.Output,
		config.SectionSystem: cfg.System,
	}
	for _, name := range config.SectionNames {
		if err := m.SetSection(name, sections[name]); err != nil {
			return fmt.Errorf("set %s section: %w", name, err)
		}
	}
	return nil
}
