package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/internal/core/quality"
	"github.com/modu-ai/codegrade/internal/ui"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate rule catalogs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in catalogs",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	}

	showCmd := &cobra.Command{
		Use:   "show [name|file]",
		Short: "Show categories, weights, rules and grade bands of a catalog",
		Long: `Show a built-in catalog by name, or a catalog definition file. Without an
argument the catalog configured for the current project is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCatalogShow,
	}
	showCmd.Flags().String("rule", "", "Show a single rule")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Compile a catalog definition file and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogValidate,
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func outputTheme(w io.Writer) *ui.Theme {
	return ui.NewTheme(!ui.IsTerminal(w))
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	t := outputTheme(out)

	names := quality.BuiltinNames()
	width := 0
	for _, name := range names {
		width = max(width, runewidth.StringWidth(name))
	}
	for _, name := range names {
		cat, err := quality.Builtin(name)
		if err != nil {
			return err
		}
		marker := " "
		if name == quality.DefaultCatalog {
			marker = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %s  %s  %s\n",
			marker,
			t.Title().Render(runewidth.FillRight(name, width)),
			t.Muted().Render(fmt.Sprintf("%d categories, %d rules, max %s",
				len(cat.Categories()), len(cat.Rules()), formatFloat(cat.OverallMax()))),
			cat.Description())
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, err := resolveCatalog(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	t := outputTheme(out)

	if id := getStringFlag(cmd, "rule"); id != "" {
		rule, err := cat.LookupRule(id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s\n", t.Title().Render(rule.ID))
		_, _ = fmt.Fprintf(out, "  Category     %s\n", rule.Category)
		_, _ = fmt.Fprintf(out, "  Description  %s\n", rule.Description)
		if rule.Remediation != "" {
			_, _ = fmt.Fprintf(out, "  Remediation  %s\n", rule.Remediation)
		}
		return nil
	}

	_, _ = fmt.Fprintf(out, "%s  %s\n", t.Title().Render(cat.Name()), cat.Description())
	_, _ = fmt.Fprintf(out, "Overall maximum %s\n", formatFloat(cat.OverallMax()))

	for _, c := range cat.Categories() {
		_, _ = fmt.Fprintf(out, "\n%s  %s\n",
			t.Title().Render(c.DisplayName()),
			t.Muted().Render(fmt.Sprintf("%s, %s points, %d rules", c.Name, formatFloat(c.MaxPoints), len(c.RuleIDs))))
		for _, id := range c.RuleIDs {
			rule, _ := cat.Rule(id)
			_, _ = fmt.Fprintf(out, "  - %s  %s\n", id, rule.Description)
		}
	}

	_, _ = fmt.Fprintf(out, "\n%s\n", t.Title().Render("Grades"))
	for _, g := range cat.Grades() {
		_, _ = fmt.Fprintf(out, "  >= %5s%%  %-24s %s\n", formatFloat(g.MinPercentage), g.Grade, g.Status)
	}
	return nil
}

// resolveCatalog picks the catalog for show: a definition file when the
// argument has a catalog file extension, a built-in name otherwise, and the
// project's configured catalog without an argument.
func resolveCatalog(cmd *cobra.Command, args []string) (*quality.Catalog, error) {
	if len(args) == 0 {
		d, err := loadDependencies(cmd, nil)
		if err != nil {
			return nil, err
		}
		return d.Catalog()
	}
	if _, err := quality.FormatForPath(args[0]); err == nil {
		return quality.LoadCatalog(args[0])
	}
	return quality.Builtin(args[0])
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	t := outputTheme(out)

	cat, err := quality.LoadCatalog(args[0])
	if err != nil {
		var catErr *quality.CatalogError
		if errors.As(err, &catErr) {
			_, _ = fmt.Fprintf(out, "%s %s: %d problem(s)\n", t.Error().Render("✗"), args[0], len(catErr.Problems))
			for _, p := range catErr.Problems {
				_, _ = fmt.Fprintf(out, "  - %s\n", p)
			}
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s: %w", args[0], catErr.Unwrap())}
		}
		return err
	}

	var rules []string
	for _, r := range cat.Rules() {
		rules = append(rules, r.ID)
	}
	_, _ = fmt.Fprintf(out, "%s %s: catalog %q is valid (%d categories, %d rules, max %s)\n",
		t.Success().Render("✓"), args[0], cat.Name(), len(cat.Categories()), len(rules), formatFloat(cat.OverallMax()))
	_, _ = fmt.Fprintf(out, "  %s\n", t.Muted().Render(strings.Join(rules, ", ")))
	return nil
}
