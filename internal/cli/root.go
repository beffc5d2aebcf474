package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/pkg/version"
)

// NewRootCmd builds the codegrade command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codegrade",
		Short: "Heuristic code quality grading for Flutter projects",
		Long: `codegrade scans a project tree, evaluates a catalog of pattern-based rules
grouped into weighted categories, runs line heuristics over the sources and
reports category points, an overall grade, issues and recommendations.

Results are deterministic: the same tree and catalog always produce the
same report.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("codegrade %s\n", version.GetFullVersion()))
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default: .codegrade.yaml or .codegrade.toml at the project root)")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newLintCmd(),
		newCatalogCmd(),
		newInitCmd(),
	)
	return rootCmd
}

// @MX:ANCHOR: Execute is the entry point called from cmd/codegrade; exit codes come from ExitCode.
// Execute runs the command tree with os.Args and returns the first error.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
