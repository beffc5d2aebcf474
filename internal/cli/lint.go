package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/codegrade/pkg/models"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Run only the line heuristics",
		Long: `Scan the project and run the line linter without scoring. Prints every
issue followed by PASS or ISSUES_FOUND and exits with status 2 when any
error issue was found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLint,
	}
	addOutputFlags(cmd)
	addScanFlags(cmd)
	return cmd
}

func runLint(cmd *cobra.Command, args []string) error {
	d, err := loadDependencies(cmd, args)
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, d.Settings)
	applyScanFlags(cmd, d.Settings)
	if err := d.validateSettings(); err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := d.Scanner(nil).Scan(ctx, os.DirFS(d.Root))
	if err != nil {
		return err
	}
	res, err := d.Linter().Run(ctx, c)

	out := cmd.OutOrStdout()
	if renderErr := d.Renderer(out).Lint(out, res); renderErr != nil {
		return errors.Join(renderErr, err)
	}
	if err != nil {
		return err
	}
	if res.HasErrors() {
		return gateError(ErrLintErrors, "%d error issue(s) in %d file(s)", models.CountIssues(res.Issues, models.IssueError), res.FilesChecked)
	}
	return nil
}
