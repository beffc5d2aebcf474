package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/modu-ai/codegrade/pkg/models"
)

// writeMarkdown writes md as is, or styled through glamour when writing
// to a color terminal. Styling failures fall back to the raw markdown.
func (r *Renderer) writeMarkdown(w io.Writer, md string) error {
	out := md
	if r.opts.Terminal && !r.opts.NoColor {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(r.opts.Width),
		)
		if err == nil {
			if styled, err := tr.Render(md); err == nil {
				out = styled
			}
		}
	}
	_, err := io.WriteString(w, out)
	return err
}

func reportMarkdown(rep *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Code Quality Report: %s\n\n", rep.Catalog)
	fmt.Fprintf(&b, "**Score:** %s / %s (%s%%)  \n", number(rep.OverallScore), number(rep.MaxScore), number(rep.Percentage))
	fmt.Fprintf(&b, "**Grade:** %s  \n", rep.Grade)
	fmt.Fprintf(&b, "**Status:** %s  \n", rep.Status)
	fmt.Fprintf(&b, "**Files scanned:** %d\n", rep.FilesScanned)
	if rep.Incomplete {
		b.WriteString("\n> Partial result: analysis did not finish.\n")
	}

	b.WriteString("\n## Categories\n\n")
	b.WriteString("| Category | Points | Satisfied | Missing |\n")
	b.WriteString("|---|---:|---:|---|\n")
	for _, c := range rep.CategoryResults {
		fmt.Fprintf(&b, "| %s | %s / %s | %d / %d | %s |\n",
			escapeCell(c.Title), number(c.Points), number(c.MaxPoints),
			c.Satisfied, c.Total, escapeCell(strings.Join(c.Failed, ", ")))
	}

	if len(rep.Issues) > 0 {
		fmt.Fprintf(&b, "\n## Issues (%d errors, %d warnings)\n\n", rep.ErrorCount(), rep.WarningCount())
		writeIssueTable(&b, rep.Issues)
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for i, rec := range rep.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}

	if len(rep.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	if inv := rep.Inventory; inv != nil {
		b.WriteString("\n## Inventory\n\n")
		if m := inv.Manifest; m != nil && m.Error == "" {
			fmt.Fprintf(&b, "- Package: `%s`", m.Name)
			if m.Version != "" {
				fmt.Fprintf(&b, " %s", m.Version)
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "- Dependencies: %d (dev %d)\n", len(m.Dependencies), len(m.DevDependencies))
		}
		fmt.Fprintf(&b, "- Source files: %d\n", inv.SourceFiles)
		fmt.Fprintf(&b, "- Tests: %d\n", inv.TotalTests())
	}
	return b.String()
}

func lintMarkdown(res *models.LintResult) string {
	var b strings.Builder
	b.WriteString("# Lint Result\n\n")
	fmt.Fprintf(&b, "**Status:** %s  \n", res.Status)
	fmt.Fprintf(&b, "**Files checked:** %d\n", res.FilesChecked)
	if len(res.Issues) > 0 {
		b.WriteString("\n")
		writeIssueTable(&b, res.Issues)
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writeIssueTable(b *strings.Builder, issues []models.Issue) {
	b.WriteString("| File | Line | Kind | Check | Message |\n")
	b.WriteString("|---|---:|---|---|---|\n")
	for _, is := range issues {
		line := ""
		if is.Line != nil {
			line = fmt.Sprint(*is.Line)
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s |\n",
			is.File, line, is.Kind, is.Check, escapeCell(is.Message))
	}
}

// escapeCell keeps pipes and newlines from breaking a table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
