package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/modu-ai/codegrade/pkg/models"
)

const barWidth = 12

func (r *Renderer) reportText(rep *models.Report) string {
	t := r.theme
	var b strings.Builder

	b.WriteString(t.Title().Render("Code Quality Report: "+rep.Catalog) + "\n")
	score := fmt.Sprintf("%s / %s (%s%%)", number(rep.OverallScore), number(rep.MaxScore), number(rep.Percentage))
	b.WriteString(fmt.Sprintf("  Score   %s\n", t.ForPercentage(rep.Percentage).Render(score)))
	b.WriteString(fmt.Sprintf("  Grade   %s\n", rep.Grade))
	b.WriteString(fmt.Sprintf("  Status  %s\n", rep.Status))
	b.WriteString(fmt.Sprintf("  Files   %d scanned", rep.FilesScanned))
	if rep.UnreadableFiles > 0 {
		b.WriteString(t.Warning().Render(fmt.Sprintf(", %d unreadable", rep.UnreadableFiles)))
	}
	b.WriteString("\n")
	if rep.Incomplete {
		b.WriteString("  " + t.Warning().Render("Partial result: analysis did not finish") + "\n")
	}

	b.WriteString("\n" + t.Title().Render("Categories") + "\n")
	titleWidth := 0
	for _, c := range rep.CategoryResults {
		titleWidth = max(titleWidth, runewidth.StringWidth(c.Title))
	}
	for _, c := range rep.CategoryResults {
		pct := c.Percentage()
		line := fmt.Sprintf("  %s  %s  %s / %s  (%d/%d)",
			runewidth.FillRight(c.Title, titleWidth),
			t.ForPercentage(pct).Render(bar(pct, barWidth)),
			number(c.Points), number(c.MaxPoints),
			c.Satisfied, c.Total)
		b.WriteString(line + "\n")
		if len(c.Failed) > 0 {
			b.WriteString("  " + t.Muted().Render(strings.Repeat(" ", titleWidth)+"  missing: "+strings.Join(c.Failed, ", ")) + "\n")
		}
	}

	if len(rep.Issues) > 0 {
		b.WriteString("\n" + t.Title().Render(fmt.Sprintf("Issues (%d errors, %d warnings)", rep.ErrorCount(), rep.WarningCount())) + "\n")
		r.writeIssues(&b, rep.Issues)
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("\n" + t.Title().Render("Recommendations") + "\n")
		for i, rec := range rep.Recommendations {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
		}
	}

	if len(rep.Warnings) > 0 {
		b.WriteString("\n" + t.Warning().Render("Warnings") + "\n")
		for _, w := range rep.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}

	if rep.Inventory != nil {
		b.WriteString("\n" + t.Title().Render("Inventory") + "\n")
		writeInventory(&b, rep.Inventory)
	}
	return b.String()
}

func (r *Renderer) lintText(res *models.LintResult) string {
	t := r.theme
	var b strings.Builder

	r.writeIssues(&b, res.Issues)
	for _, w := range res.Warnings {
		b.WriteString(t.Warning().Render("warning: "+w) + "\n")
	}

	status := t.Success().Render(res.Status)
	if len(res.Issues) > 0 {
		status = t.Error().Render(res.Status)
	}
	b.WriteString(fmt.Sprintf("%d files checked, %d errors, %d warnings: %s\n",
		res.FilesChecked,
		models.CountIssues(res.Issues, models.IssueError),
		models.CountIssues(res.Issues, models.IssueWarning),
		status))
	return b.String()
}

func (r *Renderer) writeIssues(b *strings.Builder, issues []models.Issue) {
	t := r.theme
	for _, is := range issues {
		loc := is.File
		if is.Line != nil {
			loc = fmt.Sprintf("%s:%d", is.File, *is.Line)
		}
		kind := t.Warning().Render(string(is.Kind))
		if is.Kind == models.IssueError {
			kind = t.Error().Render(string(is.Kind))
		}
		// Width is measured on the plain text; styling adds no cells.
		plain := fmt.Sprintf("  %s  %s  %s: ", loc, is.Kind, is.Check)
		msg := runewidth.Truncate(is.Message, max(r.opts.Width-runewidth.StringWidth(plain), 10), "...")
		b.WriteString(fmt.Sprintf("  %s  %s  %s: %s\n", loc, kind, t.Muted().Render(is.Check), msg))
	}
}

func writeInventory(b *strings.Builder, inv *models.Inventory) {
	if m := inv.Manifest; m != nil {
		switch {
		case m.Error != "":
			b.WriteString(fmt.Sprintf("  Manifest  %s: %s\n", m.Path, m.Error))
		default:
			line := fmt.Sprintf("  Manifest  %s", m.Name)
			if m.Version != "" {
				line += " " + m.Version
			}
			line += fmt.Sprintf(" (%d dependencies, %d dev dependencies)", len(m.Dependencies), len(m.DevDependencies))
			b.WriteString(line + "\n")
			if sdk, ok := m.Environment["sdk"]; ok {
				b.WriteString("  SDK       " + sdk + "\n")
			}
			if m.HasTestingDeps() {
				b.WriteString("  Testing   " + strings.Join(m.TestingDeps, ", ") + "\n")
			}
		}
	}
	b.WriteString(fmt.Sprintf("  Sources   %d files in %d directories\n", inv.SourceFiles, len(inv.Directories)))
	for _, d := range topDirectories(inv.Directories, 5) {
		b.WriteString(fmt.Sprintf("            %-28s %d\n", d, inv.Directories[d]))
	}

	for _, kf := range inv.KeyFiles {
		if !kf.Exists {
			b.WriteString(fmt.Sprintf("  %-22s missing\n", kf.Path))
			continue
		}
		line := fmt.Sprintf("  %-22s %d lines", kf.Path, kf.Lines)
		if n := kf.Imports.Total(); n > 0 {
			line += fmt.Sprintf(", %d imports (framework %d, packages %d, local %d, sdk %d)",
				n, kf.Imports.Framework, kf.Imports.Packages, kf.Imports.Local, kf.Imports.SDK)
		}
		b.WriteString(line + "\n")
	}

	for _, s := range inv.Tests {
		if s.Files == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  Tests     %-12s %d files, %d tests, %d expectations\n", s.Name, s.Files, s.Tests, s.Expectations))
	}
	if inv.TotalTests() == 0 {
		b.WriteString("  Tests     none found\n")
	}
}

// bar renders pct as a block bar of the given width.
func bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(int(pct*float64(width)/100), width)
	filled = max(filled, 0)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// topDirectories returns directory names ordered by file count, then name.
func topDirectories(dirs map[string]int, n int) []string {
	names := make([]string, 0, len(dirs))
	for d := range dirs {
		names = append(names, d)
	}
	sort.Slice(names, func(i, j int) bool {
		if dirs[names[i]] != dirs[names[j]] {
			return dirs[names[i]] > dirs[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
