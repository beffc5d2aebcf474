// Package render writes reports and lint results in the supported output
// formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/codegrade/internal/ui"
	"github.com/modu-ai/codegrade/pkg/models"
)

// ErrUnknownFormat is returned for output formats no renderer handles.
var ErrUnknownFormat = errors.New("render: unknown output format")

// DefaultWidth is the line width used when none is configured.
const DefaultWidth = 100

// Options configures a Renderer.
type Options struct {
	Format  models.OutputFormat
	NoColor bool

	// Terminal enables terminal-only rendering such as styled markdown.
	Terminal bool

	// Width bounds issue lines and wrapped markdown. Zero uses DefaultWidth.
	Width int
}

// Renderer writes reports in one output format.
type Renderer struct {
	opts  Options
	theme *ui.Theme
}

// New creates a Renderer. Color is disabled when the output is not a
// terminal.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Format == "" {
		opts.Format = models.FormatText
	}
	return &Renderer{
		opts:  opts,
		theme: ui.NewTheme(opts.NoColor || !opts.Terminal),
	}
}

// Report writes a full analysis report.
func (r *Renderer) Report(w io.Writer, rep *models.Report) error {
	switch r.opts.Format {
	case models.FormatText:
		_, err := io.WriteString(w, r.reportText(rep))
		return err
	case models.FormatJSON:
		return writeJSON(w, rep)
	case models.FormatYAML:
		return writeYAML(w, rep)
	case models.FormatMarkdown:
		return r.writeMarkdown(w, reportMarkdown(rep))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.opts.Format)
	}
}

// Lint writes the result of a linter-only run.
func (r *Renderer) Lint(w io.Writer, res *models.LintResult) error {
	switch r.opts.Format {
	case models.FormatText:
		_, err := io.WriteString(w, r.lintText(res))
		return err
	case models.FormatJSON:
		return writeJSON(w, res)
	case models.FormatYAML:
		return writeYAML(w, res)
	case models.FormatMarkdown:
		return r.writeMarkdown(w, lintMarkdown(res))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.opts.Format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	return enc.Close()
}

// number formats a score without trailing zeros: 14.2, 40, 6.7.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
