package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/ui"
	"github.com/modu-ai/codegrade/pkg/models"
)

// Run executes the wizard and returns the result.
// Each question runs as its own independent huh.Form to avoid the huh v0.8.x
// YOffset scroll bug that occurs when multiple groups share a single viewport.
func Run(questions []Question) (*WizardResult, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &WizardResult{}
	theme := newWizardTheme()

	for i := range questions {
		q := &questions[i]

		if q.Condition != nil && !q.Condition(result) {
			continue
		}

		form := huh.NewForm(buildQuestionGroup(q, result)).
			WithTheme(theme).
			WithAccessible(false)

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
	}

	return result, nil
}

// RunWithDefaults runs the default questions preselected from cfg.
func RunWithDefaults(cfg *config.Config) (*WizardResult, error) {
	return Run(DefaultQuestions(cfg))
}

// buildQuestionGroup creates a huh.Group for a single question.
// Conditional questions use WithHideFunc to check visibility at runtime.
func buildQuestionGroup(q *Question, result *WizardResult) *huh.Group {
	var field huh.Field

	switch q.Type {
	case QuestionTypeSelect:
		field = buildSelectField(q, result)
	case QuestionTypeInput:
		field = buildInputField(q, result)
	}

	g := huh.NewGroup(field)
	if q.Condition != nil {
		cond := q.Condition
		g = g.WithHideFunc(func() bool {
			return !cond(result)
		})
	}
	return g
}

// buildSelectField creates a huh.Select field for a select-type question.
// Options are static; OptionsFunc would force a fixed height and reset the
// viewport offset on every update.
func buildSelectField(q *Question, result *WizardResult) *huh.Select[string] {
	selected := q.Default

	opts := make([]huh.Option[string], len(q.Options))
	for i, opt := range q.Options {
		key := opt.Label
		if opt.Desc != "" {
			key = opt.Label + " - " + opt.Desc
		}
		opts[i] = huh.NewOption(key, opt.Value)
	}

	sel := huh.NewSelect[string]().
		Title(q.Title).
		Description(q.Description).
		Options(opts...).
		Value(&selected)

	// Store the answer on every change so later conditions see it.
	id := q.ID
	sel.Validate(func(val string) error {
		saveAnswer(id, val, result)
		return nil
	})

	return sel
}

// buildInputField creates a huh.Input field for an input-type question.
func buildInputField(q *Question, result *WizardResult) *huh.Input {
	value := q.Default

	inp := huh.NewInput().
		Title(q.Title).
		Description(q.Description).
		Value(&value)

	if q.Default != "" {
		inp = inp.Placeholder(q.Default)
	}

	inp = inp.Validate(inputValidator(q, result))
	return inp
}

// inputValidator trims the answer, applies the default and the question's
// checks, and stores the accepted value.
func inputValidator(q *Question, result *WizardResult) func(string) error {
	id, required, def, check := q.ID, q.Required, q.Default, q.Validate
	return func(val string) error {
		v := strings.TrimSpace(val)
		if v == "" && def != "" {
			v = def
		}
		if v == "" {
			if required {
				return ErrRequired
			}
			saveAnswer(id, v, result)
			return nil
		}
		if check != nil {
			if err := check(v); err != nil {
				return err
			}
		}
		saveAnswer(id, v, result)
		return nil
	}
}

// saveAnswer stores an answer in the result.
func saveAnswer(id, value string, result *WizardResult) {
	if result.answered == nil {
		result.answered = make(map[string]bool)
	}
	result.answered[id] = true

	switch id {
	case "catalog":
		result.Catalog = value
	case "catalog_file":
		result.CatalogFile = value
	case "extensions":
		result.Extensions = value
	case "format":
		result.Format = value
	case "min_score":
		result.MinScore = value
	case "fail_on_error":
		result.FailOnError = value
	case "inventory":
		result.Inventory = value
	}
}

// Apply copies the answers into cfg. Unanswered fields keep their current
// values; answers that do not parse are reported.
func (r *WizardResult) Apply(cfg *config.Config) error {
	switch r.Catalog {
	case "":
	case CustomCatalog:
		if r.CatalogFile == "" {
			return fmt.Errorf("catalog_file: %w", ErrRequired)
		}
		cfg.Engine.CatalogFile = r.CatalogFile
	default:
		cfg.Engine.Catalog = r.Catalog
		cfg.Engine.CatalogFile = ""
	}

	// An empty extensions answer means every file.
	if r.Extensions != "" || r.answered["extensions"] {
		cfg.Scan.Extensions = splitList(r.Extensions)
	}
	if r.Format != "" {
		cfg.Output.Format = models.OutputFormat(r.Format)
	}
	if r.MinScore != "" {
		v, err := strconv.ParseFloat(r.MinScore, 64)
		if err != nil {
			return fmt.Errorf("min_score: %w", err)
		}
		cfg.Output.MinScore = v
	}
	if r.FailOnError != "" {
		cfg.Output.FailOnError = r.FailOnError == "true"
	}
	if r.Inventory != "" {
		cfg.Engine.Inventory = r.Inventory == "true"
	}
	return nil
}

// newWizardTheme maps the ui brand colors onto a huh theme.
func newWizardTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := ui.Adaptive("#C45A3C", ui.ColorPrimary)
	secondary := ui.Adaptive("#5B21B6", ui.ColorSecondary)
	green := ui.Adaptive("#059669", ui.ColorSuccess)
	red := ui.Adaptive("#DC2626", ui.ColorError)
	text := ui.Adaptive("#111827", ui.ColorText)
	muted := ui.Adaptive("#9CA3AF", ui.ColorMuted)
	border := ui.Adaptive("#D1D5DB", ui.ColorBorder)

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.NextIndicator = t.Focused.NextIndicator.Foreground(primary)
	t.Focused.PrevIndicator = t.Focused.PrevIndicator.Foreground(primary)
	t.Focused.Option = t.Focused.Option.Foreground(text)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("◆ ")
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(text)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("◇ ")
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(ui.Adaptive("#FFFFFF", "#FFFFFF")).
		Background(primary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(text).
		Background(ui.Adaptive("#E5E7EB", "#374151"))
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description

	return t
}
