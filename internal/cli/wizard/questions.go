package wizard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/core/quality"
	"github.com/modu-ai/codegrade/pkg/models"
)

// DefaultQuestions returns the init questions, preselecting the values of
// cfg. The order is catalog, definition file (custom only), extensions,
// output format, minimum score, fail on error, inventory.
func DefaultQuestions(cfg *config.Config) []Question {
	catalogDefault := cfg.Engine.Catalog
	if cfg.Engine.CatalogFile != "" {
		catalogDefault = CustomCatalog
	}

	return []Question{
		{
			ID:          "catalog",
			Type:        QuestionTypeSelect,
			Title:       "Select a rule catalog",
			Description: "Rules, category weights and grade bands used to score the project.",
			Options:     withDefaultFirst(catalogOptions(), catalogDefault),
			Default:     catalogDefault,
			Required:    true,
		},
		{
			ID:          "catalog_file",
			Type:        QuestionTypeInput,
			Title:       "Enter the catalog definition file",
			Description: "A .yaml, .yml or .toml file, relative to the project root.",
			Default:     cfg.Engine.CatalogFile,
			Required:    true,
			Validate:    validateCatalogFile,
			Condition: func(r *WizardResult) bool {
				return r.Catalog == CustomCatalog
			},
		},
		{
			ID:          "extensions",
			Type:        QuestionTypeInput,
			Title:       "File extensions to scan",
			Description: "Comma separated. Leave empty to scan every file.",
			Default:     strings.Join(cfg.Scan.Extensions, ", "),
			Validate:    validateExtensions,
		},
		{
			ID:          "format",
			Type:        QuestionTypeSelect,
			Title:       "Select the default output format",
			Description: "Flags and CODEGRADE_FORMAT still override this.",
			Options:     withDefaultFirst(formatOptions(), string(cfg.Output.Format)),
			Default:     string(cfg.Output.Format),
			Required:    true,
		},
		{
			ID:          "min_score",
			Type:        QuestionTypeInput,
			Title:       "Minimum passing percentage",
			Description: "analyze exits non-zero below this score. 0 disables the gate.",
			Default:     strconv.FormatFloat(cfg.Output.MinScore, 'f', -1, 64),
			Required:    true,
			Validate:    validateMinScore,
		},
		{
			ID:          "fail_on_error",
			Type:        QuestionTypeSelect,
			Title:       "Fail when the linter reports errors?",
			Options:     withDefaultFirst(yesNoOptions(), strconv.FormatBool(cfg.Output.FailOnError)),
			Default:     strconv.FormatBool(cfg.Output.FailOnError),
			Required:    true,
		},
		{
			ID:          "inventory",
			Type:        QuestionTypeSelect,
			Title:       "Include the project inventory in reports?",
			Description: "Manifest summary, key files and test counts.",
			Options:     withDefaultFirst(yesNoOptions(), strconv.FormatBool(cfg.Engine.Inventory)),
			Default:     strconv.FormatBool(cfg.Engine.Inventory),
			Required:    true,
		},
	}
}

func catalogOptions() []Option {
	var opts []Option
	for _, name := range quality.BuiltinNames() {
		opt := Option{Label: name, Value: name}
		if def, err := quality.BuiltinDefinition(name); err == nil {
			opt.Desc = def.Description
		}
		opts = append(opts, opt)
	}
	return append(opts, Option{Label: "Custom", Value: CustomCatalog, Desc: "Load rules from a definition file"})
}

func formatOptions() []Option {
	opts := make([]Option, 0, len(models.ValidOutputFormats))
	for _, f := range models.ValidOutputFormats {
		opts = append(opts, Option{Label: string(f), Value: string(f)})
	}
	return opts
}

func yesNoOptions() []Option {
	return []Option{
		{Label: "Yes", Value: "true"},
		{Label: "No", Value: "false"},
	}
}

// withDefaultFirst moves the option holding value to the front.
// huh v0.8 scrolls the viewport to the preselected index, hiding options
// above it, so the default is listed first instead.
func withDefaultFirst(opts []Option, value string) []Option {
	i := slices.IndexFunc(opts, func(o Option) bool { return o.Value == value })
	if i <= 0 {
		return opts
	}
	out := make([]Option, 0, len(opts))
	out = append(out, opts[i])
	out = append(out, opts[:i]...)
	return append(out, opts[i+1:]...)
}

func validateCatalogFile(v string) error {
	if _, err := quality.FormatForPath(v); err != nil {
		return err
	}
	return nil
}

func validateExtensions(v string) error {
	for _, ext := range splitList(v) {
		if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\*`) {
			return fmt.Errorf("invalid extension %q: use the form .dart", ext)
		}
	}
	return nil
}

func validateMinScore(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", v)
	}
	if f < 0 || f > 100 {
		return fmt.Errorf("%s is outside 0-100", v)
	}
	return nil
}

// splitList splits a comma separated answer, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
