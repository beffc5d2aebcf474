// Package wizard provides the interactive huh-based wizard behind
// "codegrade init".
package wizard

import "errors"

// CustomCatalog is the catalog choice that asks for a definition file.
const CustomCatalog = "custom"

// WizardResult holds the answers given in the init wizard.
type WizardResult struct {
	Catalog     string // Built-in catalog name, or CustomCatalog
	CatalogFile string // Definition file path when Catalog is CustomCatalog
	Extensions  string // Comma separated, e.g. ".dart, .yaml"
	Format      string // Output format
	MinScore    string // Minimum percentage, as typed
	FailOnError string // "true" or "false"
	Inventory   string // "true" or "false"

	answered map[string]bool
}

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
)

// Question defines a single wizard question.
type Question struct {
	ID          string                   // Unique identifier
	Type        QuestionType             // Select or Input
	Title       string                   // Question title
	Description string                   // Additional description
	Options     []Option                 // Options for select questions
	Default     string                   // Default value
	Required    bool                     // Whether the field is required
	Validate    func(string) error       // Extra check on the trimmed input
	Condition   func(*WizardResult) bool // Condition for showing this question
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user cancels the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
	// ErrRequired is returned by input validation for empty required answers.
	ErrRequired = errors.New("this field is required")
)
