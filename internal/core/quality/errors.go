package quality

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for catalog construction and lookup.
var (
	// ErrInvalidCatalog indicates a catalog violates a structural invariant
	// such as category weights not summing to the declared maximum.
	ErrInvalidCatalog = errors.New("quality: invalid catalog")

	// ErrInvalidDefinition indicates a declarative catalog file is malformed.
	ErrInvalidDefinition = errors.New("quality: invalid catalog definition")

	// ErrUnknownCatalog indicates a built-in catalog name was not found.
	ErrUnknownCatalog = errors.New("quality: unknown catalog")

	// ErrUnknownRule indicates a rule id was not found in a catalog.
	ErrUnknownRule = errors.New("quality: unknown rule")
)

// CatalogError lists every problem found while validating a catalog.
type CatalogError struct {
	Catalog  string
	Problems []string
	Wrapped  error // ErrInvalidCatalog or ErrInvalidDefinition
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	name := e.Catalog
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%v %s: %d problem(s): %s",
		e.sentinel(), name, len(e.Problems), strings.Join(e.Problems, "; "))
}

// Unwrap returns the underlying sentinel error.
func (e *CatalogError) Unwrap() error {
	return e.sentinel()
}

func (e *CatalogError) sentinel() error {
	if e.Wrapped == nil {
		return ErrInvalidCatalog
	}
	return e.Wrapped
}

// notFoundError adds a "did you mean" hint to a lookup failure.
func notFoundError(sentinel error, name string, candidates []string) error {
	if s := Suggest(name, candidates); s != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", sentinel, name, s)
	}
	return fmt.Errorf("%w: %q (available: %s)", sentinel, name, strings.Join(candidates, ", "))
}
