package quality

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultCatalog is the built-in catalog used when none is configured.
const DefaultCatalog = "flutter-ux"

//go:embed catalogs/*.yaml
var builtinFS embed.FS

// BuiltinNames returns the names of the embedded catalogs, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "catalogs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// BuiltinDefinition returns the declarative form of an embedded catalog.
func BuiltinDefinition(name string) (*CatalogDefinition, error) {
	data, err := builtinFS.ReadFile(path.Join("catalogs", name+".yaml"))
	if err != nil {
		return nil, notFoundError(ErrUnknownCatalog, name, BuiltinNames())
	}
	def, err := ParseDefinition(data, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("quality: built-in catalog %s: %w", name, err)
	}
	return def, nil
}

// Builtin compiles an embedded catalog. Each call returns a fresh catalog.
func Builtin(name string) (*Catalog, error) {
	def, err := BuiltinDefinition(name)
	if err != nil {
		return nil, err
	}
	return def.Compile()
}

// Suggest returns the candidate closest to input, or "" when nothing matches.
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
