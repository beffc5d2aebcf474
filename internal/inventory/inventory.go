// Package inventory derives deterministic project facts from a corpus:
// the package manifest, source files per directory, key files with their
// import mix, and test counts per suite.
//
// Everything here is counted from file content. Nothing is executed and no
// figure is estimated.
package inventory

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/modu-ai/codegrade/internal/corpus"
	"github.com/modu-ai/codegrade/internal/defs"
	"github.com/modu-ai/codegrade/pkg/models"
)

const (
	sourceExt  = ".dart"
	testSuffix = "_test.dart"
)

// Suite names in report order.
const (
	SuiteUnit        = "unit"
	SuiteWidget      = "widget"
	SuiteIntegration = "integration"
	SuiteOther       = "other"
)

var suiteOrder = []string{SuiteUnit, SuiteWidget, SuiteIntegration, SuiteOther}

var (
	importPattern = regexp.MustCompile(`(?m)^\s*import\s+['"]([^'"]+)['"]`)
	testPattern   = regexp.MustCompile(`\b(?:test|testWidgets)\s*\(`)
	expectPattern = regexp.MustCompile(`\bexpect\s*\(`)
)

// keyFiles are reported whether or not they exist.
var keyFiles = []string{defs.MainDart, defs.AppDart, defs.PubspecYAML}

// Build collects the inventory of c.
func Build(c *corpus.Corpus) *models.Inventory {
	inv := &models.Inventory{
		Directories: make(map[string]int),
		KeyFiles:    make([]models.KeyFile, 0, len(keyFiles)),
	}

	if rec, ok := c.Lookup(defs.PubspecYAML); ok {
		inv.Manifest = manifestFromRecord(rec)
	}

	suites := make(map[string]*models.TestSuite, len(suiteOrder))
	for _, name := range suiteOrder {
		suites[name] = &models.TestSuite{Name: name}
	}

	for _, rec := range c.Files() {
		if !strings.HasSuffix(strings.ToLower(rec.Path), sourceExt) {
			continue
		}
		inv.SourceFiles++
		inv.Directories[path.Dir(rec.Path)]++

		if !strings.HasSuffix(rec.Base(), testSuffix) {
			continue
		}
		s := suites[SuiteOf(rec.Path)]
		s.Files++
		if rec.Readable {
			s.Tests += len(testPattern.FindAllStringIndex(rec.Content, -1))
			s.Expectations += len(expectPattern.FindAllStringIndex(rec.Content, -1))
		}
	}

	for _, name := range suiteOrder {
		inv.Tests = append(inv.Tests, *suites[name])
	}
	for _, p := range keyFiles {
		inv.KeyFiles = append(inv.KeyFiles, keyFile(c, p))
	}
	return inv
}

// SuiteOf classifies a test file path by its directory.
func SuiteOf(p string) string {
	switch {
	case strings.HasPrefix(p, "test/unit/"):
		return SuiteUnit
	case strings.HasPrefix(p, "test/widget/"):
		return SuiteWidget
	case strings.HasPrefix(p, "test/integration/"), strings.HasPrefix(p, "integration_test/"):
		return SuiteIntegration
	default:
		return SuiteOther
	}
}

func keyFile(c *corpus.Corpus, p string) models.KeyFile {
	kf := models.KeyFile{Path: p}
	rec, ok := c.Lookup(p)
	if !ok {
		return kf
	}
	kf.Exists = true
	if !rec.Readable {
		return kf
	}
	kf.Lines = len(rec.Lines())
	if strings.HasSuffix(p, sourceExt) {
		kf.Imports = ClassifyImports(rec.Content)
	}
	return kf
}

// ClassifyImports counts the import directives of a Dart source by origin.
func ClassifyImports(content string) models.ImportBreakdown {
	var b models.ImportBreakdown
	for _, m := range importPattern.FindAllStringSubmatch(content, -1) {
		uri := m[1]
		switch {
		case strings.HasPrefix(uri, "package:flutter/"):
			b.Framework++
		case strings.HasPrefix(uri, "dart:"):
			b.SDK++
		case strings.HasPrefix(uri, "package:"):
			b.Packages++
		default:
			b.Local++
		}
	}
	return b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
