// Package defs holds file and directory names shared across packages.
package defs

// Configuration file names looked up at the project root.
const (
	// ConfigYAML is the YAML project configuration file.
	ConfigYAML = ".codegrade.yaml"

	// ConfigTOML is the TOML project configuration file.
	ConfigTOML = ".codegrade.toml"

	// ConfigEnvVar names an explicit configuration file path.
	ConfigEnvVar = "CODEGRADE_CONFIG"
)

// Project marker and key files of an analyzed tree.
const (
	// PubspecYAML is the Dart/Flutter package manifest.
	PubspecYAML = "pubspec.yaml"

	// AnalysisOptionsYAML is the Dart analyzer configuration.
	AnalysisOptionsYAML = "analysis_options.yaml"

	// MainDart is the conventional application entry point.
	MainDart = "lib/main.dart"

	// AppDart is the conventional root widget file.
	AppDart = "lib/app.dart"
)

// Directory names.
const (
	LibDir  = "lib"
	TestDir = "test"
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".dart", ".yaml"}

// DefaultExcludeDirs are directory base names never descended into.
// Hidden directories are skipped regardless.
var DefaultExcludeDirs = []string{
	"build",
	"node_modules",
	"Pods",
	"vendor",
}

// ProjectMarkers identify a project root when walking upward.
var ProjectMarkers = []string{ConfigYAML, ConfigTOML, PubspecYAML}
