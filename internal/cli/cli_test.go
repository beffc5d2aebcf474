package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modu-ai/codegrade/internal/config"
	"github.com/modu-ai/codegrade/internal/core/quality"
	"github.com/modu-ai/codegrade/internal/defs"
	"github.com/modu-ai/codegrade/pkg/models"
)

const miniCatalog = `
name: mini
description: two rules
overall_max: 10
grades:
  - {min_percentage: 50, grade: pass, status: OK}
  - {min_percentage: 0, grade: fail, status: "NO"}
categories:
  - name: files
    title: Files
    max_points: 10
    rules:
      - id: has_main
        description: entry point exists
        remediation: add lib/main.dart
        files: {glob: /lib/main.dart}
      - id: has_theme
        description: a theme is defined
        remediation: define a ThemeData
        content: {glob: "*.dart", any: [ThemeData]}
`

// writeTree creates files under a fresh directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

// cleanProject has a main file that passes every line heuristic.
func cleanProject(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		defs.PubspecYAML:     "name: demo\nversion: 1.0.0\n",
		"lib/main.dart":      "import 'package:flutter/material.dart';\n\nvoid main() {\n  runApp(const App());\n}\n",
		"rules/mini.yaml":    miniCatalog,
		"build/ignored.dart": "x = broken()\n",
	})
}

// brokenProject adds a file with a missing terminator.
func brokenProject(t *testing.T) string {
	t.Helper()
	root := cleanProject(t)
	if err := os.WriteFile(filepath.Join(root, "lib", "calc.dart"), []byte("x = compute()\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeReport(t *testing.T, out string) models.Report {
	t.Helper()
	var rep models.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	return rep
}

func TestAnalyze_JSONWithCatalogFile(t *testing.T) {
	t.Parallel()

	root := cleanProject(t)
	out, _, err := execute(t, "analyze", root, "--catalog-file", "rules/mini.yaml", "--format", "json", "--no-progress")
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	rep := decodeReport(t, out)
	if rep.Catalog != "mini" || rep.OverallScore != 5 || rep.MaxScore != 10 || rep.Percentage != 50 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Grade != "pass" || rep.Status != "OK" {
		t.Errorf("grade = %q/%q, want pass/OK", rep.Grade, rep.Status)
	}
	if len(rep.Recommendations) != 1 || rep.Recommendations[0] != "define a ThemeData" {
		t.Errorf("recommendations = %v", rep.Recommendations)
	}
	if len(rep.Issues) != 0 {
		t.Errorf("issues = %+v; build/ must be excluded", rep.Issues)
	}
	if rep.Inventory == nil || rep.Inventory.Manifest == nil || rep.Inventory.Manifest.Name != "demo" {
		t.Errorf("inventory = %+v", rep.Inventory)
	}
}

func TestAnalyze_BuiltinTextWithProgress(t *testing.T) {
	t.Parallel()

	root := cleanProject(t)
	out, stderr, err := execute(t, "analyze", root, "--no-inventory")
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	for _, want := range []string{"Code Quality Report: flutter-ux", "Categories", "Recommendations"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Inventory") {
		t.Error("--no-inventory still printed the inventory")
	}
	if !strings.Contains(stderr, "Scanning files") {
		t.Errorf("stderr missing progress:\n%s", stderr)
	}
	if strings.Contains(out, "Scanning files") {
		t.Error("progress leaked into stdout")
	}
}

func TestAnalyze_Gates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		broken  bool
		args    []string
		wantErr error
	}{
		{"min score met", false, []string{"--min-score", "50"}, nil},
		{"min score missed", false, []string{"--min-score", "75"}, ErrBelowMinScore},
		{"errors ignored by default", true, nil, nil},
		{"fail on error", true, []string{"--fail-on-error"}, ErrLintErrors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := cleanProject(t)
			if tt.broken {
				root = brokenProject(t)
			}
			args := append([]string{"analyze", root, "--catalog-file", "rules/mini.yaml", "--format", "json", "--no-progress"}, tt.args...)
			out, _, err := execute(t, args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && ExitCode(err) != ExitGateFailed {
				t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitGateFailed)
			}
			// The report is written even when a gate fails.
			decodeReport(t, out)
		})
	}
}

func TestAnalyze_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	root := cleanProject(t)
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown catalog", []string{"--catalog", "flutter-uz"}, quality.ErrUnknownCatalog},
		{"bad format", []string{"--format", "xml"}, config.ErrInvalidConfig},
		{"negative timeout", []string{"--timeout", "-1s"}, config.ErrInvalidConfig},
		{"missing catalog file", []string{"--catalog-file", "rules/none.yaml"}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _, err := execute(t, append([]string{"analyze", root, "--no-progress"}, tt.args...)...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if ExitCode(err) != ExitFailure {
				t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitFailure)
			}
			if out != "" {
				t.Errorf("configuration error still produced output:\n%s", out)
			}
		})
	}
}

func TestAnalyze_MissingPath(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "analyze", filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for a missing path")
	}
}

func TestAnalyze_ConfigFlagAndProjectFile(t *testing.T) {
	t.Parallel()

	root := cleanProject(t)
	if err := os.WriteFile(filepath.Join(root, defs.ConfigYAML), []byte("engine:\n  catalog_file: rules/mini.yaml\noutput:\n  format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "analyze", root, "--no-progress")
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	if rep := decodeReport(t, out); rep.Catalog != "mini" {
		t.Errorf("project file ignored: catalog %q", rep.Catalog)
	}

	explicit := filepath.Join(t.TempDir(), "ci.toml")
	if err := os.WriteFile(explicit, []byte("[output]\nformat = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err = execute(t, "--config", explicit, "analyze", root, "--no-progress")
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	if !strings.Contains(out, "catalog: flutter-ux") {
		t.Errorf("--config not applied; output:\n%s", out)
	}
}

func TestLint(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "lint", cleanProject(t))
	if err != nil {
		t.Fatalf("lint on clean project error: %v", err)
	}
	if !strings.HasSuffix(out, "PASS\n") {
		t.Errorf("clean output = %q", out)
	}

	out, _, err = execute(t, "lint", brokenProject(t))
	if !errors.Is(err, ErrLintErrors) || ExitCode(err) != ExitGateFailed {
		t.Fatalf("lint on broken project error = %v", err)
	}
	for _, want := range []string{"lib/calc.dart:1", "statement-termination", "ISSUES_FOUND"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestLint_WarningsOnlyPass(t *testing.T) {
	t.Parallel()

	root := cleanProject(t)
	if err := os.WriteFile(filepath.Join(root, "lib", "helpers.dart"), []byte("class UserService {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "lint", root)
	if err != nil {
		t.Fatalf("lint error = %v, want nil for warnings only", err)
	}
	if !strings.Contains(out, "file-naming") || !strings.HasSuffix(out, "0 errors, 1 warnings: PASS\n") {
		t.Errorf("output = %q", out)
	}
}

func TestLint_JSON(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "lint", brokenProject(t), "--format", "json")
	if !errors.Is(err, ErrLintErrors) {
		t.Fatalf("error = %v", err)
	}
	var res models.LintResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Status != "ISSUES_FOUND" || res.FilesChecked != 2 || len(res.Issues) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestCatalogList(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list error: %v", err)
	}
	if !strings.Contains(out, "* flutter-ux") || !strings.Contains(out, "  flutter-structure") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "max 100") {
		t.Errorf("totals missing:\n%s", out)
	}
}

func TestCatalogShow(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "catalog", "show", "flutter-ux")
	if err != nil {
		t.Fatalf("catalog show error: %v", err)
	}
	for _, want := range []string{"flutter-ux", "Overall maximum 100", "Grades", "A+ (Industrial Grade)", "C (Below Standard)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	file := filepath.Join(cleanProject(t), "rules", "mini.yaml")
	out, _, err = execute(t, "catalog", "show", file, "--rule", "has_theme")
	if err != nil {
		t.Fatalf("catalog show --rule error: %v", err)
	}
	if !strings.Contains(out, "Remediation  define a ThemeData") {
		t.Errorf("rule output:\n%s", out)
	}

	if _, _, err := execute(t, "catalog", "show", file, "--rule", "has_them"); !errors.Is(err, quality.ErrUnknownRule) || !strings.Contains(err.Error(), `did you mean "has_theme"`) {
		t.Errorf("unknown rule error = %v", err)
	}
	if _, _, err := execute(t, "catalog", "show", "flutter-uz"); !errors.Is(err, quality.ErrUnknownCatalog) {
		t.Errorf("unknown catalog error = %v", err)
	}
}

func TestCatalogValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte(miniCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := strings.Replace(miniCatalog, "overall_max: 10", "overall_max: 40", 1)
	if err := os.WriteFile(bad, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "catalog", "validate", good)
	if err != nil {
		t.Fatalf("validate good error: %v", err)
	}
	if !strings.Contains(out, `catalog "mini" is valid (1 categories, 2 rules, max 10)`) {
		t.Errorf("output:\n%s", out)
	}

	out, _, err = execute(t, "catalog", "validate", bad)
	if err == nil || ExitCode(err) != ExitFailure {
		t.Fatalf("validate bad error = %v", err)
	}
	if !strings.Contains(out, "1 problem(s)") || !strings.Contains(out, "40") {
		t.Errorf("problems not listed:\n%s", out)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out, _, err := execute(t, "init", root, "--non-interactive", "--catalog", "flutter-structure", "--min-score", "65", "--ext", ".dart")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	path := filepath.Join(root, defs.ConfigYAML)
	if !strings.Contains(out, path) {
		t.Errorf("output does not name %s:\n%s", path, out)
	}

	cfg, err := config.NewManager(nil).Load(root)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if cfg.Engine.Catalog != "flutter-structure" || cfg.Output.MinScore != 65 || len(cfg.Scan.Extensions) != 1 {
		t.Errorf("saved config = %+v", cfg)
	}

	if _, _, err := execute(t, "init", root, "--non-interactive"); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second init error = %v, want ErrConfigExists", err)
	}
	if _, _, err := execute(t, "init", root, "--non-interactive", "--force", "--format", "json"); err != nil {
		t.Fatalf("forced init error: %v", err)
	}
	cfg, err = config.NewManager(nil).Load(root)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if cfg.Output.Format != models.FormatJSON || cfg.Engine.Catalog != "flutter-structure" {
		t.Errorf("forced init lost or ignored values: %+v", cfg)
	}
}

func TestInit_DoesNotPersistEnvironment(t *testing.T) {
	t.Setenv(config.EnvFormat, "json")
	t.Setenv(config.EnvMinScore, "90")
	t.Setenv(config.EnvNoColorStandard, "1")

	root := t.TempDir()
	if _, _, err := execute(t, "init", root, "--non-interactive", "--catalog", "flutter-structure"); err != nil {
		t.Fatalf("init error: %v", err)
	}

	cfg, err := config.NewManager(nil).LoadFile(root)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if cfg.Engine.Catalog != "flutter-structure" {
		t.Errorf("Engine.Catalog = %q, want flag value", cfg.Engine.Catalog)
	}
	if cfg.Output.Format != models.FormatText || cfg.Output.MinScore != 0 || cfg.Output.NoColor {
		t.Errorf("shell environment leaked into the file: %+v", cfg.Output)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(out, "codegrade v") {
		t.Errorf("version output = %q", out)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), ExitFailure},
		{gateError(ErrBelowMinScore, "40%% < 60%%"), ExitGateFailed},
		{&ExitError{Code: 7}, 7},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	wrapped := gateError(ErrLintErrors, "3 issues")
	if !errors.Is(wrapped, ErrLintErrors) {
		t.Error("gate error does not wrap its sentinel")
	}
	if (&ExitError{Code: 3}).Error() != "exit status 3" {
		t.Error("ExitError without cause has wrong message")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level, format string
		enabled       slog.Level
		disabled      slog.Level
		json          bool
	}{
		{"debug", "text", slog.LevelDebug, slog.LevelDebug - 1, false},
		{"info", "json", slog.LevelInfo, slog.LevelDebug, true},
		{"warn", "text", slog.LevelWarn, slog.LevelInfo, false},
		{"error", "text", slog.LevelError, slog.LevelWarn, false},
		{"", "", slog.LevelWarn, slog.LevelInfo, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(models.SystemConfig{LogLevel: tt.level, LogFormat: tt.format}, &buf)
		ctx := context.Background()
		if !logger.Enabled(ctx, tt.enabled) || logger.Enabled(ctx, tt.disabled) {
			t.Errorf("level %q: wrong threshold", tt.level)
		}
		logger.Log(ctx, tt.enabled, "hello")
		if got := strings.HasPrefix(buf.String(), "{"); got != tt.json {
			t.Errorf("format %q: json output = %v (%q)", tt.format, got, buf.String())
		}
	}
}
