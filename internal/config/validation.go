package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/modu-ai/codegrade/pkg/models"
)

// Dynamic token patterns that must not appear in configuration values.
// These indicate template variables that were never expanded.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),        // ${VAR}
	regexp.MustCompile(`\{\{[^}]+\}\}`),      // {{VAR}}
	regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`), // $VAR
}

// @MX:ANCHOR: every command validates its configuration here before running.
// Validate checks the configuration for correctness and reports every
// problem at once.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateScan(&cfg.Scan)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateSystem(&cfg.System)...)
	errs = append(errs, validateDynamicTokens(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateScan(s *models.ScanConfig) []ValidationError {
	var errs []ValidationError

	for i, ext := range s.Extensions {
		if strings.TrimSpace(ext) == "" || strings.ContainsAny(ext, `/\*`) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("scan.extensions[%d]", i),
				Message: `must be a plain extension such as ".dart"`,
				Value:   ext,
				Wrapped: ErrInvalidConfig,
			})
		}
	}
	for i, dir := range s.ExcludeDirs {
		if strings.TrimSpace(dir) == "" || strings.ContainsAny(dir, `/\`) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("scan.exclude_dirs[%d]", i),
				Message: "must be a directory base name",
				Value:   dir,
				Wrapped: ErrInvalidConfig,
			})
		}
	}
	if s.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "scan.workers",
			Message: "must be non-negative",
			Value:   s.Workers,
			Wrapped: ErrInvalidConfig,
		})
	}
	if s.MaxFileBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "scan.max_file_bytes",
			Message: "must be non-negative",
			Value:   s.MaxFileBytes,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

func validateEngine(e *models.EngineConfig) []ValidationError {
	var errs []ValidationError

	if e.Catalog == "" && e.CatalogFile == "" {
		errs = append(errs, ValidationError{
			Field:   "engine.catalog",
			Message: "required when engine.catalog_file is not set",
			Wrapped: ErrInvalidConfig,
		})
	}
	if e.MaxRecommendations < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.max_recommendations",
			Message: "must be non-negative",
			Value:   e.MaxRecommendations,
			Wrapped: ErrInvalidConfig,
		})
	}
	if e.Timeout != "" {
		d, err := time.ParseDuration(e.Timeout)
		if err != nil || d < 0 {
			errs = append(errs, ValidationError{
				Field:   "engine.timeout",
				Message: `must be a non-negative duration such as "30s"`,
				Value:   e.Timeout,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if len(e.Grades) > 0 {
		hasFloor := false
		for i, g := range e.Grades {
			if g.MinPercentage < 0 || g.MinPercentage > 100 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("engine.grades[%d].min_percentage", i),
					Message: "must be between 0 and 100",
					Value:   g.MinPercentage,
					Wrapped: ErrInvalidConfig,
				})
			}
			if g.Grade == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("engine.grades[%d].grade", i),
					Message: "required field is empty",
					Wrapped: ErrInvalidConfig,
				})
			}
			if g.MinPercentage == 0 {
				hasFloor = true
			}
		}
		if !hasFloor {
			errs = append(errs, ValidationError{
				Field:   "engine.grades",
				Message: "needs a band with min_percentage 0 so every score maps to a grade",
				Wrapped: ErrInvalidConfig,
			})
		}
	}
	return errs
}

func validateOutput(o *models.OutputConfig) []ValidationError {
	var errs []ValidationError

	if !o.Format.IsValid() {
		names := make([]string, len(models.ValidOutputFormats))
		for i, f := range models.ValidOutputFormats {
			names[i] = string(f)
		}
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")),
			Value:   string(o.Format),
			Wrapped: ErrInvalidConfig,
		})
	}
	if o.MinScore < 0 || o.MinScore > 100 {
		errs = append(errs, ValidationError{
			Field:   "output.min_score",
			Message: "must be a percentage between 0 and 100",
			Value:   o.MinScore,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

func validateSystem(s *models.SystemConfig) []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidLogLevels, s.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "system.log_level",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels, ", ")),
			Value:   s.LogLevel,
			Wrapped: ErrInvalidConfig,
		})
	}
	if !slices.Contains(ValidLogFormats, s.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "system.log_format",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats, ", ")),
			Value:   s.LogFormat,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// validateDynamicTokens checks path-like string fields for unexpanded
// dynamic tokens.
func validateDynamicTokens(cfg *Config) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkStringField("engine.catalog", cfg.Engine.Catalog)...)
	errs = append(errs, checkStringField("engine.catalog_file", cfg.Engine.CatalogFile)...)
	for i, dir := range cfg.Scan.ExcludeDirs {
		errs = append(errs, checkStringField(fmt.Sprintf("scan.exclude_dirs[%d]", i), dir)...)
	}

	return errs
}

// checkStringField checks a single string field for dynamic token patterns.
func checkStringField(field, value string) []ValidationError {
	if value == "" {
		return nil
	}
	for _, pattern := range dynamicTokenPatterns {
		if match := pattern.FindString(value); match != "" {
			return []ValidationError{
				{
					Field:   field,
					Message: fmt.Sprintf("contains unexpanded dynamic token: %s", match),
					Value:   value,
					Wrapped: ErrDynamicToken,
				},
			}
		}
	}
	return nil
}
