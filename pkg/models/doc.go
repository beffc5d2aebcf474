// Package models provides the data types shared between the scoring engine,
// the configuration layer and the renderers.
//
// # Report
//
// [Report] is the single output of an analysis run. It is built once by the
// engine and never mutated afterwards:
//
//	report, err := engine.Analyze(ctx, os.DirFS(root))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%.1f/%.0f %s\n", report.OverallScore, report.MaxScore, report.Grade)
//
// A report carries no timestamps or run identifiers, so two runs over the
// same tree serialize to identical bytes.
//
// # Issues
//
// [Issue] values come only from the line linter. Their [IssueKind] is either
// [IssueError] or [IssueWarning]; file-level issues have a nil Line.
//
// # Configuration Types
//
//   - [ScanConfig]: file filters and read parallelism
//   - [EngineConfig]: catalog selection, grade overrides, timeout
//   - [OutputConfig]: output format and exit thresholds
//   - [SystemConfig]: logging
package models
