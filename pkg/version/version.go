// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via -ldflags, e.g.
//
//	-X github.com/modu-ai/codegrade/pkg/version.Version=v0.3.0
var (
	Version = "v0.1.0-dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit, build date and Go runtime.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s/%s)",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
