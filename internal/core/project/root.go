package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modu-ai/codegrade/internal/defs"
)

// @MX:ANCHOR: FindRoot anchors every command without an explicit path to the same directory.
// FindRoot walks upward from start until a directory holds one of
// defs.ProjectMarkers (.codegrade.yaml, .codegrade.toml or pubspec.yaml)
// and returns its absolute path.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		for _, marker := range defs.ProjectMarkers {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %v in %s or any parent directory", ErrNoProjectRoot, defs.ProjectMarkers, start)
		}
		dir = parent
	}
}

// FindRootOrCurrent is like FindRoot but falls back to the absolute form
// of start when no marker is found.
func FindRootOrCurrent(start string) (string, error) {
	if root, err := FindRoot(start); err == nil {
		return root, nil
	}
	return filepath.Abs(start)
}

// Resolve returns the directory to analyze. An explicit path must be an
// existing directory and is used as given; otherwise the root is searched
// from the working directory.
func Resolve(path string) (string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return FindRootOrCurrent(cwd)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve project path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}
	return abs, nil
}
