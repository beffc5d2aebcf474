// Package project locates the root of the project being analyzed.
package project

import "errors"

// Sentinel errors for the project package.
var (
	// ErrNoProjectRoot indicates no marker file was found in the start
	// directory or any parent.
	ErrNoProjectRoot = errors.New("project: no project root found")

	// ErrInvalidRoot indicates the given path is missing or not a directory.
	ErrInvalidRoot = errors.New("project: invalid project root path")
)
