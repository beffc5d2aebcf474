package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/modu-ai/codegrade/internal/defs"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		marker string
	}{
		{"pubspec", defs.PubspecYAML},
		{"yaml config", defs.ConfigYAML},
		{"toml config", defs.ConfigTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			touch(t, filepath.Join(root, tt.marker))
			deep := filepath.Join(root, "lib", "src", "widgets")
			if err := os.MkdirAll(deep, 0o755); err != nil {
				t.Fatal(err)
			}

			got, err := FindRoot(deep)
			if err != nil {
				t.Fatalf("FindRoot() error: %v", err)
			}
			if got != root {
				t.Errorf("FindRoot() = %q, want %q", got, root)
			}
		})
	}
}

func TestFindRoot_NearestWins(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	touch(t, filepath.Join(outer, defs.PubspecYAML))
	inner := filepath.Join(outer, "packages", "core")
	touch(t, filepath.Join(inner, defs.PubspecYAML))

	got, err := FindRoot(filepath.Join(inner, "lib"))
	if err == nil && got != inner {
		t.Errorf("FindRoot() = %q, want %q", got, inner)
	}
}

func TestFindRoot_MarkerDirectoryIgnored(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, defs.PubspecYAML), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindRoot(root)
	if err == nil && got == root {
		t.Errorf("directory named %s treated as marker", defs.PubspecYAML)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != dir {
		t.Errorf("Resolve() = %q, want %q", got, dir)
	}

	if _, err := Resolve(filepath.Join(dir, "missing")); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("Resolve(missing) error = %v, want ErrInvalidRoot", err)
	}

	file := filepath.Join(dir, "main.dart")
	touch(t, file)
	if _, err := Resolve(file); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("Resolve(file) error = %v, want ErrInvalidRoot", err)
	}
}
