package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
)

// failingFS refuses to open the listed paths.
type failingFS struct {
	fs.FS
	fail map[string]bool
}

func (f failingFS) Open(name string) (fs.File, error) {
	if f.fail[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.FS.Open(name)
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	mu       sync.Mutex
	total    int
	scanned  []string
	finished bool
}

func (o *recordingObserver) ScanStarted(total int) { o.total = total }

func (o *recordingObserver) FileScanned(p string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scanned = append(o.scanned, p)
}

func (o *recordingObserver) ScanFinished() { o.finished = true }

func sampleFS() fstest.MapFS {
	return fstest.MapFS{
		"pubspec.yaml":               {Data: []byte("name: demo\n")},
		"lib/main.dart":              {Data: []byte("void main() {}\n")},
		"lib/theme/app_theme.dart":   {Data: []byte("class AppTheme {}\n")},
		"lib/widgets/premium_a.dart": {Data: []byte("class PremiumA {}\n")},
		"test/widget_test.dart":      {Data: []byte("void main() {}\n")},
		"build/generated.dart":       {Data: []byte("// generated\n")},
		".dart_tool/cache.dart":      {Data: []byte("// tool\n")},
		"README.md":                  {Data: []byte("# demo\n")},
		"assets/logo.png":            {Data: []byte{0x89, 0x50}},
		"lib/widgets/premium_b.DART": {Data: []byte("class PremiumB {}\n")},
	}
}

func TestScanFiltersAndOrders(t *testing.T) {
	t.Parallel()

	s := NewScanner(Options{
		Extensions:  []string{".dart", "yaml"},
		ExcludeDirs: []string{"build"},
	}, nil)

	c, err := s.Scan(context.Background(), sampleFS())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	var got []string
	for _, f := range c.Files() {
		got = append(got, f.Path)
	}
	want := []string{
		"lib/main.dart",
		"lib/theme/app_theme.dart",
		"lib/widgets/premium_a.dart",
		"lib/widgets/premium_b.DART",
		"pubspec.yaml",
		"test/widget_test.dart",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if c.Incomplete() {
		t.Error("Incomplete() = true, want false")
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", c.Warnings())
	}
}

func TestScanNoExtensionsKeepsEverything(t *testing.T) {
	t.Parallel()

	c, err := NewScanner(Options{}, nil).Scan(context.Background(), sampleFS())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	// Hidden directories are skipped even without an exclude list.
	if _, ok := c.Lookup(".dart_tool/cache.dart"); ok {
		t.Error("hidden directory content was scanned")
	}
	if _, ok := c.Lookup("README.md"); !ok {
		t.Error("README.md missing from unfiltered scan")
	}
	if _, ok := c.Lookup("build/generated.dart"); !ok {
		t.Error("build/generated.dart missing when build is not excluded")
	}
}

func TestScanUnreadableFile(t *testing.T) {
	t.Parallel()

	fsys := failingFS{FS: sampleFS(), fail: map[string]bool{"lib/main.dart": true}}
	c, err := NewScanner(Options{Extensions: []string{".dart"}}, nil).Scan(context.Background(), fsys)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	rec, ok := c.Lookup("lib/main.dart")
	if !ok {
		t.Fatal("unreadable file dropped from corpus")
	}
	if rec.Readable {
		t.Error("Readable = true, want false")
	}
	if rec.Content != "" {
		t.Errorf("Content = %q, want empty", rec.Content)
	}
	if c.UnreadableCount() != 1 {
		t.Errorf("UnreadableCount() = %d, want 1", c.UnreadableCount())
	}

	warnings := c.Warnings()
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "lib/main.dart: unreadable") {
		t.Errorf("Warnings() = %v, want one unreadable warning for lib/main.dart", warnings)
	}
	for _, f := range c.Readable() {
		if f.Path == "lib/main.dart" {
			t.Error("Readable() includes the unreadable file")
		}
	}
}

func TestScanMaxFileBytes(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"small.dart": {Data: []byte("abc")},
		"big.dart":   {Data: []byte(strings.Repeat("x", 64))},
	}
	c, err := NewScanner(Options{MaxFileBytes: 16}, nil).Scan(context.Background(), fsys)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	big, _ := c.Lookup("big.dart")
	if big.Readable {
		t.Error("big.dart Readable = true, want false")
	}
	if !strings.Contains(big.Reason, "size limit") {
		t.Errorf("Reason = %q, want size limit", big.Reason)
	}
	small, _ := c.Lookup("small.dart")
	if !small.Readable || small.Content != "abc" {
		t.Errorf("small.dart = %+v, want readable with content", small)
	}
}

func TestScanDeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{}
	for i := range 50 {
		name := filepath.ToSlash(filepath.Join("lib", "f"+strings.Repeat("a", i%7), "file"+string(rune('a'+i%26))+".dart"))
		fsys[name] = &fstest.MapFile{Data: []byte(name)}
	}

	serial, err := NewScanner(Options{Workers: 1}, nil).Scan(context.Background(), fsys)
	if err != nil {
		t.Fatalf("serial Scan() error: %v", err)
	}
	parallel, err := NewScanner(Options{Workers: 16}, nil).Scan(context.Background(), fsys)
	if err != nil {
		t.Fatalf("parallel Scan() error: %v", err)
	}
	if !reflect.DeepEqual(serial.Files(), parallel.Files()) {
		t.Error("corpus differs between serial and parallel scans")
	}
}

func TestScanCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := NewScanner(Options{Extensions: []string{".dart"}}, nil).Scan(ctx, sampleFS())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !c.Incomplete() {
		t.Error("Incomplete() = false, want true")
	}
	if len(c.Readable()) != 0 {
		t.Errorf("Readable() = %d records, want 0", len(c.Readable()))
	}
	if c.Len() == 0 {
		t.Error("unread files should still be listed")
	}
}

func TestScanObserver(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	c, err := NewScanner(Options{Extensions: []string{".dart"}, Observer: obs}, nil).Scan(context.Background(), sampleFS())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if obs.total != c.Len() {
		t.Errorf("ScanStarted total = %d, want %d", obs.total, c.Len())
	}
	if len(obs.scanned) != c.Len() {
		t.Errorf("FileScanned calls = %d, want %d", len(obs.scanned), c.Len())
	}
	if !obs.finished {
		t.Error("ScanFinished not called")
	}
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := NewScanner(Options{}, nil).Scan(context.Background(), os.DirFS(missing)); err == nil {
		t.Error("Scan() on missing root: expected error, got nil")
	}
}

func TestScanOSDirFS(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "main.dart"), []byte("void main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewScanner(Options{Extensions: []string{".dart"}}, nil).Scan(context.Background(), os.DirFS(root))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	rec, ok := c.Lookup("lib/main.dart")
	if !ok || !rec.Readable {
		t.Fatalf("lib/main.dart = %+v, %v; want readable record", rec, ok)
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	decomposed := "cafe\u0301.dart"
	if got := normalizePath(decomposed); got != "caf\u00e9.dart" {
		t.Errorf("normalizePath(%q) = %q, want NFC form", decomposed, got)
	}
}
