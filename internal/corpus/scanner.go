package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// ErrFileTooLarge marks a record skipped because of Options.MaxFileBytes.
var ErrFileTooLarge = errors.New("corpus: file exceeds size limit")

const reasonInterrupted = "scan interrupted before read"

// Observer receives scan progress. Calls to FileScanned may come from
// several goroutines.
type Observer interface {
	ScanStarted(total int)
	FileScanned(path string)
	ScanFinished()
}

// Options configures a Scanner.
type Options struct {
	// Extensions limits the corpus to these extensions (".dart"). Empty means
	// every file.
	Extensions []string

	// ExcludeDirs are directory base names never descended into.
	ExcludeDirs []string

	// Workers bounds concurrent reads. Zero means runtime.NumCPU().
	Workers int

	// MaxFileBytes marks larger files unreadable. Zero means unlimited.
	MaxFileBytes int64

	Observer Observer
}

// Scanner walks a file system and loads matching files into a Corpus.
type Scanner struct {
	opts    Options
	exts    map[string]bool
	exclude map[string]bool
	logger  *slog.Logger
}

// NewScanner creates a Scanner. A nil logger discards log output.
func NewScanner(opts Options, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	s := &Scanner{
		opts:    opts,
		exts:    make(map[string]bool, len(opts.Extensions)),
		exclude: make(map[string]bool, len(opts.ExcludeDirs)),
		logger:  logger,
	}
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.exts[ext] = true
	}
	for _, dir := range opts.ExcludeDirs {
		s.exclude[dir] = true
	}
	return s
}

// Scan walks fsys from its root and reads every selected file.
//
// Read failures never abort the scan: the record is kept with Readable set to
// false and a warning is added. When ctx ends during reading, the remaining
// files are recorded as unreadable and the corpus is marked incomplete.
// An error is returned only when the root itself cannot be accessed.
func (s *Scanner) Scan(ctx context.Context, fsys fs.FS) (*Corpus, error) {
	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("corpus: stat root: %w", err)
	}

	paths, warnings := s.collect(fsys)
	s.logger.Debug("corpus walk finished", "files", len(paths), "warnings", len(warnings))

	obs := s.opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	obs.ScanStarted(len(paths))

	records := make([]FileRecord, len(paths))
	var interrupted atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				interrupted.Add(1)
				records[i] = FileRecord{Path: normalizePath(p), Reason: reasonInterrupted}
				return nil
			}
			records[i] = s.read(fsys, p)
			obs.FileScanned(records[i].Path)
			return nil
		})
	}
	_ = g.Wait()
	obs.ScanFinished()

	for _, r := range records {
		if !r.Readable && r.Reason != reasonInterrupted {
			warnings = append(warnings, fmt.Sprintf("%s: unreadable: %s", r.Path, r.Reason))
		}
	}

	c := New(records, warnings...)
	if n := interrupted.Load(); n > 0 {
		c.incomplete = true
		c.warnings = append(c.warnings, fmt.Sprintf("scan interrupted: %d of %d files not read", n, len(paths)))
		s.logger.Warn("corpus scan interrupted", "unread", n, "total", len(paths))
	}
	return c, nil
}

// collect walks fsys and returns the selected file paths in lexical order.
func (s *Scanner) collect(fsys fs.FS) ([]string, []string) {
	var (
		paths    []string
		warnings []string
	)
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			warnings = append(warnings, fmt.Sprintf("%s: skipped: %v", normalizePath(p), err))
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if p != "." && (s.exclude[name] || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if len(s.exts) > 0 && !s.exts[strings.ToLower(path.Ext(p))] {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	return paths, warnings
}

// read loads one file, converting any failure into an unreadable record.
func (s *Scanner) read(fsys fs.FS, p string) FileRecord {
	rec := FileRecord{Path: normalizePath(p)}

	f, err := fsys.Open(p)
	if err != nil {
		rec.Reason = err.Error()
		return rec
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if s.opts.MaxFileBytes > 0 {
		r = io.LimitReader(f, s.opts.MaxFileBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		rec.Reason = err.Error()
		return rec
	}
	if s.opts.MaxFileBytes > 0 && int64(len(data)) > s.opts.MaxFileBytes {
		rec.Reason = fmt.Sprintf("%v (%d bytes)", ErrFileTooLarge, s.opts.MaxFileBytes)
		return rec
	}

	rec.Content = string(data)
	rec.Readable = true
	return rec
}

// normalizePath converts decomposed Unicode names (as produced by some
// file systems) to NFC so that paths compare equal across platforms.
func normalizePath(p string) string {
	return norm.NFC.String(p)
}

type nopObserver struct{}

func (nopObserver) ScanStarted(int)    {}
func (nopObserver) FileScanned(string) {}
func (nopObserver) ScanFinished()      {}
