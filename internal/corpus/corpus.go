// Package corpus loads a project tree into an immutable, path-ordered
// snapshot of file records.
package corpus

import (
	"path"
	"sort"
	"strings"
)

// FileRecord is one file of the corpus. Content is empty when Readable is
// false; Reason then describes the read failure.
type FileRecord struct {
	Path     string
	Content  string
	Readable bool
	Reason   string
}

// Base returns the file name without directories.
func (r FileRecord) Base() string {
	return path.Base(r.Path)
}

// Stem returns the file name without directories and extension.
func (r FileRecord) Stem() string {
	base := r.Base()
	return strings.TrimSuffix(base, path.Ext(base))
}

// Lines splits the content into lines without their terminators.
func (r FileRecord) Lines() []string {
	if r.Content == "" {
		return nil
	}
	content := strings.ReplaceAll(r.Content, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// Corpus is an immutable snapshot of the scanned files, ordered by path.
type Corpus struct {
	files      []FileRecord
	warnings   []string
	incomplete bool
}

// New builds a corpus from records and scan warnings. Records are copied and
// sorted by path so that iteration order never depends on read order.
func New(files []FileRecord, warnings ...string) *Corpus {
	sorted := make([]FileRecord, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return &Corpus{
		files:    sorted,
		warnings: append([]string(nil), warnings...),
	}
}

// Len returns the number of records, readable or not.
func (c *Corpus) Len() int {
	return len(c.files)
}

// Files returns a copy of every record in path order.
func (c *Corpus) Files() []FileRecord {
	out := make([]FileRecord, len(c.files))
	copy(out, c.files)
	return out
}

// Readable returns the records whose content was loaded.
func (c *Corpus) Readable() []FileRecord {
	var out []FileRecord
	for _, f := range c.files {
		if f.Readable {
			out = append(out, f)
		}
	}
	return out
}

// UnreadableCount returns the number of records that could not be read.
func (c *Corpus) UnreadableCount() int {
	n := 0
	for _, f := range c.files {
		if !f.Readable {
			n++
		}
	}
	return n
}

// Glob returns every record whose path matches pattern, readable or not.
// See [Match] for the pattern syntax.
func (c *Corpus) Glob(pattern string) []FileRecord {
	var out []FileRecord
	for _, f := range c.files {
		if Match(pattern, f.Path) {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of records matching pattern.
func (c *Corpus) Count(pattern string) int {
	n := 0
	for _, f := range c.files {
		if Match(pattern, f.Path) {
			n++
		}
	}
	return n
}

// Lookup returns the record with the exact path p.
func (c *Corpus) Lookup(p string) (FileRecord, bool) {
	i := sort.Search(len(c.files), func(i int) bool {
		return c.files[i].Path >= p
	})
	if i < len(c.files) && c.files[i].Path == p {
		return c.files[i], true
	}
	return FileRecord{}, false
}

// Warnings returns the scan warnings in the order they were recorded.
func (c *Corpus) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// Incomplete reports whether the scan stopped before every file was read.
func (c *Corpus) Incomplete() bool {
	return c.incomplete
}
