package corpus

import (
	"fmt"
	"path"
	"strings"
)

// Match reports whether the slash-separated relative path p matches pattern.
//
// A pattern without "/" is matched against the base name only, so
// "*theme*.dart" finds theme files at any depth. A leading "/" anchors the
// pattern at the scan root ("/pubspec.yaml"). Any other pattern containing
// "/" is matched against the full path, where a "**" segment matches zero or
// more directories ("test/**/*_test.dart").
func Match(pattern, p string) bool {
	switch {
	case strings.HasPrefix(pattern, "/"):
		return matchSegments(strings.Split(pattern[1:], "/"), strings.Split(p, "/"))
	case strings.Contains(pattern, "/"):
		return matchSegments(strings.Split(pattern, "/"), strings.Split(p, "/"))
	default:
		ok, err := path.Match(pattern, path.Base(p))
		return err == nil && ok
	}
}

// ValidatePattern reports a malformed pattern before it is used.
func ValidatePattern(pattern string) error {
	if strings.TrimPrefix(pattern, "/") == "" {
		return fmt.Errorf("corpus: empty pattern %q", pattern)
	}
	for seg := range strings.SplitSeq(strings.TrimPrefix(pattern, "/"), "/") {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return fmt.Errorf("corpus: pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pat[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}
