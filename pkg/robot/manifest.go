package robot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DisableSentinel switches off a well-known file when given as its filename.
// Matching is case-insensitive.
const DisableSentinel = "NONE"

// WellKnownFiles names the three primary artifacts looked up directly at the
// base directory. Each may be set to DisableSentinel.
type WellKnownFiles struct {
	Results string
	Log     string
	Report  string
}

// ManifestEntry pairs a file's absolute path with the name it is uploaded
// and displayed under: its path relative to the base directory, subdirectory
// structure preserved.
type ManifestEntry struct {
	Path        string
	DisplayName string
}

// Manifest is the ordered list of files selected for transfer.
type Manifest []ManifestEntry

// DiscoverManifest inspects dir for the given well-known files plus the
// secondary artifacts referenced by the results document, and returns the
// upload manifest together with the run statistics.
//
// The manifest order is fixed: results file, discovered artifacts (sorted by
// path), log, report. A well-known file that is disabled or missing is
// skipped, never an error, and an empty manifest is a valid "nothing to
// upload" outcome. When the results file is absent or disabled no discovery
// runs and the statistics come back as DefaultStatistics.
func DiscoverManifest(dir string, names WellKnownFiles) (Manifest, RunStatistics, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, RunStatistics{}, fmt.Errorf("resolve base directory: %w", err)
	}

	var manifest Manifest
	stats := DefaultStatistics()

	if path, ok := wellKnownPath(base, names.Results); ok {
		manifest = append(manifest, entryFor(base, path))
		parsed, artifacts, err := ParseResults(path, base)
		if err != nil {
			return nil, RunStatistics{}, err
		}
		stats = parsed
		for _, p := range artifacts.Paths() {
			manifest = append(manifest, entryFor(base, p))
		}
	}
	for _, name := range []string{names.Log, names.Report} {
		if path, ok := wellKnownPath(base, name); ok {
			manifest = append(manifest, entryFor(base, path))
		}
	}
	return manifest, stats, nil
}

// wellKnownPath resolves a configured filename at the base directory,
// reporting false for the disable sentinel and for anything that is not an
// existing regular file.
func wellKnownPath(base, name string) (string, bool) {
	if name == "" || strings.EqualFold(name, DisableSentinel) {
		return "", false
	}
	path := filepath.Join(base, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

func entryFor(base, path string) ManifestEntry {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return ManifestEntry{Path: path, DisplayName: rel}
}

// HTMLLabel derives the human label shown next to an uploaded HTML file: the
// basename is capitalized (first letter upper, the rest lower) and the five
// characters of its ".html" suffix are dropped. Callers pass names that end
// in ".html"; anything shorter yields the empty string.
func HTMLLabel(name string) string {
	base := []rune(capitalize(filepath.Base(name)))
	if len(base) <= 5 {
		return ""
	}
	return string(base[:len(base)-5])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
