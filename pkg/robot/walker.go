package robot

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// ArtifactSet collects the canonical absolute paths of artifact files
// referenced by a results document. Membership is unique by path; iteration
// order is undefined, use Paths for a stable view.
type ArtifactSet map[string]struct{}

// Add records one canonical path.
func (s ArtifactSet) Add(path string) { s[path] = struct{}{} }

// Paths returns the members sorted lexicographically.
func (s ArtifactSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ParseResults streams the results document at path and returns the run
// statistics together with the artifact files it references. baseDir is the
// boundary every discovered reference is resolved against.
//
// The walk is a single forward pass: element memory stays constant no matter
// how large the document grows. A document that cannot be opened or is not
// well-formed XML fails the whole call with *DocumentError; numeric
// attributes that are present but unparsable fail it with
// *AttributeTypeError. No partial result is ever returned.
func ParseResults(path, baseDir string) (RunStatistics, ArtifactSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return RunStatistics{}, nil, &DocumentError{Path: path, Err: err}
	}
	defer f.Close()
	return parseResults(f, path, baseDir)
}

// ParseResultsFrom is ParseResults over an arbitrary reader.
func ParseResultsFrom(r io.Reader, baseDir string) (RunStatistics, ArtifactSet, error) {
	return parseResults(r, "", baseDir)
}

// Document-shape violations the decoder itself lets through.
var (
	errNoRootElement   = errors.New("no document element")
	errTextOutsideRoot = errors.New("text outside document element")
	errJunkAfterRoot   = errors.New("content after document element")
)

func parseResults(r io.Reader, path, baseDir string) (RunStatistics, ArtifactSet, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return RunStatistics{}, nil, fmt.Errorf("resolve base directory: %w", err)
	}

	w := &walker{
		base:      base,
		stats:     RunStatistics{Verdict: VerdictUnknown},
		artifacts: make(ArtifactSet),
	}
	dec := xml.NewDecoder(r)

	// encoding/xml tokenizes leniently and does not insist on a single
	// document element. Track element depth here so empty input, top-level
	// text and trailing content fail like any other malformed document.
	depth := 0
	rootClosed := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RunStatistics{}, nil, &DocumentError{Path: path, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return RunStatistics{}, nil, &DocumentError{Path: path, Err: errJunkAfterRoot}
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				rootClosed = true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return RunStatistics{}, nil, &DocumentError{Path: path, Err: errTextOutsideRoot}
			}
		}
		if err := w.handle(tok); err != nil {
			return RunStatistics{}, nil, err
		}
	}
	if !rootClosed {
		return RunStatistics{}, nil, &DocumentError{Path: path, Err: errNoRootElement}
	}
	if err := w.finalize(); err != nil {
		return RunStatistics{}, nil, err
	}
	return w.stats, w.artifacts, nil
}

// scanState tracks where the cursor sits relative to the statistics section.
type scanState int

const (
	stateOutside scanState = iota
	stateStatistics
	stateStatisticsTotal
)

// attrVal distinguishes an absent attribute from one present with any value,
// the empty string included.
type attrVal struct {
	val string
	set bool
}

// elemFrame holds what an open element contributes once it closes. Attribute
// values arrive with the start tag while text and the final decision arrive
// with the end tag, so the walker keeps one frame per open element.
type elemFrame struct {
	name    string
	start   string
	elapsed attrVal
	pass    attrVal
	fail    attrVal
	skip    attrVal
	htmlMsg bool

	capture  bool
	textDone bool
	text     []byte
}

type walker struct {
	base  string
	state scanState
	stack []elemFrame

	// Candidates from the most recently closed status element.
	startRaw string
	elapsed  float64

	stats     RunStatistics
	artifacts ArtifactSet
}

func (w *walker) handle(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		w.open(t)
	case xml.EndElement:
		return w.close(t)
	case xml.CharData:
		if n := len(w.stack); n > 0 {
			f := &w.stack[n-1]
			if f.capture && !f.textDone {
				f.text = append(f.text, t...)
			}
		}
	}
	return nil
}

func (w *walker) open(t xml.StartElement) {
	if n := len(w.stack); n > 0 {
		// Leading text ends at the first child element.
		w.stack[n-1].textDone = true
	}

	f := elemFrame{name: t.Name.Local}
	switch t.Name.Local {
	case "statistics":
		if w.state == stateOutside {
			w.state = stateStatistics
		}
	case "total":
		if w.state == stateStatistics {
			w.state = stateStatisticsTotal
		}
	case "status":
		f.start = attrValue(t, "start")
		f.elapsed = lookupAttr(t, "elapsed")
	case "stat":
		f.pass = lookupAttr(t, "pass")
		f.fail = lookupAttr(t, "fail")
		f.skip = lookupAttr(t, "skip")
		f.capture = true
	case "msg":
		if attrValue(t, "html") == "true" {
			f.htmlMsg = true
			f.capture = true
		}
	}
	w.stack = append(w.stack, f)
}

func (w *walker) close(xml.EndElement) error {
	n := len(w.stack)
	if n == 0 {
		return nil
	}
	f := w.stack[n-1]
	w.stack = w.stack[:n-1]

	switch f.name {
	case "statistics":
		w.state = stateOutside
	case "total":
		if w.state == stateStatisticsTotal {
			w.state = stateStatistics
		}
	case "status":
		// Every closed status overwrites the candidates. Suites close after
		// all of their children, so the last value seen belongs to the
		// outermost suite. That ordering comes from how the documents are
		// emitted, not from the schema; see the multi-suite fixture test.
		w.startRaw = f.start
		w.elapsed = 0
		if f.elapsed.set {
			v, err := strconv.ParseFloat(f.elapsed.val, 64)
			if err != nil {
				return &AttributeTypeError{Element: "status", Attr: "elapsed", Value: f.elapsed.val}
			}
			w.elapsed = v
		}
	case "stat":
		if w.state == stateStatisticsTotal && string(f.text) == "All Tests" {
			passed, err := statCount("pass", f.pass)
			if err != nil {
				return err
			}
			failed, err := statCount("fail", f.fail)
			if err != nil {
				return err
			}
			skipped, err := statCount("skip", f.skip)
			if err != nil {
				return err
			}
			w.stats.Passed = passed
			w.stats.Failed = failed
			w.stats.Skipped = skipped
			w.stats.TotalTests = passed + failed + skipped
		}
	case "msg":
		if f.htmlMsg {
			for _, ref := range ExtractPathRefs(string(f.text)) {
				if p, ok := resolveArtifact(w.base, ref); ok {
					w.artifacts.Add(p)
				}
			}
		}
	}
	return nil
}

func (w *walker) finalize() error {
	if w.startRaw != "" {
		start, err := parseTimestamp(w.startRaw)
		if err != nil {
			return &AttributeTypeError{Element: "status", Attr: "start", Value: w.startRaw}
		}
		w.stats.StartTime = start
		w.stats.EndTime = start.Add(elapsedDuration(w.elapsed))
	}
	if w.stats.Failed > 0 {
		w.stats.Verdict = VerdictFail
	} else {
		w.stats.Verdict = VerdictPass
	}
	return nil
}

// statCount parses one counter attribute. Absent attributes default to zero;
// present but non-numeric values are fatal.
func statCount(attr string, v attrVal) (int, error) {
	if !v.set {
		return 0, nil
	}
	n, err := strconv.Atoi(v.val)
	if err != nil {
		return 0, &AttributeTypeError{Element: "stat", Attr: attr, Value: v.val}
	}
	return n, nil
}

func attrValue(e xml.StartElement, name string) string {
	return lookupAttr(e, name).val
}

func lookupAttr(e xml.StartElement, name string) attrVal {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return attrVal{val: a.Value, set: true}
		}
	}
	return attrVal{}
}

// startLayouts covers the timestamps results documents carry: RFC 3339 with
// an explicit zone, and the zone-less form some producers emit, which is
// taken as UTC.
var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// elapsedDuration converts elapsed seconds to a duration with microsecond
// resolution, the same resolution the document timestamps carry.
func elapsedDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1e6)) * time.Microsecond
}
