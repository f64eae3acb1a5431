// Package robot extracts run metadata and artifact references from Robot
// Framework results documents.
package robot

import "time"

// Verdict is the coarse pass/fail summary of a run, derived solely from the
// failure count.
type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictFail    Verdict = "fail"
	VerdictUnknown Verdict = "unknown"
)

// RunStatistics summarizes a single test run. Zero-valued timestamps mean the
// document carried no timing information.
type RunStatistics struct {
	TotalTests int
	Passed     int
	Failed     int
	Skipped    int
	Verdict    Verdict
	StartTime  time.Time
	EndTime    time.Time
}

// DefaultStatistics returns the statistics reported when no results document
// is available: zero counts, no timestamps, and a pass verdict.
func DefaultStatistics() RunStatistics {
	return RunStatistics{Verdict: VerdictPass}
}
