package internal

import "JarFinder/internal/scanner"

// SkipReason says why a unit produced no scan.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipExcluded
	SkipBelowThreshold
	SkipOpenFailed
	SkipCancelled
)

func (r SkipReason) String() string {
	switch r {
	case SkipExcluded:
		return "excluded"
	case SkipBelowThreshold:
		return "below size threshold"
	case SkipOpenFailed:
		return "open failed"
	case SkipCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// EntryCounts tallies container entries by kind.
type EntryCounts struct {
	Classes int64
	Sources int64
	Others  int64
	// entries that could not be opened or read
	Skipped int64
}

func (c *EntryCounts) add(k EntryKind) {
	switch k {
	case EntryClass:
		c.Classes++
	case EntrySource:
		c.Sources++
	default:
		c.Others++
	}
}

func (c EntryCounts) Total() int64 { return c.Classes + c.Sources + c.Others }

// Outcome is the typed result of processing one unit of work. Workers
// return outcomes; they never touch shared state.
type Outcome struct {
	Unit      File
	Matches   []scanner.Match
	Entries   EntryCounts
	Processed bool
	Skip      SkipReason
	Err       error
}

func skipped(u File, r SkipReason, err error) Outcome {
	return Outcome{Unit: u, Skip: r, Err: err}
}
