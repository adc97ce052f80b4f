package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode selects which search an engine run performs.
type Mode int

const (
	ModeExactClass Mode = iota + 1
	ModeClassSubstring
	ModePackage
	ModeContent
	ModeMaster
)

var modeNames = map[Mode]string{
	ModeExactClass:     "class",
	ModeClassSubstring: "class-contains",
	ModePackage:        "package",
	ModeContent:        "search",
	ModeMaster:         "master",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the command names used by the CLI.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// NameBased reports whether the mode matches class names instead of content.
func (m Mode) NameBased() bool {
	return m == ModeExactClass || m == ModeClassSubstring || m == ModePackage
}

// Match is one located occurrence.
type Match struct {
	// Location is a filesystem path, or "archive:entry" inside a container.
	Location string
	// Line is 1-based; 0 means the match has no line.
	Line     int
	Content  string
	Category string
}

func (m Match) HasLine() bool { return m.Line > 0 }

// Stats is a frozen snapshot of run counters.
type Stats struct {
	Jars           int64
	ZipFamily      int64
	Classes        int64
	Sources        int64
	Others         int64
	FilesProcessed int64
	MatchesFound   int64
	UnitsSkipped   int64
	EntriesSkipped int64
	Unique         int64
	Parallelism    int
	Elapsed        time.Duration

	// Visited is every non-excluded regular file seen by the walk, and
	// Categories breaks it down by file category.
	Visited    int64
	Categories map[string]int64
}

// Result is what a finished run hands back to the caller.
type Result struct {
	Matches []Match
	Stats   Stats
}

// Request is the narrow input of a run, as consumed by presentation layers.
type Request struct {
	Mode        Mode
	Query       string
	Root        string
	Excludes    []string
	MinSize     int64
	Parallelism int
	Mini        bool
}

// Searcher is the interface for archive-aware searchers.
type Searcher interface {
	Search(ctx context.Context, req Request) (*Result, error)
}
