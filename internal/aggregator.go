package internal

import (
	"sync"

	"github.com/sirupsen/logrus"

	"JarFinder/internal/scanner"
)

// MiniContent replaces match content in mini mode.
const MiniContent = "Found matches"

// Aggregator collects matches and counters for one run. Record is safe for
// concurrent use.
type Aggregator struct {
	mini  bool
	stats *Counters

	resultsMu sync.Mutex
	results   []scanner.Match

	seenMu sync.Mutex
	seen   map[string]struct{}
}

func NewAggregator(mini bool, stats *Counters) *Aggregator {
	a := &Aggregator{mini: mini, stats: stats}
	if mini {
		a.seen = make(map[string]struct{})
	}
	return a
}

// Record stores one raw match. In mini mode only the first match per
// location reaches the result list; MatchesFound counts every call.
func (a *Aggregator) Record(m scanner.Match) {
	if a.mini {
		if a.firstSeen(m.Location) {
			a.append(scanner.Match{Location: m.Location, Content: MiniContent, Category: m.Category})
		}
	} else {
		a.append(m)
	}
	a.stats.MatchesFound.Add(1)
}

// firstSeen holds only the dedup lock.
func (a *Aggregator) firstSeen(loc string) bool {
	a.seenMu.Lock()
	defer a.seenMu.Unlock()
	if _, ok := a.seen[loc]; ok {
		return false
	}
	a.seen[loc] = struct{}{}
	return true
}

func (a *Aggregator) append(m scanner.Match) {
	a.resultsMu.Lock()
	a.results = append(a.results, m)
	a.resultsMu.Unlock()
}

// apply merges one unit outcome. It is called from the single reducer.
func (a *Aggregator) apply(o Outcome) {
	if o.Skip != SkipNone {
		a.stats.UnitsSkipped.Add(1)
		entry := logrus.WithFields(logrus.Fields{"unit": o.Unit.Path, "reason": o.Skip.String()})
		if o.Err != nil {
			entry = entry.WithError(o.Err)
		}
		entry.Debug("unit skipped")
		return
	}
	for _, m := range o.Matches {
		a.Record(m)
	}
	a.stats.addEntries(o.Entries)
	if o.Processed {
		a.stats.FilesProcessed.Add(1)
	}
}

// Matches returns a copy of the collected results in aggregation order.
func (a *Aggregator) Matches() []scanner.Match {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	return append([]scanner.Match(nil), a.results...)
}

// Unique is the number of distinct locations seen in mini mode, or the
// result count otherwise.
func (a *Aggregator) Unique() int {
	if !a.mini {
		a.resultsMu.Lock()
		defer a.resultsMu.Unlock()
		return len(a.results)
	}
	a.seenMu.Lock()
	defer a.seenMu.Unlock()
	return len(a.seen)
}
