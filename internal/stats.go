package internal

import (
	"sync/atomic"
	"time"

	"JarFinder/internal/scanner"
)

// Counters are the running totals of one run.
type Counters struct {
	start   time.Time
	elapsed atomic.Int64

	Jars           atomic.Int64
	ZipFamily      atomic.Int64
	Classes        atomic.Int64
	Sources        atomic.Int64
	Others         atomic.Int64
	FilesProcessed atomic.Int64
	MatchesFound   atomic.Int64
	UnitsSkipped   atomic.Int64
	EntriesSkipped atomic.Int64
}

func (s *Counters) Start() {
	s.start = time.Now()
	s.elapsed.Store(0)
}

// Stop freezes Elapsed at the current wall-clock duration.
func (s *Counters) Stop() {
	s.elapsed.Store(int64(time.Since(s.start)))
}

func (s *Counters) Elapsed() time.Duration {
	if e := s.elapsed.Load(); e > 0 {
		return time.Duration(e)
	}
	if s.start.IsZero() {
		return 0
	}
	return time.Since(s.start)
}

func (s *Counters) addEntries(c EntryCounts) {
	s.Classes.Add(c.Classes)
	s.Sources.Add(c.Sources)
	s.Others.Add(c.Others)
	s.EntriesSkipped.Add(c.Skipped)
}

// Snapshot copies the counters into the reporting model.
func (s *Counters) Snapshot() scanner.Stats {
	return scanner.Stats{
		Jars:           s.Jars.Load(),
		ZipFamily:      s.ZipFamily.Load(),
		Classes:        s.Classes.Load(),
		Sources:        s.Sources.Load(),
		Others:         s.Others.Load(),
		FilesProcessed: s.FilesProcessed.Load(),
		MatchesFound:   s.MatchesFound.Load(),
		UnitsSkipped:   s.UnitsSkipped.Load(),
		EntriesSkipped: s.EntriesSkipped.Load(),
		Elapsed:        s.Elapsed(),
	}
}
