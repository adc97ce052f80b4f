package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"JarFinder/internal/scanner"
)

// Progress receives unit-level progress from a run. Implementations are
// called from a single goroutine.
type Progress interface {
	Start(total int)
	Advance()
}

// Engine runs archive-aware searches.
type Engine struct {
	// StatsInterval controls the periodic "Stats:" log line. Zero disables it.
	StatsInterval time.Duration
}

func NewEngine() *Engine { return &Engine{StatsInterval: 2 * time.Second} }

var _ scanner.Searcher = (*Engine)(nil)

// Search implements scanner.Searcher.
func (e *Engine) Search(ctx context.Context, req scanner.Request) (*scanner.Result, error) {
	return e.Run(ctx, OptionsFromRequest(req))
}

// runPlan is the per-run routing decided before any unit is opened.
type runPlan struct {
	pattern Pattern
	jar     containerPlan
	zip     containerPlan
}

func buildPlan(opts ScanOptions) (runPlan, error) {
	if opts.Mode.NameBased() {
		nm, err := NewNameMatcher(opts.Mode, opts.Query)
		if err != nil {
			return runPlan{}, err
		}
		return runPlan{jar: containerPlan{names: &nm}}, nil
	}
	p, err := CompilePattern(opts.Query, opts.IgnoreCase)
	if err != nil {
		return runPlan{}, err
	}
	rp := runPlan{
		pattern: p,
		jar:     containerPlan{pattern: p, types: opts.types, bytecode: true},
		zip:     containerPlan{pattern: p, types: AllTypes},
	}
	if opts.Mode == scanner.ModeMaster {
		rp.jar.types = AllTypes
	}
	return rp, nil
}

// Run is the main pipeline. It fails only on invalid options or pattern,
// before any traversal; every other problem is reported per unit.
func (e *Engine) Run(ctx context.Context, opts ScanOptions) (*scanner.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Prepare()
	rp, err := buildPlan(opts)
	if err != nil {
		return nil, err
	}

	var stats Counters
	stats.Start()
	agg := NewAggregator(opts.Mini, &stats)

	log := logrus.WithField("run", uuid.NewString())
	units, visited, categories := collectUnits(ctx, opts, &stats)
	log.WithFields(logrus.Fields{
		"mode":  opts.Mode.String(),
		"root":  opts.Root,
		"units": len(units),
		"jars":  stats.Jars.Load(),
	}).Info("search planned")
	if opts.Progress != nil {
		opts.Progress.Start(len(units))
	}

	outcomes := make(chan Outcome, 256)
	reduced := make(chan struct{})
	go func() {
		defer close(reduced)
		for o := range outcomes {
			agg.apply(o)
			if opts.Progress != nil {
				opts.Progress.Advance()
			}
		}
	}()

	// units in flight finish even if ctx is cancelled
	unitCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(opts.Threads, func(i interface{}) {
		defer wg.Done()
		outcomes <- e.process(unitCtx, i.(File), &opts, rp)
	})
	if err != nil {
		close(outcomes)
		<-reduced
		return nil, fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	stopTicker := e.logPeriodically(&stats)
	for i, u := range units {
		if ctx.Err() != nil {
			for _, rest := range units[i:] {
				outcomes <- skipped(rest, SkipCancelled, ctx.Err())
			}
			log.WithField("skipped", len(units)-i).Warn("search cancelled, remaining units skipped")
			break
		}
		wg.Add(1)
		if err := pool.Invoke(u); err != nil {
			wg.Done()
			log.WithError(err).Error("submit task")
			outcomes <- skipped(u, SkipOpenFailed, err)
		}
	}
	wg.Wait()
	close(outcomes)
	<-reduced
	stopTicker()
	stats.Stop()

	snap := stats.Snapshot()
	log.WithFields(logrus.Fields{
		"processed": snap.FilesProcessed,
		"matches":   snap.MatchesFound,
		"skipped":   snap.UnitsSkipped,
		"elapsed":   snap.Elapsed,
	}).Info("search finished")
	snap.Unique = int64(agg.Unique())
	snap.Parallelism = opts.Threads
	snap.Visited = visited
	snap.Categories = categories
	return &scanner.Result{Matches: agg.Matches(), Stats: snap}, nil
}

// collectUnits walks the root once, counts every category and returns the
// units the mode needs: JARs only, or everything in master mode.
func collectUnits(ctx context.Context, opts ScanOptions, stats *Counters) ([]File, int64, map[string]int64) {
	var (
		units   []File
		visited int64
	)
	categories := make(map[string]int64, len(AllCategories))
	master := opts.Mode == scanner.ModeMaster

	err := Walk(ctx, opts.Root, opts.Depth, opts.filter, func(f File) error {
		visited++
		categories[f.Category.String()]++
		switch {
		case f.Category == CategoryArchiveJar:
			stats.Jars.Add(1)
		case !master:
			return nil
		case f.Category == CategoryArchiveZipFamily:
			stats.ZipFamily.Add(1)
		case f.Category == CategorySource:
			stats.Sources.Add(1)
		default:
			stats.Others.Add(1)
		}
		units = append(units, f)
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("root", opts.Root).Warn("walk stopped early")
	}
	return units, visited, categories
}

// process handles one unit fully. It never panics out of the worker.
func (e *Engine) process(ctx context.Context, u File, opts *ScanOptions, rp runPlan) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"unit": u.Path, "panic": r}).Error("unit processing panicked")
			o = skipped(u, SkipOpenFailed, fmt.Errorf("panic: %v", r))
		}
	}()

	if opts.filter.Excluded(u.Path) {
		return skipped(u, SkipExcluded, nil)
	}
	if belowThreshold(u.Path, opts.MinSize) {
		logrus.WithFields(logrus.Fields{"file": u.Path, "min_size": opts.MinSize}).Debug("skipping small file")
		return skipped(u, SkipBelowThreshold, nil)
	}

	switch u.Category {
	case CategoryArchiveJar, CategoryArchiveZipFamily:
		plan := rp.jar
		if u.Category == CategoryArchiveZipFamily {
			plan = rp.zip
		}
		logrus.WithField("archive", u.Path).Debug("scanning container")
		matches, counts, err := scanContainer(ctx, u.Path, plan)
		if err != nil {
			return skipped(u, SkipOpenFailed, err)
		}
		return Outcome{Unit: u, Matches: matches, Entries: counts, Processed: true}
	default:
		logrus.WithFields(logrus.Fields{"file": u.Path, "category": u.Category.String()}).Debug("scanning file")
		matches, err := scanFile(u.Path, rp.pattern)
		if err != nil {
			return skipped(u, SkipOpenFailed, err)
		}
		return Outcome{Unit: u, Matches: matches, Processed: true}
	}
}

// logPeriodically logs running totals until the returned func is called.
func (e *Engine) logPeriodically(stats *Counters) func() {
	if e.StatsInterval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(e.StatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				logrus.Infof("Stats: processed=%d matches=%d skipped=%d",
					stats.FilesProcessed.Load(), stats.MatchesFound.Load(), stats.UnitsSkipped.Load())
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}
