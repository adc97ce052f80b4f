package internal

import (
	"context"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
)

// JarSummary describes one JAR found by Inventory.
type JarSummary struct {
	Path    string
	Classes int64
	Sources int64
	Files   int64
	Size    int64
	// Err is set when the JAR could not be opened; counts are then zero.
	Err error
}

// Inventory lists every non-excluded JAR under root with its entry counts,
// sorted by path. Up to jobs JARs are opened at once.
func Inventory(ctx context.Context, root string, depth, jobs int, filter ExclusionFilter) ([]JarSummary, error) {
	var jars []string
	walkErr := Walk(ctx, root, depth, filter, func(f File) error {
		if f.Category == CategoryArchiveJar {
			jars = append(jars, f.Path)
		}
		return nil
	})
	sort.Strings(jars)

	out := make([]JarSummary, len(jars))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, p := range jars {
		g.Go(func() error {
			out[i] = summarize(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return out, walkErr
}

func summarize(ctx context.Context, p string) JarSummary {
	js := JarSummary{Path: p}
	if st, err := os.Stat(p); err == nil {
		js.Size = st.Size()
	}
	// a zero plan counts entries without reading any of them
	_, counts, err := scanContainer(ctx, p, containerPlan{})
	if err != nil {
		js.Err = err
		return js
	}
	js.Classes = counts.Classes
	js.Sources = counts.Sources
	js.Files = counts.Total()
	return js
}

// InventoryTotal sums a listing into one row.
func InventoryTotal(list []JarSummary) JarSummary {
	t := JarSummary{Path: "TOTAL"}
	for _, js := range list {
		t.Classes += js.Classes
		t.Sources += js.Sources
		t.Files += js.Files
		t.Size += js.Size
	}
	return t
}
