package internal

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"JarFinder/internal/scanner"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	purple = color.New(color.FgMagenta).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════════════════"

// Reporter renders run output for humans.
type Reporter struct {
	Out      io.Writer
	Mini     bool
	Excludes []string
}

// Results prints every match, or numbered unique locations in mini mode.
func (r *Reporter) Results(matches []scanner.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(r.Out, "%s No matches found\n", yellow("RESULT"))
		return
	}
	what := "matches"
	if r.Mini {
		what = "unique files with matches"
	}
	fmt.Fprintf(r.Out, "\n%s Found %d %s\n", bold("RESULTS"), len(matches), what)
	fmt.Fprintln(r.Out, cyan(strings.Repeat("─", 80)))

	for i, m := range matches {
		n := i + 1
		switch {
		case r.Mini:
			fmt.Fprintf(r.Out, "%3d. %s\n", n, green(m.Location))
		case m.HasLine():
			fmt.Fprintf(r.Out, "%3d. %s %s:%s\n", n, green(m.Location), cyan("line"), yellow(m.Line))
			fmt.Fprintf(r.Out, "     %s: %s\n", purple(m.Category), m.Content)
		default:
			fmt.Fprintf(r.Out, "%3d. %s %s: %s\n", n, green(m.Location), purple(m.Category), m.Content)
		}
	}
}

// Stats prints the statistics block.
func (r *Reporter) Stats(s scanner.Stats, resultCount int) {
	row := func(label string, value string) {
		fmt.Fprintf(r.Out, "%-25s %10s\n", cyan(label), value)
	}
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, rule)
	fmt.Fprintln(r.Out, "                        SEARCH STATISTICS")
	fmt.Fprintln(r.Out, rule)

	row("JAR files scanned:", itoa(s.Jars))
	row("ZIP files scanned:", itoa(s.ZipFamily))
	row("Class files found:", itoa(s.Classes))
	row("Source files found:", itoa(s.Sources))
	row("Other files found:", itoa(s.Others))
	row("Total files processed:", itoa(s.FilesProcessed))
	if s.UnitsSkipped > 0 {
		row("Files skipped:", itoa(s.UnitsSkipped))
	}
	if s.EntriesSkipped > 0 {
		row("Unreadable entries:", itoa(s.EntriesSkipped))
	}
	if r.Mini {
		row("Unique files w/ matches:", green(s.Unique))
		row("Total matches found:", yellow(s.MatchesFound))
	} else {
		row("Matches found:", green(resultCount))
	}
	secs := s.Elapsed.Seconds()
	row("Elapsed time:", yellow(fmt.Sprintf("%.2fs", secs)))
	if secs > 0 {
		row("Files/second:", purple(fmt.Sprintf("%.2f", float64(s.FilesProcessed)/secs)))
		row("Classes/second:", purple(fmt.Sprintf("%.2f", float64(s.Classes)/secs)))
	}
	row("Parallel jobs:", strconv.Itoa(s.Parallelism))
	if r.Mini {
		row("Mode:", purple("Mini (unique files)"))
	} else {
		row("Mode:", "Full")
	}
	if len(r.Excludes) > 0 {
		row("Exclusions:", red(len(r.Excludes)))
		for _, e := range r.Excludes {
			fmt.Fprintf(r.Out, "  %s\n", red(e))
		}
	}
	fmt.Fprintln(r.Out, rule)
}

// Breakdown prints files per category and matches per match category.
func (r *Reporter) Breakdown(s scanner.Stats, matches []scanner.Match) {
	table := tablewriter.NewWriter(r.Out)
	table.SetHeader([]string{"Category", "Files"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, c := range AllCategories {
		table.Append([]string{c.String(), itoa(s.Categories[c.String()])})
	}
	table.SetFooter([]string{"Total", itoa(s.Visited)})
	table.Render()

	if len(matches) == 0 {
		return
	}
	byTag := make(map[string]int)
	for _, m := range matches {
		byTag[m.Category]++
	}
	tags := make([]string, 0, len(byTag))
	for t := range byTag {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	fmt.Fprintln(r.Out)
	mt := tablewriter.NewWriter(r.Out)
	mt.SetHeader([]string{"Match type", "Results"})
	mt.SetBorder(false)
	mt.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, t := range tags {
		mt.Append([]string{t, strconv.Itoa(byTag[t])})
	}
	mt.Render()
}

// Inventory prints the JAR listing produced by Inventory.
func (r *Reporter) Inventory(root string, list []JarSummary) {
	fmt.Fprintln(r.Out, "JAR Analysis Report")
	fmt.Fprintln(r.Out, cyan("=================="))
	if len(list) == 0 {
		fmt.Fprintf(r.Out, "%s No JAR files found in %s\n", red("ERROR"), root)
		return
	}
	fmt.Fprintf(r.Out, "%s Found %d JAR files\n\n", cyan("INFO"), len(list))

	table := tablewriter.NewWriter(r.Out)
	table.SetHeader([]string{"JAR File", "Classes", "Source", "Files", "Size (MB)"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, js := range list {
		name := displayName(js.Path)
		if js.Err != nil {
			name += " (unreadable)"
		}
		table.Append([]string{name, itoa(js.Classes), itoa(js.Sources), itoa(js.Files), megabytes(js.Size)})
	}
	t := InventoryTotal(list)
	table.SetFooter([]string{"TOTAL", itoa(t.Classes), itoa(t.Sources), itoa(t.Files), megabytes(t.Size)})
	table.Render()
}

func displayName(p string) string {
	name := filepath.Base(p)
	if len(name) > 47 {
		return name[:44] + "..."
	}
	return name
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.2f", float64(n)/(1024*1024))
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
