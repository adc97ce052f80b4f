package internal

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"JarFinder/internal/scanner"
)

var ErrUnknownMode = errors.New("unknown search mode")

// ScanOptions - public options from CLI.
type ScanOptions struct {
	Mode scanner.Mode
	// Query is a class name, a package, or a regular expression depending on Mode.
	Query      string
	Root       string
	Excludes   []string
	MinSize    int64
	Threads    int
	Mini       bool
	Types      []string
	Depth      int
	IgnoreCase bool

	// Progress is optional.
	Progress Progress

	filter ExclusionFilter
	types  TypeFilter
}

// Validate checks invariants.
func (o *ScanOptions) Validate() error {
	if _, ok := modeOK[o.Mode]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(o.Mode))
	}
	if strings.TrimSpace(o.Query) == "" {
		return ErrEmptyQuery
	}
	if o.MinSize < 0 {
		return errors.New("min-size must not be negative")
	}
	if o.Depth < 0 {
		return errors.New("depth must not be negative")
	}
	if _, err := ParseTypeFilter(o.Types); err != nil {
		return err
	}
	return nil
}

var modeOK = map[scanner.Mode]struct{}{
	scanner.ModeExactClass: {}, scanner.ModeClassSubstring: {}, scanner.ModePackage: {},
	scanner.ModeContent: {}, scanner.ModeMaster: {},
}

// Prepare builds lookup structures and sensible defaults. Call after Validate.
func (o *ScanOptions) Prepare() {
	o.filter = NewExclusionFilter(o.Excludes)
	o.types, _ = ParseTypeFilter(o.Types)
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	if o.Root == "" {
		o.Root = "."
	}
}

// OptionsFromRequest maps the narrow reporting-layer request onto options.
func OptionsFromRequest(req scanner.Request) ScanOptions {
	return ScanOptions{
		Mode:     req.Mode,
		Query:    req.Query,
		Root:     req.Root,
		Excludes: req.Excludes,
		MinSize:  req.MinSize,
		Threads:  req.Parallelism,
		Mini:     req.Mini,
	}
}

// TypeFilter selects which container entry kinds a content search reads.
type TypeFilter struct {
	all   bool
	kinds map[EntryKind]struct{}
}

// AllTypes admits every entry kind.
var AllTypes = TypeFilter{all: true}

// ParseTypeFilter accepts "*" or any of class, source (alias java), other.
// Values may be comma separated. An empty list means "*".
func ParseTypeFilter(values []string) (TypeFilter, error) {
	tf := TypeFilter{kinds: map[EntryKind]struct{}{}}
	for _, item := range values {
		for _, v := range strings.Split(item, ",") {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "":
			case "*", "all":
				return AllTypes, nil
			case "class":
				tf.kinds[EntryClass] = struct{}{}
			case "source", "java":
				tf.kinds[EntrySource] = struct{}{}
			case "other":
				tf.kinds[EntryOther] = struct{}{}
			default:
				return TypeFilter{}, fmt.Errorf("unknown entry type %q (want *, class, source or other)", v)
			}
		}
	}
	if len(tf.kinds) == 0 {
		return AllTypes, nil
	}
	return tf, nil
}

func (t TypeFilter) Allows(k EntryKind) bool {
	if t.all {
		return true
	}
	_, ok := t.kinds[k]
	return ok
}

func (t TypeFilter) String() string {
	if t.all {
		return "*"
	}
	names := make([]string, 0, len(t.kinds))
	for k := range t.kinds {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
