package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"JarFinder/internal/scanner"
)

var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrEmptyQuery     = errors.New("empty query")
)

// Pattern - fast interface for line match.
type Pattern interface {
	Match(string) bool
	Desc() string // for logs
}

type RegexPattern struct{ re *regexp.Regexp }

func (p *RegexPattern) Match(s string) bool { return p.re.MatchString(s) }
func (p *RegexPattern) Desc() string        { return p.re.String() }

// CompilePattern validates a content pattern once per run.
func CompilePattern(expr string, ignoreCase bool) (Pattern, error) {
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, expr, err)
	}
	return &RegexPattern{re: re}, nil
}

// ClassName turns "com/foo/Bar.class" into "com.foo.Bar".
func ClassName(entry string) string {
	return strings.ReplaceAll(strings.TrimSuffix(entry, classSuffix), "/", ".")
}

// NameMatcher evaluates class-name queries against container entry names.
type NameMatcher struct {
	mode  scanner.Mode
	query string
	// slash form of a package query, always ending in "/"
	pkgPrefix string
}

func NewNameMatcher(mode scanner.Mode, query string) (NameMatcher, error) {
	if !mode.NameBased() {
		return NameMatcher{}, fmt.Errorf("name matcher: %s is not a name mode", mode)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return NameMatcher{}, ErrEmptyQuery
	}
	nm := NameMatcher{mode: mode, query: query}
	if mode == scanner.ModePackage {
		p := strings.ReplaceAll(strings.TrimSuffix(query, "."), ".", "/")
		nm.pkgPrefix = p + "/"
	}
	return nm, nil
}

// Match reports whether a class entry satisfies the query. It returns the
// dotted class name for reporting. Non-class entries never match.
func (nm NameMatcher) Match(entry string) (string, bool) {
	if EntryKindOf(entry) != EntryClass {
		return "", false
	}
	name := ClassName(entry)
	switch nm.mode {
	case scanner.ModeExactClass:
		return name, name == nm.query || strings.HasSuffix(name, "."+nm.query)
	case scanner.ModeClassSubstring:
		return name, strings.Contains(name, nm.query)
	case scanner.ModePackage:
		return name, strings.HasPrefix(entry, nm.pkgPrefix)
	}
	return name, false
}

// Category is the match category recorded for hits of this matcher.
func (nm NameMatcher) Category() string {
	if nm.mode == scanner.ModePackage {
		return "package"
	}
	return "class"
}
