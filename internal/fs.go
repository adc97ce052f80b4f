package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExclusionFilter rejects paths that contain any configured substring.
type ExclusionFilter struct {
	subs []string
}

func NewExclusionFilter(subs []string) ExclusionFilter {
	out := make([]string, 0, len(subs))
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return ExclusionFilter{subs: out}
}

// Excluded is plain, case-sensitive substring containment.
func (f ExclusionFilter) Excluded(path string) bool {
	for _, s := range f.subs {
		if strings.Contains(path, s) {
			logrus.WithFields(logrus.Fields{"path": path, "exclude": s}).Debug("excluding path")
			return true
		}
	}
	return false
}

func (f ExclusionFilter) Len() int { return len(f.subs) }

func (f ExclusionFilter) Patterns() []string { return append([]string(nil), f.subs...) }

// File is one classified, non-excluded regular file found by Walk.
type File struct {
	Path     string
	Category Category
}

// WalkWithDepth uses WalkDir and cuts branches by depth.
func WalkWithDepth(ctx context.Context, root string, maxDepth int, fn func(path string, d os.DirEntry, err error) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return fn(path, d, err)
		}
		if maxDepth > 0 {
			rel, _ := filepath.Rel(root, path)
			if rel != "." && depthCount(rel) > maxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		return fn(path, d, nil)
	})
}

// Walk yields every regular file under root that the filter keeps.
// A symlinked root is followed; reported paths keep the root as given.
// Unreadable directories are skipped, not fatal, and excluded directories
// are not entered.
func Walk(ctx context.Context, root string, maxDepth int, filter ExclusionFilter, fn func(File) error) error {
	walkRoot := resolveRoot(root)
	prefix := strings.TrimSuffix(root, string(os.PathSeparator))
	return WalkWithDepth(ctx, walkRoot, maxDepth, func(path string, d os.DirEntry, err error) error {
		if walkRoot != root {
			path = prefix + strings.TrimPrefix(path, walkRoot)
		}
		if err != nil {
			logrus.WithError(err).WithField("path", path).Debug("walk: skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if filter.Excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filter.Excluded(path) {
			return nil
		}
		return fn(File{Path: path, Category: Classify(path)})
	})
}

// resolveRoot follows root when it is itself a symlink; WalkDir does not.
func resolveRoot(root string) string {
	st, err := os.Lstat(root)
	if err != nil || st.Mode()&os.ModeSymlink == 0 {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		logrus.WithError(err).WithField("root", root).Debug("walk: cannot resolve root symlink")
		return root
	}
	return resolved
}

// belowThreshold reports whether a top-level file is smaller than minSize.
// A zero threshold disables the check; a failed stat never rejects.
func belowThreshold(path string, minSize int64) bool {
	if minSize <= 0 {
		return false
	}
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return st.Size() < minSize
}

func depthCount(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}
