package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"

	"JarFinder/internal/scanner"
)

// containerPlan tells scanContainer what to do with each entry.
type containerPlan struct {
	// names is set for class/package searches; entries are matched by name only.
	names *NameMatcher

	pattern Pattern
	types   TypeFilter
	// bytecode routes class entries to ExtractStrings instead of text scanning.
	bytecode bool
}

// scanContainer iterates every entry of a zip-format file once. A container
// that cannot be opened returns an error and nothing else; unreadable entries
// are counted in EntryCounts.Skipped and scanning goes on.
func scanContainer(ctx context.Context, path string, plan containerPlan) ([]scanner.Match, EntryCounts, error) {
	var (
		out    []scanner.Match
		counts EntryCounts
		opened bool
	)

	f, err := os.Open(path)
	if err != nil {
		return nil, counts, err
	}
	defer f.Close()

	err = archives.Zip{}.Extract(ctx, f, func(ctx context.Context, info archives.FileInfo) error {
		opened = true
		name := info.NameInArchive
		if strings.HasSuffix(name, "/") || info.IsDir() {
			return nil
		}
		kind := EntryKindOf(name)
		counts.add(kind)
		loc := path + ":" + name

		if plan.names != nil {
			if cls, ok := plan.names.Match(name); ok {
				out = append(out, scanner.Match{Location: loc, Content: cls, Category: plan.names.Category()})
			}
			return nil
		}
		if !plan.types.Allows(kind) {
			return nil
		}

		rc, err := info.Open()
		if err != nil {
			counts.Skipped++
			logrus.WithFields(logrus.Fields{"archive": path, "entry": name, "err": err}).Debug("open entry")
			return nil
		}
		defer rc.Close()

		if kind == EntryClass && plan.bytecode {
			data, err := io.ReadAll(rc)
			if err != nil {
				counts.Skipped++
				logrus.WithFields(logrus.Fields{"archive": path, "entry": name, "err": err}).Debug("read entry")
				return nil
			}
			ExtractStrings(data, plan.pattern, func(s string) {
				out = append(out, scanner.Match{Location: loc, Content: s, Category: "class_bytecode"})
			})
			return nil
		}

		tag := EntryTag(name)
		err = scanEntryText(rc, plan.pattern, func(line int, content string) {
			out = append(out, scanner.Match{Location: loc, Line: line, Content: content, Category: tag})
		})
		if err != nil && !errors.Is(err, errDecode) {
			counts.Skipped++
			logrus.WithFields(logrus.Fields{"archive": path, "entry": name, "err": err}).Debug("read entry")
		}
		return nil
	})
	if err != nil {
		if !opened {
			return nil, EntryCounts{}, err
		}
		logrus.WithFields(logrus.Fields{"archive": path, "err": err}).Warn("container scan stopped early")
	}
	return out, counts, nil
}
