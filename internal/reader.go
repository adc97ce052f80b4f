package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"JarFinder/internal/scanner"
)

// errDecode marks input that is not valid UTF-8 text.
var errDecode = errors.New("text decode failed")

// scanLines streams r line by line through a UTF-8 validator and calls emit
// with the 1-based line number and trimmed content of every matching line.
// It stops at the first invalid sequence and returns an errDecode error; the
// line in flight at that point is dropped.
func scanLines(r io.Reader, p Pattern, emit func(line int, content string)) error {
	br := bufio.NewReaderSize(transform.NewReader(r, encoding.UTF8Validator), 64*1024)
	lineNum := 0
	for {
		b, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			if errors.Is(err, encoding.ErrInvalidUTF8) {
				return fmt.Errorf("%w at line %d", errDecode, lineNum+1)
			}
			return err
		}
		if len(b) > 0 {
			lineNum++
			line := trimEOL(string(b))
			if p.Match(line) {
				emit(lineNum, strings.TrimSpace(line))
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// scanEntryText reads a whole container entry, requires it to be valid
// UTF-8, and reports matching lines like scanLines. Nothing is emitted for
// an entry that fails to decode.
func scanEntryText(r io.Reader, p Pattern, emit func(line int, content string)) error {
	data, err := io.ReadAll(transform.NewReader(r, encoding.UTF8Validator))
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return errDecode
		}
		return err
	}
	text := string(data)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if p.Match(line) {
			emit(i+1, strings.TrimSpace(line))
		}
	}
	return nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// scanFile searches one loose file. On a decode failure the whole file is
// re-read once as binary and printable strings are tested instead; line
// scanning does not resume afterwards.
func scanFile(path string, p Pattern) ([]scanner.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tag := MatchTag(path)
	var out []scanner.Match
	err = scanLines(f, p, func(line int, content string) {
		out = append(out, scanner.Match{Location: path, Line: line, Content: content, Category: tag})
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, errDecode):
		logrus.WithFields(logrus.Fields{"file": path, "err": err}).Debug("text read failed, trying binary search")
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			logrus.WithError(rerr).WithField("file", path).Debug("binary fallback read failed")
			return out, nil
		}
		ExtractStrings(data, p, func(s string) {
			out = append(out, scanner.Match{Location: path, Content: s, Category: tag + "_binary"})
		})
		return out, nil
	default:
		logrus.WithError(err).WithField("file", path).Debug("read error, keeping partial results")
		return out, nil
	}
}
