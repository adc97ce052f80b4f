package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gofrs/flock"

	"JarFinder/internal/scanner"
)

var csvHeader = []string{"file_location", "line", "line_content", "match_type"}

// WriteCSV writes one header row and one row per match. An absent line
// number is written as an empty field.
func WriteCSV(w io.Writer, matches []scanner.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range matches {
		line := ""
		if m.HasLine() {
			line = strconv.Itoa(m.Line)
		}
		if err := cw.Write([]string{m.Location, line, m.Content, m.Category}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV truncates or creates path and writes the matches to it. The
// write holds an exclusive lock on path+".lock" so concurrent runs exporting
// to the same file do not interleave rows.
func ExportCSV(path string, matches []scanner.Match) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, matches); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(r io.Reader) ([]scanner.Match, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header")
		}
		return nil, err
	}
	for i, h := range csvHeader {
		if header[i] != h {
			return nil, fmt.Errorf("csv: unexpected header column %d: %q", i, header[i])
		}
	}
	var out []scanner.Match
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		m := scanner.Match{Location: rec[0], Content: rec[2], Category: rec[3]}
		if rec[1] != "" {
			n, err := strconv.Atoi(rec[1])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("csv: bad line number %q", rec[1])
			}
			m.Line = n
		}
		out = append(out, m)
	}
}
