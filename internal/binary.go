package internal

import "strings"

// minStringLen is the shortest printable run worth testing, as in strings(1).
const minStringLen = 4

func printable(b byte) bool {
	return (b >= 0x21 && b <= 0x7e) || b == ' ' || b == '\t'
}

// ExtractStrings scans buf for maximal runs of printable ASCII and calls emit
// once for every run of at least four bytes that matches p. The run is
// matched as found and emitted trimmed. The trailing run at the end of buf
// is tested the same way.
func ExtractStrings(buf []byte, p Pattern, emit func(string)) {
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minStringLen {
			s := string(buf[start:end])
			if p.Match(s) {
				if t := strings.TrimSpace(s); t != "" {
					emit(t)
				}
			}
		}
		start = -1
	}
	for i, b := range buf {
		if printable(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(buf))
}
