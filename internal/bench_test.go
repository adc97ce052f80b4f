package internal

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"JarFinder/internal/scanner"
)

func BenchmarkExtractStrings(b *testing.B) {
	var buf bytes.Buffer
	for i := 0; i < 2000; i++ {
		buf.WriteString(fakeClass("org/apache/commons/lang3/StringUtils"))
	}
	p, err := CompilePattern(`commons/lang\d`, false)
	if err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ExtractStrings(data, p, func(string) {})
	}
}

func BenchmarkScanLines(b *testing.B) {
	body := strings.Repeat("user=admin password=secret\n", 5000)
	p, err := CompilePattern(`password=\w+`, false)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(body)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := scanLines(strings.NewReader(body), p, func(int, string) {}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_Content(b *testing.B) {
	root := b.TempDir()
	for i := 0; i < 20; i++ {
		entries := make([]zipEntry, 0, 50)
		for j := 0; j < 50; j++ {
			entries = append(entries, zipEntry{
				name: "com/bench/C" + string(rune('A'+j%26)) + strings.Repeat("x", j) + ".class",
				body: fakeClass("jdbc:bench"),
			})
		}
		writeZip(b, filepath.Join(root, "lib"+string(rune('a'+i))+".jar"), entries...)
	}
	opts := ScanOptions{Mode: scanner.ModeContent, Query: "jdbc", Root: root}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (&Engine{}).Run(context.Background(), opts); err != nil {
			b.Fatal(err)
		}
	}
}
