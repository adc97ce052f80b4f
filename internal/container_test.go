package internal

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"JarFinder/internal/scanner"
)

func sampleJar(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "lib.jar")
	writeZip(t, p,
		zipEntry{name: "META-INF/"},
		zipEntry{name: "META-INF/MANIFEST.MF", body: "Main-Class: com.foo.App\n"},
		zipEntry{name: "com/foo/App.class", body: fakeClass("Hello, Bytecode")},
		zipEntry{name: "com/foo/App.java", body: "class App {\n  // Hello source\n}\n"},
		zipEntry{name: "config/app.yml", body: "greeting: Hello yaml\n"},
		zipEntry{name: "bin/blob", body: "Hello\xff\xfe"},
	)
	return p
}

func TestScanContainer_CountsEntries(t *testing.T) {
	p := sampleJar(t, t.TempDir())
	matches, counts, err := scanContainer(context.Background(), p, containerPlan{})
	if err != nil {
		t.Fatalf("scanContainer: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("count-only plan must not match: %v", matches)
	}
	want := EntryCounts{Classes: 1, Sources: 1, Others: 3}
	if counts != want {
		t.Fatalf("counts = %+v, want %+v (directories excluded)", counts, want)
	}
}

func TestScanContainer_ByName(t *testing.T) {
	p := sampleJar(t, t.TempDir())
	nm, err := NewNameMatcher(scanner.ModeExactClass, "App")
	if err != nil {
		t.Fatal(err)
	}
	matches, _, err := scanContainer(context.Background(), p, containerPlan{names: &nm})
	if err != nil {
		t.Fatalf("scanContainer: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("want 1 match, got %v", matches)
	}
	m := matches[0]
	if m.Location != p+":com/foo/App.class" || m.Content != "com.foo.App" || m.Category != "class" || m.HasLine() {
		t.Fatalf("unexpected match %+v", m)
	}
}

func TestScanContainer_Content(t *testing.T) {
	p := sampleJar(t, t.TempDir())
	plan := containerPlan{pattern: stubPattern{sub: "Hello"}, types: AllTypes, bytecode: true}
	matches, counts, err := scanContainer(context.Background(), p, plan)
	if err != nil {
		t.Fatalf("scanContainer: %v", err)
	}
	got := map[string]scanner.Match{}
	for _, m := range matches {
		got[m.Category] = m
	}
	if len(matches) != 3 {
		t.Fatalf("want bytecode, java and yml hits, got %+v", matches)
	}
	if m := got["class_bytecode"]; m.Content != "Hello, Bytecode" || m.HasLine() {
		t.Errorf("bytecode hit: %+v", m)
	}
	if m := got["java"]; m.Line != 2 || m.Content != "// Hello source" {
		t.Errorf("source hit: %+v", m)
	}
	if m := got["yml"]; m.Line != 1 || m.Location != p+":config/app.yml" {
		t.Errorf("yml hit: %+v", m)
	}
	// bin/blob fails to decode: no text hits and not counted as unreadable
	if counts.Skipped != 0 {
		t.Errorf("decode failures are not unreadable entries: %+v", counts)
	}
}

func TestScanContainer_TypeFilter(t *testing.T) {
	p := sampleJar(t, t.TempDir())
	tf, err := ParseTypeFilter([]string{"source"})
	if err != nil {
		t.Fatal(err)
	}
	matches, counts, err := scanContainer(context.Background(), p, containerPlan{pattern: stubPattern{sub: "Hello"}, types: tf, bytecode: true})
	if err != nil {
		t.Fatalf("scanContainer: %v", err)
	}
	if len(matches) != 1 || matches[0].Category != "java" {
		t.Fatalf("only source entries should be read: %+v", matches)
	}
	if counts.Total() != 5 {
		t.Fatalf("filtered entries are still counted: %+v", counts)
	}
}

func TestScanContainer_WithoutBytecode(t *testing.T) {
	p := sampleJar(t, t.TempDir())
	matches, _, err := scanContainer(context.Background(), p, containerPlan{pattern: stubPattern{sub: "Hello, Bytecode"}, types: AllTypes})
	if err != nil {
		t.Fatalf("scanContainer: %v", err)
	}
	// class bytes are not valid UTF-8 text, so text scanning finds nothing
	if len(matches) != 0 {
		t.Fatalf("got %+v", matches)
	}
}

func TestScanContainer_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.jar")
	writeFile(t, p, "this is not a zip archive")
	_, _, err := scanContainer(context.Background(), p, containerPlan{})
	if err == nil {
		t.Fatal("corrupt container must fail to open")
	}
}

// corruptFirstEntry overwrites the start of the first entry's deflate
// stream with an invalid block header.
func corruptFirstEntry(t *testing.T, p string) {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != 0x04034b50 {
		t.Fatal("not a local file header")
	}
	nameLen := int(binary.LittleEndian.Uint16(data[26:28]))
	extraLen := int(binary.LittleEndian.Uint16(data[28:30]))
	data[30+nameLen+extraLen] = 0xff
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanContainer_UnreadableEntry(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.jar")
	writeZip(t, p,
		zipEntry{name: "a.txt", body: strings.Repeat("needle one\n", 20)},
		zipEntry{name: "b.txt", body: "needle two\n"},
	)
	corruptFirstEntry(t, p)

	matches, counts, err := scanContainer(context.Background(), p, containerPlan{pattern: stubPattern{sub: "needle"}, types: AllTypes})
	if err != nil {
		t.Fatalf("an open container with a bad entry is not an error: %v", err)
	}
	if counts.Skipped != 1 || counts.Others != 2 {
		t.Fatalf("counts = %+v, want one unreadable of two entries", counts)
	}
	if len(matches) != 1 {
		t.Fatalf("want the second entry's match only, got %+v", matches)
	}
	m := matches[0]
	if m.Location != p+":b.txt" || m.Line != 1 || m.Content != "needle two" {
		t.Fatalf("unexpected match %+v", m)
	}
}
