package internal

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubPattern struct {
	sub string
}

func (p stubPattern) Match(s string) bool { return strings.Contains(s, p.sub) }
func (p stubPattern) Desc() string        { return p.sub }

// zipEntry is one member of a test archive. A name ending in "/" is a directory.
type zipEntry struct {
	name string
	body string
}

func writeZip(t testing.TB, path string, entries ...zipEntry) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.name, err)
		}
		if !strings.HasSuffix(e.name, "/") {
			if _, err := w.Write([]byte(e.body)); err != nil {
				t.Fatalf("zip write %s: %v", e.name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

// fakeClass is a tiny class-file look-alike: magic, version, then one
// constant-pool style string.
func fakeClass(s string) string {
	return "\xca\xfe\xba\xbe\x00\x00\x00\x34\x00\x0f" + s + "\x01\x00\x03abc\x00"
}
