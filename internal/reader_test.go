package internal

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

type lineHit struct {
	line    int
	content string
}

func TestScanLines(t *testing.T) {
	data := "hello\r\nworld\n  say hello  \nbye"
	var got []lineHit
	err := scanLines(strings.NewReader(data), stubPattern{sub: "hello"}, func(line int, content string) {
		got = append(got, lineHit{line, content})
	})
	if err != nil {
		t.Fatalf("scanLines: %v", err)
	}
	want := []lineHit{{1, "hello"}, {3, "say hello"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hit %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanLines_LastLineWithoutNewline(t *testing.T) {
	var got []lineHit
	err := scanLines(strings.NewReader("a\nb\nneedle"), stubPattern{sub: "needle"}, func(line int, content string) {
		got = append(got, lineHit{line, content})
	})
	if err != nil || len(got) != 1 || got[0].line != 3 {
		t.Fatalf("got %v err %v", got, err)
	}
}

func TestScanLines_DecodeError(t *testing.T) {
	data := []byte("needle one\nneedle \xff two\nneedle three\n")
	var got []lineHit
	err := scanLines(bytes.NewReader(data), stubPattern{sub: "needle"}, func(line int, content string) {
		got = append(got, lineHit{line, content})
	})
	if !errors.Is(err, errDecode) {
		t.Fatalf("want errDecode, got %v", err)
	}
	if len(got) != 1 || got[0].content != "needle one" {
		t.Fatalf("only lines before the invalid sequence are reported, got %v", got)
	}
}

func TestScanEntryText(t *testing.T) {
	var got []lineHit
	err := scanEntryText(strings.NewReader("key=needle\r\nother\n\nneedle2\n"), stubPattern{sub: "needle"}, func(line int, content string) {
		got = append(got, lineHit{line, content})
	})
	if err != nil {
		t.Fatalf("scanEntryText: %v", err)
	}
	if len(got) != 2 || got[0] != (lineHit{1, "key=needle"}) || got[1] != (lineHit{4, "needle2"}) {
		t.Fatalf("got %v", got)
	}
}

func TestScanEntryText_InvalidEmitsNothing(t *testing.T) {
	called := false
	err := scanEntryText(bytes.NewReader([]byte("needle\n\xfe\xff")), stubPattern{sub: "needle"}, func(int, string) {
		called = true
	})
	if !errors.Is(err, errDecode) {
		t.Fatalf("want errDecode, got %v", err)
	}
	if called {
		t.Fatal("an entry that fails to decode must yield no text matches")
	}
}

func TestScanFile_Text(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.properties")
	writeFile(t, p, "db.url=jdbc:x\nuser=admin\n")
	got, err := scanFile(p, stubPattern{sub: "admin"})
	if err != nil {
		t.Fatalf("scanFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	m := got[0]
	if m.Location != p || m.Line != 2 || m.Content != "user=admin" || m.Category != "properties_config" {
		t.Fatalf("unexpected match %+v", m)
	}
}

func TestScanFile_BinaryFallback(t *testing.T) {
	p := filepath.Join(t.TempDir(), "blob.dat")
	writeFile(t, p, "secret on line one\n\xff\xfe\x00secret_token\x00\x01")
	got, err := scanFile(p, stubPattern{sub: "secret"})
	if err != nil {
		t.Fatalf("scanFile: %v", err)
	}
	var text, bin int
	for _, m := range got {
		switch m.Category {
		case "dat":
			text++
			if m.Line != 1 {
				t.Errorf("text hit must carry its line: %+v", m)
			}
		case "dat_binary":
			bin++
			if m.HasLine() {
				t.Errorf("binary hit has no line: %+v", m)
			}
		default:
			t.Errorf("unexpected category %q", m.Category)
		}
	}
	// the fallback covers the whole file, including the part already read as text
	if text != 1 || bin != 2 {
		t.Fatalf("want 1 text and 2 binary hits, got %d/%d: %+v", text, bin, got)
	}
}

func TestScanFile_BinaryHitsTrimmed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "blob.bin")
	writeFile(t, p, "\xff\x00  some bytes needle \x00\x01")
	got, err := scanFile(p, stubPattern{sub: "needle"})
	if err != nil {
		t.Fatalf("scanFile: %v", err)
	}
	if len(got) != 1 || got[0].Content != "some bytes needle" || got[0].Category != "bin_binary" {
		t.Fatalf("got %+v", got)
	}
}

func TestScanFile_Missing(t *testing.T) {
	if _, err := scanFile(filepath.Join(t.TempDir(), "nope.txt"), stubPattern{sub: "x"}); err == nil {
		t.Fatal("open failure must be returned")
	}
}
