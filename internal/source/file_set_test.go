package source

import (
	"testing"
)

func TestAddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte("X:1\nT:Test\nK:G\n"))
	f := fs.Get(id)

	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}

	// Offset of 'T' at the start of line 2.
	start, _ := fs.Resolve(Span{File: id, Start: 4, End: 5})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("got %d:%d, want 2:1", start.Line, start.Col)
	}

	// Offset of ':' on line 3.
	start, _ = fs.Resolve(Span{File: id, Start: 12, End: 13})
	if start.Line != 3 || start.Col != 2 {
		t.Fatalf("got %d:%d, want 3:2", start.Line, start.Col)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte("X:1\nM:6/8\nK:D"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "X:1"},
		{2, "M:6/8"},
		{3, "K:D"},
		{4, ""},
	}
	for _, c := range cases {
		if got := f.GetLine(c.line); got != c.want {
			t.Errorf("GetLine(%d) = %q, want %q", c.line, got, c.want)
		}
	}
}

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte("X:1\r\nK:C\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "X:1\nK:C\n" {
		t.Fatalf("CRLF not normalized: %q", f.Content)
	}
}

func TestGetLatest(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.abc", []byte("X:1\n"))
	second := fs.AddVirtual("a.abc", []byte("X:2\n"))

	id, ok := fs.GetLatest("a.abc")
	if !ok || id != second {
		t.Fatalf("GetLatest = %v, %v; want %v, true", id, ok, second)
	}
}
