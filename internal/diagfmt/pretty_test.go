package diagfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"tunedb/internal/diag"
	"tunedb/internal/diagfmt"
	"tunedb/internal/parser"
	"tunedb/internal/source"
)

func TestPrettyFormat(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("broken.abc", []byte("X:1\nM:3\nK:C\n"))
	bag := diag.NewBag(10)
	parser.ParseFile(fs, fs.Get(id), parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: 10,
	})
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{
		PathMode:  diagfmt.PathModeBasename,
		ShowRules: true,
	})
	out := buf.String()

	if !strings.HasPrefix(out, "broken.abc:2:4: ERROR [SYN") {
		t.Errorf("header line wrong:\n%s", out)
	}
	if !strings.Contains(out, "slash") {
		t.Errorf("message missing:\n%s", out)
	}
	if !strings.Contains(out, "  M:3\n") {
		t.Errorf("source line missing:\n%s", out)
	}
	if !strings.Contains(out, "^-- in tune > header > time signature") {
		t.Errorf("caret line missing:\n%s", out)
	}
	// Caret under the position right after the 3.
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || !strings.HasPrefix(lines[2], "     ^--") {
		t.Errorf("caret misplaced:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	if got := diagfmt.Summary(1); got != "There was 1 error!" {
		t.Errorf("Summary(1) = %q", got)
	}
	if got := diagfmt.Summary(3); got != "There were 3 errors!" {
		t.Errorf("Summary(3) = %q", got)
	}
}
