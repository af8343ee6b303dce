package diag

import (
	"testing"

	"tunedb/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "one")) {
		t.Fatalf("first add must succeed")
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "two")) {
		t.Fatalf("second add must succeed")
	}
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "three")) {
		t.Fatalf("third add must be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d", b.Len())
	}
}

func TestBagLimitClamped(t *testing.T) {
	b := NewBag(-5)
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "dropped")) {
		t.Fatalf("a negative limit must keep nothing")
	}
	if b.Cap() != 0 {
		t.Fatalf("cap = %d, want 0", b.Cap())
	}

	b = NewBag(1 << 20)
	if b.Cap() != 65535 {
		t.Fatalf("cap = %d, want 65535", b.Cap())
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "kept")) {
		t.Fatalf("an oversized limit must still accept diagnostics")
	}
}

func TestBagErrorCount(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, SynInfo, source.Span{}, "warn"))
	b.Add(NewError(SynPrematureEnd, source.Span{}, "err"))
	if b.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d", b.ErrorCount())
	}
	if !b.HasErrors() {
		t.Fatalf("HasErrors must be true")
	}
}

func TestBagSortIsPositional(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 20, End: 21}, "later"))
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 3, End: 4}, "earlier"))
	b.Sort()
	if b.Items()[0].Message != "earlier" {
		t.Fatalf("sort order wrong: %v", b.Items())
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{Start: 1, End: 2}
	b.Add(NewError(SynUnexpectedToken, sp, "dup"))
	b.Add(NewError(SynUnexpectedToken, sp, "dup"))
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("dedup left %d items", b.Len())
	}
}

func TestRulePath(t *testing.T) {
	d := NewError(SynUnexpectedToken, source.Span{}, "x").WithRules([]string{"tune", "header", "metre"})
	if d.RulePath() != "tune > header > metre" {
		t.Fatalf("RulePath = %q", d.RulePath())
	}
	if d.InnermostRule() != "metre" {
		t.Fatalf("InnermostRule = %q", d.InnermostRule())
	}
}
