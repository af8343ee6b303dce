package lexer_test

import (
	"testing"

	"tunedb/internal/lexer"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.abc", []byte(input))
	return lexer.Collect(fs.Get(id))
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	got := kinds(tokenize(t, input))
	if len(got) != len(want) {
		t.Fatalf("input %q: got %v, want %v", input, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("input %q: token %d = %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
}

func TestHeaderLine(t *testing.T) {
	expectKinds(t, "M:6/8\n",
		token.Letter, token.Colon, token.Digits, token.Slash, token.Digits, token.Newline, token.EOF)
}

func TestDigitRunsAreMaximal(t *testing.T) {
	toks := tokenize(t, "X:1234")
	if toks[2].Kind != token.Digits || toks[2].Text != "1234" {
		t.Fatalf("digit run = %v %q", toks[2].Kind, toks[2].Text)
	}
}

func TestBarlines(t *testing.T) {
	expectKinds(t, "|", token.Bar, token.EOF)
	expectKinds(t, "||", token.BarDouble, token.EOF)
	expectKinds(t, "|:", token.RepeatStart, token.EOF)
	expectKinds(t, ":|", token.RepeatEnd, token.EOF)
	expectKinds(t, "|]", token.BarEnd, token.EOF)
	expectKinds(t, "[|", token.BarStart, token.EOF)
	expectKinds(t, "[", token.LBracket, token.EOF)
}

func TestBodyFragment(t *testing.T) {
	expectKinds(t, "^c'2 z|",
		token.Sharp, token.Letter, token.Apostrophe, token.Digits, token.Space,
		token.Letter, token.Bar, token.EOF)
}

func TestCommentStopsAtNewline(t *testing.T) {
	toks := tokenize(t, "% a comment\nK:D")
	if toks[0].Kind != token.Comment || toks[0].Text != "% a comment" {
		t.Fatalf("comment = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.Newline {
		t.Fatalf("newline not preserved after comment")
	}
}

func TestWhitespaceIsPreserved(t *testing.T) {
	toks := tokenize(t, "A  \tB")
	if toks[1].Kind != token.Space || toks[1].Text != "  \t" {
		t.Fatalf("space run = %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestUnknownBytesBecomeText(t *testing.T) {
	toks := tokenize(t, "A!+B")
	if toks[1].Kind != token.Text || toks[1].Text != "!+" {
		t.Fatalf("catch-all = %v %q", toks[1].Kind, toks[1].Text)
	}
	// The lexer never drops bytes: spans must tile the input.
	var covered uint32
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.Start != covered {
			t.Fatalf("gap before %v at %d", tok.Kind, tok.Span.Start)
		}
		covered = tok.Span.End
	}
	if covered != 4 {
		t.Fatalf("covered %d bytes of 4", covered)
	}
}

func TestSpansMatchOffsets(t *testing.T) {
	toks := tokenize(t, "K:Gmaj\n")
	// 'G' is at offset 2.
	if toks[2].Span.Start != 2 || toks[2].Span.End != 3 {
		t.Fatalf("span = %v", toks[2].Span)
	}
}

func TestEOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.abc", []byte("A"))
	lx := lexer.New(fs.Get(id))
	lx.Next()
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("call %d after end: %v", i, tok.Kind)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.abc", []byte("AB"))
	lx := lexer.New(fs.Get(id))
	p := lx.Peek()
	n := lx.Next()
	if p != n {
		t.Fatalf("peek %v != next %v", p, n)
	}
}
