// Package lexer turns an ABC buffer into positioned tokens.
//
// The lexer is total: it cannot fail and reports nothing. Bytes it does
// not classify become Text tokens, and whether those are errors is the
// parser's call. It runs in a single left-to-right pass with no
// backtracking.
package lexer

import (
	"tunedb/internal/source"
	"tunedb/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // one-token lookahead buffer
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
		}
	}

	ch := lx.cursor.Peek()

	switch {
	case ch == '\n':
		return lx.scanSingle(token.Newline)
	case ch == ' ' || ch == '\t':
		return lx.scanRun(token.Space, func(b byte) bool { return b == ' ' || b == '\t' })
	case ch == '%':
		return lx.scanComment()
	case isLetter(ch):
		return lx.scanSingle(token.Letter)
	case isDigit(ch):
		return lx.scanRun(token.Digits, isDigit)
	case ch == ':':
		return lx.scanColonOrRepeat()
	case ch == '|':
		return lx.scanBar()
	case ch == '[':
		return lx.scanLBracketOrBarStart()
	default:
		if kind, ok := punctKind(ch); ok {
			return lx.scanSingle(kind)
		}
		// Catch-all: a maximal run of unclassified bytes.
		return lx.scanRun(token.Text, isUnclassified)
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Collect drains the lexer, returning every token including the final EOF.
func Collect(file *source.File) []token.Token {
	lx := New(file)
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// EmptySpan is a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) scanSingle(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.emit(kind, start)
}

func (lx *Lexer) scanRun(kind token.Kind, pred func(byte) bool) token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(kind, start)
}

// scanComment consumes '%' through end of line, leaving the newline.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	return lx.emit(token.Comment, start)
}

// scanColonOrRepeat handles ':' and ':|'.
func (lx *Lexer) scanColonOrRepeat() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // ':'
	if lx.cursor.Eat('|') {
		return lx.emit(token.RepeatEnd, start)
	}
	return lx.emit(token.Colon, start)
}

// scanBar handles '|', '||', '|:' and '|]'.
func (lx *Lexer) scanBar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '|'
	switch {
	case lx.cursor.Eat('|'):
		return lx.emit(token.BarDouble, start)
	case lx.cursor.Eat(':'):
		return lx.emit(token.RepeatStart, start)
	case lx.cursor.Eat(']'):
		return lx.emit(token.BarEnd, start)
	}
	return lx.emit(token.Bar, start)
}

// scanLBracketOrBarStart handles '[' and '[|'.
func (lx *Lexer) scanLBracketOrBarStart() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '['
	if lx.cursor.Eat('|') {
		return lx.emit(token.BarStart, start)
	}
	return lx.emit(token.LBracket, start)
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
