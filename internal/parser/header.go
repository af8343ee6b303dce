package parser

import (
	"fmt"
	"strings"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

// fieldRule is the grammar-rule name a header letter parses under.
// Mostly the field's human name; the sub-grammar fields read better
// under their musical names.
func fieldRule(letter byte) string {
	switch letter {
	case 'M':
		return "time signature"
	case 'L':
		return "note length"
	case 'K':
		return "key signature"
	case 'X':
		return "reference number"
	}
	return ast.Header{Letter: letter}.FieldName()
}

// parseTune parses one header block and, if the block concluded with a
// key field, the body that follows. A missing reference number is
// reported and the partial tune is still returned; the caller then
// synchronizes to the next plausible tune start.
func (p *Parser) parseTune() (*ast.Tune, bool) {
	p.enter("tune")
	defer p.leave()

	start := p.here()
	tune := &ast.Tune{}

	hasRef, hasKey := p.parseHeaderBlock(tune)
	if hasKey {
		p.parseBody(tune)
	}
	tune.Span = start.Cover(p.lastSpan)
	if !hasRef {
		p.report(diag.SynMissingRefNumber, start,
			"I expected the tune to begin with an X: reference number header")
		return tune, false
	}
	return tune, true
}

// parseHeaderBlock reads header lines until the key field (which
// concludes the block and opens the body), a blank line, end of input,
// or a second X: line (the next tune).
func (p *Parser) parseHeaderBlock(tune *ast.Tune) (hasRef, hasKey bool) {
	p.enter("header")
	defer p.leave()

	for {
		for p.at(token.Space) {
			p.advance()
		}
		switch {
		case p.atEOF():
			return
		case p.at(token.Newline):
			// Blank line: the tune ends with no body.
			return
		case p.at(token.Comment):
			p.syncToLineStart()
		case p.peek().IsHeaderLetter() && p.peekAt(1).Kind == token.Colon:
			if p.peek().Text == "X" {
				if hasRef {
					// A second X: line starts the next tune.
					return
				}
				if ref, ok := p.parseRefField(); ok {
					tune.Ref = ref
					hasRef = true
				} else {
					p.syncToLineStart()
				}
				continue
			}
			h, ok := p.parseHeaderField(token.Newline)
			if !ok {
				p.syncToLineStart()
				if h.Letter == 'K' {
					// Even a broken key line concludes the block, so
					// the body after it still parses.
					hasKey = true
					return
				}
				continue
			}
			tune.Headers = append(tune.Headers, h)
			if h.Letter == 'K' {
				hasKey = true
				return
			}
		default:
			p.report(diag.SynExpectedHeader, p.here(),
				fmt.Sprintf("I expected to find a header line, but found %s", p.found()))
			return
		}
	}
}

// parseRefField parses "X:<number>" with the line terminator.
func (p *Parser) parseRefField() (int, bool) {
	p.enter(fieldRule('X'))
	defer p.leave()

	p.advance() // letter
	p.advance() // colon
	for p.at(token.Space) {
		p.advance()
	}
	n, ok := p.parseNumber("the reference number")
	if !ok {
		return 0, false
	}
	return n, p.finishField(token.Newline)
}

// parseHeaderField parses one "L:value" field with the letter and the
// colon already verified by the caller. term is what ends the field:
// Newline for header lines, RBracket for inline fields. On failure the
// stream is left at the offending token and nothing is consumed past
// it; the caller synchronizes.
func (p *Parser) parseHeaderField(term token.Kind) (ast.Header, bool) {
	letterTok := p.advance()
	letter := letterTok.Text[0]

	p.enter(fieldRule(letter))
	defer p.leave()

	p.advance() // colon
	for p.at(token.Space) {
		p.advance()
	}

	h := ast.Header{Letter: letter}
	ok := true
	closed := false
	switch letter {
	case 'M':
		h.Metre, closed, ok = p.parseMetreValue(term)
		if ok {
			h.Value = h.Metre.String()
		}
	case 'L':
		h.Length, ok = p.parseLengthValue()
		if ok {
			h.Value = h.Length.String()
		}
	case 'K':
		h.Key, ok = p.parseKeyValue()
	default:
		h.Value = p.parseTextValue(term)
	}
	if ok && !closed {
		ok = p.finishField(term)
	}
	h.Span = letterTok.Span.Cover(p.lastSpan)
	return h, ok
}

// finishField consumes trailing space and comments, then the field
// terminator. Anything else is one diagnostic at the stray token.
func (p *Parser) finishField(term token.Kind) bool {
	for p.at(token.Space) || p.at(token.Comment) {
		p.advance()
	}
	if term == token.Newline {
		if p.atEOF() {
			return true
		}
		if p.at(token.Newline) {
			p.advance()
			return true
		}
		p.report(diag.SynExpectedHeader, p.here(),
			fmt.Sprintf("I expected the end of the header line, but found %s", p.found()))
		return false
	}
	_, ok := p.expect(term, "a closing bracket")
	return ok
}

// parseMetreValue reads "4/4", or the aliases "C" (4/4) and "C|" (2/2).
// Inside an inline field the alias's '|' fuses with the closing ']'
// into a single |] token; that spelling consumes the terminator as
// well, which closedField reports so the caller skips it.
func (p *Parser) parseMetreValue(term token.Kind) (m *ast.Metre, closedField, ok bool) {
	if p.at(token.Letter) && p.peek().Text == "C" {
		c := p.advance()
		switch {
		case p.at(token.Bar) && adjacent(c, p.peek()):
			p.advance()
			return &ast.Metre{Num: 2, Den: 2}, false, true
		case term == token.RBracket && p.at(token.BarEnd) && adjacent(c, p.peek()):
			p.advance()
			return &ast.Metre{Num: 2, Den: 2}, true, true
		}
		return &ast.Metre{Num: 4, Den: 4}, false, true
	}
	num, numOK := p.parseNumber("a number")
	if !numOK {
		return nil, false, false
	}
	if _, slashOK := p.expect(token.Slash, "a slash"); !slashOK {
		return nil, false, false
	}
	den, denOK := p.parseNumber("a number")
	if !denOK {
		return nil, false, false
	}
	return &ast.Metre{Num: num, Den: den}, false, true
}

// parseLengthValue reads a "1/8" style fraction.
func (p *Parser) parseLengthValue() (*ast.Rational, bool) {
	num, ok := p.parseNumber("a number")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Slash, "a slash"); !ok {
		return nil, false
	}
	den, ok := p.parseNumber("a number")
	if !ok {
		return nil, false
	}
	r := ast.NewRational(num, den)
	return &r, true
}

// parseKeyValue reads a tonic letter, an optional accidental ('#' or a
// glued 'b'), and an optional mode word ("dor", "Mixolydian", "m").
// An unrecognized mode word rejects the field rather than guessing.
func (p *Parser) parseKeyValue() (*ast.Key, bool) {
	tok := p.peek()
	if tok.Kind != token.Letter || tok.Text[0] < 'A' || tok.Text[0] > 'G' {
		p.reportExpected("a tonic letter between A and G")
		return nil, false
	}
	prev := p.advance()
	key := ast.Key{Tonic: prev.Text[0]}

	switch {
	case p.at(token.Text) && p.peek().Text == "#" && adjacent(prev, p.peek()):
		prev = p.advance()
		key.Accidental = ast.AccSharp
	case p.at(token.Letter) && p.peek().Text == "b" && adjacent(prev, p.peek()):
		prev = p.advance()
		key.Accidental = ast.AccFlat
	}

	for p.at(token.Space) {
		p.advance()
	}
	word, span := p.collectWord()
	if word == "" {
		return &key, true
	}
	mode, ok := ast.ParseMode(word)
	if !ok {
		p.report(diag.SynUnexpectedToken, span,
			fmt.Sprintf("I did not recognize %q as a mode for the key signature", word))
		return nil, false
	}
	key.Mode = mode
	return &key, true
}

// collectWord gathers a run of glued letter tokens into one word.
func (p *Parser) collectWord() (string, source.Span) {
	if !p.at(token.Letter) {
		return "", p.here()
	}
	first := p.advance()
	var b strings.Builder
	b.WriteString(first.Text)
	prev := first
	for p.at(token.Letter) && adjacent(prev, p.peek()) {
		prev = p.advance()
		b.WriteString(prev.Text)
	}
	return b.String(), first.Span.Cover(prev.Span)
}

// parseTextValue captures a free-text field value verbatim, trimmed.
func (p *Parser) parseTextValue(term token.Kind) string {
	var b strings.Builder
	for {
		tok := p.peek()
		if tok.Kind == term || tok.Kind == token.Newline || tok.Kind == token.EOF || tok.Kind == token.Comment {
			return strings.TrimSpace(b.String())
		}
		b.WriteString(tok.Text)
		p.advance()
	}
}
