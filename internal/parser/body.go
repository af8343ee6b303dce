package parser

import (
	"fmt"
	"strings"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

// bodyFieldLetters are the headers that may legally change mid-tune.
const bodyFieldLetters = "KLMR"

// bodyState is the running state of one tune body: the bar being
// filled, the note length in effect, and the grouping constructs that
// are open and must close before the next bar line.
type bodyState struct {
	tune       *ast.Tune
	bar        ast.Bar
	curLen     ast.Rational
	beamStart  int   // first element of the current beam run, -1 when none
	slurOpens  []int // element index each open slur started at
	tieFrom    int   // note waiting for its tie partner, -1 when none
	tupletN    int
	tupletAt   int // first element of the open tuplet
	tupletLeft int // notes still owed to the open tuplet, 0 when none
}

// parseBody reads bars until a blank line, end of input, or the next
// tune's X: line.
func (p *Parser) parseBody(tune *ast.Tune) {
	p.enter("body")
	defer p.leave()

	st := bodyState{
		tune:      tune,
		curLen:    tune.NoteLength(),
		beamStart: -1,
		tieFrom:   -1,
	}

	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			p.closeBar(&st, ast.BarlinePlain, false)
			return
		case tok.Kind == token.Newline:
			p.advance()
			p.breakBeam(&st)
			if p.at(token.Newline) || p.atEOF() {
				p.closeBar(&st, ast.BarlinePlain, false)
				return
			}
		case tok.Kind == token.Space:
			p.advance()
			p.breakBeam(&st)
		case tok.Kind == token.Comment:
			p.advance()
		case tok.Kind.IsBarline():
			p.advance()
			p.closeBar(&st, barlineKind(tok.Kind), true)
		case p.atLineStart() && tok.Kind == token.Letter && tok.Text == "X" && p.peekAt(1).Kind == token.Colon:
			// Next tune; leave its header line for the caller.
			p.closeBar(&st, ast.BarlinePlain, false)
			return
		case p.atLineStart() && tok.IsHeaderLetter() && p.peekAt(1).Kind == token.Colon:
			p.parseBodyHeaderLine(&st)
		case tok.Kind == token.LBracket:
			p.parseBracket(&st)
		case tok.Kind == token.LParen:
			p.parseOpenParen(&st)
		case tok.Kind == token.RParen:
			p.advance()
			p.closeSlur(&st, tok.Span)
		case tok.Kind == token.Minus:
			p.advance()
			p.startTie(&st, tok.Span)
		case tok.Kind.IsAccidental() || tok.IsPitchLetter() || tok.IsRestLetter():
			p.parseNoteElement(&st)
		default:
			p.parseUnmodeledRun(&st)
		}
	}
}

func barlineKind(k token.Kind) ast.BarlineKind {
	switch k {
	case token.BarDouble:
		return ast.BarlineDouble
	case token.BarStart:
		return ast.BarlineStart
	case token.BarEnd:
		return ast.BarlineEnd
	case token.RepeatStart:
		return ast.BarlineRepeatStart
	case token.RepeatEnd:
		return ast.BarlineRepeatEnd
	}
	return ast.BarlinePlain
}

// breakBeam closes the current beam run; runs of one note carry no beam.
func (p *Parser) breakBeam(st *bodyState) {
	if st.beamStart >= 0 {
		last := len(st.bar.Elements) - 1
		if last > st.beamStart {
			_ = st.bar.AddGroup(ast.Group{Kind: ast.GroupBeam, First: st.beamStart, Last: last})
		}
		st.beamStart = -1
	}
}

// closeBar flushes the bar under construction. Grouping constructs
// still open at the bar line are dropped with one diagnostic each: no
// structure can span a bar line. An implicit close (end of body) with
// an empty bar flushes nothing; an explicit bar line always produces a
// bar, even an empty one.
func (p *Parser) closeBar(st *bodyState, kind ast.BarlineKind, explicit bool) {
	p.breakBeam(st)
	sp := p.lastSpan
	if len(st.slurOpens) > 0 {
		p.report(diag.SynGroupAcrossBar, sp,
			"a slur is still open at the bar line; a slur cannot cross a bar")
		st.slurOpens = nil
	}
	if st.tupletLeft > 0 {
		p.report(diag.SynGroupAcrossBar, sp,
			fmt.Sprintf("the tuplet is still short %d notes at the bar line; a tuplet cannot cross a bar", st.tupletLeft))
		st.tupletLeft = 0
	}
	if st.tieFrom >= 0 {
		p.report(diag.SynGroupAcrossBar, sp,
			"a tie cannot cross a bar line")
		st.tieFrom = -1
	}
	if !explicit && len(st.bar.Elements) == 0 && len(st.bar.Groups) == 0 {
		return
	}
	st.bar.Barline = kind
	if len(st.bar.Elements) > 0 {
		st.bar.Span = st.bar.Elements[0].Span.Cover(sp)
	} else {
		st.bar.Span = sp
	}
	st.tune.Body = append(st.tune.Body, st.bar)
	st.bar = ast.Bar{}
}

// addElement appends one element and settles the grouping state around
// it: beams extend over glued notes, a pending tie resolves onto it,
// and an open tuplet counts it.
func (p *Parser) addElement(st *bodyState, el ast.Element) {
	if el.Kind != ast.ElemNote {
		p.breakBeam(st)
	}
	idx := len(st.bar.Elements)
	st.bar.Elements = append(st.bar.Elements, el)
	if el.Kind == ast.ElemNote && st.beamStart < 0 {
		st.beamStart = idx
	}
	if st.tieFrom >= 0 {
		if el.Kind == ast.ElemNote {
			_ = st.bar.AddGroup(ast.Group{Kind: ast.GroupTie, First: st.tieFrom, Last: idx})
		} else {
			p.report(diag.SynUnexpectedToken, el.Span, "a tie must connect two notes")
		}
		st.tieFrom = -1
	}
	if st.tupletLeft > 0 && el.Kind != ast.ElemUnmodeled {
		st.tupletLeft--
		if st.tupletLeft == 0 {
			_ = st.bar.AddGroup(ast.Group{Kind: ast.GroupTuplet, First: st.tupletAt, Last: idx, N: st.tupletN})
		}
	}
}

// parseOpenParen distinguishes a tuplet marker "(3" from a slur open.
func (p *Parser) parseOpenParen(st *bodyState) {
	open := p.advance()
	if p.at(token.Digits) && adjacent(open, p.peek()) {
		tok := p.advance()
		if len(tok.Text) != 1 || tok.Text[0] < '2' {
			p.report(diag.SynUnexpectedToken, tok.Span,
				fmt.Sprintf("I expected a tuplet count between 2 and 9, but found %q", tok.Text))
			return
		}
		if st.tupletLeft > 0 {
			p.report(diag.SynUnexpectedToken, tok.Span,
				"I did not expect a new tuplet before the previous one finished")
			return
		}
		st.tupletN = int(tok.Text[0] - '0')
		st.tupletLeft = st.tupletN
		st.tupletAt = len(st.bar.Elements)
		return
	}
	st.slurOpens = append(st.slurOpens, len(st.bar.Elements))
}

func (p *Parser) closeSlur(st *bodyState, sp source.Span) {
	if len(st.slurOpens) == 0 {
		p.report(diag.SynUnexpectedToken, sp, "I found a slur close with no slur open")
		return
	}
	first := st.slurOpens[len(st.slurOpens)-1]
	st.slurOpens = st.slurOpens[:len(st.slurOpens)-1]
	last := len(st.bar.Elements) - 1
	if last < first {
		p.report(diag.SynUnexpectedToken, sp, "the slur closed before it covered any notes")
		return
	}
	_ = st.bar.AddGroup(ast.Group{Kind: ast.GroupSlur, First: first, Last: last})
}

func (p *Parser) startTie(st *bodyState, sp source.Span) {
	n := len(st.bar.Elements)
	if n == 0 || st.bar.Elements[n-1].Kind != ast.ElemNote {
		p.report(diag.SynUnexpectedToken, sp, "a tie must follow a note")
		return
	}
	st.tieFrom = n - 1
}

// parseNoteElement reads one note or rest: optional accidental marks,
// the letter with its case and octave marks, and a duration suffix.
// The duration is resolved against the note length in effect, so the
// element carries an absolute fraction of a whole note.
func (p *Parser) parseNoteElement(st *bodyState) {
	p.enter("note")
	defer p.leave()

	start := p.peek().Span

	acc := ast.AccNone
	if p.peek().Kind.IsAccidental() {
		accTok := p.advance()
		switch accTok.Kind {
		case token.Sharp:
			acc = ast.AccSharp
		case token.Flat:
			acc = ast.AccFlat
		case token.Natural:
			acc = ast.AccNatural
		}
		if p.peek().Kind == accTok.Kind && adjacent(accTok, p.peek()) && accTok.Kind != token.Natural {
			accTok = p.advance()
			if acc == ast.AccSharp {
				acc = ast.AccDoubleSharp
			} else {
				acc = ast.AccDoubleFlat
			}
		}
		if !p.peek().IsPitchLetter() || !adjacent(accTok, p.peek()) {
			p.reportExpected("a note letter after the accidental")
			return
		}
	}

	if p.peek().IsRestLetter() {
		tok := p.advance()
		dur, last := p.parseDuration(tok, st.curLen)
		kind := ast.ElemRest
		if tok.Text == "x" {
			kind = ast.ElemEmpty
		}
		p.addElement(st, ast.Element{Kind: kind, Duration: dur, Span: start.Cover(last)})
		return
	}

	letterTok := p.advance()
	b := letterTok.Text[0]
	octave := 0
	if b >= 'a' {
		octave = 1
		b -= 'a' - 'A'
	}
	prev := letterTok
	for (p.at(token.Apostrophe) || p.at(token.Comma)) && adjacent(prev, p.peek()) {
		prev = p.advance()
		if prev.Kind == token.Apostrophe {
			octave++
		} else {
			octave--
		}
	}

	dur, last := p.parseDuration(prev, st.curLen)
	p.addElement(st, ast.Element{
		Kind:     ast.ElemNote,
		Pitch:    ast.Pitch{Letter: b, Accidental: acc, Octave: octave},
		Duration: dur,
		Span:     start.Cover(last),
	})
}

// parseDuration reads a glued duration suffix after prev: an integer
// multiplier, "3/2" style fractions, and the shorthands "/" (halve)
// and "//" (quarter). The result is suffix times the note length in
// effect.
func (p *Parser) parseDuration(prev token.Token, cur ast.Rational) (ast.Rational, source.Span) {
	num, den := 1, 1

	if p.at(token.Digits) && adjacent(prev, p.peek()) {
		tok := p.advance()
		prev = tok
		if len(tok.Text) > maxNumberWidth {
			p.report(diag.SynNumberTooLong, tok.Span,
				"this number is longer than I expected for the note duration")
		} else {
			num = 0
			for i := 0; i < len(tok.Text); i++ {
				num = num*10 + int(tok.Text[i]-'0')
			}
			if num == 0 {
				num = 1
			}
		}
	}

	slashes := 0
	for p.at(token.Slash) && adjacent(prev, p.peek()) {
		prev = p.advance()
		slashes++
	}
	if slashes == 1 && p.at(token.Digits) && adjacent(prev, p.peek()) {
		tok := p.advance()
		prev = tok
		if len(tok.Text) > maxNumberWidth {
			p.report(diag.SynNumberTooLong, tok.Span,
				"this number is longer than I expected for the note duration")
			den = 2
		} else {
			den = 0
			for i := 0; i < len(tok.Text); i++ {
				den = den*10 + int(tok.Text[i]-'0')
			}
			if den == 0 {
				den = 2
			}
		}
	} else if slashes > 0 {
		den = 1 << slashes
	}

	return ast.NewRational(num, den).Mul(cur), prev.Span
}

// parseBodyHeaderLine handles a whole-line field change inside the
// body. Only key, note length, metre, and rhythm may change mid-tune,
// and only at a bar boundary.
func (p *Parser) parseBodyHeaderLine(st *bodyState) {
	letter := p.peek().Text[0]
	if !strings.ContainsRune(bodyFieldLetters, rune(letter)) {
		p.report(diag.SynUnexpectedHeaderLine, p.peek().Span,
			fmt.Sprintf("I did not expect a %s header inside the tune body", fieldRule(letter)))
		p.syncToLineStart()
		return
	}
	if len(st.bar.Elements) > 0 {
		p.report(diag.SynUnexpectedHeaderLine, p.peek().Span,
			fmt.Sprintf("a mid-tune %s change must come at a bar boundary", fieldRule(letter)))
		p.syncToLineStart()
		return
	}
	h, ok := p.parseHeaderField(token.Newline)
	if !ok {
		p.syncToLineStart()
		return
	}
	p.applyBodyHeader(st, h)
}

func (p *Parser) applyBodyHeader(st *bodyState, h ast.Header) {
	st.tune.BodyHeaders = append(st.tune.BodyHeaders, ast.BodyHeader{
		Header:   h,
		AfterBar: len(st.tune.Body),
	})
	if h.Letter == 'L' && h.Length != nil {
		st.curLen = *h.Length
	}
}

// parseBracket handles '[': an inline field change like "[M:3/4]", or
// any other bracketed construct (chords among them), which is kept
// verbatim as an unmodeled element.
func (p *Parser) parseBracket(st *bodyState) {
	open := p.advance()

	if p.peek().IsHeaderLetter() && p.peekAt(1).Kind == token.Colon {
		letter := p.peek().Text[0]
		switch {
		case !strings.ContainsRune(bodyFieldLetters, rune(letter)):
			p.report(diag.SynUnexpectedHeaderLine, p.peek().Span,
				fmt.Sprintf("I did not expect an inline %s field inside the tune body", fieldRule(letter)))
			p.skipBracket()
		case len(st.bar.Elements) > 0:
			p.report(diag.SynUnexpectedHeaderLine, p.peek().Span,
				fmt.Sprintf("an inline %s change must come at a bar boundary", fieldRule(letter)))
			p.skipBracket()
		default:
			h, ok := p.parseHeaderField(token.RBracket)
			if !ok {
				p.skipBracket()
				return
			}
			p.applyBodyHeader(st, h)
		}
		return
	}

	p.enter("bracketed group")
	defer p.leave()

	var raw strings.Builder
	raw.WriteString(open.Text)
	last := open.Span
	for {
		tok := p.peek()
		if tok.Kind == token.RBracket {
			p.advance()
			raw.WriteString(tok.Text)
			last = tok.Span
			break
		}
		if tok.Kind == token.Newline || tok.Kind == token.EOF {
			p.reportExpected("a closing bracket")
			break
		}
		p.advance()
		raw.WriteString(tok.Text)
		last = tok.Span
	}
	p.addElement(st, ast.Element{Kind: ast.ElemUnmodeled, Raw: raw.String(), Span: open.Span.Cover(last)})
}

// skipBracket discards tokens through the next ']' on this line.
func (p *Parser) skipBracket() {
	for {
		switch p.peek().Kind {
		case token.RBracket:
			p.advance()
			return
		case token.Newline, token.EOF:
			return
		default:
			p.advance()
		}
	}
}

// inUnmodeledRun reports whether a token may extend an unmodeled run:
// content that carries over verbatim because the grammar has no
// structure for it.
func inUnmodeledRun(k token.Kind) bool {
	switch k {
	case token.Text, token.Tilde, token.Colon, token.Apostrophe, token.Comma:
		return true
	}
	return false
}

// parseUnmodeledRun captures a maximal glued run of tokens the grammar
// does not model, preserving the raw text so it serializes verbatim.
// Always consumes at least one token.
func (p *Parser) parseUnmodeledRun(st *bodyState) {
	first := p.advance()
	var raw strings.Builder
	raw.WriteString(first.Text)
	prev := first
	for inUnmodeledRun(p.peek().Kind) && adjacent(prev, p.peek()) {
		prev = p.advance()
		raw.WriteString(prev.Text)
	}
	p.addElement(st, ast.Element{Kind: ast.ElemUnmodeled, Raw: raw.String(), Span: first.Span.Cover(prev.Span)})
}
