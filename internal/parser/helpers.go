package parser

import (
	"fmt"
	"slices"
	"strconv"

	"tunedb/internal/diag"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekAt looks n tokens ahead; past the end it returns the final EOF.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}

func (p *Parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) atEOF() bool {
	return p.at(token.EOF)
}

// atLineStart reports whether the current token begins a line.
func (p *Parser) atLineStart() bool {
	return p.pos == 0 || p.toks[p.pos-1].Kind == token.Newline
}

// advance consumes the current token. The EOF token is sticky.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.pos++
	}
	return tok
}

// adjacent reports whether b starts exactly where a ends, with no
// whitespace between.
func adjacent(a, b token.Token) bool {
	return a.Span.File == b.Span.File && a.Span.End == b.Span.Start
}

// enter pushes a grammar rule onto the stack. Pair with leave.
func (p *Parser) enter(rule string) {
	p.rules = append(p.rules, rule)
}

func (p *Parser) leave() {
	p.rules = p.rules[:len(p.rules)-1]
}

// report emits one diagnostic carrying a snapshot of the rule stack.
// Past the error limit, reporting stops but parsing (and recovery)
// continues so the tune list stays as complete as possible.
func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	enough := p.opts.Enough()
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || enough {
		return
	}
	p.opts.Reporter.Report(diag.NewError(code, sp, msg).WithRules(slices.Clone(p.rules)))
}

// here is the span diagnostics should point at: the current token, or
// a zero-length span just past the last consumed token at end of input.
func (p *Parser) here() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// innermost is the rule currently being parsed, for message building.
func (p *Parser) innermost() string {
	if len(p.rules) == 0 {
		return "input"
	}
	return p.rules[len(p.rules)-1]
}

// found describes the current token for an error message.
func (p *Parser) found() string {
	tok := p.peek()
	switch tok.Kind {
	case token.EOF:
		return "the end of the input"
	case token.Newline:
		return "the end of the line"
	case token.Space:
		return "a space"
	default:
		return strconv.Quote(tok.Text)
	}
}

// reportExpected emits the standard "I expected to find X ... but found
// Y" diagnostic for the innermost rule.
func (p *Parser) reportExpected(what string) {
	if p.atEOF() {
		p.report(diag.SynPrematureEnd, p.here(),
			fmt.Sprintf("I expected to find %s for the %s, but the input ended", what, p.innermost()))
		return
	}
	p.report(diag.SynUnexpectedToken, p.here(),
		fmt.Sprintf("I expected to find %s for the %s, but found %s", what, p.innermost(), p.found()))
}

// expect consumes a token of the given kind or reports and leaves the
// stream untouched.
func (p *Parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	p.reportExpected(what)
	return token.Token{}, false
}

// parseNumber reads a digit run as an int, guarding the run width
// before converting so oversized input is a diagnostic, not overflow.
func (p *Parser) parseNumber(what string) (int, bool) {
	tok, ok := p.expect(token.Digits, what)
	if !ok {
		return 0, false
	}
	if len(tok.Text) > maxNumberWidth {
		p.report(diag.SynNumberTooLong, tok.Span,
			fmt.Sprintf("this number is longer than I expected for the %s", p.innermost()))
		return 0, false
	}
	n, err := strconv.Atoi(tok.Text)
	if err != nil || n <= 0 {
		p.report(diag.SynUnexpectedToken, tok.Span,
			fmt.Sprintf("I expected %s to be a positive number for the %s", what, p.innermost()))
		return 0, false
	}
	return n, true
}
