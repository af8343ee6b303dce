// Package parser is a recursive-descent parser for ABC notation.
//
// The parser always returns: a broken file yields whatever tunes could
// be recovered plus one diagnostic per detected inconsistency. Each
// grammar rule records the active rule stack when it fails and then
// synchronizes to a known recovery point (next header line, next bar
// separator, next tune start) so the rest of the file is still
// attempted. Every recovery step consumes at least one token or
// reaches end of input, so parsing always terminates.
package parser

import (
	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/lexer"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

// maxNumberWidth bounds digit runs in numeric sub-grammars. Longer
// runs are a "number longer than expected" diagnostic, never an
// arithmetic overflow.
const maxNumberWidth = 8

type Options struct {
	Reporter      diag.Reporter
	MaxErrors     uint
	CurrentErrors uint
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tunes []*ast.Tune
	Bag   *diag.Bag
}

// Parser holds the state for one buffer. The token slice always ends
// with EOF and is owned by the parser for the duration of the run.
type Parser struct {
	toks     []token.Token
	pos      int
	fs       *source.FileSet
	opts     Options
	rules    []string
	lastSpan source.Span
}

// ParseFile tokenizes and parses one buffer.
func ParseFile(fs *source.FileSet, file *source.File, opts Options) Result {
	return Parse(fs, lexer.Collect(file), opts)
}

// Parse consumes an already-lexed token stream.
func Parse(fs *source.FileSet, toks []token.Token, opts Options) Result {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	p := Parser{
		toks: toks,
		fs:   fs,
		opts: opts,
	}

	tunes := p.parseTunes()

	var bag *diag.Bag
	switch r := opts.Reporter.(type) {
	case diag.BagReporter:
		bag = r.Bag
	case *diag.BagReporter:
		bag = r.Bag
	}
	return Result{Tunes: tunes, Bag: bag}
}

// parseTunes is the top-level loop: skip blank space between tunes,
// parse one tune per header block.
func (p *Parser) parseTunes() []*ast.Tune {
	var tunes []*ast.Tune

	for {
		p.skipBlank()
		if p.atEOF() {
			return tunes
		}

		before := p.pos
		tune, ok := p.parseTune()
		if tune != nil {
			tunes = append(tunes, tune)
		}
		if !ok {
			p.syncToTuneStart()
		}
		if p.pos == before && !p.atEOF() {
			// Failsafe: never loop without consuming.
			p.advance()
		}
	}
}

// skipBlank consumes newlines, whitespace-only lines, and free-standing
// comments between tunes.
func (p *Parser) skipBlank() {
	for {
		switch p.peek().Kind {
		case token.Newline, token.Space, token.Comment:
			p.advance()
		default:
			return
		}
	}
}

// syncToTuneStart skips to the next line that starts with "X:", the
// next plausible tune start.
func (p *Parser) syncToTuneStart() {
	for !p.atEOF() {
		if p.atLineStart() && p.at(token.Letter) && p.peek().Text == "X" && p.peekAt(1).Kind == token.Colon {
			return
		}
		p.advance()
	}
}

// syncToLineStart skips the rest of the current line, consuming the
// newline.
func (p *Parser) syncToLineStart() {
	for !p.atEOF() {
		if p.advance().Kind == token.Newline {
			return
		}
	}
}
