// Package ast models parsed ABC tunes.
//
// The model's expressiveness is deliberately capped at ABC's own
// structural ceiling: grouping constructs (beams, n-lets, slurs, ties)
// live inside a Bar and cannot reference anything outside it. ABC the
// parser does not structurally understand yet survives as
// ElemUnmodeled with its raw text, so every feature round-trips.
package ast

import "tunedb/internal/source"

// Tune is one complete piece, identified by its X: reference number.
//
// Headers is the initial header block in arrival order; repeated
// letters are retained as overrides in that order. BodyHeaders tracks
// mid-tune field changes separately: default note length, key, and
// metre may legally change inside the body.
type Tune struct {
	Ref         int
	Headers     []Header
	BodyHeaders []BodyHeader
	Body        []Bar
	Span        source.Span
}

// DefaultNoteLength is assumed when a tune has no L: header.
var DefaultNoteLength = Rational{Num: 1, Den: 4}

// Header returns the last initial-block header with the given letter.
// Later duplicates override earlier ones.
func (t *Tune) Header(letter byte) (Header, bool) {
	for i := len(t.Headers) - 1; i >= 0; i-- {
		if t.Headers[i].Letter == letter {
			return t.Headers[i], true
		}
	}
	return Header{}, false
}

// Titles returns every T: value in order.
func (t *Tune) Titles() []string {
	var out []string
	for _, h := range t.Headers {
		if h.Letter == 'T' {
			out = append(out, h.Value)
		}
	}
	return out
}

// Metre returns the effective initial metre, defaulting to 4/4.
func (t *Tune) Metre() Metre {
	if h, ok := t.Header('M'); ok && h.Metre != nil {
		return *h.Metre
	}
	return DefaultMetre
}

// NoteLength returns the initial default note length.
func (t *Tune) NoteLength() Rational {
	if h, ok := t.Header('L'); ok && h.Length != nil {
		return *h.Length
	}
	return DefaultNoteLength
}

// Key returns the initial key signature, if one parsed.
func (t *Tune) Key() (Key, bool) {
	if h, ok := t.Header('K'); ok && h.Key != nil {
		return *h.Key, true
	}
	return Key{}, false
}

// Rhythm returns the R: value ("jig", "reel", ...), if present.
func (t *Tune) Rhythm() (string, bool) {
	if h, ok := t.Header('R'); ok {
		return h.Value, true
	}
	return "", false
}
