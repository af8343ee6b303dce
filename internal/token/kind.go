package token

// Kind represents the category of an ABC source token.
//
// The lexer is deliberately dumb: it classifies byte shapes, not
// meanings. A Letter may turn out to be a header key, a pitch, or a
// rest depending on where the parser finds it.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The lexer itself never
	// emits it; the parser uses it for placeholder tokens.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Letter is a single ASCII letter.
	Letter
	// Digits is a maximal run of ASCII digits.
	Digits
	// Colon is ':'.
	Colon
	// Slash is '/'.
	Slash
	// Comma is ',' (octave down when attached to a pitch).
	Comma
	// Apostrophe is '\'' (octave up when attached to a pitch).
	Apostrophe
	// Sharp is '^'.
	Sharp
	// Flat is '_'.
	Flat
	// Natural is '='.
	Natural
	// Bar is a single '|'.
	Bar
	// BarDouble is '||'.
	BarDouble
	// BarStart is '[|'.
	BarStart
	// BarEnd is '|]'.
	BarEnd
	// RepeatStart is '|:'.
	RepeatStart
	// RepeatEnd is ':|'.
	RepeatEnd
	// LBracket is '[' (inline header fields, chords).
	LBracket
	// RBracket is ']'.
	RBracket
	// LParen is '(' (slur or n-let opener).
	LParen
	// RParen is ')'.
	RParen
	// Minus is '-' (tie).
	Minus
	// Tilde is '~' (ornament).
	Tilde
	// Space is a maximal run of spaces and tabs.
	Space
	// Newline is a single '\n'.
	Newline
	// Comment is '%' through the end of the line, excluding the newline.
	Comment
	// Text is the catch-all for any byte the lexer does not classify.
	// The lexer never fails; the parser decides whether Text is an error.
	Text

	kindCount
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Letter:      "Letter",
	Digits:      "Digits",
	Colon:       "Colon",
	Slash:       "Slash",
	Comma:       "Comma",
	Apostrophe:  "Apostrophe",
	Sharp:       "Sharp",
	Flat:        "Flat",
	Natural:     "Natural",
	Bar:         "Bar",
	BarDouble:   "BarDouble",
	BarStart:    "BarStart",
	BarEnd:      "BarEnd",
	RepeatStart: "RepeatStart",
	RepeatEnd:   "RepeatEnd",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	LParen:      "LParen",
	RParen:      "RParen",
	Minus:       "Minus",
	Tilde:       "Tilde",
	Space:       "Space",
	Newline:     "Newline",
	Comment:     "Comment",
	Text:        "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsBarline reports whether the kind separates bars.
func (k Kind) IsBarline() bool {
	switch k {
	case Bar, BarDouble, BarStart, BarEnd, RepeatStart, RepeatEnd:
		return true
	default:
		return false
	}
}

// IsAccidental reports whether the kind marks an accidental.
func (k Kind) IsAccidental() bool {
	switch k {
	case Sharp, Flat, Natural:
		return true
	default:
		return false
	}
}
