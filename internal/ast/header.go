package ast

import "tunedb/internal/source"

// Header is one Letter:value field.
//
// Text fields keep their value as a trimmed string. The three fields
// with sub-grammars (M, L, K) additionally carry a structured value;
// their Value keeps the raw text for diagnostics and verbatim output
// of anything the sub-grammar did not consume.
type Header struct {
	Letter byte
	Value  string
	Metre  *Metre
	Length *Rational
	Key    *Key
	Span   source.Span
}

var headerFieldNames = map[byte]string{
	'A': "area",
	'B': "book",
	'C': "composer",
	'D': "discography",
	'F': "filename",
	'G': "group",
	'H': "history",
	'I': "information",
	'K': "key",
	'L': "note length",
	'M': "metre",
	'N': "notes",
	'O': "origin",
	'P': "parts",
	'Q': "tempo",
	'R': "rhythm",
	'S': "source",
	'T': "title",
	'U': "user defined",
	'V': "voice",
	'W': "words",
	'X': "reference number",
	'Z': "transcription",
}

// FieldName returns the human name of the header letter ("metre" for
// 'M'), or "field" for unknown letters.
func (h Header) FieldName() string {
	if name, ok := headerFieldNames[h.Letter]; ok {
		return name
	}
	return "field"
}

// BodyHeader is a header that occurred mid-tune. AfterBar records how
// many complete bars preceded it, so the serializer can put it back in
// place and duration resolution can apply it from that point forward.
type BodyHeader struct {
	Header
	AfterBar int
}
