package token

import (
	"tunedb/internal/source"
)

// Token represents a single source token with its location.
// Whitespace, newlines, and comments are tokens too: the serializer
// and the diagnostics need exact columns including whitespace runs.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// HeaderLetters is the set of field letters a header line may start with.
const HeaderLetters = "ABCDEFGHIKLMNOPQRSTUVWXZ"

// IsHeaderLetter reports whether the token is a letter that may open a
// header field.
func (t Token) IsHeaderLetter() bool {
	if t.Kind != Letter || len(t.Text) != 1 {
		return false
	}
	b := t.Text[0]
	for i := 0; i < len(HeaderLetters); i++ {
		if HeaderLetters[i] == b {
			return true
		}
	}
	return false
}

// IsPitchLetter reports whether the token is a note letter (A-G, a-g).
func (t Token) IsPitchLetter() bool {
	if t.Kind != Letter || len(t.Text) != 1 {
		return false
	}
	b := t.Text[0]
	return (b >= 'A' && b <= 'G') || (b >= 'a' && b <= 'g')
}

// IsRestLetter reports whether the token is a rest: 'z' for an audible
// rest, 'x' for an invisible one.
func (t Token) IsRestLetter() bool {
	return t.Kind == Letter && (t.Text == "z" || t.Text == "x")
}
