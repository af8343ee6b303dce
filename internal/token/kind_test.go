package token

import "testing"

func TestKindString(t *testing.T) {
	if got := Bar.String(); got != "Bar" {
		t.Errorf("Bar.String() = %q", got)
	}
	if got := Kind(200).String(); got != "Kind(?)" {
		t.Errorf("unknown kind = %q", got)
	}
}

func TestIsBarline(t *testing.T) {
	for _, k := range []Kind{Bar, BarDouble, BarStart, BarEnd, RepeatStart, RepeatEnd} {
		if !k.IsBarline() {
			t.Errorf("%v should be a barline", k)
		}
	}
	if Colon.IsBarline() {
		t.Errorf("Colon must not be a barline")
	}
}

func TestHeaderAndPitchLetters(t *testing.T) {
	if !(Token{Kind: Letter, Text: "M"}).IsHeaderLetter() {
		t.Errorf("M is a header letter")
	}
	if (Token{Kind: Letter, Text: "J"}).IsHeaderLetter() {
		t.Errorf("J is not a header letter")
	}
	if !(Token{Kind: Letter, Text: "g"}).IsPitchLetter() {
		t.Errorf("g is a pitch letter")
	}
	if (Token{Kind: Letter, Text: "z"}).IsPitchLetter() {
		t.Errorf("z is a rest, not a pitch")
	}
	if !(Token{Kind: Letter, Text: "z"}).IsRestLetter() {
		t.Errorf("z is a rest")
	}
}
