package ast

import "testing"

func TestRationalNormalizes(t *testing.T) {
	cases := []struct {
		num, den int
		want     Rational
	}{
		{1, 4, Rational{1, 4}},
		{2, 4, Rational{1, 2}},
		{2, 8, Rational{1, 4}},
		{6, 4, Rational{3, 2}},
		{8, 8, Rational{1, 1}},
	}
	for _, c := range cases {
		if got := NewRational(c.num, c.den); got != c.want {
			t.Errorf("NewRational(%d, %d) = %v, want %v", c.num, c.den, got, c.want)
		}
	}
}

func TestRationalMul(t *testing.T) {
	// Resolving a duration of 1 against a 1/4 default note length.
	if got := NewRational(1, 1).Mul(NewRational(1, 4)); got != (Rational{1, 4}) {
		t.Errorf("1 * 1/4 = %v", got)
	}
	// Resolving 2 against 1/4 simplifies to 1/2.
	if got := NewRational(2, 1).Mul(NewRational(1, 4)); got != (Rational{1, 2}) {
		t.Errorf("2 * 1/4 = %v", got)
	}
	// A dotted note cannot simplify further.
	if got := NewRational(3, 1).Mul(NewRational(1, 4)); got != (Rational{3, 4}) {
		t.Errorf("3 * 1/4 = %v", got)
	}
	// Commutative.
	a := NewRational(1, 8).Mul(NewRational(1, 2))
	b := NewRational(1, 2).Mul(NewRational(1, 8))
	if a != b {
		t.Errorf("multiply is not commutative: %v vs %v", a, b)
	}
}

func TestRationalDiv(t *testing.T) {
	// 1/4 emitted against L:1/8 is a multiplier of 2.
	if got := NewRational(1, 4).Div(NewRational(1, 8)); got != (Rational{2, 1}) {
		t.Errorf("1/4 / 1/8 = %v", got)
	}
}

func TestRationalString(t *testing.T) {
	if NewRational(2, 1).String() != "2" {
		t.Errorf("whole numbers drop the denominator")
	}
	if NewRational(3, 2).String() != "3/2" {
		t.Errorf("fractions keep the denominator")
	}
}

func TestRationalPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero numerator")
		}
	}()
	NewRational(0, 4)
}
