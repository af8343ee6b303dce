package ast

import (
	"fmt"
	"strconv"
)

// Rational is a positive duration fraction, always normalized.
// Note durations are resolved against the tune's default note length,
// so 2 in a tune with L:1/8 becomes 1/4.
type Rational struct {
	Num int
	Den int
}

// NewRational builds a normalized rational. Non-positive inputs are a
// programmer error: the parser guards the sub-grammars that feed this.
func NewRational(num, den int) Rational {
	if num <= 0 || den <= 0 {
		panic(fmt.Errorf("non-positive rational %d/%d", num, den))
	}
	g := gcd(num, den)
	return Rational{Num: num / g, Den: den / g}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Mul multiplies two durations, normalizing the result.
func (r Rational) Mul(o Rational) Rational {
	return NewRational(r.Num*o.Num, r.Den*o.Den)
}

// Div divides r by o, normalizing the result.
func (r Rational) Div(o Rational) Rational {
	return NewRational(r.Num*o.Den, r.Den*o.Num)
}

func (r Rational) IsZero() bool {
	return r.Num == 0
}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.Itoa(r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
