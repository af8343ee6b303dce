package ast

import "fmt"

// Metre is a time signature parsed from the M: header's N/M
// sub-grammar or one of the named aliases (C, C|).
type Metre struct {
	Num int
	Den int
}

func (m Metre) String() string {
	return fmt.Sprintf("%d/%d", m.Num, m.Den)
}

// DefaultMetre is assumed when a tune carries no M: header.
var DefaultMetre = Metre{Num: 4, Den: 4}
