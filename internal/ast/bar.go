package ast

import (
	"errors"

	"tunedb/internal/source"
)

// GroupKind tags a bar-scoped grouping construct.
type GroupKind uint8

const (
	// GroupBeam joins adjacent notes under one beam.
	GroupBeam GroupKind = iota
	// GroupTuplet is an n-let: N notes in the time of a different count.
	GroupTuplet
	// GroupSlur is a phrase mark.
	GroupSlur
	// GroupTie joins two adjacent notes of the same pitch.
	GroupTie
)

func (k GroupKind) String() string {
	switch k {
	case GroupBeam:
		return "beam"
	case GroupTuplet:
		return "tuplet"
	case GroupSlur:
		return "slur"
	case GroupTie:
		return "tie"
	}
	return "group(?)"
}

// Group references a contiguous run of its own bar's elements by index,
// [First, Last] inclusive. N is the tuplet count for GroupTuplet.
//
// Groups can only be attached through Bar.AddGroup, which rejects
// indexes outside the bar. That makes "no structure spans a bar line"
// a construction-time invariant rather than a convention, and bounds
// every downstream grouping algorithm to the size of one bar.
type Group struct {
	Kind  GroupKind
	First int
	Last  int
	N     int
}

// BarlineKind describes the barline that closes the bar.
type BarlineKind uint8

const (
	BarlinePlain BarlineKind = iota
	BarlineDouble
	BarlineStart
	BarlineEnd
	BarlineRepeatStart
	BarlineRepeatEnd
)

// Bar is the maximal subdivision unit of a tune body.
type Bar struct {
	Elements []Element
	Groups   []Group
	Barline  BarlineKind
	Span     source.Span
}

// ErrGroupOutOfRange is returned when a group references elements
// outside its bar.
var ErrGroupOutOfRange = errors.New("group references elements outside its bar")

// AddGroup attaches a group after validating that it stays inside the
// bar.
func (b *Bar) AddGroup(g Group) error {
	if g.First < 0 || g.Last < g.First || g.Last >= len(b.Elements) {
		return ErrGroupOutOfRange
	}
	b.Groups = append(b.Groups, g)
	return nil
}
