package ast

import "tunedb/internal/source"

// ElemKind tags the Element variant.
type ElemKind uint8

const (
	// ElemNote is a pitched note.
	ElemNote ElemKind = iota
	// ElemRest is an audible rest ('z').
	ElemRest
	// ElemEmpty is an invisible rest ('x').
	ElemEmpty
	// ElemUnmodeled is ABC the parser recognizes as body content but
	// does not structurally model yet. The raw source text is captured
	// so serialization can emit it verbatim instead of dropping it.
	ElemUnmodeled
)

func (k ElemKind) String() string {
	switch k {
	case ElemNote:
		return "note"
	case ElemRest:
		return "rest"
	case ElemEmpty:
		return "empty"
	case ElemUnmodeled:
		return "unmodeled"
	}
	return "element(?)"
}

// Element is one entity inside a bar.
// Pitch is meaningful only for ElemNote; Duration for ElemNote,
// ElemRest, and ElemEmpty; Raw only for ElemUnmodeled.
type Element struct {
	Kind     ElemKind
	Pitch    Pitch
	Duration Rational
	Raw      string
	Span     source.Span
}
