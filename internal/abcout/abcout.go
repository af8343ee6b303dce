// Package abcout renders parsed tunes back to ABC text.
//
// Output is canonical rather than byte-faithful: whitespace is
// normalized, durations are re-expressed against the note length in
// effect, and aliases like "C|" come out as their plain form. The
// contract is structural: parsing the rendered text again yields a
// tune equal (ignoring spans) to the one rendered, provided the
// original parse raised no diagnostics.
package abcout

import (
	"strconv"
	"strings"

	"tunedb/internal/ast"
)

// SerializeAll renders a list of tunes separated by blank lines.
func SerializeAll(tunes []*ast.Tune) string {
	var b strings.Builder
	for i, t := range tunes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Serialize(t))
	}
	return b.String()
}

// Serialize renders one tune: the X: line, the header block in arrival
// order, then the body with mid-tune field changes put back at their
// bar boundaries.
func Serialize(t *ast.Tune) string {
	var b strings.Builder
	b.WriteString("X:")
	b.WriteString(strconv.Itoa(t.Ref))
	b.WriteByte('\n')
	for _, h := range t.Headers {
		writeHeaderLine(&b, h)
	}
	writeBody(&b, t)
	return b.String()
}

func writeHeaderLine(b *strings.Builder, h ast.Header) {
	b.WriteByte(h.Letter)
	b.WriteByte(':')
	b.WriteString(headerValue(h))
	b.WriteByte('\n')
}

func headerValue(h ast.Header) string {
	switch {
	case h.Metre != nil:
		return h.Metre.String()
	case h.Length != nil:
		return h.Length.String()
	case h.Key != nil:
		return keyValue(*h.Key)
	}
	return h.Value
}

func keyValue(k ast.Key) string {
	var b strings.Builder
	b.WriteByte(k.Tonic)
	switch k.Accidental {
	case ast.AccSharp:
		b.WriteByte('#')
	case ast.AccFlat:
		b.WriteByte('b')
	}
	if k.Mode != ast.ModeMajor {
		b.WriteByte(' ')
		b.WriteString(k.Mode.String())
	}
	return b.String()
}

func writeBody(b *strings.Builder, t *ast.Tune) {
	curLen := t.NoteLength()
	bhs := t.BodyHeaders
	bhIdx := 0

	var line strings.Builder
	flush := func() {
		if line.Len() > 0 {
			b.WriteString(line.String())
			b.WriteByte('\n')
			line.Reset()
		}
	}

	for barIdx := range t.Body {
		for bhIdx < len(bhs) && bhs[bhIdx].AfterBar <= barIdx {
			flush()
			writeHeaderLine(b, bhs[bhIdx].Header)
			if bhs[bhIdx].Letter == 'L' && bhs[bhIdx].Length != nil {
				curLen = *bhs[bhIdx].Length
			}
			bhIdx++
		}
		last := barIdx == len(t.Body)-1 && bhIdx == len(bhs)
		seg := barText(&t.Body[barIdx], curLen, last)
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(seg)
	}
	flush()
	for ; bhIdx < len(bhs); bhIdx++ {
		writeHeaderLine(b, bhs[bhIdx].Header)
	}
}

// barText renders one bar's elements with their grouping marks and the
// closing barline. The final plain barline of a tune is implied by the
// end of the body, so it is omitted.
func barText(bar *ast.Bar, curLen ast.Rational, last bool) string {
	var b strings.Builder
	for i := range bar.Elements {
		writeOpens(&b, bar, i)
		writeElement(&b, bar.Elements[i], curLen)
		writeCloses(&b, bar, i)
		if i+1 < len(bar.Elements) && !beamedWithNext(bar, i) {
			b.WriteByte(' ')
		}
	}
	if last && bar.Barline == ast.BarlinePlain {
		return b.String()
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(barlineText(bar.Barline))
	return b.String()
}

func writeOpens(b *strings.Builder, bar *ast.Bar, i int) {
	for _, g := range bar.Groups {
		if g.Kind == ast.GroupTuplet && g.First == i {
			b.WriteByte('(')
			b.WriteString(strconv.Itoa(g.N))
		}
	}
	for _, g := range bar.Groups {
		if g.Kind == ast.GroupSlur && g.First == i {
			b.WriteByte('(')
		}
	}
}

func writeCloses(b *strings.Builder, bar *ast.Bar, i int) {
	for _, g := range bar.Groups {
		if g.Kind == ast.GroupTie && g.First == i {
			b.WriteByte('-')
		}
	}
	for _, g := range bar.Groups {
		if g.Kind == ast.GroupSlur && g.Last == i {
			b.WriteByte(')')
		}
	}
}

func beamedWithNext(bar *ast.Bar, i int) bool {
	for _, g := range bar.Groups {
		if g.Kind == ast.GroupBeam && g.First <= i && i+1 <= g.Last {
			return true
		}
	}
	return false
}

func writeElement(b *strings.Builder, el ast.Element, curLen ast.Rational) {
	switch el.Kind {
	case ast.ElemNote:
		writeAccidental(b, el.Pitch.Accidental)
		writePitchLetter(b, el.Pitch)
		writeDuration(b, el.Duration, curLen)
	case ast.ElemRest:
		b.WriteByte('z')
		writeDuration(b, el.Duration, curLen)
	case ast.ElemEmpty:
		b.WriteByte('x')
		writeDuration(b, el.Duration, curLen)
	case ast.ElemUnmodeled:
		b.WriteString(el.Raw)
	}
}

func writeAccidental(b *strings.Builder, acc ast.Accidental) {
	switch acc {
	case ast.AccSharp:
		b.WriteByte('^')
	case ast.AccFlat:
		b.WriteByte('_')
	case ast.AccNatural:
		b.WriteByte('=')
	case ast.AccDoubleSharp:
		b.WriteString("^^")
	case ast.AccDoubleFlat:
		b.WriteString("__")
	}
}

// writePitchLetter renders the letter in the register's case with
// octave marks: octave 0 is upper case, 1 lower case, each extra
// octave up an apostrophe, each below a comma.
func writePitchLetter(b *strings.Builder, p ast.Pitch) {
	if p.Octave >= 1 {
		b.WriteByte(p.Letter + ('a' - 'A'))
		for i := 1; i < p.Octave; i++ {
			b.WriteByte('\'')
		}
		return
	}
	b.WriteByte(p.Letter)
	for i := 0; i > p.Octave; i-- {
		b.WriteByte(',')
	}
}

// writeDuration renders the duration as a multiplier of the note
// length in effect. A multiplier of one is implied; halving keeps the
// "/" shorthand.
func writeDuration(b *strings.Builder, dur, curLen ast.Rational) {
	m := dur.Div(curLen)
	switch {
	case m.Num == 1 && m.Den == 1:
	case m.Den == 1:
		b.WriteString(strconv.Itoa(m.Num))
	case m.Num == 1 && m.Den == 2:
		b.WriteByte('/')
	default:
		b.WriteString(strconv.Itoa(m.Num))
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(m.Den))
	}
}

func barlineText(k ast.BarlineKind) string {
	switch k {
	case ast.BarlineDouble:
		return "||"
	case ast.BarlineStart:
		return "[|"
	case ast.BarlineEnd:
		return "|]"
	case ast.BarlineRepeatStart:
		return "|:"
	case ast.BarlineRepeatEnd:
		return ":|"
	}
	return "|"
}
