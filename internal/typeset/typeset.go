// Package typeset renders a tune as a single-system SVG staff. The
// output is deliberately plain: one treble staff, filled noteheads
// with stems, barlines, and text accidentals. Ornaments and anything
// kept as raw text are drawn as literal text above the staff.
package typeset

import (
	"fmt"
	"strings"

	"tunedb/internal/ast"
)

const (
	staffTop   = 64
	lineGap    = 10
	leftMargin = 40
	noteStep   = 26
	barGap     = 14
)

// bottomY is the y of the lowest staff line, which carries the E
// right above middle C.
const bottomY = staffTop + 4*lineGap

// Render draws the tune body onto one staff and returns the SVG
// document as a string.
func Render(t *ast.Tune) string {
	var b strings.Builder

	elems := 0
	for _, bar := range t.Body {
		elems += len(bar.Elements)
	}
	width := leftMargin*2 + elems*noteStep + len(t.Body)*barGap
	if width < 320 {
		width = 320
	}
	height := bottomY + 56

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	writeCaption(&b, t)

	for i := 0; i < 5; i++ {
		y := staffTop + i*lineGap
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			leftMargin, y, width-leftMargin, y)
	}

	x := leftMargin + noteStep/2
	for _, bar := range t.Body {
		for _, el := range bar.Elements {
			writeElement(&b, el, x)
			x += noteStep
		}
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			x, staffTop, x, bottomY)
		x += barGap
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeCaption(b *strings.Builder, t *ast.Tune) {
	title := "Untitled"
	if titles := t.Titles(); len(titles) > 0 {
		title = titles[0]
	}
	fmt.Fprintf(b, `<text x="%d" y="20" font-family="serif" font-size="16">%s</text>`+"\n",
		leftMargin, escape(title))

	sub := t.Metre().String()
	if key, ok := t.Key(); ok {
		sub = keyLabel(key) + ", " + sub
	}
	if rhythm, ok := t.Rhythm(); ok && rhythm != "" {
		sub = rhythm + ". " + sub
	}
	fmt.Fprintf(b, `<text x="%d" y="38" font-family="serif" font-size="11" fill="#555">%s</text>`+"\n",
		leftMargin, escape(sub))
}

func writeElement(b *strings.Builder, el ast.Element, x int) {
	switch el.Kind {
	case ast.ElemNote:
		writeNote(b, el, x)
	case ast.ElemRest:
		// Quarter-style rest glyph stand-in.
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="4" height="%d" fill="black"/>`+"\n",
			x-2, staffTop+lineGap+2, lineGap+6)
	case ast.ElemEmpty:
		// Invisible rest occupies its column with nothing drawn.
	case ast.ElemUnmodeled:
		fmt.Fprintf(b, `<text x="%d" y="%d" font-family="monospace" font-size="10" fill="#888">%s</text>`+"\n",
			x-6, staffTop-8, escape(el.Raw))
	}
}

func writeNote(b *strings.Builder, el ast.Element, x int) {
	s := diatonicStep(el.Pitch)
	y := bottomY - (s-2)*lineGap/2

	writeLedgerLines(b, s, x)

	fmt.Fprintf(b, `<ellipse cx="%d" cy="%d" rx="5" ry="4" fill="black"/>`+"\n", x, y)

	// Stems flip at the middle line (B above middle C, step 6).
	if s < 6 {
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			x+5, y, x+5, y-28)
	} else {
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			x-5, y, x-5, y+28)
	}

	if mark := accidentalMark(el.Pitch.Accidental); mark != "" {
		fmt.Fprintf(b, `<text x="%d" y="%d" font-family="serif" font-size="12">%s</text>`+"\n",
			x-14, y+4, mark)
	}
}

// writeLedgerLines draws short lines for notes outside the staff.
// Step 2 is the bottom line, step 10 the top line; ledger lines sit
// on even steps beyond that range.
func writeLedgerLines(b *strings.Builder, s, x int) {
	for ls := 0; ls >= s; ls -= 2 {
		y := bottomY - (ls-2)*lineGap/2
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			x-9, y, x+9, y)
	}
	for ls := 12; ls <= s; ls += 2 {
		y := bottomY - (ls-2)*lineGap/2
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
			x-9, y, x+9, y)
	}
}

// diatonicStep counts letter steps above middle C, so middle C is 0
// and the bottom staff line (E) is 2.
func diatonicStep(p ast.Pitch) int {
	letter := int(p.Letter-'C'+7) % 7
	return p.Octave*7 + letter
}

func accidentalMark(a ast.Accidental) string {
	switch a {
	case ast.AccSharp:
		return "&#9839;"
	case ast.AccFlat:
		return "&#9837;"
	case ast.AccNatural:
		return "&#9838;"
	case ast.AccDoubleSharp:
		return "&#9839;&#9839;"
	case ast.AccDoubleFlat:
		return "&#9837;&#9837;"
	}
	return ""
}

func keyLabel(k ast.Key) string {
	label := string(k.Tonic)
	switch k.Accidental {
	case ast.AccSharp:
		label += "#"
	case ast.AccFlat:
		label += "b"
	}
	if k.Mode != ast.ModeMajor {
		label += " " + k.Mode.String()
	}
	return label
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
