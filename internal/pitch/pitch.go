// Package pitch turns parsed tunes into numeric pitch and interval
// sequences for melodic comparison.
package pitch

import (
	"math"

	"tunedb/internal/ast"
)

// middleC is the MIDI number of the upper-case C register.
const middleC = 60

// letterSemitones maps a diatonic letter to its semitone offset from C.
var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// sharpOrder and flatOrder are the letters altered by a key signature,
// in the order the alterations accumulate.
var (
	sharpOrder = []byte{'F', 'C', 'G', 'D', 'A', 'E', 'B'}
	flatOrder  = []byte{'B', 'E', 'A', 'D', 'G', 'C', 'F'}
)

// fifths positions each letter on the circle of fifths relative to C.
var fifths = map[byte]int{
	'F': -1, 'C': 0, 'G': 1, 'D': 2, 'A': 3, 'E': 4, 'B': 5,
}

// modeFifths is the mode's shift on the circle relative to major.
var modeFifths = map[ast.Mode]int{
	ast.ModeMajor:      0,
	ast.ModeIonian:     0,
	ast.ModeLydian:     1,
	ast.ModeMixolydian: -1,
	ast.ModeDorian:     -2,
	ast.ModeMinor:      -3,
	ast.ModeAeolian:    -3,
	ast.ModePhrygian:   -4,
	ast.ModeLocrian:    -5,
}

// Signature is the set of letters a key alters, mapped to the
// semitone adjustment.
type Signature map[byte]int

// KeySignature derives the altered letters for a key. A tonic
// accidental shifts the whole signature seven steps on the circle.
func KeySignature(k ast.Key) Signature {
	pos := fifths[k.Tonic] + modeFifths[k.Mode]
	switch k.Accidental {
	case ast.AccSharp:
		pos += 7
	case ast.AccFlat:
		pos -= 7
	}

	sig := make(Signature)
	if pos > 0 {
		if pos > len(sharpOrder) {
			pos = len(sharpOrder)
		}
		for _, letter := range sharpOrder[:pos] {
			sig[letter] = 1
		}
	} else if pos < 0 {
		pos = -pos
		if pos > len(flatOrder) {
			pos = len(flatOrder)
		}
		for _, letter := range flatOrder[:pos] {
			sig[letter] = -1
		}
	}
	return sig
}

// MidiSequence flattens a tune's notes into MIDI numbers. Explicit
// accidentals win over the key signature for their own note; rests and
// unmodeled content are skipped.
func MidiSequence(t *ast.Tune) []int {
	var sig Signature
	if key, ok := t.Key(); ok {
		sig = KeySignature(key)
	}

	var out []int
	for i := range t.Body {
		for _, el := range t.Body[i].Elements {
			if el.Kind != ast.ElemNote {
				continue
			}
			out = append(out, midiNote(el.Pitch, sig))
		}
	}
	return out
}

func midiNote(p ast.Pitch, sig Signature) int {
	n := middleC + letterSemitones[p.Letter] + 12*p.Octave
	if p.Accidental != ast.AccNone {
		return n + p.Accidental.Semitones()
	}
	return n + sig[p.Letter]
}

// Intervals is the semitone difference between consecutive notes.
func Intervals(midi []int) []int {
	if len(midi) < 2 {
		return nil
	}
	out := make([]int, 0, len(midi)-1)
	for i := 1; i < len(midi); i++ {
		out = append(out, midi[i]-midi[i-1])
	}
	return out
}

// HistogramWidth covers intervals from an octave down to an octave up,
// with the two ends also absorbing anything wider.
const HistogramWidth = 26

// Histogram is an L2-normalized interval distribution.
type Histogram [HistogramWidth]float64

// IntervalHistogram buckets intervals by size. Index 13 is the unison;
// wider-than-octave leaps clamp to the outer buckets.
func IntervalHistogram(intervals []int) Histogram {
	var h Histogram
	for _, iv := range intervals {
		idx := iv + 13
		if idx < 0 {
			idx = 0
		}
		if idx >= HistogramWidth {
			idx = HistogramWidth - 1
		}
		h[idx]++
	}
	var norm float64
	for _, v := range h {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range h {
			h[i] /= norm
		}
	}
	return h
}

// Similarity is the cosine similarity of two histograms, in [0, 1]
// for normalized inputs.
func Similarity(a, b Histogram) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
