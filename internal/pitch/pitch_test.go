package pitch_test

import (
	"math"
	"testing"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/parser"
	"tunedb/internal/pitch"
	"tunedb/internal/source"
)

func parseTune(t *testing.T, src string) *ast.Tune {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte(src))
	bag := diag.NewBag(10)
	res := parser.ParseFile(fs, fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 10,
	})
	if bag.HasErrors() || len(res.Tunes) != 1 {
		t.Fatalf("bad fixture %q: %v", src, bag.Items())
	}
	return res.Tunes[0]
}

func TestMidiSequenceCMajor(t *testing.T) {
	tune := parseTune(t, "X:1\nK:C\nC D E F|G A B c|\n")
	want := []int{60, 62, 64, 65, 67, 69, 71, 72}
	got := pitch.MidiSequence(tune)
	if len(got) != len(want) {
		t.Fatalf("midi = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("note %d: midi = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestKeySignatureApplies(t *testing.T) {
	// D major has F# and C#.
	tune := parseTune(t, "X:1\nK:D\nD F C|\n")
	got := pitch.MidiSequence(tune)
	want := []int{62, 66, 61}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("note %d: midi = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestExplicitAccidentalWinsOverSignature(t *testing.T) {
	tune := parseTune(t, "X:1\nK:D\n=F ^F F|\n")
	got := pitch.MidiSequence(tune)
	want := []int{65, 66, 66}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("note %d: midi = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestKeySignatures(t *testing.T) {
	cases := []struct {
		key    ast.Key
		letter byte
		adjust int
	}{
		{ast.Key{Tonic: 'C'}, 'F', 0},
		{ast.Key{Tonic: 'G'}, 'F', 1},
		{ast.Key{Tonic: 'F'}, 'B', -1},
		{ast.Key{Tonic: 'D', Mode: ast.ModeDorian}, 'F', 0},    // D dorian = no accidentals
		{ast.Key{Tonic: 'A', Mode: ast.ModeMinor}, 'F', 0},     // A minor = no accidentals
		{ast.Key{Tonic: 'E', Mode: ast.ModeMinor}, 'F', 1},     // E minor = F#
		{ast.Key{Tonic: 'B', Accidental: ast.AccFlat}, 'E', -1}, // Bb major = Bb, Eb
	}
	for _, c := range cases {
		sig := pitch.KeySignature(c.key)
		if got := sig[c.letter]; got != c.adjust {
			t.Errorf("KeySignature(%+v)[%c] = %d, want %d", c.key, c.letter, got, c.adjust)
		}
	}
}

func TestIntervals(t *testing.T) {
	got := pitch.Intervals([]int{60, 62, 60, 72})
	want := []int{2, -2, 12}
	if len(got) != len(want) {
		t.Fatalf("intervals = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %d, want %d", i, got[i], want[i])
		}
	}
	if pitch.Intervals([]int{60}) != nil {
		t.Errorf("a single note has no intervals")
	}
}

func TestHistogramNormalized(t *testing.T) {
	h := pitch.IntervalHistogram([]int{2, 2, -2, 30, -30})
	var norm float64
	for _, v := range h {
		norm += v * v
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("norm = %v, want 1", norm)
	}
	// Out-of-range leaps clamp to the edges.
	if h[0] == 0 || h[pitch.HistogramWidth-1] == 0 {
		t.Errorf("clamped buckets empty: %v", h)
	}
}

func TestSimilarity(t *testing.T) {
	a := pitch.IntervalHistogram([]int{2, 2, -2})
	if s := pitch.Similarity(a, a); math.Abs(s-1) > 1e-9 {
		t.Errorf("self similarity = %v, want 1", s)
	}
	b := pitch.IntervalHistogram([]int{7, 7, 7})
	if s := pitch.Similarity(a, b); s != 0 {
		t.Errorf("disjoint similarity = %v, want 0", s)
	}
}
