package parser_test

import (
	"strings"
	"testing"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/parser"
	"tunedb/internal/source"
)

func parseSrc(t *testing.T, src string) parser.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte(src))
	bag := diag.NewBag(100)
	return parser.ParseFile(fs, fs.Get(id), parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: 100,
	})
}

func onlyDiag(t *testing.T, res parser.Result) diag.Diagnostic {
	t.Helper()
	if res.Bag.Len() != 1 {
		for _, d := range res.Bag.Items() {
			t.Logf("  [%s] %s (%s)", d.Code.ID(), d.Message, d.RulePath())
		}
		t.Fatalf("want exactly 1 diagnostic, got %d", res.Bag.Len())
	}
	return res.Bag.Items()[0]
}

func TestTimeSignatureCutShortAtEndOfInput(t *testing.T) {
	src := "X:1\nT:Unfinished\nM:"
	res := parseSrc(t, src)

	d := onlyDiag(t, res)
	if d.Code != diag.SynPrematureEnd {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.SynPrematureEnd.ID())
	}
	if d.InnermostRule() != "time signature" {
		t.Errorf("innermost rule = %q, want %q", d.InnermostRule(), "time signature")
	}
	if d.Primary.Start != uint32(len(src)) || !d.Primary.Empty() {
		t.Errorf("span = %v, want empty span at offset %d", d.Primary, len(src))
	}
	if len(res.Tunes) != 1 || res.Tunes[0].Ref != 1 {
		t.Fatalf("the partial tune must still come back")
	}
}

func TestTimeSignatureMissingSlash(t *testing.T) {
	src := "X:1\nM:3\nK:C\n"
	res := parseSrc(t, src)

	d := onlyDiag(t, res)
	if !strings.Contains(d.Message, "slash") {
		t.Errorf("message %q does not mention the slash", d.Message)
	}
	// Right after the 3: the newline at offset 7.
	if d.Primary.Start != uint32(strings.Index(src, "3")+1) {
		t.Errorf("span starts at %d, want right after the numerator", d.Primary.Start)
	}
	if d.RulePath() != "tune > header > time signature" {
		t.Errorf("rule path = %q", d.RulePath())
	}
}

func TestNumberLongerThanExpected(t *testing.T) {
	res := parseSrc(t, "X:1\nM:123456789/4\nK:C\nAB|\n")

	d := onlyDiag(t, res)
	if d.Code != diag.SynNumberTooLong {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.SynNumberTooLong.ID())
	}
	// The broken header is dropped; the rest of the tune still parses.
	tune := res.Tunes[0]
	if tune.Metre() != ast.DefaultMetre {
		t.Errorf("metre = %v, want the default", tune.Metre())
	}
	if len(tune.Body) != 1 {
		t.Fatalf("body bars = %d, want 1", len(tune.Body))
	}
}

func TestDuplicateHeaderWithTrailingJunk(t *testing.T) {
	src := "X:1\nM:2/4\nM:2/4Y\nK:C\nAB|\n"
	res := parseSrc(t, src)

	d := onlyDiag(t, res)
	wantStart := uint32(strings.Index(src, "Y"))
	if d.Primary.Start != wantStart {
		t.Errorf("span starts at %d, want %d (the stray Y)", d.Primary.Start, wantStart)
	}
	// The first M survives the duplicate's failure.
	if got := res.Tunes[0].Metre(); got != (ast.Metre{Num: 2, Den: 4}) {
		t.Errorf("metre = %v, want 2/4", got)
	}
}

func TestOneDiagnosticPerBrokenTune(t *testing.T) {
	src := "X:1\nM:\nK:C\nab|\n\nX:2\nL:1\nK:C\ncd|\n"
	res := parseSrc(t, src)

	if res.Bag.Len() != 2 {
		for _, d := range res.Bag.Items() {
			t.Logf("  [%s] %s", d.Code.ID(), d.Message)
		}
		t.Fatalf("diagnostics = %d, want 2", res.Bag.Len())
	}
	if len(res.Tunes) != 2 {
		t.Fatalf("tunes = %d, want 2", len(res.Tunes))
	}
	if res.Tunes[0].Ref != 1 || res.Tunes[1].Ref != 2 {
		t.Errorf("refs = %d, %d", res.Tunes[0].Ref, res.Tunes[1].Ref)
	}
	// Both bodies survived their header's failure.
	for i, tune := range res.Tunes {
		if len(tune.Body) != 1 {
			t.Errorf("tune %d: bars = %d, want 1", i, len(tune.Body))
		}
	}
}

func TestFourNotesOneBar(t *testing.T) {
	res := parseSrc(t, "X:1\nM:4/4\nL:1/8\nK:C\nA B c d\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}

	tune := res.Tunes[0]
	if len(tune.Body) != 1 {
		t.Fatalf("bars = %d, want 1", len(tune.Body))
	}
	bar := tune.Body[0]
	if len(bar.Elements) != 4 {
		t.Fatalf("elements = %d, want 4", len(bar.Elements))
	}
	want := []ast.Pitch{
		{Letter: 'A'},
		{Letter: 'B'},
		{Letter: 'C', Octave: 1},
		{Letter: 'D', Octave: 1},
	}
	for i, el := range bar.Elements {
		if el.Kind != ast.ElemNote {
			t.Errorf("element %d: kind = %v", i, el.Kind)
		}
		if el.Pitch != want[i] {
			t.Errorf("element %d: pitch = %+v, want %+v", i, el.Pitch, want[i])
		}
		if el.Duration != ast.NewRational(1, 8) {
			t.Errorf("element %d: duration = %v, want 1/8", i, el.Duration)
		}
	}
	if len(bar.Groups) != 0 {
		t.Errorf("spaced notes must not beam: %v", bar.Groups)
	}
}

func TestDurationsResolveAgainstNoteLength(t *testing.T) {
	res := parseSrc(t, "X:1\nL:1/8\nK:C\nA2 B3/2 C/ D// E|\n")
	bar := res.Tunes[0].Body[0]

	want := []ast.Rational{
		ast.NewRational(1, 4),  // A2
		ast.NewRational(3, 16), // B3/2
		ast.NewRational(1, 16), // C/
		ast.NewRational(1, 32), // D//
		ast.NewRational(1, 8),  // E
	}
	if len(bar.Elements) != len(want) {
		t.Fatalf("elements = %d, want %d", len(bar.Elements), len(want))
	}
	for i, el := range bar.Elements {
		if el.Duration != want[i] {
			t.Errorf("element %d: duration = %v, want %v", i, el.Duration, want[i])
		}
	}
}

func TestAccidentalsAndOctaveMarks(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\n^F _b' =c ^^G __A,|\n")
	bar := res.Tunes[0].Body[0]

	want := []ast.Pitch{
		{Letter: 'F', Accidental: ast.AccSharp},
		{Letter: 'B', Accidental: ast.AccFlat, Octave: 2},
		{Letter: 'C', Accidental: ast.AccNatural, Octave: 1},
		{Letter: 'G', Accidental: ast.AccDoubleSharp},
		{Letter: 'A', Accidental: ast.AccDoubleFlat, Octave: -1},
	}
	if len(bar.Elements) != len(want) {
		t.Fatalf("elements = %d, want %d", len(bar.Elements), len(want))
	}
	for i, el := range bar.Elements {
		if el.Pitch != want[i] {
			t.Errorf("element %d: pitch = %+v, want %+v", i, el.Pitch, want[i])
		}
	}
}

func TestRestsAndGroups(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\nAB z cd|\n")
	bar := res.Tunes[0].Body[0]

	if bar.Elements[2].Kind != ast.ElemRest {
		t.Errorf("element 2: kind = %v, want rest", bar.Elements[2].Kind)
	}
	want := []ast.Group{
		{Kind: ast.GroupBeam, First: 0, Last: 1},
		{Kind: ast.GroupBeam, First: 3, Last: 4},
	}
	if len(bar.Groups) != len(want) {
		t.Fatalf("groups = %v, want %v", bar.Groups, want)
	}
	for i, g := range bar.Groups {
		if g != want[i] {
			t.Errorf("group %d = %v, want %v", i, g, want[i])
		}
	}
}

func TestTupletSlurAndTie(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\n(3ABC (DE) F-G|\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	bar := res.Tunes[0].Body[0]

	var kinds []ast.GroupKind
	for _, g := range bar.Groups {
		kinds = append(kinds, g.Kind)
	}
	wantKinds := []ast.GroupKind{
		ast.GroupTuplet, ast.GroupBeam, ast.GroupSlur, ast.GroupBeam, ast.GroupTie, ast.GroupBeam,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("groups = %v, want kinds %v", bar.Groups, wantKinds)
	}
	for i := range kinds {
		if kinds[i] != wantKinds[i] {
			t.Errorf("group %d kind = %v, want %v", i, kinds[i], wantKinds[i])
		}
	}
	if g := bar.Groups[0]; g.First != 0 || g.Last != 2 || g.N != 3 {
		t.Errorf("tuplet = %+v", g)
	}
	if g := bar.Groups[4]; g.First != 5 || g.Last != 6 {
		t.Errorf("tie = %+v", g)
	}
}

func TestTieCannotCrossBarLine(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\nA-|B|\n")
	d := onlyDiag(t, res)
	if d.Code != diag.SynGroupAcrossBar {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.SynGroupAcrossBar.ID())
	}
}

func TestSlurCannotCrossBarLine(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\n(AB|CD)|\n")
	if res.Bag.Len() != 2 {
		t.Fatalf("diagnostics = %d, want 2 (open at bar, stray close)", res.Bag.Len())
	}
	for _, d := range res.Bag.Items() {
		if d.Code != diag.SynGroupAcrossBar && d.Code != diag.SynUnexpectedToken {
			t.Errorf("unexpected code %s", d.Code.ID())
		}
	}
}

func TestMidTuneNoteLengthChange(t *testing.T) {
	res := parseSrc(t, "X:1\nL:1/8\nK:C\nAB|\nL:1/4\nCD|\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}

	tune := res.Tunes[0]
	if len(tune.BodyHeaders) != 1 {
		t.Fatalf("body headers = %d, want 1", len(tune.BodyHeaders))
	}
	bh := tune.BodyHeaders[0]
	if bh.Letter != 'L' || bh.AfterBar != 1 {
		t.Errorf("body header = %+v", bh)
	}
	if d := tune.Body[0].Elements[0].Duration; d != ast.NewRational(1, 8) {
		t.Errorf("bar 0 duration = %v, want 1/8", d)
	}
	if d := tune.Body[1].Elements[0].Duration; d != ast.NewRational(1, 4) {
		t.Errorf("bar 1 duration = %v, want 1/4", d)
	}
}

func TestInlineFieldChange(t *testing.T) {
	res := parseSrc(t, "X:1\nM:4/4\nK:C\nAB|[M:6/8]CD|\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	tune := res.Tunes[0]
	if len(tune.BodyHeaders) != 1 {
		t.Fatalf("body headers = %d, want 1", len(tune.BodyHeaders))
	}
	bh := tune.BodyHeaders[0]
	if bh.Letter != 'M' || bh.AfterBar != 1 || bh.Metre == nil || *bh.Metre != (ast.Metre{Num: 6, Den: 8}) {
		t.Errorf("body header = %+v", bh)
	}
}

func TestInlineCutTimeMetreAlias(t *testing.T) {
	// The alias's '|' and the closing ']' lex as one |] token.
	res := parseSrc(t, "X:1\nM:4/4\nK:C\nAB|[M:C|]CD|\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	tune := res.Tunes[0]
	if len(tune.BodyHeaders) != 1 {
		t.Fatalf("body headers = %d, want 1", len(tune.BodyHeaders))
	}
	bh := tune.BodyHeaders[0]
	if bh.Letter != 'M' || bh.AfterBar != 1 || bh.Metre == nil || *bh.Metre != (ast.Metre{Num: 2, Den: 2}) {
		t.Errorf("body header = %+v", bh)
	}
	if len(tune.Body) != 2 || len(tune.Body[1].Elements) != 2 {
		t.Errorf("body after the inline change did not parse: %+v", tune.Body)
	}
}

func TestWholeLineMetreAliases(t *testing.T) {
	for src, want := range map[string]ast.Metre{
		"X:1\nM:C\nK:C\nA|\n":  {Num: 4, Den: 4},
		"X:1\nM:C|\nK:C\nA|\n": {Num: 2, Den: 2},
	} {
		res := parseSrc(t, src)
		if res.Bag.HasErrors() {
			t.Fatalf("%q: unexpected diagnostics: %v", src, res.Bag.Items())
		}
		if got := res.Tunes[0].Metre(); got != want {
			t.Errorf("%q: metre = %v, want %v", src, got, want)
		}
	}
}

func TestTitleHeaderInBodyIsRejected(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\nAB|\nT:too late\nCD|\n")
	d := onlyDiag(t, res)
	if d.Code != diag.SynUnexpectedHeaderLine {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.SynUnexpectedHeaderLine.ID())
	}
	// The body after the stray header is still parsed.
	if len(res.Tunes[0].Body) != 2 {
		t.Errorf("bars = %d, want 2", len(res.Tunes[0].Body))
	}
}

func TestMissingReferenceNumber(t *testing.T) {
	res := parseSrc(t, "M:4/4\nK:C\nAB|\n")
	d := onlyDiag(t, res)
	if d.Code != diag.SynMissingRefNumber {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.SynMissingRefNumber.ID())
	}
	if len(res.Tunes) != 1 {
		t.Fatalf("the partial tune must still come back")
	}
}

func TestKeySignatures(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Key
	}{
		{"K:C", ast.Key{Tonic: 'C'}},
		{"K:F#dor", ast.Key{Tonic: 'F', Accidental: ast.AccSharp, Mode: ast.ModeDorian}},
		{"K:Bb", ast.Key{Tonic: 'B', Accidental: ast.AccFlat}},
		{"K:Gm", ast.Key{Tonic: 'G', Mode: ast.ModeMinor}},
		{"K:D Mixolydian", ast.Key{Tonic: 'D', Mode: ast.ModeMixolydian}},
	}
	for _, c := range cases {
		res := parseSrc(t, "X:1\n"+c.src+"\nAB|\n")
		if res.Bag.HasErrors() {
			t.Errorf("%q: unexpected diagnostics: %v", c.src, res.Bag.Items())
			continue
		}
		key, ok := res.Tunes[0].Key()
		if !ok || key != c.want {
			t.Errorf("%q: key = %+v, %v; want %+v", c.src, key, ok, c.want)
		}
	}
}

func TestUnknownModeIsRejected(t *testing.T) {
	res := parseSrc(t, "X:1\nK:Cfoo\nAB|\n")
	d := onlyDiag(t, res)
	if d.InnermostRule() != "key signature" {
		t.Errorf("innermost rule = %q", d.InnermostRule())
	}
	// A broken key line still opens the body.
	if len(res.Tunes[0].Body) != 1 {
		t.Errorf("bars = %d, want 1", len(res.Tunes[0].Body))
	}
	if _, ok := res.Tunes[0].Key(); ok {
		t.Errorf("the rejected key must not be retained")
	}
}

func TestChordsSurviveAsRawText(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\n[CEG] A|\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	bar := res.Tunes[0].Body[0]
	if bar.Elements[0].Kind != ast.ElemUnmodeled || bar.Elements[0].Raw != "[CEG]" {
		t.Errorf("element 0 = %+v, want the chord verbatim", bar.Elements[0])
	}
	if bar.Elements[1].Kind != ast.ElemNote {
		t.Errorf("element 1 = %+v, want a note", bar.Elements[1])
	}
}

func TestBarlineKinds(t *testing.T) {
	res := parseSrc(t, "X:1\nK:C\nAB|CD||EF:|\n")
	tune := res.Tunes[0]
	if len(tune.Body) != 3 {
		t.Fatalf("bars = %d, want 3", len(tune.Body))
	}
	want := []ast.BarlineKind{ast.BarlinePlain, ast.BarlineDouble, ast.BarlineRepeatEnd}
	for i, bar := range tune.Body {
		if bar.Barline != want[i] {
			t.Errorf("bar %d barline = %v, want %v", i, bar.Barline, want[i])
		}
	}
}

func TestParserAlwaysTerminates(t *testing.T) {
	// Pathological inputs must never hang or panic.
	inputs := []string{
		"",
		"\n\n\n",
		"X:1",
		"X:1\nK:C\n" + strings.Repeat("(", 50),
		"X:1\nK:C\n" + strings.Repeat("]", 50),
		"garbage with no headers at all",
		"X:1\nX:2\nX:3\n",
		"%comment only\n",
	}
	for _, src := range inputs {
		parseSrc(t, src)
	}
}
