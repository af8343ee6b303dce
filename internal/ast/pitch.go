package ast

// Accidental marks a chromatic alteration on a note or key tonic.
type Accidental uint8

const (
	AccNone Accidental = iota
	AccSharp
	AccFlat
	AccNatural
	AccDoubleSharp
	AccDoubleFlat
)

func (a Accidental) String() string {
	switch a {
	case AccSharp:
		return "sharp"
	case AccFlat:
		return "flat"
	case AccNatural:
		return "natural"
	case AccDoubleSharp:
		return "double-sharp"
	case AccDoubleFlat:
		return "double-flat"
	}
	return "none"
}

// Semitones is the chromatic adjustment the accidental applies.
func (a Accidental) Semitones() int {
	switch a {
	case AccSharp:
		return 1
	case AccFlat:
		return -1
	case AccDoubleSharp:
		return 2
	case AccDoubleFlat:
		return -2
	}
	return 0
}

// Pitch is a diatonic letter plus accidental and octave.
// Letter is always the upper-case 'A'..'G'; Octave 0 is the upper-case
// register, 1 the lower-case register, each ' adds one, each , subtracts.
type Pitch struct {
	Letter     byte
	Accidental Accidental
	Octave     int
}

// Mode is a musical mode. Some are synonyms, but we record what was
// written so the serializer can emit it back.
type Mode uint8

const (
	ModeMajor Mode = iota
	ModeMinor
	ModeIonian
	ModeAeolian
	ModeMixolydian
	ModeDorian
	ModePhrygian
	ModeLydian
	ModeLocrian
)

var modeNames = [...]string{
	ModeMajor:      "major",
	ModeMinor:      "minor",
	ModeIonian:     "ionian",
	ModeAeolian:    "aeolian",
	ModeMixolydian: "mixolydian",
	ModeDorian:     "dorian",
	ModePhrygian:   "phrygian",
	ModeLydian:     "lydian",
	ModeLocrian:    "locrian",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "major"
}

// ParseMode recognizes a mode word: full name or 3-letter prefix,
// case-insensitive. "m" alone means minor.
func ParseMode(word string) (Mode, bool) {
	lower := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		b := word[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		lower[i] = b
	}
	s := string(lower)
	if s == "m" {
		return ModeMinor, true
	}
	for m, name := range modeNames {
		if s == name || (len(s) == 3 && len(name) >= 3 && s == name[:3]) {
			return Mode(m), true
		}
	}
	return ModeMajor, false
}

// Key is a key signature: tonic letter, optional accidental, mode.
type Key struct {
	Tonic      byte
	Accidental Accidental
	Mode       Mode
}
