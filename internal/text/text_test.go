package text_test

import (
	"testing"

	"tunedb/internal/text"
)

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Sí Bheag, Sí Mhór", "Si Bheag, Si Mhor"},
		{"Crépuscule", "Crepuscule"},
		{"plain ascii", "plain ascii"},
	}
	for _, c := range cases {
		if got := text.Fold(c.in); got != c.want {
			t.Errorf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := text.Tokenize("The Bucks of Oranmore (reel) #2")
	want := []string{"the", "bucks", "of", "oranmore", "reel", "2"}
	if len(got) != len(want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeFoldsDiacritics(t *testing.T) {
	got := text.Tokenize("Sí Mhór")
	want := []string{"si", "mhor"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("terms = %v, want %v", got, want)
	}
}
