// Package features extracts searchable facet/value pairs from tunes.
package features

import (
	"strconv"
	"strings"

	"tunedb/internal/ast"
)

// Facet names are stable identifiers: search filters and index keys
// refer to them verbatim.
const (
	FacetKey          = "key"
	FacetMode         = "mode"
	FacetKeySignature = "key-signature"
	FacetMetre        = "metre"
	FacetMetreBeats   = "metre-beats"
	FacetRhythm       = "rhythm"
)

// Feature is one facet/value observation about a tune.
type Feature struct {
	Facet string
	Value string
}

// Extract lists every facet a tune exposes. Values are normalized to
// lower case where the facet is a vocabulary (mode, rhythm) and kept
// literal where it is a name (key, metre).
func Extract(t *ast.Tune) []Feature {
	var out []Feature

	if key, ok := t.Key(); ok {
		out = append(out,
			Feature{FacetKey, keyName(key)},
			Feature{FacetMode, key.Mode.String()},
			Feature{FacetKeySignature, signatureName(key)},
		)
	}

	m := t.Metre()
	out = append(out,
		Feature{FacetMetre, m.String()},
		Feature{FacetMetreBeats, strconv.Itoa(m.Num)},
	)

	if rhythm, ok := t.Rhythm(); ok && rhythm != "" {
		out = append(out, Feature{FacetRhythm, strings.ToLower(rhythm)})
	}
	return out
}

// keyName is the full spelling: tonic, accidental, mode ("Bb minor").
func keyName(k ast.Key) string {
	name := signatureName(k)
	if k.Mode != ast.ModeMajor {
		name += " " + k.Mode.String()
	}
	return name
}

// signatureName is the tonic with its accidental ("F#", "Bb", "C").
func signatureName(k ast.Key) string {
	var b strings.Builder
	b.WriteByte(k.Tonic)
	switch k.Accidental {
	case ast.AccSharp:
		b.WriteByte('#')
	case ast.AccFlat:
		b.WriteByte('b')
	}
	return b.String()
}
