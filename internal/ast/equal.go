package ast

// Equal reports structural equality of two tunes, ignoring source
// spans. Serializing and reparsing produces different byte offsets, so
// the round-trip law is stated over this equality, not DeepEqual.
func Equal(a, b *Tune) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Ref != b.Ref {
		return false
	}
	if len(a.Headers) != len(b.Headers) || len(a.BodyHeaders) != len(b.BodyHeaders) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Headers {
		if !headerEqual(a.Headers[i], b.Headers[i]) {
			return false
		}
	}
	for i := range a.BodyHeaders {
		if a.BodyHeaders[i].AfterBar != b.BodyHeaders[i].AfterBar {
			return false
		}
		if !headerEqual(a.BodyHeaders[i].Header, b.BodyHeaders[i].Header) {
			return false
		}
	}
	for i := range a.Body {
		if !barEqual(&a.Body[i], &b.Body[i]) {
			return false
		}
	}
	return true
}

func headerEqual(a, b Header) bool {
	if a.Letter != b.Letter {
		return false
	}
	switch {
	case a.Metre != nil || b.Metre != nil:
		if a.Metre == nil || b.Metre == nil {
			return false
		}
		return *a.Metre == *b.Metre
	case a.Length != nil || b.Length != nil:
		if a.Length == nil || b.Length == nil {
			return false
		}
		return *a.Length == *b.Length
	case a.Key != nil || b.Key != nil:
		if a.Key == nil || b.Key == nil {
			return false
		}
		return *a.Key == *b.Key
	}
	return a.Value == b.Value
}

func barEqual(a, b *Bar) bool {
	if len(a.Elements) != len(b.Elements) || len(a.Groups) != len(b.Groups) {
		return false
	}
	if a.Barline != b.Barline {
		return false
	}
	for i := range a.Elements {
		if !elementEqual(a.Elements[i], b.Elements[i]) {
			return false
		}
	}
	for i := range a.Groups {
		if a.Groups[i] != b.Groups[i] {
			return false
		}
	}
	return true
}

func elementEqual(a, b Element) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ElemNote:
		return a.Pitch == b.Pitch && a.Duration == b.Duration
	case ElemRest, ElemEmpty:
		return a.Duration == b.Duration
	case ElemUnmodeled:
		return a.Raw == b.Raw
	}
	return false
}
