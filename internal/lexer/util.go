package lexer

import "tunedb/internal/token"

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func punctKind(b byte) (token.Kind, bool) {
	switch b {
	case '/':
		return token.Slash, true
	case ',':
		return token.Comma, true
	case '\'':
		return token.Apostrophe, true
	case '^':
		return token.Sharp, true
	case '_':
		return token.Flat, true
	case '=':
		return token.Natural, true
	case ']':
		return token.RBracket, true
	case '(':
		return token.LParen, true
	case ')':
		return token.RParen, true
	case '-':
		return token.Minus, true
	case '~':
		return token.Tilde, true
	}
	return token.Invalid, false
}

// isUnclassified reports whether the byte belongs to a catch-all Text
// run: anything no other scanner claims.
func isUnclassified(b byte) bool {
	if b == '\n' || b == ' ' || b == '\t' || b == '%' || b == ':' || b == '|' || b == '[' {
		return false
	}
	if isLetter(b) || isDigit(b) {
		return false
	}
	if _, ok := punctKind(b); ok {
		return false
	}
	return true
}
