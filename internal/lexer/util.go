package lexer

import (
	"unicode"
)

// ===== Классификаторы =====

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// ASCII fast-path для идентификаторов; Unicode: через unicode.IsLetter.
func isIdentStart(r rune) bool {
	if r < 0x80 {
		return r == '_' || r == '$' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	}
	return unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	if r < 0x80 {
		return isIdentStart(r) || isDigit(r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isAlpha(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isSymbolPart расширяет идентификатор символами, допустимыми в именах тегов и атрибутов.
func isSymbolPart(r rune) bool {
	return isIdentPart(r) || r == '-' || r == ':'
}

const nbsp = '\u00a0'
