package lexer

import (
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

// scanElement scans inside "<name ... >": names, attributes and delimiters.
func (lx *Lexer) scanElement(start source.Position) token.Token {
	if tok, ok := lx.scanOpener(start, true); ok {
		return tok
	}
	c := lx.cs.La(0)
	switch c {
	case '/':
		lx.cs.Next()
		return lx.emit(token.Slash, start)
	case '{':
		lx.cs.Next()
		lx.push(StateInterpolation)
		return lx.emit(token.InterpolationStart, start)
	case '>':
		lx.cs.Next()
		lx.pop()
		return lx.emit(token.ElementEnd, start)
	case '"':
		lx.cs.Next()
		lx.push(StateAttributeValue)
		return lx.emit(token.StringStart, start)
	case '=':
		lx.cs.Next()
		return lx.emit(token.Assignment, start)
	}
	if isIdentStart(c) {
		for isSymbolPart(lx.cs.La(0)) {
			lx.cs.Next()
		}
		return lx.emit(token.Symbol, start)
	}
	if c == nbsp {
		return lx.errorf(start, diag.LexNonBreakingSpace, "Non-breaking space in element",
			"Replace the non-breaking space with a regular space")
	}
	lx.cs.Next()
	return lx.errorf(start, diag.LexUnknownChar, "Unknown token "+quoteRune(c)+" in element",
		"Attribute names may contain letters, digits, \"-\" and \":\"")
}
