package lexer

import (
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

// scanString scans a string body segment for the active string state.
func (lx *Lexer) scanString(start source.Position, quote rune) token.Token {
	c := lx.cs.La(0)
	if c == quote {
		lx.cs.Next()
		lx.pop()
		return lx.emit(token.StringEnd, start)
	}
	if c == '#' && lx.cs.La(1) == '{' {
		lx.cs.Next()
		lx.cs.Next()
		lx.push(StateInterpolation)
		return lx.emit(token.InterpolationStart, start)
	}
	for {
		c = lx.cs.La(0)
		switch {
		case c == EOF:
			return lx.errorf(start, diag.LexUnterminatedString, "Unterminated string literal",
				"Add the missing closing quote "+quoteRune(quote))
		case c == quote:
			return lx.stringSegment(start, quote)
		case c == '#' && lx.cs.La(1) == '{':
			return lx.stringSegment(start, quote)
		case c == '\\' && (lx.cs.La(1) == quote || lx.cs.La(1) == '\\'):
			lx.cs.Next()
			lx.cs.Next()
		default:
			lx.cs.Next()
		}
	}
}

func (lx *Lexer) stringSegment(start source.Position, quote rune) token.Token {
	tok := lx.emit(token.String, start)
	tok.Text = lx.unescape(tok.Text, quote)
	return tok
}

// scanAttributeValue scans literal attribute text up to the closing '"' or
// an embedded "{{".
func (lx *Lexer) scanAttributeValue(start source.Position) token.Token {
	if lx.cs.La(0) == '"' {
		lx.cs.Next()
		lx.pop()
		return lx.emit(token.StringEnd, start)
	}
	if tok, ok := lx.scanOpener(start, false); ok {
		return tok
	}
	for {
		c := lx.cs.La(0)
		switch {
		case c == EOF:
			return lx.errorf(start, diag.LexUnterminatedString, "Unterminated attribute value",
				`Add the missing closing quote "\""`)
		case c == '"':
			return lx.emit(token.String, start)
		case c == '{' && (lx.cs.La(1) == '{' || lx.cs.La(1) == '#'):
			return lx.emit(token.String, start)
		}
		lx.cs.Next()
	}
}
