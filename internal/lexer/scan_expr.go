package lexer

import (
	"strings"

	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

var punctuation = map[rune]token.Kind{
	'[': token.LBrace,
	']': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBracket,
	'}': token.RBracket,
	':': token.Colon,
	',': token.Comma,
	'.': token.Dot,
	'|': token.Pipe,
	'?': token.QuestionMark,
	'=': token.Assignment,
}

var literalKeywords = map[string]token.Kind{
	"true":  token.True,
	"TRUE":  token.True,
	"false": token.False,
	"FALSE": token.False,
	"null":  token.Null,
	"NULL":  token.Null,
	"none":  token.Null,
	"NONE":  token.Null,
}

// scanExpressionToken scans one token of the expression mini-language.
func (lx *Lexer) scanExpressionToken(start source.Position) token.Token {
	c := lx.cs.La(0)
	switch {
	case c == '"':
		lx.cs.Next()
		lx.push(StateStringDouble)
		return lx.emit(token.StringStart, start)
	case c == '\'':
		lx.cs.Next()
		lx.push(StateStringSingle)
		return lx.emit(token.StringStart, start)
	case isDigit(c):
		return lx.scanNumber(start)
	}

	if kind, ok := lx.matchLiteralKeyword(); ok {
		return lx.emit(kind, start)
	}

	// 5) оператор против идентификатора
	op := lx.longestOperator()
	if isIdentStart(c) {
		for isIdentPart(lx.cs.La(0)) {
			lx.cs.Next()
		}
		if lx.cs.Pos().Index-start.Index > len(op) {
			return lx.emit(token.Symbol, start)
		}
		lx.cs.Rewind(start)
	}
	if op != "" {
		lx.cs.Match(op)
		return lx.emit(token.Operator, start)
	}

	if kind, ok := punctuation[c]; ok {
		lx.cs.Next()
		switch kind {
		case token.LBracket:
			lx.top().braces++
		case token.RBracket:
			if f := lx.top(); f.braces > 0 {
				f.braces--
			}
		}
		return lx.emit(kind, start)
	}
	if c == nbsp {
		return lx.errorf(start, diag.LexNonBreakingSpace, "Non-breaking space in expression",
			"Replace the non-breaking space with a regular space")
	}
	lx.cs.Next()
	return lx.errorf(start, diag.LexUnknownChar, "Unknown token "+quoteRune(c),
		"Remove the character or quote it inside a string")
}

func (lx *Lexer) scanNumber(start source.Position) token.Token {
	for isDigit(lx.cs.La(0)) {
		lx.cs.Next()
	}
	if lx.cs.La(0) == '.' && isDigit(lx.cs.La(1)) {
		lx.cs.Next()
		for isDigit(lx.cs.La(0)) {
			lx.cs.Next()
		}
	}
	return lx.emit(token.Number, start)
}

func (lx *Lexer) matchLiteralKeyword() (token.Kind, bool) {
	m := lx.cs.Mark()
	for isIdentPart(lx.cs.La(0)) {
		lx.cs.Next()
	}
	if kind, ok := literalKeywords[lx.cs.From(m)]; ok {
		return kind, true
	}
	lx.cs.Rewind(m)
	return 0, false
}

// longestOperator returns the longest registered operator text at the cursor
// without consuming it. A multi-word operator followed by an identifier
// character is skipped: "not in" must not match the start of "not invalid".
func (lx *Lexer) longestOperator() string {
	m := lx.cs.Mark()
	defer lx.cs.Rewind(m)
	for _, op := range lx.operators {
		if !lx.cs.Match(op) {
			continue
		}
		next := lx.cs.La(0)
		lx.cs.Rewind(m)
		if strings.Contains(op, " ") && isIdentPart(next) {
			continue
		}
		return op
	}
	return ""
}

func quoteRune(r rune) string {
	if r == EOF {
		return "<EOF>"
	}
	return `"` + string(r) + `"`
}
