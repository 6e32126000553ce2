package lexer

import (
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

type entityKind uint8

const (
	entityNone entityKind = iota
	entityOK
	entityUnterminated // "&#123" без ';'
)

func (lx *Lexer) scanText(start source.Position) token.Token {
	c := lx.cs.La(0)
	switch c {
	case '<':
		switch {
		case lx.startsElement():
			lx.cs.Next()
			lx.push(StateElement)
			return lx.emit(token.ElementStart, start)
		case lx.cs.Match("<!--"):
			return lx.scanHTMLComment(start)
		case lx.cs.La(1) == '!' && isAlpha(lx.cs.La(2)):
			lx.cs.Next()
			lx.cs.Next()
			for isSymbolPart(lx.cs.La(0)) {
				lx.cs.Next()
			}
			lx.push(StateDeclaration)
			return lx.emit(token.DeclarationStart, start)
		}
	case '{':
		if tok, ok := lx.scanOpener(start, true); ok {
			return tok
		}
	case '&':
		switch lx.matchEntity() {
		case entityOK:
			return lx.emit(token.Entity, start)
		case entityUnterminated:
			return lx.errorf(start, diag.LexUnterminatedEntity, "Unterminated entity reference",
				`Terminate the character reference with ";"`)
		}
	}
	return lx.scanLiteralText(start)
}

// startsElement: "<tag", "</tag", "<{expr}" или "</{expr}".
func (lx *Lexer) startsElement() bool {
	i := 1
	if lx.cs.La(1) == '/' {
		i = 2
	}
	next := lx.cs.La(i)
	if isAlpha(next) {
		return true
	}
	if next == '{' {
		after := lx.cs.La(i + 1)
		return after != '{' && after != '%' && after != '#'
	}
	return false
}

// scanLiteralText всегда потребляет хотя бы одну руну и останавливается перед
// любой конструкцией, которую распознаёт scanText.
func (lx *Lexer) scanLiteralText(start source.Position) token.Token {
	lx.cs.Next()
	for !lx.cs.EOF() && !lx.textBreak() {
		lx.cs.Next()
	}
	return lx.emit(token.Text, start)
}

func (lx *Lexer) textBreak() bool {
	switch lx.cs.La(0) {
	case '<':
		if lx.startsElement() {
			return true
		}
		return lx.cs.La(1) == '!' && (lx.cs.La(2) == '-' && lx.cs.La(3) == '-' || isAlpha(lx.cs.La(2)))
	case '{':
		next := lx.cs.La(1)
		return next == '{' || next == '%' || next == '#'
	case '&':
		m := lx.cs.Mark()
		kind := lx.matchEntity()
		lx.cs.Rewind(m)
		return kind != entityNone
	}
	return false
}

// matchEntity пробует прочитать ссылку на символ. При entityNone курсор
// возвращается на место.
func (lx *Lexer) matchEntity() entityKind {
	m := lx.cs.Mark()
	lx.cs.Next() // '&'
	if lx.cs.La(0) == '#' {
		lx.cs.Next()
		digit := isDigit
		if r := lx.cs.La(0); r == 'x' || r == 'X' {
			lx.cs.Next()
			digit = isHex
		}
		n := 0
		for digit(lx.cs.La(0)) {
			lx.cs.Next()
			n++
		}
		if n == 0 {
			lx.cs.Rewind(m)
			return entityNone
		}
		if !lx.cs.Match(";") {
			return entityUnterminated
		}
		return entityOK
	}
	n := 0
	for isAlpha(lx.cs.La(0)) || isDigit(lx.cs.La(0)) {
		lx.cs.Next()
		n++
	}
	if n == 0 || !lx.cs.Match(";") {
		lx.cs.Rewind(m)
		return entityNone
	}
	return entityOK
}

func (lx *Lexer) scanHTMLComment(start source.Position) token.Token {
	for !lx.cs.EOF() {
		if lx.cs.Match("-->") {
			return lx.emit(token.HTMLComment, start)
		}
		lx.cs.Next()
	}
	return lx.errorf(start, diag.LexUnterminatedHTMLComment, "Unterminated HTML comment",
		`Close the comment with "-->"`)
}
