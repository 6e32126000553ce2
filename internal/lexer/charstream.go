package lexer

import (
	"unicode/utf8"

	"melody/internal/source"
)

// EOF is returned by La and Next past the end of input.
const EOF rune = -1

// CharStream is a backtrackable cursor over template source that keeps
// line/column bookkeeping up to date.
type CharStream struct {
	src string
	pos source.Position
}

// NewCharStream creates a stream positioned at the start of src.
func NewCharStream(src string) *CharStream {
	return &CharStream{src: src, pos: source.Start}
}

// Source returns the whole input.
func (s *CharStream) Source() string { return s.src }

// Pos returns the current position.
func (s *CharStream) Pos() source.Position { return s.pos }

// EOF reports whether the whole input has been consumed.
func (s *CharStream) EOF() bool { return s.pos.Index >= len(s.src) }

// La returns the rune offset runes ahead without consuming it.
func (s *CharStream) La(offset int) rune {
	i := s.pos.Index
	for ; offset > 0; offset-- {
		if i >= len(s.src) {
			return EOF
		}
		if s.src[i] < utf8.RuneSelf {
			i++
			continue
		}
		_, sz := utf8.DecodeRuneInString(s.src[i:])
		i += sz
	}
	if i >= len(s.src) {
		return EOF
	}
	if b := s.src[i]; b < utf8.RuneSelf { // fast-path ASCII
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(s.src[i:])
	return r
}

// Next consumes one rune and returns it; at end of input it returns EOF.
func (s *CharStream) Next() rune {
	if s.EOF() {
		return EOF
	}
	r, sz := rune(s.src[s.pos.Index]), 1
	if r >= utf8.RuneSelf {
		r, sz = utf8.DecodeRuneInString(s.src[s.pos.Index:])
	}
	s.pos.Index += sz
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 0
	} else {
		s.pos.Column++
	}
	return r
}

// Match consumes str if the input continues with it; otherwise the
// cursor is left where it was.
func (s *CharStream) Match(str string) bool {
	m := s.Mark()
	for _, want := range str {
		if s.Next() != want {
			s.Rewind(m)
			return false
		}
	}
	return true
}

// Mark снимает копию позиции для последующего Rewind.
func (s *CharStream) Mark() source.Position { return s.pos }

// Rewind возвращает курсор к метке.
func (s *CharStream) Rewind(m source.Position) { s.pos = m }

// From returns the source text between m and the cursor.
func (s *CharStream) From(m source.Position) string {
	return s.src[m.Index:s.pos.Index]
}
