package stream

import (
	"fmt"
	"strings"

	"melody/internal/diag"
	"melody/internal/lexer"
	"melody/internal/source"
	"melody/internal/token"
)

// Stream is the token array of one template plus a read cursor.
type Stream struct {
	path   string
	src    string
	opts   Options
	tokens []token.Token // последний всегда EOF
	index  int
}

// New tokenizes src completely. A lexical error is returned as *diag.Error.
func New(path, src string, opts Options) (*Stream, error) {
	s := &Stream{path: path, src: src, opts: opts}
	lx := lexer.New(src, lexer.Options{
		Operators:               opts.Operators,
		PreserveSourceLiterally: opts.PreserveSourceLiterally,
	})

	trimNext := false
	for {
		tok := lx.Next()
		if tok.Kind == token.Error {
			return nil, s.NewError(lx.ErrCode(), tok.Message, tok.Pos, tok.Length(), tok.Advice)
		}
		if tok.Kind == token.EOF {
			s.tokens = append(s.tokens, tok)
			return s, nil
		}

		if opts.ApplyWhitespaceTrimming {
			if tok.TrimsLeft() {
				s.trimPrevious()
			}
			switch {
			case trimNext && (tok.Kind == token.Text || tok.Kind == token.String):
				tok.Text = strings.TrimLeft(tok.Text, whitespace)
				trimNext = false
				if tok.Text == "" && tok.Kind == token.Text {
					continue
				}
			case trimNext && !tok.IsTrivia():
				trimNext = false
			}
			if tok.TrimsRight() {
				trimNext = true
			}
		}

		if opts.ignores(tok.Kind) {
			continue
		}
		s.tokens = append(s.tokens, tok)
	}
}

const whitespace = " \t\n\r\f\v"

// trimPrevious strips trailing whitespace off the last retained TEXT token,
// dropping it when nothing is left.
func (s *Stream) trimPrevious() {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		prev := &s.tokens[i]
		if prev.IsTrivia() {
			continue
		}
		if prev.Kind != token.Text {
			return
		}
		prev.Text = strings.TrimRight(prev.Text, whitespace)
		if prev.Text == "" {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
		}
		return
	}
}

// Path returns the template path used in errors.
func (s *Stream) Path() string { return s.path }

// Source returns the template source.
func (s *Stream) Source() string { return s.src }

// Tokens returns the collected tokens, EOF included.
func (s *Stream) Tokens() []token.Token { return s.tokens }

// Index returns the cursor position in the token array.
func (s *Stream) Index() int { return s.index }

// La returns the token offset positions away from the cursor. Negative
// offsets look back; offsets past the end yield EOF.
func (s *Stream) La(offset int) token.Token {
	i := s.index + offset
	switch {
	case i < 0:
		return token.Token{Kind: token.EOF, Pos: source.Start, End: source.Start}
	case i >= len(s.tokens):
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[i]
}

// Lat returns the kind of La(offset).
func (s *Stream) Lat(offset int) token.Kind { return s.La(offset).Kind }

// Test reports whether the current token has kind k (and text, if given).
func (s *Stream) Test(k token.Kind, text ...string) bool {
	return s.La(0).Is(k, text...)
}

// TestAny reports whether the current token has any of the given kinds.
func (s *Stream) TestAny(kinds ...token.Kind) bool {
	cur := s.Lat(0)
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// Next returns the current token and advances. At EOF it stays put.
func (s *Stream) Next() token.Token {
	tok := s.La(0)
	if s.index < len(s.tokens)-1 {
		s.index++
	}
	return tok
}

// NextIf consumes the current token when it matches.
func (s *Stream) NextIf(k token.Kind, text ...string) (token.Token, bool) {
	if !s.Test(k, text...) {
		return token.Token{}, false
	}
	return s.Next(), true
}

// Expect consumes the current token or aborts with a syntax error naming
// what was expected and what was found.
func (s *Stream) Expect(k token.Kind, text ...string) token.Token {
	if tok, ok := s.NextIf(k, text...); ok {
		return tok
	}
	want := k.Describe()
	if len(text) > 0 {
		want = fmt.Sprintf("%q", text[0])
	}
	found := s.La(0)
	code := diag.SynUnexpectedToken
	if found.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	s.Error(code, fmt.Sprintf("Expected %s but found %s", want, Describe(found)), found.Pos, found.Length(), "")
	return token.Token{}
}

// Describe renders a token for error messages.
func Describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Symbol, token.Operator, token.Number:
		return fmt.Sprintf("%s %q", t.Kind.Describe(), t.Text)
	}
	return t.Kind.Describe()
}

// NewError builds a *diag.Error with a frame drawn from a full re-lex of the
// template that keeps whitespace and comments.
func (s *Stream) NewError(code diag.Code, title string, pos source.Position, length int, advice string) *diag.Error {
	return &diag.Error{
		Code:   code,
		Title:  title,
		Path:   s.path,
		Pos:    pos,
		Length: length,
		Advice: advice,
		Source: s.src,
		Tokens: lexer.Tokenize(s.src, lexer.Options{Operators: s.opts.Operators, PreserveSourceLiterally: true}),
	}
}

// Error aborts the parse with a syntax error at pos.
func (s *Stream) Error(code diag.Code, title string, pos source.Position, length int, advice string) {
	panic(s.NewError(code, title, pos, length, advice))
}

// ErrorAt aborts the parse with a syntax error covering tok.
func (s *Stream) ErrorAt(tok token.Token, code diag.Code, title, advice string) {
	s.Error(code, title, tok.Pos, tok.Length(), advice)
}
