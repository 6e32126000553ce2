package stream

import "melody/internal/token"

// Options controls filtering and whitespace trimming.
type Options struct {
	IgnoreWhitespace        bool
	IgnoreComments          bool
	IgnoreHTMLComments      bool
	ApplyWhitespaceTrimming bool
	PreserveSourceLiterally bool
	// Operators are the operator texts the lexer must recognise.
	Operators []string
}

// DefaultOptions drops all trivia and applies trimming.
func DefaultOptions() Options {
	return Options{
		IgnoreWhitespace:        true,
		IgnoreComments:          true,
		IgnoreHTMLComments:      true,
		ApplyWhitespaceTrimming: true,
	}
}

// RawOptions keeps every token and disables trimming; the result
// reconstructs the source when token texts are concatenated.
func RawOptions() Options {
	return Options{}
}

func (o Options) ignores(k token.Kind) bool {
	switch k {
	case token.Whitespace:
		return o.IgnoreWhitespace
	case token.Comment:
		return o.IgnoreComments
	case token.HTMLComment:
		return o.IgnoreHTMLComments
	}
	return false
}
