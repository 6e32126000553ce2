// Package core is the standard grammar: the Twig operator table, the
// built-in tests and the if, for, set, block, include and macro tags.
package core

import "melody/internal/parser"

// Extension returns the core grammar.
func Extension() parser.Extension {
	return parser.Extension{
		Tags:            tags,
		UnaryOperators:  unaryOperators,
		BinaryOperators: binaryOperators(),
		Tests:           tests(),
	}
}

// NewParser returns a parser with the core grammar applied.
func NewParser(opts parser.Options) *parser.Parser {
	p := parser.New(opts)
	p.ApplyExtension(Extension())
	return p
}
