package parser

import (
	"sort"

	"melody/internal/ast"
	"melody/internal/source"
	"melody/internal/token"
)

// Associativity of a binary operator.
type Associativity uint8

const (
	Left Associativity = iota
	Right
)

// UnaryOperator is a prefix operator. Create may be nil, then an
// ast.UnaryExpression is built.
type UnaryOperator struct {
	Text       string
	Precedence int
	Create     func(op token.Token, arg ast.Node) ast.Node
}

// BinaryOperator is one entry of the binary operator table. The
// precedence-climbing loop hands the operator token and the left operand to
// Parse and continues with whatever it returns.
type BinaryOperator interface {
	Operator() string
	Prec() int
	Parse(p *Parser, op token.Token, left ast.Node) ast.Node
}

// Binary parses the right operand at its own precedence and combines both
// sides. Create may be nil, then an ast.BinaryExpression is built.
type Binary struct {
	Text          string
	Precedence    int
	Associativity Associativity
	Create        func(op token.Token, left, right ast.Node) ast.Node
}

func (b Binary) Operator() string { return b.Text }
func (b Binary) Prec() int        { return b.Precedence }

func (b Binary) Parse(p *Parser, op token.Token, left ast.Node) ast.Node {
	next := b.Precedence + 1
	if b.Associativity == Right {
		next = b.Precedence
	}
	right := p.MatchExpression(next)
	if b.Create == nil {
		return ast.Binary(op.Text, left, right)
	}
	n := b.Create(op, left, right)
	if n.Loc().Empty() {
		ast.Span(n, left, right)
	}
	return n
}

// BinaryHook is an operator with its own grammar after the operator token,
// like "is [not] test(args)".
type BinaryHook struct {
	Text       string
	Precedence int
	Hook       func(p *Parser, op token.Token, left ast.Node) ast.Node
}

func (h BinaryHook) Operator() string { return h.Text }
func (h BinaryHook) Prec() int        { return h.Precedence }

func (h BinaryHook) Parse(p *Parser, op token.Token, left ast.Node) ast.Node {
	return h.Hook(p, op, left)
}

// Tag parses a "{% name ... %}" construct. Parse is entered with the name
// token consumed and must consume everything up to and including the
// closing TAG_END of the construct.
type Tag struct {
	Name  string
	Parse func(p *Parser, name token.Token) ast.Node
}

// Test is the right side of "expr is name(args)".
type Test struct {
	Text   string
	Create func(expr ast.Node, args []ast.Node) ast.Node
}

// Extension bundles grammar additions.
type Extension struct {
	Tags            []Tag
	UnaryOperators  []UnaryOperator
	BinaryOperators []BinaryOperator
	Tests           []Test
}

// ApplyExtension merges ext into the registries. Later entries win. It must
// not be called while a template is being parsed.
func (p *Parser) ApplyExtension(ext Extension) {
	for _, t := range ext.Tags {
		p.tags[t.Name] = t
	}
	for _, u := range ext.UnaryOperators {
		p.unary[u.Text] = u
	}
	for _, b := range ext.BinaryOperators {
		p.binary[b.Operator()] = b
	}
	for _, t := range ext.Tests {
		p.tests[t.Text] = t
	}
}

// LookupTest returns the registered test named name.
func (p *Parser) LookupTest(name string) (Test, bool) {
	t, ok := p.tests[name]
	return t, ok
}

// TagNames returns the registered tag names, sorted.
func (p *Parser) TagNames() []string { return sortedKeys(p.tags) }

// TestNames returns the registered test names, sorted.
func (p *Parser) TestNames() []string { return sortedKeys(p.tests) }

// Operators returns every operator text the lexer has to recognise.
func (p *Parser) Operators() []string {
	ops := []string{elvis}
	for k := range p.unary {
		ops = append(ops, k)
	}
	for k := range p.binary {
		ops = append(ops, k)
	}
	return ops
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func located(n ast.Node, start, end source.Position) ast.Node {
	if n.Loc().Empty() {
		n.SetLoc(source.Loc(start, end))
	}
	return n
}
