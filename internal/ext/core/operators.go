package core

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/parser"
	"melody/internal/stream"
	"melody/internal/token"
)

// Precedences of the core operators; higher binds tighter.
const (
	PrecOr         = 10
	PrecAnd        = 15
	PrecBitOr      = 16
	PrecBitXor     = 17
	PrecBitAnd     = 18
	PrecComparison = 20
	PrecRange      = 25
	PrecAdditive   = 30
	PrecConcat     = 40
	PrecNot        = 50
	PrecMultiply   = 60
	PrecTest       = 100
	PrecPower      = 200
	PrecCoalesce   = 300
	PrecSign       = 500
)

var unaryOperators = []parser.UnaryOperator{
	{Text: "not", Precedence: PrecNot},
	{Text: "-", Precedence: PrecSign},
	{Text: "+", Precedence: PrecSign},
}

func binaryOperators() []parser.BinaryOperator {
	left := func(text string, prec int) parser.BinaryOperator {
		return parser.Binary{Text: text, Precedence: prec}
	}
	ops := []parser.BinaryOperator{
		left("or", PrecOr),
		left("and", PrecAnd),
		left("b-or", PrecBitOr),
		left("b-xor", PrecBitXor),
		left("b-and", PrecBitAnd),
		left("..", PrecRange),
		left("+", PrecAdditive),
		left("-", PrecAdditive),
		parser.Binary{Text: "~", Precedence: PrecConcat, Create: func(_ token.Token, l, r ast.Node) ast.Node {
			return ast.Concat(l, r, false)
		}},
		left("*", PrecMultiply),
		left("/", PrecMultiply),
		left("//", PrecMultiply),
		left("%", PrecMultiply),
		parser.BinaryHook{Text: "is", Precedence: PrecTest, Hook: parseTest},
		parser.Binary{Text: "**", Precedence: PrecPower, Associativity: parser.Right},
		parser.Binary{Text: "??", Precedence: PrecCoalesce, Associativity: parser.Right},
	}
	for _, op := range []string{"==", "!=", "<", ">", ">=", "<=", "in", "not in", "matches", "starts with", "ends with"} {
		ops = append(ops, left(op, PrecComparison))
	}
	return ops
}

// parseTest parses the right side of "is": an optional "not", a test name
// of one or two words and optional arguments.
func parseTest(p *parser.Parser, op token.Token, left ast.Node) ast.Node {
	s := p.Stream()
	_, negate := s.NextIf(token.Operator, "not")

	first := s.Next()
	if first.Kind != token.Symbol && first.Kind != token.Null {
		code := diag.SynUnexpectedToken
		if first.Kind == token.EOF {
			code = diag.SynUnexpectedEOF
		}
		s.ErrorAt(first, code, fmt.Sprintf("Expected test name but found %s", stream.Describe(first)), "")
	}
	name := strings.ToLower(first.Text)
	end := first.End
	if s.Test(token.Symbol) {
		if _, ok := p.LookupTest(name + " " + s.La(0).Text); ok {
			second := s.Next()
			name += " " + second.Text
			end = second.End
		}
	}
	test, ok := p.LookupTest(name)
	if !ok {
		s.Error(diag.SynUnknownTest, fmt.Sprintf("Unknown test %q", name), first.Pos, end.Index-first.Pos.Index,
			testAdvice(name, p.TestNames()))
	}

	args := []ast.Node{}
	if s.Test(token.LParen) {
		args, end = p.MatchArguments()
	}
	var n ast.Node
	if test.Create != nil {
		n = test.Create(left, args)
	} else {
		n = &ast.TestExpression{Expression: left, Test: name, Arguments: args}
	}
	if n.Loc().Empty() {
		ast.Locate(n, left.Loc().Start, end)
	}
	if negate {
		return ast.Locate(&ast.UnaryExpression{Operator: "not", Argument: n}, left.Loc().Start, end)
	}
	return n
}

func testAdvice(name string, known []string) string {
	advice := "Known tests: " + strings.Join(known, ", ")
	if matches := fuzzy.Find(name, known); len(matches) > 0 {
		advice = fmt.Sprintf("Did you mean %q? %s", matches[0].Str, advice)
	}
	return advice
}
