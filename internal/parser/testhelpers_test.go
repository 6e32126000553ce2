package parser

import (
	"testing"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/testkit"
	"melody/internal/token"
)

// testExtension is a small grammar for exercising the engine.
func testExtension() Extension {
	return Extension{
		UnaryOperators: []UnaryOperator{
			{Text: "not", Precedence: 50},
			{Text: "-", Precedence: 500},
		},
		BinaryOperators: []BinaryOperator{
			Binary{Text: "or", Precedence: 10},
			Binary{Text: "==", Precedence: 20},
			Binary{Text: "+", Precedence: 30},
			Binary{Text: "-", Precedence: 30},
			Binary{Text: "~", Precedence: 40, Create: func(_ token.Token, l, r ast.Node) ast.Node {
				return ast.Concat(l, r, false)
			}},
			Binary{Text: "*", Precedence: 60},
			Binary{Text: "**", Precedence: 200, Associativity: Right},
			BinaryHook{Text: "is", Precedence: 100, Hook: func(p *Parser, _ token.Token, left ast.Node) ast.Node {
				name := p.Stream().Expect(token.Symbol)
				return ast.Locate(&ast.TestExpression{Expression: left, Test: name.Text}, left.Loc().Start, name.End)
			}},
		},
		Tags: []Tag{
			{Name: "block", Parse: func(p *Parser, _ token.Token) ast.Node {
				name := p.Stream().Expect(token.Symbol)
				p.Stream().Expect(token.TagEnd)
				body := p.ParseBody(StopAtTags("endblock"), name, "block")
				p.Stream().Expect(token.Symbol, "endblock")
				p.Stream().Expect(token.TagEnd)
				id := ast.Locate(&ast.Identifier{Name: name.Text}, name.Pos, name.End)
				section := ast.Locate(&ast.TagSection{Name: "block", Body: body}, name.Pos, body.Loc().End)
				return &ast.GenericTag{Name: "block", Parts: []ast.Node{id}, Sections: []*ast.TagSection{section}}
			}},
		},
	}
}

func newTestParser(opts Options) *Parser {
	p := New(opts)
	p.ApplyExtension(testExtension())
	return p
}

func mustParse(t *testing.T, src string) *ast.Sequence {
	t.Helper()
	return mustParseWith(t, DefaultOptions(), src)
}

func mustParseWith(t *testing.T, opts Options, src string) *ast.Sequence {
	t.Helper()
	root, err := newTestParser(opts).ParseTemplate("test.twig", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return root
}

func parseErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	return parseErrWith(t, DefaultOptions(), src)
}

func parseErrWith(t *testing.T, opts Options, src string) *diag.Error {
	t.Helper()
	_, err := newTestParser(opts).ParseTemplate("test.twig", src)
	if err == nil {
		t.Fatalf("parse %q: expected error", src)
	}
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("parse %q: error %T is not *diag.Error", src, err)
	}
	return de
}

// printed returns the expression of the only print statement in src.
func printed(t *testing.T, src string) ast.Node {
	t.Helper()
	root := mustParse(t, src)
	if len(root.Expressions) != 1 {
		t.Fatalf("%q: expected one statement, got %d", src, len(root.Expressions))
	}
	stmt, ok := root.Expressions[0].(*ast.PrintExpressionStatement)
	if !ok {
		t.Fatalf("%q: expected PrintExpressionStatement, got %s", src, root.Expressions[0].Type())
	}
	return stmt.Value
}

func sexpr(n ast.Node) string { return testkit.Sexpr(n) }

// checkContained verifies every node lies inside its parent.
func checkContained(t *testing.T, root ast.Node) {
	t.Helper()
	ast.Walk(root, func(n ast.Node) bool {
		for _, c := range ast.Children(n) {
			if !n.Loc().Contains(c.Loc()) {
				t.Errorf("%s %s is outside its parent %s %s", c.Type(), c.Loc(), n.Type(), n.Loc())
			}
		}
		return true
	})
}
