package parser

import (
	"errors"
	"strings"
	"testing"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/token"
)

func types(nodes []ast.Node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type()
	}
	return strings.Join(out, ",")
}

func TestStatements(t *testing.T) {
	root := mustParse(t, "Hello {{ name }}!")
	if got := types(root.Expressions); got != "PrintTextStatement,PrintExpressionStatement,PrintTextStatement" {
		t.Fatalf("statements = %s", got)
	}
	if got := root.Expressions[0].(*ast.PrintTextStatement).Value.Value; got != "Hello " {
		t.Errorf("text = %q", got)
	}
	if got := sexpr(root.Expressions[1].(*ast.PrintExpressionStatement).Value); got != "name" {
		t.Errorf("expression = %s", got)
	}
	checkContained(t, root)
}

func TestEmptyTemplate(t *testing.T) {
	root := mustParse(t, "")
	if len(root.Expressions) != 0 {
		t.Fatalf("expected empty sequence, got %d statements", len(root.Expressions))
	}
}

func TestEntities(t *testing.T) {
	root := mustParse(t, "a &amp; b")
	if got := types(root.Expressions); got != "PrintTextStatement,PrintTextStatement,PrintTextStatement" {
		t.Fatalf("statements = %s", got)
	}
	if got := root.Expressions[1].(*ast.PrintTextStatement).Value.Value; got != "&" {
		t.Errorf("decoded entity = %q, want &", got)
	}

	opts := DefaultOptions()
	opts.DecodeEntities = false
	root = mustParseWith(t, opts, "&#x41;")
	if got := root.Expressions[0].(*ast.PrintTextStatement).Value.Value; got != "&#x41;" {
		t.Errorf("raw entity = %q", got)
	}
}

func TestCommentsAndDeclarations(t *testing.T) {
	src := "<!DOCTYPE html>{# note #}<!-- html -->"
	if root := mustParse(t, src); len(root.Expressions) != 0 {
		t.Fatalf("defaults should drop all, got %s", types(root.Expressions))
	}

	opts := DefaultOptions()
	opts.IgnoreComments = false
	opts.IgnoreHTMLComments = false
	opts.IgnoreDeclarations = false
	root := mustParseWith(t, opts, src)
	if got := types(root.Expressions); got != "Declaration,TwigComment,HtmlComment" {
		t.Fatalf("statements = %s", got)
	}
	decl := root.Expressions[0].(*ast.Declaration)
	if decl.DeclarationType != "DOCTYPE" || len(decl.Parts) != 1 || sexpr(decl.Parts[0]) != "html" {
		t.Errorf("declaration = %+v", decl)
	}
	if got := root.Expressions[1].(*ast.TwigComment).Value.Value; got != " note " {
		t.Errorf("comment = %q", got)
	}
	if got := root.Expressions[2].(*ast.HtmlComment).Value.Value; got != " html " {
		t.Errorf("html comment = %q", got)
	}
	checkContained(t, root)
}

func TestCommentTrimMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoreComments = false
	root := mustParseWith(t, opts, "a {#- x -#} b")
	c := root.Expressions[1].(*ast.TwigComment)
	if c.Value.Value != " x " {
		t.Errorf("comment body = %q", c.Value.Value)
	}
	if l, r := c.Trims(); !l || !r {
		t.Errorf("comment trims = %v,%v", l, r)
	}
}

func TestExtensionsOverride(t *testing.T) {
	p := newTestParser(DefaultOptions())
	p.ApplyExtension(Extension{
		BinaryOperators: []BinaryOperator{Binary{Text: "+", Precedence: 70}},
		UnaryOperators: []UnaryOperator{{Text: "-", Precedence: 500, Create: func(op token.Token, arg ast.Node) ast.Node {
			return &ast.UnaryExpression{Operator: "neg", Argument: arg}
		}}},
	})
	root, err := p.ParseTemplate("x", "{{ a * b + c }}{{ -a }}")
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(root.Expressions[0].(*ast.PrintExpressionStatement).Value); got != "(* a (+ b c))" {
		t.Errorf("overridden precedence: %s", got)
	}
	neg := root.Expressions[1].(*ast.PrintExpressionStatement).Value
	if got := sexpr(neg); got != "(neg a)" {
		t.Errorf("custom unary: %s", got)
	}
	if neg.Loc().Empty() {
		t.Error("custom nodes should get a location")
	}
}

func TestUnaryOperatorsReachLexer(t *testing.T) {
	p := New(DefaultOptions())
	p.ApplyExtension(Extension{UnaryOperators: []UnaryOperator{{Text: "not", Precedence: 50}}})
	root, err := p.ParseTemplate("x", "{{ not a }}")
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(root.Expressions[0].(*ast.PrintExpressionStatement).Value); got != "(not a)" {
		t.Errorf("got %s", got)
	}
}

func TestForeignPanicsPropagate(t *testing.T) {
	p := newTestParser(DefaultOptions())
	boom := errors.New("boom")
	p.ApplyExtension(Extension{Tags: []Tag{{Name: "explode", Parse: func(*Parser, token.Token) ast.Node {
		panic(boom)
	}}}})
	defer func() {
		if r := recover(); r != boom {
			t.Fatalf("recovered %v, want boom", r)
		}
	}()
	_, _ = p.ParseTemplate("x", "{% explode %}")
	t.Fatal("panic was swallowed")
}

func TestParserIsReusable(t *testing.T) {
	p := newTestParser(DefaultOptions())
	if _, err := p.ParseTemplate("bad", "{{ a b }}"); err == nil {
		t.Fatal("expected error")
	}
	root, err := p.ParseTemplate("good", "{{ a }}")
	if err != nil || len(root.Expressions) != 1 {
		t.Fatalf("second parse failed: %v", err)
	}
	if p.Stream() != nil {
		t.Error("stream should be released after parsing")
	}
}

func TestLexErrorsAreReturned(t *testing.T) {
	err := parseErr(t, `{{ "abc`)
	if err.Code != diag.LexUnterminatedString {
		t.Errorf("code = %s", err.Code.ID())
	}
}

func TestStrayClosingElement(t *testing.T) {
	err := parseErr(t, "text</p>")
	if err.Code != diag.SynElementMismatch || !strings.Contains(err.Title, "</p>") {
		t.Errorf("got %s %q", err.Code.ID(), err.Title)
	}
}
