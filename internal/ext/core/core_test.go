package core

import (
	"strings"
	"testing"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/parser"
	"melody/internal/testkit"
)

func parse(t *testing.T, src string) *ast.Sequence {
	t.Helper()
	root, err := NewParser(parser.DefaultOptions()).ParseTemplate("core.twig", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := testkit.CheckLocations(root, src); err != nil {
		t.Errorf("%q: %v", src, err)
	}
	return root
}

func parseErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := NewParser(parser.DefaultOptions()).ParseTemplate("core.twig", src)
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("parse %q: want *diag.Error, got %v", src, err)
	}
	return de
}

func only[T ast.Node](t *testing.T, src string) T {
	t.Helper()
	root := parse(t, src)
	if len(root.Expressions) != 1 {
		t.Fatalf("%q: %d statements", src, len(root.Expressions))
	}
	n, ok := root.Expressions[0].(T)
	if !ok {
		t.Fatalf("%q: unexpected %s", src, root.Expressions[0].Type())
	}
	return n
}

func TestOperatorTable(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a or b and c", "(or a (and b c))"},
		{"a and b or c", "(or (and a b) c)"},
		{"a b-or b b-and c", "(b-or a (b-and b c))"},
		{"a b-xor b", "(b-xor a b)"},
		{"a == b and c != d", "(and (== a b) (!= c d))"},
		{"a not in b", "(not in a b)"},
		{"x starts with 'a'", `(starts with x "a")`},
		{"x ends with 'a' or y matches '/z/'", `(or (ends with x "a") (matches y "/z/"))`},
		{"1..n + 1", "(.. 1 (+ n 1))"},
		{"a ~ b + c", "(+ (~ a b) c)"},
		{"a + b ~ c", "(+ a (~ b c))"},
		{"a // b % c", "(% (// a b) c)"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"-2 ** 2", "(** (- 2) 2)"},
		{"+a", "(+ a)"},
		{"a ?? b ?? c", "(?? a (?? b c))"},
		{"not a and b", "(and (not a) b)"},
		{"a <= b", "(<= a b)"},
		{"a ? b ?? c : d", "(? a (?? b c) d)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmt := only[*ast.PrintExpressionStatement](t, "{{ "+tt.src+" }}")
			if got := testkit.Sexpr(stmt.Value); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTests(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a is defined", "(is a defined)"},
		{"a is not empty", "(not (is a empty))"},
		{"a is null", "(is a null)"},
		{"a is none", "(is a null)"},
		{"n is divisible by(3)", "(is n divisible by 3)"},
		{"a is same as(b)", "(is a same as b)"},
		{"a is odd and b is even", "(and (is a odd) (is b even))"},
		{"a + b is iterable", "(+ a (is b iterable))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmt := only[*ast.PrintExpressionStatement](t, "{{ "+tt.src+" }}")
			if got := testkit.Sexpr(stmt.Value); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnknownTest(t *testing.T) {
	err := parseErr(t, "{{ a is evn }}")
	if err.Code != diag.SynUnknownTest || err.Title != `Unknown test "evn"` {
		t.Fatalf("got %s %q", err.Code.ID(), err.Title)
	}
	if !strings.Contains(err.Advice, `Did you mean "even"?`) || !strings.Contains(err.Advice, "divisible by") {
		t.Errorf("advice = %q", err.Advice)
	}
	if err := parseErr(t, "{{ a is 3 }}"); err.Code != diag.SynUnexpectedToken {
		t.Errorf("numeric test name: %s", err.Code.ID())
	}
}

func TestIf(t *testing.T) {
	n := only[*IfStatement](t, "{% if a %}A{% elseif b %}B{% elseif c %}C{% else %}D{% endif %}")
	if testkit.Sexpr(n.Test) != "a" || len(n.Consequent.Expressions) != 1 {
		t.Fatalf("if = %+v", n)
	}
	b, ok := n.Alternate.(*IfStatement)
	if !ok || testkit.Sexpr(b.Test) != "b" {
		t.Fatalf("first elseif = %#v", n.Alternate)
	}
	c, ok := b.Alternate.(*IfStatement)
	if !ok || testkit.Sexpr(c.Test) != "c" {
		t.Fatalf("second elseif = %#v", b.Alternate)
	}
	d, ok := c.Alternate.(*ast.Sequence)
	if !ok || d.Expressions[0].(*ast.PrintTextStatement).Value.Value != "D" {
		t.Fatalf("else = %#v", c.Alternate)
	}

	plain := only[*IfStatement](t, "{%- if x -%} y {%- endif -%}")
	if plain.Alternate != nil {
		t.Error("if without else has no alternate")
	}
	if l, r := plain.Trims(); !l || !r {
		t.Errorf("trims = %v,%v", l, r)
	}
}

func TestFor(t *testing.T) {
	n := only[*ForStatement](t, "{% for k, v in items|sort if v %}{{ k }}{% else %}none{% endfor %}")
	if n.KeyTarget.Name != "k" || n.ValueTarget.Name != "v" {
		t.Errorf("targets = %v %v", n.KeyTarget, n.ValueTarget)
	}
	if got := testkit.Sexpr(n.Sequence); got != "(| items sort)" {
		t.Errorf("sequence = %s", got)
	}
	if testkit.Sexpr(n.Condition) != "v" || len(n.Body.Expressions) != 1 || n.Otherwise == nil {
		t.Errorf("for = %+v", n)
	}

	simple := only[*ForStatement](t, "{% for i in 1..3 %}{{ i }}{% endfor %}")
	if simple.KeyTarget != nil || simple.Condition != nil || simple.Otherwise != nil {
		t.Errorf("simple for = %+v", simple)
	}
}

func TestSet(t *testing.T) {
	n := only[*SetStatement](t, "{% set a, b = 1, 'x' %}")
	if len(n.Assignments) != 2 || n.Assignments[1].Name.Name != "b" || testkit.Sexpr(n.Assignments[1].Value) != `"x"` {
		t.Fatalf("set = %+v", n)
	}

	captured := only[*SetStatement](t, "{% set html %}<b>x</b>{% endset %}")
	seq, ok := captured.Assignments[0].Value.(*ast.Sequence)
	if !ok || len(seq.Expressions) != 1 {
		t.Fatalf("captured = %#v", captured.Assignments[0].Value)
	}
}

func TestBlock(t *testing.T) {
	n := only[*BlockStatement](t, "{% block content %}x{% endblock content %}")
	if n.Name.Name != "content" || len(n.Body.Expressions) != 1 {
		t.Errorf("block = %+v", n)
	}
	short := only[*BlockStatement](t, "{% block title page.title|title %}")
	stmt := short.Body.Expressions[0].(*ast.PrintExpressionStatement)
	if got := testkit.Sexpr(stmt.Value); got != "(| (. page title) title)" {
		t.Errorf("short block = %s", got)
	}
}

func TestInclude(t *testing.T) {
	n := only[*IncludeStatement](t, "{% include 'x.twig' ignore missing with {a: 1} only %}")
	if testkit.Sexpr(n.Source) != `"x.twig"` || !n.IgnoreMissing || !n.ContextFree {
		t.Errorf("include = %+v", n)
	}
	if got := testkit.Sexpr(n.Argument); got != "{a:1}" {
		t.Errorf("argument = %s", got)
	}
	bare := only[*IncludeStatement](t, "{% include name ~ '.twig' %}")
	if bare.Argument != nil || bare.IgnoreMissing || bare.ContextFree {
		t.Errorf("bare include = %+v", bare)
	}
}

func TestMacro(t *testing.T) {
	n := only[*MacroDeclarationStatement](t, "{% macro input(name, type = 'text') %}<input>{% endmacro input %}")
	if n.Name.Name != "input" || len(n.Arguments) != 2 {
		t.Fatalf("macro = %+v", n)
	}
	if got := testkit.Sexpr(n.Arguments[1]); got != `type="text"` {
		t.Errorf("default parameter = %s", got)
	}
}

func TestTagErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  diag.Code
		title string
	}{
		{"unclosed if", "{% if a %}x", diag.SynUnclosedTag, `Unclosed tag "if"`},
		{"unclosed for", "{% for a in b %}{% if c %}{% endif %}", diag.SynUnclosedTag, `Unclosed tag "for"`},
		{"set count", "{% set a, b = 1 %}", diag.SynInvalidAssignTarget, "Expected 2 values but found 1"},
		{"set target", "{% set 1 = 2 %}", diag.SynInvalidAssignTarget, "Expected a variable name"},
		{"captured set names", "{% set a, b %}x{% endset %}", diag.SynInvalidAssignTarget, "A captured set takes a single name"},
		{"macro parameter", "{% macro m(1) %}{% endmacro %}", diag.SynMalformedArguments, "Macro parameters must be names"},
		{"include option", "{% include 'a' without %}", diag.SynUnexpectedToken, `Unexpected "without" in include`},
		{"for without in", "{% for a b %}{% endfor %}", diag.SynUnexpectedToken, `Expected "in" but found identifier "b"`},
		{"endif mismatch", "{% if a %}{% endfor %}", diag.SynUnknownTag, `Unknown tag "endfor"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			if err.Code != tt.code || err.Title != tt.title {
				t.Errorf("got %s %q, want %s %q", err.Code.ID(), err.Title, tt.code.ID(), tt.title)
			}
		})
	}
}

func TestExtensionReachesLexer(t *testing.T) {
	p := NewParser(parser.DefaultOptions())
	ops := strings.Join(p.Operators(), " ")
	for _, want := range []string{"starts with", "not in", "b-and", "??", "?:"} {
		if !strings.Contains(ops, want) {
			t.Errorf("operator %q not registered", want)
		}
	}
}
