package parser

import (
	"strings"
	"testing"

	"melody/internal/ast"
	"melody/internal/diag"
)

func element(t *testing.T, src string) *ast.Element {
	t.Helper()
	root := mustParse(t, src)
	if len(root.Expressions) == 0 {
		t.Fatalf("%q: no statements", src)
	}
	el, ok := root.Expressions[0].(*ast.Element)
	if !ok {
		t.Fatalf("%q: expected Element, got %s", src, root.Expressions[0].Type())
	}
	checkContained(t, root)
	return el
}

func TestAttributeWithSingleExpression(t *testing.T) {
	el := element(t, `<div class="{{name}}">Test</div>`)
	if el.Name != "div" || len(el.Attributes) != 1 {
		t.Fatalf("element = %+v", el)
	}
	attr := el.Attributes[0].(*ast.Attribute)
	if attr.Name.Name != "class" {
		t.Errorf("attribute name = %q", attr.Name.Name)
	}
	if _, ok := attr.Value.(*ast.Identifier); !ok {
		t.Fatalf("value should be the bare expression, got %s", attr.Value.Type())
	}
	if len(el.Children) != 1 || el.Children[0].(*ast.PrintTextStatement).Value.Value != "Test" {
		t.Errorf("children = %s", types(el.Children))
	}
}

func TestAttributeConcatenation(t *testing.T) {
	el := element(t, `<div class="test-{{name}} foo"></div>`)
	attr := el.Attributes[0].(*ast.Attribute)
	if got := sexpr(attr.Value); got != `(~ (~ "test-" name) " foo")` {
		t.Fatalf("value = %s", got)
	}
	outer := attr.Value.(*ast.BinaryConcatExpression)
	inner := outer.Left.(*ast.BinaryConcatExpression)
	segments := []ast.Node{inner.Left, inner.Right, outer.Right}
	if got := types(segments); got != "StringLiteral,Identifier,StringLiteral" {
		t.Errorf("segments = %s", got)
	}
}

func TestAttributeForms(t *testing.T) {
	el := element(t, `<input disabled type=text value={x} {{ attrs }} {rest} data-id="7"/>`)
	if !el.SelfClosing {
		t.Error("explicit /> should self-close")
	}
	want := []string{"disabled=_", `type="text"`, "value=x", "...attrs", "...rest", `data-id="7"`}
	if len(el.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(el.Attributes), len(want))
	}
	for i, a := range el.Attributes {
		var got string
		switch a := a.(type) {
		case *ast.Attribute:
			got = a.Name.Name + "=" + sexpr(a.Value)
		case *ast.SpreadAttribute:
			got = "..." + sexpr(a.Argument)
		}
		if got != want[i] {
			t.Errorf("attribute %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestVoidElements(t *testing.T) {
	root := mustParse(t, `<br><img src="a.png">text`)
	if got := types(root.Expressions); got != "Element,Element,PrintTextStatement" {
		t.Fatalf("statements = %s", got)
	}
	for _, n := range root.Expressions[:2] {
		el := n.(*ast.Element)
		if !el.SelfClosing || len(el.Children) != 0 {
			t.Errorf("<%s> should be self-closing without children", el.Name)
		}
	}

	opts := DefaultOptions()
	opts.VoidElements = []string{"icon"}
	root = mustParseWith(t, opts, `<icon name="x"><br></br>`)
	if !root.Expressions[0].(*ast.Element).SelfClosing {
		t.Error("configured void element should self-close")
	}
	if br := root.Expressions[1].(*ast.Element); br.SelfClosing {
		t.Error("br is not void when the list is replaced")
	}
}

func TestNestedElements(t *testing.T) {
	el := element(t, `<ul><li>{{ a }}</li><li><b>x</b></li></ul>`)
	if len(el.Children) != 2 {
		t.Fatalf("children = %s", types(el.Children))
	}
	second := el.Children[1].(*ast.Element)
	if second.Name != "li" || second.Children[0].(*ast.Element).Name != "b" {
		t.Errorf("nesting lost: %+v", second)
	}
}

func TestDynamicElementName(t *testing.T) {
	el := element(t, `<{tag} id="a">x</{tag}>`)
	if el.Name != "" || sexpr(el.NameExpression) != "tag" {
		t.Fatalf("element = %+v", el)
	}
}

func TestElementErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  diag.Code
		title string
	}{
		{"mismatch", "<div>text</span>", diag.SynElementMismatch, "</span>"},
		{"unclosed", "<div><p>x</p>", diag.SynUnclosedElement, "Unclosed element <div>"},
		{"bad attribute value", "<a href=>", diag.SynUnexpectedToken, "Expected attribute value"},
		{"dynamic closed by name", "<{t}></t>", diag.SynElementMismatch, "</t>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s", err.Code.ID(), tt.code.ID())
			}
			if !strings.Contains(err.Title, tt.title) {
				t.Errorf("title = %q, want it to mention %q", err.Title, tt.title)
			}
		})
	}
}

func TestMismatchPointsAtClosingName(t *testing.T) {
	err := parseErr(t, "<div>\n  text\n</span>")
	if err.Pos.Line != 3 || err.Pos.Column != 2 {
		t.Errorf("error at %s, want 3:3", err.Pos)
	}
	if !strings.Contains(err.Advice, "line 1") {
		t.Errorf("advice = %q", err.Advice)
	}
}
