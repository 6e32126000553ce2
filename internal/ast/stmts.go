package ast

// Sequence is an ordered list of statements; the root of every template.
type Sequence struct {
	Base
	Expressions []Node `json:"expressions"`
}

func (s *Sequence) Add(n Node) { s.Expressions = append(s.Expressions, n) }

type PrintTextStatement struct {
	Base
	Value *StringLiteral `json:"value"`
}

type PrintExpressionStatement struct {
	Base
	Value Node `json:"value"`
}

type TwigComment struct {
	Base
	Value *StringLiteral `json:"value"`
}

type HtmlComment struct {
	Base
	Value *StringLiteral `json:"value"`
}

// Declaration is "<!DOCTYPE html>" and friends.
type Declaration struct {
	Base
	DeclarationType string `json:"declarationType"`
	Parts           []Node `json:"parts"`
}

// Element is an HTML element. NameExpression is set instead of Name for
// "<{expr}>".
type Element struct {
	Base
	Name           string `json:"name,omitempty"`
	NameExpression Node   `json:"nameExpression,omitempty"`
	Attributes     []Node `json:"attributes"`
	Children       []Node `json:"children"`
	SelfClosing    bool   `json:"selfClosing,omitempty"`
}

// Attribute is "name" (Value nil) or "name=value".
type Attribute struct {
	Base
	Name  *Identifier `json:"name"`
	Value Node        `json:"value"`
}

// SpreadAttribute is "{expr}" or "{{ expr }}" in attribute position.
type SpreadAttribute struct {
	Base
	Argument Node `json:"argument"`
}

// GenericTag is a tag without a registered parser. Single tags only have
// Parts; multi-section tags keep one TagSection per sub-tag header.
type GenericTag struct {
	Base
	Name     string        `json:"tagName"`
	Parts    []Node        `json:"parts"`
	Sections []*TagSection `json:"sections,omitempty"`
}

// TagSection is one "{% name parts %}body" piece of a multi-section tag.
type TagSection struct {
	Base
	Name  string    `json:"name"`
	Parts []Node    `json:"parts"`
	Body  *Sequence `json:"body"`
}

func (*Sequence) Type() string                 { return "SequenceExpression" }
func (*PrintTextStatement) Type() string       { return "PrintTextStatement" }
func (*PrintExpressionStatement) Type() string { return "PrintExpressionStatement" }
func (*TwigComment) Type() string              { return "TwigComment" }
func (*HtmlComment) Type() string              { return "HtmlComment" }
func (*Declaration) Type() string              { return "Declaration" }
func (*Element) Type() string                  { return "Element" }
func (*Attribute) Type() string                { return "Attribute" }
func (*SpreadAttribute) Type() string          { return "SpreadAttribute" }
func (*GenericTag) Type() string               { return "GenericTwigTag" }
func (*TagSection) Type() string               { return "TagSection" }
