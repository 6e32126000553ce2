package ast

import "strconv"

type Identifier struct {
	Base
	Name string `json:"name"`
}

type StringLiteral struct {
	Base
	Value string `json:"value"`
}

type NumericLiteral struct {
	Base
	Raw string `json:"raw"`
}

// Float parses the literal; number tokens are always valid decimals.
func (n *NumericLiteral) Float() float64 {
	f, _ := strconv.ParseFloat(n.Raw, 64)
	return f
}

type BooleanLiteral struct {
	Base
	Value bool `json:"value"`
}

type NullLiteral struct {
	Base
}

type ArrayExpression struct {
	Base
	Elements []Node `json:"elements"`
}

// ObjectProperty is one "key: value" entry. Computed is set for "(expr): value".
type ObjectProperty struct {
	Base
	Key      Node `json:"key"`
	Value    Node `json:"value"`
	Computed bool `json:"computed,omitempty"`
}

type ObjectExpression struct {
	Base
	Properties []*ObjectProperty `json:"properties"`
}

// MemberExpression is "a.b" or, when Computed, "a[b]".
type MemberExpression struct {
	Base
	Object   Node `json:"object"`
	Property Node `json:"property"`
	Computed bool `json:"computed,omitempty"`
}

type CallExpression struct {
	Base
	Callee    Node   `json:"callee"`
	Arguments []Node `json:"arguments"`
}

// NamedArgumentExpression is "name = value" inside an argument list.
type NamedArgumentExpression struct {
	Base
	Name  *Identifier `json:"name"`
	Value Node        `json:"value"`
}

type FilterExpression struct {
	Base
	Target    Node        `json:"target"`
	Name      *Identifier `json:"name"`
	Arguments []Node      `json:"arguments"`
}

// SliceExpression is "target[start:end]"; either bound may be nil.
type SliceExpression struct {
	Base
	Target Node `json:"target"`
	Start  Node `json:"start"`
	End    Node `json:"end"`
}

// ConditionalExpression covers "a ? b : c", "a ? b" and "a ?: c";
// Consequent is nil for the Elvis form.
type ConditionalExpression struct {
	Base
	Test       Node `json:"test"`
	Consequent Node `json:"consequent"`
	Alternate  Node `json:"alternate"`
}

type UnaryExpression struct {
	Base
	Operator string `json:"operator"`
	Argument Node   `json:"argument"`
}

type BinaryExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

// BinaryConcatExpression is "~" or the implicit concatenation of adjacent
// string segments.
type BinaryConcatExpression struct {
	BinaryExpression
	WasImplicitConcatenation bool `json:"wasImplicitConcatenation,omitempty"`
}

// TestExpression is "expr is name(args)"; "is not" wraps it in a "not" unary.
type TestExpression struct {
	Base
	Expression Node   `json:"expression"`
	Test       string `json:"test"`
	Arguments  []Node `json:"arguments"`
}

func (*Identifier) Type() string              { return "Identifier" }
func (*StringLiteral) Type() string           { return "StringLiteral" }
func (*NumericLiteral) Type() string          { return "NumericLiteral" }
func (*BooleanLiteral) Type() string          { return "BooleanLiteral" }
func (*NullLiteral) Type() string             { return "NullLiteral" }
func (*ArrayExpression) Type() string         { return "ArrayExpression" }
func (*ObjectProperty) Type() string          { return "ObjectProperty" }
func (*ObjectExpression) Type() string        { return "ObjectExpression" }
func (*MemberExpression) Type() string        { return "MemberExpression" }
func (*CallExpression) Type() string          { return "CallExpression" }
func (*NamedArgumentExpression) Type() string { return "NamedArgumentExpression" }
func (*FilterExpression) Type() string        { return "FilterExpression" }
func (*SliceExpression) Type() string         { return "SliceExpression" }
func (*ConditionalExpression) Type() string   { return "ConditionalExpression" }
func (*UnaryExpression) Type() string         { return "UnaryExpression" }
func (*BinaryExpression) Type() string        { return "BinaryExpression" }
func (*BinaryConcatExpression) Type() string  { return "BinaryConcatExpression" }
func (*TestExpression) Type() string          { return "TestExpression" }

// Binary is the default node factory for binary operators.
func Binary(op string, left, right Node) *BinaryExpression {
	return Span(&BinaryExpression{Operator: op, Left: left, Right: right}, left, right)
}

// Concat joins two string parts.
func Concat(left, right Node, implicit bool) *BinaryConcatExpression {
	n := &BinaryConcatExpression{
		BinaryExpression:         BinaryExpression{Operator: "~", Left: left, Right: right},
		WasImplicitConcatenation: implicit,
	}
	return Span(n, left, right)
}
