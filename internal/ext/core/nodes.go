package core

import "melody/internal/ast"

// IfStatement is "{% if %}". Alternate is nil, the else body, or the
// IfStatement of an elseif branch.
type IfStatement struct {
	ast.Base
	Test       ast.Node      `json:"test"`
	Consequent *ast.Sequence `json:"consequent"`
	Alternate  ast.Node      `json:"alternate"`
}

// ForStatement is "{% for key, value in sequence if condition %}".
type ForStatement struct {
	ast.Base
	KeyTarget   *ast.Identifier `json:"keyTarget"`
	ValueTarget *ast.Identifier `json:"valueTarget"`
	Sequence    ast.Node        `json:"sequence"`
	Condition   ast.Node        `json:"condition"`
	Body        *ast.Sequence   `json:"body"`
	Otherwise   *ast.Sequence   `json:"otherwise"`
}

// VariableDeclarationStatement is one "name = value" of a set tag. For
// the block form Value is the captured *ast.Sequence.
type VariableDeclarationStatement struct {
	ast.Base
	Name  *ast.Identifier `json:"name"`
	Value ast.Node        `json:"value"`
}

type SetStatement struct {
	ast.Base
	Assignments []*VariableDeclarationStatement `json:"assignments"`
}

// BlockStatement is "{% block name %}...{% endblock %}" or the short form
// "{% block name expr %}", whose body prints expr.
type BlockStatement struct {
	ast.Base
	Name *ast.Identifier `json:"name"`
	Body *ast.Sequence   `json:"body"`
}

type IncludeStatement struct {
	ast.Base
	Source        ast.Node `json:"source"`
	Argument      ast.Node `json:"argument"`
	ContextFree   bool     `json:"contextFree,omitempty"`
	IgnoreMissing bool     `json:"ignoreMissing,omitempty"`
}

// MacroDeclarationStatement holds the parameters as identifiers or, with
// defaults, named arguments.
type MacroDeclarationStatement struct {
	ast.Base
	Name      *ast.Identifier `json:"name"`
	Arguments []ast.Node      `json:"arguments"`
	Body      *ast.Sequence   `json:"body"`
}

func (*IfStatement) Type() string                  { return "IfStatement" }
func (*ForStatement) Type() string                 { return "ForStatement" }
func (*VariableDeclarationStatement) Type() string { return "VariableDeclarationStatement" }
func (*SetStatement) Type() string                 { return "SetStatement" }
func (*BlockStatement) Type() string               { return "BlockStatement" }
func (*IncludeStatement) Type() string             { return "IncludeStatement" }
func (*MacroDeclarationStatement) Type() string    { return "MacroDeclarationStatement" }
