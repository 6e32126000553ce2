package core

import (
	"melody/internal/ast"
	"melody/internal/parser"
)

var testNames = []string{
	"defined", "empty", "even", "odd", "iterable", "null", "none",
	"divisible by", "same as",
}

func tests() []parser.Test {
	out := make([]parser.Test, 0, len(testNames))
	for _, name := range testNames {
		out = append(out, parser.Test{Text: name, Create: testNode(name)})
	}
	return out
}

// testNode normalises "none" to "null" so both spell the same test.
func testNode(name string) func(ast.Node, []ast.Node) ast.Node {
	if name == "none" {
		name = "null"
	}
	return func(expr ast.Node, args []ast.Node) ast.Node {
		return &ast.TestExpression{Expression: expr, Test: name, Arguments: args}
	}
}
