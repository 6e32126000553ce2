package testkit

import (
	"fmt"
	"strings"

	"melody/internal/ast"
)

// Sexpr renders an expression compactly, e.g. "(+ a (* 1 2))"; nil
// nodes print as "_" and unknown nodes as their type name.
func Sexpr(n ast.Node) string {
	if ast.IsNil(n) {
		return "_"
	}
	switch n := n.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.NumericLiteral:
		return n.Raw
	case *ast.BooleanLiteral:
		return fmt.Sprint(n.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.UnaryExpression:
		return fmt.Sprintf("(%s %s)", n.Operator, Sexpr(n.Argument))
	case *ast.BinaryConcatExpression:
		return fmt.Sprintf("(~ %s %s)", Sexpr(n.Left), Sexpr(n.Right))
	case *ast.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", n.Operator, Sexpr(n.Left), Sexpr(n.Right))
	case *ast.MemberExpression:
		if n.Computed {
			return fmt.Sprintf("([] %s %s)", Sexpr(n.Object), Sexpr(n.Property))
		}
		return fmt.Sprintf("(. %s %s)", Sexpr(n.Object), Sexpr(n.Property))
	case *ast.CallExpression:
		return fmt.Sprintf("(call %s%s)", Sexpr(n.Callee), list(n.Arguments))
	case *ast.NamedArgumentExpression:
		return n.Name.Name + "=" + Sexpr(n.Value)
	case *ast.FilterExpression:
		return fmt.Sprintf("(| %s %s%s)", Sexpr(n.Target), n.Name.Name, list(n.Arguments))
	case *ast.SliceExpression:
		return fmt.Sprintf("(slice %s %s %s)", Sexpr(n.Target), Sexpr(n.Start), Sexpr(n.End))
	case *ast.ConditionalExpression:
		return fmt.Sprintf("(? %s %s %s)", Sexpr(n.Test), Sexpr(n.Consequent), Sexpr(n.Alternate))
	case *ast.ArrayExpression:
		return "[" + strings.TrimSpace(list(n.Elements)) + "]"
	case *ast.ObjectExpression:
		parts := make([]string, len(n.Properties))
		for i, prop := range n.Properties {
			key := Sexpr(prop.Key)
			if prop.Computed {
				key = "(" + key + ")"
			}
			parts[i] = key + ":" + Sexpr(prop.Value)
		}
		return "{" + strings.Join(parts, " ") + "}"
	case *ast.TestExpression:
		return fmt.Sprintf("(is %s %s%s)", Sexpr(n.Expression), n.Test, list(n.Arguments))
	}
	return n.Type()
}

func list(nodes []ast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(" ")
		b.WriteString(Sexpr(n))
	}
	return b.String()
}

