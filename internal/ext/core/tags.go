package core

import (
	"fmt"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/parser"
	"melody/internal/source"
	"melody/internal/token"
)

var tags = []parser.Tag{
	{Name: "if", Parse: parseIf},
	{Name: "for", Parse: parseFor},
	{Name: "set", Parse: parseSet},
	{Name: "block", Parse: parseBlock},
	{Name: "include", Parse: parseInclude},
	{Name: "macro", Parse: parseMacro},
}

func ident(tok token.Token) *ast.Identifier {
	return ast.Locate(&ast.Identifier{Name: tok.Text}, tok.Pos, tok.End)
}

func body(p *parser.Parser, opener token.Token, ends ...string) *ast.Sequence {
	return p.ParseBody(parser.StopAtTags(ends...), opener, fmt.Sprintf("tag %q", opener.Text))
}

// closeTag consumes "endname [label] %}" after a body stopped on it.
func closeTag(p *parser.Parser, end string, labelled bool) token.Token {
	s := p.Stream()
	s.Expect(token.Symbol, end)
	if labelled {
		s.NextIf(token.Symbol)
	}
	return s.Expect(token.TagEnd)
}

func parseIf(p *parser.Parser, name token.Token) ast.Node {
	s := p.Stream()
	root := &IfStatement{Test: p.MatchExpression(0)}
	s.Expect(token.TagEnd)
	root.Consequent = body(p, name, "elseif", "else", "endif")

	// elseif-ветки тянутся до endif, чтобы вложенные ветки лежали внутри
	var branches []*IfStatement
	current := root
	for {
		open := s.La(-1)
		kw := s.Next()
		if kw.Text == "elseif" {
			branch := &IfStatement{Test: p.MatchExpression(0)}
			branch.SetLoc(source.Loc(open.Pos, open.End))
			s.Expect(token.TagEnd)
			branch.Consequent = body(p, name, "elseif", "else", "endif")
			branches = append(branches, branch)
			current.Alternate = branch
			current = branch
			continue
		}
		if kw.Text == "else" {
			s.Expect(token.TagEnd)
			current.Alternate = body(p, name, "endif")
			s.Expect(token.Symbol, "endif")
		}
		end := s.Expect(token.TagEnd)
		for _, b := range branches {
			b.SetLoc(source.Loc(b.Loc().Start, end.End))
		}
		return root
	}
}

func parseFor(p *parser.Parser, name token.Token) ast.Node {
	s := p.Stream()
	n := &ForStatement{}
	first := ident(s.Expect(token.Symbol))
	if _, ok := s.NextIf(token.Comma); ok {
		n.KeyTarget = first
		n.ValueTarget = ident(s.Expect(token.Symbol))
	} else {
		n.ValueTarget = first
	}
	s.Expect(token.Operator, "in")
	n.Sequence = p.MatchExpression(0)
	if _, ok := s.NextIf(token.Symbol, "if"); ok {
		n.Condition = p.MatchExpression(0)
	}
	s.Expect(token.TagEnd)

	n.Body = body(p, name, "else", "endfor")
	if s.Test(token.Symbol, "else") {
		s.Next()
		s.Expect(token.TagEnd)
		n.Otherwise = body(p, name, "endfor")
	}
	closeTag(p, "endfor", false)
	return n
}

func parseSet(p *parser.Parser, name token.Token) ast.Node {
	s := p.Stream()
	var names []*ast.Identifier
	for {
		tok := s.La(0)
		if tok.Kind != token.Symbol {
			s.ErrorAt(tok, diag.SynInvalidAssignTarget, "Expected a variable name", "Only plain names can be assigned")
		}
		names = append(names, ident(s.Next()))
		if _, ok := s.NextIf(token.Comma); !ok {
			break
		}
	}

	n := &SetStatement{}
	if _, ok := s.NextIf(token.Assignment); ok {
		var values []ast.Node
		for {
			values = append(values, p.MatchExpression(0))
			if _, ok := s.NextIf(token.Comma); !ok {
				break
			}
		}
		end := s.Expect(token.TagEnd)
		if len(values) != len(names) {
			s.ErrorAt(end, diag.SynInvalidAssignTarget,
				fmt.Sprintf("Expected %d values but found %d", len(names), len(values)),
				"Every name on the left needs a value on the right")
		}
		for i, id := range names {
			decl := ast.Span(&VariableDeclarationStatement{Name: id, Value: values[i]}, id, values[i])
			n.Assignments = append(n.Assignments, decl)
		}
		return n
	}

	if len(names) > 1 {
		s.ErrorAt(s.La(0), diag.SynInvalidAssignTarget, "A captured set takes a single name",
			`Use "{% set a = 1, b = 2 %}" for several values`)
	}
	s.Expect(token.TagEnd)
	captured := body(p, name, "endset")
	closeTag(p, "endset", false)
	decl := ast.Locate(&VariableDeclarationStatement{Name: names[0], Value: captured}, names[0].Loc().Start, captured.Loc().End)
	n.Assignments = []*VariableDeclarationStatement{decl}
	return n
}

func parseBlock(p *parser.Parser, name token.Token) ast.Node {
	s := p.Stream()
	n := &BlockStatement{Name: ident(s.Expect(token.Symbol))}
	if !s.Test(token.TagEnd) {
		expr := p.MatchExpression(0)
		s.Expect(token.TagEnd)
		stmt := ast.Locate(&ast.PrintExpressionStatement{Value: expr}, expr.Loc().Start, expr.Loc().End)
		n.Body = ast.Locate(&ast.Sequence{Expressions: []ast.Node{stmt}}, expr.Loc().Start, expr.Loc().End)
		return n
	}
	s.Expect(token.TagEnd)
	n.Body = body(p, name, "endblock")
	closeTag(p, "endblock", true)
	return n
}

func parseInclude(p *parser.Parser, _ token.Token) ast.Node {
	s := p.Stream()
	n := &IncludeStatement{Source: p.MatchExpression(0)}
	for !s.Test(token.TagEnd) {
		tok := s.Next()
		switch {
		case tok.Is(token.Symbol, "ignore"):
			s.Expect(token.Symbol, "missing")
			n.IgnoreMissing = true
		case tok.Is(token.Symbol, "with"):
			n.Argument = p.MatchExpression(0)
		case tok.Is(token.Symbol, "only"):
			n.ContextFree = true
		default:
			s.ErrorAt(tok, diag.SynUnexpectedToken, fmt.Sprintf("Unexpected %q in include", tok.Text),
				`Expected "with", "only" or "ignore missing"`)
		}
	}
	s.Expect(token.TagEnd)
	return n
}

func parseMacro(p *parser.Parser, name token.Token) ast.Node {
	s := p.Stream()
	n := &MacroDeclarationStatement{Name: ident(s.Expect(token.Symbol))}
	n.Arguments, _ = p.MatchArguments()
	for _, arg := range n.Arguments {
		switch a := arg.(type) {
		case *ast.Identifier:
		case *ast.NamedArgumentExpression:
		default:
			loc := a.Loc()
			s.Error(diag.SynMalformedArguments, "Macro parameters must be names", loc.Start, loc.Len(),
				`Write parameters as "name" or "name = default"`)
		}
	}
	s.Expect(token.TagEnd)
	n.Body = body(p, name, "endmacro")
	closeTag(p, "endmacro", true)
	return n
}
