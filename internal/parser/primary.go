package parser

import (
	"fmt"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/stream"
	"melody/internal/token"
)

// MatchPrimaryExpression parses a literal, identifier, call, array or map
// followed by any postfix operators.
func (p *Parser) MatchPrimaryExpression() ast.Node {
	s := p.s
	tok := s.La(0)
	var n ast.Node
	switch tok.Kind {
	case token.Null:
		s.Next()
		n = ast.Locate(&ast.NullLiteral{}, tok.Pos, tok.End)
	case token.True, token.False:
		s.Next()
		n = ast.Locate(&ast.BooleanLiteral{Value: tok.Kind == token.True}, tok.Pos, tok.End)
	case token.Number:
		s.Next()
		n = ast.Locate(&ast.NumericLiteral{Raw: tok.Text}, tok.Pos, tok.End)
	case token.StringStart:
		n = p.MatchStringExpression()
	case token.Symbol:
		s.Next()
		id := ast.Locate(&ast.Identifier{Name: tok.Text}, tok.Pos, tok.End)
		n = id
		if s.Test(token.LParen) {
			args, end := p.MatchArguments()
			n = ast.Locate(&ast.CallExpression{Callee: id, Arguments: args}, tok.Pos, end)
		}
	case token.LBrace:
		n = p.MatchArray()
	case token.LBracket:
		n = p.MatchMap()
	default:
		code := diag.SynUnexpectedToken
		if tok.Kind == token.EOF {
			code = diag.SynUnexpectedEOF
		}
		s.ErrorAt(tok, code, fmt.Sprintf("Unexpected %s", stream.Describe(tok)),
			"Expected an expression")
	}
	return p.MatchPostfixExpression(n)
}

// MatchArguments parses "(a, b, name = c)" and returns the arguments and
// the end of the closing parenthesis.
func (p *Parser) MatchArguments() ([]ast.Node, source.Position) {
	s := p.s
	open := s.Expect(token.LParen)
	args := []ast.Node{}
	for !s.Test(token.RParen) {
		if s.Test(token.Symbol) && s.La(1).Kind == token.Assignment {
			name := s.Next()
			s.Next()
			value := p.MatchExpression(0)
			id := ast.Locate(&ast.Identifier{Name: name.Text}, name.Pos, name.End)
			args = append(args, ast.Locate(&ast.NamedArgumentExpression{Name: id, Value: value}, name.Pos, value.Loc().End))
		} else {
			args = append(args, p.MatchExpression(0))
		}
		if _, ok := s.NextIf(token.Comma); ok {
			continue
		}
		if !s.Test(token.RParen) {
			tok := s.La(0)
			code := diag.SynMalformedArguments
			if tok.Kind == token.EOF {
				code = diag.SynUnexpectedEOF
			}
			s.ErrorAt(tok, code, fmt.Sprintf(`Expected "," or ")" but found %s`, stream.Describe(tok)),
				fmt.Sprintf("Argument list opened at line %d", open.Pos.Line))
		}
	}
	end := s.Next()
	return args, end.End
}

// MatchStringExpression parses a quoted string. Its segments, literal or
// interpolated, are joined with implicit concatenation; a string with a
// single interpolated segment is that expression. Directly adjacent strings
// are concatenated as well.
func (p *Parser) MatchStringExpression() ast.Node {
	s := p.s
	n := p.matchQuoted()
	for s.Test(token.StringStart) {
		next := p.matchQuoted()
		n = ast.Concat(n, next, true)
	}
	return n
}

func (p *Parser) matchQuoted() ast.Node {
	s := p.s
	open := s.Expect(token.StringStart)
	var parts []ast.Node
	for !s.Test(token.StringEnd) {
		tok := s.Next()
		switch tok.Kind {
		case token.String:
			parts = append(parts, ast.Locate(&ast.StringLiteral{Value: tok.Text}, tok.Pos, tok.End))
		case token.InterpolationStart:
			parts = append(parts, p.MatchExpression(0))
			s.Expect(token.InterpolationEnd)
		case token.ExpressionStart:
			parts = append(parts, p.MatchExpression(0))
			s.Expect(token.ExpressionEnd)
		default:
			p.unexpected(tok)
		}
	}
	closing := s.Next()

	switch len(parts) {
	case 0:
		return ast.Locate(&ast.StringLiteral{}, open.Pos, closing.End)
	case 1:
		if lit, ok := parts[0].(*ast.StringLiteral); ok {
			lit.SetLoc(source.Loc(open.Pos, closing.End))
		}
		return parts[0]
	}
	n := parts[0]
	for _, part := range parts[1:] {
		n = ast.Concat(n, part, true)
	}
	n.SetLoc(source.Loc(open.Pos, closing.End))
	return n
}

// MatchArray parses "[a, b, ]".
func (p *Parser) MatchArray() ast.Node {
	s := p.s
	open := s.Expect(token.LBrace)
	arr := &ast.ArrayExpression{Elements: []ast.Node{}}
	for !s.Test(token.RBrace) {
		arr.Elements = append(arr.Elements, p.MatchExpression(0))
		if _, ok := s.NextIf(token.Comma); !ok {
			break
		}
	}
	end := s.Expect(token.RBrace)
	return ast.Locate(arr, open.Pos, end.End)
}

// MatchMap parses "{key: value, 'k': v, 1: v, (expr): v, }".
func (p *Parser) MatchMap() ast.Node {
	s := p.s
	open := s.Expect(token.LBracket)
	obj := &ast.ObjectExpression{Properties: []*ast.ObjectProperty{}}
	for !s.Test(token.RBracket) {
		tok := s.La(0)
		var key ast.Node
		computed := false
		switch tok.Kind {
		case token.StringStart:
			key = p.matchQuoted()
		case token.Symbol:
			s.Next()
			key = ast.Locate(&ast.Identifier{Name: tok.Text}, tok.Pos, tok.End)
		case token.Number:
			s.Next()
			key = ast.Locate(&ast.NumericLiteral{Raw: tok.Text}, tok.Pos, tok.End)
		case token.LParen:
			s.Next()
			key = p.MatchExpression(0)
			s.Expect(token.RParen)
			computed = true
		default:
			code := diag.SynInvalidMapKey
			if tok.Kind == token.EOF {
				code = diag.SynUnexpectedEOF
			}
			s.ErrorAt(tok, code, fmt.Sprintf("Invalid map key %s", stream.Describe(tok)),
				"A key must be a string, a name, a number or a parenthesized expression")
		}
		s.Expect(token.Colon)
		value := p.MatchExpression(0)
		prop := ast.Locate(&ast.ObjectProperty{Key: key, Value: value, Computed: computed}, tok.Pos, value.Loc().End)
		obj.Properties = append(obj.Properties, prop)
		if _, ok := s.NextIf(token.Comma); !ok {
			break
		}
	}
	end := s.Expect(token.RBracket)
	return ast.Locate(obj, open.Pos, end.End)
}
