package parser

import (
	"fmt"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/stream"
	"melody/internal/token"
)

// MatchPostfixExpression applies ".name", ".name(args)", "[key]",
// "[start:end]" and "|filter(args)" to n until none follows.
func (p *Parser) MatchPostfixExpression(n ast.Node) ast.Node {
	s := p.s
	for {
		switch s.Lat(0) {
		case token.Dot:
			s.Next()
			n = p.matchMember(n)
		case token.LBrace:
			s.Next()
			n = p.matchSubscript(n)
		case token.Pipe:
			s.Next()
			name := s.Expect(token.Symbol)
			id := ast.Locate(&ast.Identifier{Name: name.Text}, name.Pos, name.End)
			f := &ast.FilterExpression{Target: n, Name: id, Arguments: []ast.Node{}}
			end := name.End
			if s.Test(token.LParen) {
				f.Arguments, end = p.MatchArguments()
			}
			n = ast.Locate(f, n.Loc().Start, end)
		default:
			return n
		}
	}
}

func (p *Parser) matchMember(object ast.Node) ast.Node {
	s := p.s
	tok := s.Next()
	var prop ast.Node
	switch tok.Kind {
	case token.Symbol:
		prop = ast.Locate(&ast.Identifier{Name: tok.Text}, tok.Pos, tok.End)
	case token.Number:
		prop = ast.Locate(&ast.NumericLiteral{Raw: tok.Text}, tok.Pos, tok.End)
	default:
		code := diag.SynUnexpectedToken
		if tok.Kind == token.EOF {
			code = diag.SynUnexpectedEOF
		}
		s.ErrorAt(tok, code, fmt.Sprintf("Expected attribute name after \".\" but found %s", stream.Describe(tok)), "")
	}
	var n ast.Node = ast.Locate(&ast.MemberExpression{Object: object, Property: prop}, object.Loc().Start, tok.End)
	if s.Test(token.LParen) {
		args, end := p.MatchArguments()
		n = ast.Locate(&ast.CallExpression{Callee: n, Arguments: args}, object.Loc().Start, end)
	}
	return n
}

// matchSubscript is entered after "[".
func (p *Parser) matchSubscript(target ast.Node) ast.Node {
	s := p.s
	var key ast.Node
	if !s.Test(token.Colon) {
		key = p.MatchExpression(0)
	}
	if _, ok := s.NextIf(token.Colon); ok {
		var end ast.Node
		if !s.Test(token.RBrace) {
			end = p.MatchExpression(0)
		}
		closing := s.Expect(token.RBrace)
		return ast.Locate(&ast.SliceExpression{Target: target, Start: key, End: end}, target.Loc().Start, closing.End)
	}
	closing := s.Expect(token.RBrace)
	return ast.Locate(&ast.MemberExpression{Object: target, Property: key, Computed: true}, target.Loc().Start, closing.End)
}
