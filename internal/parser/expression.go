package parser

import (
	"melody/internal/ast"
	"melody/internal/source"
	"melody/internal/token"
)

// elvis is lexed as one operator so "a ?: b" does not read as "? :".
const elvis = "?:"

// MatchExpression parses an expression whose binary operators bind at least
// as tightly as minPrec. At minPrec 0 it also folds conditionals.
func (p *Parser) MatchExpression(minPrec int) ast.Node {
	s := p.s
	expr := p.GetPrimary()
	for {
		tok := s.La(0)
		if tok.Kind != token.Operator {
			break
		}
		op, ok := p.binary[tok.Text]
		if !ok || op.Prec() < minPrec {
			break
		}
		s.Next()
		expr = op.Parse(p, tok, expr)
	}
	if minPrec > 0 {
		return expr
	}
	expr = p.MatchConditionalExpression(expr)
	if end := s.La(0); end.Kind == token.ExpressionEnd && end.TrimsRight() {
		left, _ := expr.Trims()
		expr.SetTrims(left, true)
	}
	return expr
}

// GetPrimary parses a prefix-operator application, a parenthesized
// expression or a primary expression.
func (p *Parser) GetPrimary() ast.Node {
	s := p.s
	tok := s.La(0)
	if tok.Kind == token.Operator {
		if op, ok := p.unary[tok.Text]; ok {
			s.Next()
			arg := p.MatchExpression(op.Precedence)
			var n ast.Node
			if op.Create != nil {
				n = located(op.Create(tok, arg), tok.Pos, arg.Loc().End)
			} else {
				n = ast.Locate(&ast.UnaryExpression{Operator: tok.Text, Argument: arg}, tok.Pos, arg.Loc().End)
			}
			return p.MatchPostfixExpression(n)
		}
	}
	if tok.Kind == token.LParen {
		s.Next()
		expr := p.MatchExpression(0)
		end := s.Expect(token.RParen)
		// скобки входят в диапазон выражения
		expr.SetLoc(source.Loc(tok.Pos, end.End))
		return p.MatchPostfixExpression(expr)
	}
	return p.MatchPrimaryExpression()
}

// MatchConditionalExpression folds "test ? a : b", "test ? a", "test ? : b"
// and "test ?: b" onto test, left to right.
func (p *Parser) MatchConditionalExpression(test ast.Node) ast.Node {
	s := p.s
	expr := test
	for {
		if _, ok := s.NextIf(token.Operator, elvis); ok {
			alt := p.MatchExpression(1)
			expr = ast.Span(&ast.ConditionalExpression{Test: expr, Alternate: alt}, expr, alt)
			continue
		}
		if _, ok := s.NextIf(token.QuestionMark); !ok {
			return expr
		}
		var cons, alt ast.Node
		if _, ok := s.NextIf(token.Colon); ok {
			alt = p.MatchExpression(1)
		} else {
			// consequent ends at ":" or the delimiter, so it may hold its own conditional
			cons = p.MatchConditionalExpression(p.MatchExpression(1))
			if _, ok := s.NextIf(token.Colon); ok {
				alt = p.MatchExpression(1)
			}
		}
		last := alt
		if last == nil {
			last = cons
		}
		expr = ast.Span(&ast.ConditionalExpression{Test: expr, Consequent: cons, Alternate: alt}, expr, last)
	}
}
