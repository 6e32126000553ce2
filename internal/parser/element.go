package parser

import (
	"fmt"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/stream"
	"melody/internal/token"
)

// MatchElement parses an element; the "<" has been consumed.
func (p *Parser) MatchElement() ast.Node {
	s := p.s
	open := s.La(-1)
	el := &ast.Element{}
	if _, ok := s.NextIf(token.InterpolationStart); ok {
		el.NameExpression = p.MatchExpression(0)
		s.Expect(token.InterpolationEnd)
	} else {
		el.Name = s.Expect(token.Symbol).Text
	}
	el.Attributes = p.MatchAttributes()

	if _, ok := s.NextIf(token.Slash); ok {
		end := s.Expect(token.ElementEnd)
		el.SelfClosing = true
		return ast.Locate(el, open.Pos, end.End)
	}
	end := s.Expect(token.ElementEnd)
	if el.Name != "" && p.opts.isVoid(el.Name) {
		el.SelfClosing = true
		return ast.Locate(el, open.Pos, end.End)
	}

	body := p.ParseBody(closingElement, open, fmt.Sprintf("element <%s>", elementName(el)))
	el.Children = body.Expressions

	s.Expect(token.Slash)
	if _, ok := s.NextIf(token.InterpolationStart); ok {
		p.MatchExpression(0)
		s.Expect(token.InterpolationEnd)
	} else {
		closing := s.Expect(token.Symbol)
		if el.NameExpression != nil || closing.Text != el.Name {
			s.ErrorAt(closing, diag.SynElementMismatch,
				fmt.Sprintf("Unexpected closing tag </%s>, expected </%s>", closing.Text, elementName(el)),
				fmt.Sprintf("<%s> opened at line %d must be closed first", elementName(el), open.Pos.Line))
		}
	}
	closeEnd := s.Expect(token.ElementEnd)
	return ast.Locate(el, open.Pos, closeEnd.End)
}

func closingElement(_ string, tok token.Token, s *stream.Stream) bool {
	return tok.Kind == token.ElementStart && s.Test(token.Slash)
}

func elementName(el *ast.Element) string {
	if el.NameExpression != nil {
		return "{...}"
	}
	return el.Name
}

// MatchAttributes parses attributes until "/" or ">".
func (p *Parser) MatchAttributes() []ast.Node {
	s := p.s
	attrs := []ast.Node{}
	for {
		tok := s.La(0)
		switch tok.Kind {
		case token.Symbol:
			s.Next()
			name := ast.Locate(&ast.Identifier{Name: tok.Text}, tok.Pos, tok.End)
			attr := &ast.Attribute{Name: name}
			end := tok.End
			if _, ok := s.NextIf(token.Assignment); ok {
				attr.Value = p.matchAttributeValue()
				end = attr.Value.Loc().End
			}
			attrs = append(attrs, ast.Locate(attr, tok.Pos, end))
		case token.InterpolationStart, token.ExpressionStart:
			s.Next()
			arg := p.MatchExpression(0)
			closer := token.InterpolationEnd
			if tok.Kind == token.ExpressionStart {
				closer = token.ExpressionEnd
			}
			end := s.Expect(closer)
			attrs = append(attrs, ast.Locate(&ast.SpreadAttribute{Argument: arg}, tok.Pos, end.End))
		default:
			return attrs
		}
	}
}

func (p *Parser) matchAttributeValue() ast.Node {
	s := p.s
	tok := s.La(0)
	switch tok.Kind {
	case token.StringStart:
		return p.matchQuoted()
	case token.Symbol, token.Number:
		s.Next()
		return ast.Locate(&ast.StringLiteral{Value: tok.Text}, tok.Pos, tok.End)
	case token.InterpolationStart:
		s.Next()
		v := p.MatchExpression(0)
		s.Expect(token.InterpolationEnd)
		return v
	}
	s.ErrorAt(tok, diag.SynUnexpectedToken, fmt.Sprintf("Expected attribute value but found %s", stream.Describe(tok)),
		`Quote the value: name="value"`)
	return nil
}

// MatchDeclaration parses "<!DOCTYPE html>"; "<!DOCTYPE" has been consumed.
func (p *Parser) MatchDeclaration() ast.Node {
	s := p.s
	open := s.La(-1)
	decl := &ast.Declaration{DeclarationType: open.Text[2:], Parts: []ast.Node{}}
	for !s.Test(token.ElementEnd) {
		if s.Test(token.EOF) {
			s.ErrorAt(open, diag.SynUnexpectedEOF, fmt.Sprintf("Unclosed declaration %s", open.Text), `Close it with ">"`)
		}
		decl.Parts = append(decl.Parts, p.MatchExpression(0))
	}
	end := s.Next()
	return ast.Locate(decl, open.Pos, end.End)
}
