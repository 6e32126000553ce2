package parser

import (
	"fmt"
	"html"
	"strings"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/stream"
	"melody/internal/token"
)

// StopFunc ends a Parse loop. It is called with the text of the upcoming
// token, the token just consumed and the stream. When it returns true Parse
// returns without dispatching tok, leaving the rest to the caller.
type StopFunc func(text string, tok token.Token, s *stream.Stream) bool

// Parser: состояние разбора; реестры заполняются до разбора.
// Один Parser разбирает шаблоны строго последовательно.
type Parser struct {
	opts   Options
	unary  map[string]UnaryOperator
	binary map[string]BinaryOperator
	tags   map[string]Tag
	tests  map[string]Test
	s      *stream.Stream // текущий шаблон, nil вне ParseTemplate
}

// New creates a parser with empty registries.
func New(opts Options) *Parser {
	return &Parser{
		opts:   opts,
		unary:  make(map[string]UnaryOperator),
		binary: make(map[string]BinaryOperator),
		tags:   make(map[string]Tag),
		tests:  make(map[string]Test),
	}
}

// Options returns the parser options.
func (p *Parser) Options() Options { return p.opts }

// Stream returns the token stream of the template being parsed.
func (p *Parser) Stream() *stream.Stream { return p.s }

// StreamOptions are the tokenizer settings matching the parser's grammar.
func (p *Parser) StreamOptions() stream.Options {
	so := stream.DefaultOptions()
	so.IgnoreComments = p.opts.IgnoreComments
	so.IgnoreHTMLComments = p.opts.IgnoreHTMLComments
	so.PreserveSourceLiterally = p.opts.PreserveSourceLiterally
	so.Operators = p.Operators()
	return so
}

// ParseTemplate tokenizes and parses one template. Lexical and syntax
// errors are returned as *diag.Error.
func (p *Parser) ParseTemplate(path, src string) (*ast.Sequence, error) {
	s, err := stream.New(path, src, p.StreamOptions())
	if err != nil {
		return nil, err
	}
	return p.ParseStream(s)
}

// ParseStream parses an already tokenized template.
func (p *Parser) ParseStream(s *stream.Stream) (root *ast.Sequence, err error) {
	p.s = s
	defer func() {
		p.s = nil
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			root, err = nil, de
		}
	}()
	return p.Parse(nil), nil
}

// Parse collects statements until EOF or until stop says so.
func (p *Parser) Parse(stop StopFunc) *ast.Sequence {
	seq, _ := p.parse(stop)
	return seq
}

// ParseBody is Parse for the body of opener: reaching EOF before stop fires
// is an error naming what was left open.
func (p *Parser) ParseBody(stop StopFunc, opener token.Token, what string) *ast.Sequence {
	seq, stopped := p.parse(stop)
	if !stopped {
		code := diag.SynUnclosedTag
		if opener.Kind == token.ElementStart {
			code = diag.SynUnclosedElement
		}
		p.s.Error(code, fmt.Sprintf("Unclosed %s", what), opener.Pos, opener.Length(),
			fmt.Sprintf("%s opened at line %d was never closed", what, opener.Pos.Line))
	}
	return seq
}

func (p *Parser) parse(stop StopFunc) (*ast.Sequence, bool) {
	s := p.s
	seq := &ast.Sequence{}
	start := s.La(0).Pos
	for !s.Test(token.EOF) {
		tok := s.Next()
		if stop != nil && stop(s.La(0).Text, tok, s) {
			seq.SetLoc(source.Loc(start, tok.Pos))
			return seq, true
		}
		if n := p.statement(tok); n != nil {
			seq.Add(n)
		}
	}
	seq.SetLoc(source.Loc(start, s.La(0).Pos))
	return seq, false
}

func (p *Parser) statement(tok token.Token) ast.Node {
	s := p.s
	switch tok.Kind {
	case token.ExpressionStart:
		expr := p.MatchExpression(0)
		end := s.Expect(token.ExpressionEnd)
		stmt := ast.Locate(&ast.PrintExpressionStatement{Value: expr}, tok.Pos, end.End)
		stmt.SetTrims(tok.TrimsLeft(), end.TrimsRight())
		return stmt
	case token.TagStart:
		return p.MatchTag()
	case token.Text:
		return p.printText(tok, tok.Text)
	case token.Entity:
		text := tok.Text
		if p.opts.DecodeEntities {
			text = html.UnescapeString(text)
		}
		return p.printText(tok, text)
	case token.ElementStart:
		if s.Test(token.Slash) {
			name := s.La(1).Text
			s.ErrorAt(tok, diag.SynElementMismatch, fmt.Sprintf("Unexpected closing tag </%s>", name),
				"No element with this name is open here")
		}
		return p.MatchElement()
	case token.DeclarationStart:
		decl := p.MatchDeclaration()
		if p.opts.IgnoreDeclarations {
			return nil
		}
		return decl
	case token.Comment:
		if p.opts.IgnoreComments {
			return nil
		}
		return p.comment(tok, &ast.TwigComment{}, twigCommentBody(tok.Text))
	case token.HTMLComment:
		if p.opts.IgnoreHTMLComments {
			return nil
		}
		body := strings.TrimSuffix(strings.TrimPrefix(tok.Text, "<!--"), "-->")
		return p.comment(tok, &ast.HtmlComment{}, body)
	}
	p.unexpected(tok)
	return nil
}

func (p *Parser) printText(tok token.Token, text string) ast.Node {
	lit := ast.Locate(&ast.StringLiteral{Value: text}, tok.Pos, tok.End)
	return ast.Locate(&ast.PrintTextStatement{Value: lit}, tok.Pos, tok.End)
}

func (p *Parser) comment(tok token.Token, n ast.Node, body string) ast.Node {
	lit := ast.Locate(&ast.StringLiteral{Value: body}, tok.Pos, tok.End)
	switch c := n.(type) {
	case *ast.TwigComment:
		c.Value = lit
	case *ast.HtmlComment:
		c.Value = lit
	}
	n.SetLoc(tok.Location())
	n.SetTrims(tok.TrimsLeft(), tok.TrimsRight())
	return n
}

func twigCommentBody(text string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "{#"), "#}")
	body = strings.TrimPrefix(body, "-")
	return strings.TrimSuffix(body, "-")
}

// unexpected aborts on tok, which has already been consumed or is current.
func (p *Parser) unexpected(tok token.Token) {
	code := diag.SynUnexpectedToken
	if tok.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	p.s.ErrorAt(tok, code, fmt.Sprintf("Unexpected %s", stream.Describe(tok)), "")
}

// Error aborts the parse with a syntax error covering tok.
func (p *Parser) Error(tok token.Token, code diag.Code, title, advice string) {
	p.s.ErrorAt(tok, code, title, advice)
}
