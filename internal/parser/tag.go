package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/stream"
	"melody/internal/token"
)

// MatchTag parses a tag; the TAG_START has been consumed.
func (p *Parser) MatchTag() ast.Node {
	s := p.s
	open := s.La(-1)
	name := s.Expect(token.Symbol)

	if tag, ok := p.tags[name.Text]; ok {
		n := tag.Parse(p, name)
		last := s.La(-1)
		located(n, open.Pos, last.End)
		n.SetTrims(open.TrimsLeft(), last.Kind == token.TagEnd && last.TrimsRight())
		return n
	}
	if subs := p.opts.MultiTags[name.Text]; len(subs) > 0 {
		return p.parseGenericMultiTag(open, name, subs)
	}
	if p.opts.allowsUnknownTags() {
		n := p.parseGenericTag(open, name)
		n.SetTrims(open.TrimsLeft(), s.La(-1).TrimsRight())
		return n
	}
	s.ErrorAt(name, diag.SynUnknownTag, fmt.Sprintf("Unknown tag %q", name.Text), p.tagAdvice(name.Text))
	return nil
}

// tagAdvice suggests close matches first, then lists every known tag.
func (p *Parser) tagAdvice(name string) string {
	known := p.TagNames()
	for tag, subs := range p.opts.MultiTags {
		known = append(known, tag)
		known = append(known, subs...)
	}
	slices.Sort(known)
	known = slices.Compact(known)
	if len(known) == 0 {
		return "No tags are registered"
	}
	var b strings.Builder
	if matches := fuzzy.Find(name, known); len(matches) > 0 {
		fmt.Fprintf(&b, "Did you mean %q? ", matches[0].Str)
	}
	b.WriteString("Expected one of: " + strings.Join(known, ", "))
	return b.String()
}

// ParseTagParts parses expressions until TAG_END; commas between them are
// skipped. The TAG_END is left in place.
func (p *Parser) ParseTagParts() []ast.Node {
	s := p.s
	parts := []ast.Node{}
	for !s.Test(token.TagEnd) {
		if s.Test(token.EOF) {
			p.unexpected(s.La(0))
		}
		if _, ok := s.NextIf(token.Comma); ok {
			continue
		}
		parts = append(parts, p.MatchExpression(0))
	}
	return parts
}

func (p *Parser) parseGenericTag(open, name token.Token) *ast.GenericTag {
	parts := p.ParseTagParts()
	end := p.s.Expect(token.TagEnd)
	return ast.Locate(&ast.GenericTag{Name: name.Text, Parts: parts}, open.Pos, end.End)
}

// StopAtTags stops a Parse loop in front of a tag named like one of names;
// the TAG_START is consumed, the name is not.
func StopAtTags(names ...string) StopFunc {
	return func(text string, tok token.Token, s *stream.Stream) bool {
		return tok.Kind == token.TagStart && s.Test(token.Symbol) && slices.Contains(names, text)
	}
}

// parseGenericMultiTag parses "{% name parts %}body{% sub parts %}body...{% end %}".
// Each section keeps its own header trims.
func (p *Parser) parseGenericMultiTag(open, name token.Token, subs []string) *ast.GenericTag {
	s := p.s
	terminal := subs[len(subs)-1]
	stop := StopAtTags(subs...)

	tag := &ast.GenericTag{Name: name.Text}
	headerOpen, headerName := open, name
	parts := p.ParseTagParts()
	tag.Parts = parts
	for {
		headerEnd := s.Expect(token.TagEnd)
		body := p.ParseBody(stop, open, fmt.Sprintf("tag %q", name.Text))
		section := ast.Locate(&ast.TagSection{Name: headerName.Text, Parts: parts, Body: body},
			headerOpen.Pos, body.Loc().End)
		section.SetTrims(headerOpen.TrimsLeft(), headerEnd.TrimsRight())
		tag.Sections = append(tag.Sections, section)

		headerOpen = s.La(-1)
		headerName = s.Next()
		parts = p.ParseTagParts()
		if headerName.Text == terminal {
			break
		}
	}
	end := s.Expect(token.TagEnd)
	tag.SetTrims(open.TrimsLeft(), end.TrimsRight())
	return ast.Locate(tag, open.Pos, end.End)
}
