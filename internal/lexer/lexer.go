package lexer

import (
	"slices"
	"strings"

	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

// Lexer turns template source into tokens, one per Next call.
type Lexer struct {
	cs        *CharStream
	opts      Options
	states    []frame
	operators []string // по убыванию длины, чтобы выигрывало самое длинное
	errCode   diag.Code
}

// New creates a lexer over src.
func New(src string, opts Options) *Lexer {
	lx := &Lexer{
		cs:     NewCharStream(src),
		opts:   opts,
		states: make([]frame, 1, 8),
	}
	lx.states[0] = frame{state: StateText}
	lx.AddOperators(opts.Operators...)
	return lx
}

// AddOperators registers operator texts for recognition.
func (lx *Lexer) AddOperators(ops ...string) {
	for _, op := range ops {
		if op != "" && !slices.Contains(lx.operators, op) {
			lx.operators = append(lx.operators, op)
		}
	}
	slices.SortStableFunc(lx.operators, func(a, b string) int {
		return len(b) - len(a)
	})
}

// Operators returns the registered operator texts, longest first.
func (lx *Lexer) Operators() []string { return slices.Clone(lx.operators) }

// ErrCode returns the diagnostic code of the last ERROR token.
func (lx *Lexer) ErrCode() diag.Code { return lx.errCode }

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	start := lx.cs.Mark()
	if lx.cs.EOF() {
		if lx.State().isString() {
			return lx.errorf(start, diag.LexUnterminatedString, "Unterminated string literal",
				"Add the missing closing quote")
		}
		return lx.emit(token.EOF, start)
	}

	st := lx.State()
	c := lx.cs.La(0)

	// 1) незначимые пробелы
	if !st.significantWhitespace() && isWhitespace(c) {
		for isWhitespace(lx.cs.La(0)) {
			lx.cs.Next()
		}
		return lx.emit(token.Whitespace, start)
	}

	// 2) комментарии распознаются в любом состоянии
	if c == '{' && lx.cs.La(1) == '#' {
		return lx.scanComment(start)
	}

	// 3) разбор по состоянию
	switch st {
	case StateText:
		return lx.scanText(start)
	case StateExpression:
		if lx.top().braces == 0 && (lx.cs.Match("}}") || lx.cs.Match("-}}")) {
			lx.pop()
			return lx.emit(token.ExpressionEnd, start)
		}
		return lx.scanExpressionToken(start)
	case StateTag:
		if lx.top().braces == 0 && (lx.cs.Match("%}") || lx.cs.Match("-%}")) {
			lx.pop()
			return lx.emit(token.TagEnd, start)
		}
		return lx.scanExpressionToken(start)
	case StateInterpolation:
		if c == '}' && lx.top().braces == 0 {
			lx.cs.Next()
			lx.pop()
			return lx.emit(token.InterpolationEnd, start)
		}
		return lx.scanExpressionToken(start)
	case StateStringSingle:
		return lx.scanString(start, '\'')
	case StateStringDouble:
		return lx.scanString(start, '"')
	case StateElement:
		return lx.scanElement(start)
	case StateAttributeValue:
		return lx.scanAttributeValue(start)
	case StateDeclaration:
		if c == '>' {
			lx.cs.Next()
			lx.pop()
			return lx.emit(token.ElementEnd, start)
		}
		if tok, ok := lx.scanOpener(start, true); ok {
			return tok
		}
		return lx.scanExpressionToken(start)
	default:
		panic("lexer: unknown state " + st.String())
	}
}

// Tokenize drains a fresh lexer over src, EOF included. It stops after the
// first ERROR token.
func Tokenize(src string, opts Options) []token.Token {
	lx := New(src, opts)
	out := make([]token.Token, 0, len(src)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Error {
			return out
		}
	}
}

func (lx *Lexer) emit(kind token.Kind, start source.Position) token.Token {
	return token.Token{Kind: kind, Pos: start, End: lx.cs.Pos(), Text: lx.cs.From(start)}
}

// errorf builds an ERROR token. An empty fragment still consumes one rune so
// the lexer always advances.
func (lx *Lexer) errorf(start source.Position, code diag.Code, msg, advice string) token.Token {
	if lx.cs.Pos().Index == start.Index && !lx.cs.EOF() {
		lx.cs.Next()
	}
	lx.errCode = code
	tok := lx.emit(token.Error, start)
	tok.Message = msg
	tok.Advice = advice
	return tok
}

// scanOpener распознаёт "{{" и (если allowTag) "{%" с необязательным маркером "-".
func (lx *Lexer) scanOpener(start source.Position, allowTag bool) (token.Token, bool) {
	if lx.cs.La(0) != '{' {
		return token.Token{}, false
	}
	switch lx.cs.La(1) {
	case '{':
		lx.cs.Next()
		lx.cs.Next()
		lx.cs.Match("-")
		lx.push(StateExpression)
		return lx.emit(token.ExpressionStart, start), true
	case '%':
		if !allowTag {
			return token.Token{}, false
		}
		lx.cs.Next()
		lx.cs.Next()
		lx.cs.Match("-")
		lx.push(StateTag)
		return lx.emit(token.TagStart, start), true
	}
	return token.Token{}, false
}

func (lx *Lexer) scanComment(start source.Position) token.Token {
	lx.cs.Next()
	lx.cs.Next()
	for !lx.cs.EOF() {
		if lx.cs.Match("#}") {
			return lx.emit(token.Comment, start)
		}
		lx.cs.Next()
	}
	return lx.errorf(start, diag.LexUnterminatedComment, "Unterminated comment",
		`Close the comment with "#}"`)
}

// unescape collapses escaped quotes unless the source must be preserved.
func (lx *Lexer) unescape(text string, quote rune) string {
	if lx.opts.PreserveSourceLiterally || !strings.ContainsRune(text, '\\') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' && i+1 < len(text) {
			next := rune(text[i+1])
			if next == quote {
				b.WriteByte(text[i+1])
				i++
				continue
			}
			if next == '\\' {
				b.WriteString(`\\`)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
