package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// ExpressionStart opens a print expression: "{{" or "{{-".
	ExpressionStart Kind = iota
	// ExpressionEnd closes a print expression: "}}" or "-}}".
	ExpressionEnd
	// TagStart opens a tag: "{%" or "{%-".
	TagStart
	// TagEnd closes a tag: "%}" or "-%}".
	TagEnd
	// InterpolationStart opens "#{" inside a string or "{" inside an element.
	InterpolationStart
	// InterpolationEnd closes an interpolation: "}".
	InterpolationEnd
	// StringStart is an opening quote.
	StringStart
	// StringEnd is a closing quote.
	StringEnd
	// DeclarationStart is "<!" followed by the declaration name, e.g. "<!DOCTYPE".
	DeclarationStart
	// Comment is a whole "{# ... #}" comment.
	Comment
	// Whitespace is a run of insignificant whitespace.
	Whitespace
	// HTMLComment is a whole "<!-- ... -->" comment.
	HTMLComment
	// Text is literal markup text.
	Text
	// Entity is an HTML character reference such as "&amp;".
	Entity
	// Symbol is an identifier, tag name or attribute name.
	Symbol
	// String is a segment of a string literal body.
	String
	// Operator is a registered unary or binary operator.
	Operator
	// True is the boolean literal true.
	True
	// False is the boolean literal false.
	False
	// Null is the null literal (null / none).
	Null
	// LBrace is "[".
	LBrace
	// RBrace is "]".
	RBrace
	// LParen is "(".
	LParen
	// RParen is ")".
	RParen
	// LBracket is "{".
	LBracket
	// RBracket is "}".
	RBracket
	// Colon is ":".
	Colon
	// Comma is ",".
	Comma
	// Dot is ".".
	Dot
	// Pipe is "|".
	Pipe
	// QuestionMark is "?".
	QuestionMark
	// Assignment is "=".
	Assignment
	// ElementStart is "<" opening an element or a closing tag.
	ElementStart
	// Slash is "/" inside an element.
	Slash
	// ElementEnd is ">".
	ElementEnd
	// Number is an integer or decimal literal.
	Number
	// EOF marks the end of input.
	EOF
	// Error is an unscannable fragment; the token carries Message and Advice.
	Error

	kindCount
)

var kindNames = [kindCount]string{
	ExpressionStart:    "EXPRESSION_START",
	ExpressionEnd:      "EXPRESSION_END",
	TagStart:           "TAG_START",
	TagEnd:             "TAG_END",
	InterpolationStart: "INTERPOLATION_START",
	InterpolationEnd:   "INTERPOLATION_END",
	StringStart:        "STRING_START",
	StringEnd:          "STRING_END",
	DeclarationStart:   "DECLARATION_START",
	Comment:            "COMMENT",
	Whitespace:         "WHITESPACE",
	HTMLComment:        "HTML_COMMENT",
	Text:               "TEXT",
	Entity:             "ENTITY",
	Symbol:             "SYMBOL",
	String:             "STRING",
	Operator:           "OPERATOR",
	True:               "TRUE",
	False:              "FALSE",
	Null:               "NULL",
	LBrace:             "LBRACE",
	RBrace:             "RBRACE",
	LParen:             "LPAREN",
	RParen:             "RPAREN",
	LBracket:           "LBRACKET",
	RBracket:           "RBRACKET",
	Colon:              "COLON",
	Comma:              "COMMA",
	Dot:                "DOT",
	Pipe:               "PIPE",
	QuestionMark:       "QUESTION_MARK",
	Assignment:         "ASSIGNMENT",
	ElementStart:       "ELEMENT_START",
	Slash:              "SLASH",
	ElementEnd:         "ELEMENT_END",
	Number:             "NUMBER",
	EOF:                "EOF",
	Error:              "ERROR",
}

// человекочитаемые описания для сообщений "expected X"
var kindDescriptions = [kindCount]string{
	ExpressionStart:    `"{{"`,
	ExpressionEnd:      `"}}"`,
	TagStart:           `"{%"`,
	TagEnd:             `"%}"`,
	InterpolationStart: `"#{"`,
	InterpolationEnd:   `"}"`,
	StringStart:        "string",
	StringEnd:          "closing quote",
	DeclarationStart:   `"<!"`,
	Comment:            "comment",
	Whitespace:         "whitespace",
	HTMLComment:        "HTML comment",
	Text:               "text",
	Entity:             "entity",
	Symbol:             "identifier",
	String:             "string",
	Operator:           "operator",
	True:               "true",
	False:              "false",
	Null:               "null",
	LBrace:             `"["`,
	RBrace:             `"]"`,
	LParen:             `"("`,
	RParen:             `")"`,
	LBracket:           `"{"`,
	RBracket:           `"}"`,
	Colon:              `":"`,
	Comma:              `","`,
	Dot:                `"."`,
	Pipe:               `"|"`,
	QuestionMark:       `"?"`,
	Assignment:         `"="`,
	ElementStart:       `"<"`,
	Slash:              `"/"`,
	ElementEnd:         `">"`,
	Number:             "number",
	EOF:                "end of input",
	Error:              "error",
}

// String returns the vocabulary name of the kind, e.g. "EXPRESSION_START".
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Describe returns a human-oriented description used in syntax errors.
func (k Kind) Describe() string {
	if k < kindCount {
		return kindDescriptions[k]
	}
	return k.String()
}

// MarshalText renders the kind by name so JSON dumps stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind looks a kind up by its vocabulary name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
