package token

import (
	"melody/internal/source"
)

// Token represents a single template token with its location.
type Token struct {
	Kind Kind            `json:"type" msgpack:"type"`
	Pos  source.Position `json:"pos" msgpack:"pos"`
	End  source.Position `json:"end" msgpack:"end"`
	Text string          `json:"text" msgpack:"text"`
	// Message и Advice заполняются только для Error.
	Message string `json:"message,omitempty" msgpack:"message,omitempty"`
	Advice  string `json:"advice,omitempty" msgpack:"advice,omitempty"`
}

// Length returns End.Index - Pos.Index.
func (t Token) Length() int { return t.End.Index - t.Pos.Index }

// Location returns the token's source range.
func (t Token) Location() source.Location { return source.Loc(t.Pos, t.End) }

// Is reports whether the token has kind k and, when text is given, that exact text.
func (t Token) Is(k Kind, text ...string) bool {
	if t.Kind != k {
		return false
	}
	return len(text) == 0 || t.Text == text[0]
}

// IsLiteral reports whether the token is a scalar literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, True, False, Null, StringStart:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token carries no syntax for the parser.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Whitespace, Comment, HTMLComment:
		return true
	default:
		return false
	}
}

// TrimsLeft reports whether an opening delimiter or comment carries a trailing
// "-" marker ("{{-", "{%-", "{#-").
func (t Token) TrimsLeft() bool {
	switch t.Kind {
	case ExpressionStart, TagStart:
		return len(t.Text) == 3 && t.Text[2] == '-'
	case Comment:
		return len(t.Text) >= 3 && t.Text[2] == '-'
	default:
		return false
	}
}

// TrimsRight reports whether a closing delimiter or comment carries a leading
// "-" marker ("-}}", "-%}", "-#}").
func (t Token) TrimsRight() bool {
	switch t.Kind {
	case ExpressionEnd, TagEnd:
		return len(t.Text) == 3 && t.Text[0] == '-'
	case Comment:
		n := len(t.Text)
		return n >= 6 && t.Text[n-3] == '-' && t.Text[n-2] == '#' && t.Text[n-1] == '}'
	default:
		return false
	}
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Text + ")@" + t.Pos.String()
}
