package diag

import (
	"errors"
	"fmt"
	"strings"

	"melody/internal/source"
	"melody/internal/token"
)

// Error is the single failure of a template parse.
type Error struct {
	Code   Code
	Title  string
	Path   string
	Pos    source.Position
	Length int
	Advice string

	// Source и Tokens нужны только для отрисовки фрейма: Tokens: полный
	// повторный лексинг без фильтрации и обрезки пробелов.
	Source string
	Tokens []token.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.where(), e.Title)
}

func (e *Error) where() string {
	path := e.Path
	if path == "" {
		path = "<template>"
	}
	return path + ":" + e.Pos.String()
}

// Location returns the range the error points at.
func (e *Error) Location() source.Location {
	end := e.Pos
	end.Index += e.Length
	end.Column += e.Length
	if e.Source != "" && end.Index <= len(e.Source) {
		span := e.Source[e.Pos.Index:end.Index]
		if !strings.Contains(span, "\n") {
			end.Column = e.Pos.Column + len([]rune(span))
		}
	}
	return source.Loc(e.Pos, end)
}

// Diagnostic converts the error into a bag record with an uncoloured frame.
func (e *Error) Diagnostic() Diagnostic {
	d := NewError(e.Code, e.Path, e.Location(), e.Title).WithAdvice(e.Advice)
	if e.Source != "" {
		d.Frame = e.Frame(false)
	}
	return d
}

// Pretty renders title, frame and advice.
func (e *Error) Pretty(color bool) string {
	p := newPalette(color)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.errorLabel(e.Code.ID()), p.bold(e.Title))
	fmt.Fprintf(&b, "  %s %s\n", p.gutter("-->"), e.where())
	if e.Source != "" {
		b.WriteString(e.Frame(color))
	}
	if e.Advice != "" {
		fmt.Fprintf(&b, "  %s %s\n", p.advice("advice:"), e.Advice)
	}
	return b.String()
}

// AsError unwraps err into *Error.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
