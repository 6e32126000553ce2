package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"melody/internal/token"
)

// FrameContext is the number of lines shown around the error line.
const FrameContext = 2

const tabWidth = 4

type palette struct {
	enabled bool
	colors  map[string]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{enabled: enabled, colors: map[string]*color.Color{
		"error":   color.New(color.FgRed, color.Bold),
		"bold":    color.New(color.Bold),
		"gutter":  color.New(color.FgBlue),
		"advice":  color.New(color.FgCyan, color.Bold),
		"caret":   color.New(color.FgRed, color.Bold),
		"delim":   color.New(color.FgMagenta),
		"string":  color.New(color.FgGreen),
		"number":  color.New(color.FgYellow),
		"keyword": color.New(color.FgBlue, color.Bold),
		"symbol":  color.New(color.FgCyan),
		"comment": color.New(color.FgHiBlack),
		"markup":  color.New(color.FgHiBlue),
	}}
	for _, c := range p.colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) paint(style, s string) string {
	if !p.enabled || style == "" || s == "" {
		return s
	}
	return p.colors[style].Sprint(s)
}

func (p palette) errorLabel(s string) string { return p.paint("error", "error["+s+"]:") }
func (p palette) bold(s string) string       { return p.paint("bold", s) }
func (p palette) gutter(s string) string     { return p.paint("gutter", s) }
func (p palette) advice(s string) string     { return p.paint("advice", s) }

// styleOf выбирает цвет подсветки для токена.
func styleOf(k token.Kind) string {
	switch k {
	case token.ExpressionStart, token.ExpressionEnd, token.TagStart, token.TagEnd,
		token.InterpolationStart, token.InterpolationEnd:
		return "delim"
	case token.StringStart, token.StringEnd, token.String:
		return "string"
	case token.Number:
		return "number"
	case token.True, token.False, token.Null, token.Operator:
		return "keyword"
	case token.Symbol:
		return "symbol"
	case token.Comment, token.HTMLComment:
		return "comment"
	case token.ElementStart, token.ElementEnd, token.Slash, token.DeclarationStart:
		return "markup"
	default:
		return ""
	}
}

// Frame renders the lines around the error with a ">" marker on the error
// line and a caret underline. Tokens, when present, drive syntax highlighting.
func (e *Error) Frame(colored bool) string {
	if e.Source == "" {
		return ""
	}
	p := newPalette(colored)
	lines := strings.Split(e.Source, "\n")
	errLine := e.Pos.Line
	if errLine < 1 {
		errLine = 1
	}
	if errLine > len(lines) {
		errLine = len(lines)
	}
	first := max(1, errLine-FrameContext)
	last := min(len(lines), errLine+FrameContext)
	width := len(fmt.Sprint(last))

	var styles []string
	if colored && len(e.Tokens) > 0 {
		styles = make([]string, len(e.Source))
		for _, t := range e.Tokens {
			st := styleOf(t.Kind)
			for i := t.Pos.Index; i < t.End.Index && i < len(styles); i++ {
				styles[i] = st
			}
		}
	}

	// смещения начала строк для подсветки
	offset := 0
	for i := 1; i < first; i++ {
		offset += len(lines[i-1]) + 1
	}

	var b strings.Builder
	for n := first; n <= last; n++ {
		line := lines[n-1]
		marker := " "
		if n == errLine {
			marker = p.paint("caret", ">")
		}
		num := fmt.Sprintf("%*d", width, n)
		fmt.Fprintf(&b, "%s %s %s %s\n", marker, p.gutter(num), p.gutter("|"), highlight(p, line, offset, styles))
		if n == errLine {
			pad, span := caretGeometry(line, e.Pos.Column, e.Length)
			fmt.Fprintf(&b, "  %s %s %s%s\n", strings.Repeat(" ", width), p.gutter("|"),
				strings.Repeat(" ", pad), p.paint("caret", strings.Repeat("^", span)))
		}
		offset += len(line) + 1
	}
	return b.String()
}

// caretGeometry measures display columns so carets line up under wide runes and tabs.
func caretGeometry(line string, column, length int) (pad, span int) {
	runes := []rune(line)
	if column > len(runes) {
		column = len(runes)
	}
	pad = displayWidth(string(runes[:column]))
	rest := runes[column:]
	// подчёркиваем не дальше конца строки
	n := 0
	for i, bytes := 0, 0; i < len(rest) && bytes < length; i++ {
		bytes += len(string(rest[i]))
		n++
	}
	span = displayWidth(string(rest[:n]))
	if span < 1 {
		span = 1
	}
	return pad, span
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func highlight(p palette, line string, offset int, styles []string) string {
	if styles == nil || !p.enabled {
		return expandTabs(line)
	}
	var b strings.Builder
	var cur string
	start := 0
	for i := 0; i <= len(line); i++ {
		st := ""
		if i < len(line) && offset+i < len(styles) {
			st = styles[offset+i]
		}
		if i == len(line) || st != cur {
			b.WriteString(p.paint(cur, expandTabs(line[start:i])))
			start = i
			cur = st
		}
	}
	return b.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
