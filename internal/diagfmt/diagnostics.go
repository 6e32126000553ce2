package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"melody/internal/diag"
	"melody/internal/source"
)

type styles struct {
	sev    map[diag.Severity]*color.Color
	bold   *color.Color
	gutter *color.Color
	advice *color.Color
	caret  *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgBlue, color.Bold),
		},
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		advice: color.New(color.FgCyan, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
	}
	all := []*color.Color{s.bold, s.gutter, s.advice, s.caret}
	for _, c := range s.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	error[SYN2006]: <Message>
//	  --> <path>:<line>:<col>
//	<frame>
//	  advice: <Advice>
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	st := newStyles(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := fmt.Sprintf("%s[%s]:", strings.ToLower(d.Severity.String()), d.Code.ID())
		if _, err := fmt.Fprintf(w, "%s %s\n", st.sev[d.Severity].Sprint(label), st.bold.Sprint(d.Message)); err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %s\n", st.gutter.Sprint("-->"), where(d.Path, d.Primary, opts.PathMode))
		if opts.ShowFrame && d.Frame != "" {
			io.WriteString(w, paintFrame(d.Frame, st))
		}
		if d.Advice != "" {
			fmt.Fprintf(w, "  %s %s\n", st.advice.Sprint("advice:"), d.Advice)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", st.gutter.Sprint("note:"), where(d.Path, n.Location, opts.PathMode), n.Msg)
			}
		}
	}
	if dropped := bag.Dropped() + len(bag.Items()) - len(items); dropped > 0 {
		fmt.Fprintf(w, "\n... and %d more\n", dropped)
	}
	return nil
}

// paintFrame colours the marker and caret lines of a stored frame.
func paintFrame(frame string, st styles) string {
	lines := strings.SplitAfter(frame, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, ">"):
			b.WriteString(st.caret.Sprint(">"))
			b.WriteString(line[1:])
		case strings.Contains(line, "^") && strings.TrimLeft(strings.TrimSpace(line), "|^ ") == "":
			cut := strings.Index(line, "^")
			b.WriteString(line[:cut])
			b.WriteString(st.caret.Sprint(strings.TrimRight(line[cut:], "\n")))
			if strings.HasSuffix(line, "\n") {
				b.WriteByte('\n')
			}
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

func where(path string, loc source.Location, mode PathMode) string {
	if path == "" {
		path = "<template>"
	}
	if loc.Start.Line == 0 {
		return formatPath(path, mode)
	}
	return formatPath(path, mode) + ":" + loc.Start.String()
}

// Short renders one line per diagnostic, sorted by path and position.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), includeNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	StartLine int    `json:"start_line,omitempty"`
	StartCol  int    `json:"start_col,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndCol    int    `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Advice   string       `json:"advice,omitempty"`
	Frame    string       `json:"frame,omitempty"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

func makeLocation(path string, loc source.Location, opts JSONOpts) LocationJSON {
	out := LocationJSON{
		File:      formatPath(path, opts.PathMode),
		StartByte: loc.Start.Index,
		EndByte:   loc.End.Index,
	}
	// Колонки в JSON 1-based, как в выводе Pretty
	if opts.IncludePositions && loc.Start.Line > 0 {
		out.StartLine = loc.Start.Line
		out.StartCol = loc.Start.Column + 1
		out.EndLine = loc.End.Line
		out.EndCol = loc.End.Column + 1
	}
	return out
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	diagnostics := make([]DiagnosticJSON, 0, len(items))
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Path, d.Primary, opts),
			Advice:   d.Advice,
		}
		if opts.IncludeFrame {
			dj.Frame = d.Frame
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(d.Path, n.Location, opts)})
			}
		}
		diagnostics = append(diagnostics, dj)
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Dropped:     bag.Dropped() + len(bag.Items()) - len(items),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
