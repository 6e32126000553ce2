package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files and `check --format short`.
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	type line struct {
		sev, code, path, msg string
		row, col             int
	}
	rendered := make([]line, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, line{
			sev:  severityLabel(d.Severity),
			code: d.Code.ID(),
			path: normalizePath(d.Path),
			row:  d.Primary.Start.Line,
			col:  d.Primary.Start.Column + 1,
			msg:  sanitizeMessage(d.Message),
		})
		if includeNotes {
			for _, n := range d.Notes {
				rendered = append(rendered, line{
					sev: "note", code: d.Code.ID(), path: normalizePath(d.Path),
					row: n.Location.Start.Line, col: n.Location.Start.Column + 1,
					msg: sanitizeMessage(n.Msg),
				})
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.path != dj.path {
			return di.path < dj.path
		}
		if di.row != dj.row {
			return di.row < dj.row
		}
		if di.col != dj.col {
			return di.col < dj.col
		}
		return di.code < dj.code
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.sev, d.code, d.path, d.row, d.col, d.msg)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(s Severity) string {
	return strings.ToLower(s.String())
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
