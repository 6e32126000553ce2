package source

import "fmt"

// Position is a point in a template: byte offset plus a human-readable
// line (1-based) and column (0-based, counted in runes).
type Position struct {
	Index  int `json:"index" msgpack:"index"`
	Line   int `json:"line" msgpack:"line"`
	Column int `json:"column" msgpack:"column"`
}

// Start is the position of the first character of any input.
var Start = Position{Index: 0, Line: 1, Column: 0}

// String renders the position as "line:col" with a 1-based column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
}

// Before reports whether p is strictly before q.
func (p Position) Before(q Position) bool { return p.Index < q.Index }

// Location is the half-open range [Start, End) covered by a token or node.
type Location struct {
	Start Position `json:"start" msgpack:"start"`
	End   Position `json:"end" msgpack:"end"`
}

// Loc builds a Location.
func Loc(start, end Position) Location {
	return Location{Start: start, End: end}
}

// Len returns the byte length of the location.
func (l Location) Len() int { return l.End.Index - l.Start.Index }

// Empty reports whether the location covers no bytes.
func (l Location) Empty() bool { return l.Start.Index == l.End.Index }

// Cover returns the smallest location containing both l and other.
func (l Location) Cover(other Location) Location {
	if other.Start.Index < l.Start.Index {
		l.Start = other.Start
	}
	if other.End.Index > l.End.Index {
		l.End = other.End
	}
	return l
}

// Contains reports whether other lies inside l.
func (l Location) Contains(other Location) bool {
	return other.Start.Index >= l.Start.Index && other.End.Index <= l.End.Index
}

func (l Location) String() string {
	return fmt.Sprintf("%s-%s", l.Start, l.End)
}
