package ast

import (
	"reflect"

	"melody/internal/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Type returns the node type name used in dumps, e.g. "PrintTextStatement".
	Type() string
	Loc() source.Location
	SetLoc(source.Location)
	Trims() (left, right bool)
	SetTrims(left, right bool)
}

// Base is embedded by every node.
type Base struct {
	Location  source.Location `json:"loc"`
	TrimLeft  bool            `json:"trimLeft,omitempty"`
	TrimRight bool            `json:"trimRight,omitempty"`
}

func (b *Base) Loc() source.Location      { return b.Location }
func (b *Base) SetLoc(l source.Location)  { b.Location = l }
func (b *Base) Trims() (left, right bool) { return b.TrimLeft, b.TrimRight }
func (b *Base) SetTrims(left, right bool) { b.TrimLeft, b.TrimRight = left, right }

// Locate sets the location of n and returns it.
func Locate[T Node](n T, start, end source.Position) T {
	n.SetLoc(source.Loc(start, end))
	return n
}

// Span gives n the range from the start of first to the end of last.
func Span[T Node](n T, first, last Node) T {
	n.SetLoc(source.Loc(first.Loc().Start, last.Loc().End))
	return n
}

var baseType = reflect.TypeFor[Base]()

// Children returns the direct child nodes of n in field order.
func Children(n Node) []Node {
	v := reflect.ValueOf(n)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil
	}
	var out []Node
	collectFields(reflect.Indirect(v), &out)
	return out
}

func collectFields(v reflect.Value, out *[]Node) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == baseType {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(fv, out)
			continue
		}
		collectValue(fv, out)
	}
}

func collectValue(v reflect.Value, out *[]Node) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return
		}
		if n, ok := v.Interface().(Node); ok {
			*out = append(*out, n)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			collectValue(v.Index(i), out)
		}
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	c := 0
	Walk(n, func(Node) bool { c++; return true })
	return c
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
