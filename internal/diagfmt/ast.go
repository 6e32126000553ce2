package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"melody/internal/ast"
	"melody/internal/source"
)

var (
	baseType = reflect.TypeFor[ast.Base]()
	nodeType = reflect.TypeFor[ast.Node]()
)

// field is one exported, non-Base struct field of a node with its JSON name.
type field struct {
	name      string
	omitEmpty bool
	value     reflect.Value
}

// nodeFields flattens embedded structs (BinaryConcatExpression embeds
// BinaryExpression) and skips Base.
func nodeFields(n ast.Node) []field {
	v := reflect.Indirect(reflect.ValueOf(n))
	var out []field
	collect(v, &out)
	return out
}

func collect(v reflect.Value, out *[]field) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == baseType {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collect(v.Field(i), out)
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		*out = append(*out, field{name: name, omitEmpty: strings.Contains(opts, "omitempty"), value: v.Field(i)})
	}
}

// NodeJSON converts a tree into plain maps: every node gets "type" and
// "loc" plus its own fields under their JSON names.
func NodeJSON(n ast.Node) any {
	if ast.IsNil(n) {
		return nil
	}
	out := map[string]any{"type": n.Type(), "loc": n.Loc()}
	if l, r := n.Trims(); l || r {
		out["trimLeft"], out["trimRight"] = l, r
	}
	for _, f := range nodeFields(n) {
		if f.omitEmpty && f.value.IsZero() {
			continue
		}
		out[f.name] = valueJSON(f.value)
	}
	return out
}

func valueJSON(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if n, ok := v.Interface().(ast.Node); ok {
			return NodeJSON(n)
		}
		return valueJSON(v.Elem())
	case reflect.Slice:
		if v.Type().Elem().Implements(nodeType) || v.Type().Elem() == nodeType {
			list := make([]any, v.Len())
			for i := range list {
				list[i] = valueJSON(v.Index(i))
			}
			return list
		}
	}
	return v.Interface()
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, root ast.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NodeJSON(root))
}

// FormatASTPretty prints the tree one node per line with ├─/└─ guides.
// Child lines are prefixed by the field they hang from.
func FormatASTPretty(w io.Writer, root ast.Node, path string) error {
	header := "Template"
	if path != "" {
		header = path
	}
	if _, err := fmt.Fprintf(w, "%s (%s)\n", header, formatLoc(root.Loc())); err != nil {
		return err
	}
	writeEdges(w, edges(root), "")
	return nil
}

// edge is a child slot: a field name plus the node (or nil) found there.
type edge struct {
	label string
	node  ast.Node
}

func edges(n ast.Node) []edge {
	var out []edge
	for _, f := range nodeFields(n) {
		switch v := f.value; v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				continue
			}
			if c, ok := v.Interface().(ast.Node); ok {
				out = append(out, edge{label: f.name, node: c})
			}
		case reflect.Slice:
			for i := 0; i < v.Len(); i++ {
				e := v.Index(i)
				if e.Kind() == reflect.Interface || e.Kind() == reflect.Pointer {
					if e.IsNil() {
						continue
					}
				}
				if c, ok := e.Interface().(ast.Node); ok {
					out = append(out, edge{label: f.name + "[" + strconv.Itoa(i) + "]", node: c})
				}
			}
		}
	}
	return out
}

func writeEdges(w io.Writer, list []edge, prefix string) {
	for i, e := range list {
		guide, next := "├─ ", "│  "
		if i == len(list)-1 {
			guide, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s: %s\n", prefix, guide, e.label, nodeLabel(e.node))
		writeEdges(w, edges(e.node), prefix+next)
	}
}

// nodeLabel is the node type followed by its scalar fields and location.
func nodeLabel(n ast.Node) string {
	var b strings.Builder
	b.WriteString(n.Type())
	for _, f := range nodeFields(n) {
		if s, ok := scalar(f.value); ok {
			fmt.Fprintf(&b, " %s=%s", f.name, s)
		}
	}
	if l, r := n.Trims(); l || r {
		fmt.Fprintf(&b, " trim=%s", trimMarks(l, r))
	}
	fmt.Fprintf(&b, " (%s)", formatLoc(n.Loc()))
	return b.String()
}

func scalar(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "", false
		}
		return strconv.Quote(v.String()), true
	case reflect.Bool:
		if !v.Bool() {
			return "", false
		}
		return "true", true
	}
	return "", false
}

func trimMarks(l, r bool) string {
	switch {
	case l && r:
		return "both"
	case l:
		return "left"
	default:
		return "right"
	}
}

func formatLoc(loc source.Location) string {
	return loc.Start.String() + "-" + loc.End.String()
}
