package parser

import "strings"

// Options tune what the parser keeps in the tree.
type Options struct {
	IgnoreComments          bool
	IgnoreHTMLComments      bool
	IgnoreDeclarations      bool
	DecodeEntities          bool
	PreserveSourceLiterally bool
	AllowUnknownTags        bool
	// MultiTags maps a tag name to its sub-tags; the last one closes the tag,
	// e.g. "if" -> ["elseif", "else", "endif"]. A non-empty entry implies
	// AllowUnknownTags for that name.
	MultiTags map[string][]string
	// VoidElements never have children or a closing tag.
	VoidElements []string
}

// HTMLVoidElements are the void elements of HTML.
var HTMLVoidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

// DefaultOptions drops comments and declarations and decodes entities.
func DefaultOptions() Options {
	return Options{
		IgnoreComments:     true,
		IgnoreHTMLComments: true,
		IgnoreDeclarations: true,
		DecodeEntities:     true,
		VoidElements:       HTMLVoidElements,
	}
}

func (o Options) isVoid(name string) bool {
	for _, v := range o.VoidElements {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

func (o Options) allowsUnknownTags() bool {
	if o.AllowUnknownTags {
		return true
	}
	for _, subs := range o.MultiTags {
		if len(subs) > 0 {
			return true
		}
	}
	return false
}
