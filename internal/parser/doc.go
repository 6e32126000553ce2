// Package parser builds the syntax tree of a template from its token stream.
//
// Expressions are parsed by precedence climbing over operator tables that
// live in the Parser and are filled by extensions before parsing starts.
// Tags are looked up by name; unknown tags may fall back to generic
// single- or multi-section parsing. Syntax errors abort the parse: they
// travel as panics carrying *diag.Error and come out of ParseTemplate as
// ordinary errors.
package parser
