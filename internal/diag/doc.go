// Package diag defines the diagnostic model shared by the lexer, the token
// stream, the parser and the CLI.
//
// Two shapes coexist:
//
//   - Error is what a single parse raises. Parsing never recovers, so a
//     template yields either an AST or exactly one *Error. It carries the
//     title, position, length, optional advice and enough context (the source
//     and its full re-lex) to render a code frame.
//   - Diagnostic is the serialisable record collected in a Bag when many
//     templates are checked at once. Error.Diagnostic converts one into the other.
//
// Codes are grouped by phase: LEX1xxx for lexical errors, SYN2xxx for syntax
// errors, IO4xxx for file loading. Code.ID renders the stable string form.
//
// Rendering of whole bags lives in internal/diagfmt; this package only knows
// how to draw the frame of a single Error.
package diag
