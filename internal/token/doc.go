// Package token defines the lexical vocabulary of melody templates.
// Invariants:
//   - Token.Text is the exact source slice [Pos.Index, End.Index), except STRING
//     tokens whose escaped quotes may be collapsed.
//   - Kind names (Kind.String) are a stable, bit-exact vocabulary shared with
//     other implementations; do not rename them.
//   - Message and Advice are only set on ERROR tokens.
package token
