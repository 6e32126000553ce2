// Package stream drains the lexer into a token array and exposes the
// lookahead/expect API the parser consumes.
//
// Lexing is two-phase on purpose: the whole template is tokenized before
// parsing starts, because whitespace control ("{{-", "-%}", "{#- -#}") has to
// rewrite tokens that were already produced. While collecting, Stream drops
// trivia tokens the options ask it to ignore, applies trimming and stops at
// the first ERROR token, turning it into a *diag.Error with a code frame.
//
// Expect and Error abort the parse by panicking with *diag.Error; the parser
// recovers at its entry point.
package stream
