package lexer

// Options configures a Lexer.
type Options struct {
	// Operators lists the texts of every registered unary and binary operator.
	Operators []string
	// PreserveSourceLiterally keeps escaped quotes in STRING tokens as written.
	PreserveSourceLiterally bool
}
