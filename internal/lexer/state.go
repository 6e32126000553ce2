package lexer

// State is a lexical context; the lexer keeps a stack of them.
type State uint8

const (
	// StateText is markup outside any delimiter. It is always at the bottom.
	StateText State = iota
	// StateExpression is inside "{{ }}".
	StateExpression
	// StateTag is inside "{% %}".
	StateTag
	// StateInterpolation is inside "#{ }" in a string or "{ }" in an element.
	StateInterpolation
	// StateStringSingle is the body of a '...' literal.
	StateStringSingle
	// StateStringDouble is the body of a "..." literal.
	StateStringDouble
	// StateElement is between "<name" and ">".
	StateElement
	// StateAttributeValue is the body of a quoted attribute value.
	StateAttributeValue
	// StateDeclaration is between "<!NAME" and ">".
	StateDeclaration
)

var stateNames = [...]string{
	StateText:           "TEXT",
	StateExpression:     "EXPRESSION",
	StateTag:            "TAG",
	StateInterpolation:  "INTERPOLATION",
	StateStringSingle:   "STRING_SINGLE",
	StateStringDouble:   "STRING_DOUBLE",
	StateElement:        "ELEMENT",
	StateAttributeValue: "ATTRIBUTE_VALUE",
	StateDeclaration:    "DECLARATION",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

// significantWhitespace reports whether whitespace belongs to the token text
// instead of being emitted as WHITESPACE.
func (s State) significantWhitespace() bool {
	switch s {
	case StateText, StateStringSingle, StateStringDouble, StateAttributeValue:
		return true
	default:
		return false
	}
}

func (s State) isString() bool {
	return s == StateStringSingle || s == StateStringDouble || s == StateAttributeValue
}

// frame is one stack entry. braces counts "{" opened inside the frame so a
// map literal does not close the enclosing delimiter.
type frame struct {
	state  State
	braces int
}

func (lx *Lexer) top() *frame { return &lx.states[len(lx.states)-1] }

// State returns the active lexical state.
func (lx *Lexer) State() State { return lx.top().state }

// Depth returns the current stack height (1 when only TEXT is active).
func (lx *Lexer) Depth() int { return len(lx.states) }

func (lx *Lexer) push(s State) {
	lx.states = append(lx.states, frame{state: s})
}

// pop never removes the bottom TEXT frame.
func (lx *Lexer) pop() {
	if len(lx.states) > 1 {
		lx.states = lx.states[:len(lx.states)-1]
	}
}
