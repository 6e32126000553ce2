package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"melody/internal/ast"
	"melody/internal/source"
	"melody/internal/token"
)

// CheckTokenRoundTrip runs the token invariants on an unfiltered token list:
// 1) tokens are contiguous and start at offset 0
// 2) every non-STRING token text equals its source slice
// 3) the list ends with exactly one EOF at the end of src
// 4) the source slices concatenate back to src
func CheckTokenRoundTrip(src string, toks []token.Token) error {
	if len(toks) == 0 {
		return fmt.Errorf("no tokens")
	}
	var rebuilt []byte
	offset := 0
	for i, tok := range toks {
		if tok.Pos.Index != offset {
			return fmt.Errorf("token %d (%s) starts at %d, want %d", i, tok.Kind, tok.Pos.Index, offset)
		}
		if tok.End.Index < tok.Pos.Index || tok.End.Index > len(src) {
			return fmt.Errorf("token %d (%s) has bad range %s", i, tok.Kind, tok.Location())
		}
		if tok.Kind == token.EOF {
			if i != len(toks)-1 {
				return fmt.Errorf("EOF at position %d of %d", i, len(toks))
			}
			break
		}
		slice := src[tok.Pos.Index:tok.End.Index]
		if tok.Kind != token.String && tok.Text != slice {
			return fmt.Errorf("token %d (%s) text %q differs from source %q", i, tok.Kind, tok.Text, slice)
		}
		rebuilt = append(rebuilt, slice...)
		offset = tok.End.Index
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("last token is %s, want EOF", last.Kind)
	}
	if string(rebuilt) != src {
		return fmt.Errorf("round trip mismatch:\n got %q\nwant %q", rebuilt, src)
	}
	return nil
}

// CheckLocations verifies that every node of the tree lies within src and
// within its parent's location.
func CheckLocations(root ast.Node, src string) error {
	size, err := safecast.Conv[int32](len(src))
	if err != nil {
		return fmt.Errorf("source too large: %w", err)
	}
	var failure error
	ast.Walk(root, func(n ast.Node) bool {
		if failure != nil {
			return false
		}
		loc := n.Loc()
		if loc.End.Before(loc.Start) || loc.End.Index > int(size) {
			failure = fmt.Errorf("%s has bad location %s", n.Type(), loc)
			return false
		}
		for _, c := range ast.Children(n) {
			if !loc.Contains(c.Loc()) {
				failure = fmt.Errorf("%s %s lies outside its parent %s %s", c.Type(), c.Loc(), n.Type(), loc)
				return false
			}
		}
		return true
	})
	return failure
}

// Span returns the source text covered by loc.
func Span(src string, loc source.Location) string {
	return src[loc.Start.Index:loc.End.Index]
}
