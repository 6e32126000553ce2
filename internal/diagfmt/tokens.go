package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"melody/internal/source"
	"melody/internal/token"
)

type TokenOutput struct {
	Kind     string          `json:"kind"`
	Text     string          `json:"text,omitempty"`
	Location source.Location `json:"loc"`
	Message  string          `json:"message,omitempty"`
	Advice   string          `json:"advice,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-18s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %s-%s", tok.Pos, tok.End)
		if tok.Message != "" {
			fmt.Fprintf(w, " (%s)", tok.Message)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Location: tok.Location(),
			Message:  tok.Message,
			Advice:   tok.Advice,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
