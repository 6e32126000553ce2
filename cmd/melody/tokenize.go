package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"melody/internal/diagfmt"
	"melody/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.twig|->",
		Short: "Tokenize a template",
		Long:  `Tokenize breaks a template into the tokens seen by the parser. Use "-" to read stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokenize(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("keep-whitespace", false, "keep whitespace and comment tokens, skip trimming")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	keep, err := cmd.Flags().GetBool("keep-whitespace")
	if err != nil {
		return fmt.Errorf("failed to get keep-whitespace flag: %w", err)
	}

	opts := a.driverOptions()
	opts.KeepTrivia = keep

	var result *driver.TokenizeResult
	if path == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result, err = driver.TokenizeSource(cmd.Context(), "<stdin>", content, opts)
	} else {
		result, err = driver.Tokenize(cmd.Context(), path, opts)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Ошибка лексера: токенов нет, печатаем фрейм в stderr
	if result.Err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), result.Err.Pretty(a.useColor(os.Stderr)))
		return errDiagnostics
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
	}
}
