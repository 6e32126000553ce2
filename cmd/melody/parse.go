package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"melody/internal/diag"
	"melody/internal/diagfmt"
	"melody/internal/driver"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.twig|directory|->",
		Short: "Parse templates and print the syntax tree",
		Long:  `Parse builds the syntax tree of a template, or of every template in a directory`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	opts := a.driverOptions()
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	var results []driver.ParseResult
	dir := false
	if path != "-" {
		if dir, err = driver.IsDir(path); err != nil {
			return err
		}
	}
	switch {
	case dir:
		if _, results, err = driver.ParseDir(cmd.Context(), path, opts); err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
	case path == "-":
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		res, parseErr := driver.ParseSource(cmd.Context(), "<stdin>", content, opts)
		if parseErr != nil {
			return fmt.Errorf("parse failed: %w", parseErr)
		}
		results = append(results, *res)
	default:
		res, parseErr := driver.Parse(cmd.Context(), path, opts)
		if parseErr != nil {
			return fmt.Errorf("parse failed: %w", parseErr)
		}
		results = append(results, *res)
	}

	if err := writeTrees(cmd.OutOrStdout(), results, format, dir); err != nil {
		return err
	}
	return a.reportFailures(cmd.ErrOrStderr(), results)
}

// fileTree is one entry of the directory JSON dump.
type fileTree struct {
	Path string `json:"path"`
	AST  any    `json:"ast"`
}

func writeTrees(w io.Writer, results []driver.ParseResult, format string, many bool) error {
	if format == "json" {
		if !many {
			if results[0].Root == nil {
				return nil
			}
			return diagfmt.FormatASTJSON(w, results[0].Root)
		}
		out := make([]fileTree, 0, len(results))
		for _, res := range results {
			if res.Root != nil {
				out = append(out, fileTree{Path: res.Path, AST: diagfmt.NodeJSON(res.Root)})
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i, res := range results {
		if res.Root == nil {
			continue
		}
		if many && i > 0 {
			fmt.Fprintln(w)
		}
		var err error
		if format == "tree" {
			if many {
				fmt.Fprintf(w, "== %s\n", res.Path)
			}
			err = diagfmt.FormatASTTree(w, res.Root)
		} else {
			err = diagfmt.FormatASTPretty(w, res.Root, res.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// reportFailures prints every failed result. A single parse error keeps its
// coloured frame; bag-only failures go through diagfmt.
func (a *app) reportFailures(w io.Writer, results []driver.ParseResult) error {
	color := a.useColor(os.Stderr)
	bag := diag.NewBag(a.cfg.Check.MaxDiagnostics)
	failed := false
	for i := range results {
		res := &results[i]
		if !res.Failed() {
			continue
		}
		failed = true
		if res.Err != nil && res.Err.Source != "" && len(results) == 1 {
			fmt.Fprint(w, res.Err.Pretty(color))
			continue
		}
		bag.Merge(res.Bag)
	}
	if bag.Len() > 0 || bag.Dropped() > 0 {
		bag.Sort()
		if err := diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:     color,
			ShowFrame: true,
			ShowNotes: true,
			Max:       a.cfg.Check.MaxDiagnostics,
		}); err != nil {
			return err
		}
	}
	if failed {
		return errDiagnostics
	}
	return nil
}
