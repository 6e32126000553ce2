package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"melody/internal/diag"
	"melody/internal/diagfmt"
	"melody/internal/driver"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <directory|file.twig>",
		Short: "Check templates for lexical and syntax errors",
		Long:  `Check parses every template under a directory in parallel and reports all failures`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged templates from the disk cache")
	cmd.Flags().Bool("drop-cache", false, "clear the disk cache before checking")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

type checkFlags struct {
	format    string
	cache     bool
	dropCache bool
	ui        uiMode
	withNotes bool
	fullPath  bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if f.dropCache, err = cmd.Flags().GetBool("drop-cache"); err != nil {
		return f, fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	return f, nil
}

func (a *app) runCheck(cmd *cobra.Command, target string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	opts := a.driverOptions()
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	baseDir, files, err := checkTargets(target, opts)
	if err != nil {
		return err
	}

	// кэш необязателен: при ошибке предупреждаем и работаем без него
	if flags.cache || flags.dropCache || a.cfg.Check.Cache {
		opts.Cache = openCache(cmd.ErrOrStderr(), flags.dropCache)
	}

	a.total.Store(int64(len(files)))
	opts.Observer = a.observe

	var results []driver.ParseResult
	if flags.format == "pretty" && shouldUseTUI(flags.ui, os.Stdout) {
		results, err = runCheckWithUI(cmd.Context(), "checking "+baseDir, baseDir, files, opts)
	} else {
		_, results, err = driver.ParseFiles(cmd.Context(), baseDir, files, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := collectDiagnostics(results, a.cfg.Check.MaxDiagnostics)
	if err := a.writeCheckReport(cmd, flags, bag, results); err != nil {
		return err
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// checkTargets resolves the base directory and the template list.
func checkTargets(target string, opts driver.Options) (string, []string, error) {
	dir, err := driver.IsDir(target)
	if err != nil {
		return "", nil, err
	}
	if !dir {
		return filepath.Dir(target), []string{target}, nil
	}
	files, err := driver.ListTemplates(target, opts.Extensions, opts.Exclude)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return target, files, nil
}

func openCache(stderr io.Writer, drop bool) *driver.DiskCache {
	cache, err := driver.OpenDiskCache("melody")
	if err == nil && drop {
		err = cache.DropAll()
	}
	if err != nil {
		fmt.Fprintf(stderr, "warning[%s]: disk cache disabled: %v\n", diag.IOCacheError.ID(), err)
		return nil
	}
	return cache
}

// collectDiagnostics merges per-file bags; the limit applies to the output.
func collectDiagnostics(results []driver.ParseResult, limit int) *diag.Bag {
	bag := diag.NewBag(limit)
	for i := range results {
		if results[i].Bag == nil {
			continue
		}
		for _, d := range results[i].Bag.Items() {
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}

func (a *app) writeCheckReport(cmd *cobra.Command, flags checkFlags, bag *diag.Bag, results []driver.ParseResult) error {
	mode := diagfmt.PathModeAuto
	if flags.fullPath {
		mode = diagfmt.PathModeAbsolute
	}
	switch flags.format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			IncludeNotes:     flags.withNotes,
			IncludeFrame:     true,
		})
	case "short":
		return diagfmt.Short(cmd.OutOrStdout(), bag, flags.withNotes)
	}

	out := cmd.OutOrStdout()
	if err := diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
		Color:     a.useColor(os.Stdout),
		PathMode:  mode,
		ShowNotes: flags.withNotes,
		ShowFrame: true,
	}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), checkSummary(results))
	return nil
}

func checkSummary(results []driver.ParseResult) string {
	failed, cached := 0, 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
		if results[i].Cached {
			cached++
		}
	}
	noun := "templates"
	if len(results) == 1 {
		noun = "template"
	}
	line := fmt.Sprintf("checked %d %s, %d failed", len(results), noun, failed)
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	return line
}
