package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"melody/internal/config"
	"melody/internal/driver"
	"melody/internal/observ"
	"melody/internal/version"
)

// errDiagnostics означает, что ошибки уже напечатаны; нужен только exit code.
var errDiagnostics = errors.New("templates have errors")

// annotationNoConfig marks commands that run without a project config.
const annotationNoConfig = "melody/no-config"

// app holds the state shared by all subcommands of one invocation.
type app struct {
	cfg      config.Config
	timer    *observ.Timer
	color    string
	cleanups []func(failed bool)

	// счётчики для heartbeat трассировки
	total    atomic.Int64
	finished atomic.Int64
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "melody",
		Short:         "Twig-style HTML template front end",
		Long:          `Melody tokenizes, parses and checks Twig-style HTML templates`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.AddCommand(newTokenizeCmd(a))
	root.AddCommand(newParseCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to melody.toml or melody.yaml (default: search upwards)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
	return root
}

func main() {
	a := &app{}
	root := newRootCmd(a)
	err := root.ExecuteContext(context.Background())
	a.finish(os.Stderr, err != nil)
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "melody: %v\n", err)
		}
		os.Exit(1)
	}
}

// setup runs before every subcommand: tracing, profiling, then config.
func (a *app) setup(cmd *cobra.Command) error {
	traceCleanup, err := a.setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, traceCleanup)

	profCleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, profCleanup)

	pf := cmd.Root().PersistentFlags()
	if a.color, err = pf.GetString("color"); err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if _, err := readColorMode(a.color); err != nil {
		return err
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		a.timer = observ.NewTimer()
	}
	if cmd.Annotations[annotationNoConfig] != "" {
		return nil
	}
	return a.loadConfig(cmd)
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		a.cfg, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		a.cfg, err = config.Discover(wd)
	}
	if err != nil {
		return err
	}
	// флаг важнее файла, но только если задан явно
	if pf.Changed("max-diagnostics") {
		if a.cfg.Check.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return nil
}

func (a *app) driverOptions() driver.Options {
	opts := driver.FromConfig(a.cfg)
	opts.Timer = a.timer
	return opts
}

// useColor resolves --color for the given stream.
func (a *app) useColor(f *os.File) bool {
	mode, _ := readColorMode(a.color)
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == ""
}

// finish prints timings and releases tracer and profiler in reverse order.
func (a *app) finish(w io.Writer, failed bool) {
	if a.timer != nil {
		printTimings(w, a.timer)
	}
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i](failed)
	}
	a.cleanups = nil
}

// observe counts finished templates for the trace heartbeat.
func (a *app) observe(ev driver.Event) {
	if ev.Stage.Finished() {
		a.finished.Add(1)
	}
}

func (a *app) progress() string {
	total := a.total.Load()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d templates", a.finished.Load(), total)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
