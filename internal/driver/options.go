// Package driver runs the template front end over files and directories.
package driver

import (
	"runtime"

	"melody/internal/config"
	"melody/internal/observ"
	"melody/internal/parser"
)

// Options configures the driver entry points.
type Options struct {
	Parser         parser.Options
	Jobs           int // 0 means GOMAXPROCS
	MaxDiagnostics int
	Extensions     []string
	Exclude        []string

	// KeepTrivia leaves whitespace and comment tokens in Tokenize output.
	KeepTrivia bool

	Cache    *DiskCache    // nil disables the cache
	Timer    *observ.Timer // nil disables phase timing
	Observer Observer      // nil disables progress events
}

// FromConfig builds driver options from a project config.
func FromConfig(cfg config.Config) Options {
	return Options{
		Parser:         cfg.ParserOptions(),
		Jobs:           cfg.Check.Jobs,
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		Extensions:     cfg.Check.Extensions,
		Exclude:        cfg.Check.Exclude,
	}
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

func (o Options) emit(ev Event) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}
