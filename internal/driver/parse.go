package driver

import (
	"context"
	"fmt"
	"strconv"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/ext/core"
	"melody/internal/parser"
	"melody/internal/source"
	"melody/internal/stream"
	"melody/internal/trace"
)

// ParseResult is the outcome for one template. Root is nil when the file
// failed or when the result came from the cache.
type ParseResult struct {
	Path   string
	File   *source.File
	Root   *ast.Sequence
	Err    *diag.Error
	Bag    *diag.Bag
	Tokens int
	Nodes  int
	Cached bool
}

// Failed reports whether the file produced an error.
func (r *ParseResult) Failed() bool {
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

// Parse loads and parses one template with the core grammar.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	res := parseFile(ctx, fs, fs.Get(fileID), core.NewParser(opts.Parser), opts, path)
	return &res, nil
}

// ParseSource parses in-memory content registered under name.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	res := parseFile(ctx, fs, fs.Get(fileID), core.NewParser(opts.Parser), opts, name)
	return &res, nil
}

// parseFile runs lex and parse on one loaded file. p is owned by the caller
// and never shared between goroutines. Progress events carry id.
func parseFile(ctx context.Context, fs *source.FileSet, file *source.File, p *parser.Parser, opts Options, id string) ParseResult {
	tr := trace.FromContext(ctx)
	display := fs.DisplayPath(file)
	res := ParseResult{Path: display, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}

	fileSpan := trace.Begin(tr, trace.ScopeFile, "file:"+display, trace.ParentSpan(ctx))

	opts.emit(Event{File: id, Stage: StageLex})
	lexSpan := trace.Begin(tr, trace.ScopePass, "lex", fileSpan.ID())
	s, err := stream.New(display, string(file.Content), p.StreamOptions())
	if err != nil {
		lexSpan.End("error")
		return res.fail(err, opts, fileSpan, id)
	}
	res.Tokens = len(s.Tokens())
	lexSpan.WithExtra("tokens", itoa(res.Tokens)).End("ok")

	opts.emit(Event{File: id, Stage: StageParse})
	parseSpan := trace.Begin(tr, trace.ScopePass, "parse", fileSpan.ID())
	root, err := p.ParseStream(s)
	if err != nil {
		parseSpan.End("error")
		return res.fail(err, opts, fileSpan, id)
	}
	res.Root = root
	res.Nodes = ast.Count(root)
	parseSpan.WithExtra("nodes", itoa(res.Nodes)).End("ok")

	opts.emit(Event{File: id, Stage: StageDone})
	fileSpan.End("ok")
	return res
}

func (r ParseResult) fail(err error, opts Options, span *trace.Span, id string) ParseResult {
	de, ok := diag.AsError(err)
	if !ok {
		// stream/parser only return *diag.Error; anything else is a bug
		de = &diag.Error{Code: diag.UnknownCode, Title: err.Error(), Path: r.Path}
	}
	r.Err = de
	r.Bag.Add(de.Diagnostic())
	opts.emit(Event{File: id, Stage: StageFailed})
	span.End(de.Code.ID())
	return r
}

func loadFailure(path string, maxDiagnostics int, err error) ParseResult {
	bag := diag.NewBag(maxDiagnostics)
	// Пустой диапазон для ошибок ввода-вывода
	bag.Add(diag.NewError(diag.IOLoadFileError, path, source.Location{}, "failed to load file: "+err.Error()))
	return ParseResult{Path: path, Bag: bag}
}

func itoa(n int) string { return strconv.Itoa(n) }

func countNote(n int, what string) string { return fmt.Sprintf("%d %s", n, what) }
