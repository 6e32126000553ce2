package driver

import (
	"context"

	"melody/internal/diag"
	"melody/internal/ext/core"
	"melody/internal/source"
	"melody/internal/stream"
	"melody/internal/token"
	"melody/internal/trace"
)

// TokenizeResult is the token stream of one template. A lexical error
// leaves Tokens nil and sets Err.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Path    string
	Tokens  []token.Token
	Err     *diag.Error
	Bag     *diag.Bag
}

// Tokenize loads path and tokenizes it with the operator set of the core
// grammar.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(ctx, fs, fs.Get(fileID), opts)
}

// TokenizeSource tokenizes in-memory content registered under name.
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return tokenizeFile(ctx, fs, fs.Get(fileID), opts)
}

func tokenizeFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*TokenizeResult, error) {
	tr := trace.FromContext(ctx)
	display := fs.DisplayPath(file)
	span := trace.Begin(tr, trace.ScopePass, "lex", trace.ParentSpan(ctx)).WithExtra("file", display)

	idx := opts.Timer.Begin("lex")
	so := core.NewParser(opts.Parser).StreamOptions()
	if opts.KeepTrivia {
		so.IgnoreWhitespace = false
		so.IgnoreComments = false
		so.IgnoreHTMLComments = false
		so.ApplyWhitespaceTrimming = false
	}

	res := &TokenizeResult{FileSet: fs, File: file, Path: display, Bag: diag.NewBag(opts.MaxDiagnostics)}
	s, err := stream.New(display, string(file.Content), so)
	if err != nil {
		de, ok := diag.AsError(err)
		if !ok {
			return nil, err
		}
		res.Err = de
		res.Bag.Add(de.Diagnostic())
		opts.Timer.End(idx, "failed")
		span.End("error")
		return res, nil
	}
	res.Tokens = s.Tokens()
	opts.Timer.End(idx, countNote(len(res.Tokens), "tokens"))
	span.WithExtra("tokens", itoa(len(res.Tokens))).End("ok")
	return res, nil
}
