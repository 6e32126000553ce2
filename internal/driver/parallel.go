package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"melody/internal/ext/core"
	"melody/internal/source"
	"melody/internal/trace"
)

// ParseDir парсит все шаблоны в директории параллельно.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseResult, error) {
	files, err := ListTemplates(dir, opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	return ParseFiles(ctx, dir, files, opts)
}

// ParseFiles parses files concurrently, at most opts.Jobs at a time.
// Results follow the order of files. Per-file failures land in the result's
// Bag; the returned error is reserved for cancellation and cache setup.
func ParseFiles(ctx context.Context, baseDir string, files []string, opts Options) (*source.FileSet, []ParseResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeDriver, "parse-files", trace.ParentSpan(ctx)).
		WithExtra("files", itoa(len(files)))
	defer span.End("")
	ctx = trace.WithParentSpan(ctx, span)

	var optsKey Digest
	if opts.Cache != nil {
		key, err := OptionsDigest(opts.Parser)
		if err != nil {
			return fileSet, nil, fmt.Errorf("cache key: %w", err)
		}
		optsKey = key
	}

	// Предзагружаем все файлы
	loadIdx := opts.Timer.Begin("load")
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		opts.emit(Event{File: path, Stage: StageLoad})
		fileID, err := fileSet.Load(path)
		if err != nil {
			// Сохраняем ошибку загрузки для последующей обработки
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}
	opts.Timer.End(loadIdx, countNote(len(fileIDs), "files"))

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]ParseResult, len(files))

	parseIdx := opts.Timer.Begin("parse")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				display := path
				if rel, err := source.RelativePath(path, fileSet.BaseDir()); err == nil {
					display = rel
				}
				results[i] = loadFailure(display, opts.MaxDiagnostics, loadErr)
				opts.emit(Event{File: path, Stage: StageFailed})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			results[i] = checkFile(gctx, fileSet, file, path, optsKey, opts)
			return nil
		})
	}

	err := g.Wait()
	opts.Timer.End(parseIdx, countNote(len(files), "files"))
	return fileSet, results, err
}

// checkFile is parseFile behind the disk cache. Without a cache it is
// parseFile with a fresh parser.
func checkFile(ctx context.Context, fs *source.FileSet, file *source.File, id string, optsKey Digest, opts Options) ParseResult {
	if opts.Cache == nil {
		return parseFile(ctx, fs, file, core.NewParser(opts.Parser), opts, id)
	}
	tr := trace.FromContext(ctx)
	parent := trace.ParentSpan(ctx)
	key := combineDigest(file.Hash, optsKey)

	var payload DiskPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(tr, trace.ScopeFile, "cache-error", err.Error(), parent)
	}
	if hit {
		trace.Point(tr, trace.ScopeFile, "cache-hit", fs.DisplayPath(file), parent)
		res := resultOf(&payload, ParseResult{Path: fs.DisplayPath(file), File: file}, opts.MaxDiagnostics)
		opts.emit(Event{File: id, Stage: terminalStage(res), Cached: true})
		return res
	}

	res := parseFile(ctx, fs, file, core.NewParser(opts.Parser), opts, id)
	if err := opts.Cache.Put(key, payloadOf(res)); err != nil {
		trace.Point(tr, trace.ScopeFile, "cache-error", err.Error(), parent)
	}
	return res
}

func terminalStage(res ParseResult) Stage {
	if res.Failed() {
		return StageFailed
	}
	return StageDone
}
