package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sexpr/internal/ast"
	"sexpr/internal/diag"
	"sexpr/internal/observ"
	"sexpr/internal/pipeline"
	"sexpr/internal/source"
	"sexpr/internal/token"
	"sexpr/internal/trace"
)

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path       string        // путь к файлу
	FileID     source.FileID // ID файла в FileSet
	Tokens     []token.Token // только при Options.KeepTokens
	TokenCount int
	Nodes      []ast.Node
	Err        error // *source.UnavailableError или *parser.UnbalancedError
	Cached     bool
	Bag        *diag.Bag
	Timings    pipeline.Timings
}

// DirResult aggregates a ParseDir run.
type DirResult struct {
	FileSet *source.FileSet
	Files   []ParseDirResult
	// Bag holds every file's diagnostics, sorted, capped at MaxDiagnostics.
	Bag    *diag.Bag
	Timing observ.Report
}

// Failed returns how many files failed to load or parse.
func (r *DirResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// ListFiles возвращает отсортированный список файлов с нужными расширениями.
// Hidden directories below dir are skipped.
func ListFiles(dir string, exts []string) ([]string, error) {
	allowed := Options{Extensions: exts}.extensions()
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir parses every matching file under dir in parallel. Results keep
// the sorted file order. Load failures become IO4001 diagnostics; only
// context cancellation or a walk failure is returned as error.
func ParseDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	timer := observ.NewTimer()
	tracer := opts.tracer()
	span := trace.Begin(tracer, trace.ScopeDriver, "parse-dir", 0)
	defer func() { span.End(dir) }()

	files, err := ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	span.WithExtra("files", fmt.Sprint(len(files)))

	fileSet := source.NewFileSetWithBase(dir)
	fileSet.SetNormalizeNFC(opts.NormalizeNFC)
	result := &DirResult{
		FileSet: fileSet,
		Files:   make([]ParseDirResult, len(files)),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	if len(files) == 0 {
		return result, nil
	}

	sink := opts.progress()
	pipeline.EmitQueued(sink, files, pipeline.StageParse)

	// FileSet не потокобезопасен, поэтому загружаем всё заранее
	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", span.ID())
	idx := timer.Begin("load")
	loadErrors := make(map[string]error)
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		result.Files[i] = ParseDirResult{Path: path, FileID: fileID, Bag: diag.NewBag(opts.MaxDiagnostics)}
	}
	timer.End(idx, fmt.Sprintf("%d files", len(files)))
	loadSpan.WithExtra("failed", fmt.Sprint(len(loadErrors))).End("")

	jobs := opts.jobs(len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	parseSpan := trace.Begin(tracer, trace.ScopePass, "parse", span.ID()).WithExtra("jobs", fmt.Sprint(jobs))
	idx = timer.Begin("parse")
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// индекс i уникален для горутины, мьютекс не нужен
			res := &result.Files[i]

			if loadErr, failed := loadErrors[path]; failed {
				res.Err = loadErr
				res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: res.FileID}, loadErr.Error()))
				sink.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: loadErr})
				trace.Point(tracer, trace.ScopeFile, "load-error", path, parseSpan.ID())
				return nil
			}

			sink.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
			out := parseLoaded(fileSet.Get(res.FileID), opts, res.Bag, opts.KeepTokens, parseSpan.ID())
			res.Tokens = out.Tokens
			res.TokenCount = out.TokenCount
			res.Nodes = out.Nodes
			res.Err = out.Err
			res.Cached = out.Cached
			res.Timings = out.Timings
			sink.OnEvent(out.event(path))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		parseSpan.End("cancelled")
		return result, err
	}

	var cpu time.Duration
	cached := 0
	for i := range result.Files {
		res := &result.Files[i]
		cpu += res.Timings.Sum(pipeline.StageTokenize, pipeline.StageParse)
		if res.Cached {
			cached++
		}
		for _, d := range res.Bag.Items() {
			if !result.Bag.Add(d) {
				break
			}
		}
	}
	result.Bag.Sort()
	result.Bag.Dedup()
	timer.End(idx, fmt.Sprintf("%d jobs, %d cached, cpu %.2f ms", jobs, cached, float64(cpu)/float64(time.Millisecond)))
	parseSpan.WithExtra("cached", fmt.Sprint(cached)).End("")

	result.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(result.Bag, timingPayload{Kind: "parse-dir", Path: dir, TotalMS: result.Timing.TotalMS, Phases: result.Timing.Phases})
	}
	return result, nil
}
