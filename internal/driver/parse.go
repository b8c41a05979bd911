package driver

import (
	"fmt"
	"time"

	"sexpr/internal/ast"
	"sexpr/internal/diag"
	"sexpr/internal/lexer"
	"sexpr/internal/observ"
	"sexpr/internal/parser"
	"sexpr/internal/pipeline"
	"sexpr/internal/source"
	"sexpr/internal/token"
	"sexpr/internal/trace"
)

// ParseResult holds one parsed file. On unbalanced input Err is set, Nodes
// is nil and Bag carries the SYN2001 diagnostic.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Nodes   []ast.Node
	Err     error
	Cached  bool
	Bag     *diag.Bag
	Timing  observ.Report
}

// Parse loads, tokenizes and builds path. Only a load failure is returned as
// error; parse failures are reported in the result.
func Parse(path string, opts Options) (*ParseResult, error) {
	timer := observ.NewTimer()
	span := trace.Begin(opts.tracer(), trace.ScopeDriver, "parse", 0)
	fs, file, err := loadFile(path, opts, timer, span.ID())
	if err != nil {
		span.End("load failed")
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	sink := opts.progress()
	sink.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})

	out := parseLoaded(file, opts, bag, true, span.ID())
	sink.OnEvent(out.event(path))
	recordPhases(timer, out)
	span.End(file.Path)

	report := timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{Kind: "parse", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tokens:  out.Tokens,
		Nodes:   out.Nodes,
		Err:     out.Err,
		Cached:  out.Cached,
		Bag:     bag,
		Timing:  report,
	}, nil
}

// fileOutcome is what tokenizing and building one loaded file produced.
type fileOutcome struct {
	Tokens     []token.Token
	TokenCount int
	Nodes      []ast.Node
	Err        error
	Cached     bool
	Timings    pipeline.Timings
}

func (o fileOutcome) event(path string) pipeline.Event {
	evt := pipeline.Event{
		File:    path,
		Stage:   pipeline.StageParse,
		Status:  pipeline.StatusDone,
		Err:     o.Err,
		Elapsed: o.Timings.Sum(pipeline.StageTokenize, pipeline.StageParse),
	}
	switch {
	case o.Err != nil:
		evt.Status = pipeline.StatusError
	case o.Cached:
		evt.Status = pipeline.StatusCached
	}
	return evt
}

// parseLoaded runs the tokenizer and the structure builder over file,
// consulting the cache first. Only clean parses (no diagnostics) are cached.
func parseLoaded(file *source.File, opts Options, bag *diag.Bag, keepTokens bool, parent uint64) (out fileOutcome) {
	span := trace.Begin(opts.tracer(), trace.ScopeFile, "file", parent)
	defer func() {
		status := out.event(file.Path).Status
		span.WithExtra("status", string(status)).
			WithExtra("tokens", fmt.Sprint(out.TokenCount)).
			End(file.Path)
	}()

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor(file, opts.MaxTokens)
		start := time.Now()
		if nodes, count, ok := opts.Cache.LoadTree(key, file); ok {
			out.Nodes, out.TokenCount, out.Cached = nodes, count, true
			out.Timings.Add(pipeline.StageParse, time.Since(start))
			if keepTokens {
				out.Tokens = lexer.Tokenize(file, lexer.Options{MaxTokens: opts.MaxTokens})
			}
			return out
		}
	}

	reporter := &diag.BagReporter{Bag: bag}
	before := bag.Len()

	start := time.Now()
	tokens := lexer.Tokenize(file, lexer.Options{MaxTokens: opts.MaxTokens, Reporter: reporter})
	out.Timings.Add(pipeline.StageTokenize, time.Since(start))

	start = time.Now()
	out.Nodes, out.Err = parser.Parse(tokens, parser.Options{Reporter: reporter})
	out.Timings.Add(pipeline.StageParse, time.Since(start))
	out.TokenCount = len(tokens)
	if keepTokens {
		out.Tokens = tokens
	}

	if opts.Cache != nil && out.Err == nil && bag.Len() == before {
		// кэш best-effort: ошибка записи не ломает разбор
		_ = opts.Cache.StoreTree(key, file, len(tokens), out.Nodes)
	}
	return out
}

func recordPhases(timer *observ.Timer, out fileOutcome) {
	if out.Cached {
		timer.Record("parse", out.Timings.Duration(pipeline.StageParse), "cached")
		return
	}
	timer.Record("tokenize", out.Timings.Duration(pipeline.StageTokenize), fmt.Sprintf("%d tokens", out.TokenCount))
	note := ""
	if out.Err != nil {
		note = "failed"
	}
	timer.Record("parse", out.Timings.Duration(pipeline.StageParse), note)
}
