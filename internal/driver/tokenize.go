package driver

import (
	"fmt"
	"time"

	"sexpr/internal/diag"
	"sexpr/internal/lexer"
	"sexpr/internal/observ"
	"sexpr/internal/pipeline"
	"sexpr/internal/source"
	"sexpr/internal/token"
	"sexpr/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Timing  observ.Report
}

// Tokenize loads path and splits it into tokens. A load failure is returned
// as *source.UnavailableError and nothing else runs.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	timer := observ.NewTimer()
	span := trace.Begin(opts.tracer(), trace.ScopeDriver, "tokenize", 0)
	fs, file, err := loadFile(path, opts, timer, span.ID())
	if err != nil {
		span.End("load failed")
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	sink := opts.progress()
	sink.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageTokenize, Status: pipeline.StatusWorking})

	lexSpan := trace.Begin(opts.tracer(), trace.ScopePass, "lex", span.ID())

	start := time.Now()
	idx := timer.Begin("tokenize")
	tokens := lexer.Tokenize(file, lexer.Options{
		MaxTokens: opts.MaxTokens,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	timer.End(idx, fmt.Sprintf("%d tokens", len(tokens)))
	lexSpan.WithExtra("tokens", fmt.Sprint(len(tokens))).End("")
	sink.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageTokenize, Status: pipeline.StatusDone, Elapsed: time.Since(start)})

	report := timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{Kind: "tokenize", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}

	span.End(file.Path)

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Timing:  report,
	}, nil
}

// loadFile reads a single file into a fresh FileSet.
func loadFile(path string, opts Options, timer *observ.Timer, parent uint64) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(opts.NormalizeNFC)

	span := trace.Begin(opts.tracer(), trace.ScopePass, "load", parent)
	idx := timer.Begin("load")
	fileID, err := fs.Load(path)
	if err != nil {
		timer.End(idx, "failed")
		span.End("failed")
		opts.progress().OnEvent(pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
		return nil, nil, err
	}
	file := fs.Get(fileID)
	timer.End(idx, fmt.Sprintf("%d bytes", len(file.Content)))
	span.WithExtra("bytes", fmt.Sprint(len(file.Content))).End(path)
	return fs, file, nil
}
