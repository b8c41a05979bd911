package driver

import (
	"runtime"
	"strings"

	"sexpr/internal/pipeline"
	"sexpr/internal/trace"
)

// DefaultExtensions are the file suffixes ParseDir picks up when
// Options.Extensions is empty.
var DefaultExtensions = []string{".sx", ".sexp", ".lisp"}

// Options configures loading, tokenizing and parsing.
type Options struct {
	MaxDiagnostics int
	// Jobs bounds ParseDir parallelism; <= 0 means GOMAXPROCS.
	Jobs      int
	MaxTokens uint32
	Cache     *DiskCache
	Progress  pipeline.ProgressSink
	// Extensions filter ParseDir inputs, with the leading dot.
	Extensions   []string
	NormalizeNFC bool
	// KeepTokens keeps token slices in ParseDir results.
	KeepTokens bool
	// Timings appends an OBS6001 diagnostic with the phase report.
	Timings bool
	// Tracer receives driver, stage and per-file spans; nil disables tracing.
	Tracer trace.Tracer
}

func (o Options) extensions() map[string]struct{} {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, files), 1)
}

func (o Options) progress() pipeline.ProgressSink {
	if o.Progress == nil {
		return pipeline.NopSink{}
	}
	return o.Progress
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}
