// Package trace records begin/end spans for the reader pipeline.
//
// Enable tracing via command-line flags:
//
//	sexpr parse --trace=- --trace-level=detail ./examples
//
// Levels:
//
//   - LevelOff: no tracing
//   - LevelPhase: command and pipeline stage boundaries
//   - LevelDetail: additionally one span per file
//
// Tracers travel through the pipeline via context or driver options:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
