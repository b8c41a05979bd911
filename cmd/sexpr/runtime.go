package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sexpr/internal/prof"
	"sexpr/internal/trace"
)

// runtimeHooks owns the profilers and the tracer for one command run.
type runtimeHooks struct {
	session *prof.Session
	tracer  trace.Tracer
	cleaned bool
}

func addRuntimeFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file on exit")
	flags.String("runtime-trace", "", "write Go runtime trace to file")
	flags.String("trace", "", "write pipeline trace to file (\"-\" for stderr)")
	flags.String("trace-level", "phase", "trace level (off|phase|detail)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
}

// setup inspects the persistent profiling and tracing flags, starts what
// they ask for and attaches the tracer to the command context.
func (h *runtimeHooks) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	tracePath, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelValue, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatValue, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level := trace.LevelOff
	if tracePath != "" {
		if level, err = trace.ParseLevel(levelValue); err != nil {
			return err
		}
	}
	format, err := trace.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	if cfg.Enabled() {
		if h.session, err = prof.Start(cfg); err != nil {
			return err
		}
	}

	output := cmd.ErrOrStderr()
	if tracePath != "-" {
		output = nil
	}
	h.tracer, err = trace.New(trace.Config{Level: level, Format: format, Output: output, OutputPath: tracePath})
	if err != nil {
		h.cleanup()
		return err
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), h.tracer))
	return nil
}

// cleanup stops profilers and flushes the tracer. Safe to call more than once.
func (h *runtimeHooks) cleanup() {
	if h.cleaned {
		return
	}
	h.cleaned = true
	if h.tracer != nil {
		if err := h.tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close trace: %v\n", err)
		}
	}
	if err := h.session.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
