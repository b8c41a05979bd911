package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sexpr/internal/diag"
	"sexpr/internal/diagfmt"
	"sexpr/internal/driver"
	"sexpr/internal/observ"
	"sexpr/internal/project"
	"sexpr/internal/source"
	"sexpr/internal/trace"
)

// settings are sexpr.toml values with command-line overrides applied.
type settings struct {
	cfg        project.Config
	configPath string
	color      bool
	quiet      bool
	timings    bool
	tracer     trace.Tracer
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	s := &settings{cfg: project.Default(), tracer: trace.FromContext(cmd.Context())}
	switch {
	case configPath != "":
		m, err := project.LoadManifest(configPath)
		if err != nil {
			return nil, err
		}
		s.cfg, s.configPath = m.Config, m.Path
	default:
		m, ok, err := project.LoadNearest(".")
		if err != nil {
			return nil, err
		}
		if ok {
			s.cfg, s.configPath = m.Config, m.Path
		}
	}

	if flags.Changed("max-diagnostics") {
		if s.cfg.Diagnostics.Max, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if s.cfg.Diagnostics.Max < 0 {
			return nil, fmt.Errorf("--max-diagnostics must be >= 0")
		}
	}
	if flags.Changed("color") {
		if s.cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	colorMode, err := readTriState("color", s.cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	s.color = colorMode.enabled(cmd.ErrOrStderr())

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

func (s *settings) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: s.cfg.Diagnostics.Max,
		Jobs:           s.cfg.Parse.Jobs,
		MaxTokens:      s.cfg.Parse.MaxTokens,
		Extensions:     s.cfg.Source.Extensions,
		NormalizeNFC:   s.cfg.Source.Normalize == "nfc",
		Tracer:         s.tracer,
	}
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   int8(s.cfg.Diagnostics.Context), // #nosec G115 -- validated to 0..10
		PathMode:  diagfmt.ParsePathMode(s.cfg.Output.PathMode),
		ShowNotes: s.cfg.Diagnostics.Notes,
	}
}

// reportDiagnostics prints bag to stderr in pretty form.
func (s *settings) reportDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, s.prettyOpts())
}

func (s *settings) printTimings(w io.Writer, report observ.Report) {
	if !s.timings {
		return
	}
	fmt.Fprint(w, report.String())
}

// openCache opens the parse cache when requested. Failing to open it is a
// warning, not an error.
func (s *settings) openCache(cmd *cobra.Command, enabled bool) *driver.DiskCache {
	if !enabled {
		return nil
	}
	cache, err := driver.OpenDiskCache("sexpr")
	if err != nil {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: parse cache disabled: %v\n", err)
		}
		return nil
	}
	return cache
}
