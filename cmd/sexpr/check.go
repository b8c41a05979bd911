package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sexpr/internal/diag"
	"sexpr/internal/diagfmt"
	"sexpr/internal/driver"
	"sexpr/internal/observ"
	"sexpr/internal/source"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file|directory>",
		Short: "Report unbalanced parentheses without printing trees",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format, "pretty", "json", "short"); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts := s.driverOptions()
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	// в JSON тайминги едут отдельной диагностикой OBS6001
	opts.Timings = s.timings && format == "json"

	var (
		bag    *diag.Bag
		fs     *source.FileSet
		files  int
		timing observ.Report
	)
	target := args[0]
	if st, statErr := os.Stat(target); statErr == nil && st.IsDir() {
		res, err := driver.ParseDir(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		bag, fs, files, timing = res.Bag, res.FileSet, len(res.Files), res.Timing
	} else {
		res, err := driver.Parse(target, opts)
		if err != nil {
			return err
		}
		bag, fs, files, timing = res.Bag, res.FileSet, 1, res.Timing
	}
	bag.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.ParsePathMode(s.cfg.Output.PathMode),
			IncludeNotes:     s.cfg.Diagnostics.Notes,
		}); err != nil {
			return err
		}
	case "short":
		fmt.Fprint(out, diag.FormatShortDiagnostics(bag.Items(), fs, s.cfg.Diagnostics.Notes))
	default:
		diagfmt.Pretty(out, bag, fs, s.prettyOpts())
		s.printTimings(cmd.ErrOrStderr(), timing)
	}

	errorsCount := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errorsCount++
		}
	}
	if !s.quiet && format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s): %d error(s)\n", files, errorsCount)
	}
	if bag.HasErrors() {
		return errDiagnosticsReported
	}
	return nil
}
