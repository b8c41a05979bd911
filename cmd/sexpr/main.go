package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sexpr/internal/version"
)

// errDiagnosticsReported is returned once diagnostics describing the failure
// have already been printed; main only sets the exit status for it.
var errDiagnosticsReported = errors.New("errors reported")

// newRootCmd builds the command tree. The returned cleanup stops profilers
// and closes the tracer; it must run after Execute even when it failed.
func newRootCmd() (*cobra.Command, func()) {
	hooks := &runtimeHooks{}
	rootCmd := &cobra.Command{
		Use:           "sexpr",
		Short:         "S-expression reader",
		Long:          `sexpr splits text into atoms and parentheses and builds nested lists from them, rejecting unbalanced input`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return hooks.setup(cmd)
		},
	}

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	rootCmd.PersistentFlags().String("config", "", "path to sexpr.toml (default: searched upwards from the working directory)")
	addRuntimeFlags(rootCmd)
	return rootCmd, hooks.cleanup
}

// main builds the command tree and executes it. Any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd, cleanup := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	stop()
	if err != nil {
		if !errors.Is(err, errDiagnosticsReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
