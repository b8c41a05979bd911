package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sexpr/internal/diagfmt"
	"sexpr/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file>",
		Short: "Split a source file into atoms and parentheses",
		Long:  `Tokenize reads a file and prints its tokens: '(' and ')' on their own, every other run of non-whitespace as an atom`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|list)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format, "pretty", "json", "list"); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], s.driverOptions())
	if err != nil {
		return err
	}
	s.reportDiagnostics(cmd, result.Bag, result.FileSet)
	s.printTimings(cmd.ErrOrStderr(), result.Timing)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
	case "list":
		err = diagfmt.FormatTokensList(out, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	// токены напечатаны, но поток обрезан лимитом
	if result.Bag.HasErrors() {
		return errDiagnosticsReported
	}
	return nil
}
