package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sexpr/internal/version"
)

type versionOptions struct {
	format string
	full   bool
	color  bool
}

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show sexpr build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			full, err := cmd.Flags().GetBool("full")
			if err != nil {
				return fmt.Errorf("failed to get full flag: %w", err)
			}
			colorFlag, err := cmd.Flags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			colorMode, err := readTriState("color", colorFlag)
			if err != nil {
				return err
			}
			opts := versionOptions{
				format: strings.ToLower(format),
				full:   full,
				color:  colorMode.enabled(cmd.OutOrStdout()),
			}
			if err := checkFormat(opts.format, "pretty", "json"); err != nil {
				return err
			}
			info := version.Get()
			if opts.format == "json" {
				return renderVersionJSON(cmd.OutOrStdout(), info)
			}
			renderVersionPretty(cmd.OutOrStdout(), info, opts)
			return nil
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("full", false, "show commit, message, build date and Go version")
	return cmd
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	fmt.Fprintf(out, "sexpr %s\n", version.Colored(info.Version, opts.color))
	if !opts.full {
		return
	}
	fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	fmt.Fprintf(out, "go:      %s\n", info.GoVersion)
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{Tool: "sexpr", Info: info})
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
