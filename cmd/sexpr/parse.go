package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sexpr/internal/ast"
	"sexpr/internal/diag"
	"sexpr/internal/diagfmt"
	"sexpr/internal/driver"
	"sexpr/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file|directory>",
		Short: "Parse a file or directory and print the tree",
		Long: `Parse builds the nested tree of atoms and lists for a file, or for every
matching file in a directory (in parallel), and prints it`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "", "output format (debug|tree|json|sexpr); default from sexpr.toml or debug")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse parsed trees from the on-disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached tree before parsing (implies --cache)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("tokens", false, "print the token list before the tree")
	cmd.Flags().Bool("spans", false, "include positions in tree and json output")
	return cmd
}

type parseFlags struct {
	format string
	ui     triState
	tokens bool
	spans  bool
}

func readParseFlags(cmd *cobra.Command, s *settings) (parseFlags, driver.Options, error) {
	var (
		pf   parseFlags
		opts = s.driverOptions()
		err  error
	)
	flags := cmd.Flags()
	if pf.format, err = flags.GetString("format"); err != nil {
		return pf, opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if pf.format == "" {
		pf.format = s.cfg.Output.Format
	}
	if err := checkFormat(pf.format, "debug", "tree", "json", "sexpr"); err != nil {
		return pf, opts, err
	}
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return pf, opts, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	cache, err := flags.GetBool("cache")
	if err != nil {
		return pf, opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := flags.GetBool("clear-cache")
	if err != nil {
		return pf, opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	opts.Cache = s.openCache(cmd, cache || clearCache || s.cfg.Parse.Cache)
	if clearCache && opts.Cache != nil {
		if err := opts.Cache.DropAll(); err != nil {
			return pf, opts, fmt.Errorf("failed to clear parse cache: %w", err)
		}
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return pf, opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if pf.ui, err = readTriState("ui", uiValue); err != nil {
		return pf, opts, err
	}
	if pf.tokens, err = flags.GetBool("tokens"); err != nil {
		return pf, opts, fmt.Errorf("failed to get tokens flag: %w", err)
	}
	if pf.spans, err = flags.GetBool("spans"); err != nil {
		return pf, opts, fmt.Errorf("failed to get spans flag: %w", err)
	}
	opts.KeepTokens = pf.tokens
	return pf, opts, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pf, opts, err := readParseFlags(cmd, s)
	if err != nil {
		return err
	}

	target := args[0]
	// Проверяем, файл это или директория
	if st, statErr := os.Stat(target); statErr == nil && st.IsDir() {
		return runParseDir(cmd, s, pf, opts, target)
	}

	result, err := driver.Parse(target, opts)
	if err != nil {
		return err
	}
	s.reportDiagnostics(cmd, result.Bag, result.FileSet)
	s.printTimings(cmd.ErrOrStderr(), result.Timing)

	out := cmd.OutOrStdout()
	if pf.tokens {
		if err := diagfmt.FormatTokensList(out, result.Tokens); err != nil {
			return err
		}
	}
	// LEX1001 и прочие ошибки: дерево неполное, не печатаем
	if result.Err != nil || result.Bag.HasErrors() {
		return errDiagnosticsReported
	}
	header := result.File.FormatPath(diagfmt.ParsePathMode(s.cfg.Output.PathMode).String(), result.FileSet.BaseDir())
	return writeTree(out, pf, header, result.Nodes, result.FileSet)
}

func writeTree(out io.Writer, pf parseFlags, header string, nodes []ast.Node, fs *source.FileSet) error {
	switch pf.format {
	case "tree":
		if !pf.spans {
			fs = nil
		}
		return diagfmt.FormatTreePretty(out, nodes, header, fs)
	case "json":
		return diagfmt.FormatTreeJSON(out, nodes, pf.spans)
	case "sexpr":
		return diagfmt.FormatTreeSexpr(out, nodes)
	default:
		return diagfmt.FormatTreeDebug(out, nodes)
	}
}

type dirFileJSON struct {
	Path   string             `json:"path"`
	Error  string             `json:"error,omitempty"`
	Cached bool               `json:"cached,omitempty"`
	Tree   []diagfmt.NodeJSON `json:"tree"`
}

func runParseDir(cmd *cobra.Command, s *settings, pf parseFlags, opts driver.Options, dir string) error {
	var (
		res *driver.DirResult
		err error
	)
	if !s.quiet && pf.ui.enabled(cmd.ErrOrStderr()) {
		res, err = runParseDirWithUI(cmd.Context(), cmd.ErrOrStderr(), dir, opts)
	} else {
		res, err = driver.ParseDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	s.reportDiagnostics(cmd, res.Bag, res.FileSet)
	s.printTimings(cmd.ErrOrStderr(), res.Timing)

	out := cmd.OutOrStdout()
	pathMode := diagfmt.ParsePathMode(s.cfg.Output.PathMode).String()
	if pf.format == "json" {
		files := make([]dirFileJSON, 0, len(res.Files))
		for _, r := range res.Files {
			entry := dirFileJSON{
				Path:   res.FileSet.Get(r.FileID).FormatPath(pathMode, res.FileSet.BaseDir()),
				Cached: r.Cached,
			}
			if msg := fileError(r); msg != "" {
				entry.Error = msg
			} else {
				entry.Tree = diagfmt.BuildTreeOutput(r.Nodes, pf.spans)
			}
			files = append(files, entry)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(files); err != nil {
			return err
		}
	} else {
		for idx, r := range res.Files {
			displayPath := res.FileSet.Get(r.FileID).FormatPath(pathMode, res.FileSet.BaseDir())
			if !s.quiet && pf.format != "tree" {
				fmt.Fprintf(out, "== %s ==\n", displayPath)
			}
			if pf.tokens && r.Tokens != nil {
				if err := diagfmt.FormatTokensList(out, r.Tokens); err != nil {
					return err
				}
			}
			if fileError(r) == "" {
				if err := writeTree(out, pf, displayPath, r.Nodes, res.FileSet); err != nil {
					return err
				}
			}
			if !s.quiet && idx < len(res.Files)-1 {
				fmt.Fprintln(out)
			}
		}
	}

	if res.Failed() > 0 || res.Bag.HasErrors() {
		return errDiagnosticsReported
	}
	return nil
}

// fileError returns why a file's tree is unusable: its load or parse error,
// or the first error diagnostic (a truncated token stream). Empty when the
// tree is complete.
func fileError(r driver.ParseDirResult) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	for _, d := range r.Bag.Items() {
		if d.Severity == diag.SevError {
			return d.Message
		}
	}
	return ""
}
