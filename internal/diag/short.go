package diag

import (
	"fmt"
	"strings"

	"sexpr/internal/source"
)

// FormatShortDiagnostics renders diagnostics one per line:
//
//	path:line:col: SEVERITY CODE message
//
// Notes follow their diagnostic indented by two spaces when includeNotes is set.
// Empty spans of unknown files (I/O failures) print the path as "-".
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s: %s %s %s\n", shortLocation(fs, d.Primary), d.Severity, d.Code.ID(), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s: note: %s\n", shortLocation(fs, n.Span), n.Msg)
		}
	}
	return b.String()
}

func shortLocation(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return "-"
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "-"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}
