package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sexpr/internal/diag"
	"sexpr/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		// OBS-диагностики не привязаны к файлу
		if f == nil || d.Code == diag.ObsTimings {
			fmt.Fprintf(w, "%s %s: %s\n",
				p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), p.bold.Sprint(d.Message))
			continue
		}

		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			displayPath(fs, f, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), p.bold.Sprint(d.Message))
		if len(f.Content) > 0 {
			writeSnippet(w, fs, f, d.Primary, int(opts.Context), p)
		}

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			nStart, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				displayPath(fs, nf, opts.PathMode), nStart.Line, nStart.Col, n.Msg)
		}
	}
}

// writeSnippet prints up to ctx lines before the primary line, the line
// itself and a caret underline covering the span on that line.
func writeSnippet(w io.Writer, fs *source.FileSet, f *source.File, sp source.Span, ctx int, p palette) {
	start, end := fs.Resolve(sp)
	first := start.Line
	for first > 1 && int(start.Line-first) < ctx {
		first--
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := displayLine(f.GetLine(ln))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(start.Line)
	prefix := sliceLine(line, 0, int(start.Col)-1)
	endCol := len(line) + 1
	if end.Line == start.Line {
		endCol = int(end.Col)
	}
	marked := sliceLine(line, int(start.Col)-1, endCol-1)

	pad := runewidth.StringWidth(displayLine(prefix))
	width := max(runewidth.StringWidth(displayLine(marked)), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func sliceLine(line string, from, to int) string {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	return line[from:to]
}

// displayLine заменяет табы пробелами, чтобы колонка каретки совпадала.
func displayLine(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
