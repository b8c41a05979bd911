package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sexpr/internal/diag"
	"sexpr/internal/lexer"
	"sexpr/internal/parser"
	"sexpr/internal/source"
)

func TestPrettyPlainCaret(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sx", []byte("(a b))\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnbalancedParens, source.Span{File: id, Start: 5, End: 6}, "mismatched parentheses"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	want := "t.sx:1:6: ERROR SYN2001: mismatched parentheses\n" +
		"1 | (a b))\n" +
		"  |      ^\n"
	assert.Equal(t, want, buf.String())
}

func TestPrettyWideRunesUnderline(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.sx", []byte("(日本 x)"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LexTokenLimit, source.Span{File: id, Start: 1, End: 7}, "wide"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "w.sx:1:2: WARNING LEX1001: wide", lines[0])
	assert.Equal(t, "  |  ^~~~", lines[2])
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("n.sx", []byte("(a\n b))\n"))
	bag := diag.NewBag(0)
	_, err := parser.Parse(lexer.Tokenize(fs.Get(id), lexer.Options{}), parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	require.Error(t, err)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()

	assert.Contains(t, out, "n.sx:2:4: ERROR SYN2001: ")
	assert.Contains(t, out, "1 | (a\n2 |  b))\n")
	assert.Contains(t, out, "note: n.sx:2:4: unmatched ')' at token 4")
	assert.Contains(t, out, "note: n.sx:1:1: last balanced group started here")
}

func TestPrettyWithoutFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 7}, "failed to open file: nope.sx"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	assert.Equal(t, "ERROR IO4001: failed to open file: nope.sx\n", buf.String())
}

func TestPrettyEmptyFileSkipsSnippet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("gone.sx", nil)
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to open file: gone.sx"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	assert.Equal(t, "gone.sx:1:1: ERROR IO4001: failed to open file: gone.sx\n", buf.String())
}

func TestPathModeRoundTrip(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		assert.Equal(t, m, ParsePathMode(m.String()))
	}
	assert.Equal(t, PathModeAuto, ParsePathMode("bogus"))
}
