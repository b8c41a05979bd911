package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sexpr/internal/ast"
	"sexpr/internal/diag"
	"sexpr/internal/lexer"
	"sexpr/internal/parser"
	"sexpr/internal/source"
	"sexpr/internal/testkit"
	"sexpr/internal/token"
)

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested list", "(a b (c d) e)", "[List([Atom(a), Atom(b), List([Atom(c), Atom(d)]), Atom(e)])]"},
		{"empty input", "", "[]"},
		{"empty list", "()", "[List([])]"},
		{"top level siblings", "a (b) c", "[Atom(a), List([Atom(b)]), Atom(c)]"},
		{"whitespace only", "\n\t ", "[]"},
		{"deeply nested empties", "(())", "[List([List([])])]"},
		{"two forms", "(a) (b)", "[List([Atom(a)]), List([Atom(b)])]"},
		{"glued atoms", "(x(y)z)", "[List([Atom(x), List([Atom(y)]), Atom(z)])]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := parser.ParseString(tt.input)
			require.NoError(t, err)
			require.NotNil(t, nodes)
			assert.Equal(t, tt.want, ast.Debug(nodes))
		})
	}
}

func TestParseUnbalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		side  parser.Side
		index int
		open  int
	}{
		{"unclosed open", "(a", parser.UnclosedOpen, 0, 1},
		{"stray close", "a)", parser.UnmatchedClose, 1, 0},
		{"close before open", ")(", parser.UnmatchedClose, 0, 0},
		{"innermost unclosed", "(a (b (c)", parser.UnclosedOpen, 2, 2},
		{"extra close after balanced", "(a) b)", parser.UnmatchedClose, 4, 0},
		{"lone open", "(", parser.UnclosedOpen, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := parser.ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, nodes, "no partial tree on failure")
			assert.ErrorIs(t, err, parser.ErrUnbalancedParentheses)
			assert.Equal(t, "mismatched parentheses, please make sure your parentheses are paired", err.Error())

			var ue *parser.UnbalancedError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.side, ue.Side)
			assert.Equal(t, tt.index, ue.Index)
			assert.Equal(t, tt.open, ue.Open)
		})
	}
}

func TestParseFailsFastOnFirstStrayClose(t *testing.T) {
	// первая лишняя ')' обрывает разбор, последующие ошибки не важны
	_, err := parser.ParseString("a) ( ) ) (")
	var ue *parser.UnbalancedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, parser.UnmatchedClose, ue.Side)
	assert.Equal(t, 1, ue.Index)
}

func TestParseSpans(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spans.sexp", []byte("x (a (b))")))

	tokens, nodes, err := parser.ParseFile(file, lexer.Options{}, parser.Options{})
	require.NoError(t, err)
	require.Len(t, tokens, 7)
	require.Len(t, nodes, 2)

	assert.Equal(t, source.Span{File: file.ID, Start: 0, End: 1}, nodes[0].NodeSpan())
	outer, ok := nodes[1].(*ast.List)
	require.True(t, ok)
	assert.Equal(t, source.Span{File: file.ID, Start: 2, End: 9}, outer.Span)
	inner, ok := outer.Children[1].(*ast.List)
	require.True(t, ok)
	assert.Equal(t, source.Span{File: file.ID, Start: 5, End: 8}, inner.Span)
}

func TestParseReportsDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.sexp", []byte("(a) b)")))
	bag := diag.NewBag(10)

	_, _, err := parser.ParseFile(file, lexer.Options{}, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	require.Error(t, err)
	require.Equal(t, 1, bag.Len())

	d := bag.Items()[0]
	assert.Equal(t, diag.SynUnbalancedParens, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, source.Span{File: file.ID, Start: 5, End: 6}, d.Primary)
	require.Len(t, d.Notes, 2)
	assert.Equal(t, "unmatched ')' at token 4", d.Notes[0].Msg)
	assert.Equal(t, source.Span{File: file.ID, Start: 0, End: 1}, d.Notes[1].Span)
}

func TestParseUnclosedDiagnosticPointsAtInnermostOpen(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("open.sexp", []byte("(a\n  (b")))
	bag := diag.NewBag(10)

	_, _, err := parser.ParseFile(file, lexer.Options{}, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	require.Error(t, err)
	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, source.Span{File: file.ID, Start: 5, End: 6}, d.Primary)
	assert.Equal(t, "unclosed '(' at token 2 (2 parentheses left open)", d.Notes[0].Msg)
}

func TestParseIgnoresNonStructuralKinds(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.LParen, Text: "("},
		{Kind: token.Atom, Text: "a"},
		{Kind: token.Invalid},
		{Kind: token.RParen, Text: ")"},
		{Kind: token.EOF},
	}
	nodes, err := parser.Parse(tokens, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "[List([Atom(a)])]", ast.Debug(nodes))
}

var balancedCorpus = []string{
	"(a b (c d) e)",
	"a (b) c",
	"(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1)))))\n(fact 5)",
	"(((((x)))))",
	"() () (())",
	"(a (b (c (d (e)))) f) g (h)",
}

// For balanced input every matched pair becomes one List at its depth and
// every atom token becomes one Atom.
func TestBalancedShapeProperties(t *testing.T) {
	for _, input := range balancedCorpus {
		tokens := lexer.TokenizeString(input)
		nodes, err := parser.Parse(tokens, parser.Options{})
		require.NoError(t, err, input)

		var atomTokens int
		var pairsAtDepth []int
		depth := 0
		for _, tok := range tokens {
			switch tok.Kind {
			case token.Atom:
				atomTokens++
			case token.LParen:
				for len(pairsAtDepth) <= depth {
					pairsAtDepth = append(pairsAtDepth, 0)
				}
				pairsAtDepth[depth]++
				depth++
			case token.RParen:
				depth--
			}
		}

		st := ast.Stats(nodes)
		assert.Equal(t, atomTokens, st.Atoms, input)
		assert.Equal(t, pairsAtDepth, st.ListsAtDepth, input)
		assert.Equal(t, strings.Count(input, "("), st.Lists, input)

		// re-printing and re-parsing preserves the tree
		again, err := parser.ParseString(ast.Sexpr(nodes))
		require.NoError(t, err)
		assert.True(t, ast.Equal(nodes, again), input)
	}
}

func TestParseDeepNestingIsStackSafe(t *testing.T) {
	const depth = 200000
	input := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)

	nodes, err := parser.ParseString(input)
	require.NoError(t, err)
	st := ast.Stats(nodes)
	assert.Equal(t, depth, st.MaxDepth)
	assert.Equal(t, 1, st.Atoms)
}

func TestParsedSpansHoldInvariants(t *testing.T) {
	inputs := []string{
		"(a b (c d) e)",
		"a (b) c\n(x(y)z)",
		"((( )))  (\u00e9t\u00e9)",
		strings.Repeat("(", 500) + "deep" + strings.Repeat(")", 500),
	}
	for _, src := range inputs {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("spans.sx", []byte(src)))
		_, nodes, err := parser.ParseFile(file, lexer.Options{}, parser.Options{})
		require.NoError(t, err)
		require.NoError(t, testkit.CheckSpanInvariants(nodes, file), src)
	}
}
