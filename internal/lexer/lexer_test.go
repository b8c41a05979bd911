package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sexpr/internal/lexer"
	"sexpr/internal/source"
	"sexpr/internal/token"
)

func texts(input string) []string {
	return token.Texts(lexer.TokenizeString(input))
}

func TestTokenizeScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"nested list", "(a b (c d) e)", []string{"(", "a", "b", "(", "c", "d", ")", "e", ")"}},
		{"empty input", "", []string{}},
		{"unclosed open", "(a", []string{"(", "a"}},
		{"stray close", "a)", []string{"a", ")"}},
		{"empty list", "()", []string{"(", ")"}},
		{"top level siblings", "a (b) c", []string{"a", "(", "b", ")", "c"}},
		{"whitespace only", " \t\r\n  ", []string{}},
		{"atom glued to parens", "(abc)", []string{"(", "abc", ")"}},
		{"adjacent parens", "(())", []string{"(", "(", ")", ")"}},
		{"whitespace runs collapse", "  a \n\n\t b  ", []string{"a", "b"}},
		{"trailing atom", "(x) y", []string{"(", "x", ")", "y"}},
		{"punctuation is atom text", "(+ 1.5 -2 'q \"s)", []string{"(", "+", "1.5", "-2", "'q", "\"s", ")"}},
		{"unicode atoms", "(λ  x→y)", []string{"(", "λ", "x→y", ")"}},
		{"unicode whitespace", "a\u00a0b\u2003c\u3000", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(tt.input))
		})
	}
}

func TestTokenKindsAndSpans(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spans.sexp", []byte("(ab  c)")))

	tokens := lexer.Tokenize(file, lexer.Options{})
	require.Len(t, tokens, 4)

	wantKinds := []token.Kind{token.LParen, token.Atom, token.Atom, token.RParen}
	wantSpans := [][2]uint32{{0, 1}, {1, 3}, {5, 6}, {6, 7}}
	for i, tok := range tokens {
		assert.Equal(t, wantKinds[i], tok.Kind, "token %d kind", i)
		assert.Equal(t, wantSpans[i][0], tok.Span.Start, "token %d start", i)
		assert.Equal(t, wantSpans[i][1], tok.Span.End, "token %d end", i)
		assert.Equal(t, file.Text()[tok.Span.Start:tok.Span.End], tok.Text)
		assert.Equal(t, file.ID, tok.Span.File)
	}
}

func TestInvalidUTF8IsAtomText(t *testing.T) {
	got := texts("(a\xffb \xfe)")
	assert.Equal(t, []string{"(", "a\xffb", "\xfe", ")"}, got)
}

func TestNextReturnsEOFForever(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("eof.sexp", []byte("x"))), lexer.Options{})

	assert.Equal(t, "x", lx.Next().Text)
	for range 3 {
		tok := lx.Next()
		assert.Equal(t, token.EOF, tok.Kind)
		assert.Equal(t, uint32(1), tok.Span.Start)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("peek.sexp", []byte("(a)"))), lexer.Options{})

	assert.Equal(t, token.LParen, lx.Peek().Kind)
	assert.Equal(t, token.LParen, lx.Peek().Kind)
	assert.Equal(t, token.LParen, lx.Next().Kind)
	assert.Equal(t, "a", lx.Next().Text)
}

var propertyCorpus = []string{
	"",
	"atom",
	"(a b (c d) e)",
	"((()))",
	")(",
	"(define (square x) (* x x))\n(square 4)",
	"  (a\t(b\n(c)))  d e  ",
	"(((a)",
	"a))",
	"(x(y)z)",
	"(λ (α β) (→ α β))",
}

// Each literal paren becomes exactly one token, and everything else is a
// maximal run without whitespace or parens.
func TestParenCountProperty(t *testing.T) {
	for _, input := range propertyCorpus {
		tokens := lexer.TokenizeString(input)

		var opens, closes int
		var parens strings.Builder
		for i, tok := range tokens {
			switch tok.Kind {
			case token.LParen:
				opens++
				parens.WriteString("(")
			case token.RParen:
				closes++
				parens.WriteString(")")
			case token.Atom:
				require.NotEmpty(t, tok.Text)
				require.False(t, strings.ContainsAny(tok.Text, "() \t\r\n"), "atom %q in %q", tok.Text, input)
				if i+1 < len(tokens) && tokens[i+1].Kind == token.Atom {
					// два атома подряд всегда разделены пробелом в исходнике
					require.Less(t, tok.Span.End, tokens[i+1].Span.Start, "atoms %d,%d of %q not maximal", i, i+1, input)
				}
			default:
				t.Fatalf("unexpected kind %v", tok.Kind)
			}
		}

		assert.Equal(t, strings.Count(input, "("), opens, "input %q", input)
		assert.Equal(t, strings.Count(input, ")"), closes, "input %q", input)

		var want strings.Builder
		for _, r := range input {
			if r == '(' || r == ')' {
				want.WriteRune(r)
			}
		}
		assert.Equal(t, want.String(), parens.String(), "paren order for %q", input)
	}
}

func TestRetokenizeIsIdempotent(t *testing.T) {
	for _, input := range propertyCorpus {
		first := texts(input)
		second := texts(strings.Join(first, " "))
		assert.Equal(t, first, second, "input %q", input)
	}
}
