package fuzztests

import (
	"strings"
	"testing"
	"unicode"

	"sexpr/internal/lexer"
	"sexpr/internal/source"
	"sexpr/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sx", input))
		tokens := lexer.Tokenize(file, lexer.Options{})

		opens, closes := 0, 0
		for _, b := range input {
			switch b {
			case '(':
				opens++
			case ')':
				closes++
			}
		}

		var gotOpens, gotCloses int
		var prevEnd uint32
		for i, tok := range tokens {
			if tok.Span.Start < prevEnd {
				t.Fatalf("token %d overlaps the previous one: %v", i, tok.Span)
			}
			prevEnd = tok.Span.End
			if string(file.Content[tok.Span.Start:tok.Span.End]) != tok.Text {
				t.Fatalf("token %d text %q does not match its span %v", i, tok.Text, tok.Span)
			}
			switch tok.Kind {
			case token.LParen:
				gotOpens++
			case token.RParen:
				gotCloses++
			case token.Atom:
				if tok.Text == "" {
					t.Fatalf("empty atom at %d", i)
				}
				if strings.ContainsAny(tok.Text, "()") || strings.IndexFunc(tok.Text, unicode.IsSpace) >= 0 {
					t.Fatalf("atom %q contains a delimiter", tok.Text)
				}
			default:
				t.Fatalf("unexpected token kind %v", tok.Kind)
			}
		}
		if gotOpens != opens || gotCloses != closes {
			t.Fatalf("paren tokens %d/%d, input has %d/%d", gotOpens, gotCloses, opens, closes)
		}

		// повторная токенизация склеенного текста даёт тот же результат
		again := lexer.TokenizeString(strings.Join(token.Texts(tokens), " "))
		if strings.Join(token.Texts(again), "\x00") != strings.Join(token.Texts(tokens), "\x00") {
			t.Fatalf("retokenizing joined texts changed the sequence")
		}
	})
}
