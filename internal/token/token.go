package token

import (
	"sexpr/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsParen reports whether the token is one of the structural tokens.
func (t Token) IsParen() bool {
	return t.Kind == LParen || t.Kind == RParen
}

// IsAtom reports whether the token is an atom.
func (t Token) IsAtom() bool { return t.Kind == Atom }

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return t.Text
}

// Texts returns the text of every token in order.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
