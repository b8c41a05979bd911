package lexer

import (
	"sexpr/internal/diag"
)

// Options tunes the lexer. The zero value lexes the whole input.
type Options struct {
	// MaxTokens stops lexing after this many tokens; 0 means unlimited.
	MaxTokens uint32
	// Reporter может быть nil — тогда превышение лимита просто обрывает поток.
	Reporter diag.Reporter
}
