package lexer

import (
	"fmt"

	"sexpr/internal/diag"
	"sexpr/internal/source"
	"sexpr/internal/token"
)

// Lexer splits a file into atoms and parentheses.
type Lexer struct {
	file   *source.File
	text   string
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	count  uint32
	halted bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		text:   file.Text(),
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next token. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.halted {
		return lx.eof()
	}

	lx.skipWhitespace()
	if lx.cursor.EOF() {
		return lx.eof()
	}

	if lx.opts.MaxTokens > 0 && lx.count >= lx.opts.MaxTokens {
		lx.halt()
		return lx.eof()
	}

	var tok token.Token
	switch lx.cursor.Peek() {
	case '(':
		tok = lx.scanParen(token.LParen)
	case ')':
		tok = lx.scanParen(token.RParen)
	default:
		tok = lx.scanAtom()
	}
	lx.count++
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() {
		r, size := lx.peekRune()
		if !isSpaceRune(r, size) {
			return
		}
		lx.cursor.Advance(size)
	}
}

func (lx *Lexer) scanParen(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.makeToken(kind, start)
}

// scanAtom consumes a maximal run of non-whitespace, non-parenthesis runes.
func (lx *Lexer) scanAtom() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if isParenByte(lx.cursor.Peek()) {
			break
		}
		r, size := lx.peekRune()
		if isSpaceRune(r, size) {
			break
		}
		lx.cursor.Advance(size)
	}
	return lx.makeToken(token.Atom, start)
}

func (lx *Lexer) makeToken(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: lx.text[sp.Start:sp.End],
	}
}

func (lx *Lexer) halt() {
	lx.halted = true
	rest := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Limit}
	diag.ReportError(lx.opts.Reporter, diag.LexTokenLimit, rest,
		fmt.Sprintf("token limit of %d reached, the rest of the input was not tokenized", lx.opts.MaxTokens)).
		Emit()
	lx.cursor.Off = lx.cursor.Limit
}

func (lx *Lexer) eof() token.Token {
	return token.Token{
		Kind: token.EOF,
		Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
	}
}

// Tokenize lexes the whole file and returns its tokens without the trailing EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TokenizeString lexes in-memory text through a throwaway virtual file.
func TokenizeString(s string) []token.Token {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<string>", []byte(s)))
	return Tokenize(file, Options{})
}
