package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRune decodes the rune under the cursor. Invalid UTF-8 comes back as
// utf8.RuneError with size 1 and is treated as an ordinary atom byte.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func isParenByte(b byte) bool {
	return b == '(' || b == ')'
}

func isSpaceRune(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return false
	}
	return unicode.IsSpace(r)
}
