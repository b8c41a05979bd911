// Package token defines lexical token kinds for the s-expression reader.
// Invariants:
//   - Token.Text is a substring of the file text (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Atom text is never empty and never contains whitespace, '(' or ')'.
//   - Parentheses are always single-character tokens of their own.
package token
