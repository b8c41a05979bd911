package parser

import (
	"sexpr/internal/ast"
	"sexpr/internal/diag"
	"sexpr/internal/lexer"
	"sexpr/internal/source"
	"sexpr/internal/token"
)

type Options struct {
	// Reporter receives one SynUnbalancedParens diagnostic on failure; may be nil.
	Reporter diag.Reporter
}

// frame is a list still being collected: its children so far and the
// position of the '(' that opened it.
type frame struct {
	children []ast.Node
	open     int
	span     source.Span
}

// Parse builds the top-level forms from tokens in a single left-to-right
// pass. '(' pushes the current accumulator and starts a new one, ')' wraps
// the accumulator into a List and appends it to the popped parent.
//
// On a stray ')' or an unclosed '(' Parse returns nil and an
// *UnbalancedError; no partial tree is ever returned.
func Parse(tokens []token.Token, opts Options) ([]ast.Node, error) {
	var (
		stack   []frame
		current = frame{open: -1}
	)

	for i, tok := range tokens {
		switch tok.Kind {
		case token.LParen:
			stack = append(stack, current)
			current = frame{open: i, span: tok.Span}

		case token.RParen:
			if len(stack) == 0 {
				return nil, fail(opts, &UnbalancedError{Side: UnmatchedClose, Index: i, Span: tok.Span}, tokens)
			}
			children := current.children
			if children == nil {
				children = []ast.Node{}
			}
			list := ast.NewList(children, current.span.Cover(tok.Span))

			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			current.children = append(current.children, list)

		case token.Atom:
			current.children = append(current.children, ast.NewAtom(tok.Text, tok.Span))

		default:
			// EOF/Invalid не несут структуры
		}
	}

	if len(stack) > 0 {
		// innermost unclosed '(' is the one being collected right now
		return nil, fail(opts, &UnbalancedError{
			Side:  UnclosedOpen,
			Index: current.open,
			Span:  current.span,
			Open:  len(stack),
		}, tokens)
	}

	if current.children == nil {
		return []ast.Node{}, nil
	}
	return current.children, nil
}

func fail(opts Options, err *UnbalancedError, tokens []token.Token) error {
	if opts.Reporter == nil {
		return err
	}
	b := diag.ReportError(opts.Reporter, diag.SynUnbalancedParens, err.Span, err.Error()).
		WithNote(err.Span, err.Detail())
	if err.Side == UnmatchedClose {
		if last := lastClosedOpen(tokens, err.Index); last >= 0 {
			b.WithNote(tokens[last].Span, "last balanced group started here")
		}
	}
	b.Emit()
	return err
}

// lastClosedOpen returns the index of the '(' that opened the outermost
// group closed just before the stray ')' at idx, or -1.
func lastClosedOpen(tokens []token.Token, idx int) int {
	depth := 0
	for i := idx - 1; i >= 0; i-- {
		switch tokens[i].Kind {
		case token.RParen:
			depth++
		case token.LParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseFile tokenizes and builds a whole file.
func ParseFile(file *source.File, lexOpts lexer.Options, opts Options) ([]token.Token, []ast.Node, error) {
	tokens := lexer.Tokenize(file, lexOpts)
	nodes, err := Parse(tokens, opts)
	return tokens, nodes, err
}

// ParseString tokenizes and builds in-memory text.
func ParseString(s string) ([]ast.Node, error) {
	return Parse(lexer.TokenizeString(s), Options{})
}
