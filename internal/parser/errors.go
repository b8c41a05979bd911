package parser

import (
	"errors"
	"fmt"

	"sexpr/internal/source"
)

// ErrUnbalancedParentheses is matched by every structural failure of Parse.
var ErrUnbalancedParentheses = errors.New("mismatched parentheses, please make sure your parentheses are paired")

// Side tells which direction of the mismatch was detected.
type Side uint8

const (
	// UnmatchedClose is a ')' with no open '(' before it.
	UnmatchedClose Side = iota + 1
	// UnclosedOpen is a '(' still open at end of input.
	UnclosedOpen
)

func (s Side) String() string {
	switch s {
	case UnmatchedClose:
		return "unmatched ')'"
	case UnclosedOpen:
		return "unclosed '('"
	}
	return "unknown"
}

// UnbalancedError describes where the bracket matching failed.
type UnbalancedError struct {
	Side Side
	// Index of the offending token: the stray ')' or the innermost '(' left open.
	Index int
	Span  source.Span
	// Open is the number of '(' still open when the error was detected.
	Open int
}

func (e *UnbalancedError) Error() string {
	return ErrUnbalancedParentheses.Error()
}

// Detail returns a message naming the side and token index.
func (e *UnbalancedError) Detail() string {
	if e.Side == UnclosedOpen && e.Open > 1 {
		return fmt.Sprintf("%s at token %d (%d parentheses left open)", e.Side, e.Index, e.Open)
	}
	return fmt.Sprintf("%s at token %d", e.Side, e.Index)
}

func (e *UnbalancedError) Is(target error) bool {
	return target == ErrUnbalancedParentheses
}
