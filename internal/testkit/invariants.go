package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sexpr/internal/ast"
	"sexpr/internal/source"
)

// CheckSpanInvariants checks the spans of a tree parsed from sf:
// 1) every span is non-empty, points at sf and ends within the content
// 2) an atom span covers exactly the atom text
// 3) a list span starts at '(' and ends after ')'
// 4) children lie strictly inside their list, in order, without overlap;
// top-level forms are ordered the same way
func CheckSpanInvariants(nodes []ast.Node, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	type frame struct {
		nodes []ast.Node
		lo    uint32 // children must start at or after lo
		hi    uint32 // and end at or before hi
	}
	stack := []frame{{nodes: nodes, lo: 0, hi: lenContent}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		prevEnd := fr.lo
		for _, n := range fr.nodes {
			sp := n.NodeSpan()
			if sp.End <= sp.Start {
				return fmt.Errorf("empty span: %v", sp)
			}
			if sp.File != sf.ID {
				return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
			}
			if sp.Start < prevEnd || sp.End > fr.hi {
				return fmt.Errorf("span %v is outside [%d, %d) or overlaps its sibling", sp, prevEnd, fr.hi)
			}
			prevEnd = sp.End

			text := sf.Content[sp.Start:sp.End]
			switch node := n.(type) {
			case *ast.Atom:
				if string(text) != node.Text {
					return fmt.Errorf("atom %q does not match source %q at %v", node.Text, text, sp)
				}
			case *ast.List:
				if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
					return fmt.Errorf("list span %v is not delimited by parentheses: %q", sp, text)
				}
				stack = append(stack, frame{nodes: node.Children, lo: sp.Start + 1, hi: sp.End - 1})
			default:
				return fmt.Errorf("unexpected node %T", n)
			}
		}
	}
	return nil
}
