package ast

import (
	"errors"
	"fmt"

	"sexpr/internal/source"
)

// RecordKind tags a flattened node.
type RecordKind uint8

const (
	RecordAtom RecordKind = iota + 1
	RecordList
)

// Record is one node of a pre-order flattened tree. Lists store the number
// of direct children that follow them.
type Record struct {
	Kind RecordKind  `msgpack:"k"`
	Text string      `msgpack:"t,omitempty"`
	Len  int         `msgpack:"n,omitempty"`
	Span source.Span `msgpack:"s"`
}

var errTruncatedRecords = errors.New("ast: truncated record stream")

// Flatten encodes nodes into a pre-order record slice.
func Flatten(nodes []Node) []Record {
	var out []Record
	Inspect(nodes, func(n Node, _ int) bool {
		switch n := n.(type) {
		case *Atom:
			out = append(out, Record{Kind: RecordAtom, Text: n.Text, Span: n.Span})
		case *List:
			out = append(out, Record{Kind: RecordList, Len: len(n.Children), Span: n.Span})
		}
		return true
	})
	return out
}

// Unflatten rebuilds a tree from records produced by Flatten. The rebuild
// is iterative, mirroring the structure builder's stack of pending lists.
func Unflatten(records []Record) ([]Node, error) {
	type pending struct {
		list      *List
		remaining int
	}
	var (
		top   []Node
		stack []pending
	)
	appendNode := func(n Node) {
		if len(stack) == 0 {
			top = append(top, n)
			return
		}
		p := &stack[len(stack)-1]
		p.list.Children = append(p.list.Children, n)
		p.remaining--
	}
	closeDone := func() {
		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 {
			done := stack[len(stack)-1].list
			stack = stack[:len(stack)-1]
			appendNode(done)
		}
	}

	for i, r := range records {
		switch r.Kind {
		case RecordAtom:
			if r.Text == "" {
				return nil, fmt.Errorf("ast: record %d: empty atom", i)
			}
			appendNode(&Atom{Text: r.Text, Span: r.Span})
		case RecordList:
			if r.Len < 0 {
				return nil, fmt.Errorf("ast: record %d: negative list length", i)
			}
			l := &List{Span: r.Span}
			if r.Len == 0 {
				l.Children = []Node{}
				appendNode(l)
				break
			}
			l.Children = make([]Node, 0, r.Len)
			stack = append(stack, pending{list: l, remaining: r.Len})
			continue
		default:
			return nil, fmt.Errorf("ast: record %d: unknown kind %d", i, r.Kind)
		}
		closeDone()
	}
	if len(stack) > 0 {
		return nil, errTruncatedRecords
	}
	if top == nil {
		top = []Node{}
	}
	return top, nil
}
