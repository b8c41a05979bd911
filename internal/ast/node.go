// Package ast holds the syntax tree produced by the structure builder.
//
// A tree is an ordered sequence of top-level forms ([]Node). Node is a closed
// sum of exactly two shapes, *Atom and *List; code switching over a Node
// should handle both. Nodes are immutable once built.
package ast

import (
	"strings"

	"sexpr/internal/source"
)

// Node is either *Atom or *List.
type Node interface {
	// NodeSpan returns the source range of the node. For lists it covers the
	// parentheses.
	NodeSpan() source.Span
	String() string

	node()
}

// Atom is a leaf holding the text of one atom token.
type Atom struct {
	Text string
	Span source.Span
}

// List is a parenthesized group of forms in source order.
type List struct {
	Children []Node
	Span     source.Span
}

// NewAtom copies text so the node does not keep the source buffer alive.
func NewAtom(text string, sp source.Span) *Atom {
	return &Atom{Text: strings.Clone(text), Span: sp}
}

// NewList wraps children into a list node.
func NewList(children []Node, sp source.Span) *List {
	return &List{Children: children, Span: sp}
}

func (a *Atom) NodeSpan() source.Span { return a.Span }
func (l *List) NodeSpan() source.Span { return l.Span }

func (*Atom) node() {}
func (*List) node() {}

// String renders the node in debug form: Atom(x), List([Atom(a), List([])]).
func (a *Atom) String() string {
	return "Atom(" + a.Text + ")"
}

func (l *List) String() string {
	var b strings.Builder
	writeForms(&b, []Node{l}, debugStyle, "", "", "")
	return b.String()
}

// Debug renders a sequence of top-level forms: [Atom(a), List([Atom(b)])].
func Debug(nodes []Node) string {
	var b strings.Builder
	writeForms(&b, nodes, debugStyle, "[", "]", ", ")
	return b.String()
}

// Sexpr re-prints nodes in canonical s-expression form, top-level forms
// separated by newlines: "(a b (c))".
func Sexpr(nodes []Node) string {
	var b strings.Builder
	writeForms(&b, nodes, sexprStyle, "", "", "\n")
	return b.String()
}

// printStyle describes how lists and atoms are spelled by writeForms.
type printStyle struct {
	open, close, sep string
	atomOpen         string
	atomClose        string
}

var (
	debugStyle = printStyle{open: "List([", close: "])", sep: ", ", atomOpen: "Atom(", atomClose: ")"}
	sexprStyle = printStyle{open: "(", close: ")", sep: " "}
)

// writeForms prints nodes with an explicit stack of open lists, so nesting
// depth is bounded by memory only.
func writeForms(b *strings.Builder, nodes []Node, st printStyle, open, closing, sep string) {
	type frame struct {
		nodes   []Node
		next    int
		sep     string
		closing string
	}
	b.WriteString(open)
	stack := []frame{{nodes: nodes, sep: sep, closing: closing}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.nodes) {
			b.WriteString(top.closing)
			stack = stack[:len(stack)-1]
			continue
		}
		if top.next > 0 {
			b.WriteString(top.sep)
		}
		n := top.nodes[top.next]
		top.next++

		switch n := n.(type) {
		case *Atom:
			b.WriteString(st.atomOpen)
			b.WriteString(n.Text)
			b.WriteString(st.atomClose)
		case *List:
			b.WriteString(st.open)
			stack = append(stack, frame{nodes: n.Children, sep: st.sep, closing: st.close})
		}
	}
}
