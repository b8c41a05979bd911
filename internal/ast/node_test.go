package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sexpr/internal/source"
)

func atom(text string) *Atom { return &Atom{Text: text} }

func list(children ...Node) *List { return &List{Children: children} }

func TestDebugFormat(t *testing.T) {
	tree := []Node{
		list(atom("a"), atom("b"), list(atom("c"), atom("d")), atom("e")),
	}
	assert.Equal(t, "[List([Atom(a), Atom(b), List([Atom(c), Atom(d)]), Atom(e)])]", Debug(tree))

	assert.Equal(t, "[]", Debug(nil))
	assert.Equal(t, "List([])", list().String())
	assert.Equal(t, "Atom(x)", atom("x").String())
	assert.Equal(t, "[Atom(a), List([Atom(b)]), Atom(c)]", Debug([]Node{atom("a"), list(atom("b")), atom("c")}))
}

func TestSexprFormat(t *testing.T) {
	tree := []Node{
		list(atom("define"), list(atom("sq"), atom("x")), list(atom("*"), atom("x"), atom("x"))),
		atom("top"),
		list(),
	}
	assert.Equal(t, "(define (sq x) (* x x))\ntop\n()", Sexpr(tree))
}

func TestPrintersHandleDeepNesting(t *testing.T) {
	const depth = 100000
	var n Node = atom("x")
	for range depth {
		n = list(n, atom("y"))
	}
	tree := []Node{n, atom("z")}

	sx := Sexpr(tree)
	assert.Equal(t, strings.Repeat("(", depth)+"x"+strings.Repeat(" y)", depth)+"\nz", sx)

	dbg := Debug(tree)
	assert.True(t, strings.HasPrefix(dbg, "["+strings.Repeat("List([", depth)+"Atom(x), Atom(y)])"))
	assert.True(t, strings.HasSuffix(dbg, ", Atom(y)]), Atom(z)]"))
	assert.Equal(t, depth, strings.Count(dbg, "List(["))
}

func TestNewAtomOwnsText(t *testing.T) {
	buf := []byte("(hello)")
	src := string(buf)
	a := NewAtom(src[1:6], source.Span{Start: 1, End: 6})
	assert.Equal(t, "hello", a.Text)
	assert.Equal(t, source.Span{Start: 1, End: 6}, a.NodeSpan())
}

func TestStats(t *testing.T) {
	// (a (b (c)) ()) d (e)
	tree := []Node{
		list(atom("a"), list(atom("b"), list(atom("c"))), list()),
		atom("d"),
		list(atom("e")),
	}
	st := Stats(tree)
	assert.Equal(t, 5, st.Atoms)
	assert.Equal(t, 5, st.Lists)
	assert.Equal(t, []int{2, 2, 1}, st.ListsAtDepth)
	assert.Equal(t, 3, st.MaxDepth)

	empty := Stats(nil)
	assert.Zero(t, empty.Atoms)
	assert.Zero(t, empty.MaxDepth)
}

func TestInspectSkipsChildren(t *testing.T) {
	tree := []Node{list(atom("a"), list(atom("b"))), atom("c")}

	var seen []string
	Inspect(tree, func(n Node, depth int) bool {
		if a, ok := n.(*Atom); ok {
			seen = append(seen, a.Text)
		}
		return depth == 0
	})
	assert.Equal(t, []string{"a", "c"}, seen)
}

func TestInspectDeepNesting(t *testing.T) {
	const depth = 100000
	var root Node = atom("x")
	for range depth {
		root = list(root)
	}
	st := Stats([]Node{root})
	assert.Equal(t, depth, st.Lists)
	assert.Equal(t, depth, st.MaxDepth)
}

func TestFlattenRoundTrip(t *testing.T) {
	tree := []Node{
		&List{
			Span: source.Span{Start: 0, End: 13},
			Children: []Node{
				&Atom{Text: "a", Span: source.Span{Start: 1, End: 2}},
				&List{Span: source.Span{Start: 3, End: 5}, Children: []Node{}},
				&List{Span: source.Span{Start: 6, End: 12}, Children: []Node{
					&Atom{Text: "b", Span: source.Span{Start: 7, End: 8}},
					&List{Span: source.Span{Start: 9, End: 11}, Children: []Node{}},
				}},
			},
		},
		&Atom{Text: "c", Span: source.Span{Start: 14, End: 15}},
	}

	records := Flatten(tree)
	require.Len(t, records, 6)
	assert.Equal(t, RecordList, records[0].Kind)
	assert.Equal(t, 3, records[0].Len)

	back, err := Unflatten(records)
	require.NoError(t, err)
	assert.True(t, Equal(tree, back))
	assert.Equal(t, Debug(tree), Debug(back))
	assert.Equal(t, tree[1].NodeSpan(), back[1].NodeSpan())
}

func TestUnflattenRejectsBadInput(t *testing.T) {
	_, err := Unflatten([]Record{{Kind: RecordList, Len: 2}, {Kind: RecordAtom, Text: "a"}})
	assert.ErrorIs(t, err, errTruncatedRecords)

	_, err = Unflatten([]Record{{Kind: RecordAtom}})
	assert.Error(t, err)

	_, err = Unflatten([]Record{{Kind: 9}})
	assert.Error(t, err)

	nodes, err := Unflatten(nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := []Node{&Atom{Text: "x", Span: source.Span{Start: 1, End: 2}}}
	b := []Node{&Atom{Text: "x", Span: source.Span{Start: 7, End: 8}}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, []Node{atom("y")}))
	assert.False(t, Equal([]Node{list(atom("x"))}, []Node{list(atom("x"), atom("y"))}))
}
