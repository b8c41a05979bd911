package ast

// Inspect walks nodes in pre-order, calling fn with each node and its
// nesting depth (top-level forms have depth 0). Returning false from fn
// skips the children of that node. The walk is iterative.
func Inspect(nodes []Node, fn func(n Node, depth int) bool) {
	type frame struct {
		nodes []Node
		depth int
	}
	stack := []frame{{nodes: nodes}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.nodes) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n, depth := top.nodes[0], top.depth
		top.nodes = top.nodes[1:]

		if !fn(n, depth) {
			continue
		}
		if l, ok := n.(*List); ok && len(l.Children) > 0 {
			stack = append(stack, frame{nodes: l.Children, depth: depth + 1})
		}
	}
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Atoms int
	Lists int
	// ListsAtDepth[d] is the number of lists opened at nesting depth d.
	ListsAtDepth []int
	// MaxDepth is the deepest list nesting; 0 when there are no lists.
	MaxDepth int
}

// Stats counts atoms and lists per depth.
func Stats(nodes []Node) TreeStats {
	var st TreeStats
	Inspect(nodes, func(n Node, depth int) bool {
		switch n.(type) {
		case *Atom:
			st.Atoms++
		case *List:
			st.Lists++
			for len(st.ListsAtDepth) <= depth {
				st.ListsAtDepth = append(st.ListsAtDepth, 0)
			}
			st.ListsAtDepth[depth]++
			st.MaxDepth = max(st.MaxDepth, depth+1)
		}
		return true
	})
	return st
}

// Equal reports whether two trees have the same shape and atom texts.
// Spans are ignored.
func Equal(a, b []Node) bool {
	fa, fb := Flatten(a), Flatten(b)
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Kind != fb[i].Kind || fa[i].Text != fb[i].Text || fa[i].Len != fb[i].Len {
			return false
		}
	}
	return true
}
