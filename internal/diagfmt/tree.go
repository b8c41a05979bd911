package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sexpr/internal/ast"
	"sexpr/internal/source"
)

// FormatTreeDebug prints the top-level forms as [Atom(a), List([...])].
func FormatTreeDebug(w io.Writer, nodes []ast.Node) error {
	_, err := fmt.Fprintln(w, ast.Debug(nodes))
	return err
}

// FormatTreeSexpr re-prints the forms in canonical parenthesized form,
// one top-level form per line.
func FormatTreeSexpr(w io.Writer, nodes []ast.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, ast.Sexpr(nodes))
	return err
}

// FormatTreePretty draws the tree with ├─ / └─ connectors. When fs is not
// nil every node label carries its line:col position.
func FormatTreePretty(w io.Writer, nodes []ast.Node, header string, fs *source.FileSet) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d forms)\n", header, len(nodes))
	writeTreeChildren(&b, nodes, "", fs)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeChildren(b *strings.Builder, nodes []ast.Node, prefix string, fs *source.FileSet) {
	type frame struct {
		nodes  []ast.Node
		next   int
		prefix string
	}
	// явный стек: глубина вложенности не ограничена стеком горутины
	stack := []frame{{nodes: nodes, prefix: prefix}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.nodes[top.next]
		top.next++
		last := top.next == len(top.nodes)

		connector, childPrefix := "├─ ", "│  "
		if last {
			connector, childPrefix = "└─ ", "   "
		}
		b.WriteString(top.prefix)
		b.WriteString(connector)
		b.WriteString(treeLabel(n, fs))
		b.WriteByte('\n')
		if l, ok := n.(*ast.List); ok && len(l.Children) > 0 {
			stack = append(stack, frame{nodes: l.Children, prefix: top.prefix + childPrefix})
		}
	}
}

func treeLabel(n ast.Node, fs *source.FileSet) string {
	var label string
	switch n := n.(type) {
	case *ast.Atom:
		label = "Atom " + n.Text
	case *ast.List:
		label = fmt.Sprintf("List[%d]", len(n.Children))
	}
	if fs != nil {
		start, _ := fs.Resolve(n.NodeSpan())
		label += fmt.Sprintf(" @%d:%d", start.Line, start.Col)
	}
	return label
}

// NodeJSON is the JSON shape of one tree node: {"atom":"x"} or
// {"list":[...]}. An empty list encodes as {"list":[]}.
type NodeJSON struct {
	Atom *string      `json:"atom,omitempty"`
	List *[]NodeJSON  `json:"list,omitempty"`
	Span *source.Span `json:"span,omitempty"`
}

// BuildTreeOutput converts nodes into their JSON shape. withSpans adds the
// byte span of every node. Recursive, like encoding/json over the result.
func BuildTreeOutput(nodes []ast.Node, withSpans bool) []NodeJSON {
	out := make([]NodeJSON, 0, len(nodes))
	for _, n := range nodes {
		var item NodeJSON
		switch n := n.(type) {
		case *ast.Atom:
			text := n.Text
			item.Atom = &text
		case *ast.List:
			children := BuildTreeOutput(n.Children, withSpans)
			item.List = &children
		}
		if withSpans {
			sp := n.NodeSpan()
			item.Span = &sp
		}
		out = append(out, item)
	}
	return out
}

// FormatTreeJSON writes the forms as an indented JSON array.
func FormatTreeJSON(w io.Writer, nodes []ast.Node, withSpans bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(nodes, withSpans))
}
