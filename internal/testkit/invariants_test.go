package testkit

import (
	"strings"
	"testing"

	"sexpr/internal/ast"
	"sexpr/internal/lexer"
	"sexpr/internal/parser"
	"sexpr/internal/source"
)

func parseVirtual(t *testing.T, src string) ([]ast.Node, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("inv.sx", []byte(src)))
	_, nodes, err := parser.ParseFile(file, lexer.Options{}, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return nodes, file
}

func TestCheckSpanInvariantsAcceptsParsedTrees(t *testing.T) {
	for _, src := range []string{
		"",
		"(a b (c d) e)",
		"a (b) c",
		"((()))",
		"(x(y)z)\n(été 日本)",
	} {
		nodes, file := parseVirtual(t, src)
		if err := CheckSpanInvariants(nodes, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsRejectsBrokenSpans(t *testing.T) {
	nodes, file := parseVirtual(t, "(a b)")
	list := nodes[0].(*ast.List)

	list.Children[1].(*ast.Atom).Span.Start--
	err := CheckSpanInvariants(nodes, file)
	if err == nil || !strings.Contains(err.Error(), "does not match source") {
		t.Fatalf("expected text mismatch, got %v", err)
	}

	nodes, file = parseVirtual(t, "(a b)")
	nodes[0].(*ast.List).Span.End--
	if err := CheckSpanInvariants(nodes, file); err == nil {
		t.Fatal("expected delimiter error")
	}

	nodes, file = parseVirtual(t, "a b")
	nodes[1].(*ast.Atom).Span = nodes[0].NodeSpan()
	if err := CheckSpanInvariants(nodes, file); err == nil {
		t.Fatal("expected overlap error")
	}
}
