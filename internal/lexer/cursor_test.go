package lexer

import (
	"testing"

	"sexpr/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sexp", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek() = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}

	if !cursor.EOF() {
		t.Error("Expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("Peek/Bump at EOF must return 0")
	}
}

func TestMarkSpanAdvance(t *testing.T) {
	cursor := NewCursor(createFile("(abc)"))
	cursor.Bump()

	m := cursor.Mark()
	cursor.Advance(3)
	sp := cursor.SpanFrom(m)
	if sp.Start != 1 || sp.End != 4 {
		t.Fatalf("SpanFrom = %v, want 1..4", sp)
	}

	cursor.Advance(100)
	if !cursor.EOF() || cursor.Off != 5 {
		t.Fatalf("Advance must clamp to Limit, Off = %d", cursor.Off)
	}
}
