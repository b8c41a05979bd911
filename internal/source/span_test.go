package source

import "testing"

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 0, End: 1}, Span{File: 1, Start: 5, End: 6}, Span{File: 1, Start: 0, End: 6}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file is ignored", Span{File: 1, Start: 2, End: 3}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_LenEmptyString(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 9}
	if s.Len() != 5 || s.Empty() {
		t.Fatalf("unexpected Len/Empty for %v", s)
	}
	if s.String() != "3:4-9" {
		t.Fatalf("String() = %q", s.String())
	}
	if !(Span{Start: 2, End: 2}).Empty() {
		t.Fatal("zero-width span should be empty")
	}
}
