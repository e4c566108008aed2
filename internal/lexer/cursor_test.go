package lexer

import (
	"testing"

	"jsonerr/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("errors.go", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Fatalf("cursor must stay at EOF")
	}
}

func TestRangeCursorStopsAtLimit(t *testing.T) {
	f := createFile("//jsonerr:case(internal) tail")
	cursor := NewRangeCursor(f, source.Span{File: f.ID, Start: 14, End: 24})

	if cursor.Peek() != '(' {
		t.Fatalf("Peek() = %q, want '('", cursor.Peek())
	}
	if string(cursor.Rest()) != "(internal)" {
		t.Fatalf("Rest() = %q", cursor.Rest())
	}
	for !cursor.EOF() {
		cursor.Bump()
	}
	if cursor.Off != 24 {
		t.Fatalf("cursor ran past the range: off=%d", cursor.Off)
	}
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatalf("Peek2 at EOF must fail")
	}
}

func TestMarkReset(t *testing.T) {
	f := createFile("status = 404")
	cursor := NewCursor(f)
	m := cursor.Mark()
	for range 6 {
		cursor.Bump()
	}
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 6 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if !cursor.Eat('s') || cursor.Eat('s') {
		t.Fatalf("Eat must consume exactly the matching byte")
	}
}
