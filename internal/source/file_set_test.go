package source

import (
	"testing"
)

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("errors.go", []byte("package api\n\ntype (\n\tNotFound struct{}\n)\n"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"file start", 0, LineCol{Line: 1, Col: 1}},
		{"newline belongs to its line", 11, LineCol{Line: 1, Col: 12}},
		{"empty line", 12, LineCol{Line: 2, Col: 1}},
		{"indented ident", 21, LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Fatalf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.go", []byte("one\ntwo\nthree")))

	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestNormalizeOnLoadHelpers(t *testing.T) {
	content, had := removeBOM([]byte("\xEF\xBB\xBFpackage x"))
	if !had || string(content) != "package x" {
		t.Fatalf("removeBOM: got %q, %v", content, had)
	}
	content, had = normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !had || string(content) != "a\nb\rc\n" {
		t.Fatalf("normalizeCRLF: got %q, %v", content, had)
	}
}

func TestTextAndCover(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.go", []byte(`code = "not-found"`))
	lhs := Span{File: id, Start: 0, End: 4}
	rhs := Span{File: id, Start: 7, End: 18}

	if got := fs.Text(lhs.Cover(rhs)); got != `code = "not-found"` {
		t.Fatalf("Text(Cover) = %q", got)
	}
	if !lhs.Cover(rhs).Contains(rhs) {
		t.Fatalf("cover must contain both halves")
	}
	if other := (Span{File: id + 1}); lhs.Cover(other) != lhs {
		t.Fatalf("spans from different files must not merge")
	}
}
