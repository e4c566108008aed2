package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsonerr/internal/diag"
	"jsonerr/internal/source"
)

func scanSource(t *testing.T, src string) (*File, *source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("errors.go", []byte(src))
	bag := diag.NewBag(0)
	return Scan(fs, id, diag.BagReporter{Bag: bag}), fs, bag
}

func bagCodes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

const appErrors = `package api

import "time"

// AppErrors are the errors of the public API.
//
//jsonerr:unit AppErrors(internal_code = "500 internal")
type (
	//jsonerr:case(request, status = http.StatusNotFound, code = "not-found")
	NotFound struct{}

	//jsonerr:case(request, status = 409, code = "received-odd-number")
	OddNotAllowed struct{ Reason string }

	//jsonerr:case(internal)
	Storage struct{ error }

	//jsonerr:case(internal)
	Timeout time.Duration

	Forgotten struct{}
)
`

func TestScanUnit(t *testing.T) {
	f, fs, bag := scanSource(t, appErrors)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bagCodes(bag))
	}
	if f.Package != "api" || len(f.Units) != 1 {
		t.Fatalf("package=%q units=%d", f.Package, len(f.Units))
	}
	u := f.Units[0]
	if u.Name != "AppErrors" {
		t.Fatalf("unit name = %q", u.Name)
	}
	if got := fs.Text(u.Args); got != `(internal_code = "500 internal")` {
		t.Fatalf("unit args = %q", got)
	}

	type row struct {
		Name          string
		Naive         bool
		Payload       Payload
		HasAnnotation bool
	}
	var got []row
	for _, c := range u.Cases {
		got = append(got, row{c.Name, c.Naive, c.Payload, c.HasAnnotation})
	}
	want := []row{
		{"NotFound", true, Payload{}, true},
		{"OddNotAllowed", false, Payload{Kind: PayloadField, Field: "Reason", Type: "string"}, true},
		{"Storage", false, Payload{Kind: PayloadField, Field: "error", Type: "error"}, true},
		{"Timeout", false, Payload{Kind: PayloadSelf, Type: "time.Duration"}, true},
		{"Forgotten", true, Payload{}, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cases mismatch (-want +got):\n%s", diff)
	}

	if text := fs.Text(u.Cases[0].Annotation); text != `(request, status = http.StatusNotFound, code = "not-found")` {
		t.Fatalf("annotation = %q", text)
	}
}

func TestScanUngroupedUnit(t *testing.T) {
	src := "package api\n\n//jsonerr:unit Single\n//jsonerr:case(internal)\ntype Boom struct{}\n"
	f, fs, bag := scanSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bagCodes(bag))
	}
	u := f.Units[0]
	if len(u.Cases) != 1 || !u.Cases[0].HasAnnotation || fs.Text(u.Cases[0].Annotation) != "(internal)" {
		t.Fatalf("unexpected unit: %+v", u)
	}
	if !u.Args.Empty() {
		t.Fatalf("unit without arguments must have an empty Args span")
	}
}

func TestScanDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []diag.Code
		cases int
	}{
		{
			name:  "too many fields",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nA struct{ X, Y int }\n//jsonerr:case(internal)\nB struct{}\n)\n",
			codes: []diag.Code{diag.DclTooManyFields},
			cases: 1,
		},
		{
			name:  "unit on var",
			src:   "package a\n//jsonerr:unit U\nvar x = 1\n",
			codes: []diag.Code{diag.DclUnitNotType},
		},
		{
			name:  "unit on func",
			src:   "package a\n//jsonerr:unit U\nfunc f() {}\n",
			codes: []diag.Code{diag.DclUnitNotType},
		},
		{
			name:  "missing unit name",
			src:   "package a\n//jsonerr:unit (internal_code = \"x\")\ntype A struct{}\n",
			codes: []diag.Code{diag.DclUnitMissingName},
		},
		{
			name:  "case outside unit",
			src:   "package a\n//jsonerr:case(internal)\ntype A struct{}\n",
			codes: []diag.Code{diag.DclCaseOutsideUnit},
		},
		{
			name:  "generic case",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nA[T any] struct{ V T }\n)\n",
			codes: []diag.Code{diag.DclTypeParams},
		},
		{
			name:  "alias and pointer",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nA = int\n//jsonerr:case(internal)\nB *int\n)\n",
			codes: []diag.Code{diag.DclUnsupportedCase, diag.DclUnsupportedCase},
		},
		{
			name:  "predeclared interfaces",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nStorage error\n//jsonerr:case(internal)\nAnything any\n)\n",
			codes: []diag.Code{diag.DclUnsupportedCase, diag.DclUnsupportedCase},
		},
		{
			name:  "interface declared in the file",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nA Store\n//jsonerr:case(internal)\nB Ref\n)\ntype Store interface{ Get() }\ntype Ref (*int)\n",
			codes: []diag.Code{diag.DclUnsupportedCase, diag.DclUnsupportedCase},
		},
		{
			name:  "named struct and shadowed error are self payloads",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nA Inner\n//jsonerr:case(internal)\nB error\n)\ntype Inner struct{ X int }\ntype error string\n",
			codes: []diag.Code{},
			cases: 2,
		},
		{
			name:  "unit name reused",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\nU struct{}\n)\n",
			codes: []diag.Code{diag.DclDuplicateUnit},
		},
		{
			name:  "second directive ignored",
			src:   "package a\n//jsonerr:unit U\ntype (\n//jsonerr:case(internal)\n//jsonerr:case(request)\nA struct{}\n)\n",
			codes: []diag.Code{diag.AtrDuplicate},
			cases: 1,
		},
		{
			name:  "empty group",
			src:   "package a\n//jsonerr:unit U\ntype ()\n",
			codes: []diag.Code{diag.DclEmptyUnit},
		},
		{
			name:  "lookalike directive is not a directive",
			src:   "package a\n//jsonerr:units U\ntype A struct{}\n",
			codes: []diag.Code{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, bag := scanSource(t, tt.src)
			if diff := cmp.Diff(tt.codes, bagCodes(bag)); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
			cases := 0
			for _, u := range f.Units {
				cases += len(u.Cases)
			}
			if cases != tt.cases {
				t.Fatalf("cases = %d, want %d", cases, tt.cases)
			}
		})
	}
}

func TestScanGoSyntaxError(t *testing.T) {
	f, fs, bag := scanSource(t, "package a\n\ntype (\n")
	if f != nil {
		t.Fatalf("broken Go source must not produce a file")
	}
	if bag.Len() == 0 || bag.Items()[0].Code != diag.SynGoSource {
		t.Fatalf("want SYN2100, got %v", bagCodes(bag))
	}
	start, _ := fs.Resolve(bag.Items()[0].Primary)
	if start.Line < 3 {
		t.Fatalf("error position = %+v, want line >= 3", start)
	}
}
