package codegen

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"jsonerr/internal/attr"
	"jsonerr/internal/ir"
	"jsonerr/internal/lower/response"
)

func sampleFile(log bool) File {
	u := &ir.Unit{
		Name:    "AppErrors",
		Package: "app",
		Config:  ir.Config{InternalCode: "500 internal"},
		Cases: []ir.Case{
			{Name: "NotFound", Naive: true, Kind: ir.ClientFacing{
				Status: attr.Status{Value: 404, Symbol: "StatusNotFound"}, Code: "not-found"}},
			{Name: "OddNotAllowed", Payload: ir.Payload{Field: "Reason", Type: "string"}, Kind: ir.ClientFacing{
				Status: attr.Status{Value: 409}, Code: "received-odd-number", Hint: "Try an even number"}},
			{Name: "Storage", Payload: ir.Payload{Field: "Err", Type: "error"}, Kind: ir.Internal{}},
			{Name: "Timeout", Payload: ir.Payload{Type: "time.Duration"}, Kind: ir.Internal{}},
		},
	}
	return File{
		Package: "app",
		Source:  "errors.go",
		Units:   []Unit{{IR: u, Table: response.Lower(u, response.Options{Log: log})}},
	}
}

func generate(t *testing.T, f File) string {
	t.Helper()
	out, err := Generate(f)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return string(out)
}

func TestGenerateParses(t *testing.T) {
	src := generate(t, sampleFile(true))
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, "errors_jsonerr.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	if af.Name.Name != "app" {
		t.Fatalf("package = %s", af.Name.Name)
	}
	var imports []string
	for _, imp := range af.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		imports = append(imports, path)
	}
	if got := strings.Join(imports, ","); got != "fmt,net/http,jsonerr/jsonresp" {
		t.Fatalf("imports = %s", got)
	}
}

func TestGenerateContents(t *testing.T) {
	src := generate(t, sampleFile(true))
	for _, want := range []string{
		"// Code generated by jsonerr from errors.go. DO NOT EDIT.",
		"type AppErrors interface {",
		"_ AppErrors = NotFound{}",
		"_ AppErrors = *new(Timeout)",
		"func (NotFound) isAppErrors() {}",
		`return "AppErrors::NotFound"`,
		`return fmt.Sprintf("AppErrors::OddNotAllowed %v", e.Reason)`,
		`return jsonresp.Request(http.StatusNotFound, "not-found", "", nil)`,
		`return jsonresp.Request(409, "received-odd-number", "Try an even number", e.Reason)`,
		`jsonresp.LogInternal("AppErrors::Storage", fmt.Sprint(e.Err))`,
		`jsonresp.LogInternal("AppErrors::Timeout", fmt.Sprint(plain(e)))`,
		`return jsonresp.Internal("500 internal")`,
		"type plain Timeout",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated code lacks %q:\n%s", want, src)
		}
	}
}

func TestGenerateWithoutLogging(t *testing.T) {
	src := generate(t, sampleFile(false))
	if strings.Contains(src, "LogInternal") {
		t.Fatalf("logging disabled but LogInternal emitted:\n%s", src)
	}
}

func TestGenerateNaiveOnlyImports(t *testing.T) {
	u := &ir.Unit{Name: "E", Package: "p", Config: ir.DefaultConfig(), Cases: []ir.Case{
		{Name: "Gone", Naive: true, Kind: ir.ClientFacing{Status: attr.Status{Value: 410}, Code: "gone"}},
	}}
	src := generate(t, File{Package: "p", Source: "e.go", Runtime: "example.com/rt",
		Units: []Unit{{IR: u, Table: response.Lower(u, response.DefaultOptions())}}})
	if strings.Contains(src, `"fmt"`) || strings.Contains(src, `"net/http"`) {
		t.Fatalf("unexpected imports:\n%s", src)
	}
	if !strings.Contains(src, `jsonresp "example.com/rt"`) {
		t.Fatalf("runtime import missing:\n%s", src)
	}
}
