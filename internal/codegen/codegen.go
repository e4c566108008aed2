// Package codegen renders the response tables of a source file as Go code.
//
// The output lives next to the annotated file, in the same package, and
// gives every case an Error method, a JSONError method backed by the jsonresp
// runtime and membership in the sealed unit interface.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"jsonerr/internal/ir"
	"jsonerr/internal/lower/response"
)

// DefaultRuntime is the import path of the runtime package.
const DefaultRuntime = "jsonerr/jsonresp"

// Unit pairs a unit with its lowered table.
type Unit struct {
	IR    *ir.Unit
	Table *response.Table
}

// File is everything emitted for one source file.
type File struct {
	Package string
	// Source is the annotated file, named in the header comment.
	Source  string
	Runtime string
	Units   []Unit
}

// ErrFormat wraps failures to format the rendered source; it indicates a
// template defect, never a user error.
var ErrFormat = errors.New("codegen: generated code does not format")

var fileTmpl = template.Must(template.New("file").Parse(fileTemplate))

// Generate renders f as formatted Go source.
func Generate(f File) ([]byte, error) {
	view := buildView(f)
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute template for %s: %w", f.Source, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, f.Source, err)
	}
	return out, nil
}

type fileView struct {
	Package string
	Source  string
	Runtime string
	Fmt     bool
	HTTP    bool
	Units   []unitView
}

type unitView struct {
	Name  string
	Cases []caseView
}

type caseView struct {
	Type       string
	Unit       string
	Record     string
	Assertion  string
	ErrorBody  string
	Internal   bool
	Log        bool
	LogDetail  string
	Status     string
	Code       string
	Hint       string
	Content    string
	PlainLocal string
}

func buildView(f File) fileView {
	runtime := f.Runtime
	if runtime == "" {
		runtime = DefaultRuntime
	}
	v := fileView{Package: f.Package, Source: f.Source, Runtime: runtime}
	for _, u := range f.Units {
		uv := unitView{Name: u.IR.Name}
		for i, r := range u.Table.Rules {
			c := u.IR.Cases[i]
			cv := caseView{
				Type:     r.Case,
				Unit:     u.IR.Name,
				Record:   strconv.Quote(u.IR.Name + "::" + r.Case),
				Internal: r.Internal,
				Log:      r.Log,
				Code:     strconv.Quote(r.Code),
				Hint:     strconv.Quote(r.Hint),
				Content:  "nil",
			}
			self := !c.Naive && c.Payload.Field == ""
			if self {
				cv.Assertion = "*new(" + r.Case + ")"
				cv.PlainLocal = "type plain " + r.Case
			} else {
				cv.Assertion = r.Case + "{}"
			}

			display := ""
			if !c.Naive {
				v.Fmt = true
				display = r.Payload
				if self {
					display = "plain(e)"
				}
				cv.ErrorBody = fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(u.IR.Name+"::"+r.Case+" %v"), display)
				cv.LogDetail = "fmt.Sprint(" + display + ")"
				cv.Content = r.Payload
			} else {
				cv.ErrorBody = cv.Record
			}

			if r.StatusSymbol != "" {
				v.HTTP = true
				cv.Status = "http." + r.StatusSymbol
			} else {
				cv.Status = strconv.Itoa(r.Status)
			}
			uv.Cases = append(uv.Cases, cv)
		}
		v.Units = append(v.Units, uv)
	}
	return v
}

const fileTemplate = `// Code generated by jsonerr from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
{{- if .Fmt}}
	"fmt"
{{- end}}
{{- if .HTTP}}
	"net/http"
{{- end}}
{{- if or .Fmt .HTTP}}
{{end}}
	jsonresp "{{.Runtime}}"
)
{{range $u := .Units}}
// {{$u.Name}} is implemented by every case of the {{$u.Name}} error unit.
type {{$u.Name}} interface {
	jsonresp.Responder
	is{{$u.Name}}()
}

var (
{{- range $u.Cases}}
	_ {{$u.Name}} = {{.Assertion}}
{{- end}}
)
{{range $u.Cases}}
func ({{.Type}}) is{{.Unit}}() {}

func (e {{.Type}}) Error() string {
	{{- if .PlainLocal}}
	{{.PlainLocal}}
	{{- end}}
	return {{.ErrorBody}}
}

func (e {{.Type}}) JSONError() *jsonresp.Error {
{{- if .Internal}}
	{{- if .Log}}
	{{- if .LogDetail}}
	{{- if .PlainLocal}}
	{{.PlainLocal}}
	{{- end}}
	jsonresp.LogInternal({{.Record}}, {{.LogDetail}})
	{{- else}}
	jsonresp.LogInternal({{.Record}})
	{{- end}}
	{{- end}}
	return jsonresp.Internal({{.Code}})
{{- else}}
	return jsonresp.Request({{.Status}}, {{.Code}}, {{.Hint}}, {{.Content}})
{{- end}}
}
{{end}}
{{- end}}`
