package response

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"jsonerr/internal/attr"
	"jsonerr/internal/ir"
	"jsonerr/jsonresp"
)

func sampleUnit() *ir.Unit {
	return &ir.Unit{
		Name:   "AppErrors",
		Config: ir.Config{InternalCode: "oops"},
		Cases: []ir.Case{
			{Name: "NotFound", Naive: true, Kind: ir.ClientFacing{Status: attr.Status{Value: 404}, Code: "not-found", Hint: "no such thing"}},
			{Name: "Invalid", Payload: ir.Payload{Field: "Reason", Type: "string"},
				Kind: ir.ClientFacing{Status: attr.Status{Value: 400, Symbol: "StatusBadRequest"}, Code: "invalid"}},
			{Name: "Storage", Payload: ir.Payload{Type: "error"}, Kind: ir.Internal{}},
			{Name: "Panic", Naive: true, Kind: ir.Internal{}},
		},
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := *jsonresp.Logger()
	jsonresp.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { jsonresp.SetLogger(prev) })
	return &buf
}

func TestLowerKeepsOrder(t *testing.T) {
	tbl := Lower(sampleUnit(), DefaultOptions())
	var names []string
	for _, r := range tbl.Rules {
		names = append(names, r.Case)
	}
	if got := strings.Join(names, ","); got != "NotFound,Invalid,Storage,Panic" {
		t.Fatalf("order = %s", got)
	}
}

func TestConvertClientFacing(t *testing.T) {
	tbl := Lower(sampleUnit(), DefaultOptions())
	tests := []struct {
		name    string
		payload any
		status  int
		code    string
		hint    string
		content any
	}{
		{"NotFound", "ignored", 404, "not-found", "no such thing", nil},
		{"Invalid", "name too long", 400, "invalid", "", "name too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := tbl.Rule(tt.name)
			if !ok {
				t.Fatalf("rule %s missing", tt.name)
			}
			e := r.Convert(tt.payload)
			if e.Status != tt.status || e.Code != tt.code || e.Hint != tt.hint || e.Content != tt.content {
				t.Fatalf("got %+v", e)
			}
		})
	}
}

func TestConvertInternalNeverLeaks(t *testing.T) {
	buf := captureLog(t)
	tbl := Lower(sampleUnit(), DefaultOptions())
	r, _ := tbl.Rule("Storage")

	e := r.Convert(errors.New("dial tcp: refused"))
	if e.Status != 500 || e.Code != "oops" || e.Content != nil || e.Hint != "" {
		t.Fatalf("internal response leaked detail: %+v", e)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one log record, got %q", out)
	}
	if !strings.Contains(out, "AppErrors::Storage dial tcp: refused") {
		t.Fatalf("record mismatch: %q", out)
	}
}

func TestConvertInternalNaiveRecord(t *testing.T) {
	buf := captureLog(t)
	r, _ := Lower(sampleUnit(), DefaultOptions()).Rule("Panic")
	r.Convert(nil)
	if !strings.Contains(buf.String(), `"message":"AppErrors::Panic"`) {
		t.Fatalf("record mismatch: %q", buf.String())
	}
}

func TestConvertLoggingDisabled(t *testing.T) {
	buf := captureLog(t)
	r, _ := Lower(sampleUnit(), Options{Log: false}).Rule("Storage")
	if e := r.Convert(errors.New("x")); e.Code != "oops" {
		t.Fatalf("got %+v", e)
	}
	if buf.Len() != 0 {
		t.Fatalf("logging disabled but got %q", buf.String())
	}
}

func TestLowerPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Lower(&ir.Unit{Name: "U", Cases: []ir.Case{{Name: "X"}}}, DefaultOptions())
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, Lower(sampleUnit(), DefaultOptions())); err != nil {
		t.Fatal(err)
	}
	want := `unit AppErrors
  NotFound -> request 404 "not-found" hint="no such thing" content=null
  Invalid -> request 400 (http.StatusBadRequest) "invalid" hint="" content=e.Reason
  Storage -> internal 500 "oops" (log "AppErrors::Storage", content=null)
  Panic -> internal 500 "oops" (log "AppErrors::Panic", content=null)
`
	if buf.String() != want {
		t.Fatalf("dump mismatch:\n%s", buf.String())
	}
}
