package attr

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"jsonerr/internal/diag"
	"jsonerr/internal/source"
)

// parse runs ParseCase over args as if they followed `//jsonerr:case` on one line.
func parse(t *testing.T, args string, opts Options) (*Set, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	content := "//jsonerr:case" + args
	id := fs.AddVirtual("errors.go", []byte(content))
	bag := diag.NewBag(0)
	span := source.SpanOf(id, len("//jsonerr:case"), len(content))
	return ParseCase(fs.Get(id), span, diag.BagReporter{Bag: bag}, opts), bag
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

var ignoreSpan = cmpopts.IgnoreFields(Set{}, "Span")

func TestParseCaseAccepted(t *testing.T) {
	tests := []struct {
		name string
		args string
		want Set
	}{
		{
			name: "internal",
			args: "(internal)",
			want: Set{Disposition: Internal},
		},
		{
			name: "internal ignores the rest",
			args: "(internal, whatever, status = \"x\")",
			want: Set{Disposition: Internal},
		},
		{
			name: "literal status",
			args: `(request, status = 409, code = "received-odd-number", hint = "Try an even number")`,
			want: Set{Disposition: Request, Status: Status{Value: 409}, Code: "received-odd-number", Hint: "Try an even number"},
		},
		{
			name: "symbolic status and description",
			args: `(request, status = http.StatusNotFound, code = "not-found", description = "The page does not exist",)`,
			want: Set{
				Disposition: Request,
				Status:      Status{Value: 404, Symbol: "StatusNotFound"},
				Code:        "not-found",
				Description: "The page does not exist",
			},
		},
		{
			name: "hex literal and raw string",
			args: "(request, status = 0x190, code = `bad-request`)",
			want: Set{Disposition: Request, Status: Status{Value: 400}, Code: "bad-request"},
		},
		{
			name: "code is NFC normalised",
			args: "(request, status = 400, code = \"cafe\u0301\")",
			want: Set{Disposition: Request, Status: Status{Value: 400}, Code: "caf\u00e9"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, bag := parse(t, tt.args, DefaultOptions())
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", codes(bag))
			}
			if set == nil {
				t.Fatalf("ParseCase returned nil")
			}
			if diff := cmp.Diff(tt.want, *set, ignoreSpan); diff != "" {
				t.Fatalf("set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCaseRejected(t *testing.T) {
	tests := []struct {
		name  string
		args  string
		codes []diag.Code
	}{
		{"no list", "", []diag.Code{diag.SynExpectParenList}},
		{"empty list", "()", []diag.Code{diag.AtrBadDisposition}},
		{"bad disposition", `(public, status = 404, code = "x")`, []diag.Code{diag.AtrBadDisposition}},
		{"disposition as string", `("request")`, []diag.Code{diag.AtrBadDisposition}},
		{"only status", "(request, status = 404)", []diag.Code{diag.AtrMissingStatusOrCode}},
		{"only code", `(request, code = "x")`, []diag.Code{diag.AtrMissingStatusOrCode}},
		{"nothing", "(request)", []diag.Code{diag.AtrMissingStatusOrCode}},
		{"status is a string", `(request, status = "not-a-number", code = "x")`, []diag.Code{diag.AtrStatusType}},
		{"status is a string, no code", `(request, status = "not-a-number")`, []diag.Code{diag.AtrStatusType}},
		{"status out of range", `(request, status = 42, code = "x")`, []diag.Code{diag.AtrStatusType}},
		{"status float", `(request, status = 4.04, code = "x")`, []diag.Code{diag.AtrStatusType}},
		{"unknown constant", `(request, status = http.StatusNope, code = "x")`, []diag.Code{diag.AtrStatusType}},
		{"code is a number", `(request, status = 404, code = 7)`, []diag.Code{diag.AtrCodeType}},
		{"empty code", `(request, status = 404, code = "  ")`, []diag.Code{diag.AtrCodeType}},
		{"hint is a path", `(request, status = 404, code = "x", hint = Foo)`, []diag.Code{diag.AtrHintType}},
		{"description is a number", `(request, status = 404, code = "x", description = 1)`, []diag.Code{diag.AtrDescriptionType}},
		{
			"unknown keys keep going",
			`(request, colour = "red", status = 404, size = 1, code = 7)`,
			[]diag.Code{diag.AtrUnknown, diag.AtrUnknown, diag.AtrCodeType},
		},
		{
			"not an assignment continues",
			`(request, 404, status = 404, code = "x")`,
			[]diag.Code{diag.AtrNotAssignment},
		},
		{
			"bad assignment stops the case",
			`(request, "status" = 404, code = 7)`,
			[]diag.Code{diag.AtrBadAssignment},
		},
		{
			"dotted lhs is a bad assignment",
			`(request, a.b = 404)`,
			[]diag.Code{diag.AtrBadAssignment},
		},
		{
			"duplicate key",
			`(request, status = 404, code = "x", code = "y")`,
			[]diag.Code{diag.AtrDuplicate},
		},
		{"unclosed", `(request, status = 404`, []diag.Code{diag.SynUnclosedParen}},
		{"missing comma", `(request status = 404)`, []diag.Code{diag.SynUnexpectedToken}},
		{"trailing tokens", `(internal) extra`, []diag.Code{diag.SynTrailingTokens}},
		{"lexical error", `(request, status = 404, code = "x)`, []diag.Code{diag.LexUnterminatedString}},
		{"dangling dot", `(request, status = http., code = "x")`, []diag.Code{diag.SynUnexpectedToken}},
		{"missing value", `(request, status = , code = "x")`, []diag.Code{diag.SynExpectExpression}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, bag := parse(t, tt.args, DefaultOptions())
			if set != nil {
				t.Fatalf("case must be rejected, got %+v", *set)
			}
			if diff := cmp.Diff(tt.codes, codes(bag)); diff != "" {
				t.Fatalf("diagnostic codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingMessageExactlyOnce(t *testing.T) {
	_, bag := parse(t, "(request, status = 404)", DefaultOptions())
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	if msg := bag.Items()[0].Message; msg != MsgMissingStatusOrCode {
		t.Fatalf("message = %q", msg)
	}
}

func TestStatusTypeErrorSuppressesMissing(t *testing.T) {
	_, bag := parse(t, `(request, status = "not-a-number", code = "x")`, DefaultOptions())
	if bag.Len() != 1 || bag.Items()[0].Code != diag.AtrStatusType {
		t.Fatalf("want exactly one status diagnostic, got %v", codes(bag))
	}
	if !strings.Contains(bag.Items()[0].Message, "status should be either a number or a path") {
		t.Fatalf("message = %q", bag.Items()[0].Message)
	}

	opts := Options{ReportMissingAfterTypeError: true}
	_, bag = parse(t, `(request, status = "not-a-number", code = "x")`, opts)
	want := []diag.Code{diag.AtrStatusType, diag.AtrMissingStatusOrCode}
	if diff := cmp.Diff(want, codes(bag)); diff != "" {
		t.Fatalf("with ReportMissingAfterTypeError (-want +got):\n%s", diff)
	}
}

func TestDuplicateKeepsFirst(t *testing.T) {
	fs := source.NewFileSet()
	content := `//jsonerr:case(request, status = 404, code = "x", hint = "a", hint = "b")`
	id := fs.AddVirtual("errors.go", []byte(content))
	bag := diag.NewBag(0)
	set := ParseCase(fs.Get(id), source.SpanOf(id, 14, len(content)), diag.BagReporter{Bag: bag}, DefaultOptions())
	if set != nil {
		t.Fatalf("duplicate must reject the case")
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || fs.Text(d.Notes[0].Span) != "hint" || d.Primary.Start <= d.Notes[0].Span.Start {
		t.Fatalf("note must point at the first definition: %+v", d)
	}
}

func TestParseUnitConfig(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		fallback string
		want     UnitConfig
	}{
		{"absent", "", "", UnitConfig{InternalCode: DefaultInternalCode}},
		{"explicit", `(internal_code = "500 internal")`, "", UnitConfig{InternalCode: "500 internal", Explicit: true}},
		{"project fallback", "", "oops", UnitConfig{InternalCode: "oops"}},
		{"malformed list", `(internal_code = "x"`, "", UnitConfig{InternalCode: DefaultInternalCode}},
		{"wrong type", `(internal_code = 500)`, "", UnitConfig{InternalCode: DefaultInternalCode}},
		{"unrelated keys", `(foo = "bar", internal_code = "boom")`, "", UnitConfig{InternalCode: "boom", Explicit: true}},
		{"empty string", `(internal_code = "")`, "fb", UnitConfig{InternalCode: "fb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			content := "//jsonerr:unit AppErrors" + tt.args
			id := fs.AddVirtual("errors.go", []byte(content))
			span := source.SpanOf(id, len("//jsonerr:unit AppErrors"), len(content))
			got := ParseUnitConfig(fs.Get(id), span, tt.fallback)
			if got != tt.want {
				t.Fatalf("ParseUnitConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}
