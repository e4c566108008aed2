package diag

import (
	"testing"

	"jsonerr/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/api/errors.go", []byte("a\nb\n"), 0)
	otherFile := fs.AddVirtual("stdin.go", []byte("x\n"))

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     DclCaseOutsideUnit,
			Message:  "another",
			Primary:  source.Span{File: otherFile, Start: 0, End: 1},
		},
		{
			Severity: SevError,
			Code:     AtrMissingStatusOrCode,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 0, End: 1}, Msg: "case declared here"},
			},
		},
	}

	expected := "note ATR3010 api/errors.go:1:1 case declared here\n" +
		"error ATR3010 api/errors.go:2:1 first line second\n" +
		"warning DCL4004 stdin.go:1:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics(diags, fs, false); got == expected {
		t.Fatalf("notes must be omitted when includeNotes is false")
	}
}
