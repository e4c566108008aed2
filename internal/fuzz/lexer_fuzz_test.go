package fuzztests

import (
	"testing"

	"jsonerr/internal/attr"
	"jsonerr/internal/diag"
	"jsonerr/internal/ir"
	"jsonerr/internal/lexer"
	"jsonerr/internal/scan"
	"jsonerr/internal/source"
	"jsonerr/internal/testkit"
	"jsonerr/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzDirectiveLexer(f *testing.F) {
	addDirectiveSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.directive", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// каждый токен съедает хотя бы байт, иначе зациклимся
		for i := 0; i <= len(input)+1; i++ {
			if lx.Next().Kind == token.EOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF on %q", input)
	})
}

func FuzzCaseAttributes(f *testing.F) {
	addDirectiveSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.directive", input)
		file := fs.Get(id)

		bag := diag.NewBag(64)
		set := attr.ParseCase(file, source.SpanOf(id, 0, len(input)), diag.BagReporter{Bag: bag}, attr.Options{})
		if set == nil && bag.Len() == 0 {
			t.Fatalf("rejected %q without a diagnostic", input)
		}
	})
}

func FuzzScanAndBuild(f *testing.F) {
	addFileSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.go", input)
		bag := diag.NewBag(64)
		scanned := scan.Scan(fs, id, diag.BagReporter{Bag: bag})
		if scanned != nil {
			if err := testkit.CheckSpanInvariants(scanned, fs.Get(id)); err != nil {
				t.Fatalf("scan invariants: %v", err)
			}
			for _, u := range scanned.Units {
				unitBag := diag.NewBag(64)
				_, _ = ir.FromScan(fs.Get(id), scanned.Package, u, ir.Options{DefaultInternalCode: "internal-error"}, unitBag)
				bag.Merge(unitBag)
			}
		}
		if err := testkit.CheckDiagnosticSpans(bag, fs); err != nil {
			t.Fatalf("diagnostic spans: %v", err)
		}
	})
}
