// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"jsonerr/internal/diag"
	"jsonerr/internal/scan"
	"jsonerr/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a scanned file:
// 1) every span points to sf and lies within its content
// 2) case names are non-empty and cases of a unit appear in source order
// 3) a case annotation, when present, does not overlap the case name
func CheckSpanInvariants(f *scan.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil scan result or file")
	}
	if f.ID != sf.ID {
		return fmt.Errorf("scan result points to different file id: got=%d want=%d", f.ID, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inside := func(what string, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("%s span %v outside content of %d bytes", what, sp, lenContent)
		}
		return nil
	}

	for _, u := range f.Units {
		if err := inside("unit "+u.Name, u.Directive); err != nil {
			return err
		}
		if !u.Args.Empty() {
			if err := inside("unit args "+u.Name, u.Args); err != nil {
				return err
			}
		}
		var prev uint32
		for i, c := range u.Cases {
			if err := inside("case "+c.Name, c.NameSpan); err != nil {
				return err
			}
			if c.NameSpan.End <= c.NameSpan.Start {
				return fmt.Errorf("empty name span for case %s", c.Name)
			}
			if i > 0 && c.NameSpan.Start < prev {
				return fmt.Errorf("case %s of %s is out of source order", c.Name, u.Name)
			}
			prev = c.NameSpan.Start
			if !c.HasAnnotation {
				continue
			}
			if err := inside("annotation of "+c.Name, c.Annotation); err != nil {
				return err
			}
			// аннотация и имя не пересекаются
			if c.Annotation.Start < c.NameSpan.End && c.NameSpan.Start < c.Annotation.End {
				return fmt.Errorf("annotation %v overlaps name %v of case %s", c.Annotation, c.NameSpan, c.Name)
			}
		}
	}
	return nil
}

// CheckDiagnosticSpans verifies that every diagnostic either has no file or
// points inside a file of fs.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	for _, d := range bag.Items() {
		spans := []source.Span{d.Primary}
		for _, n := range d.Notes {
			spans = append(spans, n.Span)
		}
		for _, sp := range spans {
			if sp.File == source.NoFile {
				continue
			}
			if !fs.Has(sp.File) {
				return fmt.Errorf("%s: unknown file id %d", d.Code, sp.File)
			}
			n, err := safecast.Conv[uint32](len(fs.Get(sp.File).Content))
			if err != nil {
				return fmt.Errorf("len content overflow: %w", err)
			}
			if sp.Start > sp.End || sp.End > n {
				return fmt.Errorf("%s: span %v outside content of %d bytes", d.Code, sp, n)
			}
		}
	}
	return nil
}
