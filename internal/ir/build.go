package ir

import (
	"fmt"

	"jsonerr/internal/attr"
	"jsonerr/internal/diag"
	"jsonerr/internal/scan"
	"jsonerr/internal/source"
)

// Classify attaches the payload shape of decl to its parsed attributes.
func Classify(decl scan.Case, set *attr.Set) Case {
	c := Case{
		Name:  decl.Name,
		Naive: decl.Naive,
		Span:  decl.NameSpan,
	}
	if !decl.Naive {
		c.Payload = Payload{Field: decl.Payload.Field, Type: decl.Payload.Type}
		if decl.Payload.Kind == scan.PayloadSelf {
			c.Payload.Field = ""
		}
	}
	switch set.Disposition {
	case attr.Request:
		c.Kind = ClientFacing{
			Status:      set.Status,
			Code:        set.Code,
			Hint:        set.Hint,
			Description: set.Description,
		}
	case attr.Internal:
		c.Kind = Internal{}
	default:
		panic(fmt.Sprintf("ir: unknown disposition %d for case %s", set.Disposition, decl.Name))
	}
	return c
}

// Build assembles the IR from cases in declaration order. It performs no
// sorting and no deduplication. When bag holds any error (from this or an
// earlier phase) no IR is returned and the error wraps diag.ErrFailed.
func Build(name, pkg string, cfg Config, cases []Case, bag *diag.Bag) (*Unit, error) {
	if cfg.InternalCode == "" {
		cfg.InternalCode = attr.DefaultInternalCode
	}
	unit := &Unit{
		Name:    name,
		Package: pkg,
		Config:  cfg,
		Cases:   cases,
	}

	if unit.HasInternal() {
		for _, c := range cases {
			if c.Name == InternalErrorName && !c.IsInternal() {
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.DclReservedName, c.Span,
					fmt.Sprintf("case name %s is reserved for the shared internal error documentation", InternalErrorName)).Emit()
			}
		}
	}

	if err := bag.Err(); err != nil {
		return nil, fmt.Errorf("unit %s: %w", name, err)
	}
	return unit, nil
}

// Options configure FromScan.
type Options struct {
	Attr attr.Options
	// DefaultInternalCode is used when the unit directive sets none.
	DefaultInternalCode string
}

// FromScan runs the whole front half for one scanned unit: unit config,
// attribute parsing of every case, classification and Build.
func FromScan(file *source.File, pkg string, u scan.Unit, opts Options, bag *diag.Bag) (*Unit, error) {
	rep := diag.BagReporter{Bag: bag}
	uc := attr.ParseUnitConfig(file, u.Args, opts.DefaultInternalCode)

	cases := make([]Case, 0, len(u.Cases))
	for _, decl := range u.Cases {
		if !decl.HasAnnotation {
			diag.ReportError(rep, diag.AtrMissing, decl.NameSpan, attr.MsgMissingAttribute).Emit()
			continue
		}
		set := attr.ParseCase(file, decl.Annotation, rep, opts.Attr)
		if set == nil {
			continue
		}
		cases = append(cases, Classify(decl, set))
	}
	return Build(u.Name, pkg, Config{InternalCode: uc.InternalCode}, cases, bag)
}
