package diag

import (
	"fmt"

	"jsonerr/internal/source"
)

// New returns a diagnostic ready for Bag.Add.
func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// Errorf is New with SevError and a formatted message.
func Errorf(code Code, primary source.Span, format string, args ...any) *Diagnostic {
	return New(SevError, code, primary, fmt.Sprintf(format, args...))
}

// Detached returns an error that belongs to no file: manifest problems,
// unreadable inputs, run-level checks.
func Detached(code Code, format string, args ...any) *Diagnostic {
	return Errorf(code, source.Span{File: source.NoFile}, format, args...)
}

// WithNote appends a note and returns d for chaining.
func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
