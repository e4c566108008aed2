package scan

import (
	"jsonerr/internal/source"
)

// PayloadKind says where a case keeps its inner value.
type PayloadKind uint8

const (
	// PayloadNone marks a naive case (empty struct).
	PayloadNone PayloadKind = iota
	// PayloadField is the single field of a one-field struct.
	PayloadField
	// PayloadSelf is the value itself, for non-struct case types.
	PayloadSelf
)

// Payload selects the inner value of a non-naive case.
type Payload struct {
	Kind  PayloadKind
	Field string // имя поля; для встроенного поля — имя типа
	Type  string // тип в исходной записи, например "error" или "time.Duration"
}

// Case is one type spec inside a unit.
type Case struct {
	Name     string
	NameSpan source.Span
	Naive    bool
	Payload  Payload
	// Annotation covers the arguments of the jsonerr:case directive.
	Annotation    source.Span
	HasAnnotation bool
}

// Unit is a type declaration group annotated with jsonerr:unit.
type Unit struct {
	Name      string
	Directive source.Span
	// Args covers `(internal_code = ...)`; empty when absent.
	Args  source.Span
	Cases []Case
}

// File is everything jsonerr needs from one Go source file.
type File struct {
	ID      source.FileID
	Path    string
	Package string
	Units   []Unit
}
