// Package ir holds the validated representation of one jsonerr unit.
//
// The IR is the contract between parsing and lowering: lowering passes only
// read it, never the source. A Unit is built once and never mutated.
package ir

import (
	"jsonerr/internal/attr"
	"jsonerr/internal/source"
)

// InternalStatus is the status every internal case answers with.
const InternalStatus = 500

// InternalErrorName names the one documentation artifact shared by all internal
// cases of a file. Units of one file must agree on its code.
const InternalErrorName = "InternalError"

// Kind is either ClientFacing or Internal.
type Kind interface {
	isKind()
}

// ClientFacing cases expose status, code and hint to the requester.
type ClientFacing struct {
	Status      attr.Status
	Code        string
	Hint        string
	Description string
}

// Internal cases are logged and answered with the unit's internal code.
type Internal struct{}

func (ClientFacing) isKind() {}
func (Internal) isKind()     {}

// Payload selects the inner value of a non-naive case.
type Payload struct {
	// Field is the struct field holding the value; empty means the value itself.
	Field string
	Type  string
}

// Expr returns the Go expression reading the payload from receiver recv.
func (p Payload) Expr(recv string) string {
	if p.Field == "" {
		return recv
	}
	return recv + "." + p.Field
}

// Case is one declared error variant.
type Case struct {
	Name    string
	Naive   bool
	Payload Payload
	Kind    Kind
	Span    source.Span
}

// IsInternal reports whether c is an internal case.
func (c Case) IsInternal() bool {
	_, ok := c.Kind.(Internal)
	return ok
}

// Config is the unit-level configuration.
type Config struct {
	InternalCode string
}

// DefaultConfig returns the configuration of a unit without arguments.
func DefaultConfig() Config {
	return Config{InternalCode: attr.DefaultInternalCode}
}

// Unit is the IR of one compilation unit; Cases keep declaration order.
type Unit struct {
	Name    string
	Package string
	Config  Config
	Cases   []Case
}

// HasInternal reports whether at least one case is internal.
func (u *Unit) HasInternal() bool {
	for _, c := range u.Cases {
		if c.IsInternal() {
			return true
		}
	}
	return false
}

// Case looks a case up by name.
func (u *Unit) Case(name string) (Case, bool) {
	for _, c := range u.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}
