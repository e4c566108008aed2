// Package response lowers a unit IR into its response-conversion table:
// one Rule per case, in declaration order.
package response

import (
	"fmt"

	"jsonerr/internal/ir"
	"jsonerr/jsonresp"
)

// Options configures lowering.
type Options struct {
	// Log enables the log record of internal cases.
	Log bool
}

// DefaultOptions logs internal cases.
func DefaultOptions() Options { return Options{Log: true} }

// Rule is the conversion of one case.
type Rule struct {
	Case     string
	Naive    bool
	Internal bool

	Status int
	// StatusSymbol is the http constant the status was written with, if any.
	StatusSymbol string
	Code         string
	Hint         string

	// Record is "<Unit>::<Case>"; empty for client-facing rules.
	Record string
	Log    bool
	// Payload is the Go expression of the payload on receiver "e".
	Payload string
}

// Table is the lowered form of one unit.
type Table struct {
	Unit  string
	Rules []Rule
}

// Lower builds the conversion table of u. It panics on a case kind it does
// not know: that is a defect in the IR builder, not a user error.
func Lower(u *ir.Unit, opts Options) *Table {
	t := &Table{Unit: u.Name, Rules: make([]Rule, 0, len(u.Cases))}
	for _, c := range u.Cases {
		r := Rule{Case: c.Name, Naive: c.Naive}
		if !c.Naive {
			r.Payload = c.Payload.Expr("e")
		}
		switch k := c.Kind.(type) {
		case ir.ClientFacing:
			r.Status = k.Status.Value
			r.StatusSymbol = k.Status.Symbol
			r.Code = k.Code
			r.Hint = k.Hint
		case ir.Internal:
			r.Internal = true
			r.Status = ir.InternalStatus
			r.Code = u.Config.InternalCode
			r.Record = u.Name + "::" + c.Name
			r.Log = opts.Log
		default:
			panic(fmt.Sprintf("response: unknown case kind %T for %s::%s", c.Kind, u.Name, c.Name))
		}
		t.Rules = append(t.Rules, r)
	}
	return t
}

// Rule returns the rule of the named case.
func (t *Table) Rule(name string) (Rule, bool) {
	for _, r := range t.Rules {
		if r.Case == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Convert evaluates r against payload the way the generated JSONError method
// does. payload is ignored for naive rules; internal payloads only reach the log.
func (r Rule) Convert(payload any) *jsonresp.Error {
	if r.Internal {
		if r.Log {
			if r.Naive {
				jsonresp.LogInternal(r.Record)
			} else {
				jsonresp.LogInternal(r.Record, fmt.Sprint(payload))
			}
		}
		return jsonresp.Internal(r.Code)
	}
	var content any
	if !r.Naive {
		content = payload
	}
	return jsonresp.Request(r.Status, r.Code, r.Hint, content)
}
