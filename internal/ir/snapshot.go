package ir

import (
	"fmt"

	"jsonerr/internal/attr"
)

// Snapshot is the flat, serialisable form of a Unit used by
// `jsonerr diag --emit-ir` and by the driver's disk cache.
type Snapshot struct {
	Name         string         `json:"name" msgpack:"name"`
	Package      string         `json:"package" msgpack:"package"`
	InternalCode string         `json:"internal_code" msgpack:"internal_code"`
	Cases        []CaseSnapshot `json:"cases" msgpack:"cases"`
}

// CaseSnapshot is one case of a Snapshot.
type CaseSnapshot struct {
	Name         string `json:"name" msgpack:"name"`
	Kind         string `json:"kind" msgpack:"kind"`
	Naive        bool   `json:"naive" msgpack:"naive"`
	PayloadField string `json:"payload_field,omitempty" msgpack:"payload_field,omitempty"`
	PayloadType  string `json:"payload_type,omitempty" msgpack:"payload_type,omitempty"`
	Status       int    `json:"status,omitempty" msgpack:"status,omitempty"`
	StatusSymbol string `json:"status_symbol,omitempty" msgpack:"status_symbol,omitempty"`
	Code         string `json:"code,omitempty" msgpack:"code,omitempty"`
	Hint         string `json:"hint,omitempty" msgpack:"hint,omitempty"`
	Description  string `json:"description,omitempty" msgpack:"description,omitempty"`
}

const (
	kindRequest  = "request"
	kindInternal = "internal"
)

// Snapshot flattens u.
func (u *Unit) Snapshot() Snapshot {
	s := Snapshot{
		Name:         u.Name,
		Package:      u.Package,
		InternalCode: u.Config.InternalCode,
		Cases:        make([]CaseSnapshot, 0, len(u.Cases)),
	}
	for _, c := range u.Cases {
		cs := CaseSnapshot{
			Name:         c.Name,
			Naive:        c.Naive,
			PayloadField: c.Payload.Field,
			PayloadType:  c.Payload.Type,
		}
		switch k := c.Kind.(type) {
		case ClientFacing:
			cs.Kind = kindRequest
			cs.Status = k.Status.Value
			cs.StatusSymbol = k.Status.Symbol
			cs.Code = k.Code
			cs.Hint = k.Hint
			cs.Description = k.Description
		case Internal:
			cs.Kind = kindInternal
		default:
			panic(fmt.Sprintf("ir: unexpected case kind %T", c.Kind))
		}
		s.Cases = append(s.Cases, cs)
	}
	return s
}

// Restore rebuilds a Unit from a snapshot. Spans are not preserved.
func (s Snapshot) Restore() (*Unit, error) {
	u := &Unit{
		Name:    s.Name,
		Package: s.Package,
		Config:  Config{InternalCode: s.InternalCode},
		Cases:   make([]Case, 0, len(s.Cases)),
	}
	for _, cs := range s.Cases {
		c := Case{
			Name:    cs.Name,
			Naive:   cs.Naive,
			Payload: Payload{Field: cs.PayloadField, Type: cs.PayloadType},
		}
		switch cs.Kind {
		case kindRequest:
			c.Kind = ClientFacing{
				Status:      attr.Status{Value: cs.Status, Symbol: cs.StatusSymbol},
				Code:        cs.Code,
				Hint:        cs.Hint,
				Description: cs.Description,
			}
		case kindInternal:
			c.Kind = Internal{}
		default:
			return nil, fmt.Errorf("ir: case %s has unknown kind %q", cs.Name, cs.Kind)
		}
		u.Cases = append(u.Cases, c)
	}
	return u, nil
}
