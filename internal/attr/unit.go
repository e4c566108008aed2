package attr

import (
	"jsonerr/internal/diag"
	"jsonerr/internal/source"
	"jsonerr/internal/token"
)

// DefaultInternalCode is the code every internal case answers with unless configured.
const DefaultInternalCode = "internal-error"

// UnitConfig is the parsed form of a `jsonerr:unit` directive's arguments.
type UnitConfig struct {
	InternalCode string
	// Explicit is true when the directive itself set internal_code.
	Explicit bool
}

// ParseUnitConfig reads an optional `(internal_code = "...")` list at span.
// Anything absent or malformed falls back to fallback (or DefaultInternalCode
// when fallback is empty); nothing is ever reported.
func ParseUnitConfig(file *source.File, span source.Span, fallback string) UnitConfig {
	if fallback == "" {
		fallback = DefaultInternalCode
	}
	cfg := UnitConfig{InternalCode: fallback}
	if span.Empty() {
		return cfg
	}

	list := ParseArgs(file, span, diag.NopReporter{})
	if list == nil {
		return cfg
	}
	for _, elem := range list.Elems {
		assign, ok := elem.(*AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*PathExpr)
		if !ok || lhs.Ident() != "internal_code" {
			continue
		}
		lit, ok := assign.RHS.(*LitExpr)
		if !ok || lit.Tok.Kind != token.StringLit {
			continue
		}
		if s, err := unquote(lit.Tok.Text); err == nil && s != "" {
			cfg.InternalCode = s
			cfg.Explicit = true
			// первое валидное значение выигрывает
			break
		}
	}
	return cfg
}
