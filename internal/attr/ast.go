package attr

import (
	"strings"

	"jsonerr/internal/source"
	"jsonerr/internal/token"
)

// Expr is one element of a directive argument list.
type Expr interface {
	Span() source.Span
}

// PathExpr is an identifier or a dotted path such as http.StatusNotFound.
type PathExpr struct {
	Segments []string
	span     source.Span
}

func (e *PathExpr) Span() source.Span { return e.span }

// Ident returns the single identifier of the path, or "" for dotted paths.
func (e *PathExpr) Ident() string {
	if len(e.Segments) != 1 {
		return ""
	}
	return e.Segments[0]
}

func (e *PathExpr) String() string { return strings.Join(e.Segments, ".") }

// LitExpr is a number or string literal.
type LitExpr struct {
	Tok token.Token
}

func (e *LitExpr) Span() source.Span { return e.Tok.Span }

// AssignExpr is `lhs = rhs`.
type AssignExpr struct {
	LHS, RHS Expr
}

func (e *AssignExpr) Span() source.Span { return e.LHS.Span().Cover(e.RHS.Span()) }

// ListExpr is a parenthesised, comma separated list.
type ListExpr struct {
	Elems []Expr
	span  source.Span
}

func (e *ListExpr) Span() source.Span { return e.span }

// describe names the shape of e for diagnostics.
func describe(e Expr) string {
	switch v := e.(type) {
	case *PathExpr:
		return "path `" + v.String() + "`"
	case *LitExpr:
		switch v.Tok.Kind {
		case token.StringLit:
			return "string literal"
		case token.FloatLit:
			return "float literal"
		default:
			return "integer literal"
		}
	case *AssignExpr:
		return "assignment"
	case *ListExpr:
		return "parenthesised list"
	}
	return "expression"
}
