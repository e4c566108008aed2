package attr

import (
	"jsonerr/internal/diag"
	"jsonerr/internal/lexer"
	"jsonerr/internal/source"
	"jsonerr/internal/token"
)

type parser struct {
	lx     *lexer.Lexer
	rep    diag.Reporter
	tok    token.Token
	failed bool
}

// ParseArgs parses the directive arguments covered by span:
//
//	args   = "(" [ elem { "," elem } [ "," ] ] ")"
//	elem   = primary [ "=" primary ]
//	primary = path | literal | args
//
// It returns nil when the arguments are lexically or syntactically broken;
// the problem has already been reported to rep.
func ParseArgs(file *source.File, span source.Span, rep diag.Reporter) *ListExpr {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	p := &parser{
		lx:  lexer.NewRange(file, span, lexer.Options{Reporter: rep}),
		rep: rep,
	}
	p.advance()

	if p.tok.Kind != token.LParen {
		if p.tok.Kind != token.Invalid {
			at := p.tok.Span
			if p.tok.Kind == token.EOF {
				at = span
			}
			diag.ReportError(rep, diag.SynExpectParenList, at,
				"directive arguments must be a parenthesised list").Emit()
		}
		return nil
	}
	list := p.parseList()
	if list == nil || p.failed {
		return nil
	}
	if p.tok.Kind != token.EOF {
		if p.tok.Kind != token.Invalid {
			diag.ReportError(rep, diag.SynTrailingTokens, p.tok.Span,
				"unexpected "+p.tok.Kind.String()+" after the argument list").Emit()
		}
		return nil
	}
	if p.lx.Errors() > 0 {
		return nil
	}
	return list
}

func (p *parser) advance() {
	p.tok = p.lx.Next()
}

// parseList expects the current token to be "(".
func (p *parser) parseList() *ListExpr {
	open := p.tok
	p.advance()
	list := &ListExpr{}

	for p.tok.Kind != token.RParen {
		if p.tok.Kind == token.EOF {
			diag.ReportError(p.rep, diag.SynUnclosedParen, p.tok.Span, "expected `)`").
				WithNote(open.Span, "unclosed `(` opened here").
				Emit()
			p.failed = true
			return nil
		}
		elem := p.parseElem()
		if elem == nil {
			return nil
		}
		list.Elems = append(list.Elems, elem)

		switch p.tok.Kind {
		case token.Comma:
			p.advance()
		case token.RParen, token.EOF:
		case token.Invalid:
			p.failed = true
			return nil
		default:
			diag.ReportError(p.rep, diag.SynUnexpectedToken, p.tok.Span,
				"expected `,` or `)`, found "+p.tok.Kind.String()).Emit()
			p.failed = true
			return nil
		}
	}

	list.span = open.Span.Cover(p.tok.Span)
	p.advance()
	return list
}

func (p *parser) parseElem() Expr {
	lhs := p.parsePrimary()
	if lhs == nil {
		return nil
	}
	if p.tok.Kind != token.Assign {
		return lhs
	}
	p.advance()
	rhs := p.parsePrimary()
	if rhs == nil {
		return nil
	}
	return &AssignExpr{LHS: lhs, RHS: rhs}
}

func (p *parser) parsePrimary() Expr {
	switch p.tok.Kind {
	case token.Ident:
		path := &PathExpr{Segments: []string{p.tok.Text}, span: p.tok.Span}
		p.advance()
		for p.tok.Kind == token.Dot {
			dot := p.tok
			p.advance()
			if p.tok.Kind != token.Ident {
				if p.tok.Kind != token.Invalid {
					diag.ReportError(p.rep, diag.SynUnexpectedToken, dot.Span.Cover(p.tok.Span),
						"expected identifier after `.`").Emit()
				}
				p.failed = true
				return nil
			}
			path.Segments = append(path.Segments, p.tok.Text)
			path.span = path.span.Cover(p.tok.Span)
			p.advance()
		}
		return path
	case token.IntLit, token.FloatLit, token.StringLit:
		lit := &LitExpr{Tok: p.tok}
		p.advance()
		return lit
	case token.LParen:
		return p.parseList()
	case token.Invalid:
		// лексер уже сообщил
		p.failed = true
		return nil
	default:
		diag.ReportError(p.rep, diag.SynExpectExpression, p.tok.Span,
			"expected expression, found "+p.tok.Kind.String()).Emit()
		p.failed = true
		return nil
	}
}
