package lexer

import (
	"jsonerr/internal/diag"
	"jsonerr/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdent сканирует идентификатор. Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, "unexpected character "+quoteRune(r))
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
		for {
			b := lx.cursor.Peek()
			if b < utf8RuneSelf {
				if !isIdentContinueByte(b) {
					break
				}
				lx.cursor.Bump()
				continue
			}
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(sp)}
}
