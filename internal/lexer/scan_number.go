package lexer

import (
	"jsonerr/internal/diag"
	"jsonerr/internal/token"
)

// Поддержка: 0, 404, 0b..., 0o..., 0x..., 1_000, а также 4.04 и 1e3 (FloatLit).
// Число, к которому приклеен идентификатор (404abc), — ошибка LexBadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			lx.eatDigits(func(b byte) bool { return b == '0' || b == '1' })
			return lx.finishNumber(start, kind)
		case 'o', 'O':
			lx.cursor.Bump()
			lx.eatDigits(func(b byte) bool { return b >= '0' && b <= '7' })
			return lx.finishNumber(start, kind)
		case 'x', 'X':
			lx.cursor.Bump()
			lx.eatDigits(isHex)
			return lx.finishNumber(start, kind)
		}
	}

	lx.eatDigits(isDec)

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		lx.eatDigits(isDec)
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) eatDigits(accept func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if !accept(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if b := lx.cursor.Peek(); isIdentContinueByte(b) || b >= utf8RuneSelf {
		for {
			b := lx.cursor.Peek()
			if !isIdentContinueByte(b) && b < utf8RuneSelf || lx.cursor.EOF() {
				break
			}
			lx.bumpRune()
		}
		return lx.badNumber(start, "invalid number literal")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
