package token

// Kind represents the category of a directive token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the directive.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal, hex, octal or binary integer literal.
	IntLit
	// FloatLit is a floating-point literal; it is never valid in a directive
	// but is lexed as one token so the parser can report a precise type error.
	FloatLit
	// StringLit is an interpreted ("...") or raw (`...`) Go string literal.
	StringLit

	LParen // (
	RParen // )
	Comma  // ,
	Assign // =
	Dot    // .
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Assign:    "=",
	Dot:       ".",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
