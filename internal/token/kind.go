package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a float literal token.
	FloatLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Caret represents the exponentiation operator token.
	Caret // ^
	// Eq represents the equals token, both definition and comparison.
	Eq // =
	// Lt represents the less-than comparator token.
	Lt // <
	// LtEq represents the less-or-equal comparator token.
	LtEq // <=
	// Gt represents the greater-than comparator token.
	Gt // >
	// GtEq represents the greater-or-equal comparator token.
	GtEq // >=
	// Colon represents the colon token used in piecewise arms.
	Colon // :
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the coordinate access dot token.
	Dot // .
	// Ellipsis represents the list range token.
	Ellipsis // ...
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token (piecewise).
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token (lists).
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:  "invalid",
	EOF:      "eof",
	Ident:    "ident",
	IntLit:   "int",
	FloatLit: "float",
	Plus:     "+",
	Minus:    "-",
	Star:     "*",
	Slash:    "/",
	Caret:    "^",
	Eq:       "=",
	Lt:       "<",
	LtEq:     "<=",
	Gt:       ">",
	GtEq:     ">=",
	Colon:    ":",
	Comma:    ",",
	Dot:      ".",
	Ellipsis: "...",
	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	LBracket: "[",
	RBracket: "]",
}

// String returns the canonical spelling (or name) of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
