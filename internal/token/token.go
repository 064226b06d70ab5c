package token

import (
	"desmir/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit:
		return true
	default:
		return false
	}
}

// IsComparator reports whether the token can join two sides of an equation
// or a piecewise condition.
func (t Token) IsComparator() bool {
	switch t.Kind {
	case Eq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
