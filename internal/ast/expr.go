package ast

import (
	"desmir/internal/source"
)

// ExprKind enumerates expression node kinds.
type ExprKind uint8

const (
	// ExprNumber represents a float literal.
	ExprNumber ExprKind = iota
	// ExprInt represents an integer literal.
	ExprInt
	// ExprIdent represents an identifier reference.
	ExprIdent
	// ExprUnary represents a unary operation.
	ExprUnary
	// ExprBinary represents a binary operation.
	ExprBinary
	// ExprCompare represents a comparison (piecewise conditions only).
	ExprCompare
	// ExprPoint represents a 2D or 3D point literal.
	ExprPoint
	// ExprList represents a list literal.
	ExprList
	// ExprRange represents a list range literal [lo...hi].
	ExprRange
	// ExprCall represents a call to a named function or builtin.
	ExprCall
	// ExprCoord represents a coordinate access (p.x, p.y, p.z).
	ExprCoord
	// ExprPiecewise represents a piecewise expression {cond: a, ..., b}.
	ExprPiecewise
)

// PiecewiseArm is one condition/value pair of a piecewise expression.
type PiecewiseArm struct {
	Cond  *Expr
	Value *Expr
}

// Expr is a node of the resolved expression tree. Kind selects which payload
// fields are meaningful.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Number float64          // ExprNumber
	Int    int64            // ExprInt
	Name   string           // ExprIdent, ExprCall
	BinOp  BinaryOp         // ExprBinary
	UnOp   UnaryOp          // ExprUnary
	CmpOp  Comparison       // ExprCompare
	Coord  CoordinateAccess // ExprCoord

	Left    *Expr          // ExprBinary, ExprCompare, ExprRange
	Right   *Expr          // ExprBinary, ExprCompare, ExprRange
	Operand *Expr          // ExprUnary, ExprCoord
	Elems   []*Expr        // ExprPoint, ExprList, ExprCall arguments
	Arms    []PiecewiseArm // ExprPiecewise
	Default *Expr          // ExprPiecewise fallback; nil when omitted
}

// StatementKind enumerates the top-level line forms.
type StatementKind uint8

const (
	// StmtVarDef represents `name = expr`.
	StmtVarDef StatementKind = iota
	// StmtFnDef represents `name(params...) = expr`.
	StmtFnDef
	// StmtEquation represents `expr cmp expr`.
	StmtEquation
)

// Statement is one parsed graph line.
type Statement struct {
	Kind StatementKind
	Span source.Span

	Name   string     // StmtVarDef, StmtFnDef
	Params []string   // StmtFnDef
	Body   *Expr      // definition value / function body / equation LHS
	CmpOp  Comparison // StmtEquation
	RHS    *Expr      // StmtEquation
}

// Walk calls fn for e and every expression reachable from it, parents first.
// A false return prunes the subtree.
func Walk(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	Walk(e.Left, fn)
	Walk(e.Right, fn)
	Walk(e.Operand, fn)
	for _, c := range e.Elems {
		Walk(c, fn)
	}
	for _, arm := range e.Arms {
		Walk(arm.Cond, fn)
		Walk(arm.Value, fn)
	}
	Walk(e.Default, fn)
}
