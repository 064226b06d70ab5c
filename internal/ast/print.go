package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpStatement writes a compact single-line rendering of a statement.
func DumpStatement(w io.Writer, s *Statement) {
	if s == nil {
		return
	}
	switch s.Kind {
	case StmtVarDef:
		fmt.Fprintf(w, "(def %s %s)\n", s.Name, ExprString(s.Body))
	case StmtFnDef:
		fmt.Fprintf(w, "(fn %s (%s) %s)\n", s.Name, strings.Join(s.Params, " "), ExprString(s.Body))
	case StmtEquation:
		fmt.Fprintf(w, "(eq %s %s %s)\n", s.CmpOp, ExprString(s.Body), ExprString(s.RHS))
	}
}

// ExprString renders an expression as an s-expression for dumps and tests.
func ExprString(e *Expr) string {
	if e == nil {
		return "_"
	}
	switch e.Kind {
	case ExprNumber:
		return strconv.FormatFloat(e.Number, 'g', -1, 64)
	case ExprInt:
		return strconv.FormatInt(e.Int, 10)
	case ExprIdent:
		return e.Name
	case ExprUnary:
		return "(" + e.UnOp.String() + " " + ExprString(e.Operand) + ")"
	case ExprBinary:
		return "(" + e.BinOp.String() + " " + ExprString(e.Left) + " " + ExprString(e.Right) + ")"
	case ExprCompare:
		return "(cmp " + e.CmpOp.String() + " " + ExprString(e.Left) + " " + ExprString(e.Right) + ")"
	case ExprPoint:
		return "(point" + elemsString(e.Elems) + ")"
	case ExprList:
		return "(list" + elemsString(e.Elems) + ")"
	case ExprRange:
		return "(range " + ExprString(e.Left) + " " + ExprString(e.Right) + ")"
	case ExprCall:
		return "(call " + e.Name + elemsString(e.Elems) + ")"
	case ExprCoord:
		return "(coord " + e.Coord.String() + " " + ExprString(e.Operand) + ")"
	case ExprPiecewise:
		var sb strings.Builder
		sb.WriteString("(piecewise")
		for _, arm := range e.Arms {
			sb.WriteString(" [" + ExprString(arm.Cond) + " " + ExprString(arm.Value) + "]")
		}
		if e.Default != nil {
			sb.WriteString(" " + ExprString(e.Default))
		}
		sb.WriteString(")")
		return sb.String()
	default:
		return "?"
	}
}

func elemsString(elems []*Expr) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(" ")
		sb.WriteString(ExprString(e))
	}
	return sb.String()
}
