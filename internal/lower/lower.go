// Package lower turns resolved expression trees into typed IR chunks.
//
// Lowering is a single synchronous pass per compiled unit: it walks the
// statement's expression, places operations on a fresh instruction sequence,
// and finishes with the unit's Ret. Implicit component-wise broadcasting
// over list operands and piecewise conditionals are expanded here, using the
// sequence's region builder.
package lower

import (
	"fmt"

	"desmir/internal/ast"
	"desmir/internal/compact"
	"desmir/internal/ir"
)

// Arg declares one chunk input by name.
type Arg struct {
	Name string
	Type ir.ValueType
}

// Env supplies declared types for identifiers that become chunk inputs.
// Identifiers without a declared type default to Number.
type Env map[string]ir.ValueType

// builder is the append surface shared by the top-level sequence and open
// broadcast regions, so expression lowering recurses freely into either.
type builder interface {
	Place(ir.Op) ir.Id
	Push(ir.Op)
	CoordinatesOf2D(ir.Id) (ir.Id, ir.Id)
	CoordinatesOf3D(ir.Id) (ir.Id, ir.Id, ir.Id)
	Broadcast(endIndex, writeTo ir.Id, binds []ir.Id, body func(*ir.BroadcastBuilder) (ir.Id, error)) (ir.Id, error)
}

type lowerer struct {
	seq  *ir.InstructionSeq
	args map[string]ir.ArgID
}

// Statement lowers one parsed graph line to a chunk. Function definitions
// take their parameters as inputs; variable definitions and equations take
// their free variables, in order of first appearance. Equations lower to the
// implicit difference LHS - RHS.
func Statement(stmt *ast.Statement, env Env) (*ir.Chunk, error) {
	switch stmt.Kind {
	case ast.StmtVarDef:
		return Expression(stmt.Name, stmt.Body, argsFor(FreeVars(stmt.Body), env))
	case ast.StmtFnDef:
		return Expression(stmt.Name, stmt.Body, argsFor(stmt.Params, env))
	case ast.StmtEquation:
		body := &ast.Expr{
			Kind:  ast.ExprBinary,
			Span:  stmt.Span,
			BinOp: ast.BinSub,
			Left:  stmt.Body,
			Right: stmt.RHS,
		}
		names := FreeVars(stmt.Body)
		for _, n := range FreeVars(stmt.RHS) {
			if !contains(names, n) {
				names = append(names, n)
			}
		}
		return Expression("implicit", body, argsFor(names, env))
	default:
		return nil, fmt.Errorf("unknown statement kind %d", stmt.Kind)
	}
}

// Expression lowers a single expression with an explicit input list.
func Expression(name string, expr *ast.Expr, args []Arg) (*ir.Chunk, error) {
	lw := &lowerer{
		seq:  ir.NewSeq(),
		args: make(map[string]ir.ArgID, len(args)),
	}
	for i, arg := range args {
		if !arg.Type.IsValueType() {
			return nil, fmt.Errorf("argument %s: %s is not a value type", arg.Name, arg.Type)
		}
		if _, dup := lw.args[arg.Name]; dup {
			return nil, fmt.Errorf("argument %s declared twice", arg.Name)
		}
		lw.args[arg.Name] = ir.NewArgID(uint32(i), arg.Type)
	}

	id, err := lw.lowerExpr(lw.seq, expr)
	if err != nil {
		return nil, err
	}
	ret := lw.seq.Place(ir.Ret{Value: id})
	if !ret.Type().IsValueType() {
		return nil, fmt.Errorf("expression yields %s, which is not a value type", ret.Type())
	}

	specs := make([]ir.ArgSpec, len(args))
	for i, arg := range args {
		specs[i] = ir.ArgSpec{Name: arg.Name, Type: arg.Type}
	}
	return &ir.Chunk{
		Name: name,
		Args: compact.Of(specs),
		Seq:  lw.seq,
		Ret:  ret,
	}, nil
}

// FreeVars returns the identifiers referenced by expr, in order of first
// appearance. Call targets are not identifiers.
func FreeVars(expr *ast.Expr) []string {
	var names []string
	ast.Walk(expr, func(e *ast.Expr) bool {
		if e.Kind == ast.ExprIdent && !contains(names, e.Name) {
			names = append(names, e.Name)
		}
		return true
	})
	return names
}

func argsFor(names []string, env Env) []Arg {
	args := make([]Arg, len(names))
	for i, name := range names {
		t := ir.TypeNumber
		if declared, ok := env[name]; ok {
			t = declared
		}
		args[i] = Arg{Name: name, Type: t}
	}
	return args
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
