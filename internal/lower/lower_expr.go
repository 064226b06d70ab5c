package lower

import (
	"fmt"
	"math"

	"desmir/internal/ast"
	"desmir/internal/ir"
)

func (lw *lowerer) lowerExpr(b builder, e *ast.Expr) (ir.Id, error) {
	switch e.Kind {
	case ast.ExprNumber:
		return b.Place(ir.Const{Value: e.Number}), nil

	case ast.ExprInt:
		return b.Place(ir.IConst{Value: e.Int}), nil

	case ast.ExprIdent:
		arg, ok := lw.args[e.Name]
		if !ok {
			return ir.Id{}, fmt.Errorf("unknown identifier %q", e.Name)
		}
		return b.Place(ir.LoadArg{Arg: arg}), nil

	case ast.ExprUnary:
		operand, err := lw.lowerExpr(b, e.Operand)
		if err != nil {
			return ir.Id{}, err
		}
		return lw.lowerUnary(b, operand, e.UnOp)

	case ast.ExprBinary:
		lhs, err := lw.lowerExpr(b, e.Left)
		if err != nil {
			return ir.Id{}, err
		}
		rhs, err := lw.lowerExpr(b, e.Right)
		if err != nil {
			return ir.Id{}, err
		}
		return lw.lowerBinary(b, lhs, rhs, e.BinOp)

	case ast.ExprCompare:
		return ir.Id{}, fmt.Errorf("comparison is only valid as a piecewise condition")

	case ast.ExprPoint:
		return lw.lowerPoint(b, e)

	case ast.ExprList, ast.ExprRange:
		// No store-element operation exists in the IR yet; literal lists
		// would need a broadcast over an index source.
		return ir.Id{}, fmt.Errorf("list literals are not supported yet")

	case ast.ExprCall:
		return lw.lowerCall(b, e)

	case ast.ExprCoord:
		operand, err := lw.lowerExpr(b, e.Operand)
		if err != nil {
			return ir.Id{}, err
		}
		return lw.lowerCoord(b, operand, e.Coord)

	case ast.ExprPiecewise:
		return lw.lowerPiecewise(b, e)

	default:
		return ir.Id{}, fmt.Errorf("unsupported expression kind %d", e.Kind)
	}
}

// lowerBinary applies op to two lowered operands. List operands broadcast
// component-wise; vector operands decompose into coordinates; scalars apply
// the operator to vector components directly.
func (lw *lowerer) lowerBinary(b builder, lhs, rhs ir.Id, op ast.BinaryOp) (ir.Id, error) {
	lt, rt := lhs.Type(), rhs.Type()

	if lt.IsList() || rt.IsList() {
		return lw.broadcastBinary(b, lhs, rhs, op)
	}

	switch {
	case lt == ir.TypeNumber && rt == ir.TypeNumber:
		return b.Place(ir.Binary{A: lhs, B: rhs, Op: op}), nil

	case lt == ir.TypeVec2 && rt == ir.TypeVec2:
		lx, ly := b.CoordinatesOf2D(lhs)
		rx, ry := b.CoordinatesOf2D(rhs)
		x := b.Place(ir.Binary{A: lx, B: rx, Op: op})
		y := b.Place(ir.Binary{A: ly, B: ry, Op: op})
		return b.Place(ir.Vec2{X: x, Y: y}), nil

	case lt == ir.TypeVec3 && rt == ir.TypeVec3:
		lx, ly, lz := b.CoordinatesOf3D(lhs)
		rx, ry, rz := b.CoordinatesOf3D(rhs)
		x := b.Place(ir.Binary{A: lx, B: rx, Op: op})
		y := b.Place(ir.Binary{A: ly, B: ry, Op: op})
		z := b.Place(ir.Binary{A: lz, B: rz, Op: op})
		return b.Place(ir.Vec3{X: x, Y: y, Z: z}), nil

	case lt == ir.TypeNumber && rt == ir.TypeVec2:
		rx, ry := b.CoordinatesOf2D(rhs)
		x := b.Place(ir.Binary{A: lhs, B: rx, Op: op})
		y := b.Place(ir.Binary{A: lhs, B: ry, Op: op})
		return b.Place(ir.Vec2{X: x, Y: y}), nil

	case lt == ir.TypeVec2 && rt == ir.TypeNumber:
		lx, ly := b.CoordinatesOf2D(lhs)
		x := b.Place(ir.Binary{A: lx, B: rhs, Op: op})
		y := b.Place(ir.Binary{A: ly, B: rhs, Op: op})
		return b.Place(ir.Vec2{X: x, Y: y}), nil

	case lt == ir.TypeNumber && rt == ir.TypeVec3:
		rx, ry, rz := b.CoordinatesOf3D(rhs)
		x := b.Place(ir.Binary{A: lhs, B: rx, Op: op})
		y := b.Place(ir.Binary{A: lhs, B: ry, Op: op})
		z := b.Place(ir.Binary{A: lhs, B: rz, Op: op})
		return b.Place(ir.Vec3{X: x, Y: y, Z: z}), nil

	case lt == ir.TypeVec3 && rt == ir.TypeNumber:
		lx, ly, lz := b.CoordinatesOf3D(lhs)
		x := b.Place(ir.Binary{A: lx, B: rhs, Op: op})
		y := b.Place(ir.Binary{A: ly, B: rhs, Op: op})
		z := b.Place(ir.Binary{A: lz, B: rhs, Op: op})
		return b.Place(ir.Vec3{X: x, Y: y, Z: z}), nil

	default:
		return ir.Id{}, fmt.Errorf("cannot apply %s to %s and %s", op, lt, rt)
	}
}

// broadcastBinary wraps lowerBinary in a broadcast region over the list
// operands. Two list operands zip; the iteration bound is the first list's
// length.
func (lw *lowerer) broadcastBinary(b builder, lhs, rhs ir.Id, op ast.BinaryOp) (ir.Id, error) {
	var binds []ir.Id
	lhsSlot, rhsSlot := -1, -1
	if lhs.Type().IsList() {
		lhsSlot = len(binds)
		binds = append(binds, lhs)
	}
	if rhs.Type().IsList() {
		rhsSlot = len(binds)
		binds = append(binds, rhs)
	}

	elemResult, err := broadcastResultType(lhs.Type(), rhs.Type(), op)
	if err != nil {
		return ir.Id{}, err
	}

	length := b.Place(ir.ListLength{List: binds[0]})
	writeOp, err := elemResult.ListOf(length)
	if err != nil {
		return ir.Id{}, err
	}
	writeTo := b.Place(writeOp)

	return b.Broadcast(length, writeTo, binds, func(bb *ir.BroadcastBuilder) (ir.Id, error) {
		l, r := lhs, rhs
		if lhsSlot >= 0 {
			if l, err = bb.LoadArg(lhsSlot); err != nil {
				return ir.Id{}, err
			}
		}
		if rhsSlot >= 0 {
			if r, err = bb.LoadArg(rhsSlot); err != nil {
				return ir.Id{}, err
			}
		}
		return lw.lowerBinary(bb, l, r, op)
	})
}

// broadcastResultType predicts the element type a broadcast binary produces,
// so the output list can be allocated before the body is lowered.
func broadcastResultType(lt, rt ir.ValueType, op ast.BinaryOp) (ir.ValueType, error) {
	le, re := lt, rt
	if e, ok := lt.Elem(); ok {
		le = e
	}
	if e, ok := rt.Elem(); ok {
		re = e
	}
	switch {
	case le == ir.TypeNumber && re == ir.TypeNumber:
		return ir.TypeNumber, nil
	case le == ir.TypeVec2 && re == ir.TypeVec2,
		le == ir.TypeNumber && re == ir.TypeVec2,
		le == ir.TypeVec2 && re == ir.TypeNumber:
		return ir.TypeVec2, nil
	case le == ir.TypeVec3 && re == ir.TypeVec3,
		le == ir.TypeNumber && re == ir.TypeVec3,
		le == ir.TypeVec3 && re == ir.TypeNumber:
		return ir.TypeVec3, nil
	default:
		return 0, fmt.Errorf("cannot apply %s to %s and %s", op, lt, rt)
	}
}

// lowerUnary applies op to a lowered operand. Negation distributes over
// vector components; everything broadcasts over lists.
func (lw *lowerer) lowerUnary(b builder, operand ir.Id, op ast.UnaryOp) (ir.Id, error) {
	t := operand.Type()

	if t.IsList() {
		elem, _ := t.Elem()
		if elem != ir.TypeNumber && op != ast.UnaryNeg {
			return ir.Id{}, fmt.Errorf("cannot apply %s to %s", op, t)
		}
		length := b.Place(ir.ListLength{List: operand})
		writeOp, err := elem.ListOf(length)
		if err != nil {
			return ir.Id{}, err
		}
		writeTo := b.Place(writeOp)
		return b.Broadcast(length, writeTo, []ir.Id{operand}, func(bb *ir.BroadcastBuilder) (ir.Id, error) {
			elemID, err := bb.LoadArg(0)
			if err != nil {
				return ir.Id{}, err
			}
			return lw.lowerUnary(bb, elemID, op)
		})
	}

	switch t {
	case ir.TypeNumber:
		return b.Place(ir.Unary{A: operand, Op: op}), nil
	case ir.TypeVec2:
		if op != ast.UnaryNeg {
			return ir.Id{}, fmt.Errorf("cannot apply %s to %s", op, t)
		}
		x, y := b.CoordinatesOf2D(operand)
		nx := b.Place(ir.Unary{A: x, Op: op})
		ny := b.Place(ir.Unary{A: y, Op: op})
		return b.Place(ir.Vec2{X: nx, Y: ny}), nil
	case ir.TypeVec3:
		if op != ast.UnaryNeg {
			return ir.Id{}, fmt.Errorf("cannot apply %s to %s", op, t)
		}
		x, y, z := b.CoordinatesOf3D(operand)
		nx := b.Place(ir.Unary{A: x, Op: op})
		ny := b.Place(ir.Unary{A: y, Op: op})
		nz := b.Place(ir.Unary{A: z, Op: op})
		return b.Place(ir.Vec3{X: nx, Y: ny, Z: nz}), nil
	default:
		return ir.Id{}, fmt.Errorf("cannot apply %s to %s", op, t)
	}
}

// lowerCoord extracts a vector component, broadcasting over vector lists.
func (lw *lowerer) lowerCoord(b builder, operand ir.Id, axis ast.CoordinateAccess) (ir.Id, error) {
	t := operand.Type()

	if t.IsList() {
		elem, _ := t.Elem()
		if elem == ir.TypeNumber {
			return ir.Id{}, fmt.Errorf("cannot access .%s of %s", axis, t)
		}
		length := b.Place(ir.ListLength{List: operand})
		writeOp, err := ir.TypeNumber.ListOf(length)
		if err != nil {
			return ir.Id{}, err
		}
		writeTo := b.Place(writeOp)
		return b.Broadcast(length, writeTo, []ir.Id{operand}, func(bb *ir.BroadcastBuilder) (ir.Id, error) {
			elemID, err := bb.LoadArg(0)
			if err != nil {
				return ir.Id{}, err
			}
			return lw.lowerCoord(bb, elemID, axis)
		})
	}

	switch t {
	case ir.TypeVec2:
		if axis == ast.CoordZ {
			return ir.Id{}, fmt.Errorf("cannot access .z of %s", t)
		}
		return b.Place(ir.CoordinateOf{Of: operand, Axis: axis}), nil
	case ir.TypeVec3:
		return b.Place(ir.CoordinateOf{Of: operand, Axis: axis}), nil
	default:
		return ir.Id{}, fmt.Errorf("cannot access .%s of %s", axis, t)
	}
}

func (lw *lowerer) lowerPoint(b builder, e *ast.Expr) (ir.Id, error) {
	ids := make([]ir.Id, len(e.Elems))
	for i, comp := range e.Elems {
		id, err := lw.lowerExpr(b, comp)
		if err != nil {
			return ir.Id{}, err
		}
		if id.Type() != ir.TypeNumber {
			return ir.Id{}, fmt.Errorf("point component %d is %s, want number", i+1, id.Type())
		}
		ids[i] = id
	}
	switch len(ids) {
	case 2:
		return b.Place(ir.Vec2{X: ids[0], Y: ids[1]}), nil
	case 3:
		return b.Place(ir.Vec3{X: ids[0], Y: ids[1], Z: ids[2]}), nil
	default:
		return ir.Id{}, fmt.Errorf("point literal has %d components", len(ids))
	}
}

func (lw *lowerer) lowerCall(b builder, e *ast.Expr) (ir.Id, error) {
	if op, ok := ast.Builtin(e.Name); ok {
		if len(e.Elems) != 1 {
			return ir.Id{}, fmt.Errorf("%s takes 1 argument, got %d", e.Name, len(e.Elems))
		}
		operand, err := lw.lowerExpr(b, e.Elems[0])
		if err != nil {
			return ir.Id{}, err
		}
		return lw.lowerUnary(b, operand, op)
	}

	if e.Name == "length" {
		if len(e.Elems) != 1 {
			return ir.Id{}, fmt.Errorf("length takes 1 argument, got %d", len(e.Elems))
		}
		operand, err := lw.lowerExpr(b, e.Elems[0])
		if err != nil {
			return ir.Id{}, err
		}
		if !operand.Type().IsList() {
			return ir.Id{}, fmt.Errorf("length of %s, want a list", operand.Type())
		}
		return b.Place(ir.ListLength{List: operand}), nil
	}

	// Inlining user-defined functions needs cross-unit resolution.
	return ir.Id{}, fmt.Errorf("call to %q is not supported yet", e.Name)
}

// lowerPiecewise lowers the conditional chain. Conditions compare numbers;
// all branch values and the fallback share one type. A missing fallback
// defaults to NaN.
func (lw *lowerer) lowerPiecewise(b builder, e *ast.Expr) (ir.Id, error) {
	var chain ir.Id
	var resultType ir.ValueType

	for i, arm := range e.Arms {
		cond, err := lw.lowerCondition(b, arm.Cond)
		if err != nil {
			return ir.Id{}, err
		}
		value, err := lw.lowerExpr(b, arm.Value)
		if err != nil {
			return ir.Id{}, err
		}
		if i == 0 {
			resultType = value.Type()
			chain = b.Place(ir.BeginPiecewise{Comp: cond, Res: value})
			continue
		}
		if value.Type() != resultType {
			return ir.Id{}, fmt.Errorf("piecewise branch %d is %s, previous branches are %s", i+1, value.Type(), resultType)
		}
		b.Push(ir.InnerPiecewise{Comp: cond, Res: value})
	}

	var fallback ir.Id
	if e.Default != nil {
		var err error
		fallback, err = lw.lowerExpr(b, e.Default)
		if err != nil {
			return ir.Id{}, err
		}
		if fallback.Type() != resultType {
			return ir.Id{}, fmt.Errorf("piecewise fallback is %s, branches are %s", fallback.Type(), resultType)
		}
	} else {
		if resultType != ir.TypeNumber {
			return ir.Id{}, fmt.Errorf("piecewise over %s needs an explicit fallback", resultType)
		}
		fallback = b.Place(ir.Const{Value: math.NaN()})
	}
	b.Push(ir.EndPiecewise{Default: fallback})
	return chain, nil
}

func (lw *lowerer) lowerCondition(b builder, cond *ast.Expr) (ir.Id, error) {
	if cond.Kind != ast.ExprCompare {
		return ir.Id{}, fmt.Errorf("piecewise condition must be a comparison")
	}
	lhs, err := lw.lowerExpr(b, cond.Left)
	if err != nil {
		return ir.Id{}, err
	}
	rhs, err := lw.lowerExpr(b, cond.Right)
	if err != nil {
		return ir.Id{}, err
	}
	if lhs.Type() != ir.TypeNumber || rhs.Type() != ir.TypeNumber {
		return ir.Id{}, fmt.Errorf("comparison over %s and %s, want numbers", lhs.Type(), rhs.Type())
	}
	return b.Place(ir.Comparison{LHS: lhs, Comp: cond.CmpOp, RHS: rhs}), nil
}
