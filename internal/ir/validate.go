package ir

import (
	"errors"
	"fmt"
)

// Validate checks the flat log's well-formedness invariants after lowering:
//
//  1. Every operand id references an earlier position.
//  2. Broadcast and piecewise regions are well-nested; every end marker
//     references the begin marker of its own region.
//  3. SetBroadcastArg appears only directly after BeginBroadcast or another
//     SetBroadcastArg of the same opening.
//  4. Never-typed operations are never consumed as values.
//  5. The cached type on every operand id matches the defining operation.
//
// The storage layer guarantees none of this; the builder layer is supposed
// to, and Validate asserts it as a testable property.
func Validate(s *InstructionSeq) error {
	var errs []error
	v := &validator{seq: s}
	for i, op := range s.ops {
		if err := v.check(uint32(i), op); err != nil {
			errs = append(errs, fmt.Errorf("%%%d: %w", i, err))
		}
	}
	for _, r := range v.stack {
		errs = append(errs, fmt.Errorf("%%%d: region never closed", r.begin))
	}
	return errors.Join(errs...)
}

// ValidateChunk validates the sequence plus the chunk-level contract: args
// and result are value types, the log ends with the chunk's single Ret.
func ValidateChunk(c *Chunk) error {
	var errs []error
	for i, arg := range c.Args.View() {
		if !arg.Type.IsValueType() {
			errs = append(errs, fmt.Errorf("arg %d (%s): %s is not a value type", i, arg.Name, arg.Type))
		}
	}
	if err := Validate(c.Seq); err != nil {
		errs = append(errs, err)
	}
	if n := c.Seq.Len(); n == 0 {
		errs = append(errs, errors.New("empty sequence"))
	} else {
		last, err := c.Seq.Latest()
		if err == nil {
			if _, ok := last.(Ret); !ok {
				errs = append(errs, fmt.Errorf("sequence ends with %T, want Ret", last))
			}
		}
		if int(c.Ret.Idx()) != n-1 {
			errs = append(errs, fmt.Errorf("chunk ret id %%%d is not the final position %%%d", c.Ret.Idx(), n-1))
		}
		if !c.Ret.Type().IsValueType() {
			errs = append(errs, fmt.Errorf("chunk result type %s is not a value type", c.Ret.Type()))
		}
	}
	retCount := 0
	for _, op := range c.Seq.ops {
		if _, ok := op.(Ret); ok {
			retCount++
		}
	}
	if retCount != 1 {
		errs = append(errs, fmt.Errorf("chunk has %d Ret operations, want exactly 1", retCount))
	}
	return errors.Join(errs...)
}

type regionKind uint8

const (
	regionBroadcast regionKind = iota
	regionPiecewise
)

type region struct {
	kind  regionKind
	begin uint32
	// opening reports whether the broadcast's SetBroadcastArg prefix is
	// still running.
	opening bool
	slots   map[uint8]ValueType
}

type validator struct {
	seq   *InstructionSeq
	stack []*region
}

func (v *validator) top() *region {
	if len(v.stack) == 0 {
		return nil
	}
	return v.stack[len(v.stack)-1]
}

// innermostBroadcast finds the closest enclosing broadcast region.
func (v *validator) innermostBroadcast() *region {
	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i].kind == regionBroadcast {
			return v.stack[i]
		}
	}
	return nil
}

func (v *validator) check(pos uint32, op Op) error {
	// Any non-SetBroadcastArg instruction terminates an opening prefix.
	if r := v.top(); r != nil && r.opening {
		if _, ok := op.(SetBroadcastArg); !ok {
			r.opening = false
		}
	}

	switch op := op.(type) {
	case Binary:
		return v.operands(pos, op.A, op.B)
	case Unary:
		return v.operands(pos, op.A)
	case Const, IConst, LoadArg:
		return nil
	case CoordinateOf:
		return v.operands(pos, op.Of)
	case Vec2:
		return v.operands(pos, op.X, op.Y)
	case Vec3:
		return v.operands(pos, op.X, op.Y, op.Z)
	case NumberList:
		return v.operands(pos, op.Len)
	case Vec2List:
		return v.operands(pos, op.Len)
	case Vec3List:
		return v.operands(pos, op.Len)
	case ListLength:
		return v.operands(pos, op.List)
	case BeginBroadcast:
		if err := v.operands(pos, op.EndIndex, op.WriteTo); err != nil {
			return err
		}
		v.stack = append(v.stack, &region{
			kind:    regionBroadcast,
			begin:   pos,
			opening: true,
			slots:   make(map[uint8]ValueType),
		})
		return nil
	case SetBroadcastArg:
		r := v.top()
		if r == nil || r.kind != regionBroadcast || !r.opening {
			return errors.New("SetBroadcastArg outside a broadcast opening sequence")
		}
		if _, dup := r.slots[op.Arg.Slot]; dup {
			return fmt.Errorf("broadcast slot %d bound twice", op.Arg.Slot)
		}
		r.slots[op.Arg.Slot] = op.Arg.Type
		return v.operands(pos, op.Value)
	case LoadBroadcastArg:
		r := v.innermostBroadcast()
		if r == nil {
			return errors.New("LoadBroadcastArg outside any broadcast region")
		}
		t, ok := r.slots[op.Arg.Slot]
		if !ok {
			return fmt.Errorf("broadcast slot %d is not bound in the innermost region", op.Arg.Slot)
		}
		if t != op.Arg.Type {
			return fmt.Errorf("broadcast slot %d is %s, loaded as %s", op.Arg.Slot, t, op.Arg.Type)
		}
		return nil
	case EndBroadcast:
		r := v.top()
		if r == nil || r.kind != regionBroadcast {
			return errors.New("EndBroadcast without an open broadcast region")
		}
		v.stack = v.stack[:len(v.stack)-1]
		if op.Begin.Idx() != r.begin {
			return fmt.Errorf("EndBroadcast begin=%%%d, open region began at %%%d", op.Begin.Idx(), r.begin)
		}
		return v.operands(pos, op.Ret)
	case Comparison:
		return v.operands(pos, op.LHS, op.RHS)
	case BeginPiecewise:
		if err := v.operandsAllowBool(pos, op.Comp, op.Res); err != nil {
			return err
		}
		v.stack = append(v.stack, &region{kind: regionPiecewise, begin: pos})
		return nil
	case InnerPiecewise:
		r := v.top()
		if r == nil || r.kind != regionPiecewise {
			return errors.New("InnerPiecewise outside a piecewise chain")
		}
		return v.operandsAllowBool(pos, op.Comp, op.Res)
	case EndPiecewise:
		r := v.top()
		if r == nil || r.kind != regionPiecewise {
			return errors.New("EndPiecewise without an open piecewise chain")
		}
		v.stack = v.stack[:len(v.stack)-1]
		return v.operands(pos, op.Default)
	case Ret:
		return v.operands(pos, op.Value)
	default:
		return fmt.Errorf("unknown operation %T", op)
	}
}

// operands checks ordering, type-tag consistency, and that no Never- or
// Bool-typed operation is consumed as a value.
func (v *validator) operands(pos uint32, ids ...Id) error {
	return v.checkIds(pos, ids, false)
}

// operandsAllowBool is operands for the piecewise markers, whose condition
// operand is legitimately Bool-typed.
func (v *validator) operandsAllowBool(pos uint32, ids ...Id) error {
	return v.checkIds(pos, ids, true)
}

func (v *validator) checkIds(pos uint32, ids []Id, allowBool bool) error {
	var errs []error
	for _, id := range ids {
		if id.Idx() >= pos {
			errs = append(errs, fmt.Errorf("operand %%%d does not precede %%%d", id.Idx(), pos))
			continue
		}
		def, err := v.seq.Get(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if def.Type() != id.Type() {
			errs = append(errs, fmt.Errorf("operand %%%d tagged %s, defined as %s", id.Idx(), id.Type(), def.Type()))
		}
		switch def.Type() {
		case TypeNever:
			// BeginBroadcast/BeginPiecewise are value-typed handles, so a
			// Never here is one of the true markers.
			errs = append(errs, fmt.Errorf("operand %%%d consumes a Never-typed marker", id.Idx()))
		case TypeBool:
			if !allowBool {
				errs = append(errs, fmt.Errorf("operand %%%d consumes a Bool outside a piecewise condition", id.Idx()))
			}
		}
	}
	return errors.Join(errs...)
}
