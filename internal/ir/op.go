package ir

import (
	"desmir/internal/ast"
)

// Op is the closed set of instruction kinds. Every kind carries its own type
// rule: Type is part of the interface, so declaring a new operation without
// deciding its result type is a compile error, not a runtime surprise. The
// unexported marker keeps the set closed to this package.
type Op interface {
	// Type returns the value type an instruction of this kind defines.
	Type() ValueType
	isOp()
}

// Binary applies a binary operator to two number values.
type Binary struct {
	A, B Id
	Op   ast.BinaryOp
}

// Unary applies a unary operator to a number value.
type Unary struct {
	A  Id
	Op ast.UnaryOp
}

// Const is a 64-bit floating point constant.
type Const struct {
	Value float64
}

// IConst is a 64-bit integer constant. It is still Number-typed.
type IConst struct {
	Value int64
}

// LoadArg loads a positional chunk input.
type LoadArg struct {
	Arg ArgID
}

// CoordinateOf extracts one component of a Vec2/Vec3 value.
type CoordinateOf struct {
	Of   Id
	Axis ast.CoordinateAccess
}

// Vec2 assembles a 2D vector from two numbers.
type Vec2 struct {
	X, Y Id
}

// Vec3 assembles a 3D vector from three numbers.
type Vec3 struct {
	X, Y, Z Id
}

// NumberList allocates an empty list of numbers with runtime length Len.
type NumberList struct {
	Len Id
}

// Vec2List allocates an empty list of 2D vectors with runtime length Len.
type Vec2List struct {
	Len Id
}

// Vec3List allocates an empty list of 3D vectors with runtime length Len.
type Vec3List struct {
	Len Id
}

// ListLength yields the length of a list value.
type ListLength struct {
	List Id
}

// BeginBroadcast opens a broadcast region that runs its body over indices
// 0..EndIndex and accumulates per-iteration results into WriteTo. The region
// value's type is the type carried by WriteTo.
type BeginBroadcast struct {
	EndIndex Id
	WriteTo  Id
}

// SetBroadcastArg binds Value to a broadcast slot. Only valid directly after
// BeginBroadcast or another SetBroadcastArg of the same opening; the builder
// enforces this, the storage does not.
type SetBroadcastArg struct {
	Value Id
	Arg   BroadcastArg
}

// LoadBroadcastArg reads a slot bound in the innermost broadcast region.
type LoadBroadcastArg struct {
	Arg BroadcastArg
}

// EndBroadcast closes a broadcast region. Begin must reference the region's
// own BeginBroadcast; Ret is the per-iteration value appended to the output
// list.
type EndBroadcast struct {
	Begin Id
	Ret   Id
}

// Comparison compares two number values.
type Comparison struct {
	LHS  Id
	Comp ast.Comparison
	RHS  Id
}

// BeginPiecewise opens a conditional chain: if Comp holds, the chain's value
// is Res. The chain's handle is this operation's id.
type BeginPiecewise struct {
	Comp Id
	Res  Id
}

// InnerPiecewise is a subsequent branch of an open piecewise chain. It is
// never referenced as a value.
type InnerPiecewise struct {
	Comp Id
	Res  Id
}

// EndPiecewise closes a piecewise chain with its fallback value.
type EndPiecewise struct {
	Default Id
}

// Ret marks the chunk's output value. Exactly one per compiled unit.
type Ret struct {
	Value Id
}

func (Binary) isOp()           {}
func (Unary) isOp()            {}
func (Const) isOp()            {}
func (IConst) isOp()           {}
func (LoadArg) isOp()          {}
func (CoordinateOf) isOp()     {}
func (Vec2) isOp()             {}
func (Vec3) isOp()             {}
func (NumberList) isOp()       {}
func (Vec2List) isOp()         {}
func (Vec3List) isOp()         {}
func (ListLength) isOp()       {}
func (BeginBroadcast) isOp()   {}
func (SetBroadcastArg) isOp()  {}
func (LoadBroadcastArg) isOp() {}
func (EndBroadcast) isOp()     {}
func (Comparison) isOp()       {}
func (BeginPiecewise) isOp()   {}
func (InnerPiecewise) isOp()   {}
func (EndPiecewise) isOp()     {}
func (Ret) isOp()              {}

// Type rules. Scalar producers are Number; constructors yield their own
// type; passthrough kinds forward a carried type; markers are Never.

func (Binary) Type() ValueType       { return TypeNumber }
func (Unary) Type() ValueType        { return TypeNumber }
func (Const) Type() ValueType        { return TypeNumber }
func (IConst) Type() ValueType       { return TypeNumber }
func (CoordinateOf) Type() ValueType { return TypeNumber }
func (ListLength) Type() ValueType   { return TypeNumber }

func (op LoadArg) Type() ValueType          { return op.Arg.Type() }
func (op LoadBroadcastArg) Type() ValueType { return op.Arg.Type }
func (op BeginBroadcast) Type() ValueType   { return op.WriteTo.Type() }
func (op BeginPiecewise) Type() ValueType   { return op.Res.Type() }
func (op Ret) Type() ValueType              { return op.Value.Type() }

func (Vec2) Type() ValueType       { return TypeVec2 }
func (Vec3) Type() ValueType       { return TypeVec3 }
func (NumberList) Type() ValueType { return TypeNumberList }
func (Vec2List) Type() ValueType   { return TypeVec2List }
func (Vec3List) Type() ValueType   { return TypeVec3List }

func (Comparison) Type() ValueType { return TypeBool }

func (SetBroadcastArg) Type() ValueType { return TypeNever }
func (EndBroadcast) Type() ValueType    { return TypeNever }
func (InnerPiecewise) Type() ValueType  { return TypeNever }
func (EndPiecewise) Type() ValueType    { return TypeNever }
