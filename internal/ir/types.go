package ir

import (
	"fmt"
)

// ValueType is the semantic category of a computed quantity.
type ValueType uint8

const (
	// TypeNumber represents a scalar number. Constants are stored as float64
	// but the precision is not part of the contract.
	TypeNumber ValueType = iota
	// TypeVec2 represents a 2D vector.
	TypeVec2
	// TypeVec3 represents a 3D vector.
	TypeVec3
	// TypeBool represents a comparison result. Internal use only.
	TypeBool
	// TypeNumberList represents a list of numbers.
	TypeNumberList
	// TypeVec2List represents a list of 2D vectors.
	TypeVec2List
	// TypeVec3List represents a list of 3D vectors.
	TypeVec3List
	// TypeNever marks operations that never yield a value.
	TypeNever
)

// String returns the name used in dumps and error messages.
func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeBool:
		return "bool"
	case TypeNumberList:
		return "number-list"
	case TypeVec2List:
		return "vec2-list"
	case TypeVec3List:
		return "vec3-list"
	case TypeNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseValueType maps a manifest spelling back to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "number":
		return TypeNumber, nil
	case "vec2":
		return TypeVec2, nil
	case "vec3":
		return TypeVec3, nil
	case "number-list":
		return TypeNumberList, nil
	case "vec2-list":
		return TypeVec2List, nil
	case "vec3-list":
		return TypeVec3List, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", s)
	}
}

// IsValueType reports whether t may be the type of a chunk input or output.
// Bool and Never are restricted to internal use.
func (t ValueType) IsValueType() bool {
	switch t {
	case TypeNumber, TypeVec2, TypeVec3, TypeNumberList, TypeVec2List, TypeVec3List:
		return true
	default:
		return false
	}
}

// IsList reports whether t is a list type.
func (t ValueType) IsList() bool {
	switch t {
	case TypeNumberList, TypeVec2List, TypeVec3List:
		return true
	default:
		return false
	}
}

// DowncastList returns the conceptual element type of a list- or
// vector-shaped type. NumberList downcasts to Number, Vec2 and Vec3 downcast
// to themselves, and the vector list types do not downcast at all. Callers
// that need the element type of an arbitrary list should use Elem.
func (t ValueType) DowncastList() (ValueType, bool) {
	switch t {
	case TypeNumberList:
		return TypeNumber, true
	case TypeVec2:
		return TypeVec2, true
	case TypeVec3:
		return TypeVec3, true
	default:
		return 0, false
	}
}

// Elem returns the element type of a list type.
func (t ValueType) Elem() (ValueType, bool) {
	switch t {
	case TypeNumberList:
		return TypeNumber, true
	case TypeVec2List:
		return TypeVec2, true
	case TypeVec3List:
		return TypeVec3, true
	default:
		return 0, false
	}
}

// ListOf returns the operation that allocates an empty list of element type t
// with the runtime length identified by lenID. It constructs the operation
// only; the caller places it.
func (t ValueType) ListOf(lenID Id) (Op, error) {
	switch t {
	case TypeNumber:
		return NumberList{Len: lenID}, nil
	case TypeVec2:
		return Vec2List{Len: lenID}, nil
	case TypeVec3:
		return Vec3List{Len: lenID}, nil
	default:
		return nil, fmt.Errorf("cannot create a list of %s", t)
	}
}
