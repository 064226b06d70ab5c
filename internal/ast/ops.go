package ast

// BinaryOp enumerates binary arithmetic operators.
type BinaryOp uint8

const (
	// BinAdd represents the '+' operator.
	BinAdd BinaryOp = iota
	// BinSub represents the '-' operator.
	BinSub
	// BinMul represents the '*' operator.
	BinMul
	// BinDiv represents the '/' operator.
	BinDiv
	// BinPow represents the '^' operator.
	BinPow
)

// String returns the mnemonic used in IR dumps.
func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "add"
	case BinSub:
		return "sub"
	case BinMul:
		return "mul"
	case BinDiv:
		return "div"
	case BinPow:
		return "pow"
	default:
		return "unknown"
	}
}

// UnaryOp enumerates unary operators and single-argument builtins.
type UnaryOp uint8

const (
	// UnaryNeg represents arithmetic negation.
	UnaryNeg UnaryOp = iota
	// UnarySqrt represents the sqrt builtin.
	UnarySqrt
	// UnarySin represents the sin builtin.
	UnarySin
	// UnaryCos represents the cos builtin.
	UnaryCos
	// UnaryTan represents the tan builtin.
	UnaryTan
	// UnaryAbs represents the abs builtin.
	UnaryAbs
	// UnaryFloor represents the floor builtin.
	UnaryFloor
	// UnaryCeil represents the ceil builtin.
	UnaryCeil
	// UnaryLn represents the natural logarithm builtin.
	UnaryLn
)

// String returns the mnemonic used in IR dumps.
func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "neg"
	case UnarySqrt:
		return "sqrt"
	case UnarySin:
		return "sin"
	case UnaryCos:
		return "cos"
	case UnaryTan:
		return "tan"
	case UnaryAbs:
		return "abs"
	case UnaryFloor:
		return "floor"
	case UnaryCeil:
		return "ceil"
	case UnaryLn:
		return "ln"
	default:
		return "unknown"
	}
}

// Builtin maps a call target name to its unary operator, if it names one.
func Builtin(name string) (UnaryOp, bool) {
	switch name {
	case "sqrt":
		return UnarySqrt, true
	case "sin":
		return UnarySin, true
	case "cos":
		return UnaryCos, true
	case "tan":
		return UnaryTan, true
	case "abs":
		return UnaryAbs, true
	case "floor":
		return UnaryFloor, true
	case "ceil":
		return UnaryCeil, true
	case "ln":
		return UnaryLn, true
	default:
		return 0, false
	}
}

// Comparison enumerates comparators joining equation sides and piecewise
// conditions.
type Comparison uint8

const (
	// CompEq represents '='.
	CompEq Comparison = iota
	// CompLt represents '<'.
	CompLt
	// CompLe represents '<='.
	CompLe
	// CompGt represents '>'.
	CompGt
	// CompGe represents '>='.
	CompGe
)

// String returns the source spelling of the comparator.
func (c Comparison) String() string {
	switch c {
	case CompEq:
		return "="
	case CompLt:
		return "<"
	case CompLe:
		return "<="
	case CompGt:
		return ">"
	case CompGe:
		return ">="
	default:
		return "unknown"
	}
}

// CoordinateAccess selects a vector component.
type CoordinateAccess uint8

const (
	// CoordX selects the x component.
	CoordX CoordinateAccess = iota
	// CoordY selects the y component.
	CoordY
	// CoordZ selects the z component.
	CoordZ
)

// String returns the component name.
func (c CoordinateAccess) String() string {
	switch c {
	case CoordX:
		return "x"
	case CoordY:
		return "y"
	case CoordZ:
		return "z"
	default:
		return "unknown"
	}
}
