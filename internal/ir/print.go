package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpSeq writes a human-readable listing of the sequence, one operation per
// line, in position order.
func DumpSeq(w io.Writer, s *InstructionSeq) {
	for i, op := range s.ops {
		fmt.Fprintf(w, "%%%d: %s = %s\n", i, op.Type(), opString(op))
	}
}

// DumpChunk writes the chunk header (name, inputs, result) followed by its
// sequence listing.
func DumpChunk(w io.Writer, c *Chunk) {
	fmt.Fprintf(w, "chunk %s(", c.Name)
	for i, arg := range c.Args.View() {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s: %s", arg.Name, arg.Type)
	}
	fmt.Fprintf(w, ") -> %s\n", c.Ret.Type())
	DumpSeq(w, c.Seq)
}

// SeqString renders the sequence listing as a string, for tests and caching.
func SeqString(s *InstructionSeq) string {
	var sb strings.Builder
	DumpSeq(&sb, s)
	return sb.String()
}

// ChunkString renders the chunk dump as a string.
func ChunkString(c *Chunk) string {
	var sb strings.Builder
	DumpChunk(&sb, c)
	return sb.String()
}

func opString(op Op) string {
	switch op := op.(type) {
	case Binary:
		return fmt.Sprintf("binary %s %s, %s", op.Op, op.A, op.B)
	case Unary:
		return fmt.Sprintf("unary %s %s", op.Op, op.A)
	case Const:
		return "const " + strconv.FormatFloat(op.Value, 'g', -1, 64)
	case IConst:
		return "iconst " + strconv.FormatInt(op.Value, 10)
	case LoadArg:
		return fmt.Sprintf("loadarg a%d", op.Arg.Index())
	case CoordinateOf:
		return fmt.Sprintf("coord %s %s", op.Axis, op.Of)
	case Vec2:
		return fmt.Sprintf("vec2 %s, %s", op.X, op.Y)
	case Vec3:
		return fmt.Sprintf("vec3 %s, %s, %s", op.X, op.Y, op.Z)
	case NumberList:
		return fmt.Sprintf("numberlist len=%s", op.Len)
	case Vec2List:
		return fmt.Sprintf("vec2list len=%s", op.Len)
	case Vec3List:
		return fmt.Sprintf("vec3list len=%s", op.Len)
	case ListLength:
		return fmt.Sprintf("listlength %s", op.List)
	case BeginBroadcast:
		return fmt.Sprintf("beginbroadcast end=%s write=%s", op.EndIndex, op.WriteTo)
	case SetBroadcastArg:
		return fmt.Sprintf("setbroadcastarg %s -> %s", op.Value, op.Arg)
	case LoadBroadcastArg:
		return fmt.Sprintf("loadbroadcastarg %s", op.Arg)
	case EndBroadcast:
		return fmt.Sprintf("endbroadcast begin=%s ret=%s", op.Begin, op.Ret)
	case Comparison:
		return fmt.Sprintf("cmp %s %s %s", op.LHS, op.Comp, op.RHS)
	case BeginPiecewise:
		return fmt.Sprintf("beginpiecewise if=%s then=%s", op.Comp, op.Res)
	case InnerPiecewise:
		return fmt.Sprintf("innerpiecewise if=%s then=%s", op.Comp, op.Res)
	case EndPiecewise:
		return fmt.Sprintf("endpiecewise default=%s", op.Default)
	case Ret:
		return fmt.Sprintf("ret %s", op.Value)
	default:
		return fmt.Sprintf("unknown op %T", op)
	}
}
