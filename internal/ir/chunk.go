package ir

import (
	"desmir/internal/compact"
)

// ArgSpec declares one positional input of a chunk.
type ArgSpec struct {
	Name string
	Type ValueType
}

// Chunk is one compiled unit: the inputs it expects, the instruction log
// built for it, and the id of its Ret operation. A chunk is populated during
// a single lowering pass and never mutated afterwards, so it is safe to hand
// to concurrent readers.
type Chunk struct {
	Name string
	Args compact.Slice[ArgSpec]
	Seq  *InstructionSeq
	Ret  Id
}

// Arg returns the ArgID for the i-th declared input.
func (c *Chunk) Arg(i int) (ArgID, bool) {
	if i < 0 || i >= c.Args.Len() {
		return ArgID{}, false
	}
	return NewArgID(uint32(i), c.Args.At(i).Type), true
}
