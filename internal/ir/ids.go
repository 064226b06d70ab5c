package ir

import (
	"fmt"
)

// Id references a value defined at a position in an InstructionSeq. Identity
// is the position alone; the value type rides along as cached metadata.
// Compare ids with Equal/Less, never with ==.
type Id struct {
	idx uint32
	t   ValueType
}

// NewId creates an identifier for a sequence position with a declared type.
func NewId(idx uint32, t ValueType) Id {
	return Id{idx: idx, t: t}
}

// Idx returns the sequence position.
func (i Id) Idx() uint32 { return i.idx }

// Type returns the cached value type.
func (i Id) Type() ValueType { return i.t }

// WithIdx returns an identifier with the same type at a different position.
func (i Id) WithIdx(idx uint32) Id {
	return Id{idx: idx, t: i.t}
}

// WithType returns an identifier for the same position retagged with a
// different declared type. The copy is a distinct value but the same
// identifier: Equal still holds between the two.
func (i Id) WithType(t ValueType) Id {
	return Id{idx: i.idx, t: t}
}

// Equal reports whether both ids reference the same position. The type tag
// is ignored.
func (i Id) Equal(other Id) bool {
	return i.idx == other.idx
}

// Less orders ids by position only.
func (i Id) Less(other Id) bool {
	return i.idx < other.idx
}

// String renders the id the way dumps reference it.
func (i Id) String() string {
	return fmt.Sprintf("%%%d", i.idx)
}

// ArgID identifies a positional input of the enclosing chunk. The wrapped
// id's position is the argument index, not a sequence position.
type ArgID struct {
	id Id
}

// NewArgID creates an argument identifier for the index-th chunk input.
func NewArgID(index uint32, t ValueType) ArgID {
	return ArgID{id: NewId(index, t)}
}

// Index returns the argument's position in the chunk's input list.
func (a ArgID) Index() uint32 { return a.id.Idx() }

// Type returns the argument's declared type.
func (a ArgID) Type() ValueType { return a.id.Type() }

// BroadcastArg identifies a value bound in the innermost active broadcast
// region, addressed by a small slot index. Slots are a namespace of their
// own, distinct from sequence positions.
type BroadcastArg struct {
	Type ValueType
	Slot uint8
}

func (b BroadcastArg) String() string {
	return fmt.Sprintf("b%d", b.Slot)
}
