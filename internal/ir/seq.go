package ir

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"desmir/internal/ast"
)

// Lookup failures are recoverable; callers decide whether to abort.
var (
	// ErrNotFound reports a Get for a position that was never placed.
	ErrNotFound = errors.New("instruction not found")
	// ErrEmptySeq reports Latest on an empty sequence.
	ErrEmptySeq = errors.New("instruction sequence is empty")
)

// InstructionSeq is the ordered, append-only log of operations defining one
// compiled unit. Positions are issued at insertion time, starting at 0, with
// no gaps; an operation is never removed or mutated once placed.
type InstructionSeq struct {
	ops []Op

	// openRegions counts broadcast regions currently under construction.
	// While non-zero, appends must go through the region builder; a direct
	// Place is recorded here and surfaced when the region closes.
	openRegions int
	violation   error
}

// NewSeq creates an empty instruction sequence.
func NewSeq() *InstructionSeq {
	return &InstructionSeq{}
}

// Place appends op, assigns it the next sequential position, and returns an
// identifier carrying the operation's inferred type.
func (s *InstructionSeq) Place(op Op) Id {
	if s.openRegions > 0 && s.violation == nil {
		s.violation = fmt.Errorf("instruction %T placed directly on a sequence with an open broadcast region", op)
	}
	return s.place(op)
}

// place appends without the open-region guard. The broadcast builder goes
// through here.
func (s *InstructionSeq) place(op Op) Id {
	idx, err := safecast.Conv[uint32](len(s.ops))
	if err != nil {
		panic(fmt.Errorf("instruction count overflow: %w", err))
	}
	id := NewId(idx, op.Type())
	s.ops = append(s.ops, op)
	return id
}

// Push appends op, discarding the identifier. Useful for Never-typed marker
// operations whose id is irrelevant.
func (s *InstructionSeq) Push(op Op) {
	_ = s.Place(op)
}

// PlaceBlock places every operation in order and returns the identifier of
// the first one, which conventionally is the handle of a multi-instruction
// construct. Returns ok=false for an empty block.
func (s *InstructionSeq) PlaceBlock(ops []Op) (Id, bool) {
	if len(ops) == 0 {
		return Id{}, false
	}
	first := s.Place(ops[0])
	for _, op := range ops[1:] {
		s.Push(op)
	}
	return first, true
}

// Get returns the operation defining id. It fails with ErrNotFound for any
// position that was never placed, including ids reconstructed out of thin
// air.
func (s *InstructionSeq) Get(id Id) (Op, error) {
	if int(id.Idx()) >= len(s.ops) {
		return nil, fmt.Errorf("%w: position %d", ErrNotFound, id.Idx())
	}
	return s.ops[id.Idx()], nil
}

// Latest returns the most recently placed operation.
func (s *InstructionSeq) Latest() (Op, error) {
	if len(s.ops) == 0 {
		return nil, ErrEmptySeq
	}
	return s.ops[len(s.ops)-1], nil
}

// Len returns the number of placed operations.
func (s *InstructionSeq) Len() int {
	return len(s.ops)
}

// CoordinatesOf2D places the X and Y component extractions for a vector id,
// in that order, and returns their identifiers.
func (s *InstructionSeq) CoordinatesOf2D(point Id) (Id, Id) {
	return s.Place(CoordinateOf{Of: point, Axis: ast.CoordX}),
		s.Place(CoordinateOf{Of: point, Axis: ast.CoordY})
}

// CoordinatesOf3D places the X, Y and Z component extractions for a vector
// id, in that order, and returns their identifiers.
func (s *InstructionSeq) CoordinatesOf3D(point Id) (Id, Id, Id) {
	return s.Place(CoordinateOf{Of: point, Axis: ast.CoordX}),
		s.Place(CoordinateOf{Of: point, Axis: ast.CoordY}),
		s.Place(CoordinateOf{Of: point, Axis: ast.CoordZ})
}
