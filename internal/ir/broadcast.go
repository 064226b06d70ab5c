package ir

import (
	"fmt"

	"fortio.org/safecast"

	"desmir/internal/ast"
)

// BroadcastBuilder is the only append route into a sequence while a
// broadcast region is open. It is handed to the body callback of Broadcast
// and becomes inert once the region closes.
type BroadcastBuilder struct {
	seq   *InstructionSeq
	begin Id
	args  []BroadcastArg
	done  bool
}

// Broadcast assembles a complete broadcast region in one call:
// BeginBroadcast, one contiguous SetBroadcastArg per bind, the body, then
// exactly one EndBroadcast whose begin field is the BeginBroadcast id
// recorded at open time. endIndex is the iteration bound and writeTo the
// pre-allocated output list; both must already be placed. Every bind must be
// list-typed; its slot reads yield the element type. The region's value is
// the returned BeginBroadcast id, typed after writeTo.
//
// While the body runs, appending to the sequence other than through b is a
// contract violation reported by Broadcast itself (the spurious instruction
// stays in the log; the unit is abandoned on error anyway).
func (s *InstructionSeq) Broadcast(endIndex, writeTo Id, binds []Id, body func(b *BroadcastBuilder) (Id, error)) (Id, error) {
	args := make([]BroadcastArg, 0, len(binds))
	for i, bind := range binds {
		elem, ok := bind.Type().Elem()
		if !ok {
			return Id{}, fmt.Errorf("broadcast bind %d: cannot iterate a %s", i, bind.Type())
		}
		slot, err := safecast.Conv[uint8](i)
		if err != nil {
			return Id{}, fmt.Errorf("broadcast bind %d: slot overflow: %w", i, err)
		}
		args = append(args, BroadcastArg{Type: elem, Slot: slot})
	}

	s.openRegions++
	begin := s.place(BeginBroadcast{EndIndex: endIndex, WriteTo: writeTo})
	for i, arg := range args {
		s.place(SetBroadcastArg{Value: binds[i], Arg: arg})
	}

	b := &BroadcastBuilder{seq: s, begin: begin, args: args}
	ret, err := body(b)
	b.done = true
	s.openRegions--
	if err != nil {
		return Id{}, err
	}
	if s.openRegions == 0 && s.violation != nil {
		err := s.violation
		s.violation = nil
		return Id{}, err
	}

	s.place(EndBroadcast{Begin: begin, Ret: ret})
	return begin, nil
}

// Begin returns the id of the region's BeginBroadcast operation.
func (b *BroadcastBuilder) Begin() Id {
	return b.begin
}

// Place appends op inside the open region.
func (b *BroadcastBuilder) Place(op Op) Id {
	if b.done {
		panic("ir: BroadcastBuilder used after its region closed")
	}
	return b.seq.place(op)
}

// Push appends op inside the open region, discarding the id.
func (b *BroadcastBuilder) Push(op Op) {
	_ = b.Place(op)
}

// Arg returns the slot binding for the i-th bind passed to Broadcast.
func (b *BroadcastBuilder) Arg(i int) (BroadcastArg, error) {
	if i < 0 || i >= len(b.args) {
		return BroadcastArg{}, fmt.Errorf("broadcast slot %d out of range (have %d)", i, len(b.args))
	}
	return b.args[i], nil
}

// LoadArg places a LoadBroadcastArg for the i-th bind and returns its id.
func (b *BroadcastBuilder) LoadArg(i int) (Id, error) {
	arg, err := b.Arg(i)
	if err != nil {
		return Id{}, err
	}
	return b.Place(LoadBroadcastArg{Arg: arg}), nil
}

// CoordinatesOf2D mirrors InstructionSeq.CoordinatesOf2D inside the region.
func (b *BroadcastBuilder) CoordinatesOf2D(point Id) (Id, Id) {
	return b.Place(CoordinateOf{Of: point, Axis: ast.CoordX}),
		b.Place(CoordinateOf{Of: point, Axis: ast.CoordY})
}

// CoordinatesOf3D mirrors InstructionSeq.CoordinatesOf3D inside the region.
func (b *BroadcastBuilder) CoordinatesOf3D(point Id) (Id, Id, Id) {
	return b.Place(CoordinateOf{Of: point, Axis: ast.CoordX}),
		b.Place(CoordinateOf{Of: point, Axis: ast.CoordY}),
		b.Place(CoordinateOf{Of: point, Axis: ast.CoordZ})
}

// Broadcast opens a nested region inside this one.
func (b *BroadcastBuilder) Broadcast(endIndex, writeTo Id, binds []Id, body func(b *BroadcastBuilder) (Id, error)) (Id, error) {
	if b.done {
		panic("ir: BroadcastBuilder used after its region closed")
	}
	return b.seq.Broadcast(endIndex, writeTo, binds, body)
}
