package ir_test

import (
	"errors"
	"strings"
	"testing"

	"desmir/internal/ast"
	"desmir/internal/ir"
)

// buildListArgSeq places a NumberList chunk arg and its length, the usual
// prelude of a broadcast over one list input.
func buildListArgSeq(t *testing.T) (*ir.InstructionSeq, ir.Id, ir.Id) {
	t.Helper()
	seq := ir.NewSeq()
	list := seq.Place(ir.LoadArg{Arg: ir.NewArgID(0, ir.TypeNumberList)})
	length := seq.Place(ir.ListLength{List: list})
	return seq, list, length
}

func TestBroadcast_EmitsWellFormedRegion(t *testing.T) {
	seq, list, length := buildListArgSeq(t)
	writeOp, err := ir.TypeNumber.ListOf(length)
	if err != nil {
		t.Fatal(err)
	}
	writeTo := seq.Place(writeOp)

	region, err := seq.Broadcast(length, writeTo, []ir.Id{list}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		elem, err := b.LoadArg(0)
		if err != nil {
			return ir.Id{}, err
		}
		one := b.Place(ir.IConst{Value: 1})
		return b.Place(ir.Binary{A: elem, B: one, Op: ast.BinAdd}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	seq.Push(ir.Ret{Value: region})

	if region.Type() != ir.TypeNumberList {
		t.Errorf("region type = %s, want the write_to list type", region.Type())
	}

	beginOp, err := seq.Get(region)
	if err != nil {
		t.Fatal(err)
	}
	begin, ok := beginOp.(ir.BeginBroadcast)
	if !ok {
		t.Fatalf("region handle resolves to %#v, want BeginBroadcast", beginOp)
	}
	if !begin.WriteTo.Equal(writeTo) {
		t.Error("BeginBroadcast must reference the pre-placed output list")
	}

	// The SetBroadcastArg must directly follow the begin marker.
	next, err := seq.Get(region.WithIdx(region.Idx() + 1))
	if err != nil {
		t.Fatal(err)
	}
	set, ok := next.(ir.SetBroadcastArg)
	if !ok {
		t.Fatalf("op after begin = %#v, want SetBroadcastArg", next)
	}
	if set.Arg.Slot != 0 || set.Arg.Type != ir.TypeNumber {
		t.Errorf("slot binding = %+v, want slot 0 of element type number", set.Arg)
	}

	// Exactly one EndBroadcast, referencing this region's begin.
	var ends []ir.EndBroadcast
	for i := range seq.Len() {
		op, err := seq.Get(ir.NewId(uint32(i), ir.TypeNever))
		if err != nil {
			t.Fatal(err)
		}
		if end, ok := op.(ir.EndBroadcast); ok {
			ends = append(ends, end)
		}
	}
	if len(ends) != 1 {
		t.Fatalf("found %d EndBroadcast ops, want 1", len(ends))
	}
	if !ends[0].Begin.Equal(region) {
		t.Error("EndBroadcast must reference its own region's begin")
	}

	if err := ir.Validate(seq); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBroadcast_RejectsNonListBind(t *testing.T) {
	seq := ir.NewSeq()
	scalar := seq.Place(ir.Const{Value: 1})
	_, err := seq.Broadcast(scalar, scalar, []ir.Id{scalar}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		return scalar, nil
	})
	if err == nil || !strings.Contains(err.Error(), "cannot iterate") {
		t.Errorf("err = %v, want a cannot-iterate error", err)
	}
	if seq.Len() != 1 {
		t.Errorf("failed open placed %d extra ops", seq.Len()-1)
	}
}

func TestBroadcast_DetectsForeignAppend(t *testing.T) {
	seq, list, length := buildListArgSeq(t)
	writeOp, err := ir.TypeNumber.ListOf(length)
	if err != nil {
		t.Fatal(err)
	}
	writeTo := seq.Place(writeOp)

	_, err = seq.Broadcast(length, writeTo, []ir.Id{list}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		// Appending directly to the sequence while the region is open
		// violates the builder contract.
		return seq.Place(ir.IConst{Value: 7}), nil
	})
	if err == nil || !strings.Contains(err.Error(), "open broadcast region") {
		t.Errorf("err = %v, want an open-region violation", err)
	}
}

func TestBroadcast_BodyErrorAborts(t *testing.T) {
	seq, list, length := buildListArgSeq(t)
	writeOp, err := ir.TypeNumber.ListOf(length)
	if err != nil {
		t.Fatal(err)
	}
	writeTo := seq.Place(writeOp)

	sentinel := errors.New("lowering failed")
	_, err = seq.Broadcast(length, writeTo, []ir.Id{list}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		return ir.Id{}, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want the body's error", err)
	}
	// The abandoned region has no EndBroadcast; the unit is discarded.
	last, err := seq.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := last.(ir.EndBroadcast); ok {
		t.Error("aborted region must not emit EndBroadcast")
	}
}

func TestBroadcast_SlotOutOfRange(t *testing.T) {
	seq, list, length := buildListArgSeq(t)
	writeOp, err := ir.TypeNumber.ListOf(length)
	if err != nil {
		t.Fatal(err)
	}
	writeTo := seq.Place(writeOp)

	_, err = seq.Broadcast(length, writeTo, []ir.Id{list}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		if _, err := b.LoadArg(1); err == nil {
			return ir.Id{}, errors.New("LoadArg(1) should fail with one bind")
		}
		return b.LoadArg(0)
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBroadcast_Nested(t *testing.T) {
	seq := ir.NewSeq()
	outer := seq.Place(ir.LoadArg{Arg: ir.NewArgID(0, ir.TypeVec2List)})
	outerLen := seq.Place(ir.ListLength{List: outer})
	inner := seq.Place(ir.LoadArg{Arg: ir.NewArgID(1, ir.TypeNumberList)})

	writeOp, err := ir.TypeVec2.ListOf(outerLen)
	if err != nil {
		t.Fatal(err)
	}
	writeTo := seq.Place(writeOp)

	region, err := seq.Broadcast(outerLen, writeTo, []ir.Id{outer}, func(b *ir.BroadcastBuilder) (ir.Id, error) {
		point, err := b.LoadArg(0)
		if err != nil {
			return ir.Id{}, err
		}
		innerLen := b.Place(ir.ListLength{List: inner})
		innerWriteOp, err := ir.TypeNumber.ListOf(innerLen)
		if err != nil {
			return ir.Id{}, err
		}
		innerWrite := b.Place(innerWriteOp)
		if _, err := b.Broadcast(innerLen, innerWrite, []ir.Id{inner}, func(nb *ir.BroadcastBuilder) (ir.Id, error) {
			return nb.LoadArg(0)
		}); err != nil {
			return ir.Id{}, err
		}
		return point, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	seq.Push(ir.Ret{Value: region})

	if err := ir.Validate(seq); err != nil {
		t.Errorf("Validate nested: %v", err)
	}
}
