package ir_test

import (
	"testing"

	"desmir/internal/ir"
)

func TestId_EqualityIgnoresType(t *testing.T) {
	a := ir.NewId(5, ir.TypeNumber)
	b := ir.NewId(5, ir.TypeBool)
	if !a.Equal(b) {
		t.Error("ids at the same position must be equal regardless of type tag")
	}
	c := ir.NewId(6, ir.TypeNumber)
	if a.Equal(c) {
		t.Error("ids at different positions must not be equal")
	}
}

func TestId_OrderingIgnoresType(t *testing.T) {
	lo := ir.NewId(1, ir.TypeVec3List)
	hi := ir.NewId(2, ir.TypeNumber)
	if !lo.Less(hi) {
		t.Error("Less must order by position")
	}
	if hi.Less(lo) {
		t.Error("Less must not be symmetric")
	}
	if lo.Less(lo.WithType(ir.TypeBool)) {
		t.Error("equal positions must not be Less, whatever the tags")
	}
}

func TestId_WithIdx(t *testing.T) {
	a := ir.NewId(3, ir.TypeVec2)
	b := a.WithIdx(7)
	if b.Idx() != 7 || b.Type() != ir.TypeVec2 {
		t.Errorf("WithIdx = (%d, %s), want (7, vec2)", b.Idx(), b.Type())
	}
	if a.Idx() != 3 {
		t.Error("WithIdx must not mutate the receiver")
	}
}

func TestId_WithTypePreservesIdentity(t *testing.T) {
	a := ir.NewId(9, ir.TypeNumber)
	b := a.WithType(ir.TypeNumberList)
	if !a.Equal(b) {
		t.Error("retagging must preserve identity")
	}
	if b.Type() != ir.TypeNumberList {
		t.Errorf("retagged type = %s, want number-list", b.Type())
	}
}

func TestArgID(t *testing.T) {
	a := ir.NewArgID(2, ir.TypeNumberList)
	if a.Index() != 2 {
		t.Errorf("Index = %d, want 2", a.Index())
	}
	if a.Type() != ir.TypeNumberList {
		t.Errorf("Type = %s, want number-list", a.Type())
	}
}

func TestBroadcastArg_DistinctNamespace(t *testing.T) {
	// A slot id is not a sequence position: the two identifier kinds are
	// separate types and never compare with each other.
	arg := ir.BroadcastArg{Type: ir.TypeVec2, Slot: 255}
	if arg.Slot != 255 || arg.Type != ir.TypeVec2 {
		t.Errorf("BroadcastArg = %+v", arg)
	}
	if arg.String() != "b255" {
		t.Errorf("String = %q, want b255", arg.String())
	}
}
