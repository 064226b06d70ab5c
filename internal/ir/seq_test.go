package ir_test

import (
	"errors"
	"testing"

	"desmir/internal/ast"
	"desmir/internal/ir"
)

func TestSeq_IdsAreContiguousFromZero(t *testing.T) {
	seq := ir.NewSeq()
	var prev ir.Id
	for i := range 10 {
		id := seq.Place(ir.IConst{Value: int64(i)})
		if id.Idx() != uint32(i) {
			t.Fatalf("placement %d got position %d", i, id.Idx())
		}
		if i > 0 && !prev.Less(id) {
			t.Fatalf("position %d is not after %d", id.Idx(), prev.Idx())
		}
		prev = id
	}
	if seq.Len() != 10 {
		t.Errorf("Len = %d, want 10", seq.Len())
	}
}

func TestSeq_EmptyLookupsFail(t *testing.T) {
	seq := ir.NewSeq()
	for idx := range uint32(3) {
		if _, err := seq.Get(ir.NewId(idx, ir.TypeNumber)); !errors.Is(err, ir.ErrNotFound) {
			t.Errorf("Get(%d) on empty seq: err = %v, want ErrNotFound", idx, err)
		}
	}
	if _, err := seq.Latest(); !errors.Is(err, ir.ErrEmptySeq) {
		t.Errorf("Latest on empty seq: err = %v, want ErrEmptySeq", err)
	}
}

func TestSeq_GetIgnoresIdTypeTag(t *testing.T) {
	seq := ir.NewSeq()
	id := seq.Place(ir.Const{Value: 2})
	// Lookup by a retagged copy of the same position must still succeed.
	op, err := seq.Get(id.WithType(ir.TypeBool))
	if err != nil {
		t.Fatalf("Get(retagged): %v", err)
	}
	if op != (ir.Const{Value: 2}) {
		t.Errorf("Get = %#v", op)
	}
}

func TestSeq_PlaceBlock(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		seq := ir.NewSeq()
		if _, ok := seq.PlaceBlock(nil); ok {
			t.Error("empty block must return no id")
		}
		if seq.Len() != 0 {
			t.Errorf("empty block placed %d ops", seq.Len())
		}
	})
	t.Run("single", func(t *testing.T) {
		seq := ir.NewSeq()
		id, ok := seq.PlaceBlock([]ir.Op{ir.Const{Value: 1}})
		if !ok || id.Idx() != 0 {
			t.Errorf("single block: id = (%v, %v)", id, ok)
		}
	})
	t.Run("pair_returns_first", func(t *testing.T) {
		seq := ir.NewSeq()
		seq.Push(ir.Const{Value: 0})
		id, ok := seq.PlaceBlock([]ir.Op{ir.Const{Value: 1}, ir.Const{Value: 2}})
		if !ok || id.Idx() != 1 {
			t.Fatalf("block handle = (%v, %v), want position 1", id, ok)
		}
		if seq.Len() != 3 {
			t.Errorf("Len = %d, want 3", seq.Len())
		}
		last, err := seq.Latest()
		if err != nil {
			t.Fatal(err)
		}
		if last != (ir.Const{Value: 2}) {
			t.Errorf("latest = %#v, want the second block op", last)
		}
	})
}

func TestSeq_ConstAddRet(t *testing.T) {
	seq := ir.NewSeq()
	id0 := seq.Place(ir.Const{Value: 3})
	id1 := seq.Place(ir.Const{Value: 4})
	id2 := seq.Place(ir.Binary{A: id0, B: id1, Op: ast.BinAdd})
	if id2.Type() != ir.TypeNumber {
		t.Errorf("binary id type = %s, want number", id2.Type())
	}
	seq.Push(ir.Ret{Value: id2})

	if seq.Len() != 4 {
		t.Fatalf("Len = %d, want 4", seq.Len())
	}
	last, err := seq.Latest()
	if err != nil {
		t.Fatal(err)
	}
	ret, ok := last.(ir.Ret)
	if !ok {
		t.Fatalf("latest = %#v, want Ret", last)
	}
	if !ret.Value.Equal(id2) || ret.Value.Type() != ir.TypeNumber {
		t.Errorf("ret value = %v (%s)", ret.Value, ret.Value.Type())
	}
	if err := ir.Validate(seq); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSeq_CoordinatesOf2D(t *testing.T) {
	seq := ir.NewSeq()
	x := seq.Place(ir.Const{Value: 1})
	y := seq.Place(ir.Const{Value: 2})
	vec := seq.Place(ir.Vec2{X: x, Y: y})

	before := seq.Len()
	cx, cy := seq.CoordinatesOf2D(vec)
	if seq.Len()-before != 2 {
		t.Fatalf("CoordinatesOf2D placed %d ops, want 2", seq.Len()-before)
	}
	if cx.Type() != ir.TypeNumber || cy.Type() != ir.TypeNumber {
		t.Errorf("coordinate types = %s, %s, want numbers", cx.Type(), cy.Type())
	}
	opX, err := seq.Get(cx)
	if err != nil {
		t.Fatal(err)
	}
	if opX != (ir.CoordinateOf{Of: vec, Axis: ast.CoordX}) {
		t.Errorf("first op = %#v, want x access", opX)
	}
	opY, err := seq.Get(cy)
	if err != nil {
		t.Fatal(err)
	}
	if opY != (ir.CoordinateOf{Of: vec, Axis: ast.CoordY}) {
		t.Errorf("second op = %#v, want y access", opY)
	}
}

func TestSeq_CoordinatesOf3D(t *testing.T) {
	seq := ir.NewSeq()
	x := seq.Place(ir.Const{Value: 1})
	y := seq.Place(ir.Const{Value: 2})
	z := seq.Place(ir.Const{Value: 3})
	vec := seq.Place(ir.Vec3{X: x, Y: y, Z: z})

	cx, cy, cz := seq.CoordinatesOf3D(vec)
	for i, id := range []ir.Id{cx, cy, cz} {
		op, err := seq.Get(id)
		if err != nil {
			t.Fatal(err)
		}
		want := ir.CoordinateOf{Of: vec, Axis: ast.CoordinateAccess(i)}
		if op != want {
			t.Errorf("coordinate %d = %#v, want %#v", i, op, want)
		}
	}
	if !cx.Less(cy) || !cy.Less(cz) {
		t.Error("coordinates must be placed in x, y, z order")
	}
}
