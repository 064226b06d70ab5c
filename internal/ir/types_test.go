package ir_test

import (
	"strings"
	"testing"

	"desmir/internal/ir"
)

func TestValueType_IsValueType(t *testing.T) {
	tests := []struct {
		t    ir.ValueType
		want bool
	}{
		{ir.TypeNumber, true},
		{ir.TypeVec2, true},
		{ir.TypeVec3, true},
		{ir.TypeNumberList, true},
		{ir.TypeVec2List, true},
		{ir.TypeVec3List, true},
		{ir.TypeBool, false},
		{ir.TypeNever, false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValueType(); got != tt.want {
			t.Errorf("%s.IsValueType() = %v, want %v", tt.t, got, tt.want)
		}
	}
}

// TestValueType_DowncastList pins the asymmetric mapping: NumberList maps to
// its element type, Vec2/Vec3 map to themselves, and the vector list types
// do not downcast. Do not "fix" this without auditing every caller.
func TestValueType_DowncastList(t *testing.T) {
	tests := []struct {
		t    ir.ValueType
		want ir.ValueType
		ok   bool
	}{
		{ir.TypeNumberList, ir.TypeNumber, true},
		{ir.TypeVec2, ir.TypeVec2, true},
		{ir.TypeVec3, ir.TypeVec3, true},
		{ir.TypeVec2List, 0, false},
		{ir.TypeVec3List, 0, false},
		{ir.TypeNumber, 0, false},
		{ir.TypeBool, 0, false},
		{ir.TypeNever, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.t.DowncastList()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%s.DowncastList() = (%v, %v), want (%v, %v)", tt.t, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValueType_Elem(t *testing.T) {
	tests := []struct {
		t    ir.ValueType
		want ir.ValueType
		ok   bool
	}{
		{ir.TypeNumberList, ir.TypeNumber, true},
		{ir.TypeVec2List, ir.TypeVec2, true},
		{ir.TypeVec3List, ir.TypeVec3, true},
		{ir.TypeNumber, 0, false},
		{ir.TypeVec2, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.t.Elem()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%s.Elem() = (%v, %v), want (%v, %v)", tt.t, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValueType_ListOf(t *testing.T) {
	lenID := ir.NewId(0, ir.TypeNumber)

	op, err := ir.TypeNumber.ListOf(lenID)
	if err != nil {
		t.Fatalf("ListOf(Number): %v", err)
	}
	if op.Type() != ir.TypeNumberList {
		t.Errorf("ListOf(Number) op type = %s, want %s", op.Type(), ir.TypeNumberList)
	}

	op, err = ir.TypeVec3.ListOf(lenID)
	if err != nil {
		t.Fatalf("ListOf(Vec3): %v", err)
	}
	if op.Type() != ir.TypeVec3List {
		t.Errorf("ListOf(Vec3) op type = %s, want %s", op.Type(), ir.TypeVec3List)
	}

	for _, bad := range []ir.ValueType{ir.TypeBool, ir.TypeNever, ir.TypeNumberList} {
		if _, err := bad.ListOf(lenID); err == nil {
			t.Errorf("ListOf(%s) should fail", bad)
		} else if !strings.Contains(err.Error(), "cannot create a list of") {
			t.Errorf("ListOf(%s) error = %q, want a cannot-create message", bad, err)
		}
	}
}

func TestParseValueType_RoundTrip(t *testing.T) {
	for _, vt := range []ir.ValueType{
		ir.TypeNumber, ir.TypeVec2, ir.TypeVec3,
		ir.TypeNumberList, ir.TypeVec2List, ir.TypeVec3List,
	} {
		got, err := ir.ParseValueType(vt.String())
		if err != nil {
			t.Errorf("ParseValueType(%q): %v", vt.String(), err)
			continue
		}
		if got != vt {
			t.Errorf("ParseValueType(%q) = %s", vt.String(), got)
		}
	}
	if _, err := ir.ParseValueType("bool"); err == nil {
		t.Error("bool is internal-only and must not parse")
	}
}
