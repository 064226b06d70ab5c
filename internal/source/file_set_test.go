package source_test

import (
	"testing"

	"desmir/internal/source"
)

func TestFileSet_AddAndGet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.dsm", []byte("y = x + 1\n"))
	f := fs.Get(id)
	if f == nil {
		t.Fatal("Get returned nil for a fresh file")
	}
	if f.Path != "a.dsm" {
		t.Errorf("path = %q, want a.dsm", f.Path)
	}
	if got, ok := fs.Lookup("a.dsm"); !ok || got != id {
		t.Errorf("Lookup = (%d, %v), want (%d, true)", got, ok, id)
	}
	if fs.Get(42) != nil {
		t.Error("Get of unknown id should return nil")
	}
}

func TestFileSet_Position(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.dsm", []byte("abc\ndef\nghi"))

	tests := []struct {
		name   string
		offset uint32
		line   uint32
		col    uint32
	}{
		{"start_of_file", 0, 1, 1},
		{"middle_of_first_line", 2, 1, 3},
		{"start_of_second_line", 4, 2, 1},
		{"third_line", 9, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := fs.Position(source.Span{File: id, Start: tt.offset, End: tt.offset + 1})
			if !ok {
				t.Fatal("Position failed")
			}
			if pos.Line != tt.line || pos.Col != tt.col {
				t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Col, tt.line, tt.col)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	a := source.Span{File: 0, Start: 4, End: 8}
	b := source.Span{File: 0, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v, want 0:2-8", got)
	}
	other := source.Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files should be a no-op, got %v", got)
	}
}
