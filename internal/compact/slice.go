// Package compact provides a fixed-length, single-allocation sequence type
// for compact storage of finished data. It is a plain memory-layout utility
// with no semantics of its own.
package compact

// Slice is an immutable fixed-length sequence. Construction copies the
// source, so later mutation of the input cannot alias the stored elements.
type Slice[T comparable] struct {
	elems []T
}

// Of copies src into a new Slice.
func Of[T comparable](src []T) Slice[T] {
	if len(src) == 0 {
		return Slice[T]{}
	}
	elems := make([]T, len(src))
	copy(elems, src)
	return Slice[T]{elems: elems}
}

// Len returns the number of elements.
func (s Slice[T]) Len() int {
	return len(s.elems)
}

// At returns the i-th element. It panics on out-of-range indices, like a
// plain slice.
func (s Slice[T]) At(i int) T {
	return s.elems[i]
}

// View returns the backing elements for iteration. Callers must not modify
// the returned slice.
func (s Slice[T]) View() []T {
	return s.elems
}

// Equal reports element-wise equality.
func (s Slice[T]) Equal(other Slice[T]) bool {
	if len(s.elems) != len(other.elems) {
		return false
	}
	for i := range s.elems {
		if s.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}
