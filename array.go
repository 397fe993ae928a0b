package readscope

import (
	"iter"
	"math"
)

// Array is a lazy view over length consecutive elements of equal encoded
// size. Nothing is decoded until the array is iterated or indexed, and the
// view can be iterated any number of times.
type Array[T, A any] struct {
	scope  Scope
	length int
	stride int
	dec    Dependent[T, A]
	args   A
}

// ReadArray reads n constant-size elements as an Array.
func ReadArray[T any](c *Cursor, d Fixed[T], n int) (Array[T, NoArgs], error) {
	return ReadArrayDep(c, Dep(d), NoArgs{}, n)
}

// ReadArrayDep reads n elements whose size is derived from args. The whole
// run is bounds-checked once here; element decodes are unchecked afterwards.
func ReadArrayDep[T, A any](c *Cursor, d Dependent[T, A], args A, n int) (Array[T, A], error) {
	stride := d.Size(args)
	if n < 0 || stride < 0 || (stride > 0 && n > math.MaxInt/stride) {
		return Array[T, A]{}, c.scope.rangeErr(ErrEOF, c.offset, -1)
	}
	s, err := c.ReadScope(n * stride)
	if err != nil {
		return Array[T, A]{}, err
	}
	return Array[T, A]{scope: s, length: n, stride: stride, dec: d, args: args}, nil
}

func (a Array[T, A]) Len() int      { return a.length }
func (a Array[T, A]) IsEmpty() bool { return a.length == 0 }
func (a Array[T, A]) Stride() int   { return a.stride }
func (a Array[T, A]) Scope() Scope  { return a.scope }

// At decodes element i directly. An index outside [0, Len()) fails with
// ErrBadOffset.
func (a Array[T, A]) At(i int) (T, error) {
	if i < 0 || i >= a.length {
		var zero T
		return zero, a.scope.rangeErr(ErrBadOffset, i*a.stride, a.stride)
	}
	start := i * a.stride
	end := start + a.stride
	w := newWindow(a.scope.data[start:end:end])
	return a.dec.ReadUncheckedDep(&w, a.args), nil
}

// Iter returns a new iterator positioned at element 0. Iterators are
// independent of each other and of the array.
func (a Array[T, A]) Iter() *ArrayIter[T, A] {
	return &ArrayIter[T, A]{
		cursor:    Cursor{scope: a.scope},
		remaining: a.length,
		stride:    a.stride,
		dec:       a.dec,
		args:      a.args,
	}
}

// All yields each index and element in order.
func (a Array[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		it := a.Iter()
		for i := 0; it.Next(); i++ {
			if !yield(i, it.Value()) {
				return
			}
		}
	}
}

// Values yields each element in order.
func (a Array[T, A]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := a.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// ArrayIter walks an Array once, front to back.
//
//	it := arr.Iter()
//	for it.Next() {
//		v := it.Value()
//	}
type ArrayIter[T, A any] struct {
	cursor    Cursor
	remaining int
	stride    int
	dec       Dependent[T, A]
	args      A
	cur       T
}

// Next decodes the next element and reports whether there was one.
func (it *ArrayIter[T, A]) Next() bool {
	if it.remaining <= 0 {
		var zero T
		it.cur = zero
		return false
	}
	// The array scope holds exactly remaining*stride bytes past the cursor.
	end := it.cursor.offset + it.stride
	w := newWindow(it.cursor.scope.data[it.cursor.offset:end:end])
	it.cur = it.dec.ReadUncheckedDep(&w, it.args)
	it.cursor.offset = end
	it.remaining--
	return true
}

// Value returns the element decoded by the last successful Next.
func (it *ArrayIter[T, A]) Value() T { return it.cur }

// Remaining is the number of elements Next has yet to yield.
func (it *ArrayIter[T, A]) Remaining() int { return it.remaining }
