// Package readscope reads binary formats in place. A Scope is a bounded view
// of a byte buffer, a Cursor reads typed values from it in order, and Array
// exposes runs of equal-sized elements lazily. Decoders implement only the
// unchecked form (Fixed or Dependent); bounds checks happen once, in the
// engine, before a decoder ever sees the bytes.
package readscope

import "fmt"

// Scope is an immutable view of a byte range. base is the absolute position
// of the first byte within the buffer the scope was first carved from and is
// kept only for diagnostics.
//
// A Scope never copies: every sub-scope aliases the same backing array.
// Slices handed out by Data have their capacity clipped to their length so an
// append can never write into the parent.
type Scope struct {
	base int
	data []byte
}

// New returns a scope at absolute base 0 covering all of data.
func New(data []byte) Scope {
	return Scope{data: data[:len(data):len(data)]}
}

func (s Scope) Base() int     { return s.base }
func (s Scope) Len() int      { return len(s.data) }
func (s Scope) End() int      { return s.base + len(s.data) }
func (s Scope) IsEmpty() bool { return len(s.data) == 0 }

// Data returns the bytes of the scope without copying. Callers must treat
// the result as read-only.
func (s Scope) Data() []byte { return s.data }

// OffsetLength carves the sub-range [offset, offset+length) out of s.
//
// An empty range may start exactly at the end of s; any other range must
// start inside s. A start outside s fails with ErrBadOffset and a range that
// runs past the end fails with ErrBadEOF.
func (s Scope) OffsetLength(offset, length int) (Scope, error) {
	n := len(s.data)
	if offset < 0 || offset > n || (offset == n && length != 0) {
		return Scope{}, s.rangeErr(ErrBadOffset, offset, length)
	}
	// length > n-offset rather than offset+length > n: no overflow.
	if length < 0 || length > n-offset {
		return Scope{}, s.rangeErr(ErrBadEOF, offset, length)
	}
	end := offset + length
	return Scope{base: s.base + offset, data: s.data[offset:end:end]}, nil
}

// Cursor returns a new cursor positioned at the start of s.
func (s Scope) Cursor() *Cursor {
	return &Cursor{scope: s}
}

func (s Scope) String() string {
	return fmt.Sprintf("scope[%d:%d]", s.base, s.End())
}

func (s Scope) rangeErr(kind error, offset, length int) error {
	return &RangeError{Err: kind, Base: s.base, Offset: offset, Length: length, Avail: len(s.data)}
}
