package readscope

import (
	"errors"
	"fmt"
)

var (
	// ErrBadOffset reports a sub-range that starts outside its scope.
	ErrBadOffset = errors.New("readscope: bad offset")
	// ErrEOF reports truncated input: fewer bytes remain than a read needs.
	ErrEOF = errors.New("readscope: unexpected end of data")
	// ErrBadEOF is the truncation reported by Scope.OffsetLength. It wraps
	// ErrEOF, so errors.Is(err, ErrEOF) matches both.
	ErrBadEOF = fmt.Errorf("%w: range ends past scope", ErrEOF)

	ErrVarUintOverflow = errors.New("readscope: varuint overflows 64 bits")
	ErrNotStruct       = errors.New("readscope: expected struct")
	ErrUnsupported     = errors.New("readscope: unsupported field type")
)

// RangeError carries the position of a rejected read. Err is one of the
// package sentinels.
type RangeError struct {
	Err    error
	Base   int // absolute position of the scope the read was made against
	Offset int // offset of the read relative to Base
	Length int // bytes requested
	Avail  int // bytes in the scope
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %d bytes at %d (abs %d), scope holds %d",
		e.Err, e.Length, e.Offset, e.Base+e.Offset, e.Avail)
}

func (e *RangeError) Unwrap() error { return e.Err }
