package readscope

import (
	"encoding/binary"
	"math"
)

// Window is the byte span handed to an unchecked decode. The engine builds a
// Window only after verifying it holds exactly the number of bytes the
// decoder declared, so its accessors do no length checks of their own.
// There is no exported constructor: a Window cannot be made from untrusted
// bytes outside this package.
//
// Reading past the declared size is a bug in the decoder and panics.
type Window struct {
	data []byte
	off  int
}

func newWindow(data []byte) Window {
	return Window{data: data}
}

// Len is the total size of the window.
func (w *Window) Len() int { return len(w.data) }

// Remaining is the number of bytes not yet consumed.
func (w *Window) Remaining() int { return len(w.data) - w.off }

// Skip discards n bytes.
func (w *Window) Skip(n int) { w.off += n }

// Bytes returns the next n bytes without copying.
func (w *Window) Bytes(n int) []byte {
	end := w.off + n
	b := w.data[w.off:end:end]
	w.off = end
	return b
}

func (w *Window) U8() uint8 {
	v := w.data[w.off]
	w.off++
	return v
}

func (w *Window) U16(order binary.ByteOrder) uint16 {
	v := order.Uint16(w.data[w.off:])
	w.off += 2
	return v
}

func (w *Window) U32(order binary.ByteOrder) uint32 {
	v := order.Uint32(w.data[w.off:])
	w.off += 4
	return v
}

func (w *Window) U64(order binary.ByteOrder) uint64 {
	v := order.Uint64(w.data[w.off:])
	w.off += 8
	return v
}

func (w *Window) U16BE() uint16 { return w.U16(binary.BigEndian) }
func (w *Window) U16LE() uint16 { return w.U16(binary.LittleEndian) }
func (w *Window) U32BE() uint32 { return w.U32(binary.BigEndian) }
func (w *Window) U32LE() uint32 { return w.U32(binary.LittleEndian) }
func (w *Window) U64BE() uint64 { return w.U64(binary.BigEndian) }
func (w *Window) U64LE() uint64 { return w.U64(binary.LittleEndian) }

func (w *Window) F32(order binary.ByteOrder) float32 {
	return math.Float32frombits(w.U32(order))
}

func (w *Window) F64(order binary.ByteOrder) float64 {
	return math.Float64frombits(w.U64(order))
}

// Embed decodes a nested fixed-size value from the next d.Width() bytes of w.
// It is how composite decoders reuse element decoders without another
// bounds check: the outer window was already verified to cover them.
func Embed[T any](w *Window, d Fixed[T]) T {
	sub := newWindow(w.Bytes(d.Width()))
	return d.ReadUnchecked(&sub)
}
