package readscope

import "encoding/binary"

// Fixed-width primitive decoders. Each is a zero-size descriptor whose name
// states the byte order; the decoded Go type is the natural host type.
type (
	U8    struct{}
	I8    struct{}
	Bool  struct{}
	U16BE struct{}
	U16LE struct{}
	I16BE struct{}
	I16LE struct{}
	U32BE struct{}
	U32LE struct{}
	I32BE struct{}
	I32LE struct{}
	U64BE struct{}
	U64LE struct{}
	I64BE struct{}
	I64LE struct{}
	F32BE struct{}
	F32LE struct{}
	F64BE struct{}
	F64LE struct{}
)

var (
	_ Fixed[uint8]   = U8{}
	_ Fixed[uint32]  = U32BE{}
	_ Fixed[float64] = F64LE{}
)

func (U8) Width() int                        { return 1 }
func (U8) ReadUnchecked(w *Window) uint8     { return w.U8() }
func (I8) Width() int                        { return 1 }
func (I8) ReadUnchecked(w *Window) int8      { return int8(w.U8()) }
func (Bool) Width() int                      { return 1 }
func (Bool) ReadUnchecked(w *Window) bool    { return w.U8() != 0 }
func (U16BE) Width() int                     { return 2 }
func (U16BE) ReadUnchecked(w *Window) uint16 { return w.U16BE() }
func (U16LE) Width() int                     { return 2 }
func (U16LE) ReadUnchecked(w *Window) uint16 { return w.U16LE() }
func (I16BE) Width() int                     { return 2 }
func (I16BE) ReadUnchecked(w *Window) int16  { return int16(w.U16BE()) }
func (I16LE) Width() int                     { return 2 }
func (I16LE) ReadUnchecked(w *Window) int16  { return int16(w.U16LE()) }
func (U32BE) Width() int                     { return 4 }
func (U32BE) ReadUnchecked(w *Window) uint32 { return w.U32BE() }
func (U32LE) Width() int                     { return 4 }
func (U32LE) ReadUnchecked(w *Window) uint32 { return w.U32LE() }
func (I32BE) Width() int                     { return 4 }
func (I32BE) ReadUnchecked(w *Window) int32  { return int32(w.U32BE()) }
func (I32LE) Width() int                     { return 4 }
func (I32LE) ReadUnchecked(w *Window) int32  { return int32(w.U32LE()) }
func (U64BE) Width() int                     { return 8 }
func (U64BE) ReadUnchecked(w *Window) uint64 { return w.U64BE() }
func (U64LE) Width() int                     { return 8 }
func (U64LE) ReadUnchecked(w *Window) uint64 { return w.U64LE() }
func (I64BE) Width() int                     { return 8 }
func (I64BE) ReadUnchecked(w *Window) int64  { return int64(w.U64BE()) }
func (I64LE) Width() int                     { return 8 }
func (I64LE) ReadUnchecked(w *Window) int64  { return int64(w.U64LE()) }

func (F32BE) Width() int                      { return 4 }
func (F32BE) ReadUnchecked(w *Window) float32 { return w.F32(binary.BigEndian) }
func (F32LE) Width() int                      { return 4 }
func (F32LE) ReadUnchecked(w *Window) float32 { return w.F32(binary.LittleEndian) }
func (F64BE) Width() int                      { return 8 }
func (F64BE) ReadUnchecked(w *Window) float64 { return w.F64(binary.BigEndian) }
func (F64LE) Width() int                      { return 8 }
func (F64LE) ReadUnchecked(w *Window) float64 { return w.F64(binary.LittleEndian) }

// Bytes reads args raw bytes without copying.
type Bytes struct{}

var _ Dependent[[]byte, int] = Bytes{}

func (Bytes) Size(n int) int { return n }

func (Bytes) ReadUncheckedDep(w *Window, n int) []byte { return w.Bytes(n) }

// UintBE reads an unsigned big-endian integer args bytes wide, as used by
// formats that store offsets in a header-selected width. Widths above 8 keep
// the low-order 64 bits; callers taking the width from input should bound it.
type UintBE struct{}

// UintLE is the little-endian counterpart of UintBE.
type UintLE struct{}

func (UintBE) Size(width int) int { return width }

func (UintBE) ReadUncheckedDep(w *Window, width int) uint64 {
	var v uint64
	for _, b := range w.Bytes(width) {
		v = v<<8 | uint64(b)
	}
	return v
}

func (UintLE) Size(width int) int { return width }

func (UintLE) ReadUncheckedDep(w *Window, width int) uint64 {
	var v uint64
	b := w.Bytes(width)
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
