package dbflat

import (
	"fmt"

	"github.com/rawbytedev/readscope"
)

// headerPrefix is magic, version and flags: the part of the header whose
// layout does not depend on flags.
type headerPrefix struct{}

func (headerPrefix) Width() int { return 8 }

func (headerPrefix) ReadUnchecked(w *readscope.Window) Header {
	return Header{Magic: w.U32LE(), Version: w.U16LE(), Flags: w.U16LE()}
}

// headerTail decodes the rest of the header; its size depends on the flags
// read from the prefix.
type headerTail struct{}

func (headerTail) Size(h Header) int { return h.Size() - 8 }

func (headerTail) ReadUncheckedDep(w *readscope.Window, h Header) Header {
	if h.Flags&FlagNoSchemaID == 0 {
		h.SchemaID = w.U64LE()
	}
	h.HotBitmap = w.U8()
	h.VTableSlots = w.U8()
	h.DataOffset = w.U16LE()
	h.VTableOff = w.U32LE()
	w.Skip(w.Remaining()) // reserved
	return h
}

// ParseHeader decodes the header at the start of s without copying.
func ParseHeader(s readscope.Scope) (Header, error) {
	c := s.Cursor()
	h, err := readscope.Read(c, headerPrefix{})
	if err != nil {
		return Header{}, fmt.Errorf("dbflat: header: %w", err)
	}
	if h.Magic != MagicV1 {
		return Header{}, fmt.Errorf("%w: %#x", ErrBadMagic, h.Magic)
	}
	if h.Version != VersionV1 {
		return Header{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	h, err = readscope.ReadDep(c, headerTail{}, h)
	if err != nil {
		return Header{}, fmt.Errorf("dbflat: header: %w", err)
	}
	return h, nil
}
