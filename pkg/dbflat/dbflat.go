// Package dbflat reads DBF3 records: a fixed header, a vtable of 8-byte
// slots and a data section, or a bare tag-walk body. All integers are
// little-endian. Decoding never copies uncompressed payloads; returned
// slices alias the record buffer.
package dbflat

import (
	"errors"

	"github.com/rawbytedev/readscope"
)

const (
	MagicV1   = 0x44424633 // "DBF3"
	VersionV1 = 1

	// compFlags & CompressionMask == compressor ID
	CompressionMask = 0x000F
	CompRaw         = 0x0000
	CompRLE         = 0x0001
	CompHuffman     = 0x0002
	CompLZ4         = 0x0003
	CompZstd        = 0x0004
	ArrayMask       = 0x8000 // MSB signals variable-length

	HeaderSize = 40
	SlotSize   = 8
)

const (
	FlagPadding       = 0x0001 // payloads aligned to 8 bytes
	FlagNoSchemaID    = 0x0002 // header omits the schema id (32 bytes)
	FlagModeHotVtable = 0x0004 // vtable holds hot tags 1..8 by index
	FlagModeNoVtable  = 0x0008 // body is a tag-walk, no vtable
	FlagModeTagWalk   = 0x0010 // same layout as FlagModeNoVtable
)

var (
	ErrBadMagic           = errors.New("dbflat: invalid magic")
	ErrVersion            = errors.New("dbflat: unsupported version")
	ErrNotFound           = errors.New("dbflat: tag not found")
	ErrNotHot             = errors.New("dbflat: tag is not a hot field")
	ErrUnknownWidth       = errors.New("dbflat: unknown fixed width")
	ErrUnknownCompression = errors.New("dbflat: unknown compression")
	ErrNoVtable           = errors.New("dbflat: record has no vtable")
)

// Header is the record preamble.
type Header struct {
	Magic       uint32 `yaml:"magic"`
	Version     uint16 `yaml:"version"`
	Flags       uint16 `yaml:"flags"`
	SchemaID    uint64 `yaml:"schema_id,omitempty"`
	HotBitmap   byte   `yaml:"hot_bitmap"`
	VTableSlots byte   `yaml:"vtable_slots"`
	DataOffset  uint16 `yaml:"data_offset"` // from record start
	VTableOff   uint32 `yaml:"vtable_offset"`
}

// Size is the encoded header length for these flags.
func (h Header) Size() int {
	if h.Flags&FlagNoSchemaID != 0 {
		return HeaderSize - 8
	}
	return HeaderSize
}

// IsHot reports whether tag is marked in the hot bitmap.
func (h Header) IsHot(tag uint16) bool {
	return tag >= 1 && tag <= 8 && (h.HotBitmap>>(tag-1))&1 != 0
}

// Walked reports whether the data section is a tag-walk body rather than
// vtable-addressed payloads.
func (h Header) Walked() bool {
	return h.Flags&(FlagModeNoVtable|FlagModeTagWalk) != 0
}

// Slot is one vtable entry: 2B tag, 2B compFlags, 4B data offset.
type Slot struct {
	Tag       uint16 `yaml:"tag"`
	CompFlags uint16 `yaml:"comp_flags"`
	Offset    uint32 `yaml:"offset"`
}

var _ readscope.Fixed[Slot] = Slot{}

func (Slot) Width() int { return SlotSize }

func (Slot) ReadUnchecked(w *readscope.Window) Slot {
	return Slot{Tag: w.U16LE(), CompFlags: w.U16LE(), Offset: w.U32LE()}
}

// Prefixed reports whether the payload carries a varuint length prefix.
func (s Slot) Prefixed() bool {
	return s.CompFlags&ArrayMask != 0 || s.CompFlags&CompressionMask != CompRaw
}

// Options controls how fixed-width payloads are sized.
type Options struct {
	// Widths maps a tag to the byte width of its fixed-size payload. Tags
	// absent from the map fall back to FixedWidth.
	Widths map[uint16]int
}

func (o Options) width(tag uint16) int {
	if w, ok := o.Widths[tag]; ok {
		return w
	}
	return FixedWidth(tag)
}
