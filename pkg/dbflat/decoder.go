package dbflat

import (
	"fmt"
	"math"

	"github.com/rawbytedev/readscope"
	"github.com/rawbytedev/readscope/internal/common"
)

// Record is a parsed vtable record. It holds views into the buffer it was
// parsed from; payloads are located and decoded on demand.
type Record struct {
	Header Header
	scope  readscope.Scope
	slots  readscope.Array[Slot, readscope.NoArgs]
	data   readscope.Scope
	opts   Options
}

// Parse reads the header and vtable of the record in s. The data section is
// everything from the header's data offset to the end of s. Records in
// tag-walk or no-vtable mode have no vtable; their data section is a
// tag-walk body.
func Parse(s readscope.Scope, opts Options) (Record, error) {
	h, err := ParseHeader(s)
	if err != nil {
		return Record{}, err
	}
	var slots readscope.Array[Slot, readscope.NoArgs]
	if !h.Walked() {
		vt, err := s.OffsetLength(int(h.VTableOff), int(h.VTableSlots)*SlotSize)
		if err != nil {
			return Record{}, fmt.Errorf("dbflat: vtable: %w", err)
		}
		if slots, err = readscope.ReadArray(vt.Cursor(), Slot{}, int(h.VTableSlots)); err != nil {
			return Record{}, fmt.Errorf("dbflat: vtable: %w", err)
		}
	}
	data, err := s.OffsetLength(int(h.DataOffset), s.Len()-int(h.DataOffset))
	if err != nil {
		return Record{}, fmt.Errorf("dbflat: data section: %w", err)
	}
	return Record{Header: h, scope: s, slots: slots, data: data, opts: opts}, nil
}

// Slots returns the vtable as a lazy array. It is empty for walked records.
func (r Record) Slots() readscope.Array[Slot, readscope.NoArgs] { return r.slots }

// Data returns the data section.
func (r Record) Data() readscope.Scope { return r.data }

// Walk returns a walker over the data section of a walked record.
func (r Record) Walk() *Walker { return Walk(r.data, r.opts) }

// Field returns the payload stored under tag, scanning the vtable or, for
// walked records, the tag-walk body.
func (r Record) Field(tag uint16) ([]byte, error) {
	if r.Header.Walked() {
		return Find(r.data, tag, r.opts)
	}
	for i, sl := range r.slots.All() {
		if sl.Tag == tag {
			return r.payload(i, sl)
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, tag)
}

// HotField returns the payload of a hot tag (1..8) in O(1): hot tags occupy
// vtable slot tag-1. In hot-vtable mode every tag in 1..8 is served by slot
// index; otherwise the tag must be set in the hot bitmap.
func (r Record) HotField(tag uint16) ([]byte, error) {
	if r.Header.Walked() {
		return nil, fmt.Errorf("%w: tag %d", ErrNoVtable, tag)
	}
	if tag == 0 || tag > 8 {
		return nil, fmt.Errorf("%w: %d", ErrNotHot, tag)
	}
	if r.Header.Flags&FlagModeHotVtable == 0 && !r.Header.IsHot(tag) {
		return nil, fmt.Errorf("%w: %d", ErrNotHot, tag)
	}
	i := int(tag - 1)
	sl, err := r.slots.At(i)
	if err != nil {
		return nil, fmt.Errorf("dbflat: hot slot %d: %w", tag, err)
	}
	if sl.Tag != tag {
		return nil, fmt.Errorf("%w: slot %d holds tag %d", ErrNotFound, i, sl.Tag)
	}
	return r.payload(i, sl)
}

// Fields decodes every slot. The first failing slot aborts the whole decode.
func (r Record) Fields() (map[uint16][]byte, error) {
	if r.Header.Walked() {
		return Collect(r.data, r.opts)
	}
	out := make(map[uint16][]byte, r.slots.Len())
	for i, sl := range r.slots.All() {
		p, err := r.payload(i, sl)
		if err != nil {
			return nil, err
		}
		out[sl.Tag] = p
	}
	return out, nil
}

// payload locates and decodes the field described by slot i.
func (r Record) payload(i int, sl Slot) ([]byte, error) {
	start := r.fieldStart(sl)
	c := r.scope.Cursor()
	if err := c.Skip(start); err != nil {
		return nil, fmt.Errorf("dbflat: tag %d: data pointer: %w", sl.Tag, err)
	}

	if sl.Prefixed() {
		size, err := c.ReadVarUint()
		if err != nil {
			return nil, fmt.Errorf("dbflat: tag %d: length: %w", sl.Tag, err)
		}
		if size > math.MaxInt32 {
			return nil, fmt.Errorf("dbflat: tag %d: length %d: %w", sl.Tag, size, readscope.ErrEOF)
		}
		blob, err := c.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("dbflat: tag %d: payload: %w", sl.Tag, err)
		}
		return decompressData(sl.CompFlags, blob)
	}

	width := r.opts.width(sl.Tag)
	if width < 0 {
		width = r.extent(i, start)
	}
	blob, err := c.ReadBytes(width)
	if err != nil {
		return nil, fmt.Errorf("dbflat: tag %d: fixed-width field: %w", sl.Tag, err)
	}
	return blob, nil
}

// fieldStart is the position of a payload relative to the record start.
func (r Record) fieldStart(sl Slot) int {
	ptr := int(r.Header.DataOffset) + int(sl.Offset)
	if r.Header.Flags&FlagPadding != 0 {
		ptr = common.Align(ptr, 8)
	}
	return ptr
}

// extent sizes a field of unknown width: it runs to the next slot's payload
// or to the end of the record.
func (r Record) extent(i, start int) int {
	end := r.scope.Len()
	if next, err := r.slots.At(i + 1); err == nil {
		end = int(r.Header.DataOffset) + int(next.Offset)
	}
	return end - start
}
