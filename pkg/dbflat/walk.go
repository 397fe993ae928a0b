package dbflat

import (
	"fmt"
	"math"

	"github.com/rawbytedev/readscope"
)

// Walker steps through a tag-walk body: repeated
// tag(2B) compFlags(2B) [varuint length] payload.
// Prefixed payloads carry their length; fixed-width ones are sized from
// Options.
//
//	w := dbflat.Walk(scope, opts)
//	for w.Next() {
//		use(w.Tag(), w.Payload())
//	}
//	if err := w.Err(); err != nil { ... }
type Walker struct {
	c       *readscope.Cursor
	opts    Options
	start   int
	tag     uint16
	flags   uint16
	payload []byte
	err     error
}

// Walk returns a walker positioned before the first entry of s.
func Walk(s readscope.Scope, opts Options) *Walker {
	return &Walker{c: s.Cursor(), opts: opts}
}

// Next advances to the next entry. It returns false at the end of the body
// or on the first malformed entry, after which Err reports the cause.
func (w *Walker) Next() bool {
	if w.err != nil || w.c.Remaining() == 0 {
		return false
	}
	w.start = w.c.Offset()
	tag, err := readscope.Read(w.c, readscope.U16LE{})
	if err != nil {
		return w.fail(err)
	}
	flags, err := readscope.Read(w.c, readscope.U16LE{})
	if err != nil {
		return w.fail(err)
	}
	sl := Slot{Tag: tag, CompFlags: flags}

	var blob []byte
	if sl.Prefixed() {
		size, err := w.c.ReadVarUint()
		if err != nil {
			return w.fail(err)
		}
		if size > math.MaxInt32 {
			return w.fail(readscope.ErrEOF)
		}
		if blob, err = w.c.ReadBytes(int(size)); err != nil {
			return w.fail(err)
		}
		if blob, err = decompressData(flags, blob); err != nil {
			return w.fail(err)
		}
	} else {
		width := w.opts.width(tag)
		if width < 0 {
			return w.fail(fmt.Errorf("%w: tag %d", ErrUnknownWidth, tag))
		}
		if blob, err = w.c.ReadBytes(width); err != nil {
			return w.fail(err)
		}
	}
	w.tag, w.flags, w.payload = tag, flags, blob
	return true
}

func (w *Walker) fail(err error) bool {
	w.err = fmt.Errorf("dbflat: tag-walk entry at %d: %w", w.c.Scope().Base()+w.start, err)
	w.payload = nil
	return false
}

func (w *Walker) Tag() uint16     { return w.tag }
func (w *Walker) Flags() uint16   { return w.flags }
func (w *Walker) Payload() []byte { return w.payload }

// Offset is the position of the current entry relative to the walked scope.
func (w *Walker) Offset() int { return w.start }

func (w *Walker) Err() error { return w.err }

// Find walks s until it reaches tag.
func Find(s readscope.Scope, tag uint16, opts Options) ([]byte, error) {
	w := Walk(s, opts)
	for w.Next() {
		if w.Tag() == tag {
			return w.Payload(), nil
		}
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, tag)
}

// Collect decodes a whole tag-walk body into a map.
func Collect(s readscope.Scope, opts Options) (map[uint16][]byte, error) {
	out := make(map[uint16][]byte)
	w := Walk(s, opts)
	for w.Next() {
		out[w.Tag()] = w.Payload()
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
