package readscope

import "github.com/rawbytedev/readscope/internal/common"

// Cursor is a sequential read position within a Scope. The offset only moves
// forward and a failed read never moves it.
//
// A Cursor is not safe for concurrent use; give each reader its own, e.g.
// with Scope.Cursor or Clone.
type Cursor struct {
	scope  Scope
	offset int
}

func (c *Cursor) Scope() Scope   { return c.scope }
func (c *Cursor) Offset() int    { return c.offset }
func (c *Cursor) Remaining() int { return len(c.scope.data) - c.offset }

// Clone returns an independent cursor at the same position.
func (c *Cursor) Clone() *Cursor {
	cc := *c
	return &cc
}

// checkAvail reports ErrEOF unless n bytes remain ahead of the cursor.
func (c *Cursor) checkAvail(n int) error {
	if n < 0 || n > len(c.scope.data)-c.offset {
		return c.scope.rangeErr(ErrEOF, c.offset, n)
	}
	return nil
}

// window checks that n bytes remain, then hands them out as a Window and
// advances past them. Every unchecked decode goes through here.
func (c *Cursor) window(n int) (Window, error) {
	if err := c.checkAvail(n); err != nil {
		return Window{}, err
	}
	end := c.offset + n
	w := newWindow(c.scope.data[c.offset:end:end])
	c.offset = end
	return w, nil
}

// ReadScope returns the next n bytes as a sub-scope. Any range the scope
// rejects is reported as ErrEOF.
func (c *Cursor) ReadScope(n int) (Scope, error) {
	s, err := c.scope.OffsetLength(c.offset, n)
	if err != nil {
		return Scope{}, c.scope.rangeErr(ErrEOF, c.offset, n)
	}
	c.offset += n
	return s, nil
}

// ReadBytes returns the next n bytes without copying.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	s, err := c.ReadScope(n)
	if err != nil {
		return nil, err
	}
	return s.data, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.checkAvail(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// ReadVarUint decodes a base-128 varuint. A value cut off by the end of the
// scope fails with ErrEOF; one longer than 64 bits with ErrVarUintOverflow.
func (c *Cursor) ReadVarUint() (uint64, error) {
	x, n := common.ReadVarUint(c.scope.data[c.offset:])
	switch {
	case n == 0:
		return 0, c.scope.rangeErr(ErrEOF, c.offset, c.Remaining()+1)
	case n < 0:
		return 0, c.scope.rangeErr(ErrVarUintOverflow, c.offset, -n)
	}
	c.offset += n
	return x, nil
}
