package readscope

import (
	"fmt"
	"os"
)

// OwnedScope owns the bytes behind a Scope. It is the only type in the
// package that owns a buffer; everything else aliases one.
type OwnedScope struct {
	base int
	data []byte
}

// OwnBytes takes ownership of data. The caller must not modify data
// afterwards.
func OwnBytes(data []byte) OwnedScope {
	return OwnedScope{data: data[:len(data):len(data)]}
}

// OwnScope copies the bytes of s into a new buffer, keeping s's base so
// diagnostics still report absolute positions.
func OwnScope(s Scope) OwnedScope {
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return OwnedScope{base: s.base, data: data}
}

func (o OwnedScope) Base() int { return o.base }

// Data returns the owned bytes. They are shared, not copied.
func (o OwnedScope) Data() []byte { return o.data }

// Scope returns a scope over the owned bytes.
func (o OwnedScope) Scope() Scope {
	return Scope{base: o.base, data: o.data}
}

// Owned keeps a buffer and a value parsed from it together, so the pair can
// be stored, moved and returned as one. The value may alias the buffer
// freely; there is no way to take the buffer back out while the value is
// reachable through the Owned.
type Owned[V any] struct {
	buf     OwnedScope
	derived V
}

// NewOwned takes ownership of data and derives a value from a scope over it.
// If derive fails its error is returned as is and nothing is retained.
func NewOwned[V any](data []byte, derive func(Scope) (V, error)) (*Owned[V], error) {
	return Derive(OwnBytes(data), derive)
}

// Derive pairs an existing owned buffer with a value derived from it.
func Derive[V any](buf OwnedScope, derive func(Scope) (V, error)) (*Owned[V], error) {
	v, err := derive(buf.Scope())
	if err != nil {
		return nil, err
	}
	return &Owned[V]{buf: buf, derived: v}, nil
}

// LoadFile reads the named file and derives a value from its contents.
func LoadFile[V any](name string, derive func(Scope) (V, error)) (*Owned[V], error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	o, err := NewOwned(data, derive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return o, nil
}

// Get returns the derived value. The pointer is only meaningful together
// with o and must not be mutated.
func (o *Owned[V]) Get() *V { return &o.derived }

func (o *Owned[V]) Scope() Scope { return o.buf.Scope() }
func (o *Owned[V]) Data() []byte { return o.buf.data }
func (o *Owned[V]) Base() int    { return o.buf.base }
