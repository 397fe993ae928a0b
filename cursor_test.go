package readscope

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadU32BETruncated(t *testing.T) {
	c := New([]byte{1, 2, 3}).Cursor()
	_, err := Read(c, U32BE{})
	require.ErrorIs(t, err, ErrEOF)
	require.Equal(t, 0, c.Offset())
}

func TestReadAdvancesExactly(t *testing.T) {
	buf := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	}
	c := New(buf).Cursor()

	b, err := Read(c, U8{})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), b)
	assert.Equal(t, 1, c.Offset())

	h, err := Read(c, U16BE{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), h)
	assert.Equal(t, 3, c.Offset())

	w, err := Read(c, U32LE{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), w)
	assert.Equal(t, 7, c.Offset())

	q, err := Read(c, U64BE{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x08090A0B0C0D0E0F), q)
	assert.Equal(t, len(buf), c.Offset())
	assert.Equal(t, 0, c.Remaining())

	_, err = Read(c, U8{})
	require.ErrorIs(t, err, ErrEOF)
	assert.Equal(t, len(buf), c.Offset())
}

func TestReadSigned(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFE, 0xFE, 0xFF, 0xFF, 0x80}
	c := New(buf).Cursor()

	i8, err := Read(c, I8{})
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	i16, err := Read(c, I16BE{})
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	i32, err := Read(c, I32LE{})
	require.NoError(t, err)
	assert.Equal(t, int32(-0x7F000002), i32)
}

func TestReadFloatsAndBool(t *testing.T) {
	buf := binary.BigEndian.AppendUint32(nil, math.Float32bits(1.5))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(-2.25))
	buf = append(buf, 0, 7)

	c := New(buf).Cursor()
	f32, err := Read(c, F32BE{})
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := Read(c, F64LE{})
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	b, err := Read(c, Bool{})
	require.NoError(t, err)
	assert.False(t, b)
	b, err = Read(c, Bool{})
	require.NoError(t, err)
	assert.True(t, b)
}

func TestReadScope(t *testing.T) {
	c := New(seq(10)).Cursor()
	require.NoError(t, c.Skip(3))

	s, err := c.ReadScope(4)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Base())
	assert.Equal(t, []byte{3, 4, 5, 6}, s.Data())
	assert.Equal(t, 7, c.Offset())

	_, err = c.ReadScope(4)
	require.ErrorIs(t, err, ErrEOF)
	require.NotErrorIs(t, err, ErrBadOffset)
	assert.Equal(t, 7, c.Offset())

	b, err := c.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, b)

	// Exhausted: zero-length reads still succeed.
	s, err = c.ReadScope(0)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 10, s.Base())

	_, err = c.ReadScope(1)
	require.ErrorIs(t, err, ErrEOF)
}

func TestSkip(t *testing.T) {
	c := New(seq(4)).Cursor()
	require.NoError(t, c.Skip(4))
	require.ErrorIs(t, c.Skip(1), ErrEOF)
	require.ErrorIs(t, c.Skip(-1), ErrEOF)
	require.Equal(t, 4, c.Offset())
}

func TestClone(t *testing.T) {
	c := New(seq(8)).Cursor()
	require.NoError(t, c.Skip(2))
	peek := c.Clone()
	v, err := Read(peek, U16BE{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v)
	assert.Equal(t, 4, peek.Offset())
	assert.Equal(t, 2, c.Offset())
}

func TestReadVarUint(t *testing.T) {
	buf := binary.AppendUvarint(nil, 300)
	buf = binary.AppendUvarint(buf, math.MaxUint64)
	buf = binary.AppendUvarint(buf, 0)
	c := New(buf).Cursor()

	for _, want := range []uint64{300, math.MaxUint64, 0} {
		got, err := c.ReadVarUint()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	require.Equal(t, len(buf), c.Offset())

	_, err := c.ReadVarUint()
	require.ErrorIs(t, err, ErrEOF)
}

func TestReadVarUintErrors(t *testing.T) {
	c := New([]byte{0x80, 0x80}).Cursor()
	_, err := c.ReadVarUint()
	require.ErrorIs(t, err, ErrEOF)
	require.Equal(t, 0, c.Offset())

	over := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x02}
	c = New(over).Cursor()
	_, err = c.ReadVarUint()
	require.ErrorIs(t, err, ErrVarUintOverflow)
	require.Equal(t, 0, c.Offset())
}

func TestReadDepUint(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}).Cursor()

	v, err := ReadDep(c, UintBE{}, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x010203), v)
	assert.Equal(t, 3, c.Offset())

	v, err = ReadDep(c, UintLE{}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0504), v)

	_, err = ReadDep(c, UintBE{}, 2)
	require.ErrorIs(t, err, ErrEOF)
	assert.Equal(t, 5, c.Offset())

	_, err = ReadDep(c, UintBE{}, -1)
	require.ErrorIs(t, err, ErrEOF)
	assert.Equal(t, 5, c.Offset())
}

func TestReadDepBytes(t *testing.T) {
	buf := seq(6)
	c := New(buf).Cursor()
	b, err := ReadDep(c, Bytes{}, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3}, b)
	assert.Same(t, &buf[0], &b[0])
	assert.Equal(t, 4, Size[[]byte, int](Bytes{}, 4))
}

func TestDepAdapter(t *testing.T) {
	d := Dep[uint32](U32BE{})
	assert.Equal(t, 4, d.Size(NoArgs{}))

	c := New([]byte{0, 0, 1, 0}).Cursor()
	v, err := ReadDep(c, d, NoArgs{})
	require.NoError(t, err)
	assert.Equal(t, uint32(256), v)
}

// Checked reads that fit agree with decoding the same bytes directly, and
// the cursor ends at the sum of the widths consumed.
func TestCheckedReadsProperty(t *testing.T) {
	condition := func(buf []byte, widths []uint8) bool {
		c := New(buf).Cursor()
		consumed := 0
		for _, w := range widths {
			switch w % 3 {
			case 0:
				v, err := Read(c, U8{})
				if consumed+1 > len(buf) {
					return errors.Is(err, ErrEOF) && c.Offset() == consumed
				}
				if err != nil || v != buf[consumed] {
					return false
				}
				consumed++
			case 1:
				v, err := Read(c, U16LE{})
				if consumed+2 > len(buf) {
					return errors.Is(err, ErrEOF) && c.Offset() == consumed
				}
				if err != nil || v != binary.LittleEndian.Uint16(buf[consumed:]) {
					return false
				}
				consumed += 2
			default:
				v, err := Read(c, U32BE{})
				if consumed+4 > len(buf) {
					return errors.Is(err, ErrEOF) && c.Offset() == consumed
				}
				if err != nil || v != binary.BigEndian.Uint32(buf[consumed:]) {
					return false
				}
				consumed += 4
			}
		}
		return c.Offset() == consumed
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 1000}))
}

func FuzzCursorRead(f *testing.F) {
	f.Add([]byte{1, 2, 3}, uint8(4))
	f.Add(seq(16), uint8(8))
	f.Fuzz(func(t *testing.T, buf []byte, width uint8) {
		c := New(buf).Cursor()
		v, err := ReadDep(c, Bytes{}, int(width))
		if int(width) > len(buf) {
			require.ErrorIs(t, err, ErrEOF)
			require.Equal(t, 0, c.Offset())
			return
		}
		require.NoError(t, err)
		require.Equal(t, buf[:width], v)
		require.Equal(t, int(width), c.Offset())
	})
}
