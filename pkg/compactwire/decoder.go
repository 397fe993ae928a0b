package compactwire

import (
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/readscope"
)

// errorHead is the fixed part of an error frame body.
type errorHead struct {
	tlv     uint32
	code    byte
	dataLen uint16
}

type errorHeadDecoder struct{}

func (errorHeadDecoder) Width() int { return 7 }

func (errorHeadDecoder) ReadUnchecked(w *readscope.Window) errorHead {
	return errorHead{tlv: w.U32LE(), code: w.U8(), dataLen: w.U16LE()}
}

// handshakeHead is the fixed part of a handshake body, length included.
type handshakeHead struct {
	length uint32
	frame  HandshakeFrame
}

type handshakeHeadDecoder struct{}

func (handshakeHeadDecoder) Width() int { return 12 }

func (handshakeHeadDecoder) ReadUnchecked(w *readscope.Window) handshakeHead {
	var h handshakeHead
	h.length = w.U32LE()
	h.frame.VersionMask = w.U16LE()
	h.frame.MTU = w.U16LE()
	h.frame.TimeoutMS = w.U32LE()
	return h
}

// PeekType checks the magic and returns the frame type byte.
func PeekType(s readscope.Scope) (byte, error) {
	c := s.Cursor()
	magic, err := readscope.Read(c, readscope.U16BE{})
	if err != nil {
		return 0, fmt.Errorf("compactwire: preamble: %w", err)
	}
	if magic != Magic {
		return 0, fmt.Errorf("%w: %#04x", ErrBadMagic, magic)
	}
	t, err := readscope.Read(c, readscope.U8{})
	if err != nil {
		return 0, fmt.Errorf("compactwire: preamble: %w", err)
	}
	return t, nil
}

// open validates preamble and checksum and returns a cursor over the frame
// body, positioned after the type byte and ending before the checksum.
func open(s readscope.Scope, want byte) (*readscope.Cursor, error) {
	t, err := PeekType(s)
	if err != nil {
		return nil, err
	}
	if t != want {
		return nil, fmt.Errorf("%w: got %#x, want %#x", ErrFrameType, t, want)
	}
	if s.Len() < preambleSize+crcSize {
		return nil, fmt.Errorf("compactwire: checksum: %w", readscope.ErrEOF)
	}
	tail, err := s.OffsetLength(s.Len()-crcSize, crcSize)
	if err != nil {
		return nil, err
	}
	stored, err := readscope.Read(tail.Cursor(), readscope.U32LE{})
	if err != nil {
		return nil, err
	}
	covered, err := s.OffsetLength(2, s.Len()-2-crcSize)
	if err != nil {
		return nil, err
	}
	if sum := crc32.ChecksumIEEE(covered.Data()); sum != stored {
		return nil, fmt.Errorf("%w: computed %#08x, stored %#08x", ErrChecksum, sum, stored)
	}

	body, err := s.OffsetLength(preambleSize, s.Len()-preambleSize-crcSize)
	if err != nil {
		return nil, err
	}
	return body.Cursor(), nil
}

// DecodeData decodes a data frame occupying all of s.
func DecodeData(s readscope.Scope) (DataFrame, error) {
	c, err := open(s, TypeData)
	if err != nil {
		return DataFrame{}, err
	}
	length, err := readscope.Read(c, readscope.U32LE{})
	if err != nil {
		return DataFrame{}, fmt.Errorf("compactwire: data length: %w", err)
	}
	if int64(length) != int64(s.Len()) {
		return DataFrame{}, fmt.Errorf("%w: header says %d, frame is %d", ErrLength, length, s.Len())
	}
	var f DataFrame
	if f.Flags, err = readscope.Read(c, readscope.U8{}); err != nil {
		return DataFrame{}, fmt.Errorf("compactwire: data flags: %w", err)
	}
	if f.Flags&FlagHasOffsetTable != 0 {
		n, err := readscope.Read(c, readscope.U16LE{})
		if err != nil {
			return DataFrame{}, fmt.Errorf("compactwire: offset count: %w", err)
		}
		if f.Offsets, err = readscope.ReadArray(c, readscope.U32LE{}, int(n)); err != nil {
			return DataFrame{}, fmt.Errorf("compactwire: offset table: %w", err)
		}
	}
	if f.Payload, err = c.ReadScope(c.Remaining()); err != nil {
		return DataFrame{}, err
	}
	return f, nil
}

// Segment returns the i-th payload segment: from Offsets[i] up to the next
// offset, or to the end of the payload for the last one.
func (f DataFrame) Segment(i int) (readscope.Scope, error) {
	start, err := f.Offsets.At(i)
	if err != nil {
		return readscope.Scope{}, fmt.Errorf("compactwire: segment %d: %w", i, err)
	}
	end := uint32(f.Payload.Len())
	if i+1 < f.Offsets.Len() {
		if end, err = f.Offsets.At(i + 1); err != nil {
			return readscope.Scope{}, err
		}
	}
	if end < start {
		return readscope.Scope{}, fmt.Errorf("compactwire: segment %d: offsets out of order: %w", i, readscope.ErrBadOffset)
	}
	seg, err := f.Payload.OffsetLength(int(start), int(end-start))
	if err != nil {
		return readscope.Scope{}, fmt.Errorf("compactwire: segment %d: %w", i, err)
	}
	return seg, nil
}

// DecodeError decodes an error frame occupying all of s.
func DecodeError(s readscope.Scope) (ErrorFrame, error) {
	c, err := open(s, TypeError)
	if err != nil {
		return ErrorFrame{}, err
	}
	h, err := readscope.Read(c, errorHeadDecoder{})
	if err != nil {
		return ErrorFrame{}, fmt.Errorf("compactwire: error header: %w", err)
	}
	if h.tlv != 3+uint32(h.dataLen) {
		return ErrorFrame{}, fmt.Errorf("%w: tlv %d for %d data bytes", ErrLength, h.tlv, h.dataLen)
	}
	data, err := c.ReadBytes(int(h.dataLen))
	if err != nil {
		return ErrorFrame{}, fmt.Errorf("compactwire: error data: %w", err)
	}
	if c.Remaining() != 0 {
		return ErrorFrame{}, fmt.Errorf("%w: %d trailing bytes", ErrLength, c.Remaining())
	}
	return ErrorFrame{Code: h.code, Data: data}, nil
}

// DecodeHandshake decodes a handshake frame occupying all of s.
func DecodeHandshake(s readscope.Scope) (HandshakeFrame, error) {
	c, err := open(s, TypeHandshake)
	if err != nil {
		return HandshakeFrame{}, err
	}
	h, err := readscope.Read(c, handshakeHeadDecoder{})
	if err != nil {
		return HandshakeFrame{}, fmt.Errorf("compactwire: handshake header: %w", err)
	}
	if int64(h.length) != int64(s.Len()) {
		return HandshakeFrame{}, fmt.Errorf("%w: header says %d, frame is %d", ErrLength, h.length, s.Len())
	}
	n, err := readscope.Read(c, readscope.U16LE{})
	if err != nil {
		return HandshakeFrame{}, fmt.Errorf("compactwire: algorithm count: %w", err)
	}
	if h.frame.AlgCodes, err = c.ReadBytes(int(n)); err != nil {
		return HandshakeFrame{}, fmt.Errorf("compactwire: algorithms: %w", err)
	}
	if c.Remaining() != 0 {
		return HandshakeFrame{}, fmt.Errorf("%w: %d trailing bytes", ErrLength, c.Remaining())
	}
	return h.frame, nil
}

// Decode dispatches on the type byte. The returned frame is nil on error.
func Decode(s readscope.Scope) (Frame, error) {
	t, err := PeekType(s)
	if err != nil {
		return nil, err
	}
	var f Frame
	switch t {
	case TypeData:
		f, err = DecodeData(s)
	case TypeError:
		f, err = DecodeError(s)
	case TypeHandshake:
		f, err = DecodeHandshake(s)
	default:
		err = fmt.Errorf("%w: %#x", ErrFrameType, t)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
