package dbflat

import (
	"encoding/binary"
	"slices"

	"github.com/klauspost/compress/zstd"
)

// fieldValue is one field of a test record.
type fieldValue struct {
	Tag       uint16
	CompFlags uint16
	Payload   []byte
}

func u32le(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func makeTestFields(shape string) []fieldValue {
	switch shape {
	case "skinny":
		return []fieldValue{
			{Tag: 1, Payload: []byte("Hello I'm Test 1"), CompFlags: ArrayMask},
			{Tag: 2, Payload: []byte("Hello I'm Test 2"), CompFlags: ArrayMask},
			{Tag: 3, Payload: []byte("Hello I'm Test Comp+10"), CompFlags: ArrayMask},
			{Tag: 192, Payload: u32le(300), CompFlags: 0},
		}
	case "heavy":
		return []fieldValue{
			{Tag: 1, Payload: []byte("Hello I'm Test 1"), CompFlags: ArrayMask},
			{Tag: 2, Payload: []byte("Hello I'm Test 2"), CompFlags: ArrayMask},
			{Tag: 10, Payload: []byte("Hello I'm Test Comp 10"), CompFlags: ArrayMask | CompZstd},
			{Tag: 9, Payload: []byte("Hello Testing Heavy"), CompFlags: ArrayMask},
			{Tag: 11, Payload: []byte("Heavy Data Heavy data Heavy Data Heavy Data Heavy data Heavy Data Heavy Data Heavy data Heavy Data Heavy Data Heavy data Heavy Data"), CompFlags: ArrayMask | CompZstd},
			{Tag: 3, Payload: []byte("Hello I'm Test 3EF"), CompFlags: ArrayMask},
			{Tag: 4, Payload: []byte("Hello I'm Test 4AFE"), CompFlags: ArrayMask},
			{Tag: 128, Payload: []byte{0x34, 0x12}, CompFlags: 0},
		}
	default:
		return nil
	}
}

func compressZstd(raw []byte) []byte {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic(err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil)
}

// encodeRecord lays out header + vtable + data the way DBF3 writers do:
// fields sorted by tag, optional 8-byte payload alignment, varuint length
// before array and compressed payloads.
func encodeRecord(flags uint16, schemaID uint64, hotTags []uint16, fields []fieldValue) []byte {
	fields = slices.Clone(fields)
	slices.SortFunc(fields, func(a, b fieldValue) int { return int(a.Tag) - int(b.Tag) })

	var data []byte
	offsets := make([]uint32, len(fields))
	for i, f := range fields {
		if flags&FlagPadding != 0 {
			for len(data)%8 != 0 {
				data = append(data, 0)
			}
		}
		offsets[i] = uint32(len(data))
		payload := f.Payload
		if f.CompFlags&CompressionMask == CompZstd {
			payload = compressZstd(payload)
		}
		if f.CompFlags&ArrayMask != 0 || f.CompFlags&CompressionMask != 0 {
			data = binary.AppendUvarint(data, uint64(len(payload)))
		}
		data = append(data, payload...)
	}

	var vt []byte
	for i, f := range fields {
		vt = binary.LittleEndian.AppendUint16(vt, f.Tag)
		vt = binary.LittleEndian.AppendUint16(vt, f.CompFlags)
		vt = binary.LittleEndian.AppendUint32(vt, offsets[i])
	}

	h := Header{
		Magic:       MagicV1,
		Version:     VersionV1,
		Flags:       flags,
		SchemaID:    schemaID,
		HotBitmap:   hotBitmap(hotTags),
		VTableSlots: byte(len(fields)),
	}
	h.VTableOff = uint32(h.Size())
	h.DataOffset = uint16(h.Size() + len(vt))

	out := encodeHeader(h)
	out = append(out, vt...)
	return append(out, data...)
}

// encodeWalkRecord writes a header followed directly by a tag-walk body.
func encodeWalkRecord(flags uint16, fields []fieldValue) []byte {
	h := Header{Magic: MagicV1, Version: VersionV1, Flags: flags}
	h.VTableOff = uint32(h.Size())
	h.DataOffset = uint16(h.Size())
	return append(encodeHeader(h), encodeTagWalk(fields)...)
}

func hotBitmap(tags []uint16) byte {
	var bm byte
	for _, t := range tags {
		if t >= 1 && t <= 8 {
			bm |= 1 << (t - 1)
		}
	}
	return bm
}

func encodeHeader(h Header) []byte {
	buf := make([]byte, h.Size())
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	binary.LittleEndian.PutUint16(buf[6:], h.Flags)
	if h.Flags&FlagNoSchemaID != 0 {
		buf[8] = h.HotBitmap
		buf[9] = h.VTableSlots
		binary.LittleEndian.PutUint16(buf[10:], h.DataOffset)
		binary.LittleEndian.PutUint32(buf[12:], h.VTableOff)
		return buf
	}
	binary.LittleEndian.PutUint64(buf[8:], h.SchemaID)
	buf[16] = h.HotBitmap
	buf[17] = h.VTableSlots
	binary.LittleEndian.PutUint16(buf[18:], h.DataOffset)
	binary.LittleEndian.PutUint32(buf[20:], h.VTableOff)
	return buf
}

// encodeTagWalk writes fields in order as tag-walk entries.
func encodeTagWalk(fields []fieldValue) []byte {
	var out []byte
	for _, f := range fields {
		out = binary.LittleEndian.AppendUint16(out, f.Tag)
		out = binary.LittleEndian.AppendUint16(out, f.CompFlags)
		payload := f.Payload
		if f.CompFlags&CompressionMask == CompZstd {
			payload = compressZstd(payload)
		}
		if f.CompFlags&ArrayMask != 0 || f.CompFlags&CompressionMask != 0 {
			out = binary.AppendUvarint(out, uint64(len(payload)))
		}
		out = append(out, payload...)
	}
	return out
}
