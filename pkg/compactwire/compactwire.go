// Package compactwire decodes compact-wire frames. Every frame starts with
// the two magic bytes 0xC3 0x57 and a type byte and ends with a CRC32 (IEEE,
// little-endian) over everything between the magic and the checksum.
// Decoded frames hold views into the input buffer.
package compactwire

import (
	"errors"

	"github.com/rawbytedev/readscope"
)

const (
	Magic = 0xC357 // 0xC3 0x57 on the wire

	TypeData      = 0x01
	TypeError     = 0x02
	TypeHandshake = 0x03

	// FlagHasOffsetTable marks a data frame that carries segment offsets
	// ahead of its payload.
	FlagHasOffsetTable = 0x01

	preambleSize = 3
	crcSize      = 4
)

var (
	ErrBadMagic  = errors.New("compactwire: invalid magic")
	ErrFrameType = errors.New("compactwire: unexpected frame type")
	ErrLength    = errors.New("compactwire: length mismatch")
	ErrChecksum  = errors.New("compactwire: crc mismatch")
)

// Frame is implemented by every decoded frame.
type Frame interface {
	Type() byte
}

// DataFrame carries an opaque payload, optionally split into segments by an
// offset table. Offsets are relative to the payload start.
type DataFrame struct {
	Flags   byte
	Offsets readscope.Array[uint32, readscope.NoArgs]
	Payload readscope.Scope
}

func (DataFrame) Type() byte { return TypeData }

// ErrorFrame reports a peer error code with optional detail bytes.
type ErrorFrame struct {
	Code byte   `yaml:"code"`
	Data []byte `yaml:"data,omitempty"`
}

func (ErrorFrame) Type() byte { return TypeError }

// HandshakeFrame advertises connection parameters.
type HandshakeFrame struct {
	VersionMask uint16 `yaml:"version_mask"`
	MTU         uint16 `yaml:"mtu"`
	TimeoutMS   uint32 `yaml:"timeout_ms"`
	AlgCodes    []byte `yaml:"alg_codes,flow"`
}

func (HandshakeFrame) Type() byte { return TypeHandshake }
