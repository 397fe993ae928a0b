package common

import (
	"encoding/binary"
	"math"
	"reflect"
)

// MaxVarUintLen is the longest valid encoding of a 64-bit varuint.
const MaxVarUintLen = 10

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed-size primitive kinds, -1 otherwise.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// ReadVarUint decodes a little-endian base-128 varint from b returning the
// value and bytes consumed. n == 0 means b ended mid-value; n < 0 means the
// value overflows 64 bits and -n bytes were examined.
func ReadVarUint(b []byte) (x uint64, n int) {
	var s uint
	for i, c := range b {
		if i == MaxVarUintLen {
			return 0, -(i + 1)
		}
		if c < 0x80 {
			if i == MaxVarUintLen-1 && c > 1 {
				return 0, -(i + 1)
			}
			return x | uint64(c)<<s, i + 1
		}
		x |= uint64(c&0x7F) << s
		s += 7
	}
	return 0, 0
}

// Align rounds n up to the next multiple of to, which must be a power of two.
func Align(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}

// SetFixed decodes a fixed-width primitive of kind k from b and stores it in
// dst. b must hold at least FixedSize(k) bytes.
func SetFixed(dst reflect.Value, b []byte, k reflect.Kind, order binary.ByteOrder) {
	switch k {
	case reflect.Bool:
		dst.SetBool(b[0] != 0)
	case reflect.Int8:
		dst.SetInt(int64(int8(b[0])))
	case reflect.Uint8:
		dst.SetUint(uint64(b[0]))
	case reflect.Int16:
		dst.SetInt(int64(int16(order.Uint16(b))))
	case reflect.Uint16:
		dst.SetUint(uint64(order.Uint16(b)))
	case reflect.Int32:
		dst.SetInt(int64(int32(order.Uint32(b))))
	case reflect.Uint32:
		dst.SetUint(uint64(order.Uint32(b)))
	case reflect.Int64:
		dst.SetInt(int64(order.Uint64(b)))
	case reflect.Uint64:
		dst.SetUint(order.Uint64(b))
	case reflect.Float32:
		dst.SetFloat(float64(math.Float32frombits(order.Uint32(b))))
	case reflect.Float64:
		dst.SetFloat(math.Float64frombits(order.Uint64(b)))
	}
}
