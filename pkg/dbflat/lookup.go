package dbflat

// FixedWidth maps a tag to the byte length of a fixed-width primitive when
// the record carries no explicit width. Tags are grouped by type range.
func FixedWidth(tag uint16) int {
	switch {
	case tag <= 15:
		return 1 // bool
	case tag <= 31:
		return 1 // int8
	case tag <= 63:
		return 1 // uint8
	case tag <= 127:
		return 2 // int16
	case tag <= 191:
		return 2 // uint16
	case tag <= 255:
		return 4 // int32
	case tag <= 319:
		return 4 // uint32
	case tag <= 383:
		return 8 // int64
	case tag <= 447:
		return 8 // uint64
	case tag <= 511:
		return 4 // float32
	case tag <= 575:
		return 8 // float64
	default:
		return -1 // variable length or unknown
	}
}
