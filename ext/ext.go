// Package ext dispatches BTOON's reserved extension type tags to typed
// decoders, and the reverse: picks a reserved tag for a typed Value on
// encode.
//
// Unknown tags — anything in the user range [0,127] or the
// reserved-but-unallocated range [-128,-11] — round-trip through the
// opaque Extension variant without interpretation.
package ext

import (
	"github.com/btoon-format/btoon/errs"
	"github.com/btoon-format/btoon/value"
)

// Reserved type tags for the typed extension variants.
const (
	Timestamp    int8 = -1
	Date         int8 = -2
	DateTime     int8 = -3
	BigInt       int8 = -4
	VectorFloat  int8 = -5
	VectorDouble int8 = -6
	// Tabular is allocated to the columnar extension and is
	// never dispatched through Decode/Encode below — the decoder handles it
	// directly since its body recurses back through the base decoder.
	Tabular int8 = -10
)

// IsReserved reports whether tag names one of the typed variants this
// package dispatches (as opposed to an opaque passthrough or the tabular
// extension, which the wire decoder handles itself).
func IsReserved(tag int8) bool {
	switch tag {
	case Timestamp, Date, DateTime, BigInt, VectorFloat, VectorDouble:
		return true
	default:
		return false
	}
}

// Decode interprets a reserved extension's body and produces the
// corresponding typed Value. body must already have been length-checked
// by the caller's cursor; Decode performs the additional per-type exact-
// length check, returning InvalidExtensionLength on mismatch.
//
// Decode always returns owned copies, independent of the caller's
// borrowing-mode setting: reserved extension bodies are reinterpreted
// (byte-swapped into int64/float32/float64 slices), not passed through
// verbatim, so there is no unmodified input sub-slice left to borrow.
func Decode(tag int8, body []byte) (value.Value, error) {
	switch tag {
	case Timestamp:
		if len(body) != 8 {
			return value.Value{}, errs.Newf(errs.InvalidExtensionLength, "timestamp extension requires 8 bytes, got %d", len(body))
		}
		return value.Timestamp(beInt64(body)), nil
	case Date:
		if len(body) != 8 {
			return value.Value{}, errs.Newf(errs.InvalidExtensionLength, "date extension requires 8 bytes, got %d", len(body))
		}
		return value.Date(beInt64(body)), nil
	case DateTime:
		if len(body) != 8 {
			return value.Value{}, errs.Newf(errs.InvalidExtensionLength, "datetime extension requires 8 bytes, got %d", len(body))
		}
		return value.DateTime(beInt64(body)), nil
	case BigInt:
		if len(body) == 0 {
			return value.Value{}, errs.New(errs.InvalidExtensionLength, "bigint extension requires a non-zero length body")
		}
		return value.BigInt(cloneBytes(body)), nil
	case VectorFloat:
		if len(body)%4 != 0 {
			return value.Value{}, errs.Newf(errs.InvalidExtensionLength, "vector-float extension body length %d is not a multiple of 4", len(body))
		}
		return value.VectorFloat(decodeFloat32s(body)), nil
	case VectorDouble:
		if len(body)%8 != 0 {
			return value.Value{}, errs.Newf(errs.InvalidExtensionLength, "vector-double extension body length %d is not a multiple of 8", len(body))
		}
		return value.VectorDouble(decodeFloat64s(body)), nil
	default:
		// Unknown reserved or user-range tag: opaque passthrough.
		return value.Extension(tag, cloneBytes(body)), nil
	}
}

// Encode picks the reserved tag and body bytes for a typed Value, for the
// variants ext dispatches. ok is false for Values ext does not own
// (generic primitives, Array, Map, and already-opaque Extension values),
// signaling the base encoder should fall back to its own markers.
func Encode(v value.Value) (tag int8, body []byte, ok bool) {
	switch v.Kind() {
	case value.KindTimestamp:
		return Timestamp, encodeInt64(v.TimestampSeconds()), true
	case value.KindDate:
		return Date, encodeInt64(v.DateMillis()), true
	case value.KindDateTime:
		return DateTime, encodeInt64(v.DateTimeNanos()), true
	case value.KindBigInt:
		return BigInt, v.BigIntBytes(), true
	case value.KindVectorFloat:
		return VectorFloat, encodeFloat32s(v.VectorFloat32()), true
	case value.KindVectorDouble:
		return VectorDouble, encodeFloat64s(v.VectorFloat64()), true
	case value.KindExtension:
		return v.ExtensionTag(), v.ExtensionBody(), true
	default:
		return 0, nil, false
	}
}

func beInt64(b []byte) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(b[i])
	}
	return int64(u)
}

func encodeInt64(v int64) []byte {
	u := uint64(v)
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func decodeFloat32s(body []byte) []float32 {
	n := len(body) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		u := uint32(body[i*4])<<24 | uint32(body[i*4+1])<<16 | uint32(body[i*4+2])<<8 | uint32(body[i*4+3])
		out[i] = float32FromBits(u)
	}
	return out
}

func decodeFloat64s(body []byte) []float64 {
	n := len(body) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		off := i * 8
		var u uint64
		for j := 0; j < 8; j++ {
			u = u<<8 | uint64(body[off+j])
		}
		out[i] = float64FromBits(u)
	}
	return out
}

func encodeFloat32s(vs []float32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		u := float32Bits(v)
		out[i*4] = byte(u >> 24)
		out[i*4+1] = byte(u >> 16)
		out[i*4+2] = byte(u >> 8)
		out[i*4+3] = byte(u)
	}
	return out
}

func encodeFloat64s(vs []float64) []byte {
	out := make([]byte, len(vs)*8)
	for i, v := range vs {
		u := float64Bits(v)
		off := i * 8
		for j := 0; j < 8; j++ {
			out[off+j] = byte(u >> (56 - 8*j))
		}
	}
	return out
}
