package wire

import (
	"math"
	"sort"

	"github.com/btoon-format/btoon/errs"
	"github.com/btoon-format/btoon/ext"
	"github.com/btoon-format/btoon/internal/pool"
	"github.com/btoon-format/btoon/value"
)

// TabularEncoder is implemented by the tabular package to avoid an import
// cycle: wire's encoder needs to delegate eligible arrays to the columnar
// extension, but the tabular extension's cell bodies are themselves
// encoded with this base encoder. Rather than have wire import tabular
// (which imports wire), the tabular package registers itself here at
// init time.
type TabularEncoder func(arr []value.Value, enc *Encoder) (body []byte, ok bool, err error)

var tabularEncodeFn TabularEncoder

// RegisterTabularEncoder installs the tabular package's encoder. Called
// from tabular's init().
func RegisterTabularEncoder(fn TabularEncoder) { tabularEncodeFn = fn }

// TabularDecoder mirrors TabularEncoder for the decode direction.
type TabularDecoder func(body []byte, dec *Decoder) ([]value.Value, error)

var tabularDecodeFn TabularDecoder

// RegisterTabularDecoder installs the tabular package's decoder.
func RegisterTabularDecoder(fn TabularDecoder) { tabularDecodeFn = fn }

// Encoder implements the base encoder (C3): it emits the smallest legal
// wire form for every primitive and container marker, writing directly
// into a pooled buffer.
type Encoder struct {
	buf  *pool.ByteBuffer
	opts EncodeOptions
}

// NewEncoder creates an Encoder with the given options, using a pooled buffer.
func NewEncoder(opts EncodeOptions) *Encoder {
	return &Encoder{buf: pool.GetEncodeBuffer(), opts: opts}
}

// Release returns the encoder's buffer to the pool. Call after copying out
// the result of Bytes().
func (e *Encoder) Release() { pool.PutEncodeBuffer(e.buf) }

// Bytes returns the encoded byte slice accumulated so far. Shares storage
// with the encoder; copy before calling Release if you need to keep it.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// Encode appends the wire encoding of v to the buffer.
func (e *Encoder) Encode(v value.Value) error {
	return e.encodeValue(v)
}

func (e *Encoder) writeByte(b byte) {
	e.buf.Grow(1)
	e.buf.MustWrite([]byte{b})
}

func (e *Encoder) writeBytes(b []byte) {
	e.buf.Grow(len(b))
	e.buf.MustWrite(b)
}

func (e *Encoder) writeUint16(u uint16) {
	e.writeBytes([]byte{byte(u >> 8), byte(u)})
}

func (e *Encoder) writeUint32(u uint32) {
	e.writeBytes([]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

func (e *Encoder) writeUint64(u uint64) {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (56 - 8*i))
	}
	e.writeBytes(b)
}

func (e *Encoder) encodeValue(v value.Value) error {
	switch v.Kind() {
	case value.KindNil:
		e.writeByte(markerNil)
		return nil
	case value.KindBool:
		if v.Bool() {
			e.writeByte(markerTrue)
		} else {
			e.writeByte(markerFalse)
		}
		return nil
	case value.KindSignedInt:
		return e.encodeInt(v.Int())
	case value.KindUnsignedInt:
		return e.encodeUint(v.Uint())
	case value.KindFloat:
		e.writeByte(markerFloat64)
		e.writeUint64(math.Float64bits(v.Float()))
		return nil
	case value.KindString:
		return e.encodeString(v.String_())
	case value.KindBinary:
		return e.encodeBinary(v.Binary_())
	case value.KindArray:
		return e.encodeArray(v.Array_())
	case value.KindMap:
		return e.encodeMap(v.Map_())
	case value.KindTimestamp, value.KindDate, value.KindDateTime,
		value.KindBigInt, value.KindVectorFloat, value.KindVectorDouble,
		value.KindExtension:
		tag, body, ok := ext.Encode(v)
		if !ok {
			return errs.Newf(errs.InvalidMarker, "no extension encoding for kind %s", v.Kind())
		}
		return e.encodeExtension(tag, body)
	default:
		return errs.Newf(errs.InvalidMarker, "cannot encode value of kind %s", v.Kind())
	}
}

// encodeInt applies the integer-minimality rule: any non-negative
// magnitude is encoded via the narrowest *unsigned* marker class
// (including positive fixint); only negative magnitudes use the signed
// fixint/i8/i16/i32/i64 markers.
func (e *Encoder) encodeInt(n int64) error {
	if n >= 0 {
		return e.encodeUint(uint64(n))
	}
	if n >= -32 {
		e.writeByte(byte(int8(n)))
		return nil
	}
	switch {
	case n >= math.MinInt8:
		e.writeByte(markerInt8)
		e.writeByte(byte(int8(n)))
	case n >= math.MinInt16:
		e.writeByte(markerInt16)
		e.writeUint16(uint16(int16(n)))
	case n >= math.MinInt32:
		e.writeByte(markerInt32)
		e.writeUint32(uint32(int32(n)))
	default:
		e.writeByte(markerInt64)
		e.writeUint64(uint64(n))
	}
	return nil
}

func (e *Encoder) encodeUint(u uint64) error {
	switch {
	case u <= markerPosFixintMax:
		e.writeByte(byte(u))
	case u <= math.MaxUint8:
		e.writeByte(markerUint8)
		e.writeByte(byte(u))
	case u <= math.MaxUint16:
		e.writeByte(markerUint16)
		e.writeUint16(uint16(u))
	case u <= math.MaxUint32:
		e.writeByte(markerUint32)
		e.writeUint32(uint32(u))
	default:
		e.writeByte(markerUint64)
		e.writeUint64(u)
	}
	return nil
}

func (e *Encoder) encodeString(s string) error {
	n := len(s)
	switch {
	case n <= 31:
		e.writeByte(byte(markerFixstrMin | n))
	case n <= math.MaxUint8:
		e.writeByte(markerStr8)
		e.writeByte(byte(n))
	case n <= math.MaxUint16:
		e.writeByte(markerStr16)
		e.writeUint16(uint16(n))
	case uint64(n) <= math.MaxUint32:
		e.writeByte(markerStr32)
		e.writeUint32(uint32(n))
	default:
		return errs.Newf(errs.SizeExceeded, "string length %d exceeds uint32 length prefix", n)
	}
	e.writeBytes([]byte(s))
	return nil
}

func (e *Encoder) encodeBinary(b []byte) error {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		e.writeByte(markerBin8)
		e.writeByte(byte(n))
	case n <= math.MaxUint16:
		e.writeByte(markerBin16)
		e.writeUint16(uint16(n))
	case uint64(n) <= math.MaxUint32:
		e.writeByte(markerBin32)
		e.writeUint32(uint32(n))
	default:
		return errs.Newf(errs.SizeExceeded, "binary length %d exceeds uint32 length prefix", n)
	}
	e.writeBytes(b)
	return nil
}

func (e *Encoder) encodeArray(arr []value.Value) error {
	if e.opts.AutoTabular && tabularEncodeFn != nil {
		if body, ok, err := tabularEncodeFn(arr, e); err != nil {
			return err
		} else if ok {
			return e.encodeExtension(ExtTabular, body)
		}
	}

	n := len(arr)
	switch {
	case n <= 15:
		e.writeByte(byte(markerFixarrayMin | n))
	case n <= math.MaxUint16:
		e.writeByte(markerArray16)
		e.writeUint16(uint16(n))
	case uint64(n) <= math.MaxUint32:
		e.writeByte(markerArray32)
		e.writeUint32(uint32(n))
	default:
		return errs.Newf(errs.SizeExceeded, "array length %d exceeds uint32 length prefix", n)
	}
	for _, child := range arr {
		if err := e.encodeValue(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeMap(entries []value.MapEntry) error {
	if e.opts.CanonicalMapOrder {
		sorted := make([]value.MapEntry, len(entries))
		copy(sorted, entries)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
		entries = sorted
	}

	n := len(entries)
	switch {
	case n <= 15:
		e.writeByte(byte(markerFixmapMin | n))
	case n <= math.MaxUint16:
		e.writeByte(markerMap16)
		e.writeUint16(uint16(n))
	case uint64(n) <= math.MaxUint32:
		e.writeByte(markerMap32)
		e.writeUint32(uint32(n))
	default:
		return errs.Newf(errs.SizeExceeded, "map length %d exceeds uint32 length prefix", n)
	}
	for _, entry := range entries {
		if err := e.encodeString(entry.Key); err != nil {
			return err
		}
		if err := e.encodeValue(entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// encodeExtension picks fix-extension (1/2/4/8/16 body bytes) when the
// body length matches one of those exact sizes, otherwise ext8/16/32.
func (e *Encoder) encodeExtension(tag int8, body []byte) error {
	n := len(body)
	switch n {
	case 1:
		e.writeByte(markerFixext1)
	case 2:
		e.writeByte(markerFixext2)
	case 4:
		e.writeByte(markerFixext4)
	case 8:
		e.writeByte(markerFixext8)
	case 16:
		e.writeByte(markerFixext16)
	default:
		switch {
		case n <= math.MaxUint8:
			e.writeByte(markerExt8)
			e.writeByte(byte(n))
		case n <= math.MaxUint16:
			e.writeByte(markerExt16)
			e.writeUint16(uint16(n))
		case uint64(n) <= math.MaxUint32:
			e.writeByte(markerExt32)
			e.writeUint32(uint32(n))
		default:
			return errs.Newf(errs.SizeExceeded, "extension body length %d exceeds uint32 length prefix", n)
		}
	}
	e.writeByte(byte(tag))
	e.writeBytes(body)
	return nil
}
