package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/btoon-format/btoon/value"
)

func encodeOne(t *testing.T, v value.Value, opts EncodeOptions) []byte {
	t.Helper()
	enc := NewEncoder(opts)
	defer enc.Release()
	require.NoError(t, enc.Encode(v))
	out := append([]byte(nil), enc.Bytes()...)
	return out
}

func TestEncoder_NilBoolMarkers(t *testing.T) {
	opts := DefaultEncodeOptions()
	require.Equal(t, []byte{markerNil}, encodeOne(t, value.Nil(), opts))
	require.Equal(t, []byte{markerTrue}, encodeOne(t, value.Bool(true), opts))
	require.Equal(t, []byte{markerFalse}, encodeOne(t, value.Bool(false), opts))
}

func TestEncoder_PositiveIntsUseNarrowestClass(t *testing.T) {
	opts := DefaultEncodeOptions()
	require.Equal(t, []byte{0x00}, encodeOne(t, value.Int(0), opts))
	require.Equal(t, []byte{0x7F}, encodeOne(t, value.Int(127), opts))
	require.Equal(t, []byte{markerUint8, 128}, encodeOne(t, value.Int(128), opts))
	require.Equal(t, []byte{markerUint8, 0xFF}, encodeOne(t, value.Int(255), opts))
	require.Equal(t, []byte{markerUint16, 0x01, 0x00}, encodeOne(t, value.Int(256), opts))
	require.Equal(t, []byte{markerUint32, 0x00, 0x01, 0x00, 0x00}, encodeOne(t, value.Int(65536), opts))
	require.Equal(t, []byte{markerUint64, 0, 0, 0, 1, 0, 0, 0, 0}, encodeOne(t, value.Int(1<<32), opts))
}

func TestEncoder_NegativeIntsUseSignedClasses(t *testing.T) {
	opts := DefaultEncodeOptions()
	require.Equal(t, []byte{0xFF}, encodeOne(t, value.Int(-1), opts))
	require.Equal(t, []byte{0xE0}, encodeOne(t, value.Int(-32), opts))
	require.Equal(t, []byte{markerInt8, byte(int8(-33))}, encodeOne(t, value.Int(-33), opts))
	require.Equal(t, []byte{markerInt8, 0x80}, encodeOne(t, value.Int(math.MinInt8), opts))
	require.Equal(t, []byte{markerInt16, 0xFF, 0x7F}, encodeOne(t, value.Int(-129), opts))
	require.Equal(t, []byte{markerInt32, 0xFF, 0xFF, 0x7F, 0xFF}, encodeOne(t, value.Int(-32769), opts))
	got := encodeOne(t, value.Int(math.MinInt32-1), opts)
	require.Equal(t, byte(markerInt64), got[0])
}

func TestEncoder_UintAlwaysUnsignedEvenWhenLarge(t *testing.T) {
	opts := DefaultEncodeOptions()
	got := encodeOne(t, value.Uint(math.MaxUint64), opts)
	require.Equal(t, byte(markerUint64), got[0])
}

func TestEncoder_Float64Marker(t *testing.T) {
	opts := DefaultEncodeOptions()
	got := encodeOne(t, value.Float(1.5), opts)
	require.Equal(t, byte(markerFloat64), got[0])
	require.Len(t, got, 9)
	require.Equal(t, 1.5, math.Float64frombits(beUint64(got[1:])))
}

func beUint64(b []byte) uint64 {
	var u uint64
	for _, x := range b[:8] {
		u = u<<8 | uint64(x)
	}
	return u
}

func TestEncoder_StringLengthClasses(t *testing.T) {
	opts := DefaultEncodeOptions()
	require.Equal(t, byte(markerFixstrMin), encodeOne(t, value.String(""), opts)[0])
	got := encodeOne(t, value.String(string(make([]byte, 32))), opts)
	require.Equal(t, byte(markerStr8), got[0])
	got = encodeOne(t, value.String(string(make([]byte, 256))), opts)
	require.Equal(t, byte(markerStr16), got[0])
}

func TestEncoder_BinaryLengthClasses(t *testing.T) {
	opts := DefaultEncodeOptions()
	got := encodeOne(t, value.Binary(make([]byte, 10)), opts)
	require.Equal(t, byte(markerBin8), got[0])
	got = encodeOne(t, value.Binary(make([]byte, 256)), opts)
	require.Equal(t, byte(markerBin16), got[0])
	got = encodeOne(t, value.Binary(make([]byte, 65536)), opts)
	require.Equal(t, byte(markerBin32), got[0])
}

func TestEncoder_ArrayAndMapHeaders(t *testing.T) {
	opts := DefaultEncodeOptions()
	opts.AutoTabular = false

	arr := value.Array([]value.Value{value.Int(1), value.Int(2)})
	got := encodeOne(t, arr, opts)
	require.Equal(t, byte(markerFixarrayMin|2), got[0])

	entries := make([]value.MapEntry, 16)
	for i := range entries {
		entries[i] = value.MapEntry{Key: string(rune('a' + i)), Value: value.Int(int64(i))}
	}
	got = encodeOne(t, value.Map(entries), opts)
	require.Equal(t, byte(markerMap16), got[0])
}

func TestEncoder_MapCanonicalOrder(t *testing.T) {
	opts := DefaultEncodeOptions()
	opts.CanonicalMapOrder = true
	m := value.Map([]value.MapEntry{
		{Key: "b", Value: value.Int(2)},
		{Key: "a", Value: value.Int(1)},
	})
	got := encodeOne(t, m, opts)

	dec := NewDecoder(got, DefaultDecodeOptions())
	decoded, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "a", decoded.Map_()[0].Key)
	require.Equal(t, "b", decoded.Map_()[1].Key)
}

func TestEncoder_MapPreservesOrderByDefault(t *testing.T) {
	opts := DefaultEncodeOptions()
	m := value.Map([]value.MapEntry{
		{Key: "b", Value: value.Int(2)},
		{Key: "a", Value: value.Int(1)},
	})
	got := encodeOne(t, m, opts)

	dec := NewDecoder(got, DefaultDecodeOptions())
	decoded, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "b", decoded.Map_()[0].Key)
}

func TestEncoder_ExtensionFixSizesChosenExactly(t *testing.T) {
	opts := DefaultEncodeOptions()
	got := encodeOne(t, value.Timestamp(100), opts)
	require.Equal(t, byte(markerFixext8), got[0])

	got = encodeOne(t, value.BigInt([]byte{1, 2, 3}), opts)
	require.Equal(t, byte(markerExt8), got[0])
}

func TestEncoder_ExtensionDelegatesViaExt(t *testing.T) {
	opts := DefaultEncodeOptions()
	got := encodeOne(t, value.VectorFloat([]float32{1, 2, 3}), opts)

	dec := NewDecoder(got, DefaultDecodeOptions())
	decoded, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, decoded.VectorFloat32())
}

func TestEncoder_OpaqueExtensionKindEncodes(t *testing.T) {
	opts := DefaultEncodeOptions()
	enc := NewEncoder(opts)
	defer enc.Release()
	// Array/Map are handled directly, not via ext.Encode, so they always
	// succeed; there is no Value kind today that ext.Encode rejects and
	// encodeValue doesn't otherwise handle. This documents that every
	// defined Kind has an encoding path.
	err := enc.Encode(value.Extension(5, []byte{1}))
	require.NoError(t, err)
}

func TestEncoder_TabularDelegationHook(t *testing.T) {
	prevEnc, prevDec := tabularEncodeFn, tabularDecodeFn
	defer func() { tabularEncodeFn, tabularDecodeFn = prevEnc, prevDec }()

	called := false
	RegisterTabularEncoder(func(arr []value.Value, enc *Encoder) ([]byte, bool, error) {
		called = true
		return []byte{0xAA}, true, nil
	})

	opts := DefaultEncodeOptions()
	arr := value.Array([]value.Value{value.Int(1), value.Int(2)})
	got := encodeOne(t, arr, opts)
	require.True(t, called)
	require.Equal(t, byte(markerFixext1), got[0])
	require.Equal(t, byte(ExtTabular), got[1])
	require.Equal(t, byte(0xAA), got[2])
}

func TestEncoder_TabularDelegationSkippedWhenDisabled(t *testing.T) {
	prevEnc := tabularEncodeFn
	defer func() { tabularEncodeFn = prevEnc }()

	called := false
	RegisterTabularEncoder(func(arr []value.Value, enc *Encoder) ([]byte, bool, error) {
		called = true
		return []byte{0xAA}, true, nil
	})

	opts := DefaultEncodeOptions()
	opts.AutoTabular = false
	arr := value.Array([]value.Value{value.Int(1)})
	got := encodeOne(t, arr, opts)
	require.False(t, called)
	require.Equal(t, byte(markerFixarrayMin|1), got[0])
}

func TestEncoder_NestedValuesRoundTrip(t *testing.T) {
	opts := DefaultEncodeOptions()
	opts.AutoTabular = false
	v := value.Map([]value.MapEntry{
		{Key: "items", Value: value.Array([]value.Value{
			value.Int(-1), value.Uint(200), value.String("hi"), value.Nil(), value.Bool(true),
		})},
	})
	got := encodeOne(t, v, opts)

	dec := NewDecoder(got, DefaultDecodeOptions())
	decoded, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, value.Equal(v, decoded))
}
