package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindNil: "nil", KindBool: "bool", KindSignedInt: "int",
		KindUnsignedInt: "uint", KindFloat: "float", KindString: "string",
		KindBinary: "binary", KindArray: "array", KindMap: "map",
		KindTimestamp: "timestamp", KindDate: "date", KindDateTime: "datetime",
		KindBigInt: "bigint", KindVectorFloat: "vectorfloat",
		KindVectorDouble: "vectordouble", KindExtension: "extension",
	}
	for k, want := range cases {
		require.Equal(t, want, k.String())
	}
	require.Equal(t, "unknown", Kind(255).String())
}

func TestConstructorsAndAccessors(t *testing.T) {
	require.Equal(t, KindNil, Nil().Kind())
	require.True(t, Bool(true).Bool())
	require.Equal(t, int64(-5), Int(-5).Int())
	require.Equal(t, uint64(5), Uint(5).Uint())
	require.Equal(t, 1.5, Float(1.5).Float())
	require.Equal(t, "hi", String("hi").String_())
	require.Equal(t, []byte("data"), Binary([]byte("data")).Binary_())
	require.Equal(t, int64(100), Timestamp(100).TimestampSeconds())
	require.Equal(t, int64(200), Date(200).DateMillis())
	require.Equal(t, int64(300), DateTime(300).DateTimeNanos())
	require.Equal(t, []byte{1, 2}, BigInt([]byte{1, 2}).BigIntBytes())
	require.Equal(t, []float32{1, 2}, VectorFloat([]float32{1, 2}).VectorFloat32())
	require.Equal(t, []float64{1, 2}, VectorDouble([]float64{1, 2}).VectorFloat64())

	ext := Extension(-7, []byte{9, 9})
	require.Equal(t, int8(-7), ext.ExtensionTag())
	require.Equal(t, []byte{9, 9}, ext.ExtensionBody())

	arr := Array([]Value{Int(1), Int(2)})
	require.Equal(t, []Value{Int(1), Int(2)}, arr.Array_())

	m := Map([]MapEntry{{Key: "a", Value: Int(1)}})
	require.Equal(t, []MapEntry{{Key: "a", Value: Int(1)}}, m.Map_())
}

func TestAccessor_PanicsOnWrongKind(t *testing.T) {
	require.Panics(t, func() { Int(1).Bool() })
	require.Panics(t, func() { String("x").Int() })
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "int", Int(1).TypeName())
	require.Equal(t, "string", String("x").TypeName())
}

func TestIsNumber(t *testing.T) {
	require.True(t, Int(1).IsNumber())
	require.True(t, Uint(1).IsNumber())
	require.True(t, Float(1).IsNumber())
	require.False(t, String("1").IsNumber())
	require.False(t, Bool(true).IsNumber())
}

func TestMapGet(t *testing.T) {
	m := Map([]MapEntry{{Key: "a", Value: Int(1)}, {Key: "b", Value: Int(2)}})
	v, ok := m.MapGet("a")
	require.True(t, ok)
	require.Equal(t, int64(1), v.Int())

	_, ok = m.MapGet("missing")
	require.False(t, ok)
}

func TestEqual_Primitives(t *testing.T) {
	require.True(t, Equal(Nil(), Nil()))
	require.True(t, Equal(Bool(true), Bool(true)))
	require.False(t, Equal(Bool(true), Bool(false)))
	require.True(t, Equal(Int(5), Int(5)))
	require.True(t, Equal(String("x"), String("x")))
	require.False(t, Equal(String("x"), String("y")))
	require.False(t, Equal(Int(1), String("1")))
}

func TestEqual_FloatNaN(t *testing.T) {
	nan := Float(math.NaN())
	require.True(t, Equal(nan, nan))
	require.True(t, Equal(Float(1.5), Float(1.5)))
	require.False(t, Equal(Float(1.5), Float(2.5)))
}

func TestEqual_SignedUnsignedCollapseForNonNegative(t *testing.T) {
	require.True(t, Equal(Int(5), Uint(5)))
	require.True(t, Equal(Uint(5), Int(5)))
	require.False(t, Equal(Int(-1), Uint(18446744073709551615)))
}

func TestEqual_Array(t *testing.T) {
	a := Array([]Value{Int(1), String("x")})
	b := Array([]Value{Int(1), String("x")})
	c := Array([]Value{Int(1), String("y")})
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
	require.False(t, Equal(a, Array([]Value{Int(1)})))
}

func TestEqual_MapIgnoresOrder(t *testing.T) {
	a := Map([]MapEntry{{Key: "x", Value: Int(1)}, {Key: "y", Value: Int(2)}})
	b := Map([]MapEntry{{Key: "y", Value: Int(2)}, {Key: "x", Value: Int(1)}})
	require.True(t, Equal(a, b))

	c := Map([]MapEntry{{Key: "x", Value: Int(1)}})
	require.False(t, Equal(a, c))
}

func TestEqual_Vectors(t *testing.T) {
	require.True(t, Equal(VectorFloat([]float32{1, 2}), VectorFloat([]float32{1, 2})))
	require.False(t, Equal(VectorFloat([]float32{1, 2}), VectorFloat([]float32{1, 3})))
	require.False(t, Equal(VectorFloat([]float32{1}), VectorFloat([]float32{1, 2})))

	require.True(t, Equal(VectorDouble([]float64{1, 2}), VectorDouble([]float64{1, 2})))
	require.False(t, Equal(VectorDouble([]float64{1}), VectorDouble([]float64{1, 2})))
}

func TestEqual_Extension(t *testing.T) {
	a := Extension(-8, []byte{1, 2})
	b := Extension(-8, []byte{1, 2})
	c := Extension(-9, []byte{1, 2})
	d := Extension(-8, []byte{1, 3})
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
	require.False(t, Equal(a, d))
}

func TestEqual_TimestampFamily(t *testing.T) {
	require.True(t, Equal(Timestamp(5), Timestamp(5)))
	require.False(t, Equal(Timestamp(5), Timestamp(6)))
	require.False(t, Equal(Timestamp(5), Date(5)))
}
