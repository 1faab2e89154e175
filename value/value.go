// Package value defines BTOON's in-memory data model: a tagged sum type
// covering every wire type the codec can produce plus structural equality
// and type-name introspection.
//
// Value is a small closed enum with a String() method, generalized to the
// codec's full, open-ended value domain. Array and Map own their elements
// transitively. Binary values (and opaque extension bodies) either own
// their byte payload or borrow a slice of the decoder's input buffer,
// depending on wire.DecodeOptions.Borrow; every other byte-bearing variant
// (String, BigInt, VectorFloat, VectorDouble) always owns its payload.
package value

import (
	"bytes"
	"fmt"
	"math"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindSignedInt
	KindUnsignedInt
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindTimestamp
	KindDate
	KindDateTime
	KindBigInt
	KindVectorFloat
	KindVectorDouble
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindSignedInt:
		return "int"
	case KindUnsignedInt:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTimestamp:
		return "timestamp"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindBigInt:
		return "bigint"
	case KindVectorFloat:
		return "vectorfloat"
	case KindVectorDouble:
		return "vectordouble"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// MapEntry is one key/value pair of a Map, in encoded/iteration order.
// Map key ordering is not semantically significant but an
// ordered slice preserves whatever order the decoder or builder chose,
// enabling canonical-order encoding (see wire.EncodeOptions.CanonicalMapOrder).
type MapEntry struct {
	Key   string
	Value Value
}

// Value is BTOON's tagged sum type. Exactly one of the typed fields is
// meaningful for a given Kind; callers should use the constructors below
// and the Kind and typed accessors rather than touching fields directly.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	u     uint64
	f     float64
	s     string     // String, Binary (as raw bytes string), BigInt (raw bytes string)
	arr   []Value    // Array
	m     []MapEntry // Map
	vf32  []float32  // VectorFloat
	vf64  []float64  // VectorDouble
	extID int8       // Extension type tag
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// TypeName returns the human-readable type name for v.
func (v Value) TypeName() string { return v.kind.String() }

// Constructors

func Nil() Value                { return Value{kind: KindNil} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindSignedInt, i: i} }
func Uint(u uint64) Value       { return Value{kind: KindUnsignedInt, u: u} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Binary(b []byte) Value     { return Value{kind: KindBinary, s: string(b)} }
func Array(vs []Value) Value    { return Value{kind: KindArray, arr: vs} }
func Map(m []MapEntry) Value    { return Value{kind: KindMap, m: m} }
func Timestamp(sec int64) Value { return Value{kind: KindTimestamp, i: sec} }
func Date(ms int64) Value       { return Value{kind: KindDate, i: ms} }
func DateTime(ns int64) Value   { return Value{kind: KindDateTime, i: ns} }
func BigInt(b []byte) Value     { return Value{kind: KindBigInt, s: string(b)} }
func VectorFloat(v []float32) Value  { return Value{kind: KindVectorFloat, vf32: v} }
func VectorDouble(v []float64) Value { return Value{kind: KindVectorDouble, vf64: v} }

// Extension constructs an opaque Extension value for a reserved/user type
// tag that does not map to one of the typed variants above.
func Extension(tag int8, body []byte) Value {
	return Value{kind: KindExtension, extID: tag, s: string(body)}
}

// Accessors. Each panics if called on the wrong Kind — callers are expected
// to switch on Kind() first and handle every case exhaustively.

func (v Value) Bool() bool       { v.mustBe(KindBool); return v.b }
func (v Value) Int() int64       { v.mustBe(KindSignedInt); return v.i }
func (v Value) Uint() uint64     { v.mustBe(KindUnsignedInt); return v.u }
func (v Value) Float() float64   { v.mustBe(KindFloat); return v.f }
func (v Value) String_() string  { v.mustBe(KindString); return v.s }
func (v Value) Binary_() []byte  { v.mustBe(KindBinary); return []byte(v.s) }
func (v Value) Array_() []Value  { v.mustBe(KindArray); return v.arr }
func (v Value) Map_() []MapEntry { v.mustBe(KindMap); return v.m }
func (v Value) TimestampSeconds() int64 { v.mustBe(KindTimestamp); return v.i }
func (v Value) DateMillis() int64       { v.mustBe(KindDate); return v.i }
func (v Value) DateTimeNanos() int64    { v.mustBe(KindDateTime); return v.i }
func (v Value) BigIntBytes() []byte     { v.mustBe(KindBigInt); return []byte(v.s) }
func (v Value) VectorFloat32() []float32  { v.mustBe(KindVectorFloat); return v.vf32 }
func (v Value) VectorFloat64() []float64  { v.mustBe(KindVectorDouble); return v.vf64 }
func (v Value) ExtensionTag() int8        { v.mustBe(KindExtension); return v.extID }
func (v Value) ExtensionBody() []byte     { v.mustBe(KindExtension); return []byte(v.s) }

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: wrong accessor for kind %s (want %s)", v.kind, k))
	}
}

// IsNumber reports whether v is SignedInt, UnsignedInt, or Float — the
// "number" type-name used by schema field matching.
func (v Value) IsNumber() bool {
	return v.kind == KindSignedInt || v.kind == KindUnsignedInt || v.kind == KindFloat
}

// MapGet returns the value for key and whether it was present. Map does
// not enforce unique keys (the decoder rejects duplicates only in strict
// mode); when a key repeats, the first match is returned.
func (v Value) MapGet(key string) (Value, bool) {
	v.mustBe(KindMap)
	for _, e := range v.m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b are structurally equal. Map equality
// treats entries as a key-set plus value mapping: two Maps differing only
// in entry order are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// SignedInt and UnsignedInt collapse on the wire for non-negative
		// magnitudes: the integer-minimality rule picks the
		// narrowest unsigned marker class for ANY non-negative integer
		// regardless of which Value variant produced it, and the decoder
		// dispatch table always returns UnsignedInt for an
		// unsigned marker. A round-tripped SignedInt(42) therefore comes
		// back as UnsignedInt(42); treat the two as equal here so the
		// decode(encode(v)) == v property holds for non-negative integers.
		if a.kind == KindSignedInt && b.kind == KindUnsignedInt && a.i >= 0 {
			return uint64(a.i) == b.u
		}
		if a.kind == KindUnsignedInt && b.kind == KindSignedInt && b.i >= 0 {
			return a.u == uint64(b.i)
		}
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindSignedInt:
		return a.i == b.i
	case KindUnsignedInt:
		return a.u == b.u
	case KindFloat:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString, KindBinary, KindBigInt:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return mapEqual(a.m, b.m)
	case KindTimestamp, KindDate, KindDateTime:
		return a.i == b.i
	case KindVectorFloat:
		if len(a.vf32) != len(b.vf32) {
			return false
		}
		for i := range a.vf32 {
			if a.vf32[i] != b.vf32[i] {
				return false
			}
		}
		return true
	case KindVectorDouble:
		if len(a.vf64) != len(b.vf64) {
			return false
		}
		for i := range a.vf64 {
			if a.vf64[i] != b.vf64[i] {
				return false
			}
		}
		return true
	case KindExtension:
		return a.extID == b.extID && bytes.Equal([]byte(a.s), []byte(b.s))
	default:
		return false
	}
}

func mapEqual(a, b []MapEntry) bool {
	if len(a) != len(b) {
		return false
	}
	bi := make(map[string]Value, len(b))
	for _, e := range b {
		bi[e.Key] = e.Value
	}
	for _, e := range a {
		other, ok := bi[e.Key]
		if !ok || !Equal(e.Value, other) {
			return false
		}
	}
	return true
}
