// Package tabular implements BTOON's columnar extension (ext tag -10): an
// eligibility predicate that recognizes arrays of uniformly-shaped Maps,
// and a column-oriented body encoding for them.
//
// Columns are discovered at run time from the array's key set rather than
// declared ahead of time, and every cell keeps a full wire marker rather
// than trusting the column's declared type tag, since tabular bodies
// arrive over the same adversarial-input boundary as everything else the
// base decoder handles.
//
// tabular registers itself with the wire package at init time instead of
// wire importing tabular directly, avoiding the import cycle a direct
// reference would create (wire.Encoder needs to call into tabular for
// eligible arrays; tabular needs wire.Encoder/Decoder to serialize cell
// bodies). See wire.RegisterTabularEncoder/RegisterTabularDecoder.
package tabular

import (
	"github.com/btoon-format/btoon/errs"
	"github.com/btoon-format/btoon/endian"
	"github.com/btoon-format/btoon/value"
	"github.com/btoon-format/btoon/wire"
)

// FormatVersion is the version field written into every tabular body.
const FormatVersion uint32 = 1

func init() {
	wire.RegisterTabularEncoder(Encode)
	wire.RegisterTabularDecoder(Decode)
}

// column type tags, written into the body header as a hint only — decode
// never trusts them, since every cell carries its own wire marker.
const (
	cellNil byte = iota
	cellBool
	cellInt
	cellUint
	cellFloat
	cellString
	cellOther
)

// IsTabular reports whether arr is eligible for the columnar extension:
// at least two elements, every element a Map, every Map sharing the same
// key set, and every cell value a wire primitive (Nil, Bool, SignedInt,
// UnsignedInt, Float, or String — Array, Map, and the reserved extension
// types all disqualify a cell).
func IsTabular(arr []value.Value) bool {
	if len(arr) < 2 {
		return false
	}
	if arr[0].Kind() != value.KindMap {
		return false
	}
	columns := columnOrder(arr[0])
	keyset := make(map[string]struct{}, len(columns))
	for _, k := range columns {
		keyset[k] = struct{}{}
	}

	for _, row := range arr {
		if row.Kind() != value.KindMap {
			return false
		}
		entries := row.Map_()
		if len(entries) != len(keyset) {
			return false
		}
		for _, e := range entries {
			if _, ok := keyset[e.Key]; !ok {
				return false
			}
			if !isPrimitiveCell(e.Value) {
				return false
			}
		}
	}
	return true
}

func isPrimitiveCell(v value.Value) bool {
	switch v.Kind() {
	case value.KindNil, value.KindBool, value.KindSignedInt, value.KindUnsignedInt,
		value.KindFloat, value.KindString:
		return true
	default:
		return false
	}
}

// columnOrder returns the column names of m in its own entry order. This is
// the order every row's cells are written/read in; it need not be
// lexicographic, since map entry order is not semantically significant but
// is preserved for the column header itself.
func columnOrder(m value.Value) []string {
	entries := m.Map_()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Key
	}
	return names
}

func cellTypeTag(k value.Kind) byte {
	switch k {
	case value.KindNil:
		return cellNil
	case value.KindBool:
		return cellBool
	case value.KindSignedInt:
		return cellInt
	case value.KindUnsignedInt:
		return cellUint
	case value.KindFloat:
		return cellFloat
	case value.KindString:
		return cellString
	default:
		return cellOther
	}
}

// Encode builds the columnar body for arr. ok is false (with a nil error)
// when arr is not eligible, signaling the base encoder to fall back to a
// generic array marker. enc is unused by the current body format (cell
// values are written with a fresh encoder of their own, not enc's buffer)
// but is accepted to satisfy wire.TabularEncoder's signature, which the
// base encoder's eligible-array caller supplies.
func Encode(arr []value.Value, enc *wire.Encoder) (body []byte, ok bool, err error) {
	_ = enc
	if !IsTabular(arr) {
		return nil, false, nil
	}

	columns := columnOrder(arr[0])
	engine := endian.GetBigEndianEngine()

	header := make([]byte, 0, 64+len(columns)*16)
	header = engine.AppendUint32(header, FormatVersion)
	header = engine.AppendUint32(header, uint32(len(columns)))
	for _, name := range columns {
		header = engine.AppendUint32(header, uint32(len(name)))
		header = append(header, name...)
	}
	typeTags := make([]byte, len(columns))
	for i, name := range columns {
		v, _ := arr[0].MapGet(name)
		typeTags[i] = cellTypeTag(v.Kind())
	}
	header = append(header, typeTags...)
	header = engine.AppendUint32(header, uint32(len(arr)))

	cellEnc := wire.NewEncoder(wire.EncodeOptions{AutoTabular: false})
	defer cellEnc.Release()
	for _, row := range arr {
		for _, name := range columns {
			v, _ := row.MapGet(name)
			if encErr := cellEnc.Encode(v); encErr != nil {
				return nil, false, encErr
			}
		}
	}
	cells := cellEnc.Bytes()

	body = make([]byte, 0, len(header)+len(cells))
	body = append(body, header...)
	body = append(body, cells...)
	return body, true, nil
}

// Decode reconstructs the row Maps encoded by Encode. dec is the decoder
// handling the tabular extension's containing value; Decode derives a
// sub-decoder over body (via dec.Sub) so the recursion-depth and total-size
// budgets stay shared across the extension boundary while the cursor
// position itself is independent.
func Decode(body []byte, dec *wire.Decoder) ([]value.Value, error) {
	r := &headerReader{buf: body}

	version, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, errs.Newf(errs.InvalidMarker, "tabular body has unsupported version %d", version)
	}

	numColumns, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0, minInt(int(numColumns), 4096))
	for i := uint32(0); i < numColumns; i++ {
		nameLen, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		name, err := r.readN(int(nameLen))
		if err != nil {
			return nil, err
		}
		columns = append(columns, string(name))
	}
	// Per-column type tags are a hint only; every cell below carries its own
	// wire marker, so the tags are read and discarded rather than trusted.
	if _, err := r.readN(int(numColumns)); err != nil {
		return nil, err
	}

	numRows, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	cellBuf, err := r.rest()
	if err != nil {
		return nil, err
	}
	sub := dec.Sub(cellBuf)

	rows := make([]value.Value, 0, minInt(int(numRows), 4096))
	for i := uint32(0); i < numRows; i++ {
		entries := make([]value.MapEntry, len(columns))
		for c, name := range columns {
			v, err := sub.Decode()
			if err != nil {
				return nil, err
			}
			entries[c] = value.MapEntry{Key: name, Value: v}
		}
		rows = append(rows, value.Map(entries))
	}
	return rows, nil
}

// headerReader is a minimal bounds-checked reader over the tabular body's
// fixed-layout header fields, mirroring wire's cursor but scoped to this
// package since cursor is unexported.
type headerReader struct {
	buf []byte
	pos int
}

func (r *headerReader) readN(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, errs.Newf(errs.TruncatedInput, "tabular body truncated: need %d bytes, have %d", n, len(r.buf)-r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *headerReader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (r *headerReader) rest() ([]byte, error) {
	return r.buf[r.pos:], nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
