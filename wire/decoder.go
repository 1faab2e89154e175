package wire

import (
	"math"

	"github.com/btoon-format/btoon/errs"
	"github.com/btoon-format/btoon/ext"
	"github.com/btoon-format/btoon/value"
)

// Decoder consumes markers from a bounds-checked cursor, enforces the
// configured limits, and produces Values through sequential,
// allocation-light traversal of the recursive marker dispatch.
type Decoder struct {
	cur    *cursor
	opts   DecodeOptions
	budget *decodeBudget
}

// decodeBudget is shared between a Decoder and any sub-decoders created over
// nested byte ranges (see Sub), so a recursion-depth or total-size limit
// applies across the boundary instead of resetting at it — a tabular
// extension's cell bodies count against the same budget as the value that
// contains them.
type decodeBudget struct {
	depth     int
	totalSize int64
}

// NewDecoder creates a Decoder over buf with the given options.
func NewDecoder(buf []byte, opts DecodeOptions) *Decoder {
	return &Decoder{cur: newCursor(buf), opts: opts, budget: &decodeBudget{}}
}

// Sub creates a Decoder over a different, independent byte range (buf),
// sharing this Decoder's options and depth/size budget. Used by the tabular
// extension to decode its cell bodies with the base decoder while keeping
// the adversarial-input limits consistent across the ext boundary.
func (d *Decoder) Sub(buf []byte) *Decoder {
	return &Decoder{cur: newCursor(buf), opts: d.opts, budget: d.budget}
}

// Decode consumes exactly one encoded value from the front of the buffer.
func (d *Decoder) Decode() (value.Value, error) {
	return d.decodeValue()
}

// Remaining reports how many bytes are left unconsumed.
func (d *Decoder) Remaining() int { return d.cur.remaining() }

func (d *Decoder) chargeSize(n int) error {
	d.budget.totalSize += int64(n)
	if d.budget.totalSize > d.opts.Limits.MaxTotalSize {
		return errs.AtOffsetf(errs.SizeExceeded, d.cur.offset(), "total decoded size exceeds limit of %d bytes", d.opts.Limits.MaxTotalSize)
	}
	return nil
}

func (d *Decoder) enterDepth() error {
	d.budget.depth++
	if d.budget.depth > d.opts.Limits.MaxDepth {
		return errs.AtOffsetf(errs.DepthExceeded, d.cur.offset(), "recursion depth exceeds limit of %d", d.opts.Limits.MaxDepth)
	}
	return nil
}

func (d *Decoder) leaveDepth() { d.budget.depth-- }

func (d *Decoder) decodeValue() (value.Value, error) {
	marker, err := d.cur.readByte()
	if err != nil {
		return value.Value{}, err
	}

	switch {
	case marker <= markerPosFixintMax:
		return value.Uint(uint64(marker)), nil
	case marker >= markerNegFixintMin:
		return value.Int(int64(int8(marker))), nil
	case marker >= markerFixmapMin && marker <= markerFixmapMax:
		return d.decodeMap(int(marker & 0x0F))
	case marker >= markerFixarrayMin && marker <= markerFixarrayMax:
		return d.decodeArray(int(marker & 0x0F))
	case marker >= markerFixstrMin && marker <= markerFixstrMax:
		return d.decodeString(int(marker & 0x1F))
	}

	switch marker {
	case markerNil:
		return value.Nil(), nil
	case markerInvalid:
		return value.Value{}, errs.AtOffset(errs.InvalidMarker, d.cur.offset()-1, "marker 0xC1 is reserved")
	case markerFalse:
		return value.Bool(false), nil
	case markerTrue:
		return value.Bool(true), nil
	case markerBin8, markerBin16, markerBin32:
		return d.decodeBinary(marker)
	case markerExt8, markerExt16, markerExt32:
		return d.decodeExtension(marker)
	case markerFloat32:
		bits, err := d.cur.readFloat32Bits()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(float64(math.Float32frombits(bits))), nil
	case markerFloat64:
		bits, err := d.cur.readFloat64Bits()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(math.Float64frombits(bits)), nil
	case markerUint8:
		u, err := d.cur.readUint8()
		return value.Uint(uint64(u)), err
	case markerUint16:
		u, err := d.cur.readUint16()
		return value.Uint(uint64(u)), err
	case markerUint32:
		u, err := d.cur.readUint32()
		return value.Uint(uint64(u)), err
	case markerUint64:
		u, err := d.cur.readUint64()
		return value.Uint(u), err
	case markerInt8:
		i, err := d.cur.readInt8()
		return value.Int(int64(i)), err
	case markerInt16:
		i, err := d.cur.readInt16()
		return value.Int(int64(i)), err
	case markerInt32:
		i, err := d.cur.readInt32()
		return value.Int(int64(i)), err
	case markerInt64:
		i, err := d.cur.readInt64()
		return value.Int(i), err
	case markerFixext1, markerFixext2, markerFixext4, markerFixext8, markerFixext16:
		return d.decodeFixext(marker)
	case markerStr8, markerStr16, markerStr32:
		return d.decodeStrN(marker)
	case markerArray16, markerArray32:
		return d.decodeArrayN(marker)
	case markerMap16, markerMap32:
		return d.decodeMapN(marker)
	default:
		return value.Value{}, errs.AtOffsetf(errs.InvalidMarker, d.cur.offset()-1, "undefined marker 0x%02X", marker)
	}
}

func (d *Decoder) readLengthPrefix(marker byte) (int, error) {
	switch marker {
	case markerBin8, markerStr8:
		u, err := d.cur.readUint8()
		return int(u), err
	case markerBin16, markerStr16, markerArray16, markerMap16:
		u, err := d.cur.readUint16()
		return int(u), err
	case markerBin32, markerStr32, markerArray32, markerMap32:
		u, err := d.cur.readUint32()
		return int(u), err
	default:
		panic("unreachable marker in readLengthPrefix")
	}
}

func (d *Decoder) decodeString(n int) (value.Value, error) {
	if n > d.opts.Limits.MaxStringLen {
		return value.Value{}, errs.AtOffsetf(errs.SizeExceeded, d.cur.offset(), "string length %d exceeds limit of %d", n, d.opts.Limits.MaxStringLen)
	}
	body, err := d.cur.readN(n)
	if err != nil {
		return value.Value{}, err
	}
	if d.opts.Strict {
		if err := validateUTF8(body); err != nil {
			return value.Value{}, err
		}
	}
	if err := d.chargeSize(n); err != nil {
		return value.Value{}, err
	}
	// string(body) always copies in Go; genuine zero-copy would need an
	// unsafe string-header cast over the input buffer. BTOON's borrowing
	// mode skips that for strings specifically — the safety value of an
	// immutable Go string is worth the copy, and strings are rarely the
	// size driver for a payload's allocation cost (Binary bodies are, and
	// decodeBinary consults Borrow below).
	return value.String(string(body)), nil
}

func (d *Decoder) decodeStrN(marker byte) (value.Value, error) {
	n, err := d.readLengthPrefix(marker)
	if err != nil {
		return value.Value{}, err
	}
	return d.decodeString(n)
}

func (d *Decoder) decodeBinary(marker byte) (value.Value, error) {
	n, err := d.readLengthPrefix(marker)
	if err != nil {
		return value.Value{}, err
	}
	if n > d.opts.Limits.MaxBinaryLen {
		return value.Value{}, errs.AtOffsetf(errs.SizeExceeded, d.cur.offset(), "binary length %d exceeds limit of %d", n, d.opts.Limits.MaxBinaryLen)
	}
	body, err := d.cur.readN(n)
	if err != nil {
		return value.Value{}, err
	}
	if err := d.chargeSize(n); err != nil {
		return value.Value{}, err
	}
	if d.opts.Borrow {
		return value.Binary(body), nil
	}
	owned := make([]byte, n)
	copy(owned, body)
	return value.Binary(owned), nil
}

func (d *Decoder) decodeArray(n int) (value.Value, error) {
	return d.decodeArrayBody(n)
}

func (d *Decoder) decodeArrayN(marker byte) (value.Value, error) {
	n, err := d.readLengthPrefix(marker)
	if err != nil {
		return value.Value{}, err
	}
	return d.decodeArrayBody(n)
}

func (d *Decoder) decodeArrayBody(n int) (value.Value, error) {
	if n > d.opts.Limits.MaxArrayCount {
		return value.Value{}, errs.AtOffsetf(errs.SizeExceeded, d.cur.offset(), "array element count %d exceeds limit of %d", n, d.opts.Limits.MaxArrayCount)
	}
	if err := d.enterDepth(); err != nil {
		return value.Value{}, err
	}
	defer d.leaveDepth()

	elems := make([]value.Value, 0, minInt(n, 4096))
	for i := 0; i < n; i++ {
		v, err := d.decodeValue()
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}
	if err := d.chargeSize(n * 16); err != nil {
		return value.Value{}, err
	}
	return value.Array(elems), nil
}

func (d *Decoder) decodeMap(n int) (value.Value, error) {
	return d.decodeMapBody(n)
}

func (d *Decoder) decodeMapN(marker byte) (value.Value, error) {
	n, err := d.readLengthPrefix(marker)
	if err != nil {
		return value.Value{}, err
	}
	return d.decodeMapBody(n)
}

func (d *Decoder) decodeMapBody(n int) (value.Value, error) {
	if n > d.opts.Limits.MaxMapCount {
		return value.Value{}, errs.AtOffsetf(errs.SizeExceeded, d.cur.offset(), "map entry count %d exceeds limit of %d", n, d.opts.Limits.MaxMapCount)
	}
	if err := d.enterDepth(); err != nil {
		return value.Value{}, err
	}
	defer d.leaveDepth()

	entries := make([]value.MapEntry, 0, minInt(n, 4096))
	seen := make(map[string]struct{}, minInt(n, 4096))
	for i := 0; i < n; i++ {
		keyMarker, err := d.cur.peekByte()
		if err != nil {
			return value.Value{}, err
		}
		isStr := (keyMarker >= markerFixstrMin && keyMarker <= markerFixstrMax) ||
			keyMarker == markerStr8 || keyMarker == markerStr16 || keyMarker == markerStr32
		if !isStr {
			return value.Value{}, errs.AtOffsetf(errs.InvalidMarker, d.cur.offset(), "map key must be a string, got marker 0x%02X", keyMarker)
		}
		keyVal, err := d.decodeValue()
		if err != nil {
			return value.Value{}, err
		}
		key := keyVal.String_()
		if d.opts.Strict {
			if _, dup := seen[key]; dup {
				return value.Value{}, errs.AtOffsetf(errs.DuplicateKey, d.cur.offset(), "duplicate map key %q", key)
			}
			seen[key] = struct{}{}
		}
		val, err := d.decodeValue()
		if err != nil {
			return value.Value{}, err
		}
		entries = append(entries, value.MapEntry{Key: key, Value: val})
	}
	if err := d.chargeSize(n * 32); err != nil {
		return value.Value{}, err
	}
	return value.Map(entries), nil
}

func (d *Decoder) decodeFixext(marker byte) (value.Value, error) {
	var n int
	switch marker {
	case markerFixext1:
		n = 1
	case markerFixext2:
		n = 2
	case markerFixext4:
		n = 4
	case markerFixext8:
		n = 8
	case markerFixext16:
		n = 16
	}
	return d.decodeExtensionBody(n)
}

func (d *Decoder) decodeExtension(marker byte) (value.Value, error) {
	n, err := d.readLengthPrefix(marker)
	if err != nil {
		return value.Value{}, err
	}
	return d.decodeExtensionBody(n)
}

func (d *Decoder) decodeExtensionBody(n int) (value.Value, error) {
	tagByte, err := d.cur.readInt8()
	if err != nil {
		return value.Value{}, err
	}
	tag := tagByte
	body, err := d.cur.readN(n)
	if err != nil {
		return value.Value{}, err
	}
	if err := d.chargeSize(n); err != nil {
		return value.Value{}, err
	}

	if tag == ExtTabular {
		if tabularDecodeFn == nil {
			return value.Value{}, errs.New(errs.InvalidMarker, "tabular extension encountered but no tabular decoder registered")
		}
		if err := d.enterDepth(); err != nil {
			return value.Value{}, err
		}
		defer d.leaveDepth()
		elems, err := tabularDecodeFn(body, d)
		if err != nil {
			return value.Value{}, err
		}
		return value.Array(elems), nil
	}

	if ext.IsReserved(tag) {
		v, err := ext.Decode(tag, body)
		if err != nil {
			return value.Value{}, err
		}
		return v, nil
	}

	// Unknown reserved or user-range tag: opaque passthrough.
	owned := body
	if !d.opts.Borrow {
		owned = make([]byte, len(body))
		copy(owned, body)
	}
	return value.Extension(tag, owned), nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
