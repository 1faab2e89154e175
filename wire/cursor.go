package wire

import (
	"unicode/utf8"

	"github.com/btoon-format/btoon/errs"
)

// cursor is a bounds-checked sliding reader over an immutable byte slice.
//
// Every read must fail with a typed error instead of panicking or reading
// past the end, and every length prefix must be checked against both the
// remaining buffer size and the caller's configured limit before any
// allocation is attempted. Every read routes through a single try-read
// primitive; tryN below is that primitive.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) offset() int64 { return int64(c.pos) }

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// tryN checks that n more bytes are available without advancing the
// cursor. Every other read on this type is expressed in terms of tryN so
// the single bounds check is never bypassed.
func (c *cursor) tryN(n int) error {
	if n < 0 || n > c.remaining() {
		return errs.AtOffsetf(errs.TruncatedInput, c.offset(), "need %d bytes, have %d", n, c.remaining())
	}
	return nil
}

// readByte reads and consumes a single byte.
func (c *cursor) readByte() (byte, error) {
	if err := c.tryN(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// peekByte reads the next byte without consuming it.
func (c *cursor) peekByte() (byte, error) {
	if err := c.tryN(1); err != nil {
		return 0, err
	}
	return c.buf[c.pos], nil
}

// readN reads and consumes the next n bytes, returning a sub-slice of the
// input buffer (not a copy — callers that need an owned slice must copy
// explicitly; this is what lets the borrowing decoder mode avoid copies).
func (c *cursor) readN(n int) ([]byte, error) {
	if err := c.tryN(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readUint8() (uint8, error) {
	b, err := c.readByte()
	return b, err
}

func (c *cursor) readUint16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (c *cursor) readUint32() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (c *cursor) readUint64() (uint64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(b[i])
	}
	return u, nil
}

func (c *cursor) readInt8() (int8, error) {
	b, err := c.readByte()
	return int8(b), err
}

func (c *cursor) readInt16() (int16, error) {
	u, err := c.readUint16()
	return int16(u), err
}

func (c *cursor) readInt32() (int32, error) {
	u, err := c.readUint32()
	return int32(u), err
}

func (c *cursor) readInt64() (int64, error) {
	u, err := c.readUint64()
	return int64(u), err
}

func (c *cursor) readFloat32Bits() (uint32, error) { return c.readUint32() }
func (c *cursor) readFloat64Bits() (uint64, error) { return c.readUint64() }

// validateUTF8 rejects overlong encodings, surrogate code points
// (U+D800..U+DFFF), and any sequence that would decode past U+10FFFF.
// utf8.Valid already enforces all three: Go's UTF-8 decoder never accepts
// overlong forms, surrogate halves, or code points beyond U+10FFFF — it
// reports them as the RuneError/size-1 combination that utf8.Valid checks
// for internally. Calling the standard decoder is therefore both correct
// and the idiomatic choice; no third-party UTF-8 validator appears
// anywhere in the retrieved corpus.
func validateUTF8(b []byte) error {
	if !utf8.Valid(b) {
		return errs.New(errs.InvalidUTF8, "invalid UTF-8 string body")
	}
	return nil
}
