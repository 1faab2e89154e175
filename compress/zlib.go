package compress

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/btoon-format/btoon/errs"
)

// ZlibCodec is BTOON's mandatory compression algorithm. No third-party zlib
// implementation appears anywhere in the retrieved corpus — the ecosystem's
// standard answer for zlib-compatible DEFLATE in Go is the standard
// library itself, so stdlib use here needs no further justification beyond
// that absence (see DESIGN.md).
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a new zlib codec.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errs.Newf(errs.InvalidFrame, "zlib compression failed: %v", err)
	}
	if err := w.Close(); err != nil {
		return nil, errs.Newf(errs.InvalidFrame, "zlib compression failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Decompress reads data as a zlib stream, pre-sizing the destination
// buffer from uncompressedSize when known.
func (c ZlibCodec) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Newf(errs.InvalidFrame, "zlib decompression failed: %v", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if uncompressedSize >= 0 {
		out.Grow(uncompressedSize)
	}
	if _, err := io.Copy(&out, r); err != nil {
		return nil, errs.Newf(errs.InvalidFrame, "zlib decompression failed: %v", err)
	}
	return out.Bytes(), nil
}
