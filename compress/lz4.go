package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/btoon-format/btoon/errs"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse — the
// compressor holds internal state worth amortizing across calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec wires in pierrec/lz4/v4 as an optional frame algorithm,
// fastest to decompress of the optional set.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// Decompress decompresses LZ4-compressed data. The frame's
// uncompressed_size header field is authoritative, so the exact-size
// output buffer is pre-allocated from it rather than grown adaptively.
func (c LZ4Codec) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if uncompressedSize < 0 {
		return nil, errs.New(errs.InvalidFrame, "lz4 decompression requires a known uncompressed size")
	}
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n != uncompressedSize {
		return nil, errs.Newf(errs.SizeMismatch, "lz4 decompressed %d bytes, frame header declared %d", n, uncompressedSize)
	}
	return dst, nil
}
