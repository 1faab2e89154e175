package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/btoon-format/btoon/errs"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation
// overhead: the klauspost/compress/zstd decoder is designed to operate
// allocation-free after a warmup, so it is worth keeping around rather
// than recreating.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic("compress: failed to create zstd decoder for pool: " + err.Error())
		}
		return decoder
	},
}

// zstdEncoderPool pools zstd encoders for reuse.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic("compress: failed to create zstd encoder for pool: " + err.Error())
		}
		return encoder
	},
}

func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstd-compressed data, pre-allocating the
// destination from uncompressedSize when known.
func (c ZstdCodec) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	var dst []byte
	if uncompressedSize >= 0 {
		dst = make([]byte, 0, uncompressedSize)
	}
	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, errs.Newf(errs.InvalidFrame, "zstd decompression failed: %v", err)
	}
	return decompressed, nil
}
