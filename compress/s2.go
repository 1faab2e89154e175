package compress

import "github.com/klauspost/compress/s2"

// S2Codec wires in klauspost/compress/s2 as the frame format's "fast,
// balanced" optional algorithm — a second pluggable member alongside
// LZ4/Zstd.
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates a new S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

func (c S2Codec) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var dst []byte
	if uncompressedSize >= 0 {
		dst = make([]byte, uncompressedSize)
	}
	return s2.Decode(dst, data)
}
