package compress

// ZstdCodec wires in klauspost/compress/zstd as an optional frame
// algorithm, the best-ratio member of the optional set.
//
// Implemented in zstd_pool.go via the pure-Go klauspost/compress/zstd
// codec; no cgo-backed zstd binding is used.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a new Zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
