// Package compress implements BTOON's compression frame: a
// fixed 16-byte header plus a compressed payload, with zlib mandatory and
// LZ4/S2/Zstd wired in as optional algorithms.
//
// The Compressor/Decompressor/Codec interface split puts every algorithm
// behind one interface. CreateCodec builds a Codec for an Algorithm with a
// switch over the codecs defined in this package, and GetCodec returns a
// shared instance of each.
package compress

import (
	"github.com/btoon-format/btoon/errs"
)

// Algorithm identifies a compression algorithm by its one-byte frame-header
// value. Zlib/LZ4/Zstd occupy the frame header's reserved algorithm-byte
// values 0/1/2; None and S2 have no reserved value and are numbered
// outside that range.
type Algorithm byte

const (
	AlgorithmZlib Algorithm = iota
	AlgorithmLZ4
	AlgorithmZstd
	AlgorithmNone
	AlgorithmS2
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmZlib:
		return "zlib"
	case AlgorithmLZ4:
		return "lz4"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmS2:
		return "s2"
	default:
		return "unknown"
	}
}

// Compressor compresses a byte slice.
//
// Memory management: the returned slice is newly allocated and owned by the
// caller; the input slice is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice previously produced by the
// matching Compressor. uncompressedSize, when >= 0, is the frame header's
// authoritative original size — implementations
// that can pre-allocate an exact-size output buffer from it should do so
// instead of growing a guessed buffer. Pass -1 when the size is unknown.
type Decompressor interface {
	Decompress(data []byte, uncompressedSize int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the given
// algorithm. target describes the caller's intent, used only in the error
// message for an unrecognized algorithm.
func CreateCodec(algorithm Algorithm, target string) (Codec, error) {
	switch algorithm {
	case AlgorithmNone:
		return NewNoOpCodec(), nil
	case AlgorithmZlib:
		return NewZlibCodec(), nil
	case AlgorithmLZ4:
		return NewLZ4Codec(), nil
	case AlgorithmZstd:
		return NewZstdCodec(), nil
	case AlgorithmS2:
		return NewS2Codec(), nil
	default:
		return nil, errs.Newf(errs.UnsupportedAlgorithm, "invalid %s compression algorithm: %s", target, algorithm)
	}
}

var builtinCodecs = map[Algorithm]Codec{
	AlgorithmNone: NewNoOpCodec(),
	AlgorithmZlib: NewZlibCodec(),
	AlgorithmLZ4:  NewLZ4Codec(),
	AlgorithmZstd: NewZstdCodec(),
	AlgorithmS2:   NewS2Codec(),
}

// GetCodec retrieves a shared built-in Codec for algorithm.
func GetCodec(algorithm Algorithm) (Codec, error) {
	if codec, ok := builtinCodecs[algorithm]; ok {
		return codec, nil
	}
	return nil, errs.Newf(errs.UnsupportedAlgorithm, "unsupported compression algorithm: %s", algorithm)
}
