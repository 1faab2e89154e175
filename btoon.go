// Package btoon implements BTOON, a MessagePack-compatible binary
// serialization format with a columnar tabular extension, a pluggable
// compression frame, and a schema/validation layer.
//
// Encode and Decode are the package's two entry points; everything else —
// the wire codec, the tabular extension, compression algorithms, and
// schema validation — is also usable directly through the wire, tabular,
// compress, and schema packages for callers that need finer control than
// the top-level wrappers provide.
//
// # Basic usage
//
//	v := value.Map([]value.MapEntry{
//	    {Key: "id", Value: value.Int(42)},
//	    {Key: "name", Value: value.String("widget")},
//	})
//
//	data, err := btoon.Encode(v)
//	// ...
//	decoded, err := btoon.Decode(data)
//
// Compression is opt-in:
//
//	data, err := btoon.Encode(v, btoon.WithCompress(true), btoon.WithCompressionAlgorithm(compress.AlgorithmZstd))
//	decoded, err := btoon.Decode(data) // auto-detects and unwraps the frame
package btoon

import (
	"github.com/btoon-format/btoon/compress"
	"github.com/btoon-format/btoon/internal/options"
	"github.com/btoon-format/btoon/tabular"
	"github.com/btoon-format/btoon/value"
	"github.com/btoon-format/btoon/wire"
)

// Version reports BTOON's implementation version.
func Version() string { return "1.0.0" }

// IsTabular reports whether arr would be encoded using the columnar
// tabular extension rather than a generic array. It is a
// thin re-export of tabular.IsTabular for callers that want to predict
// the encoder's decision ahead of time.
func IsTabular(arr []value.Value) bool {
	return tabular.IsTabular(arr)
}

// Encode serializes v into BTOON's binary wire format, optionally wrapping
// the result in a compression frame.
func Encode(v value.Value, opts ...EncodeOption) ([]byte, error) {
	cfg := DefaultEncodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	enc := wire.NewEncoder(cfg.Wire)
	defer enc.Release()
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	payload := append([]byte(nil), enc.Bytes()...)

	if !cfg.Compress || len(payload) < cfg.MinCompressionSize {
		return payload, nil
	}

	algorithm := cfg.CompressionAlgorithm
	if cfg.AdaptiveCompression {
		algorithm = pickBestAlgorithm(payload)
	}

	frame, err := compress.EncodeFrame(algorithm, cfg.CompressionLevel, payload)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Decode parses data, transparently unwrapping a compression frame first
// when AutoDecompress is enabled (the default) and data begins with the
// BTON magic.
func Decode(data []byte, opts ...DecodeOption) (value.Value, error) {
	cfg := DefaultDecodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return value.Value{}, err
	}

	payload := data
	if cfg.AutoDecompress && len(data) >= compress.HeaderSize && looksLikeFrame(data) {
		unwrapped, err := compress.DecodeFrame(data, cfg.MaxRatio)
		if err != nil {
			return value.Value{}, err
		}
		payload = unwrapped
	}

	dec := wire.NewDecoder(payload, cfg.Wire)
	return dec.Decode()
}

func looksLikeFrame(data []byte) bool {
	return data[0] == 'B' && data[1] == 'T' && data[2] == 'O' && data[3] == 'N'
}

// pickBestAlgorithm samples payload against every algorithm compress wires
// in and returns whichever yields the smallest compressed size, for the
// AdaptiveCompression option.
func pickBestAlgorithm(payload []byte) compress.Algorithm {
	candidates := []compress.Algorithm{
		compress.AlgorithmZlib,
		compress.AlgorithmLZ4,
		compress.AlgorithmS2,
		compress.AlgorithmZstd,
	}

	best := compress.AlgorithmZlib
	bestSize := -1
	for _, algo := range candidates {
		codec, err := compress.GetCodec(algo)
		if err != nil {
			continue
		}
		compressed, err := codec.Compress(payload)
		if err != nil {
			continue
		}
		if bestSize < 0 || len(compressed) < bestSize {
			bestSize = len(compressed)
			best = algo
		}
	}
	return best
}
