package btoon

import (
	"github.com/btoon-format/btoon/compress"
	"github.com/btoon-format/btoon/internal/options"
	"github.com/btoon-format/btoon/wire"
)

// EncodeConfig holds the resolved settings an EncodeOption mutates.
type EncodeConfig struct {
	// Wire controls the base encoder: auto-tabular delegation and
	// canonical map key ordering.
	Wire wire.EncodeOptions

	Compress             bool
	CompressionAlgorithm compress.Algorithm
	CompressionLevel     int
	MinCompressionSize   int
	AdaptiveCompression  bool
}

// EncodeOption configures Encode using the generic functional-option
// pattern (internal/options.Option[T]).
type EncodeOption = options.Option[*EncodeConfig]

// DefaultEncodeConfig returns the default encode behavior: compression off,
// zlib as the algorithm if enabled, a 256-byte minimum before compressing,
// auto-tabular delegation on, no adaptive sampling.
func DefaultEncodeConfig() *EncodeConfig {
	return &EncodeConfig{
		Wire:                 wire.DefaultEncodeOptions(),
		Compress:             false,
		CompressionAlgorithm: compress.AlgorithmZlib,
		CompressionLevel:     0,
		MinCompressionSize:   256,
		AdaptiveCompression:  false,
	}
}

// WithCompress enables or disables compression-frame wrapping of the
// encoded payload.
func WithCompress(enabled bool) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.Compress = enabled })
}

// WithCompressionAlgorithm selects the compression algorithm used when
// Compress is enabled.
func WithCompressionAlgorithm(algo compress.Algorithm) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.CompressionAlgorithm = algo })
}

// WithCompressionLevel sets an algorithm-specific compression level. 0
// means "library default."
func WithCompressionLevel(level int) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.CompressionLevel = level })
}

// WithMinCompressionSize sets the byte threshold below which Encode skips
// compression even when Compress is enabled.
func WithMinCompressionSize(n int) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.MinCompressionSize = n })
}

// WithAdaptiveCompression enables sampling the payload against every wired
// algorithm and picking the best compression ratio, instead of using a
// fixed CompressionAlgorithm.
func WithAdaptiveCompression(enabled bool) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.AdaptiveCompression = enabled })
}

// WithAutoTabular controls whether eligible arrays are delegated to the
// tabular extension. Defaults to true.
func WithAutoTabular(enabled bool) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.Wire.AutoTabular = enabled })
}

// WithCanonicalMapOrder sorts Map keys lexicographically before encoding,
// for deterministic output.
func WithCanonicalMapOrder(enabled bool) EncodeOption {
	return options.NoError(func(c *EncodeConfig) { c.Wire.CanonicalMapOrder = enabled })
}

// DecodeConfig holds the resolved settings a DecodeOption mutates.
type DecodeConfig struct {
	Wire           wire.DecodeOptions
	AutoDecompress bool
	MaxRatio       int
}

// DecodeOption configures Decode.
type DecodeOption = options.Option[*DecodeConfig]

// DefaultDecodeConfig returns the default decode behavior: strict mode on,
// transparent decompression on, default resource limits.
func DefaultDecodeConfig() *DecodeConfig {
	return &DecodeConfig{
		Wire:           wire.DefaultDecodeOptions(),
		AutoDecompress: true,
		MaxRatio:       compress.DefaultMaxRatio,
	}
}

// WithAutoDecompress controls whether Decode detects the BTON compression
// frame magic and transparently unwraps it before decoding. Defaults to
// true.
func WithAutoDecompress(enabled bool) DecodeOption {
	return options.NoError(func(c *DecodeConfig) { c.AutoDecompress = enabled })
}

// WithStrict controls rejection of duplicate map keys and invalid UTF-8.
// Defaults to true.
func WithStrict(enabled bool) DecodeOption {
	return options.NoError(func(c *DecodeConfig) { c.Wire.Strict = enabled })
}

// WithBorrow controls whether decoded Binary values (and opaque extension
// bodies) borrow sub-slices of the input buffer instead of copying. String,
// BigInt, and vector values always copy regardless of this setting.
func WithBorrow(enabled bool) DecodeOption {
	return options.NoError(func(c *DecodeConfig) { c.Wire.Borrow = enabled })
}

// WithLimits overrides the resource limits enforced during decode.
func WithLimits(limits wire.Limits) DecodeOption {
	return options.NoError(func(c *DecodeConfig) { c.Wire.Limits = limits })
}

// WithMaxCompressionRatio overrides the decompression-bomb ratio cap
// applied when AutoDecompress unwraps a compression frame. Pass <= 0 to
// disable the check.
func WithMaxCompressionRatio(ratio int) DecodeOption {
	return options.NoError(func(c *DecodeConfig) { c.MaxRatio = ratio })
}
