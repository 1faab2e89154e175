package wire

const (
	// DefaultMaxDepth is the default maximum recursion depth.
	DefaultMaxDepth = 128
	// DefaultMaxStringLen is the default maximum string length in bytes.
	DefaultMaxStringLen = 10 * 1024 * 1024
	// DefaultMaxBinaryLen is the default maximum binary length in bytes.
	DefaultMaxBinaryLen = 100 * 1024 * 1024
	// DefaultMaxArrayCount is the default maximum array element count.
	DefaultMaxArrayCount = 1_000_000
	// DefaultMaxMapCount is the default maximum map entry count.
	DefaultMaxMapCount = 100_000
	// DefaultMaxTotalSize is the default maximum total decoded-value size in bytes.
	DefaultMaxTotalSize = 1024 * 1024 * 1024
)

// Limits bounds the resources a single decode operation may consume,
// Each is independently configurable.
type Limits struct {
	MaxDepth       int
	MaxStringLen   int
	MaxBinaryLen   int
	MaxArrayCount  int
	MaxMapCount    int
	MaxTotalSize   int64
}

// DefaultLimits returns the default decode limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:      DefaultMaxDepth,
		MaxStringLen:  DefaultMaxStringLen,
		MaxBinaryLen:  DefaultMaxBinaryLen,
		MaxArrayCount: DefaultMaxArrayCount,
		MaxMapCount:   DefaultMaxMapCount,
		MaxTotalSize:  DefaultMaxTotalSize,
	}
}

// DecodeOptions controls the base decoder's behavior.
type DecodeOptions struct {
	// Strict rejects duplicate map keys and invalid UTF-8. Defaults to true;
	// set false to allow best-effort recovery on untrusted-but-tolerated input.
	Strict bool
	// Borrow, when true, returns Binary values (and opaque/unrecognized
	// extension bodies) backed by sub-slices of the input buffer instead of
	// owned copies, tying the returned Value's lifetime to the input
	// buffer. String, BigInt, VectorFloat, and VectorDouble always copy:
	// strings need an immutable Go string header, and the reserved
	// extension types are reinterpreted (byte-swapped into typed slices)
	// rather than passed through verbatim, leaving no unmodified span to
	// borrow.
	Borrow bool
	Limits Limits
}

// DefaultDecodeOptions returns the default decode behavior: strict mode on,
// owning (non-borrowing) decode, default limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Strict: true,
		Borrow: false,
		Limits: DefaultLimits(),
	}
}

// EncodeOptions controls the base encoder's behavior.
type EncodeOptions struct {
	// AutoTabular enables automatic delegation to the tabular extension
	// for eligible arrays. Defaults to true.
	AutoTabular bool
	// CanonicalMapOrder sorts Map keys lexicographically by UTF-8 byte
	// value before encoding, for deterministic output.
	CanonicalMapOrder bool
}

// DefaultEncodeOptions returns the default encode behavior: auto-tabular on,
// canonical ordering off (map order is preserved as given).
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		AutoTabular:       true,
		CanonicalMapOrder: false,
	}
}
