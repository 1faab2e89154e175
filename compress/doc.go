// Package compress implements BTOON's compression frame: a 16-byte header
// (magic, version, algorithm, reserved, compressed size, uncompressed
// size) wrapping a compressed payload.
//
// # Algorithms
//
//   - None: stores the payload uncompressed inside the frame. A payload
//     below the caller's min_compression_size threshold is not framed at
//     all, so None is used only when a caller selects it explicitly.
//   - Zlib: mandatory algorithm, stdlib compress/zlib. Always available.
//   - LZ4: optional, fastest decompression, moderate ratio.
//   - S2: optional, balanced speed and ratio.
//   - Zstd: optional, best ratio, moderate speed.
//
// # Algorithm Selection Guide
//
// | Workload             | Recommended | Reason                         |
// |-----------------------|-------------|---------------------------------|
// | Storage-constrained   | Zstd        | Best compression ratio          |
// | Real-time ingestion   | S2          | Balanced speed and compression  |
// | Query-heavy           | LZ4         | Fastest decompression           |
// | CPU-constrained       | None        | No compression overhead         |
//
// The table is guidance only. The root package's AdaptiveCompression
// option does not consult it: it compresses the payload with Zlib, LZ4, S2
// and Zstd and keeps whichever output is smallest.
//
// # Decompression bombs
//
// DecodeFrame rejects a frame whose uncompressed/compressed ratio exceeds
// a configurable cap (DefaultMaxRatio = 1000), since a frame header's
// uncompressed_size field is attacker-controlled input and must not be
// trusted to pre-allocate without a plausibility check.
package compress
