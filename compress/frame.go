package compress

import (
	"github.com/btoon-format/btoon/endian"
	"github.com/btoon-format/btoon/errs"
)

// Magic is the frame header's fixed 4-byte marker, big-endian 0x42544F4E
// ("BTON").
const Magic uint32 = 0x42544F4E

// FrameVersion is the only header version BTOON currently writes or
// accepts.
const FrameVersion uint8 = 1

// HeaderSize is the fixed size of the frame header in bytes.
const HeaderSize = 16

// DefaultMaxRatio is the default cap on uncompressed/compressed, enforced
// on decode to defend against decompression bombs.
const DefaultMaxRatio = 1000

// EncodeFrame compresses payload with algorithm at the given level and
// prepends the 16-byte frame header. level is algorithm-specific and
// currently advisory — none of the wired codecs expose a tunable level
// through the Compressor interface, so it is accepted for forward
// compatibility and ignored.
func EncodeFrame(algorithm Algorithm, level int, payload []byte) ([]byte, error) {
	_ = level
	codec, err := CreateCodec(algorithm, "frame")
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, err
	}
	if uint64(len(compressed)) > 0xFFFFFFFF || uint64(len(payload)) > 0xFFFFFFFF {
		return nil, errs.Newf(errs.SizeExceeded, "frame payload size exceeds uint32 length prefix")
	}

	engine := endian.GetBigEndianEngine()
	frame := make([]byte, 0, HeaderSize+len(compressed))
	frame = engine.AppendUint32(frame, Magic)
	frame = append(frame, FrameVersion, byte(algorithm))
	frame = engine.AppendUint16(frame, 0)
	frame = engine.AppendUint32(frame, uint32(len(compressed)))
	frame = engine.AppendUint32(frame, uint32(len(payload)))
	frame = append(frame, compressed...)
	return frame, nil
}

// DecodeFrame validates and decompresses a frame built by EncodeFrame.
// maxRatio bounds uncompressed/compressed (pass DefaultMaxRatio for the
// spec default, or <= 0 to disable the check).
func DecodeFrame(frame []byte, maxRatio int) ([]byte, error) {
	if len(frame) < HeaderSize {
		return nil, errs.New(errs.InvalidFrame, "frame shorter than the 16-byte header")
	}

	engine := endian.GetBigEndianEngine()
	magic := engine.Uint32(frame[0:4])
	if magic != Magic {
		return nil, errs.Newf(errs.InvalidFrame, "frame magic 0x%08X does not match expected 0x%08X", magic, Magic)
	}
	version := frame[4]
	if version != FrameVersion {
		return nil, errs.Newf(errs.InvalidFrame, "frame version %d is not supported", version)
	}
	algorithm := Algorithm(frame[5])
	// bytes 6:8 are reserved.
	compressedSize := engine.Uint32(frame[8:12])
	uncompressedSize := engine.Uint32(frame[12:16])

	body := frame[HeaderSize:]
	if uint64(len(body)) != uint64(compressedSize) {
		return nil, errs.Newf(errs.InvalidFrame, "frame declares %d compressed bytes, has %d", compressedSize, len(body))
	}

	if maxRatio > 0 && compressedSize > 0 {
		ratio := float64(uncompressedSize) / float64(compressedSize)
		if ratio > float64(maxRatio) {
			return nil, errs.Newf(errs.SizeExceeded, "frame compression ratio %.1f exceeds configured cap %d", ratio, maxRatio)
		}
	}

	codec, err := CreateCodec(algorithm, "frame")
	if err != nil {
		return nil, err
	}
	out, err := codec.Decompress(body, int(uncompressedSize))
	if err != nil {
		return nil, err
	}
	if uint32(len(out)) != uncompressedSize {
		return nil, errs.Newf(errs.SizeMismatch, "decompressed %d bytes, frame header declared %d", len(out), uncompressedSize)
	}
	return out, nil
}
