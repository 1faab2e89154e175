package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFrame_AllAlgorithms(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 64)

	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmZlib, AlgorithmLZ4, AlgorithmZstd, AlgorithmS2} {
		t.Run(algo.String(), func(t *testing.T) {
			frame, err := EncodeFrame(algo, 0, payload)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(frame), HeaderSize)

			out, err := DecodeFrame(frame, DefaultMaxRatio)
			require.NoError(t, err)
			require.Equal(t, payload, out)
		})
	}
}

func TestEncodeFrame_HeaderFields(t *testing.T) {
	payload := []byte("hello world")
	frame, err := EncodeFrame(AlgorithmZlib, 0, payload)
	require.NoError(t, err)

	require.Equal(t, byte(0x42), frame[0])
	require.Equal(t, byte(0x54), frame[1])
	require.Equal(t, byte(0x4F), frame[2])
	require.Equal(t, byte(0x4E), frame[3])
	require.Equal(t, FrameVersion, frame[4])
	// The frame header's algorithm byte is a fixed wire value, not just
	// whatever the Algorithm constant happens to equal: 0 = zlib, 1 = LZ4,
	// 2 = Zstd.
	require.Equal(t, byte(0x00), frame[5])
	require.Equal(t, byte(0), frame[6])
	require.Equal(t, byte(0), frame[7])
}

func TestEncodeFrame_AlgorithmByteMatchesWireValues(t *testing.T) {
	payload := []byte("hello world")

	cases := []struct {
		algo Algorithm
		want byte
	}{
		{AlgorithmZlib, 0x00},
		{AlgorithmLZ4, 0x01},
		{AlgorithmZstd, 0x02},
	}
	for _, c := range cases {
		frame, err := EncodeFrame(c.algo, 0, payload)
		require.NoError(t, err)
		require.Equal(t, c.want, frame[5], "algorithm %s", c.algo)
	}
}

func TestDecodeFrame_RejectsBadMagic(t *testing.T) {
	frame := make([]byte, HeaderSize)
	_, err := DecodeFrame(frame, DefaultMaxRatio)
	require.Error(t, err)
}

func TestDecodeFrame_RejectsTruncatedHeader(t *testing.T) {
	_, err := DecodeFrame(make([]byte, 4), DefaultMaxRatio)
	require.Error(t, err)
}

func TestDecodeFrame_RejectsUnsupportedAlgorithm(t *testing.T) {
	payload := []byte("hello world")
	frame, err := EncodeFrame(AlgorithmZlib, 0, payload)
	require.NoError(t, err)

	frame[5] = 0xFF // unknown algorithm id
	_, err = DecodeFrame(frame, DefaultMaxRatio)
	require.Error(t, err)
}

func TestDecodeFrame_RejectsCompressionBomb(t *testing.T) {
	payload := []byte("hello world")
	frame, err := EncodeFrame(AlgorithmZlib, 0, payload)
	require.NoError(t, err)

	// Lie about the uncompressed size to exceed the ratio cap.
	engineSet(frame, 12, uint32(len(payload)*10000))
	_, err = DecodeFrame(frame, DefaultMaxRatio)
	require.Error(t, err)
}

func engineSet(frame []byte, offset int, v uint32) {
	frame[offset] = byte(v >> 24)
	frame[offset+1] = byte(v >> 16)
	frame[offset+2] = byte(v >> 8)
	frame[offset+3] = byte(v)
}

func TestDecodeFrame_RejectsSizeMismatch(t *testing.T) {
	payload := []byte("hello world")
	frame, err := EncodeFrame(AlgorithmNone, 0, payload)
	require.NoError(t, err)

	engineSet(frame, 12, uint32(len(payload)+1))
	_, err = DecodeFrame(frame, DefaultMaxRatio)
	require.Error(t, err)
}

func TestEncodeFrame_EmptyPayload(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmZlib, AlgorithmLZ4, AlgorithmZstd, AlgorithmS2} {
		frame, err := EncodeFrame(algo, 0, nil)
		require.NoError(t, err)
		out, err := DecodeFrame(frame, DefaultMaxRatio)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}
