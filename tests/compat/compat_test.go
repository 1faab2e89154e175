// Package compat smoke-tests btoon's public API as an external module
// consumer would see it, using its own standalone go.mod.
package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btoon-format/btoon"
	"github.com/btoon-format/btoon/compress"
	"github.com/btoon-format/btoon/value"
)

func TestPublicAPI_EncodeDecodeRoundTrip(t *testing.T) {
	v := value.Map([]value.MapEntry{
		{Key: "id", Value: value.Int(1)},
		{Key: "name", Value: value.String("widget")},
	})

	data, err := btoon.Encode(v)
	require.NoError(t, err)

	got, err := btoon.Decode(data)
	require.NoError(t, err)
	require.True(t, value.Equal(v, got))
}

func TestPublicAPI_CompressedRoundTrip(t *testing.T) {
	v := value.String("hello from an external module")
	data, err := btoon.Encode(v, btoon.WithCompress(true), btoon.WithCompressionAlgorithm(compress.AlgorithmZstd), btoon.WithMinCompressionSize(0))
	require.NoError(t, err)

	got, err := btoon.Decode(data)
	require.NoError(t, err)
	require.True(t, value.Equal(v, got))
}

func TestPublicAPI_Version(t *testing.T) {
	require.NotEmpty(t, btoon.Version())
}
