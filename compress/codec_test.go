package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrofmt/gamerec/format"
)

func sampleRecord() []byte {
	// Repetitive, record-shaped data so every codec actually shrinks it.
	var buf bytes.Buffer
	for i := 0; i < 64; i++ {
		buf.WriteString("PLAYER_NAME_PADDED\x00\x00\x00\x00")
		buf.WriteByte(byte(i))
	}

	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"noop": NewNoOpCompressor(),
		"zstd": NewZstdCompressor(),
		"s2":   NewS2Compressor(),
		"lz4":  NewLZ4Compressor(),
	}

	data := sampleRecord()
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, codec := range []Codec{NewZstdCompressor(), NewS2Compressor(), NewLZ4Compressor()} {
		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := CreateCodec(ct, "record")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0xff), "record")
	require.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(format.CompressionLZ4)
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = GetCodec(format.CompressionType(0))
	require.Error(t, err)
}

func TestZstdDetectsCorruptInput(t *testing.T) {
	codec := NewZstdCompressor()
	_, err := codec.Decompress([]byte("definitely not zstd"))
	require.Error(t, err)
}
