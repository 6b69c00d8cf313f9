package compress

// ZstdCompressor provides Zstandard compression for record payloads. Zstd
// trades some speed for the best ratio of the built-in codecs, which suits
// archival storage of resource files.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
