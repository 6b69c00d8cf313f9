// Package compress provides the optional payload compression codecs used
// when fixed-length resource records are stored compressed on disk.
//
// Compression is applied outside the record encoding: a codec compresses
// the packed record bytes and decompresses them back to their fixed length
// before unpacking. Four codecs are available: None, Zstd, S2 and LZ4.
//
// By default the Zstd codec uses the pure-Go klauspost implementation; the
// cgo-backed gozstd implementation can be selected with the "zstdcgo"
// build tag.
//
// All codecs are stateless and safe for concurrent use; pooled encoder and
// decoder state is managed internally.
package compress
