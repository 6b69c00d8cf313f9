package codec

import (
	"fmt"

	"github.com/retrofmt/gamerec/compress"
	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
	"github.com/retrofmt/gamerec/internal/options"
)

// config collects construction-time settings before the Codec is built.
type config struct {
	types       map[string]Transform
	fields      map[string]Transform
	order       byte // 0 means "use the layout's byte order"
	compression format.CompressionType
}

// Option configures Codec construction.
type Option = options.Option[*config]

func newConfig() *config {
	return &config{
		types:       make(map[string]Transform),
		fields:      make(map[string]Transform),
		compression: format.CompressionNone,
	}
}

// WithTypeTransform registers a transform for every field declared with the
// given user-defined type keyword. It replaces the original convention of
// resolving hooks by name from the caller's scope: registration is explicit
// and unregistered user-defined types decode to their raw bytes.
func WithTypeTransform(typeName string, t Transform) Option {
	return options.NoError(func(c *config) {
		c.types[typeName] = t
	})
}

// WithFieldTransform registers a transform for one field by name. Field
// registrations take precedence over type registrations and may target any
// field, elementary or user-defined.
func WithFieldTransform(fieldName string, t Transform) Option {
	return options.NoError(func(c *config) {
		c.fields[fieldName] = t
	})
}

// WithByteOrder overrides the layout's byte order with the given marker
// ('@', '=', '<', '>', '!').
func WithByteOrder(marker byte) Option {
	return options.New(func(c *config) error {
		if !format.ValidOrder(marker) {
			return fmt.Errorf("%w: %q", errs.ErrBadByteOrder, string(marker))
		}
		c.order = marker

		return nil
	})
}

// WithLittleEndian sets little-endian byte order, overriding the layout.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.order = format.OrderLittle
	})
}

// WithBigEndian sets big-endian byte order, overriding the layout.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.order = format.OrderBig
	})
}

// WithCompression wraps Pack and Unpack with payload compression: packed
// records are compressed and inputs to Unpack are decompressed before the
// record length is checked.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		c.compression = compressionType

		return nil
	})
}
