// Package impex implements streaming image import and export. It bridges
// the generic pixel container in package image to the scanline codec
// sessions in package codec: the element type of the open stream selects a
// monomorphized transfer loop up front, so no type dispatch happens per
// pixel, and an export whose destination format cannot store the source's
// native floating-point type is transparently rescaled to 8 bit.
package impex

import (
	"go.uber.org/zap"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/pixel"
)

// ExportInfo names the destination format of an export and carries its
// encoder options.
type ExportInfo struct {
	// Format is the registry key of the destination format, a name or
	// extension such as "PNM" or "ppm".
	Format string

	// Options holds format-specific encoder settings; nil means format
	// defaults.
	Options codec.Options
}

// Option configures one import or export call.
type Option func(*config)

type config struct {
	log *zap.Logger
}

// WithLogger makes the call log its lifecycle at debug level. The default
// is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// convert moves one sample between element types. The float64 detour is
// exact for every pair of supported types.
func convert[S, D pixel.Sample](v S) D {
	return D(float64(v))
}
