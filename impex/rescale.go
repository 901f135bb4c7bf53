package impex

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/image"
	"github.com/cocosip/go-impex/pixel"
)

// rescaleParams derives the affine remap taking the observed sample range
// [min, max] onto [0, 255]. A constant image (max == min) maps to all
// zeros: scale 1, offset -min.
func rescaleParams(min, max float64) (scale, offset float64) {
	if max == min {
		return 1, -min
	}
	return 255 / (max - min), -min
}

// exportRescaledScalar writes an 8-bit rescaled copy of a single-band
// floating source whose native type the format rejected. The source is
// scanned once for its global range, remapped, and streamed as UINT8.
func exportRescaledScalar[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	if err := enc.SetPixelType(pixel.UINT8); err != nil {
		return err
	}
	min, max := image.MinMax(src)
	scale, offset := rescaleParams(min, max)
	cfg.log.Debug("rescaling to 8 bit",
		zap.String("format", enc.FileType()),
		zap.Float64("min", min),
		zap.Float64("max", max))
	return writeBand[uint8](enc, image.Rescale8(src, 1, scale, offset))
}

// exportRescaledVector is the multi-band fallback. The rescaled copy is
// always a 3-component 8-bit image; sources with fewer components are
// rejected before the encoder is configured.
func exportRescaledVector[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	if src.NumBands() < 3 {
		return fmt.Errorf("impex: %w: rescale fallback needs 3 components, source has %d",
			codec.ErrBandCount, src.NumBands())
	}
	if err := enc.SetPixelType(pixel.UINT8); err != nil {
		return err
	}
	min, max := image.MinMax(src)
	scale, offset := rescaleParams(min, max)
	cfg.log.Debug("rescaling to 8 bit",
		zap.String("format", enc.FileType()),
		zap.Float64("min", min),
		zap.Float64("max", max))
	return writeBands[uint8](enc, image.Rescale8(src, 3, scale, offset))
}
