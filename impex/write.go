package impex

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/image"
	"github.com/cocosip/go-impex/pixel"
)

// Export writes src to w through the encoder of the format named by info.
// The container's element type picks the stream's pixel type: integral
// elements are stored at their native width, floating elements at native
// width when the format supports it and as a rescaled 8-bit image
// otherwise. The encoder is closed on every path.
func Export[T pixel.Sample](w io.Writer, src *image.Image[T], info ExportInfo, opts ...Option) (err error) {
	cfg := newConfig(opts)

	f, err := codec.Get(info.Format)
	if err != nil {
		return fmt.Errorf("impex: %q: %w", info.Format, err)
	}
	if info.Options != nil {
		if err := info.Options.Validate(); err != nil {
			return fmt.Errorf("impex: invalid %s options: %w", f.Name(), err)
		}
	}
	enc, err := f.NewEncoder(w, info.Options)
	if err != nil {
		return fmt.Errorf("impex: open %s encoder: %w", f.Name(), err)
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("impex: close encoder: %w", cerr)
		}
	}()

	cfg.log.Debug("encoder opened",
		zap.String("format", f.Name()),
		zap.Int("width", src.Width()),
		zap.Int("height", src.Height()),
		zap.Int("bands", src.NumBands()),
		zap.String("elementType", string(pixel.TypeOf[T]())))

	if src.NumBands() == 1 {
		return exportScalar(enc, src, cfg)
	}
	return exportVector(enc, src, cfg)
}

// exportScalar routes a single-band source to the integral or floating
// write path of its element type.
func exportScalar[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	if t := pixel.TypeOf[T](); t.IsIntegral() {
		return exportIntegralScalar(enc, src, t)
	}
	return exportFloatingScalar(enc, src, cfg)
}

// exportVector routes a multi-band source the same way.
func exportVector[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	if t := pixel.TypeOf[T](); t.IsIntegral() {
		return exportIntegralVector(enc, src, t)
	}
	return exportFloatingVector(enc, src, cfg)
}

// exportIntegralScalar stores integer samples at their native width.
// Integral types are always representable, so no capability check or
// fallback applies.
func exportIntegralScalar[T pixel.Sample](enc codec.Encoder, src *image.Image[T], t pixel.Type) error {
	switch t.Size() {
	case 1:
		if err := enc.SetPixelType(pixel.UINT8); err != nil {
			return err
		}
		return writeBand[uint8](enc, src)
	case 2:
		if err := enc.SetPixelType(pixel.INT16); err != nil {
			return err
		}
		return writeBand[int16](enc, src)
	case 4:
		if err := enc.SetPixelType(pixel.INT32); err != nil {
			return err
		}
		return writeBand[int32](enc, src)
	default:
		return fmt.Errorf("impex: %w: %d-byte integer", pixel.ErrUnsupportedWidth, t.Size())
	}
}

// exportIntegralVector is the multi-band counterpart of exportIntegralScalar.
func exportIntegralVector[T pixel.Sample](enc codec.Encoder, src *image.Image[T], t pixel.Type) error {
	switch t.Size() {
	case 1:
		if err := enc.SetPixelType(pixel.UINT8); err != nil {
			return err
		}
		return writeBands[uint8](enc, src)
	case 2:
		if err := enc.SetPixelType(pixel.INT16); err != nil {
			return err
		}
		return writeBands[int16](enc, src)
	case 4:
		if err := enc.SetPixelType(pixel.INT32); err != nil {
			return err
		}
		return writeBands[int32](enc, src)
	default:
		return fmt.Errorf("impex: %w: %d-byte integer", pixel.ErrUnsupportedWidth, t.Size())
	}
}

// exportFloatingScalar stores float samples at native width when the
// format can hold them and falls back to the 8-bit rescale otherwise.
func exportFloatingScalar[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	switch t := pixel.TypeOf[T](); t.Size() {
	case 4:
		if codec.IsPixelTypeSupported(enc.FileType(), pixel.FLOAT) {
			if err := enc.SetPixelType(pixel.FLOAT); err != nil {
				return err
			}
			return writeBand[float32](enc, src)
		}
		return exportRescaledScalar(enc, src, cfg)
	case 8:
		if codec.IsPixelTypeSupported(enc.FileType(), pixel.DOUBLE) {
			if err := enc.SetPixelType(pixel.DOUBLE); err != nil {
				return err
			}
			return writeBand[float64](enc, src)
		}
		return exportRescaledScalar(enc, src, cfg)
	default:
		return fmt.Errorf("impex: %w: %d-byte float", pixel.ErrUnsupportedWidth, t.Size())
	}
}

// exportFloatingVector is the multi-band counterpart of exportFloatingScalar.
func exportFloatingVector[T pixel.Sample](enc codec.Encoder, src *image.Image[T], cfg *config) error {
	switch t := pixel.TypeOf[T](); t.Size() {
	case 4:
		if codec.IsPixelTypeSupported(enc.FileType(), pixel.FLOAT) {
			if err := enc.SetPixelType(pixel.FLOAT); err != nil {
				return err
			}
			return writeBands[float32](enc, src)
		}
		return exportRescaledVector(enc, src, cfg)
	case 8:
		if codec.IsPixelTypeSupported(enc.FileType(), pixel.DOUBLE) {
			if err := enc.SetPixelType(pixel.DOUBLE); err != nil {
				return err
			}
			return writeBands[float64](enc, src)
		}
		return exportRescaledVector(enc, src, cfg)
	default:
		return fmt.Errorf("impex: %w: %d-byte float", pixel.ErrUnsupportedWidth, t.Size())
	}
}

// writeBand streams a single-band source into the encoder as D samples.
// It completes the encoder settings, finalizes them once, then pushes
// rows in order.
func writeBand[D, T pixel.Sample](enc codec.Encoder, src *image.Image[T]) error {
	width := src.Width()
	height := src.Height()

	if err := enc.SetWidth(width); err != nil {
		return err
	}
	if err := enc.SetHeight(height); err != nil {
		return err
	}
	if err := enc.SetNumBands(1); err != nil {
		return err
	}
	if err := enc.FinalizeSettings(); err != nil {
		return fmt.Errorf("impex: finalize encoder settings: %w", err)
	}

	for y := 0; y < height; y++ {
		scanline, err := bandView[D](enc.ScanlineOfBand(0), pixel.TypeOf[D]())
		if err != nil {
			return err
		}
		off := enc.Offset()
		for x := 0; x < width; x++ {
			scanline[x*off] = convert[T, D](src.At(x, y))
		}
		if err := enc.NextScanline(); err != nil {
			return fmt.Errorf("impex: write scanline %d: %w", y, err)
		}
	}
	return nil
}

// writeBands streams a multi-band source into the encoder, component b of
// each cell into band b of the scanline.
func writeBands[D, T pixel.Sample](enc codec.Encoder, src *image.Image[T]) error {
	width := src.Width()
	height := src.Height()
	numBands := src.NumBands()

	if err := enc.SetWidth(width); err != nil {
		return err
	}
	if err := enc.SetHeight(height); err != nil {
		return err
	}
	if err := enc.SetNumBands(numBands); err != nil {
		return err
	}
	if err := enc.FinalizeSettings(); err != nil {
		return fmt.Errorf("impex: finalize encoder settings: %w", err)
	}

	for y := 0; y < height; y++ {
		for b := 0; b < numBands; b++ {
			scanline, err := bandView[D](enc.ScanlineOfBand(b), pixel.TypeOf[D]())
			if err != nil {
				return err
			}
			off := enc.Offset()
			for x := 0; x < width; x++ {
				scanline[x*off] = convert[T, D](src.Component(x, y, b))
			}
		}
		if err := enc.NextScanline(); err != nil {
			return fmt.Errorf("impex: write scanline %d: %w", y, err)
		}
	}
	return nil
}
