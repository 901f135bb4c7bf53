package impex

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/image"
	"github.com/cocosip/go-impex/pixel"
)

// Import reads the image stream r through the named format's decoder into
// dst, converting the stream's native sample type to T per element. A
// single-band dst receives band 0 of the stream; a multi-band dst is
// resized to the stream's band count and receives all bands in order. The
// decoder is closed on every path.
func Import[T pixel.Sample](r io.Reader, format string, dst *image.Image[T], opts ...Option) (err error) {
	cfg := newConfig(opts)

	f, err := codec.Get(format)
	if err != nil {
		return fmt.Errorf("impex: %q: %w", format, err)
	}
	dec, err := f.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("impex: open %s decoder: %w", f.Name(), err)
	}
	defer func() {
		if cerr := dec.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("impex: close decoder: %w", cerr)
		}
	}()

	cfg.log.Debug("decoder opened",
		zap.String("format", f.Name()),
		zap.Int("width", dec.Width()),
		zap.Int("height", dec.Height()),
		zap.Int("bands", dec.NumBands()),
		zap.String("pixelType", string(dec.PixelType())))

	if dst.NumBands() == 1 {
		dst.Resize(dec.Width(), dec.Height(), 1)
		return importScalar(dec, dst)
	}
	dst.Resize(dec.Width(), dec.Height(), dec.NumBands())
	return importVector(dec, dst)
}

// importScalar selects the source element type from the decoder's tag and
// runs the single-band transfer loop.
func importScalar[T pixel.Sample](dec codec.Decoder, dst *image.Image[T]) error {
	switch t := dec.PixelType(); t {
	case pixel.UINT8:
		return readBand[uint8](dec, dst)
	case pixel.INT16:
		return readBand[int16](dec, dst)
	case pixel.INT32:
		return readBand[int32](dec, dst)
	case pixel.FLOAT:
		return readBand[float32](dec, dst)
	case pixel.DOUBLE:
		return readBand[float64](dec, dst)
	default:
		return fmt.Errorf("impex: %w: %q", codec.ErrInvalidPixelType, t)
	}
}

// importVector is the multi-band counterpart of importScalar.
func importVector[T pixel.Sample](dec codec.Decoder, dst *image.Image[T]) error {
	switch t := dec.PixelType(); t {
	case pixel.UINT8:
		return readBands[uint8](dec, dst)
	case pixel.INT16:
		return readBands[int16](dec, dst)
	case pixel.INT32:
		return readBands[int32](dec, dst)
	case pixel.FLOAT:
		return readBands[float32](dec, dst)
	case pixel.DOUBLE:
		return readBands[float64](dec, dst)
	default:
		return fmt.Errorf("impex: %w: %q", codec.ErrInvalidPixelType, t)
	}
}

// readBand moves a single-band stream of S samples into dst, one element
// per container cell, in row-major order.
func readBand[S, T pixel.Sample](dec codec.Decoder, dst *image.Image[T]) error {
	width := dec.Width()
	height := dec.Height()
	off := dec.Offset()

	for y := 0; y < height; y++ {
		if err := dec.NextScanline(); err != nil {
			return fmt.Errorf("impex: read scanline %d: %w", y, err)
		}
		scanline, err := bandView[S](dec.ScanlineOfBand(0), dec.PixelType())
		if err != nil {
			return err
		}
		for x := 0; x < width; x++ {
			dst.SetAt(x, y, convert[S, T](scanline[x*off]))
		}
	}
	return nil
}

// readBands moves a multi-band stream of S samples into dst, band b of
// each scanline into component b of the corresponding container cells.
func readBands[S, T pixel.Sample](dec codec.Decoder, dst *image.Image[T]) error {
	width := dec.Width()
	height := dec.Height()
	numBands := dec.NumBands()
	off := dec.Offset()

	for y := 0; y < height; y++ {
		if err := dec.NextScanline(); err != nil {
			return fmt.Errorf("impex: read scanline %d: %w", y, err)
		}
		for b := 0; b < numBands; b++ {
			scanline, err := bandView[S](dec.ScanlineOfBand(b), dec.PixelType())
			if err != nil {
				return err
			}
			for x := 0; x < width; x++ {
				dst.SetComponent(x, y, b, convert[S, T](scanline[x*off]))
			}
		}
	}
	return nil
}

// bandView asserts a scanline view to the element type its session's tag
// names. A mismatch means the codec is defective.
func bandView[S pixel.Sample](view any, tag pixel.Type) ([]S, error) {
	s, ok := view.([]S)
	if !ok {
		return nil, fmt.Errorf("impex: %w: buffer holds %T, tag says %s",
			codec.ErrPixelTypeMismatch, view, tag)
	}
	return s, nil
}
