// Package bmp adapts golang.org/x/image/bmp to the go-impex codec
// interface. BMP is not a streaming format here: a decoder session decodes
// the whole image up front and serves it one scanline at a time, and an
// encoder session collects all scanlines and writes the file when the
// session is closed. Samples are 8 bit, single band (grayscale) or 3
// bands (RGB).
package bmp

import (
	"fmt"
	stdimage "image"
	"image/color"
	"io"

	xbmp "golang.org/x/image/bmp"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/pixel"
)

const formatName = "BMP"

// Format is the BMP format descriptor.
type Format struct{}

var _ codec.Format = Format{}

// Name returns the format name
func (Format) Name() string {
	return formatName
}

// Extensions returns the file extensions BMP images are known by
func (Format) Extensions() []string {
	return []string{"bmp"}
}

// SupportsPixelType reports whether BMP can store the given sample type
func (Format) SupportsPixelType(t pixel.Type) bool {
	return t == pixel.UINT8
}

// NewDecoder opens a read session on r; the whole image is decoded here
func (Format) NewDecoder(r io.Reader) (codec.Decoder, error) {
	img, err := xbmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("bmp: decode: %w", err)
	}
	d := &decoder{img: img, row: -1}
	bounds := img.Bounds()
	d.width = bounds.Dx()
	d.height = bounds.Dy()
	if _, ok := img.(*stdimage.Gray); ok {
		d.bands = 1
	} else {
		d.bands = 3
	}
	d.scan = make([][]uint8, d.bands)
	for b := range d.scan {
		d.scan[b] = make([]uint8, d.width)
	}
	return d, nil
}

// NewEncoder opens a write session on w
func (Format) NewEncoder(w io.Writer, _ codec.Options) (codec.Encoder, error) {
	return &encoder{w: w}, nil
}

type decoder struct {
	img    stdimage.Image
	width  int
	height int
	bands  int
	row    int
	scan   [][]uint8
	closed bool
}

var _ codec.Decoder = (*decoder)(nil)

func (d *decoder) Width() int    { return d.width }
func (d *decoder) Height() int   { return d.height }
func (d *decoder) NumBands() int { return d.bands }
func (d *decoder) Offset() int   { return 1 }

func (d *decoder) PixelType() pixel.Type {
	return pixel.UINT8
}

func (d *decoder) NextScanline() error {
	if d.row+1 >= d.height {
		return io.ErrUnexpectedEOF
	}
	d.row++
	bounds := d.img.Bounds()
	y := bounds.Min.Y + d.row
	if gray, ok := d.img.(*stdimage.Gray); ok {
		for x := 0; x < d.width; x++ {
			d.scan[0][x] = gray.GrayAt(bounds.Min.X+x, y).Y
		}
		return nil
	}
	for x := 0; x < d.width; x++ {
		r, g, b, _ := d.img.At(bounds.Min.X+x, y).RGBA()
		d.scan[0][x] = uint8(r >> 8)
		d.scan[1][x] = uint8(g >> 8)
		d.scan[2][x] = uint8(b >> 8)
	}
	return nil
}

func (d *decoder) ScanlineOfBand(b int) any {
	return d.scan[b]
}

func (d *decoder) Close() error {
	if d.closed {
		return fmt.Errorf("bmp: decoder closed twice")
	}
	d.closed = true
	return nil
}

type encoder struct {
	w         io.Writer
	width     int
	height    int
	bands     int
	typeSet   bool
	finalized bool
	closed    bool
	row       int
	scan      [][]uint8
	gray      *stdimage.Gray
	rgba      *stdimage.RGBA
}

var _ codec.Encoder = (*encoder)(nil)

func (e *encoder) SetWidth(w int) error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	e.width = w
	return nil
}

func (e *encoder) SetHeight(h int) error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	e.height = h
	return nil
}

func (e *encoder) SetNumBands(n int) error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	e.bands = n
	return nil
}

func (e *encoder) SetPixelType(t pixel.Type) error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	if t != pixel.UINT8 {
		return fmt.Errorf("bmp: %w: %s", codec.ErrUnsupportedPixelType, t)
	}
	e.typeSet = true
	return nil
}

func (e *encoder) FinalizeSettings() error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("bmp: %w: %dx%d", codec.ErrGeometry, e.width, e.height)
	}
	if !e.typeSet {
		return fmt.Errorf("bmp: %w: pixel type not set", codec.ErrInvalidPixelType)
	}
	rect := stdimage.Rect(0, 0, e.width, e.height)
	switch e.bands {
	case 1:
		e.gray = stdimage.NewGray(rect)
	case 3:
		e.rgba = stdimage.NewRGBA(rect)
	default:
		return fmt.Errorf("bmp: %w: %d (want 1 or 3)", codec.ErrBandCount, e.bands)
	}
	e.finalized = true
	e.scan = make([][]uint8, e.bands)
	for b := range e.scan {
		e.scan[b] = make([]uint8, e.width)
	}
	return nil
}

func (e *encoder) ScanlineOfBand(b int) any {
	if !e.finalized {
		return nil
	}
	return e.scan[b]
}

func (e *encoder) Offset() int { return 1 }

func (e *encoder) NextScanline() error {
	if !e.finalized {
		return codec.ErrNotFinalized
	}
	if e.row >= e.height {
		return fmt.Errorf("bmp: scanline pushed past height %d", e.height)
	}
	if e.gray != nil {
		for x := 0; x < e.width; x++ {
			e.gray.SetGray(x, e.row, color.Gray{Y: e.scan[0][x]})
		}
	} else {
		for x := 0; x < e.width; x++ {
			e.rgba.SetRGBA(x, e.row, color.RGBA{
				R: e.scan[0][x],
				G: e.scan[1][x],
				B: e.scan[2][x],
				A: 0xff,
			})
		}
	}
	e.row++
	return nil
}

// Close writes the collected image. Closing a session that has not
// received all of its scanlines is an error and writes nothing.
func (e *encoder) Close() error {
	if e.closed {
		return fmt.Errorf("bmp: encoder closed twice")
	}
	e.closed = true
	if !e.finalized {
		return nil
	}
	if e.row != e.height {
		return fmt.Errorf("bmp: image incomplete: %d of %d scanlines", e.row, e.height)
	}
	if e.gray != nil {
		return xbmp.Encode(e.w, e.gray)
	}
	return xbmp.Encode(e.w, e.rgba)
}

func (e *encoder) FileType() string {
	return formatName
}

func init() {
	codec.Register(Format{})
}
