// Package pnm implements binary portable graymap (PGM, type P5) and
// portable pixmap (PPM, type P6) images behind the go-impex codec
// interface. Samples are 8 bit; a maxval above 255 is rejected. PPM rows
// are pixel-interleaved, so scanline views carry an element stride of 3.
package pnm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/pixel"
)

const formatName = "PNM"

// Format is the PNM format descriptor.
type Format struct{}

var _ codec.Format = Format{}

// Name returns the format name
func (Format) Name() string {
	return formatName
}

// Extensions returns the file extensions PNM images are known by
func (Format) Extensions() []string {
	return []string{"pnm", "pgm", "ppm"}
}

// SupportsPixelType reports whether PNM can store the given sample type
func (Format) SupportsPixelType(t pixel.Type) bool {
	return t == pixel.UINT8
}

// NewDecoder opens a read session on r
func (Format) NewDecoder(r io.Reader) (codec.Decoder, error) {
	return newDecoder(r)
}

// NewEncoder opens a write session on w
func (Format) NewEncoder(w io.Writer, _ codec.Options) (codec.Encoder, error) {
	return &encoder{w: bufio.NewWriter(w)}, nil
}

type decoder struct {
	r      *bufio.Reader
	width  int
	height int
	bands  int
	row    []uint8 // interleaved, width*bands
	closed bool
}

var _ codec.Decoder = (*decoder)(nil)

func newDecoder(r io.Reader) (*decoder, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	d.row = make([]uint8, d.width*d.bands)
	return d, nil
}

func (d *decoder) readHeader() error {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(d.r, magic); err != nil {
		return fmt.Errorf("pnm: read magic: %w", err)
	}
	switch string(magic) {
	case "P5":
		d.bands = 1
	case "P6":
		d.bands = 3
	default:
		return fmt.Errorf("pnm: unrecognized magic %q", magic)
	}

	width, err := d.readInt()
	if err != nil {
		return fmt.Errorf("pnm: read width: %w", err)
	}
	height, err := d.readInt()
	if err != nil {
		return fmt.Errorf("pnm: read height: %w", err)
	}
	maxval, err := d.readInt()
	if err != nil {
		return fmt.Errorf("pnm: read maxval: %w", err)
	}
	if maxval < 1 || maxval > 255 {
		return fmt.Errorf("pnm: maxval %d out of range (only 8-bit samples supported)", maxval)
	}
	// Exactly one whitespace byte separates the header from the raster.
	c, err := d.r.ReadByte()
	if err != nil {
		return fmt.Errorf("pnm: read header terminator: %w", err)
	}
	if !isSpace(c) {
		return fmt.Errorf("pnm: header not terminated by whitespace")
	}
	d.width, d.height = width, height
	return nil
}

// readInt consumes whitespace and '#' comments, then one decimal integer.
// The PNM header grammar: tokens separated by whitespace, comments running
// from '#' to end of line.
func (d *decoder) readInt() (int, error) {
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if c == '#' {
			if _, err := d.r.ReadString('\n'); err != nil {
				return 0, err
			}
			continue
		}
		if isSpace(c) {
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("unexpected character %q in header", c)
		}
		n := int(c - '0')
		for {
			c, err := d.r.ReadByte()
			if err == io.EOF {
				return n, nil
			}
			if err != nil {
				return 0, err
			}
			if c < '0' || c > '9' {
				if err := d.r.UnreadByte(); err != nil {
					return 0, err
				}
				return n, nil
			}
			n = n*10 + int(c-'0')
			if n > 1<<30 {
				return 0, fmt.Errorf("header value too large")
			}
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (d *decoder) Width() int    { return d.width }
func (d *decoder) Height() int   { return d.height }
func (d *decoder) NumBands() int { return d.bands }
func (d *decoder) Offset() int   { return d.bands }

func (d *decoder) PixelType() pixel.Type {
	return pixel.UINT8
}

func (d *decoder) NextScanline() error {
	if _, err := io.ReadFull(d.r, d.row); err != nil {
		return fmt.Errorf("pnm: read row: %w", err)
	}
	return nil
}

func (d *decoder) ScanlineOfBand(b int) any {
	return d.row[b:]
}

func (d *decoder) Close() error {
	if d.closed {
		return fmt.Errorf("pnm: decoder closed twice")
	}
	d.closed = true
	return nil
}

type encoder struct {
	w         *bufio.Writer
	width     int
	height    int
	bands     int
	typeSet   bool
	finalized bool
	closed    bool
	row       []uint8
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
		return fmt.Errorf("pnm: %w: %s", codec.ErrUnsupportedPixelType, t)
	}
	e.typeSet = true
	return nil
}

func (e *encoder) FinalizeSettings() error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("pnm: %w: %dx%d", codec.ErrGeometry, e.width, e.height)
	}
	if !e.typeSet {
		return fmt.Errorf("pnm: %w: pixel type not set", codec.ErrInvalidPixelType)
	}

	var magic string
	switch e.bands {
	case 1:
		magic = "P5"
	case 3:
		magic = "P6"
	default:
		return fmt.Errorf("pnm: %w: %d (want 1 or 3)", codec.ErrBandCount, e.bands)
	}
	if _, err := fmt.Fprintf(e.w, "%s\n%d %d\n255\n", magic, e.width, e.height); err != nil {
		return fmt.Errorf("pnm: write header: %w", err)
	}
	e.finalized = true
	e.row = make([]uint8, e.width*e.bands)
	return nil
}

func (e *encoder) ScanlineOfBand(b int) any {
	if !e.finalized {
		return nil
	}
	return e.row[b:]
}

func (e *encoder) Offset() int { return e.bands }

func (e *encoder) NextScanline() error {
	if !e.finalized {
		return codec.ErrNotFinalized
	}
	if _, err := e.w.Write(e.row); err != nil {
		return fmt.Errorf("pnm: write row: %w", err)
	}
	return nil
}

func (e *encoder) Close() error {
	if e.closed {
		return fmt.Errorf("pnm: encoder closed twice")
	}
	e.closed = true
	return e.w.Flush()
}

func (e *encoder) FileType() string {
	return formatName
}

func init() {
	codec.Register(Format{})
}
