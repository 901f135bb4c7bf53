package codec

import (
	"fmt"
	"io"

	"github.com/cocosip/go-impex/pixel"
)

// MemImage is the band-per-row storage behind a MemFormat: Rows[y][b] is
// the any-wrapped []T scanline of band b in row y.
type MemImage struct {
	Width  int
	Height int
	Bands  int
	Type   pixel.Type
	Rows   [][]any
}

// MemFormat is an in-memory format for exercising the engine without real
// files. An encoder session stores the image on the format; the next
// decoder session replays it. Streams passed to NewDecoder/NewEncoder are
// ignored.
type MemFormat struct {
	name      string
	supported map[pixel.Type]bool

	// Image is the last encoded image, replayed by the next decoder.
	Image *MemImage

	// ReportPixelType, when non-empty, overrides the stored tag reported
	// by decoders. Used to simulate a stream with a bogus tag.
	ReportPixelType pixel.Type

	// ScanlinesRead counts decoder scanline advances across sessions.
	ScanlinesRead int
}

var _ Format = (*MemFormat)(nil)

// NewMemFormat creates a MemFormat supporting exactly the given pixel types.
func NewMemFormat(name string, supported ...pixel.Type) *MemFormat {
	m := &MemFormat{
		name:      name,
		supported: make(map[pixel.Type]bool),
	}
	for _, t := range supported {
		m.supported[t] = true
	}
	return m
}

// Name returns the format name
func (f *MemFormat) Name() string {
	return f.name
}

// Extensions returns no extra lookup keys
func (f *MemFormat) Extensions() []string {
	return nil
}

// SupportsPixelType reports whether t was listed at construction
func (f *MemFormat) SupportsPixelType(t pixel.Type) bool {
	return f.supported[t]
}

// NewDecoder opens a session replaying the last encoded image
func (f *MemFormat) NewDecoder(io.Reader) (Decoder, error) {
	if f.Image == nil {
		return nil, fmt.Errorf("memfmt %s: nothing encoded yet", f.name)
	}
	return &memDecoder{format: f, image: f.Image, row: -1}, nil
}

// NewEncoder opens a session storing the encoded image on the format
func (f *MemFormat) NewEncoder(io.Writer, Options) (Encoder, error) {
	return &memEncoder{format: f}, nil
}

type memDecoder struct {
	format *MemFormat
	image  *MemImage
	row    int
	closed bool
}

func (d *memDecoder) Width() int    { return d.image.Width }
func (d *memDecoder) Height() int   { return d.image.Height }
func (d *memDecoder) NumBands() int { return d.image.Bands }
func (d *memDecoder) Offset() int   { return 1 }

func (d *memDecoder) PixelType() pixel.Type {
	if d.format.ReportPixelType != "" {
		return d.format.ReportPixelType
	}
	return d.image.Type
}

func (d *memDecoder) NextScanline() error {
	if d.row+1 >= len(d.image.Rows) {
		return io.ErrUnexpectedEOF
	}
	d.row++
	d.format.ScanlinesRead++
	return nil
}

func (d *memDecoder) ScanlineOfBand(b int) any {
	return d.image.Rows[d.row][b]
}

func (d *memDecoder) Close() error {
	if d.closed {
		return fmt.Errorf("memfmt %s: decoder closed twice", d.format.name)
	}
	d.closed = true
	return nil
}

type memEncoder struct {
	format    *MemFormat
	width     int
	height    int
	bands     int
	pixelType pixel.Type
	finalized bool
	closed    bool
	current   []any
	image     *MemImage
}

func (e *memEncoder) SetWidth(w int) error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	e.width = w
	return nil
}

func (e *memEncoder) SetHeight(h int) error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	e.height = h
	return nil
}

func (e *memEncoder) SetNumBands(n int) error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	e.bands = n
	return nil
}

func (e *memEncoder) SetPixelType(t pixel.Type) error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPixelType, t)
	}
	if !e.format.SupportsPixelType(t) {
		return fmt.Errorf("%w: %s in %s", ErrUnsupportedPixelType, t, e.format.name)
	}
	e.pixelType = t
	return nil
}

func (e *memEncoder) FinalizeSettings() error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrGeometry, e.width, e.height)
	}
	if e.bands < 1 {
		return fmt.Errorf("%w: %d", ErrBandCount, e.bands)
	}
	if e.pixelType == "" {
		return fmt.Errorf("%w: pixel type not set", ErrInvalidPixelType)
	}
	e.finalized = true
	e.image = &MemImage{
		Width:  e.width,
		Height: e.height,
		Bands:  e.bands,
		Type:   e.pixelType,
	}
	e.format.Image = e.image
	e.current = make([]any, e.bands)
	for b := range e.current {
		e.current[b] = MakeScanline(e.pixelType, e.width)
	}
	return nil
}

func (e *memEncoder) ScanlineOfBand(b int) any {
	if !e.finalized {
		return nil
	}
	return e.current[b]
}

func (e *memEncoder) Offset() int { return 1 }

func (e *memEncoder) NextScanline() error {
	if !e.finalized {
		return ErrNotFinalized
	}
	if len(e.image.Rows) >= e.height {
		return fmt.Errorf("memfmt %s: scanline pushed past height %d", e.format.name, e.height)
	}
	row := make([]any, e.bands)
	for b := range e.current {
		row[b] = cloneScanline(e.current[b])
	}
	e.image.Rows = append(e.image.Rows, row)
	return nil
}

func (e *memEncoder) Close() error {
	if e.closed {
		return fmt.Errorf("memfmt %s: encoder closed twice", e.format.name)
	}
	e.closed = true
	return nil
}

func (e *memEncoder) FileType() string {
	return e.format.name
}

func cloneScanline(s any) any {
	switch v := s.(type) {
	case []uint8:
		return append([]uint8(nil), v...)
	case []int16:
		return append([]int16(nil), v...)
	case []int32:
		return append([]int32(nil), v...)
	case []float32:
		return append([]float32(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	}
	return nil
}
