// Package bil implements a band-interleaved-by-line raster container
// behind the go-impex codec interface. Every pixel type is representable,
// which makes it the lossless target for floating-point exports. The
// layout is a small little-endian header followed by the rows in order,
// each row holding its bands back to back, tightly packed. The payload
// can optionally be zstd-compressed.
package bil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/pixel"
)

const formatName = "BIL"

var magic = [4]byte{'B', 'I', 'L', '1'}

// Compression methods accepted in codec.BaseOptions.Compression.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

const (
	compNone = 0
	compZstd = 1
)

var typeCodes = map[pixel.Type]uint8{
	pixel.UINT8:  1,
	pixel.INT16:  2,
	pixel.INT32:  3,
	pixel.FLOAT:  4,
	pixel.DOUBLE: 5,
}

var codeTypes = map[uint8]pixel.Type{
	1: pixel.UINT8,
	2: pixel.INT16,
	3: pixel.INT32,
	4: pixel.FLOAT,
	5: pixel.DOUBLE,
}

type header struct {
	Width       uint32
	Height      uint32
	Bands       uint16
	TypeCode    uint8
	Compression uint8
}

// Format is the BIL format descriptor.
type Format struct{}

var _ codec.Format = Format{}

// Name returns the format name
func (Format) Name() string {
	return formatName
}

// Extensions returns the file extensions BIL images are known by
func (Format) Extensions() []string {
	return []string{"bil"}
}

// SupportsPixelType reports whether BIL can store the given sample type;
// every known type is representable
func (Format) SupportsPixelType(t pixel.Type) bool {
	return t.Valid()
}

// NewDecoder opens a read session on r
func (Format) NewDecoder(r io.Reader) (codec.Decoder, error) {
	return newDecoder(r)
}

// NewEncoder opens a write session on w
func (Format) NewEncoder(w io.Writer, opts codec.Options) (codec.Encoder, error) {
	compression := compNone
	if base, ok := opts.(*codec.BaseOptions); ok && base != nil {
		switch base.Compression {
		case "", CompressionNone:
			compression = compNone
		case CompressionZstd:
			compression = compZstd
		default:
			return nil, fmt.Errorf("bil: unsupported compression %q", base.Compression)
		}
	}
	return &encoder{base: bufio.NewWriter(w), compression: uint8(compression)}, nil
}

type decoder struct {
	hdr     header
	typ     pixel.Type
	payload io.Reader
	zr      *zstd.Decoder
	scan    any // one full row, all bands, width*bands samples
	closed  bool
}

var _ codec.Decoder = (*decoder)(nil)

func newDecoder(r io.Reader) (*decoder, error) {
	br := bufio.NewReader(r)

	var m [4]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return nil, fmt.Errorf("bil: read magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("bil: bad magic %q", m)
	}

	d := &decoder{}
	if err := binary.Read(br, binary.LittleEndian, &d.hdr); err != nil {
		return nil, fmt.Errorf("bil: read header: %w", err)
	}
	typ, ok := codeTypes[d.hdr.TypeCode]
	if !ok {
		return nil, fmt.Errorf("bil: %w: type code %d", codec.ErrInvalidPixelType, d.hdr.TypeCode)
	}
	d.typ = typ
	if d.hdr.Bands < 1 {
		return nil, fmt.Errorf("bil: %w: %d", codec.ErrBandCount, d.hdr.Bands)
	}

	switch d.hdr.Compression {
	case compNone:
		d.payload = br
	case compZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("bil: open zstd reader: %w", err)
		}
		d.zr = zr
		d.payload = zr
	default:
		return nil, fmt.Errorf("bil: unknown compression code %d", d.hdr.Compression)
	}

	d.scan = codec.MakeScanline(typ, int(d.hdr.Width)*int(d.hdr.Bands))
	return d, nil
}

func (d *decoder) Width() int    { return int(d.hdr.Width) }
func (d *decoder) Height() int   { return int(d.hdr.Height) }
func (d *decoder) NumBands() int { return int(d.hdr.Bands) }
func (d *decoder) Offset() int   { return 1 }

func (d *decoder) PixelType() pixel.Type {
	return d.typ
}

func (d *decoder) NextScanline() error {
	if err := binary.Read(d.payload, binary.LittleEndian, d.scan); err != nil {
		return fmt.Errorf("bil: read row: %w", err)
	}
	return nil
}

func (d *decoder) ScanlineOfBand(b int) any {
	return bandSlice(d.scan, b, int(d.hdr.Width))
}

func (d *decoder) Close() error {
	if d.closed {
		return fmt.Errorf("bil: decoder closed twice")
	}
	d.closed = true
	if d.zr != nil {
		d.zr.Close()
	}
	return nil
}

type encoder struct {
	base        *bufio.Writer
	payload     io.Writer
	zw          *zstd.Encoder
	compression uint8

	width     int
	height    int
	bands     int
	typ       pixel.Type
	finalized bool
	closed    bool
	scan      any
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
	if _, ok := typeCodes[t]; !ok {
		return fmt.Errorf("bil: %w: %q", codec.ErrInvalidPixelType, t)
	}
	e.typ = t
	return nil
}

func (e *encoder) FinalizeSettings() error {
	if e.finalized {
		return codec.ErrAlreadyFinalized
	}
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("bil: %w: %dx%d", codec.ErrGeometry, e.width, e.height)
	}
	if e.bands < 1 {
		return fmt.Errorf("bil: %w: %d", codec.ErrBandCount, e.bands)
	}
	if e.typ == "" {
		return fmt.Errorf("bil: %w: pixel type not set", codec.ErrInvalidPixelType)
	}

	if _, err := e.base.Write(magic[:]); err != nil {
		return fmt.Errorf("bil: write magic: %w", err)
	}
	hdr := header{
		Width:       uint32(e.width),
		Height:      uint32(e.height),
		Bands:       uint16(e.bands),
		TypeCode:    typeCodes[e.typ],
		Compression: e.compression,
	}
	if err := binary.Write(e.base, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("bil: write header: %w", err)
	}

	if e.compression == compZstd {
		zw, err := zstd.NewWriter(e.base)
		if err != nil {
			return fmt.Errorf("bil: open zstd writer: %w", err)
		}
		e.zw = zw
		e.payload = zw
	} else {
		e.payload = e.base
	}

	e.finalized = true
	e.scan = codec.MakeScanline(e.typ, e.width*e.bands)
	return nil
}

func (e *encoder) ScanlineOfBand(b int) any {
	if !e.finalized {
		return nil
	}
	return bandSlice(e.scan, b, e.width)
}

func (e *encoder) Offset() int { return 1 }

func (e *encoder) NextScanline() error {
	if !e.finalized {
		return codec.ErrNotFinalized
	}
	if err := binary.Write(e.payload, binary.LittleEndian, e.scan); err != nil {
		return fmt.Errorf("bil: write row: %w", err)
	}
	return nil
}

func (e *encoder) Close() error {
	if e.closed {
		return fmt.Errorf("bil: encoder closed twice")
	}
	e.closed = true
	if e.zw != nil {
		if err := e.zw.Close(); err != nil {
			return fmt.Errorf("bil: close zstd writer: %w", err)
		}
	}
	return e.base.Flush()
}

func (e *encoder) FileType() string {
	return formatName
}

// bandSlice carves band b out of a full-row buffer of width-sample bands.
func bandSlice(scan any, b, width int) any {
	switch v := scan.(type) {
	case []uint8:
		return v[b*width : (b+1)*width]
	case []int16:
		return v[b*width : (b+1)*width]
	case []int32:
		return v[b*width : (b+1)*width]
	case []float32:
		return v[b*width : (b+1)*width]
	case []float64:
		return v[b*width : (b+1)*width]
	}
	return nil
}

func init() {
	codec.Register(Format{})
}
