// Package codec defines the streaming session interfaces between the
// import/export engine and concrete file formats, and the registry through
// which formats are looked up.
package codec

import (
	"io"

	"github.com/cocosip/go-impex/pixel"
)

// Decoder is one read session over an open image stream. A session is
// consumed front to back: NextScanline advances to each row in turn, and
// ScanlineOfBand exposes the current row of one band. A Decoder is owned
// by a single import call and must be closed exactly once.
type Decoder interface {
	Width() int
	Height() int
	NumBands() int

	// PixelType returns the native sample tag of the stream.
	PixelType() pixel.Type

	// NextScanline advances to the next row. It must be called before the
	// first ScanlineOfBand and once per row thereafter.
	NextScanline() error

	// ScanlineOfBand returns the current row of band b as a []T slice of
	// the native sample type. Samples of the band are Offset() elements
	// apart within the slice. The view is only valid until the next call
	// to NextScanline.
	ScanlineOfBand(b int) any

	// Offset is the element stride between successive samples of one band
	// within a scanline view.
	Offset() int

	Close() error
}

// Encoder is one write session producing an image stream. All settings
// must be applied before FinalizeSettings, which is called exactly once;
// scanlines are pushed only after it. A session is owned by a single
// export call and must be closed exactly once.
type Encoder interface {
	SetWidth(w int) error
	SetHeight(h int) error
	SetNumBands(n int) error
	SetPixelType(t pixel.Type) error

	// FinalizeSettings locks the session settings. Calling any setter
	// afterwards, finalizing twice, or pushing a scanline before it is an
	// error.
	FinalizeSettings() error

	// ScanlineOfBand returns the writable current row of band b as a []T
	// slice of the configured pixel type, with samples Offset() elements
	// apart.
	ScanlineOfBand(b int) any

	Offset() int

	// NextScanline commits the current row and advances to the next one.
	NextScanline() error

	Close() error

	// FileType names the destination format, for capability lookups.
	FileType() string
}

// Format describes one file format and opens codec sessions for it.
type Format interface {
	// Name is the canonical registry key, e.g. "PNM".
	Name() string

	// Extensions lists additional lookup keys, typically the file
	// extensions the format is known by.
	Extensions() []string

	// SupportsPixelType reports whether the format can store samples of
	// the given native type.
	SupportsPixelType(t pixel.Type) bool

	NewDecoder(r io.Reader) (Decoder, error)
	NewEncoder(w io.Writer, opts Options) (Encoder, error)
}

// Options is an interface for format-specific encoder options.
type Options interface {
	// Validate checks if the options are valid.
	Validate() error
}

// BaseOptions provides common options for all formats.
type BaseOptions struct {
	// Compression selects the compression method for formats that
	// compress, empty meaning the format default. Values are
	// format-specific; formats reject methods they do not implement.
	Compression string
}

// Validate validates base options.
func (o *BaseOptions) Validate() error {
	return nil
}

// MakeScanline allocates a scanline buffer of n samples of the native
// type named by t, as the any-wrapped []T the session interfaces trade
// in. Unknown tags return nil.
func MakeScanline(t pixel.Type, n int) any {
	switch t {
	case pixel.UINT8:
		return make([]uint8, n)
	case pixel.INT16:
		return make([]int16, n)
	case pixel.INT32:
		return make([]int32, n)
	case pixel.FLOAT:
		return make([]float32, n)
	case pixel.DOUBLE:
		return make([]float64, n)
	}
	return nil
}
