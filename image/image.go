// Package image provides the in-memory pixel container the import and
// export engine streams into and out of. An Image holds samples of one
// numeric element type and any number of bands; band 0 is the first
// channel. Storage is band-planar.
package image

import (
	"fmt"

	"github.com/cocosip/go-impex/pixel"
)

// Image is a width x height raster of bands-component pixels with element
// type T.
type Image[T pixel.Sample] struct {
	width  int
	height int
	bands  int
	data   []T
}

// New creates an image of the given geometry. Dimensions must be
// non-negative and bands positive; anything else is a programming error.
func New[T pixel.Sample](width, height, bands int) *Image[T] {
	if width < 0 || height < 0 || bands < 1 {
		panic(fmt.Sprintf("image: invalid geometry %dx%dx%d", width, height, bands))
	}
	return &Image[T]{
		width:  width,
		height: height,
		bands:  bands,
		data:   make([]T, width*height*bands),
	}
}

// NewScalar creates a single-band image.
func NewScalar[T pixel.Sample](width, height int) *Image[T] {
	return New[T](width, height, 1)
}

// Width returns the image width in pixels.
func (m *Image[T]) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image[T]) Height() int { return m.height }

// NumBands returns the number of components per pixel.
func (m *Image[T]) NumBands() int { return m.bands }

// Resize reallocates the image to the given geometry, discarding any
// previous content.
func (m *Image[T]) Resize(width, height, bands int) {
	if width < 0 || height < 0 || bands < 1 {
		panic(fmt.Sprintf("image: invalid geometry %dx%dx%d", width, height, bands))
	}
	m.width, m.height, m.bands = width, height, bands
	m.data = make([]T, width*height*bands)
}

// At returns the band-0 sample at (x, y).
func (m *Image[T]) At(x, y int) T {
	return m.data[y*m.width+x]
}

// SetAt stores the band-0 sample at (x, y).
func (m *Image[T]) SetAt(x, y int, v T) {
	m.data[y*m.width+x] = v
}

// Component returns the band-b sample at (x, y).
func (m *Image[T]) Component(x, y, b int) T {
	return m.data[b*m.width*m.height+y*m.width+x]
}

// SetComponent stores the band-b sample at (x, y).
func (m *Image[T]) SetComponent(x, y, b int, v T) {
	m.data[b*m.width*m.height+y*m.width+x] = v
}

// Pix returns the backing sample slice, band after band in row-major
// order. Mutations are visible to the image.
func (m *Image[T]) Pix() []T {
	return m.data
}
