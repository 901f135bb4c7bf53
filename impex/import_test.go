package impex_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/image"
	"github.com/cocosip/go-impex/impex"
	"github.com/cocosip/go-impex/pixel"
)

// newMemFormat registers a fresh in-memory format under a name unique to
// the running test.
func newMemFormat(t *testing.T, supported ...pixel.Type) *codec.MemFormat {
	t.Helper()
	name := "mem-" + strings.ReplaceAll(t.Name(), "/", "-")
	f := codec.NewMemFormat(name, supported...)
	codec.Register(f)
	return f
}

func TestImportScalar(t *testing.T) {
	f := newMemFormat(t, pixel.UINT8)
	f.Image = &codec.MemImage{
		Width: 2, Height: 2, Bands: 1, Type: pixel.UINT8,
		Rows: [][]any{
			{[]uint8{0, 128}},
			{[]uint8{128, 255}},
		},
	}

	dst := image.NewScalar[uint8](0, 0)
	if err := impex.Import(nil, f.Name(), dst); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.Width() != 2 || dst.Height() != 2 {
		t.Fatalf("geometry = %dx%d, want 2x2", dst.Width(), dst.Height())
	}
	want := []uint8{0, 128, 128, 255}
	for i, w := range want {
		x, y := i%2, i/2
		if got := dst.At(x, y); got != w {
			t.Errorf("At(%d,%d) = %d, want %d", x, y, got, w)
		}
	}
}

func TestImportConvertsElementType(t *testing.T) {
	f := newMemFormat(t, pixel.INT16)
	f.Image = &codec.MemImage{
		Width: 2, Height: 1, Bands: 1, Type: pixel.INT16,
		Rows: [][]any{
			{[]int16{-300, 4096}},
		},
	}

	dst := image.NewScalar[float64](0, 0)
	if err := impex.Import(nil, f.Name(), dst); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := dst.At(0, 0); got != -300 {
		t.Errorf("At(0,0) = %g, want -300", got)
	}
	if got := dst.At(1, 0); got != 4096 {
		t.Errorf("At(1,0) = %g, want 4096", got)
	}
}

func TestImportVectorBandOrder(t *testing.T) {
	f := newMemFormat(t, pixel.UINT8)
	f.Image = &codec.MemImage{
		Width: 2, Height: 1, Bands: 3, Type: pixel.UINT8,
		Rows: [][]any{
			{[]uint8{10, 11}, []uint8{20, 21}, []uint8{30, 31}},
		},
	}

	dst := image.New[uint8](0, 0, 3)
	if err := impex.Import(nil, f.Name(), dst); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.NumBands() != 3 {
		t.Fatalf("NumBands() = %d, want 3", dst.NumBands())
	}
	for b := 0; b < 3; b++ {
		for x := 0; x < 2; x++ {
			want := uint8(10*(b+1) + x)
			if got := dst.Component(x, 0, b); got != want {
				t.Errorf("Component(%d,0,%d) = %d, want %d", x, b, got, want)
			}
		}
	}
}

func TestImportScalarTakesBandZero(t *testing.T) {
	f := newMemFormat(t, pixel.UINT8)
	f.Image = &codec.MemImage{
		Width: 1, Height: 1, Bands: 3, Type: pixel.UINT8,
		Rows: [][]any{
			{[]uint8{10}, []uint8{20}, []uint8{30}},
		},
	}

	dst := image.NewScalar[uint8](0, 0)
	if err := impex.Import(nil, f.Name(), dst); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := dst.At(0, 0); got != 10 {
		t.Errorf("At(0,0) = %d, want band-0 value 10", got)
	}
}

func TestImportUnknownPixelTypeFailsBeforeStreaming(t *testing.T) {
	f := newMemFormat(t, pixel.UINT8)
	f.Image = &codec.MemImage{
		Width: 1, Height: 1, Bands: 1, Type: pixel.UINT8,
		Rows: [][]any{
			{[]uint8{1}},
		},
	}
	f.ReportPixelType = "FOO"

	dst := image.NewScalar[uint8](0, 0)
	err := impex.Import(nil, f.Name(), dst)
	if !errors.Is(err, codec.ErrInvalidPixelType) {
		t.Fatalf("Import error = %v, want ErrInvalidPixelType", err)
	}
	if f.ScanlinesRead != 0 {
		t.Errorf("ScanlinesRead = %d, want 0 (no partial read)", f.ScanlinesRead)
	}
}

func TestImportUnknownFormat(t *testing.T) {
	dst := image.NewScalar[uint8](0, 0)
	err := impex.Import(nil, "no-such-format", dst)
	if !errors.Is(err, codec.ErrFormatNotFound) {
		t.Fatalf("Import error = %v, want ErrFormatNotFound", err)
	}
}
