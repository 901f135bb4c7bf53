package impex_test

import (
	"bytes"
	"testing"

	_ "github.com/cocosip/go-impex/bil"
	"github.com/cocosip/go-impex/codec"
	"github.com/cocosip/go-impex/image"
	"github.com/cocosip/go-impex/impex"
	"github.com/cocosip/go-impex/pixel"
	_ "github.com/cocosip/go-impex/pnm"
)

// roundTrip exports a 2x2 image to the given format and imports it back,
// expecting pixel-for-pixel identity.
func roundTrip[T pixel.Sample](t *testing.T, format string, opts codec.Options, bands int, values []T) {
	t.Helper()

	src := image.New[T](2, 2, bands)
	for b := 0; b < bands; b++ {
		for i, v := range values {
			src.SetComponent(i%2, i/2, b, v+convertInt[T](b))
		}
	}

	var buf bytes.Buffer
	info := impex.ExportInfo{Format: format, Options: opts}
	if err := impex.Export(&buf, src, info); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := image.New[T](0, 0, bands)
	if err := impex.Import(&buf, format, dst); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if dst.Width() != 2 || dst.Height() != 2 || dst.NumBands() != bands {
		t.Fatalf("geometry = %dx%dx%d, want 2x2x%d",
			dst.Width(), dst.Height(), dst.NumBands(), bands)
	}
	for b := 0; b < bands; b++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				want := src.Component(x, y, b)
				if got := dst.Component(x, y, b); got != want {
					t.Errorf("component (%d,%d,%d) = %v, want %v", x, y, b, got, want)
				}
			}
		}
	}
}

func convertInt[T pixel.Sample](n int) T {
	return T(float64(n))
}

func TestRoundTripBIL(t *testing.T) {
	t.Run("UINT8 scalar", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 1, []uint8{0, 128, 128, 255})
	})
	t.Run("UINT8 rgb", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 3, []uint8{0, 128, 128, 255})
	})
	t.Run("INT16 scalar", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 1, []int16{-32768, -1, 0, 32767})
	})
	t.Run("INT16 rgb", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 3, []int16{-300, 0, 7, 2500})
	})
	t.Run("INT32 scalar", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 1, []int32{-1 << 30, -1, 0, 1<<30 - 1})
	})
	t.Run("INT32 rgb", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 3, []int32{-5, 9, 1 << 20, 42})
	})
	t.Run("FLOAT scalar", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 1, []float32{-1.5, 0, 0.25, 3.75})
	})
	t.Run("FLOAT rgb", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 3, []float32{-1e20, 1e-20, 0.5, 1})
	})
	t.Run("DOUBLE scalar", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 1, []float64{-1e300, 1e-300, 0, 2.5})
	})
	t.Run("DOUBLE rgb", func(t *testing.T) {
		roundTrip(t, "BIL", nil, 3, []float64{-0.125, 0.375, 7, 1e9})
	})
}

func TestRoundTripBILZstd(t *testing.T) {
	opts := &codec.BaseOptions{Compression: "zstd"}
	t.Run("UINT8 scalar", func(t *testing.T) {
		roundTrip(t, "BIL", opts, 1, []uint8{0, 128, 128, 255})
	})
	t.Run("DOUBLE rgb", func(t *testing.T) {
		roundTrip(t, "BIL", opts, 3, []float64{-2.25, 0, 3.5, 1e12})
	})
}

func TestRoundTripPNMGray(t *testing.T) {
	roundTrip(t, "PNM", nil, 1, []uint8{0, 128, 128, 255})
}

func TestRoundTripPNMColor(t *testing.T) {
	roundTrip(t, "PNM", nil, 3, []uint8{0, 10, 200, 250})
}

// A float image exported to a format without FLOAT support comes back as
// the rescaled 8-bit image.
func TestFloatThroughPNMIsRescaled(t *testing.T) {
	src := image.NewScalar[float32](2, 2)
	src.SetAt(0, 0, 0)
	src.SetAt(1, 0, 0.5)
	src.SetAt(0, 1, 0.5)
	src.SetAt(1, 1, 1)

	var buf bytes.Buffer
	if err := impex.Export(&buf, src, impex.ExportInfo{Format: "PNM"}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := image.NewScalar[uint8](0, 0)
	if err := impex.Import(&buf, "PNM", dst); err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := []uint8{0, 128, 128, 255}
	for i, w := range want {
		x, y := i%2, i/2
		if got := dst.At(x, y); got != w {
			t.Errorf("At(%d,%d) = %d, want %d", x, y, got, w)
		}
	}
}
