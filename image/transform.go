package image

import "github.com/cocosip/go-impex/pixel"

// MinMax scans every sample of every band once and returns the smallest
// and largest value found. An empty image yields (0, 0).
func MinMax[T pixel.Sample](m *Image[T]) (min, max float64) {
	if len(m.data) == 0 {
		return 0, 0
	}
	min = float64(m.data[0])
	max = min
	for _, v := range m.data[1:] {
		f := float64(v)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	return min, max
}

// Rescale8 produces a bands-component 8-bit copy of m with every sample
// remapped through out = (in + offset) * scale, rounded to nearest and
// clamped to [0, 255]. Only the first bands components of m are taken;
// bands must not exceed m.NumBands().
func Rescale8[T pixel.Sample](m *Image[T], bands int, scale, offset float64) *Image[uint8] {
	out := New[uint8](m.width, m.height, bands)
	for b := 0; b < bands; b++ {
		for y := 0; y < m.height; y++ {
			for x := 0; x < m.width; x++ {
				v := (float64(m.Component(x, y, b)) + offset) * scale
				out.SetComponent(x, y, b, clamp8(v))
			}
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
