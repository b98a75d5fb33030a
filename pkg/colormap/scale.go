package colormap

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotFound indicates that no palette is registered under the requested name.
	ErrNotFound = errors.New("palette not found")

	// ErrInvalidArgument indicates a non-positive color count or an empty palette.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ColorScale is an ordered sequence of color values.
// Bundled palettes use "#rrggbb" strings; sampling never interprets them.
type ColorScale []string

// Len returns the number of colors in the scale.
func (s ColorScale) Len() int { return len(s) }

// Last returns the final color of the scale, or "" when it is empty.
func (s ColorScale) Last() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// Sample returns min(count, s.Len()) colors from s. See Sample.
func (s ColorScale) Sample(count int) (ColorScale, error) {
	return Sample(s, count)
}

// Sample down-samples scale to min(count, len(scale)) entries.
//
// Entries 0..n-2 are taken at scale[round(i*L/n)] and the last entry is
// always scale[L-1], so the result keeps the source order and ends on the
// source's final color. Rounding is half away from zero (math.Round).
// The returned slice is newly allocated.
func Sample[S ~[]C, C any](scale S, count int) (S, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidArgument)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: color count must be positive, got %d", ErrInvalidArgument, count)
	}

	l := len(scale)
	n := min(count, l)
	out := make(S, n)

	if n == 1 {
		out[0] = scale[l-1]
		return out, nil
	}

	step := float64(l) / float64(n)
	for i := 0; i < n-1; i++ {
		out[i] = scale[int(math.Round(float64(i)*step))]
	}
	// Snap the final slot explicitly; i*step alone does not always reach L-1.
	out[n-1] = scale[l-1]

	return out, nil
}

// Gradient returns steps colors evenly interpolated along scale, from its
// first color to its last. Unlike Sample it may produce colors that are not
// present in scale, and steps may exceed the scale length.
func Gradient(scale ColorScale, steps int) (ColorScale, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidArgument)
	}
	if steps <= 0 {
		return nil, fmt.Errorf("%w: step count must be positive, got %d", ErrInvalidArgument, steps)
	}

	cmap, err := NewLinear(scale)
	if err != nil {
		return nil, err
	}

	out := make(ColorScale, steps)
	if steps == 1 {
		out[0] = Hex(cmap.At(1))
		return out, nil
	}
	for i := range out {
		out[i] = Hex(cmap.At(float64(i) / float64(steps-1)))
	}
	return out, nil
}
