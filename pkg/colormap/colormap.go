// Package colormap provides named color palettes, discrete palette sampling
// and continuous colormaps for visualization.
package colormap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps normalized values [0, 1] to colors.
type Colormap interface {
	At(t float64) color.Color
	AtIndex(i int) color.Color
}

// LinearColormap is a linear interpolation colormap.
type LinearColormap struct {
	colors []color.RGBA
}

// NewLinear builds an interpolating colormap from hex colors.
func NewLinear(scale ColorScale) (LinearColormap, error) {
	colors, err := parseScale(scale)
	if err != nil {
		return LinearColormap{}, err
	}
	return LinearColormap{colors: colors}, nil
}

// At returns the color at position t (0-1).
// NaN maps to the low end.
func (c LinearColormap) At(t float64) color.Color {
	if t <= 0 || math.IsNaN(t) {
		return c.colors[0]
	}
	if t >= 1 {
		return c.colors[len(c.colors)-1]
	}

	idx := t * float64(len(c.colors)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(c.colors) {
		upper = len(c.colors) - 1
	}

	frac := idx - float64(lower)
	return interpolate(c.colors[lower], c.colors[upper], frac)
}

// AtIndex returns color at index i (wraps around).
func (c LinearColormap) AtIndex(i int) color.Color {
	return c.colors[wrap(i, len(c.colors))]
}

func interpolate(c1, c2 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c1.R) + t*(float64(c2.R)-float64(c1.R)) + 0.5),
		G: uint8(float64(c1.G) + t*(float64(c2.G)-float64(c1.G)) + 0.5),
		B: uint8(float64(c1.B) + t*(float64(c2.B)-float64(c1.B)) + 0.5),
		A: 255,
	}
}

// CategoricalColormap provides distinct colors for categories.
type CategoricalColormap struct {
	colors []color.RGBA
}

// NewCategorical builds a categorical colormap from hex colors.
func NewCategorical(scale ColorScale) (CategoricalColormap, error) {
	colors, err := parseScale(scale)
	if err != nil {
		return CategoricalColormap{}, err
	}
	return CategoricalColormap{colors: colors}, nil
}

// At returns color at position t.
func (c CategoricalColormap) At(t float64) color.Color {
	if math.IsNaN(t) {
		return c.colors[0]
	}
	idx := int(t * float64(len(c.colors)))
	if idx >= len(c.colors) {
		idx = len(c.colors) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return c.colors[idx]
}

// AtIndex returns color at index.
func (c CategoricalColormap) AtIndex(i int) color.Color {
	return c.colors[wrap(i, len(c.colors))]
}

// wrap keeps negative indices in range too.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// ParseColor parses a "#rrggbb" (or "#rgb") color into an opaque RGBA.
// Errors wrap ErrInvalidArgument.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: invalid color %q: %w", ErrInvalidArgument, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// ValidateHex reports the first entry of scale that is not a hex color.
// Sampling accepts any values; interpolation and swatches need hex colors.
func ValidateHex(scale ColorScale) error {
	_, err := parseScale(scale)
	return err
}

func parseScale(scale ColorScale) ([]color.RGBA, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidArgument)
	}
	colors := make([]color.RGBA, len(scale))
	for i, s := range scale {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

func mustLinear(name string) LinearColormap {
	c, err := NewLinear(MustLoadScale(name))
	if err != nil {
		panic(err)
	}
	return c
}

// Viridis colormap (matplotlib viridis)
var Viridis = mustLinear("viridis")

// Plasma colormap
var Plasma = mustLinear("plasma")

// Inferno colormap
var Inferno = mustLinear("inferno")

// Magma colormap
var Magma = mustLinear("magma")

// Seurat is the grey-to-red feature plot scale.
var Seurat = mustLinear("seurat")

// Categorical colormap with 20 distinct colors
var Categorical = func() CategoricalColormap {
	c, err := NewCategorical(MustLoadScale("category20"))
	if err != nil {
		panic(err)
	}
	return c
}()
