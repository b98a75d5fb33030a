package colormap

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestSeuratColormapEndpoints(t *testing.T) {
	t.Parallel()

	c0, ok := Seurat.At(0).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=0")
	}
	if c0 != (color.RGBA{R: 211, G: 211, B: 211, A: 255}) {
		t.Fatalf("unexpected Seurat.At(0): %#v", c0)
	}

	c1, ok := Seurat.At(1).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=1")
	}
	if c1 != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Fatalf("unexpected Seurat.At(1): %#v", c1)
	}
}

func TestViridisMatchesPalette(t *testing.T) {
	t.Parallel()

	if got := Hex(Viridis.At(0)); got != "#440154" {
		t.Fatalf("unexpected Viridis.At(0): %s", got)
	}
	if got := Hex(Viridis.At(1)); got != "#fde725" {
		t.Fatalf("unexpected Viridis.At(1): %s", got)
	}
}

func TestCategoricalAtIndexWraps(t *testing.T) {
	t.Parallel()

	if Categorical.AtIndex(0) != Categorical.AtIndex(20) {
		t.Fatalf("expected index 20 to wrap to 0")
	}
	if Categorical.AtIndex(-1) != Categorical.AtIndex(19) {
		t.Fatalf("expected index -1 to wrap to 19")
	}
	if got := Hex(Categorical.AtIndex(1)); got != "#ff7f0e" {
		t.Fatalf("unexpected Categorical.AtIndex(1): %s", got)
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#1f77b4")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if c != (color.RGBA{R: 31, G: 119, B: 180, A: 255}) {
		t.Fatalf("unexpected color: %#v", c)
	}
	if _, err := ParseColor("blue"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for named color, got %v", err)
	}
	if _, err := NewLinear(ColorScale{"#000000", "oops"}); err == nil {
		t.Fatalf("expected NewLinear to reject invalid colors")
	}
}

func TestColormapAt_NaN(t *testing.T) {
	t.Parallel()

	if got := Hex(Viridis.At(math.NaN())); got != "#440154" {
		t.Fatalf("Viridis.At(NaN) = %s, want low end #440154", got)
	}
	if got := Hex(Categorical.At(math.NaN())); got != "#1f77b4" {
		t.Fatalf("Categorical.At(NaN) = %s, want first color #1f77b4", got)
	}
}

func TestValidateHex(t *testing.T) {
	t.Parallel()

	if err := ValidateHex(ColorScale{"#000000", "#fff"}); err != nil {
		t.Fatalf("ValidateHex failed: %v", err)
	}
	if err := ValidateHex(ColorScale{"#000000", "teal"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := ValidateHex(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty palette, got %v", err)
	}
}
