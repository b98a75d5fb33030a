// Package render provides palette swatch rendering using fogleman/gg.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/atlasmap-sc/colorscale/pkg/colormap"
	"github.com/fogleman/gg"
)

// MaxSwatchSide bounds swatch width and height in pixels.
const MaxSwatchSide = 4096

// ErrInvalidSize is returned for non-positive or oversized swatch dimensions.
var ErrInvalidSize = errors.New("invalid swatch size")

// Config contains renderer configuration.
type Config struct {
	Width  int // default swatch width in pixels
	Height int // default swatch height in pixels
}

// SwatchRenderer renders color lists as PNG strips.
type SwatchRenderer struct {
	config     Config
	bufferPool sync.Pool
}

// NewSwatchRenderer creates a new swatch renderer.
func NewSwatchRenderer(cfg Config) *SwatchRenderer {
	if cfg.Width <= 0 {
		cfg.Width = 256
	}
	if cfg.Height <= 0 {
		cfg.Height = 24
	}
	return &SwatchRenderer{
		config: cfg,
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 8*1024))
			},
		},
	}
}

// DefaultSize returns the configured swatch width and height.
func (r *SwatchRenderer) DefaultSize() (int, int) {
	return r.config.Width, r.config.Height
}

// RenderSwatch renders colors as equal cells laid out left to right, or top
// to bottom when vertical is set. Zero width or height selects the default.
func (r *SwatchRenderer) RenderSwatch(colors []string, width, height int, vertical bool) ([]byte, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: no colors to render", colormap.ErrInvalidArgument)
	}
	if width == 0 {
		width = r.config.Width
	}
	if height == 0 {
		height = r.config.Height
	}
	if width < 0 || height < 0 || width > MaxSwatchSide || height > MaxSwatchSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	// Parse up front so a bad color never leaves a half-drawn canvas.
	parsed := make([]color.RGBA, len(colors))
	for i, c := range colors {
		rgba, err := colormap.ParseColor(c)
		if err != nil {
			return nil, err
		}
		parsed[i] = rgba
	}

	dc := gg.NewContext(width, height)

	length := width
	if vertical {
		length = height
	}
	cell := float64(length) / float64(len(parsed))

	// Snap cell edges to whole pixels; gg antialiases fractional edges.
	for i, c := range parsed {
		start := int(math.Round(float64(i) * cell))
		end := int(math.Round(float64(i+1) * cell))
		if i == len(parsed)-1 {
			end = length
		}
		if end <= start {
			continue
		}
		dc.SetColor(c)
		if vertical {
			dc.DrawRectangle(0, float64(start), float64(width), float64(end-start))
		} else {
			dc.DrawRectangle(float64(start), 0, float64(end-start), float64(height))
		}
		dc.Fill()
	}

	return r.encodeContext(dc)
}

func (r *SwatchRenderer) encodeContext(dc *gg.Context) ([]byte, error) {
	buf := r.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		r.bufferPool.Put(buf)
	}()

	// Use fast PNG encoder
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(buf, dc.Image()); err != nil {
		return nil, err
	}

	// Copy buffer contents (buffer will be reused)
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}
