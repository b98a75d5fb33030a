// Package service provides business logic for the palette server.
package service

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/atlasmap-sc/colorscale/internal/cache"
	"github.com/atlasmap-sc/colorscale/internal/render"
	"github.com/atlasmap-sc/colorscale/pkg/colormap"
)

// PaletteServiceConfig contains palette service configuration.
type PaletteServiceConfig struct {
	Registry       *colormap.Registry
	Cache          *cache.Manager
	Renderer       *render.SwatchRenderer
	DefaultPalette string
}

// PaletteService resolves, samples and renders palettes.
// It holds no mutable state besides its caches and is safe for concurrent use.
type PaletteService struct {
	registry       *colormap.Registry
	cache          *cache.Manager
	renderer       *render.SwatchRenderer
	defaultPalette string
}

// PaletteInfo describes a registered palette.
type PaletteInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// CategoryColor is the color assigned to one category value.
type CategoryColor struct {
	Value string `json:"value"`
	Color string `json:"color"`
	Index int    `json:"index"`
}

// NewPaletteService creates a new palette service.
func NewPaletteService(cfg PaletteServiceConfig) (*PaletteService, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("palette service requires a registry")
	}
	if cfg.DefaultPalette != "" && !cfg.Registry.Has(cfg.DefaultPalette) {
		return nil, fmt.Errorf("default palette: %w: %q", colormap.ErrNotFound, cfg.DefaultPalette)
	}
	return &PaletteService{
		registry:       cfg.Registry,
		cache:          cfg.Cache,
		renderer:       cfg.Renderer,
		defaultPalette: cfg.DefaultPalette,
	}, nil
}

// DefaultPalette returns the palette used when a request names none.
func (s *PaletteService) DefaultPalette() string {
	return s.defaultPalette
}

func (s *PaletteService) resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.defaultPalette
	}
	return name
}

// Palettes returns info for every registered palette in name order.
func (s *PaletteService) Palettes() []PaletteInfo {
	names := s.registry.Names()
	infos := make([]PaletteInfo, 0, len(names))
	for _, name := range names {
		scale, err := s.registry.Load(name)
		if err != nil {
			continue
		}
		infos = append(infos, PaletteInfo{Name: name, Size: scale.Len()})
	}
	return infos
}

// Scale returns the full palette. An empty name selects the default palette.
func (s *PaletteService) Scale(name string) (colormap.ColorScale, error) {
	return s.registry.Load(s.resolve(name))
}

// Sample returns min(n, size) colors of the named palette, ending on its last color.
func (s *PaletteService) Sample(name string, n int) (colormap.ColorScale, error) {
	name = s.resolve(name)
	return s.cached(cache.SampleKey(name, n), func() (colormap.ColorScale, error) {
		scale, err := s.registry.Load(name)
		if err != nil {
			return nil, err
		}
		return colormap.Sample(scale, n)
	})
}

// Gradient returns steps colors interpolated along the named palette.
func (s *PaletteService) Gradient(name string, steps int) (colormap.ColorScale, error) {
	name = s.resolve(name)
	return s.cached(cache.GradientKey(name, steps), func() (colormap.ColorScale, error) {
		scale, err := s.registry.Load(name)
		if err != nil {
			return nil, err
		}
		return colormap.Gradient(scale, steps)
	})
}

// cached memoizes successful color list computations in the sample cache.
// Results are cloned on the way in and out so callers may modify them.
func (s *PaletteService) cached(key string, compute func() (colormap.ColorScale, error)) (colormap.ColorScale, error) {
	if s.cache != nil {
		if colors, ok := s.cache.GetSample(key); ok {
			return slices.Clone(colormap.ColorScale(colors)), nil
		}
	}
	colors, err := compute()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetSample(key, slices.Clone(colors))
	}
	return colors, nil
}

// Swatch renders Sample(name, n) as a PNG strip. Zero width or height selects
// the renderer default.
func (s *PaletteService) Swatch(name string, n, width, height int, vertical bool) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("swatch rendering is not configured")
	}
	name = s.resolve(name)
	if width == 0 || height == 0 {
		dw, dh := s.renderer.DefaultSize()
		if width == 0 {
			width = dw
		}
		if height == 0 {
			height = dh
		}
	}

	key := cache.SwatchKey(name, n, width, height, vertical)
	if s.cache != nil {
		if data, ok := s.cache.GetSwatch(key); ok {
			return data, nil
		}
	}

	colors, err := s.Sample(name, n)
	if err != nil {
		return nil, err
	}
	data, err := s.renderer.RenderSwatch(colors, width, height, vertical)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSwatch(key, data); err != nil {
			log.Printf("[palettes] failed to cache swatch %s: %v", key, err)
		}
	}
	return data, nil
}

// AssignCategories gives every distinct category a color, in first-seen order.
// Colors come from Sample(name, k) for k distinct categories; when k exceeds
// the palette size the sampled colors repeat cyclically.
func (s *PaletteService) AssignCategories(name string, categories []string) ([]CategoryColor, error) {
	distinct := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		distinct = append(distinct, c)
	}
	if len(distinct) == 0 {
		return nil, fmt.Errorf("%w: no categories", colormap.ErrInvalidArgument)
	}

	name = s.resolve(name)
	colors, err := s.cached(cache.AssignKey(name, distinct), func() (colormap.ColorScale, error) {
		sampled, err := s.Sample(name, len(distinct))
		if err != nil {
			return nil, err
		}
		assigned := make(colormap.ColorScale, len(distinct))
		for i := range assigned {
			assigned[i] = sampled[i%len(sampled)]
		}
		return assigned, nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]CategoryColor, len(distinct))
	for i, value := range distinct {
		items[i] = CategoryColor{
			Value: value,
			Color: colors[i],
			Index: i,
		}
	}
	return items, nil
}
