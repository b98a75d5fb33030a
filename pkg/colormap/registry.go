package colormap

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"
)

//go:embed palettes/*.json
var paletteFS embed.FS

// Registry is an immutable set of named palettes.
// A Registry is safe for concurrent use; it is never modified after construction.
type Registry struct {
	scales map[string]ColorScale
	names  []string
}

func newRegistry(scales map[string]ColorScale) *Registry {
	names := make([]string, 0, len(scales))
	for name := range scales {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Registry{scales: scales, names: names}
}

// Load returns a copy of the palette registered under name.
func (r *Registry) Load(name string) (ColorScale, error) {
	s, ok := r.scales[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return slices.Clone(s), nil
}

// Has reports whether a palette is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.scales[name]
	return ok
}

// Names returns all palette names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered palettes.
func (r *Registry) Len() int {
	return len(r.scales)
}

// With returns a new registry holding r's palettes plus extra.
// Palettes in extra replace same-named palettes of r; r itself is unchanged.
func (r *Registry) With(extra map[string]ColorScale) (*Registry, error) {
	scales := make(map[string]ColorScale, len(r.scales)+len(extra))
	for name, s := range r.scales {
		scales[name] = s
	}
	for name, s := range extra {
		if err := validateEntry(name, s); err != nil {
			return nil, err
		}
		scales[name] = slices.Clone(s)
	}
	return newRegistry(scales), nil
}

func validateEntry(name string, s ColorScale) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty palette name", ErrInvalidArgument)
	}
	if len(s) == 0 {
		return fmt.Errorf("%w: palette %q has no colors", ErrInvalidArgument, name)
	}
	return nil
}

var builtin = sync.OnceValues(func() (*Registry, error) {
	entries, err := fs.ReadDir(paletteFS, "palettes")
	if err != nil {
		return nil, err
	}

	scales := make(map[string]ColorScale, len(entries))
	for _, e := range entries {
		data, err := paletteFS.ReadFile(path.Join("palettes", e.Name()))
		if err != nil {
			return nil, err
		}
		var s ColorScale
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode palette %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if err := validateEntry(name, s); err != nil {
			return nil, err
		}
		scales[name] = s
	}
	return newRegistry(scales), nil
})

// Builtin returns the registry of palettes bundled with the package.
// It is decoded once on first use and shared afterwards.
func Builtin() (*Registry, error) {
	return builtin()
}

// LoadScale returns the bundled palette registered under name.
func LoadScale(name string) (ColorScale, error) {
	r, err := builtin()
	if err != nil {
		return nil, err
	}
	return r.Load(name)
}

// MustLoadScale is like LoadScale but panics on error.
func MustLoadScale(name string) ColorScale {
	s, err := LoadScale(name)
	if err != nil {
		panic(err)
	}
	return s
}
