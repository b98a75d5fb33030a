package colormap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	jsonExt = ".json"
	zstExt  = ".json.zst"
)

// ScaleName returns the palette name for a palette file path and whether the
// file has a recognized extension (".json" or ".json.zst").
func ScaleName(p string) (string, bool) {
	base := filepath.Base(p)
	switch {
	case strings.HasSuffix(base, zstExt):
		return strings.TrimSuffix(base, zstExt), true
	case strings.HasSuffix(base, jsonExt):
		return strings.TrimSuffix(base, jsonExt), true
	}
	return "", false
}

// ReadScaleFile decodes a palette file holding a JSON array of colors.
// Files ending in ".json.zst" are zstd-compressed.
func ReadScaleFile(p string) (ColorScale, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(p, zstExt) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress %s failed: %w", p, err)
		}
	}

	var s ColorScale
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode palette %s: %w", p, err)
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: palette file %s has no colors", ErrInvalidArgument, p)
	}
	return s, nil
}

// ReadScaleDir reads every palette file in dir, keyed by palette name.
// Subdirectories and files with other extensions are ignored.
func ReadScaleDir(dir string) (map[string]ColorScale, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	scales := make(map[string]ColorScale)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := ScaleName(e.Name())
		if !ok {
			continue
		}
		if _, dup := scales[name]; dup {
			return nil, fmt.Errorf("palette %q defined more than once in %s", name, dir)
		}
		s, err := ReadScaleFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		scales[name] = s
	}
	return scales, nil
}

// WriteScaleFile encodes s as a palette file, compressing it when p ends in ".json.zst".
func WriteScaleFile(p string, s ColorScale) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if strings.HasSuffix(p, zstExt) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(p, data, 0644)
}
