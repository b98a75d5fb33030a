// Package config handles configuration loading for the palette server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Palettes PalettesConfig `yaml:"palettes"`
	Cache    CacheConfig    `yaml:"cache"`
	Render   RenderConfig   `yaml:"render"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	Title       string   `yaml:"title"`
}

// PalettesConfig contains palette source settings.
type PalettesConfig struct {
	Default    string `yaml:"default"`
	Dir        string `yaml:"dir"`         // optional directory of <name>.json / <name>.json.zst files
	SQLitePath string `yaml:"sqlite_path"` // optional palette store
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	SwatchSizeMB     int `yaml:"swatch_size_mb"`
	SwatchTTLMinutes int `yaml:"swatch_ttl_minutes"`
	SampleCacheSize  int `yaml:"sample_cache_size"`
}

// RenderConfig contains swatch rendering settings.
type RenderConfig struct {
	SwatchWidth  int `yaml:"swatch_width"`
	SwatchHeight int `yaml:"swatch_height"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			Title:       "AtlasMap Palettes",
		},
		Palettes: PalettesConfig{
			Default: "viridis",
		},
		Cache: CacheConfig{
			SwatchSizeMB:     64,
			SwatchTTLMinutes: 10,
			SampleCacheSize:  1000,
		},
		Render: RenderConfig{
			SwatchWidth:  256,
			SwatchHeight: 24,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if cfg.Server.Title == "" {
		cfg.Server.Title = defaults.Server.Title
	}
	if cfg.Palettes.Default == "" {
		cfg.Palettes.Default = defaults.Palettes.Default
	}
	if cfg.Cache.SwatchSizeMB == 0 {
		cfg.Cache.SwatchSizeMB = defaults.Cache.SwatchSizeMB
	}
	if cfg.Cache.SwatchTTLMinutes == 0 {
		cfg.Cache.SwatchTTLMinutes = defaults.Cache.SwatchTTLMinutes
	}
	if cfg.Cache.SampleCacheSize == 0 {
		cfg.Cache.SampleCacheSize = defaults.Cache.SampleCacheSize
	}
	if cfg.Render.SwatchWidth == 0 {
		cfg.Render.SwatchWidth = defaults.Render.SwatchWidth
	}
	if cfg.Render.SwatchHeight == 0 {
		cfg.Render.SwatchHeight = defaults.Render.SwatchHeight
	}
}
