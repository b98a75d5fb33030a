// Package main is the entry point for the palette server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasmap-sc/colorscale/internal/api"
	"github.com/atlasmap-sc/colorscale/internal/cache"
	"github.com/atlasmap-sc/colorscale/internal/config"
	"github.com/atlasmap-sc/colorscale/internal/palettestore"
	"github.com/atlasmap-sc/colorscale/internal/render"
	"github.com/atlasmap-sc/colorscale/internal/service"
	"github.com/atlasmap-sc/colorscale/pkg/colormap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/server.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting palette server on port %d", cfg.Server.Port)

	ctx := context.Background()

	// Compose the palette registry once; it is read-only from here on.
	registry, err := loadRegistry(cfg.Palettes)
	if err != nil {
		log.Fatalf("Failed to load palettes: %v", err)
	}
	log.Printf("Loaded %d palette(s), default: %s", registry.Len(), cfg.Palettes.Default)

	cacheManager, err := cache.NewManager(cache.Config{
		SwatchCacheSizeMB: cfg.Cache.SwatchSizeMB,
		SwatchTTL:         time.Duration(cfg.Cache.SwatchTTLMinutes) * time.Minute,
		SampleCacheSize:   cfg.Cache.SampleCacheSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheManager.Close()

	swatchRenderer := render.NewSwatchRenderer(render.Config{
		Width:  cfg.Render.SwatchWidth,
		Height: cfg.Render.SwatchHeight,
	})

	paletteService, err := service.NewPaletteService(service.PaletteServiceConfig{
		Registry:       registry,
		Cache:          cacheManager,
		Renderer:       swatchRenderer,
		DefaultPalette: cfg.Palettes.Default,
	})
	if err != nil {
		log.Fatalf("Failed to initialize palette service: %v", err)
	}

	// Set up HTTP router
	router := api.NewRouter(api.RouterConfig{
		Service:     paletteService,
		Cache:       cacheManager,
		CORSOrigins: cfg.Server.CORSOrigins,
		Title:       cfg.Server.Title,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadRegistry layers palettes: bundled, then the palette directory, then the
// SQLite store. Later sources replace same-named palettes from earlier ones.
func loadRegistry(cfg config.PalettesConfig) (*colormap.Registry, error) {
	registry, err := colormap.Builtin()
	if err != nil {
		return nil, fmt.Errorf("builtin palettes: %w", err)
	}

	if cfg.Dir != "" {
		scales, err := colormap.ReadScaleDir(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("palette dir %s: %w", cfg.Dir, err)
		}
		registry, err = registry.With(scales)
		if err != nil {
			return nil, err
		}
		log.Printf("  [palettes] %d palette(s) from %s", len(scales), cfg.Dir)
	}

	if cfg.SQLitePath != "" {
		store, err := palettestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		scales, err := store.All()
		if err != nil {
			return nil, fmt.Errorf("palette store %s: %w", cfg.SQLitePath, err)
		}
		registry, err = registry.With(scales)
		if err != nil {
			return nil, err
		}
		log.Printf("  [palettes] %d palette(s) from %s", len(scales), cfg.SQLitePath)
	}

	return registry, nil
}
