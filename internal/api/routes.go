// Package api provides HTTP handlers for the palette server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/atlasmap-sc/colorscale/internal/cache"
	"github.com/atlasmap-sc/colorscale/internal/render"
	"github.com/atlasmap-sc/colorscale/internal/service"
	"github.com/atlasmap-sc/colorscale/pkg/colormap"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// maxAssignBody limits the category assignment request body.
const maxAssignBody = 4 << 20

// RouterConfig contains router configuration.
type RouterConfig struct {
	Service     *service.PaletteService
	Cache       *cache.Manager
	CORSOrigins []string
	Title       string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", infoHandler(cfg))
		r.Get("/palettes", palettesHandler(cfg.Service))

		r.Route("/palettes/{name}", func(r chi.Router) {
			r.Get("/", paletteHandler(cfg.Service))
			r.Get("/sample", sampleHandler(cfg.Service))
			r.Get("/gradient", gradientHandler(cfg.Service))
			r.Get("/swatch.png", swatchHandler(cfg.Service))
			r.Post("/assign", assignHandler(cfg.Service))
		})
	})

	return r
}

// infoHandler returns the site title, default palette and cache statistics.
func infoHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"title":   cfg.Title,
			"default": cfg.Service.DefaultPalette(),
		}
		if cfg.Cache != nil {
			response["cache"] = cfg.Cache.Stats()
		}
		writeJSON(w, response)
	}
}

// palettesHandler returns the list of available palettes.
func palettesHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"default":  svc.DefaultPalette(),
			"palettes": svc.Palettes(),
		})
	}
}

func paletteHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		scale, err := svc.Scale(name)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]interface{}{
			"name":   name,
			"colors": scale,
		})
	}
}

func sampleHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		query := r.URL.Query()
		if strings.TrimSpace(query.Get("n")) == "" {
			http.Error(w, "missing required query param: n", http.StatusBadRequest)
			return
		}
		n, err := parseIntParam(query, "n", 0)
		if err != nil {
			writeError(w, err)
			return
		}

		colors, err := svc.Sample(name, n)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]interface{}{
			"name":      name,
			"requested": n,
			"count":     len(colors),
			"colors":    colors,
		})
	}
}

func gradientHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		steps, err := parseIntParam(r.URL.Query(), "steps", 256)
		if err != nil {
			writeError(w, err)
			return
		}
		if steps > 4096 {
			http.Error(w, "steps must be <= 4096", http.StatusBadRequest)
			return
		}

		colors, err := svc.Gradient(name, steps)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]interface{}{
			"name":   name,
			"steps":  steps,
			"colors": colors,
		})
	}
}

func swatchHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		query := r.URL.Query()

		// Without n the whole palette is drawn.
		n, err := parseIntParam(query, "n", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		if strings.TrimSpace(query.Get("n")) == "" {
			scale, err := svc.Scale(name)
			if err != nil {
				writeError(w, err)
				return
			}
			n = scale.Len()
		}

		width, err := parseIntParam(query, "width", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		height, err := parseIntParam(query, "height", 0)
		if err != nil {
			writeError(w, err)
			return
		}

		var vertical bool
		switch strings.ToLower(query.Get("orientation")) {
		case "", "horizontal", "h":
		case "vertical", "v":
			vertical = true
		default:
			http.Error(w, "orientation must be horizontal or vertical", http.StatusBadRequest)
			return
		}

		data, err := svc.Swatch(name, n, width, height, vertical)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(data)
	}
}

type assignRequest struct {
	Categories []string `json:"categories"`
}

func assignHandler(svc *service.PaletteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		body, err := io.ReadAll(io.LimitReader(r.Body, maxAssignBody+1))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		if len(body) > maxAssignBody {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		var req assignRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.AssignCategories(name, req.Categories)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]interface{}{
			"name":  name,
			"items": items,
		})
	}
}

var errBadParam = errors.New("bad query parameter")

// parseIntParam returns def when key is absent.
func parseIntParam(query url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errBadParam, key, raw)
	}
	return v, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, colormap.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, colormap.ErrInvalidArgument),
		errors.Is(err, render.ErrInvalidSize),
		errors.Is(err, errBadParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api] internal error: %v", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
