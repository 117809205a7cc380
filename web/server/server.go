package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request limits shared by the render and inspect endpoints
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxPasses    = 1000
	maxDepth     = 500
)

// Server handles web requests for the progressive path tracer
type Server struct {
	port   int
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer creates a web server. Static files are served from staticDir when it is not empty.
func NewServer(port int, staticDir string, logger *slog.Logger) *Server {
	s := &Server{
		port:   port,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	if staticDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	}
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting web server", "addr", "http://localhost"+httpServer.Addr)
	return httpServer.ListenAndServe()
}

// SceneRequest holds the scene selection shared by every scene endpoint
type SceneRequest struct {
	Scene  string `json:"scene"`  // Registry ID, e.g. "cornell-box"
	Width  int    `json:"width"`  // 0 uses the scene's width
	Height int    `json:"height"` // 0 keeps the scene's aspect ratio
	Seed   int64  `json:"seed"`
}

// cameraOverride converts the requested size into a camera config override
func (r SceneRequest) cameraOverride() geometry.CameraConfig {
	override := geometry.CameraConfig{Width: r.Width}
	if r.Width > 0 && r.Height > 0 {
		override.AspectRatio = float64(r.Width) / float64(r.Height)
	}
	return override
}

// buildScene constructs the requested scene
func (r SceneRequest) buildScene() (*scene.Scene, error) {
	return scene.New(r.Scene, core.NewSeededSampler(r.Seed), r.cameraOverride())
}

// parseSceneParams parses the scene, size and seed parameters
func parseSceneParams(values url.Values) (SceneRequest, error) {
	req := SceneRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell-box"
	}
	if _, ok := scene.Lookup(req.Scene); !ok {
		return req, fmt.Errorf("%w: %q", scene.ErrUnknownScene, req.Scene)
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minImageSize, maxImageSize); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minImageSize, maxImageSize); err != nil {
		return req, err
	}
	if req.Height > 0 && req.Width == 0 {
		return req, errors.New("height requires width")
	}
	if seed := values.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			return req, fmt.Errorf("invalid seed: %s", seed)
		}
	} else {
		req.Seed = 42
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes v with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the registered scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, scene.ListAllScenes())
}

// handleSceneConfig returns the recommended settings for a scene and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sceneObj, err := req.buildScene()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	info, _ := scene.Lookup(req.Scene)

	config := sceneObj.SamplingConfig
	s.writeJSON(w, http.StatusOK, map[string]any{
		"scene":       req.Scene,
		"displayName": info.DisplayName,
		"defaults": map[string]any{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
		},
		"limits": map[string]any{
			"width":      map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":     map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": maxPasses},
			"maxDepth":   map[string]int{"min": 1, "max": maxDepth},
		},
	})
}
