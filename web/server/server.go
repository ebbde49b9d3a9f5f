// Package server exposes the progressive renderer over HTTP for an in-browser
// preview. A render request carries the full frame configuration; the server
// builds the uniform block from it, streams pass and tile snapshots back over
// Server-Sent Events, and tears everything down when the client disconnects.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
	"github.com/tracelab/go-path-tracer/pkg/renderer"
	"github.com/tracelab/go-path-tracer/pkg/scene"
)

// Server handles web requests for the progressive path tracer.
type Server struct {
	port int
}

// NewServer creates a new web server.
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest is a frame configuration parsed from query parameters. It
// maps almost one to one onto the uniform block, plus the image size and the
// pass count, which are host-side concerns.
type RenderRequest struct {
	Scene       string  `json:"scene"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Samples     int     `json:"samples"`     // Per-pixel sample budget
	Bounces     int     `json:"bounces"`     // Maximum path length
	Mode        string  `json:"mode"`        // "pathtrace" or "normals"
	Aperture    float64 `json:"aperture"`    // Lens diameter, 0 disables depth of field
	FocalLength float64 `json:"focalLength"` // Distance to the plane of focus
	Exposure    float64 `json:"exposure"`
	Seed        uint32  `json:"seed"` // 0 lets the server pick one
	Time        float64 `json:"time"` // Frame time for animated scenes
	MaxPasses   int     `json:"maxPasses"`
}

// Start starts the web server.
func (s *Server) Start() error {
	// Serve static files
	http.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/defaults", s.handleDefaults)
	http.HandleFunc("/api/inspect", s.handleInspect)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// parseRenderRequest parses and validates the frame configuration from the
// query string, falling back to the uniform defaults where a parameter is
// absent.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{}

	if req.Scene = q.Get("scene"); req.Scene == "" {
		req.Scene = "default"
	}
	if req.Mode = q.Get("mode"); req.Mode == "" {
		req.Mode = "pathtrace"
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", 300, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(q, "samples", 64, 0, 10000); err != nil {
		return nil, err
	}
	if req.Bounces, err = parseIntParam(q, "bounces", 3, 0, 64); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(q, "maxPasses", 5, 1, 1000); err != nil {
		return nil, err
	}
	if req.Aperture, err = parseFloatParam(q, "aperture", 0, 0, 10); err != nil {
		return nil, err
	}
	if req.FocalLength, err = parseFloatParam(q, "focalLength", 4, 0, 1000); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(q, "exposure", 1, 0, 100); err != nil {
		return nil, err
	}
	if req.Time, err = parseFloatParam(q, "time", 0, 0, 1e9); err != nil {
		return nil, err
	}

	seed, err := parseIntParam(q, "seed", 0, 0, 1<<31)
	if err != nil {
		return nil, err
	}
	req.Seed = uint32(seed)

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// buildUniforms converts a parsed request into a validated uniform block
// with the camera placed at the standard viewpoint.
func (s *Server) buildUniforms(req *RenderRequest) (core.Uniforms, error) {
	mode, err := parseMode(req.Mode)
	if err != nil {
		return core.Uniforms{}, err
	}

	u := core.DefaultUniforms()
	u.Seed = req.Seed
	u.Samples = uint32(req.Samples)
	u.Bounces = uint32(req.Bounces)
	u.Mode = mode
	u.FocalLength = float32(req.FocalLength)
	u.Aperture = float32(req.Aperture)
	u.Exposure = float32(req.Exposure)
	u.Time = float32(req.Time)

	aspect := float32(req.Width) / float32(req.Height)
	renderer.SetCameraTransform(&u,
		mgl32.Vec3{0, 0, -4}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		60, aspect, 0.01, 100)

	if err := u.Validate(); err != nil {
		return core.Uniforms{}, err
	}
	return u, nil
}

// parseMode maps a mode name to its uniform value.
func parseMode(mode string) (uint32, error) {
	switch mode {
	case "pathtrace":
		return core.ModePathTracing, nil
	case "normals":
		return core.ModeNormals, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", mode)
	}
}

// createWorld builds the tracer for the named scene.
func (s *Server) createWorld(name string, frameTime float32) (*scene.Scene, error) {
	switch name {
	case "default":
		return scene.NewDefaultScene(), nil
	case "orbit":
		return scene.NewOrbitScene(frameTime), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// parseIntParam parses an integer parameter from the URL query with validation.
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

// parseFloatParam parses a float parameter from the URL query with validation.
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// handleDefaults returns the uniform defaults and the parameter limits the
// render endpoint enforces, so the client can build its controls from one
// source of truth.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	defaults := core.DefaultUniforms()
	response := map[string]interface{}{
		"scenes": []string{"default", "orbit"},
		"modes":  []string{"pathtrace", "normals"},
		"defaults": map[string]interface{}{
			"width":       400,
			"height":      300,
			"samples":     defaults.Samples,
			"bounces":     defaults.Bounces,
			"aperture":    defaults.Aperture,
			"focalLength": defaults.FocalLength,
			"exposure":    defaults.Exposure,
			"maxPasses":   5,
		},
		"limits": map[string]interface{}{
			"width":       map[string]int{"min": 16, "max": 2000},
			"height":      map[string]int{"min": 16, "max": 2000},
			"samples":     map[string]int{"min": 0, "max": 10000},
			"bounces":     map[string]int{"min": 0, "max": 64},
			"maxPasses":   map[string]int{"min": 1, "max": 1000},
			"aperture":    map[string]float64{"min": 0, "max": 10},
			"focalLength": map[string]float64{"min": 0, "max": 1000},
			"exposure":    map[string]float64{"min": 0, "max": 100},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
