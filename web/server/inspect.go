package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tracelab/go-path-tracer/pkg/core"
	"github.com/tracelab/go-path-tracer/pkg/renderer"
	"github.com/tracelab/go-path-tracer/pkg/scene"
)

// InspectResponse describes what the camera ray through one pixel hits,
// letting the client show hover details over the preview image.
type InspectResponse struct {
	Hit       bool                   `json:"hit"`
	ShapeType string                 `json:"shapeType,omitempty"`
	Point     [3]float32             `json:"point,omitempty"`
	Normal    [3]float32             `json:"normal,omitempty"`
	Distance  float32                `json:"distance,omitempty"`
	RayOrigin [3]float32             `json:"rayOrigin"`
	RayDir    [3]float32             `json:"rayDir"`
	Shape     map[string]interface{} `json:"shape,omitempty"`
}

// handleInspect casts the deterministic center ray through one pixel and
// returns the first intersection as JSON.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	uniforms, err := s.buildUniforms(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid configuration: "+err.Error())
		return
	}

	world, err := s.createWorld(req.Scene, uniforms.Time)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := inspectPixel(&uniforms, world, req.Width, req.Height, pixelX, pixelY)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// inspectPixel traces the unjittered center ray through the pixel. The probe
// copy of the uniforms disables antialiasing and the lens so the ray is the
// same one the client hovers over, independent of the render settings.
func inspectPixel(uniforms *core.Uniforms, world *scene.Scene, width, height, pixelX, pixelY int) InspectResponse {
	probe := *uniforms
	probe.Samples = 1
	probe.Aperture = 0

	camera := renderer.NewCamera(&probe, width, height)
	sampler := core.NewPixelSampler(probe.Seed, pixelX, pixelY, 0)
	ray := camera.GetRay(pixelX, pixelY, sampler)

	response := InspectResponse{
		RayOrigin: ray.Origin,
		RayDir:    ray.Dir,
	}

	// Walk the shape list directly so the response can name what was hit.
	// The scene has no acceleration structure, so this matches Hit exactly.
	bestT := float32(1e4)
	for _, shape := range world.Shapes {
		hit, t, ok := shape.Hit(ray, 1e-3, bestT)
		if !ok {
			continue
		}
		bestT = t
		response.Hit = true
		response.Point = hit.Pos
		response.Normal = hit.Normal
		response.Distance = t
		response.ShapeType, response.Shape = describeShape(shape)
	}

	return response
}

// describeShape reports the concrete primitive type and its parameters.
func describeShape(shape scene.Shape) (string, map[string]interface{}) {
	switch sh := shape.(type) {
	case *scene.Sphere:
		return "sphere", map[string]interface{}{
			"center": sh.Center,
			"radius": sh.Radius,
		}
	case *scene.Plane:
		return "plane", map[string]interface{}{
			"point":  sh.Point,
			"normal": sh.Normal,
		}
	default:
		return "unknown", nil
	}
}

// writeJSONError writes an error response in the API's JSON envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
