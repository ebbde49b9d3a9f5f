package integrator

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// Integrator defines the interface for light transport strategies. An
// integrator evaluates one camera ray against the intersection collaborator
// and returns linear radiance; the caller owns averaging over samples and
// exposure scaling.
type Integrator interface {
	RayColor(ray core.Ray, tracer core.Tracer, sampler core.Sampler) mgl32.Vec3
}

// Config carries the shading constants the core treats as opaque: surface
// reflectance and the sky radiance returned on a miss. Full material models
// live with the intersection collaborator, outside this package.
type Config struct {
	Albedo    mgl32.Vec3 // uniform Lambertian reflectance applied at every bounce
	SkyTop    mgl32.Vec3 // sky radiance straight up
	SkyBottom mgl32.Vec3 // sky radiance at the horizon and below
}

// DefaultConfig returns a neutral gray surface under a blue-white gradient sky.
func DefaultConfig() Config {
	return Config{
		Albedo:    mgl32.Vec3{0.65, 0.65, 0.65},
		SkyTop:    mgl32.Vec3{0.5, 0.7, 1.0},
		SkyBottom: mgl32.Vec3{1.0, 1.0, 1.0},
	}
}

// ForMode returns the integrator selected by the uniform block's Mode field.
// Unknown mode values fall back to path tracing so new host-side modes fail
// soft instead of rendering nothing.
func ForMode(uniforms *core.Uniforms, config Config) Integrator {
	switch uniforms.Mode {
	case core.ModeNormals:
		return NewNormalIntegrator()
	default:
		return NewPathTracer(uniforms, config)
	}
}

// skyRadiance returns the gradient background for a miss, interpolating on
// the ray's vertical component the same way the display sky does.
func skyRadiance(ray core.Ray, config Config) mgl32.Vec3 {
	t := 0.5 * (ray.Dir.Y() + 1.0)
	return core.Lerp(config.SkyBottom, config.SkyTop, t)
}
