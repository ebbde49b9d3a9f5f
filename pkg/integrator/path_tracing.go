package integrator

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// shadowBias offsets bounce origins along the surface normal so the next
// intersection query does not re-hit the surface it just left.
const shadowBias = 1e-3

// PathTracer implements unidirectional path tracing with uniform hemisphere
// sampling. Each path starts at the camera, bounces up to Uniforms.Bounces
// times, and terminates on a miss (collecting sky radiance) or when the
// bounce budget is exhausted (collecting nothing).
type PathTracer struct {
	uniforms *core.Uniforms
	config   Config
}

// NewPathTracer creates a path tracing integrator bound to one frame's
// uniform block.
func NewPathTracer(uniforms *core.Uniforms, config Config) *PathTracer {
	return &PathTracer{uniforms: uniforms, config: config}
}

// RayColor traces one full path. The draw order is strictly sequential: one
// 2D draw per bounce, nothing on the primary segment, so the sample sequence
// for a pixel is reproducible from its seed alone.
func (pt *PathTracer) RayColor(ray core.Ray, tracer core.Tracer, sampler core.Sampler) mgl32.Vec3 {
	throughput := mgl32.Vec3{1, 1, 1}

	for bounce := uint32(0); ; bounce++ {
		hit, ok := tracer.Hit(ray)
		if !ok {
			// Escaped the scene; the sky is the only light source here.
			return core.MulComponents(throughput, skyRadiance(ray, pt.config))
		}

		if bounce >= pt.uniforms.Bounces {
			// Depth exhausted with the path still inside the scene.
			return mgl32.Vec3{}
		}

		local := core.UniformSampleHemisphere(sampler.Get2D())
		dir := core.AlignToNormal(local, hit.Normal)

		cos := dir.Dot(hit.Normal)
		if cos < 0 {
			cos = 0
		}

		// Lambertian BRDF albedo/pi against the uniform hemisphere PDF
		// 1/(2pi): the estimator weight per bounce is 2*cos(theta).
		weight := float32(cos / math.Pi / core.UniformHemispherePDF)
		throughput = core.MulComponents(throughput, pt.config.Albedo.Mul(weight))

		ray = core.NewRay(hit.Pos.Add(hit.Normal.Mul(shadowBias)), dir)
	}
}
