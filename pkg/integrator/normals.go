package integrator

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// NormalIntegrator visualizes surface normals of the primary hit, remapped
// from [-1,1] to displayable [0,1]. It consumes no entropy, which makes it
// useful for debugging the camera and intersection boundary in isolation.
type NormalIntegrator struct{}

// NewNormalIntegrator creates a normal-visualization integrator.
func NewNormalIntegrator() *NormalIntegrator {
	return &NormalIntegrator{}
}

// RayColor returns the primary hit normal as a color, or black on a miss.
func (ni *NormalIntegrator) RayColor(ray core.Ray, tracer core.Tracer, _ core.Sampler) mgl32.Vec3 {
	hit, ok := tracer.Hit(ray)
	if !ok {
		return mgl32.Vec3{}
	}
	return hit.Normal.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
}
