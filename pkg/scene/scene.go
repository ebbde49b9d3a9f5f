// Package scene provides a minimal analytic intersection collaborator for the
// path tracing core. It deliberately has no acceleration structure: a scene is
// a short linear list of analytic shapes, which is all the demo and the tests
// need. Acceleration and materials are external concerns.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// Intersection range shared by all queries. The lower bound skips
// self-intersection at the ray origin.
const (
	tMin = 1e-3
	tMax = 1e4
)

// Shape is one analytic primitive. Hit returns the hit info and ray parameter
// for the nearest intersection inside (tMin, tMax], or false.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float32) (core.HitInfo, float32, bool)
}

// Scene is a linear collection of shapes. It implements core.Tracer, handing
// the integrator the closest hit with the normal oriented toward the
// incoming ray.
type Scene struct {
	Shapes []Shape
}

// NewScene creates a scene from the given shapes.
func NewScene(shapes ...Shape) *Scene {
	return &Scene{Shapes: shapes}
}

// Hit finds the closest intersection across all shapes.
func (s *Scene) Hit(ray core.Ray) (core.HitInfo, bool) {
	var closest core.HitInfo
	closestT := float32(tMax)
	found := false

	for _, shape := range s.Shapes {
		if hit, t, ok := shape.Hit(ray, tMin, closestT); ok {
			closest = hit
			closestT = t
			found = true
		}
	}

	return closest, found
}

// faceNormal orients an outward normal against the incoming ray, the
// convention the hemisphere sampler requires.
func faceNormal(ray core.Ray, outward mgl32.Vec3) mgl32.Vec3 {
	if ray.Dir.Dot(outward) > 0 {
		return outward.Mul(-1)
	}
	return outward
}

// NewDefaultScene builds the demo scene: a ground plane with three spheres of
// different sizes straddling the default camera's view down +Z.
func NewDefaultScene() *Scene {
	return NewScene(
		NewPlane(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0}),
		NewSphere(mgl32.Vec3{0, 0, 0}, 1),
		NewSphere(mgl32.Vec3{-2.2, -0.5, 0.5}, 0.5),
		NewSphere(mgl32.Vec3{2.2, -0.25, -0.5}, 0.75),
	)
}

// NewOrbitScene builds an animated variant of the default scene: the small
// spheres orbit the center one, driven by the frame time uniform.
func NewOrbitScene(time float32) *Scene {
	angle := float64(time) * 0.5
	orbit := func(radius, phase float64) mgl32.Vec3 {
		return mgl32.Vec3{
			float32(radius * math.Cos(angle+phase)),
			-0.5,
			float32(radius * math.Sin(angle+phase)),
		}
	}
	return NewScene(
		NewPlane(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0}),
		NewSphere(mgl32.Vec3{0, 0, 0}, 1),
		NewSphere(orbit(2.2, 0), 0.5),
		NewSphere(orbit(2.2, math.Pi), 0.5),
	)
}
