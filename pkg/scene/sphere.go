package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// Sphere is an analytic sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// NewSphere creates a sphere.
func NewSphere(center mgl32.Vec3, radius float32) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Hit solves the ray-sphere quadratic and returns the nearest root in range.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (core.HitInfo, float32, bool) {
	oc := ray.Origin.Sub(s.Center)

	// Ray direction is unit length, so the quadratic coefficient a is 1.
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return core.HitInfo{}, 0, false
	}

	sqrtD := float32(math.Sqrt(float64(discriminant)))

	// Closer root first, then the far one if the near one is out of range
	root := -halfB - sqrtD
	if root < tMin || root > tMax {
		root = -halfB + sqrtD
		if root < tMin || root > tMax {
			return core.HitInfo{}, 0, false
		}
	}

	pos := ray.At(root)
	outward := pos.Sub(s.Center).Mul(1 / s.Radius)

	return core.HitInfo{
		Pos:    pos,
		Normal: faceNormal(ray, outward),
	}, root, true
}
