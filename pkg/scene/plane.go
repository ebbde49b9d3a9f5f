package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// Plane is an infinite plane defined by a point and a unit normal.
type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// NewPlane creates a plane, normalizing the normal.
func NewPlane(point, normal mgl32.Vec3) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize()}
}

// Hit intersects the ray with the plane.
func (p *Plane) Hit(ray core.Ray, tMin, tMax float32) (core.HitInfo, float32, bool) {
	denom := ray.Dir.Dot(p.Normal)

	// Parallel rays never intersect
	if math.Abs(float64(denom)) < 1e-8 {
		return core.HitInfo{}, 0, false
	}

	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return core.HitInfo{}, 0, false
	}

	return core.HitInfo{
		Pos:    ray.At(t),
		Normal: faceNormal(ray, p.Normal),
	}, t, true
}
