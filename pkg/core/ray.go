package core

import "github.com/go-gl/mathgl/mgl32"

// Ray is a parametric line segment in world space. Dir is unit length; every
// constructor normalizes before the ray is handed to an intersection query.
// Rays are immutable values, created per sample/bounce and discarded by the
// tracer that consumes them.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// HitInfo is the result of an intersection query. It is only meaningful when
// the query reported a hit. Normal is unit length and oriented to face the
// incoming ray, which is the convention the hemisphere sampler relies on.
type HitInfo struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
}

// Tracer is the boundary to the intersection collaborator. The core hands it
// a ray and receives either a miss or a HitInfo; acceleration structures and
// surface shading live entirely behind this interface.
type Tracer interface {
	Hit(ray Ray) (HitInfo, bool)
}
