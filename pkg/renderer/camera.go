package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// Camera generates world-space rays from the uniform block's inverse view and
// projection transforms, with optional thin-lens depth of field.
type Camera struct {
	uniforms      *core.Uniforms
	width, height int
	pos           mgl32.Vec3
	right, up     mgl32.Vec3 // lens disk basis in world space
	lensRadius    float32
}

// NewCamera creates a camera for the given frame configuration and image size.
func NewCamera(uniforms *core.Uniforms, width, height int) *Camera {
	// Columns of the inverse view matrix are the camera axes in world space
	right := uniforms.InverseView.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	up := uniforms.InverseView.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()

	return &Camera{
		uniforms:   uniforms,
		width:      width,
		height:     height,
		pos:        uniforms.Position(),
		right:      right,
		up:         up,
		lensRadius: uniforms.Aperture / 2,
	}
}

// unproject maps a normalized-device-space point at the given depth through
// the inverse projection (with perspective divide) and inverse view into
// world space.
func (c *Camera) unproject(x, y, z float32) mgl32.Vec3 {
	p := c.uniforms.InverseProj.Mul4x1(mgl32.Vec4{x, y, z, 1})
	p = p.Mul(1 / p.W())
	return c.uniforms.InverseView.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1}).Vec3()
}

// GetRay generates the camera ray for pixel (px, py).
//
// Entropy consumption is strictly need-based so sample sequences stay
// comparable across configurations: anti-aliasing jitter costs one 2D draw
// only when more than one sample per pixel is configured, and the lens sample
// costs one 2D draw only when the aperture is open. A single-sample pinhole
// render draws nothing here.
func (c *Camera) GetRay(px, py int, sampler core.Sampler) core.Ray {
	offset := mgl32.Vec2{0.5, 0.5}
	if c.uniforms.Samples > 1 {
		offset = sampler.Get2D()
	}

	ndcX := 2*(float32(px)+offset.X())/float32(c.width) - 1
	ndcY := 1 - 2*(float32(py)+offset.Y())/float32(c.height)

	origin := c.pos
	dir := c.unproject(ndcX, ndcY, 1).Sub(origin).Normalize()

	if c.lensRadius > 0 {
		// Thin lens: pick a point on the aperture disk and re-aim through
		// the in-focus point at FocalLength along the pinhole ray.
		focus := origin.Add(dir.Mul(c.uniforms.FocalLength))
		d := core.SampleUnitDisk(sampler.Get2D())
		origin = origin.
			Add(c.right.Mul(d.X() * c.lensRadius)).
			Add(c.up.Mul(d.Y() * c.lensRadius))
		dir = focus.Sub(origin).Normalize()
	}

	return core.Ray{Origin: origin, Dir: dir}
}

// SetCameraTransform fills the camera fields of a uniform block from a world
// pose and perspective parameters. The convention is left-handed with +Z
// forward: for a camera at -Z looking at the origin, screen right is world +X
// and screen up is world +Y.
func SetCameraTransform(u *core.Uniforms, pos, target, up mgl32.Vec3, fovDeg, aspect, near, far float32) {
	forward := target.Sub(pos).Normalize()
	right := up.Cross(forward).Normalize()
	trueUp := forward.Cross(right)

	// The camera-to-world basis is the inverse view by construction, so no
	// matrix inversion is needed here. Column-major: right, up, forward,
	// position.
	u.InverseView = mgl32.Mat4{
		right[0], right[1], right[2], 0,
		trueUp[0], trueUp[1], trueUp[2], 0,
		forward[0], forward[1], forward[2], 0,
		pos[0], pos[1], pos[2], 1,
	}

	u.InverseProj = perspectiveLH(fovDeg, aspect, near, far).Inv()
	u.Pos = pos.Vec4(0)
}

// perspectiveLH builds a left-handed perspective projection with +Z forward
// and [0, 1] clip depth.
func perspectiveLH(fovDeg, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / float32(math.Tan(float64(mgl32.DegToRad(fovDeg))/2))
	depth := far / (far - near)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, depth, 1,
		0, 0, -near * depth, 0,
	}
}
