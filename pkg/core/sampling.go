package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler provides random draws for rendering algorithms. Implementations
// must return values in [0, 1) and advance deterministically so a render can
// be reproduced from its seed. It can be swapped out for fixed sequences in
// tests.
type Sampler interface {
	Get1D() float32
	Get2D() mgl32.Vec2
	Get3D() mgl32.Vec3
}

// UniformHemispherePDF is the constant probability density, in steradian^-1,
// of directions returned by UniformSampleHemisphere. Integrators must divide
// by this value (not 1/pi, which is the cosine-weighted density) to stay
// unbiased.
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// UniformSampleHemisphere maps a uniform pair in [0, 1)^2 to a unit direction
// distributed uniformly over the y-up hemisphere. The first component of r
// becomes the Y (cosine-of-polar-angle) coordinate directly, so the result
// never points below the equator. r.X() == 1 degenerates to a horizon
// direction rather than producing NaN.
func UniformSampleHemisphere(r mgl32.Vec2) mgl32.Vec3 {
	s := float32(math.Sqrt(math.Max(0, 1.0-float64(r.X())*float64(r.X()))))
	phi := 2 * math.Pi * float64(r.Y())
	return mgl32.Vec3{
		s * float32(math.Cos(phi)),
		r.X(),
		s * float32(math.Sin(phi)),
	}
}

// AlignToNormal rotates a local y-up direction into the hemisphere around the
// unit normal n, preserving the distribution of UniformSampleHemisphere.
func AlignToNormal(local, n mgl32.Vec3) mgl32.Vec3 {
	// Pick a helper axis that is not parallel to n
	var a mgl32.Vec3
	if math.Abs(float64(n.X())) > 0.1 {
		a = mgl32.Vec3{0, 1, 0}
	} else {
		a = mgl32.Vec3{1, 0, 0}
	}

	tangent := a.Cross(n).Normalize()
	bitangent := n.Cross(tangent)

	return tangent.Mul(local.X()).
		Add(n.Mul(local.Y())).
		Add(bitangent.Mul(local.Z()))
}

// SampleUnitDisk maps a uniform pair to a point in the unit disk using
// concentric mapping, which avoids rejection sampling and preserves
// stratification. Used for thin-lens aperture sampling.
func SampleUnitDisk(r mgl32.Vec2) mgl32.Vec2 {
	// Map sample to [-1,1]^2 and handle degeneracy at the origin
	ox := 2*r.X() - 1
	oy := 2*r.Y() - 1
	if ox == 0 && oy == 0 {
		return mgl32.Vec2{0, 0}
	}

	var theta, rad float64
	if math.Abs(float64(ox)) > math.Abs(float64(oy)) {
		rad = float64(ox)
		theta = math.Pi / 4 * float64(oy/ox)
	} else {
		rad = float64(oy)
		theta = math.Pi/2 - math.Pi/4*float64(ox/oy)
	}

	return mgl32.Vec2{
		float32(rad * math.Cos(theta)),
		float32(rad * math.Sin(theta)),
	}
}
