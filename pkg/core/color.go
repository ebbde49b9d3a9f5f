package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Radiance helpers over mgl32.Vec3. mathgl has no component-wise product, so
// the throughput math lives here.

// MulComponents returns the component-wise product of two vectors.
func MulComponents(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

// Luminance returns the perceptual luminance of an RGB color.
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func Luminance(c mgl32.Vec3) float32 {
	return 0.299*c.X() + 0.587*c.Y() + 0.114*c.Z()
}

// ClampColor clamps each component to [minVal, maxVal].
func ClampColor(c mgl32.Vec3, minVal, maxVal float32) mgl32.Vec3 {
	clamp := func(v float32) float32 {
		if v < minVal {
			return minVal
		}
		if v > maxVal {
			return maxVal
		}
		return v
	}
	return mgl32.Vec3{clamp(c.X()), clamp(c.Y()), clamp(c.Z())}
}

// GammaCorrect applies display gamma to a linear color.
func GammaCorrect(c mgl32.Vec3, gamma float32) mgl32.Vec3 {
	inv := 1.0 / float64(gamma)
	return mgl32.Vec3{
		float32(math.Pow(float64(c.X()), inv)),
		float32(math.Pow(float64(c.Y()), inv)),
		float32(math.Pow(float64(c.Z()), inv)),
	}
}

// Lerp linearly interpolates between two colors.
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
