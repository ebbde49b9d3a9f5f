package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// RenderStats contains statistics about one rendering pass.
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// PixelStats accumulates radiance samples for a single pixel across passes.
// SampleCount doubles as the next sample index for the pixel's RNG seeding,
// which keeps progressive accumulation deterministic regardless of tile
// scheduling. Luminance moments are tracked in float64 so the variance
// estimate stays stable over many samples.
type PixelStats struct {
	ColorAccum       mgl32.Vec3
	LuminanceAccum   float64
	LuminanceSqAccum float64
	SampleCount      int
}

// AddSample adds one radiance sample.
func (ps *PixelStats) AddSample(c mgl32.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(c)
	lum := float64(core.Luminance(c))
	ps.LuminanceAccum += lum
	ps.LuminanceSqAccum += lum * lum
	ps.SampleCount++
}

// Mean returns the current average radiance for this pixel. With zero samples
// the pixel is black, which is the documented degenerate output for a
// Samples == 0 configuration.
func (ps *PixelStats) Mean() mgl32.Vec3 {
	if ps.SampleCount == 0 {
		return mgl32.Vec3{}
	}
	return ps.ColorAccum.Mul(1 / float32(ps.SampleCount))
}

// RelativeError returns the coefficient of variation of the pixel's
// luminance, the convergence signal for adaptive sampling.
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount == 0 {
		return math.Inf(1)
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Dark pixels converge on absolute variance instead
	if mean <= 1e-8 {
		if variance < 1e-6 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Sqrt(variance) / mean
}
