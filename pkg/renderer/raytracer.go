package renderer

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
	"github.com/tracelab/go-path-tracer/pkg/integrator"
)

// AdaptiveConfig tunes per-pixel early termination. Sampling stops before the
// pass budget once the pixel's luminance estimate is stable.
type AdaptiveConfig struct {
	MinSamplesFraction float64 // fraction of the budget that must always run
	Threshold          float64 // relative-error stop threshold; 0 disables
}

// DefaultAdaptiveConfig returns the standard convergence knobs.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		MinSamplesFraction: 0.15,
		Threshold:          0.02,
	}
}

// Raytracer evaluates pixels for one frame configuration. It holds only
// read-only state (uniforms, camera, integrator, the tracer boundary), so a
// single instance may be shared by every worker: all mutable per-evaluation
// state lives in the PixelSampler and the caller's PixelStats.
type Raytracer struct {
	uniforms      *core.Uniforms
	tracer        core.Tracer
	camera        *Camera
	integrator    integrator.Integrator
	adaptive      AdaptiveConfig
	width, height int
}

// NewRaytracer creates a raytracer for one frame. The integrator is selected
// by the uniform block's Mode field.
func NewRaytracer(uniforms *core.Uniforms, tracer core.Tracer, width, height int, shading integrator.Config) *Raytracer {
	return &Raytracer{
		uniforms:   uniforms,
		tracer:     tracer,
		camera:     NewCamera(uniforms, width, height),
		integrator: integrator.ForMode(uniforms, shading),
		adaptive:   DefaultAdaptiveConfig(),
		width:      width,
		height:     height,
	}
}

// SetAdaptiveConfig overrides the adaptive sampling knobs.
func (rt *Raytracer) SetAdaptiveConfig(cfg AdaptiveConfig) {
	rt.adaptive = cfg
}

// Uniforms returns the frame configuration this raytracer renders.
func (rt *Raytracer) Uniforms() *core.Uniforms {
	return rt.uniforms
}

// SamplePixel advances one pixel to at most targetSamples accumulated
// samples, stopping early once the estimate converges. Each sample owns a
// fresh RNG session seeded from (frame seed, pixel, sample index), so the
// result is identical no matter which worker or pass runs it. Returns the
// number of samples actually added.
func (rt *Raytracer) SamplePixel(px, py int, ps *PixelStats, targetSamples int) int {
	before := ps.SampleCount

	for ps.SampleCount < targetSamples {
		if rt.shouldStopSampling(ps, targetSamples) {
			break
		}
		sampler := core.NewPixelSampler(rt.uniforms.Seed, px, py, ps.SampleCount)
		ray := rt.camera.GetRay(px, py, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, rt.tracer, sampler))
	}

	return ps.SampleCount - before
}

// shouldStopSampling decides whether a pixel has converged before its budget.
func (rt *Raytracer) shouldStopSampling(ps *PixelStats, maxSamples int) bool {
	if rt.adaptive.Threshold <= 0 {
		return false
	}

	// At least two samples are always taken: one sample has zero variance
	// and would satisfy any threshold immediately.
	minSamples := max(2, int(float64(maxSamples)*rt.adaptive.MinSamplesFraction))
	if ps.SampleCount < minSamples {
		return false
	}

	return ps.RelativeError() < rt.adaptive.Threshold
}

// pixelColor converts accumulated radiance to a display pixel. Exposure is
// applied here, at the core's output boundary, before the gamma 2 display
// mapping and the clamp to displayable range.
func (rt *Raytracer) pixelColor(ps *PixelStats) color.RGBA {
	c := ps.Mean().Mul(rt.uniforms.Exposure)
	c = core.GammaCorrect(c, 2.0)
	c = core.ClampColor(c, 0, 1)
	return color.RGBA{
		R: uint8(255 * c.X()),
		G: uint8(255 * c.Y()),
		B: uint8(255 * c.Z()),
		A: 255,
	}
}

// PixelRadiance returns the exposed linear radiance of a pixel, for callers
// that do their own display mapping.
func (rt *Raytracer) PixelRadiance(ps *PixelStats) mgl32.Vec3 {
	return ps.Mean().Mul(rt.uniforms.Exposure)
}

// Render runs the frame's full sample budget on a single goroutine and
// returns the finished image with its statistics. The progressive renderer
// is the parallel, multi-pass alternative.
func (rt *Raytracer) Render() (*image.RGBA, RenderStats) {
	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	target := int(rt.uniforms.Samples)
	stats := RenderStats{
		TotalPixels: rt.width * rt.height,
		MaxSamples:  target,
		MinSamples:  target,
	}

	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			used := rt.SamplePixel(x, y, &pixelStats[y][x], target)
			stats.TotalSamples += used
			stats.MinSamples = min(stats.MinSamples, used)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, used)
			img.SetRGBA(x, y, rt.pixelColor(&pixelStats[y][x]))
		}
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	return img, stats
}
