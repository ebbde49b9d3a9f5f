package integrator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// missTracer reports a miss for every ray.
type missTracer struct{}

func (missTracer) Hit(core.Ray) (core.HitInfo, bool) {
	return core.HitInfo{}, false
}

// floorTracer intersects the plane y==0 for downward rays and counts queries.
type floorTracer struct {
	hits int
}

func (ft *floorTracer) Hit(ray core.Ray) (core.HitInfo, bool) {
	if ray.Dir.Y() >= -1e-6 {
		return core.HitInfo{}, false
	}
	t := -ray.Origin.Y() / ray.Dir.Y()
	if t <= 0 {
		return core.HitInfo{}, false
	}
	ft.hits++
	return core.HitInfo{
		Pos:    ray.At(t),
		Normal: mgl32.Vec3{0, 1, 0},
	}, true
}

func TestPathTracerMissReturnsSky(t *testing.T) {
	uniforms := core.DefaultUniforms()
	config := DefaultConfig()
	pt := NewPathTracer(&uniforms, config)
	sampler := core.NewPixelSampler(1, 0, 0, 0)

	up := pt.RayColor(core.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), missTracer{}, sampler)
	if up != config.SkyTop {
		t.Errorf("upward miss = %v, want sky top %v", up, config.SkyTop)
	}

	down := pt.RayColor(core.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, -1, 0}), missTracer{}, sampler)
	if down != config.SkyBottom {
		t.Errorf("downward miss = %v, want sky bottom %v", down, config.SkyBottom)
	}
}

func TestPathTracerZeroBouncesIsPrimaryOnly(t *testing.T) {
	uniforms := core.DefaultUniforms()
	uniforms.Bounces = 0
	pt := NewPathTracer(&uniforms, DefaultConfig())
	tracer := &floorTracer{}
	sampler := core.NewPixelSampler(1, 0, 0, 0)

	ray := core.NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0})
	color := pt.RayColor(ray, tracer, sampler)

	if color != (mgl32.Vec3{}) {
		t.Errorf("hit with zero bounce budget = %v, want black", color)
	}
	if tracer.hits != 1 {
		t.Errorf("expected exactly one intersection query, got %d", tracer.hits)
	}
}

// TestPathTracerFurnace checks the estimator weights against an analytic
// expectation. One diffuse bounce off a floor under a constant sky converges
// to albedo * sky: E[2*cos(theta)] over the uniform hemisphere is exactly 1,
// so any PDF mismatch (e.g. using 1/pi instead of 1/(2pi)) shifts the mean
// by a factor of two and fails loudly.
func TestPathTracerFurnace(t *testing.T) {
	uniforms := core.DefaultUniforms()
	uniforms.Bounces = 1

	sky := mgl32.Vec3{1, 1, 1}
	config := Config{
		Albedo:    mgl32.Vec3{0.5, 0.5, 0.5},
		SkyTop:    sky,
		SkyBottom: sky,
	}
	pt := NewPathTracer(&uniforms, config)

	ray := core.NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0})

	const n = 50000
	var sum float64
	for i := 0; i < n; i++ {
		sampler := core.NewPixelSampler(42, 3, 7, i)
		color := pt.RayColor(ray, &floorTracer{}, sampler)
		sum += float64(color.X())
	}

	mean := sum / n
	want := 0.5
	// Per-sample standard deviation is under 0.3, so 50k samples put the
	// standard error near 0.0013.
	if math.Abs(mean-want) > 0.02 {
		t.Errorf("furnace mean %v, want %v", mean, want)
	}
}

func TestPathTracerBounceBudgetBoundsQueries(t *testing.T) {
	uniforms := core.DefaultUniforms()
	uniforms.Bounces = 4
	pt := NewPathTracer(&uniforms, DefaultConfig())

	// A tracer that always re-hits forces the loop to its budget: one
	// primary query plus one per bounce.
	tracer := &alwaysHitTracer{}
	sampler := core.NewPixelSampler(5, 0, 0, 0)
	pt.RayColor(core.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}), tracer, sampler)

	if tracer.hits != 5 {
		t.Errorf("expected 5 intersection queries for bounces=4, got %d", tracer.hits)
	}
}

// alwaysHitTracer reflects every ray off a fixed surface.
type alwaysHitTracer struct {
	hits int
}

func (at *alwaysHitTracer) Hit(ray core.Ray) (core.HitInfo, bool) {
	at.hits++
	return core.HitInfo{
		Pos:    ray.At(1),
		Normal: ray.Dir.Mul(-1),
	}, true
}

func TestForMode(t *testing.T) {
	uniforms := core.DefaultUniforms()

	uniforms.Mode = core.ModeNormals
	if _, ok := ForMode(&uniforms, DefaultConfig()).(*NormalIntegrator); !ok {
		t.Error("ModeNormals should select the normal integrator")
	}

	uniforms.Mode = core.ModePathTracing
	if _, ok := ForMode(&uniforms, DefaultConfig()).(*PathTracer); !ok {
		t.Error("ModePathTracing should select the path tracer")
	}

	// Unknown modes fail soft to path tracing.
	uniforms.Mode = 999
	if _, ok := ForMode(&uniforms, DefaultConfig()).(*PathTracer); !ok {
		t.Error("unknown mode should fall back to the path tracer")
	}
}
