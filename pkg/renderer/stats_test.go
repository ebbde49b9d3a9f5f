package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPixelStatsMean(t *testing.T) {
	var ps PixelStats
	if ps.Mean() != (mgl32.Vec3{}) {
		t.Error("empty pixel should average to black")
	}

	ps.AddSample(mgl32.Vec3{1, 0, 0})
	ps.AddSample(mgl32.Vec3{0, 1, 0})
	mean := ps.Mean()
	if mean.Sub(mgl32.Vec3{0.5, 0.5, 0}).Len() > 1e-6 {
		t.Errorf("mean %v, want (0.5,0.5,0)", mean)
	}
	if ps.SampleCount != 2 {
		t.Errorf("sample count %d, want 2", ps.SampleCount)
	}
}

func TestPixelStatsRelativeError(t *testing.T) {
	var ps PixelStats
	if !math.IsInf(ps.RelativeError(), 1) {
		t.Error("empty pixel should report infinite error")
	}

	// Identical samples have zero variance
	for i := 0; i < 10; i++ {
		ps.AddSample(mgl32.Vec3{0.5, 0.5, 0.5})
	}
	if ps.RelativeError() > 1e-6 {
		t.Errorf("constant samples report error %v", ps.RelativeError())
	}

	// Alternating bright and dark samples stay noisy
	var noisy PixelStats
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			noisy.AddSample(mgl32.Vec3{1, 1, 1})
		} else {
			noisy.AddSample(mgl32.Vec3{})
		}
	}
	if noisy.RelativeError() < 0.5 {
		t.Errorf("alternating samples report error %v, want ~1", noisy.RelativeError())
	}
}

func TestPixelStatsDarkPixelConvergence(t *testing.T) {
	var ps PixelStats
	for i := 0; i < 4; i++ {
		ps.AddSample(mgl32.Vec3{})
	}
	// Pure black pixels converge despite a zero mean
	if ps.RelativeError() != 0 {
		t.Errorf("black pixel reports error %v, want 0", ps.RelativeError())
	}
}
