package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Uvec3 is a 3-lane unsigned 32-bit RNG state. All arithmetic on it wraps
// modulo 2^32; overflow is defined behavior, not an error.
type Uvec3 [3]uint32

// Pcg3d advances a 3-lane PCG state and returns the new state. The function is
// pure: it has no entropy source and no side effects, so identical inputs
// always produce identical outputs. Lanes are decorrelated by two rounds of
// cross-lane mixing around a xorshift.
//
// Reference: Jarzynski & Olano, "Hash Functions for GPU Rendering" (pcg3d).
func Pcg3d(v Uvec3) Uvec3 {
	v[0] = v[0]*1664525 + 1013904223
	v[1] = v[1]*1664525 + 1013904223
	v[2] = v[2]*1664525 + 1013904223

	v[0] += v[1] * v[2]
	v[1] += v[2] * v[0]
	v[2] += v[0] * v[1]

	v[0] ^= v[0] >> 16
	v[1] ^= v[1] >> 16
	v[2] ^= v[2] >> 16

	v[0] += v[1] * v[2]
	v[1] += v[2] * v[0]
	v[2] += v[0] * v[1]

	return v
}

// Seed lane offsets. Distinct odd constants guarantee the initial state is
// never all-zero regardless of the frame seed or pixel coordinate, which
// would otherwise make the first Pcg3d call degenerate.
const (
	seedLaneX = 0x9E3779B9
	seedLaneY = 0x85EBCA77
	seedLaneZ = 0xC2B2AE3D
)

// oneBelow is the largest float32 strictly less than 1. RNG-derived floats
// are clamped here so callers can rely on the half-open interval [0, 1).
var oneBelow = math.Nextafter32(1, 0)

// PixelSampler is the RNG session for one pixel/sample evaluation. It owns a
// 3-lane state seeded deterministically from the frame seed, the pixel
// coordinate, and the sample index, so re-renders with the same seed
// reproduce the exact draw sequence. Each draw advances the state in place;
// the session is never shared between invocations and never persisted across
// frames.
//
// Buffered lanes from one Pcg3d advance are handed out one scalar at a time,
// so Get1D/Get2D/Get3D compose without wasting entropy.
type PixelSampler struct {
	state Uvec3
	buf   Uvec3
	used  int
}

// NewPixelSampler seeds a sampler session for the given frame seed, pixel
// coordinate, and sample index. One warm-up advance diffuses low-entropy
// seeds (e.g. pixel (0,0) of frame 0) across all three lanes before the
// first draw.
func NewPixelSampler(seed uint32, px, py, sampleIndex int) *PixelSampler {
	state := Uvec3{
		uint32(px) ^ seedLaneX,
		uint32(py) ^ seedLaneY,
		seed + uint32(sampleIndex)*seedLaneZ,
	}
	return &PixelSampler{state: Pcg3d(state), used: 3}
}

// nextLane returns one uint32 of entropy, advancing the state when the
// buffered lanes are exhausted.
func (ps *PixelSampler) nextLane() uint32 {
	if ps.used >= 3 {
		ps.state = Pcg3d(ps.state)
		ps.buf = ps.state
		ps.used = 0
	}
	lane := ps.buf[ps.used]
	ps.used++
	return lane
}

// uintToUnit maps a uint32 to [0, 1). Dividing by 2^32 in float32 can round
// up to exactly 1.0 near the top of the range, which would violate the
// open-interval contract of the hemisphere sampler, so the result is clamped.
func uintToUnit(u uint32) float32 {
	f := float32(u) * (1.0 / 4294967296.0)
	if f >= 1 {
		return oneBelow
	}
	return f
}

// Get1D returns one uniform float32 in [0, 1).
func (ps *PixelSampler) Get1D() float32 {
	return uintToUnit(ps.nextLane())
}

// Get2D returns two independent uniform float32 values in [0, 1).
func (ps *PixelSampler) Get2D() mgl32.Vec2 {
	return mgl32.Vec2{uintToUnit(ps.nextLane()), uintToUnit(ps.nextLane())}
}

// Get3D returns three independent uniform float32 values in [0, 1).
func (ps *PixelSampler) Get3D() mgl32.Vec3 {
	return mgl32.Vec3{
		uintToUnit(ps.nextLane()),
		uintToUnit(ps.nextLane()),
		uintToUnit(ps.nextLane()),
	}
}

// State exposes the current raw RNG state, mainly for tests that verify
// determinism and seed decorrelation.
func (ps *PixelSampler) State() Uvec3 {
	return ps.state
}
