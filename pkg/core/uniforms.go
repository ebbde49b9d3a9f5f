package core

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Render modes selectable through Uniforms.Mode. The enum is extensible;
// unknown values fall back to path tracing.
const (
	ModePathTracing uint32 = iota
	ModeNormals
)

// UniformsSize is the serialized size of the uniform block in bytes:
// two 16-byte scalar rows, one 16-byte position row, two 64-byte matrices.
const UniformsSize = 176

// Uniforms is the immutable per-frame render configuration. The field order
// and widths are a binary contract with the host: the block is read by value
// across a process boundary with every row aligned to 16 bytes, so fields
// must not be reordered or resized. It is shared read-only by every pixel
// evaluation within a frame and never mutated while one is in flight.
type Uniforms struct {
	// First 16-byte row
	Seed    uint32 // base entropy for per-pixel RNG seeding, fresh each frame
	Samples uint32 // samples per pixel; 0 is degenerate-but-legal (black output)
	Bounces uint32 // max secondary rays per path; 0 means primary rays only
	Mode    uint32 // render mode selector (ModePathTracing, ModeNormals, ...)

	// Second 16-byte row
	FocalLength float32 // distance to the plane of perfect focus
	Aperture    float32 // lens diameter; 0 disables depth of field entirely
	Exposure    float32 // scalar applied to mean radiance at the output boundary
	Time        float32 // frame time in seconds, for animated scenes

	// Camera world position; the fourth component is padding to keep the
	// vec3 in its own 16-byte slot.
	Pos mgl32.Vec4

	// Inverse view and projection transforms used to unproject pixel
	// coordinates into world-space rays. Column-major, 64 bytes each.
	InverseView mgl32.Mat4
	InverseProj mgl32.Mat4
}

// DefaultUniforms returns the host defaults: one preview-quality frame with
// an identity camera at the origin.
func DefaultUniforms() Uniforms {
	return Uniforms{
		Samples:     8,
		Bounces:     3,
		Mode:        ModePathTracing,
		FocalLength: 16,
		Aperture:    0,
		Exposure:    1,
		InverseView: mgl32.Ident4(),
		InverseProj: mgl32.Ident4(),
	}
}

// Validate checks the configuration for degenerate values. Degenerate
// configurations are legal (Samples == 0 renders black, Bounces == 0 renders
// primary visibility only); Validate only rejects values that would poison
// the arithmetic downstream.
func (u *Uniforms) Validate() error {
	if u.Aperture < 0 {
		return fmt.Errorf("uniforms: aperture must be >= 0, got %g", u.Aperture)
	}
	if u.Aperture > 0 && u.FocalLength <= 0 {
		return fmt.Errorf("uniforms: focal length must be > 0 when aperture is set, got %g", u.FocalLength)
	}
	if u.Exposure < 0 {
		return fmt.Errorf("uniforms: exposure must be >= 0, got %g", u.Exposure)
	}
	return nil
}

// EncodeTo writes the block in its wire layout, little-endian. The struct
// contains only fixed-size scalar and array fields, so the encoded bytes
// match the in-memory field order exactly.
func (u *Uniforms) EncodeTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, u); err != nil {
		return fmt.Errorf("uniforms: encode: %w", err)
	}
	return nil
}

// DecodeUniforms reads a uniform block previously written by EncodeTo.
func DecodeUniforms(r io.Reader) (Uniforms, error) {
	var u Uniforms
	if err := binary.Read(r, binary.LittleEndian, &u); err != nil {
		return Uniforms{}, fmt.Errorf("uniforms: decode: %w", err)
	}
	return u, nil
}

// Position returns the camera world position without its padding lane.
func (u *Uniforms) Position() mgl32.Vec3 {
	return u.Pos.Vec3()
}
