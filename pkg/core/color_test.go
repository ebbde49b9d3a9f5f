package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMulComponents(t *testing.T) {
	got := MulComponents(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	want := mgl32.Vec3{4, 10, 18}
	if got != want {
		t.Errorf("MulComponents = %v, want %v", got, want)
	}
}

func TestLuminance(t *testing.T) {
	if Luminance(mgl32.Vec3{1, 1, 1}) != 1 {
		t.Errorf("white luminance = %v, want 1", Luminance(mgl32.Vec3{1, 1, 1}))
	}
	if Luminance(mgl32.Vec3{}) != 0 {
		t.Error("black luminance should be 0")
	}
	// Green dominates the weights
	if Luminance(mgl32.Vec3{0, 1, 0}) <= Luminance(mgl32.Vec3{1, 0, 0}) {
		t.Error("green should be brighter than red")
	}
}

func TestClampColor(t *testing.T) {
	got := ClampColor(mgl32.Vec3{-0.5, 0.5, 1.5}, 0, 1)
	want := mgl32.Vec3{0, 0.5, 1}
	if got != want {
		t.Errorf("ClampColor = %v, want %v", got, want)
	}
}

func TestGammaCorrect(t *testing.T) {
	c := GammaCorrect(mgl32.Vec3{0.25, 1, 0}, 2)
	if math.Abs(float64(c.X())-0.5) > 1e-6 {
		t.Errorf("gamma 2 of 0.25 = %v, want 0.5", c.X())
	}
	if c.Y() != 1 || c.Z() != 0 {
		t.Errorf("gamma must fix 0 and 1, got %v", c)
	}
}

func TestLerp(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{2, 4, 6}
	if Lerp(a, b, 0) != a || Lerp(a, b, 1) != b {
		t.Error("Lerp endpoints wrong")
	}
	if Lerp(a, b, 0.5) != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Lerp midpoint = %v", Lerp(a, b, 0.5))
	}
}
