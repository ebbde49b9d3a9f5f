package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

func TestSphereHit(t *testing.T) {
	sphere := NewSphere(mgl32.Vec3{0, 0, 5}, 1)
	ray := core.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1})

	hit, tHit, ok := sphere.Hit(ray, 1e-3, 1e4)
	if !ok {
		t.Fatal("expected hit on sphere straight ahead")
	}
	if math.Abs(float64(tHit)-4) > 1e-5 {
		t.Errorf("hit parameter %v, want 4", tHit)
	}
	if hit.Pos.Sub(mgl32.Vec3{0, 0, 4}).Len() > 1e-5 {
		t.Errorf("hit position %v, want (0,0,4)", hit.Pos)
	}
	// Normal faces back toward the ray origin.
	if hit.Normal.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-5 {
		t.Errorf("hit normal %v, want (0,0,-1)", hit.Normal)
	}
}

func TestSphereMiss(t *testing.T) {
	sphere := NewSphere(mgl32.Vec3{0, 0, 5}, 1)
	ray := core.NewRay(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0, 0, 1})
	if _, _, ok := sphere.Hit(ray, 1e-3, 1e4); ok {
		t.Error("expected miss for offset ray")
	}
}

func TestSphereInsideHitUsesFarRoot(t *testing.T) {
	sphere := NewSphere(mgl32.Vec3{0, 0, 0}, 2)
	ray := core.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1})

	hit, tHit, ok := sphere.Hit(ray, 1e-3, 1e4)
	if !ok {
		t.Fatal("expected hit from inside the sphere")
	}
	if math.Abs(float64(tHit)-2) > 1e-5 {
		t.Errorf("hit parameter %v, want 2", tHit)
	}
	// Inside the sphere the oriented normal points back inward.
	if hit.Normal.Dot(ray.Dir) >= 0 {
		t.Errorf("normal %v does not face the incoming ray", hit.Normal)
	}
}

func TestPlaneHit(t *testing.T) {
	plane := NewPlane(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0})
	ray := core.NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0})

	hit, tHit, ok := plane.Hit(ray, 1e-3, 1e4)
	if !ok {
		t.Fatal("expected hit on plane below")
	}
	if math.Abs(float64(tHit)-2) > 1e-5 {
		t.Errorf("hit parameter %v, want 2", tHit)
	}
	if hit.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal %v, want (0,1,0)", hit.Normal)
	}
}

func TestPlaneParallelMiss(t *testing.T) {
	plane := NewPlane(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0})
	ray := core.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	if _, _, ok := plane.Hit(ray, 1e-3, 1e4); ok {
		t.Error("parallel ray should not hit the plane")
	}
}

func TestSceneReturnsClosestHit(t *testing.T) {
	s := NewScene(
		NewSphere(mgl32.Vec3{0, 0, 10}, 1),
		NewSphere(mgl32.Vec3{0, 0, 5}, 1),
	)
	ray := core.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})

	hit, ok := s.Hit(ray)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(float64(hit.Pos.Z())-4) > 1e-5 {
		t.Errorf("closest hit at z=%v, want 4 (near sphere)", hit.Pos.Z())
	}
}

func TestSceneMiss(t *testing.T) {
	s := NewDefaultScene()
	ray := core.NewRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0})
	if _, ok := s.Hit(ray); ok {
		t.Error("upward ray above the scene should miss")
	}
}

func TestDefaultSceneVisibleFromDefaultCamera(t *testing.T) {
	s := NewDefaultScene()
	// The host default camera sits at (0,0,-4) looking +Z at the unit sphere.
	ray := core.NewRay(mgl32.Vec3{0, 0, -4}, mgl32.Vec3{0, 0, 1})
	hit, ok := s.Hit(ray)
	if !ok {
		t.Fatal("center sphere should be visible from the default camera")
	}
	if math.Abs(float64(hit.Pos.Z())+1) > 1e-5 {
		t.Errorf("front of center sphere at z=%v, want -1", hit.Pos.Z())
	}
}
