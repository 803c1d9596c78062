package omath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPlaneProjectRemovesNormalComponent(t *testing.T) {
	v := PlaneProject(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 0, 2})
	if !v.ApproxEqual(mgl32.Vec3{3, 4, 0}) {
		t.Fatalf("expected {3 4 0}, got %v", v)
	}
}

func TestSafeNormalOfZero(t *testing.T) {
	if n := SafeNormal(mgl32.Vec3{}); n != (mgl32.Vec3{}) {
		t.Fatalf("expected zero vector, got %v", n)
	}
}

func TestSignedAngle(t *testing.T) {
	a := SignedAngleDeg(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, Up)
	b := SignedAngleDeg(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, Up)
	if !ApproxEq(a, 90) || !ApproxEq(b, -90) {
		t.Fatalf("expected 90/-90, got %v/%v", a, b)
	}
}

func TestElevation(t *testing.T) {
	if e := ElevationDeg(mgl32.Vec3{1, 0, 0}); !ApproxEq(e, 0) {
		t.Fatalf("wall elevation should be 0, got %v", e)
	}
	if e := ElevationDeg(Up); !ApproxEq(e, 90) {
		t.Fatalf("floor elevation should be 90, got %v", e)
	}
}

func TestRotateAngleAxis(t *testing.T) {
	v := RotateAngleAxis(mgl32.Vec3{1, 0, 0}, 90, Up)
	if !v.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("expected {0 1 0}, got %v", v)
	}
}

func TestRotationRoundTrip(t *testing.T) {
	dir := SafeNormal(mgl32.Vec3{1, 1, 1})
	got := RotationFromVector(dir).Vector()
	if !got.ApproxEqualThreshold(dir, 1e-5) {
		t.Fatalf("expected %v, got %v", dir, got)
	}
}

func TestVInterpToClampsStep(t *testing.T) {
	v := VInterpTo(mgl32.Vec3{}, mgl32.Vec3{10, 0, 0}, 1, 5)
	if v != (mgl32.Vec3{10, 0, 0}) {
		t.Fatalf("expected to reach target, got %v", v)
	}
	v = VInterpTo(mgl32.Vec3{}, mgl32.Vec3{10, 0, 0}, 0.1, 5)
	if !v.ApproxEqual(mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("expected half way, got %v", v)
	}
}
