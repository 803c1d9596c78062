package omath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation is an orientation in degrees. Yaw turns around Up starting at +X, pitch tilts the
// forward vector up.
type Rotation struct {
	Pitch, Yaw, Roll float32
}

// Vector returns the unit forward vector of the rotation.
func (r Rotation) Vector() mgl32.Vec3 {
	p, y := mgl32.DegToRad(r.Pitch), mgl32.DegToRad(r.Yaw)
	cp := math32.Cos(p)
	return mgl32.Vec3{cp * math32.Cos(y), cp * math32.Sin(y), math32.Sin(p)}
}

// Right returns the unit right vector of the rotation, ignoring roll.
func (r Rotation) Right() mgl32.Vec3 {
	y := mgl32.DegToRad(r.Yaw)
	return mgl32.Vec3{math32.Sin(y), -math32.Cos(y), 0}
}

// RotationFromVector returns the rotation whose forward vector points along v.
func RotationFromVector(v mgl32.Vec3) Rotation {
	if IsNearlyZero(v, Epsilon) {
		return Rotation{}
	}
	return Rotation{
		Pitch: mgl32.RadToDeg(math32.Atan2(v.Z(), Size2D(v))),
		Yaw:   mgl32.RadToDeg(math32.Atan2(v.Y(), v.X())),
	}
}
