package surface

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/omath"
)

// SlopeDirection classifies movement relative to the slope of a surface.
type SlopeDirection uint8

const (
	SlopeEven SlopeDirection = iota
	SlopeUp
	SlopeDown
)

func (d SlopeDirection) String() string {
	switch d {
	case SlopeUp:
		return "up"
	case SlopeDown:
		return "down"
	}
	return "even"
}

// IsSlope reports whether a surface with the given normal is steeper than minAngle degrees.
func IsSlope(normal mgl32.Vec3, minAngle float32) bool {
	return omath.AngleBetweenDeg(normal, omath.Up) >= minAngle
}

// DownhillDirection returns the horizontal direction pointing down the slope.
func DownhillDirection(normal mgl32.Vec3) mgl32.Vec3 {
	return omath.HorizontalDirection(normal)
}

// ClassifySlope tells whether moving along dir on a surface with the given normal goes up or down
// the slope. Surfaces flatter than minAngle degrees are even.
func ClassifySlope(normal, dir mgl32.Vec3, minAngle float32) SlopeDirection {
	if !IsSlope(normal, minAngle) {
		return SlopeEven
	}
	dot := DownhillDirection(normal).Dot(omath.HorizontalDirection(dir))
	switch {
	case dot > 0:
		return SlopeDown
	case dot < 0:
		return SlopeUp
	}
	return SlopeEven
}
