package omath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world up axis.
var Up = mgl32.Vec3{0, 0, 1}

// Epsilon is the length under which a vector is treated as zero.
const Epsilon float32 = 1e-6

// Round will round a number to a given precision.
func Round(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Clamp clamps num to [min, max].
func Clamp(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// ApproxEq reports whether two floats are within 1e-4 of each other.
func ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-4
}

// IsNearlyZero reports whether v is shorter than tolerance.
func IsNearlyZero(v mgl32.Vec3, tolerance float32) bool {
	return v.LenSqr() <= tolerance*tolerance
}

// SafeNormal returns v normalized, or the zero vector if v is too short to normalize.
func SafeNormal(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Horizontal returns v with its vertical component removed.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], 0}
}

// HorizontalDirection returns the normalized horizontal part of v.
func HorizontalDirection(v mgl32.Vec3) mgl32.Vec3 {
	return SafeNormal(Horizontal(v))
}

// Size2D returns the length of the horizontal part of v.
func Size2D(v mgl32.Vec3) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// PlaneProject projects v onto the plane with the given normal.
func PlaneProject(v, normal mgl32.Vec3) mgl32.Vec3 {
	n := SafeNormal(normal)
	return v.Sub(n.Mul(v.Dot(n)))
}

// ProjectOnTo projects v onto dir. A zero dir yields the zero vector.
func ProjectOnTo(v, dir mgl32.Vec3) mgl32.Vec3 {
	d := dir.LenSqr()
	if d <= Epsilon*Epsilon {
		return mgl32.Vec3{}
	}
	return dir.Mul(v.Dot(dir) / d)
}

// FromTo returns the vector pointing from a to b.
func FromTo(a, b mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a)
}

// AngleBetweenDeg returns the unsigned angle between a and b in degrees.
func AngleBetweenDeg(a, b mgl32.Vec3) float32 {
	an, bn := SafeNormal(a), SafeNormal(b)
	if an.LenSqr() == 0 || bn.LenSqr() == 0 {
		return 0
	}
	return mgl32.RadToDeg(math32.Acos(Clamp(an.Dot(bn), -1, 1)))
}

// SignedAngleDeg returns the angle from a to b in degrees, signed by the rotation about axis.
func SignedAngleDeg(a, b, axis mgl32.Vec3) float32 {
	angle := AngleBetweenDeg(a, b)
	if a.Cross(b).Dot(axis) < 0 {
		return -angle
	}
	return angle
}

// ElevationDeg returns how far n points above the horizontal plane in degrees. A vertical wall
// has an elevation of 0, a floor 90 and a ceiling -90.
func ElevationDeg(n mgl32.Vec3) float32 {
	n = SafeNormal(n)
	return mgl32.RadToDeg(math32.Asin(Clamp(n.Z(), -1, 1)))
}

// RotateAngleAxis rotates v by deg degrees around axis.
func RotateAngleAxis(v mgl32.Vec3, deg float32, axis mgl32.Vec3) mgl32.Vec3 {
	axis = SafeNormal(axis)
	if axis.LenSqr() == 0 {
		return v
	}
	return mgl32.QuatRotate(mgl32.DegToRad(deg), axis).Rotate(v)
}

// TiltTowards rotates the unit direction dir towards the unit direction target by deg degrees.
// Both are expected to be perpendicular, as with a wall tangent and the wall normal.
func TiltTowards(dir, target mgl32.Vec3, deg float32) mgl32.Vec3 {
	rad := mgl32.DegToRad(deg)
	return dir.Mul(math32.Cos(rad)).Add(target.Mul(math32.Sin(rad)))
}

// VInterpTo moves current towards target at a rate proportional to the remaining distance.
// A non-positive speed snaps to target.
func VInterpTo(current, target mgl32.Vec3, dt, speed float32) mgl32.Vec3 {
	if speed <= 0 {
		return target
	}
	dist := target.Sub(current)
	if dist.LenSqr() < 1e-8 {
		return target
	}
	return current.Add(dist.Mul(Clamp(dt*speed, 0, 1)))
}

// FInterpTo is the scalar counterpart of VInterpTo.
func FInterpTo(current, target, dt, speed float32) float32 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < 1e-8 {
		return target
	}
	return current + dist*Clamp(dt*speed, 0, 1)
}

// DirectionAlongSurface returns dir projected on the surface with the given normal, normalized.
func DirectionAlongSurface(normal, dir mgl32.Vec3) mgl32.Vec3 {
	return SafeNormal(PlaneProject(dir, normal))
}
