package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/omath"
)

// calcVelocity updates the horizontal part of vel for one step of input acceleration, friction and
// braking. Without input, or above maxSpeed, the character brakes; otherwise friction turns the
// velocity towards the input direction and the acceleration is added up to maxSpeed.
func calcVelocity(vel, accel mgl32.Vec3, dt, friction, brakingFrictionFactor, braking, maxSpeed float32) mgl32.Vec3 {
	horizontal := omath.Horizontal(vel)
	accel = omath.Horizontal(accel)
	speed := horizontal.Len()

	noInput := omath.IsNearlyZero(accel, omath.Epsilon)
	if noInput || speed > maxSpeed {
		horizontal = applyBraking(horizontal, dt, friction*brakingFrictionFactor, braking)
		if !noInput && horizontal.Len() < maxSpeed && speed > maxSpeed {
			horizontal = omath.SafeNormal(horizontal).Mul(maxSpeed)
		}
	} else {
		dir := omath.SafeNormal(accel)
		horizontal = horizontal.Sub(horizontal.Sub(dir.Mul(speed)).Mul(omath.Clamp(dt*friction, 0, 1)))
	}

	if !noInput {
		horizontal = horizontal.Add(accel.Mul(dt))
		limit := max(maxSpeed, speed)
		if l := horizontal.Len(); l > limit {
			horizontal = horizontal.Mul(limit / l)
		}
	}
	return mgl32.Vec3{horizontal.X(), horizontal.Y(), vel.Z()}
}

// applyBraking slows v down by friction and a constant deceleration without reversing it.
func applyBraking(v mgl32.Vec3, dt, friction, deceleration float32) mgl32.Vec3 {
	if v.LenSqr() == 0 || (friction <= 0 && deceleration <= 0) {
		return v
	}
	rev := v.Mul(-friction).Sub(omath.SafeNormal(v).Mul(deceleration))
	next := v.Add(rev.Mul(dt))
	if next.Dot(v) <= 0 {
		return mgl32.Vec3{}
	}
	return next
}
