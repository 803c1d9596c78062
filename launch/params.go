package launch

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/zeebo/xxh3"
)

// MinVelocity is the launch speed under which a launch is rejected as negligible.
const MinVelocity float32 = 0.1

// Params describes how a controlled launch distorts movement while it is live.
type Params struct {
	// Duration is how long the launch stays live at most.
	Duration float32
	// WalkingBlockDuration is how long the launch vetoes landing on walkable ground.
	WalkingBlockDuration float32

	InfluenceAcceleration bool
	AccelerationCurve     curve.Curve
	// AllowFullPerpendicular only scales the part of the input acceleration along the launch's
	// horizontal direction, leaving full control perpendicular to it.
	AllowFullPerpendicular bool

	InfluenceBraking bool
	// BrakingCurve is not clamped, values above 1 amplify braking.
	BrakingCurve curve.Curve

	InfluenceGravity bool
	GravityCurve     curve.Curve

	// DisableOnSurface ends the launch once the character has been on a surface for a while.
	DisableOnSurface bool
	// DisableOnLowSpeed ends the launch once the speed along its horizontal direction drops.
	DisableOnLowSpeed bool
}

// DefaultParams returns the parameters of a one second launch that hands acceleration back to the
// player linearly and suppresses braking at its start.
func DefaultParams() Params {
	return Params{
		Duration:              1,
		InfluenceAcceleration: true,
		AccelerationCurve:     curve.Linear(0, 1),
		InfluenceBraking:      true,
		BrakingCurve:          curve.Linear(0, 1),
		DisableOnLowSpeed:     true,
	}
}

// Validate checks that a launch with velocity v and these parameters may be added.
func (p Params) Validate(v mgl32.Vec3) error {
	for _, ch := range []struct {
		name    string
		enabled bool
		c       curve.Curve
	}{
		{"acceleration", p.InfluenceAcceleration, p.AccelerationCurve},
		{"braking", p.InfluenceBraking, p.BrakingCurve},
		{"gravity", p.InfluenceGravity, p.GravityCurve},
	} {
		if ch.enabled && ch.c == nil {
			return fmt.Errorf("%s channel: %w", ch.name, oerror.ErrMissingCurve)
		}
	}
	if omath.IsNearlyZero(v, MinVelocity) {
		return oerror.ErrNegligibleVelocity
	}
	return nil
}

// Owner identifies the logic that requested a launch. A character has at most one live launch per
// owner.
type Owner uint64

// OwnerOf returns the owner token for a name, such as the name of a movement mode.
func OwnerOf(name string) Owner {
	return Owner(xxh3.HashString(name))
}

// Library resolves named launch parameter assets.
type Library interface {
	Params(name string) (Params, bool)
}

// MapLibrary is an in-memory Library.
type MapLibrary map[string]Params

func (l MapLibrary) Params(name string) (Params, bool) {
	p, ok := l[name]
	return p, ok
}
