package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
)

// Rule is the motion rule currently governing the character.
type Rule uint8

const (
	RuleWalking Rule = iota
	RuleFalling
	// RuleCustom means a movement mode performs the integration.
	RuleCustom
)

func (r Rule) String() string {
	switch r {
	case RuleWalking:
		return "walking"
	case RuleFalling:
		return "falling"
	}
	return "custom"
}

// State holds the kinematic state of a single character. The character shape is a box centred on
// Pos.
type State struct {
	Pos, LastPos mgl32.Vec3
	Vel, LastVel mgl32.Vec3
	Accel        mgl32.Vec3

	Rotation omath.Rotation

	// HalfExtents is {radius, radius, half height}.
	HalfExtents mgl32.Vec3

	// Floor is the walkable surface under the character while walking.
	Floor surface.Hit

	Crouched bool
}

func (s *State) SetPos(newPos mgl32.Vec3) {
	s.LastPos = s.Pos
	s.Pos = newPos
}

func (s *State) SetVel(newVel mgl32.Vec3) {
	s.LastVel = s.Vel
	s.Vel = newVel
}

// Radius returns the horizontal half extent of the character.
func (s *State) Radius() float32 {
	return s.HalfExtents.X()
}

// HalfHeight returns the vertical half extent of the character.
func (s *State) HalfHeight() float32 {
	return s.HalfExtents.Z()
}

// Feet returns the bottom centre of the character.
func (s *State) Feet() mgl32.Vec3 {
	return s.Pos.Sub(mgl32.Vec3{0, 0, s.HalfHeight()})
}
