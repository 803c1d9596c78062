package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/surface"
)

// Simulation is the host simulation the movement layer sits on. It owns collision and the default
// walking and falling rules.
type Simulation interface {
	surface.World

	// Move applies delta to the character with move-and-slide and returns the first blocking hit.
	Move(s *State, delta mgl32.Vec3) (surface.Hit, bool)
	// FindFloor looks for walkable ground at most distance below the character.
	FindFloor(s *State, distance float32) (surface.Hit, bool)

	// Walk and Fall integrate one step of the default rules and return the rule the character
	// should be in afterwards.
	Walk(s *State, d Drive) Outcome
	Fall(s *State, d Drive) Outcome
}

// Drive is the input to one step of a default rule.
type Drive struct {
	Dt float32
	// Acceleration is the input acceleration after launches were applied.
	Acceleration mgl32.Vec3

	BrakingMultiplier float32
	GravityMultiplier float32

	// WalkBlocked vetoes landing on walkable ground.
	WalkBlocked bool
}

// Outcome is the result of one step of a default rule.
type Outcome struct {
	Rule Rule
	// Landed is set when a falling character reached walkable ground.
	Landed bool

	Hit     surface.Hit
	Blocked bool
}
