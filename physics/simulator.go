package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/world"
)

// Config holds the tunables of the default walking and falling rules.
type Config struct {
	MaxWalkSpeed               float32 `toml:"max_walk_speed"`
	BrakingDecelerationWalking float32 `toml:"braking_deceleration_walking"`
	BrakingDecelerationFalling float32 `toml:"braking_deceleration_falling"`
	GroundFriction             float32 `toml:"ground_friction"`
	BrakingFrictionFactor      float32 `toml:"braking_friction_factor"`

	Gravity          float32 `toml:"gravity"`
	GravityScale     float32 `toml:"gravity_scale"`
	TerminalVelocity float32 `toml:"terminal_velocity"`
	AirControl       float32 `toml:"air_control"`

	// WalkableFloorZ is the smallest Z component of a floor normal that can be walked on.
	WalkableFloorZ float32 `toml:"walkable_floor_z"`
	// FloorProbeDistance is how far below the character a floor is searched for while walking.
	FloorProbeDistance float32 `toml:"floor_probe_distance"`
}

// DefaultConfig returns the default rule tunables.
func DefaultConfig() Config {
	return Config{
		MaxWalkSpeed:               600,
		BrakingDecelerationWalking: 2048,
		GroundFriction:             8,
		BrakingFrictionFactor:      2,
		Gravity:                    981,
		GravityScale:               1,
		TerminalVelocity:           4000,
		AirControl:                 0.35,
		WalkableFloorZ:             0.71,
		FloorProbeDistance:         4,
	}
}

// Simulator runs the default movement rules of a character against a world.
type Simulator struct {
	World  *world.World
	Config Config

	// Debugf receives internal simulation trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
}

// New returns a simulator for w.
func New(w *world.World, conf Config) *Simulator {
	return &Simulator{World: w, Config: conf}
}

func (sim *Simulator) debugf(format string, args ...any) {
	if sim.Debugf != nil {
		sim.Debugf(format, args...)
	}
}

func (sim *Simulator) LineTrace(start, end mgl32.Vec3) (surface.Hit, bool) {
	return sim.World.LineTrace(start, end)
}

func (sim *Simulator) SweepBox(half, start, end mgl32.Vec3) []surface.Hit {
	return sim.World.SweepBox(half, start, end)
}

// Move slides the character by delta.
func (sim *Simulator) Move(s *movement.State, delta mgl32.Vec3) (surface.Hit, bool) {
	if delta.LenSqr() == 0 {
		return surface.Hit{}, false
	}
	res := sim.World.Move(world.BoxAround(s.Pos, s.HalfExtents), delta)
	s.SetPos(s.Pos.Add(res.Delta))
	return res.Hit, res.Blocked
}

// FindFloor returns the walkable surface at most distance below the character.
func (sim *Simulator) FindFloor(s *movement.State, distance float32) (surface.Hit, bool) {
	hits := sim.World.SweepBox(s.HalfExtents, s.Pos, s.Pos.Sub(mgl32.Vec3{0, 0, distance}))
	for _, hit := range hits {
		if hit.StartPenetrating {
			continue
		}
		return hit, sim.IsWalkable(hit.Normal)
	}
	return surface.Hit{}, false
}

// IsWalkable reports whether a surface with the given normal can be walked on.
func (sim *Simulator) IsWalkable(normal mgl32.Vec3) bool {
	return normal.Z() >= sim.Config.WalkableFloorZ
}

// Walk runs one step of the walking rule.
func (sim *Simulator) Walk(s *movement.State, d movement.Drive) movement.Outcome {
	conf := sim.Config
	braking := conf.BrakingDecelerationWalking * d.BrakingMultiplier
	vel := calcVelocity(s.Vel, d.Acceleration, d.Dt, conf.GroundFriction, conf.BrakingFrictionFactor*d.BrakingMultiplier, braking, conf.MaxWalkSpeed)
	vel[2] = 0
	s.SetVel(vel)

	horizontal := omath.Horizontal(vel)
	delta := horizontal.Mul(d.Dt)
	if s.Floor.Normal.LenSqr() > 0 {
		delta = omath.DirectionAlongSurface(s.Floor.Normal, horizontal).Mul(delta.Len())
	}
	hit, blocked := sim.Move(s, delta)
	if blocked && !sim.IsWalkable(hit.Normal) {
		s.Vel = omath.PlaneProject(s.Vel, omath.Horizontal(hit.Normal))
	}

	floor, ok := sim.FindFloor(s, conf.FloorProbeDistance)
	if !ok {
		sim.debugf("walk: no floor under %v, falling", s.Pos)
		s.Floor = surface.Hit{}
		return movement.Outcome{Rule: movement.RuleFalling, Hit: hit, Blocked: blocked}
	}
	if snap := floor.Location.Sub(s.Pos); snap.LenSqr() > 0 {
		sim.Move(s, mgl32.Vec3{0, 0, snap.Z()})
	}
	s.Floor = floor
	return movement.Outcome{Rule: movement.RuleWalking, Hit: hit, Blocked: blocked}
}

// Fall runs one step of the falling rule.
func (sim *Simulator) Fall(s *movement.State, d movement.Drive) movement.Outcome {
	conf := sim.Config
	braking := conf.BrakingDecelerationFalling * d.BrakingMultiplier
	accel := omath.Horizontal(d.Acceleration).Mul(conf.AirControl)
	vel := calcVelocity(s.Vel, accel, d.Dt, 0, conf.BrakingFrictionFactor*d.BrakingMultiplier, braking, max(conf.MaxWalkSpeed, omath.Size2D(s.Vel)))

	gravity := conf.Gravity * conf.GravityScale * d.GravityMultiplier
	vel[2] = max(s.Vel.Z()-gravity*d.Dt, -conf.TerminalVelocity)
	s.SetVel(vel)

	hit, blocked := sim.Move(s, vel.Mul(d.Dt))
	if !blocked {
		return movement.Outcome{Rule: movement.RuleFalling}
	}

	if sim.IsWalkable(hit.Normal) && vel.Z() <= 0 && !d.WalkBlocked {
		s.SetVel(mgl32.Vec3{vel.X(), vel.Y(), 0})
		s.Floor = hit
		sim.debugf("fall: landed at %v", s.Pos)
		return movement.Outcome{Rule: movement.RuleWalking, Landed: true, Hit: hit, Blocked: true}
	}

	// Slide along whatever was hit.
	if into := s.Vel.Dot(hit.Normal); into < 0 {
		s.Vel = s.Vel.Sub(hit.Normal.Mul(into))
	}
	return movement.Outcome{Rule: movement.RuleFalling, Hit: hit, Blocked: true}
}
