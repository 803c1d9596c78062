package mode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/launch"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/timer"
)

// WallRunConfig holds the tunables of the horizontal wall run.
type WallRunConfig struct {
	Cooldown float32 `toml:"cooldown"`

	Acceleration             float32 `toml:"acceleration"`
	MaxSpeedFromAcceleration float32 `toml:"max_speed_from_acceleration"`
	// SpeedPreservation keeps any speed above MaxSpeedFromAcceleration. Otherwise it decays
	// towards the cap at DecelerationToCap.
	SpeedPreservation          bool    `toml:"speed_preservation"`
	DecelerationToCap          float32 `toml:"deceleration_to_cap"`
	MinHorizontalSpeedToStart  float32 `toml:"min_horizontal_speed_to_start"`
	MinVerticalSpeedToStart    float32 `toml:"min_vertical_speed_to_start"`
	MinVerticalSpeedToContinue float32 `toml:"min_vertical_speed_to_continue"`

	FixedJumpOffSpeed         float32 `toml:"fixed_jump_off_speed"`
	FixedJumpOffVerticalSpeed float32 `toml:"fixed_jump_off_vertical_speed"`
	JumpOffAngleHorizontal    float32 `toml:"jump_off_angle_horizontal"`
	JumpOffAngleVertical      float32 `toml:"jump_off_angle_vertical"`
	JumpOffRotateToVelocity   bool    `toml:"jump_off_rotate_to_velocity"`
	// JumpOffLaunch names the launch asset applied on jump-off.
	JumpOffLaunch string `toml:"jump_off_launch"`

	GravityEnabled bool    `toml:"gravity_enabled"`
	Gravity        float32 `toml:"gravity"`
	// GravityApexTime is how long the vertical speed is held at zero once the ascent runs out.
	GravityApexTime float32 `toml:"gravity_apex_time"`

	// MinAngleForward and MaxAngleForward bound the angle between the character forward and the
	// wall. Zero disables a bound.
	MinAngleForward   float32 `toml:"min_angle_forward"`
	MaxAngleForward   float32 `toml:"max_angle_forward"`
	CanStartBackwards bool    `toml:"can_start_backwards"`

	SurfaceAngleMin       float32        `toml:"surface_angle_min"`
	SurfaceAngleMax       float32        `toml:"surface_angle_max"`
	MinDistanceFromGround float32        `toml:"min_distance_from_ground"`
	ProbeSizeMultiplier   float32        `toml:"probe_size_multiplier"`
	ProbeDistance         float32        `toml:"probe_distance"`
	AssistDistance        float32        `toml:"assist_distance"`
	Filter                surface.Filter `toml:"filter"`
	// GroundTag marks ground that does not count for the ground clearance check.
	GroundTag            string  `toml:"ground_tag"`
	MaxNormalAngleChange float32 `toml:"max_normal_angle_change"`

	OffsetFromWall float32 `toml:"offset_from_wall"`
	SnapSpeed      float32 `toml:"snap_speed"`
}

// DefaultWallRunConfig ...
func DefaultWallRunConfig() WallRunConfig {
	return WallRunConfig{
		Cooldown:                   0.3,
		Acceleration:               1000,
		MaxSpeedFromAcceleration:   1000,
		SpeedPreservation:          true,
		DecelerationToCap:          2000,
		MinHorizontalSpeedToStart:  300,
		MinVerticalSpeedToStart:    300,
		MinVerticalSpeedToContinue: -1000,
		FixedJumpOffSpeed:          1200,
		FixedJumpOffVerticalSpeed:  800,
		JumpOffAngleHorizontal:     45,
		JumpOffAngleVertical:       45,
		GravityEnabled:             true,
		Gravity:                    981,
		GravityApexTime:            2,
		SurfaceAngleMin:            -40,
		SurfaceAngleMax:            10,
		MinDistanceFromGround:      100,
		ProbeSizeMultiplier:        2,
		ProbeDistance:              5,
		AssistDistance:             300,
		GroundTag:                  "WR",
		MaxNormalAngleChange:       60,
		OffsetFromWall:             45,
		SnapSpeed:                  4,
	}
}

// WallSide tells on which side of the character the wall is.
type WallSide uint8

const (
	WallLeft WallSide = iota
	WallRight
)

func (s WallSide) String() string {
	if s == WallLeft {
		return "left"
	}
	return "right"
}

// WallRun runs horizontally along steep walls while falling.
type WallRun struct {
	movement.ModeBase
	Config WallRunConfig

	cooldown timer.Timer
	apex     timer.Timer
	speed    float32
	dir      mgl32.Vec3

	info, oldInfo surface.Info
	owner         launch.Owner
}

// NewWallRun ...
func NewWallRun(conf WallRunConfig) *WallRun {
	return &WallRun{Config: conf}
}

func (*WallRun) Name() string {
	return "Wall Run"
}

func (m *WallRun) Initialize(h *movement.Host) {
	m.ModeBase.Initialize(h)
	m.cooldown = timer.NewCompleted(m.Config.Cooldown)
	m.apex = timer.NewCompleted(m.Config.GravityApexTime)
	m.owner = launch.OwnerOf(m.Name())
}

func (m *WallRun) Tick(dt float32) {
	m.sweep()
	m.cooldown.Tick(dt)
}

func (m *WallRun) CanStart() (string, bool) {
	h, conf := m.Host, m.Config
	if !h.IsFalling() {
		return "Character is not falling", false
	}
	if _, ok := h.ActiveMode().(*WallRun); ok {
		return "Wall Run is active", false
	}
	if !m.cooldown.Completed() {
		return "Cooldown", false
	}
	if !m.info.Valid {
		return "Surface is not valid for wall run", false
	}
	if hs := omath.Size2D(h.PeakHorizontalVelocity()); hs < conf.MinHorizontalSpeedToStart {
		return fmt.Sprintf("Horizontal speed is too low (hspeed: %.2f, min: %.2f)", hs, conf.MinHorizontalSpeedToStart), false
	}
	if vs := h.Velocity().Z(); vs < conf.MinVerticalSpeedToStart {
		return fmt.Sprintf("Vertical speed is too low (vspeed: %.2f, min: %.2f)", vs, conf.MinVerticalSpeedToStart), false
	}
	if !clearOfGround(h, conf.MinDistanceFromGround, conf.GroundTag) {
		return "Too close to ground", false
	}

	forward := omath.HorizontalDirection(h.State().Rotation.Vector())
	angle := omath.AngleBetweenDeg(omath.HorizontalDirection(m.info.Normal.Mul(-1)), forward)
	if conf.MinAngleForward > 0 && angle < conf.MinAngleForward {
		return fmt.Sprintf("Angle between character forward and surface normal too low (angle: %.2f, min: %.2f)", angle, conf.MinAngleForward), false
	}
	if conf.MaxAngleForward > 0 && angle > conf.MaxAngleForward {
		return fmt.Sprintf("Angle between character forward and surface normal too high (angle: %.2f, max: %.2f)", angle, conf.MaxAngleForward), false
	}
	if !conf.CanStartBackwards && forward.Dot(omath.HorizontalDirection(h.Velocity())) < 0 {
		return "Can't wall run backwards, because it's not activated in config", false
	}
	return "", true
}

func (m *WallRun) Start() {
	m.apex = timer.New(m.Config.GravityApexTime)
	m.speed = omath.Size2D(m.Host.PeakHorizontalVelocity())
	m.dir = m.direction()
}

func (m *WallRun) Phys(dt float32, iterations int) {
	h, conf := m.Host, m.Config
	s := h.State()

	if h.ConsumeJump() {
		v := m.jumpOffVelocity()
		m.cooldown.Reset()
		if conf.JumpOffRotateToVelocity {
			s.Rotation = omath.RotationFromVector(omath.Horizontal(v))
		}
		_ = h.AddLaunchFromAsset(v, conf.JumpOffLaunch, m.owner)
		h.Emit(movement.Jumped{Mode: m.Name(), Velocity: v})
		h.SetRule(movement.RuleFalling)
		h.StartNewPhysics(dt, iterations)
		return
	}
	if reason, ok := m.canContinue(); !ok {
		h.Debugger().Notify(movement.DebugModeTransitions, true, "%s: %s", m.Name(), reason)
		h.SetRule(movement.RuleFalling)
		h.StartNewPhysics(dt, iterations)
		return
	}

	m.dir = m.direction()
	h.SetMovementBase(m.info.Body)

	var accel float32
	if m.speed < conf.MaxSpeedFromAcceleration {
		m.speed = min(m.speed+conf.Acceleration*dt, conf.MaxSpeedFromAcceleration)
		accel = conf.Acceleration
	} else if !conf.SpeedPreservation && m.speed > conf.MaxSpeedFromAcceleration {
		m.speed = max(m.speed-conf.DecelerationToCap*dt, conf.MaxSpeedFromAcceleration)
		accel = -conf.DecelerationToCap
	}

	vs := s.Vel.Z()
	if conf.GravityEnabled {
		if g := conf.Gravity * dt; vs < g && !m.apex.Completed() {
			m.apex.Tick(dt)
			vs = 0
		} else {
			vs -= g
		}
	}

	s.SetVel(m.dir.Mul(m.speed).Add(omath.Up.Mul(vs)))
	s.Accel = m.dir.Mul(accel)
	h.Move(s.Vel.Mul(dt))
	snapToWall(h, m.info, conf.OffsetFromWall, conf.SnapSpeed, dt)
}

func (m *WallRun) End() {
	m.cooldown.Reset()
}

// Reset forgets the probed wall and finishes the cooldown.
func (m *WallRun) Reset() {
	m.cooldown.Complete()
	m.info, m.oldInfo = surface.Info{}, surface.Info{}
	m.speed = 0
}

func (*WallRun) MovingOnGround() bool {
	return false
}

func (*WallRun) MovingOnSurface() bool {
	return true
}

// UsesCustomMovementBase makes the wall the movement base while running along it.
func (*WallRun) UsesCustomMovementBase() bool {
	return true
}

// ActivateCooldown arms the cooldown, keeping the mode from starting until it completes.
func (m *WallRun) ActivateCooldown() {
	m.cooldown.Reset()
}

// Surface returns the wall probed on the last tick.
func (m *WallRun) Surface() surface.Info {
	return m.info
}

// Speed returns the horizontal speed along the wall.
func (m *WallRun) Speed() float32 {
	return m.speed
}

// Side returns on which side of the character the wall is.
func (m *WallRun) Side() WallSide {
	if omath.SignedAngleDeg(m.dir, m.info.Normal, omath.Up) < 0 {
		return WallLeft
	}
	return WallRight
}

func (m *WallRun) canContinue() (string, bool) {
	h, conf := m.Host, m.Config
	if !m.info.Valid {
		return "Surface is not valid for wall run", false
	}
	if vs := h.Velocity().Z(); vs < conf.MinVerticalSpeedToContinue {
		return fmt.Sprintf("Vertical speed is too low (vspeed: %.2f, min: %.2f)", vs, conf.MinVerticalSpeedToContinue), false
	}
	if !clearOfGround(h, conf.MinDistanceFromGround, conf.GroundTag) {
		return "Too close to ground", false
	}
	if m.oldInfo.Valid {
		if delta := omath.AngleBetweenDeg(m.info.Normal, m.oldInfo.Normal); delta > conf.MaxNormalAngleChange {
			return fmt.Sprintf("Surface normal angle delta too high (angle: %.2f, max: %.2f)", delta, conf.MaxNormalAngleChange), false
		}
	}
	return "", true
}

// direction returns the horizontal direction along the wall the character is running in.
func (m *WallRun) direction() mgl32.Vec3 {
	s := m.Host.State()
	dir := omath.HorizontalDirection(omath.PlaneProject(s.Vel, m.info.Normal))
	if dir.LenSqr() > 0 {
		return dir
	}
	return omath.HorizontalDirection(omath.PlaneProject(s.Rotation.Vector(), m.info.Normal))
}

func (m *WallRun) jumpOffVelocity() mgl32.Vec3 {
	conf := m.Config
	away := omath.HorizontalDirection(m.info.Normal)
	if conf.SpeedPreservation {
		horizontal := omath.Horizontal(m.Host.Velocity())
		v := omath.TiltTowards(omath.SafeNormal(horizontal), away, conf.JumpOffAngleHorizontal).Mul(horizontal.Len())
		return v.Add(omath.Up.Mul(conf.FixedJumpOffVerticalSpeed))
	}
	dir := omath.TiltTowards(m.dir, away, conf.JumpOffAngleHorizontal)
	return omath.TiltTowards(dir, omath.Up, conf.JumpOffAngleVertical).Mul(conf.FixedJumpOffSpeed)
}

func (m *WallRun) sweep() {
	h, conf := m.Host, m.Config
	s := h.State()
	forward := omath.HorizontalDirection(s.Rotation.Vector())

	p := wallProbe{
		filter:         conf.Filter,
		angleMin:       conf.SurfaceAngleMin,
		angleMax:       conf.SurfaceAngleMax,
		assistDistance: conf.AssistDistance,
	}
	m.oldInfo = m.info
	m.info = p.run(h.World(), s.Pos, s.HalfExtents.Mul(conf.ProbeSizeMultiplier), s.Pos, s.Pos.Add(forward.Mul(conf.ProbeDistance)))
	logProbe(h, m.Name(), m.info)
}
