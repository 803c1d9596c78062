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

// InitialSpeedMode selects where the speed of a vertical wall run comes from.
type InitialSpeedMode string

const (
	InitialSpeedHorizontal InitialSpeedMode = "horizontal"
	InitialSpeedVertical   InitialSpeedMode = "vertical"
	InitialSpeedFixed      InitialSpeedMode = "fixed"
)

// VerticalWallRunConfig holds the tunables of the vertical wall run.
type VerticalWallRunConfig struct {
	Cooldown          float32          `toml:"cooldown"`
	InitialSpeedMode  InitialSpeedMode `toml:"initial_speed_mode"`
	FixedInitialSpeed float32          `toml:"fixed_initial_speed"`
	Deceleration      float32          `toml:"deceleration"`
	MinInitialSpeed   float32          `toml:"min_initial_speed"`

	MinHorizontalSpeedToStart float32 `toml:"min_horizontal_speed_to_start"`
	MinVerticalSpeedToStart   float32 `toml:"min_vertical_speed_to_start"`
	MinSpeedToContinue        float32 `toml:"min_speed_to_continue"`

	FixedJumpOffVerticalSpeed float32 `toml:"fixed_jump_off_vertical_speed"`
	MinJumpOffHorizontalSpeed float32 `toml:"min_jump_off_horizontal_speed"`
	JumpOffRotateToVelocity   bool    `toml:"jump_off_rotate_to_velocity"`
	JumpOffLaunch             string  `toml:"jump_off_launch"`

	// EnableSlideDown lets the speed drop below zero, sliding the character down the wall.
	EnableSlideDown            bool    `toml:"enable_slide_down"`
	MinInitialSpeedInSlideDown float32 `toml:"min_initial_speed_in_slide_down"`
	MinSpeedInSlideDown        float32 `toml:"min_speed_in_slide_down"`

	MaxVelocityToNormalAngle float32 `toml:"max_velocity_to_normal_angle"`
	MaxAngleForward          float32 `toml:"max_angle_forward"`
	MinDistanceFromGround    float32 `toml:"min_distance_from_ground"`

	SurfaceAngleMin float32 `toml:"surface_angle_min"`
	SurfaceAngleMax float32 `toml:"surface_angle_max"`
	// ActiveSurfaceAngleMin and ActiveSurfaceAngleMax apply while running so that the character
	// can mantle over the top edge.
	ActiveSurfaceAngleMin float32 `toml:"active_surface_angle_min"`
	ActiveSurfaceAngleMax float32 `toml:"active_surface_angle_max"`

	ProbeSizeMultiplier        float32        `toml:"probe_size_multiplier"`
	ProbeBackOffset            float32        `toml:"probe_back_offset"`
	ProbeForwardDistance       float32        `toml:"probe_forward_distance"`
	AssistRadius               float32        `toml:"assist_radius"`
	MaxDistanceFromWallToStart float32        `toml:"max_distance_from_wall_to_start"`
	Filter                     surface.Filter `toml:"filter"`

	OffsetFromWall float32 `toml:"offset_from_wall"`
	SnapSpeed      float32 `toml:"snap_speed"`

	GravityEnabled bool    `toml:"gravity_enabled"`
	Gravity        float32 `toml:"gravity"`
	ApexHoldTime   float32 `toml:"apex_hold_time"`
}

// DefaultVerticalWallRunConfig ...
func DefaultVerticalWallRunConfig() VerticalWallRunConfig {
	return VerticalWallRunConfig{
		Cooldown:                   0.3,
		InitialSpeedMode:           InitialSpeedHorizontal,
		FixedInitialSpeed:          1500,
		Deceleration:               1000,
		MinInitialSpeed:            1000,
		MinHorizontalSpeedToStart:  400,
		MinVerticalSpeedToStart:    200,
		MinSpeedToContinue:         100,
		FixedJumpOffVerticalSpeed:  800,
		MinJumpOffHorizontalSpeed:  500,
		MinSpeedInSlideDown:        -500,
		MaxVelocityToNormalAngle:   15,
		MaxAngleForward:            70,
		MinDistanceFromGround:      100,
		SurfaceAngleMin:            -15,
		SurfaceAngleMax:            15,
		ActiveSurfaceAngleMin:      -60,
		ActiveSurfaceAngleMax:      60,
		ProbeSizeMultiplier:        0.3,
		ProbeBackOffset:            20,
		ProbeForwardDistance:       100,
		AssistRadius:               6,
		MaxDistanceFromWallToStart: 100,
		OffsetFromWall:             45,
		SnapSpeed:                  4,
		Gravity:                    981,
		ApexHoldTime:               0.2,
	}
}

// VerticalWallRun climbs up walls the character runs straight into.
type VerticalWallRun struct {
	movement.ModeBase
	Config VerticalWallRunConfig

	cooldown  timer.Timer
	apexHold  timer.Timer
	speed     float32
	slideDown bool

	info, oldInfo surface.Info
	owner         launch.Owner
}

// NewVerticalWallRun ...
func NewVerticalWallRun(conf VerticalWallRunConfig) *VerticalWallRun {
	return &VerticalWallRun{Config: conf}
}

func (*VerticalWallRun) Name() string {
	return "Vertical Wall Run"
}

func (m *VerticalWallRun) Initialize(h *movement.Host) {
	m.ModeBase.Initialize(h)
	m.cooldown = timer.NewCompleted(m.Config.Cooldown)
	m.apexHold = timer.NewCompleted(m.Config.ApexHoldTime)
	m.owner = launch.OwnerOf(m.Name())
}

func (m *VerticalWallRun) Tick(dt float32) {
	m.sweep()
	m.cooldown.Tick(dt)
}

func (m *VerticalWallRun) CanStart() (string, bool) {
	h, conf := m.Host, m.Config
	if !h.IsFalling() {
		return "Character is not falling", false
	}
	switch h.ActiveMode().(type) {
	case *WallRun:
		return "Wall run is active", false
	case *VerticalWallRun:
		return "Vertical Wall run is active", false
	}
	if !m.cooldown.Completed() {
		return "Cooldown", false
	}
	if !m.info.Valid {
		return "Surface is not valid for vertical wall run", false
	}
	if !clearOfGround(h, conf.MinDistanceFromGround, "") {
		return "Too close to ground", false
	}

	peak := h.PeakHorizontalVelocity()
	if peak.Len() > 100 {
		if angle := omath.AngleBetweenDeg(peak, m.info.Normal.Mul(-1)); angle > conf.MaxVelocityToNormalAngle {
			return fmt.Sprintf("Angle between surface normal and horizontal velocity too high (angle: %.2f, max: %.2f)", angle, conf.MaxVelocityToNormalAngle), false
		}
	}
	forward := omath.HorizontalDirection(h.State().Rotation.Vector())
	if angle := omath.AngleBetweenDeg(forward, omath.HorizontalDirection(m.info.Normal.Mul(-1))); angle > conf.MaxAngleForward {
		return fmt.Sprintf("Angle between surface normal and character forward too high (angle: %.2f, max: %.2f)", angle, conf.MaxAngleForward), false
	}
	if hs := peak.Len(); hs < conf.MinHorizontalSpeedToStart {
		return fmt.Sprintf("Horizontal speed too low (hspeed: %.2f, min: %.2f)", hs, conf.MinHorizontalSpeedToStart), false
	}
	if vs := h.Velocity().Z(); !conf.EnableSlideDown && vs < conf.MinVerticalSpeedToStart {
		return fmt.Sprintf("Vertical speed too low (vspeed: %.2f, min: %.2f)", vs, conf.MinVerticalSpeedToStart), false
	}
	return "", true
}

func (m *VerticalWallRun) Start() {
	h, conf := m.Host, m.Config

	var initial float32
	switch conf.InitialSpeedMode {
	case InitialSpeedVertical:
		initial = h.Velocity().Z()
	case InitialSpeedFixed:
		initial = conf.FixedInitialSpeed
	default:
		initial = omath.Size2D(h.PeakHorizontalVelocity())
	}
	if conf.EnableSlideDown {
		m.speed = max(initial, conf.MinInitialSpeedInSlideDown)
	} else {
		m.speed = max(initial, conf.MinInitialSpeed)
	}
	m.slideDown = m.speed < 0
	m.apexHold = timer.New(conf.ApexHoldTime)
}

func (m *VerticalWallRun) Phys(dt float32, iterations int) {
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
		// Carry the character over the top edge.
		s.SetVel(omath.HorizontalDirection(m.oldInfo.Normal.Mul(-1)).Mul(m.speed))
		h.SetRule(movement.RuleFalling)
		h.StartNewPhysics(dt, iterations)
		return
	}

	var floor float32
	if conf.EnableSlideDown {
		floor = conf.MinSpeedInSlideDown
	}
	m.speed = max(m.speed-conf.Deceleration*dt, floor)
	if conf.GravityEnabled && m.speed <= 0 {
		if !m.apexHold.Completed() {
			m.apexHold.Tick(dt)
			m.speed = 0
		} else {
			m.speed = max(m.speed-conf.Gravity*dt, floor)
		}
	}
	if conf.EnableSlideDown && m.speed < 0 && !m.slideDown {
		m.slideDown = true
		h.Emit(movement.SlideDownStarted{Mode: m.Name()})
	}

	dir := m.ascendingDirection()
	s.SetVel(dir.Mul(m.speed))
	s.Accel = dir.Mul(-conf.Deceleration)
	h.Move(s.Vel.Mul(dt))
	snapToWall(h, m.info, conf.OffsetFromWall, conf.SnapSpeed, dt)
}

// End also delays the horizontal wall run.
func (m *VerticalWallRun) End() {
	if wr, ok := movement.Find[*WallRun](m.Host); ok {
		wr.ActivateCooldown()
	}
}

func (m *VerticalWallRun) Reset() {
	m.cooldown.Complete()
	m.info, m.oldInfo = surface.Info{}, surface.Info{}
	m.speed, m.slideDown = 0, false
}

func (*VerticalWallRun) MovingOnGround() bool {
	return false
}

func (*VerticalWallRun) MovingOnSurface() bool {
	return true
}

// Speed returns the signed climbing speed. It is negative while sliding down.
func (m *VerticalWallRun) Speed() float32 {
	return m.speed
}

func (m *VerticalWallRun) SlidingDown() bool {
	return m.slideDown
}

func (m *VerticalWallRun) Surface() surface.Info {
	return m.info
}

func (m *VerticalWallRun) canContinue() (string, bool) {
	conf := m.Config
	if !conf.EnableSlideDown && m.speed < conf.MinSpeedToContinue {
		return fmt.Sprintf("Speed too low (speed: %.2f, min: %.2f)", m.speed, conf.MinSpeedToContinue), false
	}
	if !m.info.Valid {
		return "Surface is not valid for vertical wall run", false
	}
	if !clearOfGround(m.Host, conf.MinDistanceFromGround, "") {
		return "Too close to ground", false
	}
	return "", true
}

// ascendingDirection returns the direction pointing up along the wall.
func (m *VerticalWallRun) ascendingDirection() mgl32.Vec3 {
	dir := omath.DirectionAlongSurface(m.info.Normal, omath.Up)
	if dir.Z() <= 0 {
		return omath.Up
	}
	return dir
}

func (m *VerticalWallRun) jumpOffVelocity() mgl32.Vec3 {
	speed := max(m.speed, m.Config.MinJumpOffHorizontalSpeed)
	away := omath.HorizontalDirection(m.info.Normal)
	return away.Mul(speed).Add(omath.Up.Mul(m.Config.FixedJumpOffVerticalSpeed))
}

func (m *VerticalWallRun) sweep() {
	h, conf := m.Host, m.Config
	s := h.State()
	forward := omath.HorizontalDirection(s.Rotation.Vector())

	p := wallProbe{
		filter:         conf.Filter,
		angleMin:       conf.SurfaceAngleMin,
		angleMax:       conf.SurfaceAngleMax,
		assistDistance: conf.MaxDistanceFromWallToStart,
		assistRadius:   conf.AssistRadius,
	}
	if m.Active() {
		p.angleMin, p.angleMax = conf.ActiveSurfaceAngleMin, conf.ActiveSurfaceAngleMax
	}
	start := s.Pos.Sub(forward.Mul(conf.ProbeBackOffset))
	end := start.Add(forward.Mul(conf.ProbeForwardDistance))

	m.oldInfo = m.info
	m.info = p.run(h.World(), s.Pos, s.HalfExtents.Mul(conf.ProbeSizeMultiplier), start, end)
	logProbe(h, m.Name(), m.info)
}
