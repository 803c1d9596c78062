package mode

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/launch"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/timer"
)

// SlideDirectionSource selects what the player steers a slide with.
type SlideDirectionSource string

const (
	SlideDirectionInput  SlideDirectionSource = "input"
	SlideDirectionCamera SlideDirectionSource = "camera"
)

// SlideJumpOff selects how the jump-off velocity of a slide is derived.
type SlideJumpOff string

const (
	// SlideJumpOffFixedVertical keeps the horizontal velocity and adds a fixed vertical speed.
	SlideJumpOffFixedVertical SlideJumpOff = "fixed_vertical"
	// SlideJumpOffConverted turns the whole slide speed into a 45 degree jump.
	SlideJumpOffConverted SlideJumpOff = "converted"
)

// SlideConfig holds the tunables of the slide.
type SlideConfig struct {
	Cooldown          float32 `toml:"cooldown"`
	InitialSpeed      float32 `toml:"initial_speed"`
	EndSpeedThreshold float32 `toml:"end_speed_threshold"`

	DecelerationEven             float32 `toml:"deceleration_even"`
	NoDecelerationOnEvenDuration float32 `toml:"no_deceleration_on_even_duration"`
	DecelerationUpwardSlope      float32 `toml:"deceleration_upward_slope"`
	AccelerationDownwardSlope    float32 `toml:"acceleration_downward_slope"`
	MaxDownwardSlopeSpeed        float32 `toml:"max_downward_slope_speed"`

	SlopeAngleMin float32        `toml:"slope_angle_min"`
	SlopeFilter   surface.Filter `toml:"slope_filter"`

	TraceDistance float32        `toml:"trace_distance"`
	SurfaceFilter surface.Filter `toml:"surface_filter"`
	// SnapOffset is the height above the ground the character is pulled to.
	SnapOffset float32 `toml:"snap_offset"`
	SnapSpeed  float32 `toml:"snap_speed"`

	DesiredDirection                 SlideDirectionSource `toml:"desired_direction"`
	DirectionChangeRate              float32              `toml:"direction_change_rate"`
	RotateToDesiredDirection         bool                 `toml:"rotate_to_desired_direction"`
	OverrideDirectionOnDownwardSlope bool                 `toml:"override_direction_on_downward_slope"`

	EnableSlideFromFalling          bool    `toml:"enable_slide_from_falling"`
	SlideFromFallingMaxDistance     float32 `toml:"slide_from_falling_max_distance"`
	SlideFromFallingGracePeriod     float32 `toml:"slide_from_falling_grace_period"`
	SlideFromFallingIncludeVertical bool    `toml:"slide_from_falling_include_vertical"`

	JumpOff                   SlideJumpOff `toml:"jump_off"`
	FixedJumpOffVerticalSpeed float32      `toml:"fixed_jump_off_vertical_speed"`
	JumpOffLaunch             string       `toml:"jump_off_launch"`
}

// DefaultSlideConfig ...
func DefaultSlideConfig() SlideConfig {
	return SlideConfig{
		Cooldown:                        0.5,
		InitialSpeed:                    2500,
		EndSpeedThreshold:               300,
		DecelerationEven:                800,
		NoDecelerationOnEvenDuration:    0.5,
		DecelerationUpwardSlope:         3000,
		AccelerationDownwardSlope:       3000,
		MaxDownwardSlopeSpeed:           3000,
		SlopeAngleMin:                   20,
		TraceDistance:                   300,
		SnapOffset:                      88,
		SnapSpeed:                       4,
		DesiredDirection:                SlideDirectionInput,
		DirectionChangeRate:             7,
		RotateToDesiredDirection:        true,
		EnableSlideFromFalling:          true,
		SlideFromFallingMaxDistance:     30,
		SlideFromFallingGracePeriod:     0.3,
		SlideFromFallingIncludeVertical: true,
		JumpOff:                         SlideJumpOffFixedVertical,
		FixedJumpOffVerticalSpeed:       700,
	}
}

// slideSurface is the ground found under the character.
type slideSurface struct {
	valid  bool
	normal mgl32.Vec3
	snap   mgl32.Vec3
	slope  bool
}

// along returns dir projected on the surface.
func (s slideSurface) along(dir mgl32.Vec3) mgl32.Vec3 {
	return omath.DirectionAlongSurface(s.normal, dir)
}

func (s slideSurface) classify(dir mgl32.Vec3) surface.SlopeDirection {
	if !s.slope {
		return surface.SlopeEven
	}
	return surface.ClassifySlope(s.normal, dir, 0)
}

// Slide slides the character along the ground while the slide input is held.
type Slide struct {
	movement.ModeBase
	Config SlideConfig

	cooldown    timer.Timer
	noDecelEven timer.Timer

	inputHeld      bool
	awaitsInputUp  bool
	initialApplied bool

	fallingVel  mgl32.Vec3
	fallingTime float32
	owner       launch.Owner
}

// NewSlide ...
func NewSlide(conf SlideConfig) *Slide {
	return &Slide{Config: conf}
}

func (*Slide) Name() string {
	return "Slide"
}

func (m *Slide) Initialize(h *movement.Host) {
	m.ModeBase.Initialize(h)
	m.cooldown = timer.NewCompleted(m.Config.Cooldown)
	m.noDecelEven = timer.NewCompleted(m.Config.NoDecelerationOnEvenDuration)
	m.fallingTime = -m.Config.SlideFromFallingGracePeriod - 1
	m.owner = launch.OwnerOf(m.Name())
}

// SetInputHeld updates the state of the slide input.
func (m *Slide) SetInputHeld(held bool) {
	m.inputHeld = held
	if !held {
		m.awaitsInputUp = false
	}
}

func (m *Slide) InputHeld() bool {
	return m.inputHeld
}

func (m *Slide) Tick(dt float32) {
	m.cooldown.Tick(dt)
	m.noDecelEven.Tick(dt)

	h := m.Host
	if h.IsFalling() {
		m.fallingVel = h.Velocity()
		m.fallingTime = h.Time()
		m.awaitsInputUp = false
	}
}

func (m *Slide) CanStart() (string, bool) {
	h := m.Host
	if !m.cooldown.Completed() {
		return "Cooldown", false
	}
	if !m.inputHeld {
		return "Input not held", false
	}
	if m.awaitsInputUp {
		return "Awaits input up", false
	}
	if m.Config.DesiredDirection == SlideDirectionInput && h.Velocity().LenSqr() == 0 {
		return "Slide direction can't be determined from movement input", false
	}
	surf := m.probe()
	if !surf.valid {
		return "Surface is not valid for slide", false
	}
	if !h.IsWalking() && !m.canStartFromFalling(surf) {
		return "Can't start slide from falling", false
	}
	return "", true
}

func (m *Slide) Start() {
	h := m.Host
	m.initialApplied = false
	m.awaitsInputUp = true
	m.noDecelEven.Reset()
	if m.withinGrace() {
		h.Emit(movement.Landed{Mode: m.Name(), Velocity: m.fallingVel})
	}
	h.Crouch(true)
}

func (m *Slide) Phys(dt float32, iterations int) {
	h, conf := m.Host, m.Config
	s := h.State()

	// Input is not up to date yet in Start.
	if !m.initialApplied {
		s.SetVel(m.initialVelocity())
		m.initialApplied = true
	}

	if h.ConsumeJump() {
		v := m.jumpOffVelocity()
		// Holding the input through the jump slides again on landing.
		m.awaitsInputUp = false
		_ = h.AddLaunchFromAsset(v, conf.JumpOffLaunch, m.owner)
		h.Emit(movement.Jumped{Mode: m.Name(), Velocity: v})
		h.SetRule(movement.RuleFalling)
		h.StartNewPhysics(dt, iterations)
		return
	}

	surf := m.probe()
	switch {
	case !surf.valid:
		m.end(movement.RuleFalling, "out of sliding surface", dt, iterations)
		return
	case !m.inputHeld:
		m.end(movement.RuleWalking, "input not held", dt, iterations)
		return
	}
	speed := s.Vel.Len()
	if speed < conf.EndSpeedThreshold {
		m.end(movement.RuleWalking, "not sufficient speed", dt, iterations)
		return
	}

	downward := surf.classify(s.Vel) == surface.SlopeDown
	var target mgl32.Vec3
	if conf.OverrideDirectionOnDownwardSlope && downward {
		target = surface.DownhillDirection(surf.normal)
	} else if conf.RotateToDesiredDirection {
		target = m.desiredDirection()
	}
	target = surf.along(target)
	dir := omath.SafeNormal(s.Vel)
	if target.LenSqr() > 0 {
		dir = omath.SafeNormal(omath.VInterpTo(dir, target, dt, conf.DirectionChangeRate))
	}

	var accel float32
	switch {
	case surf.classify(dir) == surface.SlopeUp:
		speed = max(speed-conf.DecelerationUpwardSlope*dt, 0)
		accel = -conf.DecelerationUpwardSlope
	case downward:
		if speed < conf.MaxDownwardSlopeSpeed {
			speed = min(speed+conf.AccelerationDownwardSlope*dt, conf.MaxDownwardSlopeSpeed)
			accel = conf.AccelerationDownwardSlope
		}
	default:
		if m.noDecelEven.Completed() {
			speed = max(speed-conf.DecelerationEven*dt, 0)
			accel = -conf.DecelerationEven
		}
	}

	s.SetVel(dir.Mul(speed))
	s.Accel = dir.Mul(accel)
	h.Move(s.Vel.Mul(dt))

	if next := m.probe(); next.valid {
		h.Move(next.snap.Sub(s.Pos).Mul(conf.SnapSpeed * dt))
	}
}

func (m *Slide) end(rule movement.Rule, reason string, dt float32, iterations int) {
	h := m.Host
	h.Debugger().Notify(movement.DebugModeTransitions, true, "%s end: %s", m.Name(), reason)
	h.SetRule(rule)
	h.StartNewPhysics(dt, iterations)
}

func (m *Slide) End() {
	m.cooldown.Reset()
	m.Host.Crouch(false)
}

func (m *Slide) Reset() {
	m.cooldown.Complete()
	m.awaitsInputUp = false
	m.initialApplied = false
}

func (*Slide) CanCrouch() bool {
	return true
}

func (*Slide) MovingOnSurface() bool {
	return true
}

func (m *Slide) withinGrace() bool {
	return m.Host.Time()-m.fallingTime <= m.Config.SlideFromFallingGracePeriod
}

func (m *Slide) canStartFromFalling(surf slideSurface) bool {
	conf := m.Config
	if !conf.EnableSlideFromFalling {
		return false
	}
	if !m.Host.IsFalling() && !m.withinGrace() {
		return false
	}
	return surf.snap.Sub(m.Host.State().Pos).Len() <= conf.SlideFromFallingMaxDistance
}

// probe traces down for a slidable surface.
func (m *Slide) probe() slideSurface {
	conf := m.Config
	pos := m.Host.State().Pos
	hit, ok := m.Host.World().LineTrace(pos, pos.Sub(mgl32.Vec3{0, 0, conf.TraceDistance}))
	if !ok {
		return slideSurface{}
	}
	if _, ok := conf.SurfaceFilter.Allows(hit.Tags); !ok {
		return slideSurface{}
	}
	_, slopeOK := conf.SlopeFilter.Allows(hit.Tags)
	return slideSurface{
		valid:  true,
		normal: hit.Normal,
		snap:   hit.Impact.Add(omath.Up.Mul(conf.SnapOffset)),
		slope:  slopeOK && surface.IsSlope(hit.Normal, conf.SlopeAngleMin),
	}
}

func (m *Slide) desiredDirection() mgl32.Vec3 {
	h := m.Host
	if m.Config.DesiredDirection == SlideDirectionCamera {
		return h.ControlRotation().Vector()
	}
	if in := h.LastInputVector(); in.LenSqr() > 0 {
		return omath.SafeNormal(in)
	}
	return omath.SafeNormal(h.Velocity())
}

func (m *Slide) initialVelocity() mgl32.Vec3 {
	h, conf := m.Host, m.Config
	surf := m.probe()
	dir := surf.along(m.desiredDirection())

	speed := h.Velocity().Len()
	if m.canStartFromFalling(surf) {
		v := m.fallingVel
		if !conf.SlideFromFallingIncludeVertical {
			v = omath.Horizontal(v)
		}
		speed = v.Len()
	}
	return dir.Mul(max(speed, conf.InitialSpeed))
}

func (m *Slide) jumpOffVelocity() mgl32.Vec3 {
	v := m.Host.Velocity()
	dir := omath.HorizontalDirection(v)
	if m.Config.JumpOff == SlideJumpOffConverted {
		return omath.SafeNormal(dir.Add(omath.Up)).Mul(v.Len())
	}
	return omath.Horizontal(v).Add(omath.Up.Mul(m.Config.FixedJumpOffVerticalSpeed))
}
