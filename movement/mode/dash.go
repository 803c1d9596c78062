package mode

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/launch"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/timer"
)

// Damager receives the damage a dash deals to the bodies it passes through.
type Damager interface {
	Damage(body surface.BodyID, amount float32)
}

// DashConfig holds the tunables of the dash.
type DashConfig struct {
	Distance float32 `toml:"distance"`
	Duration float32 `toml:"duration"`
	Cooldown float32 `toml:"cooldown"`
	// DistanceCurve maps the progress of the dash to the fraction of Distance travelled.
	DistanceCurve *curve.Keyed `toml:"distance_curve"`

	UseVerticalDirection bool `toml:"use_vertical_direction"`
	UseInputDirection    bool `toml:"use_input_direction"`

	LaunchOnFinish bool   `toml:"launch_on_finish"`
	FinishLaunch   string `toml:"finish_launch"`

	PreserveVelocityOnlyInDashDirection bool    `toml:"preserve_velocity_only_in_dash_direction"`
	PreservedSpeedMin                   float32 `toml:"preserved_speed_min"`

	EnableCharges                   bool `toml:"enable_charges"`
	ChargesInitial                  int  `toml:"charges_initial"`
	ChargesMax                      int  `toml:"charges_max"`
	RestoreChargesOnGround          bool `toml:"restore_charges_on_ground"`
	RestoreChargesOnWallRun         bool `toml:"restore_charges_on_wall_run"`
	RestoreChargesOnVerticalWallRun bool `toml:"restore_charges_on_vertical_wall_run"`

	EnableDamage     bool           `toml:"enable_damage"`
	DamageAmount     float32        `toml:"damage_amount"`
	DamageShapeScale float32        `toml:"damage_shape_scale"`
	DamageFilter     surface.Filter `toml:"damage_filter"`
}

// DefaultDashConfig ...
func DefaultDashConfig() DashConfig {
	return DashConfig{
		Distance:                            800,
		Duration:                            0.3,
		Cooldown:                            1,
		DistanceCurve:                       curve.Linear(0, 1),
		UseVerticalDirection:                true,
		UseInputDirection:                   true,
		PreserveVelocityOnlyInDashDirection: true,
		PreservedSpeedMin:                   1000,
		ChargesInitial:                      1,
		ChargesMax:                          1,
		RestoreChargesOnGround:              true,
		DamageAmount:                        10,
		DamageShapeScale:                    1.5,
		DamageFilter:                        surface.Filter{Require: "Damageable"},
	}
}

// Dash moves the character a fixed distance along a straight line over a short duration.
type Dash struct {
	movement.ModeBase
	Config  DashConfig
	Damager Damager

	cooldown timer.Timer
	duration timer.Timer
	charges  int

	wantsToDash bool
	initialized bool
	dir         mgl32.Vec3
	origin      mgl32.Vec3
	preserved   mgl32.Vec3
	damaged     map[surface.BodyID]struct{}
	owner       launch.Owner
}

// NewDash ...
func NewDash(conf DashConfig) *Dash {
	return &Dash{Config: conf}
}

func (*Dash) Name() string {
	return "Dash"
}

func (m *Dash) Initialize(h *movement.Host) {
	m.ModeBase.Initialize(h)
	m.charges = m.Config.ChargesInitial
	m.cooldown = timer.NewCompleted(m.Config.Cooldown)
	m.duration = timer.NewCompleted(m.Config.Duration)
	m.damaged = make(map[surface.BodyID]struct{})
	m.owner = launch.OwnerOf(m.Name())
}

// Trigger requests a dash. The request is consumed by the next successful start.
func (m *Dash) Trigger() {
	m.wantsToDash = true
}

func (m *Dash) Tick(dt float32) {
	m.cooldown.Tick(dt)

	conf := m.Config
	if !conf.EnableCharges {
		return
	}
	h := m.Host
	if conf.RestoreChargesOnGround && h.IsMovingOnGround() {
		m.resetCharges(true)
	}
	switch h.ActiveMode().(type) {
	case *WallRun:
		if conf.RestoreChargesOnWallRun {
			m.resetCharges(true)
		}
	case *VerticalWallRun:
		if conf.RestoreChargesOnVerticalWallRun {
			m.resetCharges(true)
		}
	}
}

func (m *Dash) CanStart() (string, bool) {
	if !m.cooldown.Completed() {
		return "Cooldown", false
	}
	if !m.wantsToDash {
		return "Not triggered by input", false
	}
	if m.Config.EnableCharges && m.charges == 0 {
		return "Charges depleted", false
	}
	m.wantsToDash = false
	return "", true
}

func (m *Dash) Start() {
	m.initialized = false
	m.Host.Launches().Clear()
	if m.Config.EnableCharges {
		m.UseCharge()
	}
}

func (m *Dash) Phys(dt float32, iterations int) {
	h, conf := m.Host, m.Config
	s := h.State()
	if !m.initialized {
		m.begin()
	}

	step := min(m.duration.Remaining(), dt)
	if step < dt {
		m.duration.Complete()
	} else {
		m.duration.Tick(step)
	}

	frac := m.duration.Progress()
	if c := curve.Of(conf.DistanceCurve); c != nil {
		frac = c.Eval(frac)
	}
	dist := frac * conf.Distance
	delta := m.origin.Add(m.dir.Mul(dist)).Sub(s.Pos)
	if step > 0 {
		vel := delta.Mul(1 / step)
		s.Accel = vel.Sub(s.Vel).Mul(1 / step)
		s.SetVel(vel)
	}

	from := s.Pos
	h.Move(delta)
	if conf.EnableDamage && m.Damager != nil {
		m.dealDamage(from, s.Pos)
	}

	if !m.duration.Completed() {
		return
	}
	end := m.preserved
	if end.Len() <= conf.PreservedSpeedMin {
		end = m.dir.Mul(conf.PreservedSpeedMin)
	}
	s.SetVel(end)
	if conf.LaunchOnFinish {
		_ = h.AddLaunchFromAsset(end, conf.FinishLaunch, m.owner)
	}
	h.ClearTemporalHorizontalVelocity()
	h.SetRule(movement.RuleFalling)
	if rest := dt - step; rest > 0 {
		h.StartNewPhysics(rest, iterations)
	}
}

func (m *Dash) End() {
	m.cooldown.Reset()
}

// Reset cancels a pending trigger and restores the charges.
func (m *Dash) Reset() {
	m.wantsToDash = false
	m.cooldown.Complete()
	m.resetCharges(false)
}

func (*Dash) MovingOnGround() bool {
	return false
}

// Charges returns the dash charges left.
func (m *Dash) Charges() int {
	return m.charges
}

func (m *Dash) ChargesMax() int {
	return m.Config.ChargesMax
}

func (m *Dash) CanAddCharge() bool {
	return m.charges < m.Config.ChargesMax
}

// AddCharge restores a single charge, up to the maximum.
func (m *Dash) AddCharge() {
	m.setCharges(min(m.charges+1, m.Config.ChargesMax), true)
}

// UseCharge spends a charge.
func (m *Dash) UseCharge() {
	m.setCharges(max(m.charges-1, 0), true)
}

// ResetCharges restores the initial amount of charges.
func (m *Dash) ResetCharges() {
	m.resetCharges(true)
}

func (m *Dash) resetCharges(animate bool) {
	m.setCharges(m.Config.ChargesInitial, animate)
}

func (m *Dash) setCharges(n int, animate bool) {
	old := m.charges
	m.charges = n
	if old != n {
		m.Host.Emit(movement.DashChargeUpdated{Delta: n - old, Current: n, Animate: animate})
	}
}

// begin fixes the direction and origin of the dash on its first step.
func (m *Dash) begin() {
	h, conf := m.Host, m.Config
	ctrl := h.ControlRotation()

	dir := ctrl.Vector()
	if in := h.InputVector(); conf.UseInputDirection && in.LenSqr() > 0 {
		dir = omath.TiltTowards(omath.HorizontalDirection(in), omath.Up, ctrl.Pitch)
	}
	if !conf.UseVerticalDirection {
		dir = omath.Horizontal(dir)
	}
	m.dir = omath.SafeNormal(dir)

	preserved := h.PeakHorizontalVelocity()
	if conf.PreserveVelocityOnlyInDashDirection {
		preserved = omath.ProjectOnTo(preserved, m.dir)
		if preserved.Dot(m.dir) < 0 {
			preserved = mgl32.Vec3{}
		}
	}
	m.preserved = preserved
	m.origin = h.State().Pos
	m.duration.Reset()
	clear(m.damaged)
	m.initialized = true
}

func (m *Dash) dealDamage(from, to mgl32.Vec3) {
	conf := m.Config
	half := m.Host.State().HalfExtents.Mul(conf.DamageShapeScale)
	for _, hit := range m.Host.World().SweepBox(half, from, to) {
		if _, ok := conf.DamageFilter.Allows(hit.Tags); !ok {
			continue
		}
		if _, ok := m.damaged[hit.Body]; ok {
			continue
		}
		m.damaged[hit.Body] = struct{}{}
		m.Damager.Damage(hit.Body, conf.DamageAmount)
	}
}
