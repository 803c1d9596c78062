package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/launch"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/sirupsen/logrus"
)

// minTickTime is the smallest delta time that is still simulated.
const minTickTime float32 = 1e-6

// Input is the player input for one step.
type Input struct {
	// Move is the world space movement input, at most unit length.
	Move mgl32.Vec3
	// Jump is set on the step the jump button was pressed.
	Jump bool
	// ControlRotation is the camera rotation.
	ControlRotation omath.Rotation
}

// Options configure a Host.
type Options struct {
	MaxAcceleration float32 `toml:"max_acceleration"`
	JumpZVelocity   float32 `toml:"jump_z_velocity"`
	// MaxIterations bounds how many times a single step may be handed from rule to rule.
	MaxIterations int `toml:"max_iterations"`
	// TemporalVelocitySamples is the length of the window PeakHorizontalVelocity looks at.
	TemporalVelocitySamples int `toml:"temporal_velocity_samples"`
	// RotationRate is how fast, in degrees per second, the character turns towards its movement
	// direction. Zero disables turning.
	RotationRate float32 `toml:"rotation_rate"`

	Launch launch.Options `toml:"launch"`

	Log      *logrus.Logger   `toml:"-"`
	Debugger *Debugger        `toml:"-"`
	Reporter *assert.Reporter `toml:"-"`
}

// DefaultOptions returns the default host options.
func DefaultOptions() Options {
	return Options{
		MaxAcceleration:         2048,
		JumpZVelocity:           700,
		MaxIterations:           8,
		TemporalVelocitySamples: 3,
		RotationRate:            720,
		Launch:                  launch.DefaultOptions(),
	}
}

// Host is the movement state machine of a single character. It owns one instance of every
// registered mode, polls them for eligibility every step and hands the step's integration to the
// active mode or to the default rules of the simulation.
type Host struct {
	sim   Simulation
	state State
	rule  Rule

	modes       []Mode
	failReasons []string
	active      int

	launches *launch.Manager

	input          Input
	lastInput      mgl32.Vec3
	jumpConsumed   bool
	temporal       *utils.CircularQueue[mgl32.Vec3]
	clock          float32
	lastGroundTime float32
	// movementBase is the body the character moves on. Zero means none.
	movementBase surface.BodyID

	subscribers []subscriber
	nextSub     int

	opts Options
	log  *logrus.Logger
	dbg  *Debugger
	rep  *assert.Reporter
}

type subscriber struct {
	id int
	fn func(Event)
}

// New returns a falling character at rest simulated by sim.
func New(sim Simulation, state State, opts Options) *Host {
	assert.IsTrue(sim != nil, "movement host requires a simulation")
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 1
	}
	if opts.Reporter == nil {
		opts.Reporter = &assert.Reporter{Log: opts.Log}
	}

	h := &Host{
		sim:      sim,
		state:    state,
		rule:     RuleFalling,
		active:   -1,
		temporal: utils.NewCircularQueue[mgl32.Vec3](opts.TemporalVelocitySamples),
		opts:     opts,
		log:      opts.Log,
		dbg:      opts.Debugger,
		rep:      opts.Reporter,
	}

	launchOpts := opts.Launch
	onAdd := launchOpts.OnAdd
	launchOpts.OnAdd = func(inst *launch.Instance) {
		h.dbg.Notify(DebugModeLaunches, true, "launch added: velocity=%v owned=%v", inst.Velocity, inst.Owned)
		h.emit(LaunchAdded{Velocity: inst.Velocity, Owned: inst.Owned})
		if onAdd != nil {
			onAdd(inst)
		}
	}
	h.launches = launch.NewManager(h, opts.Log, launchOpts)
	return h
}

// Register adds modes in poll priority order and initializes them.
func (h *Host) Register(modes ...Mode) {
	for _, m := range modes {
		h.modes = append(h.modes, m)
		h.failReasons = append(h.failReasons, "")
		m.Initialize(h)
	}
}

// Step advances the character by dt.
func (h *Host) Step(dt float32, in Input) {
	h.input = in
	h.jumpConsumed = false
	if !omath.IsNearlyZero(in.Move, omath.Epsilon) {
		h.lastInput = in.Move
	}
	h.clock += dt

	h.launches.Tick(dt)
	for _, m := range h.modes {
		m.Tick(dt)
	}

	h.StartNewPhysics(dt, 0)
	h.pollAndMaybeActivate()

	h.orient(dt)
	if h.IsMovingOnSurface() {
		h.lastGroundTime = h.clock
	}
	h.updateMovementBase()
	_ = h.temporal.Append(omath.Horizontal(h.state.Vel))
}

// StartNewPhysics runs dt through the current rule. Modes call it after switching rule to hand the
// rest of their step to the new rule.
func (h *Host) StartNewPhysics(dt float32, iterations int) {
	if dt < minTickTime || iterations >= h.opts.MaxIterations {
		return
	}
	iterations++

	switch h.rule {
	case RuleWalking, RuleFalling:
		h.physDefault(dt, iterations)
	case RuleCustom:
		h.modes[h.active].Phys(dt, iterations)
	}
}

func (h *Host) physDefault(dt float32, iterations int) {
	if h.rule == RuleWalking && h.input.Jump && h.ConsumeJump() {
		h.state.SetVel(mgl32.Vec3{h.state.Vel.X(), h.state.Vel.Y(), h.opts.JumpZVelocity})
		h.rule = RuleFalling
		h.emit(Jumped{Velocity: h.state.Vel})
	}

	accel := omath.Horizontal(h.input.Move).Mul(h.opts.MaxAcceleration)
	res := h.launches.Process(accel)
	d := Drive{
		Dt:                dt,
		Acceleration:      res.Acceleration,
		BrakingMultiplier: res.BrakingMultiplier,
		GravityMultiplier: res.GravityMultiplier,
		WalkBlocked:       h.launches.IsWalkBlocked(),
	}
	h.state.Accel = res.Acceleration

	var out Outcome
	if h.rule == RuleWalking {
		out = h.sim.Walk(&h.state, d)
	} else {
		out = h.sim.Fall(&h.state, d)
	}
	h.dbg.Notify(DebugModePhysics, true, "%v: pos=%v vel=%v -> %v", h.rule, h.state.Pos, h.state.Vel, out.Rule)

	if out.Rule == RuleCustom {
		return
	}
	h.rule = out.Rule
	if out.Landed {
		h.lastGroundTime = h.clock
		h.emit(Landed{Velocity: h.state.LastVel})
	}
}

// pollAndMaybeActivate activates the first mode, in registration order, that can start.
func (h *Host) pollAndMaybeActivate() {
	candidate := -1
	for i, m := range h.modes {
		reason, ok := m.CanStart()
		if ok {
			h.failReasons[i] = ""
			candidate = i
			break
		}
		h.failReasons[i] = reason
	}
	if candidate < 0 || candidate == h.active {
		return
	}
	h.SetCustom(candidate)
}

// SetRule hands the character to one of the default rules, ending the active mode.
func (h *Host) SetRule(r Rule) {
	if !h.rep.Check(r != RuleCustom, "SetRule called with the custom rule, use SetCustom") {
		return
	}
	h.endActive()
	h.rule = r
}

// SetCustom makes the mode at index the active mode.
func (h *Host) SetCustom(index int) {
	if !h.rep.Check(index >= 0 && index < len(h.modes), "%v: %d (%d modes registered)", oerror.ErrModeIndex, index, len(h.modes)) {
		return
	}
	if h.active == index {
		return
	}
	h.endActive()

	m := h.modes[index]
	h.active = index
	h.rule = RuleCustom
	m.base().active = true
	h.dbg.Notify(DebugModeTransitions, true, "mode %s started", m.Name())
	m.Start()
	h.emit(ModeStarted{Mode: m.Name()})
}

func (h *Host) endActive() {
	if h.active < 0 {
		return
	}
	m := h.modes[h.active]
	h.active = -1
	m.End()
	m.base().active = false
	h.dbg.Notify(DebugModeTransitions, true, "mode %s ended", m.Name())
	h.emit(ModeEnded{Mode: m.Name()})
}

// SetMovementBase sets the body the character moves on. It only sticks while the active mode uses a
// custom movement base; otherwise the host derives the base from the floor on the next step.
func (h *Host) SetMovementBase(body surface.BodyID) {
	if h.movementBase == body {
		return
	}
	h.movementBase = body
	h.dbg.Notify(DebugModeTransitions, true, "movement base changed to %d", body)
}

func (h *Host) updateMovementBase() {
	if m := h.ActiveMode(); m != nil && m.UsesCustomMovementBase() {
		return
	}
	var body surface.BodyID
	if h.rule == RuleWalking {
		body = h.state.Floor.Body
	}
	h.SetMovementBase(body)
}

func (h *Host) orient(dt float32) {
	if m := h.ActiveMode(); m != nil {
		if o, ok := m.(Orienter); ok {
			h.state.Rotation = o.OrientRotation(h.state.Rotation, dt)
			return
		}
	}
	if h.opts.RotationRate <= 0 {
		return
	}
	dir := omath.HorizontalDirection(h.state.Vel)
	if dir.LenSqr() == 0 {
		return
	}
	target := omath.RotationFromVector(dir).Yaw
	delta := target - h.state.Rotation.Yaw
	for delta > 180 {
		delta -= 360
	}
	for delta < -180 {
		delta += 360
	}
	step := h.opts.RotationRate * dt
	h.state.Rotation.Yaw += omath.Clamp(delta, -step, step)
}

// Reset clears every launch, ends the active mode and leaves the character falling at rest. Modes
// implementing Resetter are reset as well.
func (h *Host) Reset() {
	h.launches.Clear()
	h.SetRule(RuleFalling)
	h.state.SetVel(mgl32.Vec3{})
	h.state.Accel = mgl32.Vec3{}
	for _, m := range h.modes {
		if r, ok := m.(Resetter); ok {
			r.Reset()
		}
	}
	h.temporal.Clear()
	h.movementBase = 0
	h.emit(ResetPerformed{})
}

// Subscribe registers fn for every event the host broadcasts and returns a function removing it.
func (h *Host) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.nextSub++
	id := h.nextSub
	h.subscribers = append(h.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range h.subscribers {
			if s.id == id {
				h.subscribers = append(h.subscribers[:i:i], h.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Emit broadcasts e to every subscriber.
func (h *Host) Emit(e Event) {
	h.emit(e)
}

func (h *Host) emit(e Event) {
	for _, s := range h.subscribers {
		s.fn(e)
	}
}

// Move applies delta to the character with move-and-slide.
func (h *Host) Move(delta mgl32.Vec3) (surface.Hit, bool) {
	return h.sim.Move(&h.state, delta)
}

// World returns the collision queries of the simulation.
func (h *Host) World() surface.World {
	return h.sim
}

// FindFloor looks for walkable ground at most distance below the character.
func (h *Host) FindFloor(distance float32) (surface.Hit, bool) {
	return h.sim.FindFloor(&h.state, distance)
}
