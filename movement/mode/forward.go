package mode

import (
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
)

// Source supplies the normalized distance travelled by a curve driven movement, typically read
// from the root motion curve of an animation.
type Source interface {
	// Distance returns the fraction of the total distance travelled after elapsed seconds.
	Distance(elapsed float32) float32
}

// Finisher is implemented by sources that know when the movement is over. Movements from other
// sources last until FinishMovement is called.
type Finisher interface {
	Finished(elapsed float32) bool
}

// CurveSource is a Source driven by a curve over a fixed duration.
type CurveSource struct {
	Curve    curve.Curve
	Duration float32
}

func (s CurveSource) Distance(elapsed float32) float32 {
	if s.Curve == nil {
		return 0
	}
	t := float32(1)
	if s.Duration > 0 {
		t = omath.Clamp(elapsed/s.Duration, 0, 1)
	}
	return s.Curve.Eval(t)
}

func (s CurveSource) Finished(elapsed float32) bool {
	return elapsed >= s.Duration
}

// ForwardMovement moves the character along its facing by the distance a Source reports, for
// moves whose travel is authored in an animation.
type ForwardMovement struct {
	movement.ModeBase

	wantsToStart  bool
	wantsToFinish bool
	needsRotation bool

	source   Source
	distance float32
	elapsed  float32
	previous float32
	rotation omath.Rotation
}

// NewForwardMovement ...
func NewForwardMovement() *ForwardMovement {
	return &ForwardMovement{}
}

func (*ForwardMovement) Name() string {
	return "Forward Movement"
}

// StartMovement requests a movement of at most distanceMax along the character facing, following
// src.
func (m *ForwardMovement) StartMovement(distanceMax float32, src Source) {
	m.wantsToStart = true
	m.distance = distanceMax
	m.source = src
}

// FinishMovement ends an active movement on its next step.
func (m *ForwardMovement) FinishMovement() {
	if m.Active() {
		m.wantsToFinish = true
	}
}

func (m *ForwardMovement) CanStart() (string, bool) {
	if !m.wantsToStart {
		return "Not triggered by input", false
	}
	m.wantsToStart = false
	return "", true
}

func (m *ForwardMovement) Start() {
	m.wantsToFinish = m.source == nil
	m.elapsed, m.previous = 0, 0
	m.needsRotation = true
}

func (m *ForwardMovement) Phys(dt float32, iterations int) {
	h := m.Host
	s := h.State()
	if m.wantsToFinish {
		h.SetRule(movement.RuleFalling)
		h.StartNewPhysics(dt, iterations)
		return
	}
	if m.needsRotation {
		m.rotation = s.Rotation
		m.needsRotation = false
	}

	m.elapsed += dt
	total := m.source.Distance(m.elapsed) * m.distance
	step := max(0, total-m.previous)
	m.previous = total

	vel := m.rotation.Vector().Mul(step / dt)
	s.Accel = vel.Sub(s.Vel).Mul(1 / dt)
	s.SetVel(vel)
	h.Move(vel.Mul(dt))

	if f, ok := m.source.(Finisher); ok && f.Finished(m.elapsed) {
		m.wantsToFinish = true
	}
}

func (m *ForwardMovement) Reset() {
	m.wantsToStart, m.wantsToFinish = false, false
}

// OrientRotation keeps the rotation the movement started with.
func (m *ForwardMovement) OrientRotation(current omath.Rotation, _ float32) omath.Rotation {
	if m.needsRotation {
		return current
	}
	return m.rotation
}

func (*ForwardMovement) MovingOnGround() bool {
	return false
}
