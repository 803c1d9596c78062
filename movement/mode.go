package movement

import "github.com/oomph-ac/locomotion/omath"

// Mode is a pluggable locomotion behaviour. A host owns one persistent instance per mode, ticks
// every mode each frame and sends the lifecycle calls to at most one active mode at a time.
type Mode interface {
	Name() string
	// Initialize is called once when the mode is registered with a host.
	Initialize(h *Host)

	// Tick is called every frame before the host polls, whether or not the mode is active.
	Tick(dt float32)
	// CanStart reports whether the mode may become active and why not. It may consume one shot
	// trigger flags.
	CanStart() (reason string, ok bool)
	Start()
	// Phys integrates velocity and moves the character while the mode is active.
	Phys(dt float32, iterations int)
	End()

	Active() bool
	CanCrouch() bool
	MovingOnGround() bool
	MovingOnSurface() bool
	// UsesCustomMovementBase reports whether the mode sets the movement base itself while active.
	UsesCustomMovementBase() bool

	base() *ModeBase
}

// Resetter is implemented by modes that react to a host reset.
type Resetter interface {
	Reset()
}

// Orienter is implemented by modes that drive the character rotation while active.
type Orienter interface {
	OrientRotation(current omath.Rotation, dt float32) omath.Rotation
}

// ModeBase implements the defaults shared by every mode. Modes embed it and override what they
// need. The active flag is owned by the host.
type ModeBase struct {
	Host *Host

	active bool
}

func (m *ModeBase) base() *ModeBase {
	return m
}

func (m *ModeBase) Initialize(h *Host) {
	m.Host = h
}

func (*ModeBase) Tick(float32) {}

func (*ModeBase) CanStart() (string, bool) {
	return "", true
}

func (*ModeBase) Start() {}

func (*ModeBase) Phys(float32, int) {}

func (*ModeBase) End() {}

func (m *ModeBase) Active() bool {
	return m.active
}

func (*ModeBase) CanCrouch() bool {
	return false
}

func (*ModeBase) MovingOnGround() bool {
	return true
}

func (*ModeBase) MovingOnSurface() bool {
	return false
}

func (*ModeBase) UsesCustomMovementBase() bool {
	return false
}

// Find returns the first mode of type T registered with h.
func Find[T Mode](h *Host) (T, bool) {
	for _, m := range h.modes {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
