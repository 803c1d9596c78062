package movement

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/launch"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/sirupsen/logrus"
)

// State returns the kinematic state of the character. Modes mutate it directly.
func (h *Host) State() *State {
	return &h.state
}

func (h *Host) Velocity() mgl32.Vec3 {
	return h.state.Vel
}

func (h *Host) SetVelocity(v mgl32.Vec3) {
	h.state.SetVel(v)
}

// Launch applies a launch velocity. A walking character starts falling.
func (h *Host) Launch(v mgl32.Vec3) {
	h.state.SetVel(v)
	if h.rule == RuleWalking {
		h.rule = RuleFalling
	}
}

func (h *Host) Rule() Rule {
	return h.rule
}

// ActiveMode returns the active mode, or nil when a default rule governs the character.
func (h *Host) ActiveMode() Mode {
	if h.active < 0 {
		return nil
	}
	return h.modes[h.active]
}

// ActiveIndex returns the index of the active mode, or -1.
func (h *Host) ActiveIndex() int {
	return h.active
}

// Modes returns the registered modes in poll order.
func (h *Host) Modes() []Mode {
	return h.modes
}

// Mode returns the mode registered at index i. Referencing a slot that was never registered is
// reported and yields nil.
func (h *Host) Mode(i int) Mode {
	if !h.rep.Check(i >= 0 && i < len(h.modes), "%v: %d (%d modes registered)", oerror.ErrModeIndex, i, len(h.modes)) {
		return nil
	}
	return h.modes[i]
}

// IndexOf returns the index of m, or -1 if it is not registered.
func (h *Host) IndexOf(m Mode) int {
	for i, registered := range h.modes {
		if registered == m {
			return i
		}
	}
	return -1
}

// ModeByName returns the registered mode with the given name.
func (h *Host) ModeByName(name string) (Mode, bool) {
	for _, m := range h.modes {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// FailReason returns why the mode at index i could not start during the last poll.
func (h *Host) FailReason(i int) string {
	if !h.rep.Check(i >= 0 && i < len(h.failReasons), "%v: %d (%d modes registered)", oerror.ErrModeIndex, i, len(h.modes)) {
		return ""
	}
	return h.failReasons[i]
}

// Describe returns a human readable status of the mode at index i.
func (h *Host) Describe(i int) string {
	m := h.Mode(i)
	if m == nil {
		return ""
	}
	if m.Active() {
		return fmt.Sprintf("%s: Active", m.Name())
	}
	return fmt.Sprintf("%s: Inactive: %s", m.Name(), h.failReasons[i])
}

func (h *Host) IsWalking() bool {
	return h.rule == RuleWalking
}

// IsMovingOnSurface reports whether the character moves along a surface, as classified by the
// active mode if there is one.
func (h *Host) IsMovingOnSurface() bool {
	if m := h.ActiveMode(); m != nil {
		return m.MovingOnSurface()
	}
	return h.rule == RuleWalking
}

// IsMovingOnGround reports whether the character moves on the ground, as classified by the active
// mode if there is one.
func (h *Host) IsMovingOnGround() bool {
	if m := h.ActiveMode(); m != nil {
		return m.MovingOnGround()
	}
	return h.rule == RuleWalking
}

func (h *Host) IsFalling() bool {
	return !h.IsMovingOnSurface()
}

func (h *Host) CanCrouch() bool {
	if m := h.ActiveMode(); m != nil {
		return m.CanCrouch()
	}
	return true
}

// Crouch changes posture if the current rule allows it.
func (h *Host) Crouch(crouch bool) {
	if crouch && !h.CanCrouch() {
		return
	}
	h.state.Crouched = crouch
}

// CanAttemptJump reports whether a regular jump is possible. Modes handle jumps themselves.
func (h *Host) CanAttemptJump() bool {
	return h.rule != RuleCustom
}

// JumpPressed reports whether jump was pressed this step and not consumed yet.
func (h *Host) JumpPressed() bool {
	return h.input.Jump && !h.jumpConsumed
}

// ConsumeJump consumes the jump press of this step.
func (h *Host) ConsumeJump() bool {
	if !h.JumpPressed() {
		return false
	}
	h.jumpConsumed = true
	return true
}

// InputVector returns the movement input of this step.
func (h *Host) InputVector() mgl32.Vec3 {
	return h.input.Move
}

// LastInputVector returns the last non-zero movement input.
func (h *Host) LastInputVector() mgl32.Vec3 {
	return h.lastInput
}

func (h *Host) ControlRotation() omath.Rotation {
	return h.input.ControlRotation
}

// Time returns the simulated time in seconds.
func (h *Host) Time() float32 {
	return h.clock
}

// TimeSinceSurface returns the time since the character last moved on a surface.
func (h *Host) TimeSinceSurface() float32 {
	return h.clock - h.lastGroundTime
}

// MovementBase returns the body the character moves on, or false if it moves on none.
func (h *Host) MovementBase() (surface.BodyID, bool) {
	return h.movementBase, h.movementBase != 0
}

// PeakHorizontalVelocity returns the horizontal velocity with the largest speed among the current
// velocity and the recent samples.
func (h *Host) PeakHorizontalVelocity() mgl32.Vec3 {
	peak := omath.Horizontal(h.state.Vel)
	best := omath.Size2D(peak)
	for v := range h.temporal.Iter() {
		if s := omath.Size2D(v); s > best {
			best, peak = s, v
		}
	}
	return peak
}

// ClearTemporalHorizontalVelocity forgets the recent velocity samples.
func (h *Host) ClearTemporalHorizontalVelocity() {
	h.temporal.Clear()
}

// DirectionAlongFloor returns dir projected on the floor the character walks on.
func (h *Host) DirectionAlongFloor(dir mgl32.Vec3) mgl32.Vec3 {
	if h.rule != RuleWalking || h.state.Floor.Normal.LenSqr() == 0 {
		return omath.SafeNormal(dir)
	}
	return omath.DirectionAlongSurface(h.state.Floor.Normal, dir)
}

// Launches returns the launch manager of the character.
func (h *Host) Launches() *launch.Manager {
	return h.launches
}

func (h *Host) AddLaunch(v mgl32.Vec3, p launch.Params) error {
	return h.launches.Add(v, p)
}

func (h *Host) AddOwnedLaunch(v mgl32.Vec3, p launch.Params, owner launch.Owner) error {
	return h.launches.AddOwned(v, p, owner)
}

// AddLaunchFromAsset launches the character with the named launch asset. If the asset is missing
// the velocity is still applied.
func (h *Host) AddLaunchFromAsset(v mgl32.Vec3, name string, owner launch.Owner) error {
	err := h.launches.AddFromAsset(v, name, owner)
	if errors.Is(err, oerror.ErrUnknownAsset) {
		h.Launch(v)
	}
	return err
}

func (h *Host) IsLaunchActive() bool {
	return h.launches.Active()
}

func (h *Host) IsWalkBlocked() bool {
	return h.launches.IsWalkBlocked()
}

func (h *Host) Log() *logrus.Logger {
	return h.log
}

func (h *Host) Debugger() *Debugger {
	return h.dbg
}
