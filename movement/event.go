package movement

import "github.com/go-gl/mathgl/mgl32"

// Event is broadcast by a host to its subscribers.
type Event interface {
	ID() string
}

type ModeStarted struct {
	Mode string
}

func (ModeStarted) ID() string {
	return "locomotion:mode_started"
}

type ModeEnded struct {
	Mode string
}

func (ModeEnded) ID() string {
	return "locomotion:mode_ended"
}

// Jumped is broadcast on a regular jump and on every jump-off.
type Jumped struct {
	Mode     string
	Velocity mgl32.Vec3
}

func (Jumped) ID() string {
	return "locomotion:jumped"
}

type Landed struct {
	Mode     string
	Velocity mgl32.Vec3
}

func (Landed) ID() string {
	return "locomotion:landed"
}

type DashChargeUpdated struct {
	Delta   int
	Current int
	Animate bool
}

func (DashChargeUpdated) ID() string {
	return "locomotion:dash_charge_updated"
}

type SlideDownStarted struct {
	Mode string
}

func (SlideDownStarted) ID() string {
	return "locomotion:slide_down_started"
}

type LaunchAdded struct {
	Velocity mgl32.Vec3
	Owned    bool
}

func (LaunchAdded) ID() string {
	return "locomotion:launch_added"
}

type ResetPerformed struct{}

func (ResetPerformed) ID() string {
	return "locomotion:reset"
}
