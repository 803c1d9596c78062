package movement

import "github.com/sirupsen/logrus"

const (
	DebugModeTransitions = iota
	DebugModeProbes
	DebugModeLaunches
	DebugModePhysics
	debugModeCount
)

// Debugger gates diagnostic output of a single host.
type Debugger struct {
	Log   *logrus.Logger
	modes [debugModeCount]bool
}

// NewDebugger returns a debugger logging to log with the given modes enabled.
func NewDebugger(log *logrus.Logger, modes ...int) *Debugger {
	d := &Debugger{Log: log}
	for _, m := range modes {
		d.Toggle(m)
	}
	return d
}

func (d *Debugger) Toggle(mode int) {
	if mode < 0 || mode >= debugModeCount {
		return
	}
	d.modes[mode] = !d.modes[mode]
}

func (d *Debugger) Enabled(mode int) bool {
	if d == nil || mode < 0 || mode >= debugModeCount {
		return false
	}
	return d.modes[mode]
}

// Notify logs the message at debug level when the mode is enabled and cond holds.
func (d *Debugger) Notify(mode int, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) || d.Log == nil {
		return
	}
	d.Log.Debugf(format, args...)
}
