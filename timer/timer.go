package timer

// Timer is a manually ticked countdown. Elapsed only moves forward through Tick and Complete, and
// back to zero through Reset.
type Timer struct {
	Duration float32 `toml:"duration" yaml:"duration"`
	Elapsed  float32 `toml:"-" yaml:"-"`
}

// New returns a timer of the given duration that starts at zero elapsed time.
func New(duration float32) Timer {
	return Timer{Duration: duration}
}

// NewCompleted returns a timer of the given duration that is already completed, which is how
// cooldowns start out.
func NewCompleted(duration float32) Timer {
	t := New(duration)
	t.Complete()
	return t
}

// Tick advances the timer by dt. The elapsed time never passes the duration.
func (t *Timer) Tick(dt float32) {
	if dt <= 0 {
		return
	}
	t.Elapsed += dt
	if t.Elapsed > t.Duration {
		t.Elapsed = max(t.Duration, 0)
	}
}

// Reset rewinds the timer to zero.
func (t *Timer) Reset() {
	t.Elapsed = 0
}

// Complete fast-forwards the timer to its duration.
func (t *Timer) Complete() {
	t.Elapsed = max(t.Duration, 0)
}

// Remaining returns the time left until the timer completes.
func (t Timer) Remaining() float32 {
	return max(t.Duration-t.Elapsed, 0)
}

// Progress returns elapsed/duration clamped to [0, 1]. A timer without duration is always done.
func (t Timer) Progress() float32 {
	if t.Duration <= 0 {
		return 1
	}
	return min(max(t.Elapsed/t.Duration, 0), 1)
}

// Completed reports whether the full duration has elapsed.
func (t Timer) Completed() bool {
	return t.Elapsed >= t.Duration
}
