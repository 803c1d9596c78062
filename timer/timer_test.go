package timer

import "testing"

func TestTimerProgress(t *testing.T) {
	tm := New(2)
	tm.Tick(0.5)
	if tm.Progress() != 0.25 {
		t.Fatalf("expected progress 0.25, got %v", tm.Progress())
	}
	if tm.Remaining() != 1.5 {
		t.Fatalf("expected 1.5 remaining, got %v", tm.Remaining())
	}
	if tm.Completed() {
		t.Fatalf("timer should not be completed")
	}
}

func TestTimerNeverExceedsDuration(t *testing.T) {
	tm := New(1)
	for range 10 {
		tm.Tick(0.3)
	}
	if tm.Elapsed != 1 {
		t.Fatalf("elapsed should stop at the duration, got %v", tm.Elapsed)
	}
	if !tm.Completed() || tm.Progress() != 1 {
		t.Fatalf("expected a completed timer, got %+v", tm)
	}
}

func TestTimerNegativeTickIgnored(t *testing.T) {
	tm := New(1)
	tm.Tick(0.5)
	tm.Tick(-1)
	if tm.Elapsed != 0.5 {
		t.Fatalf("elapsed should not decrease, got %v", tm.Elapsed)
	}
}

func TestTimerResetAndComplete(t *testing.T) {
	tm := NewCompleted(0.3)
	if !tm.Completed() {
		t.Fatalf("cooldown timers start completed")
	}
	tm.Reset()
	if tm.Completed() || tm.Elapsed != 0 {
		t.Fatalf("reset should rewind the timer, got %+v", tm)
	}
}

func TestZeroDurationTimer(t *testing.T) {
	tm := New(0)
	if !tm.Completed() || tm.Progress() != 1 {
		t.Fatalf("a zero duration timer is always complete, got %+v", tm)
	}
}
