package curve

import "testing"

func TestLinearCurve(t *testing.T) {
	c := Linear(1, 0)
	for _, tc := range []struct{ t, want float32 }{
		{-1, 1}, {0, 1}, {0.25, 0.75}, {0.5, 0.5}, {1, 0}, {2, 0},
	} {
		if got := c.Eval(tc.t); got != tc.want {
			t.Fatalf("Eval(%v): expected %v, got %v", tc.t, tc.want, got)
		}
	}
}

func TestKeyedSortsKeys(t *testing.T) {
	c := NewKeyed(InterpLinear, Key{T: 1, V: 10}, Key{T: 0, V: 0}, Key{T: 0.5, V: 2})
	if got := c.Eval(0.75); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}

func TestConstantInterp(t *testing.T) {
	c := NewKeyed(InterpConstant, Key{T: 0, V: 1}, Key{T: 1, V: 3})
	if got := c.Eval(0.9); got != 1 {
		t.Fatalf("expected step value 1, got %v", got)
	}
}

func TestSmoothInterpHitsMidpoint(t *testing.T) {
	c := NewKeyed(InterpSmooth, Key{T: 0, V: 0}, Key{T: 1, V: 1})
	if got := c.Eval(0.5); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := c.Eval(0.25); got >= 0.25 {
		t.Fatalf("smoothstep should ease in, got %v", got)
	}
}

func TestOfEmptyCurveIsNil(t *testing.T) {
	if Of(nil) != nil || Of(&Keyed{}) != nil {
		t.Fatalf("empty curves should convert to a nil Curve")
	}
	if Of(Linear(0, 1)) == nil {
		t.Fatalf("a keyed curve should convert to a non-nil Curve")
	}
}

func TestClamped(t *testing.T) {
	if got := Clamped(Constant(2), 0); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Clamped(Constant(-2), 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
