package curve

import (
	"slices"

	"github.com/chewxy/math32"
)

// Curve maps a normalized input, usually the progress of a timer, to a value.
type Curve interface {
	Eval(t float32) float32
}

// Constant is a curve that always evaluates to the same value.
type Constant float32

func (c Constant) Eval(float32) float32 {
	return float32(c)
}

// Interp selects how a Keyed curve blends between two keys.
type Interp string

const (
	InterpLinear   Interp = "linear"
	InterpConstant Interp = "constant"
	InterpSmooth   Interp = "smooth"
)

// Key is a single point on a Keyed curve.
type Key struct {
	T float32 `toml:"t" yaml:"t"`
	V float32 `toml:"v" yaml:"v"`
}

// Keyed is a piecewise curve through a list of keys. Outside of the key range it holds the value
// of the first or last key.
type Keyed struct {
	Keys   []Key  `toml:"keys" yaml:"keys"`
	Interp Interp `toml:"interp" yaml:"interp"`
}

// NewKeyed returns a Keyed curve with its keys sorted by time.
func NewKeyed(interp Interp, keys ...Key) *Keyed {
	k := &Keyed{Keys: slices.Clone(keys), Interp: interp}
	k.Sort()
	return k
}

// Linear returns a curve going from `from` at t=0 to `to` at t=1.
func Linear(from, to float32) *Keyed {
	return NewKeyed(InterpLinear, Key{T: 0, V: from}, Key{T: 1, V: to})
}

// Sort orders the keys by time. Curves decoded from configuration must be sorted before use.
func (k *Keyed) Sort() {
	slices.SortStableFunc(k.Keys, func(a, b Key) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
}

func (k *Keyed) Eval(t float32) float32 {
	n := len(k.Keys)
	switch {
	case n == 0:
		return 0
	case t <= k.Keys[0].T:
		return k.Keys[0].V
	case t >= k.Keys[n-1].T:
		return k.Keys[n-1].V
	}

	i, _ := slices.BinarySearchFunc(k.Keys, t, func(key Key, t float32) int {
		switch {
		case key.T < t:
			return -1
		case key.T > t:
			return 1
		}
		return 0
	})
	if k.Keys[i].T == t {
		return k.Keys[i].V
	}

	a, b := k.Keys[i-1], k.Keys[i]
	span := b.T - a.T
	if span <= 0 {
		return b.V
	}
	alpha := (t - a.T) / span

	switch k.Interp {
	case InterpConstant:
		return a.V
	case InterpSmooth:
		alpha = alpha * alpha * (3 - 2*alpha)
	}
	return a.V + (b.V-a.V)*alpha
}

// Of returns k as a Curve, or nil when k has no keys so that callers can tell a missing curve
// apart from a present one.
func Of(k *Keyed) Curve {
	if k == nil || len(k.Keys) == 0 {
		return nil
	}
	return k
}

// Clamped evaluates c at t and clamps the result to [0, 1].
func Clamped(c Curve, t float32) float32 {
	return math32.Max(0, math32.Min(c.Eval(t), 1))
}
