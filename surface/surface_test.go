package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/omath"
)

func TestReduceAveragesSnapAndNormalizesNormal(t *testing.T) {
	info := Reduce([]Candidate{
		{Normal: mgl32.Vec3{1, 0, 0}, Snap: mgl32.Vec3{0, 0, 0}, Body: 4},
		{Normal: mgl32.Vec3{0, 1, 0}, Snap: mgl32.Vec3{2, 4, 6}, Body: 5},
	}, nil)
	if !info.Valid {
		t.Fatalf("expected a valid surface")
	}
	if info.Snap != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("expected mean snap {1 2 3}, got %v", info.Snap)
	}
	want := omath.SafeNormal(mgl32.Vec3{1, 1, 0})
	if !info.Normal.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("expected normal %v, got %v", want, info.Normal)
	}
	if info.Body != 4 {
		t.Fatalf("expected the first candidate's body, got %v", info.Body)
	}
}

func TestReduceWithoutCandidatesIsInvalid(t *testing.T) {
	diag := []Diagnostic{{Reason: "Surface contains exclusion tag"}}
	info := Reduce(nil, diag)
	if info.Valid {
		t.Fatalf("expected an invalid surface")
	}
	if len(info.Hits) != 1 || info.Hits[0].Valid() {
		t.Fatalf("diagnostics should be kept, got %+v", info.Hits)
	}
}

func TestFilter(t *testing.T) {
	f := Filter{Require: "WR", Exclude: []string{"NoWR"}}
	if _, ok := f.Allows(Tags{"Other"}); ok {
		t.Fatalf("missing required tag should be rejected")
	}
	if _, ok := f.Allows(Tags{"WR", "NoWR"}); ok {
		t.Fatalf("excluded tag should be rejected")
	}
	if reason, ok := f.Allows(Tags{"WR"}); !ok {
		t.Fatalf("expected tags to pass, got %q", reason)
	}
	if _, ok := (Filter{}).Allows(nil); !ok {
		t.Fatalf("an empty filter allows everything")
	}
}

func TestClassifySlope(t *testing.T) {
	// A ramp rising towards -X: its normal leans towards +X.
	normal := omath.SafeNormal(mgl32.Vec3{1, 0, 2})
	if d := ClassifySlope(normal, mgl32.Vec3{1, 0, 0}, 20); d != SlopeDown {
		t.Fatalf("moving along +X should go down the slope, got %v", d)
	}
	if d := ClassifySlope(normal, mgl32.Vec3{-1, 0, 0}, 20); d != SlopeUp {
		t.Fatalf("moving along -X should go up the slope, got %v", d)
	}
	if d := ClassifySlope(omath.Up, mgl32.Vec3{1, 0, 0}, 20); d != SlopeEven {
		t.Fatalf("flat ground is even, got %v", d)
	}
}
