package world

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func floorWorld() (*World, cube.BBox) {
	w := New()
	floor := cube.Box(-1000, -1000, -100, 1000, 1000, 0)
	w.Add(floor, "Floor")
	return w, floor
}

func TestMoveLandsOnFloor(t *testing.T) {
	w, _ := floorWorld()
	half := mgl32.Vec3{30, 30, 90}
	box := BoxAround(mgl32.Vec3{0, 0, 100}, half)

	res := w.Move(box, mgl32.Vec3{10, 0, -50})
	if !res.CollideZ {
		t.Fatalf("expected a vertical collision")
	}
	if res.CollideX || res.CollideY {
		t.Fatalf("horizontal movement should not be clipped, got %+v", res)
	}
	if res.Delta.Z() != -10 || res.Delta.X() != 10 {
		t.Fatalf("expected delta {10 0 -10}, got %v", res.Delta)
	}
	if !res.Blocked || res.Hit.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("expected an upward facing hit, got %+v", res.Hit)
	}
}

func TestMoveAlongFloorIsUnblocked(t *testing.T) {
	w, _ := floorWorld()
	box := BoxAround(mgl32.Vec3{0, 0, 90}, mgl32.Vec3{30, 30, 90})

	res := w.Move(box, mgl32.Vec3{100, 50, 0})
	if res.Blocked {
		t.Fatalf("resting on the floor must not block horizontal movement, got %+v", res)
	}
	if res.Delta != (mgl32.Vec3{100, 50, 0}) {
		t.Fatalf("expected the full delta, got %v", res.Delta)
	}
}

func TestMoveIntoWall(t *testing.T) {
	w, _ := floorWorld()
	wall := w.Add(cube.Box(100, -500, 0, 150, 500, 500), "WR")
	box := BoxAround(mgl32.Vec3{0, 0, 200}, mgl32.Vec3{30, 30, 90})

	res := w.Move(box, mgl32.Vec3{100, 0, 0})
	if !res.CollideX {
		t.Fatalf("expected an X collision")
	}
	if res.Delta.X() != 70 {
		t.Fatalf("expected to stop 70 units in, got %v", res.Delta.X())
	}
	if res.Hit.Body != wall || res.Hit.Normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected the wall with normal -X, got %+v", res.Hit)
	}
	if !res.Hit.Tags.Has("WR") {
		t.Fatalf("expected the wall tags on the hit")
	}
}

func TestLineTraceDown(t *testing.T) {
	w, _ := floorWorld()
	hit, ok := w.LineTrace(mgl32.Vec3{5, 5, 200}, mgl32.Vec3{5, 5, -200})
	if !ok {
		t.Fatalf("expected to hit the floor")
	}
	if !mgl32.FloatEqualThreshold(hit.Impact.Z(), 0, 0.05) {
		t.Fatalf("expected impact on the floor surface, got %v", hit.Impact)
	}
	if hit.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("expected an up normal, got %v", hit.Normal)
	}
	if !mgl32.FloatEqualThreshold(hit.Time, 0.5, 0.01) {
		t.Fatalf("expected the hit halfway along the segment, got %v", hit.Time)
	}
}

func TestSweepBoxOrdersHits(t *testing.T) {
	w := New()
	far := w.Add(cube.Box(400, -50, -50, 450, 50, 50))
	near := w.Add(cube.Box(200, -50, -50, 250, 50, 50))

	hits := w.SweepBox(mgl32.Vec3{10, 10, 10}, mgl32.Vec3{}, mgl32.Vec3{1000, 0, 0})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Body != near || hits[1].Body != far {
		t.Fatalf("hits are not ordered by time: %+v", hits)
	}
	if !mgl32.FloatEqualThreshold(hits[0].Location.X(), 190, 0.05) {
		t.Fatalf("expected the box to stop at x=190, got %v", hits[0].Location)
	}
}

func TestSweepBoxStartPenetrating(t *testing.T) {
	w := New()
	w.Add(cube.Box(-10, -10, -10, 10, 10, 10))

	hits := w.SweepBox(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, 0, 12}, mgl32.Vec3{0, 0, 50})
	if len(hits) != 1 || !hits[0].StartPenetrating || hits[0].Time != 0 {
		t.Fatalf("expected one penetrating hit at time 0, got %+v", hits)
	}
	if hits[0].Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("expected to be pushed out upwards, got %v", hits[0].Normal)
	}
}

func TestRemove(t *testing.T) {
	w := New()
	id := w.Add(cube.Box(0, 0, 0, 1, 1, 1))
	if !w.Remove(id) || w.Len() != 0 {
		t.Fatalf("expected the solid to be removed")
	}
	if _, ok := w.LineTrace(mgl32.Vec3{0.5, 0.5, 5}, mgl32.Vec3{0.5, 0.5, -5}); ok {
		t.Fatalf("removed solids must not be hit")
	}
}

func TestClipCollideDepenetrates(t *testing.T) {
	stationary := cube.Box(0, 0, 0, 10, 10, 10)
	moving := cube.Box(2, 2, 8, 8, 8, 18)

	var penetration float32
	vel := ClipCollide(stationary, moving, mgl32.Vec3{}, false, &penetration)
	if vel != (mgl32.Vec3{0, 0, 2}) {
		t.Fatalf("expected to be pushed up by 2, got %v", vel)
	}
	if penetration != 2 {
		t.Fatalf("expected penetration 2, got %v", penetration)
	}
}
