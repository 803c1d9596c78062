package world

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/surface"
)

// skin is how far a query shape is kept from solids so that resting contact is not reported as a
// blocking hit by queries running along the contact plane.
const skin float32 = 0.01

// Solid is a piece of static, axis-aligned world geometry.
type Solid struct {
	ID   surface.BodyID
	Box  cube.BBox
	Tags surface.Tags
}

// World is a set of tagged solids that answers the collision queries the movement layer consumes.
// It is not safe for concurrent use.
type World struct {
	solids *orderedmap.OrderedMap[surface.BodyID, Solid]
	nextID surface.BodyID
}

// New returns an empty world.
func New() *World {
	return &World{solids: orderedmap.NewOrderedMap[surface.BodyID, Solid]()}
}

// Add inserts a solid spanning box with the given tags and returns its body id.
func (w *World) Add(box cube.BBox, tags ...string) surface.BodyID {
	w.nextID++
	w.solids.Set(w.nextID, Solid{ID: w.nextID, Box: box, Tags: slices.Clone(surface.Tags(tags))})
	return w.nextID
}

// Remove deletes the solid with the given id.
func (w *World) Remove(id surface.BodyID) bool {
	return w.solids.Delete(id)
}

// Solid returns the solid with the given id.
func (w *World) Solid(id surface.BodyID) (Solid, bool) {
	return w.solids.Get(id)
}

// Len returns the amount of solids in the world.
func (w *World) Len() int {
	return w.solids.Len()
}

// NearbySolids returns every solid whose box intersects aabb, in insertion order.
func (w *World) NearbySolids(aabb cube.BBox) []Solid {
	var found []Solid
	for el := w.solids.Front(); el != nil; el = el.Next() {
		if el.Value.Box.IntersectsWith(aabb) {
			found = append(found, el.Value)
		}
	}
	return found
}

// BoxAround returns the box centred on pos with the given half extents.
func BoxAround(pos, half mgl32.Vec3) cube.BBox {
	return cube.Box(
		pos[0]-half[0], pos[1]-half[1], pos[2]-half[2],
		pos[0]+half[0], pos[1]+half[1], pos[2]+half[2],
	)
}

// LineTrace returns the first solid hit on the segment from start to end.
func (w *World) LineTrace(start, end mgl32.Vec3) (surface.Hit, bool) {
	hits := w.SweepBox(mgl32.Vec3{}, start, end)
	if len(hits) == 0 {
		return surface.Hit{}, false
	}
	return hits[0], true
}

// SweepBox sweeps a box with the given half extents from start to end and returns every solid it
// hits, ordered by time. A solid the box already overlaps at start is reported at time 0.
func (w *World) SweepBox(half, start, end mgl32.Vec3) []surface.Hit {
	delta := end.Sub(start)
	length := delta.Len()
	bounds := BoxAround(start, half).Extend(delta).Grow(skin * 2)

	var hits []surface.Hit
	for _, s := range w.NearbySolids(bounds) {
		expanded := expand(s.Box, half)
		if within(expanded, start) {
			normal := penetrationNormal(expanded, start)
			hits = append(hits, surface.Hit{
				Location:         start,
				Impact:           closestPoint(s.Box, start),
				Normal:           normal,
				Tags:             s.Tags,
				Body:             s.ID,
				StartPenetrating: true,
			})
			continue
		}
		if length <= 0 {
			continue
		}

		res, ok := trace.BBoxIntercept(expanded, start, end)
		if !ok {
			continue
		}
		location := res.Position()
		hits = append(hits, surface.Hit{
			Time:     math32.Min(location.Sub(start).Len()/length, 1),
			Location: location,
			Impact:   closestPoint(s.Box, location),
			Normal:   faceNormal(expanded, location),
			Tags:     s.Tags,
			Body:     s.ID,
		})
	}

	slices.SortStableFunc(hits, func(a, b surface.Hit) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return hits
}

// expand grows box by the half extents of the swept shape, less the contact skin.
func expand(box cube.BBox, half mgl32.Vec3) cube.BBox {
	min, max := box.Min(), box.Max()
	g := half.Sub(mgl32.Vec3{skin, skin, skin})
	for i := range 3 {
		g[i] = math32.Max(g[i], 0)
	}
	return cube.Box(
		min[0]-g[0], min[1]-g[1], min[2]-g[2],
		max[0]+g[0], max[1]+g[1], max[2]+g[2],
	)
}

func within(box cube.BBox, p mgl32.Vec3) bool {
	min, max := box.Min(), box.Max()
	for i := range 3 {
		if p[i] <= min[i] || p[i] >= max[i] {
			return false
		}
	}
	return true
}

func closestPoint(box cube.BBox, p mgl32.Vec3) mgl32.Vec3 {
	min, max := box.Min(), box.Max()
	for i := range 3 {
		p[i] = math32.Max(min[i], math32.Min(p[i], max[i]))
	}
	return p
}

// faceNormal returns the outward normal of the face of box closest to p, which lies on the box.
func faceNormal(box cube.BBox, p mgl32.Vec3) mgl32.Vec3 {
	min, max := box.Min(), box.Max()
	var normal mgl32.Vec3
	best := float32(math32.MaxFloat32)
	for i := range 3 {
		if d := math32.Abs(p[i] - min[i]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
		if d := math32.Abs(max[i] - p[i]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
	}
	return normal
}

// penetrationNormal returns the direction that pushes p out of box along the shallowest axis.
func penetrationNormal(box cube.BBox, p mgl32.Vec3) mgl32.Vec3 {
	return faceNormal(box, p)
}

// MoveResult is the outcome of Move.
type MoveResult struct {
	// Delta is the displacement that was actually applied.
	Delta mgl32.Vec3

	CollideX, CollideY, CollideZ bool

	// Blocked is true when any axis was clipped, in which case Hit describes the first blocking
	// solid.
	Blocked bool
	Hit     surface.Hit
}

// Move slides box by delta through the world. Every axis is clipped against the nearby solids in
// turn, vertical first, and overlapping solids push the box out.
func (w *World) Move(box cube.BBox, delta mgl32.Vec3) MoveResult {
	nearby := w.NearbySolids(box.Extend(delta).Grow(skin))

	var penetration float32
	var clippedBy [3]surface.BodyID
	moving := box
	var applied mgl32.Vec3
	for _, axis := range [3]int{2, 0, 1} {
		vel := mgl32.Vec3{}
		vel[axis] = delta[axis]
		for i := len(nearby) - 1; i >= 0; i-- {
			before := vel[axis]
			vel = ClipCollide(nearby[i].Box, moving, vel, false, &penetration)
			if vel[axis] != before {
				clippedBy[axis] = nearby[i].ID
			}
		}
		moving = moving.Translate(vel)
		applied = applied.Add(vel)
	}

	res := MoveResult{
		Delta:    applied,
		CollideX: applied[0] != delta[0],
		CollideY: applied[1] != delta[1],
		CollideZ: applied[2] != delta[2],
	}
	res.Blocked = res.CollideX || res.CollideY || res.CollideZ
	if !res.Blocked {
		return res
	}

	half := box.Max().Sub(box.Min()).Mul(0.5)
	start := box.Min().Add(half)
	if hits := w.SweepBox(half, start, start.Add(delta)); len(hits) > 0 {
		res.Hit = hits[0]
		return res
	}

	// The sweep missed, which happens for contacts inside the skin. Describe the clip instead.
	for _, axis := range [3]int{2, 0, 1} {
		if clippedBy[axis] == 0 {
			continue
		}
		s, _ := w.Solid(clippedBy[axis])
		normal := mgl32.Vec3{}
		normal[axis] = -math32.Copysign(1, delta[axis])
		location := start.Add(applied)
		res.Hit = surface.Hit{
			Time:     clipTime(applied[axis], delta[axis]),
			Location: location,
			Impact:   closestPoint(s.Box, location),
			Normal:   normal,
			Tags:     s.Tags,
			Body:     s.ID,
		}
		break
	}
	return res
}

func clipTime(applied, requested float32) float32 {
	if requested == 0 {
		return 0
	}
	return math32.Max(0, math32.Min(applied/requested, 1))
}
