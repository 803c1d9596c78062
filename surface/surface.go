package surface

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/omath"
)

// BodyID identifies a piece of world geometry. Zero means no body.
type BodyID uint32

// Hit is a blocking hit returned by a world query.
type Hit struct {
	// Time is the fraction of the query segment travelled before the hit, in [0, 1].
	Time float32
	// Location is where the query shape ended up at the time of the hit.
	Location mgl32.Vec3
	// Impact is the contact point on the geometry.
	Impact mgl32.Vec3
	// Normal is the surface normal at the impact point.
	Normal mgl32.Vec3
	Tags   Tags
	Body   BodyID
	// StartPenetrating is true when the shape already overlapped the geometry at the start.
	StartPenetrating bool
}

// World is the collision query surface consumed from the host environment.
type World interface {
	// LineTrace returns the first blocking hit on the segment from start to end.
	LineTrace(start, end mgl32.Vec3) (Hit, bool)
	// SweepBox sweeps a box with the given half extents from start to end and returns every
	// blocking hit ordered by time.
	SweepBox(half, start, end mgl32.Vec3) []Hit
}

// Tags is the set of tags on a piece of geometry.
type Tags []string

// Has reports whether tag is part of the set.
func (t Tags) Has(tag string) bool {
	return slices.Contains(t, tag)
}

// Filter accepts or rejects geometry by its tags.
type Filter struct {
	// Require, when set, must be present on the geometry.
	Require string `toml:"require" yaml:"require"`
	// Exclude rejects geometry carrying any of these tags.
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

// Allows reports whether geometry with the given tags passes the filter, and why not otherwise.
func (f Filter) Allows(tags Tags) (string, bool) {
	if f.Require != "" && !tags.Has(f.Require) {
		return "Surface doesn't contain " + f.Require + " tag", false
	}
	for _, tag := range f.Exclude {
		if tags.Has(tag) {
			return "Surface contains exclusion tag", false
		}
	}
	return "", true
}

// Diagnostic records how a single probe hit was judged. An empty Reason means it was accepted.
type Diagnostic struct {
	Hit    Hit
	Reason string
}

// Valid reports whether the hit was accepted.
func (d Diagnostic) Valid() bool {
	return d.Reason == ""
}

// Candidate is an accepted hit contributing to a surface.
type Candidate struct {
	Normal mgl32.Vec3
	Snap   mgl32.Vec3
	Body   BodyID
}

// Info is the probed surface for one tick.
type Info struct {
	Valid  bool
	Normal mgl32.Vec3
	Snap   mgl32.Vec3
	Body   BodyID
	Hits   []Diagnostic
}

// Reduce folds the candidates into one surface: the snap point is the arithmetic mean of the snap
// points and the normal is the normalized mean of the normals. The first candidate's body is kept.
func Reduce(candidates []Candidate, diagnostics []Diagnostic) Info {
	info := Info{Hits: diagnostics}
	if len(candidates) == 0 {
		return info
	}

	var snap, normal mgl32.Vec3
	for _, c := range candidates {
		snap = snap.Add(c.Snap)
		normal = normal.Add(c.Normal)
	}
	info.Snap = snap.Mul(1 / float32(len(candidates)))
	info.Normal = omath.SafeNormal(normal)
	info.Body = candidates[0].Body
	info.Valid = info.Normal.LenSqr() > 0
	return info
}
