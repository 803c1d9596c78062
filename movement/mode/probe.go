package mode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/surface"
)

// wallProbe judges the hits of a wall sweep one by one. Every hit passing the tag filter is
// confirmed by an assist trace from the character towards the impact point, and the confirmed
// surface must be steep enough to count as a wall.
type wallProbe struct {
	filter surface.Filter
	// angleMin and angleMax bound the elevation of the confirmed normal, in degrees.
	angleMin, angleMax float32
	assistDistance     float32
	// assistRadius sweeps a small box instead of a line when positive.
	assistRadius float32
}

// run sweeps a box of the given half extents from start to end and reduces the accepted hits to a
// single surface.
func (p wallProbe) run(w surface.World, origin, half, start, end mgl32.Vec3) surface.Info {
	hits := w.SweepBox(half, start, end)

	var (
		candidates  []surface.Candidate
		diagnostics = make([]surface.Diagnostic, 0, len(hits))
	)
	for _, hit := range hits {
		c, reason := p.judge(w, origin, hit)
		diagnostics = append(diagnostics, surface.Diagnostic{Hit: hit, Reason: reason})
		if reason == "" {
			candidates = append(candidates, c)
		}
	}
	return surface.Reduce(candidates, diagnostics)
}

func (p wallProbe) judge(w surface.World, origin mgl32.Vec3, hit surface.Hit) (surface.Candidate, string) {
	if reason, ok := p.filter.Allows(hit.Tags); !ok {
		return surface.Candidate{}, "Invalid - " + reason
	}

	dir := omath.SafeNormal(omath.FromTo(origin, hit.Impact))
	if dir.LenSqr() == 0 {
		dir = omath.SafeNormal(hit.Normal.Mul(-1))
	}
	assist, ok := p.assist(w, origin, origin.Add(dir.Mul(p.assistDistance)))
	if !ok {
		return surface.Candidate{}, "Invalid - Assist trace did not hit the surface"
	}

	angle := omath.ElevationDeg(assist.Normal)
	if angle <= p.angleMin {
		return surface.Candidate{}, fmt.Sprintf("Invalid - Surface angle too low (angle: %.2f, min: %.2f)", angle, p.angleMin)
	}
	if angle >= p.angleMax {
		return surface.Candidate{}, fmt.Sprintf("Invalid - Surface angle too high (angle: %.2f, max: %.2f)", angle, p.angleMax)
	}
	return surface.Candidate{Normal: assist.Normal, Snap: assist.Impact, Body: assist.Body}, ""
}

func (p wallProbe) assist(w surface.World, start, end mgl32.Vec3) (surface.Hit, bool) {
	if p.assistRadius <= 0 {
		return w.LineTrace(start, end)
	}
	r := p.assistRadius
	for _, hit := range w.SweepBox(mgl32.Vec3{r, r, r}, start, end) {
		if !hit.StartPenetrating {
			return hit, true
		}
	}
	return surface.Hit{}, false
}

// logProbe writes the diagnostics of a probe to the debugger of h.
func logProbe(h *movement.Host, name string, info surface.Info) {
	dbg := h.Debugger()
	if !dbg.Enabled(movement.DebugModeProbes) {
		return
	}
	for i, d := range info.Hits {
		if d.Valid() {
			dbg.Notify(movement.DebugModeProbes, true, "%s: hit %d body=%d Valid", name, i, d.Hit.Body)
			continue
		}
		dbg.Notify(movement.DebugModeProbes, true, "%s: hit %d body=%d %s", name, i, d.Hit.Body, d.Reason)
	}
}

// clearOfGround reports whether nothing is below the character within distance. Ground carrying
// exempt is ignored.
func clearOfGround(h *movement.Host, distance float32, exempt string) bool {
	pos := h.State().Pos
	hit, ok := h.World().LineTrace(pos, pos.Sub(mgl32.Vec3{0, 0, distance}))
	if !ok {
		return true
	}
	return exempt != "" && hit.Tags.Has(exempt)
}

// snapToWall nudges the character towards the offset it keeps from the wall.
func snapToWall(h *movement.Host, info surface.Info, offset, speed, dt float32) {
	toWall := omath.HorizontalDirection(info.Normal.Mul(-1))
	if toWall.LenSqr() == 0 {
		return
	}
	diff := omath.ProjectOnTo(info.Snap.Sub(h.State().Pos), toWall)
	correction := toWall.Mul(diff.Len() - offset)
	h.Move(correction.Mul(speed * dt))
}
