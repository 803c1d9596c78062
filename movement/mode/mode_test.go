package mode

import (
	"io"
	"strings"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/physics"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const dt float32 = 1.0 / 60

var half = mgl32.Vec3{34, 34, 88}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func floorWorld() *world.World {
	w := world.New()
	w.Add(cube.Box(-20000, -20000, -100, 20000, 20000, 0), "Floor")
	return w
}

type recorder struct {
	events []movement.Event
}

func (r *recorder) record(e movement.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) jumped(mode string) bool {
	for _, e := range r.events {
		if j, ok := e.(movement.Jumped); ok && j.Mode == mode {
			return true
		}
	}
	return false
}

func newHost(w *world.World, s movement.State, conf Config) (*movement.Host, Set, *recorder) {
	opts := movement.DefaultOptions()
	opts.Log = quietLogger()
	return newHostWithOptions(w, s, conf, opts)
}

func newHostWithOptions(w *world.World, s movement.State, conf Config, opts movement.Options) (*movement.Host, Set, *recorder) {
	s.HalfExtents = half
	h := movement.New(physics.New(w, physics.DefaultConfig()), s, opts)
	set := Register(h, conf)
	rec := &recorder{}
	h.Subscribe(rec.record)
	return h, set, rec
}

// step advances h and fails the test if more than one mode reports being active.
func step(t *testing.T, h *movement.Host, in movement.Input) {
	t.Helper()
	h.Step(dt, in)
	active := 0
	for _, m := range h.Modes() {
		if m.Active() {
			active++
		}
	}
	if active > 1 {
		t.Fatalf("%d modes active at once", active)
	}
}

func TestWallRunRequiresFalling(t *testing.T) {
	conf := DefaultConfig()
	conf.WallRun.MinHorizontalSpeedToStart = 0
	conf.WallRun.MinVerticalSpeedToStart = -10000
	conf.WallRun.MinDistanceFromGround = 0

	w := floorWorld()
	w.Add(cube.Box(-5000, 80, 0, 5000, 200, 3000), "Wall")
	h, set, _ := newHost(w, movement.State{Pos: mgl32.Vec3{0, 35, half.Z()}}, conf)

	for range 5 {
		step(t, h, movement.Input{})
	}
	if !h.IsWalking() {
		t.Fatalf("expected the character to stand on the floor, got rule %v", h.Rule())
	}
	if reason := h.FailReason(h.IndexOf(set.WallRun)); reason != "Character is not falling" {
		t.Fatalf("unexpected fail reason %q", reason)
	}
	if reason, ok := set.WallRun.CanStart(); ok || reason != "Character is not falling" {
		t.Fatalf("unexpected result (%q, %v)", reason, ok)
	}
}

func TestWallRunAndJumpOff(t *testing.T) {
	w := floorWorld()
	wall := w.Add(cube.Box(-5000, 80, 0, 5000, 200, 3000), "Wall")
	h, set, rec := newHost(w, movement.State{Pos: mgl32.Vec3{0, 35, 400}, Vel: mgl32.Vec3{600, 0, 400}}, DefaultConfig())

	step(t, h, movement.Input{})
	if h.ActiveMode() != set.WallRun {
		t.Fatalf("expected the wall run to start, fail reason: %q", h.FailReason(h.IndexOf(set.WallRun)))
	}
	if !set.WallRun.Surface().Valid || !set.WallRun.Surface().Normal.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-3) {
		t.Fatalf("unexpected surface %+v", set.WallRun.Surface())
	}

	startX := h.State().Pos.X()
	for range 10 {
		step(t, h, movement.Input{})
	}
	if h.ActiveMode() != set.WallRun || h.IsFalling() {
		t.Fatalf("expected to keep wall running")
	}
	if set.WallRun.Side() != WallLeft {
		t.Fatalf("the wall is on the left, got %v", set.WallRun.Side())
	}
	if h.State().Pos.X() <= startX || set.WallRun.Speed() <= 600 {
		t.Fatalf("expected to accelerate along the wall, speed %v", set.WallRun.Speed())
	}
	if y := h.State().Pos.Y(); !mgl32.FloatEqualThreshold(y, 35, 1) {
		t.Fatalf("expected to keep the offset from the wall, got y=%v", y)
	}
	if body, ok := h.MovementBase(); !ok || body != wall {
		t.Fatalf("expected the wall to be the movement base, got %v", body)
	}

	step(t, h, movement.Input{Jump: true})
	if h.ActiveMode() != nil || h.Rule() != movement.RuleFalling {
		t.Fatalf("expected to fall after jumping off, rule %v", h.Rule())
	}
	if v := h.Velocity(); v.Y() >= 0 || v.Z() <= 0 {
		t.Fatalf("expected to jump away from the wall, got %v", v)
	}
	if !rec.jumped(set.WallRun.Name()) {
		t.Fatalf("expected a jumped event")
	}
	if reason := h.FailReason(h.IndexOf(set.WallRun)); reason != "Cooldown" {
		t.Fatalf("expected the cooldown to be armed, got %q", reason)
	}
	if _, ok := h.MovementBase(); ok {
		t.Fatalf("expected the movement base to be cleared after jumping off")
	}
}

func TestWallRunEndsOnSharpTurn(t *testing.T) {
	conf := DefaultConfig()
	conf.WallRun.MaxNormalAngleChange = 30

	w := floorWorld()
	w.Add(cube.Box(-5000, 80, 0, 5000, 200, 3000), "Wall")
	// A wall blocking the run turns the wall normal by 45 degrees once both are in reach.
	w.Add(cube.Box(600, -500, 0, 800, 200, 3000), "Wall")

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts := movement.DefaultOptions()
	opts.Log = log
	opts.Debugger = movement.NewDebugger(log, movement.DebugModeTransitions)
	h, set, _ := newHostWithOptions(w, movement.State{Pos: mgl32.Vec3{0, 35, 400}, Vel: mgl32.Vec3{600, 0, 400}}, conf, opts)

	step(t, h, movement.Input{})
	if h.ActiveMode() != set.WallRun {
		t.Fatalf("expected the wall run to start, fail reason: %q", h.FailReason(h.IndexOf(set.WallRun)))
	}
	for i := 0; h.ActiveMode() == set.WallRun; i++ {
		if i > 120 {
			t.Fatalf("the wall run did not end at the corner")
		}
		step(t, h, movement.Input{})
	}
	if x := h.State().Pos.X(); x+half.X() > 600 {
		t.Fatalf("expected the wall run to end before reaching the corner, got x=%v", x)
	}

	var ended bool
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "Surface normal angle delta too high") {
			ended = true
		}
	}
	if !ended {
		t.Fatalf("expected the wall run to end because of the normal change")
	}
}

func TestWallRunProbeRejectsExcludedWall(t *testing.T) {
	conf := DefaultConfig()
	conf.WallRun.Filter = surface.Filter{Exclude: []string{"NoRun"}}

	w := floorWorld()
	w.Add(cube.Box(-5000, 80, 0, 5000, 200, 3000), "Wall", "NoRun")
	h, set, _ := newHost(w, movement.State{Pos: mgl32.Vec3{0, 35, 400}, Vel: mgl32.Vec3{600, 0, 400}}, conf)

	step(t, h, movement.Input{})
	if h.ActiveMode() != nil {
		t.Fatalf("no mode should start, got %v", h.ActiveMode().Name())
	}
	info := set.WallRun.Surface()
	if info.Valid || len(info.Hits) == 0 || info.Hits[0].Valid() {
		t.Fatalf("expected a rejected hit, got %+v", info)
	}
	if reason := h.FailReason(h.IndexOf(set.WallRun)); reason != "Surface is not valid for wall run" {
		t.Fatalf("unexpected fail reason %q", reason)
	}
}

func TestVerticalWallRunClimbsAndJumpsOff(t *testing.T) {
	w := floorWorld()
	w.Add(cube.Box(100, -500, 0, 300, 500, 3000), "Wall")
	h, set, rec := newHost(w, movement.State{Pos: mgl32.Vec3{40, 0, 400}, Vel: mgl32.Vec3{600, 0, 400}}, DefaultConfig())

	step(t, h, movement.Input{})
	if h.ActiveMode() != set.VerticalWallRun {
		t.Fatalf("expected the vertical wall run to start, fail reason: %q", h.FailReason(h.IndexOf(set.VerticalWallRun)))
	}

	z := h.State().Pos.Z()
	for range 5 {
		step(t, h, movement.Input{})
	}
	if h.ActiveMode() != set.VerticalWallRun {
		t.Fatalf("expected to keep climbing")
	}
	if h.State().Pos.Z() <= z || h.Velocity().Z() <= 0 {
		t.Fatalf("expected to climb, velocity %v", h.Velocity())
	}
	if s := set.VerticalWallRun.Speed(); s >= 1000 {
		t.Fatalf("expected the climb to decelerate, got %v", s)
	}

	step(t, h, movement.Input{Jump: true})
	if h.ActiveMode() != nil {
		t.Fatalf("expected to fall after jumping off")
	}
	if v := h.Velocity(); v.X() >= 0 {
		t.Fatalf("expected to jump away from the wall, got %v", v)
	}
	if !rec.jumped(set.VerticalWallRun.Name()) {
		t.Fatalf("expected a jumped event")
	}
	if reason := h.FailReason(h.IndexOf(set.WallRun)); reason != "Cooldown" {
		t.Fatalf("ending a vertical wall run should delay the wall run, got %q", reason)
	}
}

func TestDashChargesDepleted(t *testing.T) {
	conf := DefaultConfig()
	conf.Dash.EnableCharges = true
	conf.Dash.RestoreChargesOnGround = false

	h, set, rec := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, 1000}}, conf)

	set.Dash.Trigger()
	step(t, h, movement.Input{})
	if h.ActiveMode() != set.Dash {
		t.Fatalf("expected the dash to start")
	}
	if set.Dash.Charges() != 0 {
		t.Fatalf("expected the charge to be used, got %d", set.Dash.Charges())
	}

	set.Dash.Trigger()
	step(t, h, movement.Input{})
	if reason := h.FailReason(h.IndexOf(set.Dash)); reason != "Charges depleted" {
		t.Fatalf("unexpected fail reason %q", reason)
	}

	set.Dash.ResetCharges()
	if reason, _ := set.Dash.CanStart(); reason == "Charges depleted" {
		t.Fatalf("charges should be restored")
	}

	var deltas []int
	for _, e := range rec.events {
		if u, ok := e.(movement.DashChargeUpdated); ok {
			deltas = append(deltas, u.Delta)
		}
	}
	if len(deltas) != 2 || deltas[0] != -1 || deltas[1] != 1 {
		t.Fatalf("unexpected charge updates %v", deltas)
	}
}

func TestDashTravelsDistance(t *testing.T) {
	conf := DefaultConfig()
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, 1000}}, conf)

	set.Dash.Trigger()
	step(t, h, movement.Input{})
	if h.ActiveMode() != set.Dash {
		t.Fatalf("expected the dash to start")
	}
	for i := 0; h.ActiveMode() == set.Dash; i++ {
		if i > 60 {
			t.Fatalf("the dash did not finish")
		}
		step(t, h, movement.Input{})
	}
	if x := h.State().Pos.X(); x < conf.Dash.Distance-1 || x > conf.Dash.Distance+30 {
		t.Fatalf("expected to travel %v, got %v", conf.Dash.Distance, x)
	}
	if v := h.Velocity(); !mgl32.FloatEqualThreshold(v.X(), conf.Dash.PreservedSpeedMin, 1) {
		t.Fatalf("expected the minimum preserved speed, got %v", v)
	}
	if reason := h.FailReason(h.IndexOf(set.Dash)); reason != "Cooldown" {
		t.Fatalf("unexpected fail reason %q", reason)
	}
}

type damageLog map[surface.BodyID]int

func (d damageLog) Damage(body surface.BodyID, _ float32) {
	d[body]++
}

func TestDashDamagesOncePerDash(t *testing.T) {
	conf := DefaultConfig()
	conf.Dash.EnableDamage = true

	w := floorWorld()
	target := w.Add(cube.Box(300, -20, 980, 340, 20, 1020), "Damageable")
	h, set, _ := newHost(w, movement.State{Pos: mgl32.Vec3{0, 0, 1000}}, conf)
	dmg := damageLog{}
	set.Dash.Damager = dmg

	set.Dash.Trigger()
	for range 30 {
		step(t, h, movement.Input{})
	}
	if dmg[target] != 1 {
		t.Fatalf("expected the target to be damaged once, got %v", dmg)
	}
}

func TestSlideReleaseWalks(t *testing.T) {
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, half.Z()}}, DefaultConfig())
	run := movement.Input{Move: mgl32.Vec3{1, 0, 0}}

	for range 30 {
		step(t, h, run)
	}
	if !h.IsWalking() {
		t.Fatalf("expected to walk")
	}

	set.Slide.SetInputHeld(true)
	step(t, h, run)
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected the slide to start, fail reason: %q", h.FailReason(h.IndexOf(set.Slide)))
	}
	step(t, h, run)
	if h.ActiveMode() != set.Slide || !h.State().Crouched {
		t.Fatalf("expected to slide crouched")
	}
	if speed := h.Velocity().Len(); speed < set.Slide.Config.InitialSpeed-100 {
		t.Fatalf("expected the initial slide speed, got %v", speed)
	}

	set.Slide.SetInputHeld(false)
	step(t, h, run)
	if h.ActiveMode() != nil || !h.IsWalking() {
		t.Fatalf("expected to walk after releasing the input, rule %v", h.Rule())
	}
	if h.State().Crouched {
		t.Fatalf("expected to stand up")
	}
}

func TestSlideAwaitsInputUp(t *testing.T) {
	conf := DefaultConfig()
	conf.Slide.Cooldown = 0
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, half.Z()}}, conf)
	run := movement.Input{Move: mgl32.Vec3{1, 0, 0}}
	for range 5 {
		step(t, h, run)
	}

	set.Slide.SetInputHeld(true)
	step(t, h, run)
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected the slide to start")
	}
	// Decelerate until the slide ends on its own.
	for i := 0; h.ActiveMode() == set.Slide; i++ {
		if i > 600 {
			t.Fatalf("the slide did not end")
		}
		step(t, h, movement.Input{})
	}
	if reason := h.FailReason(h.IndexOf(set.Slide)); reason != "Awaits input up" {
		t.Fatalf("unexpected fail reason %q", reason)
	}
}

func TestForwardMovement(t *testing.T) {
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, half.Z()}}, DefaultConfig())
	step(t, h, movement.Input{})

	set.Forward.StartMovement(300, CurveSource{Curve: curve.Linear(0, 1), Duration: 0.5})
	step(t, h, movement.Input{})
	if h.ActiveMode() != set.Forward {
		t.Fatalf("expected the forward movement to start")
	}
	for i := 0; h.ActiveMode() == set.Forward; i++ {
		if i > 60 {
			t.Fatalf("the forward movement did not finish")
		}
		step(t, h, movement.Input{})
	}
	if x := h.State().Pos.X(); x < 299 || x > 315 {
		t.Fatalf("expected to move 300 forward, got %v", x)
	}
	if reason := h.FailReason(h.IndexOf(set.Forward)); reason != "Not triggered by input" {
		t.Fatalf("the request should be consumed, got %q", reason)
	}
}

func TestResetEndsModes(t *testing.T) {
	conf := DefaultConfig()
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, 1000}}, conf)
	set.Dash.Trigger()
	step(t, h, movement.Input{})
	step(t, h, movement.Input{})

	h.Reset()
	if h.ActiveMode() != nil || h.Rule() != movement.RuleFalling {
		t.Fatalf("expected reset to end the dash")
	}
	if h.Velocity().LenSqr() != 0 {
		t.Fatalf("expected reset to zero the velocity, got %v", h.Velocity())
	}
	if reason, _ := set.Dash.CanStart(); reason != "Not triggered by input" {
		t.Fatalf("expected the cooldown to be cleared, got %q", reason)
	}
}

// rampSim reports every downward trace as hitting a ramp that descends towards +X.
type rampSim struct {
	*physics.Simulator
}

func (rampSim) LineTrace(start, end mgl32.Vec3) (surface.Hit, bool) {
	if end.Z() >= start.Z() {
		return surface.Hit{}, false
	}
	return surface.Hit{
		Location: mgl32.Vec3{start.X(), start.Y(), 0},
		Impact:   mgl32.Vec3{start.X(), start.Y(), 0},
		Normal:   mgl32.Vec3{1, 0, 2}.Normalize(),
		Tags:     surface.Tags{"Floor"},
	}, true
}

func slideOnRamp(t *testing.T, dir float32) (*movement.Host, Set) {
	t.Helper()
	opts := movement.DefaultOptions()
	opts.Log = quietLogger()
	h := movement.New(rampSim{physics.New(floorWorld(), physics.DefaultConfig())}, movement.State{Pos: mgl32.Vec3{0, 0, half.Z()}, HalfExtents: half}, opts)
	set := Register(h, DefaultConfig())

	run := movement.Input{Move: mgl32.Vec3{dir, 0, 0}}
	for range 30 {
		step(t, h, run)
	}
	set.Slide.SetInputHeld(true)
	step(t, h, run)
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected the slide to start, fail reason: %q", h.FailReason(h.IndexOf(set.Slide)))
	}
	for range 10 {
		step(t, h, run)
	}
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected to keep sliding")
	}
	return h, set
}

func TestSlideAcceleratesDownhill(t *testing.T) {
	h, set := slideOnRamp(t, 1)
	if speed := h.Velocity().Len(); speed <= set.Slide.Config.InitialSpeed {
		t.Fatalf("expected to gain speed downhill, got %v", speed)
	}
}

func TestSlideDeceleratesUphill(t *testing.T) {
	h, set := slideOnRamp(t, -1)
	if speed := h.Velocity().Len(); speed >= set.Slide.Config.InitialSpeed-100 {
		t.Fatalf("expected to lose speed uphill, got %v", speed)
	}
}

func TestDashWhileFallingIgnoresVerticalSpeed(t *testing.T) {
	conf := DefaultConfig()
	conf.Dash.PreserveVelocityOnlyInDashDirection = false
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, 5000}, Vel: mgl32.Vec3{0, 0, -3000}}, conf)

	step(t, h, movement.Input{})
	if peak := h.PeakHorizontalVelocity(); peak.LenSqr() != 0 {
		t.Fatalf("expected no horizontal velocity while falling straight down, got %v", peak)
	}

	set.Dash.Trigger()
	step(t, h, movement.Input{})
	if h.ActiveMode() != set.Dash {
		t.Fatalf("expected the dash to start, fail reason: %q", h.FailReason(h.IndexOf(set.Dash)))
	}
	for i := 0; h.ActiveMode() == set.Dash; i++ {
		if i > 60 {
			t.Fatalf("the dash did not finish")
		}
		step(t, h, movement.Input{})
	}
	v := h.Velocity()
	if !mgl32.FloatEqualThreshold(v.X(), conf.Dash.PreservedSpeedMin, 1) {
		t.Fatalf("expected to leave the dash at the minimum preserved speed, got %v", v)
	}
	if v.Z() < -100 {
		t.Fatalf("the fall speed should not survive the dash, got %v", v)
	}
}

func TestVerticalWallRunSlidesDown(t *testing.T) {
	conf := DefaultConfig()
	conf.VerticalWallRun.EnableSlideDown = true
	conf.VerticalWallRun.GravityEnabled = true

	w := floorWorld()
	wall := w.Add(cube.Box(100, -500, 0, 300, 500, 3000), "Wall")
	h, set, rec := newHost(w, movement.State{Pos: mgl32.Vec3{40, 0, 400}, Vel: mgl32.Vec3{600, 0, 400}}, conf)

	step(t, h, movement.Input{})
	if h.ActiveMode() != set.VerticalWallRun {
		t.Fatalf("expected the vertical wall run to start, fail reason: %q", h.FailReason(h.IndexOf(set.VerticalWallRun)))
	}

	var held int
	for i := 0; !set.VerticalWallRun.SlidingDown(); i++ {
		if i > 120 {
			t.Fatalf("expected to start sliding down, speed %v", set.VerticalWallRun.Speed())
		}
		step(t, h, movement.Input{})
		if h.ActiveMode() != set.VerticalWallRun {
			t.Fatalf("the vertical wall run ended early")
		}
		if set.VerticalWallRun.Speed() == 0 {
			held++
		}
	}
	// The apex is held for 0.2 seconds.
	if held < 11 {
		t.Fatalf("expected the apex to be held, held for %d frames", held)
	}

	var started int
	for _, e := range rec.events {
		if s, ok := e.(movement.SlideDownStarted); ok && s.Mode == set.VerticalWallRun.Name() {
			started++
		}
	}
	if started != 1 {
		t.Fatalf("expected one slide down event, got %d", started)
	}

	step(t, h, movement.Input{})
	if h.Velocity().Z() >= 0 || set.VerticalWallRun.Speed() >= 0 {
		t.Fatalf("expected to slide down the wall, velocity %v", h.Velocity())
	}

	w.Remove(wall)
	step(t, h, movement.Input{})
	if h.ActiveMode() != nil || !h.IsFalling() {
		t.Fatalf("expected to fall once the wall is gone, rule %v", h.Rule())
	}
}

func TestSlideFromFalling(t *testing.T) {
	conf := DefaultConfig()
	conf.Slide.InitialSpeed = 0
	h, set, rec := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, 250}, Vel: mgl32.Vec3{500, 0, -600}}, conf)

	set.Slide.SetInputHeld(true)
	step(t, h, movement.Input{})
	if reason := h.FailReason(h.IndexOf(set.Slide)); reason != "Can't start slide from falling" {
		t.Fatalf("unexpected fail reason %q", reason)
	}

	for i := 0; h.ActiveMode() != set.Slide; i++ {
		if i > 60 {
			t.Fatalf("expected the slide to start near the floor, fail reason: %q", h.FailReason(h.IndexOf(set.Slide)))
		}
		step(t, h, movement.Input{})
	}
	if z := h.State().Pos.Z(); z > half.Z()+conf.Slide.SlideFromFallingMaxDistance {
		t.Fatalf("the slide started too high above the floor, z=%v", z)
	}
	var landed bool
	for _, e := range rec.events {
		if l, ok := e.(movement.Landed); ok && l.Mode == set.Slide.Name() {
			landed = true
		}
	}
	if !landed {
		t.Fatalf("expected the slide to report the landing")
	}

	// The slide keeps the speed of the fall, vertical part included.
	step(t, h, movement.Input{})
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected to keep sliding")
	}
	if speed := h.Velocity().Len(); speed < 800 {
		t.Fatalf("expected the fall speed to carry into the slide, got %v", speed)
	}
}

func TestSlideNeverReverses(t *testing.T) {
	conf := DefaultConfig()
	conf.Slide.InitialSpeed = 500
	conf.Slide.NoDecelerationOnEvenDuration = 0
	h, set, _ := newHost(floorWorld(), movement.State{Pos: mgl32.Vec3{0, 0, half.Z()}}, conf)
	run := movement.Input{Move: mgl32.Vec3{1, 0, 0}}

	step(t, h, run)
	set.Slide.SetInputHeld(true)
	step(t, h, run)
	step(t, h, run)
	if h.ActiveMode() != set.Slide {
		t.Fatalf("expected to slide, fail reason: %q", h.FailReason(h.IndexOf(set.Slide)))
	}

	x := h.State().Pos.X()
	// A single long frame decelerates by more than the remaining speed.
	h.Step(1, run)
	if v := h.Velocity(); v.X() < 0 {
		t.Fatalf("expected the slide to stop rather than reverse, got %v", v)
	}
	if h.State().Pos.X() < x {
		t.Fatalf("expected not to move backwards, x %v -> %v", x, h.State().Pos.X())
	}
}
