package launch

import (
	"fmt"
	"iter"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/timer"
	"github.com/sirupsen/logrus"
)

// Character is the kinematic state a Manager launches and watches.
type Character interface {
	Velocity() mgl32.Vec3
	// Launch applies the launch velocity to the character.
	Launch(v mgl32.Vec3)
	IsMovingOnSurface() bool
}

// Instance is a live controlled launch.
type Instance struct {
	Velocity     mgl32.Vec3
	Params       Params
	Duration     timer.Timer
	WalkingBlock timer.Timer

	Owner Owner
	Owned bool
}

// Direction returns the horizontal direction of the launch velocity, or zero for a vertical launch.
func (i *Instance) Direction() mgl32.Vec3 {
	return omath.HorizontalDirection(i.Velocity)
}

// ProcessResult is the combined effect of every live launch.
type ProcessResult struct {
	Acceleration           mgl32.Vec3
	AccelerationMultiplier float32
	BrakingMultiplier      float32
	GravityMultiplier      float32
}

// Options configure the expiry rules of a Manager.
type Options struct {
	// SpeedThreshold is the speed along a launch's horizontal direction at or below which a launch
	// with DisableOnLowSpeed ends.
	SpeedThreshold float32 `toml:"speed_threshold"`
	// SurfaceSettleTime is the elapsed time after which a launch with DisableOnSurface ends while
	// the character is on a surface.
	SurfaceSettleTime float32 `toml:"surface_settle_time"`

	Library Library `toml:"-"`
	// OnAdd is called after a launch was applied and stored.
	OnAdd func(*Instance) `toml:"-"`
}

// DefaultOptions returns the default expiry options.
func DefaultOptions() Options {
	return Options{SpeedThreshold: 300, SurfaceSettleTime: 0.5}
}

type key struct {
	owner Owner
	seq   uint64
	anon  bool
}

// Manager owns the controlled launches of one character. Owned and anonymous launches live in one
// ordered collection: an owned launch replaces the previous launch of its owner, anonymous
// launches accumulate in insertion order.
type Manager struct {
	c    Character
	log  *logrus.Logger
	opts Options

	launches *orderedmap.OrderedMap[key, *Instance]
	seq      uint64
}

// NewManager returns a Manager launching c.
func NewManager(c Character, log *logrus.Logger, opts Options) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		c:        c,
		log:      log,
		opts:     opts,
		launches: orderedmap.NewOrderedMap[key, *Instance](),
	}
}

// Add applies an anonymous launch.
func (m *Manager) Add(v mgl32.Vec3, p Params) error {
	m.seq++
	return m.add(key{seq: m.seq, anon: true}, v, p)
}

// AddOwned applies a launch for owner, replacing any live launch of the same owner.
func (m *Manager) AddOwned(v mgl32.Vec3, p Params, owner Owner) error {
	return m.add(key{owner: owner}, v, p)
}

// AddFromAsset applies a launch using the named parameters from the library. An empty name only
// applies the velocity. A zero owner adds an anonymous launch.
func (m *Manager) AddFromAsset(v mgl32.Vec3, name string, owner Owner) error {
	if name == "" {
		m.c.Launch(v)
		return nil
	}
	var (
		p  Params
		ok bool
	)
	if m.opts.Library != nil {
		p, ok = m.opts.Library.Params(name)
	}
	if !ok {
		m.log.WithField("asset", name).Error("controlled launch asset not found")
		return fmt.Errorf("%q: %w", name, oerror.ErrUnknownAsset)
	}
	if owner == 0 {
		return m.Add(v, p)
	}
	return m.AddOwned(v, p, owner)
}

func (m *Manager) add(k key, v mgl32.Vec3, p Params) error {
	if err := p.Validate(v); err != nil {
		m.log.WithFields(logrus.Fields{"velocity": v, "owner": k.owner}).Errorf("rejected controlled launch: %v", err)
		return err
	}
	m.c.Launch(v)

	inst := &Instance{
		Velocity:     v,
		Params:       p,
		Duration:     timer.New(p.Duration),
		WalkingBlock: timer.New(p.WalkingBlockDuration),
		Owner:        k.owner,
		Owned:        !k.anon,
	}
	// Re-inserting moves a replaced owned launch to the back of the collection.
	m.launches.Delete(k)
	m.launches.Set(k, inst)

	if m.opts.OnAdd != nil {
		m.opts.OnAdd(inst)
	}
	return nil
}

// Tick advances every launch by dt and removes the launches that expired. A launch always expires
// once its duration elapsed, the speed and surface rules only apply after its first tick.
func (m *Manager) Tick(dt float32) {
	for el := m.launches.Front(); el != nil; {
		next := el.Next()
		inst := el.Value

		firstTick := inst.Duration.Elapsed <= 0
		inst.Duration.Tick(dt)
		inst.WalkingBlock.Tick(dt)
		if m.expired(inst, firstTick) {
			m.launches.Delete(el.Key)
		}
		el = next
	}
}

func (m *Manager) expired(inst *Instance, firstTick bool) bool {
	if inst.Duration.Completed() {
		return true
	}
	if firstTick {
		return false
	}
	p := inst.Params
	if p.DisableOnLowSpeed {
		dir := inst.Direction()
		if dir.LenSqr() == 0 || math32.Abs(m.c.Velocity().Dot(dir)) <= m.opts.SpeedThreshold {
			return true
		}
	}
	return p.DisableOnSurface && m.c.IsMovingOnSurface() && inst.Duration.Elapsed > m.opts.SurfaceSettleTime
}

// Process folds every live launch over the input acceleration: owned launches first, then the
// anonymous ones in the order they were added.
func (m *Manager) Process(accel mgl32.Vec3) ProcessResult {
	res := ProcessResult{
		Acceleration:           accel,
		AccelerationMultiplier: 1,
		BrakingMultiplier:      1,
		GravityMultiplier:      1,
	}
	for inst := range m.ordered() {
		progress := inst.Duration.Progress()
		p := inst.Params

		if p.InfluenceAcceleration {
			f := curve.Clamped(p.AccelerationCurve, progress)
			dir := inst.Direction()
			if p.AllowFullPerpendicular && dir.LenSqr() > 0 {
				parallel := dir.Mul(res.Acceleration.Dot(dir))
				perpendicular := res.Acceleration.Sub(parallel)
				res.Acceleration = perpendicular.Add(parallel.Mul(f))
			} else {
				res.Acceleration = res.Acceleration.Mul(f)
			}
			res.AccelerationMultiplier *= f
		}
		if p.InfluenceBraking {
			res.BrakingMultiplier *= p.BrakingCurve.Eval(progress)
		}
		if p.InfluenceGravity {
			res.GravityMultiplier *= curve.Clamped(p.GravityCurve, progress)
		}
	}
	return res
}

func (m *Manager) ordered() iter.Seq[*Instance] {
	return func(yield func(*Instance) bool) {
		for _, anon := range [2]bool{false, true} {
			for el := m.launches.Front(); el != nil; el = el.Next() {
				if el.Key.anon != anon {
					continue
				}
				if !yield(el.Value) {
					return
				}
			}
		}
	}
}

// All yields every live launch in the order Process folds them.
func (m *Manager) All() iter.Seq[*Instance] {
	return m.ordered()
}

// Owned returns the live launch of owner.
func (m *Manager) Owned(owner Owner) (*Instance, bool) {
	return m.launches.Get(key{owner: owner})
}

// IsWalkBlocked reports whether any live launch still vetoes landing.
func (m *Manager) IsWalkBlocked() bool {
	for el := m.launches.Front(); el != nil; el = el.Next() {
		if !el.Value.WalkingBlock.Completed() {
			return true
		}
	}
	return false
}

// Clear drops every launch.
func (m *Manager) Clear() {
	if m.launches.Len() == 0 {
		return
	}
	m.launches = orderedmap.NewOrderedMap[key, *Instance]()
}

// Len returns the number of live launches.
func (m *Manager) Len() int {
	return m.launches.Len()
}

// Active reports whether any launch is live.
func (m *Manager) Active() bool {
	return m.launches.Len() > 0
}

// SetLibrary replaces the library named launches are resolved from.
func (m *Manager) SetLibrary(l Library) {
	m.opts.Library = l
}
