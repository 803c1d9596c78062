package main

import (
	"flag"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/assets"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/movement/mode"
	"github.com/oomph-ac/locomotion/physics"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/surface"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
)

const tickRate = 60

// The following program runs a scripted parkour session: a run-up into a wall run, a jump-off, a
// slide, a dash and a forward lunge, logging every movement event.
func main() {
	var (
		settingsPath = flag.String("settings", "settings.toml", "path to the settings file, created with defaults if missing")
		frames       = flag.Int("frames", 8*tickRate, "amount of frames to simulate")
		realtime     = flag.Bool("realtime", false, "pace the simulation at the tick rate")
		stats        = flag.String("stats", "", "address to serve runtime statistics on, e.g. localhost:18066")
		characters   = flag.Int("characters", 1, "amount of independent characters to run the script with")
	)
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}

	if err := settings.SaveDefault(*settingsPath); err == nil {
		log.Infof("created default settings at %s", *settingsPath)
	}
	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	lvl, _ := logrus.ParseLevel(s.Log.Level)
	log.Level = lvl

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Sentry.DSN, Environment: s.Sentry.Environment}); err != nil {
			log.Fatalf("sentry init: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
		defer sentry.Recover()
	}

	if *stats != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(*stats))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	lib := assets.NewLibrary(log)
	if dir := s.Assets.Dir; dir != "" {
		if err := lib.LoadDir(dir); err != nil {
			log.Warnf("launch assets unavailable: %v", err)
		} else if s.Assets.Watch {
			w, err := lib.Watch(dir)
			if err != nil {
				log.Warnf("watch launch assets: %v", err)
			} else {
				defer w.Close()
			}
		}
		log.WithField("launches", lib.Names()).Info("loaded launch assets")
	}

	debugModes, _ := s.DebugModes()
	opts := s.Host
	opts.Log = log
	opts.Debugger = movement.NewDebugger(log, debugModes...)
	opts.Reporter = assert.NewReporter(log)
	opts.Reporter.Tags = map[string]string{"session": "scripted"}
	opts.Launch.Library = lib

	w := course()
	chars := make([]character, max(*characters, 1))
	for i := range chars {
		sim := physics.New(w, s.Walking)
		sim.Debugf = func(format string, args ...any) {
			opts.Debugger.Notify(movement.DebugModePhysics, true, format, args...)
		}
		// Stagger the characters so their runs differ.
		start := mgl32.Vec3{-float32(i) * 120, 35, 88}
		h := movement.New(sim, movement.State{Pos: start, HalfExtents: mgl32.Vec3{34, 34, 88}}, opts)
		set := mode.Register(h, s.Modes)
		set.Dash.Damager = damageLogger{log: log}

		entry := log.WithField("character", i)
		h.Subscribe(func(e movement.Event) {
			entry.WithFields(logrus.Fields{"event": e.ID(), "pos": h.State().Pos, "vel": h.Velocity()}).Infof("%+v", e)
		})
		chars[i] = character{h: h, set: set, log: entry}
	}

	pool := worker.New(0)
	defer pool.Close()
	run(pool, chars, *frames, *realtime)
}

type character struct {
	h   *movement.Host
	set mode.Set
	log *logrus.Entry
}

// course builds a floor, a long wall to run along and a tall wall at its end to climb.
func course() *world.World {
	w := world.New()
	w.Add(cube.Box(-10000, -10000, -100, 10000, 10000, 0), "Floor")
	w.Add(cube.Box(400, 80, 0, 3000, 200, 1200), "Wall")
	w.Add(cube.Box(5200, -2000, 0, 5400, 2000, 3000), "Wall")
	w.Add(cube.Box(4200, -200, 0, 4240, -160, 400), "Damageable")
	return w
}

// run drives the scripted input through every character, stepping them in parallel on pool.
func run(pool *worker.Pool, chars []character, frames int, realtime bool) {
	const dt float32 = 1.0 / tickRate
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for i := 0; i < frames; i++ {
		in := script(i, chars)
		for _, c := range chars {
			pool.Submit(func() {
				c.h.Step(dt, in)
			})
		}
		pool.Wait()

		if i%tickRate == 0 {
			for _, c := range chars {
				for j := range c.h.Modes() {
					c.log.Debug(c.h.Describe(j))
				}
			}
		}
		if realtime {
			<-ticker.C
		}
	}
	for _, c := range chars {
		c.log.WithFields(logrus.Fields{"pos": c.h.State().Pos, "vel": c.h.Velocity(), "rule": c.h.Rule()}).Info("session finished")
	}
}

// script returns the input of frame i and fires the mode triggers scheduled for it.
func script(i int, chars []character) movement.Input {
	in := movement.Input{Move: mgl32.Vec3{1, 0, 0}}
	for _, c := range chars {
		switch i {
		case 20, 70:
			in.Jump = true
		case 130:
			c.set.Slide.SetInputHeld(true)
		case 175:
			c.set.Slide.SetInputHeld(false)
		case 200:
			c.set.Dash.Trigger()
		case 260:
			c.set.Forward.StartMovement(300, mode.CurveSource{Curve: curve.Linear(0, 1), Duration: 0.5})
		}
	}
	return in
}

type damageLogger struct {
	log *logrus.Logger
}

func (d damageLogger) Damage(body surface.BodyID, amount float32) {
	d.log.WithField("body", body).Infof("dash dealt %.1f damage", amount)
}
