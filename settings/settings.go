package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/movement/mode"
	"github.com/oomph-ac/locomotion/physics"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// Settings contains everything that can be configured for a locomotion session.
type Settings struct {
	Log struct {
		// Level is a logrus level name such as "info" or "debug".
		Level string `toml:"level"`
		// Debug lists the debugger channels to enable: transitions, probes, launches, physics.
		Debug []string `toml:"debug"`
	} `toml:"log"`
	Sentry struct {
		DSN         string `toml:"dsn"`
		Environment string `toml:"environment"`
	} `toml:"sentry"`
	Assets struct {
		// Dir is the directory launch assets are loaded from. Empty disables launch assets.
		Dir   string `toml:"dir"`
		Watch bool   `toml:"watch"`
	} `toml:"assets"`

	Host    movement.Options `toml:"host"`
	Walking physics.Config   `toml:"walking"`
	Modes   mode.Config      `toml:"modes"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{
		Host:    movement.DefaultOptions(),
		Walking: physics.DefaultConfig(),
		Modes:   mode.DefaultConfig(),
	}
	s.Log.Level = logrus.InfoLevel.String()
	s.Sentry.Environment = "development"
	s.Assets.Dir = "launches"
	s.Assets.Watch = true

	s.Modes.WallRun.JumpOffLaunch = "WallRunJumpOff"
	s.Modes.VerticalWallRun.JumpOffLaunch = "WallRunJumpOff"
	s.Modes.Slide.JumpOffLaunch = "SlideJumpOff"
	s.Modes.Dash.FinishLaunch = "DashFinish"
	return s
}

// DebugModes resolves the configured debugger channel names.
func (s Settings) DebugModes() ([]int, error) {
	names := map[string]int{
		"transitions": movement.DebugModeTransitions,
		"probes":      movement.DebugModeProbes,
		"launches":    movement.DebugModeLaunches,
		"physics":     movement.DebugModePhysics,
	}
	modes := make([]int, 0, len(s.Log.Debug))
	for _, name := range s.Log.Debug {
		m, ok := names[name]
		if !ok {
			return nil, fmt.Errorf("unknown debug channel %q", name)
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist. Values missing
// from the file keep their defaults.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if _, err := logrus.ParseLevel(settings.Log.Level); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if _, err := settings.DebugModes(); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if c := settings.Modes.Dash.DistanceCurve; c != nil {
		c.Sort()
	}
	return settings, nil
}
