package mode

import "github.com/oomph-ac/locomotion/movement"

// Config holds the configuration of every mode.
type Config struct {
	WallRun         WallRunConfig         `toml:"wall_run"`
	VerticalWallRun VerticalWallRunConfig `toml:"vertical_wall_run"`
	Slide           SlideConfig           `toml:"slide"`
	Dash            DashConfig            `toml:"dash"`
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		WallRun:         DefaultWallRunConfig(),
		VerticalWallRun: DefaultVerticalWallRunConfig(),
		Slide:           DefaultSlideConfig(),
		Dash:            DefaultDashConfig(),
	}
}

// Set holds the mode instances registered with a host.
type Set struct {
	Forward         *ForwardMovement
	Dash            *Dash
	VerticalWallRun *VerticalWallRun
	WallRun         *WallRun
	Slide           *Slide
}

// Register creates one instance of every mode and registers them with h. Triggered modes come
// first so that a requested move always wins over the surface modes, and a wall run straight into
// a wall is a vertical wall run.
func Register(h *movement.Host, conf Config) Set {
	set := Set{
		Forward:         NewForwardMovement(),
		Dash:            NewDash(conf.Dash),
		VerticalWallRun: NewVerticalWallRun(conf.VerticalWallRun),
		WallRun:         NewWallRun(conf.WallRun),
		Slide:           NewSlide(conf.Slide),
	}
	h.Register(set.Forward, set.Dash, set.VerticalWallRun, set.WallRun, set.Slide)
	return set
}
