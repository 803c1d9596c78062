package assets

import (
	"fmt"
	"os"

	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/launch"
	"gopkg.in/yaml.v3"
)

// Document is the layout of a launch asset file.
//
//	launches:
//	  WallRunJumpOff:
//	    duration: 0.6
//	    acceleration: {keys: [{t: 0, v: 0}, {t: 1, v: 1}]}
type Document struct {
	Launches map[string]LaunchSpec `yaml:"launches"`
}

// LaunchSpec is the authored form of launch.Params. A channel is enabled by giving it a curve.
type LaunchSpec struct {
	Duration             float32      `yaml:"duration"`
	WalkingBlockDuration float32      `yaml:"walking_block_duration"`
	Acceleration         *curve.Keyed `yaml:"acceleration"`
	FullPerpendicular    bool         `yaml:"full_perpendicular"`
	Braking              *curve.Keyed `yaml:"braking"`
	Gravity              *curve.Keyed `yaml:"gravity"`
	DisableOnSurface     bool         `yaml:"disable_on_surface"`
	DisableOnLowSpeed    *bool        `yaml:"disable_on_low_speed"`
}

// Params converts the spec into launch parameters. DisableOnLowSpeed defaults to true.
func (s LaunchSpec) Params() launch.Params {
	p := launch.Params{
		Duration:               s.Duration,
		WalkingBlockDuration:   s.WalkingBlockDuration,
		AllowFullPerpendicular: s.FullPerpendicular,
		DisableOnSurface:       s.DisableOnSurface,
		DisableOnLowSpeed:      s.DisableOnLowSpeed == nil || *s.DisableOnLowSpeed,
	}
	if c := sorted(s.Acceleration); c != nil {
		p.InfluenceAcceleration, p.AccelerationCurve = true, c
	}
	if c := sorted(s.Braking); c != nil {
		p.InfluenceBraking, p.BrakingCurve = true, c
	}
	if c := sorted(s.Gravity); c != nil {
		p.InfluenceGravity, p.GravityCurve = true, c
	}
	return p
}

func sorted(k *curve.Keyed) curve.Curve {
	c := curve.Of(k)
	if c == nil {
		return nil
	}
	if k.Interp == "" {
		k.Interp = curve.InterpLinear
	}
	k.Sort()
	return c
}

// LoadDocument reads and decodes a launch asset file.
func LoadDocument(filename string) (Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, fmt.Errorf("assets: load %s: %w", filename, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("assets: unmarshal %s: %w", filename, err)
	}
	for name, spec := range doc.Launches {
		if spec.Duration < 0 {
			return Document{}, fmt.Errorf("assets: %s: launch %q has a negative duration", filename, name)
		}
	}
	return doc, nil
}
