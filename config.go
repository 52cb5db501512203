package arbor

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds all engine tuning. Hosts typically start from
// DefaultOptions and override selected fields, or load overrides from a
// YAML file via LoadOptions.
type Options struct {
	Force   ForceConfig    `yaml:"force"`
	Cluster ClusterOptions `yaml:"cluster"`

	// FitPadding is the screen-space margin, in logical pixels, kept around
	// content by fit-to-view.
	FitPadding float64 `yaml:"fitPadding"`

	// NodeWidth and NodeHeight are the fallback footprint for nodes whose
	// snapshot carries no usable size.
	NodeWidth  float64 `yaml:"nodeWidth"`
	NodeHeight float64 `yaml:"nodeHeight"`

	// AnimationSeconds is the duration of animated fit transitions.
	AnimationSeconds float64 `yaml:"animationSeconds"`

	// ResizeDebounceMs is how long the Resizing overlay persists after the
	// last dimension change.
	ResizeDebounceMs int `yaml:"resizeDebounceMs"`

	// PositioningTimeoutMs is the fallback: Positioning that has not reached
	// Stable within this window is forced Stable with an identity transform.
	PositioningTimeoutMs int `yaml:"positioningTimeoutMs"`

	// WheelZoomStep is the zoom factor applied per wheel notch.
	WheelZoomStep float64 `yaml:"wheelZoomStep"`

	// RefitOnResize re-frames the content once a resize settles. Off by
	// default: a settled resize keeps the committed transform, and hosts
	// that want a refit call FitAll or set this.
	RefitOnResize bool `yaml:"refitOnResize"`

	// Debug enables per-frame diagnostics on stderr.
	Debug bool `yaml:"debug"`
}

// DefaultOptions returns the tuning the engine ships with.
func DefaultOptions() Options {
	return Options{
		Force:                ForceConfig{}.withDefaults(),
		Cluster:              ClusterOptions{}.withDefaults(),
		FitPadding:           50,
		NodeWidth:            120,
		NodeHeight:           72,
		AnimationSeconds:     0.4,
		ResizeDebounceMs:     300,
		PositioningTimeoutMs: 5000,
		WheelZoomStep:        1.1,
	}
}

// ParseOptions unmarshals YAML overrides on top of the defaults and
// validates the result.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads a YAML options file and applies it over the defaults.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	return ParseOptions(data)
}

// Validate reports the first out-of-range field, if any.
func (o Options) Validate() error {
	switch {
	case o.FitPadding < 0:
		return fmt.Errorf("validate options: fitPadding must be >= 0, got %v", o.FitPadding)
	case o.NodeWidth <= 0 || o.NodeHeight <= 0:
		return fmt.Errorf("validate options: node footprint must be positive, got %vx%v", o.NodeWidth, o.NodeHeight)
	case o.AnimationSeconds < 0:
		return fmt.Errorf("validate options: animationSeconds must be >= 0, got %v", o.AnimationSeconds)
	case o.ResizeDebounceMs < 0:
		return fmt.Errorf("validate options: resizeDebounceMs must be >= 0, got %d", o.ResizeDebounceMs)
	case o.PositioningTimeoutMs <= 0:
		return fmt.Errorf("validate options: positioningTimeoutMs must be > 0, got %d", o.PositioningTimeoutMs)
	case o.WheelZoomStep <= 1:
		return fmt.Errorf("validate options: wheelZoomStep must be > 1, got %v", o.WheelZoomStep)
	case o.Force.MaxIterations < 0:
		return fmt.Errorf("validate options: force.maxIterations must be >= 0, got %d", o.Force.MaxIterations)
	case o.Cluster.Padding < 0:
		return fmt.Errorf("validate options: cluster.padding must be >= 0, got %v", o.Cluster.Padding)
	}
	return nil
}

// resizeDebounce returns the debounce window as a duration.
func (o Options) resizeDebounce() time.Duration {
	return time.Duration(o.ResizeDebounceMs) * time.Millisecond
}

// positioningTimeout returns the fallback window as a duration.
func (o Options) positioningTimeout() time.Duration {
	return time.Duration(o.PositioningTimeoutMs) * time.Millisecond
}
