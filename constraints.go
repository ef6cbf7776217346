package localstream

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// ConstrainInt is a numeric constraint (like browser ConstrainULong).
// Zero fields are unset.
type ConstrainInt struct {
	Ideal int
	Exact int
	Min   int
	Max   int
}

// Ideal returns an ideal-only numeric constraint.
func Ideal(v int) *ConstrainInt { return &ConstrainInt{Ideal: v} }

// ExactInt returns an exact numeric constraint.
func ExactInt(v int) *ConstrainInt { return &ConstrainInt{Exact: v} }

// Value resolves the constraint to a single number, preferring Exact, then
// Ideal clamped to Min/Max, then fallback.
func (c *ConstrainInt) Value(fallback int) int {
	if c == nil {
		return fallback
	}
	if c.Exact > 0 {
		return c.Exact
	}
	v := fallback
	if c.Ideal > 0 {
		v = c.Ideal
	}
	if c.Min > 0 && v < c.Min {
		v = c.Min
	}
	if c.Max > 0 && v > c.Max {
		v = c.Max
	}
	return v
}

// ConstrainString is a string constraint (like browser ConstrainDOMString).
type ConstrainString struct {
	Ideal string
	Exact string
}

// Exact returns an exact string constraint, typically a device id.
func Exact(s string) *ConstrainString { return &ConstrainString{Exact: s} }

// Value returns Exact if set, otherwise Ideal.
func (c *ConstrainString) Value() string {
	if c == nil {
		return ""
	}
	if c.Exact != "" {
		return c.Exact
	}
	return c.Ideal
}

// Bool returns a pointer to b for optional boolean constraints.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f for optional float constraints.
func Float(f float64) *float64 { return &f }

// MediaTrackConstraints describes desired track properties (like browser
// MediaTrackConstraints). Nil pointers are unset and keep the default.
type MediaTrackConstraints struct {
	DeviceID *ConstrainString

	// Video
	Width       *ConstrainInt
	Height      *ConstrainInt
	FrameRate   *ConstrainInt
	AspectRatio *float64
	FacingMode  string // "user" or "environment"

	// Audio
	SampleRate       *ConstrainInt
	ChannelCount     *ConstrainInt
	EchoCancellation *bool
	NoiseSuppression *bool
	AutoGainControl  *bool
}

// UserMediaOptions configures getUserMedia.
type UserMediaOptions struct {
	Video *MediaTrackConstraints // nil = no video
	Audio *MediaTrackConstraints // nil = no audio
}

// Display surfaces accepted by DisplayVideoConstraints.DisplaySurface.
const (
	DisplaySurfaceMonitor = "monitor"
	DisplaySurfaceWindow  = "window"
	DisplaySurfaceBrowser = "browser"
)

// DisplayMediaOptions configures getDisplayMedia (screen capture).
type DisplayMediaOptions struct {
	Video DisplayVideoConstraints
	Audio *bool // Request audio from display
}

// DisplayVideoConstraints configures display capture video.
type DisplayVideoConstraints struct {
	DisplaySurface string // "monitor", "window", "browser"
	Cursor         string // "always", "motion", "never"
	Width          *ConstrainInt
	Height         *ConstrainInt
	FrameRate      *ConstrainInt
}

// DefaultVideoConstraints returns the constraints GetMediaTrack applies to
// video before caller overrides. Each call returns fresh pointers.
func DefaultVideoConstraints() MediaTrackConstraints {
	return MediaTrackConstraints{
		Width:       Ideal(960),
		Height:      Ideal(540),
		FrameRate:   Ideal(30),
		AspectRatio: Float(1.7777777778),
	}
}

// DefaultAudioConstraints returns the constraints GetMediaTrack applies to
// audio before caller overrides.
func DefaultAudioConstraints() MediaTrackConstraints {
	return MediaTrackConstraints{
		EchoCancellation: Bool(true),
		NoiseSuppression: Bool(true),
	}
}

// DefaultDisplayOptions returns the options GetDisplay applies before caller
// overrides.
func DefaultDisplayOptions() DisplayMediaOptions {
	return DisplayMediaOptions{
		Audio: Bool(true),
		Video: DisplayVideoConstraints{
			Height: Ideal(1080),
		},
	}
}

// ScreenCaptureOptions returns the options the catalog uses for a display
// surface.
func ScreenCaptureOptions(surface string) *DisplayMediaOptions {
	return &DisplayMediaOptions{
		Audio: Bool(true),
		Video: DisplayVideoConstraints{
			DisplaySurface: surface,
			Width:          Ideal(1920),
			Height:         Ideal(1080),
			FrameRate:      Ideal(40),
		},
	}
}

// MergeTrackConstraints overlays c on the defaults for kind. Fields set in c
// replace the default field; unset fields keep it.
func MergeTrackConstraints(kind RTPCodecType, c *MediaTrackConstraints) (MediaTrackConstraints, error) {
	var merged MediaTrackConstraints
	switch kind {
	case RTPCodecTypeVideo:
		merged = DefaultVideoConstraints()
	case RTPCodecTypeAudio:
		merged = DefaultAudioConstraints()
	default:
		return MediaTrackConstraints{}, fmt.Errorf("%w: media kind %q", ErrNotSupported, kind)
	}
	if c == nil {
		return merged, nil
	}
	if err := mergo.Merge(&merged, *c, mergo.WithOverride, mergo.WithTransformers(replacePointers{})); err != nil {
		return MediaTrackConstraints{}, fmt.Errorf("merge %s constraints: %w", kind, err)
	}
	return merged, nil
}

// MergeDisplayOptions overlays o on DefaultDisplayOptions.
func MergeDisplayOptions(o *DisplayMediaOptions) (DisplayMediaOptions, error) {
	merged := DefaultDisplayOptions()
	if o == nil {
		return merged, nil
	}
	if err := mergo.Merge(&merged, *o, mergo.WithOverride, mergo.WithTransformers(replacePointers{})); err != nil {
		return DisplayMediaOptions{}, fmt.Errorf("merge display options: %w", err)
	}
	return merged, nil
}

// replacePointers makes a caller-set pointer field replace the default
// wholesale, so an explicit false or a bare Exact constraint is not lost to
// mergo's empty-value rules.
type replacePointers struct{}

func (replacePointers) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ.Kind() != reflect.Ptr {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !src.IsNil() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
