package localstream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"
)

// Config configures a LocalStream.
type Config struct {
	// ProbeTimeout bounds each stream geometry probe (default: 10s).
	// Negative disables the bound.
	ProbeTimeout time.Duration

	// PickTimeout bounds each file picker session (default: 5m).
	// Negative disables the bound.
	PickTimeout time.Duration

	// LoggerFactory creates the package loggers (default: pion's
	// DefaultLoggerFactory, configured from PION_LOG_* variables).
	LoggerFactory logging.LoggerFactory

	// NewID generates ids for file sources (default: uuid.NewString).
	NewID func() string
}

// DefaultConfig returns the default LocalStream configuration.
func DefaultConfig() Config {
	return Config{
		ProbeTimeout:  10 * time.Second,
		PickTimeout:   5 * time.Minute,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
		NewID:         uuid.NewString,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	if c.PickTimeout == 0 {
		c.PickTimeout = def.PickTimeout
	}
	if c.LoggerFactory == nil {
		c.LoggerFactory = def.LoggerFactory
	}
	if c.NewID == nil {
		c.NewID = def.NewID
	}
	return c
}

// Host bundles the platform capabilities a LocalStream drives. Nil fields
// use GetMediaDevices(), NewStreamProber() and NewFileDecoder(); a nil Picker
// makes LoadFile fail with ErrNoFilePicker.
type Host struct {
	Devices MediaDevices
	Picker  FilePicker
	Prober  GeometryProber
	Decoder FileDecoder
}

// LocalStream is the entry point: device enumeration, track and display
// acquisition, file loading and the media catalog.
type LocalStream struct {
	devices     MediaDevices
	picker      FilePicker
	normalizer  *Normalizer
	pickTimeout time.Duration
	log         logging.LeveledLogger
}

// New creates a LocalStream over host.
func New(host Host, config Config) *LocalStream {
	config = config.withDefaults()
	if host.Devices == nil {
		host.Devices = GetMediaDevices()
	}
	return &LocalStream{
		devices:     host.Devices,
		picker:      host.Picker,
		normalizer:  NewNormalizer(host.Decoder, host.Prober, config),
		pickTimeout: config.PickTimeout,
		log:         config.LoggerFactory.NewLogger("localstream"),
	}
}

// Normalizer returns the normalizer used for acquired media.
func (l *LocalStream) Normalizer() *Normalizer {
	return l.normalizer
}

// Devices lists host devices matching filter. Labels may be empty until the
// host has granted a capture permission.
func (l *LocalStream) Devices(ctx context.Context, filter DeviceFilter) ([]DeviceInfo, error) {
	devices, err := l.devices.EnumerateDevices(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDevices(devices, filter), nil
}

// GetMediaTrack acquires a camera (RTPCodecTypeVideo) or microphone
// (RTPCodecTypeAudio) stream. Fields set in constraints override the defaults
// one by one.
func (l *LocalStream) GetMediaTrack(ctx context.Context, kind RTPCodecType, constraints *MediaTrackConstraints) (MediaStream, error) {
	merged, err := MergeTrackConstraints(kind, constraints)
	if err != nil {
		return nil, err
	}

	var options UserMediaOptions
	if kind == RTPCodecTypeVideo {
		options.Video = &merged
	} else {
		options.Audio = &merged
	}
	l.log.Debugf("getUserMedia %s device=%q", kind, merged.DeviceID.Value())
	return l.devices.GetUserMedia(ctx, options)
}

// GetDisplay acquires a screen capture stream. Fields set in options override
// the defaults (audio on, height 1080) one by one.
func (l *LocalStream) GetDisplay(ctx context.Context, options *DisplayMediaOptions) (MediaStream, error) {
	merged, err := MergeDisplayOptions(options)
	if err != nil {
		return nil, err
	}
	l.log.Debugf("getDisplayMedia surface=%q", merged.Video.DisplaySurface)
	return l.devices.GetDisplayMedia(ctx, merged)
}

// LoadFile lets the user pick an image, video or audio file and returns it
// normalized.
func (l *LocalStream) LoadFile(ctx context.Context, kind SourceKind) (SourceItem, error) {
	accept, err := acceptFor(kind)
	if err != nil {
		return nil, err
	}
	if l.picker == nil {
		return nil, ErrNoFilePicker
	}

	pickCtx := ctx
	if l.pickTimeout > 0 {
		var cancel context.CancelFunc
		pickCtx, cancel = context.WithTimeout(ctx, l.pickTimeout)
		defer cancel()
	}
	f, err := l.picker.PickFile(pickCtx, accept)
	if err != nil {
		return nil, err
	}
	l.log.Debugf("picked %q (%s, %d bytes)", f.Name, f.MIME, len(f.Data))
	return l.normalizer.NormalizeFile(ctx, kind, f)
}

// loadDisplay captures surface and normalizes it as kind. The stream is closed
// if normalization fails.
func (l *LocalStream) loadDisplay(ctx context.Context, surface string, kind SourceKind) (SourceItem, error) {
	stream, err := l.GetDisplay(ctx, ScreenCaptureOptions(surface))
	if err != nil {
		return nil, err
	}
	item, err := l.normalizer.NormalizeDisplayStream(ctx, kind, stream)
	if err != nil {
		stream.Close()
		return nil, err
	}
	if !item.SoundTrack {
		l.log.Debugf("display capture %s has no audio track", item.ID())
	}
	return item, nil
}

// loadDevice opens deviceID and normalizes it as kind under name.
func (l *LocalStream) loadDevice(ctx context.Context, kind SourceKind, deviceID, name string) (SourceItem, error) {
	var mediaKind RTPCodecType
	switch kind {
	case SourceKindAudioInput:
		mediaKind = RTPCodecTypeAudio
	case SourceKindVideoInput:
		mediaKind = RTPCodecTypeVideo
	default:
		return nil, fmt.Errorf("%w: %s is not a device kind", ErrKindMismatch, kind)
	}

	stream, err := l.GetMediaTrack(ctx, mediaKind, &MediaTrackConstraints{DeviceID: Exact(deviceID)})
	if err != nil {
		return nil, err
	}
	item, err := l.normalizer.NormalizeDeviceStream(ctx, kind, stream, name)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return item, nil
}
