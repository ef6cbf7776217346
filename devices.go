package localstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrNoDeviceProvider is returned by the default MediaDevices when no
// DeviceProvider has been registered.
var ErrNoDeviceProvider = errors.New("no device provider registered")

// DefaultDeviceID is the synthetic alias hosts report for the system default
// device. It duplicates a physical device listed under its own id.
const DefaultDeviceID = "default"

// DeviceKind represents the type of media device.
type DeviceKind int

const (
	DeviceKindVideoInput  DeviceKind = iota // Camera
	DeviceKindAudioInput                    // Microphone
	DeviceKindAudioOutput                   // Speaker/headphones
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindVideoInput:
		return "videoinput"
	case DeviceKindAudioInput:
		return "audioinput"
	case DeviceKindAudioOutput:
		return "audiooutput"
	default:
		return "unknown"
	}
}

// DeviceInfo describes a media device (like browser's MediaDeviceInfo).
type DeviceInfo struct {
	DeviceID string     // Unique identifier for the device
	GroupID  string     // Group identifier (devices with same groupID belong together)
	Kind     DeviceKind // Device type
	Label    string     // Human-readable device name, empty until permission is granted
}

// DeviceFilter selects devices in Devices: "" for all, "input", "output", or
// an exact kind such as "audioinput".
type DeviceFilter string

const (
	FilterAll    DeviceFilter = ""
	FilterInput  DeviceFilter = "input"
	FilterOutput DeviceFilter = "output"
)

// FilterKind returns the exact-kind filter for k.
func FilterKind(k DeviceKind) DeviceFilter { return DeviceFilter(k.String()) }

// FilterDevices applies filter to devices, preserving order.
func FilterDevices(devices []DeviceInfo, filter DeviceFilter) []DeviceInfo {
	switch filter {
	case FilterAll:
		return devices
	case FilterInput, FilterOutput:
		return lo.Filter(devices, func(d DeviceInfo, _ int) bool {
			return strings.HasSuffix(d.Kind.String(), string(filter))
		})
	default:
		return lo.Filter(devices, func(d DeviceInfo, _ int) bool {
			return d.Kind.String() == string(filter)
		})
	}
}

// MediaDevices provides access to media input devices (like navigator.mediaDevices).
// Use GetMediaDevices() to get the registry-backed instance.
type MediaDevices interface {
	// EnumerateDevices returns a list of available media devices.
	EnumerateDevices(ctx context.Context) ([]DeviceInfo, error)

	// GetUserMedia prompts for permission and returns a MediaStream with
	// requested audio and/or video tracks (camera/microphone).
	GetUserMedia(ctx context.Context, options UserMediaOptions) (MediaStream, error)

	// GetDisplayMedia prompts for permission and returns a MediaStream with
	// screen/window capture.
	GetDisplayMedia(ctx context.Context, options DisplayMediaOptions) (MediaStream, error)

	// OnDeviceChange sets a callback for device connection/disconnection events.
	OnDeviceChange(callback func())
}

// DeviceProvider is implemented by platform-specific device implementations.
type DeviceProvider interface {
	// ListVideoDevices returns available video input devices.
	ListVideoDevices(ctx context.Context) ([]DeviceInfo, error)

	// ListAudioInputDevices returns available audio input devices.
	ListAudioInputDevices(ctx context.Context) ([]DeviceInfo, error)

	// ListAudioOutputDevices returns available audio output devices.
	ListAudioOutputDevices(ctx context.Context) ([]DeviceInfo, error)

	// OpenVideoDevice opens a video input device.
	OpenVideoDevice(ctx context.Context, deviceID string, constraints *MediaTrackConstraints) (VideoTrack, error)

	// OpenAudioDevice opens an audio input device.
	OpenAudioDevice(ctx context.Context, deviceID string, constraints *MediaTrackConstraints) (AudioTrack, error)

	// CaptureDisplay captures the screen/window.
	CaptureDisplay(ctx context.Context, options DisplayVideoConstraints) (VideoTrack, error)

	// CaptureDisplayAudio captures display audio (if available).
	CaptureDisplayAudio(ctx context.Context) (AudioTrack, error)
}

// deviceRegistry holds registered device providers.
type deviceRegistry struct {
	provider DeviceProvider
	mu       sync.RWMutex
}

var globalDeviceRegistry = &deviceRegistry{}

// RegisterDeviceProvider registers a platform-specific device provider.
func RegisterDeviceProvider(provider DeviceProvider) {
	globalDeviceRegistry.mu.Lock()
	defer globalDeviceRegistry.mu.Unlock()
	globalDeviceRegistry.provider = provider
}

// GetDeviceProvider returns the registered device provider.
func GetDeviceProvider() DeviceProvider {
	globalDeviceRegistry.mu.RLock()
	defer globalDeviceRegistry.mu.RUnlock()
	return globalDeviceRegistry.provider
}

// DefaultMediaDevices is the default MediaDevices implementation. It reads the
// registered DeviceProvider on every call unless bound to one with
// NewMediaDevices.
type DefaultMediaDevices struct {
	provider       DeviceProvider
	deviceChangeCb func()
	mu             sync.RWMutex
}

var globalMediaDevices = &DefaultMediaDevices{}

// GetMediaDevices returns the MediaDevices singleton (like navigator.mediaDevices).
func GetMediaDevices() MediaDevices {
	return globalMediaDevices
}

// NewMediaDevices returns a MediaDevices bound to provider instead of the
// global registry.
func NewMediaDevices(provider DeviceProvider) *DefaultMediaDevices {
	return &DefaultMediaDevices{provider: provider}
}

func (d *DefaultMediaDevices) deviceProvider() (DeviceProvider, error) {
	provider := d.provider
	if provider == nil {
		provider = GetDeviceProvider()
	}
	if provider == nil {
		return nil, ErrNoDeviceProvider
	}
	return provider, nil
}

// EnumerateDevices implements MediaDevices. Devices are listed audio inputs
// first, then video inputs, then audio outputs.
func (d *DefaultMediaDevices) EnumerateDevices(ctx context.Context) ([]DeviceInfo, error) {
	provider, err := d.deviceProvider()
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo

	audioInputDevices, err := provider.ListAudioInputDevices(ctx)
	if err != nil {
		return nil, err
	}
	devices = append(devices, audioInputDevices...)

	videoDevices, err := provider.ListVideoDevices(ctx)
	if err != nil {
		return nil, err
	}
	devices = append(devices, videoDevices...)

	audioOutputDevices, err := provider.ListAudioOutputDevices(ctx)
	if err != nil && !errors.Is(err, ErrNotSupported) {
		return nil, err
	}
	devices = append(devices, audioOutputDevices...)

	return devices, nil
}

// GetUserMedia implements MediaDevices.
func (d *DefaultMediaDevices) GetUserMedia(ctx context.Context, options UserMediaOptions) (MediaStream, error) {
	provider, err := d.deviceProvider()
	if err != nil {
		return nil, err
	}

	stream := NewTrackSet(generateStreamID())

	if options.Video != nil {
		deviceID, err := resolveDeviceID(ctx, options.Video.DeviceID, provider.ListVideoDevices)
		if err != nil {
			return nil, fmt.Errorf("video device: %w", err)
		}

		videoTrack, err := provider.OpenVideoDevice(ctx, deviceID, options.Video)
		if err != nil {
			return nil, err
		}
		stream.AddTrack(videoTrack)
	}

	if options.Audio != nil {
		deviceID, err := resolveDeviceID(ctx, options.Audio.DeviceID, provider.ListAudioInputDevices)
		if err != nil {
			stream.Close()
			return nil, fmt.Errorf("audio device: %w", err)
		}

		audioTrack, err := provider.OpenAudioDevice(ctx, deviceID, options.Audio)
		if err != nil {
			// Close video track if we already opened it
			stream.Close()
			return nil, err
		}
		stream.AddTrack(audioTrack)
	}

	return stream, nil
}

// resolveDeviceID returns the constrained device id, or the first listed
// device when none is requested.
func resolveDeviceID(ctx context.Context, c *ConstrainString, list func(context.Context) ([]DeviceInfo, error)) (string, error) {
	if id := c.Value(); id != "" {
		return id, nil
	}
	devices, err := list(ctx)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no devices available")
	}
	return devices[0].DeviceID, nil
}

// GetDisplayMedia implements MediaDevices. Display audio is best effort: a
// provider without it still yields a video-only stream.
func (d *DefaultMediaDevices) GetDisplayMedia(ctx context.Context, options DisplayMediaOptions) (MediaStream, error) {
	provider, err := d.deviceProvider()
	if err != nil {
		return nil, err
	}

	stream := NewTrackSet(generateStreamID())

	videoTrack, err := provider.CaptureDisplay(ctx, options.Video)
	if err != nil {
		return nil, err
	}
	stream.AddTrack(videoTrack)

	if options.Audio != nil && *options.Audio {
		if audioTrack, err := provider.CaptureDisplayAudio(ctx); err == nil {
			stream.AddTrack(audioTrack)
		}
	}

	return stream, nil
}

// OnDeviceChange implements MediaDevices.
func (d *DefaultMediaDevices) OnDeviceChange(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deviceChangeCb = callback
}

// NotifyDeviceChange should be called by DeviceProvider when devices change.
func (d *DefaultMediaDevices) NotifyDeviceChange() {
	d.mu.RLock()
	cb := d.deviceChangeCb
	d.mu.RUnlock()

	if cb != nil {
		go cb()
	}
}

func generateStreamID() string {
	return uuid.NewString()
}
