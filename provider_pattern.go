package localstream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when opening an unknown device id.
var ErrDeviceNotFound = errors.New("device not found")

// PatternConfig configures a PatternProvider.
type PatternConfig struct {
	Cameras     int // Number of cameras (default: 1)
	Microphones int // Number of microphones (default: 1)
	Speakers    int // Number of audio outputs

	// Unlabeled hides device labels, as hosts do before any capture
	// permission has been granted.
	Unlabeled bool

	// DefaultAlias lists a "default" entry in front of the first camera and
	// microphone.
	DefaultAlias bool

	DisplayWidth  int  // Display capture width (default: 1920)
	DisplayHeight int  // Display capture height (default: 1080)
	DisplayAudio  bool // Whether display capture can attach system audio
}

// DefaultPatternConfig returns a provider with one labeled camera and
// microphone behind default aliases and a 1080p display with audio.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		Cameras:       1,
		Microphones:   1,
		DefaultAlias:  true,
		DisplayWidth:  1920,
		DisplayHeight: 1080,
		DisplayAudio:  true,
	}
}

// PatternProvider is a DeviceProvider backed by generators: cameras and
// display capture emit SMPTE color bars, microphones emit a 440 Hz tone.
type PatternProvider struct {
	config  PatternConfig
	windows atomic.Uint32
}

// NewPatternProvider creates a synthetic device provider.
func NewPatternProvider(config PatternConfig) *PatternProvider {
	if config.Cameras < 0 {
		config.Cameras = 0
	}
	if config.Microphones < 0 {
		config.Microphones = 0
	}
	if config.DisplayWidth <= 0 {
		config.DisplayWidth = 1920
	}
	if config.DisplayHeight <= 0 {
		config.DisplayHeight = 1080
	}
	return &PatternProvider{config: config}
}

func (p *PatternProvider) list(kind DeviceKind, count int, idPrefix, labelPrefix string) []DeviceInfo {
	devices := make([]DeviceInfo, 0, count+1)
	label := func(s string) string {
		if p.config.Unlabeled {
			return ""
		}
		return s
	}
	if p.config.DefaultAlias && count > 0 && kind != DeviceKindAudioOutput {
		devices = append(devices, DeviceInfo{
			DeviceID: DefaultDeviceID,
			GroupID:  fmt.Sprintf("%s-group-1", idPrefix),
			Kind:     kind,
			Label:    label(fmt.Sprintf("Default - %s 1", labelPrefix)),
		})
	}
	for i := 1; i <= count; i++ {
		devices = append(devices, DeviceInfo{
			DeviceID: fmt.Sprintf("%s-%d", idPrefix, i),
			GroupID:  fmt.Sprintf("%s-group-%d", idPrefix, i),
			Kind:     kind,
			Label:    label(fmt.Sprintf("%s %d", labelPrefix, i)),
		})
	}
	return devices
}

// lookup resolves deviceID, mapping the default alias to the first device.
func lookup(devices []DeviceInfo, deviceID string) (DeviceInfo, error) {
	for _, d := range devices {
		if d.DeviceID == deviceID && d.DeviceID != DefaultDeviceID {
			return d, nil
		}
	}
	if deviceID == DefaultDeviceID {
		for _, d := range devices {
			if d.DeviceID != DefaultDeviceID {
				return d, nil
			}
		}
	}
	return DeviceInfo{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceID)
}

// ListVideoDevices implements DeviceProvider.
func (p *PatternProvider) ListVideoDevices(ctx context.Context) ([]DeviceInfo, error) {
	return p.list(DeviceKindVideoInput, p.config.Cameras, "pattern-camera", "Pattern Camera"), nil
}

// ListAudioInputDevices implements DeviceProvider.
func (p *PatternProvider) ListAudioInputDevices(ctx context.Context) ([]DeviceInfo, error) {
	return p.list(DeviceKindAudioInput, p.config.Microphones, "pattern-mic", "Pattern Microphone"), nil
}

// ListAudioOutputDevices implements DeviceProvider.
func (p *PatternProvider) ListAudioOutputDevices(ctx context.Context) ([]DeviceInfo, error) {
	return p.list(DeviceKindAudioOutput, p.config.Speakers, "pattern-speaker", "Pattern Speaker"), nil
}

// OpenVideoDevice implements DeviceProvider.
func (p *PatternProvider) OpenVideoDevice(ctx context.Context, deviceID string, constraints *MediaTrackConstraints) (VideoTrack, error) {
	device, err := lookup(p.list(DeviceKindVideoInput, p.config.Cameras, "pattern-camera", "Pattern Camera"), deviceID)
	if err != nil {
		return nil, err
	}
	if constraints == nil {
		constraints = &MediaTrackConstraints{}
	}
	width := constraints.Width.Value(1280)
	height := constraints.Height.Value(720)
	fps := constraints.FrameRate.Value(30)

	track := newPatternVideoTrack(fmt.Sprintf("Pattern Camera (%s)", device.DeviceID), device.DeviceID, width, height, fps)
	track.SetConstraints(*constraints)
	return track, nil
}

// OpenAudioDevice implements DeviceProvider.
func (p *PatternProvider) OpenAudioDevice(ctx context.Context, deviceID string, constraints *MediaTrackConstraints) (AudioTrack, error) {
	device, err := lookup(p.list(DeviceKindAudioInput, p.config.Microphones, "pattern-mic", "Pattern Microphone"), deviceID)
	if err != nil {
		return nil, err
	}
	if constraints == nil {
		constraints = &MediaTrackConstraints{}
	}
	settings := AudioTrackSettings{
		SampleRate:       constraints.SampleRate.Value(48000),
		ChannelCount:     constraints.ChannelCount.Value(2),
		DeviceID:         device.DeviceID,
		EchoCancellation: constraints.EchoCancellation != nil && *constraints.EchoCancellation,
		NoiseSuppression: constraints.NoiseSuppression != nil && *constraints.NoiseSuppression,
		AutoGainControl:  constraints.AutoGainControl != nil && *constraints.AutoGainControl,
	}

	track := newPatternAudioTrack(fmt.Sprintf("Pattern Microphone (%s)", device.DeviceID), settings)
	track.SetConstraints(*constraints)
	return track, nil
}

// CaptureDisplay implements DeviceProvider. Track labels follow the
// "{source}:{identifier}" convention of browser capture tracks.
func (p *PatternProvider) CaptureDisplay(ctx context.Context, options DisplayVideoConstraints) (VideoTrack, error) {
	var label string
	switch options.DisplaySurface {
	case DisplaySurfaceWindow:
		label = fmt.Sprintf("window:%d", 1000+p.windows.Add(1))
	case DisplaySurfaceBrowser:
		label = fmt.Sprintf("web-contents-media-stream://%d:%d", 1000+p.windows.Add(1), 1)
	case DisplaySurfaceMonitor, "":
		label = "screen:0"
	default:
		return nil, fmt.Errorf("%w: display surface %q", ErrNotSupported, options.DisplaySurface)
	}

	width := options.Width.Value(p.config.DisplayWidth)
	height := options.Height.Value(p.config.DisplayHeight)
	fps := options.FrameRate.Value(30)
	return newPatternVideoTrack(label, "", width, height, fps), nil
}

// CaptureDisplayAudio implements DeviceProvider.
func (p *PatternProvider) CaptureDisplayAudio(ctx context.Context) (AudioTrack, error) {
	if !p.config.DisplayAudio {
		return nil, ErrNotSupported
	}
	return newPatternAudioTrack("System Audio", AudioTrackSettings{SampleRate: 48000, ChannelCount: 2}), nil
}

var _ DeviceProvider = (*PatternProvider)(nil)

// patternVideoTrack is a live VideoTrack producing color bars.
type patternVideoTrack struct {
	*BaseTrack
	settings VideoTrackSettings
	planes   [][]byte

	frameCh   chan *VideoFrame
	cancel    context.CancelFunc
	doneCh    chan struct{}
	closeOnce sync.Once
}

// maxPatternFrameRate bounds the generator tick; higher rates would round the
// frame interval down to zero.
const maxPatternFrameRate = 240

func newPatternVideoTrack(label, deviceID string, width, height, fps int) *patternVideoTrack {
	// Even dimensions for I420
	width = (width + 1) &^ 1
	height = (height + 1) &^ 1
	if fps <= 0 {
		fps = 30
	}
	fps = min(fps, maxPatternFrameRate)

	ctx, cancel := context.WithCancel(context.Background())
	t := &patternVideoTrack{
		BaseTrack: NewBaseTrack(uuid.NewString(), label, RTPCodecTypeVideo),
		settings: VideoTrackSettings{
			Width:     width,
			Height:    height,
			FrameRate: fps,
			DeviceID:  deviceID,
		},
		planes:  colorBarsI420(width, height),
		frameCh: make(chan *VideoFrame, 2),
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}
	go t.generateLoop(ctx)
	return t
}

func (t *patternVideoTrack) generateLoop(ctx context.Context) {
	defer close(t.doneCh)

	frameDuration := time.Second / time.Duration(t.settings.FrameRate)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := &VideoFrame{
				Data:      t.planes,
				Stride:    []int{t.settings.Width, t.settings.Width / 2, t.settings.Width / 2},
				Width:     t.settings.Width,
				Height:    t.settings.Height,
				Format:    PixelFormatI420,
				Timestamp: time.Since(start).Nanoseconds(),
				Duration:  frameDuration.Nanoseconds(),
			}
			select {
			case t.frameCh <- frame:
			default:
				// Drop frame if channel full
			}
		}
	}
}

func (t *patternVideoTrack) ReadFrame(ctx context.Context) (*VideoFrame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.doneCh:
		return nil, fmt.Errorf("track %s ended", t.ID())
	case frame := <-t.frameCh:
		return frame, nil
	}
}

func (t *patternVideoTrack) Settings() VideoTrackSettings { return t.settings }

func (t *patternVideoTrack) Clone() (MediaStreamTrack, error) {
	s := t.settings
	clone := newPatternVideoTrack(t.Label(), s.DeviceID, s.Width, s.Height, s.FrameRate)
	clone.SetConstraints(t.Constraints())
	return clone, nil
}

func (t *patternVideoTrack) Close() error {
	t.closeOnce.Do(func() {
		t.cancel()
		<-t.doneCh
		t.End()
	})
	return nil
}

// patternAudioTrack is a live AudioTrack producing a sine tone as S16
// interleaved samples in 20 ms chunks.
type patternAudioTrack struct {
	*BaseTrack
	settings AudioTrackSettings

	frameCh   chan *AudioSamples
	cancel    context.CancelFunc
	doneCh    chan struct{}
	closeOnce sync.Once
}

func newPatternAudioTrack(label string, settings AudioTrackSettings) *patternAudioTrack {
	if settings.SampleRate <= 0 {
		settings.SampleRate = 48000
	}
	if settings.ChannelCount <= 0 {
		settings.ChannelCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &patternAudioTrack{
		BaseTrack: NewBaseTrack(uuid.NewString(), label, RTPCodecTypeAudio),
		settings:  settings,
		frameCh:   make(chan *AudioSamples, 4),
		cancel:    cancel,
		doneCh:    make(chan struct{}),
	}
	go t.generateLoop(ctx)
	return t
}

func (t *patternAudioTrack) generateLoop(ctx context.Context) {
	defer close(t.doneCh)

	const (
		chunk     = 20 * time.Millisecond
		frequency = 440.0
		amplitude = 0.5
	)
	frameSize := t.settings.SampleRate / int(time.Second/chunk)
	channels := t.settings.ChannelCount
	phaseStep := 2 * math.Pi * frequency / float64(t.settings.SampleRate)
	phase := 0.0

	ticker := time.NewTicker(chunk)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data := make([]byte, frameSize*channels*AudioFormatS16.BytesPerSample())
			for i := 0; i < frameSize; i++ {
				v := int16(amplitude * math.MaxInt16 * math.Sin(phase))
				for ch := 0; ch < channels; ch++ {
					binary.LittleEndian.PutUint16(data[(i*channels+ch)*2:], uint16(v))
				}
				phase += phaseStep
				if phase > 2*math.Pi {
					phase -= 2 * math.Pi
				}
			}
			samples := &AudioSamples{
				Data:        data,
				SampleRate:  t.settings.SampleRate,
				Channels:    channels,
				SampleCount: frameSize,
				Format:      AudioFormatS16,
				Timestamp:   time.Since(start).Nanoseconds(),
			}
			select {
			case t.frameCh <- samples:
			default:
			}
		}
	}
}

func (t *patternAudioTrack) ReadSamples(ctx context.Context) (*AudioSamples, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.doneCh:
		return nil, fmt.Errorf("track %s ended", t.ID())
	case samples := <-t.frameCh:
		return samples, nil
	}
}

func (t *patternAudioTrack) Settings() AudioTrackSettings { return t.settings }

func (t *patternAudioTrack) Clone() (MediaStreamTrack, error) {
	clone := newPatternAudioTrack(t.Label(), t.settings)
	clone.SetConstraints(t.Constraints())
	return clone, nil
}

func (t *patternAudioTrack) Close() error {
	t.closeOnce.Do(func() {
		t.cancel()
		<-t.doneCh
		t.End()
	})
	return nil
}

// SMPTE color bars (simplified 8-bar pattern)
var colorBarsRGB = [][3]uint8{
	{192, 192, 192}, // White (75%)
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
	{16, 16, 16},    // Black
}

// colorBarsI420 renders color bars into Y, U and V planes.
func colorBarsI420(w, h int) [][]byte {
	buf := make([]byte, I420Size(w, h))
	ySize, uvSize := w*h, (w/2)*(h/2)
	yPlane, uPlane, vPlane := buf[:ySize], buf[ySize:ySize+uvSize], buf[ySize+uvSize:]

	barWidth := w / 8
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			barIdx := x / barWidth
			if barIdx >= 8 {
				barIdx = 7
			}
			rgb := colorBarsRGB[barIdx]
			yVal, u, v := rgbToYUV(rgb[0], rgb[1], rgb[2])
			yPlane[y*w+x] = yVal
			if x%2 == 0 && y%2 == 0 {
				uvIdx := (y/2)*(w/2) + (x / 2)
				uPlane[uvIdx] = u
				vPlane[uvIdx] = v
			}
		}
	}
	return [][]byte{yPlane, uPlane, vPlane}
}

// rgbToYUV converts RGB to YUV (BT.601)
func rgbToYUV(r, g, b uint8) (y, u, v uint8) {
	yf := 16.0 + 65.481*float64(r)/255.0 + 128.553*float64(g)/255.0 + 24.966*float64(b)/255.0
	uf := 128.0 - 37.797*float64(r)/255.0 - 74.203*float64(g)/255.0 + 112.0*float64(b)/255.0
	vf := 128.0 + 112.0*float64(r)/255.0 - 93.786*float64(g)/255.0 - 18.214*float64(b)/255.0

	y = uint8(clamp(yf, 16, 235))
	u = uint8(clamp(uf, 16, 240))
	v = uint8(clamp(vf, 16, 240))
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
