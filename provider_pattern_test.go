package localstream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPatternProvider_Devices(t *testing.T) {
	p := NewPatternProvider(PatternConfig{Cameras: 2, Microphones: 1, DefaultAlias: true})
	ctx := context.Background()

	cameras, err := p.ListVideoDevices(ctx)
	if err != nil {
		t.Fatalf("ListVideoDevices failed: %v", err)
	}
	if len(cameras) != 3 {
		t.Fatalf("got %d cameras, want 3 (alias + 2)", len(cameras))
	}
	if cameras[0].DeviceID != DefaultDeviceID {
		t.Errorf("first camera = %q, want the default alias", cameras[0].DeviceID)
	}
	if cameras[2].DeviceID != "pattern-camera-2" || cameras[2].Label != "Pattern Camera 2" {
		t.Errorf("cameras[2] = %+v", cameras[2])
	}

	outputs, err := p.ListAudioOutputDevices(ctx)
	if err != nil {
		t.Fatalf("ListAudioOutputDevices failed: %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("got %d outputs, want 0", len(outputs))
	}
}

func TestPatternProvider_Unlabeled(t *testing.T) {
	p := NewPatternProvider(PatternConfig{Microphones: 1, Unlabeled: true})
	mics, _ := p.ListAudioInputDevices(context.Background())
	if len(mics) != 1 || mics[0].Label != "" {
		t.Errorf("mics = %+v, want one unlabeled device", mics)
	}
}

func TestPatternProvider_OpenVideoDevice(t *testing.T) {
	p := NewPatternProvider(DefaultPatternConfig())

	track, err := p.OpenVideoDevice(context.Background(), DefaultDeviceID, &MediaTrackConstraints{
		Width:     Ideal(320),
		Height:    Ideal(240),
		FrameRate: Ideal(60),
	})
	if err != nil {
		t.Fatalf("OpenVideoDevice failed: %v", err)
	}
	defer track.Close()

	if track.Kind() != RTPCodecTypeVideo {
		t.Errorf("Kind = %v, want video", track.Kind())
	}
	if got := track.Settings().DeviceID; got != "pattern-camera-1" {
		t.Errorf("DeviceID = %q, want pattern-camera-1", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	frame, err := track.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if frame.Width != 320 || frame.Height != 240 {
		t.Errorf("frame = %dx%d, want 320x240", frame.Width, frame.Height)
	}
	if frame.Format != PixelFormatI420 {
		t.Errorf("Format = %v, want I420", frame.Format)
	}
	if len(frame.Data[0]) != 320*240 || len(frame.Data[1]) != 160*120 {
		t.Errorf("plane sizes = %d/%d", len(frame.Data[0]), len(frame.Data[1]))
	}
}

func TestPatternProvider_OpenUnknownDevice(t *testing.T) {
	p := NewPatternProvider(DefaultPatternConfig())
	if _, err := p.OpenAudioDevice(context.Background(), "nope", nil); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("error = %v, want ErrDeviceNotFound", err)
	}
}

func TestPatternProvider_OpenAudioDevice(t *testing.T) {
	p := NewPatternProvider(DefaultPatternConfig())

	track, err := p.OpenAudioDevice(context.Background(), "pattern-mic-1", &MediaTrackConstraints{
		SampleRate:       Ideal(16000),
		ChannelCount:     Ideal(1),
		EchoCancellation: Bool(true),
	})
	if err != nil {
		t.Fatalf("OpenAudioDevice failed: %v", err)
	}
	defer track.Close()

	settings := track.Settings()
	if settings.SampleRate != 16000 || settings.ChannelCount != 1 || !settings.EchoCancellation {
		t.Errorf("settings = %+v", settings)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	samples, err := track.ReadSamples(ctx)
	if err != nil {
		t.Fatalf("ReadSamples failed: %v", err)
	}
	// 20 ms at 16 kHz
	if samples.SampleCount != 320 {
		t.Errorf("SampleCount = %d, want 320", samples.SampleCount)
	}
	if len(samples.Data) != 320*2 {
		t.Errorf("len(Data) = %d, want %d", len(samples.Data), 320*2)
	}
}

func TestPatternProvider_FrameRateClamped(t *testing.T) {
	p := NewPatternProvider(DefaultPatternConfig())

	track, err := p.OpenVideoDevice(context.Background(), DefaultDeviceID, &MediaTrackConstraints{
		Width:     Ideal(64),
		Height:    Ideal(48),
		FrameRate: ExactInt(2e9),
	})
	if err != nil {
		t.Fatalf("OpenVideoDevice failed: %v", err)
	}
	defer track.Close()

	if got := track.Settings().FrameRate; got != maxPatternFrameRate {
		t.Errorf("FrameRate = %d, want %d", got, maxPatternFrameRate)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := track.ReadFrame(ctx); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
}

func TestPatternProvider_CaptureDisplayLabels(t *testing.T) {
	p := NewPatternProvider(DefaultPatternConfig())
	ctx := context.Background()

	tests := []struct {
		surface string
		name    string
	}{
		{DisplaySurfaceMonitor, "Screen 0"},
		{DisplaySurfaceWindow, "Window 1001"},
		{DisplaySurfaceBrowser, "Tab 1002"},
	}
	for _, tt := range tests {
		track, err := p.CaptureDisplay(ctx, DisplayVideoConstraints{DisplaySurface: tt.surface})
		if err != nil {
			t.Fatalf("CaptureDisplay(%q) failed: %v", tt.surface, err)
		}
		if got := CaptureName(track.Label()); got != tt.name {
			t.Errorf("CaptureName(%q) = %q, want %q", track.Label(), got, tt.name)
		}
		if s := track.Settings(); s.Width != 1920 || s.Height != 1080 {
			t.Errorf("%s: size = %dx%d, want 1920x1080", tt.surface, s.Width, s.Height)
		}
		track.Close()
	}

	if _, err := p.CaptureDisplay(ctx, DisplayVideoConstraints{DisplaySurface: "application"}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("error = %v, want ErrNotSupported", err)
	}
}

func TestPatternVideoTrack_CloneAndClose(t *testing.T) {
	track := newPatternVideoTrack("cam", "pattern-camera-1", 64, 48, 30)

	clone, err := track.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if clone.ID() == track.ID() {
		t.Error("clone should have its own id")
	}
	clone.Close()
	if clone.State() != TrackStateEnded {
		t.Errorf("clone state = %v, want ended", clone.State())
	}
	if track.State() != TrackStateLive {
		t.Errorf("closing the clone ended the original: %v", track.State())
	}

	track.Close()
	track.Close()
	if track.State() != TrackStateEnded {
		t.Errorf("state = %v, want ended", track.State())
	}
}

func TestColorBarsI420(t *testing.T) {
	planes := colorBarsI420(16, 8)
	if len(planes) != 3 {
		t.Fatalf("got %d planes, want 3", len(planes))
	}
	if len(planes[0]) != 16*8 || len(planes[1]) != 8*4 || len(planes[2]) != 8*4 {
		t.Errorf("plane sizes = %d/%d/%d", len(planes[0]), len(planes[1]), len(planes[2]))
	}
	// White bar left, black bar right
	if planes[0][0] <= planes[0][15] {
		t.Errorf("luma white=%d black=%d", planes[0][0], planes[0][15])
	}
}
