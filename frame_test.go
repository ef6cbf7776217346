package localstream

import (
	"testing"
	"time"
)

func TestPixelFormat_String(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
		planes int
	}{
		{PixelFormatI420, "I420", 3},
		{PixelFormatNV12, "NV12", 2},
		{PixelFormatRGBA32, "RGBA32", 1},
		{PixelFormat(99), "Unknown", 0},
		{PixelFormat(-1), "Unknown", 0},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("PixelFormat(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
		if got := tt.format.PlaneCount(); got != tt.planes {
			t.Errorf("%s.PlaneCount() = %d, want %d", tt.want, got, tt.planes)
		}
	}
}

func TestI420Size(t *testing.T) {
	tests := []struct {
		width, height, want int
	}{
		{1920, 1080, 1920*1080 + 2*960*540},
		{640, 480, 460800},
		{2, 2, 6},
	}
	for _, tt := range tests {
		if got := I420Size(tt.width, tt.height); got != tt.want {
			t.Errorf("I420Size(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestVideoFrame_Clone(t *testing.T) {
	f := &VideoFrame{
		Data:   [][]byte{{1, 2, 3, 4}, {5}, {6}},
		Stride: []int{2, 1, 1},
		Width:  2,
		Height: 2,
	}
	clone := f.Clone()
	f.Data[0][0] = 99
	f.Stride[0] = 99

	if clone.Data[0][0] != 1 || clone.Stride[0] != 2 {
		t.Error("clone shares buffers with the original")
	}
	if clone.Width != 2 || clone.Height != 2 || clone.Format != PixelFormatI420 {
		t.Errorf("clone = %dx%d %s", clone.Width, clone.Height, clone.Format)
	}
}

func TestVideoFrame_Geometry(t *testing.T) {
	g, err := (&VideoFrame{Width: 1280, Height: 720}).Geometry()
	if err != nil {
		t.Fatalf("Geometry failed: %v", err)
	}
	if g.Ratio != 1280.0/720.0 {
		t.Errorf("Ratio = %v", g.Ratio)
	}
	if _, err := (&VideoFrame{}).Geometry(); err == nil {
		t.Error("empty frame should have no geometry")
	}
}

func TestAudioSamples(t *testing.T) {
	s := &AudioSamples{Data: []byte{1, 2}, SampleRate: 48000, Channels: 1, SampleCount: 960}
	if got := s.Duration(); got != 20*time.Millisecond {
		t.Errorf("Duration = %v, want 20ms", got)
	}

	clone := s.Clone()
	s.Data[0] = 9
	if clone.Data[0] != 1 {
		t.Error("clone shares data with the original")
	}
	if AudioFormatS16.BytesPerSample() != 2 || AudioFormatF32.BytesPerSample() != 4 {
		t.Error("unexpected BytesPerSample")
	}
}
