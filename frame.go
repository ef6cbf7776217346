package localstream

import "time"

// PixelFormat is the memory layout of a VideoFrame.
type PixelFormat int

const (
	PixelFormatI420   PixelFormat = iota // Planar Y, U, V at 4:2:0
	PixelFormatNV12                      // Planar Y, interleaved UV at 4:2:0
	PixelFormatRGBA32                    // Packed, 4 bytes per pixel
)

var pixelFormatNames = [...]string{
	PixelFormatI420:   "I420",
	PixelFormatNV12:   "NV12",
	PixelFormatRGBA32: "RGBA32",
}

var pixelFormatPlanes = [...]int{
	PixelFormatI420:   3,
	PixelFormatNV12:   2,
	PixelFormatRGBA32: 1,
}

func (p PixelFormat) String() string {
	if p < 0 || int(p) >= len(pixelFormatNames) {
		return "Unknown"
	}
	return pixelFormatNames[p]
}

// PlaneCount returns how many Data slices a frame of this format carries.
func (p PixelFormat) PlaneCount() int {
	if p < 0 || int(p) >= len(pixelFormatPlanes) {
		return 0
	}
	return pixelFormatPlanes[p]
}

// AudioFormat is the sample encoding of AudioSamples.
type AudioFormat int

const (
	AudioFormatS16 AudioFormat = iota // Little-endian signed 16-bit
	AudioFormatF32                    // Little-endian float32
)

func (a AudioFormat) String() string {
	switch a {
	case AudioFormatS16:
		return "S16"
	case AudioFormatF32:
		return "F32"
	}
	return "Unknown"
}

// BytesPerSample returns the size of one sample of one channel.
func (a AudioFormat) BytesPerSample() int {
	switch a {
	case AudioFormatS16:
		return 2
	case AudioFormatF32:
		return 4
	}
	return 0
}

// VideoFrame is one raw picture read from a video track. Tracks may share
// plane buffers between frames; Clone before holding on to one.
type VideoFrame struct {
	Data      [][]byte
	Stride    []int
	Width     int
	Height    int
	Format    PixelFormat
	Timestamp int64 // ns since the track started
	Duration  int64 // ns
}

// Geometry returns the frame size as a Geometry.
func (f *VideoFrame) Geometry() (Geometry, error) {
	return NewGeometry(f.Width, f.Height)
}

// Clone deep-copies the frame.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := *f
	clone.Stride = append([]int(nil), f.Stride...)
	clone.Data = make([][]byte, len(f.Data))
	for i, plane := range f.Data {
		if plane != nil {
			clone.Data[i] = append([]byte(nil), plane...)
		}
	}
	return &clone
}

// I420Size returns the buffer size of a width x height I420 picture.
func I420Size(width, height int) int {
	return width*height + 2*((width/2)*(height/2))
}

// AudioSamples is one chunk of interleaved PCM read from an audio track.
type AudioSamples struct {
	Data        []byte
	SampleRate  int
	Channels    int
	SampleCount int // per channel
	Format      AudioFormat
	Timestamp   int64 // ns since the track started
}

// Duration returns the playback time covered by the chunk.
func (s *AudioSamples) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(s.SampleCount) * time.Second / time.Duration(s.SampleRate)
}

// Clone deep-copies the samples.
func (s *AudioSamples) Clone() *AudioSamples {
	clone := *s
	if s.Data != nil {
		clone.Data = append([]byte(nil), s.Data...)
	}
	return &clone
}
