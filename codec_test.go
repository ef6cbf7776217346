package localstream

import "testing"

func TestVideoCodecFromFourCC(t *testing.T) {
	tests := []struct {
		fourcc string
		want   VideoCodec
	}{
		{"VP80", VideoCodecVP8},
		{"vp09", VideoCodecVP9},
		{"avc1", VideoCodecH264},
		{"hvc1", VideoCodecH265},
		{"AV01", VideoCodecAV1},
		{"mp4a", VideoCodecUnknown},
		{"", VideoCodecUnknown},
	}
	for _, tt := range tests {
		if got := VideoCodecFromFourCC(tt.fourcc); got != tt.want {
			t.Errorf("VideoCodecFromFourCC(%q) = %v, want %v", tt.fourcc, got, tt.want)
		}
	}
}

func TestVideoCodec_MimeType(t *testing.T) {
	tests := []struct {
		codec VideoCodec
		want  string
	}{
		{VideoCodecVP8, "video/VP8"},
		{VideoCodecH264, "video/H264"},
		{VideoCodecAV1, "video/AV1"},
		{VideoCodecUnknown, ""},
	}
	for _, tt := range tests {
		if got := tt.codec.MimeType(); got != tt.want {
			t.Errorf("%s.MimeType() = %q, want %q", tt.codec, got, tt.want)
		}
	}
}

func TestDetectVideoCodec(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  VideoCodec
	}{
		{"h264 sps", []byte{0, 0, 0, 1, 0x67, 0x42, 0x00, 0x1f}, VideoCodecH264},
		{"h264 3-byte start", []byte{0, 0, 1, 0x65, 0x88}, VideoCodecH264},
		{"vp8 keyframe", []byte{0x50, 0x42, 0x00, 0x9D, 0x01, 0x2A, 0x80, 0x02, 0xE0, 0x01}, VideoCodecVP8},
		{"av1 temporal delimiter", []byte{0x12, 0x00, 0x0A, 0x0B}, VideoCodecAV1},
		{"too short", []byte{0, 0, 1}, VideoCodecUnknown},
		{"forbidden bit", []byte{0xFF, 0xFF, 0xFF, 0xFF}, VideoCodecUnknown},
	}
	for _, tt := range tests {
		if got := DetectVideoCodec(tt.frame); got != tt.want {
			t.Errorf("%s: DetectVideoCodec = %v, want %v", tt.name, got, tt.want)
		}
	}
}
