package localstream

import "testing"

func TestReadableName(t *testing.T) {
	tests := []struct {
		device  DeviceInfo
		counter int
		want    string
	}{
		{DeviceInfo{Kind: DeviceKindAudioInput}, 7, "Audio Input 7"},
		{DeviceInfo{Kind: DeviceKindVideoInput}, 9, "Video Input 9"},
		{DeviceInfo{Kind: DeviceKindAudioOutput}, 3, "Audio Output 3"},
		{DeviceInfo{Kind: DeviceKindVideoInput, Label: "FaceTime HD Camera"}, 8, "FaceTime HD Camera"},
		{DeviceInfo{Kind: DeviceKind(99)}, 2, "Unknown 2"},
	}
	for _, tt := range tests {
		if got := ReadableName(tt.device, tt.counter); got != tt.want {
			t.Errorf("ReadableName(%+v, %d) = %q, want %q", tt.device, tt.counter, got, tt.want)
		}
	}
}

func TestCaptureName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"screen:0", "Screen 0"},
		{"window:12345", "Window 12345"},
		{"window:2434:0", "Window 2434"},
		{"web-contents-123:chrome://abc/def", "Tab hrome"},
		{"web-contents-media-stream://1234:5", "Tab 1234"},
		{"web-contents-media-stream://123456:1", "Tab 23456"},
		{"web:ab", "Tab ab"},
		{"screen", "Screen"},
		{":7", "Screen 7"},
		{"", "Screen Capture"},
	}
	for _, tt := range tests {
		if got := CaptureName(tt.label); got != tt.want {
			t.Errorf("CaptureName(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
