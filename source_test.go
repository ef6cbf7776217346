package localstream

import (
	"errors"
	"image"
	"math"
	"testing"
)

func TestSourceKind_SourceType(t *testing.T) {
	tests := []struct {
		kind SourceKind
		want SourceType
	}{
		{SourceKindImageFile, SourceTypeVisual},
		{SourceKindVideoFile, SourceTypeVisual},
		{SourceKindAudioFile, SourceTypeSound},
		{SourceKindAudioInput, SourceTypeSound},
		{SourceKindVideoInput, SourceTypeVisual},
		{SourceKindDisplayCapture, SourceTypeVisual},
		{SourceKindWindowCapture, SourceTypeVisual},
		{SourceKindBrowserCapture, SourceTypeVisual},
		{SourceKindUnknown, SourceTypeUnknown},
		{SourceKind(42), SourceTypeUnknown},
	}
	for _, tt := range tests {
		if got := tt.kind.SourceType(); got != tt.want {
			t.Errorf("%s.SourceType() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestSourceKind_Families(t *testing.T) {
	for k := SourceKindImageFile; k <= SourceKindBrowserCapture; k++ {
		n := 0
		for _, in := range []bool{k.IsFile(), k.IsDevice(), k.IsScreen()} {
			if in {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%s belongs to %d families, want 1", k, n)
		}
	}
}

func TestParseSourceKind(t *testing.T) {
	for k := SourceKindImageFile; k <= SourceKindBrowserCapture; k++ {
		got, err := ParseSourceKind(k.String())
		if err != nil {
			t.Fatalf("ParseSourceKind(%q) failed: %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseSourceKind(%q) = %v, want %v", k.String(), got, k)
		}
	}

	for _, s := range []string{"", "unknown", "camera"} {
		if _, err := ParseSourceKind(s); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseSourceKind(%q) error = %v, want ErrUnknownKind", s, err)
		}
	}
}

func TestNewVideoStreamSource_KindMismatch(t *testing.T) {
	g, _ := NewGeometry(640, 480)
	stream := NewTrackSet("s")

	for _, kind := range []SourceKind{SourceKindAudioInput, SourceKindImageFile, SourceKindUnknown} {
		if _, err := newVideoStreamSource(kind, "id", "name", g, stream, false); !errors.Is(err, ErrKindMismatch) {
			t.Errorf("newVideoStreamSource(%s) error = %v, want ErrKindMismatch", kind, err)
		}
	}
	for _, kind := range []SourceKind{SourceKindVideoInput, SourceKindAudioFile, SourceKindDisplayCapture} {
		if _, err := newAudioStreamSource(kind, "id", "name", stream); !errors.Is(err, ErrKindMismatch) {
			t.Errorf("newAudioStreamSource(%s) error = %v, want ErrKindMismatch", kind, err)
		}
	}
}

func TestNewVideoStreamSource_SoundTrackOnlyForScreens(t *testing.T) {
	g, _ := NewGeometry(1280, 720)
	stream := NewTrackSet("s")

	camera, err := newVideoStreamSource(SourceKindVideoInput, "id", "Cam", g, stream, true)
	if err != nil {
		t.Fatalf("newVideoStreamSource failed: %v", err)
	}
	if camera.SoundTrack {
		t.Error("camera source should never report a sound track")
	}

	window, err := newVideoStreamSource(SourceKindWindowCapture, "id", "Window 1", g, stream, true)
	if err != nil {
		t.Fatalf("newVideoStreamSource failed: %v", err)
	}
	if !window.SoundTrack {
		t.Error("window capture should keep its sound track flag")
	}
	if window.Source() != MediaStream(stream) {
		t.Error("Source() should return the stream")
	}
}

func TestImageSource_Geometry(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	g, err := NewGeometry(640, 480)
	if err != nil {
		t.Fatalf("NewGeometry failed: %v", err)
	}
	src := newImageSource("id-1", "photo.png", g, img)

	var item SourceItem = src
	if item.Kind() != SourceKindImageFile || item.Type() != SourceTypeVisual {
		t.Errorf("kind/type = %v/%v, want imagefile/visual", item.Kind(), item.Type())
	}
	visual, ok := item.(VisualSource)
	if !ok {
		t.Fatal("ImageSource should be a VisualSource")
	}
	if got := visual.Geometry().Ratio; math.Abs(got-4.0/3.0) > 1e-9 {
		t.Errorf("Ratio = %v, want %v", got, 4.0/3.0)
	}
}
