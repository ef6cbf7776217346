package localstream

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrNotSupported is returned when an optional operation is not supported.
	ErrNotSupported = errors.New("operation not supported")

	// ErrUnknownKind is returned for a source kind outside the closed set.
	ErrUnknownKind = errors.New("unknown source kind")

	// ErrKindMismatch is returned when a source variant is built with a kind
	// from another family.
	ErrKindMismatch = errors.New("source kind does not match variant")
)

// SourceKind identifies where a source item comes from.
type SourceKind int

const (
	SourceKindUnknown        SourceKind = iota
	SourceKindImageFile                 // Local image file
	SourceKindVideoFile                 // Local video file
	SourceKindAudioFile                 // Local audio file
	SourceKindAudioInput                // Microphone
	SourceKindVideoInput                // Camera
	SourceKindDisplayCapture            // Whole monitor
	SourceKindWindowCapture             // Single window
	SourceKindBrowserCapture            // Browser tab
)

var sourceKindNames = [...]string{
	SourceKindUnknown:        "unknown",
	SourceKindImageFile:      "imagefile",
	SourceKindVideoFile:      "videofile",
	SourceKindAudioFile:      "audiofile",
	SourceKindAudioInput:     "audioinput",
	SourceKindVideoInput:     "videoinput",
	SourceKindDisplayCapture: "displaycapture",
	SourceKindWindowCapture:  "windowcapture",
	SourceKindBrowserCapture: "browsercapture",
}

func (k SourceKind) String() string {
	if k < 0 || int(k) >= len(sourceKindNames) {
		return "unknown"
	}
	return sourceKindNames[k]
}

// ParseSourceKind parses a wire name such as "videoinput".
func ParseSourceKind(s string) (SourceKind, error) {
	for i, name := range sourceKindNames {
		if i != int(SourceKindUnknown) && name == s {
			return SourceKind(i), nil
		}
	}
	return SourceKindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsFile reports whether k is loaded from a local file.
func (k SourceKind) IsFile() bool {
	return k == SourceKindImageFile || k == SourceKindVideoFile || k == SourceKindAudioFile
}

// IsDevice reports whether k is a live input device.
func (k SourceKind) IsDevice() bool {
	return k == SourceKindAudioInput || k == SourceKindVideoInput
}

// IsScreen reports whether k is a screen, window or tab capture.
func (k SourceKind) IsScreen() bool {
	return k == SourceKindDisplayCapture || k == SourceKindWindowCapture || k == SourceKindBrowserCapture
}

// SourceType returns the media family of the kind. It is the only place the
// kind to type mapping lives.
func (k SourceKind) SourceType() SourceType {
	switch k {
	case SourceKindAudioFile, SourceKindAudioInput:
		return SourceTypeSound
	case SourceKindUnknown:
		return SourceTypeUnknown
	default:
		if k.IsFile() || k.IsDevice() || k.IsScreen() {
			return SourceTypeVisual
		}
		return SourceTypeUnknown
	}
}

// SourceType identifies the media family of a source item.
type SourceType int

const (
	SourceTypeUnknown SourceType = iota
	SourceTypeVisual             // Has pixels and geometry
	SourceTypeSound              // Audio only
)

func (t SourceType) String() string {
	switch t {
	case SourceTypeVisual:
		return "visual"
	case SourceTypeSound:
		return "sound"
	default:
		return "unknown"
	}
}

// SourceItem is a normalized piece of media ready for rendering. The concrete
// type is one of *ImageSource, *VideoFileSource, *AudioFileSource,
// *VideoStreamSource or *AudioStreamSource.
type SourceItem interface {
	// ID returns the identity of this acquisition.
	ID() string

	// Name returns the human-readable name.
	Name() string

	// Kind returns where the item came from.
	Kind() SourceKind

	// Type returns the media family derived from Kind.
	Type() SourceType

	// Source returns the underlying media handle.
	Source() any

	sourceItem()
}

// VisualSource is a SourceItem with pixel dimensions.
type VisualSource interface {
	SourceItem

	// Geometry returns the natural size of the media.
	Geometry() Geometry
}

type sourceBase struct {
	id   string
	name string
	kind SourceKind
}

func (b *sourceBase) ID() string       { return b.id }
func (b *sourceBase) Name() string     { return b.name }
func (b *sourceBase) Kind() SourceKind { return b.kind }
func (b *sourceBase) Type() SourceType { return b.kind.SourceType() }
func (b *sourceBase) sourceItem()      {}

// ImageSource is a decoded image file.
type ImageSource struct {
	sourceBase
	geometry Geometry
	Image    image.Image
}

func (s *ImageSource) Geometry() Geometry { return s.geometry }
func (s *ImageSource) Source() any        { return s.Image }

// VideoFileSource is a loaded video file.
type VideoFileSource struct {
	sourceBase
	geometry  Geometry
	File      *File
	Container string // "mp4", "ivf", ...
	Codec     VideoCodec
}

func (s *VideoFileSource) Geometry() Geometry { return s.geometry }
func (s *VideoFileSource) Source() any        { return s.File }

// AudioFileSource is a loaded audio file.
type AudioFileSource struct {
	sourceBase
	File *File
	Info AudioInfo
}

func (s *AudioFileSource) Source() any { return s.File }

// VideoStreamSource is a live camera or screen capture stream.
type VideoStreamSource struct {
	sourceBase
	geometry Geometry
	Stream   MediaStream

	// SoundTrack reports whether a screen capture came with audio. Always
	// false for cameras.
	SoundTrack bool
}

func (s *VideoStreamSource) Geometry() Geometry { return s.geometry }
func (s *VideoStreamSource) Source() any        { return s.Stream }

// AudioStreamSource is a live microphone stream.
type AudioStreamSource struct {
	sourceBase
	Stream MediaStream
}

func (s *AudioStreamSource) Source() any { return s.Stream }

func newImageSource(id, name string, g Geometry, img image.Image) *ImageSource {
	return &ImageSource{
		sourceBase: sourceBase{id: id, name: name, kind: SourceKindImageFile},
		geometry:   g,
		Image:      img,
	}
}

func newVideoFileSource(id, name string, g Geometry, f *File, info VideoInfo) *VideoFileSource {
	return &VideoFileSource{
		sourceBase: sourceBase{id: id, name: name, kind: SourceKindVideoFile},
		geometry:   g,
		File:       f,
		Container:  info.Container,
		Codec:      info.Codec,
	}
}

func newAudioFileSource(id, name string, f *File, info AudioInfo) *AudioFileSource {
	return &AudioFileSource{
		sourceBase: sourceBase{id: id, name: name, kind: SourceKindAudioFile},
		File:       f,
		Info:       info,
	}
}

func newVideoStreamSource(kind SourceKind, id, name string, g Geometry, stream MediaStream, soundTrack bool) (*VideoStreamSource, error) {
	if kind != SourceKindVideoInput && !kind.IsScreen() {
		return nil, fmt.Errorf("%w: %s is not a video stream kind", ErrKindMismatch, kind)
	}
	return &VideoStreamSource{
		sourceBase: sourceBase{id: id, name: name, kind: kind},
		geometry:   g,
		Stream:     stream,
		SoundTrack: soundTrack && kind.IsScreen(),
	}, nil
}

func newAudioStreamSource(kind SourceKind, id, name string, stream MediaStream) (*AudioStreamSource, error) {
	if kind != SourceKindAudioInput {
		return nil, fmt.Errorf("%w: %s is not an audio stream kind", ErrKindMismatch, kind)
	}
	return &AudioStreamSource{
		sourceBase: sourceBase{id: id, name: name, kind: kind},
		Stream:     stream,
	}, nil
}

var (
	_ VisualSource = (*ImageSource)(nil)
	_ VisualSource = (*VideoFileSource)(nil)
	_ VisualSource = (*VideoStreamSource)(nil)
	_ SourceItem   = (*AudioFileSource)(nil)
	_ SourceItem   = (*AudioStreamSource)(nil)
)
