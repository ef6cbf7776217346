package localstream

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/logging"
)

// Normalizer turns raw acquisition results into SourceItems.
type Normalizer struct {
	decoder      FileDecoder
	prober       GeometryProber
	probeTimeout time.Duration
	newID        func() string
	log          logging.LeveledLogger
}

// NewNormalizer creates a Normalizer. Nil decoder or prober use the built-in
// implementations; zero Config fields use DefaultConfig values.
func NewNormalizer(decoder FileDecoder, prober GeometryProber, config Config) *Normalizer {
	config = config.withDefaults()
	if decoder == nil {
		decoder = NewFileDecoder()
	}
	if prober == nil {
		prober = NewStreamProber()
	}
	return &Normalizer{
		decoder:      decoder,
		prober:       prober,
		probeTimeout: config.ProbeTimeout,
		newID:        config.NewID,
		log:          config.LoggerFactory.NewLogger("normalizer"),
	}
}

// NormalizeFile decodes f as kind and returns an *ImageSource,
// *VideoFileSource or *AudioFileSource with a freshly generated id. Decoder
// errors are returned as is.
func (n *Normalizer) NormalizeFile(ctx context.Context, kind SourceKind, f *File) (SourceItem, error) {
	switch kind {
	case SourceKindImageFile:
		img, err := n.decoder.DecodeImage(ctx, f)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		g, err := NewGeometry(b.Dx(), b.Dy())
		if err != nil {
			return nil, err
		}
		n.log.Debugf("image %q: %s", f.Name, g)
		return newImageSource(n.newID(), f.Name, g, img), nil

	case SourceKindVideoFile:
		info, err := n.decoder.DecodeVideo(ctx, f)
		if err != nil {
			return nil, err
		}
		g, err := NewGeometry(info.Width, info.Height)
		if err != nil {
			return nil, err
		}
		n.log.Debugf("video %q (%s %s): %s", f.Name, info.Container, info.Codec, g)
		return newVideoFileSource(n.newID(), f.Name, g, f, info), nil

	case SourceKindAudioFile:
		info, err := n.decoder.DecodeAudio(ctx, f)
		if err != nil {
			return nil, err
		}
		n.log.Debugf("audio %q: %s %d Hz, %d ch", f.Name, info.Format, info.SampleRate, info.Channels)
		return newAudioFileSource(n.newID(), f.Name, f, info), nil

	default:
		return nil, fmt.Errorf("%w: %s is not a file kind", ErrKindMismatch, kind)
	}
}

// NormalizeDeviceStream wraps a camera or microphone stream. The item id is
// the stream's own id; name is supplied by the caller.
func (n *Normalizer) NormalizeDeviceStream(ctx context.Context, kind SourceKind, stream MediaStream, name string) (SourceItem, error) {
	switch kind {
	case SourceKindAudioInput:
		item, err := newAudioStreamSource(kind, stream.ID(), name, stream)
		if err != nil {
			return nil, err
		}
		return item, nil

	case SourceKindVideoInput:
		g, err := n.probe(ctx, stream)
		if err != nil {
			return nil, err
		}
		item, err := newVideoStreamSource(kind, stream.ID(), name, g, stream, false)
		if err != nil {
			return nil, err
		}
		return item, nil

	default:
		return nil, fmt.Errorf("%w: %s is not a device kind", ErrKindMismatch, kind)
	}
}

// NormalizeDisplayStream wraps a screen, window or tab capture. The name comes
// from the video track label and SoundTrack reports whether the host attached
// an audio track.
func (n *Normalizer) NormalizeDisplayStream(ctx context.Context, kind SourceKind, stream MediaStream) (*VideoStreamSource, error) {
	if !kind.IsScreen() {
		return nil, fmt.Errorf("%w: %s is not a screen kind", ErrKindMismatch, kind)
	}
	videoTracks := stream.GetVideoTracks()
	if len(videoTracks) == 0 {
		return nil, ErrNoVideoTrack
	}

	g, err := n.probe(ctx, stream)
	if err != nil {
		return nil, err
	}
	name := CaptureName(videoTracks[0].Label())
	return newVideoStreamSource(kind, stream.ID(), name, g, stream, len(stream.GetAudioTracks()) > 0)
}

func (n *Normalizer) probe(ctx context.Context, stream MediaStream) (Geometry, error) {
	if n.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.probeTimeout)
		defer cancel()
	}
	g, err := n.prober.ProbeStream(ctx, stream)
	if err != nil {
		return Geometry{}, err
	}
	n.log.Debugf("stream %s: %s", stream.ID(), g)
	return g, nil
}
