package localstream

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoVideoTrack is returned when a stream to be measured has no video track.
var ErrNoVideoTrack = errors.New("stream has no video track")

// GeometryProber measures the natural size of a live stream.
type GeometryProber interface {
	// ProbeStream blocks until the stream's first video frame is available
	// or ctx is done.
	ProbeStream(ctx context.Context, stream MediaStream) (Geometry, error)
}

// GeometryProberFunc adapts a function to GeometryProber.
type GeometryProberFunc func(ctx context.Context, stream MediaStream) (Geometry, error)

// ProbeStream implements GeometryProber.
func (f GeometryProberFunc) ProbeStream(ctx context.Context, stream MediaStream) (Geometry, error) {
	return f(ctx, stream)
}

// StreamProber measures a stream by reading one frame from its first video
// track. When the track can be cloned the frame is read from the clone, which
// is closed before returning, so the caller's track keeps all its frames.
type StreamProber struct{}

// NewStreamProber creates the default frame-reading prober.
func NewStreamProber() *StreamProber {
	return &StreamProber{}
}

// ProbeStream implements GeometryProber.
func (p *StreamProber) ProbeStream(ctx context.Context, stream MediaStream) (Geometry, error) {
	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return Geometry{}, ErrNoVideoTrack
	}

	surface, release := probeSurface(tracks[0])
	defer release()

	frame, err := surface.ReadFrame(ctx)
	if err != nil {
		return Geometry{}, fmt.Errorf("geometry probe: %w", err)
	}
	return frame.Geometry()
}

func probeSurface(track VideoTrack) (VideoTrack, func()) {
	clone, err := track.Clone()
	if err != nil {
		return track, func() {}
	}
	vt, ok := clone.(VideoTrack)
	if !ok {
		clone.Close()
		return track, func() {}
	}
	return vt, func() { vt.Close() }
}
