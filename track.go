package localstream

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pion/webrtc/v4"
)

// RTPCodecType is the media kind of a track, shared with pion so captured
// tracks can be handed to a peer connection unchanged.
type RTPCodecType = webrtc.RTPCodecType

const (
	RTPCodecTypeUnknown = webrtc.RTPCodecTypeUnknown
	RTPCodecTypeAudio   = webrtc.RTPCodecTypeAudio
	RTPCodecTypeVideo   = webrtc.RTPCodecTypeVideo
)

// TrackState is the lifecycle of a captured track. A track only ever moves
// from live to ended.
type TrackState int32

const (
	TrackStateLive TrackState = iota
	TrackStateEnded
)

func (s TrackState) String() string {
	switch s {
	case TrackStateLive:
		return "live"
	case TrackStateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MediaStreamTrack is one capture feed opened by a DeviceProvider.
type MediaStreamTrack interface {
	io.Closer

	ID() string
	Kind() RTPCodecType

	// Label is assigned by the host. Display captures use
	// "{source}:{identifier}", see CaptureName.
	Label() string

	State() TrackState

	// Constraints returns the merged constraints the track was opened with.
	Constraints() MediaTrackConstraints

	// Clone opens a second feed from the same source. Closing the clone
	// leaves the original live. May return ErrNotSupported.
	Clone() (MediaStreamTrack, error)
}

// VideoTrack is a capture feed of raw frames.
type VideoTrack interface {
	MediaStreamTrack

	// ReadFrame blocks until the next frame, ctx is done, or the track ends.
	ReadFrame(ctx context.Context) (*VideoFrame, error)

	Settings() VideoTrackSettings
}

// VideoTrackSettings is what a video device actually delivers after
// constraints were applied.
type VideoTrackSettings struct {
	Width      int
	Height     int
	FrameRate  int
	DeviceID   string
	FacingMode string
}

// AudioTrack is a capture feed of PCM samples.
type AudioTrack interface {
	MediaStreamTrack

	ReadSamples(ctx context.Context) (*AudioSamples, error)

	Settings() AudioTrackSettings
}

// AudioTrackSettings is what an audio device actually delivers after
// constraints were applied.
type AudioTrackSettings struct {
	SampleRate       int
	ChannelCount     int
	DeviceID         string
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// MediaStream groups the tracks of one acquisition. Closing the stream
// releases every track it holds.
type MediaStream interface {
	io.Closer

	ID() string
	GetTracks() []MediaStreamTrack
	GetVideoTracks() []VideoTrack
	GetAudioTracks() []AudioTrack
	AddTrack(track MediaStreamTrack)
}

// BaseTrack carries the identity, state and constraints shared by provider
// tracks. Embedders supply the media reads and Close.
type BaseTrack struct {
	id    string
	label string
	kind  RTPCodecType
	state atomic.Int32

	mu          sync.RWMutex
	constraints MediaTrackConstraints
}

// NewBaseTrack returns a live track identity.
func NewBaseTrack(id, label string, kind RTPCodecType) *BaseTrack {
	return &BaseTrack{id: id, label: label, kind: kind}
}

func (t *BaseTrack) ID() string         { return t.id }
func (t *BaseTrack) Kind() RTPCodecType { return t.kind }
func (t *BaseTrack) Label() string      { return t.label }

func (t *BaseTrack) State() TrackState {
	return TrackState(t.state.Load())
}

// End marks the track ended and reports whether this call ended it.
func (t *BaseTrack) End() bool {
	return t.state.CompareAndSwap(int32(TrackStateLive), int32(TrackStateEnded))
}

func (t *BaseTrack) Constraints() MediaTrackConstraints {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.constraints
}

func (t *BaseTrack) SetConstraints(c MediaTrackConstraints) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.constraints = c
}

// TrackSet is the MediaStream handed out by MediaDevices.
type TrackSet struct {
	id string

	mu     sync.RWMutex
	tracks []MediaStreamTrack
	closed bool
}

// NewTrackSet returns an empty stream.
func NewTrackSet(id string) *TrackSet {
	return &TrackSet{id: id}
}

func (s *TrackSet) ID() string { return s.id }

func (s *TrackSet) GetTracks() []MediaStreamTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MediaStreamTrack(nil), s.tracks...)
}

func (s *TrackSet) GetVideoTracks() []VideoTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []VideoTrack
	for _, t := range s.tracks {
		if vt, ok := t.(VideoTrack); ok && t.Kind() == RTPCodecTypeVideo {
			result = append(result, vt)
		}
	}
	return result
}

func (s *TrackSet) GetAudioTracks() []AudioTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []AudioTrack
	for _, t := range s.tracks {
		if at, ok := t.(AudioTrack); ok && t.Kind() == RTPCodecTypeAudio {
			result = append(result, at)
		}
	}
	return result
}

// AddTrack appends track unless a track with the same id is already held.
// A track added after Close is closed at once so it cannot leak.
func (s *TrackSet) AddTrack(track MediaStreamTrack) {
	if track == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		track.Close()
		return
	}
	for _, t := range s.tracks {
		if t.ID() == track.ID() {
			s.mu.Unlock()
			return
		}
	}
	s.tracks = append(s.tracks, track)
	s.mu.Unlock()
}

// Close closes every track and returns their joined errors. Later calls are
// no-ops.
func (s *TrackSet) Close() error {
	s.mu.Lock()
	tracks := s.tracks
	s.tracks = nil
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, t := range tracks {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ MediaStream = (*TrackSet)(nil)
