package localstream

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pion/logging"
)

// fakeDevices is a scripted MediaDevices recording what it was asked for.
type fakeDevices struct {
	devices []DeviceInfo
	err     error

	newStream func() MediaStream

	mu          sync.Mutex
	userCalls   []UserMediaOptions
	displayCall []DisplayMediaOptions
}

func (f *fakeDevices) EnumerateDevices(ctx context.Context) ([]DeviceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}

func (f *fakeDevices) GetUserMedia(ctx context.Context, options UserMediaOptions) (MediaStream, error) {
	f.mu.Lock()
	f.userCalls = append(f.userCalls, options)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.stream(), nil
}

func (f *fakeDevices) GetDisplayMedia(ctx context.Context, options DisplayMediaOptions) (MediaStream, error) {
	f.mu.Lock()
	f.displayCall = append(f.displayCall, options)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.stream(), nil
}

func (f *fakeDevices) OnDeviceChange(callback func()) {}

func (f *fakeDevices) stream() MediaStream {
	if f.newStream != nil {
		return f.newStream()
	}
	return NewTrackSet("fake-stream")
}

func (f *fakeDevices) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.userCalls), len(f.displayCall)
}

// stalledTrack is a video track that never delivers a frame.
type stalledTrack struct {
	*BaseTrack
}

func newStalledTrack(label string) *stalledTrack {
	return &stalledTrack{BaseTrack: NewBaseTrack(uuid.NewString(), label, RTPCodecTypeVideo)}
}

func (t *stalledTrack) ReadFrame(ctx context.Context) (*VideoFrame, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (t *stalledTrack) Settings() VideoTrackSettings     { return VideoTrackSettings{} }
func (t *stalledTrack) Clone() (MediaStreamTrack, error) { return nil, ErrNotSupported }
func (t *stalledTrack) Close() error {
	t.End()
	return nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func testConfig() Config {
	config := DefaultConfig()
	factory := logging.NewDefaultLoggerFactory()
	factory.DefaultLogLevel = logging.LogLevelDisabled
	config.LoggerFactory = factory
	return config
}
