package localstream

import (
	"context"
)

// MediaItem is a catalog entry: something the caller can start capturing.
// GetSource performs the acquisition; nothing is opened until it is called.
type MediaItem struct {
	ID        int
	Label     string
	Kind      SourceKind
	GetSource func(ctx context.Context) (SourceItem, error)
}

// catalogBuilder assigns ids for one GetMediaList call.
type catalogBuilder struct {
	counter int
	items   []MediaItem
}

func (b *catalogBuilder) next() int {
	b.counter++
	return b.counter
}

func (b *catalogBuilder) add(label string, kind SourceKind, get func(ctx context.Context) (SourceItem, error)) {
	b.items = append(b.items, MediaItem{
		ID:        b.next(),
		Label:     label,
		Kind:      kind,
		GetSource: get,
	})
}

// addDevices appends one entry per device, skipping the "default" alias.
// Labels use the id the entry receives.
func (b *catalogBuilder) addDevices(l *LocalStream, devices []DeviceInfo, kind SourceKind) {
	for _, device := range devices {
		if device.DeviceID == DefaultDeviceID {
			continue
		}
		id := b.next()
		deviceID := device.DeviceID
		label := ReadableName(device, id)
		b.items = append(b.items, MediaItem{
			ID:    id,
			Label: label,
			Kind:  kind,
			GetSource: func(ctx context.Context) (SourceItem, error) {
				return l.loadDevice(ctx, kind, deviceID, label)
			},
		})
	}
}

// GetMediaList builds the catalog: Image, Video, Audio, Display Capture,
// Window Capture and Browser Capture (ids 1-6), then every non-default audio
// input and video input device in that order (ids 7 and up).
func (l *LocalStream) GetMediaList(ctx context.Context) ([]MediaItem, error) {
	var b catalogBuilder

	for _, entry := range []struct {
		label string
		kind  SourceKind
	}{
		{"Image", SourceKindImageFile},
		{"Video", SourceKindVideoFile},
		{"Audio", SourceKindAudioFile},
	} {
		kind := entry.kind
		b.add(entry.label, kind, func(ctx context.Context) (SourceItem, error) {
			return l.LoadFile(ctx, kind)
		})
	}

	for _, entry := range []struct {
		label   string
		kind    SourceKind
		surface string
	}{
		{"Display Capture", SourceKindDisplayCapture, DisplaySurfaceMonitor},
		{"Window Capture", SourceKindWindowCapture, DisplaySurfaceWindow},
		{"Browser Capture", SourceKindBrowserCapture, DisplaySurfaceBrowser},
	} {
		kind, surface := entry.kind, entry.surface
		b.add(entry.label, kind, func(ctx context.Context) (SourceItem, error) {
			return l.loadDisplay(ctx, surface, kind)
		})
	}

	audioInputs, err := l.Devices(ctx, FilterKind(DeviceKindAudioInput))
	if err != nil {
		return nil, err
	}
	b.addDevices(l, audioInputs, SourceKindAudioInput)

	videoInputs, err := l.Devices(ctx, FilterKind(DeviceKindVideoInput))
	if err != nil {
		return nil, err
	}
	b.addDevices(l, videoInputs, SourceKindVideoInput)

	l.log.Debugf("media list: %d entries (%d audio inputs, %d video inputs)", len(b.items), len(audioInputs), len(videoInputs))
	return b.items, nil
}
