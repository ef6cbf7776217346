package localstream

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrNoFilePicker is returned by LoadFile when the host has no picker.
	ErrNoFilePicker = errors.New("no file picker configured")

	// ErrPickerCancelled is returned when the user dismisses the picker.
	ErrPickerCancelled = errors.New("file picker cancelled")

	// ErrRejectedFile is returned when the chosen file does not match the
	// picker's accept filter.
	ErrRejectedFile = errors.New("file rejected by accept filter")
)

// Accept filters for the file kinds.
const (
	AcceptImage = "image/*"
	AcceptVideo = "video/*"
	AcceptAudio = "audio/*"
)

// File is a file chosen through a FilePicker.
type File struct {
	Name string // Base name as chosen by the user
	MIME string // Media type, without parameters
	Data []byte
}

// FilePicker presents the host's file chooser.
type FilePicker interface {
	// PickFile returns one file matching accept (e.g. "image/*"). It returns
	// ErrPickerCancelled if the user dismisses the chooser.
	PickFile(ctx context.Context, accept string) (*File, error)
}

// FilePickerFunc adapts a function to FilePicker.
type FilePickerFunc func(ctx context.Context, accept string) (*File, error)

// PickFile implements FilePicker.
func (f FilePickerFunc) PickFile(ctx context.Context, accept string) (*File, error) {
	return f(ctx, accept)
}

// PathChooser asks the user for a path. An empty path means cancelled.
type PathChooser func(ctx context.Context, accept string) (string, error)

// FsPicker is a FilePicker reading the chosen path from an afero filesystem.
type FsPicker struct {
	fs     afero.Fs
	choose PathChooser
}

// NewFsPicker creates a picker over fs. A nil fs uses the OS filesystem.
func NewFsPicker(fs afero.Fs, choose PathChooser) *FsPicker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FsPicker{fs: fs, choose: choose}
}

type chooseResult struct {
	path string
	err  error
}

// PickFile implements FilePicker. The chooser runs on its own goroutine so a
// prompt that ignores ctx still lets PickFile return when ctx is done.
func (p *FsPicker) PickFile(ctx context.Context, accept string) (*File, error) {
	ch := make(chan chooseResult, 1)
	go func() {
		path, err := p.choose(ctx, accept)
		ch <- chooseResult{path: path, err: err}
	}()

	var res chooseResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("file picker: %w", ctx.Err())
	case res = <-ch:
	}
	if res.err != nil {
		return nil, res.err
	}
	if res.path == "" {
		return nil, ErrPickerCancelled
	}

	data, err := afero.ReadFile(p.fs, res.path)
	if err != nil {
		return nil, err
	}

	mediaType := MediaTypeOf(res.path, data)
	if !MatchAccept(accept, mediaType) {
		return nil, fmt.Errorf("%w: %s is %q, want %q", ErrRejectedFile, filepath.Base(res.path), mediaType, accept)
	}

	return &File{
		Name: filepath.Base(res.path),
		MIME: mediaType,
		Data: data,
	}, nil
}

var mediaExtensions = map[string]string{
	".bmp":  "image/bmp",
	".flac": "audio/flac",
	".ivf":  "video/x-ivf",
	".m4a":  "audio/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".wav":  "audio/wav",
	".webp": "image/webp",
}

// MediaTypeOf returns the media type of a file from its extension, falling
// back to content sniffing.
func MediaTypeOf(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := mediaExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	mt, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

// MatchAccept reports whether mediaType satisfies a comma-separated accept
// list such as "image/*" or "video/mp4,video/webm".
func MatchAccept(accept, mediaType string) bool {
	if accept == "" {
		return true
	}
	for _, pattern := range strings.Split(accept, ",") {
		pattern = strings.TrimSpace(pattern)
		switch {
		case pattern == "*/*" || pattern == mediaType:
			return true
		case strings.HasSuffix(pattern, "/*"):
			if strings.HasPrefix(mediaType, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		}
	}
	return false
}

func acceptFor(kind SourceKind) (string, error) {
	switch kind {
	case SourceKindImageFile:
		return AcceptImage, nil
	case SourceKindVideoFile:
		return AcceptVideo, nil
	case SourceKindAudioFile:
		return AcceptAudio, nil
	default:
		return "", fmt.Errorf("%w: %s is not a file kind", ErrKindMismatch, kind)
	}
}
