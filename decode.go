package localstream

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/abema/go-mp4"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/tphakala/flac"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when a file's container is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported media format")

// VideoInfo describes a video file's container and picture size.
type VideoInfo struct {
	Container string // "mp4" or "ivf"
	Codec     VideoCodec
	Width     int
	Height    int
}

// AudioInfo describes a validated audio file.
type AudioInfo struct {
	Format     string // "wav", "flac" or "mp3"
	SampleRate int
	Channels   int
	BitDepth   int
}

// FileDecoder decodes enough of a file to measure and validate it.
type FileDecoder interface {
	// DecodeImage decodes a still image.
	DecodeImage(ctx context.Context, f *File) (image.Image, error)

	// DecodeVideo reads a video file's natural size from its container.
	DecodeVideo(ctx context.Context, f *File) (VideoInfo, error)

	// DecodeAudio validates an audio file and reads its stream format.
	DecodeAudio(ctx context.Context, f *File) (AudioInfo, error)
}

// ContainerDecoder is the built-in FileDecoder. Images go through the image
// package (PNG, JPEG, GIF, BMP, WebP), video through MP4/MOV track headers or
// IVF file headers, and audio through WAV, FLAC and MP3 decoders.
type ContainerDecoder struct{}

// NewFileDecoder creates the built-in FileDecoder.
func NewFileDecoder() *ContainerDecoder {
	return &ContainerDecoder{}
}

// DecodeImage implements FileDecoder.
func (d *ContainerDecoder) DecodeImage(ctx context.Context, f *File) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeVideo implements FileDecoder.
func (d *ContainerDecoder) DecodeVideo(ctx context.Context, f *File) (VideoInfo, error) {
	if err := ctx.Err(); err != nil {
		return VideoInfo{}, err
	}
	switch {
	case isIVF(f.Data):
		return readIVFInfo(f.Data)
	case isISOBMFF(f.Data):
		return readMP4Info(f.Data)
	default:
		return VideoInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Name)
	}
}

// DecodeAudio implements FileDecoder.
func (d *ContainerDecoder) DecodeAudio(ctx context.Context, f *File) (AudioInfo, error) {
	if err := ctx.Err(); err != nil {
		return AudioInfo{}, err
	}
	switch {
	case isWAV(f.Data):
		return readWAVInfo(f.Data)
	case isFLAC(f.Data):
		return readFLACInfo(f.Data)
	case isMP3(f.Data):
		return readMP3Info(f.Data)
	default:
		return AudioInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Name)
	}
}

// IVF: 32-byte header, "DKIF" signature, header length at 6, FourCC at 8,
// width/height as little-endian uint16 at 12 and 14. Each frame has a 12-byte
// header.
func isIVF(data []byte) bool {
	return len(data) >= 32 && string(data[0:4]) == "DKIF"
}

func readIVFInfo(data []byte) (VideoInfo, error) {
	codec := VideoCodecFromFourCC(string(data[8:12]))
	if codec == VideoCodecUnknown {
		if first := int(binary.LittleEndian.Uint16(data[6:8])) + 12; first < len(data) {
			codec = DetectVideoCodec(data[first:])
		}
	}
	return VideoInfo{
		Container: "ivf",
		Codec:     codec,
		Width:     int(binary.LittleEndian.Uint16(data[12:14])),
		Height:    int(binary.LittleEndian.Uint16(data[14:16])),
	}, nil
}

// isISOBMFF checks for an ftyp box at the start of an MP4/MOV file.
func isISOBMFF(data []byte) bool {
	return len(data) >= 12 && string(data[4:8]) == "ftyp"
}

func readMP4Info(data []byte) (VideoInfo, error) {
	boxes, err := mp4.ExtractBoxWithPayload(bytes.NewReader(data), nil, mp4.BoxPath{
		mp4.BoxTypeMoov(),
		mp4.BoxTypeTrak(),
		mp4.BoxTypeTkhd(),
	})
	if err != nil {
		return VideoInfo{}, err
	}

	for _, box := range boxes {
		tkhd, ok := box.Payload.(*mp4.Tkhd)
		if !ok {
			continue
		}
		// Track header sizes are 16.16 fixed point; audio tracks are 0x0.
		width, height := int(tkhd.Width>>16), int(tkhd.Height>>16)
		if width > 0 && height > 0 {
			return VideoInfo{Container: "mp4", Codec: readMP4Codec(data), Width: width, Height: height}, nil
		}
	}
	return VideoInfo{}, fmt.Errorf("mp4: %w", ErrNoVideoTrack)
}

// readMP4Codec returns the codec of the first video sample entry.
func readMP4Codec(data []byte) VideoCodec {
	entries, err := mp4.ExtractBox(bytes.NewReader(data), nil, mp4.BoxPath{
		mp4.BoxTypeMoov(),
		mp4.BoxTypeTrak(),
		mp4.BoxTypeMdia(),
		mp4.BoxTypeMinf(),
		mp4.BoxTypeStbl(),
		mp4.BoxTypeStsd(),
		mp4.BoxTypeAny(),
	})
	if err != nil {
		return VideoCodecUnknown
	}
	for _, entry := range entries {
		if codec := VideoCodecFromFourCC(entry.Type.String()); codec != VideoCodecUnknown {
			return codec
		}
	}
	return VideoCodecUnknown
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func readWAVInfo(data []byte) (AudioInfo, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return AudioInfo{}, errors.New("invalid WAV file format")
	}
	return AudioInfo{
		Format:     "wav",
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}, nil
}

func isFLAC(data []byte) bool {
	return len(data) >= 4 && string(data[0:4]) == "fLaC"
}

func readFLACInfo(data []byte) (AudioInfo, error) {
	decoder, err := flac.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return AudioInfo{}, err
	}
	return AudioInfo{
		Format:     "flac",
		SampleRate: decoder.SampleRate,
		Channels:   decoder.NChannels,
		BitDepth:   decoder.BitsPerSample,
	}, nil
}

// isMP3 accepts an ID3v2 tag or a bare MPEG Audio Layer III frame sync.
func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	if len(data) < 4 {
		return false
	}
	if data[0] != 0xFF || (data[1]&0xE0) != 0xE0 {
		return false
	}
	layer := (data[1] >> 1) & 0x03
	return layer == 1
}

func readMP3Info(data []byte) (AudioInfo, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return AudioInfo{}, err
	}
	defer streamer.Close()

	return AudioInfo{
		Format:     "mp3",
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		BitDepth:   format.Precision * 8,
	}, nil
}
