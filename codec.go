package localstream

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

// VideoCodec identifies the compression of a video file's track.
type VideoCodec int

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecH264
	VideoCodecH265
	VideoCodecAV1
)

func (c VideoCodec) String() string {
	switch c {
	case VideoCodecVP8:
		return "VP8"
	case VideoCodecVP9:
		return "VP9"
	case VideoCodecH264:
		return "H264"
	case VideoCodecH265:
		return "H265"
	case VideoCodecAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// MimeType returns the WebRTC media type of the codec, or "" if unknown.
func (c VideoCodec) MimeType() string {
	switch c {
	case VideoCodecVP8:
		return webrtc.MimeTypeVP8
	case VideoCodecVP9:
		return webrtc.MimeTypeVP9
	case VideoCodecH264:
		return webrtc.MimeTypeH264
	case VideoCodecH265:
		return "video/H265"
	case VideoCodecAV1:
		return webrtc.MimeTypeAV1
	default:
		return ""
	}
}

// VideoCodecFromFourCC maps an IVF FourCC or an ISOBMFF sample entry type to
// a codec.
func VideoCodecFromFourCC(fourcc string) VideoCodec {
	switch strings.ToLower(strings.TrimSpace(fourcc)) {
	case "vp80", "vp08":
		return VideoCodecVP8
	case "vp90", "vp09":
		return VideoCodecVP9
	case "h264", "avc1", "avc3":
		return VideoCodecH264
	case "h265", "hevc", "hvc1", "hev1":
		return VideoCodecH265
	case "av01":
		return VideoCodecAV1
	default:
		return VideoCodecUnknown
	}
}

// DetectVideoCodec guesses the codec of a single compressed frame. It
// recognizes H.264 Annex-B access units, VP8 key frames and AV1 OBUs.
func DetectVideoCodec(frame []byte) VideoCodec {
	switch {
	case len(frame) < 4:
		return VideoCodecUnknown
	case isAnnexB(frame):
		if nal := annexBNALType(frame); (nal >= 1 && nal <= 12) || (nal >= 19 && nal <= 21) {
			return VideoCodecH264
		}
	case isVP8Keyframe(frame):
		return VideoCodecVP8
	case isAV1OBU(frame):
		return VideoCodecAV1
	}
	return VideoCodecUnknown
}

func isAnnexB(data []byte) bool {
	return data[0] == 0 && data[1] == 0 && (data[2] == 1 || (data[2] == 0 && data[3] == 1))
}

func annexBNALType(data []byte) byte {
	offset := 3
	if data[2] == 0 {
		offset = 4
	}
	if len(data) <= offset {
		return 0
	}
	return data[offset] & 0x1F
}

// A VP8 key frame has bit 0 of the frame tag clear and the 0x9D012A start
// code after the 3-byte tag.
func isVP8Keyframe(data []byte) bool {
	return len(data) >= 10 && data[0]&0x01 == 0 &&
		data[3] == 0x9D && data[4] == 0x01 && data[5] == 0x2A
}

// An AV1 OBU header has the forbidden bit clear and type 1-8 or 15.
func isAV1OBU(data []byte) bool {
	if data[0]&0x80 != 0 {
		return false
	}
	obuType := (data[0] >> 3) & 0x0F
	return (obuType >= 1 && obuType <= 8) || obuType == 15
}
