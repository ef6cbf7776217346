package localstream

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabLabelPrefix marks capture tracks that come from a browser tab.
const tabLabelPrefix = "web"

// ReadableName returns the device label, or "{Kind} {Subkind} {counter}" when
// the host hides labels (e.g. "Audio Input 7" for an unlabeled microphone).
func ReadableName(device DeviceInfo, counter int) string {
	if device.Label != "" {
		return device.Label
	}
	family, rest := splitDeviceKind(device.Kind.String())
	if rest == "" {
		return fmt.Sprintf("%s %d", upperFirst(family), counter)
	}
	return fmt.Sprintf("%s %s %d", upperFirst(family), upperFirst(rest), counter)
}

func splitDeviceKind(kind string) (string, string) {
	for _, family := range []string{"audio", "video"} {
		if rest, ok := strings.CutPrefix(kind, family); ok && rest != "" {
			return family, rest
		}
	}
	return kind, ""
}

// CaptureName returns the display name of a screen capture from its video
// track label, formatted "{source}:{identifier}" by the host. Only the first
// two colon-separated fields count; anything after a second colon is ignored.
//
//	"screen:0"                           -> "Screen 0"
//	"window:2434:0"                      -> "Window 2434"
//	"web-contents-media-stream://1234:5" -> "Tab 1234"
func CaptureName(label string) string {
	if label == "" {
		return "Screen Capture"
	}
	fields := strings.Split(label, ":")
	source, identifier := fields[0], ""
	if len(fields) > 1 {
		identifier = fields[1]
	}

	var name, tag string
	if strings.HasPrefix(source, tabLabelPrefix) {
		name = "Tab"
		tag = lastRunes(strings.ReplaceAll(identifier, "/", ""), 5)
	} else {
		name = upperFirst(source)
		tag = identifier
	}
	if name == "" {
		name = "Screen"
	}
	if tag == "" {
		return name
	}
	return name + " " + tag
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
