// Package localstream provides getUserMedia-style capture helpers in Go that
// turn host capture results into normalized source items.
//
// Key pieces include:
//   - MediaDevices/DeviceProvider (enumerateDevices, getUserMedia, getDisplayMedia)
//   - MediaStream/MediaStreamTrack handles returned by the host
//   - Normalizer: image, video and audio files, device streams and screen
//     captures mapped to one SourceItem sum type with id, name and geometry
//   - Catalog: the ordered list of MediaItems a caller can start capturing
//
// # Architecture
//
//	Devices:  LocalStream.GetMediaTrack -> MediaDevices.GetUserMedia -> Normalizer
//	Screen:   LocalStream.GetDisplay    -> MediaDevices.GetDisplayMedia -> Normalizer
//	Files:    LocalStream.LoadFile      -> FilePicker -> FileDecoder -> Normalizer
//	Catalog:  LocalStream.GetMediaList  -> []MediaItem (acquisition deferred)
//
// # Host capabilities
//
// Every platform facility is an interface injected through Host: MediaDevices,
// FilePicker, GeometryProber and FileDecoder. Nil fields fall back to the
// registry-backed MediaDevices, the frame-reading StreamProber and the built-in
// FileDecoder. PatternProvider is a synthetic DeviceProvider with color-bar
// cameras, sine-tone microphones and display capture.
//
// # Bounded waits
//
// Geometry probes and file picking run under Config.ProbeTimeout and
// Config.PickTimeout, so every call settles even when the host never signals.
package localstream
