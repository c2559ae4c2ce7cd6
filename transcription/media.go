package transcription

import (
	"path/filepath"
	"slices"
	"strings"
)

// SupportedMediaFormats maps transcribable file extensions to the media
// format passed to the backend.
var SupportedMediaFormats = map[string]string{
	".mp3":  "mp3",
	".wav":  "wav",
	".flac": "flac",
	".ogg":  "ogg",
	".m4a":  "m4a",
	".mp4":  "mp4",
	".mov":  "mp4",
}

var mediaContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"mp4":  "video/mp4",
}

// SupportedExtensions returns the transcribable extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(SupportedMediaFormats))
	for ext := range SupportedMediaFormats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// IsTranscribable reports whether path has a supported media extension.
// The check is case-insensitive and does not touch the filesystem.
func IsTranscribable(path string) bool {
	_, ok := SupportedMediaFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MediaFormatOf returns the media format for path, or "" when unsupported.
func MediaFormatOf(path string) string {
	return SupportedMediaFormats[strings.ToLower(filepath.Ext(path))]
}

// MediaContentType returns the MIME type sent when uploading path, or ""
// when unsupported.
func MediaContentType(path string) string {
	return mediaContentTypes[MediaFormatOf(path)]
}
