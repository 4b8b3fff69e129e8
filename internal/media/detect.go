// Package media classifies files by extension and reads playlists.
package media

import (
	"slices"
	"strings"
)

// audioExts lists the extensions internal/player can decode.
var audioExts = []string{".aif", ".aiff", ".flac", ".mp3", ".ogg", ".wav"}

var playlistExts = []string{".m3u", ".m3u8", ".pls"}

// IsSupportedExt reports whether ext is a playable audio format.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// IsPlaylistExt reports whether ext is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return slices.Contains(playlistExts, strings.ToLower(ext))
}

// IsBrowsable reports whether the file browser should list ext.
func IsBrowsable(ext string) bool {
	return IsSupportedExt(ext) || IsPlaylistExt(ext)
}

// SupportedExtsList returns a human-readable list of playable formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}
