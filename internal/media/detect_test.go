package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg", ".aif", ".AIFF"} {
		assert.True(t, IsSupportedExt(ext), ext)
	}
	for _, ext := range []string{".m4a", ".aac", ".txt", ""} {
		assert.False(t, IsSupportedExt(ext), ext)
	}
}

func TestIsBrowsable(t *testing.T) {
	assert.True(t, IsBrowsable(".m3u8"))
	assert.True(t, IsBrowsable(".ogg"))
	assert.False(t, IsBrowsable(".png"))
}

func TestSupportedExtsList(t *testing.T) {
	assert.Equal(t, ".aif, .aiff, .flac, .mp3, .ogg, .wav", SupportedExtsList())
}
