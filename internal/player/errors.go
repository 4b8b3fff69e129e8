package player

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidWAV is returned when a .wav file has no valid RIFF header.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrInvalidAIFF is returned when an .aiff file has no valid FORM header.
	ErrInvalidAIFF = errors.New("invalid AIFF file")

	// ErrUnsupportedLayout is returned for channel counts or bit depths the
	// decoders cannot convert.
	ErrUnsupportedLayout = errors.New("unsupported sample layout")
)

// DecodeError wraps a decoder failure with the file it happened on.
type DecodeError struct {
	Op   string // "open", "decode", "seek"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
