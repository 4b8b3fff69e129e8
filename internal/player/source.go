package player

import (
	"io"
	"os"
	"time"
)

// Source is an audio file decoded to interleaved s16le PCM at
// OutputSampleRate with its original channel count.
type Source struct {
	path string
	file *os.File
	dec  audioDecoder
}

// Open opens path and picks a decoder by extension.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, &DecodeError{Op: "open", Path: path, Err: err}
	}
	if ch := dec.ChannelCount(); ch != 1 && ch != 2 {
		f.Close()
		return nil, &DecodeError{Op: "open", Path: path, Err: ErrUnsupportedLayout}
	}

	out, err := newResampledDecoder(dec)
	if err != nil {
		f.Close()
		return nil, &DecodeError{Op: "open", Path: path, Err: err}
	}
	return &Source{path: path, file: f, dec: out}, nil
}

func (s *Source) Read(p []byte) (int, error) { return s.dec.Read(p) }

func (s *Source) Seek(offset int64, whence int) (int64, error) {
	return s.dec.Seek(offset, whence)
}

// Path returns the file the source was opened from.
func (s *Source) Path() string { return s.path }

// Channels returns 1 or 2.
func (s *Source) Channels() int { return s.dec.ChannelCount() }

// Length returns the decoded size in bytes.
func (s *Source) Length() int64 { return s.dec.Length() }

// BytesPerSecond is the PCM byte rate of Read.
func (s *Source) BytesPerSecond() int {
	return OutputSampleRate * s.Channels() * 2
}

// Duration returns the total playing time.
func (s *Source) Duration() time.Duration {
	return bytesToDuration(s.Length(), s.BytesPerSecond())
}

// Close releases the file.
func (s *Source) Close() error {
	return s.file.Close()
}

func bytesToDuration(n int64, bytesPerSec int) time.Duration {
	if bytesPerSec <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}

var _ io.ReadSeeker = (*Source)(nil)
