// Package config holds the runtime settings shared by the TUI and snapshot
// modes.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/logger"
)

// Config is the full set of command line settings.
type Config struct {
	FFTSize     int
	DrawLines   int // waveform rows
	DrawSamples int // frames across all rows
	FrameRate   int // redraws per second

	LogLevel  slog.Level
	LogFormat string
	LogFile   string

	Tone          bool
	ToneFrequency float64

	Snapshot       string // PNG output path; empty runs the TUI
	SnapshotFrames int
	SnapshotWidth  int
	SnapshotHeight int
}

// Defaults returns the default configuration, with the log level taken from
// the environment.
func Defaults() Config {
	lc := logger.DefaultConfig()
	return Config{
		FFTSize:        audio.DefaultFFTSize,
		DrawLines:      4,
		DrawSamples:    8,
		FrameRate:      30,
		LogLevel:       lc.Level,
		LogFormat:      lc.Format,
		ToneFrequency:  440,
		SnapshotFrames: 60,
		SnapshotWidth:  1024,
		SnapshotHeight: 256,
	}
}

// FrameInterval is the time between redraws.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// ValidationError reports a setting outside its accepted range.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

func invalid(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Validate checks every setting and returns the first violation.
func (c Config) Validate() error {
	switch {
	case !audio.ValidFFTSize(c.FFTSize):
		return invalid("fft-size", c.FFTSize,
			fmt.Sprintf("must be a power of two between %d and %d", audio.MinFFTSize, audio.MaxFFTSize))
	case c.DrawLines < 1:
		return invalid("lines", c.DrawLines, "must be at least 1")
	case c.DrawSamples < c.DrawLines:
		return invalid("samples", c.DrawSamples, "must be at least the number of lines")
	case c.FrameRate < 1 || c.FrameRate > 120:
		return invalid("fps", c.FrameRate, "must be between 1 and 120")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log-format", c.LogFormat, `must be "text" or "json"`)
	case c.ToneFrequency <= 0:
		return invalid("tone-frequency", c.ToneFrequency, "must be positive")
	}
	if c.Snapshot != "" {
		switch {
		case c.SnapshotFrames < 1:
			return invalid("frames", c.SnapshotFrames, "must be at least 1")
		case c.SnapshotWidth < 1:
			return invalid("width", c.SnapshotWidth, "must be positive")
		case c.SnapshotHeight < 2:
			return invalid("height", c.SnapshotHeight, "must be at least 2")
		}
	}
	return nil
}
