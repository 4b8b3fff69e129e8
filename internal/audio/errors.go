package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFFTSize means the size is not a power of two in
	// [MinFFTSize, MaxFFTSize].
	ErrInvalidFFTSize = errors.New("invalid fft size")

	// ErrUnknownFilterType means the name matches none of FilterTypes.
	ErrUnknownFilterType = errors.New("unknown filter type")

	// ErrInvalidChannel means a channel index other than Left or Right.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrUnsupportedLayout means an input with other than one or two channels.
	ErrUnsupportedLayout = errors.New("unsupported channel layout")
)

// ParamError reports a parameter value outside its allowed range.
type ParamError struct {
	Param string
	Value float64
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Param, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// ErrOutOfRange is wrapped by ParamError for values outside a parameter's
// range.
var ErrOutOfRange = errors.New("value out of range")
