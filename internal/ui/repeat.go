package ui

// RepeatMode is what happens when a track ends.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	// RepeatAll wraps a playlist back to its first track.
	RepeatAll
)

// Next cycles off, one, all. Without a playlist there is nothing to wrap,
// so all is skipped.
func (r RepeatMode) Next(hasQueue bool) RepeatMode {
	switch r {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		if hasQueue {
			return RepeatAll
		}
	}
	return RepeatOff
}

func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// Icon returns the status line marker for the mode.
func (r RepeatMode) Icon() string {
	switch r {
	case RepeatOne:
		return "[repeat]"
	case RepeatAll:
		return "[repeat all]"
	default:
		return ""
	}
}
