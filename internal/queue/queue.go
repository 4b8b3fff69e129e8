// Package queue holds the ordered tracks of an opened playlist.
package queue

import "github.com/olivier-w/wavescope/internal/media"

// TrackState is the playback state of a track.
type TrackState int

const (
	Pending TrackState = iota
	Playing
	Done
	Failed
)

// Track is a single item in the queue.
type Track struct {
	Title string
	Path  string
	State TrackState
}

// Queue manages an ordered list of tracks for playlist playback.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks  []Track
	current int
}

// New creates a Queue from the given tracks.
func New(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// FromEntries builds a queue from playlist entries.
func FromEntries(entries []media.Entry) *Queue {
	tracks := make([]Track, len(entries))
	for i, e := range entries {
		tracks[i] = Track{Title: e.Title, Path: e.Path}
	}
	return New(tracks)
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	if q.current < 0 || q.current >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.current]
}

// Next returns the track after the current one, or nil at the end.
func (q *Queue) Next() *Track {
	i := q.current + 1
	if i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}

// Advance moves the current index forward by one. Returns false if already at end.
func (q *Queue) Advance() bool {
	if q.current+1 >= len(q.tracks) {
		return false
	}
	q.current++
	return true
}

// Previous moves the current index back by one. Returns false if already at start.
func (q *Queue) Previous() bool {
	if q.current <= 0 {
		return false
	}
	q.current--
	return true
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetState updates the state of the current track.
func (q *Queue) SetState(state TrackState) {
	if t := q.Current(); t != nil {
		t.State = state
	}
}

// Rewind moves back to the first track.
func (q *Queue) Rewind() {
	q.current = 0
}

// SetCurrentIndex moves to track i. Out of range indexes are ignored.
func (q *Queue) SetCurrentIndex(i int) {
	if i >= 0 && i < len(q.tracks) {
		q.current = i
	}
}
