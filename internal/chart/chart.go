// Package chart implements animated charts that pull a sample frame from a
// SampleSource on every display frame and draw it onto a Canvas.
//
// Charts are driven by a FrameScheduler and are not safe for concurrent use:
// every method, including the draw callbacks fired by the scheduler, must run
// on the same goroutine.
package chart

// Chart is the lifecycle surface that controllers use.
type Chart interface {
	IsActive() bool
	Start()
	Stop()
	Reset()
}

// Linkable is a chart that can follow a parent chart of the same kind.
type Linkable[P any] interface {
	Chart
	SetOptions(p P)
}

// Configurable is the options and linking surface of a chart with options O
// and patches P.
type Configurable[O any, P any] interface {
	Linkable[P]
	UpdateOptions(fn func(current O) P)
	Link(c Linkable[P])
	Unlink(c Linkable[P])
}

// OptionKey names a single chart option.
type OptionKey string

// KeySet is a set of option keys.
type KeySet map[OptionKey]struct{}

// Keys builds a KeySet.
func Keys(keys ...OptionKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set. A nil set contains nothing.
func (s KeySet) Has(k OptionKey) bool {
	_, ok := s[k]
	return ok
}

// Patch is a partial update of an options record O. Undefined fields are nil
// and leave the stored option untouched.
type Patch[O any, P any] interface {
	ApplyTo(o *O)
	// Only returns a copy of the patch restricted to keys.
	Only(keys KeySet) P
}

// Opt returns a pointer to v, for building patches inline.
func Opt[T any](v T) *T {
	return &v
}

func only[T any](keys KeySet, k OptionKey, v *T) *T {
	if v == nil || !keys.Has(k) {
		return nil
	}
	return v
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
