package chart

// renderer is implemented by the concrete charts that wrap an Animator.
type renderer interface {
	// innerReset recomputes derived geometry from the current options and
	// the sample source's resolution.
	innerReset()
	// draw pulls one frame and renders it.
	draw()
}

// Animator holds the lifecycle shared by every chart: frame scheduling,
// start/stop/reset, option patches and propagation to linked charts.
//
// Linked charts mirror the parent's lifecycle and the subset of its options
// named by the linked keys. Link order is draw order: a linked chart draws
// before its parent on every frame, so charts sharing a canvas with a
// background chart must be linked to it first.
type Animator[O any, P Patch[O, P]] struct {
	frames     FrameScheduler
	handle     FrameHandle
	active     bool
	opts       O
	linkedKeys KeySet
	linked     []Linkable[P]
	patchOf    func(O) P
	r          renderer
	tick       func()
}

func newAnimator[O any, P Patch[O, P]](frames FrameScheduler, opts O, linkedKeys KeySet, patchOf func(O) P, r renderer) *Animator[O, P] {
	a := &Animator[O, P]{
		frames:     frames,
		opts:       opts,
		linkedKeys: linkedKeys,
		patchOf:    patchOf,
		r:          r,
	}
	a.tick = a.animate
	return a
}

// IsActive reports whether the frame loop is running.
func (a *Animator[O, P]) IsActive() bool {
	return a.active
}

// Options returns a copy of the current options.
func (a *Animator[O, P]) Options() O {
	return a.opts
}

// Linked returns the linked charts in link order.
func (a *Animator[O, P]) Linked() []Linkable[P] {
	out := make([]Linkable[P], len(a.linked))
	copy(out, a.linked)
	return out
}

func (a *Animator[O, P]) animate() {
	if a.active {
		a.handle = a.frames.RequestFrame(a.tick)
	}
	a.r.draw()
}

func (a *Animator[O, P]) resetAnimation() {
	if a.handle != 0 {
		a.frames.CancelFrame(a.handle)
		a.handle = 0
	}
	a.handle = a.frames.RequestFrame(a.tick)
}

// Reset recomputes geometry here and in every linked chart without changing
// activity.
func (a *Animator[O, P]) Reset() {
	a.r.innerReset()
	for _, c := range a.linked {
		c.Reset()
	}
}

// Start begins the frame loop. Linked charts are started first and the
// first frame is drawn before Start returns. Starting an active chart does
// nothing.
func (a *Animator[O, P]) Start() {
	if a.active {
		return
	}

	a.r.innerReset()
	a.active = true
	for _, c := range a.linked {
		c.Start()
	}

	a.animate()
}

// Stop cancels the pending frame and stops linked charts. Stopping an
// inactive chart does nothing.
func (a *Animator[O, P]) Stop() {
	if !a.active {
		return
	}

	a.active = false
	if a.handle != 0 {
		a.frames.CancelFrame(a.handle)
		a.handle = 0
	}
	for _, c := range a.linked {
		c.Stop()
	}
}

// Link attaches c as a dependent. c immediately receives the linked subset
// of the current options and takes over this chart's activity.
func (a *Animator[O, P]) Link(c Linkable[P]) {
	a.linked = append(a.linked, c)

	c.SetOptions(a.patchOf(a.opts).Only(a.linkedKeys))

	if a.active {
		c.Start()
		a.resetAnimation()
	} else {
		c.Stop()
	}
}

// Unlink detaches the first occurrence of c and stops it. c is stopped even
// if it was not linked.
func (a *Animator[O, P]) Unlink(c Linkable[P]) {
	for i, l := range a.linked {
		if l == c {
			a.linked = append(a.linked[:i], a.linked[i+1:]...)
			break
		}
	}

	c.Stop()
}

// SetOptions applies the defined fields of p, resets geometry and forwards
// the linked subset of p to every linked chart.
func (a *Animator[O, P]) SetOptions(p P) {
	p.ApplyTo(&a.opts)
	a.r.innerReset()

	forward := p.Only(a.linkedKeys)
	for _, c := range a.linked {
		c.SetOptions(forward)
	}
}

// UpdateOptions feeds fn(current options) into SetOptions.
func (a *Animator[O, P]) UpdateOptions(fn func(current O) P) {
	a.SetOptions(fn(a.opts))
}
