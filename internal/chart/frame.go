package chart

// FrameHandle identifies a requested frame callback. The zero value never
// identifies a pending request.
type FrameHandle uint64

// FrameScheduler is the host's per-frame redraw signal.
type FrameScheduler interface {
	// RequestFrame schedules fn to run on the next frame.
	RequestFrame(fn func()) FrameHandle
	// CancelFrame drops a pending request. Unknown handles are ignored.
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle    FrameHandle
	fn        func()
	cancelled bool
}

// FrameLoop is a cooperative FrameScheduler. The host calls Fire once per
// display refresh; callbacks run in the order they were requested, and
// callbacks requested while firing wait for the next Fire.
type FrameLoop struct {
	last    FrameHandle
	pending []*frameRequest
	byID    map[FrameHandle]*frameRequest
}

// NewFrameLoop creates an empty frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{byID: make(map[FrameHandle]*frameRequest)}
}

func (l *FrameLoop) RequestFrame(fn func()) FrameHandle {
	l.last++
	req := &frameRequest{handle: l.last, fn: fn}
	l.pending = append(l.pending, req)
	l.byID[req.handle] = req
	return req.handle
}

func (l *FrameLoop) CancelFrame(h FrameHandle) {
	req, ok := l.byID[h]
	if !ok {
		return
	}
	req.cancelled = true
	delete(l.byID, h)
}

// Pending returns the number of callbacks waiting for the next Fire.
func (l *FrameLoop) Pending() int {
	return len(l.byID)
}

// Fire runs every callback requested before this call and returns how many
// ran. A callback cancelled by an earlier callback in the same batch is
// skipped.
func (l *FrameLoop) Fire() int {
	batch := l.pending
	l.pending = nil

	ran := 0
	for _, req := range batch {
		if req.cancelled {
			continue
		}
		delete(l.byID, req.handle)
		req.fn()
		ran++
	}
	return ran
}
