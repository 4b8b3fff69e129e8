package audio

import "sync"

// RingBuffer is a thread-safe circular sample buffer.
type RingBuffer struct {
	buf  []float64
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// NewRingBuffer creates a ring buffer holding up to size samples.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]float64, size),
		size: size,
	}
}

// Write appends samples, overwriting the oldest once full.
func (rb *RingBuffer) Write(p []float64) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(p) > rb.size {
		p = p[len(p)-rb.size:]
	}
	for _, v := range p {
		rb.buf[rb.w] = v
		rb.w = (rb.w + 1) % rb.size
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
}

// Latest fills dst with the len(dst) most recent samples, oldest first.
// When fewer samples have been written the front of dst is zeroed.
func (rb *RingBuffer) Latest(dst []float64) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := min(len(dst), rb.len)
	pad := len(dst) - n
	clear(dst[:pad])

	start := (rb.w - n + rb.size) % rb.size
	for i := range n {
		dst[pad+i] = rb.buf[(start+i)%rb.size]
	}
}

// Len returns the number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear resets the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
}
