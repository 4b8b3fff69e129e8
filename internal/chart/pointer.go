package chart

// PointerListener receives pointer interaction over a canvas.
type PointerListener interface {
	PointerDown()
	// PointerMove reports the horizontal movement since the previous event,
	// in canvas units.
	PointerMove(dx float64)
	PointerUp()
}

// PointerSource lets charts subscribe to pointer events while they run.
type PointerSource interface {
	AddPointerListener(l PointerListener) (remove func())
}

// PointerHub fans host pointer events out to its listeners in subscription
// order.
type PointerHub struct {
	next      int
	ids       []int
	listeners map[int]PointerListener
}

// NewPointerHub creates a hub with no listeners.
func NewPointerHub() *PointerHub {
	return &PointerHub{listeners: make(map[int]PointerListener)}
}

func (h *PointerHub) AddPointerListener(l PointerListener) func() {
	h.next++
	id := h.next
	h.ids = append(h.ids, id)
	h.listeners[id] = l

	return func() {
		if _, ok := h.listeners[id]; !ok {
			return
		}
		delete(h.listeners, id)
		for i, v := range h.ids {
			if v == id {
				h.ids = append(h.ids[:i], h.ids[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of subscribed listeners.
func (h *PointerHub) Len() int {
	return len(h.ids)
}

func (h *PointerHub) each(fn func(PointerListener)) {
	ids := append([]int(nil), h.ids...)
	for _, id := range ids {
		if l, ok := h.listeners[id]; ok {
			fn(l)
		}
	}
}

func (h *PointerHub) Down() { h.each(func(l PointerListener) { l.PointerDown() }) }
func (h *PointerHub) Up()   { h.each(func(l PointerListener) { l.PointerUp() }) }

func (h *PointerHub) Move(dx float64) {
	h.each(func(l PointerListener) { l.PointerMove(dx) })
}
