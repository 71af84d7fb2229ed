package monitor

// history is a fixed-capacity circular buffer over (loss, val) pairs with
// oldest-first eviction. Both series always hold the same number of
// entries: min(epochs observed, capacity).
type history struct {
	loss     []float64
	val      []float64
	head     int // index of oldest element
	size     int // current number of elements
	capacity int
}

func newHistory(capacity int) *history {
	return &history{
		loss:     make([]float64, capacity),
		val:      make([]float64, capacity),
		capacity: capacity,
	}
}

// Record appends one observation pair, evicting the oldest pair when the
// window is full. Any finite value is accepted.
func (h *history) Record(loss, val float64) {
	tail := (h.head + h.size) % h.capacity
	h.loss[tail] = loss
	h.val[tail] = val
	if h.size < h.capacity {
		h.size++
	} else {
		// Window is full, advance head to evict the oldest pair.
		h.head = (h.head + 1) % h.capacity
	}
}

// Warm reports whether the window has reached its configured size.
func (h *history) Warm() bool {
	return h.size == h.capacity
}

// Len returns the current number of recorded pairs.
func (h *history) Len() int {
	return h.size
}

// Losses returns the loss series in insertion order, oldest first.
func (h *history) Losses() []float64 {
	return h.ordered(h.loss)
}

// Validations returns the validation series in insertion order, oldest first.
func (h *history) Validations() []float64 {
	return h.ordered(h.val)
}

func (h *history) ordered(series []float64) []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = series[(h.head+i)%h.capacity]
	}
	return out
}

// Clear empties both series without reallocating.
func (h *history) Clear() {
	h.head = 0
	h.size = 0
}
