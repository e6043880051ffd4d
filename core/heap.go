package core

import "container/heap"

// heapItem is one (priority, payload) entry plus a monotonic insertion
// sequence used to break priority ties in FIFO order.
type heapItem struct {
	priority float64
	seq      int64
	payload  string
}

// minHeap implements container/heap.Interface ordered by priority, then
// insertion sequence: a binary min-heap over (priority, insertion_seq)
// gives FIFO tie-breaking among equal priorities without needing
// per-element removal support, since qpush/qpop never remove an
// arbitrary element.
type minHeap []*heapItem

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(*heapItem))
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Heap is the keyed min-priority queue backing the `q*` commands.
type Heap struct {
	items minHeap
	seq   int64
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	h := &Heap{}
	heap.Init(&h.items)
	return h
}

// Push appends an element with the given priority.
func (h *Heap) Push(priority float64, payload string) {
	heap.Push(&h.items, &heapItem{priority: priority, seq: h.seq, payload: payload})
	h.seq++
}

// Pop removes and returns the smallest-priority payload.
func (h *Heap) Pop() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	it := heap.Pop(&h.items).(*heapItem)
	return it.payload, true
}

// PopN removes and returns up to n elements in ascending-priority order.
func (h *Heap) PopN(n int) []string {
	if n > len(h.items) {
		n = len(h.items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		it := heap.Pop(&h.items).(*heapItem)
		out = append(out, it.payload)
	}
	return out
}

// Peek returns the smallest-priority payload without removing it.
func (h *Heap) Peek() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	return h.items[0].payload, true
}

// Len returns the number of elements currently queued.
func (h *Heap) Len() int {
	return len(h.items)
}

// --- Keyspace-facing q* operations ---

func (ks *Keyspace) QPush(key string, priority float64, payload string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	h, err := ks.heapFor(key, true)
	if err != nil {
		return err
	}
	h.Push(priority, payload)
	return nil
}

func (ks *Keyspace) QPop(key string) (string, bool, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	h, err := ks.heapFor(key, false)
	if err != nil || h == nil {
		return "", false, err
	}
	v, ok := h.Pop()
	if h.Len() == 0 {
		delete(ks.m, key)
	}
	return v, ok, nil
}

func (ks *Keyspace) QPopN(key string, n int) ([]string, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	h, err := ks.heapFor(key, false)
	if err != nil || h == nil {
		return nil, err
	}
	out := h.PopN(n)
	if h.Len() == 0 {
		delete(ks.m, key)
	}
	return out, nil
}

func (ks *Keyspace) QPeek(key string) (string, bool, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	h, err := ks.heapFor(key, false)
	if err != nil || h == nil {
		return "", false, err
	}
	v, ok := h.Peek()
	return v, ok, nil
}

func (ks *Keyspace) QLen(key string) (int, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	h, err := ks.heapFor(key, false)
	if err != nil || h == nil {
		return 0, err
	}
	return h.Len(), nil
}
