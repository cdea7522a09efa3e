package interpreter

import "sync"

// ReleaseQueue holds the releases requested by cleanups of script-side
// wrappers. Cleanups run on a runtime goroutine; the releases they push are
// performed by Drain on the interpreter goroutine, at the next boundary
// crossing or garbage collection request.
type ReleaseQueue struct {
	mu      sync.Mutex
	pending []func()
}

// Push queues fn. It is safe to call from any goroutine.
func (q *ReleaseQueue) Push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of queued releases.
func (q *ReleaseQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain performs the queued releases in order and returns their number.
func (q *ReleaseQueue) Drain() int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}
